package harness

import (
	"fmt"

	"github.com/tos-network/xharness/salt"
)

// Step names a stage of a scenario run.
type Step int

const (
	StepSetup Step = iota
	StepLoadArtifacts
	StepInstantiateFlip
	StepResolveFlip
	StepCallFlip
	StepInstantiateInc
	StepResolveInc
	StepCallFlipAgain
	StepSuperFlip
	StepVerify
)

var stepNames = [...]string{
	StepSetup:           "setup",
	StepLoadArtifacts:   "load artifacts",
	StepInstantiateFlip: "instantiate flip",
	StepResolveFlip:     "resolve flip",
	StepCallFlip:        "call flip",
	StepInstantiateInc:  "instantiate inc",
	StepResolveInc:      "resolve inc",
	StepCallFlipAgain:   "call flip again",
	StepSuperFlip:       "delegated flip",
	StepVerify:          "verify",
}

func (s Step) String() string {
	if int(s) < len(stepNames) {
		return stepNames[s]
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// ScenarioError reports the run and the step that failed.
type ScenarioError struct {
	Pairing string
	Policy  salt.Kind
	Step    Step
	Err     error
}

func (e *ScenarioError) Error() string {
	return fmt.Sprintf("%s/%s: %s: %v", e.Pairing, e.Policy, e.Step, e.Err)
}

func (e *ScenarioError) Unwrap() error { return e.Err }
