package harness

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/tos-network/xharness/artifact"
	"github.com/tos-network/xharness/core/types"
	"github.com/tos-network/xharness/salt"
)

var (
	errSameAddress    = errors.New("inc resolved to the flip address")
	errToggleNotSeen  = errors.New("delegated toggle did not reach flip")
	errUnexpectedFlag = errors.New("unexpected flip state")
)

// flagAfterThreeToggles is what Flip reports after flip, flip, super flip.
var flagAfterThreeToggles = []byte{0x01}

// Result is the outcome of one scenario run.
type Result struct {
	Pairing  string
	Policy   salt.Kind
	Flip     types.AccountID
	Inc      types.AccountID
	Events   int
	Duration time.Duration
	Err      error // *ScenarioError, nil on success
}

// Passed reports whether the run succeeded.
func (r *Result) Passed() bool { return r.Err == nil }

// scenario is a single run: one pairing, one salt policy, one fresh context.
type scenario struct {
	pairing Pairing
	policy  salt.Policy
	ctx     ExecutionContext
	driver  *Driver
	reader  *artifact.Reader

	flipArt, incArt *artifact.Artifact
	result          *Result
}

func (s *scenario) fail(step Step, err error) error {
	return &ScenarioError{Pairing: s.pairing.String(), Policy: s.policy.Kind(), Step: step, Err: err}
}

// run executes the scenario steps in order and stops at the first failure.
func (s *scenario) run() error {
	var err error
	if s.flipArt, err = s.reader.Read(s.pairing.Flip.Flip, s.pairing.Flip.Schema); err != nil {
		return s.fail(StepLoadArtifacts, err)
	}
	if s.incArt, err = s.reader.Read(s.pairing.Inc.Inc, s.pairing.Inc.Schema); err != nil {
		return s.fail(StepLoadArtifacts, err)
	}

	// Flip: instantiate, resolve, toggle.
	flipNew, err := s.flipArt.FindSelector(artifact.RoleConstructor, s.pairing.Flip.Constructor)
	if err != nil {
		return s.fail(StepInstantiateFlip, err)
	}
	if err := s.driver.Instantiate(Alice, s.flipArt.Code(), flipNew, s.policy.NextSalt(flipNew)); err != nil {
		return s.fail(StepInstantiateFlip, err)
	}
	flip, err := LatestInstantiatedAddress(s.ctx.Events())
	if err != nil {
		return s.fail(StepResolveFlip, err)
	}
	s.result.Flip = flip

	flipMsg, err := s.flipArt.FindSelector(artifact.RoleMessage, s.pairing.Flip.FlipMessage)
	if err != nil {
		return s.fail(StepCallFlip, err)
	}
	if err := s.driver.Call(Alice, flip, flipMsg); err != nil {
		return s.fail(StepCallFlip, err)
	}

	// Inc: the constructor input embeds the resolved Flip address, so it can
	// only be built now.
	incNew, err := s.incArt.FindSelector(artifact.RoleConstructor, s.pairing.Inc.Constructor)
	if err != nil {
		return s.fail(StepInstantiateInc, err)
	}
	incInput := append(incNew, flip.Bytes()...)
	if err := s.driver.Instantiate(Alice, s.incArt.Code(), incInput, s.policy.NextSalt(incInput)); err != nil {
		return s.fail(StepInstantiateInc, err)
	}
	inc, err := LatestInstantiatedAddress(s.ctx.Events())
	if err != nil {
		return s.fail(StepResolveInc, err)
	}
	s.result.Inc = inc
	if inc == flip {
		return s.fail(StepResolveInc, fmt.Errorf("%w: %v", errSameAddress, inc))
	}

	if err := s.driver.Call(Alice, flip, flipMsg); err != nil {
		return s.fail(StepCallFlipAgain, err)
	}

	superFlip, err := s.incArt.FindSelector(artifact.RoleMessage, s.pairing.Inc.SuperFlip)
	if err != nil {
		return s.fail(StepSuperFlip, err)
	}
	mark := len(s.ctx.Events())
	if err := s.driver.Call(Alice, inc, superFlip); err != nil {
		return s.fail(StepSuperFlip, err)
	}

	// The delegated toggle must have executed inside Flip.
	events := s.ctx.Events()
	emitted, err := LatestEmitted(events[mark:], flip)
	if err != nil {
		return s.fail(StepVerify, fmt.Errorf("%w: %v", errToggleNotSeen, err))
	}
	if !bytes.Equal(emitted, flagAfterThreeToggles) {
		return s.fail(StepVerify, fmt.Errorf("%w: emitted %x, want %x", errUnexpectedFlag, emitted, flagAfterThreeToggles))
	}
	if get, err := s.flipArt.FindSelector(artifact.RoleMessage, "get"); err == nil {
		out, err := s.ctx.DryRun(Alice, flip, get)
		if err != nil {
			return s.fail(StepVerify, err)
		}
		if !bytes.Equal(out, flagAfterThreeToggles) {
			return s.fail(StepVerify, fmt.Errorf("%w: get returned %x, want %x", errUnexpectedFlag, out, flagAfterThreeToggles))
		}
	}
	s.result.Events = len(events)
	log.Debug("Scenario steps completed", "pairing", s.pairing, "salt", s.policy.Kind(), "flip", flip, "inc", inc)
	return nil
}
