package harness

import (
	"fmt"
	"strings"

	"github.com/tos-network/xharness/artifact"
)

// Toolchain describes where a toolchain's bundles live and how its
// interface names the entries the scenario needs.
type Toolchain struct {
	Name   string // short tag used in pairings, "A" or "B"
	Label  string // toolchain name, used in reports
	Schema artifact.Schema

	Flip string // bundle paths, relative to the contracts directory
	Inc  string

	Constructor string // substring of the constructor name, for both contracts
	FlipMessage string // substring of Flip's toggle message
	SuperFlip   string // substring of Inc's delegated toggle message
}

var (
	// ToolchainA emits the flat schema.
	ToolchainA = Toolchain{
		Name:        "A",
		Label:       "ask",
		Schema:      artifact.SchemaFlat,
		Flip:        "ask/flip.contract",
		Inc:         "ask/inc.contract",
		Constructor: "new",
		FlipMessage: "flip",
		SuperFlip:   "superFlip",
	}
	// ToolchainB emits the V3 schema.
	ToolchainB = Toolchain{
		Name:        "B",
		Label:       "ink",
		Schema:      artifact.SchemaV3,
		Flip:        "ink/flipper.contract",
		Inc:         "ink/inc.contract",
		Constructor: "new",
		FlipMessage: "flip",
		SuperFlip:   "super_flip",
	}
)

// Pairing selects the toolchain that built Flip and the one that built Inc.
type Pairing struct {
	Flip Toolchain
	Inc  Toolchain
}

func (p Pairing) String() string {
	return p.Flip.Name + "->" + p.Inc.Name
}

// Pairings returns the same-toolchain pairings followed by the cross ones:
// A->A, B->B, A->B, B->A.
func Pairings(a, b Toolchain) []Pairing {
	return []Pairing{{a, a}, {b, b}, {a, b}, {b, a}}
}

// ParsePairing resolves a pairing such as "A->B" (or "A>B", "AB") against
// the known toolchains.
func ParsePairing(name string, toolchains ...Toolchain) (Pairing, error) {
	clean := strings.NewReplacer("-", "", ">", "", "→", "", " ", "").Replace(strings.ToUpper(name))
	for _, flip := range toolchains {
		for _, inc := range toolchains {
			if strings.ToUpper(flip.Name+inc.Name) == clean {
				return Pairing{flip, inc}, nil
			}
		}
	}
	return Pairing{}, fmt.Errorf("unknown pairing %q", name)
}
