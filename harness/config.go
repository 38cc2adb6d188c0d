package harness

import (
	"time"

	"github.com/tos-network/xharness/artifact"
	"github.com/tos-network/xharness/crypto/hashing"
	"github.com/tos-network/xharness/params"
	"github.com/tos-network/xharness/salt"
)

// Defaults contains default settings for a harness run.
var Defaults = Config{
	Toolchains:  []Toolchain{ToolchainA, ToolchainB},
	Salts:       salt.AllKinds,
	Hasher:      hashing.Blake2b256Name,
	GasLimit:    params.HarnessGasLimit,
	ExecTimeout: 10 * time.Second,
	CacheSize:   artifact.DefaultCacheSize,
	Parallel:    1,
}

// Config contains the configuration options of a harness run.
type Config struct {
	// Contracts is the directory holding the toolchain bundles. When empty,
	// the embedded bundles are used.
	Contracts string `toml:",omitempty"`

	// DataDir, when set, keeps the code store of every run in its own
	// LevelDB database below this directory instead of in memory.
	DataDir string `toml:",omitempty"`

	// Toolchains lists the toolchains under test. Pairings are built from
	// the first two entries.
	Toolchains []Toolchain

	// Pairings restricts the run to the named pairings, e.g. "A->B".
	// All pairings run when empty.
	Pairings []string `toml:",omitempty"`

	// Salts lists the salt policies every pairing runs under.
	Salts []salt.Kind

	Hasher      string        // contract address hasher of the execution context
	GasLimit    uint64        // gas attached to every request
	ExecTimeout time.Duration // wall-clock bound of a single contract execution
	CacheSize   int           // parsed bundles kept in memory
	Parallel    int           // runs executed concurrently
}
