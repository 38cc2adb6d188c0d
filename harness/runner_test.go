package harness

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tos-network/xharness/contracts"
	"github.com/tos-network/xharness/core"
	"github.com/tos-network/xharness/core/types"
	"github.com/tos-network/xharness/salt"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	r, err := NewRunner(Defaults)
	require.NoError(t, err)
	return r
}

func TestSuiteFromDefaults(t *testing.T) {
	suite, err := SuiteFromConfig(&Defaults)
	require.NoError(t, err)
	require.Len(t, suite.Runs, 16)

	seen := make(map[string]bool)
	for _, run := range suite.Runs {
		key := run.Pairing.String() + "/" + run.Policy.String()
		assert.False(t, seen[key], "duplicate run %s", key)
		seen[key] = true
	}
	assert.Equal(t, "A->A", suite.Runs[0].Pairing.String())
	assert.Equal(t, salt.Empty, suite.Runs[0].Policy)
}

func TestSuiteFromConfigRestricted(t *testing.T) {
	config := Defaults
	config.Pairings = []string{"B->A"}
	config.Salts = []salt.Kind{salt.Nonce}
	suite, err := SuiteFromConfig(&config)
	require.NoError(t, err)
	require.Len(t, suite.Runs, 1)
	assert.Equal(t, "B->A", suite.Runs[0].Pairing.String())

	config.Pairings = []string{"A->Z"}
	_, err = SuiteFromConfig(&config)
	assert.Error(t, err)

	config.Toolchains = config.Toolchains[:1]
	_, err = SuiteFromConfig(&config)
	assert.Error(t, err)
}

func TestRunAllScenarios(t *testing.T) {
	suite, err := SuiteFromConfig(&Defaults)
	require.NoError(t, err)
	report := newTestRunner(t).Run(suite)

	assert.NotEqual(t, uuid.Nil, report.ID)
	require.Len(t, report.Results, 16)
	for _, res := range report.Results {
		require.NoError(t, res.Err, spew.Sdump(res))
		assert.NotEqual(t, res.Flip, res.Inc, "%s/%s", res.Pairing, res.Policy)
		assert.False(t, res.Flip.IsZero())
	}
	assert.Zero(t, report.Failed())
	assert.NoError(t, report.Err())
}

func TestSameToolchainEmptySalt(t *testing.T) {
	res := newTestRunner(t).RunScenario(Pairing{ToolchainA, ToolchainA}, salt.Empty)
	require.True(t, res.Passed(), "%v", res.Err)
	assert.NotEqual(t, res.Flip, res.Inc)
	assert.NotZero(t, res.Events)
}

// Empty salts are reproducible across fresh contexts.
func TestEmptySaltDeterministicAcrossContexts(t *testing.T) {
	r := newTestRunner(t)
	first := r.RunScenario(Pairing{ToolchainB, ToolchainA}, salt.Empty)
	second := r.RunScenario(Pairing{ToolchainB, ToolchainA}, salt.Empty)
	require.True(t, first.Passed(), "%v", first.Err)
	require.True(t, second.Passed(), "%v", second.Err)
	assert.Equal(t, first.Flip, second.Flip)
	assert.Equal(t, first.Inc, second.Inc)
}

// Random salts give fresh addresses every run.
func TestRandomSaltDiffersAcrossContexts(t *testing.T) {
	r := newTestRunner(t)
	first := r.RunScenario(Pairing{ToolchainA, ToolchainB}, salt.Random)
	second := r.RunScenario(Pairing{ToolchainA, ToolchainB}, salt.Random)
	require.True(t, first.Passed(), "%v", first.Err)
	require.True(t, second.Passed(), "%v", second.Err)
	assert.NotEqual(t, first.Flip, second.Flip)
}

// Instantiating the same code with the same input twice in one context only
// works for policies whose salts change between draws.
func TestRepeatedInstantiationPerPolicy(t *testing.T) {
	r := newTestRunner(t)
	art, err := r.reader.Read(ToolchainA.Flip, ToolchainA.Schema)
	require.NoError(t, err)
	input := common.FromHex("0x9bae9d5e")

	for _, kind := range salt.AllKinds {
		ctx, err := r.NewContext()
		require.NoError(t, err)
		policy, err := salt.New(kind, salt.Env{Nonces: ctx, Account: Alice, Hasher: ctx.Hasher()})
		require.NoError(t, err)
		d := NewDriver(ctx, 0)

		require.NoError(t, d.Instantiate(Alice, art.Code(), input, policy.NextSalt(input)), "%v", kind)
		first, err := LatestInstantiatedAddress(ctx.Events())
		require.NoError(t, err)

		err = d.Instantiate(Alice, art.Code(), input, policy.NextSalt(input))
		switch kind {
		case salt.Nonce, salt.Random:
			require.NoError(t, err, "%v", kind)
			second, err := LatestInstantiatedAddress(ctx.Events())
			require.NoError(t, err)
			assert.NotEqual(t, first, second, "%v", kind)
		default:
			assert.ErrorIs(t, err, core.ErrDuplicateContract, "%v", kind)
		}
	}
}

func TestMalformedArtifactFailsAtLoad(t *testing.T) {
	fsys := fstest.MapFS{}
	for _, path := range []string{ToolchainB.Flip, ToolchainB.Inc} {
		data, err := contracts.FS.ReadFile(path)
		require.NoError(t, err)
		fsys[path] = &fstest.MapFile{Data: data}
	}
	fsys[ToolchainA.Flip] = &fstest.MapFile{Data: []byte(`{"source": {}}`)}
	fsys[ToolchainA.Inc] = &fstest.MapFile{Data: []byte(`not json`)}

	r, err := NewRunnerFS(Defaults, fsys)
	require.NoError(t, err)

	res := r.RunScenario(Pairing{ToolchainA, ToolchainB}, salt.Nonce)
	require.False(t, res.Passed())
	var serr *ScenarioError
	require.True(t, errors.As(res.Err, &serr))
	assert.Equal(t, StepLoadArtifacts, serr.Step)
	assert.Equal(t, "A->B", serr.Pairing)
	assert.Equal(t, salt.Nonce, serr.Policy)

	res = r.RunScenario(Pairing{ToolchainB, ToolchainB}, salt.Nonce)
	assert.True(t, res.Passed(), "%v", res.Err)
}

func TestMissingArtifactFailsAtLoad(t *testing.T) {
	r, err := NewRunnerFS(Defaults, fstest.MapFS{})
	require.NoError(t, err)

	suite := NewSuite([]Pairing{{ToolchainA, ToolchainA}}, []salt.Kind{salt.Empty, salt.Random})
	report := r.Run(suite)
	require.Len(t, report.Results, 2)
	assert.Equal(t, 2, report.Failed())
	for _, res := range report.Results {
		var serr *ScenarioError
		require.ErrorAs(t, res.Err, &serr)
		assert.Equal(t, StepLoadArtifacts, serr.Step)
	}
	assert.Error(t, report.Err())
}

func TestScenarioRecordsFlipState(t *testing.T) {
	r := newTestRunner(t)
	ctx, err := r.NewContext()
	require.NoError(t, err)
	policy, err := salt.New(salt.Nonce, salt.Env{Nonces: ctx, Account: Alice, Hasher: ctx.Hasher()})
	require.NoError(t, err)

	res := &Result{}
	s := &scenario{
		pairing: Pairing{ToolchainB, ToolchainB},
		policy:  policy,
		ctx:     ctx,
		driver:  NewDriver(ctx, 0),
		reader:  r.reader,
		result:  res,
	}
	require.NoError(t, s.run())

	// Inc stored the Flip address it was constructed with.
	stored, err := ctx.DryRun(Alice, res.Inc, common.FromHex("0x1c5d7e4f"))
	require.NoError(t, err)
	assert.Equal(t, res.Flip, types.BytesToAccountID(stored))
	assert.Equal(t, uint64(5), ctx.AccountNonce(Alice))
}

func TestRunWithPersistentCodeStore(t *testing.T) {
	config := Defaults
	config.DataDir = t.TempDir()
	r, err := NewRunner(config)
	require.NoError(t, err)

	report := r.Run(NewSuite([]Pairing{{ToolchainA, ToolchainB}}, []salt.Kind{salt.Nonce}))
	require.Len(t, report.Results, 1)
	require.NoError(t, report.Err())

	entries, err := os.ReadDir(filepath.Join(config.DataDir, report.ID.String()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "A-B-nonce", entries[0].Name())
}

func TestRunParallelKeepsOrder(t *testing.T) {
	config := Defaults
	config.Parallel = 4
	r, err := NewRunner(config)
	require.NoError(t, err)

	suite, err := SuiteFromConfig(&config)
	require.NoError(t, err)
	report := r.Run(suite)
	require.NoError(t, report.Err())
	require.Len(t, report.Results, len(suite.Runs))
	for i, res := range report.Results {
		assert.Equal(t, suite.Runs[i].Pairing.String(), res.Pairing)
		assert.Equal(t, suite.Runs[i].Policy, res.Policy)
	}
}
