package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tos-network/xharness/harness"
	"github.com/tos-network/xharness/salt"
)

func TestLoadConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(file, []byte(`
Pairings = ["A->B"]
Salts = ["nonce", "hashed-input"]
Hasher = "keccak-256"
GasLimit = 5000000000
`), 0644))

	cfg := harness.Defaults
	require.NoError(t, loadConfig(file, &cfg))
	assert.Equal(t, []string{"A->B"}, cfg.Pairings)
	assert.Equal(t, []salt.Kind{salt.Nonce, salt.HashDerived}, cfg.Salts)
	assert.Equal(t, "keccak-256", cfg.Hasher)
	assert.Equal(t, uint64(5000000000), cfg.GasLimit)
	assert.Equal(t, harness.Defaults.Toolchains, cfg.Toolchains)
}

func TestLoadConfigUnknownField(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(file, []byte("Workers = 4\n"), 0644))

	cfg := harness.Defaults
	err := loadConfig(file, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Workers")
}

func TestConfigRoundTrip(t *testing.T) {
	out, err := tomlSettings.Marshal(&harness.Defaults)
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(file, out, 0644))

	var cfg harness.Config
	require.NoError(t, loadConfig(file, &cfg))
	assert.Equal(t, harness.Defaults.Salts, cfg.Salts)
	assert.Equal(t, harness.Defaults.Toolchains, cfg.Toolchains)
	assert.Equal(t, harness.Defaults.ExecTimeout, cfg.ExecTimeout)
}

func TestPrintReport(t *testing.T) {
	runner, err := harness.NewRunner(harness.Defaults)
	require.NoError(t, err)
	report := runner.Run(harness.NewSuite(
		[]harness.Pairing{{Flip: harness.ToolchainA, Inc: harness.ToolchainB}},
		[]salt.Kind{salt.Random},
	))
	require.Zero(t, report.Failed())

	var buf bytes.Buffer
	printReport(&buf, report)
	out := buf.String()
	assert.Contains(t, out, "A->B")
	assert.Contains(t, out, "random")
	assert.Contains(t, out, "0/1")
	assert.True(t, strings.Contains(out, report.ID.String()))
	assert.Less(t, report.Duration, time.Minute)
}
