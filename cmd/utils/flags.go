// Copyright 2015 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

// Package utils contains internal helper functions for xharness commands.
package utils

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/tos-network/xharness/artifact"
	"github.com/tos-network/xharness/harness"
	"github.com/tos-network/xharness/internal/flags"
	"github.com/tos-network/xharness/salt"
	"github.com/urfave/cli/v2"
)

// These are all the command line flags we support.
var (
	ConfigFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: flags.HarnessCategory,
	}
	ContractsFlag = &cli.StringFlag{
		Name:     "contracts",
		Usage:    "Directory holding the toolchain bundles (default: embedded bundles)",
		Category: flags.ArtifactCategory,
	}
	DataDirFlag = &cli.StringFlag{
		Name:     "datadir",
		Usage:    "Keep the code store of every run in a LevelDB database below this directory",
		Category: flags.HarnessCategory,
	}
	PairingFlag = &cli.StringSliceFlag{
		Name:     "pairing",
		Usage:    "Pairings to run, e.g. A->B (default: all)",
		Category: flags.HarnessCategory,
	}
	SaltFlag = &cli.StringSliceFlag{
		Name:     "salt",
		Usage:    "Salt policies to run: empty, nonce, random, hashed-input (default: all)",
		Category: flags.HarnessCategory,
	}
	HasherFlag = &cli.StringFlag{
		Name:     "hasher",
		Usage:    "Contract address hasher: blake2-256 or keccak-256",
		Value:    harness.Defaults.Hasher,
		Category: flags.VMCategory,
	}
	GasLimitFlag = &cli.Uint64Flag{
		Name:     "gas",
		Usage:    "Gas attached to every instantiate and call",
		Value:    harness.Defaults.GasLimit,
		Category: flags.VMCategory,
	}
	ExecTimeoutFlag = &cli.DurationFlag{
		Name:     "vm.timeout",
		Usage:    "Wall-clock bound of a single contract execution",
		Value:    harness.Defaults.ExecTimeout,
		Category: flags.VMCategory,
	}
	ParallelFlag = &cli.IntFlag{
		Name:     "parallel",
		Usage:    "Number of runs executed concurrently",
		Value:    harness.Defaults.Parallel,
		Category: flags.HarnessCategory,
	}
	SchemaFlag = &cli.StringFlag{
		Name:     "schema",
		Usage:    "Artifact schema: flat or v3",
		Value:    artifact.SchemaFlat.String(),
		Category: flags.ArtifactCategory,
	}
	DumpFlag = &cli.BoolFlag{
		Name:     "dump",
		Usage:    "Dump the decoded artifact",
		Category: flags.ArtifactCategory,
	}
	VerbosityFlag = &cli.IntFlag{
		Name:     "verbosity",
		Usage:    "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value:    2,
		Category: flags.LoggingCategory,
	}
	MetricsEnabledFlag = &cli.BoolFlag{
		Name:     "metrics",
		Usage:    "Enable metrics collection and print them after the run",
		Category: flags.MetricsCategory,
	}
)

var (
	// HarnessFlags configure a suite run.
	HarnessFlags = []cli.Flag{
		ContractsFlag,
		DataDirFlag,
		PairingFlag,
		SaltFlag,
		HasherFlag,
		GasLimitFlag,
		ExecTimeoutFlag,
		ParallelFlag,
	}
	// LoggingFlags configure the logger.
	LoggingFlags = []cli.Flag{
		VerbosityFlag,
	}
)

// Fatalf formats a message to standard error and exits the program.
// The message is also printed to standard output if standard error
// is redirected to a different file.
func Fatalf(format string, args ...interface{}) {
	w := io.MultiWriter(os.Stdout, os.Stderr)
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		}
	}
	fmt.Fprintf(w, "Fatal: "+format+"\n", args...)
	os.Exit(1)
}

// SplitAndTrim splits input separated by a comma
// and trims excessive white space from the substrings.
func SplitAndTrim(input string) (ret []string) {
	l := strings.Split(input, ",")
	for _, r := range l {
		if r = strings.TrimSpace(r); r != "" {
			ret = append(ret, r)
		}
	}
	return ret
}

// splitSlice flattens a slice flag that may carry comma separated values.
func splitSlice(values []string) (ret []string) {
	for _, v := range values {
		ret = append(ret, SplitAndTrim(v)...)
	}
	return ret
}

// SetHarnessConfig applies harness-related command line flags to the config.
func SetHarnessConfig(ctx *cli.Context, cfg *harness.Config) error {
	if ctx.IsSet(ContractsFlag.Name) {
		cfg.Contracts = ctx.String(ContractsFlag.Name)
	}
	if ctx.IsSet(DataDirFlag.Name) {
		cfg.DataDir = ctx.String(DataDirFlag.Name)
	}
	if ctx.IsSet(PairingFlag.Name) {
		cfg.Pairings = splitSlice(ctx.StringSlice(PairingFlag.Name))
		for _, name := range cfg.Pairings {
			if _, err := harness.ParsePairing(name, cfg.Toolchains...); err != nil {
				return fmt.Errorf("option %s: %v", PairingFlag.Name, err)
			}
		}
	}
	if ctx.IsSet(SaltFlag.Name) {
		cfg.Salts = cfg.Salts[:0:0]
		for _, name := range splitSlice(ctx.StringSlice(SaltFlag.Name)) {
			kind, err := salt.ParseKind(name)
			if err != nil {
				return fmt.Errorf("option %s: %v", SaltFlag.Name, err)
			}
			cfg.Salts = append(cfg.Salts, kind)
		}
	}
	if ctx.IsSet(HasherFlag.Name) {
		cfg.Hasher = ctx.String(HasherFlag.Name)
	}
	if ctx.IsSet(GasLimitFlag.Name) {
		cfg.GasLimit = ctx.Uint64(GasLimitFlag.Name)
	}
	if ctx.IsSet(ExecTimeoutFlag.Name) {
		cfg.ExecTimeout = ctx.Duration(ExecTimeoutFlag.Name)
	}
	if ctx.IsSet(ParallelFlag.Name) {
		cfg.Parallel = ctx.Int(ParallelFlag.Name)
	}
	return nil
}

// SetupLogging installs the terminal logger at the requested verbosity.
func SetupLogging(ctx *cli.Context) {
	var (
		output   = io.Writer(os.Stderr)
		useColor = (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	)
	if useColor {
		output = colorable.NewColorableStderr()
	}
	level := log.FromLegacyLevel(ctx.Int(VerbosityFlag.Name))
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(output, level, useColor)))
}

// SetupMetrics enables metrics collection when requested.
func SetupMetrics(ctx *cli.Context) {
	if ctx.Bool(MetricsEnabledFlag.Name) {
		log.Info("Enabling metrics collection")
		metrics.Enable()
	}
}
