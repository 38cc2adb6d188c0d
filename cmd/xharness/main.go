// xharness runs the cross-contract instantiation scenarios: a Flip contract
// and an Inc contract delegating to it, built by two toolchains and deployed
// under every salt policy.
package main

import (
	"fmt"
	"os"

	"github.com/tos-network/xharness/cmd/utils"
	"github.com/tos-network/xharness/internal/flags"
	"github.com/urfave/cli/v2"
)

const clientIdentifier = "xharness"

// Git SHA1 commit hash of the release (set via linker flags)
var (
	gitCommit = ""
	gitDate   = ""
)

var app = flags.NewApp(gitCommit, gitDate, "the cross-contract instantiation harness")

func init() {
	app.Action = runSuite
	app.Flags = append(append([]cli.Flag{utils.ConfigFileFlag, utils.MetricsEnabledFlag}, utils.HarnessFlags...), utils.LoggingFlags...)
	app.Commands = []*cli.Command{
		runCommand,
		selectorsCommand,
		dumpConfigCommand,
		versionCommand,
	}
	app.Before = func(ctx *cli.Context) error {
		flags.MigrateGlobalFlags(ctx)
		utils.SetupLogging(ctx)
		return nil
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
