package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/tos-network/xharness/cmd/utils"
	"github.com/tos-network/xharness/harness"
	"github.com/urfave/cli/v2"
)

var runCommand = &cli.Command{
	Action:    runSuite,
	Name:      "run",
	Usage:     "Run every pairing under every salt policy",
	ArgsUsage: " ",
	Flags: append(append([]cli.Flag{
		utils.ConfigFileFlag,
		utils.MetricsEnabledFlag,
	}, utils.HarnessFlags...), utils.LoggingFlags...),
	Description: `
Runs the Flip/Inc scenario for the pairings A->A, B->B, A->B and B->A under the
empty, nonce, random and hashed-input salt policies, each in a fresh execution
context. Exits with a non-zero status if any run fails.`,
}

func runSuite(ctx *cli.Context) error {
	// Command flags are only parsed once the action runs.
	utils.SetupLogging(ctx)
	utils.SetupMetrics(ctx)

	cfg := makeConfig(ctx)
	suite, err := harness.SuiteFromConfig(&cfg)
	if err != nil {
		return err
	}
	runner, err := harness.NewRunner(cfg)
	if err != nil {
		return err
	}
	report := runner.Run(suite)

	printReport(os.Stdout, report)
	if ctx.Bool(utils.MetricsEnabledFlag.Name) {
		printMetrics(os.Stdout)
	}
	if failed := report.Failed(); failed > 0 {
		log.Error("Harness runs failed", "failed", failed, "total", len(report.Results))
		return cli.Exit(fmt.Sprintf("%d of %d runs failed", failed, len(report.Results)), 1)
	}
	return nil
}

func printReport(w io.Writer, report *harness.Report) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Pairing", "Salt", "Flip", "Inc", "Events", "Elapsed", "Result"})
	table.SetAutoWrapText(false)
	for _, res := range report.Results {
		status := color.GreenString("ok")
		if !res.Passed() {
			status = color.RedString(res.Err.Error())
		}
		table.Append([]string{
			res.Pairing,
			res.Policy.String(),
			res.Flip.TerminalString(),
			res.Inc.TerminalString(),
			fmt.Sprint(res.Events),
			res.Duration.Round(time.Microsecond).String(),
			status,
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "failed", fmt.Sprintf("%d/%d", report.Failed(), len(report.Results))})
	table.Render()
	fmt.Fprintf(w, "Suite %v finished in %v\n", report.ID, report.Duration)
}

// printMetrics writes every registered counter and rate of the default
// registry, sorted by name.
func printMetrics(w io.Writer) {
	all := metrics.DefaultRegistry.GetAll()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Values"})
	table.SetAutoWrapText(false)
	for _, name := range names {
		values := all[name]
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fields := make([]string, 0, len(keys))
		for _, k := range keys {
			fields = append(fields, fmt.Sprintf("%s=%v", k, values[k]))
		}
		table.Append([]string{name, strings.Join(fields, " ")})
	}
	table.Render()
}
