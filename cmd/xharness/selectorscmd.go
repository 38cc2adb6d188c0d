package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/olekukonko/tablewriter"
	"github.com/tos-network/xharness/artifact"
	"github.com/tos-network/xharness/cmd/utils"
	"github.com/urfave/cli/v2"
)

var selectorsCommand = &cli.Command{
	Action:    printSelectors,
	Name:      "selectors",
	Usage:     "Print the constructor and message selectors of an artifact",
	ArgsUsage: "<file>",
	Flags: []cli.Flag{
		utils.SchemaFlag,
		utils.DumpFlag,
	},
}

func printSelectors(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("need exactly one artifact file, got %d arguments", ctx.NArg())
	}
	schema, err := artifact.ParseSchema(ctx.String(utils.SchemaFlag.Name))
	if err != nil {
		return err
	}
	data, err := os.ReadFile(ctx.Args().First())
	if err != nil {
		return err
	}
	art, err := artifact.Parse(data, schema)
	if err != nil {
		return err
	}
	if ctx.Bool(utils.DumpFlag.Name) {
		spew.Fdump(os.Stdout, art)
		return nil
	}

	fmt.Printf("Contract: %s %s (%s schema)\n", art.Contract.Name, art.Contract.Version, art.Schema)
	fmt.Printf("Code:     %d bytes, source hash %s\n", len(art.Code()), art.SourceHash())

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Kind", "Name", "Selector"})
	for _, role := range []artifact.Role{artifact.RoleConstructor, artifact.RoleMessage} {
		kind := "message"
		if role == artifact.RoleConstructor {
			kind = "constructor"
		}
		for _, entry := range art.Selectors(role) {
			table.Append([]string{kind, entry.Name, hexutil.Encode(entry.Selector)})
		}
	}
	table.Render()
	return nil
}
