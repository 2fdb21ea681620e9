package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cloudwright/core/diff"
	"cloudwright/core/spec"
)

var diffFormat string

var diffCmd = &cobra.Command{
	Use:   "diff <before.yaml> <after.yaml>",
	Short: "Compare two ArchSpecs and report what changed",
	Args:  cobra.ExactArgs(2),
	RunE:  runDiff,
}

func init() {
	diffCmd.Flags().StringVarP(&diffFormat, "format", "f", "cli", "output format (cli, json, yaml)")
}

func runDiff(cmd *cobra.Command, args []string) error {
	before, err := spec.FromFile(args[0])
	if err != nil {
		return err
	}
	after, err := spec.FromFile(args[1])
	if err != nil {
		return err
	}

	result := diff.Diff(before, after)

	switch diffFormat {
	case "json":
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
	case "yaml":
		out, _ := yaml.Marshal(result)
		fmt.Println(string(out))
	default:
		printDiffCLI(result)
	}
	return nil
}

func printDiffCLI(r spec.DiffResult) {
	fmt.Println(r.Summary)
	for _, c := range r.Added {
		fmt.Printf("  + %s (%s)\n", c.ID, c.Service)
	}
	for _, c := range r.Removed {
		fmt.Printf("  - %s (%s)\n", c.ID, c.Service)
	}
	for _, c := range r.Changed {
		fmt.Printf("  ~ %s\n", c.ComponentID)
		for _, f := range c.Changes {
			fmt.Printf("      %s: %v -> %v\n", f.Field, f.Before, f.After)
		}
	}
	for _, cc := range r.ConnectionChanges {
		fmt.Printf("  %s connection %s -> %s\n", cc.Type, cc.Source, cc.Target)
	}
	if r.CostDelta != 0 {
		fmt.Printf("  cost delta: %+.2f/mo\n", r.CostDelta)
	}
}
