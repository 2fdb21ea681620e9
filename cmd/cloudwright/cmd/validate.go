package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cloudwright/core/spec"
	"cloudwright/core/validator"
)

var (
	validateFrameworks string
	validateFormat     string
)

var validateCmd = &cobra.Command{
	Use:   "validate <spec.yaml>",
	Short: "Check an ArchSpec against compliance and best-practice frameworks",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateFrameworks, "framework", "well_architected", "comma-separated frameworks (hipaa, pci_dss, soc2, gdpr, fedramp_moderate, well_architected)")
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "cli", "output format (cli, json, yaml)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	archSpec, err := spec.FromFile(args[0])
	if err != nil {
		return err
	}

	frameworks := strings.Split(validateFrameworks, ",")
	for i := range frameworks {
		frameworks[i] = strings.TrimSpace(frameworks[i])
	}

	v := validator.New()
	results := v.Validate(archSpec, frameworks)

	allPassed := true
	for _, r := range results {
		if !r.Passed {
			allPassed = false
		}
	}

	switch validateFormat {
	case "json", "yaml":
		printValidateStructured(results, validateFormat)
	default:
		printValidateCLI(results)
	}

	if !allPassed {
		return fmt.Errorf("one or more frameworks failed validation")
	}
	return nil
}

func printValidateStructured(results []spec.ValidationResult, format string) {
	type wrapper struct {
		Results []spec.ValidationResult `json:"results" yaml:"results"`
	}
	w := wrapper{Results: results}
	if format == "json" {
		out, _ := json.MarshalIndent(w, "", "  ")
		fmt.Println(string(out))
		return
	}
	out, _ := yaml.Marshal(w)
	fmt.Println(string(out))
}

func printValidateCLI(results []spec.ValidationResult) {
	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		fmt.Printf("%s  %-20s score=%.0f\n", status, r.Framework, r.Score)
		for _, c := range r.Checks {
			mark := "✓"
			if !c.Passed {
				mark = "✗"
			}
			fmt.Printf("  %s [%s] %s — %s\n", mark, c.Severity, c.Name, c.Detail)
			if !c.Passed && c.Recommendation != "" {
				fmt.Printf("      fix: %s\n", c.Recommendation)
			}
		}
	}
}
