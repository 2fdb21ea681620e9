package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cloudwright/core/catalog"
	"cloudwright/core/cost"
	"cloudwright/core/postvalidate"
	"cloudwright/core/registry"
	"cloudwright/core/scorer"
	"cloudwright/core/spec"
	"cloudwright/core/validator"
	"cloudwright/internal/config"
)

var (
	estimateFormat      string
	estimatePricingTier string
	estimateHarden      bool
	estimateScore       bool
	estimateCompare     []string
)

var estimateCmd = &cobra.Command{
	Use:   "estimate <spec.yaml>",
	Short: "Price an ArchSpec against the pricing catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runEstimate,
}

func init() {
	estimateCmd.Flags().StringVarP(&estimateFormat, "format", "f", "cli", "output format (cli, json, yaml)")
	estimateCmd.Flags().StringVar(&estimatePricingTier, "tier", "on_demand", "pricing tier (on_demand, reserved_1yr, reserved_3yr, spot)")
	estimateCmd.Flags().BoolVar(&estimateHarden, "harden", false, "apply Post-Validator security/reliability defaults before pricing")
	estimateCmd.Flags().BoolVar(&estimateScore, "score", false, "also compute the architecture quality score")
	estimateCmd.Flags().StringSliceVar(&estimateCompare, "compare", nil, "re-price the architecture on these providers for comparison (aws,gcp,azure)")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.Get()

	archSpec, err := spec.FromFile(args[0])
	if err != nil {
		return err
	}
	if estimateHarden {
		archSpec = postvalidate.Harden(archSpec)
	}

	reg, err := registry.Load()
	if err != nil {
		return fmt.Errorf("load service registry: %w", err)
	}
	store, err := catalog.Open(ctx, cfg.Catalog.DatabasePath, reg)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()

	engine := cost.New(store, reg)
	estimate, err := engine.Estimate(ctx, archSpec, estimatePricingTier)
	if err != nil {
		return fmt.Errorf("estimate cost: %w", err)
	}
	archSpec.CostEstimate = &estimate

	var scoreResult *spec.ScoreResult
	if estimateScore {
		sc := scorer.New(validator.New())
		result := sc.Score(archSpec)
		scoreResult = &result
	}

	var alternatives []spec.Alternative
	if len(estimateCompare) > 0 {
		alternatives, err = engine.CompareProviders(ctx, archSpec, estimateCompare)
		if err != nil {
			return fmt.Errorf("compare providers: %w", err)
		}
	}

	switch estimateFormat {
	case "json":
		out, err := archSpec.ToJSON()
		if err != nil {
			return err
		}
		fmt.Println(out)
	case "yaml":
		out, err := archSpec.ToYAML()
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		printEstimateCLI(archSpec, estimate, scoreResult, alternatives)
	}
	return nil
}

func printEstimateCLI(s spec.ArchSpec, estimate spec.CostEstimate, score *spec.ScoreResult, alternatives []spec.Alternative) {
	fmt.Println("┌─────────────────────────────────────────────────────────┐")
	fmt.Printf("│ %-57s │\n", fmt.Sprintf("%s (%s)", s.Name, s.Provider))
	fmt.Println("├─────────────────────────────────────────────────────────┤")
	for _, line := range estimate.Breakdown {
		label := fmt.Sprintf("%s (%s)", line.ComponentID, line.Service)
		fmt.Printf("│ %-38s %10s/mo [%-8s] │\n", label, formatMoney(line.Monthly), line.Source)
	}
	if estimate.DataTransferMonthly > 0 {
		fmt.Printf("│ %-38s %10s/mo %10s │\n", "data transfer", formatMoney(estimate.DataTransferMonthly), "")
	}
	fmt.Println("├─────────────────────────────────────────────────────────┤")
	fmt.Printf("│ %-38s %10s/mo %10s │\n", "TOTAL", formatMoney(estimate.MonthlyTotal), "")
	fmt.Println("└─────────────────────────────────────────────────────────┘")

	if score != nil {
		fmt.Printf("\nQuality score: %.1f/100 (%s)\n", score.Total, score.Grade)
		for _, dim := range score.Dimensions {
			fmt.Printf("  %-16s %5.1f  %s\n", dim.Name, dim.Raw, dim.Detail)
		}
	}

	for _, alt := range alternatives {
		fmt.Printf("\n%s alternative: %s/mo\n", alt.Provider, formatMoney(alt.MonthlyTotal))
		for _, diff := range alt.KeyDifferences {
			fmt.Printf("  - %s\n", diff)
		}
	}
}

func formatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
