// Package cmd provides the CLI commands for cloudwright.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cloudwright/internal/config"
	"cloudwright/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "cloudwright",
	Short: "Price, validate, and compare multi-cloud architecture specs",
	Long: `cloudwright turns a structured architecture spec (ArchSpec) into a
priced, validated, comparable multi-cloud estimate.

Examples:
  cloudwright estimate architecture.yaml
  cloudwright validate architecture.yaml --framework hipaa,soc2
  cloudwright diff before.yaml after.yaml
  cloudwright refresh-catalog --provider aws`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cloudwright.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(refreshCatalogCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("cloudwright version 0.1.0")
	},
}
