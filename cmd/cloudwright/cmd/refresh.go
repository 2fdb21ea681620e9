package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cloudwright/core/catalog"
	"cloudwright/core/refresh"
	"cloudwright/core/registry"
	"cloudwright/internal/config"
	"cloudwright/internal/logging"
)

var (
	refreshProviderFlag string
	refreshCategoryFlag string
	refreshRegionFlag   string
	refreshDryRun       bool
)

var refreshCatalogCmd = &cobra.Command{
	Use:   "refresh-catalog",
	Short: "Refresh the embedded pricing catalog from live provider pricing sources",
	RunE:  runRefreshCatalog,
}

func init() {
	refreshCatalogCmd.Flags().StringVar(&refreshProviderFlag, "provider", "", "refresh only this provider (aws, gcp, azure); default is all")
	refreshCatalogCmd.Flags().StringVar(&refreshCategoryFlag, "category", "", "\"compute\" refreshes instance pricing only; any other value refreshes only managed services whose name contains it (all of them if none match)")
	refreshCatalogCmd.Flags().StringVar(&refreshRegionFlag, "region", "", "region to fetch pricing for; default is each provider's default region")
	refreshCatalogCmd.Flags().BoolVar(&refreshDryRun, "dry-run", false, "fetch pricing but don't write it to the catalog")
}

func runRefreshCatalog(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.Get()

	reg, err := registry.Load()
	if err != nil {
		return fmt.Errorf("load service registry: %w", err)
	}
	store, err := catalog.Open(ctx, cfg.Catalog.DatabasePath, reg)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()

	opts := refresh.Options{
		Provider: refreshProviderFlag,
		Category: refreshCategoryFlag,
		Region:   refreshRegionFlag,
		DryRun:   refreshDryRun,
	}
	summary := refresh.Run(ctx, store, opts)

	for _, r := range summary.Results {
		logging.Info("catalog refresh",
			logging.Provider(r.Provider),
			zap.Int("instances", r.InstancesFetched),
			zap.Int("managed_services", r.ManagedServicesFetched),
			zap.Int("errors", len(r.Errors)),
		)
		fmt.Printf("%-8s instances=%-5d managed_services=%-5d errors=%d\n",
			r.Provider, r.InstancesFetched, r.ManagedServicesFetched, len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("  ! %s\n", e)
		}
	}
	fmt.Printf("\ntotal fetched=%d total errors=%d\n", summary.TotalFetched(), summary.TotalErrors())

	if summary.TotalErrors() > 0 && summary.TotalFetched() == 0 {
		return fmt.Errorf("catalog refresh failed for all providers")
	}
	return nil
}
