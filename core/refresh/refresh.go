// Package refresh orchestrates pulling live pricing from each cloud
// provider's pricing adapter into the catalog store.
package refresh

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"cloudwright/core/catalog"
	"cloudwright/core/pricing"
	"cloudwright/core/pricing/awsadapter"
	"cloudwright/core/pricing/azureadapter"
	"cloudwright/core/pricing/gcpadapter"
	"cloudwright/internal/logging"

	"go.uber.org/zap"
)

var allProviders = []string{"aws", "gcp", "azure"}

// defaultRegions is the pricing-fetch region used when the caller
// doesn't override one, per provider.
var defaultRegions = map[string]string{
	"aws":   "us-east-1",
	"gcp":   "us-central1",
	"azure": "eastus",
}

// Result is the outcome of refreshing one provider.
type Result struct {
	Provider               string
	Category               string
	InstancesFetched       int
	ManagedServicesFetched int
	Errors                 []string
	DryRun                 bool
}

// Summary aggregates the per-provider Results of one refresh run.
type Summary struct {
	Results []Result
}

// TotalFetched sums instance and managed-service counts across every
// provider in the summary.
func (s Summary) TotalFetched() int {
	total := 0
	for _, r := range s.Results {
		total += r.InstancesFetched + r.ManagedServicesFetched
	}
	return total
}

// TotalErrors sums the error count across every provider in the summary.
func (s Summary) TotalErrors() int {
	total := 0
	for _, r := range s.Results {
		total += len(r.Errors)
	}
	return total
}

// Options controls a refresh run.
type Options struct {
	// Provider restricts the refresh to one provider ("aws", "gcp",
	// "azure"). Empty means refresh all three.
	Provider string
	// Category filters to "compute" (instance pricing only) or a
	// managed-service name substring. Empty means both.
	Category string
	// Region overrides the default pricing-fetch region for every
	// provider refreshed.
	Region string
	// DryRun fetches pricing but never writes it to the catalog.
	DryRun bool
}

func loadAdapter(provider string) (pricing.Adapter, error) {
	switch provider {
	case "aws":
		return awsadapter.New(), nil
	case "gcp":
		return gcpadapter.New(""), nil
	case "azure":
		return azureadapter.New(), nil
	default:
		return nil, &UnknownProviderError{Provider: provider}
	}
}

// UnknownProviderError is returned when a caller names a provider
// refresh doesn't recognize.
type UnknownProviderError struct{ Provider string }

func (e *UnknownProviderError) Error() string {
	return "refresh: unknown provider " + e.Provider
}

// Run refreshes pricing for every provider named in opts (or all three
// if opts.Provider is empty), concurrently, up to a bounded worker
// pool. A failure refreshing one provider never aborts the others —
// it is recorded as an error on that provider's Result.
func Run(ctx context.Context, store *catalog.Store, opts Options) Summary {
	providers := allProviders
	if opts.Provider != "" {
		providers = []string{opts.Provider}
	}

	results := make([]Result, len(providers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(3)

	for i, p := range providers {
		i, p := i, p
		g.Go(func() error {
			results[i] = refreshProvider(gctx, store, p, opts)
			return nil // per-provider errors live in Result.Errors, never abort the group
		})
	}
	_ = g.Wait()

	return Summary{Results: results}
}

func refreshProvider(ctx context.Context, store *catalog.Store, provider string, opts Options) Result {
	result := Result{Provider: provider, Category: opts.Category, DryRun: opts.DryRun}
	if result.Category == "" {
		result.Category = "all"
	}

	adapter, err := loadAdapter(provider)
	if err != nil {
		result.Errors = append(result.Errors, "failed to load adapter: "+err.Error())
		return result
	}

	region := opts.Region
	if region == "" {
		region = defaultRegions[provider]
	}

	if opts.Category == "" || opts.Category == "compute" {
		refreshInstances(ctx, store, adapter, provider, region, &result)
	}
	if opts.Category == "" || opts.Category != "compute" {
		refreshManagedServices(ctx, store, adapter, provider, region, opts.Category, &result)
	}

	return result
}

func refreshInstances(ctx context.Context, store *catalog.Store, adapter pricing.Adapter, provider, region string, result *Result) {
	out, errc := adapter.FetchInstancePricing(ctx, region)

	var prices []pricing.InstancePrice
	for p := range out {
		prices = append(prices, p)
	}
	if err := <-errc; err != nil {
		msg := provider + " instance pricing: " + err.Error()
		logging.Warn(msg)
		result.Errors = append(result.Errors, msg)
		return
	}

	result.InstancesFetched = len(prices)
	logging.Info("fetched instance prices",
		logging.Provider(provider), logging.Region(region), zap.Int("count", len(prices)))

	if result.DryRun || len(prices) == 0 {
		return
	}
	if err := store.UpsertInstancePricing(ctx, provider, region, prices); err != nil {
		msg := provider + " instance pricing write: " + err.Error()
		logging.Warn(msg)
		result.Errors = append(result.Errors, msg)
	}
}

func refreshManagedServices(ctx context.Context, store *catalog.Store, adapter pricing.Adapter, provider, region, category string, result *Result) {
	services := adapter.SupportedManagedServices()
	if category != "" && category != "compute" {
		filtered := services[:0:0]
		for _, svc := range services {
			if strings.Contains(svc, category) {
				filtered = append(filtered, svc)
			}
		}
		if len(filtered) > 0 {
			services = filtered
		}
	}

	managedCount := 0
	for _, svc := range services {
		tiers, err := adapter.FetchManagedServicePricing(ctx, svc, region)
		if err != nil {
			msg := provider + "/" + svc + ": " + err.Error()
			logging.Warn(msg)
			result.Errors = append(result.Errors, msg)
			continue
		}
		managedCount += len(tiers)
		if result.DryRun || len(tiers) == 0 {
			continue
		}
		if err := store.UpsertManagedServicePricing(ctx, provider, svc, tiers); err != nil {
			msg := provider + "/" + svc + " write: " + err.Error()
			logging.Warn(msg)
			result.Errors = append(result.Errors, msg)
		}
	}

	result.ManagedServicesFetched = managedCount
	logging.Info("fetched managed service tiers",
		logging.Provider(provider), logging.Region(region), zap.Int("count", managedCount))

	if !result.DryRun && managedCount > 0 {
		if err := store.SetMetadata(ctx, "refresh:"+provider+":managed", itoa(managedCount)); err != nil {
			result.Errors = append(result.Errors, provider+" managed metadata write: "+err.Error())
		}
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := [20]byte{}
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}
