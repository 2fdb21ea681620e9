// Package cost prices an ArchSpec's components and estimates data
// transfer cost, via the three-tier resolution (catalog, named formula,
// static fallback) the registry and catalog packages expose.
package cost

import (
	"context"
	"fmt"
	"strings"

	"cloudwright/core/catalog"
	"cloudwright/core/money"
	"cloudwright/core/registry"
	"cloudwright/core/spec"
)

// containerOrchestrationServices multiply by 3 when no explicit node
// count is given, on the assumption of a 3-node minimum cluster.
var containerOrchestrationServices = map[string]bool{
	"eks": true, "gke": true, "aks": true, "ecs": true,
}

// egressRates is the per-provider $/GB rate table for same-region,
// cross-region, and public-internet data transfer.
var egressRates = map[string]map[string]float64{
	"aws":   {"same_region": 0.01, "cross_region": 0.02, "internet": 0.09},
	"gcp":   {"same_region": 0.01, "cross_region": 0.08, "internet": 0.12},
	"azure": {"same_region": 0.01, "cross_region": 0.02, "internet": 0.087},
}

const crossProviderRate = 0.09
const defaultEgressRate = 0.09

// serviceEgressOverrides gives CDN/load-balancer/object-storage
// services a cheaper intra-cloud rate than general internet egress.
var serviceEgressOverrides = map[string]float64{
	"cloudfront": 0.085, "cloud_cdn": 0.08, "azure_cdn": 0.087,
	"alb": 0.01, "nlb": 0.01, "app_gateway": 0.01,
	"s3": 0.01, "cloud_storage": 0.01, "blob_storage": 0.01,
}

// Engine prices ArchSpecs using a Catalog Store and Service Registry.
type Engine struct {
	Catalog  *catalog.Store
	Registry *registry.Registry
}

// New builds an Engine over the given catalog and registry.
func New(store *catalog.Store, reg *registry.Registry) *Engine {
	return &Engine{Catalog: store, Registry: reg}
}

// Estimate prices every component in spec and rolls up a full
// CostEstimate including data transfer.
func (e *Engine) Estimate(ctx context.Context, s spec.ArchSpec, pricingTier string) (spec.CostEstimate, error) {
	if pricingTier == "" {
		pricingTier = "on_demand"
	}

	breakdown := make([]spec.ComponentCost, 0, len(s.Components))
	for _, comp := range s.Components {
		monthly, source, err := e.priceComponent(ctx, comp, s.Provider, pricingTier)
		if err != nil {
			return spec.CostEstimate{}, err
		}
		var hourly *float64
		if monthly > 0 {
			h := round4(monthly / 730)
			hourly = &h
		}
		breakdown = append(breakdown, spec.ComponentCost{
			ComponentID: comp.ID,
			Service:     comp.Service,
			Monthly:     monthly,
			Hourly:      hourly,
			Notes:       costNotes(comp),
			Source:      source,
		})
	}

	componentTotal := round2(sumMonthly(breakdown))
	dataTransfer := e.estimateDataTransfer(s)
	total := round2(componentTotal + dataTransfer)

	return spec.CostEstimate{
		MonthlyTotal:        total,
		Breakdown:           breakdown,
		DataTransferMonthly: dataTransfer,
		Currency:            "USD",
		AsOf:                todayISO(),
	}, nil
}

// Price estimates costs and returns a copy of s with CostEstimate set.
func (e *Engine) Price(ctx context.Context, s spec.ArchSpec, pricingTier string) (spec.ArchSpec, error) {
	est, err := e.Estimate(ctx, s, pricingTier)
	if err != nil {
		return spec.ArchSpec{}, err
	}
	out := s.Clone()
	out.CostEstimate = &est
	return out, nil
}

// priceComponent resolves a monthly cost for one component via the
// three-tier cascade, then applies post-resolution multipliers.
// Returns the resolved monthly cost and which tier produced it
// ("catalog", "formula", "fallback").
func (e *Engine) priceComponent(ctx context.Context, comp spec.Component, defaultProvider, pricingTier string) (float64, string, error) {
	provider := comp.Provider
	if provider == "" {
		provider = defaultProvider
	}
	cfg := comp.Config

	var base float64
	var source string
	fromCatalog := false

	if e.Catalog != nil {
		tier1, err := e.Catalog.GetServicePricing(ctx, comp.Service, provider, cfg, pricingTier)
		if err != nil {
			return 0, "", err
		}
		if tier1 != nil {
			base = *tier1
			fromCatalog = true
			source = "catalog"
		}
	}

	if !fromCatalog {
		if svcDef, ok := e.Registry.Get(provider, comp.Service); ok {
			if formula, ok := catalog.ResolveFormula(svcDef.PricingFormula); ok {
				merged := mergeConfig(svcDef.DefaultConfig, cfg)
				if result, ok := formula(merged, 0); ok && result > 0 {
					base = result * pricingMultiplier(pricingTier)
					source = "formula"
				}
			}
		}
	}

	if source == "" {
		base = catalog.DefaultManagedPrice(comp.Service, cfg) * pricingMultiplier(pricingTier)
		source = "fallback"
	}

	// Post-resolution multipliers. Catalog-tier1 pricing already accounts
	// for multi_az internally (e.g. the RDS branch), so this only applies
	// when the base came from formula or fallback resolution.
	if !fromCatalog && cfg.GetBool("multi_az", false) {
		base *= 2.0
	}

	if containerOrchestrationServices[comp.Service] {
		hasExplicitCount := cfg.GetNumber("count", 1) > 1 ||
			cfg.GetNumber("node_count", 0) > 1 ||
			cfg.GetNumber("desired_count", 0) > 1
		if !hasExplicitCount {
			base *= 3
		}
	}

	return round2(base), source, nil
}

func pricingMultiplier(tier string) float64 {
	switch tier {
	case "reserved_1yr":
		return 0.6
	case "reserved_3yr":
		return 0.4
	case "spot":
		return 0.3
	default:
		return 1.0
	}
}

func mergeConfig(base, override spec.Config) spec.Config {
	out := base.Clone()
	if out == nil {
		out = spec.Config{}
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

func (e *Engine) estimateDataTransfer(s spec.ArchSpec) float64 {
	total := 0.0
	for _, conn := range s.Connections {
		if conn.EstimatedMonthlyGB <= 0 {
			continue
		}
		source, ok := s.ComponentByID(conn.Source)
		if !ok {
			continue
		}
		target, hasTarget := s.ComponentByID(conn.Target)

		srcProvider := source.Provider
		if srcProvider == "" {
			srcProvider = s.Provider
		}
		tgtProvider := srcProvider
		if hasTarget && target.Provider != "" {
			tgtProvider = target.Provider
		}
		crossProvider := tgtProvider != srcProvider

		var rate float64
		switch {
		case crossProvider:
			rate = crossProviderRate
		default:
			if override, ok := serviceEgressOverrides[source.Service]; ok {
				rate = override
			} else if providerRates, ok := egressRates[srcProvider]; ok {
				rate = providerRates["internet"]
			} else {
				rate = defaultEgressRate
			}
		}

		total += conn.EstimatedMonthlyGB * rate
	}
	return round2(total)
}

// costNotes builds a short human-readable description of what drove a
// component's cost line, for display next to the monthly figure.
func costNotes(comp spec.Component) string {
	cfg := comp.Config
	var parts []string

	switch {
	case cfg.Has("instance_type"):
		parts = append(parts, cfg.GetString("instance_type", ""))
	case cfg.Has("instance_class"):
		parts = append(parts, cfg.GetString("instance_class", ""))
	case cfg.Has("node_type"):
		parts = append(parts, cfg.GetString("node_type", ""))
	case cfg.Has("tier"):
		parts = append(parts, cfg.GetString("tier", ""))
	case cfg.Has("vm_size"):
		parts = append(parts, cfg.GetString("vm_size", ""))
	}

	if cfg.GetNumber("count", 1) > 1 {
		parts = append(parts, fmt.Sprintf("%gx", cfg.GetNumber("count", 1)))
	}
	if cfg.GetBool("multi_az", false) {
		parts = append(parts, "Multi-AZ")
	}
	if gb := cfg.GetNumber("storage_gb", 0); gb > 0 {
		parts = append(parts, fmt.Sprintf("%gGB storage", gb))
	}
	if gb := cfg.GetNumber("estimated_gb", 0); gb > 0 {
		parts = append(parts, fmt.Sprintf("%gGB egress", gb))
	}
	if engine := cfg.GetString("engine", ""); engine != "" {
		parts = append(parts, engine)
	}

	return strings.Join(parts, ", ")
}

func sumMonthly(breakdown []spec.ComponentCost) float64 {
	vals := make([]float64, len(breakdown))
	for i, c := range breakdown {
		vals[i] = c.Monthly
	}
	return money.SumRound2(vals)
}
