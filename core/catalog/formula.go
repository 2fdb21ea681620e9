// Package catalog holds the embedded, SQLite-backed service catalog:
// instance specs, per-region pricing, managed-service tiers, and the
// cross-cloud equivalence tables the Cost Engine and Provider Mapper
// both read from. It also carries the Tier 2 named pricing formulas and
// the Tier 3 static fallback table that the Cost Engine falls through
// to when the catalog has no row for a service.
package catalog

import (
	"math"

	"cloudwright/core/spec"
)

// Formula computes a monthly cost estimate for a component's config. It
// returns ok=false when it cannot produce a number at all (per_hour with
// no rate available); every other formula always produces a number,
// matching the original named-formula set's behavior of degrading to
// conservative defaults rather than failing.
type Formula func(cfg spec.Config, baseRate float64) (monthly float64, ok bool)

// PerHour is hourly rate * 730 hours/month * count.
func PerHour(cfg spec.Config, baseRate float64) (float64, bool) {
	rate := baseRate
	if rate == 0 {
		rate = cfg.GetNumber("price_per_hour", 0)
	}
	if rate == 0 {
		return 0, false
	}
	count := cfg.GetNumber("count", 1)
	return round2(rate * 730 * count), true
}

// PerRequest prices request-driven compute (Lambda, API Gateway-style).
func PerRequest(cfg spec.Config, _ float64) (float64, bool) {
	monthlyRequests := cfg.GetNumber("monthly_requests", 1_000_000)
	avgDurationMS := cfg.GetNumber("avg_duration_ms", 200)
	memoryMB := cfg.GetNumber("memory_mb", 512)
	requestCost := (monthlyRequests / 1_000_000) * 0.20
	gbSeconds := (monthlyRequests * avgDurationMS / 1000) * (memoryMB / 1024)
	computeCost := gbSeconds * 0.0000166667
	return round2(requestCost + computeCost), true
}

// PerGB prices flat per-GB-month storage.
func PerGB(cfg spec.Config, baseRate float64) (float64, bool) {
	storageGB := cfg.GetNumber("storage_gb", cfg.GetNumber("estimated_gb", 50))
	rate := baseRate
	if rate == 0 {
		rate = 0.023
	}
	return round2(storageGB * rate), true
}

// PerGBHour prices in-memory cache capacity (Redis-style).
func PerGBHour(cfg spec.Config, baseRate float64) (float64, bool) {
	memoryGB := cfg.GetNumber("memory_gb", 4.0)
	rate := baseRate
	if rate == 0 {
		rate = 0.049
	}
	return round2(memoryGB * rate * 730), true
}

// PerZone prices hosted-zone DNS services.
func PerZone(cfg spec.Config, baseRate float64) (float64, bool) {
	rate := baseRate
	if rate == 0 {
		rate = 0.50
	}
	zones := cfg.GetNumber("hosted_zones", 1)
	queries := cfg.GetNumber("monthly_queries", 1_000_000)
	zoneCost := zones * rate
	queryCost := (queries / 1_000_000) * 0.40
	return round2(zoneCost + queryCost), true
}

// FixedPlusRequest prices fixed-monthly-plus-per-request services (WAF).
func FixedPlusRequest(cfg spec.Config, baseRate float64) (float64, bool) {
	rate := baseRate
	if rate == 0 {
		rate = 5.0
	}
	rules := cfg.GetNumber("rules", cfg.GetNumber("policies", 1))
	monthlyRequests := cfg.GetNumber("monthly_requests", 10_000_000)
	fixed := rules * rate
	requestCost := (monthlyRequests / 1_000_000) * 0.60
	return round2(fixed + requestCost), true
}

// PerMAU prices monthly-active-user-based auth services, usually free
// under a threshold.
func PerMAU(cfg spec.Config, _ float64) (float64, bool) {
	mau := cfg.GetNumber("monthly_active_users", 10_000)
	if mau <= 50_000 {
		return 0.0, true
	}
	excess := mau - 50_000
	return round2(excess * 0.0055), true
}

// PerShardHour prices throughput-unit streaming services (Kinesis,
// Event Hubs-style).
func PerShardHour(cfg spec.Config, baseRate float64) (float64, bool) {
	rate := baseRate
	if rate == 0 {
		rate = 0.015
	}
	shards := cfg.GetNumber("shards", cfg.GetNumber("throughput_units", 2))
	return round2(shards * rate * 730), true
}

// PerTBQuery prices BigQuery-style query-plus-storage analytics.
func PerTBQuery(cfg spec.Config, baseRate float64) (float64, bool) {
	rate := baseRate
	if rate == 0 {
		rate = 5.0
	}
	monthlyTB := cfg.GetNumber("monthly_query_tb", 1.0)
	storageGB := cfg.GetNumber("storage_gb", 100)
	queryCost := monthlyTB * rate
	storageCost := storageGB * 0.02
	return round2(queryCost + storageCost), true
}

// PerNodeHour prices clustered compute-plus-storage services (Redshift,
// Spanner-style).
func PerNodeHour(cfg spec.Config, baseRate float64) (float64, bool) {
	nodes := cfg.GetNumber("num_nodes", cfg.GetNumber("node_count", 1))
	rate := baseRate
	if rate == 0 {
		rate = cfg.GetNumber("price_per_hour", 0.25)
	}
	storageGB := cfg.GetNumber("storage_gb", 100)
	compute := round2(nodes * rate * 730)
	storage := round2(storageGB * 0.024)
	return compute + storage, true
}

// formulas is the Tier 2 named-formula dispatch table, keyed the same
// way the registry's pricing_formula field names them.
var formulas = map[string]Formula{
	"per_hour":            PerHour,
	"per_request":         PerRequest,
	"per_gb":              PerGB,
	"per_gb_hour":         PerGBHour,
	"per_zone":            PerZone,
	"fixed_plus_request":  FixedPlusRequest,
	"per_mau":             PerMAU,
	"per_shard_hour":      PerShardHour,
	"per_tb_query":        PerTBQuery,
	"per_node_hour":       PerNodeHour,
}

// ResolveFormula looks up a Tier 2 named formula by name.
func ResolveFormula(name string) (Formula, bool) {
	f, ok := formulas[name]
	return f, ok
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
