// Package postvalidate applies safe-default hardening to an ArchSpec
// after any design or modify operation: data stores get encryption and
// backup, databases get multi_az once the architecture is non-trivial,
// and compute gets auto_scaling. It is idempotent — running it twice
// produces the same spec as running it once.
package postvalidate

import (
	"go.uber.org/zap"

	"cloudwright/core/spec"
	"cloudwright/internal/logging"
)

var dataStoreServices = map[string]bool{
	"rds": true, "aurora": true, "dynamodb": true, "elasticache": true, "redshift": true,
	"cloud_sql": true, "firestore": true, "memorystore": true, "bigquery": true, "spanner": true,
	"azure_sql": true, "cosmos_db": true, "azure_cache": true, "synapse": true,
	"s3": true, "cloud_storage": true, "blob_storage": true,
}

var databaseServices = map[string]bool{
	"rds": true, "aurora": true, "cloud_sql": true, "azure_sql": true,
	"dynamodb": true, "firestore": true, "cosmos_db": true, "spanner": true,
}

var computeServices = map[string]bool{
	"ec2": true, "ecs": true, "eks": true, "fargate": true, "compute_engine": true,
	"gke": true, "cloud_run": true, "virtual_machines": true, "aks": true, "container_apps": true,
}

// Harden returns a deep copy of s with safe defaults applied to every
// component. Applying Harden again to its own output is a no-op.
func Harden(s spec.ArchSpec) spec.ArchSpec {
	out := s.Clone()
	multiComponent := len(out.Components) > 3

	for i, c := range out.Components {
		cfg := c.Config.Clone()
		if cfg == nil {
			cfg = spec.Config{}
		}

		if dataStoreServices[c.Service] {
			setDefaultBool(cfg, "encryption", true)
			setDefaultBool(cfg, "backup", true)
		}
		if databaseServices[c.Service] && multiComponent {
			setDefaultBool(cfg, "multi_az", true)
		}
		if computeServices[c.Service] {
			setDefaultBool(cfg, "auto_scaling", true)
		}

		out.Components[i].Config = cfg
	}

	warnIfOverBudget(out)
	return out
}

func setDefaultBool(cfg spec.Config, key string, value bool) {
	if cfg.Has(key) {
		return
	}
	cfg[key] = spec.Bool(value)
}

func warnIfOverBudget(s spec.ArchSpec) {
	if s.Constraints == nil || s.Constraints.BudgetMonthly <= 0 || s.CostEstimate == nil {
		return
	}
	if s.CostEstimate.MonthlyTotal > s.Constraints.BudgetMonthly {
		logging.Warn("architecture exceeds declared budget",
			zap.String("spec", s.Name),
			zap.Float64("monthly_total", s.CostEstimate.MonthlyTotal),
			zap.Float64("budget_monthly", s.Constraints.BudgetMonthly),
		)
	}
}
