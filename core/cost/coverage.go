package cost

import "cloudwright/core/spec"

// Coverage reports what percentage (0-100) of a priced ArchSpec's
// components resolved through each pricing tier. Components with no cost line
// (Monthly == 0 and no breakdown entry) don't count toward any tier.
type Coverage struct {
	Catalog  float64 `yaml:"catalog" json:"catalog"`
	Formula  float64 `yaml:"formula" json:"formula"`
	Fallback float64 `yaml:"fallback" json:"fallback"`
	Total    int     `yaml:"total" json:"total"`
}

// ReportCoverage computes the Tier 1/2/3 split of an already-estimated
// CostEstimate's breakdown.
func ReportCoverage(estimate spec.CostEstimate) Coverage {
	var catalogN, formulaN, fallbackN int
	for _, line := range estimate.Breakdown {
		switch line.Source {
		case "catalog":
			catalogN++
		case "formula":
			formulaN++
		case "fallback":
			fallbackN++
		}
	}

	total := len(estimate.Breakdown)
	if total == 0 {
		return Coverage{Total: 0}
	}
	return Coverage{
		Catalog:  round2(float64(catalogN) / float64(total) * 100),
		Formula:  round2(float64(formulaN) / float64(total) * 100),
		Fallback: round2(float64(fallbackN) / float64(total) * 100),
		Total:    total,
	}
}
