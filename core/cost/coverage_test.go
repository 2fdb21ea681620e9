package cost

import (
	"testing"

	"cloudwright/core/spec"
)

func TestReportCoverageSplitsByTier(t *testing.T) {
	estimate := spec.CostEstimate{
		Breakdown: []spec.ComponentCost{
			{ComponentID: "a", Source: "catalog"},
			{ComponentID: "b", Source: "catalog"},
			{ComponentID: "c", Source: "formula"},
			{ComponentID: "d", Source: "fallback"},
		},
	}
	cov := ReportCoverage(estimate)
	if cov.Total != 4 {
		t.Fatalf("Total = %d, want 4", cov.Total)
	}
	if cov.Catalog != 50 {
		t.Fatalf("Catalog = %v, want 50", cov.Catalog)
	}
	if cov.Formula != 25 {
		t.Fatalf("Formula = %v, want 25", cov.Formula)
	}
	if cov.Fallback != 25 {
		t.Fatalf("Fallback = %v, want 25", cov.Fallback)
	}
}

func TestReportCoverageEmptyBreakdown(t *testing.T) {
	cov := ReportCoverage(spec.CostEstimate{})
	if cov.Total != 0 {
		t.Fatalf("Total = %d, want 0", cov.Total)
	}
}
