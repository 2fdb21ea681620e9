package spec

import (
	"fmt"

	cwerrors "cloudwright/internal/errors"
)

func errNotIaCSafe(id string) error {
	return cwerrors.Specf("%q is not IaC-safe: must match ^[A-Za-z_][A-Za-z0-9_-]*$", id)
}

// Validate checks every structural invariant named in the data model:
// unique component ids that are IaC-safe, connections that resolve to
// existing components, boundary parents that resolve or are nil, and
// tiers within the documented 0-4 range. It does not run compliance or
// well-architected checks — that is the Validator's job.
func (s ArchSpec) Validate() error {
	seen := make(map[string]bool, len(s.Components))
	for _, c := range s.Components {
		if !IsIaCSafeID(c.ID) {
			return errNotIaCSafe(c.ID)
		}
		if seen[c.ID] {
			return cwerrors.Specf("duplicate component id: %s", c.ID)
		}
		seen[c.ID] = true
		if c.Tier < 0 || c.Tier > 4 {
			return cwerrors.Specf("component %s: tier %d out of range [0,4]", c.ID, c.Tier)
		}
	}

	for _, conn := range s.Connections {
		if _, ok := seen[conn.Source]; !ok {
			return cwerrors.Specf("connection references unknown source component: %s", conn.Source)
		}
		if _, ok := seen[conn.Target]; !ok {
			return cwerrors.Specf("connection references unknown target component: %s", conn.Target)
		}
	}

	boundaryIDs := make(map[string]bool, len(s.Boundaries))
	for _, b := range s.Boundaries {
		if !IsIaCSafeID(b.ID) {
			return errNotIaCSafe(b.ID)
		}
		boundaryIDs[b.ID] = true
	}
	for _, b := range s.Boundaries {
		if b.Parent != nil {
			if !boundaryIDs[*b.Parent] {
				return cwerrors.Specf("boundary %s: parent %s does not resolve", b.ID, *b.Parent)
			}
		}
		for _, cid := range b.ComponentIDs {
			if !seen[cid] {
				return cwerrors.Specf("boundary %s: references unknown component %s", b.ID, cid)
			}
		}
	}

	return nil
}

// RecomputeMonthlyTotal enforces the invariant
// monthly_total = round(sum(breakdown.monthly) + data_transfer_monthly, 2).
// sumRound2 does the summing and rounding (money.SumRound2 keeps it in
// decimal). The Cost Engine does not call it; Estimate sums its own
// breakdown.
func (ce *CostEstimate) RecomputeMonthlyTotal(sumRound2 func([]float64) float64) {
	vals := make([]float64, len(ce.Breakdown))
	for i, c := range ce.Breakdown {
		vals[i] = c.Monthly
	}
	componentTotal := sumRound2(vals)
	ce.MonthlyTotal = sumRound2([]float64{componentTotal, ce.DataTransferMonthly})
}

func requireField(name, value string) error {
	if value == "" {
		return cwerrors.Specf("missing required field: %s", name)
	}
	return nil
}

// RequireBasics checks the handful of fields that must be non-empty
// before any downstream component (Cost Engine, Validator) can safely
// operate on a producer-emitted spec.
func (s ArchSpec) RequireBasics() error {
	if err := requireField("name", s.Name); err != nil {
		return err
	}
	if err := requireField("provider", s.Provider); err != nil {
		return err
	}
	for _, c := range s.Components {
		if c.Service == "" {
			return fmt.Errorf("component %s: missing service", c.ID)
		}
	}
	return nil
}
