// Package spec defines the ArchSpec data model: the structured
// architecture representation that every other Cloudwright component
// reads or writes. ArchSpec exclusively owns its components, connections,
// boundaries, and cost estimate — nothing downstream mutates those slices
// in place without going through a copy.
package spec

import (
	"regexp"
	"time"
)

var iaCSafeID = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// IsIaCSafeID reports whether id is a valid Terraform/CloudFormation
// resource identifier: starts with a letter or underscore, followed by
// letters, digits, underscores, or hyphens.
func IsIaCSafeID(id string) bool {
	return iaCSafeID.MatchString(id)
}

// Component is a single architecture element: a cloud service instance
// with a provider, a tier for layered diagrams, and a free-form config map
// holding whatever the service needs (instance_type, multi_az, count, ...).
type Component struct {
	ID          string `yaml:"id" json:"id"`
	Service     string `yaml:"service" json:"service"`
	Provider    string `yaml:"provider" json:"provider"`
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Tier        int    `yaml:"tier" json:"tier"`
	Config      Config `yaml:"config,omitempty" json:"config,omitempty"`
}

// NewComponent builds a Component with the documented defaults (tier 2,
// empty config, empty description) applied.
func NewComponent(id, service, provider, label string) Component {
	return Component{ID: id, Service: service, Provider: provider, Label: label, Tier: 2, Config: Config{}}
}

// Clone returns a deep copy safe to mutate independently.
func (c Component) Clone() Component {
	out := c
	out.Config = c.Config.Clone()
	return out
}

// Connection is a directed edge between two components.
type Connection struct {
	Source              string `yaml:"source" json:"source"`
	Target              string `yaml:"target" json:"target"`
	Label               string `yaml:"label,omitempty" json:"label,omitempty"`
	Protocol            string `yaml:"protocol,omitempty" json:"protocol,omitempty"`
	Port                *int   `yaml:"port,omitempty" json:"port,omitempty"`
	EstimatedMonthlyGB  float64 `yaml:"estimated_monthly_gb,omitempty" json:"estimated_monthly_gb,omitempty"`
}

// Boundary groups components into a logical enclosure (VPC, subnet,
// availability zone, region). Parent, if set, must name another boundary
// in the same spec — enforced by Validate, not by the constructor, since
// a Boundary is often built before its siblings exist.
type Boundary struct {
	ID           string   `yaml:"id" json:"id"`
	Kind         string   `yaml:"kind" json:"kind"`
	Label        string   `yaml:"label,omitempty" json:"label,omitempty"`
	Parent       *string  `yaml:"parent,omitempty" json:"parent,omitempty"`
	ComponentIDs []string `yaml:"component_ids,omitempty" json:"component_ids,omitempty"`
	Config       Config   `yaml:"config,omitempty" json:"config,omitempty"`
}

// NewBoundary validates id is IaC-safe before returning, matching the
// original model's constructor-time rejection of malformed ids.
func NewBoundary(id, kind string) (Boundary, error) {
	if !IsIaCSafeID(id) {
		return Boundary{}, errNotIaCSafe(id)
	}
	return Boundary{ID: id, Kind: kind, Config: Config{}}, nil
}

// Constraints captures the user-stated requirements an ArchSpec must
// satisfy: compliance frameworks, budget, availability target, allowed
// regions, latency and throughput targets, data residency.
type Constraints struct {
	Compliance     []string `yaml:"compliance,omitempty" json:"compliance,omitempty"`
	BudgetMonthly  float64  `yaml:"budget_monthly,omitempty" json:"budget_monthly,omitempty"`
	Availability   float64  `yaml:"availability,omitempty" json:"availability,omitempty"`
	Regions        []string `yaml:"regions,omitempty" json:"regions,omitempty"`
	LatencyMS      float64  `yaml:"latency_ms,omitempty" json:"latency_ms,omitempty"`
	DataResidency  string   `yaml:"data_residency,omitempty" json:"data_residency,omitempty"`
	ThroughputRPS  float64  `yaml:"throughput_rps,omitempty" json:"throughput_rps,omitempty"`
}

// ComponentCost is one line of a cost breakdown.
type ComponentCost struct {
	ComponentID string  `yaml:"component_id" json:"component_id"`
	Service     string  `yaml:"service" json:"service"`
	Monthly     float64 `yaml:"monthly" json:"monthly"`
	Hourly      *float64 `yaml:"hourly,omitempty" json:"hourly,omitempty"`
	Notes       string  `yaml:"notes,omitempty" json:"notes,omitempty"`
	// Source records which cost-resolution tier produced Monthly:
	// "catalog", "formula", or "fallback". Additive metadata, not part
	// of the original cost breakdown contract.
	Source string `yaml:"source,omitempty" json:"source,omitempty"`
}

// CostEstimate is the full monthly cost projection for an ArchSpec.
type CostEstimate struct {
	MonthlyTotal        float64         `yaml:"monthly_total" json:"monthly_total"`
	Breakdown           []ComponentCost `yaml:"breakdown,omitempty" json:"breakdown,omitempty"`
	DataTransferMonthly float64         `yaml:"data_transfer_monthly,omitempty" json:"data_transfer_monthly,omitempty"`
	Currency            string          `yaml:"currency" json:"currency"`
	AsOf                string          `yaml:"as_of" json:"as_of"`
}

// NewCostEstimate applies the documented defaults: USD currency and
// today's date for as_of.
func NewCostEstimate(monthlyTotal float64) CostEstimate {
	return CostEstimate{
		MonthlyTotal: monthlyTotal,
		Currency:     "USD",
		AsOf:         time.Now().UTC().Format("2006-01-02"),
	}
}

// Alternative is a cross-provider re-pricing of an ArchSpec, produced by
// the Provider Mapper + Cost Engine working together.
type Alternative struct {
	Provider        string   `yaml:"provider" json:"provider"`
	MonthlyTotal    float64  `yaml:"monthly_total" json:"monthly_total"`
	Spec            *ArchSpec `yaml:"spec,omitempty" json:"spec,omitempty"`
	KeyDifferences  []string `yaml:"key_differences,omitempty" json:"key_differences,omitempty"`
}

// FieldChange is a single field-level difference produced by the Differ.
type FieldChange struct {
	Field    string `yaml:"field" json:"field"`
	Before   any    `yaml:"before,omitempty" json:"before,omitempty"`
	After    any    `yaml:"after,omitempty" json:"after,omitempty"`
}

// ChangedComponent pairs a component id with its field-level changes.
type ChangedComponent struct {
	ComponentID string        `yaml:"component_id" json:"component_id"`
	Changes     []FieldChange `yaml:"changes" json:"changes"`
}

// ConnectionChange describes an added, removed, or modified connection.
type ConnectionChange struct {
	Source string        `yaml:"source" json:"source"`
	Target string        `yaml:"target" json:"target"`
	Type   string        `yaml:"type" json:"type"` // "added", "removed", "changed"
	Changes []FieldChange `yaml:"changes,omitempty" json:"changes,omitempty"`
}

// DiffResult is the output of comparing two ArchSpecs.
type DiffResult struct {
	Added             []Component        `yaml:"added,omitempty" json:"added,omitempty"`
	Removed           []Component        `yaml:"removed,omitempty" json:"removed,omitempty"`
	Changed           []ChangedComponent `yaml:"changed,omitempty" json:"changed,omitempty"`
	ConnectionChanges []ConnectionChange `yaml:"connection_changes,omitempty" json:"connection_changes,omitempty"`
	CostDelta         float64            `yaml:"cost_delta,omitempty" json:"cost_delta,omitempty"`
	Summary           string             `yaml:"summary" json:"summary"`
}

// ValidationCheck is a single named check within a ValidationResult.
type ValidationCheck struct {
	Name           string `yaml:"name" json:"name"`
	Category       string `yaml:"category" json:"category"`
	Passed         bool   `yaml:"passed" json:"passed"`
	Severity       string `yaml:"severity" json:"severity"` // critical, high, medium, low, info
	Detail         string `yaml:"detail" json:"detail"`
	Recommendation string `yaml:"recommendation,omitempty" json:"recommendation,omitempty"`
}

// ValidationResult is the outcome of checking an ArchSpec against one
// compliance or best-practice framework.
type ValidationResult struct {
	Framework string            `yaml:"framework" json:"framework"`
	Passed    bool              `yaml:"passed" json:"passed"`
	Score     float64           `yaml:"score" json:"score"`
	Checks    []ValidationCheck `yaml:"checks,omitempty" json:"checks,omitempty"`
}

// DimensionScore is a single weighted dimension within a ScoreResult.
type DimensionScore struct {
	Name   string  `yaml:"name" json:"name"`
	Weight float64 `yaml:"weight" json:"weight"`
	Raw    float64 `yaml:"raw" json:"raw"` // 0-100, before weighting
	Detail string  `yaml:"detail,omitempty" json:"detail,omitempty"`
}

// ScoreResult is the weighted quality score produced by the Scorer.
type ScoreResult struct {
	Total      float64          `yaml:"total" json:"total"` // 0-100
	Grade      string           `yaml:"grade" json:"grade"` // A-F
	Dimensions []DimensionScore `yaml:"dimensions" json:"dimensions"`
}

// ArchSpec is the complete architecture specification: the root object
// every Cloudwright component produces or consumes.
type ArchSpec struct {
	Name        string        `yaml:"name" json:"name"`
	Version     int           `yaml:"version" json:"version"`
	Provider    string        `yaml:"provider" json:"provider"`
	Region      string        `yaml:"region,omitempty" json:"region,omitempty"`
	Constraints *Constraints  `yaml:"constraints,omitempty" json:"constraints,omitempty"`
	Components  []Component   `yaml:"components,omitempty" json:"components,omitempty"`
	Connections []Connection  `yaml:"connections,omitempty" json:"connections,omitempty"`
	Boundaries  []Boundary    `yaml:"boundaries,omitempty" json:"boundaries,omitempty"`
	CostEstimate *CostEstimate `yaml:"cost_estimate,omitempty" json:"cost_estimate,omitempty"`
	Metadata    map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// New builds an ArchSpec with the documented defaults: version 1 and
// empty, non-nil components/connections slices, which are omitted on
// write while they stay empty.
func New(name, provider string) ArchSpec {
	return ArchSpec{
		Name:        name,
		Version:     1,
		Provider:    provider,
		Components:  []Component{},
		Connections: []Connection{},
	}
}

// Clone returns a deep copy of the spec, used by every operation that
// must not mutate its input (Post-Validator, Provider Mapper, Cost Engine).
func (s ArchSpec) Clone() ArchSpec {
	out := s
	out.Components = make([]Component, len(s.Components))
	for i, c := range s.Components {
		out.Components[i] = c.Clone()
	}
	out.Connections = append([]Connection(nil), s.Connections...)
	out.Boundaries = append([]Boundary(nil), s.Boundaries...)
	if s.Constraints != nil {
		cc := *s.Constraints
		out.Constraints = &cc
	}
	if s.CostEstimate != nil {
		ce := *s.CostEstimate
		ce.Breakdown = append([]ComponentCost(nil), s.CostEstimate.Breakdown...)
		out.CostEstimate = &ce
	}
	if s.Metadata != nil {
		m := make(map[string]string, len(s.Metadata))
		for k, v := range s.Metadata {
			m[k] = v
		}
		out.Metadata = m
	}
	return out
}

// ComponentByID returns the component with the given id, if present.
func (s ArchSpec) ComponentByID(id string) (Component, bool) {
	for _, c := range s.Components {
		if c.ID == id {
			return c, true
		}
	}
	return Component{}, false
}
