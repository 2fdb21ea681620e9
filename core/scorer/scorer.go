// Package scorer computes a weighted 0-100 architecture quality score
// across five dimensions (reliability, security, cost efficiency,
// compliance, complexity) and the letter grade it maps to.
package scorer

import (
	"fmt"

	"cloudwright/core/spec"
	"cloudwright/core/validator"
)

var lbServices = map[string]bool{"alb": true, "nlb": true, "cloud_load_balancing": true, "app_gateway": true, "azure_lb": true}
var dbServices = map[string]bool{"rds": true, "aurora": true, "cloud_sql": true, "azure_sql": true}
var cdnServices = map[string]bool{"cloudfront": true, "cloud_cdn": true, "azure_cdn": true}
var cacheServices = map[string]bool{"elasticache": true, "memorystore": true, "azure_cache": true}
var wafServices = map[string]bool{"waf": true, "cloud_armor": true, "azure_waf": true}
var authServices = map[string]bool{"cognito": true, "iam": true, "firebase_auth": true, "azure_ad": true}
var dnsServices = map[string]bool{"route53": true, "cloud_dns": true, "azure_dns": true}
var dataStoreServices = map[string]bool{
	"rds": true, "aurora": true, "dynamodb": true, "elasticache": true, "redshift": true,
	"cloud_sql": true, "firestore": true, "memorystore": true, "bigquery": true, "spanner": true,
	"azure_sql": true, "cosmos_db": true, "azure_cache": true, "synapse": true,
	"s3": true, "cloud_storage": true, "blob_storage": true,
}
var computeServices = map[string]bool{
	"ec2": true, "ecs": true, "eks": true, "fargate": true, "compute_engine": true,
	"gke": true, "cloud_run": true, "virtual_machines": true, "aks": true, "container_apps": true,
}

// Scorer computes a ScoreResult for an ArchSpec.
type Scorer struct {
	Validator *validator.Validator
}

// New builds a Scorer. v may be nil; a fresh validator.New() is used
// if so, since the Validator is stateless.
func New(v *validator.Validator) *Scorer {
	if v == nil {
		v = validator.New()
	}
	return &Scorer{Validator: v}
}

// Score computes the weighted quality score for s.
func (sc *Scorer) Score(s spec.ArchSpec) spec.ScoreResult {
	dims := []spec.DimensionScore{
		sc.reliability(s),
		sc.security(s),
		sc.costEfficiency(s),
		sc.compliance(s),
		sc.complexity(s),
	}

	var total float64
	for _, d := range dims {
		total += clamp(d.Raw) * d.Weight
	}

	return spec.ScoreResult{
		Total:      round2(total),
		Grade:      grade(total),
		Dimensions: dims,
	}
}

func grade(total float64) string {
	switch {
	case total >= 90:
		return "A"
	case total >= 80:
		return "B"
	case total >= 70:
		return "C"
	case total >= 60:
		return "D"
	default:
		return "F"
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func (sc *Scorer) reliability(s spec.ArchSpec) spec.DimensionScore {
	var raw float64
	var notes []string

	if hasAny(s, lbServices) {
		raw += 25
		notes = append(notes, "load balancer present")
	}
	if anyDBMultiAZ(s) {
		raw += 25
		notes = append(notes, "database multi_az enabled")
	}
	if anyComputeRedundant(s) {
		raw += 20
		notes = append(notes, "compute redundancy configured")
	}
	if hasAny(s, cdnServices) {
		raw += 15
		notes = append(notes, "cdn present")
	}
	if hasAny(s, cacheServices) {
		raw += 15
		notes = append(notes, "cache present")
	}

	return spec.DimensionScore{Name: "reliability", Weight: 0.30, Raw: raw, Detail: joinOrNone(notes)}
}

func (sc *Scorer) security(s spec.ArchSpec) spec.DimensionScore {
	var raw float64
	var notes []string

	if hasAny(s, wafServices) {
		raw += 25
		notes = append(notes, "waf present")
	}
	if hasAny(s, authServices) {
		raw += 25
		notes = append(notes, "auth service present")
	}

	raw += 25 * encryptedFraction(s)
	if encryptedFraction(s) == 1.0 && countDataStores(s) > 0 {
		notes = append(notes, "all data stores encrypted")
	}

	raw += 15 * httpsFraction(s)

	if hasAny(s, dnsServices) {
		raw += 5
		notes = append(notes, "dns service present (half credit)")
	}

	return spec.DimensionScore{Name: "security", Weight: 0.25, Raw: raw, Detail: joinOrNone(notes)}
}

func (sc *Scorer) costEfficiency(s spec.ArchSpec) spec.DimensionScore {
	raw := 60.0
	var notes []string

	if s.CostEstimate != nil {
		total := s.CostEstimate.MonthlyTotal
		if total > 0 {
			for _, bd := range s.CostEstimate.Breakdown {
				if bd.Monthly/total > 0.4 {
					raw -= 10
					notes = append(notes, fmt.Sprintf("%s dominates spend (%.0f%%)", bd.ComponentID, 100*bd.Monthly/total))
					break
				}
			}
		}
		if s.Constraints != nil && s.Constraints.BudgetMonthly > 0 {
			if total <= s.Constraints.BudgetMonthly {
				raw += 20
				notes = append(notes, "under budget")
			} else {
				raw -= 20
				notes = append(notes, "over budget")
			}
		}
	}

	freeTierCount := 0
	for _, c := range s.Components {
		if c.Config.GetBool("free_tier", false) {
			freeTierCount++
		}
	}
	bonus := float64(freeTierCount) * 5
	if bonus > 15 {
		bonus = 15
	}
	if bonus > 0 {
		notes = append(notes, fmt.Sprintf("%d free-tier component(s)", freeTierCount))
	}
	raw += bonus

	return spec.DimensionScore{Name: "cost_efficiency", Weight: 0.20, Raw: raw, Detail: joinOrNone(notes)}
}

func (sc *Scorer) compliance(s spec.ArchSpec) spec.DimensionScore {
	if s.Constraints == nil || len(s.Constraints.Compliance) == 0 {
		return spec.DimensionScore{Name: "compliance", Weight: 0.15, Raw: 70, Detail: "no compliance constraints declared; neutral score"}
	}

	results := sc.Validator.Validate(s, s.Constraints.Compliance)
	var sum float64
	for _, r := range results {
		sum += r.Score
	}
	avg := (sum / float64(len(results))) * 100

	return spec.DimensionScore{
		Name: "compliance", Weight: 0.15, Raw: avg,
		Detail: fmt.Sprintf("average validator score across %d framework(s)", len(results)),
	}
}

func (sc *Scorer) complexity(s spec.ArchSpec) spec.DimensionScore {
	raw := 80.0
	var notes []string

	n := len(s.Components)
	switch {
	case n >= 15:
		raw -= 20
		notes = append(notes, "15+ components")
	case n >= 10:
		raw -= 10
		notes = append(notes, "10+ components")
	case n < 3:
		raw -= 10
		notes = append(notes, "fewer than 3 components")
	}

	if n > 0 {
		density := float64(len(s.Connections)) / float64(n)
		switch {
		case density > 3:
			raw -= 15
			notes = append(notes, "connection density > 3")
		case density < 0.5:
			raw -= 10
			notes = append(notes, "connection density < 0.5")
		}
	}

	if countDistinctProviders(s) > 2 {
		raw -= 10
		notes = append(notes, "more than 2 providers")
	}
	if countDistinctTiers(s) >= 3 {
		raw += 10
		notes = append(notes, "3+ distinct tiers")
	}

	return spec.DimensionScore{Name: "complexity", Weight: 0.10, Raw: raw, Detail: joinOrNone(notes)}
}

func hasAny(s spec.ArchSpec, set map[string]bool) bool {
	for _, c := range s.Components {
		if set[c.Service] {
			return true
		}
	}
	return false
}

func anyDBMultiAZ(s spec.ArchSpec) bool {
	for _, c := range s.Components {
		if dbServices[c.Service] && c.Config.GetBool("multi_az", false) {
			return true
		}
	}
	return false
}

func anyComputeRedundant(s spec.ArchSpec) bool {
	for _, c := range s.Components {
		if !computeServices[c.Service] {
			continue
		}
		if c.Config.GetBool("auto_scaling", false) {
			return true
		}
		if c.Config.GetNumber("count", 1) > 1 || c.Config.GetNumber("instance_count", 1) > 1 ||
			c.Config.GetNumber("desired_count", 1) > 1 {
			return true
		}
	}
	return false
}

func countDataStores(s spec.ArchSpec) int {
	n := 0
	for _, c := range s.Components {
		if dataStoreServices[c.Service] {
			n++
		}
	}
	return n
}

func encryptedFraction(s spec.ArchSpec) float64 {
	total := 0
	encrypted := 0
	for _, c := range s.Components {
		if !dataStoreServices[c.Service] {
			continue
		}
		total++
		if c.Config.GetBool("encryption", false) || c.Config.GetBool("encrypted", false) {
			encrypted++
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(encrypted) / float64(total)
}

func httpsFraction(s spec.ArchSpec) float64 {
	if len(s.Connections) == 0 {
		return 1.0
	}
	secure := 0
	for _, conn := range s.Connections {
		switch conn.Protocol {
		case "https", "HTTPS", "tls", "TLS", "grpc+tls", "":
			secure++
		}
	}
	return float64(secure) / float64(len(s.Connections))
}

func countDistinctProviders(s spec.ArchSpec) int {
	set := make(map[string]bool)
	for _, c := range s.Components {
		set[c.Provider] = true
	}
	return len(set)
}

func countDistinctTiers(s spec.ArchSpec) int {
	set := make(map[int]bool)
	for _, c := range s.Components {
		set[c.Tier] = true
	}
	return len(set)
}

func joinOrNone(notes []string) string {
	if len(notes) == 0 {
		return "no contributing factors found"
	}
	out := notes[0]
	for _, n := range notes[1:] {
		out += "; " + n
	}
	return out
}
