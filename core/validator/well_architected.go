package validator

import (
	"fmt"

	"cloudwright/core/spec"
)

// checkWellArchitected runs pillar-style checks (not a named vendor
// framework): reliability (redundancy), security (encryption + WAF + auth),
// cost optimization (no obviously oversized instances), operational
// excellence (monitoring present).
func (v *Validator) checkWellArchitected(s spec.ArchSpec) spec.ValidationResult {
	svc := services(s)

	var noRedundancy []string
	for _, c := range s.Components {
		if !computeServices[c.Service] {
			continue
		}
		if c.Config.GetBool("multi_az", false) || c.Config.GetBool("auto_scaling", false) {
			continue
		}
		if c.Config.GetNumber("count", 1) > 1 || c.Config.GetNumber("instance_count", 1) > 1 ||
			c.Config.GetNumber("desired_count", 1) > 1 {
			continue
		}
		noRedundancy = append(noRedundancy, c.ID)
	}
	reliabilityCheck := spec.ValidationCheck{
		Name: "reliability_redundancy", Category: "reliability", Severity: "medium",
	}
	if len(noRedundancy) == 0 {
		reliabilityCheck.Passed = true
		reliabilityCheck.Detail = "every compute component has redundancy configured"
	} else {
		reliabilityCheck.Detail = fmt.Sprintf("compute without redundancy: %v", noRedundancy)
		reliabilityCheck.Recommendation = "enable multi_az, auto_scaling, or count greater than 1"
	}

	hasWAF, hasAuth := false, false
	for key := range svc {
		hasWAF = hasWAF || wafServices[key]
		hasAuth = hasAuth || authServices[key]
	}
	unencrypted := storesUnencrypted(s)
	securityCheck := spec.ValidationCheck{
		Name: "security_encryption", Category: "security", Severity: "high",
	}
	switch {
	case len(unencrypted) > 0:
		securityCheck.Detail = fmt.Sprintf("unencrypted data stores: %v", unencrypted)
		securityCheck.Recommendation = "enable encryption on every data store"
	case !hasWAF || !hasAuth:
		securityCheck.Detail = "data stores are encrypted, but a WAF or an auth service is missing"
		securityCheck.Recommendation = "add a WAF and an identity/auth service"
	default:
		securityCheck.Passed = true
		securityCheck.Detail = "all data stores encrypted; WAF and auth service present"
	}

	oversized := anyOversized(svc)
	costCheck := spec.ValidationCheck{
		Name: "cost_optimization", Category: "cost", Severity: "low",
	}
	if !oversized {
		costCheck.Passed = true
		costCheck.Detail = "no obviously oversized instance types found"
	} else {
		costCheck.Detail = "one or more components use a very large instance type (16xlarge+)"
		costCheck.Recommendation = "confirm the workload genuinely needs this instance size before provisioning"
	}

	hasLogging := false
	for key := range svc {
		if loggingServices[key] {
			hasLogging = true
			break
		}
	}
	opsCheck := spec.ValidationCheck{
		Name: "operational_excellence", Category: "monitoring", Severity: "medium",
	}
	if hasLogging {
		opsCheck.Passed = true
		opsCheck.Detail = "a logging/monitoring service is present"
	} else {
		opsCheck.Detail = "no logging/monitoring service found"
		opsCheck.Recommendation = "add a logging/monitoring service for operational visibility"
	}

	checks := []spec.ValidationCheck{reliabilityCheck, securityCheck, costCheck, opsCheck}
	return spec.ValidationResult{
		Framework: "Well-Architected",
		Passed:    allHighSeverityPassed(checks),
		Score:     score(checks),
		Checks:    checks,
	}
}
