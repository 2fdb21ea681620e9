package validator

import (
	"fmt"

	"cloudwright/core/spec"
)

// checkPCIDSS runs the PCI-DSS checks: network segmentation via at
// least one boundary, a WAF in front of anything public-facing,
// encryption at rest for cardholder-data stores, and logging.
func (v *Validator) checkPCIDSS(s spec.ArchSpec) spec.ValidationResult {
	svc := services(s)

	segmentationCheck := spec.ValidationCheck{
		Name: "network_segmentation", Category: "security", Severity: "high",
	}
	if len(s.Boundaries) > 0 {
		segmentationCheck.Passed = true
		segmentationCheck.Detail = fmt.Sprintf("%d network boundary(ies) declared", len(s.Boundaries))
	} else {
		segmentationCheck.Detail = "no network boundaries (VPC/subnet) declared"
		segmentationCheck.Recommendation = "isolate cardholder-data components behind a dedicated boundary"
	}

	hasWAF := false
	for key := range svc {
		if wafServices[key] {
			hasWAF = true
			break
		}
	}
	hasPublicEntry := false
	for key := range svc {
		if lbServices[key] {
			hasPublicEntry = true
			break
		}
	}
	wafCheck := spec.ValidationCheck{
		Name: "waf_present", Category: "security", Severity: "high",
	}
	switch {
	case !hasPublicEntry:
		wafCheck.Passed = true
		wafCheck.Detail = "no public-facing load balancer found; waf not required"
	case hasWAF:
		wafCheck.Passed = true
		wafCheck.Detail = "a web application firewall is present"
	default:
		wafCheck.Detail = "public-facing load balancer found without a WAF"
		wafCheck.Recommendation = "add AWS WAF / Cloud Armor / Azure WAF in front of the load balancer"
	}

	unencrypted := storesUnencrypted(s)
	encryptionCheck := spec.ValidationCheck{
		Name: "cardholder_data_encryption", Category: "security", Severity: "critical",
	}
	if len(unencrypted) == 0 {
		encryptionCheck.Passed = true
		encryptionCheck.Detail = "all data stores declare encryption at rest"
	} else {
		encryptionCheck.Detail = fmt.Sprintf("unencrypted data stores: %v", unencrypted)
		encryptionCheck.Recommendation = "enable encryption on every data store holding cardholder data"
	}

	hasLogging := false
	for key := range svc {
		if loggingServices[key] {
			hasLogging = true
			break
		}
	}
	loggingCheck := spec.ValidationCheck{
		Name: "logging_and_monitoring", Category: "monitoring", Severity: "medium",
	}
	if hasLogging {
		loggingCheck.Passed = true
		loggingCheck.Detail = "a logging/monitoring service is present"
	} else {
		loggingCheck.Detail = "no logging/monitoring service found"
		loggingCheck.Recommendation = "add CloudWatch/Cloud Logging/Azure Monitor for access and change tracking"
	}

	transitCheck := spec.ValidationCheck{
		Name: "encrypted_transmission", Category: "security", Severity: "high",
	}
	if hasEncryptionInTransit(s) {
		transitCheck.Passed = true
		transitCheck.Detail = "no connection declares an insecure protocol"
	} else {
		transitCheck.Detail = "one or more connections use an insecure protocol"
		transitCheck.Recommendation = "use TLS on every connection carrying cardholder data"
	}

	checks := []spec.ValidationCheck{segmentationCheck, wafCheck, encryptionCheck, loggingCheck, transitCheck}
	return spec.ValidationResult{
		Framework: "PCI-DSS",
		Passed:    allCriticalPassed(checks) && allHighSeverityPassed(checks),
		Score:     score(checks),
		Checks:    checks,
	}
}
