package validator

import (
	"fmt"

	"cloudwright/core/spec"
)

// gdprRestrictedRegionPrefixes are non-EU/EEA region prefixes that should not
// hold personal data when a data-residency constraint is in play.
var gdprRestrictedRegionPrefixes = []string{"us-", "ap-", "sa-", "ca-"}

// checkGDPR runs a GDPR-flavored check: data residency (region must
// not obviously fall outside the EU/EEA), encryption at rest and in
// transit, and a logging service for accountability. Not ported from
// original_source — same situation as checkFedRAMPModerate.
func (v *Validator) checkGDPR(s spec.ArchSpec) spec.ValidationResult {
	svc := services(s)

	residencyCheck := spec.ValidationCheck{
		Name: "data_residency", Category: "compliance", Severity: "high",
	}
	region := s.Region
	restricted := false
	for _, prefix := range gdprRestrictedRegionPrefixes {
		if len(region) >= len(prefix) && region[:len(prefix)] == prefix {
			restricted = true
			break
		}
	}
	switch {
	case region == "":
		residencyCheck.Detail = "no region declared; cannot confirm EU/EEA data residency"
		residencyCheck.Recommendation = "set region to an EU/EEA region (e.g. eu-west-1, europe-west1, westeurope)"
	case restricted:
		residencyCheck.Detail = fmt.Sprintf("region %q is outside the EU/EEA", region)
		residencyCheck.Recommendation = "move personal-data components to an EU/EEA region or document a transfer mechanism"
	default:
		residencyCheck.Passed = true
		residencyCheck.Detail = fmt.Sprintf("region %q appears to be within the EU/EEA", region)
	}

	unencrypted := storesUnencrypted(s)
	encryptionCheck := spec.ValidationCheck{
		Name: "encryption_at_rest", Category: "security", Severity: "high",
	}
	if len(unencrypted) == 0 {
		encryptionCheck.Passed = true
		encryptionCheck.Detail = "all data stores declare encryption at rest"
	} else {
		encryptionCheck.Detail = fmt.Sprintf("unencrypted data stores: %v", unencrypted)
		encryptionCheck.Recommendation = "enable encryption on every data store holding personal data"
	}

	transitCheck := spec.ValidationCheck{
		Name: "encryption_in_transit", Category: "security", Severity: "medium",
	}
	if hasEncryptionInTransit(s) {
		transitCheck.Passed = true
		transitCheck.Detail = "no connection declares an insecure protocol"
	} else {
		transitCheck.Detail = "one or more connections use an insecure protocol"
		transitCheck.Recommendation = "use TLS on every connection carrying personal data"
	}

	hasLogging := false
	for key := range svc {
		if loggingServices[key] {
			hasLogging = true
			break
		}
	}
	accountabilityCheck := spec.ValidationCheck{
		Name: "accountability_logging", Category: "monitoring", Severity: "medium",
	}
	if hasLogging {
		accountabilityCheck.Passed = true
		accountabilityCheck.Detail = "a logging service is present to support accountability obligations"
	} else {
		accountabilityCheck.Detail = "no logging service found"
		accountabilityCheck.Recommendation = "add a logging service to evidence processing activity"
	}

	checks := []spec.ValidationCheck{residencyCheck, encryptionCheck, transitCheck, accountabilityCheck}
	return spec.ValidationResult{
		Framework: "GDPR",
		Passed:    allHighSeverityPassed(checks),
		Score:     score(checks),
		Checks:    checks,
	}
}
