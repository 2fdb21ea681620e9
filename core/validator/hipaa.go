package validator

import (
	"fmt"

	"cloudwright/core/spec"
)

// checkHIPAA runs the HIPAA Security Rule checks: every data-handling
// service must be BAA-eligible, data at rest and in transit must be
// encrypted, access must be logged, and an auth/IAM boundary must be
// present.
func (v *Validator) checkHIPAA(s spec.ArchSpec) spec.ValidationResult {
	svc := services(s)

	var ineligible []string
	for _, c := range s.Components {
		if !dataStoreServices[c.Service] && !computeServices[c.Service] && !storageServices[c.Service] {
			continue
		}
		eligible := baaEligible[c.Provider]
		if eligible == nil || !eligible[c.Service] {
			ineligible = append(ineligible, fmt.Sprintf("%s (%s)", c.ID, c.Service))
		}
	}
	baaCheck := spec.ValidationCheck{
		Name: "baa_eligible_services", Category: "compliance", Severity: "critical",
	}
	if len(ineligible) == 0 {
		baaCheck.Passed = true
		baaCheck.Detail = "all data-handling services are BAA-eligible"
	} else {
		baaCheck.Detail = fmt.Sprintf("non-BAA-eligible services in use: %v", ineligible)
		baaCheck.Recommendation = "replace with a BAA-eligible equivalent or request one from the provider"
	}

	unencrypted := storesUnencrypted(s)
	encryptionCheck := spec.ValidationCheck{
		Name: "encryption_at_rest", Category: "security", Severity: "critical",
	}
	if len(unencrypted) == 0 {
		encryptionCheck.Passed = true
		encryptionCheck.Detail = "all data stores declare encryption at rest"
	} else {
		encryptionCheck.Detail = fmt.Sprintf("unencrypted data stores: %v", unencrypted)
		encryptionCheck.Recommendation = "set encryption: true on every data store and storage component"
	}

	transitCheck := spec.ValidationCheck{
		Name: "encryption_in_transit", Category: "security", Severity: "critical",
	}
	if hasEncryptionInTransit(s) {
		transitCheck.Passed = true
		transitCheck.Detail = "no connection declares an insecure protocol"
	} else {
		transitCheck.Detail = "one or more connections use an insecure protocol (HTTP/plain/FTP)"
		transitCheck.Recommendation = "use TLS-terminated protocols (HTTPS, gRPC+TLS) on every connection"
	}

	hasLogging := false
	for key := range svc {
		if loggingServices[key] {
			hasLogging = true
			break
		}
	}
	auditCheck := spec.ValidationCheck{
		Name: "audit_logging", Category: "monitoring", Severity: "high",
	}
	if hasLogging {
		auditCheck.Passed = true
		auditCheck.Detail = "an audit logging service is present"
	} else {
		auditCheck.Detail = "no audit logging service found"
		auditCheck.Recommendation = "add CloudWatch/CloudTrail/Cloud Logging/Azure Monitor to capture access logs"
	}

	hasAuth := false
	for key := range svc {
		if authServices[key] {
			hasAuth = true
			break
		}
	}
	accessControlCheck := spec.ValidationCheck{
		Name: "access_control", Category: "security", Severity: "high",
	}
	if hasAuth {
		accessControlCheck.Passed = true
		accessControlCheck.Detail = "an identity/access management service is present"
	} else {
		accessControlCheck.Detail = "no IAM/auth service found"
		accessControlCheck.Recommendation = "add an identity provider (Cognito/IAM/Firebase Auth/Azure AD)"
	}

	backupCheck := spec.ValidationCheck{
		Name: "backup_enabled", Category: "reliability", Severity: "medium",
	}
	missingBackup := missingBackupIDs(s)
	if len(missingBackup) == 0 {
		backupCheck.Passed = true
		backupCheck.Detail = "all data stores declare a backup policy"
	} else {
		backupCheck.Detail = fmt.Sprintf("data stores without backup declared: %v", missingBackup)
		backupCheck.Recommendation = "set backup_retention_days or backup: true on every data store"
	}

	checks := []spec.ValidationCheck{baaCheck, encryptionCheck, transitCheck, auditCheck, accessControlCheck, backupCheck}
	return spec.ValidationResult{
		Framework: "HIPAA",
		Passed:    allCriticalPassed(checks) && allHighSeverityPassed(checks),
		Score:     score(checks),
		Checks:    checks,
	}
}

func missingBackupIDs(s spec.ArchSpec) []string {
	var missing []string
	for _, c := range s.Components {
		if !dataStoreServices[c.Service] {
			continue
		}
		if c.Config.GetBool("backup", false) || c.Config.GetNumber("backup_retention_days", 0) > 0 {
			continue
		}
		missing = append(missing, c.ID)
	}
	return missing
}
