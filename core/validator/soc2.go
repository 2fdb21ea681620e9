package validator

import (
	"fmt"

	"cloudwright/core/spec"
)

// checkSOC2 runs checks against the SOC 2 Trust Services Criteria:
// availability (redundancy), logging (security monitoring), change
// management (a CI/CD service present), and access control.
func (v *Validator) checkSOC2(s spec.ArchSpec) spec.ValidationResult {
	svc := services(s)

	var singlePoint []string
	for _, c := range s.Components {
		if !computeServices[c.Service] && !dataStoreServices[c.Service] {
			continue
		}
		if c.Config.GetBool("multi_az", false) || c.Config.GetBool("auto_scaling", false) {
			continue
		}
		if c.Config.GetNumber("count", 1) > 1 || c.Config.GetNumber("instance_count", 1) > 1 ||
			c.Config.GetNumber("node_count", 1) > 1 || c.Config.GetNumber("min_instances", 1) > 1 {
			continue
		}
		singlePoint = append(singlePoint, c.ID)
	}
	availabilityCheck := spec.ValidationCheck{
		Name: "availability_redundancy", Category: "reliability", Severity: "high",
	}
	if len(singlePoint) == 0 {
		availabilityCheck.Passed = true
		availabilityCheck.Detail = "every compute/data component has redundancy or auto-scaling configured"
	} else {
		availabilityCheck.Detail = fmt.Sprintf("single points of failure: %v", singlePoint)
		availabilityCheck.Recommendation = "enable multi_az, auto_scaling, or a count greater than 1"
	}

	hasLogging := false
	for key := range svc {
		if loggingServices[key] {
			hasLogging = true
			break
		}
	}
	monitoringCheck := spec.ValidationCheck{
		Name: "security_monitoring", Category: "monitoring", Severity: "high",
	}
	if hasLogging {
		monitoringCheck.Passed = true
		monitoringCheck.Detail = "a logging/monitoring service is present"
	} else {
		monitoringCheck.Detail = "no logging/monitoring service found"
		monitoringCheck.Recommendation = "add a logging/monitoring service for security event tracking"
	}

	hasCICD := false
	for key := range svc {
		if cicdServices[key] {
			hasCICD = true
			break
		}
	}
	changeMgmtCheck := spec.ValidationCheck{
		Name: "change_management", Category: "process", Severity: "low",
	}
	if hasCICD {
		changeMgmtCheck.Passed = true
		changeMgmtCheck.Detail = "a CI/CD pipeline service is present"
	} else {
		changeMgmtCheck.Detail = "no CI/CD pipeline service found in the spec"
		changeMgmtCheck.Recommendation = "document change management even if the pipeline lives outside this architecture"
	}

	hasAuth := false
	for key := range svc {
		if authServices[key] {
			hasAuth = true
			break
		}
	}
	accessCheck := spec.ValidationCheck{
		Name: "logical_access_control", Category: "security", Severity: "high",
	}
	if hasAuth {
		accessCheck.Passed = true
		accessCheck.Detail = "an identity/access management service is present"
	} else {
		accessCheck.Detail = "no IAM/auth service found"
		accessCheck.Recommendation = "add an identity provider to enforce least-privilege access"
	}

	checks := []spec.ValidationCheck{availabilityCheck, monitoringCheck, changeMgmtCheck, accessCheck}
	return spec.ValidationResult{
		Framework: "SOC2",
		Passed:    allHighSeverityPassed(checks),
		Score:     score(checks),
		Checks:    checks,
	}
}
