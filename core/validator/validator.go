// Package validator checks an ArchSpec against named compliance
// frameworks (HIPAA, PCI-DSS, SOC 2, FedRAMP Moderate, GDPR) and the
// cloud Well-Architected pillars, producing a per-framework
// ValidationResult with named, severity-tagged checks.
package validator

import (
	"strings"

	"cloudwright/core/spec"
)

// baaEligible lists, per provider, the services a Business Associate
// Agreement can cover — the HIPAA baa_eligible check only passes when
// every compute/data/storage service in the spec is on this list.
var baaEligible = map[string]map[string]bool{
	"aws": setOf(
		"ec2", "ecs", "eks", "fargate", "lambda", "rds", "aurora", "dynamodb",
		"s3", "elasticache", "redshift", "sqs", "sns", "kms", "cloudwatch",
		"cloudtrail", "cognito", "api_gateway", "alb", "nlb", "cloudfront",
		"route53", "vpc", "iam", "secrets_manager", "guardduty",
	),
	"gcp": setOf(
		"compute_engine", "gke", "cloud_run", "cloud_functions", "cloud_sql",
		"firestore", "spanner", "cloud_storage", "memorystore", "bigquery",
		"pub_sub", "cloud_kms", "cloud_logging", "cloud_monitoring",
		"firebase_auth", "cloud_load_balancing", "cloud_cdn", "cloud_dns",
		"vnet", "cloud_armor", "cloud_nat",
	),
	"azure": setOf(
		"virtual_machines", "aks", "container_apps", "azure_functions",
		"azure_sql", "cosmos_db", "blob_storage", "azure_cache", "synapse",
		"service_bus", "key_vault", "azure_monitor", "azure_ad",
		"api_management", "azure_lb", "app_gateway", "azure_cdn", "azure_dns",
		"azure_waf",
	),
}

func setOf(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

var dataStoreServices = setOf(
	"rds", "aurora", "dynamodb", "elasticache", "redshift",
	"cloud_sql", "firestore", "memorystore", "bigquery", "spanner",
	"azure_sql", "cosmos_db", "azure_cache", "synapse",
	"s3", "cloud_storage", "blob_storage",
)

var storageServices = setOf("s3", "cloud_storage", "blob_storage")

var loggingServices = setOf("cloudwatch", "cloudtrail", "cloud_logging", "azure_monitor")

var authServices = setOf("cognito", "iam", "firebase_auth", "azure_ad")

var wafServices = setOf("waf", "cloud_armor", "azure_waf")

var lbServices = setOf("alb", "nlb", "cloud_load_balancing", "app_gateway", "azure_lb")

var computeServices = setOf(
	"ec2", "ecs", "eks", "fargate", "compute_engine", "gke", "cloud_run",
	"virtual_machines", "aks", "container_apps",
)

var cicdServices = setOf("codepipeline", "codebuild", "cloud_build", "azure_devops")

var insecureProtocols = setOf("HTTP", "http", "PLAIN", "plain", "FTP", "ftp")

// oversizedKeywords flags instance types that likely indicate
// over-provisioning relative to typical workload needs.
var oversizedKeywords = []string{"32xlarge", "24xlarge", "16xlarge"}

// Validator checks an ArchSpec against named compliance frameworks.
type Validator struct{}

// New returns a stateless Validator.
func New() *Validator { return &Validator{} }

// Validate runs every named framework against s and returns one
// ValidationResult per framework, in the order given.
func (v *Validator) Validate(s spec.ArchSpec, frameworks []string) []spec.ValidationResult {
	results := make([]spec.ValidationResult, 0, len(frameworks))
	for _, fw := range frameworks {
		results = append(results, v.ValidateOne(s, fw))
	}
	return results
}

// ValidateOne runs a single named framework against s.
func (v *Validator) ValidateOne(s spec.ArchSpec, framework string) spec.ValidationResult {
	switch strings.ToUpper(strings.TrimSpace(framework)) {
	case "HIPAA":
		return v.checkHIPAA(s)
	case "PCI-DSS", "PCI_DSS", "PCIDSS":
		return v.checkPCIDSS(s)
	case "SOC2", "SOC 2", "SOC_2":
		return v.checkSOC2(s)
	case "WELL-ARCHITECTED", "WELL_ARCHITECTED", "WELLARCHITECTED":
		return v.checkWellArchitected(s)
	case "FEDRAMP", "FEDRAMP MODERATE", "FEDRAMP_MODERATE":
		return v.checkFedRAMPModerate(s)
	case "GDPR":
		return v.checkGDPR(s)
	default:
		return spec.ValidationResult{
			Framework: framework,
			Passed:    false,
			Score:     0,
			Checks: []spec.ValidationCheck{{
				Name: "unknown_framework", Category: "config", Passed: false,
				Severity: "info", Detail: "no checks defined for framework " + framework,
			}},
		}
	}
}

func services(s spec.ArchSpec) map[string]spec.Component {
	m := make(map[string]spec.Component, len(s.Components))
	for _, c := range s.Components {
		m[c.Service] = c
	}
	return m
}

// hasEncryptionInTransit is true when there are no connections at all,
// or none of them name an insecure protocol.
func hasEncryptionInTransit(s spec.ArchSpec) bool {
	for _, conn := range s.Connections {
		if conn.Protocol != "" && insecureProtocols[conn.Protocol] {
			return false
		}
	}
	return true
}

// storesUnencrypted returns the ids of data/storage components whose
// config does not declare encryption.
func storesUnencrypted(s spec.ArchSpec) []string {
	var unencrypted []string
	for _, c := range s.Components {
		if !dataStoreServices[c.Service] && !storageServices[c.Service] {
			continue
		}
		if !c.Config.GetBool("encryption", false) && !c.Config.GetBool("encrypted", false) {
			unencrypted = append(unencrypted, c.ID)
		}
	}
	return unencrypted
}

func score(checks []spec.ValidationCheck) float64 {
	if len(checks) == 0 {
		return 1.0
	}
	passed := 0
	for _, c := range checks {
		if c.Passed {
			passed++
		}
	}
	return float64(passed) / float64(len(checks))
}

func anyOversized(svc map[string]spec.Component) bool {
	for _, c := range svc {
		for _, key := range []string{"instance_type", "machine_type", "vm_size"} {
			if v := c.Config.GetString(key, ""); v != "" {
				for _, kw := range oversizedKeywords {
					if strings.Contains(v, kw) {
						return true
					}
				}
			}
		}
	}
	return false
}

func allHighSeverityPassed(checks []spec.ValidationCheck) bool {
	for _, c := range checks {
		if c.Severity == "high" && !c.Passed {
			return false
		}
	}
	return true
}

func allCriticalPassed(checks []spec.ValidationCheck) bool {
	for _, c := range checks {
		if c.Severity == "critical" && !c.Passed {
			return false
		}
	}
	return true
}
