package validator

import (
	"testing"

	"cloudwright/core/spec"
)

func unhardenedHIPAASpec() spec.ArchSpec {
	s := spec.New("patient-portal", "aws")
	db := spec.NewComponent("db", "rds", "aws", "Patient records")
	web := spec.NewComponent("web", "ec2", "aws", "Web tier")
	s.Components = []spec.Component{db, web}
	s.Connections = []spec.Connection{{Source: "web", Target: "db", Protocol: "http"}}
	return s
}

func TestHIPAAFailsOnUnhardenedSpec(t *testing.T) {
	v := New()
	result := v.ValidateOne(unhardenedHIPAASpec(), "HIPAA")

	if result.Passed {
		t.Fatal("expected unhardened spec to fail HIPAA")
	}
	byName := make(map[string]spec.ValidationCheck)
	for _, c := range result.Checks {
		byName[c.Name] = c
	}
	if byName["encryption_at_rest"].Passed {
		t.Fatal("expected encryption_at_rest to fail without encryption config")
	}
	if byName["encryption_in_transit"].Passed {
		t.Fatal("expected encryption_in_transit to fail with http connection")
	}
	if byName["audit_logging"].Passed {
		t.Fatal("expected audit_logging to fail without a logging service")
	}
}

func TestHIPAAPassesAfterHardening(t *testing.T) {
	v := New()
	s := unhardenedHIPAASpec()
	s.Components[0].Config = spec.Config{
		"encryption": spec.Bool(true), "backup": spec.Bool(true),
	}
	s.Components[1].Config = spec.Config{"multi_az": spec.Bool(true)}
	s.Components = append(s.Components,
		spec.NewComponent("logs", "cloudwatch", "aws", "Audit logs"),
		spec.NewComponent("auth", "cognito", "aws", "Identity"),
	)
	for i := range s.Connections {
		s.Connections[i].Protocol = "https"
	}

	result := v.ValidateOne(s, "HIPAA")
	if !result.Passed {
		t.Fatalf("expected hardened spec to pass HIPAA, got checks: %+v", result.Checks)
	}
	if result.Score != 1.0 {
		t.Fatalf("expected perfect score, got %v", result.Score)
	}
}

func TestPCIDSSRequiresWAFOnlyWhenPublicFacing(t *testing.T) {
	v := New()
	s := spec.New("internal-tool", "aws")
	s.Components = []spec.Component{spec.NewComponent("worker", "lambda", "aws", "Batch worker")}

	result := v.ValidateOne(s, "PCI-DSS")
	var wafCheck spec.ValidationCheck
	for _, c := range result.Checks {
		if c.Name == "waf_present" {
			wafCheck = c
		}
	}
	if !wafCheck.Passed {
		t.Fatalf("expected waf_present to pass when there is no public load balancer, got %+v", wafCheck)
	}
}

func TestPCIDSSFlagsMissingWAF(t *testing.T) {
	v := New()
	s := spec.New("storefront", "aws")
	s.Components = []spec.Component{
		spec.NewComponent("lb", "alb", "aws", "Load balancer"),
		spec.NewComponent("web", "ec2", "aws", "Web tier"),
	}

	result := v.ValidateOne(s, "PCI-DSS")
	for _, c := range result.Checks {
		if c.Name == "waf_present" && c.Passed {
			t.Fatal("expected waf_present to fail with a public load balancer and no WAF")
		}
	}
}

func TestSOC2FlagsSinglePointOfFailure(t *testing.T) {
	v := New()
	s := spec.New("api", "aws")
	s.Components = []spec.Component{spec.NewComponent("web", "ec2", "aws", "Web tier")}

	result := v.ValidateOne(s, "SOC2")
	for _, c := range result.Checks {
		if c.Name == "availability_redundancy" && c.Passed {
			t.Fatal("expected availability_redundancy to fail for a single ec2 instance")
		}
	}
}

func TestWellArchitectedFlagsOversizedInstance(t *testing.T) {
	v := New()
	s := spec.New("api", "aws")
	c := spec.NewComponent("web", "ec2", "aws", "Web tier")
	c.Config = spec.Config{"instance_type": spec.String("m5.24xlarge"), "auto_scaling": spec.Bool(true)}
	s.Components = []spec.Component{c}

	result := v.ValidateOne(s, "Well-Architected")
	for _, c := range result.Checks {
		if c.Name == "cost_optimization" && c.Passed {
			t.Fatal("expected cost_optimization to fail for a 24xlarge instance")
		}
	}
}

func TestGDPRFlagsNonEURegion(t *testing.T) {
	v := New()
	s := spec.New("app", "aws")
	s.Region = "us-east-1"
	s.Components = []spec.Component{spec.NewComponent("db", "rds", "aws", "DB")}

	result := v.ValidateOne(s, "GDPR")
	for _, c := range result.Checks {
		if c.Name == "data_residency" && c.Passed {
			t.Fatal("expected data_residency to fail for a us- region")
		}
	}
}

func TestGDPRPassesForEURegion(t *testing.T) {
	v := New()
	s := spec.New("app", "aws")
	s.Region = "eu-west-1"

	result := v.ValidateOne(s, "GDPR")
	for _, c := range result.Checks {
		if c.Name == "data_residency" && !c.Passed {
			t.Fatal("expected data_residency to pass for an eu- region")
		}
	}
}

func TestFedRAMPModeratePassesHardenedSpec(t *testing.T) {
	v := New()
	s := spec.New("gov-app", "aws")
	db := spec.NewComponent("db", "rds", "aws", "DB")
	db.Config = spec.Config{"encryption": spec.Bool(true)}
	lb := spec.NewComponent("lb", "alb", "aws", "LB")
	waf := spec.NewComponent("waf", "waf", "aws", "WAF")
	logs := spec.NewComponent("logs", "cloudtrail", "aws", "Audit")
	auth := spec.NewComponent("auth", "iam", "aws", "IAM")
	s.Components = []spec.Component{db, lb, waf, logs, auth}

	result := v.ValidateOne(s, "FedRAMP Moderate")
	if !result.Passed {
		t.Fatalf("expected hardened gov spec to pass FedRAMP Moderate, got checks: %+v", result.Checks)
	}
}

func TestValidateRunsAllNamedFrameworks(t *testing.T) {
	v := New()
	results := v.Validate(unhardenedHIPAASpec(), []string{"HIPAA", "SOC2"})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Framework != "HIPAA" || results[1].Framework != "SOC2" {
		t.Fatalf("expected results in requested order, got %+v", results)
	}
}

func TestUnknownFrameworkReturnsInfoCheck(t *testing.T) {
	v := New()
	result := v.ValidateOne(spec.New("app", "aws"), "ISO-27001")
	if result.Passed {
		t.Fatal("expected unknown framework to not pass")
	}
	if len(result.Checks) != 1 || result.Checks[0].Name != "unknown_framework" {
		t.Fatalf("expected single unknown_framework check, got %+v", result.Checks)
	}
}
