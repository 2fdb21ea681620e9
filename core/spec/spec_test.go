package spec

import "testing"

func sampleSpec() ArchSpec {
	s := New("Test Architecture", "aws")
	s.Region = "us-east-1"
	s.Constraints = &Constraints{Compliance: []string{"hipaa"}, BudgetMonthly: 500.0}
	s.Components = []Component{
		{ID: "web", Service: "ec2", Provider: "aws", Label: "Web Server", Description: "Application server", Tier: 2,
			Config: Config{"instance_type": String("t3.medium")}},
		{ID: "db", Service: "rds", Provider: "aws", Label: "Database", Description: "PostgreSQL", Tier: 3,
			Config: Config{"engine": String("postgres"), "instance_class": String("db.t3.medium")}},
	}
	port := 5432
	s.Connections = []Connection{{Source: "web", Target: "db", Label: "SQL", Protocol: "TCP", Port: &port}}
	s.CostEstimate = &CostEstimate{
		MonthlyTotal: 108.00,
		Currency:     "USD",
		Breakdown: []ComponentCost{
			{ComponentID: "web", Service: "ec2", Monthly: 30.37},
			{ComponentID: "db", Service: "rds", Monthly: 77.63},
		},
	}
	return s
}

func TestCreateSpec(t *testing.T) {
	s := sampleSpec()
	if s.Name != "Test Architecture" {
		t.Fatalf("name = %q", s.Name)
	}
	if len(s.Components) != 2 || len(s.Connections) != 1 {
		t.Fatalf("unexpected counts: %d components, %d connections", len(s.Components), len(s.Connections))
	}
	if s.CostEstimate.MonthlyTotal != 108.00 {
		t.Fatalf("monthly total = %v", s.CostEstimate.MonthlyTotal)
	}
}

func TestYAMLRoundtrip(t *testing.T) {
	s := sampleSpec()
	out, err := s.ToYAML()
	if err != nil {
		t.Fatal(err)
	}
	if !contains(out, "Test Architecture") || !contains(out, "ec2") {
		t.Fatalf("yaml missing expected content: %s", out)
	}

	restored, err := FromYAML(out)
	if err != nil {
		t.Fatal(err)
	}
	if restored.Name != s.Name || len(restored.Components) != len(s.Components) {
		t.Fatalf("roundtrip mismatch: %+v", restored)
	}
	if restored.Components[0].ID != "web" {
		t.Fatalf("component order not preserved: %+v", restored.Components)
	}
	if it, _ := restored.Components[0].Config.Get("instance_type").AsString(); it != "t3.medium" {
		t.Fatalf("config not preserved: %q", it)
	}
	if restored.Connections[0].Port == nil || *restored.Connections[0].Port != 5432 {
		t.Fatalf("port not preserved: %+v", restored.Connections[0])
	}
}

func TestComponentDefaults(t *testing.T) {
	c := NewComponent("test", "s3", "aws", "Bucket")
	if c.Tier != 2 {
		t.Fatalf("tier = %d, want 2", c.Tier)
	}
	if len(c.Config) != 0 {
		t.Fatalf("config should be empty, got %v", c.Config)
	}
}

func TestBoundaryIDValidation(t *testing.T) {
	if _, err := NewBoundary("bad id!", "vpc"); err == nil {
		t.Fatal("expected error for non-IaC-safe id")
	}
}

func TestSpecWithoutBoundariesOmitsOnWrite(t *testing.T) {
	s := New("Old Spec", "aws")
	s.Region = "us-east-1"
	s.Components = []Component{{ID: "web", Service: "ec2", Provider: "aws", Label: "Web", Tier: 2}}
	out, err := s.ToYAML()
	if err != nil {
		t.Fatal(err)
	}
	if contains(out, "boundaries") {
		t.Fatalf("boundaries should be omitted when empty: %s", out)
	}
}

func TestValidateRejectsDanglingConnection(t *testing.T) {
	s := New("Bad", "aws")
	s.Components = []Component{{ID: "web", Service: "ec2", Provider: "aws", Label: "Web", Tier: 2}}
	s.Connections = []Connection{{Source: "web", Target: "missing"}}
	if err := s.Validate(); err == nil {
		t.Fatal("expected validation error for dangling connection target")
	}
}

func TestValidateRejectsBadTier(t *testing.T) {
	s := New("Bad", "aws")
	s.Components = []Component{{ID: "web", Service: "ec2", Provider: "aws", Label: "Web", Tier: 9}}
	if err := s.Validate(); err == nil {
		t.Fatal("expected validation error for out-of-range tier")
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && indexOf(haystack, needle) >= 0
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
