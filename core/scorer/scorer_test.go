package scorer

import (
	"testing"

	"cloudwright/core/spec"
)

func wellRoundedSpec() spec.ArchSpec {
	s := spec.New("app", "aws")
	lb := spec.NewComponent("lb", "alb", "aws", "LB")
	web := spec.NewComponent("web", "ec2", "aws", "Web")
	web.Config = spec.Config{"auto_scaling": spec.Bool(true)}
	db := spec.NewComponent("db", "rds", "aws", "DB")
	db.Config = spec.Config{"multi_az": spec.Bool(true), "encryption": spec.Bool(true)}
	cdn := spec.NewComponent("cdn", "cloudfront", "aws", "CDN")
	cache := spec.NewComponent("cache", "elasticache", "aws", "Cache")
	cache.Config = spec.Config{"encryption": spec.Bool(true)}
	waf := spec.NewComponent("waf", "waf", "aws", "WAF")
	auth := spec.NewComponent("auth", "cognito", "aws", "Auth")
	s.Components = []spec.Component{lb, web, db, cdn, cache, waf, auth}
	s.Connections = []spec.Connection{
		{Source: "lb", Target: "web", Protocol: "https"},
		{Source: "web", Target: "db", Protocol: "https"},
	}
	return s
}

func TestScoreWellRoundedSpecIsHigh(t *testing.T) {
	sc := New(nil)
	result := sc.Score(wellRoundedSpec())
	if result.Total < 80 {
		t.Fatalf("expected a high score for a well-rounded spec, got %v (%+v)", result.Total, result.Dimensions)
	}
	if result.Grade != "A" && result.Grade != "B" {
		t.Fatalf("expected grade A or B, got %q", result.Grade)
	}
}

func TestScoreMinimalSpecIsLow(t *testing.T) {
	sc := New(nil)
	s := spec.New("app", "aws")
	s.Components = []spec.Component{spec.NewComponent("web", "ec2", "aws", "Web")}

	result := sc.Score(s)
	for _, d := range result.Dimensions {
		if d.Name == "reliability" && d.Raw > 0 {
			t.Fatalf("expected zero reliability raw score, got %v", d.Raw)
		}
	}
}

func TestComplianceNeutralWithoutConstraints(t *testing.T) {
	sc := New(nil)
	s := spec.New("app", "aws")
	result := sc.Score(s)
	for _, d := range result.Dimensions {
		if d.Name == "compliance" && d.Raw != 70 {
			t.Fatalf("expected neutral compliance score of 70, got %v", d.Raw)
		}
	}
}

func TestComplianceReflectsValidatorScore(t *testing.T) {
	sc := New(nil)
	s := spec.New("app", "aws")
	s.Constraints = &spec.Constraints{Compliance: []string{"HIPAA"}}
	s.Components = []spec.Component{spec.NewComponent("db", "rds", "aws", "DB")}

	result := sc.Score(s)
	for _, d := range result.Dimensions {
		if d.Name == "compliance" && d.Raw == 70 {
			t.Fatal("expected compliance score derived from validator, not the neutral default")
		}
	}
}

func TestCostEfficiencyPenalizesDominantComponent(t *testing.T) {
	sc := New(nil)
	s := spec.New("app", "aws")
	c1 := spec.NewComponent("big", "ec2", "aws", "Big")
	c2 := spec.NewComponent("small", "sqs", "aws", "Small")
	s.Components = []spec.Component{c1, c2}
	s.CostEstimate = &spec.CostEstimate{
		MonthlyTotal: 100,
		Breakdown: []spec.ComponentCost{
			{ComponentID: "big", Monthly: 90},
			{ComponentID: "small", Monthly: 10},
		},
	}

	result := sc.Score(s)
	for _, d := range result.Dimensions {
		if d.Name == "cost_efficiency" && d.Raw >= 60 {
			t.Fatalf("expected penalty for a dominant component, got %v", d.Raw)
		}
	}
}

func TestCostEfficiencyRewardsUnderBudget(t *testing.T) {
	sc := New(nil)
	s := spec.New("app", "aws")
	s.Constraints = &spec.Constraints{BudgetMonthly: 1000}
	s.CostEstimate = &spec.CostEstimate{MonthlyTotal: 200}

	result := sc.Score(s)
	for _, d := range result.Dimensions {
		if d.Name == "cost_efficiency" && d.Raw != 80 {
			t.Fatalf("expected 60 base + 20 under-budget = 80, got %v", d.Raw)
		}
	}
}

func TestComplexityPenalizesManyComponents(t *testing.T) {
	sc := New(nil)
	s := spec.New("app", "aws")
	for i := 0; i < 16; i++ {
		s.Components = append(s.Components, spec.NewComponent(compID(i), "ec2", "aws", "Web"))
	}
	result := sc.Score(s)
	for _, d := range result.Dimensions {
		if d.Name == "complexity" && d.Raw >= 80 {
			t.Fatalf("expected penalty for 15+ components, got %v", d.Raw)
		}
	}
}

func compID(i int) string {
	digits := "0123456789"
	if i < 10 {
		return "c" + string(digits[i])
	}
	return "c" + string(digits[i/10]) + string(digits[i%10])
}

func TestGradeThresholds(t *testing.T) {
	cases := []struct {
		total float64
		want  string
	}{
		{95, "A"}, {85, "B"}, {75, "C"}, {65, "D"}, {10, "F"},
	}
	for _, tc := range cases {
		if got := grade(tc.total); got != tc.want {
			t.Fatalf("grade(%v) = %q, want %q", tc.total, got, tc.want)
		}
	}
}
