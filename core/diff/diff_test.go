package diff

import (
	"testing"

	"cloudwright/core/spec"
)

func TestDiffDetectsAddedRemovedChanged(t *testing.T) {
	old := spec.New("app", "aws")
	old.Components = []spec.Component{
		spec.NewComponent("web", "ec2", "aws", "Web tier"),
		spec.NewComponent("db", "rds", "aws", "Database"),
	}

	new := spec.New("app", "aws")
	web := old.Components[0]
	web.Config = spec.Config{"instance_type": spec.String("m5.large")}
	cache := spec.NewComponent("cache", "elasticache", "aws", "Cache")
	new.Components = []spec.Component{web, cache}

	result := Diff(old, new)

	if len(result.Added) != 1 || result.Added[0].ID != "cache" {
		t.Fatalf("expected cache added, got %+v", result.Added)
	}
	if len(result.Removed) != 1 || result.Removed[0].ID != "db" {
		t.Fatalf("expected db removed, got %+v", result.Removed)
	}
	if len(result.Changed) != 1 || result.Changed[0].ComponentID != "web" {
		t.Fatalf("expected web changed, got %+v", result.Changed)
	}
	if result.Changed[0].Changes[0].Field != "config.instance_type" {
		t.Fatalf("expected config.instance_type change, got %+v", result.Changed[0].Changes)
	}
	if result.Summary != "Added 1, Removed 1, Changed 1 components" {
		t.Fatalf("unexpected summary: %q", result.Summary)
	}
}

func TestDiffCostDelta(t *testing.T) {
	old := spec.New("app", "aws")
	oldCost := spec.NewCostEstimate(100)
	old.CostEstimate = &oldCost

	new := spec.New("app", "aws")
	newCost := spec.NewCostEstimate(150)
	new.CostEstimate = &newCost

	result := Diff(old, new)
	if result.CostDelta != 50 {
		t.Fatalf("expected cost_delta 50, got %v", result.CostDelta)
	}
}

func TestDiffCostDeltaZeroWithoutEstimates(t *testing.T) {
	old := spec.New("app", "aws")
	new := spec.New("app", "aws")
	result := Diff(old, new)
	if result.CostDelta != 0 {
		t.Fatalf("expected zero cost_delta, got %v", result.CostDelta)
	}
}

func TestDiffConnectionAddedRemovedChanged(t *testing.T) {
	old := spec.New("app", "aws")
	old.Connections = []spec.Connection{
		{Source: "web", Target: "db", Protocol: "http"},
		{Source: "web", Target: "cache", Protocol: "tcp"},
	}

	new := spec.New("app", "aws")
	new.Connections = []spec.Connection{
		{Source: "web", Target: "db", Protocol: "https"},
		{Source: "web", Target: "queue", Protocol: "amqp"},
	}

	result := Diff(old, new)
	var added, removed, changed int
	for _, c := range result.ConnectionChanges {
		switch c.Type {
		case "added":
			added++
		case "removed":
			removed++
		case "changed":
			changed++
			if len(c.Changes) != 1 || c.Changes[0].Field != "protocol" {
				t.Fatalf("expected single protocol change, got %+v", c.Changes)
			}
		}
	}
	if added != 1 || removed != 1 || changed != 1 {
		t.Fatalf("got added=%d removed=%d changed=%d", added, removed, changed)
	}
}

func TestDiffNoChangesProducesEmptyResult(t *testing.T) {
	s := spec.New("app", "aws")
	s.Components = []spec.Component{spec.NewComponent("web", "ec2", "aws", "Web")}
	result := Diff(s, s.Clone())
	if len(result.Added) != 0 || len(result.Removed) != 0 || len(result.Changed) != 0 {
		t.Fatalf("expected no differences, got %+v", result)
	}
}
