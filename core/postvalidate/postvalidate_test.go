package postvalidate

import (
	"testing"

	"cloudwright/core/spec"
)

func TestHardenSetsDataStoreDefaults(t *testing.T) {
	s := spec.New("app", "aws")
	s.Components = []spec.Component{spec.NewComponent("db", "rds", "aws", "DB")}

	hardened := Harden(s)
	cfg := hardened.Components[0].Config
	if !cfg.GetBool("encryption", false) {
		t.Fatal("expected encryption default applied")
	}
	if !cfg.GetBool("backup", false) {
		t.Fatal("expected backup default applied")
	}
}

func TestHardenDoesNotOverrideExplicitFalse(t *testing.T) {
	s := spec.New("app", "aws")
	c := spec.NewComponent("db", "rds", "aws", "DB")
	c.Config = spec.Config{"encryption": spec.Bool(false)}
	s.Components = []spec.Component{c}

	hardened := Harden(s)
	if hardened.Components[0].Config.GetBool("encryption", true) {
		t.Fatal("expected explicit encryption:false to be preserved")
	}
}

func TestHardenMultiAZOnlyWithMoreThanThreeComponents(t *testing.T) {
	s := spec.New("app", "aws")
	s.Components = []spec.Component{spec.NewComponent("db", "rds", "aws", "DB")}

	hardened := Harden(s)
	if hardened.Components[0].Config.GetBool("multi_az", false) {
		t.Fatal("expected no multi_az default with only 1 component")
	}

	s.Components = append(s.Components,
		spec.NewComponent("web", "ec2", "aws", "Web"),
		spec.NewComponent("cache", "elasticache", "aws", "Cache"),
		spec.NewComponent("lb", "alb", "aws", "LB"),
	)
	hardened = Harden(s)
	var dbComp spec.Component
	for _, c := range hardened.Components {
		if c.ID == "db" {
			dbComp = c
		}
	}
	if !dbComp.Config.GetBool("multi_az", false) {
		t.Fatal("expected multi_az default applied once components > 3")
	}
}

func TestHardenSetsComputeAutoScaling(t *testing.T) {
	s := spec.New("app", "aws")
	s.Components = []spec.Component{spec.NewComponent("web", "ec2", "aws", "Web")}

	hardened := Harden(s)
	if !hardened.Components[0].Config.GetBool("auto_scaling", false) {
		t.Fatal("expected auto_scaling default applied")
	}
}

func TestHardenIsIdempotent(t *testing.T) {
	s := spec.New("app", "aws")
	s.Components = []spec.Component{
		spec.NewComponent("db", "rds", "aws", "DB"),
		spec.NewComponent("web", "ec2", "aws", "Web"),
		spec.NewComponent("cache", "elasticache", "aws", "Cache"),
		spec.NewComponent("lb", "alb", "aws", "LB"),
	}

	once := Harden(s)
	twice := Harden(once)
	for i := range once.Components {
		if !sameConfig(once.Components[i].Config, twice.Components[i].Config) {
			t.Fatalf("expected idempotent hardening for %s", once.Components[i].ID)
		}
	}
}

func TestHardenDoesNotMutateInput(t *testing.T) {
	s := spec.New("app", "aws")
	s.Components = []spec.Component{spec.NewComponent("db", "rds", "aws", "DB")}

	_ = Harden(s)
	if s.Components[0].Config.Has("encryption") {
		t.Fatal("expected Harden to not mutate its input spec")
	}
}

func sameConfig(a, b spec.Config) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv.Native() != v.Native() {
			return false
		}
	}
	return true
}
