package registry

import "testing"

func TestLoadPopulatesServices(t *testing.T) {
	r, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	sd, ok := r.Get("aws", "ec2")
	if !ok {
		t.Fatal("expected aws/ec2 to be registered")
	}
	if sd.Category != "compute" {
		t.Fatalf("got category %q", sd.Category)
	}
	if sd.PricingFormula != "per_hour" {
		t.Fatalf("got formula %q", sd.PricingFormula)
	}
}

func TestGetEquivalent(t *testing.T) {
	r := MustLoad()
	gcpKey, ok := r.GetEquivalent("aws", "ec2", "gcp")
	if !ok || gcpKey != "compute_engine" {
		t.Fatalf("got (%q, %v)", gcpKey, ok)
	}
	azureKey, ok := r.GetEquivalent("aws", "rds", "azure")
	if !ok || azureKey != "azure_sql" {
		t.Fatalf("got (%q, %v)", azureKey, ok)
	}
}

func TestGetEquivalentUnknownReturnsFalse(t *testing.T) {
	r := MustLoad()
	if _, ok := r.GetEquivalent("aws", "not-a-service", "gcp"); ok {
		t.Fatal("expected no equivalence for unknown service")
	}
}

func TestListCategoriesSorted(t *testing.T) {
	r := MustLoad()
	cats := r.ListCategories()
	for i := 1; i < len(cats); i++ {
		if cats[i-1] >= cats[i] {
			t.Fatalf("categories not sorted: %v", cats)
		}
	}
}

func TestGetDefaultConfigIsClone(t *testing.T) {
	r := MustLoad()
	cfg1, ok := r.GetDefaultConfig("aws", "ec2")
	if !ok {
		t.Fatal("expected default config")
	}
	cfg1["price_per_hour"] = cfg1["price_per_hour"]
	delete(cfg1, "price_per_hour")

	cfg2, _ := r.GetDefaultConfig("aws", "ec2")
	if !cfg2.Has("price_per_hour") {
		t.Fatal("mutating a returned config must not affect the registry's copy")
	}
}

func TestFeatureParity(t *testing.T) {
	r := MustLoad()
	byProvider, ok := r.GetFeatureParity("ec2", "spot_pricing")
	if !ok {
		t.Fatal("expected spot_pricing feature parity for ec2")
	}
	if v, ok := byProvider["gcp"].AsBool(); !ok || !v {
		t.Fatalf("expected gcp spot_pricing true, got %v", byProvider["gcp"])
	}
}

func TestFeatureGapsFindsAsymmetry(t *testing.T) {
	r := MustLoad()
	gaps := r.FeatureGaps("ec2")
	providers, ok := gaps["sustained_use_discount"]
	if !ok {
		t.Fatal("expected a gap on sustained_use_discount")
	}
	found := false
	for _, p := range providers {
		if p == "aws" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected aws listed as missing sustained_use_discount, got %v", providers)
	}
}

func TestStat(t *testing.T) {
	r := MustLoad()
	s := r.Stat()
	if s.Categories == 0 || s.Services == 0 || s.Equivalences == 0 {
		t.Fatalf("expected non-zero stats, got %+v", s)
	}
	if s.ServicesByProvider["aws"] == 0 {
		t.Fatal("expected aws services counted")
	}
}
