package azureadapter

import (
	"strings"
	"testing"
)

func TestContainsAny(t *testing.T) {
	if !containsAny("Standard_D2s_v3 Spot", "Spot", "Low Priority") {
		t.Fatal("expected match for Spot")
	}
	if containsAny("Standard_D2s_v3", "Spot", "Low Priority") {
		t.Fatal("expected no match")
	}
}

func TestArmRegionOfFallsBackToInput(t *testing.T) {
	if got := armRegionOf("eastus"); got != "eastus" {
		t.Fatalf("got %q", got)
	}
	if got := armRegionOf("some-unmapped-region"); got != "some-unmapped-region" {
		t.Fatalf("expected fallback to input, got %q", got)
	}
}

func TestBuildURLIncludesFilterAndVersion(t *testing.T) {
	a := New()
	url := a.buildURL("armRegionName eq 'eastus'")
	if url == "" {
		t.Fatal("expected non-empty url")
	}
	if want := "api-version=2023-01-01-preview"; !strings.Contains(url, want) {
		t.Fatalf("expected url to contain %q, got %q", want, url)
	}
}

func TestProductOrSkuPrefersProductName(t *testing.T) {
	item := retailItem{ProductName: "Virtual Machines", SkuName: "D2s v3"}
	if got := productOrSku(item); got != "Virtual Machines" {
		t.Fatalf("got %q", got)
	}
	item2 := retailItem{SkuName: "D2s v3"}
	if got := productOrSku(item2); got != "D2s v3" {
		t.Fatalf("got %q", got)
	}
}
