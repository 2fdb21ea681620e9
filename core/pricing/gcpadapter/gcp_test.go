package gcpadapter

import (
	"context"
	"testing"
)

func TestExtractUnitPrice(t *testing.T) {
	infos := []skuPricingInfo{
		{PricingExpression: skuPricingExpression{TieredRates: []skuTieredRate{
			{UnitPrice: skuUnitPrice{Units: "0", Nanos: "41000000"}},
		}}},
	}
	got := extractUnitPrice(infos)
	if got <= 0.0409 || got >= 0.0411 {
		t.Fatalf("got %v", got)
	}
}

func TestExtractUnitPriceNoPositiveTier(t *testing.T) {
	infos := []skuPricingInfo{
		{PricingExpression: skuPricingExpression{TieredRates: []skuTieredRate{
			{UnitPrice: skuUnitPrice{Units: "0", Nanos: "0"}},
		}}},
	}
	if got := extractUnitPrice(infos); got != 0 {
		t.Fatalf("expected zero, got %v", got)
	}
}

func TestRegionMatchesParentRegion(t *testing.T) {
	if !regionMatches("us-east1", []string{"us"}) {
		t.Fatal("expected us-east1 to match parent region us")
	}
	if !regionMatches("us-east1", []string{"global"}) {
		t.Fatal("expected global to match any region")
	}
	if regionMatches("us-east1", []string{"europe"}) {
		t.Fatal("expected no match for unrelated region")
	}
}

func TestListSKUsReturnsEmptyWithoutAPIKey(t *testing.T) {
	a := New("")
	skus, err := a.listSKUs(context.Background(), serviceIDs["compute"])
	if err != nil {
		t.Fatalf("expected no error without an api key, got %v", err)
	}
	if skus != nil {
		t.Fatal("expected nil skus without an api key")
	}
}

func TestFetchInstancePricingEmptyWithoutAPIKey(t *testing.T) {
	a := New("")
	out, errc := a.FetchInstancePricing(context.Background(), "us-east1")

	var count int
	for range out {
		count++
	}
	if err := <-errc; err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if count != 0 {
		t.Fatalf("expected zero instance prices without an api key, got %d", count)
	}
}
