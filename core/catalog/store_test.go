package catalog

import (
	"context"
	"testing"

	"cloudwright/core/registry"
	"cloudwright/core/spec"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	reg := registry.MustLoad()
	s, err := Open(context.Background(), ":memory:", reg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFindInstanceKnown(t *testing.T) {
	s := openTestStore(t)
	inst, err := s.FindInstance(context.Background(), "m5.large")
	if err != nil {
		t.Fatal(err)
	}
	if inst == nil {
		t.Fatal("expected m5.large to be found")
	}
	if inst.PricePerHour == nil || *inst.PricePerHour <= 0 {
		t.Fatalf("expected a positive hourly price, got %v", inst.PricePerHour)
	}
}

func TestGetServicePricingEC2Tier1(t *testing.T) {
	s := openTestStore(t)
	cfg := spec.Config{"instance_type": spec.String("m5.large"), "count": spec.Number(2)}
	price, err := s.GetServicePricing(context.Background(), "ec2", "aws", cfg, "on_demand")
	if err != nil {
		t.Fatal(err)
	}
	if price == nil {
		t.Fatal("expected a tier 1 price for m5.large")
	}
	if *price <= 0 {
		t.Fatalf("expected positive price, got %v", *price)
	}
}

func TestGetServicePricingReservedDiscount(t *testing.T) {
	s := openTestStore(t)
	cfg := spec.Config{"instance_type": spec.String("m5.large")}
	ctx := context.Background()
	onDemand, err := s.GetServicePricing(ctx, "ec2", "aws", cfg, "on_demand")
	if err != nil {
		t.Fatal(err)
	}
	reserved, err := s.GetServicePricing(ctx, "ec2", "aws", cfg, "reserved_1yr")
	if err != nil {
		t.Fatal(err)
	}
	if *reserved >= *onDemand {
		t.Fatalf("expected reserved_1yr (%v) to be cheaper than on_demand (%v)", *reserved, *onDemand)
	}
}

func TestGetServicePricingUnknownServiceReturnsNil(t *testing.T) {
	s := openTestStore(t)
	price, err := s.GetServicePricing(context.Background(), "not-a-service", "aws", spec.Config{}, "on_demand")
	if err != nil {
		t.Fatal(err)
	}
	if price != nil {
		t.Fatalf("expected nil for unknown service, got %v", *price)
	}
}

func TestMapInstanceType(t *testing.T) {
	s := openTestStore(t)
	name, ok, err := s.MapInstanceType(context.Background(), "m5.large", "aws", "gcp")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || name != "n2-standard-2" {
		t.Fatalf("got (%q, %v)", name, ok)
	}
}

func TestSearchFiltersByVCPUAndProvider(t *testing.T) {
	s := openTestStore(t)
	rows, err := s.Search(context.Background(), SearchOptions{Provider: "aws", VCPUs: 4, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) == 0 {
		t.Fatal("expected at least one aws instance with >=4 vcpus")
	}
	for _, r := range rows {
		if r.Provider != "aws" || r.VCPUs < 4 {
			t.Fatalf("unexpected row in filtered search: %+v", r)
		}
	}
}

func TestSyncFromRegistryIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	reg := registry.MustLoad()
	ctx := context.Background()
	if err := s.SyncFromRegistry(ctx, reg); err != nil {
		t.Fatal(err)
	}
	if err := s.SyncFromRegistry(ctx, reg); err != nil {
		t.Fatal(err)
	}
	def, err := s.GetServiceDefinition(ctx, "aws", "ec2")
	if err != nil {
		t.Fatal(err)
	}
	if def == nil || def.PricingFormula != "per_hour" {
		t.Fatalf("expected synced service definition, got %+v", def)
	}
}
