package cost

import (
	"context"
	"testing"

	"cloudwright/core/catalog"
	"cloudwright/core/registry"
	"cloudwright/core/spec"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	reg := registry.MustLoad()
	store, err := catalog.Open(context.Background(), ":memory:", reg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store, reg)
}

func TestEstimateEC2FromCatalog(t *testing.T) {
	e := newTestEngine(t)
	s := spec.New("web", "aws")
	c := spec.NewComponent("web", "ec2", "aws", "Web server")
	c.Config = spec.Config{"instance_type": spec.String("m5.large")}
	s.Components = []spec.Component{c}

	est, err := e.Estimate(context.Background(), s, "on_demand")
	if err != nil {
		t.Fatal(err)
	}
	if len(est.Breakdown) != 1 {
		t.Fatalf("expected 1 breakdown line, got %d", len(est.Breakdown))
	}
	if est.Breakdown[0].Source != "catalog" {
		t.Fatalf("expected catalog-tier pricing, got %q", est.Breakdown[0].Source)
	}
	if est.MonthlyTotal <= 0 {
		t.Fatalf("expected positive monthly total, got %v", est.MonthlyTotal)
	}
}

func TestRDSWithoutInstanceClassStillResolvesViaCatalog(t *testing.T) {
	e := newTestEngine(t)
	s := spec.New("db", "aws")
	c := spec.NewComponent("db", "rds", "aws", "Database")
	c.Config = spec.Config{} // no instance_class -> catalog's internal default, still from_catalog=true
	s.Components = []spec.Component{c}

	est, err := e.Estimate(context.Background(), s, "on_demand")
	if err != nil {
		t.Fatal(err)
	}
	// rds with no instance_class still resolves via Tier 1 (catalog's own
	// default_managed_price fallback), so multi_az must NOT double it here.
	if est.Breakdown[0].Source != "catalog" {
		t.Fatalf("expected catalog source even without instance_class, got %q", est.Breakdown[0].Source)
	}
}

func TestContainerOrchestrationTriplesWithoutExplicitCount(t *testing.T) {
	e := newTestEngine(t)
	s := spec.New("cluster", "aws")
	c := spec.NewComponent("cluster", "eks", "aws", "Kubernetes cluster")
	s.Components = []spec.Component{c}

	est, err := e.Estimate(context.Background(), s, "on_demand")
	if err != nil {
		t.Fatal(err)
	}
	// eks resolves via Tier 2 (registry per_hour formula, 0.10/hr default):
	// 0.10 * 730 = 73, tripled for the assumed 3-node cluster minimum.
	want := round2(73 * 3)
	if est.Breakdown[0].Monthly != want {
		t.Fatalf("got %v, want %v", est.Breakdown[0].Monthly, want)
	}
	if est.Breakdown[0].Source != "formula" {
		t.Fatalf("expected formula-tier pricing for eks, got %q", est.Breakdown[0].Source)
	}
}

func TestContainerOrchestrationNotTripledWithExplicitCount(t *testing.T) {
	e := newTestEngine(t)
	s := spec.New("cluster", "aws")
	c := spec.NewComponent("cluster", "eks", "aws", "Kubernetes cluster")
	c.Config = spec.Config{"node_count": spec.Number(5)}
	s.Components = []spec.Component{c}

	est, err := e.Estimate(context.Background(), s, "on_demand")
	if err != nil {
		t.Fatal(err)
	}
	if est.Breakdown[0].Monthly > 500 {
		t.Fatalf("expected no x3 multiplier with explicit node_count, got %v", est.Breakdown[0].Monthly)
	}
}

func TestDataTransferCrossProviderUsesFlatRate(t *testing.T) {
	e := newTestEngine(t)
	s := spec.New("multi-cloud", "aws")
	src := spec.NewComponent("a", "ec2", "aws", "A")
	dst := spec.NewComponent("b", "compute_engine", "gcp", "B")
	s.Components = []spec.Component{src, dst}
	s.Connections = []spec.Connection{{Source: "a", Target: "b", EstimatedMonthlyGB: 100}}

	est, err := e.Estimate(context.Background(), s, "on_demand")
	if err != nil {
		t.Fatal(err)
	}
	if est.DataTransferMonthly != round2(100*0.09) {
		t.Fatalf("got data transfer %v", est.DataTransferMonthly)
	}
}

func TestDataTransferServiceOverride(t *testing.T) {
	e := newTestEngine(t)
	s := spec.New("cdn", "aws")
	cdn := spec.NewComponent("cdn", "cloudfront", "aws", "CDN")
	origin := spec.NewComponent("origin", "s3", "aws", "Origin bucket")
	s.Components = []spec.Component{cdn, origin}
	s.Connections = []spec.Connection{{Source: "cdn", Target: "origin", EstimatedMonthlyGB: 200}}

	est, err := e.Estimate(context.Background(), s, "on_demand")
	if err != nil {
		t.Fatal(err)
	}
	if est.DataTransferMonthly != round2(200*0.085) {
		t.Fatalf("expected cloudfront override rate, got %v", est.DataTransferMonthly)
	}
}

func TestPriceReturnsSpecWithCostEstimate(t *testing.T) {
	e := newTestEngine(t)
	s := spec.New("app", "aws")
	s.Components = []spec.Component{spec.NewComponent("web", "ec2", "aws", "Web")}

	priced, err := e.Price(context.Background(), s, "on_demand")
	if err != nil {
		t.Fatal(err)
	}
	if priced.CostEstimate == nil {
		t.Fatal("expected cost estimate attached")
	}
	if len(s.Components) != 1 || s.CostEstimate != nil {
		t.Fatal("Price must not mutate its input spec")
	}
}

func TestCompareProvidersMapsEquivalentServices(t *testing.T) {
	e := newTestEngine(t)
	s := spec.New("web", "aws")
	c := spec.NewComponent("web", "ec2", "aws", "Web")
	c.Config = spec.Config{"instance_type": spec.String("m5.large")}
	s.Components = []spec.Component{c}

	alts, err := e.CompareProviders(context.Background(), s, []string{"aws", "gcp", "azure"})
	if err != nil {
		t.Fatal(err)
	}
	if len(alts) != 2 {
		t.Fatalf("expected alternatives for gcp and azure only, got %d", len(alts))
	}
	for _, alt := range alts {
		if alt.Spec == nil || len(alt.Spec.Components) != 1 {
			t.Fatal("expected mapped spec with one component")
		}
		mappedService := alt.Spec.Components[0].Service
		if alt.Provider == "gcp" && mappedService != "compute_engine" {
			t.Fatalf("expected compute_engine on gcp, got %q", mappedService)
		}
		if alt.Provider == "azure" && mappedService != "virtual_machines" {
			t.Fatalf("expected virtual_machines on azure, got %q", mappedService)
		}
	}
}

func TestReservedPricingCheaperThanOnDemandForCatalogService(t *testing.T) {
	e := newTestEngine(t)
	s := spec.New("app", "aws")
	s.Components = []spec.Component{spec.NewComponent("q", "sqs", "aws", "Queue")}

	onDemand, err := e.Estimate(context.Background(), s, "on_demand")
	if err != nil {
		t.Fatal(err)
	}
	reserved, err := e.Estimate(context.Background(), s, "reserved_3yr")
	if err != nil {
		t.Fatal(err)
	}
	if reserved.MonthlyTotal >= onDemand.MonthlyTotal {
		t.Fatalf("expected reserved_3yr cheaper, got reserved=%v on_demand=%v", reserved.MonthlyTotal, onDemand.MonthlyTotal)
	}
}
