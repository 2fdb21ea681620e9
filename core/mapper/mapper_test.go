package mapper

import (
	"context"
	"testing"

	"cloudwright/core/catalog"
	"cloudwright/core/registry"
	"cloudwright/core/spec"
)

func newTestMapper(t *testing.T) *Mapper {
	t.Helper()
	reg := registry.MustLoad()
	store, err := catalog.Open(context.Background(), ":memory:", reg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store, reg)
}

func TestEquivalentServiceCrossCloud(t *testing.T) {
	m := newTestMapper(t)
	svc, ok, err := m.EquivalentService("ec2", "aws", "gcp")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || svc != "compute_engine" {
		t.Fatalf("got (%q, %v)", svc, ok)
	}
}

func TestEquivalentServiceNoneFound(t *testing.T) {
	m := newTestMapper(t)
	_, ok, err := m.EquivalentService("not-a-real-service", "aws", "gcp")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected no equivalence for unknown service")
	}
}

func TestRemapInstanceConfigRenamesKeyForGCP(t *testing.T) {
	m := newTestMapper(t)
	cfg := spec.Config{"instance_type": spec.String("m5.large"), "count": spec.Number(2)}
	out, err := m.RemapInstanceConfig(context.Background(), cfg, "aws", "gcp")
	if err != nil {
		t.Fatal(err)
	}
	if out.Has("instance_type") {
		t.Fatal("expected instance_type key removed after remapping to gcp")
	}
	if out.GetString("machine_type", "") != "n2-standard-2" {
		t.Fatalf("got machine_type=%q", out.GetString("machine_type", ""))
	}
	if out.GetNumber("count", 0) != 2 {
		t.Fatal("expected unrelated config keys preserved")
	}
}

func TestRemapInstanceConfigRenamesKeyForAzure(t *testing.T) {
	m := newTestMapper(t)
	cfg := spec.Config{"instance_type": spec.String("m5.large")}
	out, err := m.RemapInstanceConfig(context.Background(), cfg, "aws", "azure")
	if err != nil {
		t.Fatal(err)
	}
	if out.GetString("vm_size", "") != "D2s_v5" {
		t.Fatalf("got vm_size=%q", out.GetString("vm_size", ""))
	}
}

func TestRemapInstanceConfigNoInstanceFieldPassesThrough(t *testing.T) {
	m := newTestMapper(t)
	cfg := spec.Config{"monthly_requests": spec.Number(1000)}
	out, err := m.RemapInstanceConfig(context.Background(), cfg, "aws", "gcp")
	if err != nil {
		t.Fatal(err)
	}
	if out.GetNumber("monthly_requests", 0) != 1000 {
		t.Fatal("expected config unchanged when no instance field present")
	}
}
