package refresh

import "testing"

func TestLoadAdapterUnknownProvider(t *testing.T) {
	if _, err := loadAdapter("ibm"); err == nil {
		t.Fatal("expected an error for an unrecognized provider")
	}
}

func TestLoadAdapterKnownProviders(t *testing.T) {
	for _, p := range allProviders {
		adapter, err := loadAdapter(p)
		if err != nil {
			t.Fatalf("loadAdapter(%q) = %v", p, err)
		}
		if adapter.Provider() != p {
			t.Fatalf("loadAdapter(%q).Provider() = %q", p, adapter.Provider())
		}
	}
}

func TestSummaryTotals(t *testing.T) {
	s := Summary{Results: []Result{
		{Provider: "aws", InstancesFetched: 10, ManagedServicesFetched: 5, Errors: []string{"e1"}},
		{Provider: "gcp", InstancesFetched: 3, Errors: []string{"e2", "e3"}},
	}}
	if got := s.TotalFetched(); got != 18 {
		t.Fatalf("TotalFetched() = %d, want 18", got)
	}
	if got := s.TotalErrors(); got != 3 {
		t.Fatalf("TotalErrors() = %d, want 3", got)
	}
}

func TestItoa(t *testing.T) {
	cases := map[int]string{0: "0", 5: "5", 42: "42", 1000: "1000"}
	for n, want := range cases {
		if got := itoa(n); got != want {
			t.Fatalf("itoa(%d) = %q, want %q", n, got, want)
		}
	}
}
