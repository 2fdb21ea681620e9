package awsadapter

import (
	"context"
	"testing"

	"cloudwright/core/pricing"
)

const sampleCSV = "metadata line one\n" +
	"metadata line two\n" +
	`"SKU","OfferTermCode","TermType","PriceDescription","EffectiveDate","PricePerUnit","Unit","Currency","productFamily","Instance Type","vCPU","Memory","Storage","Network Performance","Operating System","Tenancy","CapacityStatus","Pre Installed S/W"` + "\n" +
	`"ABC123","JRTCKXETXF","OnDemand","desc","2024-01-01","0.096","Hrs","USD","Compute Instance","m5.large","2","8 GiB","EBS only","Up to 10 Gigabit","Linux","Shared","Used","NA"` + "\n" +
	`"DEF456","JRTCKXETXF","OnDemand","desc","2024-01-01","0.192","Hrs","USD","Compute Instance","m5.xlarge","4","16 GiB","EBS only","Up to 10 Gigabit","Windows","Shared","Used","NA"` + "\n" +
	`"GHI789","JRTCKXETXF","Reserved","desc","2024-01-01","0.050","Hrs","USD","Compute Instance","m5.large","2","8 GiB","EBS only","Up to 10 Gigabit","Linux","Shared","Used","NA"` + "\n"

func TestParseEC2CSVFiltersToOnDemandLinux(t *testing.T) {
	out := make(chan pricing.InstancePrice, 10)
	err := parseEC2CSV([]byte(sampleCSV), "us-east-1", out, context.Background())
	if err != nil {
		t.Fatal(err)
	}
	close(out)

	var got []pricing.InstancePrice
	for p := range out {
		got = append(got, p)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 on-demand linux row, got %d: %+v", len(got), got)
	}
	if got[0].InstanceType != "m5.large" || got[0].PricePerHour != 0.096 {
		t.Fatalf("unexpected row: %+v", got[0])
	}
	if got[0].VCPUs != 2 || got[0].MemoryGB != 8 {
		t.Fatalf("expected parsed vcpu/memory, got %+v", got[0])
	}
}

func TestParseEC2CSVNoHeaderReturnsEmptyWithoutError(t *testing.T) {
	out := make(chan pricing.InstancePrice, 1)
	err := parseEC2CSV([]byte("garbage\nmore garbage\n"), "us-east-1", out, context.Background())
	if err != nil {
		t.Fatalf("expected no error for a missing header, got %v", err)
	}
	close(out)
	if len(out) != 0 {
		t.Fatal("expected no rows when header is never found")
	}
}

func TestParseMemoryGiB(t *testing.T) {
	cases := map[string]float64{
		"8 GiB":     8,
		"1,024 MiB": 1,
		"16 GiB":    16,
		"":          0,
	}
	for in, want := range cases {
		if got := parseMemoryGiB(in); got != want {
			t.Fatalf("parseMemoryGiB(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFirstPrice(t *testing.T) {
	terms := offerTerms{
		"term1": offerTerm{PriceDimensions: map[string]offerPriceDimension{
			"dim1": {PricePerUnit: map[string]string{"USD": "0.096"}},
		}},
	}
	if got := firstPrice(terms); got != 0.096 {
		t.Fatalf("got %v", got)
	}
}
