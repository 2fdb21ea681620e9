// Package awsadapter streams EC2 instance pricing from the AWS Bulk
// Pricing CSV index and parses managed-service pricing (Lambda, S3,
// RDS, DynamoDB) from the AWS JSON Pricing API.
package awsadapter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	cwerrors "cloudwright/internal/errors"
	"cloudwright/core/pricing"
	"cloudwright/internal/logging"
)

const pricingBase = "https://pricing.us-east-1.amazonaws.com"

var regionToLocation = map[string]string{
	"us-east-1":      "US East (N. Virginia)",
	"us-east-2":      "US East (Ohio)",
	"us-west-1":      "US West (N. California)",
	"us-west-2":      "US West (Oregon)",
	"eu-west-1":      "EU (Ireland)",
	"eu-west-2":      "EU (London)",
	"eu-central-1":   "EU (Frankfurt)",
	"ap-southeast-1": "Asia Pacific (Singapore)",
	"ap-southeast-2": "Asia Pacific (Sydney)",
	"ap-northeast-1": "Asia Pacific (Tokyo)",
	"ap-south-1":     "Asia Pacific (Mumbai)",
	"ca-central-1":   "Canada (Central)",
	"sa-east-1":      "South America (Sao Paulo)",
}

var memoryPattern = regexp.MustCompile(`([\d,]+(?:\.\d+)?)\s*(GiB|MiB)`)

func parseMemoryGiB(s string) float64 {
	m := memoryPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}
	if m[2] == "MiB" {
		return v / 1024
	}
	return v
}

func safeInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func safeFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// Adapter fetches AWS pricing from the bulk pricing API.
type Adapter struct {
	client  *http.Client
	Timeout time.Duration
}

// New builds an Adapter with the documented default HTTP timeout.
func New() *Adapter {
	return &Adapter{
		client: &http.Client{Timeout: pricing.HTTPTimeout * time.Second},
	}
}

func (a *Adapter) Provider() string { return "aws" }

func (a *Adapter) SupportedManagedServices() []string {
	return []string{"lambda", "s3", "rds", "dynamodb"}
}

// FetchInstancePricing streams on-demand Linux EC2 instance prices for
// region over the returned channel, closing it when the CSV index is
// exhausted. A non-nil error on the error channel aborts the stream.
func (a *Adapter) FetchInstancePricing(ctx context.Context, region string) (<-chan pricing.InstancePrice, <-chan error) {
	out := make(chan pricing.InstancePrice)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)

		url := fmt.Sprintf("%s/offers/v1.0/aws/AmazonEC2/current/%s/index.csv", pricingBase, region)
		body, err := pricing.Get(ctx, a.client, url, map[string]string{"Accept": "*/*"})
		if err != nil {
			errc <- cwerrors.AdapterHTTP("aws", err)
			return
		}

		if err := parseEC2CSV(body, region, out, ctx); err != nil {
			errc <- err
		}
	}()

	return out, errc
}

// parseEC2CSV parses the AWS bulk pricing CSV. The file begins with a
// handful of metadata lines before the real header row (first field
// "SKU") — scan for it before handing the rest to encoding/csv.
func parseEC2CSV(data []byte, region string, out chan<- pricing.InstancePrice, ctx context.Context) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	var headerLine string
	var rest bytes.Buffer
	foundHeader := false
	for scanner.Scan() {
		line := scanner.Text()
		if !foundHeader {
			stripped := strings.Trim(strings.TrimSpace(line), `"`)
			if strings.HasPrefix(stripped, "SKU") {
				headerLine = line
				foundHeader = true
			}
			continue
		}
		rest.WriteString(line)
		rest.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return cwerrors.AdapterHTTP("aws", err)
	}
	if !foundHeader {
		logging.Warn("aws ec2 csv: no SKU header row found; treating as empty", logging.Region(region))
		return nil
	}

	reader := csv.NewReader(strings.NewReader(headerLine + "\n" + rest.String()))
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return cwerrors.AdapterHTTP("aws", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}

	get := func(row []string, name, def string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return def
		}
		return row[idx]
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		row, err := reader.Read()
		if err != nil {
			break
		}

		if get(row, "TermType", "") != "OnDemand" {
			continue
		}
		if os := get(row, "Operating System", "Linux"); os != "Linux" && os != "" {
			continue
		}
		if get(row, "Tenancy", "Shared") != "Shared" {
			continue
		}
		if get(row, "CapacityStatus", "Used") != "Used" {
			continue
		}
		if sw := get(row, "Pre Installed S/W", "NA"); sw != "NA" && sw != "" {
			continue
		}
		if get(row, "productFamily", "Compute Instance") != "Compute Instance" {
			continue
		}

		price := safeFloat(get(row, "PricePerUnit", "0"))
		if price <= 0 {
			continue
		}

		out <- pricing.InstancePrice{
			InstanceType:     get(row, "Instance Type", ""),
			Region:           region,
			VCPUs:            safeInt(get(row, "vCPU", "0")),
			MemoryGB:         parseMemoryGiB(get(row, "Memory", "0 GiB")),
			PricePerHour:     price,
			PriceType:        "on_demand",
			OS:               "linux",
			StorageDesc:      get(row, "Storage", ""),
			NetworkBandwidth: get(row, "Network Performance", ""),
		}
	}
	return nil
}

// FetchManagedServicePricing returns pricing tiers for a supported
// managed service (lambda, s3, rds, dynamodb).
func (a *Adapter) FetchManagedServicePricing(ctx context.Context, service, region string) ([]pricing.ManagedServicePrice, error) {
	switch service {
	case "lambda":
		return a.parseLambda(ctx, region)
	case "s3":
		return a.parseS3(ctx, region)
	case "rds":
		return a.parseRDS(ctx, region)
	case "dynamodb":
		return a.parseDynamoDB(ctx, region)
	default:
		return nil, nil
	}
}

func (a *Adapter) fetchJSON(ctx context.Context, offerCode, region string) (*offerDocument, error) {
	url := fmt.Sprintf("%s/offers/v1.0/aws/%s/current/%s/index.json", pricingBase, offerCode, region)
	body, err := pricing.Get(ctx, a.client, url, map[string]string{"Accept": "*/*"})
	if err != nil {
		return nil, cwerrors.AdapterHTTP("aws", err)
	}
	var doc offerDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, cwerrors.AdapterHTTP("aws", err)
	}
	return &doc, nil
}

type offerDocument struct {
	Products map[string]offerProduct          `json:"products"`
	Terms    map[string]map[string]offerTerms `json:"terms"`
}

type offerProduct struct {
	Attributes map[string]string `json:"attributes"`
}

type offerTerms map[string]offerTerm

type offerTerm struct {
	PriceDimensions map[string]offerPriceDimension `json:"priceDimensions"`
}

type offerPriceDimension struct {
	Unit         string            `json:"unit"`
	Description  string            `json:"description"`
	PricePerUnit map[string]string `json:"pricePerUnit"`
}

func firstPrice(terms offerTerms) float64 {
	for _, term := range terms {
		for _, dim := range term.PriceDimensions {
			if p := safeFloat(dim.PricePerUnit["USD"]); p > 0 {
				return p
			}
		}
	}
	return 0
}

func (a *Adapter) parseLambda(ctx context.Context, region string) ([]pricing.ManagedServicePrice, error) {
	doc, err := a.fetchJSON(ctx, "AWSLambda", region)
	if err != nil {
		return nil, err
	}
	location := regionToLocation[region]
	onDemand := doc.Terms["OnDemand"]

	var prices []pricing.ManagedServicePrice
	for sku, product := range doc.Products {
		loc := product.Attributes["location"]
		if loc != location && loc != region {
			continue
		}
		terms, ok := onDemand[sku]
		if !ok {
			continue
		}
		for _, term := range terms {
			for _, dim := range term.PriceDimensions {
				unit := strings.ToLower(dim.Unit)
				desc := strings.ToLower(dim.Description)
				price := safeFloat(dim.PricePerUnit["USD"])
				switch {
				case strings.Contains(unit, "request") || strings.Contains(desc, "request"):
					prices = append(prices, pricing.ManagedServicePrice{
						Service: "lambda", TierName: "per_request",
						PricePerMonth: round(price*1_000_000, 4), Description: dim.Description,
					})
				case strings.Contains(unit, "second") || strings.Contains(unit, "gb-second"):
					prices = append(prices, pricing.ManagedServicePrice{
						Service: "lambda", TierName: "per_gb_second",
						PricePerHour: round(price*3600, 6), Description: dim.Description,
					})
				}
			}
		}
	}
	return prices, nil
}

func (a *Adapter) parseS3(ctx context.Context, region string) ([]pricing.ManagedServicePrice, error) {
	url := fmt.Sprintf("%s/offers/v1.0/aws/AmazonS3/current/index.json", pricingBase)
	body, err := pricing.Get(ctx, a.client, url, map[string]string{"Accept": "*/*"})
	if err != nil {
		return nil, cwerrors.AdapterHTTP("aws", err)
	}
	var doc offerDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, cwerrors.AdapterHTTP("aws", err)
	}

	location := regionToLocation[region]
	onDemand := doc.Terms["OnDemand"]

	var prices []pricing.ManagedServicePrice
	for sku, product := range doc.Products {
		if product.Attributes["location"] != location {
			continue
		}
		if product.Attributes["storageClass"] != "General Purpose" {
			continue
		}
		if product.Attributes["volumeType"] != "Standard" {
			continue
		}
		terms, ok := onDemand[sku]
		if !ok {
			continue
		}
		for _, term := range terms {
			for _, dim := range term.PriceDimensions {
				price := safeFloat(dim.PricePerUnit["USD"])
				if price > 0 {
					prices = append(prices, pricing.ManagedServicePrice{
						Service: "s3", TierName: "standard_storage_gb",
						PricePerMonth: price, Description: dim.Description,
					})
				}
			}
		}
	}
	return prices, nil
}

func (a *Adapter) parseRDS(ctx context.Context, region string) ([]pricing.ManagedServicePrice, error) {
	doc, err := a.fetchJSON(ctx, "AmazonRDS", region)
	if err != nil {
		return nil, err
	}
	location := regionToLocation[region]
	onDemand := doc.Terms["OnDemand"]

	var prices []pricing.ManagedServicePrice
	for sku, product := range doc.Products {
		attrs := product.Attributes
		loc := attrs["location"]
		if loc != location && loc != region {
			continue
		}
		engine := attrs["databaseEngine"]
		if engine != "PostgreSQL" && engine != "MySQL" {
			continue
		}
		if attrs["deploymentOption"] != "Single-AZ" {
			continue
		}
		dbClass := attrs["instanceType"]
		if dbClass == "" {
			continue
		}
		terms, ok := onDemand[sku]
		if !ok {
			continue
		}
		price := firstPrice(terms)
		if price <= 0 {
			continue
		}
		prices = append(prices, pricing.ManagedServicePrice{
			Service: "rds", TierName: dbClass,
			PricePerHour: price, PricePerMonth: round(price*730, 2),
			Description: fmt.Sprintf("%s %s Single-AZ", engine, dbClass),
			VCPUs:       safeInt(attrs["vcpu"]), MemoryGB: parseMemoryGiB(attrs["memory"]),
		})
	}
	return prices, nil
}

func (a *Adapter) parseDynamoDB(ctx context.Context, region string) ([]pricing.ManagedServicePrice, error) {
	doc, err := a.fetchJSON(ctx, "AmazonDynamoDB", region)
	if err != nil {
		return nil, err
	}
	location := regionToLocation[region]
	onDemand := doc.Terms["OnDemand"]

	var prices []pricing.ManagedServicePrice
	for sku, product := range doc.Products {
		attrs := product.Attributes
		loc := attrs["location"]
		if loc != location && loc != region {
			continue
		}
		group := strings.ToLower(attrs["group"])
		terms, ok := onDemand[sku]
		if !ok {
			continue
		}
		for _, term := range terms {
			for _, dim := range term.PriceDimensions {
				price := safeFloat(dim.PricePerUnit["USD"])
				if price == 0 {
					continue
				}
				descLower := strings.ToLower(dim.Description)
				switch {
				case strings.Contains(group, "write") || strings.Contains(descLower, "write"):
					prices = append(prices, pricing.ManagedServicePrice{
						Service: "dynamodb", TierName: "write_request_unit",
						PricePerMonth: round(price*1_000_000, 4), Description: dim.Description,
					})
				case strings.Contains(group, "read") || strings.Contains(descLower, "read"):
					prices = append(prices, pricing.ManagedServicePrice{
						Service: "dynamodb", TierName: "read_request_unit",
						PricePerMonth: round(price*1_000_000, 4), Description: dim.Description,
					})
				}
			}
		}
	}
	return prices, nil
}

func round(f float64, places int) float64 {
	mult := 1.0
	for i := 0; i < places; i++ {
		mult *= 10
	}
	return float64(int64(f*mult+0.5)) / mult
}
