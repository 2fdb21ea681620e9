// Package gcpadapter fetches compute and managed-service pricing from
// the GCP Cloud Billing Catalog API. It requires a GCP_API_KEY and
// degrades to empty results when the key is absent or the API
// responds with 401/403, rather than propagating an error.
package gcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"cloudwright/core/pricing"
	cwerrors "cloudwright/internal/errors"
	"cloudwright/internal/logging"
)

const (
	baseURL  = "https://cloudbilling.googleapis.com/v1"
	pageSize = 500
)

var serviceIDs = map[string]string{
	"compute":          "6F81-5844-456A",
	"cloud_functions":  "9B50-17A3-3F3D",
	"cloud_storage":    "95FF-2EF5-5EA1",
	"cloud_sql":        "9662-B51E-5089",
	"bigquery":         "24E6-581D-38E5",
}

var regionToGCP = map[string]string{
	"us-east1": "us-east1", "us-central1": "us-central1", "us-west1": "us-west1",
	"us-west2": "us-west2", "europe-west1": "europe-west1", "europe-west2": "europe-west2",
	"asia-east1": "asia-east1", "asia-southeast1": "asia-southeast1",
	"asia-northeast1": "asia-northeast1", "australia-southeast1": "australia-southeast1",
	"southamerica-east1": "southamerica-east1",
}

type sku struct {
	SkuID        string            `json:"skuId"`
	Description  string            `json:"description"`
	Category     skuCategory       `json:"category"`
	ServiceRegions []string        `json:"serviceRegions"`
	PricingInfo  []skuPricingInfo  `json:"pricingInfo"`
}

type skuCategory struct {
	ResourceFamily string `json:"resourceFamily"`
	ResourceGroup  string `json:"resourceGroup"`
	UsageType      string `json:"usageType"`
}

type skuPricingInfo struct {
	PricingExpression skuPricingExpression `json:"pricingExpression"`
}

type skuPricingExpression struct {
	TieredRates []skuTieredRate `json:"tieredRates"`
}

type skuTieredRate struct {
	UnitPrice skuUnitPrice `json:"unitPrice"`
}

type skuUnitPrice struct {
	Nanos string `json:"nanos"`
	Units string `json:"units"`
}

type skusResponse struct {
	SKUs          []sku  `json:"skus"`
	NextPageToken string `json:"nextPageToken"`
}

func extractUnitPrice(infos []skuPricingInfo) float64 {
	for _, pi := range infos {
		for _, tier := range pi.PricingExpression.TieredRates {
			nanos, _ := strconv.ParseInt(tier.UnitPrice.Nanos, 10, 64)
			units, _ := strconv.ParseInt(tier.UnitPrice.Units, 10, 64)
			price := float64(units) + float64(nanos)/1e9
			if price > 0 {
				return price
			}
		}
	}
	return 0
}

func regionMatches(gcpRegion string, serviceRegions []string) bool {
	for _, sr := range serviceRegions {
		if sr == "global" || sr == gcpRegion || strings.HasPrefix(gcpRegion, sr+"-") {
			return true
		}
	}
	return false
}

// Adapter fetches GCP pricing from the Cloud Billing Catalog API.
type Adapter struct {
	client *http.Client
	apiKey string
}

// New builds an Adapter. If apiKey is empty, GCP_API_KEY is read from
// the environment.
func New(apiKey string) *Adapter {
	if apiKey == "" {
		apiKey = os.Getenv("GCP_API_KEY")
	}
	return &Adapter{client: &http.Client{Timeout: pricing.HTTPTimeout * time.Second}, apiKey: apiKey}
}

func (a *Adapter) Provider() string { return "gcp" }

func (a *Adapter) SupportedManagedServices() []string {
	return []string{"cloud_functions", "cloud_storage", "cloud_sql", "bigquery"}
}

// FetchInstancePricing yields on-demand Compute Engine VM prices for
// region. Returns an empty stream (no error) if GCP_API_KEY is unset.
func (a *Adapter) FetchInstancePricing(ctx context.Context, region string) (<-chan pricing.InstancePrice, <-chan error) {
	out := make(chan pricing.InstancePrice)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)

		skus, err := a.listSKUs(ctx, serviceIDs["compute"])
		if err != nil {
			errc <- err
			return
		}

		gcpRegion := regionToGCP[region]
		if gcpRegion == "" {
			gcpRegion = region
		}

		for _, s := range skus {
			if s.Category.ResourceFamily != "Compute" {
				continue
			}
			if s.Category.UsageType != "OnDemand" && s.Category.UsageType != "" {
				continue
			}
			if s.Category.ResourceGroup != "CPU" && s.Category.ResourceGroup != "N1Standard" {
				continue
			}
			if len(s.ServiceRegions) > 0 && !contains(s.ServiceRegions, gcpRegion) && !contains(s.ServiceRegions, "global") {
				continue
			}

			price := extractUnitPrice(s.PricingInfo)
			if price <= 0 {
				continue
			}

			instanceType := s.SkuID
			if instanceType == "" && len(s.Description) > 40 {
				instanceType = s.Description[:40]
			} else if instanceType == "" {
				instanceType = s.Description
			}

			select {
			case <-ctx.Done():
				return
			case out <- pricing.InstancePrice{
				InstanceType: instanceType, Region: region,
				PricePerHour: price, PriceType: "on_demand", OS: "linux",
			}:
			}
		}
	}()

	return out, errc
}

func contains(items []string, item string) bool {
	for _, it := range items {
		if it == item {
			return true
		}
	}
	return false
}

func (a *Adapter) FetchManagedServicePricing(ctx context.Context, service, region string) ([]pricing.ManagedServicePrice, error) {
	switch service {
	case "cloud_functions":
		return a.parseCloudFunctions(ctx, region)
	case "cloud_storage":
		return a.parseCloudStorage(ctx, region)
	case "cloud_sql":
		return a.parseCloudSQL(ctx, region)
	case "bigquery":
		return a.parseBigQuery(ctx, region)
	default:
		return nil, nil
	}
}

func (a *Adapter) parseCloudFunctions(ctx context.Context, region string) ([]pricing.ManagedServicePrice, error) {
	skus, err := a.listSKUs(ctx, serviceIDs["cloud_functions"])
	if err != nil {
		return nil, err
	}
	gcpRegion := regionToGCP[region]
	if gcpRegion == "" {
		gcpRegion = region
	}

	var prices []pricing.ManagedServicePrice
	for _, s := range skus {
		if len(s.ServiceRegions) > 0 && !contains(s.ServiceRegions, gcpRegion) && !contains(s.ServiceRegions, "global") {
			continue
		}
		desc := strings.ToLower(s.Description)
		price := extractUnitPrice(s.PricingInfo)
		if price <= 0 {
			continue
		}
		switch {
		case strings.Contains(desc, "invocation") || strings.Contains(desc, "request"):
			prices = append(prices, pricing.ManagedServicePrice{
				Service: "cloud_functions", TierName: "per_invocation",
				PricePerMonth: round(price*1_000_000, 4), Description: s.Description,
			})
		case strings.Contains(desc, "compute time") || strings.Contains(desc, "gb-second"):
			prices = append(prices, pricing.ManagedServicePrice{
				Service: "cloud_functions", TierName: "per_gb_second",
				PricePerHour: round(price*3600, 6), Description: s.Description,
			})
		}
	}
	return prices, nil
}

func (a *Adapter) parseCloudStorage(ctx context.Context, region string) ([]pricing.ManagedServicePrice, error) {
	skus, err := a.listSKUs(ctx, serviceIDs["cloud_storage"])
	if err != nil {
		return nil, err
	}
	gcpRegion := regionToGCP[region]
	if gcpRegion == "" {
		gcpRegion = region
	}

	var prices []pricing.ManagedServicePrice
	for _, s := range skus {
		if len(s.ServiceRegions) > 0 && !regionMatches(gcpRegion, s.ServiceRegions) {
			continue
		}
		if !strings.Contains(s.Description, "Standard Storage") {
			continue
		}
		price := extractUnitPrice(s.PricingInfo)
		if price > 0 {
			prices = append(prices, pricing.ManagedServicePrice{
				Service: "cloud_storage", TierName: "standard_storage_gb",
				PricePerMonth: price, Description: s.Description,
			})
		}
	}
	return prices, nil
}

func (a *Adapter) parseCloudSQL(ctx context.Context, region string) ([]pricing.ManagedServicePrice, error) {
	skus, err := a.listSKUs(ctx, serviceIDs["cloud_sql"])
	if err != nil {
		return nil, err
	}
	gcpRegion := regionToGCP[region]
	if gcpRegion == "" {
		gcpRegion = region
	}

	var prices []pricing.ManagedServicePrice
	for _, s := range skus {
		if len(s.ServiceRegions) > 0 && !contains(s.ServiceRegions, gcpRegion) && !contains(s.ServiceRegions, "global") {
			continue
		}
		if s.Category.UsageType != "OnDemand" && s.Category.UsageType != "" {
			continue
		}
		price := extractUnitPrice(s.PricingInfo)
		if price > 0 && strings.Contains(strings.ToLower(s.Description), "db-") {
			tierName := s.SkuID
			if tierName == "" && len(s.Description) > 40 {
				tierName = s.Description[:40]
			}
			prices = append(prices, pricing.ManagedServicePrice{
				Service: "cloud_sql", TierName: tierName,
				PricePerHour: price, PricePerMonth: round(price*730, 2), Description: s.Description,
			})
		}
	}
	return prices, nil
}

func (a *Adapter) parseBigQuery(ctx context.Context, _ string) ([]pricing.ManagedServicePrice, error) {
	skus, err := a.listSKUs(ctx, serviceIDs["bigquery"])
	if err != nil {
		return nil, err
	}

	var prices []pricing.ManagedServicePrice
	for _, s := range skus {
		price := extractUnitPrice(s.PricingInfo)
		if price <= 0 {
			continue
		}
		descLower := strings.ToLower(s.Description)
		switch {
		case strings.Contains(descLower, "active storage"):
			prices = append(prices, pricing.ManagedServicePrice{
				Service: "bigquery", TierName: "active_storage_gb",
				PricePerMonth: price, Description: s.Description,
			})
		case strings.Contains(descLower, "analysis") || strings.Contains(descLower, "interactive"):
			prices = append(prices, pricing.ManagedServicePrice{
				Service: "bigquery", TierName: "per_tb_queried",
				PricePerMonth: price, Description: s.Description,
			})
		}
	}
	return prices, nil
}

// listSKUs fetches all SKUs for a GCP service, following pagination.
// Returns an empty slice (no error) when no API key is configured, or
// when the API responds with 401/403 — graceful degradation for CI
// and offline use, matching the documented auth-error behavior.
func (a *Adapter) listSKUs(ctx context.Context, serviceID string) ([]sku, error) {
	if a.apiKey == "" {
		return nil, nil
	}

	var all []sku
	pageToken := ""
	for {
		params := url.Values{}
		params.Set("key", a.apiKey)
		params.Set("pageSize", strconv.Itoa(pageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		reqURL := fmt.Sprintf("%s/services/%s/skus?%s", baseURL, serviceID, params.Encode())
		body, err := pricing.Get(ctx, a.client, reqURL, map[string]string{"Accept": "application/json"})
		if err != nil {
			var statusErr *pricing.HTTPStatusError
			if ok := asHTTPStatusError(err, &statusErr); ok && (statusErr.StatusCode == 401 || statusErr.StatusCode == 403) {
				logging.Info("gcp pricing adapter: auth rejected, degrading to empty result",
					zap.Int("status", statusErr.StatusCode))
				return nil, nil
			}
			return nil, cwerrors.AdapterHTTP("gcp", err)
		}

		var resp skusResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, cwerrors.AdapterHTTP("gcp", err)
		}

		all = append(all, resp.SKUs...)
		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return all, nil
}

func asHTTPStatusError(err error, target **pricing.HTTPStatusError) bool {
	if e, ok := err.(*pricing.HTTPStatusError); ok {
		*target = e
		return true
	}
	return false
}

func round(f float64, places int) float64 {
	mult := 1.0
	for i := 0; i < places; i++ {
		mult *= 10
	}
	return float64(int64(f*mult+0.5)) / mult
}
