// Package azureadapter fetches compute and managed-service pricing
// from the Azure Retail Prices API. No API key is required; pagination
// follows NextPageLink.
package azureadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	cwerrors "cloudwright/internal/errors"
	"cloudwright/core/pricing"
)

const (
	baseURL    = "https://prices.azure.com/api/retail/prices"
	apiVersion = "2023-01-01-preview"
)

var regionToARM = map[string]string{
	"eastus": "eastus", "eastus2": "eastus2", "westus": "westus", "westus2": "westus2",
	"centralus": "centralus", "northeurope": "northeurope", "westeurope": "westeurope",
	"uksouth": "uksouth", "southeastasia": "southeastasia", "eastasia": "eastasia",
	"japaneast": "japaneast", "australiaeast": "australiaeast", "brazilsouth": "brazilsouth",
	"canadacentral": "canadacentral",
}

type retailItem struct {
	RetailPrice float64 `json:"retailPrice"`
	SkuName     string  `json:"skuName"`
	ArmSkuName  string  `json:"armSkuName"`
	ProductName string  `json:"productName"`
	MeterName   string  `json:"meterName"`
}

type retailResponse struct {
	Items        []retailItem `json:"Items"`
	NextPageLink string       `json:"NextPageLink"`
}

// Adapter fetches Azure pricing from the Retail Prices API.
type Adapter struct {
	client *http.Client
}

// New builds an Adapter with the documented default HTTP timeout.
func New() *Adapter {
	return &Adapter{client: &http.Client{Timeout: pricing.HTTPTimeout * time.Second}}
}

func (a *Adapter) Provider() string { return "azure" }

func (a *Adapter) SupportedManagedServices() []string {
	return []string{"azure_functions", "blob_storage", "azure_sql", "cosmos_db"}
}

// FetchInstancePricing yields on-demand Linux VM prices for region,
// skipping Windows, Spot, Low Priority, Dedicated Host, and Reserved
// SKUs.
func (a *Adapter) FetchInstancePricing(ctx context.Context, region string) (<-chan pricing.InstancePrice, <-chan error) {
	out := make(chan pricing.InstancePrice)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)

		armRegion := regionToARM[region]
		if armRegion == "" {
			armRegion = region
		}
		odata := fmt.Sprintf(
			"armRegionName eq '%s' and serviceName eq 'Virtual Machines' and priceType eq 'Consumption'",
			armRegion,
		)

		url := a.buildURL(odata)
		for url != "" {
			resp, err := a.fetchPage(ctx, url)
			if err != nil {
				errc <- err
				return
			}

			for _, item := range resp.Items {
				if item.RetailPrice <= 0 {
					continue
				}
				if containsAny(item.SkuName, "Spot", "Low Priority") {
					continue
				}
				if containsAny(item.ProductName, "Windows", "Spot", "Low Priority", "Dedicated Host", "Reserved") {
					continue
				}
				instanceType := item.ArmSkuName
				if instanceType == "" {
					instanceType = item.SkuName
				}
				instanceType = strings.TrimSpace(instanceType)
				if instanceType == "" {
					continue
				}

				select {
				case <-ctx.Done():
					return
				case out <- pricing.InstancePrice{
					InstanceType: instanceType, Region: region,
					PricePerHour: item.RetailPrice, PriceType: "on_demand", OS: "linux",
				}:
				}
			}

			url = resp.NextPageLink
		}
	}()

	return out, errc
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func (a *Adapter) FetchManagedServicePricing(ctx context.Context, service, region string) ([]pricing.ManagedServicePrice, error) {
	switch service {
	case "azure_functions":
		return a.parseFunctions(ctx, region)
	case "blob_storage":
		return a.parseBlob(ctx, region)
	case "azure_sql":
		return a.parseSQL(ctx, region)
	case "cosmos_db":
		return a.parseCosmos(ctx, region)
	default:
		return nil, nil
	}
}

func (a *Adapter) parseFunctions(ctx context.Context, region string) ([]pricing.ManagedServicePrice, error) {
	armRegion := armRegionOf(region)
	odata := fmt.Sprintf(
		"armRegionName eq '%s' and serviceName eq 'Azure Functions' and priceType eq 'Consumption'", armRegion,
	)
	items, err := a.fetchAll(ctx, odata)
	if err != nil {
		return nil, err
	}

	var prices []pricing.ManagedServicePrice
	for _, item := range items {
		if item.RetailPrice <= 0 {
			continue
		}
		meter := strings.ToLower(item.MeterName)
		desc := productOrSku(item)
		switch {
		case strings.Contains(meter, "execution") || strings.Contains(meter, "request"):
			prices = append(prices, pricing.ManagedServicePrice{
				Service: "azure_functions", TierName: "per_execution",
				PricePerMonth: round(item.RetailPrice*1_000_000, 4), Description: desc,
			})
		case strings.Contains(meter, "gb second") || strings.Contains(meter, "duration"):
			prices = append(prices, pricing.ManagedServicePrice{
				Service: "azure_functions", TierName: "per_gb_second",
				PricePerHour: round(item.RetailPrice*3600, 6), Description: desc,
			})
		}
	}
	return prices, nil
}

func (a *Adapter) parseBlob(ctx context.Context, region string) ([]pricing.ManagedServicePrice, error) {
	armRegion := armRegionOf(region)
	odata := fmt.Sprintf(
		"armRegionName eq '%s' and serviceName eq 'Storage' and skuName eq 'LRS' and meterName eq 'LRS Data Stored'",
		armRegion,
	)
	items, err := a.fetchAll(ctx, odata)
	if err != nil {
		return nil, err
	}

	var prices []pricing.ManagedServicePrice
	for _, item := range items {
		if item.RetailPrice <= 0 {
			continue
		}
		desc := item.ProductName
		if desc == "" {
			desc = "Blob Storage LRS"
		}
		prices = append(prices, pricing.ManagedServicePrice{
			Service: "blob_storage", TierName: "lrs_gb",
			PricePerMonth: item.RetailPrice, Description: desc,
		})
	}
	return prices, nil
}

func (a *Adapter) parseSQL(ctx context.Context, region string) ([]pricing.ManagedServicePrice, error) {
	armRegion := armRegionOf(region)
	odata := fmt.Sprintf(
		"armRegionName eq '%s' and serviceName eq 'Azure SQL Database' and priceType eq 'Consumption' and skuName eq 'General Purpose'",
		armRegion,
	)
	items, err := a.fetchAll(ctx, odata)
	if err != nil {
		return nil, err
	}

	var prices []pricing.ManagedServicePrice
	for _, item := range items {
		meter := strings.ToLower(item.MeterName)
		if item.RetailPrice <= 0 || !strings.Contains(meter, "vcore") {
			continue
		}
		tierName := item.SkuName
		if tierName == "" {
			tierName = "general_purpose"
		}
		prices = append(prices, pricing.ManagedServicePrice{
			Service: "azure_sql", TierName: tierName,
			PricePerHour: item.RetailPrice, PricePerMonth: round(item.RetailPrice*730, 2),
			Description: productOrSku(item),
		})
	}
	return prices, nil
}

func (a *Adapter) parseCosmos(ctx context.Context, region string) ([]pricing.ManagedServicePrice, error) {
	armRegion := armRegionOf(region)
	odata := fmt.Sprintf(
		"armRegionName eq '%s' and serviceName eq 'Azure Cosmos DB' and priceType eq 'Consumption'", armRegion,
	)
	items, err := a.fetchAll(ctx, odata)
	if err != nil {
		return nil, err
	}

	var prices []pricing.ManagedServicePrice
	for _, item := range items {
		if item.RetailPrice <= 0 {
			continue
		}
		meter := strings.ToLower(item.MeterName)
		switch {
		case strings.Contains(meter, "request unit") || strings.Contains(meter, "ru"):
			prices = append(prices, pricing.ManagedServicePrice{
				Service: "cosmos_db", TierName: "request_unit",
				PricePerMonth: round(item.RetailPrice*1_000_000, 4), Description: productOrSku(item),
			})
		case strings.Contains(meter, "storage"):
			prices = append(prices, pricing.ManagedServicePrice{
				Service: "cosmos_db", TierName: "storage_gb",
				PricePerMonth: item.RetailPrice, Description: productOrSku(item),
			})
		}
	}
	return prices, nil
}

func armRegionOf(region string) string {
	if arm, ok := regionToARM[region]; ok {
		return arm
	}
	return region
}

func productOrSku(item retailItem) string {
	if item.ProductName != "" {
		return item.ProductName
	}
	return item.SkuName
}

func (a *Adapter) buildURL(odataFilter string) string {
	params := url.Values{}
	params.Set("api-version", apiVersion)
	params.Set("$filter", odataFilter)
	return fmt.Sprintf("%s?%s", baseURL, params.Encode())
}

func (a *Adapter) fetchAll(ctx context.Context, odataFilter string) ([]retailItem, error) {
	var items []retailItem
	url := a.buildURL(odataFilter)
	for url != "" {
		resp, err := a.fetchPage(ctx, url)
		if err != nil {
			return nil, err
		}
		items = append(items, resp.Items...)
		url = resp.NextPageLink
	}
	return items, nil
}

func (a *Adapter) fetchPage(ctx context.Context, url string) (*retailResponse, error) {
	body, err := pricing.Get(ctx, a.client, url, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, cwerrors.AdapterHTTP("azure", err)
	}
	var resp retailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, cwerrors.AdapterHTTP("azure", err)
	}
	return &resp, nil
}

func round(f float64, places int) float64 {
	mult := 1.0
	for i := 0; i < places; i++ {
		mult *= 10
	}
	return float64(int64(f*mult+0.5)) / mult
}
