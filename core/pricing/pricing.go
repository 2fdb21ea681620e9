// Package pricing defines the common interface every cloud pricing
// adapter implements, plus the shared instance/managed-service price
// shapes the Catalog Refresh Pipeline consumes.
package pricing

import (
	"context"
	"io"
	"net/http"
)

// InstancePrice is one on-demand compute instance price point.
type InstancePrice struct {
	InstanceType     string
	Region           string
	VCPUs            int
	MemoryGB         float64
	PricePerHour     float64
	PriceType        string // "on_demand", "reserved_1yr", "reserved_3yr", "spot"
	OS               string
	StorageDesc      string
	NetworkBandwidth string
}

// ManagedServicePrice is one pricing tier of a managed service
// (per-request, per-GB, per-hour, ...).
type ManagedServicePrice struct {
	Service       string
	TierName      string
	PricePerHour  float64
	PricePerMonth float64
	Description   string
	VCPUs         int
	MemoryGB      float64
}

// Adapter fetches live pricing from a single cloud provider.
type Adapter interface {
	Provider() string
	FetchInstancePricing(ctx context.Context, region string) (<-chan InstancePrice, <-chan error)
	FetchManagedServicePricing(ctx context.Context, service, region string) ([]ManagedServicePrice, error)
	SupportedManagedServices() []string
}

// HTTPTimeout is the default adapter HTTP timeout. Adapters do not
// retry; transport errors propagate to the caller except for GCP's
// auth-related 401/403, which degrade to an empty result set.
const HTTPTimeout = 30

// Get issues a GET request against url using client and returns the
// response body. Non-2xx responses are returned as *HTTPStatusError so
// callers can branch on status code (GCP's auth degradation needs this).
func Get(ctx context.Context, client *http.Client, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, &HTTPStatusError{StatusCode: resp.StatusCode, URL: url}
	}
	return body, nil
}

// HTTPStatusError is returned by Get when the response status is not 2xx.
type HTTPStatusError struct {
	StatusCode int
	URL        string
}

func (e *HTTPStatusError) Error() string {
	return httpStatusErrorMessage(e.StatusCode, e.URL)
}

func httpStatusErrorMessage(code int, url string) string {
	return "pricing adapter: " + http.StatusText(code) + " fetching " + url
}
