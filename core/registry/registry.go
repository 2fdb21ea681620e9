// Package registry loads Cloudwright's service catalog: per-provider
// service definitions grouped by category, cross-cloud equivalence
// groups, and feature-parity matrices. Data lives in data/*.yaml and is
// embedded into the binary; the registry is built once at process start
// and treated as immutable thereafter.
package registry

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	cwerrors "cloudwright/internal/errors"
	"cloudwright/core/spec"
)

//go:embed data/*.yaml
var dataFS embed.FS

// ServiceDef describes a single provider's service within a category.
type ServiceDef struct {
	ServiceKey     string
	Provider       string
	Category       string
	Name           string
	Description    string
	PricingFormula string
	DefaultConfig  spec.Config
}

// Equivalence names the service keys that fill the same role across
// providers. Absent providers are left as empty strings.
type Equivalence struct {
	Category string
	AWS      string
	GCP      string
	Azure    string
}

func (e Equivalence) forProvider(provider string) string {
	switch provider {
	case "aws":
		return e.AWS
	case "gcp":
		return e.GCP
	case "azure":
		return e.Azure
	default:
		return ""
	}
}

// Members returns the present (provider -> service key) pairs in this
// equivalence group.
func (e Equivalence) Members() map[string]string {
	m := map[string]string{}
	if e.AWS != "" {
		m["aws"] = e.AWS
	}
	if e.GCP != "" {
		m["gcp"] = e.GCP
	}
	if e.Azure != "" {
		m["azure"] = e.Azure
	}
	return m
}

// featureParityBlock is the on-disk shape of a feature_parity entry.
type featureParityBlock struct {
	Equivalence []string                  `yaml:"equivalence"`
	Features    map[string]map[string]any `yaml:"features"`
}

type categoryFile struct {
	Category      string `yaml:"category"`
	Services      map[string]map[string]struct {
		Name           string      `yaml:"name"`
		Description    string      `yaml:"description"`
		PricingFormula string      `yaml:"pricing_formula"`
		DefaultConfig  map[string]any `yaml:"default_config"`
	} `yaml:"services"`
	Equivalences []struct {
		AWS   string `yaml:"aws"`
		GCP   string `yaml:"gcp"`
		Azure string `yaml:"azure"`
	} `yaml:"equivalences"`
	FeatureParity []featureParityBlock `yaml:"feature_parity"`
}

type serviceKey struct {
	provider string
	service  string
}

// Registry is the loaded, queryable service catalog.
type Registry struct {
	services      map[serviceKey]*ServiceDef
	byCategory    map[string][]*ServiceDef
	categories    []string
	equivalences  []Equivalence
	featureParity map[string]map[string]map[string]spec.Value // service_key -> feature -> provider -> value
}

// Load parses every embedded data/*.yaml file, in sorted filename order
// (matching the original Python registry's sorted(glob("*.yaml"))), and
// builds a Registry. Load fails closed: a malformed data file is a
// programmer error, not a runtime condition to recover from.
func Load() (*Registry, error) {
	entries, err := dataFS.ReadDir("data")
	if err != nil {
		return nil, cwerrors.CatalogIO("reading embedded registry data", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	r := &Registry{
		services:      map[serviceKey]*ServiceDef{},
		byCategory:    map[string][]*ServiceDef{},
		featureParity: map[string]map[string]map[string]spec.Value{},
	}

	for _, name := range names {
		raw, err := dataFS.ReadFile("data/" + name)
		if err != nil {
			return nil, cwerrors.CatalogIO("reading "+name, err)
		}
		var cf categoryFile
		if err := yaml.Unmarshal(raw, &cf); err != nil {
			return nil, cwerrors.Wrapf(cwerrors.CatalogIOError, err, "parsing %s", name)
		}
		if err := r.ingest(cf); err != nil {
			return nil, cwerrors.Wrapf(cwerrors.CatalogIOError, err, "ingesting %s", name)
		}
	}

	sort.Strings(r.categories)
	return r, nil
}

// MustLoad is Load but panics on failure, for package-level singletons
// and tests where the embedded data is known-good at compile time.
func MustLoad() *Registry {
	r, err := Load()
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) ingest(cf categoryFile) error {
	if cf.Category == "" {
		return fmt.Errorf("category file missing category name")
	}
	if _, seen := r.byCategory[cf.Category]; !seen {
		r.categories = append(r.categories, cf.Category)
	}

	for provider, svcs := range cf.Services {
		for key, def := range svcs {
			cfg := make(spec.Config, len(def.DefaultConfig))
			for k, v := range def.DefaultConfig {
				cfg[k] = spec.FromNative(v)
			}
			sd := &ServiceDef{
				ServiceKey:     key,
				Provider:       provider,
				Category:       cf.Category,
				Name:           def.Name,
				Description:    def.Description,
				PricingFormula: def.PricingFormula,
				DefaultConfig:  cfg,
			}
			r.services[serviceKey{provider, key}] = sd
			r.byCategory[cf.Category] = append(r.byCategory[cf.Category], sd)
		}
	}

	for _, eq := range cf.Equivalences {
		r.equivalences = append(r.equivalences, Equivalence{
			Category: cf.Category,
			AWS:      eq.AWS,
			GCP:      eq.GCP,
			Azure:    eq.Azure,
		})
	}

	for _, block := range cf.FeatureParity {
		for _, svcKey := range block.Equivalence {
			if _, ok := r.featureParity[svcKey]; !ok {
				r.featureParity[svcKey] = map[string]map[string]spec.Value{}
			}
			for feature, byProvider := range block.Features {
				if _, ok := r.featureParity[svcKey][feature]; !ok {
					r.featureParity[svcKey][feature] = map[string]spec.Value{}
				}
				for provider, val := range byProvider {
					r.featureParity[svcKey][feature][provider] = spec.FromNative(val)
				}
			}
		}
	}

	return nil
}

// Get returns the service definition for (provider, key).
func (r *Registry) Get(provider, key string) (*ServiceDef, bool) {
	sd, ok := r.services[serviceKey{provider: provider, service: key}]
	return sd, ok
}

// GetCategory returns every service definition in the given category,
// across all providers, in a stable order (provider then service key).
func (r *Registry) GetCategory(category string) []*ServiceDef {
	defs := append([]*ServiceDef(nil), r.byCategory[category]...)
	sort.Slice(defs, func(i, j int) bool {
		if defs[i].Provider != defs[j].Provider {
			return defs[i].Provider < defs[j].Provider
		}
		return defs[i].ServiceKey < defs[j].ServiceKey
	})
	return defs
}

// ListCategories returns every known category name, sorted.
func (r *Registry) ListCategories() []string {
	return append([]string(nil), r.categories...)
}

// ListProviders returns the three fixed cloud providers this registry
// speaks. Cloudwright does not support dynamically registered providers.
func (r *Registry) ListProviders() []string {
	return []string{"aws", "gcp", "azure"}
}

// ListServices returns every service key known for a provider, sorted.
func (r *Registry) ListServices(provider string) []string {
	var out []string
	for k := range r.services {
		if k.provider == provider {
			out = append(out, k.service)
		}
	}
	sort.Strings(out)
	return out
}

// GetEquivalent returns the service key in targetProvider that fills
// the same role as (provider, serviceKey), or "" if no equivalence
// group contains it.
func (r *Registry) GetEquivalent(provider, serviceKey, targetProvider string) (string, bool) {
	for _, eq := range r.equivalences {
		if eq.forProvider(provider) == serviceKey {
			target := eq.forProvider(targetProvider)
			if target == "" {
				return "", false
			}
			return target, true
		}
	}
	return "", false
}

// GetPricingFormula returns the named pricing formula for a service, if
// the service is known.
func (r *Registry) GetPricingFormula(provider, serviceKey string) (string, bool) {
	sd, ok := r.Get(provider, serviceKey)
	if !ok {
		return "", false
	}
	return sd.PricingFormula, true
}

// GetDefaultConfig returns a clone of the registry's default config for
// a service. Cloned so callers can merge in component-specific overrides
// without mutating the registry's copy.
func (r *Registry) GetDefaultConfig(provider, serviceKey string) (spec.Config, bool) {
	sd, ok := r.Get(provider, serviceKey)
	if !ok {
		return nil, false
	}
	return sd.DefaultConfig.Clone(), true
}

// AllEquivalences returns every equivalence group across every category.
func (r *Registry) AllEquivalences() []Equivalence {
	return append([]Equivalence(nil), r.equivalences...)
}

// GetFeatureParity returns the provider->value map for one feature of a
// service, if a feature-parity block covers it.
func (r *Registry) GetFeatureParity(serviceKey, feature string) (map[string]spec.Value, bool) {
	byFeature, ok := r.featureParity[serviceKey]
	if !ok {
		return nil, false
	}
	byProvider, ok := byFeature[feature]
	return byProvider, ok
}

// CompareFeatures returns the full feature-parity table for a service
// key: feature name -> provider -> value.
func (r *Registry) CompareFeatures(serviceKey string) map[string]map[string]spec.Value {
	return r.featureParity[serviceKey]
}

// FeatureGaps reports, for a given equivalence group's anchor service
// key, which providers lack a feature that at least one other provider
// in the group has (value present and truthy).
func (r *Registry) FeatureGaps(serviceKey string) map[string][]string {
	gaps := map[string][]string{}
	for feature, byProvider := range r.featureParity[serviceKey] {
		anyTrue := false
		for _, v := range byProvider {
			if b, ok := v.AsBool(); ok && b {
				anyTrue = true
				break
			}
		}
		if !anyTrue {
			continue
		}
		for _, provider := range r.ListProviders() {
			v, present := byProvider[provider]
			hasFeature := present
			if b, ok := v.AsBool(); present && ok {
				hasFeature = b
			}
			if !hasFeature {
				gaps[feature] = append(gaps[feature], provider)
			}
		}
	}
	for feature := range gaps {
		sort.Strings(gaps[feature])
	}
	return gaps
}

// Stats summarizes the loaded registry, mirroring the original
// registry's diagnostic stats() method.
type Stats struct {
	Categories       int
	Services         int
	Equivalences     int
	ServicesByProvider map[string]int
}

func (r *Registry) Stat() Stats {
	byProvider := map[string]int{}
	for k := range r.services {
		byProvider[k.provider]++
	}
	return Stats{
		Categories:         len(r.categories),
		Services:           len(r.services),
		Equivalences:       len(r.equivalences),
		ServicesByProvider: byProvider,
	}
}
