// Package mapper maps ArchSpec components across cloud providers: the
// equivalent service for a given (service, provider) pair, and the
// equivalent instance_type/machine_type/vm_size config key when moving
// compute between clouds. The Cost Engine's compare-providers operation
// is built entirely on top of this package.
package mapper

import (
	"context"

	"cloudwright/core/catalog"
	"cloudwright/core/registry"
	"cloudwright/core/spec"
)

// instanceConfigKeys is every config key that might carry an instance
// type name, in the order they're checked — the first one present wins,
// matching the original's single-instance-field assumption per component.
var instanceConfigKeys = []string{"instance_type", "machine_type", "vm_size", "instance_class", "node_type"}

// Mapper cross-references the Service Registry's equivalence groups and
// the Catalog Store's instance equivalence table.
type Mapper struct {
	Catalog  *catalog.Store
	Registry *registry.Registry
}

// New builds a Mapper over the given catalog and registry.
func New(store *catalog.Store, reg *registry.Registry) *Mapper {
	return &Mapper{Catalog: store, Registry: reg}
}

// EquivalentService returns the service key in targetProvider that
// fills the same architectural role as (service, provider), consulting
// the registry's equivalence groups. ok is false when no equivalence
// group contains the source service.
func (m *Mapper) EquivalentService(service, provider, targetProvider string) (equivalent string, ok bool, err error) {
	if provider == "" {
		provider = "aws"
	}
	equivalent, ok = m.Registry.GetEquivalent(provider, service, targetProvider)
	return equivalent, ok, nil
}

// RemapInstanceConfig rewrites a component config's instance-identifying
// key (instance_type -> machine_type for gcp, -> vm_size for azure) and
// substitutes the equivalent instance name from the catalog's
// equivalences table. Config keys that carry no instance name, or whose
// instance has no catalog equivalence toward targetProvider, pass
// through unchanged.
func (m *Mapper) RemapInstanceConfig(ctx context.Context, cfg spec.Config, fromProvider, targetProvider string) (spec.Config, error) {
	if cfg == nil {
		return cfg, nil
	}

	var instanceKey, instanceName string
	for _, key := range instanceConfigKeys {
		if cfg.Has(key) {
			instanceKey = key
			instanceName = cfg.GetString(key, "")
			break
		}
	}
	if instanceName == "" {
		return cfg.Clone(), nil
	}

	if fromProvider == "" {
		fromProvider = "aws"
	}

	equivName, ok, err := m.Catalog.MapInstanceType(ctx, instanceName, fromProvider, targetProvider)
	if err != nil {
		return nil, err
	}
	if !ok {
		return cfg.Clone(), nil
	}

	targetKey := instanceKey
	switch targetProvider {
	case "gcp":
		if instanceKey == "instance_type" {
			targetKey = "machine_type"
		}
	case "azure":
		if instanceKey == "instance_type" {
			targetKey = "vm_size"
		}
	}

	out := cfg.Clone()
	if targetKey != instanceKey {
		delete(out, instanceKey)
	}
	out[targetKey] = spec.String(equivName)
	return out, nil
}
