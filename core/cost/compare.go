package cost

import (
	"context"
	"fmt"

	"cloudwright/core/mapper"
	"cloudwright/core/spec"
)

// CompareProviders prices s as it would run on each of providers,
// remapping every component to its cross-cloud equivalent service and
// instance configuration via the Provider Mapper. Providers matching
// s.Provider are skipped — there is nothing to compare it to itself.
func (e *Engine) CompareProviders(ctx context.Context, s spec.ArchSpec, providers []string) ([]spec.Alternative, error) {
	mp := mapper.New(e.Catalog, e.Registry)
	var alternatives []spec.Alternative

	for _, targetProvider := range providers {
		if targetProvider == s.Provider {
			continue
		}

		mappedComponents := make([]spec.Component, 0, len(s.Components))
		var differences []string

		for _, comp := range s.Components {
			equivService, ok, err := mp.EquivalentService(comp.Service, comp.Provider, targetProvider)
			if err != nil {
				return nil, err
			}
			if ok {
				newConfig, err := mp.RemapInstanceConfig(ctx, comp.Config, comp.Provider, targetProvider)
				if err != nil {
					return nil, err
				}
				newComp := comp.Clone()
				newComp.Service = equivService
				newComp.Provider = targetProvider
				newComp.Config = newConfig
				mappedComponents = append(mappedComponents, newComp)
				if equivService != comp.Service {
					differences = append(differences, fmt.Sprintf("%s instead of %s", equivService, comp.Service))
				}
			} else {
				noEquiv := comp.Clone()
				noEquiv.Provider = targetProvider
				mappedComponents = append(mappedComponents, noEquiv)
				differences = append(differences, fmt.Sprintf("No direct equivalent for %s", comp.Service))
			}
		}

		altSpec := s.Clone()
		altSpec.Provider = targetProvider
		altSpec.Components = mappedComponents

		altEstimate, err := e.Estimate(ctx, altSpec, "on_demand")
		if err != nil {
			return nil, err
		}
		altSpec.CostEstimate = &altEstimate

		if len(differences) > 5 {
			differences = differences[:5]
		}

		alternatives = append(alternatives, spec.Alternative{
			Provider:       targetProvider,
			MonthlyTotal:   altEstimate.MonthlyTotal,
			Spec:           &altSpec,
			KeyDifferences: differences,
		})
	}

	return alternatives, nil
}
