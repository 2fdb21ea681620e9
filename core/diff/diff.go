// Package diff structurally compares two ArchSpecs: components matched
// by id, connections matched by (source, target), field-level change
// records, and the resulting monthly cost delta.
package diff

import (
	"fmt"
	"reflect"
	"sort"

	"cloudwright/core/spec"
)

var componentFields = []string{"service", "provider", "label", "description", "tier"}

// Diff compares old against new and returns a DiffResult with added,
// removed, and changed components and connections, in id/pair-sorted
// order for stable output.
func Diff(old, new spec.ArchSpec) spec.DiffResult {
	oldByID := componentsByID(old)
	newByID := componentsByID(new)

	var added, removed []spec.Component
	var changed []spec.ChangedComponent

	for id, c := range newByID {
		if _, ok := oldByID[id]; !ok {
			added = append(added, c)
		}
	}
	for id, c := range oldByID {
		if _, ok := newByID[id]; !ok {
			removed = append(removed, c)
		}
	}
	for id, oldC := range oldByID {
		newC, ok := newByID[id]
		if !ok {
			continue
		}
		if changes := diffComponent(oldC, newC); len(changes) > 0 {
			changed = append(changed, spec.ChangedComponent{ComponentID: id, Changes: changes})
		}
	}

	sort.Slice(added, func(i, j int) bool { return added[i].ID < added[j].ID })
	sort.Slice(removed, func(i, j int) bool { return removed[i].ID < removed[j].ID })
	sort.Slice(changed, func(i, j int) bool { return changed[i].ComponentID < changed[j].ComponentID })

	connectionChanges := diffConnections(old, new)

	var costDelta float64
	if old.CostEstimate != nil && new.CostEstimate != nil {
		costDelta = new.CostEstimate.MonthlyTotal - old.CostEstimate.MonthlyTotal
	}

	return spec.DiffResult{
		Added:             added,
		Removed:           removed,
		Changed:           changed,
		ConnectionChanges: connectionChanges,
		CostDelta:         costDelta,
		Summary:           summary(added, removed, changed),
	}
}

func componentsByID(s spec.ArchSpec) map[string]spec.Component {
	m := make(map[string]spec.Component, len(s.Components))
	for _, c := range s.Components {
		m[c.ID] = c
	}
	return m
}

func diffComponent(oldC, newC spec.Component) []spec.FieldChange {
	var changes []spec.FieldChange

	oldVals := map[string]any{
		"service": oldC.Service, "provider": oldC.Provider, "label": oldC.Label,
		"description": oldC.Description, "tier": oldC.Tier,
	}
	newVals := map[string]any{
		"service": newC.Service, "provider": newC.Provider, "label": newC.Label,
		"description": newC.Description, "tier": newC.Tier,
	}
	for _, field := range componentFields {
		if oldVals[field] != newVals[field] {
			changes = append(changes, spec.FieldChange{Field: field, Before: oldVals[field], After: newVals[field]})
		}
	}

	changes = append(changes, diffConfig(oldC.Config, newC.Config)...)
	return changes
}

func diffConfig(oldCfg, newCfg spec.Config) []spec.FieldChange {
	keys := make(map[string]bool)
	for k := range oldCfg {
		keys[k] = true
	}
	for k := range newCfg {
		keys[k] = true
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	var changes []spec.FieldChange
	for _, k := range sorted {
		oldV, oldOK := oldCfg[k]
		newV, newOK := newCfg[k]
		if oldOK && newOK && reflect.DeepEqual(oldV.Native(), newV.Native()) {
			continue
		}
		if !oldOK && !newOK {
			continue
		}
		change := spec.FieldChange{Field: fmt.Sprintf("config.%s", k)}
		if oldOK {
			change.Before = oldV.Native()
		}
		if newOK {
			change.After = newV.Native()
		}
		changes = append(changes, change)
	}
	return changes
}

type connKey struct{ source, target string }

func diffConnections(old, new spec.ArchSpec) []spec.ConnectionChange {
	oldByKey := make(map[connKey]spec.Connection, len(old.Connections))
	for _, c := range old.Connections {
		oldByKey[connKey{c.Source, c.Target}] = c
	}
	newByKey := make(map[connKey]spec.Connection, len(new.Connections))
	for _, c := range new.Connections {
		newByKey[connKey{c.Source, c.Target}] = c
	}

	var out []spec.ConnectionChange
	for key, c := range newByKey {
		if _, ok := oldByKey[key]; !ok {
			out = append(out, spec.ConnectionChange{Source: c.Source, Target: c.Target, Type: "added"})
		}
	}
	for key, c := range oldByKey {
		if _, ok := newByKey[key]; !ok {
			out = append(out, spec.ConnectionChange{Source: c.Source, Target: c.Target, Type: "removed"})
		}
	}
	for key, oldC := range oldByKey {
		newC, ok := newByKey[key]
		if !ok {
			continue
		}
		var fieldChanges []spec.FieldChange
		if oldC.Label != newC.Label {
			fieldChanges = append(fieldChanges, spec.FieldChange{Field: "label", Before: oldC.Label, After: newC.Label})
		}
		if oldC.Protocol != newC.Protocol {
			fieldChanges = append(fieldChanges, spec.FieldChange{Field: "protocol", Before: oldC.Protocol, After: newC.Protocol})
		}
		if !portEqual(oldC.Port, newC.Port) {
			fieldChanges = append(fieldChanges, spec.FieldChange{Field: "port", Before: portValue(oldC.Port), After: portValue(newC.Port)})
		}
		if len(fieldChanges) > 0 {
			out = append(out, spec.ConnectionChange{Source: oldC.Source, Target: oldC.Target, Type: "changed", Changes: fieldChanges})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		if out[i].Target != out[j].Target {
			return out[i].Target < out[j].Target
		}
		return out[i].Type < out[j].Type
	})
	return out
}

func portEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func portValue(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func summary(added, removed []spec.Component, changed []spec.ChangedComponent) string {
	return fmt.Sprintf("Added %d, Removed %d, Changed %d components", len(added), len(removed), len(changed))
}
