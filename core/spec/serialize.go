package spec

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	cwerrors "cloudwright/internal/errors"
	"gopkg.in/yaml.v3"
)

// ToYAML renders the spec as YAML, the preferred on-write format per the
// external interface contract. Empty optional collections are omitted
// via the struct's omitempty tags rather than emitted as `[]`/`{}`.
func (s ArchSpec) ToYAML() (string, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return "", cwerrors.Wrap(cwerrors.Internal, "marshal ArchSpec to YAML", err)
	}
	return string(out), nil
}

// FromYAML parses an ArchSpec from YAML text. Unknown fields are
// ignored (yaml.v3's default decode behavior); missing optional fields
// keep their Go zero values, which for Components/Connections are
// filled in below to match the documented defaults.
func FromYAML(text string) (ArchSpec, error) {
	var s ArchSpec
	if err := yaml.Unmarshal([]byte(text), &s); err != nil {
		return ArchSpec{}, cwerrors.Wrap(cwerrors.InvalidSpec, "parse ArchSpec YAML", err)
	}
	applyDefaults(&s)
	return s, nil
}

// ToJSON renders the spec as JSON.
func (s ArchSpec) ToJSON() (string, error) {
	out, err := json.Marshal(s)
	if err != nil {
		return "", cwerrors.Wrap(cwerrors.Internal, "marshal ArchSpec to JSON", err)
	}
	return string(out), nil
}

// FromJSON parses an ArchSpec from JSON text.
func FromJSON(text string) (ArchSpec, error) {
	var s ArchSpec
	if err := json.Unmarshal([]byte(text), &s); err != nil {
		return ArchSpec{}, cwerrors.Wrap(cwerrors.InvalidSpec, "parse ArchSpec JSON", err)
	}
	applyDefaults(&s)
	return s, nil
}

// FromFile loads an ArchSpec from a .yaml/.yml or .json file, selecting
// the decoder by extension.
func FromFile(path string) (ArchSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ArchSpec{}, cwerrors.Wrap(cwerrors.CatalogIOError, "read spec file", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FromJSON(string(data))
	default:
		return FromYAML(string(data))
	}
}

// applyDefaults fills the documented per-field defaults on a freshly
// decoded spec: version 1, component tier 2, non-nil components/connections.
func applyDefaults(s *ArchSpec) {
	if s.Version == 0 {
		s.Version = 1
	}
	if s.Components == nil {
		s.Components = []Component{}
	}
	if s.Connections == nil {
		s.Connections = []Connection{}
	}
	for i := range s.Components {
		if s.Components[i].Tier == 0 {
			s.Components[i].Tier = 2
		}
		if s.Components[i].Config == nil {
			s.Components[i].Config = Config{}
		}
	}
	for i := range s.Boundaries {
		if s.Boundaries[i].Config == nil {
			s.Boundaries[i].Config = Config{}
		}
	}
}

// Export renders the spec in an external presentation format. Terraform,
// CloudFormation, and Mermaid rendering are out-of-scope collaborators —
// this is the contract point they plug into, not an implementation of
// any of them.
func (s ArchSpec) Export(format string) (string, error) {
	return "", cwerrors.Newf(cwerrors.InvalidSpec, "unknown export format: %s", format)
}
