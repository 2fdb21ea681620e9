package spec

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Value is a tagged-value sum type for entries in a component's dynamic
// config map. Component configs carry whatever shape a given service
// needs (instance_type: "t3.medium", count: 3, multi_az: true, tags: {...}),
// so it cannot be a fixed struct, but an untyped `any` loses the ability to
// round-trip through YAML and JSON identically and makes every reader
// re-derive what shape it got. Value names the shape explicitly.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

// Value wraps exactly one of the config kinds.
type Value struct {
	kind   Kind
	str    string
	num    float64
	b      bool
	list   []Value
	object map[string]Value
}

func Null() Value                  { return Value{kind: KindNull} }
func String(s string) Value        { return Value{kind: KindString, str: s} }
func Number(n float64) Value       { return Value{kind: KindNumber, num: n} }
func Bool(b bool) Value            { return Value{kind: KindBool, b: b} }
func List(items ...Value) Value    { return Value{kind: KindList, list: items} }
func Map(m map[string]Value) Value { return Value{kind: KindMap, object: m} }

func (v Value) Kind() Kind { return v.kind }

// AsString returns the string value and whether v holds one.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsNumber returns the numeric value and whether v holds one.
func (v Value) AsNumber() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// AsBool returns the boolean value and whether v holds one.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsList returns the list elements and whether v holds a list.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

// AsMap returns the nested map and whether v holds one.
func (v Value) AsMap() (map[string]Value, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.object, true
}

// StringOr returns the string value or a default.
func (v Value) StringOr(def string) string {
	if s, ok := v.AsString(); ok {
		return s
	}
	return def
}

// NumberOr returns the numeric value or a default. Also accepts numbers
// that arrived tagged as strings (some producers emit "3" for count).
func (v Value) NumberOr(def float64) float64 {
	if n, ok := v.AsNumber(); ok {
		return n
	}
	if s, ok := v.AsString(); ok {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n
		}
	}
	return def
}

// BoolOr returns the boolean value or a default.
func (v Value) BoolOr(def bool) bool {
	if b, ok := v.AsBool(); ok {
		return b
	}
	return def
}

// IsNull reports whether v is the null/absent value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Native converts a Value back to a plain Go value (string/float64/bool/
// []any/map[string]any/nil) for callers that need interop with code that
// isn't config-map aware, e.g. formatting human-readable cost notes.
func (v Value) Native() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.Native()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.object))
		for k, e := range v.object {
			out[k] = e.Native()
		}
		return out
	default:
		return nil
	}
}

// FromNative builds a Value from a decoded YAML/JSON `any`.
func FromNative(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case float64:
		return Number(t)
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			items[i] = FromNative(e)
		}
		return List(items...)
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			m[k] = FromNative(e)
		}
		return Map(m)
	case map[any]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = FromNative(e)
		}
		return Map(m)
	default:
		return String(fmt.Sprint(t))
	}
}

func (v Value) MarshalYAML() (any, error) {
	return v.Native(), nil
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*v = FromNative(normalizeYAML(raw))
	return nil
}

// normalizeYAML converts yaml.v3's map[string]interface{} decoding
// (already native for mapping nodes) and passes through otherwise.
func normalizeYAML(x any) any {
	switch t := x.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalizeYAML(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeYAML(e)
		}
		return out
	default:
		return t
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Native())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = FromNative(raw)
	return nil
}

// Config is a component/boundary config map, keyed by string with Value
// entries. Ordering of Keys() is deterministic (lexical) so serialization
// and diffing never depend on Go's randomized map iteration.
type Config map[string]Value

// Keys returns the config's keys in sorted order.
func (c Config) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value for a key, or the null Value if absent.
func (c Config) Get(key string) Value {
	if c == nil {
		return Null()
	}
	if v, ok := c[key]; ok {
		return v
	}
	return Null()
}

// Has reports whether key is present.
func (c Config) Has(key string) bool {
	if c == nil {
		return false
	}
	_, ok := c[key]
	return ok
}

// HasAny reports whether any of the given keys is present.
func (c Config) HasAny(keys ...string) bool {
	for _, k := range keys {
		if c.Has(k) {
			return true
		}
	}
	return false
}

func (c Config) GetString(key, def string) string {
	return c.Get(key).StringOr(def)
}

func (c Config) GetNumber(key string, def float64) float64 {
	return c.Get(key).NumberOr(def)
}

func (c Config) GetBool(key string, def bool) bool {
	return c.Get(key).BoolOr(def)
}

// Clone returns a deep copy, needed before any in-place hardening by the
// Post-Validator.
func (c Config) Clone() Config {
	if c == nil {
		return nil
	}
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
