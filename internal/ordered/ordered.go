// Package ordered decodes JSON, YAML and TOML documents into trees that keep
// mapping keys in document order. A decoded tree is made of *Map, []any and
// scalars (string, bool, int, float64, nil).
package ordered

import (
	"fmt"
	"sort"
)

// Map is a string-keyed mapping that remembers insertion order.
type Map struct {
	keys []string
	vals map[string]any
}

// NewMap returns an empty Map.
func NewMap() *Map { return &Map{vals: map[string]any{}} }

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string { return append([]string(nil), m.keys...) }

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }

// Get returns the value stored under k.
func (m *Map) Get(k string) (any, bool) {
	v, ok := m.vals[k]
	return v, ok
}

// Set stores v under k; a new key is appended.
func (m *Map) Set(k string, v any) {
	if m.vals == nil {
		m.vals = map[string]any{}
	}
	if _, ok := m.vals[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
}

// Plain converts a decoded tree into plain map[string]any / []any values.
func Plain(v any) any {
	switch t := v.(type) {
	case *Map:
		out := make(map[string]any, len(t.keys))
		for _, k := range t.keys {
			out[k] = Plain(t.vals[k])
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Plain(e)
		}
		return out
	}
	return v
}

// fromPlain builds an ordered tree from plain values; map keys are sorted.
func fromPlain(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := NewMap()
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			m.Set(k, fromPlain(t[k]))
		}
		return m
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromPlain(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromPlain(e)
		}
		return out
	case int64:
		return int(t)
	}
	return v
}

// DuplicateKeyError reports a key that appears twice in the same mapping.
type DuplicateKeyError struct {
	Key  string
	Line int // 0 when unknown
}

func (e *DuplicateKeyError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("ordered: duplicate key %q at line %d", e.Key, e.Line)
	}
	return fmt.Sprintf("ordered: duplicate key %q", e.Key)
}
