package goform

import "reflect"

// Reserved rule names.
const (
	RuleRequired = "required"
	RuleEach     = "each"
)

// RuleSpec is the schema of one field. It is one of RuleMap, *Validator (a
// sub-schema) or DynamicRules; no other type satisfies it.
type RuleSpec interface {
	isRuleSpec()
}

// DynamicRules computes a field's rules on every validation pass. It must
// return a RuleMap, a raw rule group or a *Validator.
type DynamicRules func(c *Validator) any

// Conditional computes a rule parameter on every validation pass. For the
// required rule the result is interpreted as a boolean.
type Conditional func(c *Validator) any

// Callback is an inline rule, used when a rule name is not registered and its
// parameter is a Callback. It returns the (possibly rewritten) value and
// whether it is valid. It may read and write sibling values through c.
type Callback func(value any, c *Validator) (any, bool)

func (RuleMap) isRuleSpec()      {}
func (*Validator) isRuleSpec()   {}
func (DynamicRules) isRuleSpec() {}

// Rule is a named rule with its parameter, the keyed entry of a Group.
type Rule struct {
	Name  string
	Param any
}

// R is shorthand for Rule{Name: name, Param: param}.
func R(name string, param any) Rule { return Rule{Name: name, Param: param} }

// Group is the shorthand form of a rule set. A string entry is a bare rule
// name ({name: true}), a Rule entry keeps its parameter and a RuleMap entry is
// merged in order:
//
//	Group{"required", R("min_length", 2)}
type Group []any

// RuleMap is the normalized, ordered set of rule name -> parameter for one
// field. The zero value is an empty rule map.
type RuleMap struct {
	names  []string
	params map[string]any
}

// NewRuleMap builds a RuleMap from rules in order; later duplicates overwrite
// the parameter but keep the first position.
func NewRuleMap(rules ...Rule) RuleMap {
	var m RuleMap
	for _, r := range rules {
		m.Set(r.Name, r.Param)
	}
	return m
}

// Set adds or replaces the parameter of a rule.
func (m *RuleMap) Set(name string, param any) {
	if m.params == nil {
		m.params = map[string]any{}
	}
	if _, ok := m.params[name]; !ok {
		m.names = append(m.names, name)
	}
	m.params[name] = param
}

// Delete removes a rule.
func (m *RuleMap) Delete(name string) {
	if _, ok := m.params[name]; !ok {
		return
	}
	delete(m.params, name)
	for i, n := range m.names {
		if n == name {
			m.names = append(m.names[:i:i], m.names[i+1:]...)
			break
		}
	}
}

// Get returns the parameter of a rule.
func (m RuleMap) Get(name string) (any, bool) {
	p, ok := m.params[name]
	return p, ok
}

// Has reports whether the rule is present.
func (m RuleMap) Has(name string) bool {
	_, ok := m.params[name]
	return ok
}

// Names returns the rule names in declaration order.
func (m RuleMap) Names() []string { return append([]string(nil), m.names...) }

// Len returns the number of rules.
func (m RuleMap) Len() int { return len(m.names) }

// Clone returns an independent copy of m, nested rule maps included.
// Sub-schemas and callables are shared.
func (m RuleMap) Clone() RuleMap {
	var c RuleMap
	for _, n := range m.names {
		p := m.params[n]
		if nested, ok := p.(RuleMap); ok {
			p = nested.Clone()
		}
		c.Set(n, p)
	}
	return c
}

// Merge sets every rule of other on a copy of m.
func (m RuleMap) Merge(other RuleMap) RuleMap {
	c := m.Clone()
	for _, n := range other.names {
		c.Set(n, other.params[n])
	}
	return c
}

// Map returns the rules as a plain map, with nested each groups converted too.
func (m RuleMap) Map() map[string]any {
	out := make(map[string]any, len(m.names))
	for _, n := range m.names {
		p := m.params[n]
		if nested, ok := p.(RuleMap); ok {
			p = nested.Map()
		}
		out[n] = p
	}
	return out
}

// Equal reports whether both maps hold the same rules in the same order.
// Function parameters compare equal only when both are nil.
func (m RuleMap) Equal(other RuleMap) bool {
	if len(m.names) != len(other.names) {
		return false
	}
	for i, n := range m.names {
		if other.names[i] != n {
			return false
		}
		a, b := m.params[n], other.params[n]
		if ra, ok := a.(RuleMap); ok {
			rb, ok := b.(RuleMap)
			if !ok || !ra.Equal(rb) {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(a, b) {
			return false
		}
	}
	return true
}

func asConditional(p any) (Conditional, bool) {
	switch f := p.(type) {
	case Conditional:
		return f, true
	case func(*Validator) any:
		return f, true
	case func(*Validator) bool:
		return func(c *Validator) any { return f(c) }, true
	}
	return nil, false
}

func asCallback(p any) (Callback, bool) {
	switch f := p.(type) {
	case Callback:
		return f, true
	case func(any, *Validator) (any, bool):
		return f, true
	case func(any, *Validator) bool:
		return func(v any, c *Validator) (any, bool) { return v, f(v, c) }, true
	}
	return nil, false
}

func asDynamic(p any) (DynamicRules, bool) {
	switch f := p.(type) {
	case DynamicRules:
		return f, true
	case func(*Validator) any:
		return f, true
	}
	return nil, false
}
