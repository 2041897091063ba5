package goform

// Field is one entry of an ordered raw schema. Rules is a raw rule group
// (Group, []string, map[string]any, RuleMap), a *Validator or a DynamicRules.
type Field struct {
	Name  string
	Rules any
}

// Fields is an ordered raw schema. Field order is validation order, which
// matters when a rule reads a sibling value.
type Fields []Field

// RuleTree is the normalized, ordered schema: field name -> RuleSpec.
type RuleTree struct {
	names []string
	specs map[string]RuleSpec
}

// Names returns the field names in validation order.
func (t *RuleTree) Names() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.names...)
}

// Get returns the spec of a field. A rule map is returned as a copy; the tree
// only changes through SetRules, SetFieldRules and AddRules.
func (t *RuleTree) Get(name string) (RuleSpec, bool) {
	if t == nil {
		return nil, false
	}
	s, ok := t.specs[name]
	if rm, isMap := s.(RuleMap); isMap {
		return rm.Clone(), true
	}
	return s, ok
}

// Len returns the number of fields.
func (t *RuleTree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

func (t *RuleTree) set(name string, spec RuleSpec) {
	if t.specs == nil {
		t.specs = map[string]RuleSpec{}
	}
	if _, ok := t.specs[name]; !ok {
		t.names = append(t.names, name)
	}
	t.specs[name] = spec
}

// merge folds other into t. Two rule maps for the same field are merged rule
// by rule; anything else is replaced by other's spec.
func (t *RuleTree) merge(other *RuleTree) {
	for _, n := range other.names {
		spec := other.specs[n]
		if cur, ok := t.specs[n].(RuleMap); ok {
			if add, ok := spec.(RuleMap); ok {
				t.set(n, cur.Merge(add))
				continue
			}
		}
		t.set(n, spec)
	}
}
