package goform

import (
	"fmt"
	"sort"
)

// ParseRules normalizes a raw schema into a RuleTree. raw is Fields (ordered)
// or map[string]any (fields in sorted order). Every field spec is a raw rule
// group, a *Validator or a DynamicRules.
func ParseRules(raw any) (*RuleTree, error) {
	t := &RuleTree{}
	switch fs := raw.(type) {
	case nil:
		return t, nil
	case Fields:
		for _, f := range fs {
			if err := t.add(f.Name, f.Rules); err != nil {
				return nil, err
			}
		}
	case []Field:
		return ParseRules(Fields(fs))
	case map[string]any:
		names := make([]string, 0, len(fs))
		for k := range fs {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, n := range names {
			if err := t.add(n, fs[n]); err != nil {
				return nil, err
			}
		}
	case *RuleTree:
		for _, n := range fs.names {
			if err := t.add(n, fs.specs[n]); err != nil {
				return nil, err
			}
		}
	default:
		return nil, configErrorf("", "unsupported schema type %T", raw)
	}
	return t, nil
}

func (t *RuleTree) add(name string, raw any) error {
	spec, err := parseFieldRules(name, raw)
	if err != nil {
		return err
	}
	t.set(name, spec)
	return nil
}

func parseFieldRules(name string, raw any) (RuleSpec, error) {
	if name == "" {
		return nil, configErrorf("", "field name cannot be empty")
	}
	switch r := raw.(type) {
	case *Validator:
		if r == nil {
			return nil, configErrorf(name, "nil sub-schema")
		}
		return r, nil
	case nil:
		return nil, configErrorf(name, "invalid rules, must be a rule group, a sub-schema or a function")
	}
	if fn, ok := asDynamic(raw); ok {
		return fn, nil
	}
	m, err := expandRules(name, raw)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ExpandRules normalizes a raw rule group into a RuleMap: bare names become
// {name: true} and the parameter of each is expanded recursively unless it is
// a *Validator. Expanding a RuleMap again yields an equal RuleMap.
func ExpandRules(raw any) (RuleMap, error) {
	return expandRules("", raw)
}

// MustExpand is like ExpandRules but panics on error.
func MustExpand(raw any) RuleMap {
	m, err := ExpandRules(raw)
	if err != nil {
		panic(err)
	}
	return m
}

func expandRules(field string, raw any) (RuleMap, error) {
	var out RuleMap
	put := func(name string, param any) error {
		if name == "" {
			return configErrorf(field, "rule name cannot be empty")
		}
		if name == RuleEach {
			if sub, ok := param.(*Validator); ok && sub != nil {
				out.Set(name, sub)
				return nil
			}
			nested, err := expandRules(field, param)
			if err != nil {
				return err
			}
			out.Set(name, nested)
			return nil
		}
		out.Set(name, param)
		return nil
	}

	switch g := raw.(type) {
	case RuleMap:
		for _, n := range g.names {
			if err := put(n, g.params[n]); err != nil {
				return RuleMap{}, err
			}
		}
	case Group:
		for _, e := range g {
			if err := expandEntry(field, e, put); err != nil {
				return RuleMap{}, err
			}
		}
	case []any:
		return expandRules(field, Group(g))
	case []string:
		for _, n := range g {
			if err := put(n, true); err != nil {
				return RuleMap{}, err
			}
		}
	case []Rule:
		for _, r := range g {
			if err := put(r.Name, r.Param); err != nil {
				return RuleMap{}, err
			}
		}
	case map[string]any:
		names := make([]string, 0, len(g))
		for k := range g {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, n := range names {
			if err := put(n, g[n]); err != nil {
				return RuleMap{}, err
			}
		}
	default:
		return RuleMap{}, configErrorf(field, "invalid rule group of type %T, must be a list or map of rules", raw)
	}
	return out, nil
}

func expandEntry(field string, e any, put func(string, any) error) error {
	switch r := e.(type) {
	case string:
		return put(r, true)
	case Rule:
		return put(r.Name, r.Param)
	case RuleMap:
		for _, n := range r.names {
			if err := put(n, r.params[n]); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		m, err := expandRules(field, r)
		if err != nil {
			return err
		}
		return expandEntry(field, m, put)
	}
	return &ConfigurationError{Field: field, Msg: fmt.Sprintf("rule name must be a string (%T given)", e)}
}
