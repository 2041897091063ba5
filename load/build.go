package load

import (
	"fmt"

	goform "github.com/reoring/goform"
	"github.com/reoring/goform/internal/ordered"
)

type builder struct {
	settings []goform.Setting
}

func (b builder) schema(m *ordered.Map) (*goform.Validator, error) {
	fields := make(goform.Fields, 0, m.Len())
	for _, name := range m.Keys() {
		raw, _ := m.Get(name)
		spec, err := b.field(name, raw)
		if err != nil {
			return nil, err
		}
		fields = append(fields, goform.Field{Name: name, Rules: spec})
	}
	return goform.New(fields, b.settings...)
}

func (b builder) field(name string, raw any) (any, error) {
	if sub, ok, err := b.subSchema(name, raw); ok || err != nil {
		return sub, err
	}
	return b.group(name, raw)
}

// subSchema reports whether raw is a {$fields: ...} mapping and builds it.
func (b builder) subSchema(name string, raw any) (*goform.Validator, bool, error) {
	m, ok := raw.(*ordered.Map)
	if !ok {
		return nil, false, nil
	}
	inner, ok := m.Get(FieldsKey)
	if !ok {
		return nil, false, nil
	}
	if m.Len() != 1 {
		return nil, true, &goform.ConfigurationError{Field: name, Msg: FieldsKey + " cannot be mixed with rules"}
	}
	if inner == nil {
		inner = ordered.NewMap()
	}
	fm, ok := inner.(*ordered.Map)
	if !ok {
		return nil, true, &goform.ConfigurationError{Field: name, Msg: FieldsKey + " must be a mapping"}
	}
	v, err := b.schema(fm)
	return v, true, err
}

func (b builder) group(name string, raw any) (goform.Group, error) {
	g := goform.Group{}
	switch t := raw.(type) {
	case nil:
	case string:
		g = append(g, t)
	case *ordered.Map:
		for _, rule := range t.Keys() {
			p, _ := t.Get(rule)
			r, err := b.rule(name, rule, p)
			if err != nil {
				return nil, err
			}
			g = append(g, r)
		}
	case []any:
		for _, e := range t {
			switch et := e.(type) {
			case string:
				g = append(g, et)
			case *ordered.Map:
				for _, rule := range et.Keys() {
					p, _ := et.Get(rule)
					r, err := b.rule(name, rule, p)
					if err != nil {
						return nil, err
					}
					g = append(g, r)
				}
			default:
				return nil, &goform.ConfigurationError{Field: name, Msg: fmt.Sprintf("rule must be a name or a {name: param} mapping, got %T", e)}
			}
		}
	default:
		return nil, &goform.ConfigurationError{Field: name, Msg: fmt.Sprintf("rules must be a list or a mapping, got %T", raw)}
	}
	return g, nil
}

func (b builder) rule(field, name string, param any) (goform.Rule, error) {
	if name != goform.RuleEach {
		return goform.R(name, ordered.Plain(param)), nil
	}
	if sub, ok, err := b.subSchema(field, param); ok || err != nil {
		return goform.R(name, sub), err
	}
	g, err := b.group(field, param)
	return goform.R(name, g), err
}
