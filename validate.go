package goform

import (
	"sort"

	"go.uber.org/zap"

	"github.com/reoring/goform/internal/coerce"
	"github.com/reoring/goform/rules"
)

// Validate checks input against the schema. Fields are validated in schema
// order; every field's (possibly sanitized) value is written back to the value
// tree whether it passed or not, and the error tree is rebuilt from scratch.
//
// opts override the stored default options for this call and are inherited by
// every sub-schema reached from it. The returned error is non-nil only for a
// broken schema (ConfigurationError, RuleNotFoundError, RuleError); invalid
// input is reported through the bool and Errors.
func (v *Validator) Validate(input map[string]any, opts ...Option) (bool, error) {
	return v.validate(input, v.opts.apply(opts))
}

func (v *Validator) validate(input map[string]any, o Options) (bool, error) {
	if v.values == nil {
		v.values = map[string]any{}
	}
	v.errors = ErrorTree{}

	for _, f := range v.rules.names {
		spec := v.rules.specs[f]
		if dyn, ok := spec.(DynamicRules); ok {
			resolved, err := v.resolveDynamic(f, dyn)
			if err != nil {
				return false, err
			}
			spec = resolved
		}

		value, present := input[f]
		if !present && o.UseDefault {
			value = v.values[f]
		}

		switch s := spec.(type) {
		case *Validator:
			candidate := map[string]any{}
			if present {
				candidate = coerce.ToMap(value)
			}
			s.parent = v
			s.values = coerce.ToMap(v.values[f])
			if _, err := s.validate(candidate, o); err != nil {
				return false, err
			}
			value = coerce.CopyMap(s.values)
			if len(s.errors) > 0 {
				v.errors[f] = &FieldError{Fields: s.errors}
			}
		case RuleMap:
			nv, fe, err := v.validateValue(f, value, s, o)
			if err != nil {
				return false, err
			}
			value = nv
			if fe != nil {
				v.errors[f] = fe
			}
		}

		v.values[f] = value
		v.log.Debug("field validated",
			zap.String("field", f),
			zap.Bool("present", present),
			zap.Bool("valid", v.errors[f] == nil))
	}

	if !o.IgnoreExtraneous {
		var extra []string
		for k := range input {
			if _, ok := v.rules.specs[k]; !ok {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		for _, k := range extra {
			v.errors[k] = &FieldError{Rules: NewRuleMap(R(CodeExtraneous, true))}
		}
	}
	return len(v.errors) == 0, nil
}

func (v *Validator) resolveDynamic(field string, fn DynamicRules) (RuleSpec, error) {
	switch r := fn(v).(type) {
	case *Validator:
		if r != nil {
			r.parent = v
			return r, nil
		}
	case nil:
	default:
		if _, ok := asDynamic(r); ok {
			break
		}
		if m, err := expandRules(field, r); err == nil {
			return m, nil
		}
	}
	return nil, configErrorf(field, "rules closure must return rule-map or sub-schema")
}

// ValidateValue runs a rule group against a single value using v as the
// context. It returns the (possibly sanitized) value and the failures, nil
// when the value passed.
func (v *Validator) ValidateValue(value, ruleGroup any, opts ...Option) (any, *FieldError, error) {
	rm, err := ExpandRules(ruleGroup)
	if err != nil {
		return value, nil, err
	}
	return v.validateValue("", value, rm, v.opts.apply(opts))
}

// ValidateEach applies a rule group or a sub-schema to every element of value,
// wrapping a scalar as a one-element sequence. Failures are keyed by offset.
func (v *Validator) ValidateEach(value, spec any, opts ...Option) ([]any, map[int]*FieldError, error) {
	if _, ok := spec.(*Validator); !ok {
		rm, err := ExpandRules(spec)
		if err != nil {
			return nil, nil, err
		}
		spec = rm
	}
	return v.validateEach("", value, spec, v.opts.apply(opts))
}

func (v *Validator) validateValue(field string, value any, rm RuleMap, o Options) (any, *FieldError, error) {
	fe := &FieldError{}

	if coerce.IsEmpty(value) {
		required := false
		if p, ok := rm.Get(RuleRequired); ok {
			if c, ok := asConditional(p); ok {
				p = c(v)
			}
			required = coerce.Truthy(p)
		}
		if rm.Has(RuleEach) {
			value = []any{}
		}
		switch {
		case required:
			fe.Rules.Set(RuleRequired, true)
			if o.StopOnError {
				return value, fe, nil
			}
		case o.AllowEmpty:
			return value, nil, nil
		}
	}

	for _, name := range rm.names {
		param := rm.params[name]
		switch name {
		case RuleRequired:
			continue
		case RuleEach:
			items, errs, err := v.validateEach(field, value, param, o)
			if err != nil {
				return value, nil, err
			}
			value = items
			if len(errs) > 0 {
				fe.Items = errs
			}
			continue
		}

		res, recorded, err := v.dispatch(field, name, value, param)
		if err != nil {
			return value, nil, err
		}
		value = res.Value
		if !res.Valid {
			fe.Rules.Set(name, recorded)
			v.log.Debug("rule failed", zap.String("field", field), zap.String("rule", name))
			if o.StopOnError {
				return value, fe, nil
			}
		}
	}

	if fe.Empty() {
		return value, nil, nil
	}
	return value, fe, nil
}

// dispatch resolves a rule in two steps: the registry first, then a Callback
// parameter. It returns the parameter to record on failure.
func (v *Validator) dispatch(field, name string, value, param any) (rules.Result, any, error) {
	if rule, ok := v.registry.Lookup(name); ok {
		if c, ok := asConditional(param); ok {
			param = c(v)
		}
		res, err := rule.Apply(value, param)
		if err != nil {
			return rules.Fail(value), nil, &RuleError{Field: field, Rule: name, Err: err}
		}
		return res, param, nil
	}
	if cb, ok := asCallback(param); ok {
		nv, valid := cb(value, v)
		return rules.Check(nv, valid), true, nil
	}
	return rules.Fail(value), nil, &RuleNotFoundError{Field: field, Rule: name}
}

func (v *Validator) validateEach(field string, value, spec any, o Options) ([]any, map[int]*FieldError, error) {
	items := coerce.ToSlice(value)
	errs := map[int]*FieldError{}

	switch s := spec.(type) {
	case *Validator:
		for i, el := range items {
			s.parent = v
			s.values = map[string]any{}
			ok, err := s.validate(coerce.ToMap(el), o)
			if err != nil {
				return items, nil, err
			}
			items[i] = s.values
			if !ok {
				errs[i] = &FieldError{Fields: s.errors}
			}
		}
	case RuleMap:
		for i, el := range items {
			nv, fe, err := v.validateValue(field, el, s, o)
			if err != nil {
				return items, nil, err
			}
			items[i] = nv
			if fe != nil {
				errs[i] = fe
			}
		}
	default:
		return items, nil, configErrorf(field, "each must hold a rule group or a sub-schema (%T given)", spec)
	}
	return items, errs, nil
}
