package goform

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/reoring/goform/internal/coerce"
	"github.com/reoring/goform/internal/fieldpath"
	"github.com/reoring/goform/rules"
)

// Validator holds a schema (RuleTree), the values of the last validation pass
// and the errors it produced. A Validator is also the context handed to
// dynamic rules, conditional parameters and callbacks, and it can be nested in
// another schema as a sub-schema.
//
// A Validator is not safe for concurrent use: Validate mutates its values and
// errors in place.
type Validator struct {
	rules    *RuleTree
	values   map[string]any
	errors   ErrorTree
	opts     Options
	registry *rules.Registry
	parent   *Validator
	log      *zap.Logger
}

// Setting configures a Validator at construction time.
type Setting func(*Validator)

// WithRegistry sets the rule registry. By default every Validator gets its
// own rules.Default().
func WithRegistry(r *rules.Registry) Setting { return func(v *Validator) { v.registry = r } }

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *zap.Logger) Setting {
	return func(v *Validator) {
		if l != nil {
			v.log = l
		}
	}
}

// WithValues seeds the value tree with default values.
func WithValues(values map[string]any) Setting {
	return func(v *Validator) { v.values = coerce.CopyMap(values) }
}

// WithOptions overrides the stored default options.
func WithOptions(opts ...Option) Setting {
	return func(v *Validator) { v.opts = v.opts.apply(opts) }
}

// New builds a Validator from a raw schema (Fields or map[string]any).
func New(fields any, settings ...Setting) (*Validator, error) {
	v := &Validator{
		rules:  &RuleTree{},
		values: map[string]any{},
		errors: ErrorTree{},
		opts:   DefaultOptions(),
		log:    zap.NewNop(),
	}
	for _, s := range settings {
		if s != nil {
			s(v)
		}
	}
	if v.registry == nil {
		v.registry = rules.Default()
	}
	if err := v.SetRules(fields); err != nil {
		return nil, err
	}
	return v, nil
}

// MustNew is like New but panics on error.
func MustNew(fields any, settings ...Setting) *Validator {
	v, err := New(fields, settings...)
	if err != nil {
		panic(err)
	}
	return v
}

// Parent returns the Validator this one is nested in, or nil.
func (v *Validator) Parent() *Validator { return v.parent }

// Registry returns the rule registry used for dispatch.
func (v *Validator) Registry() *rules.Registry { return v.registry }

// Options returns the stored default options.
func (v *Validator) Options() Options { return v.opts }

// SetOptions overrides stored default options; unset options keep their value.
func (v *Validator) SetOptions(opts ...Option) { v.opts = v.opts.apply(opts) }

// ---- rules ----

// SetRules replaces the whole schema.
func (v *Validator) SetRules(fields any) error {
	t, err := ParseRules(fields)
	if err != nil {
		return err
	}
	v.rules = t
	v.adopt(t)
	return nil
}

// SetFieldRules replaces the rules of one field.
func (v *Validator) SetFieldRules(name string, raw any) error {
	spec, err := parseFieldRules(name, raw)
	if err != nil {
		return err
	}
	v.rules.set(name, spec)
	if sub, ok := spec.(*Validator); ok {
		sub.parent = v
	}
	return nil
}

// AddRules merges a raw schema into the current one. Rule maps of a field
// present in both are merged rule by rule; other specs are replaced.
func (v *Validator) AddRules(fields any) error {
	t, err := ParseRules(fields)
	if err != nil {
		return err
	}
	v.rules.merge(t)
	v.adopt(t)
	return nil
}

func (v *Validator) adopt(t *RuleTree) {
	for _, n := range t.names {
		if sub, ok := t.specs[n].(*Validator); ok {
			sub.parent = v
		}
	}
}

// Rules returns the normalized schema.
func (v *Validator) Rules() *RuleTree { return v.rules }

// RulesAt returns the spec addressed by path ("a", "a[b]"), descending into
// sub-schemas. It returns nil when any segment is absent. Paths stop at rule
// maps: "a[b][required]" is nil.
func (v *Validator) RulesAt(path string) RuleSpec {
	_, spec := v.lookupRules(mustSplit(path))
	return spec
}

// HasRules reports whether path has a non-empty spec.
func (v *Validator) HasRules(path string) bool {
	switch s := v.RulesAt(path).(type) {
	case RuleMap:
		return s.Len() > 0
	case nil:
		return false
	}
	return true
}

// RuleValue returns the parameter of rule for the field at path.
func (v *Validator) RuleValue(path, rule string) (any, bool) {
	segs := mustSplit(path)
	if rule == "" {
		panic(&ArgumentError{Arg: rule, Msg: "rule name cannot be empty"})
	}
	_, spec := v.lookupRules(segs)
	rm, ok := spec.(RuleMap)
	if !ok {
		return nil, false
	}
	return rm.Get(rule)
}

// IsRequired reports whether the field at path is required. A conditional
// required flag is evaluated against the Validator that owns the field.
func (v *Validator) IsRequired(path string) bool {
	owner, spec := v.lookupRules(mustSplit(path))
	rm, ok := spec.(RuleMap)
	if !ok {
		return false
	}
	p, ok := rm.Get(RuleRequired)
	if !ok {
		return false
	}
	if c, ok := asConditional(p); ok {
		p = c(owner)
	}
	return coerce.Truthy(p)
}

func (v *Validator) lookupRules(segs []string) (*Validator, RuleSpec) {
	spec, ok := v.rules.Get(segs[0])
	if !ok {
		return v, nil
	}
	if dyn, ok := spec.(DynamicRules); ok && len(segs) > 1 {
		resolved, err := v.resolveDynamic(segs[0], dyn)
		if err != nil {
			return v, nil
		}
		spec = resolved
	}
	if len(segs) == 1 {
		return v, spec
	}
	if sub, ok := spec.(*Validator); ok {
		return sub.lookupRules(segs[1:])
	}
	return v, nil
}

// ---- values ----

// Values returns a shallow copy of the value tree.
func (v *Validator) Values() map[string]any { return coerce.CopyMap(v.values) }

// Value returns the value at path, indexing nested maps by key and sequences
// by offset. It returns nil when any segment is absent.
func (v *Validator) Value(path string) any {
	segs := mustSplit(path)
	cur, ok := v.values[segs[0]]
	if !ok {
		return nil
	}
	for _, s := range segs[1:] {
		switch {
		case coerce.IsObject(cur):
			m := coerce.ToMap(cur)
			if cur, ok = m[s]; !ok {
				return nil
			}
		case coerce.IsSequence(cur):
			i, err := strconv.Atoi(s)
			items := coerce.ToSlice(cur)
			if err != nil || i < 0 || i >= len(items) {
				return nil
			}
			cur = items[i]
		default:
			return nil
		}
	}
	return cur
}

// SetValues replaces the value tree. Values are not validated.
func (v *Validator) SetValues(values map[string]any) { v.values = coerce.CopyMap(values) }

// AddValues merges values into the value tree, top-level keys only.
func (v *Validator) AddValues(values map[string]any) {
	if v.values == nil {
		v.values = map[string]any{}
	}
	for k, val := range values {
		v.values[k] = val
	}
}

// SetValue stores value at path, creating intermediate maps as needed. Maps
// along the path are copied before the write.
func (v *Validator) SetValue(path string, value any) {
	segs := mustSplit(path)
	if v.values == nil {
		v.values = map[string]any{}
	}
	m := v.values
	for _, s := range segs[:len(segs)-1] {
		// nested maps may still be shared with the caller's input
		next := coerce.ToMap(m[s])
		m[s] = next
		m = next
	}
	m[segs[len(segs)-1]] = value
}

// ---- errors ----

// Errors returns the error tree of the last validation pass.
func (v *Validator) Errors() ErrorTree { return v.errors }

// HasErrors reports whether the last validation pass recorded any failure.
func (v *Validator) HasErrors() bool { return len(v.errors) > 0 }

// ErrorsAt returns the failures at path: "list[2]" addresses an each offset,
// "address[street]" a sub-schema field. It returns nil when nothing failed.
func (v *Validator) ErrorsAt(path string) *FieldError {
	segs := mustSplit(path)
	fe := v.errors[segs[0]]
	for _, s := range segs[1:] {
		if fe == nil {
			return nil
		}
		if i, err := strconv.Atoi(s); err == nil && fe.Items != nil {
			fe = fe.Items[i]
			continue
		}
		fe = fe.Fields[s]
	}
	return fe
}

// HasErrorsAt reports whether anything failed at path.
func (v *Validator) HasErrorsAt(path string) bool {
	fe := v.ErrorsAt(path)
	return fe != nil && !fe.Empty()
}

// SetErrors replaces the error tree.
func (v *Validator) SetErrors(errs ErrorTree) {
	if errs == nil {
		errs = ErrorTree{}
	}
	v.errors = errs
}

// AddError records rule as failed with param at path.
func (v *Validator) AddError(path, rule string, param any) {
	segs := mustSplit(path)
	if rule == "" {
		panic(&ArgumentError{Arg: rule, Msg: "rule name cannot be empty"})
	}
	if v.errors == nil {
		v.errors = ErrorTree{}
	}
	fe := v.errors.child(segs[0])
	for _, s := range segs[1:] {
		if i, err := strconv.Atoi(s); err == nil {
			if fe.Items == nil {
				fe.Items = map[int]*FieldError{}
			}
			next := fe.Items[i]
			if next == nil {
				next = &FieldError{}
				fe.Items[i] = next
			}
			fe = next
			continue
		}
		if fe.Fields == nil {
			fe.Fields = ErrorTree{}
		}
		fe = fe.Fields.child(s)
	}
	fe.Rules.Set(rule, param)
}

// Err returns the failures of the last validation pass as Issues, or nil.
func (v *Validator) Err() error {
	if len(v.errors) == 0 {
		return nil
	}
	return v.errors.Issues()
}

func mustSplit(path string) []string {
	segs, err := fieldpath.Split(path)
	if err != nil {
		panic(&ArgumentError{Arg: path, Msg: "malformed field address", Err: err})
	}
	return segs
}
