// Package rules is the registry of named rule predicates used by goform.
//
// A rule receives the value under validation and its parameter and answers
// with a Result. Rules may rewrite the value (trim, bool normalisation) and
// thereby act as sanitizers; the engine stores Result.Value back into the
// value tree. Errors are reserved for programmer mistakes such as a malformed
// parameter and abort validation.
package rules

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Result is the outcome of a rule: the (possibly sanitized) value and whether
// it is valid.
type Result struct {
	Value any
	Valid bool
}

// Pass reports v as valid.
func Pass(v any) Result { return Result{Value: v, Valid: true} }

// Fail reports v as invalid.
func Fail(v any) Result { return Result{Value: v} }

// Check wraps a plain predicate result without touching the value.
func Check(v any, ok bool) Result { return Result{Value: v, Valid: ok} }

// Rule is a named predicate. param is the parameter declared in the schema;
// true stands for "use the rule's default parameter".
type Rule interface {
	Apply(value, param any) (Result, error)
}

// Func adapts an ordinary function to Rule.
type Func func(value, param any) (Result, error)

// Apply calls f(value, param).
func (f Func) Apply(value, param any) (Result, error) { return f(value, param) }

// ParamError reports a malformed rule parameter.
type ParamError struct {
	Rule  string
	Param any
	Msg   string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("rule %s: %s (got %#v)", e.Rule, e.Msg, e.Param)
}

// ErrDuplicate is returned by Register when a name is already taken.
var ErrDuplicate = errors.New("rules: rule already registered")

// Registry maps rule names to rules. Registries are independent values: two
// validators can carry different rule sets side by side.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: map[string]Rule{}}
}

// Default returns a new registry holding the built-in rules.
func Default() *Registry {
	r := NewRegistry()
	for name, fn := range builtins() {
		r.rules[name] = fn
	}
	return r
}

// Register adds a rule under name. It fails with ErrDuplicate if the name is
// taken; use Replace to override a rule.
func (r *Registry) Register(name string, rule Rule) error {
	if name == "" {
		return errors.New("rules: rule name cannot be empty")
	}
	if rule == nil {
		return fmt.Errorf("rules: nil rule for %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rules[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	r.rules[name] = rule
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, rule Rule) {
	if err := r.Register(name, rule); err != nil {
		panic(err)
	}
}

// Replace adds or overrides the rule under name.
func (r *Registry) Replace(name string, rule Rule) {
	r.mu.Lock()
	r.rules[name] = rule
	r.mu.Unlock()
}

// Lookup returns the rule registered under name.
func (r *Registry) Lookup(name string) (Rule, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	rule, ok := r.rules[name]
	r.mu.RUnlock()
	return rule, ok
}

// Names lists the registered rule names in ascending order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.rules))
	for k := range r.rules {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of r.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := NewRegistry()
	for k, v := range r.rules {
		c.rules[k] = v
	}
	return c
}
