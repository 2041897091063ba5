package goform

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/reoring/goform/i18n"
)

// ErrorTree maps a field name to its failures. It only holds fields that
// failed.
type ErrorTree map[string]*FieldError

// FieldError holds the failures of one field.
type FieldError struct {
	// Rules maps each failed rule to the parameter it was applied with.
	Rules RuleMap
	// Items holds per-element failures of an each rule, keyed by offset.
	Items map[int]*FieldError
	// Fields holds the failures of a sub-schema.
	Fields ErrorTree
}

// Empty reports whether nothing failed.
func (e *FieldError) Empty() bool {
	return e == nil || (e.Rules.Len() == 0 && len(e.Items) == 0 && len(e.Fields) == 0)
}

// Failed reports whether rule is among the failed rules.
func (e *FieldError) Failed(rule string) bool { return e != nil && e.Rules.Has(rule) }

func (t ErrorTree) child(name string) *FieldError {
	fe := t[name]
	if fe == nil {
		fe = &FieldError{}
		t[name] = fe
	}
	return fe
}

func (t ErrorTree) sortedNames() []string {
	names := make([]string, 0, len(t))
	for k := range t {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (e *FieldError) sortedOffsets() []int {
	offs := make([]int, 0, len(e.Items))
	for i := range e.Items {
		offs = append(offs, i)
	}
	sort.Ints(offs)
	return offs
}

// Issues flattens the tree: fields in name order, rules in rule order and
// offsets ascending.
func (t ErrorTree) Issues() Issues {
	var out Issues
	t.collect(RootRef(), &out)
	return out
}

func (t ErrorTree) collect(p PathRef, out *Issues) {
	for _, n := range t.sortedNames() {
		t[n].collect(p.Field(n), out)
	}
}

func (e *FieldError) collect(p PathRef, out *Issues) {
	if e == nil {
		return
	}
	for _, name := range e.Rules.names {
		param := e.Rules.params[name]
		msg := i18n.T(name, map[string]string{"param": fmt.Sprint(param)})
		*out = append(*out, p.Issue(name, msg, "param", param))
	}
	for _, i := range e.sortedOffsets() {
		e.Items[i].collect(p.Index(i), out)
	}
	e.Fields.collect(p, out)
}

// MarshalJSON encodes the tree as nested objects keyed by field name.
func (t ErrorTree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, n := range t.sortedNames() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, n, t[n]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes failed rules, then offsets, then sub-schema fields, as
// members of a single object: {"max_length":4}, {"1":{"max_length":4}}.
func (e *FieldError) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	sep := func() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
	}
	for _, name := range e.Rules.names {
		sep()
		if err := writeMember(&buf, name, e.Rules.params[name]); err != nil {
			return nil, err
		}
	}
	for _, i := range e.sortedOffsets() {
		sep()
		if err := writeMember(&buf, strconv.Itoa(i), e.Items[i]); err != nil {
			return nil, err
		}
	}
	for _, n := range e.Fields.sortedNames() {
		sep()
		if err := writeMember(&buf, n, e.Fields[n]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, v any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	val, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("goform: encode %q: %w", key, err)
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(val)
	return nil
}
