package goform

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes that are not rule names.
const (
	CodeRequired   = "required"
	CodeExtraneous = "extraneous"
)

// ConfigurationError reports a malformed schema: an empty field or rule name,
// a rule group of an unsupported shape, or dynamic rules returning something
// other than a rule map or a sub-schema.
type ConfigurationError struct {
	Field string
	Msg   string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "goform: " + e.Msg
	}
	return fmt.Sprintf("goform: field %s: %s", e.Field, e.Msg)
}

// RuleNotFoundError reports a rule name that is neither registered nor backed
// by a callable parameter.
type RuleNotFoundError struct {
	Field string
	Rule  string
}

func (e *RuleNotFoundError) Error() string {
	return fmt.Sprintf("goform: validator %s not found (field %s)", e.Rule, e.Field)
}

// ArgumentError reports a malformed field address or rule name passed to an
// accessor. Accessors panic with it, the same way misuse of a selector does.
type ArgumentError struct {
	Arg string
	Msg string
	Err error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("goform: invalid argument %q: %s", e.Arg, e.Msg)
}

func (e *ArgumentError) Unwrap() error { return e.Err }

// RuleError wraps an error returned by a rule (a malformed parameter).
type RuleError struct {
	Field string
	Rule  string
	Err   error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("goform: field %s: rule %s: %v", e.Field, e.Rule, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }

func configErrorf(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// Issue is one flattened validation failure.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // Rule name, CodeRequired or CodeExtraneous.
	Message string
	// Params carries the failed rule parameter under "param".
	Params map[string]any
	// Rule records the rule name that produced this issue.
	Rule string
}

// Issues is a collection of validation failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. max_length at /list/1
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
