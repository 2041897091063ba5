package rules

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jinzhu/now"

	"github.com/reoring/goform/internal/coerce"
)

// DefaultDateLayout is the layout used by the date rule when its parameter is true.
const DefaultDateLayout = "2006-01-02"

const _defaultCutset = " \t\n\r\x00\x0B"

var _playground = validator.New()

func builtins() map[string]Func {
	return map[string]Func{
		"bool":       Bool,
		"date":       Date,
		"email":      Email,
		"in":         In,
		"in_keys":    InKeys,
		"is_array":   IsArray,
		"is_string":  IsString,
		"max":        Max,
		"max_length": MaxLength,
		"min":        Min,
		"min_length": MinLength,
		"numeric":    Numeric,
		"regexp":     Regexp,
		"time":       Time,
		"trim":       Trim,
		"url":        URL,
		"uuid":       UUID,
	}
}

// Bool accepts the usual spellings of a boolean and normalises the value to
// the string "1" or "0".
func Bool(v, _ any) (Result, error) {
	switch t := v.(type) {
	case bool:
		if t {
			return Pass("1"), nil
		}
		return Pass("0"), nil
	case string:
		switch t {
		case "true", "t", "yes", "y", "on", "1":
			return Pass("1"), nil
		case "false", "f", "no", "n", "off", "0":
			return Pass("0"), nil
		}
		return Fail(v), nil
	}
	if coerce.IsInteger(v) {
		n, _ := coerce.ToInt(v)
		switch n {
		case 1:
			return Pass("1"), nil
		case 0:
			return Pass("0"), nil
		}
	}
	return Fail(v), nil
}

// Date checks that v is a date string. A string param is a Go time layout,
// true means DefaultDateLayout and nil accepts any format now.Parse understands.
func Date(v, param any) (Result, error) {
	s, ok := v.(string)
	if !ok {
		return Fail(v), nil
	}
	var layout string
	switch p := param.(type) {
	case nil:
		_, err := now.Parse(s)
		return Check(v, err == nil), nil
	case bool:
		if !p {
			_, err := now.Parse(s)
			return Check(v, err == nil), nil
		}
		layout = DefaultDateLayout
	case string:
		if p == "" {
			return Result{}, &ParamError{Rule: "date", Param: param, Msg: "layout cannot be empty"}
		}
		layout = p
	default:
		return Result{}, &ParamError{Rule: "date", Param: param, Msg: "layout must be a string"}
	}
	_, err := time.Parse(layout, s)
	return Check(v, err == nil), nil
}

// Email checks that v is a valid email address.
func Email(v, _ any) (Result, error) {
	s, ok := v.(string)
	if !ok {
		return Fail(v), nil
	}
	return Check(v, _playground.Var(s, "email") == nil), nil
}

// URL checks that v is an absolute URL with a host.
func URL(v, _ any) (Result, error) {
	s, ok := v.(string)
	if !ok {
		return Fail(v), nil
	}
	if _playground.Var(s, "url") != nil {
		return Fail(v), nil
	}
	u, err := url.Parse(s)
	return Check(v, err == nil && u.Host != ""), nil
}

// UUID checks that v is a UUID string in any of the forms uuid.Parse accepts.
func UUID(v, _ any) (Result, error) {
	s, ok := v.(string)
	if !ok {
		return Fail(v), nil
	}
	_, err := uuid.Parse(s)
	return Check(v, err == nil), nil
}

// IsArray checks that v is a sequence or a string-keyed map.
func IsArray(v, _ any) (Result, error) {
	return Check(v, coerce.IsSequence(v) || coerce.IsObject(v)), nil
}

// IsString checks that v is a string.
func IsString(v, _ any) (Result, error) {
	_, ok := v.(string)
	return Check(v, ok), nil
}

// Numeric checks that v is a number or a numeric string.
func Numeric(v, _ any) (Result, error) {
	return Check(v, coerce.IsNumeric(v)), nil
}

// In checks that v (or every element of v) loosely equals one of param's elements.
func In(v, param any) (Result, error) {
	if !coerce.IsSequence(param) {
		return Result{}, &ParamError{Rule: "in", Param: param, Msg: "allowed values must be a list"}
	}
	allowed := coerce.ToSlice(param)
	contains := func(x any) bool {
		for _, a := range allowed {
			if coerce.LooseEqual(x, a) {
				return true
			}
		}
		return false
	}
	if coerce.IsSequence(v) {
		for _, x := range coerce.ToSlice(v) {
			if !contains(x) {
				return Fail(v), nil
			}
		}
		return Pass(v), nil
	}
	return Check(v, contains(v)), nil
}

// InKeys checks that v (or every element of v) is a key of the map param.
func InKeys(v, param any) (Result, error) {
	rp := reflect.ValueOf(param)
	keys := map[string]struct{}{}
	switch rp.Kind() {
	case reflect.Map:
		for _, k := range rp.MapKeys() {
			keys[fmt.Sprint(k.Interface())] = struct{}{}
		}
	case reflect.Slice, reflect.Array:
		// a list is keyed by its offsets
		for i := 0; i < rp.Len(); i++ {
			keys[fmt.Sprint(i)] = struct{}{}
		}
	default:
		return Result{}, &ParamError{Rule: "in_keys", Param: param, Msg: "allowed keys must be a map"}
	}
	isKey := func(x any) bool {
		if _, ok := x.(string); !ok && !coerce.IsInteger(x) {
			return false
		}
		_, ok := keys[fmt.Sprint(x)]
		return ok
	}
	if coerce.IsSequence(v) {
		for _, x := range coerce.ToSlice(v) {
			if !isKey(x) {
				return Fail(v), nil
			}
		}
		return Pass(v), nil
	}
	return Check(v, isKey(v)), nil
}

// MaxLength checks that the string (or integer) v has at most param characters.
func MaxLength(v, param any) (Result, error) {
	return lengthRule("max_length", v, param, func(n, limit int) bool { return n <= limit })
}

// MinLength checks that the string (or integer) v has at least param characters.
func MinLength(v, param any) (Result, error) {
	return lengthRule("min_length", v, param, func(n, limit int) bool { return n >= limit })
}

func lengthRule(name string, v, param any, ok func(n, limit int) bool) (Result, error) {
	limit, isInt := coerce.ToInt(param)
	if !isInt {
		return Result{}, &ParamError{Rule: name, Param: param, Msg: "the length must be an integer"}
	}
	var s string
	switch {
	case coerce.IsInteger(v):
		s = fmt.Sprint(v)
	default:
		str, isStr := v.(string)
		if !isStr {
			return Fail(v), nil
		}
		s = str
	}
	return Check(v, ok(utf8.RuneCountInString(s), limit)), nil
}

// Max checks that the numeric value v is at most param.
func Max(v, param any) (Result, error) {
	return compareRule("max", v, param, func(a, b float64) bool { return a <= b })
}

// Min checks that the numeric value v is at least param.
func Min(v, param any) (Result, error) {
	return compareRule("min", v, param, func(a, b float64) bool { return a >= b })
}

func compareRule(name string, v, param any, ok func(a, b float64) bool) (Result, error) {
	bound, isNum := coerce.ToFloat(param)
	if !isNum {
		return Result{}, &ParamError{Rule: name, Param: param, Msg: "the bound must be numeric"}
	}
	f, isNum := coerce.ToFloat(v)
	if !isNum {
		return Fail(v), nil
	}
	return Check(v, ok(f, bound)), nil
}

var _patterns sync.Map // string -> *regexp.Regexp

// Regexp matches v against param. param is Go regexp syntax, optionally
// wrapped in delimiters with trailing flags ("/^[a-z]+$/i").
func Regexp(v, param any) (Result, error) {
	p, ok := param.(string)
	if !ok {
		return Result{}, &ParamError{Rule: "regexp", Param: param, Msg: "the regular expression must be a string"}
	}
	if p == "" {
		return Result{}, &ParamError{Rule: "regexp", Param: param, Msg: "the regular expression cannot be empty"}
	}
	re, err := compilePattern(p)
	if err != nil {
		return Result{}, &ParamError{Rule: "regexp", Param: param, Msg: err.Error()}
	}
	var s string
	switch {
	case coerce.IsInteger(v):
		s = fmt.Sprint(v)
	default:
		str, isStr := v.(string)
		if !isStr {
			return Fail(v), nil
		}
		s = str
	}
	return Check(v, re.MatchString(s)), nil
}

func compilePattern(p string) (*regexp.Regexp, error) {
	if re, ok := _patterns.Load(p); ok {
		return re.(*regexp.Regexp), nil
	}
	expr := p
	if len(p) >= 2 && p[0] == '/' {
		if end := strings.LastIndexByte(p, '/'); end > 0 {
			body, flags := p[1:end], p[end+1:]
			for _, f := range flags {
				if !strings.ContainsRune("imsU", f) {
					return nil, fmt.Errorf("unsupported flag %q", f)
				}
			}
			if flags != "" {
				body = "(?" + flags + ")" + body
			}
			expr = body
		}
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	_patterns.Store(p, re)
	return re, nil
}

// Time checks the HH:MM format.
func Time(v, _ any) (Result, error) {
	s, ok := v.(string)
	if !ok || len(s) < 4 || s[2] != ':' {
		return Fail(v), nil
	}
	m := s[3:]
	if len(m) > 2 {
		m = m[:2]
	}
	h, okH := coerce.ToFloat(s[:2])
	mm, okM := coerce.ToFloat(m)
	return Check(v, okH && okM && h >= 0 && h < 24 && mm >= 0 && mm < 60), nil
}

// Trim strips characters from both ends of a string (or integer) value. A
// true param trims whitespace and NUL; a string param is the cutset.
func Trim(v, param any) (Result, error) {
	cutset := _defaultCutset
	switch p := param.(type) {
	case bool, nil:
	case string:
		cutset = p
	default:
		return Result{}, &ParamError{Rule: "trim", Param: param, Msg: "the character mask must be a string"}
	}
	var s string
	switch {
	case coerce.IsInteger(v):
		s = fmt.Sprint(v)
	default:
		str, isStr := v.(string)
		if !isStr {
			return Fail(v), nil
		}
		s = str
	}
	return Pass(strings.Trim(s, cutset)), nil
}
