package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type opaque struct{}

func valid(t *testing.T, fn Func, v, p any) bool {
	t.Helper()
	res, err := fn(v, p)
	require.NoError(t, err, "%#v / %#v", v, p)
	return res.Valid
}

func TestBool(t *testing.T) {
	cases := []struct {
		in   any
		want any
	}{
		{0, "0"}, {1, "1"}, {true, "1"}, {false, "0"}, {"yes", "1"}, {"off", "0"}, {int64(1), "1"},
	}
	for _, c := range cases {
		res, err := Bool(c.in, true)
		require.NoError(t, err)
		assert.True(t, res.Valid, "%#v", c.in)
		assert.Equal(t, c.want, res.Value, "%#v", c.in)
	}
	for _, in := range []any{"maybe", 2, nil, []any{}, 1.0, 0.0} {
		assert.False(t, valid(t, Bool, in, true), "%#v", in)
	}
}

func TestDate(t *testing.T) {
	assert.True(t, valid(t, Date, "2000-01-01", true))
	assert.False(t, valid(t, Date, "01/01/2001", true))
	assert.False(t, valid(t, Date, []any{}, true))

	assert.True(t, valid(t, Date, "2000-01-01", nil))
	assert.True(t, valid(t, Date, "2014-01-01 00:00:00", nil))
	assert.True(t, valid(t, Date, "01/01/2001", nil))
	assert.False(t, valid(t, Date, "not a date", nil))

	assert.True(t, valid(t, Date, "02/01/2006", "02/01/2006"))
	_, err := Date("2000-01-01", 42)
	assert.Error(t, err)
}

func TestEmail(t *testing.T) {
	assert.True(t, valid(t, Email, "valid@email.com", true))
	assert.False(t, valid(t, Email, "Some random garbage", true))
	assert.False(t, valid(t, Email, []any{}, true))
}

func TestIn(t *testing.T) {
	assert.True(t, valid(t, In, "foo", []any{"foo", "bar"}))
	assert.False(t, valid(t, In, "foobar", []any{"foo", "bar"}))
	assert.True(t, valid(t, In, "1", []any{1, 2}))
	assert.True(t, valid(t, In, 42, []any{4, 2, 42}))
	assert.True(t, valid(t, In, 42, []string{"4", "2", "42"}))
	assert.False(t, valid(t, In, 42, []int{4, 2}))

	obj := &opaque{}
	assert.True(t, valid(t, In, obj, []any{obj}))
	assert.False(t, valid(t, In, obj, []any{"something"}))

	assert.True(t, valid(t, In, []any{"foo", "bar"}, []any{"foo", "bar", "foobar"}))
	assert.False(t, valid(t, In, []any{"foo", "bar"}, []any{"foo"}))

	_, err := In("foo", "foo")
	assert.Error(t, err)
}

func TestInKeys(t *testing.T) {
	assert.True(t, valid(t, InKeys, "foo", map[string]any{"foo": "XX", "bar": "XX"}))
	assert.False(t, valid(t, InKeys, "foobar", map[string]any{"foo": "XX", "bar": "XX"}))
	assert.True(t, valid(t, InKeys, "1", map[int]string{1: "Foo", 2: "Bar"}))
	assert.True(t, valid(t, InKeys, 1, map[int]string{1: "Foo", 2: "Bar"}))
	assert.False(t, valid(t, InKeys, 42, []any{4, 2}))
	assert.False(t, valid(t, InKeys, &opaque{}, map[string]any{"x": 1}))

	assert.True(t, valid(t, InKeys, []any{"foo", "bar"}, map[string]any{"foo": "XX", "bar": "XX", "foobar": "XX"}))
	assert.False(t, valid(t, InKeys, []any{"foo", "bar"}, map[string]any{"foo": "XX"}))
}

func TestIsArray(t *testing.T) {
	assert.True(t, valid(t, IsArray, []any{}, true))
	assert.True(t, valid(t, IsArray, []string{"foobar"}, true))
	assert.True(t, valid(t, IsArray, map[string]any{"a": 1}, true))
	assert.False(t, valid(t, IsArray, "foobar", true))
	assert.False(t, valid(t, IsArray, nil, true))
	assert.False(t, valid(t, IsArray, 42, true))
}

func TestLength(t *testing.T) {
	assert.True(t, valid(t, MaxLength, "1234", 10))
	assert.True(t, valid(t, MaxLength, "1234", 4))
	assert.True(t, valid(t, MaxLength, "é", 1))
	assert.True(t, valid(t, MaxLength, "1234", "10"))
	assert.True(t, valid(t, MaxLength, 1234, 10))
	assert.True(t, valid(t, MaxLength, 1234, "10"))
	assert.False(t, valid(t, MaxLength, "1234", 2))
	for _, v := range []any{[]any{}, nil, false, &opaque{}} {
		assert.False(t, valid(t, MaxLength, v, 2), "%#v", v)
	}

	assert.True(t, valid(t, MinLength, "1234", 2))
	assert.True(t, valid(t, MinLength, "1234", 4))
	assert.False(t, valid(t, MinLength, "é", 2))
	assert.True(t, valid(t, MinLength, 1234, "2"))
	assert.False(t, valid(t, MinLength, "1234", 10))

	for _, length := range []any{[]any{}, &opaque{}, nil, 42.5, "abc"} {
		_, err := MaxLength("something", length)
		assert.Error(t, err, "%#v", length)
		_, err = MinLength("something", length)
		assert.Error(t, err, "%#v", length)
	}
}

func TestRegexp(t *testing.T) {
	re := `/^[0-9a-zA-Z\-]*$/`
	assert.True(t, valid(t, Regexp, "this-is-valid", re))
	assert.True(t, valid(t, Regexp, 42, re))
	assert.False(t, valid(t, Regexp, "This is not!", re))
	for _, v := range []any{[]any{}, false, nil, &opaque{}, 42.5} {
		assert.False(t, valid(t, Regexp, v, re), "%#v", v)
	}
	assert.True(t, valid(t, Regexp, "ABC", "/^[a-z]+$/i"))
	assert.True(t, valid(t, Regexp, "abc", `^[a-z]+$`))

	for _, p := range []any{[]any{}, &opaque{}, nil, 42, 42.5, ""} {
		_, err := Regexp("something", p)
		assert.Error(t, err, "%#v", p)
	}
}

func TestTime(t *testing.T) {
	assert.True(t, valid(t, Time, "14:14", true))
	assert.True(t, valid(t, Time, "00:00", true))
	assert.False(t, valid(t, Time, "25:00", true))
	assert.False(t, valid(t, Time, "00:61", true))
	for _, v := range []any{-1, []any{}, &opaque{}, false, nil, "1430"} {
		assert.False(t, valid(t, Time, v, true), "%#v", v)
	}
}

func TestTrim(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"   trim me   ", "trim me"},
		{"42", "42"},
		{42, "42"},
		{"trim\t\n\r", "trim"},
		{"\t", ""},
	}
	for _, c := range cases {
		res, err := Trim(c.in, true)
		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Equal(t, c.want, res.Value)
	}
	for _, v := range []any{[]any{}, &opaque{}, nil, 42.5} {
		assert.False(t, valid(t, Trim, v, true), "%#v", v)
	}
	res, err := Trim("/path/", "/")
	require.NoError(t, err)
	assert.Equal(t, "path", res.Value)
}

func TestURL(t *testing.T) {
	cases := map[string]bool{
		"www.asdf.com":        false,
		"example.org":         false,
		"/peach.kingdom":      false,
		"x.something.co.uk":   false,
		"http:myname.com":     false,
		"https://www.sdf.org": true,
	}
	for in, want := range cases {
		assert.Equal(t, want, valid(t, URL, in, true), in)
	}
}

func TestNumeric(t *testing.T) {
	for _, v := range []any{42, "42", -42, "-42", 42.5, "42.5"} {
		assert.True(t, valid(t, Numeric, v, true), "%#v", v)
	}
	assert.False(t, valid(t, Numeric, "abc", true))
}

func TestMinMax(t *testing.T) {
	assert.True(t, valid(t, Max, 10, 10))
	assert.False(t, valid(t, Max, 42, 10))
	assert.True(t, valid(t, Min, "12", 10))
	assert.False(t, valid(t, Min, "abc", 10))
	_, err := Max(1, "ten")
	assert.Error(t, err)
}

func TestUUID(t *testing.T) {
	assert.True(t, valid(t, UUID, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", true))
	assert.False(t, valid(t, UUID, "not-a-uuid", true))
	assert.False(t, valid(t, UUID, 42, true))
}
