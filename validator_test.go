package goform_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goform "github.com/reoring/goform"
	"github.com/reoring/goform/rules"
)

func nested(t *testing.T) *goform.Validator {
	t.Helper()
	return goform.MustNew(goform.Fields{
		{Name: "a", Rules: goform.MustNew(goform.Fields{
			{Name: "b", Rules: goform.Group{"required", goform.R("max_length", 255)}},
			{Name: "c", Rules: goform.Group{}},
		})},
		{Name: "e", Rules: goform.Group{"required"}},
	})
}

func TestOptions_GetSet(t *testing.T) {
	v := goform.MustNew(nil)
	assert.Equal(t, goform.DefaultOptions(), v.Options())

	v.SetOptions(goform.IgnoreExtraneous(false), goform.AllowEmpty(false))
	assert.False(t, v.Options().IgnoreExtraneous)
	assert.False(t, v.Options().AllowEmpty)

	v.SetOptions(goform.IgnoreExtraneous(true))
	assert.True(t, v.Options().IgnoreExtraneous)
	assert.False(t, v.Options().AllowEmpty)
}

func TestRules_RoundTrip(t *testing.T) {
	raw := goform.Group{"required", goform.R("min_length", 2)}
	want := goform.MustExpand(raw)

	v := goform.MustNew(nil)
	assert.Equal(t, 0, v.Rules().Len())
	assert.Nil(t, v.RulesAt("unset_field"))

	require.NoError(t, v.SetFieldRules("name", raw))
	got, ok := v.RulesAt("name").(goform.RuleMap)
	require.True(t, ok)
	assert.True(t, want.Equal(got))

	require.NoError(t, v.SetRules(goform.Fields{{Name: "name", Rules: raw}}))
	got = v.RulesAt("name").(goform.RuleMap)
	assert.True(t, want.Equal(got))
}

func TestRules_Nested(t *testing.T) {
	v := nested(t)

	_, ok := v.RulesAt("a").(*goform.Validator)
	assert.True(t, ok)

	b, ok := v.RulesAt("a[b]").(goform.RuleMap)
	require.True(t, ok)
	assert.True(t, b.Has("required"))

	assert.Nil(t, v.RulesAt("a[b][c]"))
	assert.Nil(t, v.RulesAt("a[x]"))
	// rule maps are leaves
	assert.Nil(t, v.RulesAt("a[b][required]"))
}

func TestRules_SetFieldRulesInvalid(t *testing.T) {
	v := goform.MustNew(nil)
	var ce *goform.ConfigurationError
	assert.True(t, errors.As(v.SetFieldRules("", goform.Group{}), &ce))
	assert.True(t, errors.As(v.SetFieldRules("name", goform.Group{""}), &ce))
	assert.True(t, errors.As(v.SetFieldRules("name", 42), &ce))
}

func TestRules_AddRules(t *testing.T) {
	v := goform.MustNew(goform.Fields{{Name: "first_name", Rules: goform.Group{}}})
	require.NoError(t, v.AddRules(goform.Fields{{Name: "last_name", Rules: goform.Group{}}}))
	assert.Equal(t, []string{"first_name", "last_name"}, v.Rules().Names())

	v = goform.MustNew(goform.Fields{{Name: "first_name", Rules: goform.Group{"required"}}})
	require.NoError(t, v.AddRules(goform.Fields{{Name: "first_name", Rules: goform.Group{goform.R("min_length", 2)}}}))
	assert.Equal(t, map[string]any{"required": true, "min_length": 2}, v.RulesAt("first_name").(goform.RuleMap).Map())

	v = goform.MustNew(goform.Fields{{Name: "first_name", Rules: goform.Group{goform.R("min_length", 2)}}})
	require.NoError(t, v.AddRules(goform.Fields{{Name: "first_name", Rules: goform.Group{"required"}}}))
	assert.Equal(t, []string{"min_length", "required"}, v.RulesAt("first_name").(goform.RuleMap).Names())
}

func TestRules_AddRulesSubSchema(t *testing.T) {
	v := goform.MustNew(goform.Fields{
		{Name: "address", Rules: goform.MustNew(goform.Fields{{Name: "street", Rules: goform.Group{"required"}}})},
	})
	require.NoError(t, v.AddRules(goform.Fields{{Name: "first_name", Rules: goform.Group{"required"}}}))
	assert.Equal(t, []string{"address", "first_name"}, v.Rules().Names())

	sub := v.RulesAt("address").(*goform.Validator)
	require.NoError(t, sub.AddRules(goform.Fields{{Name: "postcode", Rules: goform.Group{}}}))
	assert.True(t, v.HasRules("address[street]"))
	assert.NotNil(t, v.RulesAt("address[postcode]"))
	assert.Same(t, v, sub.Parent())
}

func TestRules_RuleValueAndRequired(t *testing.T) {
	v := nested(t)

	p, ok := v.RuleValue("a[b]", "max_length")
	assert.True(t, ok)
	assert.Equal(t, 255, p)
	_, ok = v.RuleValue("a[c]", "max_length")
	assert.False(t, ok)

	assert.False(t, v.IsRequired("a"))
	assert.True(t, v.IsRequired("a[b]"))
	assert.False(t, v.IsRequired("a[c]"))
	assert.True(t, v.IsRequired("e"))
	assert.False(t, v.IsRequired("missing"))
}

func TestRules_RulesAtReturnsCopy(t *testing.T) {
	v := goform.MustNew(goform.Fields{
		{Name: "a", Rules: goform.Group{goform.R("max_length", 3)}},
		{Name: "l", Rules: goform.Group{goform.R("each", goform.Group{goform.R("max_length", 3)})}},
	})

	rm := v.RulesAt("a").(goform.RuleMap)
	rm.Set("required", true)
	rm.Delete("max_length")

	each, ok := v.RuleValue("l", "each")
	require.True(t, ok)
	eachRules := each.(goform.RuleMap)
	eachRules.Set("required", true)

	assert.Equal(t, []string{"max_length"}, v.RulesAt("a").(goform.RuleMap).Names())
	assert.False(t, v.IsRequired("a"))
	ok, err := v.Validate(map[string]any{"l": []any{""}})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, v.HasErrors())
}

func TestRules_HasRules(t *testing.T) {
	v := goform.MustNew(nil)
	assert.False(t, v.HasRules("name"))

	require.NoError(t, v.SetRules(goform.Fields{{Name: "name", Rules: goform.Group{}}}))
	assert.False(t, v.HasRules("name"))

	require.NoError(t, v.SetRules(goform.Fields{{Name: "name", Rules: goform.Group{"required"}}}))
	assert.True(t, v.HasRules("name"))

	n := nested(t)
	assert.True(t, n.HasRules("a[b]"))
	assert.False(t, n.HasRules("a[b][c]"))
}

func TestAccessors_PanicOnMalformedPath(t *testing.T) {
	v := nested(t)
	for _, path := range []string{"", "a[", "a]", "[a]", "a[]", "a[b]c"} {
		assert.PanicsWithError(t, (&goform.ArgumentError{Arg: path, Msg: "malformed field address"}).Error(), func() {
			v.Value(path)
		}, path)
		assert.Panics(t, func() { v.RulesAt(path) }, path)
		assert.Panics(t, func() { v.ErrorsAt(path) }, path)
	}
	assert.Panics(t, func() { v.RuleValue("a", "") })
	assert.Panics(t, func() { v.AddError("a", "", true) })
}

func TestValues_GetSet(t *testing.T) {
	values := map[string]any{"first_name": "John"}

	v := goform.MustNew(nil)
	v.SetValues(values)
	assert.Equal(t, values, v.Values())
	assert.Equal(t, "John", v.Value("first_name"))
	assert.Nil(t, v.Value("last_name"))

	v = goform.MustNew(nil)
	v.SetValue("first_name", "John")
	assert.Equal(t, "John", v.Value("first_name"))

	v.AddValues(map[string]any{"last_name": "Doe"})
	assert.Equal(t, map[string]any{"first_name": "John", "last_name": "Doe"}, v.Values())

	v.SetValue("address[street]", "Main st")
	assert.Equal(t, "Main st", v.Value("address[street]"))
}

func TestValues_Nested(t *testing.T) {
	v := nested(t)
	v.SetValues(map[string]any{
		"a":    map[string]any{"b": "Foobar"},
		"list": []any{"x", "y"},
	})
	assert.Equal(t, map[string]any{"b": "Foobar"}, v.Value("a"))
	assert.Equal(t, "Foobar", v.Value("a[b]"))
	assert.Nil(t, v.Value("a[b][c]"))
	assert.Equal(t, "y", v.Value("list[1]"))
	assert.Nil(t, v.Value("list[5]"))
}

func TestValues_WithValuesSetting(t *testing.T) {
	defaults := map[string]any{"id": 1}
	v := goform.MustNew(goform.Fields{{Name: "id", Rules: goform.Group{"required"}}}, goform.WithValues(defaults))
	defaults["id"] = 2
	assert.Equal(t, 1, v.Value("id"))
}

func TestErrors_GetSet(t *testing.T) {
	v := goform.MustNew(nil)
	assert.Empty(t, v.Errors())
	assert.Nil(t, v.ErrorsAt("some_field"))
	assert.False(t, v.HasErrors())
	assert.False(t, v.HasErrorsAt("first_name"))

	errs := goform.ErrorTree{"first_name": {Rules: goform.NewRuleMap(goform.R("required", true))}}
	v.SetErrors(errs)
	assert.Equal(t, errs, v.Errors())
	assert.Equal(t, errs["first_name"], v.ErrorsAt("first_name"))
	assert.True(t, v.HasErrors())
	assert.True(t, v.HasErrorsAt("first_name"))
}

func TestErrors_AddError(t *testing.T) {
	v := goform.MustNew(nil)
	v.AddError("email", "taken", true)
	v.AddError("list[2]", "max", 10)
	v.AddError("address[street]", "required", true)

	assert.True(t, v.ErrorsAt("email").Failed("taken"))
	assert.True(t, v.ErrorsAt("list[2]").Failed("max"))
	assert.True(t, v.ErrorsAt("address[street]").Failed("required"))
	assert.Error(t, v.Err())
}

func TestErrors_Nested(t *testing.T) {
	v := goform.MustNew(goform.Fields{
		{Name: "a", Rules: goform.MustNew(goform.Fields{{Name: "b", Rules: goform.Group{"required"}}})},
	})
	ok, err := v.Validate(nil)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, v.HasErrorsAt("a"))
	assert.True(t, v.HasErrorsAt("a[b]"))
	assert.True(t, v.ErrorsAt("a[b]").Failed("required"))
	// failed rules are leaves
	assert.False(t, v.HasErrorsAt("a[b][required]"))
}

func TestErrors_NestedEach(t *testing.T) {
	v := goform.MustNew(goform.Fields{
		{Name: "list", Rules: goform.Group{goform.R("each", goform.Group{goform.R("max", 10)})}},
	})
	ok, err := v.Validate(map[string]any{"list": []any{1, 2, 42}})
	require.NoError(t, err)
	assert.False(t, ok)

	fe := v.ErrorsAt("list")
	require.NotNil(t, fe)
	assert.Len(t, fe.Items, 1)
	assert.Equal(t, map[string]any{"max": 10}, v.ErrorsAt("list[2]").Rules.Map())
	assert.Nil(t, v.ErrorsAt("list[0]"))
}

func TestNew_RegistryIsolation(t *testing.T) {
	reg := rules.NewRegistry()
	reg.MustRegister("even", rules.Func(func(v, _ any) (rules.Result, error) {
		n, _ := v.(int)
		return rules.Check(v, n%2 == 0), nil
	}))
	v := goform.MustNew(goform.Fields{{Name: "n", Rules: goform.Group{"even"}}}, goform.WithRegistry(reg))
	ok, err := v.Validate(map[string]any{"n": 3})
	require.NoError(t, err)
	assert.False(t, ok)

	other := goform.MustNew(goform.Fields{{Name: "n", Rules: goform.Group{"even"}}})
	_, err = other.Validate(map[string]any{"n": 3})
	var nf *goform.RuleNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "even", nf.Rule)
	assert.Equal(t, "n", nf.Field)
}
