package goform_test

import (
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goform "github.com/reoring/goform"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := goform.Issues{
		{Path: "/a", Code: goform.CodeRequired},
		{Path: "/b", Code: goform.CodeExtraneous},
		{Path: "/c", Code: "min_length"},
		{Path: "/d", Code: "max_length"},
	}
	assert.Equal(t, "required at /a; extraneous at /b; min_length at /c; ... (total 4)", iss.Error())
	assert.Equal(t, "", goform.Issues(nil).Error())
}

func listAndSubform(t *testing.T) *goform.Validator {
	t.Helper()
	v := goform.MustNew(goform.Fields{
		{Name: "list", Rules: goform.Group{goform.R("each", goform.Group{goform.R("max_length", 4)})}},
		{Name: "subform", Rules: goform.MustNew(goform.Fields{
			{Name: "first_name", Rules: goform.Group{"required"}},
			{Name: "last_name", Rules: goform.Group{"required"}},
		})},
	})
	ok, err := v.Validate(map[string]any{
		"list":    []any{"a", "bbbbb", "c"},
		"subform": map[string]any{"first_name": "John"},
	})
	require.NoError(t, err)
	require.False(t, ok)
	return v
}

func TestErrorTree_MarshalJSON(t *testing.T) {
	v := listAndSubform(t)
	b, err := json.Marshal(v.Errors())
	require.NoError(t, err)
	assert.JSONEq(t, `{"list":{"1":{"max_length":4}},"subform":{"last_name":{"required":true}}}`, string(b))
	assert.Equal(t, []any{"a", "bbbbb", "c"}, v.Value("list"))
}

func TestFieldError_MarshalKeepsRuleOrder(t *testing.T) {
	fe := &goform.FieldError{Rules: goform.NewRuleMap(goform.R("min_length", 5), goform.R("numeric", true))}
	b, err := json.Marshal(fe)
	require.NoError(t, err)
	assert.Equal(t, `{"min_length":5,"numeric":true}`, string(b))
}

func TestErrorTree_Issues(t *testing.T) {
	v := listAndSubform(t)
	iss := v.Errors().Issues()
	require.Len(t, iss, 2)

	assert.Equal(t, "/list/1", iss[0].Path)
	assert.Equal(t, "max_length", iss[0].Code)
	assert.Equal(t, "max_length", iss[0].Rule)
	assert.Equal(t, 4, iss[0].Params["param"])
	assert.Equal(t, "must be at most 4 characters", iss[0].Message)

	assert.Equal(t, "/subform/last_name", iss[1].Path)
	assert.Equal(t, goform.CodeRequired, iss[1].Code)
}

func TestValidator_ErrAsIssues(t *testing.T) {
	v := listAndSubform(t)
	err := v.Err()
	require.Error(t, err)

	iss, ok := goform.AsIssues(err)
	require.True(t, ok)
	assert.Len(t, iss, 2)

	var target goform.Issues
	assert.True(t, errors.As(err, &target))
}

func TestPathRef_Escaping(t *testing.T) {
	p := goform.RootRef().Field("a/b").Field("c~d").Index(3)
	assert.Equal(t, "/a~1b/c~0d/3", p.Pointer())
	assert.Equal(t, "/", goform.RootRef().Pointer())

	is := p.Issue("min", "too small", "param", 1)
	assert.Equal(t, "min", is.Rule)
	assert.Equal(t, 1, is.Params["param"])
}
