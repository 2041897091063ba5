// Package goform validates nested key/value data, such as submitted form
// data, against an ordered tree of rules.
//
// A schema maps field names to rule groups, sub-schemas or dynamic rules:
//
//	v := goform.MustNew(goform.Fields{
//		{Name: "email", Rules: goform.Group{"required", "email"}},
//		{Name: "tags", Rules: goform.Group{goform.R("each", goform.Group{goform.R("max_length", 20)})}},
//		{Name: "address", Rules: goform.MustNew(goform.Fields{
//			{Name: "street", Rules: goform.Group{"required"}},
//		})},
//	})
//
//	ok, err := v.Validate(input)
//	// err: broken schema; ok == false: see v.Errors() or v.Err()
//
// Validation yields a bool, a sparse ErrorTree holding only failed fields and
// a value tree (Values) repopulated with the submitted, possibly sanitized,
// values so an invalid submission can be re-rendered.
//
// Design policy:
//   - Rules are looked up by name in an injected rules.Registry; a rule that
//     is not registered falls back to a Callback parameter.
//   - Field order is validation order. Callbacks that read sibling values see
//     the values of fields validated earlier in the same pass.
//   - Schema errors are returned as typed errors; invalid input never is.
package goform
