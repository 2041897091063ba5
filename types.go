package goform

// Options controls one validation pass.
type Options struct {
	UseDefault       bool // Fall back to the stored value when the input omits a field.
	StopOnError      bool // Abort a field's rule chain at its first failing rule.
	AllowEmpty       bool // Skip every rule of an empty, non-required field.
	IgnoreExtraneous bool // Do not report input keys that have no rules.
}

// DefaultOptions returns the options a new Validator starts with.
func DefaultOptions() Options {
	return Options{
		UseDefault:       true,
		StopOnError:      true,
		AllowEmpty:       true,
		IgnoreExtraneous: true,
	}
}

// Option overrides one field of Options.
type Option func(*Options)

// UseDefault sets Options.UseDefault.
func UseDefault(on bool) Option { return func(o *Options) { o.UseDefault = on } }

// StopOnError sets Options.StopOnError.
func StopOnError(on bool) Option { return func(o *Options) { o.StopOnError = on } }

// AllowEmpty sets Options.AllowEmpty.
func AllowEmpty(on bool) Option { return func(o *Options) { o.AllowEmpty = on } }

// IgnoreExtraneous sets Options.IgnoreExtraneous.
func IgnoreExtraneous(on bool) Option { return func(o *Options) { o.IgnoreExtraneous = on } }

// WithAll replaces every option at once.
func WithAll(opts Options) Option { return func(o *Options) { *o = opts } }

func (o Options) apply(opts []Option) Options {
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
