package field

import (
	"unicode/utf8"

	"github.com/goliatone/go-formkit/pkg/formerror"
)

// Validate checks value against the field rules. A nil value falls back to
// the field's own Value. It returns nil when the value is valid or the
// validateif condition does not hold.
func (f *Field) Validate(value any, ctx Context) *formerror.Error {
	kind := f.ErrorKind(value, ctx)
	if kind == "" {
		return nil
	}
	return formerror.New(kind, f.MessageFor(kind))
}

// ErrorKind returns the first failing rule in priority order: noMatch,
// valueMissing, tooShort, tooLong, patternMismatch, then the type checks.
func (f *Field) ErrorKind(value any, ctx Context) Kind {
	if !f.Ready(ctx) {
		return ""
	}
	if value == nil {
		value = f.Value
	}
	text := Stringify(value)
	length := utf8.RuneCountInString(text)

	if f.Match != "" {
		if _, other, ok := ctx.Lookup(f.Match); ok && text != Stringify(other) {
			return formerror.NoMatch
		}
	}
	if f.Required && length == 0 {
		return formerror.ValueMissing
	}
	if f.MinLength > 0 && length < f.MinLength {
		return formerror.TooShort
	}
	if f.MaxLength > 0 && length > f.MaxLength {
		return formerror.TooLong
	}
	if f.matcher != nil && length > 0 && !f.matcher.MatchString(text) {
		return formerror.PatternMismatch
	}
	if f.variant.typeMismatch != nil && f.variant.typeMismatch(f, value, text) {
		return formerror.TypeMismatch
	}
	if f.variant.extraKind != nil {
		if kind, failed := f.variant.extraKind(f, value, text); failed {
			return kind
		}
	}
	return ""
}

// Valid is shorthand for Validate(value, ctx) == nil.
func (f *Field) Valid(value any, ctx Context) bool {
	return f.ErrorKind(value, ctx) == ""
}

// ParseBody extracts the field value from body. The second result is false
// when the field was not submitted.
func (f *Field) ParseBody(body Body) (any, bool) {
	if f.variant.parseBody != nil {
		return f.variant.parseBody(f, body)
	}
	value, ok := body[f.ID]
	return value, ok
}
