package field

import (
	"fmt"

	"github.com/goliatone/go-formkit/pkg/formerror"
)

// Kind is re-exported so callers configuring messages need one import.
type Kind = formerror.Kind

// Message configures error text. Text applies to every kind. Otherwise Func
// is consulted, then ByKind, then the built-in defaults.
type Message struct {
	Text   string
	ByKind map[Kind]string
	Func   func(Kind) string
}

// IsZero reports whether no message was configured.
func (m Message) IsZero() bool {
	return m.Text == "" && len(m.ByKind) == 0 && m.Func == nil
}

// Text returns a Message used for every kind.
func Text(text string) Message {
	return Message{Text: text}
}

// ByKind returns a Message with per-kind overrides.
func ByKind(messages map[Kind]string) Message {
	return Message{ByKind: messages}
}

// MessageFor resolves the text shown for kind.
func (f *Field) MessageFor(kind Kind) string {
	switch {
	case f.Message.Text != "":
		return f.Message.Text
	case f.Message.Func != nil:
		return f.Message.Func(kind)
	}
	if msg, ok := f.Message.ByKind[kind]; ok && msg != "" {
		return msg
	}
	return f.defaultMessage(kind)
}

func (f *Field) defaultMessage(kind Kind) string {
	switch kind {
	case formerror.ValueMissing:
		return "This field is required"
	case formerror.TooShort:
		return fmt.Sprintf("Please use %d characters or more", f.MinLength)
	case formerror.TooLong:
		return fmt.Sprintf("Please use %d characters or less", f.MaxLength)
	case formerror.PatternMismatch:
		return "Please use the required format"
	case formerror.TypeMismatch:
		return "Please enter a valid " + string(f.Type)
	case formerror.NoMatch:
		return f.ID + " must match " + f.Match
	}
	return ""
}

// configured reports whether the rule behind kind is active on the field.
func (f *Field) configured(kind Kind) bool {
	switch kind {
	case formerror.ValueMissing:
		return f.Required
	case formerror.TooLong:
		return f.MaxLength > 0
	case formerror.PatternMismatch:
		return f.pattern != nil
	case formerror.NoMatch:
		return f.Match != ""
	case formerror.TooShort:
		return f.MinLength > 0
	case formerror.TypeMismatch:
		return f.variant.mismatchable
	}
	return false
}
