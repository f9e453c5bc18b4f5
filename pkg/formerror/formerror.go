package formerror

import (
	"encoding/json"
	"sort"
)

// Kind names a validation outcome. The values double as the suffix of the
// data-message-* attributes, so they follow the browser ValidityState names.
type Kind string

const (
	ValueMissing    Kind = "valueMissing"
	TooShort        Kind = "tooShort"
	TooLong         Kind = "tooLong"
	PatternMismatch Kind = "patternMismatch"
	TypeMismatch    Kind = "typeMismatch"
	NoMatch         Kind = "noMatch"

	BadInput       Kind = "badInput"
	CustomError    Kind = "customError"
	RangeOverflow  Kind = "rangeOverflow"
	RangeUnderflow Kind = "rangeUnderflow"
	StepMismatch   Kind = "stepMismatch"
)

// ValidityStates lists every state a field can advertise a message for, in
// attribute rendering order.
var ValidityStates = []Kind{
	BadInput, CustomError, PatternMismatch, RangeOverflow, RangeUnderflow,
	StepMismatch, TooLong, TypeMismatch, ValueMissing, NoMatch, TooShort,
}

// Error is the structured validation error. Field level errors carry the
// Kind that produced them; form level errors carry Fields instead.
type Error struct {
	Message string
	Kind    Kind
	Fields  map[string]*Error
}

// New returns a field level error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewForm returns a form level error aggregating fields.
func NewForm(message string, fields map[string]*Error) *Error {
	if fields == nil {
		fields = map[string]*Error{}
	}
	return &Error{Message: message, Fields: fields}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *Error) String() string {
	return e.Error()
}

// IsForm reports whether e aggregates field errors.
func (e *Error) IsForm() bool {
	return e != nil && e.Fields != nil
}

// Field returns the error recorded for the field id.
func (e *Error) Field(id string) *Error {
	if e == nil || e.Fields == nil {
		return nil
	}
	return e.Fields[id]
}

// FieldIDs returns the ids with errors, sorted.
func (e *Error) FieldIDs() []string {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	ids := make([]string, 0, len(e.Fields))
	for id := range e.Fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FieldMessages flattens Fields into id → message.
func (e *Error) FieldMessages() map[string]string {
	if e == nil || e.Fields == nil {
		return nil
	}
	out := make(map[string]string, len(e.Fields))
	for id, fieldErr := range e.Fields {
		out[id] = fieldErr.Error()
	}
	return out
}

type formPayload struct {
	Form   string            `json:"form"`
	Fields map[string]string `json:"fields"`
}

// MarshalJSON serialises form errors as {"form": message, "fields": {...}}
// and field errors as the bare message string.
func (e *Error) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("null"), nil
	}
	if e.Fields != nil {
		return json.Marshal(formPayload{Form: e.Message, Fields: e.FieldMessages()})
	}
	return json.Marshal(e.Message)
}

// UnmarshalJSON accepts both shapes produced by MarshalJSON.
func (e *Error) UnmarshalJSON(data []byte) error {
	var message string
	if err := json.Unmarshal(data, &message); err == nil {
		*e = Error{Message: message}
		return nil
	}
	var payload formPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	fields := make(map[string]*Error, len(payload.Fields))
	for id, msg := range payload.Fields {
		fields[id] = &Error{Message: msg}
	}
	*e = Error{Message: payload.Form, Fields: fields}
	return nil
}
