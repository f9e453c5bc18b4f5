package tui

import (
	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/formerror"
)

// State tracks collected values and the errors of the last validation pass,
// both keyed by field id.
type State struct {
	values field.Values
	errors map[string]string
}

// NewState seeds the state with prefilled values.
func NewState(prefill field.Values) *State {
	values := make(field.Values, len(prefill))
	for id, value := range prefill {
		values[id] = value
	}
	return &State{values: values, errors: map[string]string{}}
}

// Values returns the collected values (mutable).
func (s *State) Values() field.Values {
	return s.values
}

// Value returns the collected value for id.
func (s *State) Value(id string) (any, bool) {
	value, ok := s.values[id]
	return value, ok
}

// Set stores value for id, or removes it when value is nil.
func (s *State) Set(id string, value any) {
	if value == nil {
		delete(s.values, id)
		return
	}
	s.values[id] = value
}

// SetErrors replaces the recorded errors with the fields of err.
func (s *State) SetErrors(err *formerror.Error) {
	s.errors = map[string]string{}
	for id, msg := range err.FieldMessages() {
		s.errors[id] = msg
	}
}

// ErrorFor returns the message recorded for id.
func (s *State) ErrorFor(id string) string {
	return s.errors[id]
}
