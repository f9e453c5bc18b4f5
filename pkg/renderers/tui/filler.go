package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/form"
)

// Filler prompts for every field of a form on the terminal and validates
// answers with the same rules the HTML lifecycle applies.
type Filler struct {
	driver            PromptDriver
	out               io.Writer
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
}

// New constructs a Filler with defaults (survey driver, JSON output).
func New(options ...Option) *Filler {
	f := &Filler{
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme,
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	if f.driver == nil {
		f.driver = newSurveyDriver(f.output())
	}
	return f
}

// ContentType reports the serialization format used by Render.
func (f *Filler) ContentType() string {
	switch f.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Fill prompts field by field, re-asking until each answer passes field
// validation, then re-asks the fields that fail whole-form validation
// (cross-field rules) until the form is valid.
func (f *Filler) Fill(ctx context.Context, frm *form.Form, prefill field.Values) (field.Values, error) {
	if frm == nil {
		return nil, ErrNoForm
	}
	state := NewState(prefill)
	for _, fld := range frm.Fields() {
		if err := f.prompt(ctx, frm, fld, state); err != nil {
			return nil, err
		}
	}

	for {
		verr := frm.Validate(state.Values())
		if verr == nil {
			return state.Values(), nil
		}
		state.SetErrors(verr)
		if err := f.driver.Info(ctx, f.theme.ErrorPrefix+verr.Error()); err != nil {
			return nil, err
		}
		var retry []*field.Field
		for _, id := range verr.FieldIDs() {
			if fld, ok := frm.Field(id); ok && editable(fld) {
				retry = append(retry, fld)
			}
		}
		if len(retry) == 0 {
			return nil, fmt.Errorf("tui: %w", verr)
		}
		for _, fld := range retry {
			if err := f.prompt(ctx, frm, fld, state); err != nil {
				return nil, err
			}
		}
	}
}

// Render fills frm and serializes the values in the configured format.
func (f *Filler) Render(ctx context.Context, frm *form.Form, prefill field.Values) ([]byte, error) {
	values, err := f.Fill(ctx, frm, prefill)
	if err != nil {
		return nil, err
	}
	if f.submitTransformer != nil {
		values, err = f.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return f.serialize(values)
}

func (f *Filler) prompt(ctx context.Context, frm *form.Form, fld *field.Field, state *State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Fields the user cannot edit keep their pre-filled value.
	if !editable(fld) {
		if _, ok := state.Value(fld.ID); !ok && fld.Type != field.TypeFile {
			state.Set(fld.ID, fld.Value)
		}
		return nil
	}

	for {
		value, err := f.ask(ctx, fld, state)
		if err != nil {
			return err
		}
		previous, had := state.Value(fld.ID)
		state.Set(fld.ID, value)
		verr := fld.Validate(value, frm.Context(state.Values()))
		if verr == nil {
			return nil
		}
		if had {
			state.Set(fld.ID, previous)
		} else {
			state.Set(fld.ID, nil)
		}
		if err := f.driver.Info(ctx, f.theme.ErrorPrefix+label(fld)+": "+verr.Error()); err != nil {
			return err
		}
	}
}

func (f *Filler) ask(ctx context.Context, fld *field.Field, state *State) (any, error) {
	current, hasCurrent := state.Value(fld.ID)
	help := fld.Placeholder
	if msg := state.ErrorFor(fld.ID); msg != "" {
		help = msg
	}

	switch fld.Type {
	case field.TypeCheckbox, field.TypeRadio:
		on := fld.Value
		checked, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: label(fld),
			Default: hasCurrent && field.Stringify(current) == field.Stringify(on),
			Help:    help,
		})
		if err != nil || !checked {
			return nil, err
		}
		return on, nil

	case field.TypeSelect:
		if !hasCurrent {
			current = fld.Value
		}
		options, values := f.choiceOptions(fld)
		idx, err := f.driver.Select(ctx, SelectConfig{
			Message:      label(fld),
			Options:      options,
			DefaultIndex: indexOfValue(values, current),
			Help:         help,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(values) {
			return nil, fmt.Errorf("tui: select returned index %d of %d options", idx, len(values))
		}
		return values[idx], nil

	case field.TypePassword:
		return f.driver.Password(ctx, InputConfig{Message: label(fld), Help: help})
	}

	def := ""
	if hasCurrent {
		def = field.Stringify(current)
	} else if fld.Value != nil {
		def = field.Stringify(fld.Value)
	}
	if fld.TagName == "textarea" {
		return f.driver.TextArea(ctx, TextAreaConfig{Message: label(fld), Default: def, Help: help})
	}
	return f.driver.Input(ctx, InputConfig{Message: label(fld), Default: def, Help: help})
}

// choiceOptions lists the labels shown and the values they stand for. An
// optional select offers an empty entry first.
func (f *Filler) choiceOptions(fld *field.Field) ([]string, []any) {
	var (
		options []string
		values  []any
	)
	if !fld.Required {
		options = append(options, f.theme.NoneLabel)
		values = append(values, "")
	}
	for _, choice := range fld.Choices {
		options = append(options, choice.Label)
		values = append(values, choice.Value)
	}
	return options, values
}

func (f *Filler) output() io.Writer {
	if f.out != nil {
		return f.out
	}
	return os.Stdout
}

func (f *Filler) serialize(values field.Values) ([]byte, error) {
	switch f.outputFormat {
	case OutputFormatFormURLEncoded:
		encoded := url.Values{}
		for id, value := range values {
			encoded.Set(id, field.Stringify(value))
		}
		return []byte(encoded.Encode()), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

func prettyPrint(values field.Values) string {
	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&b, "%s=%s\n", id, field.Stringify(values[id]))
	}
	return b.String()
}

func editable(fld *field.Field) bool {
	return fld.Type != field.TypeHidden && fld.Type != field.TypeFile && !fld.Readonly && !fld.Disabled
}

func label(fld *field.Field) string {
	if fld.Label != "" {
		return fld.Label
	}
	return fld.ID
}

func indexOfValue(values []any, value any) int {
	if value == nil {
		return 0
	}
	for i, v := range values {
		if field.Stringify(v) == field.Stringify(value) {
			return i
		}
	}
	return 0
}
