package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/formerror"
	"github.com/goliatone/go-formkit/pkg/htmltag"
	"github.com/goliatone/go-formkit/pkg/schema"
)

var (
	// ErrDuplicateField is returned when two fields share an id.
	ErrDuplicateField = errors.New("form: duplicate field id")
	// ErrUnknownReference is returned when match or validateif names a field
	// the form does not have.
	ErrUnknownReference = errors.New("form: unknown field reference")
)

// FieldSet groups fields for rendering.
type FieldSet struct {
	ID     string
	Legend string
	Fields []*field.Field
}

// block is one top level rendering unit: a loose field or a fieldset.
type block struct {
	field *field.Field
	set   *FieldSet
}

// Form is an immutable form definition, safe for concurrent use. Per request
// state lives in Handler.
type Form struct {
	name      string
	opts      Options
	fields    []*field.Field
	index     map[string]*field.Field
	fieldsets []*FieldSet
	blocks    []block
}

// New builds a form from s. Fields without a label get one derived from
// their schema name.
func New(name string, s schema.Schema, fns ...OptionFn) (*Form, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("form: name is required")
	}
	f := &Form{
		name:  name,
		opts:  NewOptions(name, fns...),
		index: make(map[string]*field.Field),
	}

	for _, entry := range s {
		if entry.Fieldset != nil {
			set := &FieldSet{ID: entry.Fieldset.ID, Legend: entry.Fieldset.Legend}
			for _, nested := range entry.Fieldset.Fields {
				if nested.Fieldset != nil {
					return nil, fmt.Errorf("form: %s: fieldset %q cannot nest fieldsets", name, set.ID)
				}
				fld, err := f.add(nested)
				if err != nil {
					return nil, err
				}
				set.Fields = append(set.Fields, fld)
			}
			f.fieldsets = append(f.fieldsets, set)
			f.blocks = append(f.blocks, block{set: set})
			continue
		}
		fld, err := f.add(entry)
		if err != nil {
			return nil, err
		}
		f.blocks = append(f.blocks, block{field: fld})
	}

	if err := f.checkReferences(); err != nil {
		return nil, err
	}
	return f, nil
}

// MustNew is New that panics on configuration errors.
func MustNew(name string, s schema.Schema, fns ...OptionFn) *Form {
	f, err := New(name, s, fns...)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Form) add(entry schema.Entry) (*field.Field, error) {
	var (
		fld *field.Field
		err error
	)
	switch {
	case entry.Instance != nil:
		fld = entry.Instance.Named(entry.Name, schema.DefaultLabel(entry.Name))
	case entry.Config != nil:
		cfg := *entry.Config
		if cfg.ID == "" {
			cfg.ID = entry.Name
		}
		if cfg.Label == "" && !cfg.HideLabel {
			cfg.Label = schema.DefaultLabel(entry.Name)
		}
		fld, err = field.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("form: %s: %w", f.name, err)
		}
	default:
		fld, err = field.New(field.Config{ID: entry.Name, Label: schema.DefaultLabel(entry.Name)})
		if err != nil {
			return nil, fmt.Errorf("form: %s: %w", f.name, err)
		}
	}
	if fld.ID == "" {
		return nil, fmt.Errorf("form: %s: field without a name", f.name)
	}
	if _, exists := f.index[fld.ID]; exists {
		return nil, fmt.Errorf("%w %q in form %s", ErrDuplicateField, fld.ID, f.name)
	}
	f.index[fld.ID] = fld
	f.fields = append(f.fields, fld)
	return fld, nil
}

func (f *Form) checkReferences() error {
	for _, fld := range f.fields {
		if fld.Match != "" {
			if _, ok := f.index[fld.Match]; !ok {
				return fmt.Errorf("%w: %s matches %q in form %s", ErrUnknownReference, fld.ID, fld.Match, f.name)
			}
		}
		for _, ref := range fld.Condition().Refs {
			if _, ok := f.index[ref.ID]; !ok {
				return fmt.Errorf("%w: %s validates if %q in form %s", ErrUnknownReference, fld.ID, ref.ID, f.name)
			}
		}
	}
	return nil
}

// Name is the form name, also used as the session key.
func (f *Form) Name() string { return f.name }

// Options returns a copy of the form options.
func (f *Form) Options() Options { return f.opts }

// Fields returns every field in declaration order, fieldsets flattened.
func (f *Form) Fields() []*field.Field {
	return append([]*field.Field(nil), f.fields...)
}

// Field returns the field with id.
func (f *Form) Field(id string) (*field.Field, bool) {
	fld, ok := f.index[id]
	return fld, ok
}

// Fieldsets returns the declared fieldsets.
func (f *Form) Fieldsets() []*FieldSet {
	return append([]*FieldSet(nil), f.fieldsets...)
}

// Context returns the sibling snapshot used for cross-field rules.
func (f *Form) Context(values field.Values) field.Context {
	return field.NewContext(f.fields, values)
}

// Validate runs every field against values and aggregates the failures
// under Options.ErrorMessage. It returns nil when the form is valid.
func (f *Form) Validate(values field.Values) *formerror.Error {
	ctx := f.Context(values)
	var failures map[string]*formerror.Error
	for _, fld := range f.fields {
		if err := fld.Validate(values[fld.ID], ctx); err != nil {
			if failures == nil {
				failures = make(map[string]*formerror.Error)
			}
			failures[fld.ID] = err
		}
	}
	if failures == nil {
		return nil
	}
	return formerror.NewForm(f.opts.ErrorMessage, failures)
}

// ParseBody extracts the submitted value of every field. Fields missing
// from body are left out of the result.
func (f *Form) ParseBody(body field.Body) field.Values {
	values := make(field.Values, len(f.fields))
	for _, fld := range f.fields {
		if value, ok := fld.ParseBody(body); ok {
			values[fld.ID] = value
		}
	}
	return values
}

// HTML renders the complete form: banner, fields (grouped by fieldset) and
// buttons. The banner is skipped when neither values nor options are given.
func (f *Form) HTML(values field.Values, opts field.RenderOptions) string {
	var b strings.Builder
	if values != nil || opts != (field.RenderOptions{}) {
		b.WriteString(f.ErrorHTML(values, opts))
	}

	ctx := f.Context(values)
	for _, blk := range f.blocks {
		if blk.field != nil {
			b.WriteString(f.FieldHTML(blk.field, values[blk.field.ID], opts, ctx))
			continue
		}
		b.WriteString("<fieldset>")
		if blk.set.Legend != "" {
			b.WriteString("<legend>" + blk.set.Legend + "</legend>")
		}
		for _, fld := range blk.set.Fields {
			b.WriteString(f.FieldHTML(fld, values[fld.ID], opts, ctx))
		}
		b.WriteString("</fieldset>")
	}

	b.WriteString(f.ButtonsHTML())
	return htmltag.Tag("form", f.Attributes(), b.String())
}

// FieldHTML renders one field in the form's wrapper. The render option wins
// over the field's own wrapper, which wins over the form default.
func (f *Form) FieldHTML(fld *field.Field, value any, opts field.RenderOptions, ctx field.Context) string {
	inner := fld.InnerHTML(value, opts, ctx)
	if fld.WidgetOnly() {
		return inner
	}
	tag := opts.FieldWrapperTagName
	if tag == "" {
		tag = fld.FieldWrapperTagName
	}
	if tag == "" {
		tag = f.opts.FieldWrapperTagName
	}
	return fld.Wrap(inner, tag)
}

// ErrorHTML renders the form level banner: a redisplayed error, the
// validation error, the success message, or nothing.
func (f *Form) ErrorHTML(values field.Values, opts field.RenderOptions) string {
	if opts.HideErrors && !opts.RenderSuccess {
		return ""
	}
	if opts.ErrorMessage != "" && !opts.RenderSuccess {
		return banner("formError", opts.ErrorMessage)
	}
	err := f.Validate(values)
	switch {
	case err != nil && !opts.RenderSuccess:
		return banner("formError", err.Message)
	case opts.RenderSuccess:
		return banner("formSuccess", f.opts.SuccessMessage)
	default:
		return ""
	}
}

func banner(class, message string) string {
	return htmltag.Tag("div", htmltag.Attrs{{Name: "class", Value: class}},
		htmltag.Tag("p", nil, message))
}

// ButtonsHTML renders the submit control inside the button set. List
// containers get the control wrapped in <li>.
func (f *Form) ButtonsHTML() string {
	o := f.opts
	button := htmltag.Tag(o.SubmitTagName, o.SubmitAttrs, o.SubmitLabel)
	if o.ButtonSetTagName == "ul" || o.ButtonSetTagName == "ol" {
		button = htmltag.Tag("li", nil, button)
	}
	content := button + o.AdditionalButtonSetHTML
	if o.AdditionalButtonSetHTMLToLeft {
		content = o.AdditionalButtonSetHTML + button
	}
	return htmltag.Tag(o.ButtonSetTagName, o.ButtonSetAttrs, content)
}

// Attributes returns the <form> attributes.
func (f *Form) Attributes() htmltag.Attrs {
	attrs := htmltag.Attrs{
		{Name: "method", Value: f.opts.Method},
		{Name: "action", Value: f.opts.Action},
	}
	if classes := htmltag.MungeClasses(f.opts.Classes, ""); classes != "" {
		attrs.Set("class", classes)
	}
	if f.opts.ID != "" {
		attrs.Set("id", f.opts.ID)
	}
	if f.opts.Role != "" {
		attrs.Set("role", f.opts.Role)
	}
	if f.opts.NoValidate {
		attrs.Set("novalidate", true)
	}
	return attrs
}
