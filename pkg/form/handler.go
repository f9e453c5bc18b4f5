package form

import (
	"sync"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/formerror"
)

// Handler binds a form to the values and render options of one request.
// Validation runs at most once per handler; later changes to the values
// map do not invalidate the cached result.
type Handler struct {
	form   *Form
	values field.Values
	opts   field.RenderOptions
	ctx    field.Context

	fields    []*field.Handler
	byID      map[string]*field.Handler
	fieldsets []*FieldsetHandler

	validateOnce sync.Once
	validation   *formerror.Error
}

// FieldsetHandler is the per-request view of a fieldset.
type FieldsetHandler struct {
	ID     string
	Legend string
	Fields []*field.Handler
}

// NewHandler returns the per-request view of f.
func (f *Form) NewHandler(values field.Values, opts field.RenderOptions) *Handler {
	if values == nil {
		values = field.Values{}
	}
	h := &Handler{
		form:   f,
		values: values,
		opts:   opts,
		ctx:    f.Context(values),
		byID:   make(map[string]*field.Handler, len(f.fields)),
	}
	for _, fld := range f.fields {
		fh := field.NewHandler(fld, values[fld.ID], opts, h.ctx)
		h.fields = append(h.fields, fh)
		h.byID[fld.ID] = fh
	}
	for _, set := range f.fieldsets {
		view := &FieldsetHandler{ID: set.ID, Legend: set.Legend}
		for _, fld := range set.Fields {
			view.Fields = append(view.Fields, h.byID[fld.ID])
		}
		h.fieldsets = append(h.fieldsets, view)
	}
	return h
}

func (h *Handler) Form() *Form                  { return h.form }
func (h *Handler) Values() field.Values         { return h.values }
func (h *Handler) Options() field.RenderOptions { return h.opts }
func (h *Handler) Method() string               { return h.form.opts.Method }
func (h *Handler) Action() string               { return h.form.opts.Action }
func (h *Handler) SuccessMessage() string       { return h.form.opts.SuccessMessage }

// ValidationErrors returns the memoized validation result.
func (h *Handler) ValidationErrors() *formerror.Error {
	h.validateOnce.Do(func() {
		h.validation = h.form.Validate(h.values)
	})
	return h.validation
}

// Valid reports whether ValidationErrors is nil.
func (h *Handler) Valid() bool {
	return h.ValidationErrors() == nil
}

func (h *Handler) HTML() string {
	return h.form.HTML(h.values, h.opts)
}

func (h *Handler) ButtonsHTML() string {
	return h.form.ButtonsHTML()
}

func (h *Handler) ErrorHTML() string {
	return h.form.ErrorHTML(h.values, h.opts)
}

// Fields returns the field views in declaration order.
func (h *Handler) Fields() []*field.Handler {
	return append([]*field.Handler(nil), h.fields...)
}

// Field returns the view of the field with id, or nil.
func (h *Handler) Field(id string) *field.Handler {
	return h.byID[id]
}

func (h *Handler) Fieldsets() []*FieldsetHandler {
	return append([]*FieldsetHandler(nil), h.fieldsets...)
}

// Fieldset returns the fieldset view with id, or nil.
func (h *Handler) Fieldset(id string) *FieldsetHandler {
	for _, set := range h.fieldsets {
		if set.ID != "" && set.ID == id {
			return set
		}
	}
	return nil
}

// FieldHTML renders a field view in the form's wrapper.
func (h *Handler) FieldHTML(fh *field.Handler) string {
	if fh == nil {
		return ""
	}
	return h.form.FieldHTML(fh.Field(), fh.Value(), h.opts, h.ctx)
}
