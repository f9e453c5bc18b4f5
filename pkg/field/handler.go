package field

import (
	"github.com/goliatone/go-formkit/pkg/formerror"
	"github.com/goliatone/go-formkit/pkg/htmltag"
)

// Handler binds a field to the value and options of one request. Templates
// use it to render pieces of a field individually.
type Handler struct {
	field *Field
	value any
	opts  RenderOptions
	ctx   Context
}

// NewHandler returns a read-only view of f for value. ctx supplies the
// siblings used by match and validateif rules.
func NewHandler(f *Field, value any, opts RenderOptions, ctx Context) *Handler {
	return &Handler{field: f, value: value, opts: opts, ctx: ctx}
}

func (h *Handler) Field() *Field                 { return h.field }
func (h *Handler) Value() any                    { return h.value }
func (h *Handler) Options() RenderOptions        { return h.opts }
func (h *Handler) ID() string                    { return h.field.ID }
func (h *Handler) Name() string                  { return h.field.SubmitName() }
func (h *Handler) TagName() string               { return h.field.TagName }
func (h *Handler) Type() Type                    { return h.field.Type }
func (h *Handler) AvailableAttributes() []string { return h.field.AvailableAttributes() }
func (h *Handler) Choices() []Choice             { return append([]Choice(nil), h.field.Choices...) }
func (h *Handler) Placeholder() string           { return h.field.Placeholder }

func (h *Handler) HTML() string {
	return h.field.HTML(h.value, h.opts, h.ctx)
}

func (h *Handler) WidgetHTML() string {
	return h.field.WidgetHTML(h.value, h.opts)
}

func (h *Handler) LabelHTML() string {
	return h.field.LabelHTML(h.opts)
}

func (h *Handler) LabelText() string {
	return h.field.LabelText(h.opts)
}

func (h *Handler) ErrorHTML() string {
	return h.field.ErrorHTML(h.value, h.opts, h.ctx)
}

// ErrorText is the validation message, or "" when errors are hidden.
func (h *Handler) ErrorText() string {
	return h.field.ErrorText(h.value, h.opts, h.ctx)
}

// ErrorKind is the failing rule, or "" when errors are hidden.
func (h *Handler) ErrorKind() formerror.Kind {
	if h.opts.HideErrors {
		return ""
	}
	return h.field.ErrorKind(h.value, h.ctx)
}

func (h *Handler) WidgetAttributes() htmltag.Attrs {
	return h.field.WidgetAttributes(h.value, h.opts)
}

// Valid validates regardless of HideErrors.
func (h *Handler) Valid() bool {
	return h.field.Valid(h.value, h.ctx)
}
