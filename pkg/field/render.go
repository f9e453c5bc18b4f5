package field

import (
	"github.com/goliatone/go-formkit/pkg/formerror"
	"github.com/goliatone/go-formkit/pkg/htmltag"
)

// RenderOptions tune a single render call.
type RenderOptions struct {
	// HideErrors suppresses inline errors and data-message attributes.
	HideErrors    bool
	RenderSuccess bool
	// Label and For override the label text and its for attribute.
	Label               string
	For                 string
	FieldWrapperTagName string
	// ErrorMessage redisplays a form level error without revalidating.
	ErrorMessage string
}

// LabelText returns the label override or the configured label.
func (f *Field) LabelText(opts RenderOptions) string {
	if opts.Label != "" {
		return opts.Label
	}
	if f.HideLabel {
		return ""
	}
	return f.Label
}

// LabelHTML renders the <label> element, or "" when there is no label.
func (f *Field) LabelHTML(opts RenderOptions) string {
	text := f.LabelText(opts)
	if text == "" {
		return ""
	}
	target := opts.For
	if target == "" {
		target = ValidID(f.ID)
	}
	if f.Optional {
		indicator := f.OptionalText
		if indicator == "" {
			indicator = "(optional)"
		}
		text += htmltag.Tag("span", htmltag.Attrs{{Name: "class", Value: "optionalIndicator"}}, indicator)
	}
	return htmltag.Tag("label", htmltag.Attrs{{Name: "for", Value: unset(target)}}, text)
}

// WidgetAttributes builds the ordered attribute list of the control: type,
// configured attributes, name, id, value and the data-message attributes.
func (f *Field) WidgetAttributes(value any, opts RenderOptions) htmltag.Attrs {
	attrs := htmltag.Attrs{}
	if f.InputType != "" {
		attrs.Set("type", f.InputType)
	}
	for _, name := range f.variant.attributes {
		if v, ok := f.attributeValue(name); ok {
			attrs.Set(name, v)
		}
	}

	attrs.Set("name", unset(f.SubmitName()))
	attrs.Set("id", unset(ValidID(f.ID)))
	attrs.Set("value", f.renderedValue(value))

	if !opts.HideErrors {
		attrs.Merge(f.messageAttributes())
	}
	if f.variant.attrs != nil {
		f.variant.attrs(f, value, &attrs)
	}
	return attrs
}

// renderedValue picks the value override or the field's own value, with
// quotes escaped for string values.
func (f *Field) renderedValue(value any) any {
	if value == nil {
		value = f.Value
	}
	if s, ok := value.(string); ok {
		return escape(s)
	}
	return value
}

// messageAttributes exposes the resolved messages for client side
// constraint validation.
func (f *Field) messageAttributes() htmltag.Attrs {
	attrs := htmltag.Attrs{}
	if f.Message.Text != "" {
		attrs.Set("data-message", f.Message.Text)
	}
	for _, state := range formerror.ValidityStates {
		if f.configured(state) {
			attrs.Set("data-message-"+string(state), f.MessageFor(state))
			continue
		}
		if msg := f.Message.ByKind[state]; msg != "" {
			attrs.Set("data-message-"+string(state), msg)
		}
	}
	return attrs
}

// WidgetHTML renders the control.
func (f *Field) WidgetHTML(value any, opts RenderOptions) string {
	if f.variant.widget != nil {
		return f.variant.widget(f, value, opts)
	}
	return htmltag.Tag(f.TagName, f.WidgetAttributes(value, opts))
}

// ErrorText validates value and returns the message, or "" when valid or
// when errors are hidden.
func (f *Field) ErrorText(value any, opts RenderOptions, ctx Context) string {
	if opts.HideErrors {
		return ""
	}
	if err := f.Validate(value, ctx); err != nil {
		return err.Message
	}
	return ""
}

// ErrorHTML wraps the validation message in a fieldError label.
func (f *Field) ErrorHTML(value any, opts RenderOptions, ctx Context) string {
	msg := f.ErrorText(value, opts, ctx)
	if msg == "" {
		return ""
	}
	return htmltag.Tag("label", htmltag.Attrs{
		{Name: "for", Value: unset(ValidID(f.ID))},
		{Name: "class", Value: "fieldError"},
	}, msg)
}

// InnerHTML renders the label, widget and error fragments in the variant's
// order, without the wrapper.
func (f *Field) InnerHTML(value any, opts RenderOptions, ctx Context) string {
	switch f.variant.layout {
	case layoutWidgetOnly:
		return f.WidgetHTML(value, opts)
	case layoutControlFirst:
		return f.WidgetHTML(value, opts) + f.LabelHTML(opts) + f.ErrorHTML(value, opts, ctx)
	default:
		return f.LabelHTML(opts) + f.WidgetHTML(value, opts) + f.ErrorHTML(value, opts, ctx)
	}
}

// HTML renders the field inside its wrapper. Hidden fields render the bare
// widget.
func (f *Field) HTML(value any, opts RenderOptions, ctx Context) string {
	inner := f.InnerHTML(value, opts, ctx)
	if f.variant.layout == layoutWidgetOnly {
		return inner
	}
	return f.Wrap(inner, opts.FieldWrapperTagName)
}

// Wrap puts content inside the field wrapper. tag overrides the configured
// wrapper tag; the default is div.
func (f *Field) Wrap(content, tag string) string {
	if tag == "" {
		tag = f.FieldWrapperTagName
	}
	if tag == "" {
		tag = "div"
	}
	if content == "" {
		content = tag
	}
	return htmltag.Tag(tag, f.WrapperAttributes(), content)
}

// WrapperAttributes returns class, data-type and the custom data-*
// attributes of the wrapper.
func (f *Field) WrapperAttributes() htmltag.Attrs {
	attrs := htmltag.Attrs{
		{Name: "class", Value: htmltag.MungeClasses(f.Classes, "field")},
		{Name: "data-type", Value: unset(f.DataType())},
	}
	for _, attr := range f.DataAttributes {
		attrs.Set("data-"+attr.Name, attr.Value)
	}
	return attrs
}

// WidgetOnly reports whether the field renders without label, error or
// wrapper.
func (f *Field) WidgetOnly() bool {
	return f.variant.layout == layoutWidgetOnly
}

// SubmitName is the name attribute: the configured name or the id.
func (f *Field) SubmitName() string {
	if f.Name != "" {
		return f.Name
	}
	return f.ID
}

func escape(value string) string {
	return htmltag.EscapeValue(value)
}
