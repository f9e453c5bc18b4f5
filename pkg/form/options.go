package form

import (
	"github.com/goliatone/go-formkit/pkg/htmltag"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// Options configure rendering and the request lifecycle of a form.
type Options struct {
	ID              string
	Action          string
	Method          string
	Template        string
	SuccessTemplate string
	Classes         []string
	Role            string
	NoValidate      bool
	RedirectURL     string

	SuccessMessage string
	ErrorMessage   string

	SubmitTagName string
	SubmitAttrs   htmltag.Attrs
	SubmitLabel   string

	ButtonSetTagName              string
	ButtonSetAttrs                htmltag.Attrs
	AdditionalButtonSetHTML       string
	AdditionalButtonSetHTMLToLeft bool

	FieldWrapperTagName string

	GetValues      GetValuesFunc
	SetValues      SetValuesFunc
	SuccessHandler SuccessHandlerFunc
	ErrorHandler   ErrorHandlerFunc
}

type OptionFn func(*Options)

// DefaultOptions returns the defaults for a form called name.
func DefaultOptions(name string) Options {
	return Options{
		ID:                  name,
		Template:            name,
		Method:              "post",
		Action:              "",
		Role:                "form",
		SuccessMessage:      "Saved successfully",
		ErrorMessage:        "This form contains errors",
		SubmitTagName:       "button",
		SubmitAttrs:         htmltag.Attrs{{Name: "type", Value: "submit"}},
		SubmitLabel:         "Submit",
		ButtonSetTagName:    "ul",
		ButtonSetAttrs:      htmltag.Attrs{{Name: "class", Value: "buttonSet"}},
		FieldWrapperTagName: "div",
	}
}

// NewOptions applies fns over the defaults for name.
func NewOptions(name string, fns ...OptionFn) Options {
	opts := DefaultOptions(name)
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.Method == "" {
		opts.Method = "post"
	}
	if opts.SubmitTagName == "" {
		opts.SubmitTagName = "button"
	}
	if opts.ButtonSetTagName == "" {
		opts.ButtonSetTagName = "ul"
	}
	if opts.FieldWrapperTagName == "" {
		opts.FieldWrapperTagName = "div"
	}
	if opts.GetValues == nil {
		opts.GetValues = defaultGetValues
	}
	if opts.SetValues == nil {
		opts.SetValues = defaultSetValues
	}
	if opts.SuccessHandler == nil {
		opts.SuccessHandler = DefaultSuccessHandler
	}
	if opts.ErrorHandler == nil {
		opts.ErrorHandler = DefaultErrorHandler
	}
	opts.Classes = append([]string(nil), opts.Classes...)
	opts.SubmitAttrs = opts.SubmitAttrs.Clone()
	opts.ButtonSetAttrs = opts.ButtonSetAttrs.Clone()
	return opts
}

func WithID(id string) OptionFn {
	return func(o *Options) {
		o.ID = id
	}
}

func WithAction(action string) OptionFn {
	return func(o *Options) {
		o.Action = action
	}
}

func WithMethod(method string) OptionFn {
	return func(o *Options) {
		o.Method = method
	}
}

// WithTemplate names the template rendered on GET.
func WithTemplate(name string) OptionFn {
	return func(o *Options) {
		o.Template = name
	}
}

// WithSuccessTemplate names the template rendered after a successful
// submission. Without it the regular template shows the success banner.
func WithSuccessTemplate(name string) OptionFn {
	return func(o *Options) {
		o.SuccessTemplate = name
	}
}

func WithClasses(classes ...string) OptionFn {
	return func(o *Options) {
		o.Classes = append([]string(nil), classes...)
	}
}

// WithRole sets the role attribute; an empty role omits it.
func WithRole(role string) OptionFn {
	return func(o *Options) {
		o.Role = role
	}
}

func WithNoValidate(enabled bool) OptionFn {
	return func(o *Options) {
		o.NoValidate = enabled
	}
}

// WithRedirectURL sends successful submissions to url instead of back to the
// form.
func WithRedirectURL(url string) OptionFn {
	return func(o *Options) {
		o.RedirectURL = url
	}
}

func WithSuccessMessage(message string) OptionFn {
	return func(o *Options) {
		o.SuccessMessage = message
	}
}

func WithErrorMessage(message string) OptionFn {
	return func(o *Options) {
		o.ErrorMessage = message
	}
}

// WithSubmit configures the submit control.
func WithSubmit(tagName string, attrs htmltag.Attrs, label string) OptionFn {
	return func(o *Options) {
		o.SubmitTagName = tagName
		o.SubmitAttrs = attrs.Clone()
		o.SubmitLabel = label
	}
}

// WithButtonSet configures the element wrapping the buttons.
func WithButtonSet(tagName string, attrs htmltag.Attrs) OptionFn {
	return func(o *Options) {
		o.ButtonSetTagName = tagName
		o.ButtonSetAttrs = attrs.Clone()
	}
}

// WithAdditionalButtonSetHTML adds trusted markup next to the submit
// control, before it when left is true.
func WithAdditionalButtonSetHTML(html string, left bool) OptionFn {
	return func(o *Options) {
		o.AdditionalButtonSetHTML = html
		o.AdditionalButtonSetHTMLToLeft = left
	}
}

// WithSanitizedButtonSetHTML is WithAdditionalButtonSetHTML for markup that
// comes from configuration files or users.
func WithSanitizedButtonSetHTML(html string, left bool) OptionFn {
	return WithAdditionalButtonSetHTML(SanitizeButtonSetHTML(html), left)
}

func WithFieldWrapperTagName(tagName string) OptionFn {
	return func(o *Options) {
		o.FieldWrapperTagName = tagName
	}
}

func WithGetValues(fn GetValuesFunc) OptionFn {
	return func(o *Options) {
		o.GetValues = fn
	}
}

func WithSetValues(fn SetValuesFunc) OptionFn {
	return func(o *Options) {
		o.SetValues = fn
	}
}

func WithSuccessHandler(fn SuccessHandlerFunc) OptionFn {
	return func(o *Options) {
		o.SuccessHandler = fn
	}
}

func WithErrorHandler(fn ErrorHandlerFunc) OptionFn {
	return func(o *Options) {
		o.ErrorHandler = fn
	}
}

// WithConfig applies the non-empty values of a schema document's form
// section. Markup from documents is sanitised.
func WithConfig(cfg schema.FormConfig) OptionFn {
	return func(o *Options) {
		setString(&o.ID, cfg.ID)
		setString(&o.Action, cfg.Action)
		setString(&o.Method, cfg.Method)
		setString(&o.Template, cfg.Template)
		setString(&o.SuccessTemplate, cfg.SuccessTemplate)
		setString(&o.Role, cfg.Role)
		setString(&o.RedirectURL, cfg.RedirectURL)
		setString(&o.SuccessMessage, cfg.SuccessMessage)
		setString(&o.ErrorMessage, cfg.ErrorMessage)
		setString(&o.SubmitTagName, cfg.SubmitTagName)
		setString(&o.SubmitLabel, cfg.SubmitLabel)
		setString(&o.ButtonSetTagName, cfg.ButtonSetTagName)
		setString(&o.FieldWrapperTagName, cfg.FieldWrapperTagName)
		if len(cfg.Classes) > 0 {
			o.Classes = append([]string(nil), cfg.Classes...)
		}
		if cfg.NoValidate {
			o.NoValidate = true
		}
		if len(cfg.SubmitAttrs) > 0 {
			o.SubmitAttrs = cfg.SubmitAttrs.Clone()
		}
		if len(cfg.ButtonSetAttrs) > 0 {
			o.ButtonSetAttrs = cfg.ButtonSetAttrs.Clone()
		}
		if cfg.AdditionalButtonSetHTML != "" {
			o.AdditionalButtonSetHTML = SanitizeButtonSetHTML(cfg.AdditionalButtonSetHTML)
			o.AdditionalButtonSetHTMLToLeft = cfg.AdditionalButtonSetHTMLToLeft
		}
	}
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
