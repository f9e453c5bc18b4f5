package field

import (
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/goliatone/go-formkit/pkg/formerror"
	"github.com/goliatone/go-formkit/pkg/htmltag"
)

// Type names a field variant.
type Type string

const (
	TypeText          Type = "text"
	TypeString        Type = "string"
	TypeNumber        Type = "number"
	TypeColor         Type = "color"
	TypeDate          Type = "date"
	TypeDatetime      Type = "datetime"
	TypeDatetimeLocal Type = "datetime-local"
	TypeMonth         Type = "month"
	TypeWeek          Type = "week"
	TypeSearch        Type = "search"
	TypeTime          Type = "time"
	TypeTel           Type = "tel"
	TypeURL           Type = "url"
	TypeEmail         Type = "email"
	TypeHidden        Type = "hidden"
	TypePassword      Type = "password"
	TypeFile          Type = "file"
	TypeCheckbox      Type = "checkbox"
	TypeRadio         Type = "radio"
	TypeSelect        Type = "select"
)

// layout controls how HTML arranges the label, widget and error fragments.
type layout int

const (
	layoutStandard layout = iota
	layoutControlFirst
	layoutWidgetOnly
)

// emailPattern is the W3C HTML5 e-mail grammar.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,253}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,253}[a-zA-Z0-9])?)*$`)

var baseAttributes = []string{
	"autofocus", "disabled", "form", "formaction", "formenctype", "formmethod",
	"formnovalidate", "formtarget", "value", "required", "selectiondirection", "autocomplete",
	"inputmode", "list", "minlength", "maxlength", "spellcheck", "readonly",
	"placeholder", "pattern", "step", "match", "validateif", "name",
}

var fileAttributes = []string{
	"type", "autofocus", "disabled", "form", "formaction", "formenctype", "formmethod",
	"formnovalidate", "formtarget", "value", "required", "selectiondirection", "accept",
	"multiple", "placeholder",
}

var selectAttributes = []string{
	"autofocus", "disabled", "form", "formaction", "formenctype",
	"formmethod", "formnovalidate", "formtarget", "value", "required", "accept",
	"multiple", "placeholder",
}

// variant is the per-type capability set. Nil hooks fall back to the base
// behaviour.
type variant struct {
	inputType    string
	tagName      string
	attributes   []string
	layout       layout
	mismatchable bool
	checkable    bool
	defaultValue any

	// typeMismatch reports whether text (the stringified value) violates the
	// type. value is the raw value for variants that inspect it.
	typeMismatch func(f *Field, value any, text string) bool
	// extraKind runs after the base checks and may report any kind.
	extraKind func(f *Field, value any, text string) (formerror.Kind, bool)
	widget    func(f *Field, value any, opts RenderOptions) string
	attrs     func(f *Field, value any, attrs *htmltag.Attrs)
	parseBody func(f *Field, body Body) (any, bool)
}

var registry = map[Type]variant{
	TypeText:          input("text"),
	TypeString:        input("text"),
	TypeNumber:        input("number"),
	TypeColor:         input("color"),
	TypeDate:          input("date"),
	TypeDatetime:      input("datetime"),
	TypeDatetimeLocal: input("datetime-local"),
	TypeMonth:         input("month"),
	TypeWeek:          input("week"),
	TypeSearch:        input("search"),
	TypeTime:          input("time"),
	TypeTel:           mismatchable(input("tel"), nil),
	TypeURL:           mismatchable(input("url"), invalidURL),
	TypeEmail:         mismatchable(input("email"), invalidEmail),
	TypePassword:      input("password"),
	TypeHidden: func() variant {
		v := input("hidden")
		v.layout = layoutWidgetOnly
		return v
	}(),
	TypeFile: func() variant {
		v := input("file")
		v.attributes = fileAttributes
		v.typeMismatch = unacceptedUpload
		return v
	}(),
	TypeCheckbox: checkable("checkbox"),
	TypeRadio:    checkable("radio"),
	TypeSelect: {
		tagName:    "select",
		attributes: selectAttributes,
		extraKind:  notAChoice,
		widget:     selectWidget,
	},
}

func input(inputType string) variant {
	return variant{inputType: inputType, tagName: "input", attributes: baseAttributes}
}

func mismatchable(v variant, check func(*Field, any, string) bool) variant {
	v.mismatchable = true
	v.typeMismatch = check
	return v
}

func checkable(inputType string) variant {
	v := input(inputType)
	v.layout = layoutControlFirst
	v.checkable = true
	v.defaultValue = true
	v.attrs = checkedAttrs
	v.parseBody = parseChecked
	return v
}

func lookup(t Type) (variant, bool) {
	v, ok := registry[t]
	return v, ok
}

// Types returns every registered type name, sorted.
func Types() []Type {
	out := make([]Type, 0, len(registry))
	for t := range registry {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Known reports whether t is a registered type.
func Known(t Type) bool {
	_, ok := registry[t]
	return ok
}

func invalidEmail(_ *Field, _ any, text string) bool {
	return text != "" && !emailPattern.MatchString(text)
}

func invalidURL(_ *Field, _ any, text string) bool {
	if text == "" {
		return false
	}
	parsed, err := url.ParseRequestURI(text)
	return err != nil || parsed.Scheme == "" || (parsed.Host == "" && parsed.Opaque == "")
}

func notAChoice(f *Field, _ any, text string) (formerror.Kind, bool) {
	if text == "" || len(f.Choices) == 0 {
		return "", false
	}
	for _, choice := range f.Choices {
		if Stringify(choice.Value) == text {
			return "", false
		}
	}
	return formerror.ValueMissing, true
}

func selectWidget(f *Field, value any, opts RenderOptions) string {
	current := f.renderedValue(value)
	var options strings.Builder
	for _, choice := range f.Choices {
		attrs := htmltag.Attrs{{Name: "value", Value: choice.attrValue()}}
		if current != nil && Stringify(current) == Stringify(choice.Value) {
			attrs.Set("selected", true)
		}
		options.WriteString(htmltag.Tag("option", attrs, choice.Label))
	}
	return htmltag.Tag(f.TagName, f.WidgetAttributes(value, opts), options.String())
}

func checkedAttrs(f *Field, value any, attrs *htmltag.Attrs) {
	attrs.Set("value", f.Value)
	if value != nil && f.Value != nil && Stringify(value) == Stringify(f.Value) {
		attrs.Set("checked", true)
	}
}

// parseChecked recovers the on-value from a submission. A boolean on-value
// accepts the string "true"; any other on-value must match exactly.
func parseChecked(f *Field, body Body) (any, bool) {
	raw, ok := body[f.ID]
	if !ok || raw == nil {
		return nil, false
	}
	if on, isBool := f.Value.(bool); isBool && on {
		if s, isString := raw.(string); isString && s == "true" {
			return true, true
		}
	}
	if sameValue(raw, f.Value) {
		return f.Value, true
	}
	return nil, false
}

// sameValue is == without the panic on uncomparable dynamic types.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}
