package field

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-formkit/pkg/htmltag"
)

// ErrUnknownType is returned when a configuration names a type that is not
// part of the registry.
var ErrUnknownType = errors.New("field: unknown field type")

// Config enumerates every option a field understands. Zero values mean
// "not configured".
type Config struct {
	Type      Type
	ID        string
	Name      string
	Label     string
	HideLabel bool
	TagName   string
	InputType string

	Required   bool
	MinLength  int
	MaxLength  int
	Pattern    string
	Match      string
	ValidateIf string
	Message    Message

	Choices []Choice
	Value   any

	Optional     bool
	OptionalText string

	Classes             []string
	DataAttributes      htmltag.Attrs
	FieldWrapperTagName string

	Autofocus          bool
	Disabled           bool
	Form               string
	FormAction         string
	FormEnctype        string
	FormMethod         string
	FormNoValidate     bool
	FormTarget         string
	SelectionDirection string
	Autocomplete       string
	InputMode          string
	List               string
	Spellcheck         bool
	Readonly           bool
	Placeholder        string
	Step               string
	Accept             string
	Multiple           bool
}

// Field is a configured input. Build it with New; afterwards only Value is
// expected to change (pre-fill).
type Field struct {
	Config

	variant   variant
	pattern   *regexp.Regexp
	matcher   *regexp.Regexp
	condition Condition
}

// New validates cfg and returns the field for its type. An empty type
// defaults to TypeString.
func New(cfg Config) (*Field, error) {
	if cfg.Type == "" {
		cfg.Type = TypeString
	}
	v, ok := lookup(cfg.Type)
	if !ok {
		return nil, fmt.Errorf("%w %q (field %q)", ErrUnknownType, cfg.Type, cfg.ID)
	}

	if cfg.InputType == "" {
		cfg.InputType = v.inputType
	}
	if cfg.TagName == "" {
		cfg.TagName = v.tagName
	}
	if cfg.Value == nil && v.defaultValue != nil {
		cfg.Value = v.defaultValue
	}
	if cfg.MinLength < 0 || cfg.MaxLength < 0 {
		return nil, fmt.Errorf("field: %q has a negative length constraint", cfg.ID)
	}
	cfg.Classes = append([]string(nil), cfg.Classes...)
	cfg.Choices = append([]Choice(nil), cfg.Choices...)
	cfg.DataAttributes = cfg.DataAttributes.Clone()

	f := &Field{
		Config:    cfg,
		variant:   v,
		condition: ParseCondition(cfg.ValidateIf),
	}

	if cfg.Pattern != "" {
		source, err := regexp.Compile(cfg.Pattern)
		if err != nil {
			return nil, fmt.Errorf("field: %q pattern: %w", cfg.ID, err)
		}
		f.pattern = source
		f.matcher = regexp.MustCompile(`^(?:` + cfg.Pattern + `)$`)
	}
	return f, nil
}

// MustNew is New that panics on configuration errors. Intended for package
// level form definitions.
func MustNew(cfg Config) *Field {
	f, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return f
}

// Named returns a copy with id and label filled in when they are unset.
func (f *Field) Named(id, label string) *Field {
	clone := *f
	if clone.ID == "" {
		clone.ID = id
	}
	if clone.Label == "" && !clone.HideLabel {
		clone.Label = label
	}
	return &clone
}

// DataType is the value of the wrapper's data-type attribute: the declared
// field type. InputType only drives the control's type attribute.
func (f *Field) DataType() string {
	return string(f.Type)
}

// AvailableAttributes lists the attribute names the field renders from its
// own configuration.
func (f *Field) AvailableAttributes() []string {
	return append([]string(nil), f.variant.attributes...)
}

// Condition returns the parsed validateif expression.
func (f *Field) Condition() Condition {
	return f.condition
}

// ValidID returns the id used in markup: brackets become underscores and
// adjacent "][" collapse into one.
func ValidID(id string) string {
	if id == "" {
		return ""
	}
	id = strings.ReplaceAll(id, "][", "_")
	return strings.NewReplacer("[", "_", "]", "_").Replace(id)
}

func (f *Field) attributeValue(name string) (any, bool) {
	switch name {
	case "type":
		return stringAttr(f.InputType)
	case "autofocus":
		return boolAttr(f.Autofocus)
	case "disabled":
		return boolAttr(f.Disabled)
	case "form":
		return stringAttr(f.Form)
	case "formaction":
		return stringAttr(f.FormAction)
	case "formenctype":
		return stringAttr(f.FormEnctype)
	case "formmethod":
		return stringAttr(f.FormMethod)
	case "formnovalidate":
		return boolAttr(f.FormNoValidate)
	case "formtarget":
		return stringAttr(f.FormTarget)
	case "value":
		if f.Value == nil {
			return nil, false
		}
		return f.Value, true
	case "required":
		return boolAttr(f.Required)
	case "selectiondirection":
		return stringAttr(f.SelectionDirection)
	case "autocomplete":
		return stringAttr(f.Autocomplete)
	case "inputmode":
		return stringAttr(f.InputMode)
	case "list":
		return stringAttr(f.List)
	case "minlength":
		return intAttr(f.MinLength)
	case "maxlength":
		return intAttr(f.MaxLength)
	case "spellcheck":
		return boolAttr(f.Spellcheck)
	case "readonly":
		return boolAttr(f.Readonly)
	case "placeholder":
		return stringAttr(f.Placeholder)
	case "pattern":
		if f.pattern == nil {
			return nil, false
		}
		return f.pattern, true
	case "step":
		return stringAttr(f.Step)
	case "match":
		return stringAttr(f.Match)
	case "validateif":
		return stringAttr(f.ValidateIf)
	case "name":
		return stringAttr(f.Name)
	case "accept":
		return stringAttr(f.Accept)
	case "multiple":
		return boolAttr(f.Multiple)
	}
	return nil, false
}

func stringAttr(value string) (any, bool) {
	return value, value != ""
}

func boolAttr(value bool) (any, bool) {
	return value, value
}

func intAttr(value int) (any, bool) {
	return value, value > 0
}

// unset turns empty strings into nil so the attribute is skipped.
func unset(value string) any {
	if value == "" {
		return nil
	}
	return value
}
