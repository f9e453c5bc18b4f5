package schema

import (
	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/htmltag"
)

// Schema is an ordered list of field declarations and fieldsets.
type Schema []Entry

// Entry declares one field, either as configuration or as a pre-built
// instance, or a fieldset grouping further entries. Exactly one of Config,
// Instance and Fieldset is set.
type Entry struct {
	Name     string
	Config   *field.Config
	Instance *field.Field
	Fieldset *Fieldset
}

// Fieldset groups fields for rendering. It has no effect on validation.
type Fieldset struct {
	ID     string
	Legend string
	Fields Schema
}

// Field declares a field from configuration.
func Field(name string, cfg field.Config) Entry {
	return Entry{Name: name, Config: &cfg}
}

// Instance declares a pre-built field.
func Instance(name string, f *field.Field) Entry {
	return Entry{Name: name, Instance: f}
}

// Set declares a fieldset.
func Set(id, legend string, fields ...Entry) Entry {
	return Entry{Name: id, Fieldset: &Fieldset{ID: id, Legend: legend, Fields: fields}}
}

// HasFieldsets reports whether any top level entry is a fieldset.
func (s Schema) HasFieldsets() bool {
	for _, entry := range s {
		if entry.Fieldset != nil {
			return true
		}
	}
	return false
}

// Names returns the field names in declaration order, fieldsets flattened.
func (s Schema) Names() []string {
	var names []string
	for _, entry := range s {
		if entry.Fieldset != nil {
			names = append(names, entry.Fieldset.Fields.Names()...)
			continue
		}
		names = append(names, entry.Name)
	}
	return names
}

// FormConfig carries the form options a schema document may declare. Empty
// values leave the defaults in place.
type FormConfig struct {
	ID                            string
	Action                        string
	Method                        string
	Template                      string
	SuccessTemplate               string
	Role                          string
	Classes                       []string
	NoValidate                    bool
	RedirectURL                   string
	SuccessMessage                string
	ErrorMessage                  string
	SubmitTagName                 string
	SubmitAttrs                   htmltag.Attrs
	SubmitLabel                   string
	ButtonSetTagName              string
	ButtonSetAttrs                htmltag.Attrs
	AdditionalButtonSetHTML       string
	AdditionalButtonSetHTMLToLeft bool
	FieldWrapperTagName           string
}

// Document is a parsed schema file.
type Document struct {
	Name   string
	Source string
	Form   FormConfig
	Schema Schema
}
