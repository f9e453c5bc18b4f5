package openapi

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// ErrUnsupportedProperty is returned for request body properties that have no
// field kind, such as nested objects.
var ErrUnsupportedProperty = errors.New("openapi: unsupported property")

// OrderExtension sets the position of a property within the form. Properties
// without it follow the ordered ones, sorted by name.
const OrderExtension = "x-order"

// SchemaFromOperation maps the request body properties of op to field
// declarations. Read only properties are skipped.
func SchemaFromOperation(op Operation) (schema.Schema, error) {
	body := op.Body
	if body == nil {
		return nil, fmt.Errorf("openapi: operation %q has no request body", op.ID)
	}
	if !isType(body.Type, openapi3.TypeObject) && len(body.Properties) == 0 {
		return nil, fmt.Errorf("openapi: operation %q request body is not an object", op.ID)
	}

	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}

	var out schema.Schema
	for _, name := range orderedProperties(body.Properties) {
		prop := body.Properties[name].Value
		if prop == nil || prop.ReadOnly {
			continue
		}
		cfg, err := fieldConfig(prop)
		if err != nil {
			return nil, fmt.Errorf("%w %q in operation %q: %v", ErrUnsupportedProperty, name, op.ID, err)
		}
		cfg.Required = required[name]
		out = append(out, schema.Field(name, cfg))
	}
	return out, nil
}

// DocumentFromOperation wraps SchemaFromOperation in a schema document whose
// form posts back to the operation. Operations other than GET keep the form
// method at post.
func DocumentFromOperation(op Operation) (schema.Document, error) {
	fields, err := SchemaFromOperation(op)
	if err != nil {
		return schema.Document{}, err
	}
	method := "post"
	if op.Method == http.MethodGet {
		method = "get"
	}
	return schema.Document{
		Name:   op.ID,
		Source: op.Method + " " + op.Path,
		Form:   schema.FormConfig{Action: op.Path, Method: method},
		Schema: fields,
	}, nil
}

func fieldConfig(prop *openapi3.Schema) (field.Config, error) {
	cfg := field.Config{
		Label:     prop.Title,
		MinLength: int(prop.MinLength),
		Pattern:   prop.Pattern,
		Value:     prop.Default,
	}
	if prop.MaxLength != nil {
		cfg.MaxLength = int(*prop.MaxLength)
	}
	if example, ok := prop.Example.(string); ok {
		cfg.Placeholder = example
	}

	if len(prop.Enum) > 0 {
		cfg.Type = field.TypeSelect
		cfg.Choices = field.Choices(prop.Enum...)
		return cfg, nil
	}

	switch {
	case isType(prop.Type, openapi3.TypeString):
		cfg.Type = stringType(prop.Format)
	case isType(prop.Type, openapi3.TypeInteger):
		cfg.Type = field.TypeNumber
		cfg.Step = "1"
	case isType(prop.Type, openapi3.TypeNumber):
		cfg.Type = field.TypeNumber
	case isType(prop.Type, openapi3.TypeBoolean):
		cfg.Type = field.TypeCheckbox
	case isType(prop.Type, openapi3.TypeArray):
		items := prop.Items
		if items == nil || items.Value == nil || !isType(items.Value.Type, openapi3.TypeString) || items.Value.Format != "binary" {
			return cfg, errors.New("only arrays of binary strings are supported")
		}
		cfg.Type = field.TypeFile
		cfg.Multiple = true
	default:
		return cfg, fmt.Errorf("type %q", strings.Join(typeNames(prop.Type), ","))
	}
	return cfg, nil
}

func stringType(format string) field.Type {
	switch format {
	case "email":
		return field.TypeEmail
	case "uri", "url":
		return field.TypeURL
	case "date":
		return field.TypeDate
	case "date-time":
		return field.TypeDatetimeLocal
	case "time":
		return field.TypeTime
	case "password":
		return field.TypePassword
	case "binary":
		return field.TypeFile
	default:
		return field.TypeString
	}
}

func isType(types *openapi3.Types, name string) bool {
	for _, t := range typeNames(types) {
		if t == name {
			return true
		}
	}
	return false
}

func typeNames(types *openapi3.Types) []string {
	if types == nil {
		return nil
	}
	return types.Slice()
}

func orderedProperties(props openapi3.Schemas) []string {
	names := make([]string, 0, len(props))
	for name, ref := range props {
		if ref != nil {
			names = append(names, name)
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, iok := order(props[names[i]].Value)
		oj, jok := order(props[names[j]].Value)
		switch {
		case iok && jok && oi != oj:
			return oi < oj
		case iok != jok:
			return iok
		default:
			return names[i] < names[j]
		}
	})
	return names
}

func order(prop *openapi3.Schema) (float64, bool) {
	if prop == nil {
		return 0, false
	}
	switch v := prop.Extensions[OrderExtension].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
