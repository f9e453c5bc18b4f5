package schema

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/formerror"
	"github.com/goliatone/go-formkit/pkg/htmltag"
)

// LoadFS reads and parses the JSON or YAML schema document at name.
func LoadFS(fsys fs.FS, name string) (Document, error) {
	if fsys == nil {
		return Document{}, fmt.Errorf("schema: filesystem is nil")
	}
	if !isSchemaFile(name) {
		return Document{}, fmt.Errorf("schema: %s is not a .json, .yaml or .yml file", name)
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Document{}, fmt.Errorf("schema: read %s: %w", name, err)
	}
	return Parse(data, name)
}

// Parse decodes a schema document. JSON is accepted as a YAML subset. Field
// order follows the document.
//
//	name: contact
//	form: {action: /contact, classes: [stacked]}
//	fields:
//	  firstName: {type: string, required: true}
//	  details:
//	    legend: Details
//	    fields:
//	      age: {type: number}
func Parse(data []byte, source string) (Document, error) {
	doc := Document{Source: source}
	if strings.TrimSpace(string(data)) == "" {
		return doc, fmt.Errorf("schema: file %s is empty", source)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return doc, fmt.Errorf("schema: parse %s: %w", source, err)
	}
	top := &root
	if top.Kind == yaml.DocumentNode && len(top.Content) > 0 {
		top = top.Content[0]
	}

	p := parser{source: source}
	pairs, err := p.mapping(top, "document")
	if err != nil {
		return doc, err
	}
	for _, pair := range pairs {
		switch pair.key {
		case "name":
			err = p.decode(pair.value, &doc.Name, "name")
		case "form":
			doc.Form, err = p.formConfig(pair.value)
		case "fields":
			var entries Schema
			entries, err = p.entries(pair.value, "fields")
			doc.Schema = append(doc.Schema, entries...)
		case "fieldsets":
			var sets Schema
			sets, err = p.fieldsets(pair.value)
			doc.Schema = append(doc.Schema, sets...)
		default:
			err = p.errorf(pair.value, "unknown document key %q", pair.key)
		}
		if err != nil {
			return doc, err
		}
	}
	if len(doc.Schema) == 0 {
		return doc, fmt.Errorf("schema: file %s declares no fields", source)
	}
	return doc, nil
}

type pair struct {
	key   string
	value *yaml.Node
}

type parser struct {
	source string
}

func (p parser) errorf(node *yaml.Node, format string, args ...any) error {
	line := 0
	if node != nil {
		line = node.Line
	}
	return fmt.Errorf("schema: %s:%d: %s", p.source, line, fmt.Sprintf(format, args...))
}

func (p parser) mapping(node *yaml.Node, what string) ([]pair, error) {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil, p.errorf(node, "%s must be a mapping", what)
	}
	pairs := make([]pair, 0, len(node.Content)/2)
	for idx := 0; idx+1 < len(node.Content); idx += 2 {
		pairs = append(pairs, pair{key: node.Content[idx].Value, value: node.Content[idx+1]})
	}
	return pairs, nil
}

func (p parser) decode(node *yaml.Node, out any, what string) error {
	if err := node.Decode(out); err != nil {
		return p.errorf(node, "%s: %v", what, err)
	}
	return nil
}

func (p parser) entries(node *yaml.Node, what string) (Schema, error) {
	pairs, err := p.mapping(node, what)
	if err != nil {
		return nil, err
	}
	out := make(Schema, 0, len(pairs))
	seen := make(map[string]struct{}, len(pairs))
	for _, pair := range pairs {
		name := strings.TrimSpace(pair.key)
		if name == "" {
			return nil, p.errorf(pair.value, "%s contains an empty field name", what)
		}
		if _, dup := seen[name]; dup {
			return nil, p.errorf(pair.value, "duplicate field %q", name)
		}
		seen[name] = struct{}{}

		if isFieldset(pair.value) {
			set, err := p.fieldset(pair.value, name)
			if err != nil {
				return nil, err
			}
			out = append(out, set)
			continue
		}
		cfg, err := p.fieldConfig(pair.value, name)
		if err != nil {
			return nil, err
		}
		out = append(out, Field(name, cfg))
	}
	return out, nil
}

func isFieldset(node *yaml.Node) bool {
	if node.Kind != yaml.MappingNode {
		return false
	}
	for idx := 0; idx+1 < len(node.Content); idx += 2 {
		if node.Content[idx].Value == "fields" {
			return true
		}
	}
	return false
}

func (p parser) fieldsets(node *yaml.Node) (Schema, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, p.errorf(node, "fieldsets must be a list")
	}
	out := make(Schema, 0, len(node.Content))
	for idx, item := range node.Content {
		set, err := p.fieldset(item, fmt.Sprintf("fieldset%d", idx))
		if err != nil {
			return nil, err
		}
		out = append(out, set)
	}
	return out, nil
}

func (p parser) fieldset(node *yaml.Node, name string) (Entry, error) {
	pairs, err := p.mapping(node, "fieldset "+name)
	if err != nil {
		return Entry{}, err
	}
	set := &Fieldset{}
	for _, pair := range pairs {
		switch pair.key {
		case "id":
			err = p.decode(pair.value, &set.ID, "fieldset id")
		case "legend":
			err = p.decode(pair.value, &set.Legend, "fieldset legend")
		case "fields":
			set.Fields, err = p.entries(pair.value, "fieldset "+name)
		default:
			err = p.errorf(pair.value, "unknown fieldset key %q", pair.key)
		}
		if err != nil {
			return Entry{}, err
		}
	}
	if set.Fields.HasFieldsets() {
		return Entry{}, p.errorf(node, "fieldset %q cannot nest fieldsets", name)
	}
	entryName := set.ID
	if entryName == "" {
		entryName = name
	}
	return Entry{Name: entryName, Fieldset: set}, nil
}

func (p parser) fieldConfig(node *yaml.Node, name string) (field.Config, error) {
	var cfg field.Config
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return cfg, nil
	}
	pairs, err := p.mapping(node, "field "+name)
	if err != nil {
		return cfg, err
	}

	strs := map[string]*string{
		"id": &cfg.ID, "name": &cfg.Name, "tagName": &cfg.TagName, "inputType": &cfg.InputType,
		"pattern": &cfg.Pattern, "match": &cfg.Match, "fieldWrapperTagName": &cfg.FieldWrapperTagName,
		"form": &cfg.Form, "formaction": &cfg.FormAction, "formenctype": &cfg.FormEnctype,
		"formmethod": &cfg.FormMethod, "formtarget": &cfg.FormTarget,
		"selectiondirection": &cfg.SelectionDirection, "autocomplete": &cfg.Autocomplete,
		"inputmode": &cfg.InputMode, "list": &cfg.List, "placeholder": &cfg.Placeholder,
		"step": &cfg.Step, "accept": &cfg.Accept,
	}
	bools := map[string]*bool{
		"required": &cfg.Required, "autofocus": &cfg.Autofocus, "disabled": &cfg.Disabled,
		"formnovalidate": &cfg.FormNoValidate, "spellcheck": &cfg.Spellcheck,
		"readonly": &cfg.Readonly, "multiple": &cfg.Multiple,
	}
	ints := map[string]*int{"minlength": &cfg.MinLength, "maxlength": &cfg.MaxLength}

	for _, pair := range pairs {
		what := name + "." + pair.key
		if target, ok := strs[pair.key]; ok {
			err = p.decode(pair.value, target, what)
		} else if target, ok := bools[pair.key]; ok {
			err = p.decode(pair.value, target, what)
		} else if target, ok := ints[pair.key]; ok {
			err = p.decode(pair.value, target, what)
		} else {
			switch pair.key {
			case "type":
				var typ string
				err = p.decode(pair.value, &typ, what)
				cfg.Type = field.Type(typ)
			case "label":
				err = p.label(pair.value, &cfg, what)
			case "optional":
				err = p.optional(pair.value, &cfg, what)
			case "validateif":
				cfg.ValidateIf, err = p.validateIf(pair.value, what)
			case "message":
				cfg.Message, err = p.message(pair.value, what)
			case "choices":
				cfg.Choices, err = p.choices(pair.value, what)
			case "value":
				err = p.decode(pair.value, &cfg.Value, what)
			case "classes":
				cfg.Classes, err = p.classes(pair.value, what)
			case "dataAttributes":
				cfg.DataAttributes, err = p.attrs(pair.value, what)
			default:
				err = p.errorf(pair.value, "field %q: unknown option %q", name, pair.key)
			}
		}
		if err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func (p parser) label(node *yaml.Node, cfg *field.Config, what string) error {
	if node.Tag == "!!bool" {
		var show bool
		if err := p.decode(node, &show, what); err != nil {
			return err
		}
		if show {
			return p.errorf(node, "%s: only false is accepted as a boolean", what)
		}
		cfg.HideLabel = true
		return nil
	}
	return p.decode(node, &cfg.Label, what)
}

func (p parser) optional(node *yaml.Node, cfg *field.Config, what string) error {
	if node.Tag == "!!bool" {
		return p.decode(node, &cfg.Optional, what)
	}
	if err := p.decode(node, &cfg.OptionalText, what); err != nil {
		return err
	}
	cfg.Optional = cfg.OptionalText != ""
	return nil
}

func (p parser) validateIf(node *yaml.Node, what string) (string, error) {
	if node.Kind == yaml.SequenceNode {
		var ids []string
		if err := p.decode(node, &ids, what); err != nil {
			return "", err
		}
		return strings.Join(ids, ", "), nil
	}
	var expr string
	err := p.decode(node, &expr, what)
	return expr, err
}

func (p parser) message(node *yaml.Node, what string) (field.Message, error) {
	if node.Kind == yaml.ScalarNode {
		var text string
		err := p.decode(node, &text, what)
		return field.Text(text), err
	}
	var byKind map[string]string
	if err := p.decode(node, &byKind, what); err != nil {
		return field.Message{}, err
	}
	out := make(map[formerror.Kind]string, len(byKind))
	for kind, text := range byKind {
		out[formerror.Kind(kind)] = text
	}
	return field.ByKind(out), nil
}

func (p parser) choices(node *yaml.Node, what string) ([]field.Choice, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, p.errorf(node, "%s must be a list", what)
	}
	out := make([]field.Choice, 0, len(node.Content))
	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			var value any
			if err := p.decode(item, &value, what); err != nil {
				return nil, err
			}
			out = append(out, field.Choices(value)...)
		case yaml.MappingNode:
			if len(item.Content) != 2 {
				return nil, p.errorf(item, "%s: mapping choices need exactly one label", what)
			}
			var value any
			if err := p.decode(item.Content[1], &value, what); err != nil {
				return nil, err
			}
			out = append(out, field.Choice{Label: item.Content[0].Value, Value: value})
		default:
			return nil, p.errorf(item, "%s: unsupported choice", what)
		}
	}
	return out, nil
}

func (p parser) classes(node *yaml.Node, what string) ([]string, error) {
	if node.Kind == yaml.ScalarNode {
		var joined string
		if err := p.decode(node, &joined, what); err != nil {
			return nil, err
		}
		return strings.Fields(joined), nil
	}
	var classes []string
	err := p.decode(node, &classes, what)
	return classes, err
}

func (p parser) attrs(node *yaml.Node, what string) (htmltag.Attrs, error) {
	pairs, err := p.mapping(node, what)
	if err != nil {
		return nil, err
	}
	out := make(htmltag.Attrs, 0, len(pairs))
	for _, pair := range pairs {
		var value any
		if err := p.decode(pair.value, &value, what+"."+pair.key); err != nil {
			return nil, err
		}
		out.Set(pair.key, value)
	}
	return out, nil
}

func (p parser) formConfig(node *yaml.Node) (FormConfig, error) {
	var cfg FormConfig
	pairs, err := p.mapping(node, "form")
	if err != nil {
		return cfg, err
	}
	strs := map[string]*string{
		"id": &cfg.ID, "action": &cfg.Action, "method": &cfg.Method, "template": &cfg.Template,
		"successTemplate": &cfg.SuccessTemplate, "role": &cfg.Role, "redirectUrl": &cfg.RedirectURL,
		"successMessage": &cfg.SuccessMessage, "errorMessage": &cfg.ErrorMessage,
		"submitTagName": &cfg.SubmitTagName, "submitLabel": &cfg.SubmitLabel,
		"buttonSetTagName": &cfg.ButtonSetTagName, "additionalButtonSetHtml": &cfg.AdditionalButtonSetHTML,
		"fieldWrapperTagName": &cfg.FieldWrapperTagName,
	}
	for _, pair := range pairs {
		what := "form." + pair.key
		if target, ok := strs[pair.key]; ok {
			err = p.decode(pair.value, target, what)
		} else {
			switch pair.key {
			case "classes":
				cfg.Classes, err = p.classes(pair.value, what)
			case "novalidate":
				err = p.decode(pair.value, &cfg.NoValidate, what)
			case "additionalButtonSetHtmlToLeft":
				err = p.decode(pair.value, &cfg.AdditionalButtonSetHTMLToLeft, what)
			case "submitAttrs":
				cfg.SubmitAttrs, err = p.attrs(pair.value, what)
			case "buttonSetAttrs":
				cfg.ButtonSetAttrs, err = p.attrs(pair.value, what)
			default:
				err = p.errorf(pair.value, "unknown form option %q", pair.key)
			}
		}
		if err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func isSchemaFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
