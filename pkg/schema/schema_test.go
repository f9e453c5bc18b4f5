package schema_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/formerror"
	"github.com/goliatone/go-formkit/pkg/htmltag"
	"github.com/goliatone/go-formkit/pkg/schema"
)

const contactYAML = `
name: contact
form:
  action: /contact
  classes: [stacked, wide]
  successMessage: Thanks
  submitAttrs:
    type: submit
    class: primary
fields:
  firstName:
    type: string
    required: true
    message:
      valueMissing: Tell us your name
  email:
    type: email
    label: Your e-mail
    optional: true
  title:
    type: select
    choices:
      - Mr
      - Mrs: mrs
  token:
    type: hidden
    label: false
  details:
    legend: Details
    fields:
      age: {type: number, maxlength: 3}
      confirm:
        match: email
        validateif: [email, "&"]
        dataAttributes:
          role: confirm
          order: 2
`

func TestParseKeepsDeclarationOrder(t *testing.T) {
	t.Parallel()

	doc, err := schema.Parse([]byte(contactYAML), "contact.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if doc.Name != "contact" {
		t.Fatalf("unexpected name %q", doc.Name)
	}
	if diff := cmp.Diff([]string{"firstName", "email", "title", "token", "age", "confirm"}, doc.Schema.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if !doc.Schema.HasFieldsets() {
		t.Fatalf("expected a fieldset")
	}

	first := doc.Schema[0].Config
	if first.Type != field.TypeString || !first.Required {
		t.Fatalf("unexpected firstName config: %+v", first)
	}
	if first.Message.ByKind[formerror.ValueMissing] != "Tell us your name" {
		t.Fatalf("message map not decoded: %+v", first.Message)
	}

	email := doc.Schema[1].Config
	if email.Label != "Your e-mail" || !email.Optional {
		t.Fatalf("unexpected email config: %+v", email)
	}

	title := doc.Schema[2].Config
	want := []field.Choice{{Label: "Mr", Value: "Mr"}, {Label: "Mrs", Value: "mrs"}}
	if diff := cmp.Diff(want, title.Choices); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}

	if !doc.Schema[3].Config.HideLabel {
		t.Fatalf("label: false should hide the label")
	}

	set := doc.Schema[4].Fieldset
	if set == nil || set.Legend != "Details" || doc.Schema[4].Name != "details" {
		t.Fatalf("unexpected fieldset: %+v", doc.Schema[4])
	}
	confirm := set.Fields[1].Config
	if confirm.ValidateIf != "email, &" || confirm.Match != "email" {
		t.Fatalf("unexpected confirm config: %+v", confirm)
	}
	if diff := cmp.Diff(htmltag.Attrs{{Name: "role", Value: "confirm"}, {Name: "order", Value: 2}}, confirm.DataAttributes); diff != "" {
		t.Fatalf("data attributes mismatch (-want +got):\n%s", diff)
	}

	if doc.Form.Action != "/contact" || doc.Form.SuccessMessage != "Thanks" {
		t.Fatalf("unexpected form config: %+v", doc.Form)
	}
	if diff := cmp.Diff([]string{"stacked", "wide"}, doc.Form.Classes); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}
	if got := doc.Form.SubmitAttrs.String(); got != ` type="submit" class="primary"` {
		t.Fatalf("unexpected submit attrs %q", got)
	}
}

func TestParseJSON(t *testing.T) {
	t.Parallel()

	doc, err := schema.Parse([]byte(`{"fieldsets":[{"legend":"Who","fields":{"b":{"type":"text"},"a":{"type":"number"}}}]}`), "inline.json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff([]string{"b", "a"}, doc.Schema.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if doc.Schema[0].Fieldset.Legend != "Who" {
		t.Fatalf("unexpected legend")
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":          ``,
		"unknown key":    "fields:\n  a: {colour: red}\n",
		"no fields":      "name: x\n",
		"bad label":      "fields:\n  a: {label: true}\n",
		"bad choices":    "fields:\n  a: {choices: nope}\n",
		"nested sets":    "fields:\n  s:\n    fields:\n      t:\n        fields:\n          a: {}\n",
		"not a mapping":  "- a\n- b\n",
		"duplicate name": "fields:\n  a: {}\n  a: {}\n",
	}
	for name, input := range cases {
		name, input := name, input
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := schema.Parse([]byte(input), "bad.yaml"); err == nil {
				t.Fatalf("expected an error")
			} else if !strings.HasPrefix(err.Error(), "schema: ") {
				t.Fatalf("expected package prefix, got %v", err)
			}
		})
	}
}

func TestLoadFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"forms/contact.yaml": {Data: []byte(contactYAML)},
		"forms/readme.txt":   {Data: []byte("nope")},
	}
	doc, err := schema.LoadFS(fsys, "forms/contact.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Source != "forms/contact.yaml" || len(doc.Schema) != 5 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if _, err := schema.LoadFS(fsys, "forms/readme.txt"); err == nil {
		t.Fatalf("expected non-schema file to be rejected")
	}
	if _, err := schema.LoadFS(fsys, "forms/missing.yaml"); err == nil {
		t.Fatalf("expected missing file to fail")
	}
}

func TestDefaultLabel(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"firstName":  "First name",
		"lastName":   "Last name",
		"age":        "Age",
		"user_id":    "User id",
		"address2":   "Address 2",
		"postalCode": "Postal code",
		"":           "",
	}
	for input, want := range cases {
		if got := schema.DefaultLabel(input); got != want {
			t.Fatalf("DefaultLabel(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestBuilders(t *testing.T) {
	t.Parallel()

	s := schema.Schema{
		schema.Field("name", field.Config{Required: true}),
		schema.Set("extra", "Extra", schema.Instance("age", field.MustNew(field.Config{Type: field.TypeNumber}))),
	}
	if diff := cmp.Diff([]string{"name", "age"}, s.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if s[1].Fieldset.ID != "extra" || s[1].Fieldset.Fields[0].Instance == nil {
		t.Fatalf("unexpected fieldset entry: %+v", s[1])
	}
}
