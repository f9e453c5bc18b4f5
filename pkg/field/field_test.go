package field_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/formerror"
	"github.com/goliatone/go-formkit/pkg/htmltag"
)

func mustField(t *testing.T, cfg field.Config) *field.Field {
	t.Helper()
	f, err := field.New(cfg)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	return f
}

func TestNewRejectsUnknownType(t *testing.T) {
	t.Parallel()

	_, err := field.New(field.Config{ID: "x", Type: "colour"})
	if !errors.Is(err, field.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if _, err := field.New(field.Config{ID: "x", Pattern: "("}); err == nil {
		t.Fatalf("expected invalid pattern to fail")
	}
}

func TestRegistryCoversEveryType(t *testing.T) {
	t.Parallel()

	want := []field.Type{
		"checkbox", "color", "date", "datetime", "datetime-local", "email", "file",
		"hidden", "month", "number", "password", "radio", "search", "select",
		"string", "tel", "text", "time", "url", "week",
	}
	if diff := cmp.Diff(want, field.Types()); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}

	for _, typ := range field.Types() {
		f := mustField(t, field.Config{ID: "x", Type: typ})
		switch typ {
		case field.TypeSelect:
			if f.InputType != "" || f.TagName != "select" {
				t.Fatalf("select: unexpected input type %q / tag %q", f.InputType, f.TagName)
			}
		case field.TypeString:
			if f.InputType != "text" {
				t.Fatalf("string: expected text input, got %q", f.InputType)
			}
		default:
			if f.InputType != string(typ) {
				t.Fatalf("%s: unexpected input type %q", typ, f.InputType)
			}
		}
	}
}

func TestAvailableAttributes(t *testing.T) {
	t.Parallel()

	file := mustField(t, field.Config{Type: field.TypeFile})
	want := []string{"type", "autofocus", "disabled", "form", "formaction",
		"formenctype", "formmethod", "formnovalidate", "formtarget", "value",
		"required", "selectiondirection", "accept", "multiple", "placeholder"}
	if diff := cmp.Diff(want, file.AvailableAttributes()); diff != "" {
		t.Fatalf("file attributes mismatch (-want +got):\n%s", diff)
	}

	sel := mustField(t, field.Config{Type: field.TypeSelect})
	for _, name := range sel.AvailableAttributes() {
		if name == "pattern" || name == "minlength" {
			t.Fatalf("select should not render %s", name)
		}
	}
}

func TestLabelHTML(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		cfg  field.Config
		opts field.RenderOptions
		want string
	}{
		{
			name: "configured label",
			cfg:  field.Config{ID: "foo", Label: "bar"},
			want: `<label for="foo">bar</label>`,
		},
		{
			name: "override",
			cfg:  field.Config{ID: "foo", Label: "bar"},
			opts: field.RenderOptions{Label: "baz"},
			want: `<label for="foo">baz</label>`,
		},
		{
			name: "hidden label",
			cfg:  field.Config{ID: "foo", Label: "bar", HideLabel: true},
			want: ``,
		},
		{
			name: "optional indicator",
			cfg:  field.Config{ID: "foo", Label: "baz", Optional: true},
			want: `<label for="foo">baz<span class="optionalIndicator">(optional)</span></label>`,
		},
		{
			name: "custom optional text",
			cfg:  field.Config{ID: "foo", Label: "baz", Optional: true, OptionalText: "This field is not required"},
			want: `<label for="foo">baz<span class="optionalIndicator">This field is not required</span></label>`,
		},
		{
			name: "for override",
			cfg:  field.Config{ID: "foo", Label: "bar"},
			opts: field.RenderOptions{For: "other"},
			want: `<label for="other">bar</label>`,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := mustField(t, tc.cfg).LabelHTML(tc.opts)
			if got != tc.want {
				t.Fatalf("label mismatch\nwant: %s\n got: %s", tc.want, got)
			}
		})
	}
}

func TestWidgetHTML(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		cfg   field.Config
		value any
		want  string
	}{
		{
			name: "name defaults to id",
			cfg:  field.Config{ID: "foo"},
			want: `<input type="text" name="foo" id="foo"/>`,
		},
		{
			name: "configured attributes in declared order",
			cfg: field.Config{ID: "foo", Type: field.TypeText, Autofocus: true,
				Disabled: true, Form: "a", FormAction: "/", FormEnctype: "utf-8",
				FormMethod: "post", FormNoValidate: true, FormTarget: "a", Value: "foo",
				Required: true, SelectionDirection: "rtl"},
			want: `<input type="text" autofocus="true" disabled="true" ` +
				`form="a" formaction="/" formenctype="utf-8" formmethod="post" ` +
				`formnovalidate="true" formtarget="a" value="foo" required="true" ` +
				`selectiondirection="rtl" name="foo" id="foo" data-message-valueMissing="This field is required"/>`,
		},
		{
			name: "bracketed ids are sanitised",
			cfg:  field.Config{ID: "[fancy][id]"},
			want: `<input type="text" name="[fancy][id]" id="_fancy_id_"/>`,
		},
		{
			name: "own value",
			cfg:  field.Config{ID: "foo", Value: "a"},
			want: `<input type="text" value="a" name="foo" id="foo"/>`,
		},
		{
			name:  "value override keeps position",
			cfg:   field.Config{ID: "foo", Value: "a"},
			value: "foo",
			want:  `<input type="text" value="foo" name="foo" id="foo"/>`,
		},
		{
			name:  "value quotes are escaped",
			cfg:   field.Config{ID: "foo"},
			value: `say "hi"`,
			want:  `<input type="text" name="foo" id="foo" value="say &quot;hi&quot;"/>`,
		},
		{
			name: "string message",
			cfg:  field.Config{Message: field.Text("Foo")},
			want: `<input type="text" data-message="Foo"/>`,
		},
		{
			name: "message map follows validity state order",
			cfg: field.Config{Message: field.ByKind(map[field.Kind]string{
				formerror.BadInput:        "Some bad input",
				formerror.CustomError:     "Oops",
				formerror.PatternMismatch: "Not valid",
				formerror.RangeOverflow:   "Too big",
				formerror.RangeUnderflow:  "Too small",
				formerror.StepMismatch:    "Step wrong",
				formerror.TooLong:         "Too long",
				formerror.TypeMismatch:    "Wrong type",
				formerror.ValueMissing:    "Missing",
				formerror.NoMatch:         "Not matching",
			})},
			want: `<input type="text" ` +
				`data-message-badInput="Some bad input" ` +
				`data-message-customError="Oops" ` +
				`data-message-patternMismatch="Not valid" ` +
				`data-message-rangeOverflow="Too big" ` +
				`data-message-rangeUnderflow="Too small" ` +
				`data-message-stepMismatch="Step wrong" ` +
				`data-message-tooLong="Too long" ` +
				`data-message-typeMismatch="Wrong type" ` +
				`data-message-valueMissing="Missing" ` +
				`data-message-noMatch="Not matching"/>`,
		},
		{
			name: "unknown message keys are ignored",
			cfg:  field.Config{Message: field.ByKind(map[field.Kind]string{"foo": "Foo", "bar": "Bar"})},
			want: `<input type="text"/>`,
		},
		{
			name: "maxlength",
			cfg:  field.Config{MaxLength: 5},
			want: `<input type="text" maxlength="5" data-message-tooLong="Please use 5 characters or less"/>`,
		},
		{
			name: "required",
			cfg:  field.Config{Required: true},
			want: `<input type="text" required="true" data-message-valueMissing="This field is required"/>`,
		},
		{
			name: "pattern renders its source",
			cfg:  field.Config{Pattern: `\d{4}`},
			want: `<input type="text" pattern="\d{4}" data-message-patternMismatch="Please use the required format"/>`,
		},
		{
			name: "match",
			cfg:  field.Config{ID: "confirm", Match: "password"},
			want: `<input type="text" match="password" name="confirm" id="confirm" data-message-noMatch="confirm must match password"/>`,
		},
		{
			name: "email advertises typeMismatch",
			cfg:  field.Config{ID: "mail", Type: field.TypeEmail},
			want: `<input type="email" name="mail" id="mail" data-message-typeMismatch="Please enter a valid email"/>`,
		},
		{
			name: "select renders options",
			cfg: field.Config{ID: "select", Type: field.TypeSelect, Label: "label",
				Choices: field.Choices("Mr", map[string]any{"Mrs": "Mrs"}, "Miss"), Required: true},
			want: `<select required="true" name="select" id="select" data-message-valueMissing="This field is required">` +
				`<option value="Mr">Mr</option><option value="Mrs">Mrs</option><option value="Miss">Miss</option></select>`,
		},
		{
			name:  "select marks the current option",
			cfg:   field.Config{ID: "title", Type: field.TypeSelect, Choices: field.Choices(map[string]any{"Doctor": "dr"}, "Mr")},
			value: "dr",
			want:  `<select name="title" id="title" value="dr"><option value="dr" selected="true">Doctor</option><option value="Mr">Mr</option></select>`,
		},
		{
			name:  "checkbox is checked when the value matches",
			cfg:   field.Config{ID: "checkbox", Type: field.TypeCheckbox, Label: "label"},
			value: true,
			want:  `<input type="checkbox" value="true" name="checkbox" id="checkbox" checked="true"/>`,
		},
		{
			name: "checkbox without a value is unchecked",
			cfg:  field.Config{ID: "checkbox", Type: field.TypeCheckbox},
			want: `<input type="checkbox" value="true" name="checkbox" id="checkbox"/>`,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := mustField(t, tc.cfg).WidgetHTML(tc.value, field.RenderOptions{})
			if got != tc.want {
				t.Fatalf("widget mismatch\nwant: %s\n got: %s", tc.want, got)
			}
		})
	}
}

func TestWidgetHTMLHidesMessagesWhenErrorsAreHidden(t *testing.T) {
	t.Parallel()

	f := mustField(t, field.Config{ID: "foo", Required: true, Message: field.Text("Foo")})
	got := f.WidgetHTML(nil, field.RenderOptions{HideErrors: true})
	want := `<input type="text" required="true" name="foo" id="foo"/>`
	if got != want {
		t.Fatalf("widget mismatch\nwant: %s\n got: %s", want, got)
	}
}

func TestErrorHTML(t *testing.T) {
	t.Parallel()

	f := mustField(t, field.Config{Value: "a", Pattern: "a"})
	if got := f.ErrorHTML(nil, field.RenderOptions{}, field.Context{}); got != "" {
		t.Fatalf("expected no error, got %s", got)
	}
	if got := f.ErrorHTML("b", field.RenderOptions{}, field.Context{}); got != `<label class="fieldError">Please use the required format</label>` {
		t.Fatalf("unexpected pattern error: %s", got)
	}

	required := mustField(t, field.Config{ID: "name", Required: true, Value: "a"})
	if got := required.ErrorHTML("", field.RenderOptions{}, field.Context{}); got != `<label for="name" class="fieldError">This field is required</label>` {
		t.Fatalf("unexpected required error: %s", got)
	}
	if got := required.ErrorHTML("", field.RenderOptions{HideErrors: true}, field.Context{}); got != "" {
		t.Fatalf("expected hidden errors, got %s", got)
	}
}

func TestHTMLWrapsFragments(t *testing.T) {
	t.Parallel()

	f := mustField(t, field.Config{ID: "foo", Label: "Foo", Required: true})
	opts := field.RenderOptions{}
	inner := f.LabelHTML(opts) + f.WidgetHTML("x", opts) + f.ErrorHTML("x", opts, field.Context{})

	if got, want := f.HTML("x", opts, field.Context{}), `<div class="field" data-type="string">`+inner+`</div>`; got != want {
		t.Fatalf("html mismatch\nwant: %s\n got: %s", want, got)
	}
	if got, want := f.HTML("x", field.RenderOptions{FieldWrapperTagName: "li"}, field.Context{}), `<li class="field" data-type="string">`+inner+`</li>`; got != want {
		t.Fatalf("html mismatch\nwant: %s\n got: %s", want, got)
	}

	custom := mustField(t, field.Config{ID: "foo", FieldWrapperTagName: "p", Classes: []string{"a", "b"},
		DataAttributes: htmltag.Attrs{{Name: "foo", Value: "bar"}, {Name: "baz", Value: "bang"}}})
	want := `<p class="field a b" data-type="string" data-foo="bar" data-baz="bang"><input type="text" name="foo" id="foo"/></p>`
	if got := custom.HTML(nil, opts, field.Context{}); got != want {
		t.Fatalf("html mismatch\nwant: %s\n got: %s", want, got)
	}
}

func TestHTMLLayouts(t *testing.T) {
	t.Parallel()

	checkbox := mustField(t, field.Config{ID: "agree", Type: field.TypeCheckbox, Label: "Agree"})
	want := `<div class="field" data-type="checkbox"><input type="checkbox" value="true" name="agree" id="agree"/><label for="agree">Agree</label></div>`
	if got := checkbox.HTML(nil, field.RenderOptions{}, field.Context{}); got != want {
		t.Fatalf("checkbox mismatch\nwant: %s\n got: %s", want, got)
	}

	hidden := mustField(t, field.Config{ID: "token", Type: field.TypeHidden, Label: "Token", Required: true})
	want = `<input type="hidden" required="true" name="token" id="token" value="abc" data-message-valueMissing="This field is required"/>`
	if got := hidden.HTML("abc", field.RenderOptions{}, field.Context{}); got != want {
		t.Fatalf("hidden mismatch\nwant: %s\n got: %s", want, got)
	}
}

func TestNamedFillsIdentity(t *testing.T) {
	t.Parallel()

	base := mustField(t, field.Config{Type: field.TypeNumber})
	named := base.Named("age", "Age")
	if named.ID != "age" || named.Label != "Age" {
		t.Fatalf("unexpected identity: %q %q", named.ID, named.Label)
	}
	if base.ID != "" {
		t.Fatalf("Named must not mutate the receiver")
	}
	if got := named.DataType(); got != "number" {
		t.Fatalf("unexpected data type %q", got)
	}
}

func TestDataTypeFollowsFieldType(t *testing.T) {
	t.Parallel()

	search := mustField(t, field.Config{ID: "q", Type: field.TypeString, InputType: "search"})
	if got := search.DataType(); got != "string" {
		t.Fatalf("unexpected data type %q", got)
	}
	want := `<div class="field" data-type="string"><input type="search" name="q" id="q"/></div>`
	if got := search.HTML(nil, field.RenderOptions{}, field.Context{}); got != want {
		t.Fatalf("html mismatch\nwant: %s\n got: %s", want, got)
	}
}
