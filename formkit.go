// Package formkit builds HTML forms from a field schema, validates
// submissions against it and drives the redirect-after-post lifecycle.
//
// The root package wires the sub packages together for the common paths:
//
//	f, err := formkit.Load(schemas, "contact.yaml")
//	http.Handle("/contact", formkit.Handler(f))
package formkit

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/httpform"
	"github.com/goliatone/go-formkit/pkg/openapi"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// Form aliases form.Form for callers that only import the root package.
type Form = form.Form

// Schema aliases schema.Schema.
type Schema = schema.Schema

// FieldConfig aliases field.Config.
type FieldConfig = field.Config

// OptionFn aliases form.OptionFn.
type OptionFn = form.OptionFn

// New builds a form from an in-memory schema.
func New(name string, s Schema, opts ...OptionFn) (*Form, error) {
	return form.New(name, s, opts...)
}

// MustNew is New that panics on configuration errors.
func MustNew(name string, s Schema, opts ...OptionFn) *Form {
	return form.MustNew(name, s, opts...)
}

// Load reads the schema document at name from fsys and builds its form. The
// document's form section is applied first so opts can override it. A
// document without a name is named after its file.
func Load(fsys fs.FS, name string, opts ...OptionFn) (*Form, error) {
	doc, err := schema.LoadFS(fsys, name)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc, opts...)
}

// FromDocument builds the form described by a parsed schema document.
func FromDocument(doc schema.Document, opts ...OptionFn) (*Form, error) {
	formName := doc.Name
	if formName == "" {
		base := path.Base(doc.Source)
		formName = strings.TrimSuffix(base, path.Ext(base))
	}
	all := append([]OptionFn{form.WithConfig(doc.Form)}, opts...)
	f, err := form.New(formName, doc.Schema, all...)
	if err != nil {
		return nil, fmt.Errorf("formkit: %s: %w", doc.Source, err)
	}
	return f, nil
}

// FromOpenAPI loads an OpenAPI document and builds a form for the request
// body of operationID. The form posts back to the operation path.
func FromOpenAPI(ctx context.Context, loader *openapi.Loader, src openapi.Source, operationID string, opts ...OptionFn) (*Form, error) {
	if loader == nil {
		loader = openapi.NewLoader()
	}
	raw, err := loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	op, err := openapi.Lookup(ctx, raw, operationID)
	if err != nil {
		return nil, err
	}
	doc, err := openapi.DocumentFromOperation(op)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc, opts...)
}

// Handler serves f over net/http. See httpform for the available options.
func Handler(f *Form, fns ...httpform.OptionFn) http.Handler {
	return httpform.Handler(f, fns...)
}
