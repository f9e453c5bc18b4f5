package testsupport

import (
	"io/fs"
	"testing"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// MustLoadDocument loads a schema document from fsys, failing the test on
// error.
func MustLoadDocument(t *testing.T, fsys fs.FS, name string) schema.Document {
	t.Helper()

	doc, err := schema.LoadFS(fsys, name)
	if err != nil {
		t.Fatalf("load schema document: %v", err)
	}
	return doc
}

// MustForm loads a schema document and builds the form it describes. Extra
// options are applied after the document's form section.
func MustForm(t *testing.T, fsys fs.FS, name string, fns ...form.OptionFn) *form.Form {
	t.Helper()

	doc := MustLoadDocument(t, fsys, name)
	opts := append([]form.OptionFn{form.WithConfig(doc.Form)}, fns...)
	f, err := form.New(doc.Name, doc.Schema, opts...)
	if err != nil {
		t.Fatalf("build form %s: %v", doc.Name, err)
	}
	return f
}
