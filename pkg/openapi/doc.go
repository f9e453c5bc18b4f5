// Package openapi derives form schemas from OpenAPI 3 documents. An
// operation's request body becomes the field list: property types and
// formats pick the field kind, and the schema keywords required, minLength,
// maxLength, pattern and enum become validation rules.
//
//	doc, err := openapi.NewLoader(openapi.WithFileSystem(specs)).Load(ctx, openapi.SourceFromFS("api.yaml"))
//	ops, err := openapi.Operations(ctx, doc)
//	formDoc, err := openapi.DocumentFromOperation(ops["createContact"])
package openapi
