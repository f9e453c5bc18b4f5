package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// ParserOptions tunes how documents are turned into operations.
type ParserOptions struct {
	// Validate runs the kin-openapi document validation before extraction.
	Validate bool
}

// ParserOption mutates ParserOptions.
type ParserOption func(*ParserOptions)

// WithValidation enables document validation.
func WithValidation() ParserOption {
	return func(opts *ParserOptions) {
		opts.Validate = true
	}
}

// preferred request body media types, in lookup order.
var mediaTypes = []string{
	"application/x-www-form-urlencoded",
	"multipart/form-data",
	"application/json",
}

// Operations parses doc and returns its operations keyed by operationId.
// Operations without an id are keyed "method:path" with a lower-cased method.
// Local references are resolved so request bodies carry their full schema.
func Operations(ctx context.Context, doc Document, options ...ParserOption) (map[string]Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := ParserOptions{}
	for _, opt := range options {
		opt(&cfg)
	}

	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if cfg.Validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi parser: document does not contain any paths")
	}

	operations := make(map[string]Operation)
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, operation := range item.Operations() {
			if operation == nil {
				continue
			}
			op := Operation{
				ID:          operation.OperationID,
				Method:      strings.ToUpper(method),
				Path:        path,
				Summary:     operation.Summary,
				Description: operation.Description,
				Body:        requestSchema(operation.RequestBody),
			}
			if op.ID == "" {
				op.ID = strings.ToLower(method) + ":" + path
			}
			operations[op.ID] = op
		}
	}
	return operations, nil
}

// Lookup parses doc and returns the operation named id.
func Lookup(ctx context.Context, doc Document, id string, options ...ParserOption) (Operation, error) {
	ops, err := Operations(ctx, doc, options...)
	if err != nil {
		return Operation{}, err
	}
	op, ok := ops[id]
	if !ok {
		return Operation{}, fmt.Errorf("openapi: operation %q not found in %s", id, doc.Location())
	}
	return op, nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range mediaTypes {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}
