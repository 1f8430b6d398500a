// Package openapi embeds the API description and validates request bodies
// against its schemas.
package openapi

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

// PipelineRequestSchema names the request body schema of POST /pipelines/parse.
const PipelineRequestSchema = "PipelineRequest"

//go:embed spec.yaml
var specYAML []byte

// Document is a loaded, validated API description.
type Document struct {
	doc  *openapi3.T
	json []byte
}

var (
	loadOnce   sync.Once
	defaultDoc *Document
	loadErr    error
)

// Default returns the embedded document, loading it on first use.
func Default() (*Document, error) {
	loadOnce.Do(func() {
		defaultDoc, loadErr = LoadSpec(specYAML)
	})
	return defaultDoc, loadErr
}

// LoadSpec parses and validates an OpenAPI 3 document from YAML or JSON.
func LoadSpec(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("openapi document is empty")
	}
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("openapi document resolved to nil")
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}
	return &Document{doc: doc, json: raw}, nil
}

// JSON returns the document encoded as JSON, as served on /openapi.json.
func (d *Document) JSON() []byte {
	return d.json
}

// Spec exposes the parsed document.
func (d *Document) Spec() *openapi3.T {
	return d.doc
}

func (d *Document) schema(name string) (*openapi3.Schema, error) {
	if d == nil || d.doc == nil || d.doc.Components == nil {
		return nil, fmt.Errorf("openapi document has no components")
	}
	ref, ok := d.doc.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("schema %q not found", name)
	}
	return ref.Value, nil
}
