package openapi

import (
	"encoding/json"

	"github.com/getkin/kin-openapi/openapi3"
)

// CanonicalBody returns body re-encoded with only the object keys the named
// schema declares, matched exactly. Objects without declared properties
// (free-form maps) are kept whole. Binding the result into a struct cannot
// pick up undeclared keys that differ from a declared one only by case.
func (d *Document) CanonicalBody(schemaName string, body any) ([]byte, error) {
	schema, err := d.schema(schemaName)
	if err != nil {
		return nil, err
	}
	return json.Marshal(prune(schema, body))
}

func prune(schema *openapi3.Schema, value any) any {
	if schema == nil {
		return value
	}
	switch v := value.(type) {
	case map[string]any:
		if len(schema.Properties) == 0 {
			return v
		}
		out := make(map[string]any, len(schema.Properties))
		for name, ref := range schema.Properties {
			field, ok := v[name]
			if !ok {
				continue
			}
			var sub *openapi3.Schema
			if ref != nil {
				sub = ref.Value
			}
			out[name] = prune(sub, field)
		}
		return out
	case []any:
		if schema.Items == nil || schema.Items.Value == nil {
			return v
		}
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = prune(schema.Items.Value, item)
		}
		return out
	default:
		return value
	}
}
