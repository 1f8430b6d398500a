package openapi

import (
	"errors"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// ValidateBody checks a decoded JSON value against the named component schema.
// The returned error message is suitable for a {"detail": ...} response.
func (d *Document) ValidateBody(schemaName string, body any) error {
	schema, err := d.schema(schemaName)
	if err != nil {
		return err
	}
	if err := schema.VisitJSON(body); err != nil {
		return &ValidationError{Detail: describe(err)}
	}
	return nil
}

// ValidationError is a request body that does not match its schema.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

// describe renders a schema error as "body.<path>: <reason>".
func describe(err error) string {
	var schemaErr *openapi3.SchemaError
	if !errors.As(err, &schemaErr) {
		return err.Error()
	}
	path := append([]string{"body"}, schemaErr.JSONPointer()...)
	reason := strings.TrimSpace(schemaErr.Reason)
	if reason == "" {
		reason = "invalid value"
	}
	return strings.Join(path, ".") + ": " + reason
}
