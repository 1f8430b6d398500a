package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeValidationError, "nodes is required")
		if err.Error() != "[VALIDATION_ERROR] nodes is required" {
			t.Errorf("expected [VALIDATION_ERROR] nodes is required, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("original error")
		err := Wrap(original, CodeInternal, "internal failure")
		expected := "[INTERNAL_ERROR] internal failure: original error"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
		if !errors.Is(err, original) {
			t.Error("expected wrapped error to unwrap to original")
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeValidationError, "invalid input")
		if !IsCode(err, CodeValidationError) {
			t.Error("expected IsCode to return true for CodeValidationError")
		}
		if IsCode(err, CodeRateLimited) {
			t.Error("expected IsCode to return false for CodeRateLimited")
		}
	})

	t.Run("IsCodeWithWrapped", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", Wrap(errors.New("boom"), CodeInternal, "internal failure"))
		if !IsCode(err, CodeInternal) {
			t.Error("expected IsCode to return true for wrapped CodeInternal")
		}
	})

	t.Run("AddContext", func(t *testing.T) {
		err := AddContext(New(CodeValidationError, "bad field"), CtxField, "nodes")
		if !IsCode(err, CodeValidationError) {
			t.Error("expected context to keep original code")
		}
		plain := AddContext(errors.New("plain"), CtxRequestID, "abc")
		if !IsCode(plain, CodeInternal) {
			t.Error("expected plain error to be wrapped as internal")
		}
	})

	t.Run("Detail", func(t *testing.T) {
		err := Wrap(errors.New("unexpected EOF"), CodeValidationError, "invalid JSON body")
		if got := DetailOf(err); got != "invalid JSON body: unexpected EOF" {
			t.Errorf("unexpected detail: %q", got)
		}
		if got := DetailOf(errors.New("plain")); got != "plain" {
			t.Errorf("unexpected detail for plain error: %q", got)
		}
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{New(CodeValidationError, "x"), http.StatusUnprocessableEntity},
		{New(CodeRateLimited, "x"), http.StatusTooManyRequests},
		{New(CodePayloadTooLarge, "x"), http.StatusRequestEntityTooLarge},
		{New(CodeUnavailable, "x"), http.StatusServiceUnavailable},
		{New(CodeInternal, "x"), http.StatusInternalServerError},
		{New(CodeBadRequest, "x"), http.StatusBadRequest},
		{context.Canceled, http.StatusBadRequest},
	}

	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.status {
			t.Errorf("StatusFor(%v) = %d, expected %d", tt.err, got, tt.status)
		}
	}
}
