package observability

import (
	"context"
	"testing"
)

func TestInitTracing_DisabledIsNoop(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingOptions{Enabled: false, Endpoint: "localhost:4317"})
	if err != nil {
		t.Fatalf("InitTracing failed: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("expected no-op shutdown, got %v", err)
	}
}

func TestInitTracing_MissingEndpointIsNoop(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingOptions{Enabled: true})
	if err != nil {
		t.Fatalf("InitTracing failed: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("expected no-op shutdown, got %v", err)
	}
}
