package config

import (
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func hasError(errs []error, substr string) bool {
	for _, err := range errs {
		if strings.Contains(err.Error(), substr) {
			return true
		}
	}
	return false
}

func TestValidateCORSPatterns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CORS.AllowOrigins = []string{"http://localhost:3000", "http://[bad"}

	errs := Validate(cfg)
	target := fmt.Sprintf("cors.allow_origins[1] %q is not a valid pattern", "http://[bad")
	if !hasError(errs, target) {
		t.Errorf("Expected CORS pattern error, got %v", errs)
	}
}

func TestValidateRateLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.RequestsPerMinute = 0
	cfg.RateLimit.Burst = -1

	errs := Validate(cfg)
	if !hasError(errs, "rate_limit.requests_per_minute must be > 0") {
		t.Errorf("Expected rpm error, got %v", errs)
	}
	if !hasError(errs, "rate_limit.burst must be > 0") {
		t.Errorf("Expected burst error, got %v", errs)
	}

	cfg.RateLimit.Enabled = false
	if errs := Validate(cfg); hasError(errs, "rate_limit") {
		t.Errorf("Disabled rate limit must not be validated, got %v", errs)
	}
}

func TestValidateAudit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.Path = ""
	cfg.Audit.BatchSize = 0

	errs := Validate(cfg)
	if !hasError(errs, "audit.path must not be empty") {
		t.Errorf("Expected audit path error, got %v", errs)
	}
	if !hasError(errs, "audit.batch_size must be > 0") {
		t.Errorf("Expected batch size error, got %v", errs)
	}
}

func TestValidateServer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Address = ""
	cfg.Server.MaxBodyBytes = -1

	errs := Validate(cfg)
	if !hasError(errs, "server.address must not be empty") {
		t.Errorf("Expected address error, got %v", errs)
	}
	if !hasError(errs, "server.max_body_bytes must not be negative") {
		t.Errorf("Expected body size error, got %v", errs)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil {
			t.Errorf("ParseLevel(%q) failed: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, expected %v", in, got, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("Expected error for unknown level")
	}
}
