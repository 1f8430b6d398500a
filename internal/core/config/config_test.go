package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipecheck.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	content := `
version = 1

[server]
address = "127.0.0.1:9000"
read_timeout = "3s"
max_body_bytes = 1024

[cors]
allow_origins = ["http://localhost:3000", "https://*.example.com/"]
allow_credentials = false
max_age = "1m"

[rate_limit]
enabled = true
requests_per_minute = 120
burst = 5

[observability]
enable_metrics = false
enable_tracing = true
service_name = "pipecheck-dev"

[audit]
enabled = true
path = "audit.db"
batch_size = 4
flush_interval = "50ms"

[log]
level = "DEBUG"
format = "json"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Address != "127.0.0.1:9000" {
		t.Errorf("Expected address 127.0.0.1:9000, got %s", cfg.Server.Address)
	}
	if cfg.Server.ReadTimeout != 3*time.Second {
		t.Errorf("Expected read timeout 3s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 15*time.Second {
		t.Errorf("Expected default write timeout 15s, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Server.MaxBodyBytes != 1024 {
		t.Errorf("Expected max body 1024, got %d", cfg.Server.MaxBodyBytes)
	}
	if len(cfg.CORS.AllowOrigins) != 2 || cfg.CORS.AllowOrigins[1] != "https://*.example.com" {
		t.Errorf("Unexpected origins: %v", cfg.CORS.AllowOrigins)
	}
	if cfg.CORS.CredentialsAllowed() {
		t.Error("Expected credentials to be disabled")
	}
	if cfg.CORS.MaxAge != time.Minute {
		t.Errorf("Expected max_age 1m, got %v", cfg.CORS.MaxAge)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.RequestsPerMinute != 120 || cfg.RateLimit.Burst != 5 {
		t.Errorf("Unexpected rate limit: %+v", cfg.RateLimit)
	}
	if cfg.Observability.MetricsEnabled() {
		t.Error("Expected metrics to be disabled")
	}
	if cfg.Observability.OTLPEndpoint != DefaultOTLPEndpoint {
		t.Errorf("Expected default OTLP endpoint when tracing enabled, got %q", cfg.Observability.OTLPEndpoint)
	}
	if !cfg.Audit.Enabled || cfg.Audit.Path != "audit.db" || cfg.Audit.BatchSize != 4 {
		t.Errorf("Unexpected audit config: %+v", cfg.Audit)
	}
	if cfg.Audit.QueueCapacity != 256 {
		t.Errorf("Expected default queue capacity 256, got %d", cfg.Audit.QueueCapacity)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Unexpected log config: %+v", cfg.Log)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Expected version 1, got %d", cfg.Version)
	}
	if cfg.Server.Address != ":8000" {
		t.Errorf("Expected :8000, got %s", cfg.Server.Address)
	}
	if len(cfg.CORS.AllowOrigins) != 1 || cfg.CORS.AllowOrigins[0] != "http://localhost:3000" {
		t.Errorf("Unexpected default origins: %v", cfg.CORS.AllowOrigins)
	}
	if !cfg.CORS.CredentialsAllowed() {
		t.Error("Expected credentials allowed by default")
	}
	if cfg.RateLimit.Enabled {
		t.Error("Expected rate limiting disabled by default")
	}
	if !cfg.Observability.MetricsEnabled() {
		t.Error("Expected metrics enabled by default")
	}
	if cfg.Observability.EnableTracing {
		t.Error("Expected tracing disabled by default")
	}
	if cfg.Audit.Enabled {
		t.Error("Expected audit disabled by default")
	}
	if errs := Validate(cfg); len(errs) != 0 {
		t.Errorf("Expected default config to validate, got %v", errs)
	}
}

func TestLoad_EmptyOriginListDisablesCORS(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[cors]\nallow_origins = []\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.CORS.AllowOrigins) != 0 {
		t.Errorf("Expected no origins, got %v", cfg.CORS.AllowOrigins)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "[server\naddress = "))
	if err == nil {
		t.Fatal("Expected decode error")
	}
}

func TestLoad_ReportsAllValidationErrors(t *testing.T) {
	content := `
version = 7

[log]
level = "loud"
format = "xml"
`
	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Fatal("Expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"unsupported config version 7", "log.level", "log.format"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected error to mention %q, got %s", want, msg)
		}
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if cfg.Server.Address != DefaultAddress {
		t.Errorf("Expected default address, got %s", cfg.Server.Address)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PIPECHECK_SERVER_ADDRESS", ":9999")
	t.Setenv("PIPECHECK_CORS_ALLOW_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("PIPECHECK_RATE_LIMIT_ENABLED", "true")
	t.Setenv("PIPECHECK_RATE_LIMIT_BURST", "not-a-number")
	t.Setenv("PIPECHECK_OBSERVABILITY_ENABLE_METRICS", "false")
	t.Setenv("PIPECHECK_SERVER_MAX_BODY_BYTES", "2048")

	cfg := DefaultConfig()
	ApplyEnvOverrides(cfg)

	if cfg.Server.Address != ":9999" {
		t.Errorf("Expected :9999, got %s", cfg.Server.Address)
	}
	if len(cfg.CORS.AllowOrigins) != 2 || cfg.CORS.AllowOrigins[1] != "http://b.test" {
		t.Errorf("Unexpected origins: %v", cfg.CORS.AllowOrigins)
	}
	if !cfg.RateLimit.Enabled {
		t.Error("Expected rate limit enabled via env")
	}
	if cfg.RateLimit.Burst != 20 {
		t.Errorf("Expected invalid burst override to be ignored, got %d", cfg.RateLimit.Burst)
	}
	if cfg.Observability.MetricsEnabled() {
		t.Error("Expected metrics disabled via env")
	}
	if cfg.Server.MaxBodyBytes != 2048 {
		t.Errorf("Expected max body 2048, got %d", cfg.Server.MaxBodyBytes)
	}
}
