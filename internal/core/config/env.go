package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: PIPECHECK_[SECTION]_[KEY] (e.g., PIPECHECK_SERVER_ADDRESS).
func ApplyEnvOverrides(cfg *Config) {
	// Server
	setEnvString(&cfg.Server.Address, "PIPECHECK_SERVER_ADDRESS")
	setEnvDuration(&cfg.Server.ReadTimeout, "PIPECHECK_SERVER_READ_TIMEOUT")
	setEnvDuration(&cfg.Server.WriteTimeout, "PIPECHECK_SERVER_WRITE_TIMEOUT")
	setEnvDuration(&cfg.Server.ShutdownTimeout, "PIPECHECK_SERVER_SHUTDOWN_TIMEOUT")
	setEnvInt64(&cfg.Server.MaxBodyBytes, "PIPECHECK_SERVER_MAX_BODY_BYTES")

	// CORS
	setEnvList(&cfg.CORS.AllowOrigins, "PIPECHECK_CORS_ALLOW_ORIGINS")

	// Rate limit
	setEnvBool(&cfg.RateLimit.Enabled, "PIPECHECK_RATE_LIMIT_ENABLED")
	setEnvInt(&cfg.RateLimit.RequestsPerMinute, "PIPECHECK_RATE_LIMIT_REQUESTS_PER_MINUTE")
	setEnvInt(&cfg.RateLimit.Burst, "PIPECHECK_RATE_LIMIT_BURST")

	// Observability
	setEnvBoolPtr(&cfg.Observability.EnableMetrics, "PIPECHECK_OBSERVABILITY_ENABLE_METRICS")
	setEnvBool(&cfg.Observability.EnableTracing, "PIPECHECK_OBSERVABILITY_ENABLE_TRACING")
	setEnvString(&cfg.Observability.OTLPEndpoint, "PIPECHECK_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvString(&cfg.Observability.ServiceName, "PIPECHECK_OBSERVABILITY_SERVICE_NAME")

	// Audit
	setEnvBool(&cfg.Audit.Enabled, "PIPECHECK_AUDIT_ENABLED")
	setEnvString(&cfg.Audit.Path, "PIPECHECK_AUDIT_PATH")

	// Log
	setEnvString(&cfg.Log.Level, "PIPECHECK_LOG_LEVEL")
	setEnvString(&cfg.Log.Format, "PIPECHECK_LOG_FORMAT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		*target = out
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvInt64(target *int64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvBoolPtr(target **bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = &b
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
