package config

import (
	"fmt"
	"log/slog"

	"github.com/gobwas/glob"
)

// Validate returns every problem found in cfg rather than stopping at the
// first one.
func Validate(cfg *Config) []error {
	var errs []error
	errs = append(errs, validateVersion(cfg)...)
	errs = append(errs, validateServer(cfg)...)
	errs = append(errs, validateCORS(cfg)...)
	errs = append(errs, validateRateLimit(cfg)...)
	errs = append(errs, validateAudit(cfg)...)
	errs = append(errs, validateLog(cfg)...)
	return errs
}

func validateVersion(cfg *Config) []error {
	if cfg.Version < 1 {
		return []error{fmt.Errorf("version must be >= 1, got %d", cfg.Version)}
	}
	if cfg.Version > currentConfigVersion {
		return []error{fmt.Errorf("unsupported config version %d; supported version is %d", cfg.Version, currentConfigVersion)}
	}
	return nil
}

func validateServer(cfg *Config) []error {
	var errs []error
	if cfg.Server.Address == "" {
		errs = append(errs, fmt.Errorf("server.address must not be empty"))
	}
	if cfg.Server.ReadTimeout < 0 || cfg.Server.WriteTimeout < 0 || cfg.Server.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("server timeouts must not be negative"))
	}
	if cfg.Server.MaxBodyBytes < 0 {
		errs = append(errs, fmt.Errorf("server.max_body_bytes must not be negative, got %d", cfg.Server.MaxBodyBytes))
	}
	return errs
}

func validateCORS(cfg *Config) []error {
	var errs []error
	for i, origin := range cfg.CORS.AllowOrigins {
		if origin == "*" && cfg.CORS.CredentialsAllowed() {
			slog.Warn("cors allows any origin with credentials; narrow cors.allow_origins outside development")
		}
		if _, err := glob.Compile(origin); err != nil {
			errs = append(errs, fmt.Errorf("cors.allow_origins[%d] %q is not a valid pattern: %w", i, origin, err))
		}
	}
	if cfg.CORS.MaxAge < 0 {
		errs = append(errs, fmt.Errorf("cors.max_age must not be negative"))
	}
	return errs
}

func validateRateLimit(cfg *Config) []error {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	var errs []error
	if cfg.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, fmt.Errorf("rate_limit.requests_per_minute must be > 0, got %d", cfg.RateLimit.RequestsPerMinute))
	}
	if cfg.RateLimit.Burst <= 0 {
		errs = append(errs, fmt.Errorf("rate_limit.burst must be > 0, got %d", cfg.RateLimit.Burst))
	}
	if cfg.RateLimit.TTL <= 0 {
		errs = append(errs, fmt.Errorf("rate_limit.ttl must be > 0"))
	}
	return errs
}

func validateAudit(cfg *Config) []error {
	if !cfg.Audit.Enabled {
		return nil
	}
	var errs []error
	if cfg.Audit.Path == "" {
		errs = append(errs, fmt.Errorf("audit.path must not be empty"))
	}
	if cfg.Audit.QueueCapacity <= 0 {
		errs = append(errs, fmt.Errorf("audit.queue_capacity must be > 0, got %d", cfg.Audit.QueueCapacity))
	}
	if cfg.Audit.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("audit.batch_size must be > 0, got %d", cfg.Audit.BatchSize))
	}
	if cfg.Audit.FlushInterval <= 0 {
		errs = append(errs, fmt.Errorf("audit.flush_interval must be > 0"))
	}
	return errs
}

func validateLog(cfg *Config) []error {
	var errs []error
	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: text, json"))
	}
	return errs
}

// ParseLevel maps a config level name onto slog.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log.level must be one of: debug, info, warn, error (got %q)", level)
	}
}
