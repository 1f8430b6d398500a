package config

import "time"

const (
	DefaultPath          = "./pipecheck.toml"
	DefaultAddress       = ":8000"
	DefaultDevOrigin     = "http://localhost:3000"
	DefaultMaxBodyBytes  = 8 << 20 // 8 MiB
	DefaultAuditPath     = "data/state/audit.db"
	DefaultServiceName   = "pipecheck"
	DefaultOTLPEndpoint  = "localhost:4317"
	currentConfigVersion = 1
)

type Config struct {
	Version       int           `toml:"version"`
	Server        Server        `toml:"server"`
	CORS          CORS          `toml:"cors"`
	RateLimit     RateLimit     `toml:"rate_limit"`
	Observability Observability `toml:"observability"`
	Audit         Audit         `toml:"audit"`
	Log           Log           `toml:"log"`
}

type Server struct {
	Address         string        `toml:"address"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	MaxBodyBytes    int64         `toml:"max_body_bytes"`
}

// CORS origins are glob patterns, e.g. "http://localhost:*".
type CORS struct {
	AllowOrigins     []string      `toml:"allow_origins"`
	AllowCredentials *bool         `toml:"allow_credentials"`
	MaxAge           time.Duration `toml:"max_age"`
}

func (c CORS) CredentialsAllowed() bool {
	return c.AllowCredentials == nil || *c.AllowCredentials
}

type RateLimit struct {
	Enabled           bool          `toml:"enabled"`
	RequestsPerMinute int           `toml:"requests_per_minute"`
	Burst             int           `toml:"burst"`
	TTL               time.Duration `toml:"ttl"`
}

type Observability struct {
	EnableMetrics *bool  `toml:"enable_metrics"`
	EnableTracing bool   `toml:"enable_tracing"`
	OTLPEndpoint  string `toml:"otlp_endpoint"`
	OTLPInsecure  *bool  `toml:"otlp_insecure"`
	ServiceName   string `toml:"service_name"`
}

func (o Observability) MetricsEnabled() bool {
	return o.EnableMetrics == nil || *o.EnableMetrics
}

func (o Observability) InsecureExporter() bool {
	return o.OTLPInsecure == nil || *o.OTLPInsecure
}

type Audit struct {
	Enabled       bool          `toml:"enabled"`
	Path          string        `toml:"path"`
	QueueCapacity int           `toml:"queue_capacity"`
	BatchSize     int           `toml:"batch_size"`
	FlushInterval time.Duration `toml:"flush_interval"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns a fully defaulted configuration, used when no config
// file exists at the default path.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
