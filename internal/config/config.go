package config

import "time"

// Config represents the complete application configuration, populated from
// defaults, an optional config file, and SITEPULSE_* environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Scan      ScanConfig      `mapstructure:"scan"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Health    HealthConfig    `mapstructure:"health"`
	Debug     DebugConfig     `mapstructure:"debug"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// StoreConfig contains database configuration for libsql/Turso
type StoreConfig struct {
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}

// CacheConfig contains scan report cache configuration.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// ScanConfig contains diagnostic probe configuration.
type ScanConfig struct {
	DNS          DNSConfig          `mapstructure:"dns"`
	SSL          SSLConfig          `mapstructure:"ssl"`
	PageSpeed    PageSpeedConfig    `mapstructure:"pagespeed"`
	Response     ResponseConfig     `mapstructure:"response"`
	Availability AvailabilityConfig `mapstructure:"availability"`
	Email        EmailConfig        `mapstructure:"email"`
	Registration RegistrationConfig `mapstructure:"registration"`
}

// DNSConfig configures the DNS-over-HTTPS probe.
type DNSConfig struct {
	GoogleURL     string        `mapstructure:"google_url"`
	CloudflareURL string        `mapstructure:"cloudflare_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// SSLConfig configures the certificate lifecycle probe.
type SSLConfig struct {
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
	CTBaseURL        string        `mapstructure:"ct_base_url"`
	CTTimeout        time.Duration `mapstructure:"ct_timeout"`
}

// PageSpeedConfig configures the PageSpeed Insights probe.
type PageSpeedConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Strategy string        `mapstructure:"strategy"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ResponseConfig configures the server response probe.
type ResponseConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// AvailabilityConfig configures the availability probe.
type AvailabilityConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// EmailConfig configures the MX lookup probe.
type EmailConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// RegistrationConfig configures the RDAP registration lookup. The lookup is
// advisory and never contributes to the score.
type RegistrationConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig contains per-client request limits for the HTTP API.
type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level controls the minimum log level
	// Valid values: trace, debug, info, warn, error
	Level string `mapstructure:"level"`

	// Profile selects the logging complexity level
	// Valid values: SIMPLE, STRUCTURED, ENTERPRISE
	Profile string `mapstructure:"profile"`
}

// MetricsConfig contains Prometheus metrics configuration
type MetricsConfig struct {
	// Enabled controls whether metrics are exposed
	Enabled bool `mapstructure:"enabled"`

	// Port is the dedicated metrics endpoint port (Prometheus format)
	// Metrics are also available at the main HTTP port in JSON format
	Port int `mapstructure:"port"`
}

// HealthConfig contains health check configuration
type HealthConfig struct {
	// Enabled controls whether health endpoints are exposed
	Enabled bool `mapstructure:"enabled"`
}

// DebugConfig contains debug and profiling configuration
type DebugConfig struct {
	// Enabled controls whether debug mode is active
	Enabled bool `mapstructure:"enabled"`

	// PprofEnabled controls whether pprof endpoints are exposed
	// WARNING: Only enable in development/staging environments
	PprofEnabled bool `mapstructure:"pprof_enabled"`
}
