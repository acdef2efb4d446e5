package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix for environment variable overrides,
	// e.g. SITEPULSE_SERVER_PORT.
	EnvPrefix = "SITEPULSE"

	appName = "sitepulse"
)

// SetDefaults registers the default value for every configuration key on the
// provided viper instance. Called once during command initialization so that
// partial config files and env overrides layer on top of complete defaults.
func SetDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.cors_origins", []string{"*"})

	// Store defaults
	v.SetDefault("store.driver", "libsql")
	v.SetDefault("store.path", DefaultStorePath())
	v.SetDefault("store.url", "")
	v.SetDefault("store.auth_token", "")

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "10m")

	// Probe defaults
	v.SetDefault("scan.dns.google_url", "https://dns.google/resolve")
	v.SetDefault("scan.dns.cloudflare_url", "https://cloudflare-dns.com/dns-query")
	v.SetDefault("scan.dns.timeout", "3s")
	v.SetDefault("scan.ssl.handshake_timeout", "5s")
	v.SetDefault("scan.ssl.ct_base_url", "https://crt.sh/")
	v.SetDefault("scan.ssl.ct_timeout", "10s")
	v.SetDefault("scan.pagespeed.base_url", "https://www.googleapis.com/pagespeedonline/v5/runPagespeed")
	v.SetDefault("scan.pagespeed.api_key", "")
	v.SetDefault("scan.pagespeed.strategy", "mobile")
	v.SetDefault("scan.pagespeed.timeout", "30s")
	v.SetDefault("scan.response.timeout", "10s")
	v.SetDefault("scan.availability.timeout", "5s")
	v.SetDefault("scan.email.timeout", "5s")
	v.SetDefault("scan.registration.enabled", true)
	v.SetDefault("scan.registration.timeout", "5s")

	// Rate limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.limit", 10)
	v.SetDefault("rate_limit.window", "1m")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.profile", "structured")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)

	// Health defaults
	v.SetDefault("health.enabled", true)

	// Debug defaults
	v.SetDefault("debug.enabled", false)
	v.SetDefault("debug.pprof_enabled", false)
}

// EnvKeyReplacer maps nested config keys to environment variable segments,
// e.g. server.port becomes SITEPULSE_SERVER_PORT.
func EnvKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// Load unmarshals the viper state into a typed Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHook)); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks configuration values that would otherwise fail at runtime.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		return fmt.Errorf("invalid metrics port: %d", c.Metrics.Port)
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.Limit <= 0 {
			return fmt.Errorf("rate limit must be positive, got %d", c.RateLimit.Limit)
		}
		if c.RateLimit.Window <= 0 {
			return fmt.Errorf("rate limit window must be positive, got %s", c.RateLimit.Window)
		}
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %s", c.Cache.TTL)
	}
	switch strings.ToLower(c.Scan.PageSpeed.Strategy) {
	case "", "mobile", "desktop":
	default:
		return fmt.Errorf("invalid pagespeed strategy: %s", c.Scan.PageSpeed.Strategy)
	}
	return nil
}

// DefaultStorePath returns the XDG-compliant path to the database file.
func DefaultStorePath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if strings.TrimSpace(dataDir) == "" {
		home, err := os.UserHomeDir()
		if err != nil || strings.TrimSpace(home) == "" {
			return "./" + appName + ".db"
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, appName, appName+".db")
}

// DefaultConfigDir returns the XDG-compliant directory searched for
// config.yaml when no explicit config file is given.
func DefaultConfigDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if strings.TrimSpace(configDir) == "" {
		home, err := os.UserHomeDir()
		if err != nil || strings.TrimSpace(home) == "" {
			return ""
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, appName)
}
