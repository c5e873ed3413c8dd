package config

import (
	"strings"
	"time"

	"github.com/epic-data/xrdbrowse/pkg/browse"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and environment
// variables to fill in any missing values with sensible defaults.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
//   - Backend-specific defaults are handled by backend implementations
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyBrowseDefaults(&cfg.Browse)
	applyRemoteDefaults(&cfg.Remote)
	applyMetricsDefaults(&cfg.Metrics)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyBrowseDefaults sets browse engine defaults.
func applyBrowseDefaults(cfg *BrowseConfig) {
	// Enable the cache when no cache section was configured at all
	// (TTL and capacity both zero means nothing was provided). Users
	// disable it by setting enabled: false alongside an explicit TTL
	// or capacity.
	if !cfg.Cache.Enabled && cfg.Cache.TTL == 0 && cfg.Cache.Capacity == 0 {
		cfg.Cache.Enabled = true
	}

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = browse.DefaultCacheTTL
	}
	if cfg.Cache.Capacity == 0 {
		cfg.Cache.Capacity = browse.DefaultCacheCapacity
	}
}

// applyRemoteDefaults sets remote backend defaults.
func applyRemoteDefaults(cfg *RemoteConfig) {
	if cfg.Type == "" {
		cfg.Type = "xrootd"
	}

	// Initialize maps if nil
	if cfg.Xrootd == nil {
		cfg.Xrootd = make(map[string]any)
	}
	if cfg.S3 == nil {
		cfg.S3 = make(map[string]any)
	}
	if cfg.Memory == nil {
		cfg.Memory = make(map[string]any)
	}

	// Apply defaults for config file generation
	if _, ok := cfg.Xrootd["timeout"]; !ok {
		cfg.Xrootd["timeout"] = 60 * time.Second
	}
}

// applyMetricsDefaults sets metrics server defaults.
func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Port == 0 {
		cfg.Port = 9090
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Testing
//   - Documentation
func GetDefaultConfig() *Config {
	cfg := &Config{
		Browse: BrowseConfig{
			BasePath: "/store",
			Cache: CacheConfig{
				Enabled: true,
			},
		},
		Remote: RemoteConfig{
			Xrootd: make(map[string]any),
			S3:     make(map[string]any),
			Memory: make(map[string]any),
		},
	}

	ApplyDefaults(cfg)
	return cfg
}
