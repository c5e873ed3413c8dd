// Package config loads, defaults and validates the xrdbrowse configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete xrdbrowse configuration.
//
// This structure captures all configurable aspects of the tool including:
//   - Logging configuration
//   - Browse engine settings (sandbox base path, listing cache)
//   - Remote backend selection and configuration (backend-specific)
//   - Metrics server settings
//
// Configuration sources (in order of precedence):
//  1. Environment variables (XRDBROWSE_*)
//  2. Configuration file (YAML or TOML)
//  3. Default values (lowest priority)
//
// Backend Configuration Pattern:
// Each remote backend defines its own configuration shape. The Config struct
// contains type-specific sections (remote.xrootd, remote.s3, remote.memory)
// and only the section matching the selected type is used.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Browse contains the browse engine settings
	Browse BrowseConfig `mapstructure:"browse"`

	// Remote specifies the remote backend type and type-specific configuration
	Remote RemoteConfig `mapstructure:"remote"`

	// Metrics contains metrics server settings
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" validate:"required,oneof=text json"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required"`
}

// BrowseConfig contains the browse engine settings.
type BrowseConfig struct {
	// BasePath is the sandbox root. Every requested path must resolve inside
	// it. Must be absolute.
	BasePath string `mapstructure:"base_path" validate:"required,startswith=/"`

	// Cache configures the directory listing cache
	Cache CacheConfig `mapstructure:"cache"`
}

// CacheConfig configures the directory listing cache.
type CacheConfig struct {
	// Enabled turns the listing cache on
	Enabled bool `mapstructure:"enabled"`

	// TTL is the maximum age of a cached listing
	TTL time.Duration `mapstructure:"ttl" validate:"gte=0"`

	// Capacity is the maximum number of cached listings
	Capacity int `mapstructure:"capacity" validate:"gte=0"`
}

// RemoteConfig specifies the remote backend configuration.
//
// The Type field determines which backend implementation is used.
// Only the corresponding type-specific configuration section is used.
type RemoteConfig struct {
	// Type specifies which remote backend to use
	// Valid values: xrootd, s3, memory
	Type string `mapstructure:"type" validate:"required,oneof=xrootd s3 memory"`

	// Xrootd contains XRootD-specific configuration
	// Only used when Type = "xrootd"
	Xrootd map[string]any `mapstructure:"xrootd"`

	// S3 contains S3-specific configuration
	// Only used when Type = "s3"
	S3 map[string]any `mapstructure:"s3"`

	// Memory contains memory-backend configuration
	// Only used when Type = "memory"
	Memory map[string]any `mapstructure:"memory"`
}

// MetricsConfig contains metrics server settings.
type MetricsConfig struct {
	// Enabled turns Prometheus metrics collection and the HTTP server on
	Enabled bool `mapstructure:"enabled"`

	// Port is the metrics HTTP server port
	Port int `mapstructure:"port" validate:"gte=0,lte=65535"`
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (XRDBROWSE_*)
//  2. Configuration file
//  3. Default values
//
// Parameters:
//   - configPath: Path to config file (empty string uses default location)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: Configuration loading or validation error
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Configure viper
	setupViper(v, configPath)

	// Read configuration file if it exists
	if err := readConfigFile(v, configPath); err != nil {
		return nil, err
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Apply defaults for any missing values
	ApplyDefaults(&cfg)

	// Validate configuration
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Set up environment variable support
	// Environment variables use XRDBROWSE_ prefix and underscores
	// Example: XRDBROWSE_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("XRDBROWSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Configure config file search
	if configPath != "" {
		// Use explicitly specified config file
		v.SetConfigFile(configPath)
	} else {
		// Use default location: $XDG_CONFIG_HOME/xrdbrowse/config.{yaml,toml}
		configDir := getConfigDir()
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml") // Primary format
	}
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper, configPath string) error {
	if err := v.ReadInConfig(); err != nil {
		// Check if error is "config file not found"
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found is acceptable - use defaults
			return nil
		}
		// Other errors are problems
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to current
// directory (.) if home directory cannot be determined.
func getConfigDir() string {
	// Check XDG_CONFIG_HOME
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "xrdbrowse")
	}

	// Fall back to ~/.config
	home, err := os.UserHomeDir()
	if err != nil {
		// If we can't get home dir, use current directory as last resort
		return "."
	}

	return filepath.Join(home, ".config", "xrdbrowse")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// ConfigExists checks if a config file exists at the default location.
func ConfigExists() bool {
	path := GetDefaultConfigPath()
	_, err := os.Stat(path)
	return err == nil
}
