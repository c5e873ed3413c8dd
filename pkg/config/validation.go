package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom rules.
//
// This function uses go-playground/validator for declarative validation
// via struct tags, with additional custom validation for complex rules
// that cannot be expressed in tags.
//
// Note: Log level normalization is handled in ApplyDefaults, not here.
// Validation accepts both uppercase and lowercase log levels.
//
// Returns an error describing validation failures.
func Validate(cfg *Config) error {
	// Run struct tag validation
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	// Custom validation rules that can't be expressed in tags
	if err := validateCustomRules(cfg); err != nil {
		return err
	}

	return nil
}

// validateCustomRules performs custom validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	// A base path with ".." would make the sandbox prefix check meaningless
	if strings.Contains(cfg.Browse.BasePath, "..") {
		return fmt.Errorf("browse.base_path: must not contain \"..\" segments")
	}

	// The selected backend's section must carry its required fields. The
	// full decode happens in the factory; checking the essentials here
	// gives a clearer error before anything is constructed.
	switch cfg.Remote.Type {
	case "xrootd":
		if server, _ := cfg.Remote.Xrootd["server"].(string); server == "" {
			return fmt.Errorf("remote.xrootd: server is required")
		}
	case "s3":
		if bucket, _ := cfg.Remote.S3["bucket"].(string); bucket == "" {
			return fmt.Errorf("remote.s3: bucket is required")
		}
		if region, _ := cfg.Remote.S3["region"].(string); region == "" {
			return fmt.Errorf("remote.s3: region is required")
		}
	}

	if cfg.Browse.Cache.Enabled {
		if cfg.Browse.Cache.TTL <= 0 {
			return fmt.Errorf("browse.cache: ttl must be positive when the cache is enabled")
		}
		if cfg.Browse.Cache.Capacity <= 0 {
			return fmt.Errorf("browse.cache: capacity must be positive when the cache is enabled")
		}
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		// Return the first validation error with context
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
