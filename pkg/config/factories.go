package config

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awsS3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mitchellh/mapstructure"

	"github.com/epic-data/xrdbrowse/internal/logger"
	"github.com/epic-data/xrdbrowse/pkg/remote"
	"github.com/epic-data/xrdbrowse/pkg/remote/memory"
	"github.com/epic-data/xrdbrowse/pkg/remote/s3"
	"github.com/epic-data/xrdbrowse/pkg/remote/xrootd"
)

// CreateDirectoryService creates a remote directory service based on
// configuration.
//
// This factory function uses the Type field to determine which backend to
// create, then decodes the type-specific configuration from the corresponding
// map and passes it to the backend's constructor.
//
// Supported types:
//   - "xrootd": Uses pkg/remote/xrootd (XRootD federation via client tools)
//   - "s3": Uses pkg/remote/s3 (Amazon S3 or compatible storage)
//   - "memory": Uses pkg/remote/memory (in-memory tree, for tests and demos)
//
// Parameters:
//   - ctx: Context for initialization operations
//   - cfg: Remote backend configuration
//
// Returns:
//   - remote.DirectoryService: Initialized backend
//   - error: Configuration or initialization error
func CreateDirectoryService(ctx context.Context, cfg *RemoteConfig) (remote.DirectoryService, error) {
	switch cfg.Type {
	case "xrootd":
		return createXRootDService(ctx, cfg.Xrootd)
	case "s3":
		return createS3Service(ctx, cfg.S3)
	case "memory":
		return memory.NewMemoryDirectoryService(), nil
	default:
		return nil, fmt.Errorf("unknown remote backend type: %q (supported: xrootd, s3, memory)", cfg.Type)
	}
}

// createXRootDService creates an XRootD-backed directory service.
func createXRootDService(ctx context.Context, options map[string]any) (remote.DirectoryService, error) {
	// Check context before spawning anything
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Define the configuration struct for the XRootD backend
	type XRootDServiceConfig struct {
		Server     string        `mapstructure:"server"`
		FSBinary   string        `mapstructure:"fs_binary"`
		CopyBinary string        `mapstructure:"copy_binary"`
		Timeout    time.Duration `mapstructure:"timeout"`
	}

	var svcCfg XRootDServiceConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		Result:     &svcCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(options); err != nil {
		return nil, fmt.Errorf("failed to decode xrootd backend config: %w", err)
	}

	// Validate required fields
	if svcCfg.Server == "" {
		return nil, fmt.Errorf("xrootd backend: server is required")
	}

	svc, err := xrootd.NewXRootDDirectoryService(xrootd.Config{
		Server:     svcCfg.Server,
		FSBinary:   svcCfg.FSBinary,
		CopyBinary: svcCfg.CopyBinary,
		Timeout:    svcCfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create xrootd backend: %w", err)
	}

	logger.Info("XRootD backend initialized: server=%s", svcCfg.Server)

	return svc, nil
}

// createS3Service creates an S3-backed directory service.
func createS3Service(ctx context.Context, options map[string]any) (remote.DirectoryService, error) {
	// Define the configuration struct for the S3 backend
	type S3ServiceConfig struct {
		Region          string `mapstructure:"region"`
		Bucket          string `mapstructure:"bucket"`
		KeyPrefix       string `mapstructure:"key_prefix"`
		Endpoint        string `mapstructure:"endpoint"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
		MaxRetries      int    `mapstructure:"max_retries"`
	}

	// Decode the options into the config struct
	var svcCfg S3ServiceConfig
	if err := mapstructure.Decode(options, &svcCfg); err != nil {
		return nil, fmt.Errorf("failed to decode S3 backend config: %w", err)
	}

	// Validate required fields
	if svcCfg.Bucket == "" {
		return nil, fmt.Errorf("S3 backend: bucket is required")
	}

	if svcCfg.Region == "" {
		return nil, fmt.Errorf("S3 backend: region is required")
	}

	// ========================================================================
	// Step 1: Build AWS Config
	// ========================================================================

	var configOptions []func(*awsConfig.LoadOptions) error

	// Set region
	configOptions = append(configOptions, awsConfig.WithRegion(svcCfg.Region))

	// Set custom endpoint if provided (for MinIO, Localstack, etc.)
	if svcCfg.Endpoint != "" {
		//nolint:staticcheck // TODO: migrate to BaseEndpoint when AWS SDK v2 stabilizes the new API
		customResolver := aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				//nolint:staticcheck // TODO: migrate to BaseEndpoint when AWS SDK v2 stabilizes the new API
				return aws.Endpoint{
					URL:               svcCfg.Endpoint,
					HostnameImmutable: true,
					Source:            aws.EndpointSourceCustom,
				}, nil
			},
		)
		//nolint:staticcheck // TODO: migrate to BaseEndpoint when AWS SDK v2 stabilizes the new API
		configOptions = append(configOptions, awsConfig.WithEndpointResolverWithOptions(customResolver))
	}

	// Set credentials if provided, otherwise use default credential chain
	if svcCfg.AccessKeyID != "" && svcCfg.SecretAccessKey != "" {
		credProvider := credentials.NewStaticCredentialsProvider(
			svcCfg.AccessKeyID,
			svcCfg.SecretAccessKey,
			"", // session token (empty for static credentials)
		)
		configOptions = append(configOptions, awsConfig.WithCredentialsProvider(credProvider))
	}

	// Configure retries for better resilience against temporary S3 failures
	maxRetries := svcCfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 10 // Default: 10 attempts
	}
	configOptions = append(configOptions, awsConfig.WithRetryer(func() aws.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = maxRetries // Retry for transient errors (502, 503, timeouts, etc.)
		})
	}))

	// Load AWS config
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// ========================================================================
	// Step 2: Create S3 Client
	// ========================================================================

	client := awsS3.NewFromConfig(awsCfg, func(o *awsS3.Options) {
		// Force path-style addressing for compatibility with MinIO/Localstack
		if svcCfg.Endpoint != "" {
			o.UsePathStyle = true
		}
	})

	// ========================================================================
	// Step 3: Create S3 Directory Service
	// ========================================================================

	svc, err := s3.NewS3DirectoryService(s3.S3DirectoryServiceConfig{
		Client:    client,
		Bucket:    svcCfg.Bucket,
		KeyPrefix: svcCfg.KeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 backend: %w", err)
	}

	logger.Info("S3 backend initialized: bucket=%s, region=%s, prefix=%s",
		svcCfg.Bucket, svcCfg.Region, svcCfg.KeyPrefix)

	return svc, nil
}
