// Command xrdbrowse runs one browse operation against a remote file
// hierarchy and prints the result.
//
// Usage:
//
//	xrdbrowse -op ls -path /store/reco
//	xrdbrowse -op size -path /store/reco/campaign24
//	xrdbrowse -op search -path /store/reco -pattern '*.root' -recursive
//	xrdbrowse -op datasets -path /store/reco -campaign campaign24
//
// Configuration comes from the config file (-config), XRDBROWSE_*
// environment variables and built-in defaults, in that order of precedence.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/epic-data/xrdbrowse/internal/logger"
	"github.com/epic-data/xrdbrowse/pkg/browse"
	"github.com/epic-data/xrdbrowse/pkg/config"
	"github.com/epic-data/xrdbrowse/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: standard locations)")
	op := flag.String("op", "ls", "Operation: ls, stat, cat, size, stats, search, filter, recent, changes, campaigns, datasets, init-config")
	path := flag.String("path", "", "Path to operate on (absolute or relative to the base path)")

	// Search and filter flags
	pattern := flag.String("pattern", "", "Search pattern (glob, or regular expression with -regex)")
	regex := flag.Bool("regex", false, "Treat -pattern as a regular expression")
	recursive := flag.Bool("recursive", false, "Descend into subdirectories")
	extension := flag.String("extension", "", "Filter: keep entries with this extension")
	minSize := flag.Uint64("min-size", 0, "Filter: minimum size in bytes (0 = no bound)")
	maxSize := flag.Uint64("max-size", 0, "Filter: maximum size in bytes (0 = no bound)")
	nameGlob := flag.String("name-glob", "", "Filter: keep entries whose name matches this glob")

	// Recency flags
	hours := flag.Int("hours", 24, "Lookback window in hours for recent/changes")

	// Hierarchy flags
	campaign := flag.String("campaign", "", "Campaign name for the datasets operation")

	// Read flags
	offset := flag.Int64("offset", 0, "Byte offset for cat")
	length := flag.Int64("length", -1, "Byte count for cat (-1 = to end of file)")

	jsonOut := flag.Bool("json", false, "Print results as JSON")

	flag.Parse()

	if *op == "init-config" {
		if err := writeDefaultConfig(); err != nil {
			log.Fatalf("Failed to write default config: %v", err)
		}
		return
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure logger
	if err := logger.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize metrics before any component asks for a collector
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	// Create the remote backend
	service, err := config.CreateDirectoryService(ctx, &cfg.Remote)
	if err != nil {
		log.Fatalf("Failed to create remote backend: %v", err)
	}

	// Create the browse engine
	engine := browse.NewEngine(cfg.Browse.BasePath, service, browse.Options{
		CacheEnabled:  cfg.Browse.Cache.Enabled,
		CacheTTL:      cfg.Browse.Cache.TTL,
		CacheCapacity: cfg.Browse.Cache.Capacity,
		CacheMetrics:  metrics.NewListingCacheMetrics(),
		RemoteMetrics: metrics.NewRemoteMetrics(),
	})
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := engine.Close(closeCtx); err != nil {
			logger.Warn("Engine shutdown: %v", err)
		}
	}()

	// Start the metrics server alongside the operation
	if cfg.Metrics.Enabled {
		srv := metrics.NewServer(metrics.ServerConfig{Port: cfg.Metrics.Port})
		go func() {
			if err := srv.Start(ctx); err != nil {
				logger.Error("Metrics server: %v", err)
			}
		}()
	}

	result, err := runOperation(ctx, engine, operationArgs{
		op:        *op,
		path:      *path,
		pattern:   *pattern,
		regex:     *regex,
		recursive: *recursive,
		extension: *extension,
		minSize:   *minSize,
		maxSize:   *maxSize,
		nameGlob:  *nameGlob,
		hours:     *hours,
		campaign:  *campaign,
		offset:    *offset,
		length:    *length,
	})
	if err != nil {
		log.Fatalf("Operation %s failed: %v", *op, err)
	}

	if err := printResult(result, *jsonOut); err != nil {
		log.Fatalf("Failed to print result: %v", err)
	}
}

// operationArgs bundles the flag values an operation may need.
type operationArgs struct {
	op        string
	path      string
	pattern   string
	regex     bool
	recursive bool
	extension string
	minSize   uint64
	maxSize   uint64
	nameGlob  string
	hours     int
	campaign  string
	offset    int64
	length    int64
}

// runOperation dispatches one operation against the engine.
func runOperation(ctx context.Context, engine *browse.Engine, args operationArgs) (any, error) {
	switch args.op {
	case "ls":
		return engine.ListDirectory(ctx, args.path)

	case "stat":
		return engine.GetFileInfo(ctx, args.path)

	case "cat":
		data, err := engine.ReadFile(ctx, args.path, args.offset, args.length)
		if err != nil {
			return nil, err
		}
		// Raw content goes straight to stdout, bypassing result printing
		_, err = os.Stdout.Write(data)
		return nil, err

	case "size":
		return engine.GetDirectorySize(ctx, args.path)

	case "stats":
		return engine.GetStatistics(ctx, args.path, args.recursive)

	case "search":
		if args.pattern == "" {
			return nil, fmt.Errorf("search requires -pattern")
		}
		return engine.SearchFiles(ctx, args.pattern, args.path, args.recursive, args.regex)

	case "filter":
		filter := browse.ListFilter{
			Extension: args.extension,
			NameGlob:  args.nameGlob,
		}
		if args.minSize > 0 {
			filter.MinSize = &args.minSize
		}
		if args.maxSize > 0 {
			filter.MaxSize = &args.maxSize
		}
		return engine.ListDirectoryFiltered(ctx, args.path, filter)

	case "recent":
		return engine.FindRecentFiles(ctx, args.path, args.hours, args.recursive)

	case "changes":
		return engine.SummarizeRecentChanges(ctx, args.path, args.hours)

	case "campaigns":
		return engine.ListCampaigns(ctx, args.path)

	case "datasets":
		if args.campaign == "" {
			return nil, fmt.Errorf("datasets requires -campaign")
		}
		return engine.ListDatasets(ctx, args.path, args.campaign)

	default:
		return nil, fmt.Errorf("unknown operation %q", args.op)
	}
}

// printResult renders an operation result to stdout.
func printResult(result any, asJSON bool) error {
	if result == nil {
		return nil
	}

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	// YAML reads well for nested aggregates and needs no per-type formatting
	encoder := yaml.NewEncoder(os.Stdout)
	defer encoder.Close()
	return encoder.Encode(result)
}

// writeDefaultConfig writes a commented default configuration file to the
// standard location, refusing to overwrite an existing one.
func writeDefaultConfig() error {
	if config.ConfigExists() {
		return fmt.Errorf("config already exists at %s", config.GetDefaultConfigPath())
	}

	path := config.GetDefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config.GetDefaultConfig())
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	fmt.Printf("Default config written to %s\n", path)
	return nil
}
