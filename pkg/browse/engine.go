// Package browse implements a sandboxed directory-cache and recursive
// aggregation engine over a remote file hierarchy.
//
// The engine confines every operation to a configured base directory,
// absorbs the high per-call latency of remote directory listings behind a
// bounded time-expiring cache, and builds recursive read-only queries (size
// totals, statistics, pattern search, recency scans, fixed-depth dataset
// discovery) on top of the single-level listing primitive.
//
// Traversal Model:
// Recursive operations descend depth-first and strictly sequentially; a
// sub-directory is listed only after its parent's listing completed. The
// walk trusts the remote service to present an acyclic hierarchy: there is
// no visited-set and no depth limit. No retries happen anywhere in this
// package; the first remote failure aborts the whole aggregation and partial
// results are discarded.
//
// Thread Safety:
// An Engine is safe for concurrent use. The only shared mutable state is the
// listing cache, which synchronizes internally.
package browse

import (
	"context"
	"time"

	"github.com/epic-data/xrdbrowse/internal/logger"
	"github.com/epic-data/xrdbrowse/pkg/remote"
)

// Engine is the sandboxed browse engine. Create one per base directory with
// NewEngine and release it with Close.
type Engine struct {
	sandbox       *Sandbox
	service       remote.DirectoryService
	cache         *ListingCache
	cacheEnabled  bool
	janitor       *janitor
	remoteMetrics RemoteMetrics
}

// Options configures engine construction. Zero values select the defaults
// noted per field.
type Options struct {
	// CacheEnabled turns the listing cache on. Default: false (the config
	// layer flips it on by default; the zero Options is cache-less, which is
	// what most tests want).
	CacheEnabled bool

	// CacheTTL is the listing cache time-to-live. Default: 60 minutes.
	CacheTTL time.Duration

	// CacheCapacity is the maximum number of cached listings. Default: 1000.
	CacheCapacity int

	// CacheMetrics collects cache statistics (nil for no-op).
	CacheMetrics CacheMetrics

	// RemoteMetrics observes remote calls (nil for no-op).
	RemoteMetrics RemoteMetrics
}

// Default cache parameters, applied when Options leaves them zero.
const (
	DefaultCacheTTL      = 60 * time.Minute
	DefaultCacheCapacity = 1000
)

// NewEngine creates an engine rooted at basePath over the given directory
// service. When the cache is enabled a background janitor starts immediately;
// call Close to stop it.
func NewEngine(basePath string, service remote.DirectoryService, opts Options) *Engine {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.CacheCapacity <= 0 {
		opts.CacheCapacity = DefaultCacheCapacity
	}
	if opts.RemoteMetrics == nil {
		opts.RemoteMetrics = noopRemoteMetrics{}
	}

	e := &Engine{
		sandbox:       NewSandbox(basePath),
		service:       service,
		cacheEnabled:  opts.CacheEnabled,
		remoteMetrics: opts.RemoteMetrics,
	}

	if opts.CacheEnabled {
		e.cache = NewListingCache(opts.CacheTTL, opts.CacheCapacity, opts.CacheMetrics)
		e.janitor = newJanitor(e.cache, janitorInterval)
		e.janitor.start()
		logger.Info("Browse engine created: base=%s cache_ttl=%s cache_capacity=%d",
			e.sandbox.Base(), opts.CacheTTL, opts.CacheCapacity)
	} else {
		logger.Info("Browse engine created: base=%s cache disabled", e.sandbox.Base())
	}

	return e
}

// BasePath returns the sandbox root.
func (e *Engine) BasePath() string {
	return e.sandbox.Base()
}

// Close stops the background janitor. Safe to call on a cache-less engine.
func (e *Engine) Close(ctx context.Context) error {
	if e.janitor == nil {
		return nil
	}
	return e.janitor.stop(ctx)
}

// InvalidateListing drops the cached listing for a logical path, if present.
func (e *Engine) InvalidateListing(logical string) error {
	resolved, err := e.sandbox.Resolve(logical)
	if err != nil {
		return err
	}
	if e.cache != nil {
		e.cache.Invalidate(resolved)
	}
	return nil
}

// ListDirectory returns the single-level listing of a logical path. This is
// the cached primitive every other operation builds on: a caller-initiated
// listing may be served from the cache, while recursive descents always go
// to the remote.
func (e *Engine) ListDirectory(ctx context.Context, logical string) ([]remote.DirectoryEntry, error) {
	resolved, err := e.sandbox.Resolve(logical)
	if err != nil {
		return nil, err
	}
	return e.list(ctx, resolved, true)
}

// GetFileInfo stats a logical path. Stat results are never cached; every
// call reaches the remote.
func (e *Engine) GetFileInfo(ctx context.Context, logical string) (remote.FileInfo, error) {
	resolved, err := e.sandbox.Resolve(logical)
	if err != nil {
		return remote.FileInfo{}, err
	}

	start := time.Now()
	info, err := e.service.Stat(ctx, resolved)
	e.remoteMetrics.ObserveOperation(string(OpStat), time.Since(start), err == nil)
	if err != nil {
		return remote.FileInfo{}, newRemoteError(OpStat, resolved, err)
	}

	return info, nil
}

// ReadFile reads file content at a logical path, optionally restricted to a
// byte range (length < 0 reads to end of file). Reads are never cached.
func (e *Engine) ReadFile(ctx context.Context, logical string, offset, length int64) ([]byte, error) {
	resolved, err := e.sandbox.Resolve(logical)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	data, err := e.service.ReadFile(ctx, resolved, offset, length)
	e.remoteMetrics.ObserveOperation(string(OpRead), time.Since(start), err == nil)
	if err != nil {
		return nil, newRemoteError(OpRead, resolved, err)
	}

	return data, nil
}

// list retrieves one directory level, consulting the cache when useCache is
// true and the cache is enabled. Recursive walks pass useCache=false below
// the top level so a multi-directory scan never mixes cached and fresh
// intermediate state.
func (e *Engine) list(ctx context.Context, resolved string, useCache bool) ([]remote.DirectoryEntry, error) {
	cacheable := useCache && e.cacheEnabled

	if cacheable {
		if entries, ok := e.cache.Get(resolved); ok {
			return entries, nil
		}
	}

	start := time.Now()
	entries, err := e.service.ListDirectory(ctx, resolved)
	e.remoteMetrics.ObserveOperation(string(OpList), time.Since(start), err == nil)
	if err != nil {
		return nil, newRemoteError(OpList, resolved, err)
	}

	if cacheable {
		e.cache.Set(resolved, entries)
	}

	return entries, nil
}

// walk visits resolved and every directory below it depth-first, invoking fn
// with each directory's resolved path and entries. The top-level listing may
// come from the cache; all deeper listings are fetched fresh. fn returning
// an error aborts the walk.
func (e *Engine) walk(ctx context.Context, resolved string, fn func(dir string, entries []remote.DirectoryEntry) error) error {
	return e.walkLevel(ctx, resolved, true, fn)
}

func (e *Engine) walkLevel(ctx context.Context, resolved string, top bool, fn func(string, []remote.DirectoryEntry) error) error {
	entries, err := e.list(ctx, resolved, top)
	if err != nil {
		return err
	}

	if err := fn(resolved, entries); err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir {
			continue
		}
		if err := e.walkLevel(ctx, joinPath(resolved, entry.Name), false, fn); err != nil {
			return err
		}
	}

	return nil
}

// joinPath appends a bare entry name to a resolved directory path.
func joinPath(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}
