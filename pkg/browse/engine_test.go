package browse

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epic-data/xrdbrowse/pkg/remote"
	"github.com/epic-data/xrdbrowse/pkg/remote/memory"
)

// newTestEngine builds an engine over a seeded in-memory tree:
//
//	/data/a.root        10 bytes
//	/data/b.root        20 bytes
//	/data/c.txt          5 bytes
//	/data/sub/d.root    40 bytes
//	/data/sub/deep/e    15 bytes
func newTestEngine(t *testing.T, opts Options) (*Engine, *memory.MemoryDirectoryService) {
	t.Helper()

	svc := memory.NewMemoryDirectoryService()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.AddFile("/data/a.root", make([]byte, 10), base)
	svc.AddFile("/data/b.root", make([]byte, 20), base.Add(time.Hour))
	svc.AddFile("/data/c.txt", make([]byte, 5), base.Add(2*time.Hour))
	svc.AddFile("/data/sub/d.root", make([]byte, 40), base.Add(3*time.Hour))
	svc.AddFile("/data/sub/deep/e", make([]byte, 15), base.Add(4*time.Hour))

	engine := NewEngine("/data", svc, opts)
	t.Cleanup(func() { _ = engine.Close(context.Background()) })

	return engine, svc
}

func TestListDirectory(t *testing.T) {
	engine, _ := newTestEngine(t, Options{})

	entries, err := engine.ListDirectory(context.Background(), "/data")
	require.NoError(t, err)
	require.Len(t, entries, 4)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	assert.ElementsMatch(t, []string{"a.root", "b.root", "c.txt", "sub"}, names)
}

func TestListDirectoryAccessDeniedSkipsRemote(t *testing.T) {
	engine, svc := newTestEngine(t, Options{})

	_, err := engine.ListDirectory(context.Background(), "/etc")
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = engine.ListDirectory(context.Background(), "/data/../etc")
	assert.ErrorIs(t, err, ErrAccessDenied)

	assert.Equal(t, 0, svc.ListCalls(), "rejected paths must never reach the remote")
}

func TestListDirectoryCaching(t *testing.T) {
	engine, svc := newTestEngine(t, Options{CacheEnabled: true})
	ctx := context.Background()

	_, err := engine.ListDirectory(ctx, "/data")
	require.NoError(t, err)
	_, err = engine.ListDirectory(ctx, "/data")
	require.NoError(t, err)

	assert.Equal(t, 1, svc.ListCalls(), "second listing must be served from cache")

	require.NoError(t, engine.InvalidateListing("/data"))
	_, err = engine.ListDirectory(ctx, "/data")
	require.NoError(t, err)
	assert.Equal(t, 2, svc.ListCalls())
}

func TestCacheKeyIsResolvedPath(t *testing.T) {
	engine, svc := newTestEngine(t, Options{CacheEnabled: true})
	ctx := context.Background()

	// Different spellings of the same directory share one cache record.
	_, err := engine.ListDirectory(ctx, "sub")
	require.NoError(t, err)
	_, err = engine.ListDirectory(ctx, "/data/sub")
	require.NoError(t, err)
	_, err = engine.ListDirectory(ctx, "sub/")
	require.NoError(t, err)

	assert.Equal(t, 1, svc.ListCalls())
}

func TestRecursiveWalkBypassesCacheBelowTop(t *testing.T) {
	engine, svc := newTestEngine(t, Options{CacheEnabled: true})
	ctx := context.Background()

	// Prime the cache for every level.
	_, err := engine.GetDirectorySize(ctx, "/data")
	require.NoError(t, err)
	calls := svc.ListCalls()
	assert.Equal(t, 3, calls, "/data, /data/sub and /data/sub/deep each listed once")

	// A second scan reuses only the cached top-level listing; the descent
	// fetches fresh.
	_, err = engine.GetDirectorySize(ctx, "/data")
	require.NoError(t, err)
	assert.Equal(t, calls+2, svc.ListCalls())
}

func TestGetDirectorySize(t *testing.T) {
	engine, _ := newTestEngine(t, Options{})

	size, err := engine.GetDirectorySize(context.Background(), "/data")
	require.NoError(t, err)

	assert.Equal(t, "/data", size.Path)
	assert.Equal(t, uint64(90), size.TotalBytes)
	assert.Equal(t, uint64(5), size.FileCount)
}

func TestWalkAbortsOnFirstFailure(t *testing.T) {
	engine, svc := newTestEngine(t, Options{})
	svc.FailPath("/data/sub/deep", errors.New("server unreachable"))

	_, err := engine.GetDirectorySize(context.Background(), "/data")
	require.Error(t, err)

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, OpList, remoteErr.Op)
	assert.Equal(t, "/data/sub/deep", remoteErr.Path)
}

func TestGetFileInfo(t *testing.T) {
	engine, _ := newTestEngine(t, Options{})

	info, err := engine.GetFileInfo(context.Background(), "b.root")
	require.NoError(t, err)
	assert.Equal(t, uint64(20), info.Size)
	assert.False(t, info.IsDir)

	_, err = engine.GetFileInfo(context.Background(), "missing.root")
	assert.ErrorIs(t, err, remote.ErrNotFound)
}

func TestReadFile(t *testing.T) {
	engine, svc := newTestEngine(t, Options{})
	svc.AddFile("/data/hello.txt", []byte("hello world"), time.Now())

	data, err := engine.ReadFile(context.Background(), "hello.txt", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	data, err = engine.ReadFile(context.Background(), "hello.txt", 6, 5)
	require.NoError(t, err)
	assert.Equal(t, "world", string(data))

	_, err = engine.ReadFile(context.Background(), "/etc/passwd", 0, -1)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCloseWithoutCache(t *testing.T) {
	svc := memory.NewMemoryDirectoryService()
	engine := NewEngine("/data", svc, Options{})

	assert.NoError(t, engine.Close(context.Background()))
}
