package browse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epic-data/xrdbrowse/pkg/remote/memory"
)

func newRecencyEngine(t *testing.T) (*Engine, *memory.MemoryDirectoryService) {
	t.Helper()

	svc := memory.NewMemoryDirectoryService()
	now := time.Now()
	svc.AddFile("/data/fresh.root", make([]byte, 30), now.Add(-30*time.Minute))
	svc.AddFile("/data/stale.root", make([]byte, 10), now.Add(-2*time.Hour))
	svc.AddFile("/data/sub/fresh.txt", make([]byte, 5), now.Add(-10*time.Minute))
	svc.AddFile("/data/sub/ancient.log", make([]byte, 99), now.Add(-48*time.Hour))
	svc.AddFile("/data/unknown.dat", make([]byte, 7), time.Time{})

	engine := NewEngine("/data", svc, Options{})
	t.Cleanup(func() { _ = engine.Close(context.Background()) })

	return engine, svc
}

func TestFindRecentFiles(t *testing.T) {
	engine, _ := newRecencyEngine(t)

	files, err := engine.FindRecentFiles(context.Background(), "/data", 1, true)
	require.NoError(t, err)

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.ElementsMatch(t, []string{"/data/fresh.root", "/data/sub/fresh.txt"}, paths)
}

func TestFindRecentFilesNonRecursive(t *testing.T) {
	engine, _ := newRecencyEngine(t)

	files, err := engine.FindRecentFiles(context.Background(), "/data", 1, false)
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "/data/fresh.root", files[0].Path)
}

func TestFindRecentFilesUnknownModTimeNeverRecent(t *testing.T) {
	engine, _ := newRecencyEngine(t)

	// Even an enormous window does not pick up files with an unknown
	// modification time.
	files, err := engine.FindRecentFiles(context.Background(), "/data", 24*365*100, true)
	require.NoError(t, err)

	for _, f := range files {
		assert.NotEqual(t, "/data/unknown.dat", f.Path)
	}
	assert.Len(t, files, 4)
}

func TestSummarizeRecentChanges(t *testing.T) {
	engine, _ := newRecencyEngine(t)

	summary, err := engine.SummarizeRecentChanges(context.Background(), "/data", 1)
	require.NoError(t, err)

	assert.Equal(t, "/data", summary.Path)
	assert.Equal(t, 1, summary.Hours)
	assert.Equal(t, uint64(2), summary.TotalFiles)
	assert.Equal(t, uint64(35), summary.TotalSize)

	assert.Equal(t, uint64(1), summary.ByExtension["root"].Count)
	assert.Equal(t, uint64(30), summary.ByExtension["root"].Size)
	assert.Equal(t, uint64(1), summary.ByExtension["txt"].Count)

	assert.Equal(t, uint64(1), summary.ByDirectory["/data"])
	assert.Equal(t, uint64(1), summary.ByDirectory["/data/sub"])

	require.Len(t, summary.Files, 2)
	assert.Equal(t, "/data/sub/fresh.txt", summary.Files[0].Path, "most recent first")
	assert.Equal(t, "/data/fresh.root", summary.Files[1].Path)
}

func TestSummarizeRecentChangesEmptyWindow(t *testing.T) {
	engine, _ := newRecencyEngine(t)

	summary, err := engine.SummarizeRecentChanges(context.Background(), "/data", 0)
	require.NoError(t, err)

	assert.Equal(t, uint64(0), summary.TotalFiles)
	assert.Empty(t, summary.Files)
}
