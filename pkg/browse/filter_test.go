package browse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epic-data/xrdbrowse/pkg/remote"
)

func filteredNames(entries []remote.DirectoryEntry) []string {
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	return names
}

func uint64p(v uint64) *uint64     { return &v }
func timep(v time.Time) *time.Time { return &v }

func TestListDirectoryFilteredExtension(t *testing.T) {
	engine, _ := newTestEngine(t, Options{})

	entries, err := engine.ListDirectoryFiltered(context.Background(), "/data", ListFilter{Extension: "root"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.root", "b.root"}, filteredNames(entries))

	// Leading dot and case are normalized.
	entries, err = engine.ListDirectoryFiltered(context.Background(), "/data", ListFilter{Extension: ".ROOT"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.root", "b.root"}, filteredNames(entries))
}

func TestListDirectoryFilteredSizeBoundsInclusive(t *testing.T) {
	engine, svc := newTestEngine(t, Options{})
	svc.AddFile("/data/tiny.bin", make([]byte, 50), time.Now())
	svc.AddFile("/data/mid.bin", make([]byte, 150), time.Now())
	svc.AddFile("/data/big.bin", make([]byte, 300), time.Now())
	svc.AddFile("/data/low.bin", make([]byte, 100), time.Now())
	svc.AddFile("/data/high.bin", make([]byte, 200), time.Now())

	entries, err := engine.ListDirectoryFiltered(context.Background(), "/data", ListFilter{
		MinSize: uint64p(100),
		MaxSize: uint64p(200),
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"low.bin", "mid.bin", "high.bin"}, filteredNames(entries))
}

func TestListDirectoryFilteredModTime(t *testing.T) {
	engine, _ := newTestEngine(t, Options{})
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// a.root is at base, b.root at +1h, c.txt at +2h; sub has zero ModTime.
	entries, err := engine.ListDirectoryFiltered(context.Background(), "/data", ListFilter{
		ModifiedAfter:  timep(base),
		ModifiedBefore: timep(base.Add(2 * time.Hour)),
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b.root"}, filteredNames(entries))
}

func TestListDirectoryFilteredNameGlob(t *testing.T) {
	engine, _ := newTestEngine(t, Options{})

	entries, err := engine.ListDirectoryFiltered(context.Background(), "/data", ListFilter{NameGlob: "?.root"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.root", "b.root"}, filteredNames(entries))
}

func TestListDirectoryFilteredCombined(t *testing.T) {
	engine, _ := newTestEngine(t, Options{})

	entries, err := engine.ListDirectoryFiltered(context.Background(), "/data", ListFilter{
		Extension: "root",
		MinSize:   uint64p(15),
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b.root"}, filteredNames(entries))
}

func TestListDirectoryFilteredEmptyFilterPassesAll(t *testing.T) {
	engine, _ := newTestEngine(t, Options{})

	entries, err := engine.ListDirectoryFiltered(context.Background(), "/data", ListFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestListDirectoryFilteredIsSingleLevel(t *testing.T) {
	engine, _ := newTestEngine(t, Options{})

	entries, err := engine.ListDirectoryFiltered(context.Background(), "/data", ListFilter{Extension: "root"})
	require.NoError(t, err)
	assert.NotContains(t, filteredNames(entries), "d.root")
}
