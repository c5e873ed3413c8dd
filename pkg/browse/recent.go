package browse

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/epic-data/xrdbrowse/pkg/remote"
)

// RecentFile is one file found by a recency scan.
type RecentFile struct {
	Path    string
	Size    uint64
	ModTime time.Time
}

// RecentChangesSummary aggregates a recursive recency scan of a subtree.
type RecentChangesSummary struct {
	// Path is the resolved directory the scan started from.
	Path string

	// Hours is the lookback window the scan used.
	Hours int

	// TotalFiles and TotalSize cover every recent file found.
	TotalFiles uint64
	TotalSize  uint64

	// ByExtension buckets recent files like DirectoryStatistics does.
	ByExtension map[string]ExtensionStats

	// ByDirectory counts recent files per parent directory (resolved path).
	ByDirectory map[string]uint64

	// Files is the full list sorted by modification time descending, most
	// recent first. Callers typically take a prefix.
	Files []RecentFile
}

// FindRecentFiles collects every file under a logical path whose
// modification time is at or after now minus the given number of hours.
// Directories are descended into but never reported themselves. Files with
// an unknown modification time are never considered recent.
func (e *Engine) FindRecentFiles(ctx context.Context, logical string, hours int, recursive bool) ([]RecentFile, error) {
	resolved, err := e.sandbox.Resolve(logical)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)
	return e.recentFiles(ctx, resolved, cutoff, recursive)
}

// recentFiles is the shared scan behind FindRecentFiles and
// SummarizeRecentChanges. The path must already be resolved.
func (e *Engine) recentFiles(ctx context.Context, resolved string, cutoff time.Time, recursive bool) ([]RecentFile, error) {
	found := []RecentFile{}

	collect := func(dir string, entries []remote.DirectoryEntry) error {
		for _, entry := range entries {
			if entry.IsDir || entry.ModTime.Before(cutoff) {
				continue
			}
			found = append(found, RecentFile{
				Path:    joinPath(dir, entry.Name),
				Size:    entry.Size,
				ModTime: entry.ModTime,
			})
		}
		return nil
	}

	var err error
	if recursive {
		err = e.walk(ctx, resolved, collect)
	} else {
		var entries []remote.DirectoryEntry
		entries, err = e.list(ctx, resolved, true)
		if err == nil {
			err = collect(resolved, entries)
		}
	}
	if err != nil {
		return nil, err
	}

	return found, nil
}

// SummarizeRecentChanges runs a recursive recency scan over the whole
// subtree and aggregates the result: totals, per-extension and per-directory
// breakdowns, and the full file list sorted most recent first.
func (e *Engine) SummarizeRecentChanges(ctx context.Context, logical string, hours int) (*RecentChangesSummary, error) {
	resolved, err := e.sandbox.Resolve(logical)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)
	files, err := e.recentFiles(ctx, resolved, cutoff, true)
	if err != nil {
		return nil, err
	}

	summary := &RecentChangesSummary{
		Path:        resolved,
		Hours:       hours,
		ByExtension: make(map[string]ExtensionStats),
		ByDirectory: make(map[string]uint64),
		Files:       files,
	}

	for _, file := range files {
		summary.TotalFiles++
		summary.TotalSize += file.Size

		name := file.Path[strings.LastIndex(file.Path, "/")+1:]
		bucket := summary.ByExtension[extensionOf(name)]
		bucket.Count++
		bucket.Size += file.Size
		summary.ByExtension[extensionOf(name)] = bucket

		parent := file.Path[:strings.LastIndex(file.Path, "/")]
		if parent == "" {
			parent = "/"
		}
		summary.ByDirectory[parent]++
	}

	sort.Slice(summary.Files, func(i, j int) bool {
		return summary.Files[i].ModTime.After(summary.Files[j].ModTime)
	})

	return summary, nil
}
