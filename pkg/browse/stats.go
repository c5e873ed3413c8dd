package browse

import (
	"context"
	"strings"
	"time"

	"github.com/epic-data/xrdbrowse/pkg/remote"
)

// NoExtension is the bucket key for files whose name has no "." suffix.
const NoExtension = "no-extension"

// ExtensionStats accumulates count and size for one extension bucket.
type ExtensionStats struct {
	Count uint64
	Size  uint64
}

// FileRef points at a single file found during a scan.
type FileRef struct {
	Path    string
	Size    uint64
	ModTime time.Time
}

// DirectoryStatistics is the aggregate result of a statistics scan.
type DirectoryStatistics struct {
	// Path is the resolved directory the scan started from.
	Path string

	// TotalFiles and TotalDirectories count the entries visited. The
	// starting directory itself is not counted.
	TotalFiles       uint64
	TotalDirectories uint64

	// TotalSize is the sum of all file sizes.
	TotalSize uint64

	// SizeByExtension buckets files by the lowercase suffix after the last
	// "." of the filename; files without one land in the NoExtension bucket.
	SizeByExtension map[string]ExtensionStats

	// OldestFile, NewestFile and LargestFile are running pointers updated
	// with strict comparisons, so ties keep the first-seen entry. Oldest and
	// newest consider only files with a known modification time.
	OldestFile  *FileRef
	NewestFile  *FileRef
	LargestFile *FileRef
}

// GetStatistics walks a logical path collecting file and directory counts,
// total size, a per-extension breakdown and the oldest, newest and largest
// files. With recursive=false only the single directory level is examined.
func (e *Engine) GetStatistics(ctx context.Context, logical string, recursive bool) (*DirectoryStatistics, error) {
	resolved, err := e.sandbox.Resolve(logical)
	if err != nil {
		return nil, err
	}

	stats := &DirectoryStatistics{
		Path:            resolved,
		SizeByExtension: make(map[string]ExtensionStats),
	}

	collect := func(dir string, entries []remote.DirectoryEntry) error {
		for _, entry := range entries {
			if entry.IsDir {
				stats.TotalDirectories++
				continue
			}

			stats.TotalFiles++
			stats.TotalSize += entry.Size

			ext := extensionOf(entry.Name)
			bucket := stats.SizeByExtension[ext]
			bucket.Count++
			bucket.Size += entry.Size
			stats.SizeByExtension[ext] = bucket

			ref := &FileRef{
				Path:    joinPath(dir, entry.Name),
				Size:    entry.Size,
				ModTime: entry.ModTime,
			}

			if !entry.ModTime.IsZero() {
				if stats.OldestFile == nil || entry.ModTime.Before(stats.OldestFile.ModTime) {
					stats.OldestFile = ref
				}
				if stats.NewestFile == nil || entry.ModTime.After(stats.NewestFile.ModTime) {
					stats.NewestFile = ref
				}
			}
			if stats.LargestFile == nil || entry.Size > stats.LargestFile.Size {
				stats.LargestFile = ref
			}
		}
		return nil
	}

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

	return stats, nil
}

// extensionOf returns the lowercase extension bucket key for a filename.
func extensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return NoExtension
	}
	return strings.ToLower(name[idx+1:])
}
