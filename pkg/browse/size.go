package browse

import (
	"context"

	"github.com/epic-data/xrdbrowse/pkg/remote"
)

// DirectorySize is the aggregate result of a recursive size scan.
type DirectorySize struct {
	// Path is the resolved directory the scan started from.
	Path string

	// TotalBytes is the sum of all file sizes in the subtree.
	TotalBytes uint64

	// FileCount is the number of files visited.
	FileCount uint64
}

// GetDirectorySize sums the sizes of every file reachable from a logical
// path. Directories are expanded by recursive listing; the walk has no depth
// limit and assumes the remote hierarchy is acyclic. Any listing failure
// aborts the scan with an error naming the failing sub-directory.
func (e *Engine) GetDirectorySize(ctx context.Context, logical string) (*DirectorySize, error) {
	resolved, err := e.sandbox.Resolve(logical)
	if err != nil {
		return nil, err
	}

	result := &DirectorySize{Path: resolved}

	err = e.walk(ctx, resolved, func(_ string, entries []remote.DirectoryEntry) error {
		for _, entry := range entries {
			if entry.IsDir {
				continue
			}
			result.TotalBytes += entry.Size
			result.FileCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
