package browse

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/epic-data/xrdbrowse/pkg/remote"
)

// ListFilter narrows a single-level directory listing. Every field is
// optional; an entry must satisfy all supplied filters to be included.
type ListFilter struct {
	// Extension keeps entries whose name ends with the given extension
	// (leading dot optional, matched case-insensitively).
	Extension string

	// MinSize and MaxSize bound the entry size in bytes, inclusive.
	MinSize *uint64
	MaxSize *uint64

	// ModifiedAfter and ModifiedBefore bound the modification time.
	ModifiedAfter  *time.Time
	ModifiedBefore *time.Time

	// NameGlob keeps entries whose name matches a glob pattern
	// ("*" and "?" wildcards, anchored to the whole name).
	NameGlob string
}

// ListDirectoryFiltered lists exactly one directory level and applies the
// filters in sequence: extension, minimum size, maximum size, modified-after,
// modified-before, name glob. The operation is never recursive.
func (e *Engine) ListDirectoryFiltered(ctx context.Context, logical string, filter ListFilter) ([]remote.DirectoryEntry, error) {
	resolved, err := e.sandbox.Resolve(logical)
	if err != nil {
		return nil, err
	}

	entries, err := e.list(ctx, resolved, true)
	if err != nil {
		return nil, err
	}

	suffix := ""
	if filter.Extension != "" {
		suffix = "." + strings.ToLower(strings.TrimPrefix(filter.Extension, "."))
	}

	var glob *regexp.Regexp
	if filter.NameGlob != "" {
		glob = globToRegexp(filter.NameGlob)
	}

	filtered := []remote.DirectoryEntry{}
	for _, entry := range entries {
		if suffix != "" && !strings.HasSuffix(strings.ToLower(entry.Name), suffix) {
			continue
		}
		if filter.MinSize != nil && entry.Size < *filter.MinSize {
			continue
		}
		if filter.MaxSize != nil && entry.Size > *filter.MaxSize {
			continue
		}
		if filter.ModifiedAfter != nil && !entry.ModTime.After(*filter.ModifiedAfter) {
			continue
		}
		if filter.ModifiedBefore != nil && !entry.ModTime.Before(*filter.ModifiedBefore) {
			continue
		}
		if glob != nil && !glob.MatchString(entry.Name) {
			continue
		}
		filtered = append(filtered, entry)
	}

	return filtered, nil
}
