package browse

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/epic-data/xrdbrowse/pkg/remote"
)

// SearchResult is one match from SearchFiles.
type SearchResult struct {
	Path    string
	Size    uint64
	ModTime time.Time
	IsDir   bool
}

// SearchFiles finds entries whose bare filename matches a pattern.
//
// With useRegex=false the pattern is glob syntax: "*" matches any run of
// characters, "?" matches exactly one, every other character is literal
// (a "." in the pattern only matches a "."). The glob is anchored to the
// whole filename. A non-recursive glob search is a single listing filtered
// by the glob, entries of any kind. A recursive glob search descends the
// whole subtree and collects matching files only; directories that happen
// to match the glob are descended into but not reported.
//
// With useRegex=true the pattern is compiled verbatim as a regular
// expression and matched against each filename. Matches of any kind are
// recorded, including directories. The recursive flag bounds the descent to
// a single level when false.
func (e *Engine) SearchFiles(ctx context.Context, pattern, logical string, recursive, useRegex bool) ([]SearchResult, error) {
	resolved, err := e.sandbox.Resolve(logical)
	if err != nil {
		return nil, err
	}

	var matcher *regexp.Regexp
	if useRegex {
		matcher, err = regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid search pattern %q: %w", pattern, err)
		}
	} else {
		matcher = globToRegexp(pattern)
	}

	results := []SearchResult{}

	record := func(dir string, entry remote.DirectoryEntry) {
		results = append(results, SearchResult{
			Path:    joinPath(dir, entry.Name),
			Size:    entry.Size,
			ModTime: entry.ModTime,
			IsDir:   entry.IsDir,
		})
	}

	collect := func(dir string, entries []remote.DirectoryEntry) error {
		for _, entry := range entries {
			if !matcher.MatchString(entry.Name) {
				continue
			}
			// A recursive glob search reports files only; regex searches
			// and single-level glob searches report any matching entry.
			if !useRegex && recursive && entry.IsDir {
				continue
			}
			record(dir, entry)
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

	return results, nil
}

// globToRegexp converts a glob pattern to an anchored regular expression:
// "*" becomes ".*", "?" becomes ".", everything else is quoted literally.
func globToRegexp(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")

	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	b.WriteString("$")

	// The translation can only produce valid syntax.
	return regexp.MustCompile(b.String())
}
