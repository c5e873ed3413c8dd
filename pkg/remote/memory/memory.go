// Package memory provides an in-memory DirectoryService implementation.
//
// The memory service holds a synthetic file tree built through AddFile and
// AddDirectory. It is primarily used by tests and demos: it supports per-path
// failure injection and counts remote calls, which lets tests assert how many
// listings an engine operation actually performed.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/epic-data/xrdbrowse/pkg/remote"
)

// MemoryDirectoryService implements remote.DirectoryService over an in-memory
// tree of directories and files.
//
// Thread Safety:
// Safe for concurrent use. All state is guarded by a single RWMutex.
type MemoryDirectoryService struct {
	mu sync.RWMutex

	// dirs maps an absolute directory path to its child entries, keyed by name.
	dirs map[string]map[string]remote.DirectoryEntry

	// files maps an absolute file path to its content.
	files map[string][]byte

	// failures maps an absolute path to an injected error returned by any
	// operation touching that path.
	failures map[string]error

	listCalls int
}

// NewMemoryDirectoryService creates an empty in-memory directory service
// containing only the root directory "/".
func NewMemoryDirectoryService() *MemoryDirectoryService {
	return &MemoryDirectoryService{
		dirs:     map[string]map[string]remote.DirectoryEntry{"/": {}},
		files:    make(map[string][]byte),
		failures: make(map[string]error),
	}
}

// AddDirectory creates a directory and all missing parents.
func (m *MemoryDirectoryService) AddDirectory(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureDir(clean(path))
}

// AddFile creates a file with the given content and modification time,
// creating all missing parent directories.
func (m *MemoryDirectoryService) AddFile(path string, content []byte, modTime time.Time) {
	path = clean(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	parent, name := split(path)
	m.ensureDir(parent)
	m.dirs[parent][name] = remote.DirectoryEntry{
		Name:    name,
		IsDir:   false,
		Size:    uint64(len(content)),
		ModTime: modTime,
	}
	m.files[path] = content
}

// FailPath injects an error that every subsequent operation on path returns.
// Passing nil clears the injection.
func (m *MemoryDirectoryService) FailPath(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = clean(path)
	if err == nil {
		delete(m.failures, path)
		return
	}
	m.failures[path] = err
}

// ListCalls returns how many ListDirectory calls have been served, including
// failed ones. Used by tests to verify cache behavior.
func (m *MemoryDirectoryService) ListCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listCalls
}

// ListDirectory implements remote.DirectoryService.
func (m *MemoryDirectoryService) ListDirectory(ctx context.Context, path string) ([]remote.DirectoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path = clean(path)

	m.mu.Lock()
	m.listCalls++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	if err, ok := m.failures[path]; ok {
		return nil, err
	}

	children, ok := m.dirs[path]
	if !ok {
		if _, isFile := m.files[path]; isFile {
			return nil, fmt.Errorf("list %s: %w", path, remote.ErrNotDirectory)
		}
		return nil, fmt.Errorf("list %s: %w", path, remote.ErrNotFound)
	}

	entries := make([]remote.DirectoryEntry, 0, len(children))
	for _, entry := range children {
		entries = append(entries, entry)
	}

	// Deterministic order makes failures easier to debug, even though
	// callers must not depend on it.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	return entries, nil
}

// Stat implements remote.DirectoryService.
func (m *MemoryDirectoryService) Stat(ctx context.Context, path string) (remote.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return remote.FileInfo{}, err
	}

	path = clean(path)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if err, ok := m.failures[path]; ok {
		return remote.FileInfo{}, err
	}

	if _, ok := m.dirs[path]; ok {
		return remote.FileInfo{Path: path, IsDir: true}, nil
	}

	parent, name := split(path)
	if children, ok := m.dirs[parent]; ok {
		if entry, ok := children[name]; ok {
			return remote.FileInfo{
				Path:    path,
				Size:    entry.Size,
				ModTime: entry.ModTime,
				IsDir:   entry.IsDir,
			}, nil
		}
	}

	return remote.FileInfo{}, fmt.Errorf("stat %s: %w", path, remote.ErrNotFound)
}

// ReadFile implements remote.DirectoryService.
func (m *MemoryDirectoryService) ReadFile(ctx context.Context, path string, offset, length int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if offset < 0 {
		return nil, fmt.Errorf("read %s: %w", path, remote.ErrInvalidOffset)
	}

	path = clean(path)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if err, ok := m.failures[path]; ok {
		return nil, err
	}

	content, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, remote.ErrNotFound)
	}

	if offset >= int64(len(content)) {
		return []byte{}, nil
	}

	end := int64(len(content))
	if length >= 0 && offset+length < end {
		end = offset + length
	}

	// Copy so callers cannot mutate the stored content.
	result := make([]byte, end-offset)
	copy(result, content[offset:end])

	return result, nil
}

// ensureDir creates path and all parents. Must be called with mu held.
func (m *MemoryDirectoryService) ensureDir(path string) {
	if _, ok := m.dirs[path]; ok {
		return
	}

	if path != "/" {
		parent, name := split(path)
		m.ensureDir(parent)
		m.dirs[parent][name] = remote.DirectoryEntry{Name: name, IsDir: true}
	}

	m.dirs[path] = make(map[string]remote.DirectoryEntry)
}

// clean normalizes a path to an absolute form without a trailing slash.
func clean(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// split returns the parent directory and base name of a cleaned path.
func split(path string) (parent, name string) {
	idx := strings.LastIndex(path, "/")
	name = path[idx+1:]
	parent = path[:idx]
	if parent == "" {
		parent = "/"
	}
	return parent, name
}
