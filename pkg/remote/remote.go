// Package remote defines the contract between the browse engine and the
// remote directory service that actually lists, stats and reads paths.
package remote

import (
	"context"
	"time"
)

// ============================================================================
// DirectoryService Interface
// ============================================================================

// DirectoryService provides read-only access to a remote file hierarchy.
//
// This interface abstracts the storage backend (an XRootD endpoint, an S3
// bucket, an in-memory tree) behind three primitives: list one directory
// level, stat one path, read one file. The browse engine treats every call
// as potentially slow and as the sole source of ground truth; results are
// never modified after they are returned.
//
// Separation of Concerns:
//
// The directory service knows nothing about sandboxing, caching or recursive
// aggregation. It receives absolute paths that the engine has already
// resolved and validated. Implementations must not interpret "." or ".."
// segments; the engine never passes them.
//
// Design Principles:
//   - Read-only: no create/write/delete operations exist on this interface
//   - Non-recursive: ListDirectory returns exactly one level
//   - Context-aware: all operations respect context cancellation and timeouts
//   - Consistent errors: "no such path" conditions wrap ErrNotFound where the
//     backend can distinguish them
//
// Thread Safety:
// Implementations must be safe for concurrent use by multiple goroutines.
type DirectoryService interface {
	// ListDirectory returns the entries of exactly one directory level.
	//
	// The listing is a name-unique set; order is not significant and callers
	// must not rely on it. The returned slice and its entries are owned by
	// the caller and are never mutated by the service afterwards.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - path: Absolute path of the directory to list
	//
	// Returns:
	//   - []DirectoryEntry: Entries directly under path
	//   - error: Wraps ErrNotFound if the path does not exist
	ListDirectory(ctx context.Context, path string) ([]DirectoryEntry, error)

	// Stat returns size, modification time and kind for a single path.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - path: Absolute path to stat
	//
	// Returns:
	//   - FileInfo: Attributes of the path
	//   - error: Wraps ErrNotFound if the path does not exist
	Stat(ctx context.Context, path string) (FileInfo, error)

	// ReadFile reads file content, optionally restricted to a byte range.
	//
	// A negative length means "read to end of file". Reads past end of file
	// return the available bytes without error; a read starting at or past
	// end of file returns an empty slice.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - path: Absolute path of the file to read
	//   - offset: Byte offset where reading begins (must be >= 0)
	//   - length: Maximum number of bytes to read, or < 0 for the whole file
	//
	// Returns:
	//   - []byte: File content for the requested range
	//   - error: Wraps ErrNotFound if the path does not exist
	ReadFile(ctx context.Context, path string, offset, length int64) ([]byte, error)
}

// ============================================================================
// Data Types
// ============================================================================

// DirectoryEntry describes one entry of a directory listing.
//
// Size and ModTime are best effort: backends that cannot report them leave
// the zero value (0 and the zero time). Entries are immutable once returned.
type DirectoryEntry struct {
	// Name is the bare entry name without any path separators.
	Name string

	// IsDir reports whether the entry is a directory.
	IsDir bool

	// Size is the file size in bytes (0 for directories or when unknown).
	Size uint64

	// ModTime is the last modification time (zero when unknown).
	ModTime time.Time
}

// FileInfo describes a single stat'd path.
type FileInfo struct {
	// Path is the absolute path that was stat'd.
	Path string

	// Size is the size in bytes.
	Size uint64

	// ModTime is the last modification time (zero when unknown).
	ModTime time.Time

	// IsDir reports whether the path is a directory.
	IsDir bool
}
