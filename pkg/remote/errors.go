package remote

import "errors"

// ============================================================================
// Standard Directory Service Errors
// ============================================================================

// These errors provide a consistent way to indicate common failure conditions
// across all directory service implementations. The browse engine checks for
// them with errors.Is and maps them to its own caller-facing error taxonomy.
//
// Error Wrapping:
// Implementations should wrap these errors with additional context:
//
//	if notFound {
//	    return nil, fmt.Errorf("list %s: %w", path, remote.ErrNotFound)
//	}

var (
	// ErrNotFound indicates the requested path does not exist on the remote.
	//
	// This error is returned when:
	//   - ListDirectory() is called with a non-existent directory
	//   - Stat() or ReadFile() is called with a non-existent path
	//
	// Backends that cannot distinguish "not found" from other failures are
	// allowed to return a plain error instead.
	ErrNotFound = errors.New("path not found")

	// ErrNotDirectory indicates ListDirectory was called on a regular file.
	ErrNotDirectory = errors.New("not a directory")

	// ErrInvalidOffset indicates a negative read offset was requested.
	ErrInvalidOffset = errors.New("invalid offset")
)
