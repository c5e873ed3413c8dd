package browse

import (
	"errors"
	"fmt"
)

// ============================================================================
// Browse Engine Errors
// ============================================================================

// The engine surfaces a small error taxonomy to the protocol layer:
//
//   - ErrAccessDenied: the logical path escapes the sandbox. Always raised
//     synchronously, before any remote call.
//   - RemoteError: a remote directory service call failed. Carries the
//     operation and the exact sub-path that failed; a recursive aggregation
//     aborts on the first such failure and discards partial results.
//   - remote.ErrNotFound: reachable through errors.Is on a RemoteError when
//     the backend could distinguish "no such path".
//
// Errors are plain values, never used for internal flow control. The one
// structural exception is the dataset hierarchy walk, which models its
// fallback as a two-branch result instead of a caught error (see hierarchy.go).

// ErrAccessDenied indicates a logical path resolves outside the sandbox root.
var ErrAccessDenied = errors.New("access denied: path escapes base directory")

// RemoteOp identifies which directory service primitive failed.
type RemoteOp string

const (
	// OpList is a single-level directory listing.
	OpList RemoteOp = "list"

	// OpStat is a path stat.
	OpStat RemoteOp = "stat"

	// OpRead is a file content read.
	OpRead RemoteOp = "read"
)

// RemoteError wraps a directory service failure with the operation and the
// path that triggered it. During a recursive walk the path names the specific
// sub-directory that failed, not the aggregation's top-level argument.
type RemoteError struct {
	Op   RemoteOp
	Path string
	Err  error
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/errors.As.
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// newRemoteError wraps err unless it already is a RemoteError for the same
// walk (keeps the innermost failing path when errors bubble up a recursion).
func newRemoteError(op RemoteOp, path string, err error) error {
	var re *RemoteError
	if errors.As(err, &re) {
		return err
	}
	return &RemoteError{Op: op, Path: path, Err: err}
}
