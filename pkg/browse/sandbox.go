package browse

import (
	"strings"
)

// Sandbox resolves logical paths against a fixed base directory and rejects
// anything that would escape it.
//
// Resolution is pure string processing: no filesystem or network access ever
// happens here, so Resolve is total and never blocks. Every path handed to
// the remote directory service, and every cache key, has passed through
// Resolve first.
//
// Invariant: for every successful resolution r,
// r == base || strings.HasPrefix(r, base+"/").
type Sandbox struct {
	base string
}

// NewSandbox creates a sandbox rooted at base. Trailing slashes are stripped
// so that prefix checks are unambiguous; the base itself is assumed absolute
// (configuration validation enforces it).
func NewSandbox(base string) *Sandbox {
	for len(base) > 1 && strings.HasSuffix(base, "/") {
		base = strings.TrimSuffix(base, "/")
	}
	return &Sandbox{base: base}
}

// Base returns the sandbox root.
func (s *Sandbox) Base() string {
	return s.base
}

// Resolve turns a caller-supplied logical path into an absolute, normalized
// path guaranteed to be the base directory or a descendant of it.
//
// Absolute inputs must already start with the base directory; relative inputs
// are joined to the base first. Either way the path is then normalized: empty
// and "." segments are dropped, ".." pops the previously accumulated segment.
// Popping past the root is a no-op, not an error; only the final prefix check
// can reject a path, so "/data/../etc" fails while excess ".." at the root
// simply collapses. Resolution is idempotent: resolving a resolved path
// yields the same path.
//
// Returns ErrAccessDenied when the result would fall outside the base.
func (s *Sandbox) Resolve(logical string) (string, error) {
	var joined string
	if strings.HasPrefix(logical, "/") {
		if !s.contains(logical) {
			return "", ErrAccessDenied
		}
		joined = logical
	} else {
		joined = s.base + "/" + logical
	}

	resolved := normalize(joined)
	if !s.contains(resolved) {
		return "", ErrAccessDenied
	}

	return resolved, nil
}

// contains reports whether path is the base or a descendant of it.
func (s *Sandbox) contains(path string) bool {
	if s.base == "/" {
		return strings.HasPrefix(path, "/")
	}
	return path == s.base || strings.HasPrefix(path, s.base+"/")
}

// normalize collapses empty, "." and ".." segments of an absolute path.
func normalize(path string) string {
	segments := strings.Split(path, "/")
	stack := make([]string, 0, len(segments))

	for _, segment := range segments {
		switch segment {
		case "", ".":
			// skip
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, segment)
		}
	}

	return "/" + strings.Join(stack, "/")
}
