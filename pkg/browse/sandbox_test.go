package browse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSandboxResolveRelative(t *testing.T) {
	s := NewSandbox("/data")

	resolved, err := s.Resolve("reports/q1")
	require.NoError(t, err)
	assert.Equal(t, "/data/reports/q1", resolved)
}

func TestSandboxResolveAbsoluteInsideBase(t *testing.T) {
	s := NewSandbox("/data")

	resolved, err := s.Resolve("/data/reports")
	require.NoError(t, err)
	assert.Equal(t, "/data/reports", resolved)

	resolved, err = s.Resolve("/data")
	require.NoError(t, err)
	assert.Equal(t, "/data", resolved)
}

func TestSandboxRejectsEscapes(t *testing.T) {
	s := NewSandbox("/data")

	cases := []string{
		"/etc/passwd",
		"/data/../etc",
		"../etc",
		"reports/../../etc",
		"/databank",
	}

	for _, logical := range cases {
		_, err := s.Resolve(logical)
		assert.ErrorIs(t, err, ErrAccessDenied, "path %q must be rejected", logical)
	}
}

func TestSandboxNormalization(t *testing.T) {
	s := NewSandbox("/data")

	resolved, err := s.Resolve("reports//./q1/")
	require.NoError(t, err)
	assert.Equal(t, "/data/reports/q1", resolved)

	// ".." that stays inside the base is fine.
	resolved, err = s.Resolve("reports/old/../q1")
	require.NoError(t, err)
	assert.Equal(t, "/data/reports/q1", resolved)
}

func TestSandboxResolveIdempotent(t *testing.T) {
	s := NewSandbox("/data")

	first, err := s.Resolve("reports/q1")
	require.NoError(t, err)

	second, err := s.Resolve(first)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSandboxTrailingSlashBase(t *testing.T) {
	s := NewSandbox("/data///")
	assert.Equal(t, "/data", s.Base())

	resolved, err := s.Resolve("x")
	require.NoError(t, err)
	assert.Equal(t, "/data/x", resolved)
}

func TestSandboxRootBase(t *testing.T) {
	s := NewSandbox("/")

	resolved, err := s.Resolve("anything")
	require.NoError(t, err)
	assert.Equal(t, "/anything", resolved)

	// Excess ".." collapses at the root instead of erroring.
	resolved, err = s.Resolve("../../x")
	require.NoError(t, err)
	assert.Equal(t, "/x", resolved)
}
