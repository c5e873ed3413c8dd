// Package testing provides a reusable test suite for DirectoryService
// implementations. It tests the interface contract, not implementation
// details, so any backend that can be seeded with a synthetic tree can run it.
package testing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epic-data/xrdbrowse/pkg/remote"
)

// Seeder populates a backend with a synthetic tree before the suite runs.
type Seeder interface {
	// AddFile creates a file with content and modification time, creating
	// missing parent directories.
	AddFile(path string, content []byte, modTime time.Time)

	// AddDirectory creates an (possibly empty) directory.
	AddDirectory(path string)
}

// ServiceTestSuite is a contract test suite for remote.DirectoryService.
//
// Usage:
//
//	func TestMemoryDirectoryService(t *testing.T) {
//	    suite := &remotetesting.ServiceTestSuite{
//	        NewService: func() (remote.DirectoryService, remotetesting.Seeder) {
//	            svc := memory.NewMemoryDirectoryService()
//	            return svc, svc
//	        },
//	    }
//	    suite.Run(t)
//	}
type ServiceTestSuite struct {
	// NewService returns a fresh, empty service and a seeder for it.
	NewService func() (remote.DirectoryService, Seeder)
}

// Run executes all contract tests.
func (s *ServiceTestSuite) Run(t *testing.T) {
	t.Run("ListDirectory", s.testListDirectory)
	t.Run("ListDirectoryNotFound", s.testListDirectoryNotFound)
	t.Run("Stat", s.testStat)
	t.Run("StatNotFound", s.testStatNotFound)
	t.Run("ReadFile", s.testReadFile)
	t.Run("ReadFileRange", s.testReadFileRange)
	t.Run("ReadFileNotFound", s.testReadFileNotFound)
}

func (s *ServiceTestSuite) testListDirectory(t *testing.T) {
	svc, seed := s.NewService()

	mtime := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	seed.AddFile("/data/run1/hits.root", []byte("aaaa"), mtime)
	seed.AddFile("/data/run1/tracks.root", []byte("bbbbbb"), mtime)
	seed.AddDirectory("/data/run1/calib")

	entries, err := svc.ListDirectory(context.Background(), "/data/run1")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byName := make(map[string]remote.DirectoryEntry, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
	}

	require.Contains(t, byName, "hits.root")
	assert.False(t, byName["hits.root"].IsDir)
	assert.Equal(t, uint64(4), byName["hits.root"].Size)
	assert.Equal(t, mtime, byName["hits.root"].ModTime)

	require.Contains(t, byName, "calib")
	assert.True(t, byName["calib"].IsDir)
}

func (s *ServiceTestSuite) testListDirectoryNotFound(t *testing.T) {
	svc, seed := s.NewService()
	seed.AddDirectory("/data")

	_, err := svc.ListDirectory(context.Background(), "/data/missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, remote.ErrNotFound), "expected ErrNotFound, got %v", err)
}

func (s *ServiceTestSuite) testStat(t *testing.T) {
	svc, seed := s.NewService()

	mtime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seed.AddFile("/data/evt.root", []byte("0123456789"), mtime)

	info, err := svc.Stat(context.Background(), "/data/evt.root")
	require.NoError(t, err)
	assert.Equal(t, uint64(10), info.Size)
	assert.Equal(t, mtime, info.ModTime)
	assert.False(t, info.IsDir)

	info, err = svc.Stat(context.Background(), "/data")
	require.NoError(t, err)
	assert.True(t, info.IsDir)
}

func (s *ServiceTestSuite) testStatNotFound(t *testing.T) {
	svc, _ := s.NewService()

	_, err := svc.Stat(context.Background(), "/nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, remote.ErrNotFound))
}

func (s *ServiceTestSuite) testReadFile(t *testing.T) {
	svc, seed := s.NewService()
	seed.AddFile("/data/readme.txt", []byte("hello world"), time.Now())

	data, err := svc.ReadFile(context.Background(), "/data/readme.txt", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), data)
}

func (s *ServiceTestSuite) testReadFileRange(t *testing.T) {
	svc, seed := s.NewService()
	seed.AddFile("/data/readme.txt", []byte("hello world"), time.Now())

	data, err := svc.ReadFile(context.Background(), "/data/readme.txt", 6, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("world"), data)

	// Reads past end of file return the available bytes.
	data, err = svc.ReadFile(context.Background(), "/data/readme.txt", 6, 100)
	require.NoError(t, err)
	assert.Equal(t, []byte("world"), data)

	// A read starting past end of file is empty, not an error.
	data, err = svc.ReadFile(context.Background(), "/data/readme.txt", 100, 5)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func (s *ServiceTestSuite) testReadFileNotFound(t *testing.T) {
	svc, _ := s.NewService()

	_, err := svc.ReadFile(context.Background(), "/nope.root", 0, -1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, remote.ErrNotFound))
}
