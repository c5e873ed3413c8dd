// Package xrootd implements remote.DirectoryService on top of the XRootD
// command line clients.
//
// Listings and stats shell out to xrdfs, reads to xrdcp. The client tools
// handle redirection, authentication and retuning against the XRootD
// federation; this package only builds command lines and parses their
// output. Every invocation is bounded by the caller's context plus an
// optional per-call timeout.
package xrootd

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/epic-data/xrdbrowse/internal/logger"
	"github.com/epic-data/xrdbrowse/pkg/remote"
)

// Config configures the XRootD-backed directory service.
type Config struct {
	// Server is the XRootD endpoint as host[:port], e.g.
	// "xrootd.example.org:1094".
	Server string

	// FSBinary is the xrdfs executable (default "xrdfs").
	FSBinary string

	// CopyBinary is the xrdcp executable (default "xrdcp").
	CopyBinary string

	// Timeout bounds each client invocation (default 60s, 0 keeps the
	// default; use a caller context deadline for tighter control).
	Timeout time.Duration
}

// XRootDDirectoryService implements remote.DirectoryService over the xrdfs
// and xrdcp client tools.
//
// Thread Safety:
// Safe for concurrent use; each call spawns an independent process.
type XRootDDirectoryService struct {
	cfg Config
}

// NewXRootDDirectoryService creates a service for the given endpoint.
func NewXRootDDirectoryService(cfg Config) (*XRootDDirectoryService, error) {
	if cfg.Server == "" {
		return nil, fmt.Errorf("xrootd: server is required")
	}
	if cfg.FSBinary == "" {
		cfg.FSBinary = "xrdfs"
	}
	if cfg.CopyBinary == "" {
		cfg.CopyBinary = "xrdcp"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &XRootDDirectoryService{cfg: cfg}, nil
}

// ListDirectory implements remote.DirectoryService via `xrdfs ls -l`.
func (s *XRootDDirectoryService) ListDirectory(ctx context.Context, path string) ([]remote.DirectoryEntry, error) {
	output, err := s.runFS(ctx, "ls", "-l", path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}

	entries, err := parseLongListing(output)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}

	return entries, nil
}

// Stat implements remote.DirectoryService via `xrdfs stat`.
func (s *XRootDDirectoryService) Stat(ctx context.Context, path string) (remote.FileInfo, error) {
	output, err := s.runFS(ctx, "stat", path)
	if err != nil {
		return remote.FileInfo{}, fmt.Errorf("stat %s: %w", path, err)
	}

	info, err := parseStat(output, path)
	if err != nil {
		return remote.FileInfo{}, fmt.Errorf("stat %s: %w", path, err)
	}

	return info, nil
}

// ReadFile implements remote.DirectoryService via `xrdcp` to stdout.
//
// xrdcp has no ranged-read mode, so the whole file is copied and the range
// is applied client-side. Callers reading small slices of very large files
// should expect full-transfer cost.
func (s *XRootDDirectoryService) ReadFile(ctx context.Context, path string, offset, length int64) ([]byte, error) {
	if offset < 0 {
		return nil, fmt.Errorf("read %s: %w", path, remote.ErrInvalidOffset)
	}

	url := fmt.Sprintf("root://%s/%s", s.cfg.Server, strings.TrimPrefix(path, "/"))

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.cfg.CopyBinary, "--nopbar", url, "-")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("xrdcp %s", url)

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, classifyError(stderr.String(), err))
	}

	data := stdout.Bytes()
	if offset >= int64(len(data)) {
		return []byte{}, nil
	}

	end := int64(len(data))
	if length >= 0 && offset+length < end {
		end = offset + length
	}

	return data[offset:end], nil
}

// runFS executes one xrdfs subcommand and returns its stdout.
func (s *XRootDDirectoryService) runFS(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	full := append([]string{s.cfg.Server}, args...)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.cfg.FSBinary, full...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("xrdfs %s", strings.Join(full, " "))

	if err := cmd.Run(); err != nil {
		return "", classifyError(stderr.String(), err)
	}

	return stdout.String(), nil
}
