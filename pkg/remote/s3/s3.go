// Package s3 implements remote.DirectoryService over Amazon S3 or
// S3-compatible object storage.
//
// Object keys mirror the browsed hierarchy: a path "/store/reco/hits.root"
// maps to the key "store/reco/hits.root" (plus an optional configured
// prefix). Directories exist only implicitly, as common prefixes of listed
// keys, which is how S3 itself models them.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/epic-data/xrdbrowse/pkg/remote"
)

// S3DirectoryService implements remote.DirectoryService over an S3 bucket.
//
// S3 Characteristics:
//   - Listing uses ListObjectsV2 with a "/" delimiter; CommonPrefixes become
//     directories, Contents become files.
//   - An empty directory is indistinguishable from a missing one unless a
//     zero-byte "dir/" marker object exists; a listing with no results on a
//     non-root path is therefore reported as not found.
//   - Range reads are native (GetObject with a Range header), so ReadFile
//     transfers only the requested bytes.
//
// Thread Safety:
// Safe for concurrent use; the underlying SDK client is concurrency-safe.
type S3DirectoryService struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
}

// S3DirectoryServiceConfig contains configuration for the S3 backend.
type S3DirectoryServiceConfig struct {
	// Client is the configured S3 client.
	Client *s3.Client

	// Bucket is the S3 bucket name.
	Bucket string

	// KeyPrefix is an optional prefix prepended to every key, e.g. "mirror/".
	KeyPrefix string
}

// NewS3DirectoryService creates a new S3-backed directory service. The
// bucket must already exist; access is verified lazily on first use.
func NewS3DirectoryService(cfg S3DirectoryServiceConfig) (*S3DirectoryService, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("s3: client is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket name is required")
	}

	prefix := cfg.KeyPrefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	return &S3DirectoryService{
		client:    cfg.Client,
		bucket:    cfg.Bucket,
		keyPrefix: prefix,
	}, nil
}

// ListDirectory implements remote.DirectoryService.
func (s *S3DirectoryService) ListDirectory(ctx context.Context, path string) ([]remote.DirectoryEntry, error) {
	prefix := s.dirKey(path)

	entries := []remote.DirectoryEntry{}
	var continuation *string

	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			Delimiter:         aws.String("/"),
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", path, err)
		}

		for _, common := range out.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(*common.Prefix, prefix), "/")
			if name == "" {
				continue
			}
			entries = append(entries, remote.DirectoryEntry{Name: name, IsDir: true})
		}

		for _, obj := range out.Contents {
			name := strings.TrimPrefix(*obj.Key, prefix)
			if name == "" {
				// The directory marker object itself.
				continue
			}
			entry := remote.DirectoryEntry{Name: name}
			if obj.Size != nil {
				entry.Size = uint64(*obj.Size)
			}
			if obj.LastModified != nil {
				entry.ModTime = *obj.LastModified
			}
			entries = append(entries, entry)
		}

		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		continuation = out.NextContinuationToken
	}

	if len(entries) == 0 && strings.Trim(path, "/") != "" {
		exists, err := s.prefixExists(ctx, prefix)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", path, err)
		}
		if !exists {
			return nil, fmt.Errorf("list %s: %w", path, remote.ErrNotFound)
		}
	}

	return entries, nil
}

// Stat implements remote.DirectoryService.
func (s *S3DirectoryService) Stat(ctx context.Context, path string) (remote.FileInfo, error) {
	key := s.fileKey(path)

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		info := remote.FileInfo{Path: path}
		if head.ContentLength != nil {
			info.Size = uint64(*head.ContentLength)
		}
		if head.LastModified != nil {
			info.ModTime = *head.LastModified
		}
		return info, nil
	}

	var notFound *types.NotFound
	if !errors.As(err, &notFound) {
		return remote.FileInfo{}, fmt.Errorf("stat %s: %w", path, err)
	}

	// Not an object; it may still be a directory prefix.
	exists, err := s.prefixExists(ctx, s.dirKey(path))
	if err != nil {
		return remote.FileInfo{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if exists {
		return remote.FileInfo{Path: path, IsDir: true}, nil
	}

	return remote.FileInfo{}, fmt.Errorf("stat %s: %w", path, remote.ErrNotFound)
}

// ReadFile implements remote.DirectoryService using a ranged GetObject.
func (s *S3DirectoryService) ReadFile(ctx context.Context, path string, offset, length int64) ([]byte, error) {
	if offset < 0 {
		return nil, fmt.Errorf("read %s: %w", path, remote.ErrInvalidOffset)
	}

	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.fileKey(path)),
	}

	if offset > 0 || length >= 0 {
		if length >= 0 {
			input.Range = aws.String(fmt.Sprintf("bytes=%d-%d", offset, offset+length-1))
		} else {
			input.Range = aws.String(fmt.Sprintf("bytes=%d-", offset))
		}
	}

	out, err := s.client.GetObject(ctx, input)
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("read %s: %w", path, remote.ErrNotFound)
		}
		// A range starting past end of file is an empty read, not an error.
		var apiErr interface{ ErrorCode() string }
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "InvalidRange" {
			return []byte{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return data, nil
}

// prefixExists reports whether any object lives under prefix.
func (s *S3DirectoryService) prefixExists(ctx context.Context, prefix string) (bool, error) {
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return false, err
	}
	return out.KeyCount != nil && *out.KeyCount > 0, nil
}

// fileKey maps an absolute path to its object key.
func (s *S3DirectoryService) fileKey(path string) string {
	return s.keyPrefix + strings.Trim(path, "/")
}

// dirKey maps an absolute path to its listing prefix.
func (s *S3DirectoryService) dirKey(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return s.keyPrefix
	}
	return s.keyPrefix + trimmed + "/"
}
