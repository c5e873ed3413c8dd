package xrootd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/epic-data/xrdbrowse/pkg/remote"
)

// xrdfs timestamps are printed server-local without a zone.
const timeLayout = "2006-01-02 15:04:05"

// parseLongListing parses `xrdfs <server> ls -l <dir>` output.
//
// Each line has the form
//
//	dr-x 2025-03-14 09:26:53        4096 /store/reco/campaign
//	-r-- 2025-03-14 09:27:10    52428800 /store/reco/hits.root
//
// flags, modification date and time, size in bytes, absolute path. Paths may
// contain spaces, so everything after the size column is the path. Blank
// lines are skipped; any other malformed line is an error rather than a
// silently dropped entry.
func parseLongListing(output string) ([]remote.DirectoryEntry, error) {
	lines := strings.Split(output, "\n")
	entries := make([]remote.DirectoryEntry, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 5 {
			return nil, fmt.Errorf("malformed listing line: %q", line)
		}

		flags := fields[0]
		size, err := strconv.ParseUint(fields[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed size in listing line %q: %w", line, err)
		}

		modTime, err := time.Parse(timeLayout, fields[1]+" "+fields[2])
		if err != nil {
			return nil, fmt.Errorf("malformed timestamp in listing line %q: %w", line, err)
		}

		// Re-split on the size column so paths with spaces stay intact.
		idx := strings.Index(line, fields[3])
		path := strings.TrimSpace(line[idx+len(fields[3]):])
		name := path[strings.LastIndex(path, "/")+1:]

		isDir := strings.HasPrefix(flags, "d")
		if isDir {
			size = 0
		}

		entries = append(entries, remote.DirectoryEntry{
			Name:    name,
			IsDir:   isDir,
			Size:    size,
			ModTime: modTime,
		})
	}

	return entries, nil
}

// parseStat parses `xrdfs <server> stat <path>` output.
//
// The output is a sequence of "Key: value" lines:
//
//	Path:   /store/reco/hits.root
//	Id:     562949953421312
//	Size:   52428800
//	MTime:  2025-03-14 09:27:10
//	Flags:  16 (IsReadable)
//
// Directories carry "IsDir" in the Flags annotation.
func parseStat(output, path string) (remote.FileInfo, error) {
	info := remote.FileInfo{Path: path}
	seenSize := false

	for _, line := range strings.Split(output, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.TrimSpace(key) {
		case "Size":
			size, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return remote.FileInfo{}, fmt.Errorf("malformed stat size %q: %w", value, err)
			}
			info.Size = size
			seenSize = true
		case "MTime":
			modTime, err := time.Parse(timeLayout, value)
			if err == nil {
				info.ModTime = modTime
			}
		case "Flags":
			info.IsDir = strings.Contains(value, "IsDir")
		}
	}

	if !seenSize {
		return remote.FileInfo{}, fmt.Errorf("stat output for %s has no Size field", path)
	}

	return info, nil
}

// classifyError maps xrdfs stderr output to sentinel errors. XRootD reports
// missing paths as error code 3011.
func classifyError(stderr string, err error) error {
	lower := strings.ToLower(stderr)
	if strings.Contains(lower, "[3011]") || strings.Contains(lower, "no such file or directory") {
		return remote.ErrNotFound
	}
	if stderr != "" {
		return fmt.Errorf("%s: %w", strings.TrimSpace(stderr), err)
	}
	return err
}
