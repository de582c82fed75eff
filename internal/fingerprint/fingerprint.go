// Package fingerprint computes the canonical per-file identity used
// throughout the pipeline: size, timestamps, extension, and a Blake3
// content hash.
package fingerprint

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lukechampine.com/blake3"
)

const readChunkSize = 8192

// Meta is the canonical per-file identity record.
type Meta struct {
	Path      string
	Size      int64
	Extension string // lowercase, without the dot; empty if absent.
	CreatedAt time.Time
	UpdatedAt time.Time
	Hash      string // Blake3 hex digest, 64 chars.
}

// Fingerprint reads the file at path in fixed-size chunks and streams them
// into a Blake3 hash, returning the full Meta record.
func Fingerprint(path string) (Meta, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Meta{}, fmt.Errorf("fingerprint: stat %s: %w", path, err)
	}

	hash, err := hashFile(path)
	if err != nil {
		return Meta{}, fmt.Errorf("fingerprint: hash %s: %w", path, err)
	}

	created, updated := timestamps(info)

	return Meta{
		Path:      path,
		Size:      info.Size(),
		Extension: Extension(path),
		CreatedAt: created,
		UpdatedAt: updated,
		Hash:      hash,
	}, nil
}

// hashFile streams the file's bytes through Blake3 in fixed-size chunks
// and returns the lowercase hex digest.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New(32, nil)
	buf := make([]byte, readChunkSize)

	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// Extension returns the lowercase file extension without the leading dot,
// or the empty string if the path has none.
func Extension(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// timestamps derives created/updated times from platform metadata,
// falling back to one another and finally to the current time.
func timestamps(info os.FileInfo) (created, updated time.Time) {
	mod := info.ModTime()
	// os.FileInfo does not portably expose a creation time; treat
	// modification time as both created and updated, matching the
	// "if either is unavailable the other is substituted" rule.
	if mod.IsZero() {
		now := time.Now()
		return now, now
	}
	return mod, mod
}
