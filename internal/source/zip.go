package source

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// textExtensions lists the extensions (without dot) whose embedded zip
// entries are concatenated into the archive's extracted text.
var textExtensions = map[string]bool{
	"txt": true, "md": true, "markdown": true, "json": true, "xml": true,
	"html": true, "htm": true, "css": true, "js": true, "ts": true,
	"go": true, "py": true, "java": true, "c": true, "cpp": true, "h": true,
	"hpp": true, "rs": true, "rb": true, "php": true, "sh": true, "bash": true,
	"yaml": true, "yml": true, "toml": true, "ini": true, "cfg": true,
	"conf": true, "log": true, "csv": true, "tsv": true,
}

func isTextExtension(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return textExtensions[ext]
}

// zipSource handles .zip archives.
type zipSource struct{ base }

func (s *zipSource) open() (*zip.ReadCloser, error) {
	return zip.OpenReader(s.path)
}

func (s *zipSource) ToText(ctx context.Context) (string, error) {
	r, err := s.open()
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var sb strings.Builder
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !isTextExtension(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "\n--- File: %s ---\n", f.Name)
		sb.Write(data)
		sb.WriteByte('\n')
	}

	if sb.Len() == 0 {
		return fmt.Sprintf("ZIP archive containing %d files (no text files extracted)", len(r.File)), nil
	}
	return strings.TrimSpace(sb.String()), nil
}

func (s *zipSource) ToMetadata(ctx context.Context) (map[string]any, error) {
	r, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var files []string
	var totalSize uint64
	var textFileCount int

	for _, f := range r.File {
		totalSize += f.UncompressedSize64
		if f.FileInfo().IsDir() {
			continue
		}
		files = append(files, f.Name)
		if isTextExtension(f.Name) {
			textFileCount++
		}
	}

	meta := map[string]any{
		"file_count":       len(r.File),
		"files":            files,
		"total_size_bytes": totalSize,
		"text_file_count":  textFileCount,
	}
	if info, err := os.Stat(s.path); err == nil {
		meta["archive_size_bytes"] = info.Size()
	}
	return meta, nil
}

func (s *zipSource) GenerateTags(ctx context.Context) ([]string, error) {
	return nil, nil
}
