package source

import (
	"context"
	"os"
	"strings"
	"unicode/utf8"
)

// minPrintableRatio is the fraction of printable bytes a non-UTF-8 file
// must have before it is treated as recoverable text.
const minPrintableRatio = 0.8

// textSource handles .txt/.text files.
type textSource struct{ base }

func (s *textSource) ToText(ctx context.Context) (string, error) {
	return readAsText(s.path)
}

func (s *textSource) ToMetadata(ctx context.Context) (map[string]any, error) {
	return nil, nil
}

func (s *textSource) GenerateTags(ctx context.Context) ([]string, error) {
	text, err := s.ToText(ctx)
	if err != nil {
		return nil, err
	}
	return contentStructureTags(text), nil
}

// markdownSource handles .md/.markdown files.
type markdownSource struct{ base }

func (s *markdownSource) ToText(ctx context.Context) (string, error) {
	return readAsText(s.path)
}

func (s *markdownSource) ToMetadata(ctx context.Context) (map[string]any, error) {
	return nil, nil
}

func (s *markdownSource) GenerateTags(ctx context.Context) ([]string, error) {
	text, err := s.ToText(ctx)
	if err != nil {
		return nil, err
	}
	return markdownStructureTags(text), nil
}

// readAsText reads path, returning its content verbatim if it is valid
// UTF-8, or a best-effort conversion when the byte stream is at least
// minPrintableRatio printable ASCII/TAB/CR/LF. A zero-length file and a
// file that fails both checks return an empty string with no error.
func readAsText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", nil
	}

	if isValidUTF8(data) {
		return string(data), nil
	}

	printable := 0
	for _, b := range data {
		if b == '\t' || b == '\r' || b == '\n' || (b >= 0x20 && b < 0x7f) {
			printable++
		}
	}
	if float64(printable)/float64(len(data)) >= minPrintableRatio {
		return string(data), nil
	}
	return "", nil
}

func isValidUTF8(data []byte) bool {
	return utf8.Valid(data)
}

// contentStructureTags applies the txt/md content-structure heuristics:
// "documentation" when a heading marker is present, "code" when a fenced
// code block is present.
func contentStructureTags(text string) []string {
	var tags []string
	if strings.Contains(text, "#") {
		tags = append(tags, "documentation")
	}
	if strings.Contains(text, "```") {
		tags = append(tags, "code")
	}
	return tags
}
