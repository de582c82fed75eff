package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// financialLegalKeywords mirrors the PDF-specific content tags: a fixed
// keyword-to-tag map scanned over the extracted text and the document
// info dictionary's title/subject/keywords.
var financialLegalKeywords = []struct {
	keyword string
	tag     string
}{
	{"invoice", "financial"},
	{"receipt", "financial"},
	{"statement", "financial"},
	{"payment", "financial"},
	{"contract", "legal"},
	{"agreement", "legal"},
	{"nda", "legal"},
	{"meeting", "calendar"},
	{"agenda", "calendar"},
	{"resume", "personal"},
	{"cv", "personal"},
}

// pdfSource handles .pdf files.
type pdfSource struct{ base }

func (s *pdfSource) extractText() (string, error) {
	f, r, err := pdflib.Open(s.path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *pdfSource) ToText(ctx context.Context) (string, error) {
	text, err := s.extractText()
	if err != nil {
		// Primary extraction failed; no secondary fallback library is
		// wired, so degrade to empty text per the extraction-failure rule.
		return "", nil
	}
	return text, nil
}

func (s *pdfSource) ToMetadata(ctx context.Context) (map[string]any, error) {
	f, r, err := pdflib.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	meta := map[string]any{
		"page_count": r.NumPage(),
	}
	if info, err := os.Stat(s.path); err == nil {
		meta["size_bytes"] = info.Size()
	}

	trailer := r.Trailer()
	info := trailer.Key("Info")
	for key, field := range map[string]string{
		"Title": "title", "Author": "author", "Subject": "subject",
		"Keywords": "keywords", "Creator": "creator", "Producer": "producer",
	} {
		if v := info.Key(key); v.Kind() == pdflib.String {
			meta[field] = v.RawString()
		}
	}
	return meta, nil
}

func (s *pdfSource) GenerateTags(ctx context.Context) ([]string, error) {
	tags := []string{"document"}
	seen := map[string]bool{"document": true}

	text, _ := s.extractText()
	meta, _ := s.ToMetadata(ctx)

	haystack := strings.ToLower(text)
	for _, field := range []string{"title", "subject", "keywords"} {
		if v, ok := meta[field].(string); ok {
			haystack += " " + strings.ToLower(v)
		}
	}

	for _, kw := range financialLegalKeywords {
		if strings.Contains(haystack, kw.keyword) && !seen[kw.tag] {
			tags = append(tags, kw.tag)
			seen[kw.tag] = true
		}
	}
	return tags, nil
}
