// Package source dispatches on file extension to a typed semantic source,
// each exposing text extraction, structured metadata extraction, and
// extension-specific tag generation.
package source

import "context"

// Source is the contract every typed file handler implements.
type Source interface {
	// ToText extracts the best-effort textual representation of the file.
	// It returns the empty string (never an error) when extraction is not
	// meaningful for this file, per the per-extension rules.
	ToText(ctx context.Context) (string, error)

	// ToMetadata extracts structured, format-specific metadata. Returns
	// nil when the format carries none.
	ToMetadata(ctx context.Context) (map[string]any, error)

	// GenerateTags returns extension-specific tags derived from content,
	// independent of the generic path/keyword/extension-class tags C4
	// adds on top.
	GenerateTags(ctx context.Context) ([]string, error)

	Path() string
	Extension() string
}

// New dispatches on the lowercased extension (without leading dot) to the
// matching Source implementation, falling back to genericSource.
func New(path, extension string) Source {
	switch extension {
	case "txt", "text":
		return &textSource{base{path, extension}}
	case "md", "markdown":
		return &markdownSource{base{path, extension}}
	case "pdf":
		return &pdfSource{base{path, extension}}
	case "csv":
		return &csvSource{base{path, extension}}
	case "json":
		return &jsonSource{base{path, extension}}
	case "zip":
		return &zipSource{base{path, extension}}
	default:
		return &genericSource{base{path, extension}}
	}
}

// base carries the fields every source shares.
type base struct {
	path string
	ext  string
}

func (b base) Path() string      { return b.path }
func (b base) Extension() string { return b.ext }
