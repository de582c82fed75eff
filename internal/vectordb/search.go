package vectordb

import (
	"fmt"
	"strings"
)

// FormatResults renders search results as human-readable text.
func FormatResults(results []SearchResult) string {
	if len(results) == 0 {
		return "No results found."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d result(s):\n\n", len(results))

	for i, r := range results {
		fmt.Fprintf(&sb, "--- Result %d (similarity: %.4f) ---\n", i+1, r.Similarity)

		if r.Document.Metadata.Path != "" {
			fmt.Fprintf(&sb, "File: %s\n", r.Document.Metadata.Path)
		}
		if r.Document.Metadata.Extension != "" {
			fmt.Fprintf(&sb, "Extension: %s\n", r.Document.Metadata.Extension)
		}
		if len(r.Document.Metadata.Tags) > 0 {
			fmt.Fprintf(&sb, "Tags: %s\n", strings.Join(r.Document.Metadata.Tags, ", "))
		}

		sb.WriteString("\n")
		sb.WriteString(r.Document.Content)
		sb.WriteString("\n\n")
	}

	return sb.String()
}
