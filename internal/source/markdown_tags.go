package source

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// markdownStructureTags walks the goldmark AST to detect headings and
// fenced code blocks precisely, rather than relying on substring checks
// alone (which the plain-text source falls back to).
func markdownStructureTags(src string) []string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader([]byte(src)))

	var hasHeading, hasCode bool
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.Heading:
			hasHeading = true
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			hasCode = true
		}
		return ast.WalkContinue, nil
	})

	// Fall back to substring checks for content the AST walk under-detects
	// (e.g. a bare "#" with no following space is not a valid heading).
	if !hasHeading {
		hasHeading = bytes.Contains([]byte(src), []byte("#"))
	}

	var tags []string
	if hasHeading {
		tags = append(tags, "documentation")
	}
	if hasCode {
		tags = append(tags, "code")
	}
	return tags
}
