package llm

import (
	"context"
	"fmt"
	"strings"
)

// previewChars bounds the content preview sent to the tag-suggestion
// prompt.
const previewChars = 2000

// maxTagLen/minTagLen bound a single parsed tag token.
const (
	minTagLen = 2
	maxTagLen = 50
)

// SuggestTags asks the given provider to suggest tags for a file's content
// preview and directory context, returning parsed, deduplicated, lowercase
// tokens. Any provider error or an empty parse result is surfaced to the
// caller, which is expected to fall back to the non-LLM tag sources.
func SuggestTags(ctx context.Context, p Provider, model, path string, ancestors []string, content string) ([]string, error) {
	preview := content
	if len(preview) > previewChars {
		preview = preview[:previewChars]
	}

	prompt := buildTagPrompt(path, ancestors, preview)
	resp, err := p.Complete(ctx, CompletionRequest{
		Model:    model,
		Messages: []Message{{Role: RoleUser, Content: prompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("llm tag suggestion: %w", err)
	}

	tags := parseTagLine(resp.Content)
	if len(tags) == 0 {
		return nil, fmt.Errorf("llm tag suggestion: no parseable tags in response")
	}
	return tags, nil
}

func buildTagPrompt(path string, ancestors []string, preview string) string {
	var sb strings.Builder
	sb.WriteString("Suggest a short list of lowercase tags for this file.\n")
	fmt.Fprintf(&sb, "Path: %s\n", path)
	if len(ancestors) > 0 {
		fmt.Fprintf(&sb, "Context directories: %s\n", strings.Join(ancestors, ", "))
	}
	sb.WriteString("Content:\n")
	sb.WriteString(preview)
	sb.WriteString("\n\nRespond with a single comma-separated line of tags, no other text.")
	return sb.String()
}

// parseTagLine strips common prefixes/fences/quotes and splits on commas,
// per the tolerant output contract. It falls back to scanning for the
// first comma-bearing line, then to raw whitespace tokenization.
func parseTagLine(raw string) []string {
	line := firstUsableLine(raw)
	return normalizeTags(strings.Split(line, ","))
}

func firstUsableLine(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.Trim(text, "`")

	for _, prefix := range []string{"tags:", "the tags are:", "tags ="} {
		lower := strings.ToLower(text)
		if strings.HasPrefix(lower, prefix) {
			text = strings.TrimSpace(text[len(prefix):])
			break
		}
	}

	if strings.Contains(text, ",") {
		for _, line := range strings.Split(text, "\n") {
			if strings.Contains(line, ",") {
				return line
			}
		}
	}
	return text
}

func normalizeTags(fields []string) []string {
	seen := make(map[string]bool, len(fields))
	var out []string
	for _, f := range fields {
		tag := strings.ToLower(strings.TrimSpace(f))
		tag = strings.Trim(tag, `"'.`+"`")
		tag = strings.ReplaceAll(tag, " ", "_")
		tag = strings.Trim(tag, "_")
		if len(tag) < minTagLen || len(tag) > maxTagLen {
			continue
		}
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	if len(out) > 0 {
		return out
	}

	// Nothing survived comma-splitting; fall back to raw word tokens.
	for _, f := range strings.Fields(fields[0]) {
		tag := strings.ToLower(strings.Trim(f, `"'.,`))
		if len(tag) < minTagLen || len(tag) > maxTagLen || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
