package tagging

import "strings"

// unknownTag is emitted alone when no other tag could be inferred.
const unknownTag = "unknown"

// Generate unions path tags, content-keyword tags, the extension-class tag,
// and any LLM-supplied tags, deduplicating while preserving first
// occurrence. When the union is empty it emits the single tag "unknown";
// otherwise "unknown" never appears.
func Generate(path, extension, content string, sourceTags, llmTags []string) []string {
	var tags []string

	tags = append(tags, tagsFromPath(path)...)
	tags = append(tags, contentKeywordTags(content)...)
	if class, ok := extensionClasses[strings.ToLower(extension)]; ok {
		tags = append(tags, class)
	}
	tags = append(tags, sourceTags...)
	tags = append(tags, llmTags...)

	tags = dedup(tags)
	if len(tags) == 0 {
		return []string{unknownTag}
	}
	return tags
}

// contentKeywordTags scans the lowercased content for each dictionary
// keyword, adding its mapped tag on a substring match.
func contentKeywordTags(content string) []string {
	if content == "" {
		return nil
	}
	lower := strings.ToLower(content)

	var tags []string
	for _, m := range keywordMappings {
		if strings.Contains(lower, m.keyword) {
			tags = append(tags, m.tag)
		}
	}
	return tags
}
