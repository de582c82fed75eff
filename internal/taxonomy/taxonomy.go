// Package taxonomy maps a ranked tag list to a hierarchical relative
// folder path using a three-tier tag taxonomy, and reconciles candidate
// paths against directories that already exist on disk.
package taxonomy

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// DefaultMaxDepth bounds the number of path components GenerateFolder
// produces.
const DefaultMaxDepth = 4

// DefaultReconcileDepth bounds how deep the existing-directory
// reconciliation walk descends under the base directory.
const DefaultReconcileDepth = 3

// TopLevelCategories (L1) are file-class or broad-domain tags.
var TopLevelCategories = toSet([]string{
	"document", "image", "video", "audio", "archive", "spreadsheet",
	"programming", "task", "calendar", "financial", "reporting",
	"configuration", "testing", "integration", "enhancement", "issue",
	"notes", "draft", "meeting", "project", "work", "personal",
})

// MidLevelCategories (L2) are language/subdomain tags.
var MidLevelCategories = toSet([]string{
	"rust", "python", "javascript", "java", "go", "cpp", "typescript",
	"invoice", "receipt", "statement", "bill", "payment", "tax",
	"report", "minutes", "agenda", "proposal", "contract",
	"meeting", "notes", "tutorial", "guide", "documentation", "reference",
	"test", "spec", "design", "plan", "draft", "final",
})

// SpecificTags (L3) are fine-grained content types: months, years, and a
// handful of document subtypes.
var SpecificTags = buildSpecificTags()

func buildSpecificTags() map[string]bool {
	months := []string{
		"january", "february", "march", "april", "may", "june",
		"july", "august", "september", "october", "november", "december",
	}
	set := toSet(append(months, "howto", "readme", "changelog"))
	for year := 2023; year <= 2025; year++ {
		set[strconv.Itoa(year)] = true
	}
	return set
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, i := range items {
		set[i] = true
	}
	return set
}

// level identifies which taxonomy tier a tag classifies into.
type level int

const (
	levelNone level = iota
	levelL1
	levelL2
	levelL3
)

// classify reports which tier tag belongs to, using equality OR substring
// containment in either direction against each tier's table.
func classify(tag string) level {
	switch {
	case membershipMatch(tag, TopLevelCategories):
		return levelL1
	case membershipMatch(tag, MidLevelCategories):
		return levelL2
	case membershipMatch(tag, SpecificTags):
		return levelL3
	default:
		return levelNone
	}
}

func membershipMatch(tag string, set map[string]bool) bool {
	if set[tag] {
		return true
	}
	for member := range set {
		if strings.Contains(member, tag) || strings.Contains(tag, member) {
			return true
		}
	}
	return false
}

// GenerateFolder classifies and ranks tags, then builds a relative folder
// path of at most maxDepth components: one L1 (the most frequent) + up to
// 3 L2 + up to 2 L3, skipping any component similar to one already
// placed, then filling remaining room with leftover ranked tags. Falls
// back to "uncategorized" if no tag could be placed.
func GenerateFolder(tags []string, maxDepth int) []string {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	ranked := rankByFrequency(tags)
	l1, l2, l3 := bucket(ranked)

	var components []string
	placed := func(c string) bool {
		for _, p := range components {
			if similar(p, c) {
				return true
			}
		}
		return false
	}

	if len(l1) > 0 && len(components) < maxDepth && !placed(l1[0]) {
		components = append(components, l1[0])
	}

	l2Used := 0
	for _, t := range l2 {
		if l2Used >= 3 || len(components) >= maxDepth {
			break
		}
		if placed(t) {
			continue
		}
		components = append(components, t)
		l2Used++
	}

	l3Used := 0
	for _, t := range l3 {
		if l3Used >= 2 || len(components) >= maxDepth {
			break
		}
		if placed(t) {
			continue
		}
		components = append(components, t)
		l3Used++
	}

	for _, t := range ranked {
		if len(components) >= maxDepth {
			break
		}
		if placed(t) {
			continue
		}
		components = append(components, t)
	}

	sanitized := make([]string, 0, len(components))
	for _, c := range components {
		if s := Sanitize(c); s != "" {
			sanitized = append(sanitized, s)
		}
	}
	if len(sanitized) == 0 {
		return []string{"uncategorized"}
	}
	return sanitized
}

// bucket classifies ranked tags into their L1/L2/L3 buckets, cascading
// unclassified tags: promote to L1 if L1 is still empty, else to L2 if it
// has fewer than 3 members, else to L3.
func bucket(ranked []string) (l1, l2, l3 []string) {
	for _, tag := range ranked {
		switch classify(tag) {
		case levelL1:
			l1 = append(l1, tag)
		case levelL2:
			l2 = append(l2, tag)
		case levelL3:
			l3 = append(l3, tag)
		default:
			switch {
			case len(l1) == 0:
				l1 = append(l1, tag)
			case len(l2) < 3:
				l2 = append(l2, tag)
			default:
				l3 = append(l3, tag)
			}
		}
	}
	return
}

// similar reports whether a and b should be treated as the same path
// component: equal, or one contains the other.
func similar(a, b string) bool {
	if a == b {
		return true
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// rankByFrequency deduplicates tags and stable-sorts them descending by
// occurrence count, so ties preserve first-occurrence order.
func rankByFrequency(tags []string) []string {
	counts := make(map[string]int, len(tags))
	var order []string
	for _, t := range tags {
		if counts[t] == 0 {
			order = append(order, t)
		}
		counts[t]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return order
}

// Sanitize lowercases s, turns spaces and underscores into hyphens, drops
// any other non-alphanumeric-non-hyphen rune, and trims leading/trailing
// hyphens.
func Sanitize(s string) string {
	s = strings.ToLower(s)
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r == ' ' || r == '_':
			sb.WriteByte('-')
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-':
			sb.WriteRune(r)
		}
	}
	return strings.Trim(sb.String(), "-")
}

// ReconcileExisting searches under base (to depth maxDepth) for the
// highest-scoring existing, non-protected directory path against tags,
// per the match formula 10*exact + 5*(substring either way) +
// 2*(shared hyphen-token count) + 3*(tag appears as one of the
// directory's own hyphen tokens). It returns the relative path of the
// best match, or "" if no directory scores above zero.
func ReconcileExisting(base string, tags []string, maxDepth int, isProtected func(path string) bool) string {
	if maxDepth <= 0 {
		maxDepth = DefaultReconcileDepth
	}

	var bestPath string
	bestScore := 0

	var walk func(dir string, relParts []string, depth int)
	walk = func(dir string, relParts []string, depth int) {
		if depth > maxDepth {
			return
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			full := filepath.Join(dir, e.Name())
			if isProtected != nil && isProtected(full) {
				continue
			}
			rel := append(append([]string{}, relParts...), e.Name())
			score := scorePath(rel, tags)
			if score > bestScore {
				bestScore = score
				bestPath = filepath.Join(rel...)
			}
			walk(full, rel, depth+1)
		}
	}
	walk(base, nil, 1)

	return bestPath
}

// scorePath scores every component of a candidate relative path against
// the best-matching tag for that component, and sums the per-component
// scores.
func scorePath(parts []string, tags []string) int {
	total := 0
	for _, p := range parts {
		name := strings.ToLower(p)
		best := 0
		for _, tag := range tags {
			if s := scorePair(tag, name); s > best {
				best = s
			}
		}
		total += best
	}
	return total
}

// scorePair scores a single tag against a single candidate directory
// name.
func scorePair(tag, name string) int {
	score := 0
	if tag == name {
		score += 10
	}
	if strings.Contains(tag, name) || strings.Contains(name, tag) {
		score += 5
	}

	nameTokens := strings.Split(name, "-")
	tokenSet := make(map[string]bool, len(nameTokens))
	for _, t := range nameTokens {
		tokenSet[t] = true
	}

	shared := 0
	for _, t := range strings.Split(tag, "-") {
		if tokenSet[t] {
			shared++
		}
	}
	score += 2 * shared

	if tokenSet[tag] {
		score += 3
	}
	return score
}
