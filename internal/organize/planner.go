package organize

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cogfs/cogfs/internal/taxonomy"
)

// FileEntry is one analyzed file as seen by the planner: its current
// absolute path, the tags driving its destination folder, whether it is
// protected (and therefore excluded from moves), and, if it belongs to a
// cluster, that cluster's dominant tags for the override rule.
type FileEntry struct {
	Path                string
	Tags                []string
	IsProtected         bool
	ClusterDominantTags []string
}

// PlanOptions configures folder depth and the cluster-override threshold.
type PlanOptions struct {
	// MaxDepth bounds generated folder paths (default taxonomy.DefaultMaxDepth).
	MaxDepth int

	// ClusterOverrideMinTags is the dominant-tag count above which a
	// cluster's folder always overrides a file's per-file folder,
	// regardless of depth. Default 2, per the distilled spec's "more than
	// two dominant tags" rule, surfaced here as configuration per the
	// spec's own open question.
	ClusterOverrideMinTags int

	// Reconcile, if non-nil, is consulted per generated folder to prefer
	// an existing on-disk directory over synthesizing a new one.
	Reconcile func(tags []string) string
}

// DefaultPlanOptions returns the canonical planning configuration.
func DefaultPlanOptions() PlanOptions {
	return PlanOptions{
		MaxDepth:               taxonomy.DefaultMaxDepth,
		ClusterOverrideMinTags: 2,
	}
}

// Plan builds a PreviewTree for moving every non-protected file in files
// into its taxonomy-derived (and possibly cluster-overridden) destination
// folder under base. Protected files are never planned for a move.
func Plan(base string, files []FileEntry, opts PlanOptions) (*PreviewTree, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = taxonomy.DefaultMaxDepth
	}

	baseAbs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("organize: resolve base %s: %w", base, err)
	}
	baseAbs = filepath.Clean(baseAbs)

	type destination struct {
		entry   FileEntry
		relDir  string
		absDest string
	}

	folderCounts := make(map[string]int)
	var destinations []destination

	for _, f := range files {
		if f.IsProtected {
			continue
		}

		components := f.folderComponents(opts)
		relDir := filepath.Join(components...)
		folderCounts[relDir]++

		absDest := filepath.Join(baseAbs, relDir, filepath.Base(f.Path))
		destinations = append(destinations, destination{entry: f, relDir: relDir, absDest: absDest})
	}

	tree := &PreviewTree{Base: baseAbs}

	for _, relDir := range rankFoldersByFrequency(folderCounts) {
		if relDir == "." || relDir == "" {
			continue
		}
		if dirExists(filepath.Join(baseAbs, relDir)) {
			continue
		}
		tree.CreateDirs = append(tree.CreateDirs, CreateDirOperation{RelPath: relDir})
	}

	for _, d := range destinations {
		source := filepath.Clean(d.entry.Path)
		dest := filepath.Clean(d.absDest)
		if source == dest {
			continue
		}
		tree.Moves = append(tree.Moves, MoveOperation{Source: source, Destination: dest})
	}

	if err := validateConfinement(tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// folderComponents resolves a single file's destination path components,
// applying the cluster-override rule: the cluster's folder replaces the
// per-file folder iff it is at least as deep, or the cluster has more
// than ClusterOverrideMinTags dominant tags.
func (f FileEntry) folderComponents(opts PlanOptions) []string {
	components := taxonomy.GenerateFolder(f.Tags, opts.MaxDepth)

	if len(f.ClusterDominantTags) == 0 {
		return components
	}

	clusterComponents := taxonomy.GenerateFolder(f.ClusterDominantTags, opts.MaxDepth)
	if len(clusterComponents) >= len(components) || len(f.ClusterDominantTags) > opts.ClusterOverrideMinTags {
		return clusterComponents
	}
	return components
}

// rankFoldersByFrequency returns folder keys sorted descending by planned
// occupancy, so the hottest folders are created first.
func rankFoldersByFrequency(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// validateConfinement checks the base-path invariant before any
// filesystem write: every source and destination must be a descendant of
// tree.Base.
func validateConfinement(tree *PreviewTree) error {
	for _, m := range tree.Moves {
		if !isDescendant(tree.Base, m.Source) || !isDescendant(tree.Base, m.Destination) {
			return fmt.Errorf("%w: %s -> %s", ErrProtectedPathViolation, m.Source, m.Destination)
		}
	}
	for _, d := range tree.CreateDirs {
		if strings.HasPrefix(d.RelPath, "..") {
			return fmt.Errorf("%w: directory %s", ErrProtectedPathViolation, d.RelPath)
		}
	}
	return nil
}

func isDescendant(base, path string) bool {
	baseClean := filepath.Clean(base)
	pathClean := filepath.Clean(path)
	if pathClean == baseClean {
		return true
	}
	rel, err := filepath.Rel(baseClean, pathClean)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
