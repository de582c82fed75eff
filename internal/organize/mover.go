package organize

import (
	"fmt"
	"os"
	"path/filepath"
)

// Execute applies a PreviewTree to the filesystem: directories first (so
// every move's parent exists), then moves via os.Rename, which is atomic
// within a single filesystem. When dryRun is true, Execute only
// re-validates the confinement invariant and does nothing else.
func Execute(tree *PreviewTree, dryRun bool) error {
	if err := validateConfinement(tree); err != nil {
		return err
	}
	if dryRun {
		return nil
	}

	for _, d := range tree.CreateDirs {
		full := filepath.Join(tree.Base, d.RelPath)
		if err := os.MkdirAll(full, 0o755); err != nil {
			return fmt.Errorf("organize: create directory %s: %w", d.RelPath, err)
		}
	}

	for _, m := range tree.Moves {
		if err := os.MkdirAll(filepath.Dir(m.Destination), 0o755); err != nil {
			return fmt.Errorf("organize: prepare destination for %s: %w", m.Source, err)
		}
		if err := os.Rename(m.Source, m.Destination); err != nil {
			return fmt.Errorf("organize: move %s -> %s: %w", m.Source, m.Destination, err)
		}
	}

	return nil
}
