package pipeline

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/cogfs/cogfs/internal/classify"
)

// Walk streams every regular file path under root onto the returned
// channel as it is discovered, without materializing the full tree in
// memory first: the analyzer pipeline starts submitting work to its
// worker pool while the walk is still in progress, instead of waiting for
// a complete listing. The channel is closed once the walk finishes or ctx
// is canceled. Bundle directories (classify.IsBundle) are skipped: they
// are neither descended into nor emitted.
func Walk(ctx context.Context, root string) <-chan string {
	return WalkExcluding(ctx, root, nil)
}

// WalkExcluding behaves like Walk but additionally skips any file whose
// path relative to root matches one of excludeGlobs (doublestar patterns,
// e.g. "**/*.tmp"). A malformed pattern is ignored rather than aborting
// the walk, since a single bad config entry must not take down scanning.
func WalkExcluding(ctx context.Context, root string, excludeGlobs []string) <-chan string {
	out := make(chan string, 64)

	go func() {
		defer close(out)

		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if path != root && classify.IsBundle(d.Name()) {
					return fs.SkipDir
				}
				return nil
			}
			if matchesAny(root, path, excludeGlobs) {
				return nil
			}

			select {
			case out <- path:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
	}()

	return out
}

// matchesAny reports whether path's root-relative, slash-separated form
// matches any of globs.
func matchesAny(root, path string, globs []string) bool {
	if len(globs) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, g := range globs {
		if ok, err := doublestar.Match(g, rel); err == nil && ok {
			return true
		}
	}
	return false
}
