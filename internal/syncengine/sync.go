// Package syncengine reconciles the on-disk file set against what the
// vector store has indexed: unchanged files are left alone, changed or new
// files are (re-)indexed by the caller-supplied indexFn, and files that
// disappeared from disk are deleted from the store.
package syncengine

import (
	"context"
	"fmt"
	"time"

	"github.com/cogfs/cogfs/internal/fingerprint"
	"github.com/cogfs/cogfs/internal/vectordb"
)

// defaultTimeout bounds a single Sync call; exceeding it returns a
// zero-valued Stats rather than blocking the caller indefinitely on a
// slow store.
const defaultTimeout = 60 * time.Second

// maxPathsPerSync caps how many indexed paths a single Sync call
// reconciles, so one run against a very large store stays bounded.
const maxPathsPerSync = 10000

// Stats summarizes the outcome of one Sync call. Unchanged and Updated
// together account for exactly the paths that were already indexed and
// are still on disk; New accounts separately for paths on disk that had
// no prior index entry at all, so Unchanged+Updated == |indexed ∩ disk|
// holds regardless of how many brand-new files a run discovers.
type Stats struct {
	Unchanged int
	Updated   int
	New       int
	Deleted   int
}

// IndexFunc (re-)indexes a single on-disk file, returning the Document
// that was written to the store.
type IndexFunc func(ctx context.Context, path string) (vectordb.Document, error)

// Store is the subset of vectordb.VectorStore the sync engine needs.
type Store interface {
	GetByPath(ctx context.Context, path string) ([]vectordb.Document, error)
	DeleteByPath(ctx context.Context, path string) error
}

// Sync walks currentPaths (every file currently on disk under the scanned
// root, already filtered for protected paths by the caller) and indexed
// paths (every path the store currently has documents for), applying:
//   - a path present on disk but not indexed at all is (re-)indexed via
//     indexFn and counted as New, not Updated;
//   - a path present on disk and indexed, but with a stale file hash, is
//     (re-)indexed via indexFn and counted as Updated;
//   - a path present on disk with a matching file hash is left alone;
//   - a path indexed but no longer present on disk is deleted from store.
//
// indexedPaths should list at most maxPathsPerSync entries; callers with
// larger stores should page and call Sync repeatedly.
func Sync(ctx context.Context, store Store, currentPaths []string, indexedPaths []string, indexFn IndexFunc) (Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if len(indexedPaths) > maxPathsPerSync {
		indexedPaths = indexedPaths[:maxPathsPerSync]
	}

	onDisk := make(map[string]bool, len(currentPaths))
	for _, p := range currentPaths {
		onDisk[p] = true
	}
	indexed := make(map[string]bool, len(indexedPaths))
	for _, p := range indexedPaths {
		indexed[p] = true
	}

	var stats Stats

	for _, path := range currentPaths {
		select {
		case <-ctx.Done():
			return Stats{}, fmt.Errorf("syncengine: %w", ctx.Err())
		default:
		}

		state, err := fileState(ctx, store, path)
		if err != nil {
			return stats, fmt.Errorf("syncengine: check %s: %w", path, err)
		}
		if state == fileUnchanged {
			stats.Unchanged++
			continue
		}
		if _, err := indexFn(ctx, path); err != nil {
			return stats, fmt.Errorf("syncengine: index %s: %w", path, err)
		}
		if state == fileNew {
			stats.New++
		} else {
			stats.Updated++
		}
	}

	for _, path := range indexedPaths {
		if onDisk[path] {
			continue
		}
		select {
		case <-ctx.Done():
			return Stats{}, fmt.Errorf("syncengine: %w", ctx.Err())
		default:
		}
		if err := store.DeleteByPath(ctx, path); err != nil {
			return stats, fmt.Errorf("syncengine: delete %s: %w", path, err)
		}
		stats.Deleted++
	}

	return stats, nil
}

// syncFileState classifies a single on-disk path against what the store
// already has for it.
type syncFileState int

const (
	fileUnchanged syncFileState = iota
	fileStale
	fileNew
)

// fileState reports whether path is new (no indexed documents at all),
// stale (indexed, but none of its document versions match the current
// on-disk hash), or unchanged (an indexed version already matches).
func fileState(ctx context.Context, store Store, path string) (syncFileState, error) {
	existing, err := store.GetByPath(ctx, path)
	if err != nil {
		return fileUnchanged, err
	}
	if len(existing) == 0 {
		return fileNew, nil
	}

	meta, err := fingerprint.Fingerprint(path)
	if err != nil {
		return fileUnchanged, err
	}

	for _, doc := range existing {
		if doc.Metadata.Hash == meta.Hash {
			return fileUnchanged, nil
		}
	}
	return fileStale, nil
}
