// Package organize plans and executes file moves: given each file's
// taxonomy-generated destination folder (optionally overridden by its
// semantic cluster's dominant tags), it builds a PreviewTree of directory
// creations and file moves, honoring the base-path and protected-path
// invariants, and can execute or dry-run that plan.
package organize

import "errors"

// ErrProtectedPathViolation is returned when a plan would move a source
// or destination outside the canonicalized base directory. This is a
// programming error, not a per-file condition, and aborts the organize
// operation rather than being logged and skipped.
var ErrProtectedPathViolation = errors.New("organize: plan escapes base directory")

// CreateDirOperation is a planned directory creation, relative to the
// PreviewTree's base.
type CreateDirOperation struct {
	RelPath string
}

// MoveOperation is a planned file move, as absolute source/destination
// paths.
type MoveOperation struct {
	Source      string
	Destination string
}

// PreviewTree is the planned mutation of the filesystem: an ordered set
// of directories to create (hottest folders first, so progress UI shows
// the busiest destinations being prepared first) and an ordered list of
// file moves. Every Source and Destination is guaranteed to be a
// descendant of Base.
type PreviewTree struct {
	Base       string
	CreateDirs []CreateDirOperation
	Moves      []MoveOperation
}

// IsEmpty reports whether the plan has no work to do, which is the
// expected shape of a second Plan call over a tree that a prior Execute
// already applied (plan/execute idempotence).
func (t *PreviewTree) IsEmpty() bool {
	return len(t.CreateDirs) == 0 && len(t.Moves) == 0
}
