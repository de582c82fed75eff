package organize

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPlanBuildsMovesAndCreateDirs(t *testing.T) {
	dir := t.TempDir()
	f1 := filepath.Join(dir, "invoice.pdf")
	writeFile(t, f1)

	tree, err := Plan(dir, []FileEntry{
		{Path: f1, Tags: []string{"financial", "invoice", "2024"}},
	}, DefaultPlanOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Moves) != 1 {
		t.Fatalf("got %d moves, want 1", len(tree.Moves))
	}
	if len(tree.CreateDirs) == 0 {
		t.Fatal("expected at least one directory creation")
	}
}

func TestPlanExcludesProtectedFiles(t *testing.T) {
	dir := t.TempDir()
	f1 := filepath.Join(dir, ".git", "config")
	writeFile(t, f1)

	tree, err := Plan(dir, []FileEntry{
		{Path: f1, Tags: []string{"financial"}, IsProtected: true},
	}, DefaultPlanOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !tree.IsEmpty() {
		t.Fatalf("expected empty plan for protected-only input, got %+v", tree)
	}
}

func TestPlanRejectsEscapeOutsideBase(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	f1 := filepath.Join(outside, "doc.txt")
	writeFile(t, f1)

	_, err := Plan(dir, []FileEntry{
		{Path: f1, Tags: []string{"notes"}},
	}, DefaultPlanOptions())
	if err == nil {
		t.Fatal("expected confinement violation for a source outside base")
	}
}

func TestPlanIdempotentAfterExecute(t *testing.T) {
	dir := t.TempDir()
	f1 := filepath.Join(dir, "invoice.pdf")
	writeFile(t, f1)
	entries := []FileEntry{{Path: f1, Tags: []string{"financial", "invoice"}}}

	tree, err := Plan(dir, entries, DefaultPlanOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := Execute(tree, false); err != nil {
		t.Fatal(err)
	}

	movedEntries := []FileEntry{{Path: tree.Moves[0].Destination, Tags: []string{"financial", "invoice"}}}
	tree2, err := Plan(dir, movedEntries, DefaultPlanOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !tree2.IsEmpty() {
		t.Fatalf("expected idempotent re-plan to be empty, got %+v", tree2)
	}
}

func TestExecuteDryRunDoesNothing(t *testing.T) {
	dir := t.TempDir()
	f1 := filepath.Join(dir, "invoice.pdf")
	writeFile(t, f1)

	tree, err := Plan(dir, []FileEntry{
		{Path: f1, Tags: []string{"financial", "invoice"}},
	}, DefaultPlanOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := Execute(tree, true); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(f1); err != nil {
		t.Fatalf("dry run must not move the file: %v", err)
	}
}

func TestClusterOverrideAppliesWhenTagsExceedThreshold(t *testing.T) {
	dir := t.TempDir()
	f1 := filepath.Join(dir, "note.txt")
	writeFile(t, f1)

	opts := DefaultPlanOptions()
	tree, err := Plan(dir, []FileEntry{
		{
			Path:                f1,
			Tags:                []string{"notes"},
			ClusterDominantTags: []string{"financial", "invoice", "acme", "2024"},
		},
	}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Moves) != 1 {
		t.Fatalf("got %d moves, want 1", len(tree.Moves))
	}
	if filepath.Dir(tree.Moves[0].Destination) == dir {
		t.Fatal("expected the cluster-overridden folder to be used")
	}
}
