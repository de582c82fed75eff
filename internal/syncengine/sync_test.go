package syncengine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cogfs/cogfs/internal/fingerprint"
	"github.com/cogfs/cogfs/internal/vectordb"
)

type fakeStore struct {
	byPath  map[string][]vectordb.Document
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{byPath: make(map[string][]vectordb.Document)}
}

func (f *fakeStore) GetByPath(ctx context.Context, path string) ([]vectordb.Document, error) {
	return f.byPath[path], nil
}

func (f *fakeStore) DeleteByPath(ctx context.Context, path string) error {
	f.deleted = append(f.deleted, path)
	delete(f.byPath, path)
	return nil
}

func TestDocumentIDStableForSameRevision(t *testing.T) {
	a := DocumentID("abc123", 1000)
	b := DocumentID("abc123", 1000)
	if a != b {
		t.Fatalf("DocumentID not stable: %q != %q", a, b)
	}
}

func TestDocumentIDDiffersAcrossRevisions(t *testing.T) {
	a := DocumentID("abc123", 1000)
	b := DocumentID("abc123", 2000)
	if a == b {
		t.Fatal("DocumentID should differ across revisions of the same content hash")
	}
}

func TestSyncIndexesNewFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := newFakeStore()
	var indexedPaths []string
	indexFn := func(ctx context.Context, p string) (vectordb.Document, error) {
		indexedPaths = append(indexedPaths, p)
		return vectordb.Document{}, nil
	}

	stats, err := Sync(context.Background(), store, []string{path}, nil, indexFn)
	if err != nil {
		t.Fatal(err)
	}
	if stats.New != 1 || stats.Updated != 0 || stats.Unchanged != 0 || stats.Deleted != 0 {
		t.Fatalf("got %+v, want 1 new", stats)
	}
	if len(indexedPaths) != 1 {
		t.Fatalf("indexFn called %d times, want 1", len(indexedPaths))
	}
}

func TestSyncSkipsUnchangedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	meta, err := fingerprint.Fingerprint(path)
	if err != nil {
		t.Fatal(err)
	}

	store := newFakeStore()
	store.byPath[path] = []vectordb.Document{{
		ID:       DocumentID(meta.Hash, meta.UpdatedAt.Unix()),
		Metadata: vectordb.DocumentMetadata{Path: path, Hash: meta.Hash},
	}}

	called := false
	indexFn := func(ctx context.Context, p string) (vectordb.Document, error) {
		called = true
		return vectordb.Document{}, nil
	}

	stats, err := Sync(context.Background(), store, []string{path}, []string{path}, indexFn)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Unchanged != 1 || stats.Updated != 0 {
		t.Fatalf("got %+v, want 1 unchanged", stats)
	}
	if called {
		t.Fatal("indexFn should not be called for an unchanged file")
	}
}

func TestSyncReindexesChangedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := newFakeStore()
	store.byPath[path] = []vectordb.Document{{
		ID:       "stale",
		Metadata: vectordb.DocumentMetadata{Path: path, Hash: "not-the-real-hash"},
	}}

	var calls int
	indexFn := func(ctx context.Context, p string) (vectordb.Document, error) {
		calls++
		return vectordb.Document{}, nil
	}

	stats, err := Sync(context.Background(), store, []string{path}, []string{path}, indexFn)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Updated != 1 || calls != 1 {
		t.Fatalf("got stats=%+v calls=%d, want 1 update", stats, calls)
	}
}

func TestSyncAccountingExcludesNewFromUnchangedPlusUpdated(t *testing.T) {
	dir := t.TempDir()
	indexedPath := filepath.Join(dir, "indexed.txt")
	newPath := filepath.Join(dir, "new.txt")
	if err := os.WriteFile(indexedPath, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(newPath, []byte("world"), 0o644); err != nil {
		t.Fatal(err)
	}
	meta, err := fingerprint.Fingerprint(indexedPath)
	if err != nil {
		t.Fatal(err)
	}

	store := newFakeStore()
	store.byPath[indexedPath] = []vectordb.Document{{
		ID:       DocumentID(meta.Hash, meta.UpdatedAt.Unix()),
		Metadata: vectordb.DocumentMetadata{Path: indexedPath, Hash: meta.Hash},
	}}

	indexFn := func(ctx context.Context, p string) (vectordb.Document, error) {
		return vectordb.Document{}, nil
	}

	stats, err := Sync(context.Background(), store, []string{indexedPath, newPath}, []string{indexedPath}, indexFn)
	if err != nil {
		t.Fatal(err)
	}
	// unchanged + updated must equal |indexed ∩ disk| = 1, regardless of
	// the new file also discovered and indexed in this run.
	if stats.Unchanged+stats.Updated != 1 {
		t.Fatalf("unchanged+updated = %d, want 1 (got %+v)", stats.Unchanged+stats.Updated, stats)
	}
	if stats.New != 1 {
		t.Fatalf("New = %d, want 1 (got %+v)", stats.New, stats)
	}
}

func TestSyncDeletesMissingFile(t *testing.T) {
	store := newFakeStore()
	gonePath := "/tmp/cogfs-does-not-exist/gone.txt"
	store.byPath[gonePath] = []vectordb.Document{{ID: "x"}}

	indexFn := func(ctx context.Context, p string) (vectordb.Document, error) {
		t.Fatal("indexFn should not be called for a path absent from currentPaths")
		return vectordb.Document{}, nil
	}

	stats, err := Sync(context.Background(), store, nil, []string{gonePath}, indexFn)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Deleted != 1 {
		t.Fatalf("got %+v, want 1 deleted", stats)
	}
	if len(store.deleted) != 1 || store.deleted[0] != gonePath {
		t.Fatalf("DeleteByPath not called correctly: %v", store.deleted)
	}
}

func TestSyncRespectsCanceledContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := newFakeStore()
	indexFn := func(ctx context.Context, p string) (vectordb.Document, error) {
		return vectordb.Document{}, nil
	}

	_, err := Sync(ctx, store, []string{path}, nil, indexFn)
	if err == nil {
		t.Fatal("expected an error for an already-canceled context")
	}
}

func TestSyncTimeoutConstantIsPositive(t *testing.T) {
	if defaultTimeout <= 0 {
		t.Fatal("defaultTimeout must be positive")
	}
	if defaultTimeout != 60*time.Second {
		t.Fatalf("defaultTimeout = %v, want 60s", defaultTimeout)
	}
}
