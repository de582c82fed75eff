package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cogfs/cogfs/internal/embeddings"
	"github.com/cogfs/cogfs/internal/vectordb"
)

type fakeEmbedder struct {
	dim int
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		v := make([]float32, f.dim)
		v[0] = 1
		out[i] = v
	}
	return out, nil
}
func (f *fakeEmbedder) Dimensions() int { return f.dim }
func (f *fakeEmbedder) Name() string    { return "fake" }

type fakeStore struct {
	docs []vectordb.Document
}

func (s *fakeStore) AddDocuments(ctx context.Context, docs []vectordb.Document) error {
	s.docs = append(s.docs, docs...)
	return nil
}
func (s *fakeStore) Search(ctx context.Context, query string, limit int, filter *vectordb.SearchFilter) ([]vectordb.SearchResult, error) {
	return nil, nil
}
func (s *fakeStore) GetByPath(ctx context.Context, path string) ([]vectordb.Document, error) {
	var out []vectordb.Document
	for _, d := range s.docs {
		if d.Metadata.Path == path {
			out = append(out, d)
		}
	}
	return out, nil
}
func (s *fakeStore) DeleteByPath(ctx context.Context, path string) error { return nil }
func (s *fakeStore) Persist(ctx context.Context, dir string) error      { return nil }
func (s *fakeStore) Load(ctx context.Context, dir string) error         { return nil }
func (s *fakeStore) Count() int                                         { return len(s.docs) }

func TestAnalyzerIndexesFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("meeting notes about the quarterly budget"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := &fakeStore{}
	a := New(dir, Dependencies{
		Embedder: embeddings.NewService(&fakeEmbedder{dim: 4}),
		Store:    store,
	})

	if err := a.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := a.Counters().FilesIndexed.Load(); got != 1 {
		t.Fatalf("FilesIndexed = %d, want 1", got)
	}
	if got := a.Counters().EmbeddingsCreated.Load(); got != 1 {
		t.Fatalf("EmbeddingsCreated = %d, want 1", got)
	}
	if len(store.docs) != 1 {
		t.Fatalf("store has %d docs, want 1", len(store.docs))
	}
}

func TestAnalyzerSkipsProtectedFiles(t *testing.T) {
	dir := t.TempDir()
	gitDir := filepath.Join(dir, ".git")
	if err := os.MkdirAll(gitDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(gitDir, "config"), []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := &fakeStore{}
	a := New(dir, Dependencies{
		Embedder: embeddings.NewService(&fakeEmbedder{dim: 4}),
		Store:    store,
	})
	if err := a.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := a.Counters().ProtectedFiles.Load(); got != 1 {
		t.Fatalf("ProtectedFiles = %d, want 1", got)
	}
	if len(store.docs) != 0 {
		t.Fatalf("protected file should not be indexed, got %d docs", len(store.docs))
	}
}

func TestBuildFallbackDescriptorIsNeverDegenerate(t *testing.T) {
	got := buildFallbackDescriptor("a.bin", "bin", nil)
	if len(got) < 20 {
		t.Fatalf("fallback descriptor too short: %q", got)
	}
}

func TestBuildFallbackDescriptorIncludesTags(t *testing.T) {
	got := buildFallbackDescriptor("report.pdf", "pdf", []string{"financial", "invoice"})
	if !contains(got, "financial") || !contains(got, "invoice") {
		t.Fatalf("descriptor %q missing tags", got)
	}
}

func contains(s, sub string) bool {
	return len(s) >= len(sub) && (func() bool {
		for i := 0; i+len(sub) <= len(s); i++ {
			if s[i:i+len(sub)] == sub {
				return true
			}
		}
		return false
	})()
}

func TestAnalyzerHandlesEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	a := New(dir, Dependencies{})
	if err := a.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := a.Counters().FilesIndexed.Load(); got != 0 {
		t.Fatalf("FilesIndexed = %d, want 0", got)
	}
}
