package vectordb

import (
	"context"
	"math"
	"os"
	"testing"
	"time"
)

// mockEmbedder returns deterministic embeddings based on text content.
// It produces a simple hash-based vector for reproducible tests.
type mockEmbedder struct {
	dims int
}

func newMockEmbedder(dims int) *mockEmbedder {
	return &mockEmbedder{dims: dims}
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		results[i] = m.deterministicVector(text)
	}
	return results, nil
}

func (m *mockEmbedder) Dimensions() int { return m.dims }
func (m *mockEmbedder) Name() string    { return "mock" }

// deterministicVector produces a normalized vector from text.
// Similar texts will produce similar vectors because shared characters contribute
// to the same positions in the vector.
func (m *mockEmbedder) deterministicVector(text string) []float32 {
	vec := make([]float32, m.dims)
	for i, ch := range text {
		idx := (int(ch) + i) % m.dims
		vec[idx] += 1.0
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}

func TestChromemStore_AddAndSearch(t *testing.T) {
	ctx := context.Background()
	embedder := newMockEmbedder(64)

	store, err := NewChromemStore(embedder)
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}

	docs := []Document{
		{
			ID:      "doc1",
			Content: "The authentication module handles user login and session management",
			Metadata: DocumentMetadata{
				Path:      "internal/auth/login.go",
				Hash:      "abc123",
				Extension: "go",
				Tags:      []string{"programming", "go"},
				UpdatedAt: time.Now(),
			},
		},
		{
			ID:      "doc2",
			Content: "Database connection pool configuration and initialization",
			Metadata: DocumentMetadata{
				Path:      "internal/db/pool.go",
				Hash:      "def456",
				Extension: "go",
				Tags:      []string{"programming"},
				UpdatedAt: time.Now(),
			},
		},
		{
			ID:      "doc3",
			Content: "HTTP router setup and middleware chain for the REST API",
			Metadata: DocumentMetadata{
				Path:      "internal/api/router.go",
				Hash:      "ghi789",
				Extension: "go",
				Tags:      []string{"programming", "integration"},
				UpdatedAt: time.Now(),
			},
		},
	}

	if err := store.AddDocuments(ctx, docs); err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}

	if count := store.Count(); count != 3 {
		t.Errorf("Count: got %d, want 3", count)
	}

	results, err := store.Search(ctx, "user authentication login", 2, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Search returned no results")
	}
	if len(results) > 2 {
		t.Errorf("Search returned %d results, expected at most 2", len(results))
	}

	for _, r := range results {
		if r.Similarity == 0 {
			t.Error("result has zero similarity")
		}
	}
}

func TestChromemStore_SearchWithFilter(t *testing.T) {
	ctx := context.Background()
	embedder := newMockEmbedder(64)

	store, err := NewChromemStore(embedder)
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}

	docs := []Document{
		{
			ID:      "f1",
			Content: "Go function that processes data",
			Metadata: DocumentMetadata{
				Path:      "main.go",
				Extension: "go",
			},
		},
		{
			ID:      "f2",
			Content: "Python function that processes data",
			Metadata: DocumentMetadata{
				Path:      "main.py",
				Extension: "py",
			},
		},
	}

	if err := store.AddDocuments(ctx, docs); err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}

	ext := "py"
	results, err := store.Search(ctx, "process data", 10, &SearchFilter{Extension: &ext})
	if err != nil {
		t.Fatalf("Search with filter: %v", err)
	}

	for _, r := range results {
		if r.Document.Metadata.Extension != "py" {
			t.Errorf("expected extension py, got %s", r.Document.Metadata.Extension)
		}
	}
}

func TestChromemStore_DeleteByPath(t *testing.T) {
	ctx := context.Background()
	embedder := newMockEmbedder(64)

	store, err := NewChromemStore(embedder)
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}

	docs := []Document{
		{ID: "d1", Content: "first document content", Metadata: DocumentMetadata{Path: "file_a.go", Extension: "go"}},
		{ID: "d2", Content: "second document content", Metadata: DocumentMetadata{Path: "file_b.go", Extension: "go"}},
	}

	if err := store.AddDocuments(ctx, docs); err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}

	if count := store.Count(); count != 2 {
		t.Fatalf("Count before delete: got %d, want 2", count)
	}

	if err := store.DeleteByPath(ctx, "file_a.go"); err != nil {
		t.Fatalf("DeleteByPath: %v", err)
	}

	if count := store.Count(); count != 1 {
		t.Errorf("Count after delete: got %d, want 1", count)
	}
}

func TestChromemStore_PersistAndLoad(t *testing.T) {
	ctx := context.Background()
	embedder := newMockEmbedder(64)

	store, err := NewChromemStore(embedder)
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}

	now := time.Now().Truncate(time.Second)
	docs := []Document{
		{
			ID:      "persist1",
			Content: "persistent document about authentication",
			Metadata: DocumentMetadata{
				Path: "auth.go", Hash: "hash1", Extension: "go",
				Tags: []string{"programming"}, UpdatedAt: now,
			},
		},
		{
			ID:      "persist2",
			Content: "persistent document about database queries",
			Metadata: DocumentMetadata{
				Path: "db.go", Hash: "hash2", Extension: "go",
				Tags: []string{"programming"}, UpdatedAt: now,
			},
		},
	}

	if err := store.AddDocuments(ctx, docs); err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}

	tmpDir, err := os.MkdirTemp("", "chromem-test-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	if err := store.Persist(ctx, tmpDir); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	store2, err := NewChromemStore(embedder)
	if err != nil {
		t.Fatalf("NewChromemStore for load: %v", err)
	}

	if err := store2.Load(ctx, tmpDir); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if count := store2.Count(); count != 2 {
		t.Errorf("Count after load: got %d, want 2", count)
	}

	results, err := store2.Search(ctx, "authentication database", 2, nil)
	if err != nil {
		t.Fatalf("Search after load: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Search after load returned %d results, want 2", len(results))
	}

	foundAuth, foundDB := false, false
	for _, r := range results {
		switch r.Document.Metadata.Path {
		case "auth.go":
			foundAuth = true
			if r.Document.Metadata.Hash != "hash1" {
				t.Errorf("auth.go: expected hash hash1, got %s", r.Document.Metadata.Hash)
			}
		case "db.go":
			foundDB = true
			if r.Document.Metadata.Hash != "hash2" {
				t.Errorf("db.go: expected hash hash2, got %s", r.Document.Metadata.Hash)
			}
		}
	}
	if !foundAuth {
		t.Error("auth.go document not found after load")
	}
	if !foundDB {
		t.Error("db.go document not found after load")
	}
}

func TestChromemStore_GetByPathIncludesEmbedding(t *testing.T) {
	ctx := context.Background()
	embedder := newMockEmbedder(8)

	store, err := NewChromemStore(embedder)
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}

	if err := store.AddDocuments(ctx, []Document{
		{ID: "e1", Content: "clustered content", Metadata: DocumentMetadata{Path: "a.go"}},
	}); err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}

	docs, err := store.GetByPath(ctx, "a.go")
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("GetByPath returned %d documents, want 1", len(docs))
	}
	if len(docs[0].Embedding) == 0 {
		t.Fatal("GetByPath dropped the document's embedding; callers that cluster on it (app.Organize) would never receive vectors")
	}
}

func TestFormatResults(t *testing.T) {
	results := []SearchResult{
		{
			Document: Document{
				ID:      "r1",
				Content: "func main() { ... }",
				Metadata: DocumentMetadata{
					Path:      "main.go",
					Extension: "go",
					Tags:      []string{"programming"},
				},
			},
			Similarity: 0.9512,
		},
	}

	output := FormatResults(results)
	if output == "" {
		t.Error("FormatResults returned empty string")
	}
	if !contains(output, "main.go") {
		t.Errorf("expected file path in output, got: %s", output)
	}
	if !contains(output, "0.9512") {
		t.Errorf("expected similarity score in output, got: %s", output)
	}
}

func TestFormatResults_Empty(t *testing.T) {
	output := FormatResults(nil)
	if output != "No results found." {
		t.Errorf("expected 'No results found.', got: %s", output)
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && searchString(s, substr)
}

func searchString(s, sub string) bool {
	for i := 0; i <= len(s)-len(sub); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
