package vectordb

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/cogfs/cogfs/internal/embeddings"
)

const collectionName = "codebase"

// ChromemStore implements VectorStore using chromem-go.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedder   embeddings.Embedder
	embedFunc  chromem.EmbeddingFunc
}

// NewChromemStore creates a new in-memory ChromemStore.
func NewChromemStore(embedder embeddings.Embedder) (*ChromemStore, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &ChromemStore{
		db:         db,
		collection: col,
		embedder:   embedder,
		embedFunc:  ef,
	}, nil
}

func (s *ChromemStore) AddDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	chromDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromDocs[i] = chromem.Document{
			ID:        doc.ID,
			Content:   doc.Content,
			Embedding: doc.Embedding,
			Metadata:  metadataToMap(doc.Metadata),
		}
	}

	return s.collection.AddDocuments(ctx, chromDocs, 1)
}

func (s *ChromemStore) Search(ctx context.Context, query string, limit int, filter *SearchFilter) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	// chromem-go requires nResults <= collection size.
	if count := s.collection.Count(); limit > count && count > 0 {
		limit = count
	} else if count == 0 {
		return nil, nil
	}

	where := buildWhereClause(filter)

	results, err := s.collection.Query(ctx, query, limit, where, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	searchResults := make([]SearchResult, 0, len(results))
	for _, r := range results {
		meta := mapToMetadata(r.Metadata)
		if filter != nil && filter.Tag != nil && !hasTag(meta.Tags, *filter.Tag) {
			continue
		}
		searchResults = append(searchResults, SearchResult{
			Document:   Document{ID: r.ID, Content: r.Content, Metadata: meta},
			Similarity: r.Similarity,
		})
	}

	return searchResults, nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (s *ChromemStore) GetByPath(ctx context.Context, path string) ([]Document, error) {
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}

	where := map[string]string{"path": path}

	// Use path as the query text with count as limit to get all matching
	// document versions.
	results, err := s.collection.Query(ctx, path, count, where, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query by path: %w", err)
	}

	docs := make([]Document, len(results))
	for i, r := range results {
		docs[i] = Document{
			ID:        r.ID,
			Content:   r.Content,
			Embedding: r.Embedding,
			Metadata:  mapToMetadata(r.Metadata),
		}
	}

	return docs, nil
}

func (s *ChromemStore) DeleteByPath(ctx context.Context, path string) error {
	where := map[string]string{"path": path}
	return s.collection.Delete(ctx, where, nil)
}

func (s *ChromemStore) Persist(ctx context.Context, dir string) error {
	return s.db.ExportToFile(dir+"/chromem.gob.gz", true, "")
}

func (s *ChromemStore) Load(ctx context.Context, dir string) error {
	err := s.db.ImportFromFile(dir+"/chromem.gob.gz", "")
	if err != nil {
		return fmt.Errorf("import from file: %w", err)
	}

	// Re-acquire collection reference after import.
	col := s.db.GetCollection(collectionName, s.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	s.collection = col
	return nil
}

func (s *ChromemStore) Count() int {
	return s.collection.Count()
}

// metadataToMap converts DocumentMetadata to a flat map[string]string for
// chromem, which only stores string-valued metadata. The free-form,
// format-specific Metadata field (EXIF-like tags, PDF info, CSV header
// summary) is JSON-encoded into a single "metadata_json" entry.
func metadataToMap(m DocumentMetadata) map[string]string {
	out := map[string]string{
		"path":       m.Path,
		"hash":       m.Hash,
		"extension":  m.Extension,
		"size_bytes": strconv.FormatInt(m.SizeBytes, 10),
		"tags":       strings.Join(m.Tags, ","),
		"created_at": m.CreatedAt.Format(time.RFC3339),
		"updated_at": m.UpdatedAt.Format(time.RFC3339),
	}
	if len(m.Metadata) > 0 {
		if encoded, err := json.Marshal(m.Metadata); err == nil {
			out["metadata_json"] = string(encoded)
		}
	}
	return out
}

// mapToMetadata converts a flat map[string]string back to DocumentMetadata.
func mapToMetadata(m map[string]string) DocumentMetadata {
	size, _ := strconv.ParseInt(m["size_bytes"], 10, 64)
	created, _ := time.Parse(time.RFC3339, m["created_at"])
	updated, _ := time.Parse(time.RFC3339, m["updated_at"])

	var tags []string
	if t := m["tags"]; t != "" {
		tags = strings.Split(t, ",")
	}

	var metadata map[string]any
	if raw := m["metadata_json"]; raw != "" {
		_ = json.Unmarshal([]byte(raw), &metadata)
	}

	return DocumentMetadata{
		Path:      m["path"],
		Hash:      m["hash"],
		Extension: m["extension"],
		SizeBytes: size,
		Tags:      tags,
		Metadata:  metadata,
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

// buildWhereClause converts a SearchFilter to a chromem where clause.
func buildWhereClause(filter *SearchFilter) map[string]string {
	if filter == nil {
		return nil
	}

	where := make(map[string]string)
	if filter.Extension != nil {
		where["extension"] = *filter.Extension
	}
	if filter.Path != nil {
		where["path"] = *filter.Path
	}

	if len(where) == 0 {
		return nil
	}
	return where
}
