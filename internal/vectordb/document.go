package vectordb

import "time"

// Document represents an indexed file's embedded text and metadata, as
// synced into the vector store by the sync engine. Embedding is normally
// precomputed by the embedding service (so chunked mean-pooling and
// multi-replica failover are exercised); it is left nil only when the
// analyzer itself could not produce a vector for that file.
type Document struct {
	ID        string
	Content   string
	Embedding []float32
	Metadata  DocumentMetadata
}

// DocumentMetadata holds the structured fields a search result exposes and
// a search filter can narrow on. Version-addressed IDs mean a document's
// own ID already encodes Hash and UpdatedAt, but both are kept here too so
// filters and display don't need to decode the ID.
type DocumentMetadata struct {
	Path      string
	Hash      string
	Extension string
	SizeBytes int64
	Tags      []string
	Metadata  map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SearchResult pairs a document with its similarity score.
type SearchResult struct {
	Document   Document
	Similarity float32
}

// SearchFilter allows narrowing search results by metadata fields.
type SearchFilter struct {
	Extension *string
	Path      *string
	Tag       *string
}
