package vectordb

import "context"

// VectorStore defines the interface for storing and searching documents by
// embeddings. The scan pipeline, the sync engine (C11) and the watcher
// write; search consumers (CLI, HTTP server, MCP tools) only read.
type VectorStore interface {
	// AddDocuments adds or updates documents in the store.
	AddDocuments(ctx context.Context, docs []Document) error

	// Search performs a semantic search using the query text.
	Search(ctx context.Context, query string, limit int, filter *SearchFilter) ([]SearchResult, error)

	// GetByPath retrieves all document versions associated with the given
	// file path.
	GetByPath(ctx context.Context, path string) ([]Document, error)

	// DeleteByPath removes all documents associated with the given file
	// path, used when a watched file is deleted.
	DeleteByPath(ctx context.Context, path string) error

	// Persist saves the store's data to the given directory.
	Persist(ctx context.Context, dir string) error

	// Load restores the store's data from the given directory.
	Load(ctx context.Context, dir string) error

	// Count returns the total number of documents in the store.
	Count() int
}
