package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/cogfs/cogfs/internal/vectordb"
)

// handleSearchDocuments performs semantic search over the indexed file
// store.
func (s *Server) handleSearchDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	var filter *vectordb.SearchFilter
	if ext := request.GetString("extension", ""); ext != "" {
		filter = &vectordb.SearchFilter{Extension: &ext}
	}
	if tag := request.GetString("tag", ""); tag != "" {
		if filter == nil {
			filter = &vectordb.SearchFilter{}
		}
		filter.Tag = &tag
	}

	results, err := s.store.Search(ctx, query, limit, filter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No results found. The directory may not be indexed yet. Run `cogfs scan` to index it."), nil
	}

	return mcp.NewToolResultText(vectordb.FormatResults(results)), nil
}

// handleGetDocument returns every indexed version of a specific file path.
func (s *Server) handleGetDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}

	docs, err := s.store.GetByPath(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	if len(docs) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No indexed document found for %q.", path)), nil
	}

	var out string
	for _, d := range docs {
		out += fmt.Sprintf("ID: %s\nTags: %v\nHash: %s\n\n%s\n\n", d.ID, d.Metadata.Tags, d.Metadata.Hash, d.Content)
	}
	return mcp.NewToolResultText(out), nil
}

// handleGetIndexStatus reports the current document count.
func (s *Server) handleGetIndexStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(fmt.Sprintf("%d document(s) indexed.", s.store.Count())), nil
}
