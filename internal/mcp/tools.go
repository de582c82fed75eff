package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchDocumentsTool defines the search_documents MCP tool.
var searchDocumentsTool = mcp.NewTool("search_documents",
	mcp.WithDescription("Search indexed files semantically by content. Returns matching file paths, tags, and excerpts."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10)"),
	),
	mcp.WithString("extension",
		mcp.Description("Restrict results to files with this extension"),
	),
	mcp.WithString("tag",
		mcp.Description("Restrict results to files carrying this tag"),
	),
)

// getDocumentTool defines the get_document MCP tool.
var getDocumentTool = mcp.NewTool("get_document",
	mcp.WithDescription("Get the indexed content and metadata for a specific file path."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Path to the file as indexed"),
	),
)

// getIndexStatusTool defines the get_index_status MCP tool.
var getIndexStatusTool = mcp.NewTool("get_index_status",
	mcp.WithDescription("Get the current number of indexed documents."),
)
