// Package mcp exposes a minimal MCP tool server over the indexed file
// store: search, single-document lookup, and index status.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/cogfs/cogfs/internal/vectordb"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes document search tools.
type Server struct {
	store vectordb.VectorStore
	mcp   *server.MCPServer
}

// NewServer creates a new MCP server backed by the given vector store.
func NewServer(store vectordb.VectorStore) *Server {
	s := &Server{store: store}

	s.mcp = server.NewMCPServer(
		"cogfs",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchDocumentsTool, s.handleSearchDocuments)
	s.mcp.AddTool(getDocumentTool, s.handleGetDocument)
	s.mcp.AddTool(getIndexStatusTool, s.handleGetIndexStatus)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
