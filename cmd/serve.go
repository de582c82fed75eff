package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cogfs/cogfs/internal/mcp"
	"github.com/cogfs/cogfs/internal/server"
)

var serveMCP bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search index over HTTP (default) or MCP (--mcp) for external callers",
	Long: `Exposes the indexed document store to callers other than the cogfs
CLI itself: by default a small chi-based HTTP API (GET /search, GET
/documents, GET /healthz); with --mcp, an MCP tool server over stdio
instead, for MCP-aware agents.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "serve MCP tools over stdio instead of HTTP")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, cfg, err := loadApp()
	if err != nil {
		return err
	}

	if serveMCP {
		return mcp.NewServer(a.Store).Serve()
	}

	srv := server.New(server.Config{ListenAddress: cfg.Server.ListenAddress}, a.Store)
	fmt.Printf("Serving search API on %s\n", cfg.Server.ListenAddress)
	return srv.Start()
}
