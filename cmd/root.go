// Package cmd implements the cogfs command-line interface: thin cobra
// wrappers that load configuration, build an *app.App, and delegate to
// it. Flag parsing and user-facing output live here; orchestration lives
// in internal/app.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "cogfs",
	Short: "A cognitive filesystem assistant: scan, tag, embed, and organize files",
	Long: `cogfs scans a directory, fingerprints and classifies each file,
generates tags, and builds a local semantic index over the content. It can
then cluster similar files, propose a folder structure for them, keep the
index in sync with the filesystem, and serve search results over MCP or
plain HTTP.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: searches ./cogfs.yaml, ./config/cogfs.yaml, ~/.config/cogfs/cogfs.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
