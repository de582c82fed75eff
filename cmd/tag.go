package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var tagUseLLM bool

var tagCmd = &cobra.Command{
	Use:   "tag [file]",
	Short: "Preview the tags and embedding outcome for a single file, without indexing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runTag,
}

func init() {
	tagCmd.Flags().BoolVar(&tagUseLLM, "use-llm", false, "enrich tags with the configured LLM provider")
	rootCmd.AddCommand(tagCmd)
}

func runTag(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("tag: %w", err)
	}

	a, cfg, err := loadApp()
	if err != nil {
		return err
	}
	if !tagUseLLM {
		a.LLM = nil
	} else if cfg.LLM.Provider == "none" {
		fmt.Println("Warning: --use-llm was set but llm.provider is \"none\"; falling back to dictionary tagging")
	}

	doc, outcome, err := a.AnalyzeFile(context.Background(), path, filepath.Dir(path))
	if err != nil {
		return fmt.Errorf("tag: %w", err)
	}

	fmt.Printf("Path:      %s\n", doc.Metadata.Path)
	fmt.Printf("Extension: %s\n", doc.Metadata.Extension)
	fmt.Printf("Hash:      %s\n", doc.Metadata.Hash)
	fmt.Printf("Tags:      %s\n", strings.Join(doc.Metadata.Tags, ", "))
	if outcome.LLMAttempted {
		fmt.Printf("LLM tags:  %v (succeeded=%v)\n", tagUseLLM, outcome.LLMSucceeded)
	}
	if outcome.EmbeddingAttempted {
		fmt.Printf("Embedding: %d dimension(s) (succeeded=%v)\n", len(doc.Embedding), outcome.EmbeddingSucceeded)
	}
	return nil
}
