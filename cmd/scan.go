package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cogfs/cogfs/internal/progress"
)

var scanCmd = &cobra.Command{
	Use:   "scan [directory]",
	Short: "Scan a directory and build its semantic index",
	Long:  `Walks a directory tree, fingerprinting, tagging, and embedding every file, and writes the results to the local index.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	base := "."
	if len(args) == 1 {
		base = args[0]
	}

	a, _, err := loadApp()
	if err != nil {
		return err
	}

	reporter := progress.NewReporter()
	counters, _, err := a.Scan(context.Background(), base, reporter)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	fmt.Printf("Indexed %d files (%d embeddings, %d embedding failures, %d protected, %d LLM tag successes, %d LLM fallbacks, %d errors)\n",
		counters.FilesIndexed.Load(),
		counters.EmbeddingsCreated.Load(),
		counters.EmbeddingFailures.Load(),
		counters.ProtectedFiles.Load(),
		counters.LLMSuccesses.Load(),
		counters.LLMFallbacks.Load(),
		counters.Errors.Load(),
	)
	return nil
}
