package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync [directory]",
	Short: "Reconcile the local index against the current file set",
	Long: `Diffs the on-disk file set under directory against what is already
indexed: unchanged files are left alone, changed or new files are
re-indexed, and files that have disappeared from disk are deleted from the
index. A scan, by contrast, re-analyzes every file it finds and never
removes vanished files from the index.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	base := "."
	if len(args) == 1 {
		base = args[0]
	}

	a, _, err := loadApp()
	if err != nil {
		return err
	}

	stats, err := a.Sync(context.Background(), base)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	fmt.Printf("Sync complete: %d unchanged, %d updated, %d new, %d deleted\n", stats.Unchanged, stats.Updated, stats.New, stats.Deleted)
	return nil
}
