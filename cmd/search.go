package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cogfs/cogfs/internal/vectordb"
)

var (
	searchLimit     int
	searchExtension string
	searchTag       string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the local index for semantically similar files",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().StringVar(&searchExtension, "extension", "", "filter results to this extension")
	searchCmd.Flags().StringVar(&searchTag, "tag", "", "filter results to this tag")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	a, _, err := loadApp()
	if err != nil {
		return err
	}

	var filter *vectordb.SearchFilter
	if searchExtension != "" || searchTag != "" {
		filter = &vectordb.SearchFilter{}
		if searchExtension != "" {
			filter.Extension = &searchExtension
		}
		if searchTag != "" {
			filter.Tag = &searchTag
		}
	}

	results, err := a.Store.Search(context.Background(), query, searchLimit, filter)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	fmt.Print(vectordb.FormatResults(results))
	return nil
}
