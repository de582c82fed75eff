package cmd

import (
	"context"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/cogfs/cogfs/internal/organize"
)

var (
	organizeDryRun bool
	organizeYes    bool
)

var organizeCmd = &cobra.Command{
	Use:   "organize [directory]",
	Short: "Plan and (optionally) execute reorganizing indexed files into a tag-derived folder tree",
	Long: `Clusters already-indexed files by embedding similarity, derives a
hierarchical destination folder for each from its tags (overridden by its
cluster's dominant tags where applicable), and previews the resulting moves.
Protected paths (VCS roots, package projects, bundles) are never moved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOrganize,
}

func init() {
	organizeCmd.Flags().BoolVar(&organizeDryRun, "dry-run", false, "print the plan without moving any files")
	organizeCmd.Flags().BoolVarP(&organizeYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(organizeCmd)
}

func runOrganize(cmd *cobra.Command, args []string) error {
	base := "."
	if len(args) == 1 {
		base = args[0]
	}

	a, cfg, err := loadApp()
	if err != nil {
		return err
	}

	opts := organize.DefaultPlanOptions()
	if cfg.Organizer.MaxFolderDepth > 0 {
		opts.MaxDepth = cfg.Organizer.MaxFolderDepth
	}
	if cfg.Organizer.ClusterOverrideMinTags > 0 {
		opts.ClusterOverrideMinTags = cfg.Organizer.ClusterOverrideMinTags
	}

	tree, err := a.Organize(context.Background(), base, opts)
	if err != nil {
		return fmt.Errorf("organize: %w", err)
	}

	printPreview(tree)

	if tree.IsEmpty() {
		fmt.Println("Nothing to do: every file is already at its computed destination.")
		return nil
	}

	dryRun := organizeDryRun || cfg.Organizer.DryRunDefault
	if dryRun {
		fmt.Println("Dry run: no files were moved.")
		return nil
	}

	if !organizeYes && !cfg.Organizer.SkipConfirmation {
		confirm := promptui.Select{
			Label: fmt.Sprintf("Apply %d directory creation(s) and %d move(s)?", len(tree.CreateDirs), len(tree.Moves)),
			Items: []string{"yes", "no"},
		}
		_, choice, err := confirm.Run()
		if err != nil {
			return fmt.Errorf("organize: %w", err)
		}
		if choice != "yes" {
			fmt.Println("Aborted: no files were moved.")
			return nil
		}
	}

	if err := organize.Execute(tree, false); err != nil {
		return fmt.Errorf("organize: %w", err)
	}
	fmt.Printf("Moved %d file(s) into %d new directory(ies).\n", len(tree.Moves), len(tree.CreateDirs))
	return nil
}

func printPreview(tree *organize.PreviewTree) {
	fmt.Printf("Plan for %s:\n", tree.Base)
	for _, d := range tree.CreateDirs {
		fmt.Printf("  mkdir  %s\n", d.RelPath)
	}
	for _, m := range tree.Moves {
		fmt.Printf("  move   %s -> %s\n", m.Source, m.Destination)
	}
}
