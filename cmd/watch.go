package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cogfs/cogfs/internal/server"
	"github.com/cogfs/cogfs/internal/vectordb"
	"github.com/cogfs/cogfs/internal/watch"
)

var watchServe bool

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and keep the index continuously in sync",
	Long: `Watches directory (and its non-protected subdirectories) for file
creation, modification, and deletion events, re-running the same per-file
analysis pipeline a scan uses for each change as it happens. Runs until
interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchServe, "serve", false, "also serve the HTTP search API and broadcast each change over GET /ws")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	base := "."
	if len(args) == 1 {
		base = args[0]
	}

	a, cfg, err := loadApp()
	if err != nil {
		return err
	}

	var hub *server.Hub
	if watchServe {
		hub = server.NewHub()
		srv := server.NewWithHub(server.Config{ListenAddress: cfg.Server.ListenAddress}, a.Store, hub)
		go func() {
			if err := srv.Start(); err != nil {
				fmt.Fprintf(os.Stderr, "watch: http server: %v\n", err)
			}
		}()
		fmt.Printf("Serving search API and live events on %s\n", cfg.Server.ListenAddress)
	}

	w, err := watch.New(base, watch.Options{
		Debounce: time.Duration(cfg.Watch.DebounceMillis) * time.Millisecond,
		Index: func(ctx context.Context, path string) error {
			doc, _, err := a.AnalyzeFile(ctx, path, base)
			if err != nil {
				return err
			}
			if err := a.Store.AddDocuments(ctx, []vectordb.Document{doc}); err != nil {
				return err
			}
			if err := a.PathIndex.Upsert(path, doc.Metadata.UpdatedAt.Unix()); err != nil {
				return err
			}
			if hub != nil {
				hub.Broadcast(server.Event{Type: "indexed", Path: path})
			}
			return a.Persist(ctx)
		},
		Delete: func(ctx context.Context, path string) error {
			if err := a.Store.DeleteByPath(ctx, path); err != nil {
				return err
			}
			if err := a.PathIndex.Delete(path); err != nil {
				return err
			}
			if hub != nil {
				hub.Broadcast(server.Event{Type: "deleted", Path: path})
			}
			return a.Persist(ctx)
		},
	})
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Printf("Watching %s for changes (Ctrl-C to stop)\n", base)
	return w.Run(ctx)
}
