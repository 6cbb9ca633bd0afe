package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/adnify/retrieval/internal/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	quietFlag bool
	watchFlag bool
)

var indexCmd = &cobra.Command{
	Use:   "index [workspace]",
	Short: "Build or refresh the lexical/semantic index for a workspace",
	Long: `index walks the workspace, chunks every included file, and builds
the lexical and symbol indices (and, in semantic mode, the vector store),
per spec.md §4.9's full-index path.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "disable progress output")
	indexCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "keep running and incrementally reindex on file changes")
}

func runIndex(cmd *cobra.Command, args []string) error {
	workspace, err := workspaceDir(args)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	cfg, err := config.Load(workspace)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	svc, err := registry.Get(workspace)
	if err != nil {
		return fmt.Errorf("get service: %w", err)
	}

	reporter := newProgressReporter(quietFlag)
	if err := svc.Initialize(cfg.ToServiceConfig(), reporter.observe); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		fmt.Println("\ninterrupted, cancelling...")
		cancel()
	}()

	if !quietFlag {
		fmt.Printf("[run %s] indexing %s in %s mode\n", runID[:8], workspace, cfg.Mode)
	}
	if err := svc.IndexWorkspace(ctx); err != nil {
		return fmt.Errorf("index workspace: %w", err)
	}

	if watchFlag {
		if !quietFlag {
			fmt.Println("watching for changes (ctrl-c to stop)...")
		}
		if err := svc.StartWatching(ctx, nil); err != nil {
			return fmt.Errorf("start watching: %w", err)
		}
		<-ctx.Done()
	}
	return nil
}
