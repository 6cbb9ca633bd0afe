package cli

import (
	"context"
	"fmt"

	"github.com/adnify/retrieval/internal/indexsvc"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop all in-memory and persisted index state for the workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cfg, err := openService(".")
		if err != nil {
			return err
		}
		if err := svc.Initialize(cfg.ToServiceConfig(), nil); err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		if err := svc.ClearIndex(); err != nil {
			return err
		}
		fmt.Println("index cleared")
		return nil
	},
}

var setModeCmd = &cobra.Command{
	Use:   "set-mode <structural|semantic>",
	Short: "Switch the workspace's mode, lazily initializing semantic components",
	Args:  cobra.ExactValidArgs(1),
	ValidArgs: []string{string(indexsvc.ModeStructural), string(indexsvc.ModeSemantic)},
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cfg, err := openService(".")
		if err != nil {
			return err
		}
		if err := svc.Initialize(cfg.ToServiceConfig(), nil); err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		if err := svc.SetMode(indexsvc.Mode(args[0])); err != nil {
			return err
		}
		fmt.Printf("mode set to %s\n", args[0])
		return nil
	},
}

var testEmbeddingCmd = &cobra.Command{
	Use:   "test-embedding",
	Short: "Probe the configured embedding provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cfg, err := openService(".")
		if err != nil {
			return err
		}
		if err := svc.Initialize(cfg.ToServiceConfig(), nil); err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		if err := svc.SetMode(indexsvc.ModeSemantic); err != nil {
			return err
		}
		result, err := svc.TestEmbeddingConnection(context.Background())
		if err != nil {
			return err
		}
		if result.Success {
			fmt.Printf("ok (%dms)\n", result.LatencyMS)
		} else {
			fmt.Printf("failed: %s\n", result.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd, setModeCmd, testEmbeddingCmd)
}
