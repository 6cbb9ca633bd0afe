package cli

import (
	"context"
	"fmt"

	"github.com/adnify/retrieval/internal/config"
	"github.com/adnify/retrieval/internal/indexsvc"
	"github.com/spf13/cobra"
)

var topKFlag int

func init() {
	for _, cmd := range []*cobra.Command{searchCmd, hybridSearchCmd, symbolsCmd} {
		cmd.Flags().IntVarP(&topKFlag, "top", "k", 10, "number of results to return")
	}
	rootCmd.AddCommand(searchCmd, hybridSearchCmd, symbolsCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Lexical search in structural mode, dense ANN search in semantic mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cfg, err := openService(".")
		if err != nil {
			return err
		}
		if err := svc.Initialize(cfg.ToServiceConfig(), nil); err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		hits, err := svc.Search(context.Background(), args[0], topKFlag)
		if err != nil {
			return err
		}
		printHits(hits)
		return nil
	},
}

var hybridSearchCmd = &cobra.Command{
	Use:   "hybrid-search <query>",
	Short: "Fused lexical+symbol (structural) or dense+keyword (semantic) search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cfg, err := openService(".")
		if err != nil {
			return err
		}
		if err := svc.Initialize(cfg.ToServiceConfig(), nil); err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		hits, err := svc.HybridSearch(context.Background(), args[0], topKFlag)
		if err != nil {
			return err
		}
		printHits(hits)
		return nil
	},
}

var symbolsCmd = &cobra.Command{
	Use:   "symbols <query>",
	Short: "Ranked symbol-name search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cfg, err := openService(".")
		if err != nil {
			return err
		}
		if err := svc.Initialize(cfg.ToServiceConfig(), nil); err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		results, err := svc.SearchSymbols(args[0], topKFlag)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Printf("%-6.1f %-8s %s  %s:%d-%d\n", r.Score, r.Record.Kind, r.Record.Name, r.Record.RelativePath, r.Record.StartLine, r.Record.EndLine)
		}
		return nil
	},
}

func openService(workspace string) (*indexsvc.Service, *config.Config, error) {
	cfg, err := config.Load(workspace)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	svc, err := registry.Get(workspace)
	if err != nil {
		return nil, nil, fmt.Errorf("get service: %w", err)
	}
	return svc, cfg, nil
}

func printHits(hits []indexsvc.SearchHit) {
	for _, h := range hits {
		fmt.Printf("%-6.3f %-6s %s:%d-%d\n", h.Score, h.Kind, h.FilePath, h.StartLine, h.EndLine)
	}
}
