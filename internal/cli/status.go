package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current index status",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cfg, err := openService(".")
		if err != nil {
			return err
		}
		if err := svc.Initialize(cfg.ToServiceConfig(), nil); err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		status := svc.Status()
		fmt.Printf("mode:          %s\n", status.Mode)
		fmt.Printf("indexing:      %v\n", status.IsIndexing)
		fmt.Printf("files:         %d/%d\n", status.IndexedFiles, status.TotalFiles)
		fmt.Printf("chunks:        %d\n", status.TotalChunks)
		if status.LastIndexedAt != nil {
			fmt.Printf("last indexed:  %s\n", status.LastIndexedAt.Format("2006-01-02 15:04:05"))
		}
		if status.Error != "" {
			fmt.Printf("error:         %s\n", status.Error)
		}
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the project summary (language histogram, top symbols)",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cfg, err := openService(".")
		if err != nil {
			return err
		}
		if err := svc.Initialize(cfg.ToServiceConfig(), nil); err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		text, err := svc.ProjectSummaryText()
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd, summaryCmd)
}
