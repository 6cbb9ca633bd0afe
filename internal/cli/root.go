// Package cli implements the terminal surface over internal/indexsvc,
// continuing the teacher's cobra/viper layout (internal/cli/root.go).
package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/adnify/retrieval/internal/indexsvc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	verbose   bool
	registry  = indexsvc.NewRegistry(log.New(os.Stderr, "", log.LstdFlags))
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "adnify",
	Short: "adnify indexes and retrieves code from a workspace",
	Long: `adnify maintains a per-workspace lexical and (optionally) semantic
index of a source tree, and serves ranked lexical, semantic, hybrid, and
symbol queries against it.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: <workspace>/.adnify/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err == nil && verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// workspaceDir returns the directory the CLI should operate on: the first
// positional arg if given, else the current working directory.
func workspaceDir(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return os.Getwd()
}
