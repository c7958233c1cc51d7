package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "0.1.0"

var (
	// Global flags
	verbose    bool
	configPath string

	// run flags
	outDir    string
	watchMode bool
	debugVis  bool
	noVis     bool

	// history flags
	historyN int

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rootbook",
	Short: "rootbook - notebook bridge for the analysis framework canvas",
	Long: `rootbook captures canvases drawn by interpreted code cells and renders
them as interactive browser-side plots or static PNG fallbacks, while
capturing the stdout/stderr the cells produce.

Without a native framework process attached it runs cells through an
embedded Go interpreter against an in-memory framework.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the rootbook version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rootbook %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".rootbook/config.yaml", "config file path")

	runCmd.Flags().StringVar(&outDir, "out", "plots", "directory for rendered artifacts")
	runCmd.Flags().BoolVar(&watchMode, "watch", false, "re-execute when the script changes")
	runCmd.Flags().BoolVar(&debugVis, "debug-vis", false, "emit both static and interactive artifacts")
	runCmd.Flags().BoolVar(&noVis, "no-vis", false, "disable interactive rendering")

	historyCmd.Flags().IntVarP(&historyN, "count", "n", 10, "number of entries to show")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
