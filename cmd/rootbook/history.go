package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rootbook/internal/config"
	"rootbook/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent cell executions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Recent(historyN)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("no history")
			return nil
		}

		for _, e := range entries {
			fmt.Printf("#%d  %s  (%s)\n", e.ID,
				e.Started.Local().Format("2006-01-02 15:04:05"),
				e.Finished.Sub(e.Started).Round(time.Millisecond))
			fmt.Println(indent(e.Source))
			if e.Stdout != "" {
				fmt.Printf("  stdout: %s\n", strings.TrimRight(e.Stdout, "\n"))
			}
			if e.Stderr != "" {
				fmt.Printf("  stderr: %s\n", strings.TrimRight(e.Stderr, "\n"))
			}
			fmt.Println()
		}
		return nil
	},
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  | " + l
	}
	return strings.Join(lines, "\n")
}
