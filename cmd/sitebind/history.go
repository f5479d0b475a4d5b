// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sitebind/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent merge runs from the ledger",
	Long: `History reads the run ledger kept in the metadata directory and prints
recent merge runs with their statistics and produced documents.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := history.Open(filepath.Join(cfg.PDFDir, cfg.Metadata.Directory))
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	for _, r := range runs {
		fmt.Printf("run %d  %s  %d file(s), %d page(s), %d error(s), %.1fs\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime),
			r.FilesProcessed, r.TotalPages, r.ErrorCount, r.ElapsedSeconds)
		for _, out := range r.Outputs {
			fmt.Printf("  %s\n", out)
		}
	}
	return nil
}
