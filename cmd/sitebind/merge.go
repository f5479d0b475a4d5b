// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sitebind/internal/history"
	"github.com/pdiddy/sitebind/internal/merge"
	"github.com/pdiddy/sitebind/internal/report"
	"github.com/pdiddy/sitebind/internal/selector"
	"github.com/pdiddy/sitebind/internal/titles"
	"github.com/pdiddy/sitebind/internal/toc"
	"github.com/pdiddy/sitebind/internal/walk"
	"github.com/pdiddy/sitebind/pkg/types"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge PDF fragments into one document per directory",
	Long: `Merge walks the configured PDF directory, concatenating the fragments of
the root directory and of every subdirectory into timestamped output
documents under the final-output directory. The root directory's output is
labeled with the site's domain.

Individual unreadable or empty fragments are skipped and reported; a run
succeeds as long as something was merged.`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().String("directory", "", "merge only this subdirectory of the PDF directory")
	mergeCmd.Flags().String("variant", "none", "fragment variant filter: none, engine, or single")
	mergeCmd.Flags().Bool("no-history", false, "skip recording the run in the history ledger")

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	variantFlag, _ := cmd.Flags().GetString("variant")
	variant, ok := selector.ParseVariant(variantFlag)
	if !ok {
		return fmt.Errorf("unknown variant %q (expected none, engine, or single)", variantFlag)
	}
	directory, _ := cmd.Flags().GetString("directory")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	metadataDir := filepath.Join(cfg.PDFDir, cfg.Metadata.Directory)
	ix := titles.Load(metadataDir, cfg.PDFDir)
	structure := toc.LoadStructure(metadataDir, cfg.PDFDir)
	if ix.Len() > 0 {
		fmt.Fprintf(os.Stderr, "Loaded %d article titles\n", ix.Len())
	}

	stats := types.RunStats{StartTime: time.Now()}
	engine := merge.New(cfg, ix, structure, &stats, os.Stdout)
	walker := walk.New(cfg, engine, os.Stdout)

	var produced []string
	if directory != "" {
		produced, err = walker.RunOne(directory, variant)
	} else {
		produced, err = walker.Run(variant)
	}
	if err != nil {
		return err
	}

	printSummary(produced, stats)

	// The report is written even when nothing merged; an all-failed run is
	// exactly when the recorded error list matters.
	writeReport(cfg, variant, produced, stats)
	if !noHistory {
		recordHistory(metadataDir, stats, produced)
	}
	return nil
}

func printSummary(produced []string, stats types.RunStats) {
	fmt.Printf("\nProduced %d merged document(s):\n", len(produced))
	for _, p := range produced {
		fmt.Printf("  %s\n", p)
	}
	fmt.Printf("\nFragments processed: %d\n", stats.FilesProcessed)
	fmt.Printf("Total pages:         %d\n", stats.TotalPages)
	fmt.Printf("Elapsed:             %.1fs\n", stats.Elapsed().Seconds())
	fmt.Printf("Peak memory:         %.1f MB\n", stats.PeakMemoryMB)
	if stats.ErrorCount() > 0 {
		fmt.Printf("Errors:              %d\n", stats.ErrorCount())
	}
}

// writeReport drops the YAML run summary beside the merged documents.
// Failure to write it is a warning, never a run failure.
func writeReport(cfg types.Config, variant selector.Variant, produced []string, stats types.RunStats) {
	rep := report.Build(walk.Label(cfg.RootURL), cfg.PDFDir, string(variant), produced, stats)
	path := filepath.Join(cfg.PDFDir, cfg.Output.FinalPDFDirectory,
		fmt.Sprintf("report_%s.yaml", time.Now().Format("20060102_150405")))
	if err := report.Write(path, rep); err != nil {
		fmt.Fprintf(os.Stderr, "warning: report write failed: %v\n", err)
	}
}

// recordHistory appends the run to the sqlite ledger. Ledger problems are
// warnings, never run failures.
func recordHistory(metadataDir string, stats types.RunStats, produced []string) {
	store, err := history.Open(metadataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history unavailable: %v\n", err)
		return
	}
	defer store.Close()

	if err := store.Record(context.Background(), stats, produced); err != nil {
		fmt.Fprintf(os.Stderr, "warning: history record failed: %v\n", err)
	}
}
