// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes the per-run YAML summary placed beside the merged
// documents, so a run's outcome can be inspected without rereading logs.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sitebind/pkg/types"
)

// Report is the on-disk record of one merge run.
type Report struct {
	Run     RunInfo    `yaml:"run"`
	Outputs []string   `yaml:"outputs,omitempty"`
	Summary RunSummary `yaml:"summary"`
	Errors  []string   `yaml:"errors,omitempty"`
}

// RunInfo echoes the inputs that shaped the run.
type RunInfo struct {
	Label     string `yaml:"label"`
	SourceDir string `yaml:"source_dir"`
	Variant   string `yaml:"variant"`
}

// RunSummary stores the aggregate statistics and a timestamp.
type RunSummary struct {
	FilesProcessed int       `yaml:"files_processed"`
	TotalPages     int       `yaml:"total_pages"`
	ElapsedSeconds float64   `yaml:"elapsed_seconds"`
	PeakMemoryMB   float64   `yaml:"peak_memory_mb"`
	ErrorCount     int       `yaml:"error_count"`
	Timestamp      time.Time `yaml:"timestamp"`
}

// Build assembles a Report from run inputs and accumulated stats.
func Build(label, sourceDir, variant string, outputs []string, stats types.RunStats) Report {
	return Report{
		Run: RunInfo{
			Label:     label,
			SourceDir: sourceDir,
			Variant:   variant,
		},
		Outputs: outputs,
		Summary: RunSummary{
			FilesProcessed: stats.FilesProcessed,
			TotalPages:     stats.TotalPages,
			ElapsedSeconds: stats.Elapsed().Seconds(),
			PeakMemoryMB:   stats.PeakMemoryMB,
			ErrorCount:     stats.ErrorCount(),
			Timestamp:      time.Now(),
		},
		Errors: stats.Errors,
	}
}

// Write saves a report to path, creating parent directories as needed. An
// all-failed run produces no merged documents, so the report may be the
// first file under the output directory.
func Write(path string, r Report) error {
	data, err := yaml.Marshal(&r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Read loads a previously written report from disk.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	return &r, nil
}
