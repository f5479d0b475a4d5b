// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pdiddy/sitebind/pkg/types"
)

func TestBuild(t *testing.T) {
	stats := types.RunStats{
		FilesProcessed: 7,
		TotalPages:     31,
		PeakMemoryMB:   200.5,
		Errors:         []string{"reading 9-bad.pdf: unexpected EOF"},
		StartTime:      time.Now().Add(-2 * time.Second),
	}
	outputs := []string{"/pdfs/finalPdf/docs_example_com_20260314_092653.pdf"}

	r := Build("docs_example_com", "/pdfs", "none", outputs, stats)

	if r.Run.Label != "docs_example_com" || r.Run.Variant != "none" {
		t.Errorf("run info = %+v", r.Run)
	}
	if r.Summary.FilesProcessed != 7 || r.Summary.TotalPages != 31 {
		t.Errorf("summary = %+v", r.Summary)
	}
	if r.Summary.ErrorCount != 1 || len(r.Errors) != 1 {
		t.Errorf("errors = %+v, count %d", r.Errors, r.Summary.ErrorCount)
	}
	if r.Summary.ElapsedSeconds <= 0 {
		t.Errorf("elapsed = %f, want > 0", r.Summary.ElapsedSeconds)
	}
	if r.Summary.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report_20260314_092653.yaml")
	r := Build("advanced", "/pdfs", "single",
		[]string{"/pdfs/finalPdf/advanced_20260314_092653.pdf"},
		types.RunStats{FilesProcessed: 2, TotalPages: 5, StartTime: time.Now()})

	if err := Write(path, r); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Run.Label != "advanced" || got.Summary.TotalPages != 5 {
		t.Errorf("Read() = %+v", got)
	}
	if len(got.Outputs) != 1 {
		t.Errorf("outputs = %v", got.Outputs)
	}
}

func TestWriteAllFailedRun(t *testing.T) {
	// A run that merged nothing still records its report, creating the
	// output directory if the merge never did.
	path := filepath.Join(t.TempDir(), "finalPdf", "report_20260314_092653.yaml")
	stats := types.RunStats{
		Errors: []string{
			"reading 1-bad.pdf: unexpected EOF",
			"reading 2-bad.pdf: unexpected EOF",
		},
		StartTime: time.Now(),
	}
	r := Build("docs_example_com", "/pdfs", "none", nil, stats)

	if err := Write(path, r); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got.Outputs) != 0 {
		t.Errorf("outputs = %v, want none", got.Outputs)
	}
	if got.Summary.ErrorCount != 2 || len(got.Errors) != 2 {
		t.Errorf("errors = %+v, count %d; want both failures recorded", got.Errors, got.Summary.ErrorCount)
	}
}

func TestReadMissing(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Read on missing file should error")
	}
}
