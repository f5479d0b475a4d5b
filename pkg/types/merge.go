// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// MergedFragment records one source document that made it into a merged
// output, with its position in the final page sequence.
type MergedFragment struct {
	// Filename is the fragment's base name as it appeared on disk,
	// including any engine-variant suffix.
	Filename string `json:"filename" yaml:"filename"`

	// Key is the fragment's lookup key: the numeric filename prefix with
	// leading zeros stripped, or the raw prefix for non-numeric names.
	Key string `json:"key" yaml:"key"`

	// StartPage is the 1-based page in the merged document where this
	// fragment begins.
	StartPage int `json:"start_page" yaml:"start_page"`

	// PageCount is the number of pages the fragment contributed.
	PageCount int `json:"page_count" yaml:"page_count"`
}

// RunStats accumulates counters across every merge target in one run.
// Per-fragment failures land in Errors and never abort the run.
type RunStats struct {
	FilesProcessed int       `json:"files_processed" yaml:"files_processed"`
	TotalPages     int       `json:"total_pages" yaml:"total_pages"`
	PeakMemoryMB   float64   `json:"peak_memory_mb" yaml:"peak_memory_mb"`
	Errors         []string  `json:"errors,omitempty" yaml:"errors,omitempty"`
	StartTime      time.Time `json:"start_time" yaml:"start_time"`
}

// AddError appends a non-fatal error message to the run's error list.
func (s *RunStats) AddError(msg string) {
	s.Errors = append(s.Errors, msg)
}

// ErrorCount returns the number of recorded non-fatal errors.
func (s RunStats) ErrorCount() int {
	return len(s.Errors)
}

// RecordMemory updates the peak resident-set figure if mb exceeds it.
func (s *RunStats) RecordMemory(mb float64) {
	if mb > s.PeakMemoryMB {
		s.PeakMemoryMB = mb
	}
}

// Elapsed returns the wall time since the run started, or zero when the
// start time was never set.
func (s RunStats) Elapsed() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	return time.Since(s.StartTime)
}

// AvgPagesPerFile returns the mean page count per processed fragment.
func (s RunStats) AvgPagesPerFile() float64 {
	if s.FilesProcessed == 0 {
		return 0
	}
	return float64(s.TotalPages) / float64(s.FilesProcessed)
}
