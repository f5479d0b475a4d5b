// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package walk drives the merge engine across a PDF directory tree: the
// root directory first, then each eligible subdirectory, one merged
// document per target.
package walk

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/sitebind/internal/merge"
	"github.com/pdiddy/sitebind/internal/selector"
	"github.com/pdiddy/sitebind/pkg/types"
)

// timestampLayout embeds date and time in output names so repeated runs on
// the same day cannot collide.
const timestampLayout = "20060102_150405"

// Walker iterates merge targets under the configured PDF directory.
type Walker struct {
	cfg    types.Config
	engine *merge.Engine
	w      io.Writer

	// Progress, when set, is forwarded to the engine for each target.
	Progress merge.ProgressFunc

	// now is swappable for tests.
	now func() time.Time
}

// New builds a Walker around an engine.
func New(cfg types.Config, engine *merge.Engine, w io.Writer) *Walker {
	return &Walker{cfg: cfg, engine: engine, w: w, now: time.Now}
}

// Run merges the root PDF directory under the site's domain label, then
// every immediate subdirectory under its own name, skipping the reserved
// output, metadata, and temp directories. It returns the output paths
// actually produced; a failed target is reported and does not abort its
// siblings.
func (wk *Walker) Run(filter selector.Variant) ([]string, error) {
	if _, err := os.Stat(wk.cfg.PDFDir); err != nil {
		return nil, fmt.Errorf("pdf directory %s: %w", wk.cfg.PDFDir, err)
	}

	ts := wk.now().Format(timestampLayout)
	var produced []string

	produced = wk.mergeTarget(wk.cfg.PDFDir, Label(wk.cfg.RootURL), ts, filter, produced)

	entries, err := os.ReadDir(wk.cfg.PDFDir)
	if err != nil {
		return produced, fmt.Errorf("reading pdf directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || wk.reserved(entry.Name()) {
			continue
		}
		dir := filepath.Join(wk.cfg.PDFDir, entry.Name())
		produced = wk.mergeTarget(dir, entry.Name(), ts, filter, produced)
	}

	return produced, nil
}

// RunOne merges a single named subdirectory. A missing directory is a
// normal empty outcome, reported but not an error.
func (wk *Walker) RunOne(name string, filter selector.Variant) ([]string, error) {
	dir := filepath.Join(wk.cfg.PDFDir, name)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		fmt.Fprintf(wk.w, "directory not found: %s\n", dir)
		return nil, nil
	}
	ts := wk.now().Format(timestampLayout)
	return wk.mergeTarget(dir, name, ts, filter, nil), nil
}

func (wk *Walker) mergeTarget(dir, label, ts string, filter selector.Variant, produced []string) []string {
	out := filepath.Join(wk.cfg.PDFDir, wk.cfg.Output.FinalPDFDirectory,
		fmt.Sprintf("%s_%s%s", label, ts, selector.Ext))

	ok, err := wk.engine.MergeDirectory(dir, out, filter, wk.Progress)
	if err != nil {
		fmt.Fprintf(wk.w, "merge failed for %s: %v\n", dir, err)
		return produced
	}
	if ok {
		produced = append(produced, out)
	}
	return produced
}

// reserved reports whether a subdirectory name belongs to the pipeline
// itself and must not be merged.
func (wk *Walker) reserved(name string) bool {
	switch name {
	case wk.cfg.Output.FinalPDFDirectory, wk.cfg.Metadata.Directory, wk.cfg.Output.TempDirectory:
		return true
	}
	return false
}

// Label derives the root-target output label from the configured site URL:
// the hostname with dots replaced by underscores, or "unknown" when the URL
// has no usable hostname.
func Label(rootURL string) string {
	u, err := url.Parse(rootURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ReplaceAll(u.Hostname(), ".", "_")
}
