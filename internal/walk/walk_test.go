// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package walk

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/sitebind/internal/merge"
	"github.com/pdiddy/sitebind/internal/selector"
	"github.com/pdiddy/sitebind/internal/titles"
	"github.com/pdiddy/sitebind/internal/toc"
	"github.com/pdiddy/sitebind/pkg/types"
)

// writePDF writes a minimal valid single-object-per-page PDF.
func writePDF(t *testing.T, path string, pages int) {
	t.Helper()

	var buf bytes.Buffer
	var offsets []int
	obj := func(s string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(s)
	}

	buf.WriteString("%PDF-1.4\n")
	kids := make([]string, pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", 3+i)
	}
	obj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	obj(fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n",
		strings.Join(kids, " "), pages))
	for i := 0; i < pages; i++ {
		obj(fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>\nendobj\n", 3+i))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xref)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func setupTree(t *testing.T) types.Config {
	t.Helper()
	pdfDir := t.TempDir()
	cfg := types.Config{
		RootURL: "https://docs.example.com/start",
		PDFDir:  pdfDir,
		Merge:   types.MergeConfig{Bookmarks: true},
	}
	cfg.ApplyDefaults()

	writePDF(t, filepath.Join(pdfDir, "1-intro.pdf"), 1)
	writePDF(t, filepath.Join(pdfDir, "2-basics.pdf"), 2)

	sub := filepath.Join(pdfDir, "advanced")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writePDF(t, filepath.Join(sub, "1-deep-dive.pdf"), 1)

	// Reserved directories hold PDFs that must never be re-merged.
	for _, reserved := range []string{
		cfg.Output.FinalPDFDirectory,
		cfg.Metadata.Directory,
		cfg.Output.TempDirectory,
	} {
		dir := filepath.Join(pdfDir, reserved)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		writePDF(t, filepath.Join(dir, "1-stale.pdf"), 1)
	}

	return cfg
}

func newWalker(t *testing.T, cfg types.Config) *Walker {
	t.Helper()
	metaDir := filepath.Join(cfg.PDFDir, cfg.Metadata.Directory)
	stats := &types.RunStats{StartTime: time.Now()}
	ix := titles.Load(metaDir, cfg.PDFDir)
	st := toc.LoadStructure(metaDir, cfg.PDFDir)
	engine := merge.New(cfg, ix, st, stats, &bytes.Buffer{})
	wk := New(cfg, engine, &bytes.Buffer{})
	wk.now = func() time.Time {
		return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	}
	return wk
}

func TestRun(t *testing.T) {
	cfg := setupTree(t)
	wk := newWalker(t, cfg)

	produced, err := wk.Run(selector.VariantNone)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(produced) != 2 {
		t.Fatalf("produced = %v, want root + advanced", produced)
	}

	finalDir := filepath.Join(cfg.PDFDir, cfg.Output.FinalPDFDirectory)
	wantRoot := filepath.Join(finalDir, "docs_example_com_20260314_092653.pdf")
	wantSub := filepath.Join(finalDir, "advanced_20260314_092653.pdf")
	if produced[0] != wantRoot {
		t.Errorf("root output = %s, want %s", produced[0], wantRoot)
	}
	if produced[1] != wantSub {
		t.Errorf("subdirectory output = %s, want %s", produced[1], wantSub)
	}
	for _, p := range produced {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing output %s: %v", p, err)
		}
	}
}

func TestRunMissingPDFDir(t *testing.T) {
	cfg := types.Config{
		RootURL: "https://docs.example.com",
		PDFDir:  filepath.Join(t.TempDir(), "nope"),
	}
	cfg.ApplyDefaults()
	wk := newWalker(t, cfg)

	if _, err := wk.Run(selector.VariantNone); err == nil {
		t.Error("Run on missing pdf directory should error")
	}
}

func TestRunOne(t *testing.T) {
	cfg := setupTree(t)
	wk := newWalker(t, cfg)

	produced, err := wk.RunOne("advanced", selector.VariantNone)
	if err != nil {
		t.Fatalf("RunOne: %v", err)
	}
	if len(produced) != 1 || !strings.Contains(produced[0], "advanced_") {
		t.Errorf("produced = %v, want one advanced output", produced)
	}
}

func TestRunOneMissing(t *testing.T) {
	cfg := setupTree(t)
	wk := newWalker(t, cfg)

	produced, err := wk.RunOne("nonexistent", selector.VariantNone)
	if err != nil {
		t.Fatalf("RunOne: %v", err)
	}
	if len(produced) != 0 {
		t.Errorf("produced = %v, want none", produced)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://docs.example.com/start", "docs_example_com"},
		{"http://localhost:8080", "localhost"},
		{"not a url", "unknown"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		if got := Label(tt.url); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
