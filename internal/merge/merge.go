// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge concatenates ordered PDF fragments into one document per
// directory and attaches the bookmark outline.
package merge

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/pdiddy/sitebind/internal/selector"
	"github.com/pdiddy/sitebind/internal/titles"
	"github.com/pdiddy/sitebind/internal/toc"
	"github.com/pdiddy/sitebind/pkg/types"
)

// ProgressFunc receives (processed, total) after each fragment.
type ProgressFunc func(processed, total int)

// Engine merges the fragments of one directory at a time. It is not safe
// for concurrent use; the pipeline is strictly sequential.
type Engine struct {
	cfg       types.Config
	titles    *titles.Index
	structure *toc.Structure
	stats     *types.RunStats
	w         io.Writer

	conf *model.Configuration
	proc *process.Process
}

// New builds an Engine. The title index and section structure are loaded
// once by the caller and shared read-only across every merge target; stats
// accumulate across targets.
func New(cfg types.Config, ix *titles.Index, st *toc.Structure, stats *types.RunStats, w io.Writer) *Engine {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	// Memory polling is best effort; without a process handle the engine
	// simply skips the check.
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		proc = nil
	}

	return &Engine{
		cfg:       cfg,
		titles:    ix,
		structure: st,
		stats:     stats,
		w:         w,
		conf:      conf,
		proc:      proc,
	}
}

// MergeDirectory merges every eligible fragment in srcDir into outPath.
// It returns (false, nil) when the directory holds nothing mergeable and
// (true, nil) when at least one fragment made it into the output, even if
// others were skipped. Only a failure to produce the output file itself is
// an error.
func (e *Engine) MergeDirectory(srcDir, outPath string, filter selector.Variant, progress ProgressFunc) (bool, error) {
	files := selector.List(srcDir, e.cfg.Merge.EngineSuffix, filter)
	if len(files) == 0 {
		fmt.Fprintf(e.w, "no fragments in %s\n", srcDir)
		return false, nil
	}

	fmt.Fprintf(e.w, "merging %d fragments from %s\n", len(files), srcDir)

	var merged []types.MergedFragment
	var paths []string
	nextPage := 1

	for i, name := range files {
		path := filepath.Join(srcDir, name)

		count, err := api.PageCountFile(path)
		if err != nil {
			msg := fmt.Sprintf("reading %s: %v", name, err)
			fmt.Fprintf(e.w, "failed:  %s\n", msg)
			e.stats.AddError(msg)
			continue
		}
		if count == 0 {
			fmt.Fprintf(e.w, "skipped: %s (empty document)\n", name)
			continue
		}

		merged = append(merged, types.MergedFragment{
			Filename:  name,
			Key:       selector.Key(name, e.cfg.Merge.EngineSuffix),
			StartPage: nextPage,
			PageCount: count,
		})
		paths = append(paths, path)
		nextPage += count

		e.stats.FilesProcessed++
		e.stats.TotalPages += count
		e.pollMemory()

		if progress != nil {
			progress(i+1, len(files))
		}
		fmt.Fprintf(e.w, "merged:  %s (%d pages)\n", name, count)
	}

	if len(merged) == 0 {
		fmt.Fprintf(e.w, "nothing merged from %s\n", srcDir)
		return false, nil
	}

	if err := e.write(paths, merged, outPath); err != nil {
		e.stats.AddError(err.Error())
		return false, err
	}

	fmt.Fprintf(e.w, "wrote %s (%d pages from %d fragments)\n",
		outPath, nextPage-1, len(merged))
	return true, nil
}

// write concatenates the fragment files into a scratch file, attaches the
// outline, and moves the result to outPath. The final path never holds a
// partial document.
func (e *Engine) write(paths []string, merged []types.MergedFragment, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	tempDir := filepath.Join(e.cfg.PDFDir, e.cfg.Output.TempDirectory)
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return fmt.Errorf("creating temp directory: %w", err)
	}

	tmp := filepath.Join(tempDir, filepath.Base(outPath)+".merging")
	defer os.Remove(tmp)

	if err := api.MergeCreateFile(paths, tmp, false, e.conf); err != nil {
		return fmt.Errorf("merging %d fragments: %w", len(paths), err)
	}

	if !e.cfg.Merge.Bookmarks {
		if err := os.Rename(tmp, outPath); err != nil {
			return fmt.Errorf("moving merged document: %w", err)
		}
		return nil
	}

	entries, ok := toc.BuildHierarchical(e.structure, merged, e.titles)
	if !ok {
		entries = toc.BuildFlat(merged, e.titles)
	}
	if err := api.AddBookmarksFile(tmp, outPath, toc.Outline(entries), true, e.conf); err != nil {
		return fmt.Errorf("writing outline: %w", err)
	}
	return nil
}

// pollMemory samples resident memory between fragments, tracks the peak, and
// forces a collection above the configured threshold. Sampling failures are
// ignored.
func (e *Engine) pollMemory() {
	if e.proc == nil {
		return
	}
	mi, err := e.proc.MemoryInfo()
	if err != nil || mi == nil {
		return
	}
	mb := float64(mi.RSS) / (1024 * 1024)
	e.stats.RecordMemory(mb)
	if mb > float64(e.cfg.Merge.MaxMemoryMB) {
		runtime.GC()
	}
}
