// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toc builds the bookmark tree for a merged document. With section
// metadata from the scraper it produces a two-level section/page outline;
// without it, a flat one-entry-per-fragment outline.
package toc

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"

	"github.com/pdiddy/sitebind/internal/titles"
	"github.com/pdiddy/sitebind/pkg/types"
)

// StructureFile is the section metadata filename.
const StructureFile = "sectionStructure.json"

// Entry is one bookmark: a titled jump target at a 1-based page of the
// merged document. Level 1 is a section or a flat entry; level 2 is a page
// within a section.
type Entry struct {
	Level int
	Title string
	Page  int
}

// PageRef points a section at one fragment by its lookup key.
type PageRef struct {
	Index string `json:"index"`
}

// Section is one titled group of page references, in reading order.
type Section struct {
	Title string    `json:"title"`
	Pages []PageRef `json:"pages"`
}

// Structure is the scraper's section layout for a site.
type Structure struct {
	Sections []Section `json:"sections"`
}

// LoadStructure reads sectionStructure.json from metadataDir, falling back
// to rootDir. Absence and malformed content are non-fatal; the nil result
// selects the flat outline downstream.
func LoadStructure(metadataDir, rootDir string) *Structure {
	for _, dir := range []string{metadataDir, rootDir} {
		data, err := os.ReadFile(filepath.Join(dir, StructureFile))
		if err != nil {
			continue
		}
		var st Structure
		if err := json.Unmarshal(data, &st); err != nil {
			continue
		}
		if len(st.Sections) == 0 {
			continue
		}
		return &st
	}
	return nil
}

// BuildHierarchical produces the two-level outline for the merged fragments,
// or ok=false when the structure is absent or resolves to zero non-empty
// sections. Sections and their pages are emitted in metadata order; because
// fragments were merged in sort order and sections list them in that same
// reading order, target pages come out non-decreasing.
func BuildHierarchical(st *Structure, merged []types.MergedFragment, ix *titles.Index) (entries []Entry, ok bool) {
	if st == nil || len(st.Sections) == 0 {
		return nil, false
	}

	// Single index pass; section resolution must not rescan the fragment
	// list per page reference.
	byKey := make(map[string]types.MergedFragment, len(merged))
	for _, frag := range merged {
		byKey[frag.Key] = frag
	}

	for _, sec := range st.Sections {
		var resolved []types.MergedFragment
		for _, ref := range sec.Pages {
			if frag, found := byKey[normalizeKey(ref.Index)]; found {
				resolved = append(resolved, frag)
			}
		}
		if len(resolved) == 0 {
			continue
		}
		entries = append(entries, Entry{Level: 1, Title: sec.Title, Page: resolved[0].StartPage})
		for _, frag := range resolved {
			title, found := ix.Lookup(frag.Key)
			if !found {
				title = fmt.Sprintf("Page %s", frag.Key)
			}
			entries = append(entries, Entry{Level: 2, Title: title, Page: frag.StartPage})
		}
	}

	if len(entries) == 0 {
		return nil, false
	}
	return entries, true
}

// BuildFlat produces one level-1 entry per merged fragment, in merge order.
func BuildFlat(merged []types.MergedFragment, ix *titles.Index) []Entry {
	entries := make([]Entry, len(merged))
	for i, frag := range merged {
		entries[i] = Entry{
			Level: 1,
			Title: ix.Resolve(frag.Key, frag.Filename),
			Page:  frag.StartPage,
		}
	}
	return entries
}

// Outline converts an entry sequence into the nested bookmark form the PDF
// writer expects. A level-2 entry attaches to the most recent level-1
// entry; a stray leading level-2 is promoted to the top level.
func Outline(entries []Entry) []pdfcpu.Bookmark {
	var bms []pdfcpu.Bookmark
	for _, e := range entries {
		bm := pdfcpu.Bookmark{Title: e.Title, PageFrom: e.Page}
		if e.Level >= 2 && len(bms) > 0 {
			parent := &bms[len(bms)-1]
			parent.Kids = append(parent.Kids, bm)
			continue
		}
		bms = append(bms, bm)
	}
	return bms
}

// normalizeKey strips leading zeros from numeric keys so metadata references
// match fragment keys regardless of padding.
func normalizeKey(key string) string {
	for _, r := range key {
		if r < '0' || r > '9' {
			return key
		}
	}
	trimmed := strings.TrimLeft(key, "0")
	if trimmed == "" && key != "" {
		return "0"
	}
	if trimmed == "" {
		return key
	}
	return trimmed
}
