// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package titles resolves fragment keys to human-readable bookmark titles.
// The scraping pipeline writes an articleTitles.json mapping keys to the
// page titles it saw; when that file is absent or a key is unmapped, a title
// is derived from the filename slug instead.
package titles

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
)

// IndexFile is the title metadata filename.
const IndexFile = "articleTitles.json"

// Index is a read-only key-to-title lookup table, loaded once per run.
type Index struct {
	titles map[string]string
}

// Load reads articleTitles.json from metadataDir, falling back to rootDir.
// Absence and malformed content are non-fatal: the result is an empty index
// and every fragment gets a derived title.
func Load(metadataDir, rootDir string) *Index {
	for _, dir := range []string{metadataDir, rootDir} {
		data, err := os.ReadFile(filepath.Join(dir, IndexFile))
		if err != nil {
			continue
		}
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			continue
		}
		return &Index{titles: m}
	}
	return &Index{}
}

// Len returns the number of loaded title mappings.
func (ix *Index) Len() int {
	return len(ix.titles)
}

// Lookup returns the mapped title for key, trying the zero-pad-equivalent
// candidate forms. Keys "1", "01", and "001" all resolve against an entry
// stored under any one of those forms.
func (ix *Index) Lookup(key string) (string, bool) {
	for _, candidate := range candidates(key) {
		if title, ok := ix.titles[candidate]; ok {
			return title, true
		}
	}
	return "", false
}

// Resolve returns the best-available title for a fragment: the mapped title
// when the index has one, otherwise a title derived from the filename slug.
func (ix *Index) Resolve(key, filename string) string {
	if title, ok := ix.Lookup(key); ok {
		return title
	}
	return SlugTitle(filename)
}

// candidates builds the equivalent key forms to probe, raw key first.
func candidates(key string) []string {
	cands := []string{key}
	n, err := strconv.Atoi(key)
	if err != nil || key == "" {
		return cands
	}
	for _, form := range []string{
		strconv.Itoa(n),
		fmt.Sprintf("%02d", n),
		fmt.Sprintf("%03d", n),
	} {
		if form != key {
			cands = append(cands, form)
		}
	}
	return cands
}

// SlugTitle derives a display title from a fragment filename: the portion
// after the first "-", extension stripped, separators replaced with spaces,
// each word capitalized. "99-my-page.pdf" becomes "My Page".
func SlugTitle(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	_, slug, found := strings.Cut(stem, "-")
	if !found {
		slug = stem
	}
	slug = strings.NewReplacer("-", " ", "_", " ").Replace(slug)

	words := strings.Fields(slug)
	for i, w := range words {
		r := []rune(w)
		words[i] = string(unicode.ToUpper(r[0])) + strings.ToLower(string(r[1:]))
	}
	return strings.Join(words, " ")
}
