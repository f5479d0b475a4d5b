// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selector lists and orders the PDF fragments eligible for a merge.
// Fragments follow the scraper's naming convention
// "<key>-<slug>[<engineSuffix>].pdf", where <key> is a decimal index or an
// 8-hex-digit content hash.
package selector

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Ext is the fragment file extension.
const Ext = ".pdf"

// Variant selects which rendering-pipeline variant of the fragments to
// merge. The scraper may emit the same page twice, once per engine; the
// default merges everything.
type Variant string

const (
	// VariantNone applies no filter.
	VariantNone Variant = "none"
	// VariantEngine keeps only fragments carrying the engine suffix.
	VariantEngine Variant = "engine"
	// VariantSingle keeps only fragments without the engine suffix.
	VariantSingle Variant = "single"
)

// ParseVariant converts a flag value to a Variant. An empty string means no
// filter.
func ParseVariant(s string) (Variant, bool) {
	switch s {
	case "", "none":
		return VariantNone, true
	case "engine":
		return VariantEngine, true
	case "single":
		return VariantSingle, true
	}
	return VariantNone, false
}

// Fragment ordering is three-tiered: decimal-indexed names first in numeric
// order, hash-named files next in modification-time order, anything else
// last in name order. Ties always break on the full filename.
const (
	bucketNumeric = iota
	bucketHash
	bucketOther
)

type sortKey struct {
	bucket    int
	secondary int64
	name      string
}

// List returns the eligible fragment filenames in dir, ordered by the
// composite sort key. A missing or unreadable directory yields an empty
// list; downstream that means "nothing to merge here".
func List(dir, engineSuffix string, filter Variant) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	keys := make([]sortKey, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, Ext) {
			continue
		}
		tagged := hasEngineSuffix(name, engineSuffix)
		if filter == VariantEngine && !tagged {
			continue
		}
		if filter == VariantSingle && tagged {
			continue
		}
		keys = append(keys, makeSortKey(dir, name, engineSuffix))
	}

	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.bucket != b.bucket {
			return a.bucket < b.bucket
		}
		if a.secondary != b.secondary {
			return a.secondary < b.secondary
		}
		return a.name < b.name
	})

	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.name
	}
	return names
}

func hasEngineSuffix(name, suffix string) bool {
	if suffix == "" {
		return false
	}
	return strings.HasSuffix(strings.TrimSuffix(name, Ext), suffix)
}

// makeSortKey derives the ordering key for one filename. The engine suffix
// is stripped for key purposes only; the stored name is the original so the
// file can still be opened.
func makeSortKey(dir, name, engineSuffix string) sortKey {
	prefix := Prefix(name, engineSuffix)

	// The all-digits check runs before the hash check so that zero-padded
	// numeric keys of hash length ("00012345") stay numeric.
	if n, ok := numericValue(prefix); ok {
		return sortKey{bucket: bucketNumeric, secondary: n, name: name}
	}
	if len(prefix) == 8 && isHex(prefix) {
		var mtime int64
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil {
			mtime = info.ModTime().Unix()
		}
		return sortKey{bucket: bucketHash, secondary: mtime, name: name}
	}
	return sortKey{bucket: bucketOther, name: name}
}

// Prefix extracts the raw key portion of a fragment filename: everything
// before the first "-", with the extension and any engine suffix removed.
func Prefix(name, engineSuffix string) string {
	stem := strings.TrimSuffix(name, Ext)
	if engineSuffix != "" {
		stem = strings.TrimSuffix(stem, engineSuffix)
	}
	prefix, _, _ := strings.Cut(stem, "-")
	return prefix
}

// Key returns the fragment's lookup key: the numeric prefix with leading
// zeros stripped, or the raw prefix unchanged for non-numeric names. This is
// the form the title and section metadata are keyed under.
func Key(name, engineSuffix string) string {
	prefix := Prefix(name, engineSuffix)
	if _, ok := numericValue(prefix); !ok {
		return prefix
	}
	trimmed := strings.TrimLeft(prefix, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

func numericValue(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
