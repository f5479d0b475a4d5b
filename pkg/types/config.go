// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds configuration and record types shared across the
// sitebind pipeline stages.
package types

import "fmt"

// MetadataConfig holds settings for the metadata subdirectory, which carries
// the articleTitles.json and sectionStructure.json files produced by the
// scraping pipeline.
type MetadataConfig struct {
	// Directory is the metadata subdirectory name under the PDF directory
	// (default "metadata").
	Directory string `json:"directory" yaml:"directory"`
}

// OutputConfig holds settings for merged-document output.
type OutputConfig struct {
	// FinalPDFDirectory is the subdirectory under the PDF directory that
	// receives merged documents (default "finalPdf").
	FinalPDFDirectory string `json:"finalPdfDirectory" yaml:"finalPdfDirectory"`

	// TempDirectory is the scratch subdirectory used while a merge is in
	// flight (default ".temp"). No partial output is ever visible under
	// FinalPDFDirectory.
	TempDirectory string `json:"tempDirectory" yaml:"tempDirectory"`
}

// MergeConfig holds settings for the merge engine itself.
type MergeConfig struct {
	// Bookmarks controls whether an outline is attached to merged
	// documents (default true).
	Bookmarks bool `json:"bookmarks" yaml:"bookmarks"`

	// MaxMemoryMB is the resident-set threshold above which the engine
	// forces a garbage collection between fragments (default 500). This is
	// soft backpressure, not a hard limit.
	MaxMemoryMB int `json:"maxMemoryMB" yaml:"maxMemoryMB"`

	// EngineSuffix is the filename suffix marking fragments rendered by
	// the primary browser engine, e.g. "_browser" in
	// "12-intro_browser.pdf". Only consulted when a variant filter is
	// active; the default filter merges everything.
	EngineSuffix string `json:"engineSuffix" yaml:"engineSuffix"`
}

// Config is the full sitebind configuration. It is constructed once at
// process start and passed by value into each component; there is no
// package-level configuration state.
type Config struct {
	// RootURL is the site root the fragments were scraped from. Only its
	// hostname is used, as the output label for the root directory merge.
	RootURL string `json:"rootURL" yaml:"rootURL"`

	// PDFDir is the directory tree holding per-page PDF fragments.
	PDFDir string `json:"pdfDir" yaml:"pdfDir"`

	Metadata MetadataConfig `json:"metadata" yaml:"metadata"`
	Output   OutputConfig   `json:"output" yaml:"output"`
	Merge    MergeConfig    `json:"merge" yaml:"merge"`
}

// Default values for optional configuration fields.
const (
	DefaultMetadataDirectory = "metadata"
	DefaultFinalPDFDirectory = "finalPdf"
	DefaultTempDirectory     = ".temp"
	DefaultMaxMemoryMB       = 500
	DefaultEngineSuffix      = "_browser"
)

// ApplyDefaults fills zero-valued optional fields. Required fields are left
// alone; Validate reports them.
func (c *Config) ApplyDefaults() {
	if c.Metadata.Directory == "" {
		c.Metadata.Directory = DefaultMetadataDirectory
	}
	if c.Output.FinalPDFDirectory == "" {
		c.Output.FinalPDFDirectory = DefaultFinalPDFDirectory
	}
	if c.Output.TempDirectory == "" {
		c.Output.TempDirectory = DefaultTempDirectory
	}
	if c.Merge.MaxMemoryMB <= 0 {
		c.Merge.MaxMemoryMB = DefaultMaxMemoryMB
	}
	if c.Merge.EngineSuffix == "" {
		c.Merge.EngineSuffix = DefaultEngineSuffix
	}
}

// Validate checks the required configuration keys. A failure here is fatal:
// no merge work may begin without a root URL and a PDF directory.
func (c Config) Validate() error {
	if c.RootURL == "" {
		return fmt.Errorf("missing required configuration key: rootURL")
	}
	if c.PDFDir == "" {
		return fmt.Errorf("missing required configuration key: pdfDir")
	}
	return nil
}
