// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sitebind CLI, which binds the
// per-page PDF fragments produced by the scraping pipeline into one merged,
// bookmarked document per directory.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sitebind/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the sitebind CLI.
var rootCmd = &cobra.Command{
	Use:   "sitebind",
	Short: "Merge scraped per-page PDFs into bookmarked site documents",
	Long: `sitebind consumes the numbered PDF fragments a scraping pipeline writes
under a site's PDF directory and produces one merged document per directory,
with a table of contents built from the fragment titles or, when the scraper
recorded a section layout, a two-level section/page outline.

The scraper's metadata files (articleTitles.json, sectionStructure.json) are
read when present; their absence only changes how bookmark titles are
derived.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./config.json)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("json")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("SITEBIND")
	viper.AutomaticEnv()

	viper.SetDefault("merge.bookmarks", true)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// buildConfig assembles the immutable run configuration from the loaded
// config file and environment. Missing required keys abort here, before any
// merge work starts.
func buildConfig() (types.Config, error) {
	cfg := types.Config{
		RootURL: viper.GetString("rootURL"),
		PDFDir:  viper.GetString("pdfDir"),
		Metadata: types.MetadataConfig{
			Directory: viper.GetString("metadata.directory"),
		},
		Output: types.OutputConfig{
			FinalPDFDirectory: viper.GetString("output.finalPdfDirectory"),
			TempDirectory:     viper.GetString("output.tempDirectory"),
		},
		Merge: types.MergeConfig{
			Bookmarks:    viper.GetBool("merge.bookmarks"),
			MaxMemoryMB:  viper.GetInt("merge.maxMemoryMB"),
			EngineSuffix: viper.GetString("merge.engineSuffix"),
		},
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
