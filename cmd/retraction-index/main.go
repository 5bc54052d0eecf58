// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the retraction-index CLI.
// Implements: prd001-collection, prd002-unionlist, prd003-coverage,
//             prd004-analysis, prd005-store (CLI surface).
// See docs/ARCHITECTURE.md § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/retraction-index/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, else the named secret, else "".
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the retraction-index CLI.
var rootCmd = &cobra.Command{
	Use:   "retraction-index",
	Short: "Reconcile retraction flags across Retraction Watch and PubMed",
	Long: `retraction-index builds a union list of retracted publications from two
independently maintained sources: the Retraction Watch bulk dataset and
PubMed's retracted-publication set. Records are deduplicated per source,
linked across sources by DOI, fused under a PubMed-wins metadata policy,
augmented with a PubMed coverage signal, and summarized.

Each pipeline stage is a subcommand operating on dated CSV artifacts in the
data directory, so any stage can be re-run from the previous stage's files:
collect, unionlist, coverage, report, and store.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./retraction-index.yaml or ~/.config/retraction-index/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "data", "directory for dated pipeline artifacts")
	rootCmd.PersistentFlags().String("date", "", "artifact date stamp, YYYY-MM-DD (default: today)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("retraction-index")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "retraction-index"))
		}
	}

	viper.SetEnvPrefix("RETRACTION_INDEX")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
