// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/retraction-index/internal/collect"
	"github.com/pdiddy/retraction-index/internal/secrets"
	"github.com/pdiddy/retraction-index/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "retraction-index/0.1"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Download the raw per-source extracts",
	Long: `Collect retrieves the raw flagged-as-retracted records from each source
and writes them as dated CSV extracts: the Retraction Watch bulk dataset
(with a SHA-256 provenance sidecar) and the PubMed retracted-publication
set (chunked by publication date to respect server-side result caps).`,
}

var collectRWCmd = &cobra.Command{
	Use:   "retractionwatch",
	Short: "Download the Retraction Watch bulk CSV",
	RunE:  runCollectRetractionWatch,
}

var collectPubMedCmd = &cobra.Command{
	Use:   "pubmed",
	Short: "Query PubMed for retracted publications",
	RunE:  runCollectPubMed,
}

func init() {
	collectCmd.PersistentFlags().Duration("timeout", defaultTimeout, "HTTP request timeout")

	collectRWCmd.Flags().String("url", collect.DefaultRetractionWatchURL, "bulk dataset URL")
	collectRWCmd.Flags().String("sha256", "", "expected SHA-256 of the dataset (mismatch warns)")

	collectPubMedCmd.Flags().Int("start-year", 1950, "first publication year to query")
	collectPubMedCmd.Flags().Int("end-year", 0, "last publication year to query (default: current year)")
	collectPubMedCmd.Flags().Int("interval-years", 2, "years per date-range chunk")
	collectPubMedCmd.Flags().Int("batch-size", 300, "PMIDs per summary request")
	collectPubMedCmd.Flags().Duration("delay", 334*time.Millisecond, "delay between consecutive API calls")
	collectPubMedCmd.Flags().String("email", "", "email sent with NCBI requests (default: ncbi-email secret)")

	collectCmd.AddCommand(collectRWCmd)
	collectCmd.AddCommand(collectPubMedCmd)
	rootCmd.AddCommand(collectCmd)
}

func runCollectRetractionWatch(cmd *cobra.Command, args []string) error {
	dataDir, date := artifactTarget(cmd)
	timeout, _ := cmd.Flags().GetDuration("timeout")
	url, _ := cmd.Flags().GetString("url")
	sha, _ := cmd.Flags().GetString("sha256")

	cfg := types.RetractionWatchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		DataDir:        dataDir,
		DownloadURL:    url,
		ExpectedSHA256: sha,
	}

	client := &http.Client{Timeout: cfg.Timeout}
	_, _, err := collect.RetractionWatch(cmd.Context(), client, cfg, date, os.Stdout)
	return err
}

func runCollectPubMed(cmd *cobra.Command, args []string) error {
	dataDir, date := artifactTarget(cmd)
	timeout, _ := cmd.Flags().GetDuration("timeout")
	startYear, _ := cmd.Flags().GetInt("start-year")
	endYear, _ := cmd.Flags().GetInt("end-year")
	interval, _ := cmd.Flags().GetInt("interval-years")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	delay, _ := cmd.Flags().GetDuration("delay")
	email, _ := cmd.Flags().GetString("email")

	cfg := types.PubMedConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		DataDir:       dataDir,
		Term:          viper.GetString("pubmed.term"),
		StartYear:     startYear,
		EndYear:       endYear,
		IntervalYears: interval,
		BatchSize:     batchSize,
		RequestDelay:  delay,
		Email:         secretDefault(secrets.KeyNCBIEmail, email),
		APIKey:        secretDefault(secrets.KeyNCBIAPIKey, ""),
	}

	client := &http.Client{Timeout: cfg.Timeout}
	_, err := collect.PubMed(cmd.Context(), client, cfg, date, os.Stdout)
	return err
}
