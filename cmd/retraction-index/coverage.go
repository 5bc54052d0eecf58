// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/retraction-index/internal/artifact"
	"github.com/pdiddy/retraction-index/internal/coverage"
	"github.com/pdiddy/retraction-index/internal/fuse"
	"github.com/pdiddy/retraction-index/internal/secrets"
	"github.com/pdiddy/retraction-index/pkg/types"
)

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Query and merge the PubMed coverage signal",
	Long: `Coverage determines, for union-list records PubMed does not index as
retracted, whether PubMed's corpus contains them at all. The query
subcommand asks PubMed in PMID batches and writes the covered set as a
dated artifact; the merge subcommand folds that artifact into the union
list without touching row counts or indexing flags. Records whose PMID
never reached the query default to not covered, an undercount the report
stage surfaces.`,
}

var coverageQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query PubMed for coverage of non-indexed records",
	RunE:  runCoverageQuery,
}

var coverageMergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge the coverage artifact into the union list",
	RunE:  runCoverageMerge,
}

func init() {
	coverageQueryCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	coverageQueryCmd.Flags().Int("batch-size", 300, "PMIDs per coverage lookup")
	coverageQueryCmd.Flags().Duration("delay", 334*time.Millisecond, "delay between consecutive batches")
	coverageQueryCmd.Flags().String("email", "", "email sent with NCBI requests (default: ncbi-email secret)")

	coverageCmd.AddCommand(coverageQueryCmd)
	coverageCmd.AddCommand(coverageMergeCmd)
	rootCmd.AddCommand(coverageCmd)
}

func runCoverageQuery(cmd *cobra.Command, args []string) error {
	dataDir, date := artifactTarget(cmd)
	timeout, _ := cmd.Flags().GetDuration("timeout")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	delay, _ := cmd.Flags().GetDuration("delay")
	email, _ := cmd.Flags().GetString("email")
	w := cmd.OutOrStdout()

	list, err := artifact.ReadUnionList(artifact.Path(dataDir, date, artifact.StemUnionList))
	if err != nil {
		return fmt.Errorf("reading union list: %w", err)
	}

	pmids := coverage.Candidates(list)
	fmt.Fprintf(w, "querying coverage for %d PMIDs\n", len(pmids))

	cfg := types.CoverageConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		DataDir:      dataDir,
		BatchSize:    batchSize,
		RequestDelay: delay,
		Email:        secretDefault(secrets.KeyNCBIEmail, email),
		APIKey:       secretDefault(secrets.KeyNCBIAPIKey, ""),
	}

	client := &http.Client{Timeout: cfg.Timeout}
	covered, err := coverage.Query(cmd.Context(), client, cfg, pmids, w)
	if err != nil {
		return err
	}

	ids := covered.PMIDs()
	sort.Strings(ids)
	path := artifact.Path(dataDir, date, artifact.StemCoverage)
	if err := artifact.WriteCoverage(path, ids); err != nil {
		return fmt.Errorf("writing coverage artifact: %w", err)
	}
	fmt.Fprintf(w, "wrote %s (%d covered of %d queried)\n", path, len(ids), len(pmids))
	return nil
}

func runCoverageMerge(cmd *cobra.Command, args []string) error {
	dataDir, date := artifactTarget(cmd)
	w := cmd.OutOrStdout()

	list, err := artifact.ReadUnionList(artifact.Path(dataDir, date, artifact.StemUnionList))
	if err != nil {
		return fmt.Errorf("reading union list: %w", err)
	}
	covered, err := artifact.ReadCoverage(artifact.Path(dataDir, date, artifact.StemCoverage))
	if err != nil {
		return fmt.Errorf("reading coverage artifact: %w", err)
	}

	merged := fuse.MergeCoverage(list, covered)

	path := artifact.Path(dataDir, date, artifact.StemUnionListWithCoverage)
	if err := artifact.WriteUnionList(path, merged); err != nil {
		return fmt.Errorf("writing merged union list: %w", err)
	}
	fmt.Fprintf(w, "wrote %s (%d records)\n", path, len(merged))
	return nil
}
