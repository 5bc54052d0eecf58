// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/retraction-index/internal/aggregate"
	"github.com/pdiddy/retraction-index/internal/artifact"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize the completed union list",
	Long: `Report tallies the coverage-augmented union list: per-source indexing and
coverage counts, covered-but-not-indexed counts, and the pairwise agreement
ratio. PubMed coverage counts are an undercount for records whose PMID never
reached the coverage query. The table is written as a dated artifact and
printed.`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	dataDir, date := artifactTarget(cmd)
	w := cmd.OutOrStdout()

	list, err := artifact.ReadUnionList(artifact.Path(dataDir, date, artifact.StemUnionListWithCoverage))
	if err != nil {
		return fmt.Errorf("reading union list: %w", err)
	}

	summary := aggregate.Summarize(list)

	path := artifact.Path(dataDir, date, artifact.StemAggregateResults)
	if err := artifact.WriteSummary(path, summary); err != nil {
		return fmt.Errorf("writing aggregate results: %w", err)
	}

	fmt.Fprintf(w, "union list: %d records\n\n", summary.Total)
	for _, c := range []aggregate.SourceCounts{summary.RetractionWatch, summary.PubMed} {
		fmt.Fprintf(w, "%s:\n", c.Source.DisplayName())
		fmt.Fprintf(w, "  indexed as retracted:       %d\n", c.Indexed)
		fmt.Fprintf(w, "  covered:                    %d\n", c.Covered)
		fmt.Fprintf(w, "  covered but not indexed:    %d\n", c.CoveredNotIndexed)
		fmt.Fprintf(w, "  not covered:                %d\n", c.NotCovered)
	}
	fmt.Fprintf(w, "\nindexed in both: %d\n", summary.IndexedInBoth)
	fmt.Fprintf(w, "covered in both: %d\n", summary.CoveredInBoth)
	fmt.Fprintf(w, "pairwise agreement: %s\n", summary.FormatAgreement())
	fmt.Fprintf(w, "\nwrote %s\n", path)
	return nil
}
