// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/retraction-index/internal/aggregate"
	"github.com/pdiddy/retraction-index/internal/artifact"
	"github.com/pdiddy/retraction-index/internal/normalize"
	"github.com/pdiddy/retraction-index/internal/pipeline"
	"github.com/pdiddy/retraction-index/pkg/types"
)

var unionlistCmd = &cobra.Command{
	Use:   "unionlist",
	Short: "Build the base union list from the dated extracts",
	Long: `Unionlist normalizes both raw extracts, deduplicates each source by DOI
(first record wins), routes records without a usable DOI to the exclusion
stream, fuses the two qualifying sets on DOI with PubMed metadata taking
priority, and writes the base union list plus the per-source audit streams
and the overview table. It requires the dated extracts written by collect
and touches nothing upstream of them.`,
	RunE: runUnionlist,
}

func init() {
	rootCmd.AddCommand(unionlistCmd)
}

func runUnionlist(cmd *cobra.Command, args []string) error {
	dataDir, date := artifactTarget(cmd)
	w := cmd.OutOrStdout()

	streams := make(map[types.Source]pipeline.SourceStreams, 2)
	for _, source := range []types.Source{types.SourceRetractionWatch, types.SourcePubMed} {
		path := artifact.Path(dataDir, date, string(source))
		columns, rows, err := artifact.ReadTable(path)
		if err != nil {
			return fmt.Errorf("reading %s extract: %w", source.DisplayName(), err)
		}

		raw := make([]normalize.RawRow, len(rows))
		for i, row := range rows {
			raw[i] = normalize.RawRow(row)
		}
		s := pipeline.ProcessSource(source, columns, raw)
		streams[source] = s

		if err := writeSourceStreams(dataDir, date, s); err != nil {
			return err
		}
	}

	rw, pm := streams[types.SourceRetractionWatch], streams[types.SourcePubMed]

	overviewPath := artifact.Path(dataDir, date, artifact.StemOverview)
	if err := artifact.WriteOverview(overviewPath, []aggregate.OverviewRow{pm.Overview, rw.Overview}); err != nil {
		return fmt.Errorf("writing overview: %w", err)
	}

	list, err := pipeline.BuildUnionList(rw, pm, w)
	if err != nil {
		return err
	}

	listPath := artifact.Path(dataDir, date, artifact.StemUnionList)
	if err := artifact.WriteUnionList(listPath, list); err != nil {
		return fmt.Errorf("writing union list: %w", err)
	}
	fmt.Fprintf(w, "wrote %s\n", listPath)
	return nil
}

func writeSourceStreams(dataDir, date string, s pipeline.SourceStreams) error {
	source := s.Dataset.Source
	if err := artifact.WriteRecords(
		artifact.SourcePath(dataDir, date, source, artifact.StreamWithDOI), s.Dataset, s.Qualifying,
	); err != nil {
		return fmt.Errorf("writing %s qualifying stream: %w", source, err)
	}
	if err := artifact.WriteExclusions(
		artifact.SourcePath(dataDir, date, source, artifact.StreamNoDOI), s.Dataset, s.NoID,
	); err != nil {
		return fmt.Errorf("writing %s no-DOI stream: %w", source, err)
	}
	if err := artifact.WriteExclusions(
		artifact.SourcePath(dataDir, date, source, artifact.StreamDuplicates), s.Dataset, s.Duplicates,
	); err != nil {
		return fmt.Errorf("writing %s duplicate stream: %w", source, err)
	}
	return nil
}
