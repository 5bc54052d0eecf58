// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the per-source stages that turn a raw extract into
// the streams fusion consumes, and assembles the base union list.
// Implements: prd002-unionlist (R1-R4);
//
//	docs/ARCHITECTURE.md § Union-List Construction.
package pipeline

import (
	"fmt"
	"io"

	"github.com/pdiddy/retraction-index/internal/aggregate"
	"github.com/pdiddy/retraction-index/internal/dedupe"
	"github.com/pdiddy/retraction-index/internal/fuse"
	"github.com/pdiddy/retraction-index/internal/normalize"
	"github.com/pdiddy/retraction-index/pkg/types"
)

// SourceStreams holds the outcome of normalizing, deduplicating, and
// filtering one source's raw extract. Qualifying, NoID, and Duplicates
// together account for every input row exactly once.
type SourceStreams struct {
	// Dataset is the normalized extract, same length and order as the raw
	// input.
	Dataset types.Dataset

	// Qualifying are the deduplicated survivors with a well-formed DOI,
	// in ingestion order.
	Qualifying []types.Record

	// NoID are survivors without a usable DOI, retained for audit.
	NoID []types.Exclusion

	// Duplicates are the dedup losers, retained for audit.
	Duplicates []types.Exclusion

	// Overview profiles the partition for the cross-source overview table.
	Overview aggregate.OverviewRow
}

// ProcessSource runs one source's raw rows through normalization,
// first-wins deduplication, and the identifier filter.
func ProcessSource(source types.Source, columns []string, rows []normalize.RawRow) SourceStreams {
	ds := normalize.Normalize(source, columns, rows)

	survivors, duplicates := dedupe.Partition(ds.Records, dedupe.FirstWins)
	qualifying, noID := dedupe.SplitByIdentifier(survivors)

	return SourceStreams{
		Dataset:    ds,
		Qualifying: qualifying,
		NoID:       dedupe.AsExclusions(noID, types.ReasonMissingID),
		Duplicates: dedupe.AsExclusions(duplicates, types.ReasonDuplicateID),
		Overview:   aggregate.Overview(source, qualifying, noID, duplicates),
	}
}

// BuildUnionList fuses the two sources' qualifying streams into the base
// union list, logging stream sizes to w.
func BuildUnionList(retractionWatch, pubmed SourceStreams, w io.Writer) ([]types.UnionRecord, error) {
	for _, s := range []SourceStreams{retractionWatch, pubmed} {
		fmt.Fprintf(w, "%s: %d records, %d with DOI, %d without, %d duplicates removed\n",
			s.Dataset.Source.DisplayName(), len(s.Dataset.Records),
			len(s.Qualifying), len(s.NoID), len(s.Duplicates))
	}

	list, err := fuse.Fuse(retractionWatch.Qualifying, pubmed.Qualifying)
	if err != nil {
		return nil, fmt.Errorf("fusing sources: %w", err)
	}
	fmt.Fprintf(w, "union list: %d records\n", len(list))
	return list, nil
}
