// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate computes summary statistics over the union list.
// Implements: prd004-analysis (R1-R3);
//
//	docs/ARCHITECTURE.md § Analysis.
package aggregate

import (
	"fmt"

	"github.com/pdiddy/retraction-index/pkg/types"
)

// SourceCounts holds the per-source indexing and coverage tallies.
type SourceCounts struct {
	Source types.Source `json:"source" yaml:"source"`

	// Indexed counts records the source flags as retracted.
	Indexed int `json:"indexed" yaml:"indexed"`

	// Covered counts records present in the source's corpus at all.
	Covered int `json:"covered" yaml:"covered"`

	// CoveredNotIndexed counts records the source holds but does not flag
	// as retracted.
	CoveredNotIndexed int `json:"covered_not_indexed" yaml:"covered_not_indexed"`

	// NotCovered counts records absent from the source's corpus (for
	// PubMed, an overcount: coverage lookups that never ran report as
	// not covered).
	NotCovered int `json:"not_covered" yaml:"not_covered"`
}

// Summary is the aggregate view of a completed union list.
type Summary struct {
	Total           int          `json:"total" yaml:"total"`
	RetractionWatch SourceCounts `json:"retraction_watch" yaml:"retraction_watch"`
	PubMed          SourceCounts `json:"pubmed" yaml:"pubmed"`
	IndexedInBoth   int          `json:"indexed_in_both" yaml:"indexed_in_both"`
	CoveredInBoth   int          `json:"covered_in_both" yaml:"covered_in_both"`
}

// PairwiseAgreement returns the percentage of records both sources cover
// that both also index as retracted. ok is false when no record is covered
// by both sources, in which case the ratio is undefined.
func (s Summary) PairwiseAgreement() (pct float64, ok bool) {
	if s.CoveredInBoth == 0 {
		return 0, false
	}
	return float64(s.IndexedInBoth) / float64(s.CoveredInBoth) * 100, true
}

// FormatAgreement renders the pairwise agreement for reports, "N/A" when
// undefined.
func (s Summary) FormatAgreement() string {
	pct, ok := s.PairwiseAgreement()
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// Summarize tallies the completed union list. Pure computation, no mutation.
func Summarize(list []types.UnionRecord) Summary {
	s := Summary{Total: len(list)}
	s.RetractionWatch.Source = types.SourceRetractionWatch
	s.PubMed.Source = types.SourcePubMed

	for _, u := range list {
		tally(&s.RetractionWatch, u.IndexedInRetractionWatch, u.CoveredInRetractionWatch)
		tally(&s.PubMed, u.IndexedInPubMed, u.CoveredInPubMed)
		if u.IndexedInBoth() {
			s.IndexedInBoth++
		}
		if u.CoveredInBoth() {
			s.CoveredInBoth++
		}
	}
	return s
}

func tally(c *SourceCounts, indexed, covered bool) {
	if indexed {
		c.Indexed++
	}
	if covered {
		c.Covered++
		if !indexed {
			c.CoveredNotIndexed++
		}
	} else {
		c.NotCovered++
	}
}

// OverviewRow profiles one source's collection run ahead of fusion: the raw
// query total and how it split across the with-DOI, no-DOI, and duplicate
// streams.
type OverviewRow struct {
	Source            types.Source `json:"source" yaml:"source"`
	QueryResult       int          `json:"query_result" yaml:"query_result"`
	RecordsWithDOI    int          `json:"records_with_doi" yaml:"records_with_doi"`
	RecordsWithoutDOI int          `json:"records_without_doi" yaml:"records_without_doi"`
	DuplicatesRemoved int          `json:"duplicates_removed" yaml:"duplicates_removed"`
	RecordsWithPMID   int          `json:"records_with_pmid" yaml:"records_with_pmid"`
}

// Overview builds the profile row for one source from its partition streams.
// qualifying, excluded, and duplicates are the dedup/filter outputs; their
// lengths must sum to the raw query total.
func Overview(source types.Source, qualifying, excluded, duplicates []types.Record) OverviewRow {
	row := OverviewRow{
		Source:            source,
		QueryResult:       len(qualifying) + len(excluded) + len(duplicates),
		RecordsWithDOI:    len(qualifying),
		RecordsWithoutDOI: len(excluded),
		DuplicatesRemoved: len(duplicates),
	}
	for _, rec := range qualifying {
		if rec.PubMedID != "" {
			row.RecordsWithPMID++
		}
	}
	return row
}

// OverviewTotal sums per-source rows into the table's closing Total row.
func OverviewTotal(rows []OverviewRow) OverviewRow {
	var total OverviewRow
	total.Source = "total"
	for _, r := range rows {
		total.QueryResult += r.QueryResult
		total.RecordsWithDOI += r.RecordsWithDOI
		total.RecordsWithoutDOI += r.RecordsWithoutDOI
		total.DuplicatesRemoved += r.DuplicatesRemoved
		total.RecordsWithPMID += r.RecordsWithPMID
	}
	return total
}
