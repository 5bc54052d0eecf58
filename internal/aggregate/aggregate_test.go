// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"math"
	"testing"

	"github.com/pdiddy/retraction-index/pkg/types"
)

func TestSummarize(t *testing.T) {
	list := []types.UnionRecord{
		// Indexed by both, covered by both.
		{DOI: "10.1/a", IndexedInRetractionWatch: true, IndexedInPubMed: true, CoveredInRetractionWatch: true, CoveredInPubMed: true},
		// Retraction Watch only, but PubMed holds the paper.
		{DOI: "10.1/b", IndexedInRetractionWatch: true, CoveredInRetractionWatch: true, CoveredInPubMed: true},
		// Retraction Watch only, never found in PubMed.
		{DOI: "10.1/c", IndexedInRetractionWatch: true, CoveredInRetractionWatch: true},
		// PubMed only.
		{DOI: "10.1/d", IndexedInPubMed: true, CoveredInRetractionWatch: true, CoveredInPubMed: true},
	}

	s := Summarize(list)

	if s.Total != 4 {
		t.Errorf("Total = %d, want 4", s.Total)
	}
	if s.RetractionWatch.Indexed != 3 {
		t.Errorf("RetractionWatch.Indexed = %d, want 3", s.RetractionWatch.Indexed)
	}
	if s.RetractionWatch.Covered != 4 {
		t.Errorf("RetractionWatch.Covered = %d, want 4", s.RetractionWatch.Covered)
	}
	if s.RetractionWatch.CoveredNotIndexed != 1 {
		t.Errorf("RetractionWatch.CoveredNotIndexed = %d, want 1", s.RetractionWatch.CoveredNotIndexed)
	}
	if s.PubMed.Indexed != 2 {
		t.Errorf("PubMed.Indexed = %d, want 2", s.PubMed.Indexed)
	}
	if s.PubMed.Covered != 3 {
		t.Errorf("PubMed.Covered = %d, want 3", s.PubMed.Covered)
	}
	if s.PubMed.NotCovered != 1 {
		t.Errorf("PubMed.NotCovered = %d, want 1", s.PubMed.NotCovered)
	}
	if s.IndexedInBoth != 1 {
		t.Errorf("IndexedInBoth = %d, want 1", s.IndexedInBoth)
	}
	if s.CoveredInBoth != 3 {
		t.Errorf("CoveredInBoth = %d, want 3", s.CoveredInBoth)
	}

	pct, ok := s.PairwiseAgreement()
	if !ok {
		t.Fatal("agreement should be defined")
	}
	if want := 100.0 / 3.0; math.Abs(pct-want) > 1e-9 {
		t.Errorf("agreement = %f, want %f", pct, want)
	}
	if got := s.FormatAgreement(); got != "33.3%" {
		t.Errorf("FormatAgreement = %q", got)
	}
}

func TestPairwiseAgreementUndefined(t *testing.T) {
	// No record covered by both sources: the ratio has no denominator.
	s := Summarize([]types.UnionRecord{
		{DOI: "10.1/a", IndexedInRetractionWatch: true, CoveredInRetractionWatch: true},
	})

	if _, ok := s.PairwiseAgreement(); ok {
		t.Error("agreement should be undefined with empty denominator")
	}
	if got := s.FormatAgreement(); got != "N/A" {
		t.Errorf("FormatAgreement = %q, want N/A", got)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 {
		t.Errorf("Total = %d", s.Total)
	}
	if got := s.FormatAgreement(); got != "N/A" {
		t.Errorf("FormatAgreement = %q, want N/A", got)
	}
}

func TestOverview(t *testing.T) {
	qualifying := []types.Record{
		{DOI: "10.1/a", PubMedID: "111"},
		{DOI: "10.1/b"},
	}
	excluded := []types.Record{{PubMedID: "222"}}
	duplicates := []types.Record{{DOI: "10.1/a"}, {DOI: "10.1/a"}, {DOI: "10.1/b"}}

	row := Overview(types.SourceRetractionWatch, qualifying, excluded, duplicates)

	if row.QueryResult != 6 {
		t.Errorf("QueryResult = %d, want 6 (streams must sum to the query total)", row.QueryResult)
	}
	if row.RecordsWithDOI != 2 || row.RecordsWithoutDOI != 1 || row.DuplicatesRemoved != 3 {
		t.Errorf("streams = %d/%d/%d, want 2/1/3", row.RecordsWithDOI, row.RecordsWithoutDOI, row.DuplicatesRemoved)
	}
	if row.RecordsWithPMID != 1 {
		t.Errorf("RecordsWithPMID = %d, want 1", row.RecordsWithPMID)
	}
}

func TestOverviewTotal(t *testing.T) {
	rows := []OverviewRow{
		{Source: types.SourcePubMed, QueryResult: 10, RecordsWithDOI: 8, RecordsWithoutDOI: 1, DuplicatesRemoved: 1, RecordsWithPMID: 8},
		{Source: types.SourceRetractionWatch, QueryResult: 20, RecordsWithDOI: 15, RecordsWithoutDOI: 3, DuplicatesRemoved: 2, RecordsWithPMID: 12},
	}

	total := OverviewTotal(rows)

	if total.Source != "total" {
		t.Errorf("Source = %q", total.Source)
	}
	if total.QueryResult != 30 || total.RecordsWithDOI != 23 || total.RecordsWithoutDOI != 4 || total.DuplicatesRemoved != 3 || total.RecordsWithPMID != 20 {
		t.Errorf("total row = %+v", total)
	}
}
