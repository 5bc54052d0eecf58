// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pdiddy/retraction-index/internal/aggregate"
	"github.com/pdiddy/retraction-index/internal/normalize"
	"github.com/pdiddy/retraction-index/pkg/types"
)

var rwColumns = []string{"Title", "Author", "Journal", "OriginalPaperDate", "OriginalPaperDOI", "OriginalPaperPubMedID", "RetractionPubMedID"}

var pmColumns = []string{"Title", "Author", "Journal", "Year", "DOI", "PubMedID", "RetractionPubMedID"}

func TestProcessSource(t *testing.T) {
	rows := []normalize.RawRow{
		{"Title": "Keeper", "OriginalPaperDOI": "10.1/x", "OriginalPaperPubMedID": "111"},
		{"Title": "Duplicate", "OriginalPaperDOI": "10.1/X"}, // same DOI after cleaning
		{"Title": "No identifier", "OriginalPaperDOI": ""},
		{"Title": "Other", "OriginalPaperDOI": "10.1/y"},
	}

	got := ProcessSource(types.SourceRetractionWatch, rwColumns, rows)

	if len(got.Qualifying) != 2 {
		t.Fatalf("qualifying = %d, want 2", len(got.Qualifying))
	}
	if got.Qualifying[0].Field(types.FieldTitle) != "Keeper" {
		t.Errorf("first survivor = %q, want the first occurrence", got.Qualifying[0].Field(types.FieldTitle))
	}
	if len(got.Duplicates) != 1 || got.Duplicates[0].Reason != types.ReasonDuplicateID {
		t.Errorf("duplicates = %+v", got.Duplicates)
	}
	if len(got.NoID) != 1 || got.NoID[0].Reason != types.ReasonMissingID {
		t.Errorf("noID = %+v", got.NoID)
	}

	// The three streams account for every row exactly once.
	if total := len(got.Qualifying) + len(got.NoID) + len(got.Duplicates); total != len(rows) {
		t.Errorf("streams sum to %d, want %d", total, len(rows))
	}
	if got.Overview.QueryResult != len(rows) {
		t.Errorf("overview query result = %d, want %d", got.Overview.QueryResult, len(rows))
	}
	if got.Overview.RecordsWithPMID != 1 {
		t.Errorf("overview PMID count = %d, want 1", got.Overview.RecordsWithPMID)
	}
}

func TestBuildUnionListEndToEnd(t *testing.T) {
	rwRows := []normalize.RawRow{
		{"Title": "Shared paper", "Author": "Smith", "OriginalPaperDate": "1/1/2016 0:00", "OriginalPaperDOI": "10.1/shared", "OriginalPaperPubMedID": "111"},
		{"Title": "Shared paper again", "OriginalPaperDOI": "10.1/shared"},
		{"Title": "Watch only", "OriginalPaperDOI": "10.1/watch", "OriginalPaperPubMedID": "333"},
		{"Title": "Lost to filtering"},
	}
	pmRows := []normalize.RawRow{
		{"Title": "Shared paper, curated", "Author": "Smith J", "Year": "2016", "DOI": "10.1/shared", "PubMedID": "111"},
		{"Title": "PubMed only", "Year": "2019", "DOI": "10.1/pubmed", "PubMedID": "222"},
	}

	rw := ProcessSource(types.SourceRetractionWatch, rwColumns, rwRows)
	pm := ProcessSource(types.SourcePubMed, pmColumns, pmRows)

	var log bytes.Buffer
	list, err := BuildUnionList(rw, pm, &log)
	if err != nil {
		t.Fatalf("BuildUnionList: %v", err)
	}

	if len(list) != 3 {
		t.Fatalf("union list = %d records, want 3", len(list))
	}

	byDOI := make(map[string]types.UnionRecord)
	for _, u := range list {
		byDOI[u.DOI] = u
	}

	shared := byDOI["10.1/shared"]
	if shared.Title != "Shared paper, curated" {
		t.Errorf("shared title = %q, want the PubMed value", shared.Title)
	}
	if !shared.IndexedInRetractionWatch || !shared.IndexedInPubMed || !shared.CoveredInPubMed {
		t.Errorf("shared flags = %+v", shared)
	}

	watch := byDOI["10.1/watch"]
	if !watch.IndexedInRetractionWatch || watch.IndexedInPubMed || watch.CoveredInPubMed {
		t.Errorf("watch-only flags = %+v", watch)
	}

	s := aggregate.Summarize(list)
	if s.IndexedInBoth != 1 {
		t.Errorf("IndexedInBoth = %d, want 1", s.IndexedInBoth)
	}

	for _, want := range []string{"Retraction Watch: 4 records", "union list: 3 records"} {
		if !strings.Contains(log.String(), want) {
			t.Errorf("log missing %q:\n%s", want, log.String())
		}
	}
}
