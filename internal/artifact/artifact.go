// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package artifact reads and writes the pipeline's dated CSV artifacts.
// Every stage persists a complete, independently loadable table, so any
// stage can be re-run from the previous stage's files without re-deriving
// earlier state.
// Implements: prd001-collection (R3.1-R3.3); prd002-unionlist (R4.1-R4.5);
//
//	docs/ARCHITECTURE.md § Artifacts.
package artifact

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pdiddy/retraction-index/pkg/types"
)

// DateLayout is the date stamp embedded in every artifact name.
const DateLayout = "2006-01-02"

// Artifact name stems.
const (
	StemRetractionWatch       = "retraction_watch"
	StemPubMed                = "pubmed"
	StemOverview              = "overview"
	StemUnionList             = "unionlist"
	StemCoverage              = "coverage"
	StemUnionListWithCoverage = "unionlist_with_coverage"
	StemAggregateResults      = "aggregate_results"
)

// Date formats t for use in artifact names.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}

// Path returns dataDir/{date}_{stem}.csv.
func Path(dataDir, date, stem string) string {
	return filepath.Join(dataDir, fmt.Sprintf("%s_%s.csv", date, stem))
}

// SourcePath returns the path of a per-source stream artifact, e.g.
// data/2025-05-08_pubmed_records_with_doi.csv.
func SourcePath(dataDir, date string, source types.Source, stream string) string {
	return Path(dataDir, date, fmt.Sprintf("%s_%s", source, stream))
}

// Per-source stream names for SourcePath.
const (
	StreamWithDOI    = "records_with_doi"
	StreamNoDOI      = "records_no_doi"
	StreamDuplicates = "duplicate_records"
)

// WriteTable writes a CSV with the given header and one row per map, pulling
// cell values by column name. Missing keys write as empty cells.
func WriteTable(path string, columns []string, rows []map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	cells := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			cells[i] = row[col]
		}
		if err := w.Write(cells); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Close()
}

// ReadTable reads a CSV into its header and one map per row, keyed by
// column name. Row order is preserved.
func ReadTable(path string) (columns []string, rows []map[string]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows from upstream tooling

	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%s: empty file, expected a header row", path)
	}

	columns = all[0]
	rows = make([]map[string]string, 0, len(all)-1)
	for _, rec := range all[1:] {
		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return columns, rows, nil
}

// Typed column names shared by the canonical record artifacts.
const (
	colDOI     = "doi"
	colPMID    = "pubmed_id"
	colNotice  = "retraction_notice_pubmed_id"
	colYear    = "year"
	colSource  = "source"
	colReason  = "reason"
	colAuthor  = "author"
	colTitle   = "title"
	colJournal = "journal"
	colIndexRW = "indexed_in_retraction_watch"
	colIndexPM = "indexed_in_pubmed"
	colCoverRW = "covered_in_retraction_watch"
	colCoverPM = "covered_in_pubmed"
)

func recordRow(rec types.Record) map[string]string {
	row := map[string]string{
		colDOI:    rec.DOI,
		colPMID:   rec.PubMedID,
		colNotice: rec.RetractionNoticePubMedID,
		colYear:   formatYear(rec.Year),
		colSource: string(rec.Source),
	}
	for k, v := range rec.Fields {
		row[k] = v
	}
	return row
}

func recordColumns(ds types.Dataset) []string {
	return append([]string{colDOI, colPMID, colNotice, colYear, colSource}, ds.Columns...)
}

// WriteDataset persists a canonical dataset: typed identifier columns first,
// then the source's passthrough columns in their original order.
func WriteDataset(path string, ds types.Dataset) error {
	rows := make([]map[string]string, len(ds.Records))
	for i, rec := range ds.Records {
		rows[i] = recordRow(rec)
	}
	return WriteTable(path, recordColumns(ds), rows)
}

// WriteRecords persists a record stream using the column layout of ds (the
// dataset the records were partitioned from).
func WriteRecords(path string, ds types.Dataset, records []types.Record) error {
	rows := make([]map[string]string, len(records))
	for i, rec := range records {
		rows[i] = recordRow(rec)
	}
	return WriteTable(path, recordColumns(ds), rows)
}

// WriteExclusions persists an exclusion stream with its audit reason column.
func WriteExclusions(path string, ds types.Dataset, exclusions []types.Exclusion) error {
	columns := append(recordColumns(ds), colReason)
	rows := make([]map[string]string, len(exclusions))
	for i, ex := range exclusions {
		row := recordRow(ex.Record)
		row[colReason] = string(ex.Reason)
		rows[i] = row
	}
	return WriteTable(path, columns, rows)
}

// ReadDataset loads a canonical dataset artifact written by WriteDataset or
// WriteRecords. Columns not recognized as typed fields become passthrough
// fields, preserving header order.
func ReadDataset(path string) (types.Dataset, error) {
	columns, rows, err := ReadTable(path)
	if err != nil {
		return types.Dataset{}, err
	}

	ds := types.Dataset{}
	for _, col := range columns {
		switch col {
		case colDOI, colPMID, colNotice, colYear, colSource, colReason:
		default:
			ds.Columns = append(ds.Columns, col)
		}
	}

	ds.Records = make([]types.Record, len(rows))
	for i, row := range rows {
		rec := types.Record{
			DOI:                      row[colDOI],
			PubMedID:                 row[colPMID],
			RetractionNoticePubMedID: row[colNotice],
			Year:                     parseYear(row[colYear]),
			Source:                   types.Source(row[colSource]),
			Fields:                   make(map[string]string, len(ds.Columns)),
		}
		for _, col := range ds.Columns {
			rec.Fields[col] = row[col]
		}
		ds.Records[i] = rec
		if i == 0 {
			ds.Source = rec.Source
		}
	}
	return ds, nil
}

var unionColumns = []string{
	colDOI, colAuthor, colTitle, colJournal, colYear, colPMID,
	colIndexRW, colIndexPM, colCoverRW, colCoverPM,
}

// WriteUnionList persists a union list (base or coverage-augmented).
func WriteUnionList(path string, list []types.UnionRecord) error {
	rows := make([]map[string]string, len(list))
	for i, u := range list {
		rows[i] = map[string]string{
			colDOI:     u.DOI,
			colAuthor:  u.Author,
			colTitle:   u.Title,
			colJournal: u.Journal,
			colYear:    formatYear(u.Year),
			colPMID:    u.PubMedID,
			colIndexRW: formatBool(u.IndexedInRetractionWatch),
			colIndexPM: formatBool(u.IndexedInPubMed),
			colCoverRW: formatBool(u.CoveredInRetractionWatch),
			colCoverPM: formatBool(u.CoveredInPubMed),
		}
	}
	return WriteTable(path, unionColumns, rows)
}

// ReadUnionList loads a union-list artifact.
func ReadUnionList(path string) ([]types.UnionRecord, error) {
	_, rows, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	list := make([]types.UnionRecord, len(rows))
	for i, row := range rows {
		list[i] = types.UnionRecord{
			DOI:                      row[colDOI],
			Author:                   row[colAuthor],
			Title:                    row[colTitle],
			Journal:                  row[colJournal],
			Year:                     parseYear(row[colYear]),
			PubMedID:                 row[colPMID],
			IndexedInRetractionWatch: row[colIndexRW] == "true",
			IndexedInPubMed:          row[colIndexPM] == "true",
			CoveredInRetractionWatch: row[colCoverRW] == "true",
			CoveredInPubMed:          row[colCoverPM] == "true",
		}
	}
	return list, nil
}

// WriteCoverage persists the covered-PMID set, sorted by the caller if a
// stable order matters.
func WriteCoverage(path string, pmids []string) error {
	rows := make([]map[string]string, len(pmids))
	for i, id := range pmids {
		rows[i] = map[string]string{colPMID: id}
	}
	return WriteTable(path, []string{colPMID}, rows)
}

// ReadCoverage loads a coverage artifact into a CoverageSet.
func ReadCoverage(path string) (types.CoverageSet, error) {
	_, rows, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	pmids := make([]string, 0, len(rows))
	for _, row := range rows {
		pmids = append(pmids, row[colPMID])
	}
	return types.NewCoverageSet(pmids), nil
}

func formatYear(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}

func parseYear(s string) int {
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return y
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
