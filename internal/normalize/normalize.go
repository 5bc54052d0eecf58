// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize cleans raw per-source extracts into canonical records.
// Implements: prd002-unionlist (R1.1-R1.5);
//
//	docs/ARCHITECTURE.md § Normalization.
package normalize

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pdiddy/retraction-index/pkg/types"
)

// RawRow is one uncleaned extract row keyed by source column name.
type RawRow map[string]string

// Source column names for the identifier and year fields the engine
// branches on. Everything else is passthrough metadata.
var typedColumns = map[types.Source]struct {
	doi, pmid, notice, year string
}{
	types.SourceRetractionWatch: {
		doi:    "OriginalPaperDOI",
		pmid:   "OriginalPaperPubMedID",
		notice: "RetractionPubMedID",
		year:   "OriginalPaperDate",
	},
	types.SourcePubMed: {
		doi:    "DOI",
		pmid:   "PubMedID",
		notice: "RetractionPubMedID",
		year:   "Year",
	},
}

// Normalize converts raw extract rows into a canonical Dataset. The output
// has the same length and order as the input: normalization never drops or
// reorders rows. Identifier fields are cleaned and validated; all other
// columns are renamed to canonical form and carried through unchanged.
func Normalize(source types.Source, columns []string, rows []RawRow) types.Dataset {
	typed := typedColumns[source]

	var passthrough []string
	for _, col := range columns {
		if col == typed.doi || col == typed.pmid || col == typed.notice || col == typed.year {
			continue
		}
		passthrough = append(passthrough, CanonicalColumn(col))
	}

	records := make([]types.Record, len(rows))
	for i, row := range rows {
		rec := types.Record{
			DOI:                      CleanDOI(row[typed.doi]),
			PubMedID:                 CleanPMID(row[typed.pmid]),
			RetractionNoticePubMedID: CleanPMID(row[typed.notice]),
			Year:                     ParseYear(row[typed.year]),
			Source:                   source,
			Fields:                   make(map[string]string, len(passthrough)),
		}
		for _, col := range columns {
			if col == typed.doi || col == typed.pmid || col == typed.notice || col == typed.year {
				continue
			}
			rec.Fields[CanonicalColumn(col)] = strings.TrimSpace(row[col])
		}
		records[i] = rec
	}

	return types.Dataset{
		Source:  source,
		Columns: passthrough,
		Records: records,
	}
}

// CanonicalColumn standardizes a source column name: lowercase, with runs of
// non-alphanumeric characters collapsed to single underscores.
func CanonicalColumn(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		} else {
			pendingSep = true
		}
	}
	return b.String()
}

// CleanDOI lowercases and trims a DOI and strips the invisible format
// characters (zero-width spaces and friends) that leak into Retraction
// Watch exports, plus the stray '|' seen in historical data. An
// unrecoverable value comes back as whatever remains; validation is the
// identifier filter's job, not the normalizer's.
func CleanDOI(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Cf, r) || r == '|' {
			return -1
		}
		return r
	}, raw)
	return strings.ToLower(strings.TrimSpace(cleaned))
}

// CleanPMID normalizes a PubMed ID cell to a bare positive integer string.
// Empty cells, zeros, and non-numeric junk all normalize to "", the explicit
// absent marker. Float renderings like "28202934.0" are accepted because the
// upstream extracts pass through spreadsheet tooling that rewrites integers.
func CleanPMID(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return ""
	}
	n := int64(f)
	if float64(n) != f {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

// ParseYear extracts a four-digit publication year from the varied date
// renderings the two sources use: "2016", "2016:Jan", "1/1/2016 0:00",
// "1/1/1753 12:00:00 AM", "2016-01-05". Returns 0 when no year is found.
func ParseYear(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	// PubMed year fields are "YYYY" or "YYYY:rest".
	if head, _, _ := strings.Cut(s, ":"); len(head) == 4 {
		if y, err := strconv.Atoi(head); err == nil {
			return y
		}
	}

	// Retraction Watch dates are "M/D/YYYY ..." or ISO "YYYY-MM-DD".
	datePart, _, _ := strings.Cut(s, " ")
	if y, err := strconv.Atoi(strings.TrimSpace(datePart)); err == nil && y > 0 {
		return y
	}
	for _, sep := range []string{"/", "-"} {
		parts := strings.Split(datePart, sep)
		for _, p := range parts {
			if len(p) == 4 {
				if y, err := strconv.Atoi(p); err == nil {
					return y
				}
			}
		}
	}
	return 0
}
