// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package artifact

import (
	"strconv"

	"github.com/pdiddy/retraction-index/internal/aggregate"
)

// WriteOverview persists the per-source collection profile table, with a
// closing Total row.
func WriteOverview(path string, rows []aggregate.OverviewRow) error {
	columns := []string{
		"source", "query_result", "records_with_doi", "records_without_doi",
		"duplicates_removed", "records_with_pmid",
	}
	all := append(rows, aggregate.OverviewTotal(rows))
	out := make([]map[string]string, len(all))
	for i, r := range all {
		out[i] = map[string]string{
			"source":              string(r.Source),
			"query_result":        strconv.Itoa(r.QueryResult),
			"records_with_doi":    strconv.Itoa(r.RecordsWithDOI),
			"records_without_doi": strconv.Itoa(r.RecordsWithoutDOI),
			"duplicates_removed":  strconv.Itoa(r.DuplicatesRemoved),
			"records_with_pmid":   strconv.Itoa(r.RecordsWithPMID),
		}
	}
	return WriteTable(path, columns, out)
}

// WriteSummary persists the aggregate results table: one row per source and
// a closing "both" row carrying the cross-source counts and the pairwise
// agreement (or N/A when undefined).
func WriteSummary(path string, s aggregate.Summary) error {
	columns := []string{
		"source", "items_indexed", "items_covered",
		"items_covered_not_indexed", "items_not_covered", "pairwise_agreement",
	}
	sourceRow := func(c aggregate.SourceCounts) map[string]string {
		return map[string]string{
			"source":                    string(c.Source),
			"items_indexed":             strconv.Itoa(c.Indexed),
			"items_covered":             strconv.Itoa(c.Covered),
			"items_covered_not_indexed": strconv.Itoa(c.CoveredNotIndexed),
			"items_not_covered":         strconv.Itoa(c.NotCovered),
		}
	}
	rows := []map[string]string{
		sourceRow(s.RetractionWatch),
		sourceRow(s.PubMed),
		{
			"source":             "both",
			"items_indexed":      strconv.Itoa(s.IndexedInBoth),
			"items_covered":      strconv.Itoa(s.CoveredInBoth),
			"pairwise_agreement": s.FormatAgreement(),
		},
	}
	return WriteTable(path, columns, rows)
}
