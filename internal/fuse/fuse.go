// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fuse joins the two sources' qualifying records into the union list
// and merges the PubMed coverage signal into it.
// Implements: prd002-unionlist (R3.1-R3.6);
//
//	prd003-coverage (R2.1-R2.5);
//	docs/ARCHITECTURE.md § Fusion.
package fuse

import (
	"fmt"

	"github.com/pdiddy/retraction-index/pkg/types"
)

// preferPubMed returns the PubMed value for a shared metadata field unless
// PubMed left it blank, in which case the Retraction Watch value fills in.
// This asymmetric priority is deliberate policy: PubMed metadata is curated
// and wins every conflict. Do not replace it with last-wins.
func preferPubMed(pubmed, retractionWatch string) string {
	if pubmed != "" {
		return pubmed
	}
	return retractionWatch
}

// preferPubMedYear applies the same priority to the year field, where 0 is
// the absent marker.
func preferPubMedYear(pubmed, retractionWatch int) int {
	if pubmed != 0 {
		return pubmed
	}
	return retractionWatch
}

// Fuse joins the Retraction Watch and PubMed qualifying record sets on DOI.
// The output contains exactly one UnionRecord per DOI in the union of the
// two input id sets: matched DOIs fuse into one record with both indexed
// flags set and metadata under the preferPubMed policy, then each side's
// unmatched records follow as single-source entries (Retraction Watch order
// first, then remaining PubMed order).
//
// A DOI appearing twice within one input violates the upstream dedup
// guarantee and is returned as an error rather than silently collapsed.
func Fuse(retractionWatch, pubmed []types.Record) ([]types.UnionRecord, error) {
	byDOI := make(map[string]types.Record, len(pubmed))
	for _, rec := range pubmed {
		if _, dup := byDOI[rec.DOI]; dup {
			return nil, fmt.Errorf("duplicate DOI %q in PubMed qualifying set: upstream dedup guarantee broken", rec.DOI)
		}
		byDOI[rec.DOI] = rec
	}

	seen := make(map[string]struct{}, len(retractionWatch))
	matched := make(map[string]struct{}, len(retractionWatch))

	out := make([]types.UnionRecord, 0, len(retractionWatch)+len(pubmed))
	for _, rw := range retractionWatch {
		if _, dup := seen[rw.DOI]; dup {
			return nil, fmt.Errorf("duplicate DOI %q in Retraction Watch qualifying set: upstream dedup guarantee broken", rw.DOI)
		}
		seen[rw.DOI] = struct{}{}

		pm, ok := byDOI[rw.DOI]
		if !ok {
			out = append(out, singleSource(rw))
			continue
		}
		matched[rw.DOI] = struct{}{}
		out = append(out, types.UnionRecord{
			DOI:                      rw.DOI,
			Author:                   preferPubMed(pm.Field(types.FieldAuthor), rw.Field(types.FieldAuthor)),
			Title:                    preferPubMed(pm.Field(types.FieldTitle), rw.Field(types.FieldTitle)),
			Journal:                  preferPubMed(pm.Field(types.FieldJournal), rw.Field(types.FieldJournal)),
			Year:                     preferPubMedYear(pm.Year, rw.Year),
			PubMedID:                 preferPubMed(pm.PubMedID, rw.PubMedID),
			IndexedInRetractionWatch: true,
			IndexedInPubMed:          true,
			CoveredInRetractionWatch: true,
			CoveredInPubMed:          true, // indexing implies coverage
		})
	}

	for _, pm := range pubmed {
		if _, ok := matched[pm.DOI]; ok {
			continue
		}
		out = append(out, singleSource(pm))
	}

	return out, nil
}

// singleSource builds a union record from one source's survivor when the
// other source has no record for the DOI.
func singleSource(rec types.Record) types.UnionRecord {
	u := types.UnionRecord{
		DOI:      rec.DOI,
		Author:   rec.Field(types.FieldAuthor),
		Title:    rec.Field(types.FieldTitle),
		Journal:  rec.Field(types.FieldJournal),
		Year:     rec.Year,
		PubMedID: rec.PubMedID,

		// Every union-list entry is definitionally covered by the union
		// list's own sources of record; Retraction Watch coverage is true
		// by construction.
		CoveredInRetractionWatch: true,
	}
	switch rec.Source {
	case types.SourcePubMed:
		u.IndexedInPubMed = true
		u.CoveredInPubMed = true // indexing implies coverage
	default:
		u.IndexedInRetractionWatch = true
	}
	return u
}

// MergeCoverage folds the PubMed coverage signal into the union list and
// returns a new list of the same length and order. Only CoveredInPubMed may
// change, and only monotonically: a record becomes covered when its PMID
// appears in the set, and nothing ever clears an indexed flag or a coverage
// flag already set. Records absent from the set default to not covered,
// which undercounts true PubMed coverage for records whose PMID never
// reached the coverage query. Merging twice with the same set is a no-op.
func MergeCoverage(list []types.UnionRecord, covered types.CoverageSet) []types.UnionRecord {
	out := make([]types.UnionRecord, len(list))
	for i, u := range list {
		u.CoveredInRetractionWatch = true
		if u.IndexedInPubMed {
			u.CoveredInPubMed = true
		}
		if u.PubMedID != "" && covered.Contains(u.PubMedID) {
			u.CoveredInPubMed = true
		}
		out[i] = u
	}
	return out
}
