// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedupe partitions a source's records into survivors, duplicates,
// and identifier exclusions ahead of fusion.
// Implements: prd002-unionlist (R2.1-R2.6);
//
//	docs/ARCHITECTURE.md § Deduplication.
package dedupe

import "github.com/pdiddy/retraction-index/pkg/types"

// Policy decides, for two records sharing a DOI, whether the candidate
// supersedes the current survivor. Keeping the policy separate from the
// partition mechanics lets the survival rule change without touching the
// partitioning itself.
type Policy func(survivor, candidate types.Record) bool

// FirstWins keeps the record encountered first in ingestion order. This is
// the resolution policy for both sources.
func FirstWins(survivor, candidate types.Record) bool { return false }

// Partition walks records in ingestion order and collapses records sharing a
// valid DOI down to one survivor under policy (nil means FirstWins). The two
// returned slices exactly partition the input and preserve its order; no
// record appears in both. Records without a valid DOI do not participate in
// the dedup keyspace and pass through to the survivor stream untouched, one
// each, for the identifier filter to route.
//
// The seen-DOI state is local to the call, so Partition is safe to invoke
// repeatedly over different inputs.
func Partition(records []types.Record, policy Policy) (survivors, duplicates []types.Record) {
	if policy == nil {
		policy = FirstWins
	}

	index := make(map[string]int, len(records)) // DOI -> position in survivors
	for _, rec := range records {
		if !rec.HasValidDOI() {
			survivors = append(survivors, rec)
			continue
		}
		pos, seen := index[rec.DOI]
		if !seen {
			index[rec.DOI] = len(survivors)
			survivors = append(survivors, rec)
			continue
		}
		if policy(survivors[pos], rec) {
			duplicates = append(duplicates, survivors[pos])
			survivors[pos] = rec
		} else {
			duplicates = append(duplicates, rec)
		}
	}
	return survivors, duplicates
}

// SplitByIdentifier partitions survivors into records that carry a
// well-formed DOI and records that do not. The two slices exactly partition
// the input in order. Excluded records are retained for audit, never
// discarded.
func SplitByIdentifier(records []types.Record) (qualifying []types.Record, excluded []types.Record) {
	for _, rec := range records {
		if rec.HasValidDOI() {
			qualifying = append(qualifying, rec)
		} else {
			excluded = append(excluded, rec)
		}
	}
	return qualifying, excluded
}

// AsExclusions tags records with the given audit reason.
func AsExclusions(records []types.Record, reason types.ExclusionReason) []types.Exclusion {
	out := make([]types.Exclusion, len(records))
	for i, rec := range records {
		out[i] = types.Exclusion{Record: rec, Reason: reason}
	}
	return out
}
