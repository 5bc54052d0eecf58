// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the retraction-index pipeline.
// Implements: prd001-collection (Record, R2.1-R2.4);
//
//	prd002-unionlist (Dataset, Exclusion, UnionRecord, R1-R5);
//	prd003-coverage (CoverageSet, R2.1-R2.3).
//
// See docs/ARCHITECTURE.md § Pipeline Interface, § Data Structures.
package types

import "strings"

// Source identifies which retraction data source a record came from.
type Source string

const (
	SourceRetractionWatch Source = "retraction_watch"
	SourcePubMed          Source = "pubmed"
)

// DisplayName returns the human-readable source name used in reports.
func (s Source) DisplayName() string {
	switch s {
	case SourceRetractionWatch:
		return "Retraction Watch"
	case SourcePubMed:
		return "PubMed"
	default:
		return string(s)
	}
}

// DOIPrefix is the prefix every well-formed DOI starts with. Records whose
// DOI does not carry this prefix are excluded from deduplication and fusion.
const DOIPrefix = "10."

// Canonical names for passthrough metadata columns shared by both sources.
const (
	FieldTitle   = "title"
	FieldAuthor  = "author"
	FieldJournal = "journal"
)

// Record is one publication row after normalization. The typed fields are the
// identifiers and values the engine branches on; everything else from the
// source CSV is carried unchanged in Fields, keyed by canonical column name.
// An absent identifier is the empty string, never a sentinel value.
type Record struct {
	// DOI is the persistent cross-database identifier, lowercased and
	// trimmed. Empty when the source row had none.
	DOI string `json:"doi" yaml:"doi"`

	// PubMedID is the PubMed identifier of the retracted publication,
	// as a numeric string. Empty when absent.
	PubMedID string `json:"pubmed_id" yaml:"pubmed_id"`

	// RetractionNoticePubMedID identifies the retraction notice itself.
	RetractionNoticePubMedID string `json:"retraction_notice_pubmed_id" yaml:"retraction_notice_pubmed_id"`

	// Year is the publication year, 0 when it could not be determined.
	Year int `json:"year" yaml:"year"`

	// Source tags which database the row came from.
	Source Source `json:"source" yaml:"source"`

	// Fields holds the remaining source metadata (title, journal, ...)
	// keyed by canonical column name. Passthrough only.
	Fields map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// HasValidDOI reports whether the record carries a well-formed DOI.
func (r Record) HasValidDOI() bool {
	return strings.HasPrefix(r.DOI, DOIPrefix)
}

// Field returns the named passthrough field, or "" when absent.
func (r Record) Field(name string) string {
	return r.Fields[name]
}

// Dataset is an ordered collection of records from one source. Columns
// preserves the passthrough column order of the source extract so that
// written artifacts keep a stable layout.
type Dataset struct {
	Source  Source   `json:"source" yaml:"source"`
	Columns []string `json:"columns" yaml:"columns"`
	Records []Record `json:"records" yaml:"records"`
}

// ExclusionReason explains why a record was routed out of the union list.
type ExclusionReason string

const (
	// ReasonDuplicateID marks a record sharing a DOI with an earlier record
	// from the same source.
	ReasonDuplicateID ExclusionReason = "duplicate_id"

	// ReasonMissingID marks a record whose DOI is absent or malformed.
	ReasonMissingID ExclusionReason = "missing_or_invalid_id"
)

// Exclusion is a record removed from the union-list path, retained for audit.
type Exclusion struct {
	Record Record          `json:"record" yaml:"record"`
	Reason ExclusionReason `json:"reason" yaml:"reason"`
}

// CoverageSet is the set of PubMed IDs known to be present in PubMed's
// corpus, independent of retraction flagging. A missing PMID means coverage
// is unknown and is treated as not covered (a documented undercount).
type CoverageSet map[string]struct{}

// NewCoverageSet builds a CoverageSet from a list of PMIDs, ignoring blanks.
func NewCoverageSet(pmids []string) CoverageSet {
	set := make(CoverageSet, len(pmids))
	for _, id := range pmids {
		id = strings.TrimSpace(id)
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// Contains reports whether pmid is in the set.
func (c CoverageSet) Contains(pmid string) bool {
	_, ok := c[pmid]
	return ok
}

// PMIDs returns the set members in unspecified order.
func (c CoverageSet) PMIDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	return ids
}
