// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// UnionRecord is one fused entry of the union list, keyed by DOI.
// Per prd002-unionlist R3.2: when both sources hold a record for the same
// DOI, shared metadata comes from PubMed field-by-field, with Retraction
// Watch filling only fields PubMed left blank.
type UnionRecord struct {
	// DOI is the fusion key; unique across the union list.
	DOI string `json:"doi" yaml:"doi"`

	// Author, Title, Journal, Year and PubMedID are the shared metadata
	// fields carried into the union list under the fusion priority policy.
	Author   string `json:"author" yaml:"author"`
	Title    string `json:"title" yaml:"title"`
	Journal  string `json:"journal" yaml:"journal"`
	Year     int    `json:"year" yaml:"year"`
	PubMedID string `json:"pubmed_id" yaml:"pubmed_id"`

	// IndexedIn* report whether the source flags this publication as
	// retracted. At least one is always true.
	IndexedInRetractionWatch bool `json:"indexed_in_retraction_watch" yaml:"indexed_in_retraction_watch"`
	IndexedInPubMed          bool `json:"indexed_in_pubmed" yaml:"indexed_in_pubmed"`

	// CoveredIn* report whether the source's corpus contains the
	// publication at all. CoveredInRetractionWatch is definitionally true
	// for every union-list entry. CoveredInPubMed is an undercount for
	// records whose PMID never reached the coverage query.
	CoveredInRetractionWatch bool `json:"covered_in_retraction_watch" yaml:"covered_in_retraction_watch"`
	CoveredInPubMed          bool `json:"covered_in_pubmed" yaml:"covered_in_pubmed"`
}

// IndexedInBoth reports whether both sources flag the record as retracted.
func (u UnionRecord) IndexedInBoth() bool {
	return u.IndexedInRetractionWatch && u.IndexedInPubMed
}

// CoveredInBoth reports whether both sources cover the record.
func (u UnionRecord) CoveredInBoth() bool {
	return u.CoveredInRetractionWatch && u.CoveredInPubMed
}
