// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "testing"

func TestHasValidDOI(t *testing.T) {
	tests := []struct {
		doi  string
		want bool
	}{
		{"10.1105/tpc.010357", true},
		{"10.", true},
		{"", false},
		{"doi:10.1/x", false},
		{"11.1/x", false},
		{"https://doi.org/10.1/x", false},
	}
	for _, tt := range tests {
		if got := (Record{DOI: tt.doi}).HasValidDOI(); got != tt.want {
			t.Errorf("HasValidDOI(%q) = %v, want %v", tt.doi, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := SourceRetractionWatch.DisplayName(); got != "Retraction Watch" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := SourcePubMed.DisplayName(); got != "PubMed" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := Source("other").DisplayName(); got != "other" {
		t.Errorf("DisplayName = %q", got)
	}
}

func TestCoverageSet(t *testing.T) {
	set := NewCoverageSet([]string{"111", " 222 ", ""})
	if len(set) != 2 {
		t.Fatalf("set size = %d, want 2 (blanks ignored)", len(set))
	}
	if !set.Contains("111") || !set.Contains("222") {
		t.Errorf("set missing members: %v", set)
	}
	if set.Contains("") {
		t.Error("empty PMID must never be covered")
	}
}
