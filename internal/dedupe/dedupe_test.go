// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedupe

import (
	"testing"

	"github.com/pdiddy/retraction-index/pkg/types"
)

func rec(doi, title string) types.Record {
	return types.Record{
		DOI:    doi,
		Source: types.SourceRetractionWatch,
		Fields: map[string]string{types.FieldTitle: title},
	}
}

func TestPartitionFirstWins(t *testing.T) {
	in := []types.Record{
		rec("10.1/a", "first"),
		rec("10.1/b", "other"),
		rec("10.1/a", "second"),
		rec("10.1/a", "third"),
	}

	survivors, duplicates := Partition(in, FirstWins)

	if len(survivors) != 2 {
		t.Fatalf("got %d survivors, want 2", len(survivors))
	}
	if len(duplicates) != 2 {
		t.Fatalf("got %d duplicates, want 2", len(duplicates))
	}
	if got := survivors[0].Field(types.FieldTitle); got != "first" {
		t.Errorf("survivor for 10.1/a = %q, want first occurrence", got)
	}
	for _, d := range duplicates {
		if d.DOI != "10.1/a" {
			t.Errorf("unexpected duplicate DOI %q", d.DOI)
		}
	}
}

func TestPartitionExact(t *testing.T) {
	in := []types.Record{
		rec("10.1/a", "a1"),
		rec("", "no doi"),
		rec("10.1/a", "a2"),
		rec("10.1/c", "c"),
		rec("10.1/a", "a3"),
	}

	survivors, duplicates := Partition(in, nil)

	if got := len(survivors) + len(duplicates); got != len(in) {
		t.Fatalf("partition lost or invented records: %d + %d != %d", len(survivors), len(duplicates), len(in))
	}

	// Every input record lands in exactly one stream.
	counts := make(map[string]int)
	for _, r := range append(append([]types.Record{}, survivors...), duplicates...) {
		counts[r.Field(types.FieldTitle)]++
	}
	for _, r := range in {
		if counts[r.Field(types.FieldTitle)] != 1 {
			t.Errorf("record %q appears %d times across streams", r.Field(types.FieldTitle), counts[r.Field(types.FieldTitle)])
		}
	}
}

func TestPartitionInvalidDOIPassesThrough(t *testing.T) {
	in := []types.Record{
		rec("", "empty one"),
		rec("", "empty two"),
		rec("12.5/bad", "bad prefix"),
		rec("12.5/bad", "bad prefix again"),
	}

	survivors, duplicates := Partition(in, FirstWins)

	// Records without a well-formed DOI never collapse onto each other.
	if len(duplicates) != 0 {
		t.Fatalf("got %d duplicates, want 0", len(duplicates))
	}
	if len(survivors) != len(in) {
		t.Fatalf("got %d survivors, want %d", len(survivors), len(in))
	}
}

func TestPartitionPreservesOrder(t *testing.T) {
	in := []types.Record{
		rec("10.1/z", "z"),
		rec("10.1/a", "a"),
		rec("10.1/m", "m"),
	}

	survivors, _ := Partition(in, FirstWins)

	for i, r := range survivors {
		if r.DOI != in[i].DOI {
			t.Errorf("survivors[%d] = %q, want %q (ingestion order)", i, r.DOI, in[i].DOI)
		}
	}
}

func TestSplitByIdentifier(t *testing.T) {
	in := []types.Record{
		rec("10.1/a", "valid"),
		rec("", "missing"),
		rec("not-a-doi", "malformed"),
		rec("10.9/z", "also valid"),
	}

	qualifying, excluded := SplitByIdentifier(in)

	if len(qualifying) != 2 || len(excluded) != 2 {
		t.Fatalf("split = %d/%d, want 2/2", len(qualifying), len(excluded))
	}
	for _, r := range qualifying {
		if !r.HasValidDOI() {
			t.Errorf("qualifying record %q lacks a valid DOI", r.Field(types.FieldTitle))
		}
	}
	for _, r := range excluded {
		if r.HasValidDOI() {
			t.Errorf("excluded record %q has a valid DOI", r.Field(types.FieldTitle))
		}
	}
}

func TestAsExclusions(t *testing.T) {
	in := []types.Record{rec("", "one"), rec("", "two")}

	out := AsExclusions(in, types.ReasonMissingID)

	if len(out) != len(in) {
		t.Fatalf("got %d exclusions, want %d", len(out), len(in))
	}
	for i, ex := range out {
		if ex.Reason != types.ReasonMissingID {
			t.Errorf("exclusion %d reason = %q", i, ex.Reason)
		}
		if ex.Record.Field(types.FieldTitle) != in[i].Field(types.FieldTitle) {
			t.Errorf("exclusion %d record mismatch", i)
		}
	}
}
