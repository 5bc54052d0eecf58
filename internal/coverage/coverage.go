// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package coverage queries PubMed for corpus coverage of union-list records
// it does not index as retracted.
// Implements: prd003-coverage (R1.1-R1.5);
//
//	docs/ARCHITECTURE.md § Coverage.
package coverage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/retraction-index/internal/httputil"
	"github.com/pdiddy/retraction-index/pkg/types"
)

// esearchBase is the E-utilities search endpoint. Declared as a var so tests
// can substitute an httptest server.
var esearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"

// esearchRetMax caps results per coverage lookup; a batch of PMIDs can never
// return more hits than ids queried, so this only needs to exceed BatchSize.
const esearchRetMax = 10000

// Candidates returns the PMIDs worth querying for coverage: records indexed
// in Retraction Watch but not in PubMed, with a PMID on file. Coverage for
// PubMed-indexed records is implied by indexing and never queried. Records
// without a PMID cannot be looked up; they stay at the not-covered default,
// which is the documented undercount. Order follows the union list, each
// PMID once.
func Candidates(list []types.UnionRecord) []string {
	seen := make(map[string]struct{})
	var pmids []string
	for _, u := range list {
		if u.IndexedInPubMed || !u.IndexedInRetractionWatch || u.PubMedID == "" {
			continue
		}
		if _, dup := seen[u.PubMedID]; dup {
			continue
		}
		seen[u.PubMedID] = struct{}{}
		pmids = append(pmids, u.PubMedID)
	}
	return pmids
}

// Batch splits ids into consecutive slices of at most size elements.
func Batch(ids []string, size int) [][]string {
	if size <= 0 || len(ids) == 0 {
		return nil
	}
	var batches [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}

type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// Query asks PubMed, in batches, which of the given PMIDs exist in its
// corpus and returns the covered set. PMIDs the server does not echo back
// are simply absent from the set; the merger treats them as not covered.
func Query(ctx context.Context, client *http.Client, cfg types.CoverageConfig, pmids []string, w io.Writer) (types.CoverageSet, error) {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 300
	}

	covered := make(types.CoverageSet)
	batches := Batch(pmids, batchSize)
	for i, batch := range batches {
		if i > 0 {
			if err := sleepCtx(ctx, cfg.RequestDelay); err != nil {
				return nil, err
			}
		}

		params := url.Values{
			"db":      {"pubmed"},
			"term":    {strings.Join(batch, ",")},
			"retmode": {"json"},
			"retmax":  {fmt.Sprintf("%d", esearchRetMax)},
		}
		if cfg.Email != "" {
			params.Set("email", cfg.Email)
		}
		if cfg.APIKey != "" {
			params.Set("api_key", cfg.APIKey)
		}

		var sr esearchResponse
		if err := httputil.GetJSON(ctx, client, esearchBase, params, cfg.UserAgent, &sr, w); err != nil {
			return nil, fmt.Errorf("coverage batch %d/%d: %w", i+1, len(batches), err)
		}

		for _, id := range sr.ESearchResult.IDList {
			covered[id] = struct{}{}
		}
		fmt.Fprintf(w, "coverage batch %d/%d: %d of %d covered\n", i+1, len(batches), len(sr.ESearchResult.IDList), len(batch))
	}
	return covered, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
