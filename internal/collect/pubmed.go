// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/retraction-index/internal/artifact"
	"github.com/pdiddy/retraction-index/internal/httputil"
	"github.com/pdiddy/retraction-index/pkg/types"
)

// E-utilities endpoints. Declared as vars so tests can substitute httptest
// servers.
var (
	esearchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	esummaryBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esummary.fcgi"
)

// DefaultPubMedTerm selects publications PubMed flags as retracted.
const DefaultPubMedTerm = `"Retracted Publication"[PT]`

// esearchRetMax stays under PubMed's 10,000-results-per-search cap; the
// date-range chunking keeps any single chunk below it.
const esearchRetMax = 9999

// pubmedColumns is the source-native header of the raw PubMed extract. The
// normalizer renames these to canonical form.
var pubmedColumns = []string{"Title", "Author", "Journal", "Year", "DOI", "PubMedID", "RetractionPubMedID"}

// PubMed queries the retracted-publication set in date-range chunks, fetches
// summaries in batches, and writes the raw extract to
// dataDir/{date}_pubmed.csv. Chunking by publication year keeps each search
// under the undocumented server-side result cap; the chunk interval must be
// small enough that no chunk exceeds it (two years is safe as of 2025, with
// over 6,000 retractions in a single recent year).
func PubMed(ctx context.Context, client *http.Client, cfg types.PubMedConfig, date string, w io.Writer) (string, error) {
	term := cfg.Term
	if term == "" {
		term = DefaultPubMedTerm
	}
	startYear := cfg.StartYear
	if startYear == 0 {
		startYear = 1950
	}
	endYear := cfg.EndYear
	if endYear == 0 {
		endYear = time.Now().Year()
	}
	interval := cfg.IntervalYears
	if interval <= 0 {
		interval = 2
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 300
	}

	var pmids []string
	seen := make(map[string]struct{})

	for year := startYear; year <= endYear; year += interval {
		chunkEnd := year + interval - 1
		if chunkEnd > endYear {
			chunkEnd = endYear
		}

		ids, err := esearchDateRange(ctx, client, cfg, term, year, chunkEnd, w)
		if err != nil {
			return "", fmt.Errorf("searching %d-%d: %w", year, chunkEnd, err)
		}
		fmt.Fprintf(w, "searched %d-%d: %d records\n", year, chunkEnd, len(ids))

		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			pmids = append(pmids, id)
		}

		if err := sleepCtx(ctx, cfg.RequestDelay); err != nil {
			return "", err
		}
	}

	fmt.Fprintf(w, "fetching summaries for %d records\n", len(pmids))

	var rows []map[string]string
	for start := 0; start < len(pmids); start += batchSize {
		end := start + batchSize
		if end > len(pmids) {
			end = len(pmids)
		}
		batch, err := esummaryBatch(ctx, client, cfg, pmids[start:end], w)
		if err != nil {
			return "", fmt.Errorf("fetching summaries %d-%d: %w", start, end, err)
		}
		rows = append(rows, batch...)

		if err := sleepCtx(ctx, cfg.RequestDelay); err != nil {
			return "", err
		}
	}

	path := artifact.Path(cfg.DataDir, date, artifact.StemPubMed)
	if err := artifact.WriteTable(path, pubmedColumns, rows); err != nil {
		return "", err
	}
	fmt.Fprintf(w, "wrote %s (%d records)\n", path, len(rows))
	return path, nil
}

type esearchResponse struct {
	ESearchResult struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

func esearchDateRange(ctx context.Context, client *http.Client, cfg types.PubMedConfig, term string, fromYear, toYear int, w io.Writer) ([]string, error) {
	params := url.Values{
		"db":       {"pubmed"},
		"term":     {term},
		"retmode":  {"json"},
		"retmax":   {fmt.Sprintf("%d", esearchRetMax)},
		"datetype": {"pdat"},
		"mindate":  {fmt.Sprintf("%d", fromYear)},
		"maxdate":  {fmt.Sprintf("%d", toYear)},
	}
	addCredentials(params, cfg)

	var sr esearchResponse
	if err := getJSON(ctx, client, cfg.HTTPConfig, esearchBase, params, &sr, w); err != nil {
		return nil, err
	}
	return sr.ESearchResult.IDList, nil
}

type pubmedSummary struct {
	UID         string `json:"uid"`
	Title       string `json:"title"`
	FullJournal string `json:"fulljournalname"`
	PubDate     string `json:"pubdate"`
	ELocationID string `json:"elocationid"`
	Authors     []struct {
		Name string `json:"name"`
	} `json:"authors"`
	ArticleIDs []struct {
		IDType string `json:"idtype"`
		Value  string `json:"value"`
	} `json:"articleids"`
}

type esummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

func esummaryBatch(ctx context.Context, client *http.Client, cfg types.PubMedConfig, pmids []string, w io.Writer) ([]map[string]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(pmids, ",")},
		"retmode": {"json"},
	}
	addCredentials(params, cfg)

	var er esummaryResponse
	if err := getJSON(ctx, client, cfg.HTTPConfig, esummaryBase, params, &er, w); err != nil {
		return nil, err
	}

	var uids []string
	if raw, ok := er.Result["uids"]; ok {
		if err := json.Unmarshal(raw, &uids); err != nil {
			return nil, fmt.Errorf("parsing uids: %w", err)
		}
	}

	rows := make([]map[string]string, 0, len(uids))
	for _, uid := range uids {
		raw, ok := er.Result[uid]
		if !ok {
			continue
		}
		var s pubmedSummary
		if err := json.Unmarshal(raw, &s); err != nil {
			fmt.Fprintf(w, "warning: could not parse summary for PMID %s: %v\n", uid, err)
			continue
		}
		if s.UID == "" {
			s.UID = uid
		}
		rows = append(rows, summaryRow(s))
	}
	return rows, nil
}

// summaryRow flattens one esummary document into a raw extract row.
func summaryRow(s pubmedSummary) map[string]string {
	var names []string
	for _, a := range s.Authors {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}

	doi := ""
	for _, id := range s.ArticleIDs {
		if id.IDType == "doi" {
			doi = id.Value
			break
		}
	}
	if doi == "" && strings.HasPrefix(s.ELocationID, "doi: ") {
		doi = strings.TrimPrefix(s.ELocationID, "doi: ")
	}

	year, _, _ := strings.Cut(strings.TrimSpace(s.PubDate), " ")

	return map[string]string{
		"Title":              s.Title,
		"Author":             strings.Join(names, "; "),
		"Journal":            s.FullJournal,
		"Year":               year,
		"DOI":                doi,
		"PubMedID":           s.UID,
		"RetractionPubMedID": "",
	}
}

func addCredentials(params url.Values, cfg types.PubMedConfig) {
	if cfg.Email != "" {
		params.Set("email", cfg.Email)
	}
	if cfg.APIKey != "" {
		params.Set("api_key", cfg.APIKey)
	}
}

func getJSON(ctx context.Context, client *http.Client, httpCfg types.HTTPConfig, base string, params url.Values, v any, w io.Writer) error {
	return httputil.GetJSON(ctx, client, base, params, httpCfg.UserAgent, v, w)
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
