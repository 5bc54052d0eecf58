// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/retraction-index/internal/artifact"
	"github.com/pdiddy/retraction-index/internal/store"
	"github.com/pdiddy/retraction-index/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Index the union list into SQLite and query it",
	Long: `Store ingests a completed union list into a SQLite index for ad-hoc
lookup: exact DOI or PMID queries, full-text search over titles, and
aggregate counts. Re-indexing replaces the stored snapshot.`,
}

var storeIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Ingest the dated union list into the index",
	RunE:  runStoreIndex,
}

var storeQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the indexed union list",
	RunE:  runStoreQuery,
}

var storeCountsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Print aggregate counts from the index",
	RunE:  runStoreCounts,
}

func init() {
	storeCmd.PersistentFlags().String("index-dir", "index", "directory holding the SQLite database")

	storeQueryCmd.Flags().String("doi", "", "look up a single DOI")
	storeQueryCmd.Flags().String("pmid", "", "look up records by PubMed ID")
	storeQueryCmd.Flags().String("query", "", "full-text search over titles")
	storeQueryCmd.Flags().Int("limit", 0, "maximum results (default 20)")
	storeQueryCmd.Flags().Bool("json", false, "output results as JSON")

	storeCmd.AddCommand(storeIndexCmd)
	storeCmd.AddCommand(storeQueryCmd)
	storeCmd.AddCommand(storeCountsCmd)
	rootCmd.AddCommand(storeCmd)
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	indexDir, _ := cmd.Flags().GetString("index-dir")
	return store.NewStore(types.StoreConfig{IndexDir: indexDir})
}

func runStoreIndex(cmd *cobra.Command, args []string) error {
	dataDir, date := artifactTarget(cmd)
	w := cmd.OutOrStdout()

	list, err := artifact.ReadUnionList(artifact.Path(dataDir, date, artifact.StemUnionListWithCoverage))
	if err != nil {
		return fmt.Errorf("reading union list: %w", err)
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Index(cmd.Context(), date, list); err != nil {
		return fmt.Errorf("indexing union list: %w", err)
	}
	fmt.Fprintf(w, "indexed %d records for %s\n", len(list), date)
	return nil
}

func runStoreQuery(cmd *cobra.Command, args []string) error {
	doi, _ := cmd.Flags().GetString("doi")
	pmid, _ := cmd.Flags().GetString("pmid")
	text, _ := cmd.Flags().GetString("query")
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")
	w := cmd.OutOrStdout()

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	results, err := s.Query(cmd.Context(), store.QueryOptions{
		DOI:   doi,
		PMID:  pmid,
		Text:  text,
		Limit: limit,
	})
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for _, u := range results {
		fmt.Fprintf(w, "%s (%d) %s\n", u.DOI, u.Year, u.Title)
		fmt.Fprintf(w, "  pmid=%s indexed: rw=%t pubmed=%t covered: rw=%t pubmed=%t\n",
			u.PubMedID, u.IndexedInRetractionWatch, u.IndexedInPubMed,
			u.CoveredInRetractionWatch, u.CoveredInPubMed)
	}
	fmt.Fprintf(w, "%d result(s)\n", len(results))
	return nil
}

func runStoreCounts(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := s.Counts(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "total: %d\n", summary.Total)
	fmt.Fprintf(w, "indexed: rw=%d pubmed=%d both=%d\n",
		summary.RetractionWatch.Indexed, summary.PubMed.Indexed, summary.IndexedInBoth)
	fmt.Fprintf(w, "covered: rw=%d pubmed=%d both=%d\n",
		summary.RetractionWatch.Covered, summary.PubMed.Covered, summary.CoveredInBoth)
	fmt.Fprintf(w, "pairwise agreement: %s\n", summary.FormatAgreement())
	return nil
}
