// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists the completed union list in a queryable SQLite index.
// Implements: prd005-store (R1-R4);
//
//	docs/ARCHITECTURE.md § Union-List Index.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/retraction-index/internal/aggregate"
	"github.com/pdiddy/retraction-index/pkg/types"
)

const dbFile = "retraction.db"

// Store manages the union-list SQLite index. It holds one snapshot of the
// union list at a time; re-indexing replaces the snapshot, so indexing the
// same dated artifact twice is a no-op in effect.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the index database at indexDir/retraction.db,
// creating the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS unionlist (
			doi TEXT PRIMARY KEY,
			author TEXT,
			title TEXT,
			journal TEXT,
			year INTEGER,
			pubmed_id TEXT,
			indexed_in_retraction_watch INTEGER NOT NULL,
			indexed_in_pubmed INTEGER NOT NULL,
			covered_in_retraction_watch INTEGER NOT NULL,
			covered_in_pubmed INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_unionlist_pmid ON unionlist(pubmed_id)`,
		`CREATE TABLE IF NOT EXISTS runs (
			run_date TEXT PRIMARY KEY,
			record_count INTEGER NOT NULL,
			indexed_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table over titles, with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='unionlist_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE unionlist_fts USING fts5(title, content=unionlist, content_rowid=rowid)`,
			`CREATE TRIGGER unionlist_ai AFTER INSERT ON unionlist BEGIN
				INSERT INTO unionlist_fts(rowid, title) VALUES (new.rowid, new.title);
			END`,
			`CREATE TRIGGER unionlist_ad AFTER DELETE ON unionlist BEGIN
				INSERT INTO unionlist_fts(unionlist_fts, rowid, title) VALUES('delete', old.rowid, old.title);
			END`,
			`CREATE TRIGGER unionlist_au AFTER UPDATE ON unionlist BEGIN
				INSERT INTO unionlist_fts(unionlist_fts, rowid, title) VALUES('delete', old.rowid, old.title);
				INSERT INTO unionlist_fts(rowid, title) VALUES (new.rowid, new.title);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}
	return nil
}

// Index replaces the stored snapshot with the given union list and records
// the run.
func (s *Store) Index(ctx context.Context, runDate string, list []types.UnionRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM unionlist`); err != nil {
		return fmt.Errorf("clearing previous snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO unionlist (doi, author, title, journal, year, pubmed_id,
			indexed_in_retraction_watch, indexed_in_pubmed,
			covered_in_retraction_watch, covered_in_pubmed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, u := range list {
		_, err := stmt.ExecContext(ctx,
			u.DOI, u.Author, u.Title, u.Journal, u.Year, u.PubMedID,
			boolInt(u.IndexedInRetractionWatch), boolInt(u.IndexedInPubMed),
			boolInt(u.CoveredInRetractionWatch), boolInt(u.CoveredInPubMed),
		)
		if err != nil {
			return fmt.Errorf("inserting %s: %w", u.DOI, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_date, record_count, indexed_at) VALUES (?, ?, ?)
		 ON CONFLICT(run_date) DO UPDATE SET
			record_count=excluded.record_count, indexed_at=excluded.indexed_at`,
		runDate, len(list), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}

	return tx.Commit()
}

// QueryOptions filters union-list lookups. Zero-value fields are ignored.
type QueryOptions struct {
	// DOI looks up a single record exactly.
	DOI string
	// PMID looks up records by PubMed ID.
	PMID string
	// Text full-text searches titles.
	Text string
	// Limit caps results; 0 means the store default.
	Limit int
}

// Query returns union records matching the options, in DOI order.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]types.UnionRecord, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = s.maxResults
	}

	var (
		where []string
		args  []any
	)
	query := `SELECT doi, author, title, journal, year, pubmed_id,
		indexed_in_retraction_watch, indexed_in_pubmed,
		covered_in_retraction_watch, covered_in_pubmed FROM unionlist`

	if opts.Text != "" {
		query += ` JOIN unionlist_fts ON unionlist.rowid = unionlist_fts.rowid`
		where = append(where, `unionlist_fts MATCH ?`)
		args = append(args, opts.Text)
	}
	if opts.DOI != "" {
		where = append(where, `doi = ?`)
		args = append(args, opts.DOI)
	}
	if opts.PMID != "" {
		where = append(where, `pubmed_id = ?`)
		args = append(args, opts.PMID)
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY doi LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying union list: %w", err)
	}
	defer rows.Close()

	var out []types.UnionRecord
	for rows.Next() {
		var (
			u                        types.UnionRecord
			idxRW, idxPM, cvRW, cvPM int
		)
		if err := rows.Scan(&u.DOI, &u.Author, &u.Title, &u.Journal, &u.Year, &u.PubMedID,
			&idxRW, &idxPM, &cvRW, &cvPM); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		u.IndexedInRetractionWatch = idxRW != 0
		u.IndexedInPubMed = idxPM != 0
		u.CoveredInRetractionWatch = cvRW != 0
		u.CoveredInPubMed = cvPM != 0
		out = append(out, u)
	}
	return out, rows.Err()
}

// Counts computes the aggregate summary from the stored snapshot. The result
// matches aggregate.Summarize over the same list.
func (s *Store) Counts(ctx context.Context) (aggregate.Summary, error) {
	row := s.db.QueryRowContext(ctx, `SELECT
		count(*),
		coalesce(sum(indexed_in_retraction_watch), 0),
		coalesce(sum(covered_in_retraction_watch), 0),
		coalesce(sum(covered_in_retraction_watch * (1 - indexed_in_retraction_watch)), 0),
		coalesce(sum(1 - covered_in_retraction_watch), 0),
		coalesce(sum(indexed_in_pubmed), 0),
		coalesce(sum(covered_in_pubmed), 0),
		coalesce(sum(covered_in_pubmed * (1 - indexed_in_pubmed)), 0),
		coalesce(sum(1 - covered_in_pubmed), 0),
		coalesce(sum(indexed_in_retraction_watch * indexed_in_pubmed), 0),
		coalesce(sum(covered_in_retraction_watch * covered_in_pubmed), 0)
	FROM unionlist`)

	var s2 aggregate.Summary
	s2.RetractionWatch.Source = types.SourceRetractionWatch
	s2.PubMed.Source = types.SourcePubMed
	err := row.Scan(
		&s2.Total,
		&s2.RetractionWatch.Indexed, &s2.RetractionWatch.Covered,
		&s2.RetractionWatch.CoveredNotIndexed, &s2.RetractionWatch.NotCovered,
		&s2.PubMed.Indexed, &s2.PubMed.Covered,
		&s2.PubMed.CoveredNotIndexed, &s2.PubMed.NotCovered,
		&s2.IndexedInBoth, &s2.CoveredInBoth,
	)
	if err != nil {
		return aggregate.Summary{}, fmt.Errorf("computing counts: %w", err)
	}
	return s2, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
