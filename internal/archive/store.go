// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists a history of pipeline runs in a SQLite database
// so week-over-week output can be compared after the fact. Recording is
// optional; the feed and digest paths work identically with it disabled.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/laborwatch/pkg/types"
)

const dbFile = "archive.db"

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the archive database at cfg.DataDir/archive.db,
// creating the schema if it does not exist.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = filepath.Join("data", "archive")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
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
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			recorded_at TEXT NOT NULL,
			total_discovered INTEGER NOT NULL,
			total_after_dedup INTEGER NOT NULL,
			item_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_items (
			run_id TEXT NOT NULL REFERENCES runs(id),
			item_id TEXT NOT NULL,
			title TEXT,
			url TEXT,
			doi TEXT,
			source_kind TEXT,
			tier INTEGER,
			relevance_score INTEGER,
			citation_count INTEGER,
			composite_score INTEGER,
			linked_slugs TEXT,
			PRIMARY KEY (run_id, item_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_items_run_id ON run_items(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun stores one pipeline run and its output items. kind distinguishes
// feed runs from digest runs. Returns the generated run identifier.
func (s *Store) RecordRun(ctx context.Context, kind string, items []types.ClassifiedItem, discovered, deduped int) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, kind, recorded_at, total_discovered, total_after_dedup, item_count)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, kind, time.Now().UTC().Format(time.RFC3339Nano),
		discovered, deduped, len(items),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_items (run_id, item_id, title, url, doi, source_kind, tier, relevance_score, citation_count, composite_score, linked_slugs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		slugs := make([]string, 0, len(it.LinkedPredictions))
		for _, lp := range it.LinkedPredictions {
			slugs = append(slugs, lp.Slug)
		}
		slugsJSON, _ := json.Marshal(slugs)
		_, err := stmt.ExecContext(ctx,
			runID, it.ID, it.Title, it.URL, it.DOI, string(it.SourceKind),
			it.ClassifiedTier, it.RelevanceScore, it.CitationCount,
			it.CompositeScore, string(slugsJSON),
		)
		if err != nil {
			return "", fmt.Errorf("inserting item %s: %w", it.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// RunRecord is one row of run history.
type RunRecord struct {
	ID              string    `json:"id"`
	Kind            string    `json:"kind"`
	RecordedAt      time.Time `json:"recorded_at"`
	TotalDiscovered int       `json:"total_discovered"`
	TotalAfterDedup int       `json:"total_after_dedup"`
	ItemCount       int       `json:"item_count"`
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	// rowid order is insertion order; RFC3339Nano trims trailing zeros, so
	// the timestamp column does not sort lexicographically.
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, recorded_at, total_discovered, total_after_dedup, item_count
		 FROM runs ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var recordedAt string
		if err := rows.Scan(&r.ID, &r.Kind, &recordedAt, &r.TotalDiscovered, &r.TotalAfterDedup, &r.ItemCount); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.RecordedAt, _ = time.Parse(time.RFC3339Nano, recordedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ArchivedItem is one output item of a recorded run.
type ArchivedItem struct {
	ItemID         string   `json:"item_id"`
	Title          string   `json:"title"`
	URL            string   `json:"url"`
	DOI            string   `json:"doi,omitempty"`
	SourceKind     string   `json:"source_kind"`
	Tier           int      `json:"tier"`
	RelevanceScore int      `json:"relevance_score"`
	CitationCount  int      `json:"citation_count"`
	CompositeScore int      `json:"composite_score"`
	LinkedSlugs    []string `json:"linked_slugs,omitempty"`
}

// RunItems returns the items recorded for one run, ordered by composite
// score descending.
func (s *Store) RunItems(ctx context.Context, runID string) ([]ArchivedItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, title, url, doi, source_kind, tier, relevance_score, citation_count, composite_score, linked_slugs
		 FROM run_items WHERE run_id = ? ORDER BY composite_score DESC, item_id ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run items: %w", err)
	}
	defer rows.Close()

	var out []ArchivedItem
	for rows.Next() {
		var it ArchivedItem
		var slugsJSON string
		if err := rows.Scan(&it.ItemID, &it.Title, &it.URL, &it.DOI, &it.SourceKind,
			&it.Tier, &it.RelevanceScore, &it.CitationCount, &it.CompositeScore, &slugsJSON); err != nil {
			return nil, fmt.Errorf("scanning run item: %w", err)
		}
		if slugsJSON != "" && slugsJSON != "[]" {
			if err := json.Unmarshal([]byte(slugsJSON), &it.LinkedSlugs); err != nil {
				return nil, fmt.Errorf("parsing linked slugs for %s: %w", it.ItemID, err)
			}
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
