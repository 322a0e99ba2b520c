// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/serpsheet/pkg/types"
)

var schema = []string{
	`CREATE TABLE runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		row_count INTEGER NOT NULL
	)`,
	`CREATE TABLE results (
		run_id TEXT NOT NULL REFERENCES runs(id),
		query TEXT NOT NULL,
		result_rank INTEGER NOT NULL,
		title TEXT NOT NULL,
		snippet TEXT NOT NULL,
		link TEXT NOT NULL,
		display_link TEXT NOT NULL,
		formatted_url TEXT NOT NULL,
		search_timestamp TEXT NOT NULL,
		PRIMARY KEY (run_id, query, result_rank)
	)`,
	`CREATE INDEX idx_results_query ON results(query)`,
}

// writeSQLite builds a fresh database for one run: a runs row keyed by a
// new UUID and one results row per ResultRow. The database is assembled
// under a temp name and renamed into place once committed.
func writeSQLite(ctx context.Context, path string, start time.Time, rows []types.ResultRow) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".serpsheet-*.db")
	if err != nil {
		return fmt.Errorf("creating temp database: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := fillSQLite(ctx, tmpPath, start.Format(types.TimestampLayout), rows); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp database: %w", err)
	}
	return nil
}

func fillSQLite(ctx context.Context, dbPath, startedAt string, rows []types.ResultRow) error {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	runID := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, row_count) VALUES (?, ?, ?)`,
		runID, startedAt, len(rows),
	); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO results
		(run_id, query, result_rank, title, snippet, link, display_link, formatted_url, search_timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			runID, r.Query, r.ResultRank, r.Title, r.Snippet,
			r.Link, r.DisplayLink, r.FormattedURL, r.SearchTimestamp,
		); err != nil {
			return fmt.Errorf("inserting result %q #%d: %w", r.Query, r.ResultRank, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing results: %w", err)
	}
	return nil
}
