// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index catalogs converted documents in SQLite and keeps a
// full-text search index over their node names and types.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kreako/fig2json/internal/convert"
	"github.com/kreako/fig2json/internal/document"
	"github.com/kreako/fig2json/pkg/types"
)

const defaultMaxResults = 20

// Store manages the document catalog SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the catalog database at cfg.DBPath, creating
// the schema when it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("index: no database path configured")
	}
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
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
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL UNIQUE,
			name TEXT,
			file_type TEXT,
			version INTEGER,
			node_count INTEGER,
			converted_at TEXT,
			file_mod_time TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS nodes (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			guid TEXT NOT NULL,
			name TEXT,
			type TEXT,
			depth INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_document_id ON nodes(document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_type ON nodes(type)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='nodes_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE nodes_fts USING fts5(name, type, content=nodes, content_rowid=rowid)`,
			`CREATE TRIGGER nodes_ai AFTER INSERT ON nodes BEGIN
				INSERT INTO nodes_fts(rowid, name, type) VALUES (new.rowid, new.name, new.type);
			END`,
			`CREATE TRIGGER nodes_ad AFTER DELETE ON nodes BEGIN
				INSERT INTO nodes_fts(nodes_fts, rowid, name, type) VALUES('delete', old.rowid, old.name, old.type);
			END`,
			`CREATE TRIGGER nodes_au AFTER UPDATE ON nodes BEGIN
				INSERT INTO nodes_fts(nodes_fts, rowid, name, type) VALUES('delete', old.rowid, old.name, old.type);
				INSERT INTO nodes_fts(rowid, name, type) VALUES (new.rowid, new.name, new.type);
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

// IngestSummary holds counts from a catalog build run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest converts each container and catalogs its node tree. Files whose
// modification time matches the stored one are skipped, changed files
// replace their previous rows, so re-running over the same inputs is
// idempotent.
func (s *Store) Ingest(ctx context.Context, paths []string, opts convert.Options, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM documents WHERE path = ?`, path,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", path)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		res, err := convert.ConvertPath(path, opts)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			continue
		}

		if err := s.ingestDocument(ctx, res, modTime); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d nodes)\n", path, res.Meta.Nodes)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s (%d nodes)\n", path, res.Meta.Nodes)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

// ingestDocument replaces the catalog rows for one converted document in a
// single transaction.
func (s *Store) ingestDocument(ctx context.Context, res *convert.Result, modTime string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	meta := res.Meta
	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (path, name, file_type, version, node_count, converted_at, file_mod_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			name=excluded.name, file_type=excluded.file_type, version=excluded.version,
			node_count=excluded.node_count, converted_at=excluded.converted_at,
			file_mod_time=excluded.file_mod_time`,
		meta.Path, meta.Name, string(meta.Type), meta.Version, meta.Nodes,
		meta.ConvertedAt.Format(time.RFC3339), modTime,
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	var docID int64
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM documents WHERE path = ?`, meta.Path,
	).Scan(&docID); err != nil {
		return fmt.Errorf("resolving document id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes WHERE document_id = ?`, docID); err != nil {
		return fmt.Errorf("deleting old nodes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO nodes (document_id, guid, name, type, depth) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	var insertErr error
	res.Root.Walk(func(n *document.Node, depth int) {
		if insertErr != nil {
			return
		}
		if _, err := stmt.ExecContext(ctx, docID, n.GUID, n.Name(), n.Type, depth); err != nil {
			insertErr = fmt.Errorf("inserting node %s: %w", n.GUID, err)
		}
	})
	if insertErr != nil {
		return insertErr
	}

	return tx.Commit()
}
