// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index keeps synced meetings in a local SQLite database with a
// full-text index over their text, so past meetings can be searched and
// exported without re-reading the Granola cache.
package index

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

	"github.com/pdiddy/granola-sync/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "granola.db"

	defaultMaxResults = 20
)

// Store manages the meeting index database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates the index database at outputDir/index/granola.db
// and creates the schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	dir := filepath.Join(cfg.OutputDir, indexDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, dir: dir, maxResults: maxResults}
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
		`CREATE TABLE IF NOT EXISTS meetings (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			created_at TEXT,
			updated_at TEXT,
			folder TEXT,
			participants TEXT,
			tags TEXT,
			duration TEXT,
			transcript TEXT,
			notes TEXT,
			ai_summary TEXT,
			granola_url TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_meetings_folder ON meetings(folder)`,
		`CREATE INDEX IF NOT EXISTS idx_meetings_created_at ON meetings(created_at)`,
		`CREATE TABLE IF NOT EXISTS sync_runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			synced INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='meetings_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	// External-content FTS4: docid is the meetings rowid. Deletes must run
	// before the content row changes so the old terms can be removed.
	ftsStatements := []string{
		`CREATE VIRTUAL TABLE meetings_fts USING fts4(content="meetings", title, notes, ai_summary, transcript)`,
		`CREATE TRIGGER meetings_bu BEFORE UPDATE ON meetings BEGIN
			DELETE FROM meetings_fts WHERE docid = old.rowid;
		END`,
		`CREATE TRIGGER meetings_bd BEFORE DELETE ON meetings BEGIN
			DELETE FROM meetings_fts WHERE docid = old.rowid;
		END`,
		`CREATE TRIGGER meetings_au AFTER UPDATE ON meetings BEGIN
			INSERT INTO meetings_fts(docid, title, notes, ai_summary, transcript)
			VALUES (new.rowid, new.title, new.notes, new.ai_summary, new.transcript);
		END`,
		`CREATE TRIGGER meetings_ai AFTER INSERT ON meetings BEGIN
			INSERT INTO meetings_fts(docid, title, notes, ai_summary, transcript)
			VALUES (new.rowid, new.title, new.notes, new.ai_summary, new.transcript);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// Upsert writes meetings in one transaction. An existing row with the same
// meeting ID is replaced field by field.
func (s *Store) Upsert(ctx context.Context, meetings []types.Meeting) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO meetings (id, title, created_at, updated_at, folder, participants, tags,
			duration, transcript, notes, ai_summary, granola_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, created_at=excluded.created_at, updated_at=excluded.updated_at,
			folder=excluded.folder, participants=excluded.participants, tags=excluded.tags,
			duration=excluded.duration, transcript=excluded.transcript, notes=excluded.notes,
			ai_summary=excluded.ai_summary, granola_url=excluded.granola_url`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, m := range meetings {
		participantsJSON, err := encodeList(m.Participants)
		if err != nil {
			return fmt.Errorf("encoding participants for %s: %w", m.ID, err)
		}
		tagsJSON, err := encodeList(m.Tags)
		if err != nil {
			return fmt.Errorf("encoding tags for %s: %w", m.ID, err)
		}
		_, err = stmt.ExecContext(ctx,
			m.ID, m.Title, m.CreatedAt, m.UpdatedAt, m.Folder,
			participantsJSON, tagsJSON,
			m.Duration, m.Transcript, m.Notes, m.AISummary, m.URL,
		)
		if err != nil {
			return fmt.Errorf("upserting meeting %s: %w", m.ID, err)
		}
	}

	return tx.Commit()
}

// Count returns the number of indexed meetings.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM meetings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting meetings: %w", err)
	}
	return n, nil
}

// Run is one recorded sync run.
type Run struct {
	ID        string    `json:"id" yaml:"id"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Synced    int       `json:"synced" yaml:"synced"`
	Skipped   int       `json:"skipped" yaml:"skipped"`
	Failed    int       `json:"failed" yaml:"failed"`
}

// RecordRun stores r, assigning a new run ID when r.ID is empty, and
// returns the stored run.
func (s *Store) RecordRun(ctx context.Context, r Run) (Run, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sync_runs (id, started_at, synced, skipped, failed) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UTC().Format(time.RFC3339Nano), r.Synced, r.Skipped, r.Failed,
	)
	if err != nil {
		return Run{}, fmt.Errorf("recording sync run: %w", err)
	}
	return r, nil
}

// Runs returns up to limit recorded runs, most recent first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, synced, skipped, failed FROM sync_runs
		 ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sync runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			started string
		)
		if err := rows.Scan(&r.ID, &started, &r.Synced, &r.Skipped, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.StartedAt, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("parsing started_at of run %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// encodeList stores a string list as a JSON array; nil becomes "[]" so
// json_each always sees an array.
func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
