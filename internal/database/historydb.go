package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/notemd/notemd/internal/model"
)

// dbFileName is the ledger file name inside the history directory.
const dbFileName = "notemd.db"

// HistoryDB provides SQLite-based storage for the export history ledger.
//
// Design decision: We use a single database file for all runs rather
// than one file per export root. This keeps the history command a single
// query and makes backup a single-file copy.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended; a run insert
	// and a history query can overlap when exports run back to back.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw refuses to create a
	// new file, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// Path returns the path of the database file.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Runs store one row per completed export run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		root_id TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		exported INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		output_dir TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_root ON runs(root_id);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Documents store one row per exported page within a run
	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		page_id TEXT NOT NULL,
		title TEXT NOT NULL,
		filename TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_documents_run ON documents(run_id);
	CREATE INDEX IF NOT EXISTS idx_documents_page ON documents(page_id);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// RecordRun inserts a run and its documents in one transaction and
// returns the assigned run id.
func (hdb *HistoryDB) RecordRun(ctx context.Context, run *model.RunRecord, docs []model.DocumentRecord) (int64, error) {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
	INSERT INTO runs (root_id, started_at, finished_at, exported, skipped, output_dir)
	VALUES (?, ?, ?, ?, ?, ?)
	`,
		run.RootID.String(),
		run.StartedAt.UTC().Format(time.RFC3339),
		run.FinishedAt.UTC().Format(time.RFC3339),
		run.Exported,
		run.Skipped,
		run.OutputDir,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	for _, doc := range docs {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO documents (run_id, page_id, title, filename)
		VALUES (?, ?, ?, ?)
		`,
			runID,
			doc.PageID.String(),
			doc.Title,
			doc.Filename,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert document: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// Runs returns the most recent runs, newest first. A non-positive limit
// returns all runs.
func (hdb *HistoryDB) Runs(ctx context.Context, limit int) ([]model.RunRecord, error) {
	query := `
	SELECT id, root_id, started_at, finished_at, exported, skipped, output_dir
	FROM runs
	ORDER BY started_at DESC, id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var results []model.RunRecord
	for rows.Next() {
		var run model.RunRecord
		var rootID, startedAt, finishedAt string

		if err := rows.Scan(&run.ID, &rootID, &startedAt, &finishedAt, &run.Exported, &run.Skipped, &run.OutputDir); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.RootID = model.PageID(rootID)
		run.StartedAt = parseTimestamp(startedAt)
		run.FinishedAt = parseTimestamp(finishedAt)
		results = append(results, run)
	}

	return results, rows.Err()
}

// Run retrieves a single run by id. Returns nil when the run does not
// exist.
func (hdb *HistoryDB) Run(ctx context.Context, id int64) (*model.RunRecord, error) {
	query := `
	SELECT id, root_id, started_at, finished_at, exported, skipped, output_dir
	FROM runs
	WHERE id = ?
	`

	var run model.RunRecord
	var rootID, startedAt, finishedAt string

	err := hdb.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID, &rootID, &startedAt, &finishedAt, &run.Exported, &run.Skipped, &run.OutputDir,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run.RootID = model.PageID(rootID)
	run.StartedAt = parseTimestamp(startedAt)
	run.FinishedAt = parseTimestamp(finishedAt)
	return &run, nil
}

// Documents returns the documents recorded for a run, in insertion order.
func (hdb *HistoryDB) Documents(ctx context.Context, runID int64) ([]model.DocumentRecord, error) {
	query := `
	SELECT run_id, page_id, title, filename
	FROM documents
	WHERE run_id = ?
	ORDER BY id
	`

	rows, err := hdb.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var results []model.DocumentRecord
	for rows.Next() {
		var doc model.DocumentRecord
		var pageID string

		if err := rows.Scan(&doc.RunID, &pageID, &doc.Title, &doc.Filename); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		doc.PageID = model.PageID(pageID)
		results = append(results, doc)
	}

	return results, rows.Err()
}

// LastRunForRoot returns the most recent run for a root page, or nil when
// the root has never been exported.
func (hdb *HistoryDB) LastRunForRoot(ctx context.Context, rootID model.PageID) (*model.RunRecord, error) {
	query := `
	SELECT id, root_id, started_at, finished_at, exported, skipped, output_dir
	FROM runs
	WHERE root_id = ?
	ORDER BY started_at DESC, id DESC
	LIMIT 1
	`

	var run model.RunRecord
	var gotRootID, startedAt, finishedAt string

	err := hdb.db.QueryRowContext(ctx, query, rootID.String()).Scan(
		&run.ID, &gotRootID, &startedAt, &finishedAt, &run.Exported, &run.Skipped, &run.OutputDir,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last run: %w", err)
	}

	run.RootID = model.PageID(gotRootID)
	run.StartedAt = parseTimestamp(startedAt)
	run.FinishedAt = parseTimestamp(finishedAt)
	return &run, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. SQLite may return timestamps in different formats depending on
// configuration. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
