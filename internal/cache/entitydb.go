package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/wikinovels/internal/model"
)

// FileName is the name of the cache database inside the cache directory.
const FileName = "wikinovels.db"

// EntityDB is a SQLite cache of Wikidata entity documents, page title
// resolutions and a log of collector runs. It implements wikidata.Store.
type EntityDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// ttl is how long cached entries stay valid.
	ttl time.Duration

	// now returns the current time. Tests replace it.
	now func() time.Time
}

// Options configures EntityDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool

	// TTL is how long cached entries stay valid. Zero keeps them forever.
	TTL time.Duration
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
		TTL:               7 * 24 * time.Hour,
	}
}

// Open opens or creates an EntityDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*EntityDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw prevents modernc.org/sqlite from creating a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	edb := &EntityDB{
		db:     db,
		dbPath: dbPath,
		ttl:    opts.TTL,
		now:    time.Now,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := edb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return edb, nil
}

// Close closes the database connection.
func (edb *EntityDB) Close() error {
	return edb.db.Close()
}

// Path returns the database file path.
func (edb *EntityDB) Path() string {
	return edb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (edb *EntityDB) createTables() error {
	schema := `
	-- Raw Special:EntityData documents keyed by entity id
	CREATE TABLE IF NOT EXISTS entities (
		id TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		fetched_at INTEGER NOT NULL
	);

	-- enwiki page title to item id resolutions
	CREATE TABLE IF NOT EXISTS titles (
		title TEXT PRIMARY KEY,
		entity_id TEXT NOT NULL,
		resolved_at INTEGER NOT NULL
	);

	-- One row per finished collector run
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		record_limit INTEGER NOT NULL,
		deep INTEGER NOT NULL,
		candidates INTEGER NOT NULL,
		records INTEGER NOT NULL,
		truncated INTEGER NOT NULL,
		snapshot_path TEXT,
		started_at TEXT NOT NULL,
		duration_ms INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`

	_, err := edb.db.ExecContext(context.Background(), schema)
	return err
}

// cutoff returns the oldest unix time at which an entry is still valid.
func (edb *EntityDB) cutoff() int64 {
	if edb.ttl <= 0 {
		return 0
	}
	return edb.now().Add(-edb.ttl).Unix()
}

// Entity returns the cached document for id if it has not expired.
func (edb *EntityDB) Entity(ctx context.Context, id string) ([]byte, bool, error) {
	query := `SELECT data FROM entities WHERE id = ? AND fetched_at >= ?`

	var data []byte
	err := edb.db.QueryRowContext(ctx, query, id, edb.cutoff()).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get entity %s: %w", id, err)
	}
	return data, true, nil
}

// PutEntity inserts or replaces the document for id.
func (edb *EntityDB) PutEntity(ctx context.Context, id string, data []byte) error {
	query := `
	INSERT INTO entities (id, data, fetched_at)
	VALUES (?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		data = excluded.data,
		fetched_at = excluded.fetched_at
	`

	if _, err := edb.db.ExecContext(ctx, query, id, data, edb.now().Unix()); err != nil {
		return fmt.Errorf("failed to store entity %s: %w", id, err)
	}
	return nil
}

// Title returns the cached item id for a page title if it has not expired.
func (edb *EntityDB) Title(ctx context.Context, title string) (string, bool, error) {
	query := `SELECT entity_id FROM titles WHERE title = ? AND resolved_at >= ?`

	var id string
	err := edb.db.QueryRowContext(ctx, query, title, edb.cutoff()).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get title %q: %w", title, err)
	}
	return id, true, nil
}

// PutTitle inserts or replaces a title resolution.
func (edb *EntityDB) PutTitle(ctx context.Context, title, id string) error {
	query := `
	INSERT INTO titles (title, entity_id, resolved_at)
	VALUES (?, ?, ?)
	ON CONFLICT(title) DO UPDATE SET
		entity_id = excluded.entity_id,
		resolved_at = excluded.resolved_at
	`

	if _, err := edb.db.ExecContext(ctx, query, title, id, edb.now().Unix()); err != nil {
		return fmt.Errorf("failed to store title %q: %w", title, err)
	}
	return nil
}

// RunRecord is a stored summary of a collector run.
type RunRecord struct {
	ID           string
	Category     string
	Limit        int
	Deep         bool
	Candidates   int
	Records      int
	Truncated    bool
	SnapshotPath string
	StartedAt    time.Time
	Duration     time.Duration
}

// RecordRun stores the summary of a finished run.
func (edb *EntityDB) RecordRun(ctx context.Context, run *model.Run, elapsed time.Duration) error {
	query := `
	INSERT INTO runs (id, category, record_limit, deep, candidates, records, truncated, snapshot_path, started_at, duration_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := edb.db.ExecContext(ctx, query,
		run.ID,
		run.Category,
		run.Limit,
		run.Deep,
		len(run.Candidates),
		len(run.Records),
		run.Truncated,
		run.SnapshotPath,
		run.StartedAt.UTC().Format(time.RFC3339),
		elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Runs returns up to limit stored runs, newest first.
func (edb *EntityDB) Runs(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, category, record_limit, deep, candidates, records, truncated, snapshot_path, started_at, duration_ms
	FROM runs
	ORDER BY started_at DESC
	LIMIT ?
	`

	rows, err := edb.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var results []RunRecord
	for rows.Next() {
		var rec RunRecord
		var snapshotPath sql.NullString
		var startedAt string
		var durationMS int64

		err := rows.Scan(
			&rec.ID,
			&rec.Category,
			&rec.Limit,
			&rec.Deep,
			&rec.Candidates,
			&rec.Records,
			&rec.Truncated,
			&snapshotPath,
			&startedAt,
			&durationMS,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		rec.SnapshotPath = snapshotPath.String
		rec.StartedAt = parseTimestamp(startedAt)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		results = append(results, rec)
	}

	return results, rows.Err()
}

// Stats summarizes the cache contents.
type Stats struct {
	// Path is the database file.
	Path string

	// Entities is the number of cached entity documents.
	Entities int

	// ExpiredEntities is how many of them are past the TTL.
	ExpiredEntities int

	// Titles is the number of cached title resolutions.
	Titles int

	// Runs is the number of recorded runs.
	Runs int
}

// Stats returns counts of the cached rows.
func (edb *EntityDB) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Path: edb.dbPath}

	counts := []struct {
		query string
		args  []any
		dest  *int
	}{
		{query: `SELECT COUNT(*) FROM entities`, dest: &stats.Entities},
		{query: `SELECT COUNT(*) FROM entities WHERE fetched_at < ?`, args: []any{edb.cutoff()}, dest: &stats.ExpiredEntities},
		{query: `SELECT COUNT(*) FROM titles`, dest: &stats.Titles},
		{query: `SELECT COUNT(*) FROM runs`, dest: &stats.Runs},
	}
	for _, c := range counts {
		if err := edb.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dest); err != nil {
			return Stats{}, fmt.Errorf("failed to count cache rows: %w", err)
		}
	}
	return stats, nil
}

// Clear deletes all cached entities and titles. The run log is kept.
func (edb *EntityDB) Clear(ctx context.Context) error {
	tx, err := edb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"entities", "titles"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil { //nolint:gosec // table names are constants
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
