package snapshot

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/bikatr7/folio/blogapi"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// SQLite stores snapshots in a local SQLite file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path, ensures the data
// directory exists and applies migrations.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open: %w", err)
	}
	// WAL lets readers proceed during a write; writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("snapshot: pragmas: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("snapshot: goose set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("snapshot: goose up: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Save upserts the list stored under name.
func (s *SQLite) Save(ctx context.Context, name string, posts []blogapi.Post) error {
	b, err := encode(posts)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO snapshots (name, payload, saved_at) VALUES (?, ?, ?)`,
		name, string(b), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("snapshot: save %s: %w", name, err)
	}
	return nil
}

// Load returns the list stored under name.
func (s *SQLite) Load(ctx context.Context, name string) (Snapshot, error) {
	var payload, savedAt string
	err := s.db.QueryRowContext(ctx, `SELECT payload, saved_at FROM snapshots WHERE name = ?`, name).
		Scan(&payload, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: load %s: %w", name, err)
	}
	posts, err := decode([]byte(payload))
	if err != nil {
		return Snapshot{}, err
	}
	at, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: saved_at: %w", err)
	}
	return Snapshot{Posts: posts, SavedAt: at}, nil
}
