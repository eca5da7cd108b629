package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/MrSnakeDoc/favlauncher/internal/utils"
)

// Store is a key/value slot store on a local SQLite database in WAL mode.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open creates the database file and its parent directory when missing.
func Open(dbPath string) (*Store, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite db path is empty")
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer, and keeps :memory: databases on a single connection
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	s := &Store{db: db, path: dbPath, now: time.Now}
	if err := s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS slots (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("select slot: %w", err)
	}
	return data, true, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, data, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert slot: %w", err)
	}
	return nil
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM slots ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer utils.Close(rows)

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
