package preference

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

const preferenceSchema = `CREATE TABLE IF NOT EXISTS preferences (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

// SQLiteStore keeps the record in a local sqlite file (pure Go driver).
type SQLiteStore struct {
	db  *sql.DB
	key string
}

// NewSQLiteStore opens (or creates) the database at path and applies the schema.
func NewSQLiteStore(ctx context.Context, path, key string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, preferenceSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, key: key}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, displayName string) {
	if !validName(displayName) {
		return
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences(key, value, updated_at) VALUES(?,?,?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, displayName, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		swallow("sqlite", "save", err)
	}
}

func (s *SQLiteStore) Load(ctx context.Context) (string, bool) {
	var val string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, s.key).Scan(&val)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			swallow("sqlite", "load", err)
		}
		return "", false
	}
	return val, validName(val)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
