package resources

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `CREATE TABLE IF NOT EXISTS drawables (
	name TEXT PRIMARY KEY,
	data BLOB NOT NULL
)`

// SQLite is a Store backed by the drawables table of a SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens the SQLite database at dsn and creates the drawables table if it does not exist.
func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Put stores an encoded image under the given name, replacing any existing image.
func (s *SQLite) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO drawables (name, data) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data`, name, data)
	if err != nil {
		return fmt.Errorf("storing %q: %w", name, err)
	}
	return nil
}

// Open implements Store.
func (s *SQLite) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM drawables WHERE name = ?`, name).Scan(&data)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("loading %q: %w", name, ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("loading %q: %w", name, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
