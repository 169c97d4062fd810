package store

import (
	"database/sql"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2"
)

const memoryPath = ":memory:"

// NewDB opens the duckdb database at path. ":memory:" opens a private
// in-memory database shared by every connection of the returned pool.
func NewDB(path string) (*sql.DB, error) {
	dsn := path
	if path == memoryPath {
		dsn = ""
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb at %q: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach duckdb at %q: %w", path, err)
	}
	return db, nil
}

// Store provides access to all storage repositories.
type Store struct {
	db   *sql.DB
	runs *RunStore
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:   db,
		runs: NewRunStore(NewQueryInterceptor(db)),
	}
}

func (s *Store) Runs() *RunStore {
	return s.runs
}

func (s *Store) Close() error {
	return s.db.Close()
}
