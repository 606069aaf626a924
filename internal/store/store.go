package store

import (
	"database/sql"
	"fmt"

	"github.com/soundlens/soundlens/internal/migration"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the local cache of imported streaming-history exports.
type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(migration.Create); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
