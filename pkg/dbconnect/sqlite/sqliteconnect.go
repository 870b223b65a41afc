package sqlite

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SqliteDatabase is an embedded store for local runs and tests.
// An in-memory DSN keeps one connection so every query sees the same database.
type SqliteDatabase struct {
	dsn string
	db  *sql.DB
	mu  sync.Mutex
}

func NewSqliteConnector(dsn string) *SqliteDatabase {
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}
	return &SqliteDatabase{dsn: dsn}
}

func (s *SqliteDatabase) Connect() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	db, err := sql.Open("sqlite", s.dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", s.dsn, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s.db = db
	return s.db, nil
}

func (s *SqliteDatabase) Ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return fmt.Errorf("database connection is not established")
	}
	return s.db.Ping()
}

func (s *SqliteDatabase) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
