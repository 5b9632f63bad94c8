package store

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"

	"github.com/simonvc/ledgerbook/internal/ledger"
	_ "modernc.org/sqlite"
)

type TxnFilter struct {
	Type   ledger.Type
	Limit  int
	Offset int
}

// Store persists transactions in a SQLite file. Writes go through a single
// connection; reads use a separate pool.
type Store struct {
	writer *sql.DB
	reader *sql.DB
	path   string
}

// Open opens (creating if absent) the database at dbPath and initializes the
// schema. Any failure wraps ledger.ErrStorageUnavailable.
func Open(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", dbPath)

	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open writer: %w", ledger.ErrStorageUnavailable, err)
	}
	writer.SetMaxOpenConns(1)

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		writer.Close()
		return nil, fmt.Errorf("%w: open reader: %w", ledger.ErrStorageUnavailable, err)
	}
	reader.SetMaxOpenConns(runtime.NumCPU())

	s := &Store{writer: writer, reader: reader, path: dbPath}

	if err := s.Initialize(context.Background()); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	err1 := s.writer.Close()
	err2 := s.reader.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
