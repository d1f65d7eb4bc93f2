// Package store is the SQLite data-access layer of the journal: schema
// migrations, the tag repository, the entry repository and the decoding of
// the entries_w_tags view.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pbaille/journal/internal/dbx"
	"github.com/pbaille/journal/internal/logging"
	"github.com/pbaille/journal/internal/store/migrations"
	"github.com/pressly/goose/v3"
)

var (
	// ErrInit is returned when the database cannot be opened or migrated.
	ErrInit = errors.New("storage initialization failed")
	// ErrNotFound is returned when an entry id does not exist.
	ErrNotFound = errors.New("not found")
)

// Store handles database operations
type Store struct {
	db  *sqlx.DB
	log logging.Logger
}

// Open opens (creating if needed) the database at path and brings its schema
// up to date. It is safe to call on every startup.
func Open(ctx context.Context, path string, log logging.Logger) (*Store, error) {
	db, err := sqlx.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", ErrInit, err)
	}
	// One writer, and ":memory:" databases live per connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: connect: %v", ErrInit, err)
	}

	s := &Store{db: db, log: log}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrInit, err)
	}

	return s, nil
}

func dsn(path string) string {
	return path + "?_foreign_keys=on&_busy_timeout=5000"
}

func (s *Store) migrate(ctx context.Context) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db.DB, migrations.FS)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, r := range results {
		s.log.Debug(ctx, "migration applied", "source", r.Source.Path, "duration", r.Duration)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithTx runs fn inside a single transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return dbx.WithTx(ctx, s.db, nil, fn)
}
