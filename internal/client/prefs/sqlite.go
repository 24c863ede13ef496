package prefs

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/secureguard/internal/client/migrations"
	"github.com/dmitrijs2005/secureguard/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/secureguard/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// kvTable is the raw key/value table the store is built on.
type kvTable interface {
	Lookup(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// SQLiteStore keeps preferences in a local SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	repo kvTable
}

// NewSQLiteStore wraps an already migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, repo: metadata.NewTable(db)}
}

// RunMigrations applies the embedded preference schema.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the preference database at dsn and applies
// migrations.
func Open(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open preferences db: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate preferences db: %w", err)
	}

	return NewSQLiteStore(db), nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetBool(ctx context.Context, key string, def bool) (bool, error) {
	raw, found, err := s.repo.Lookup(ctx, key)
	if err != nil || !found {
		return def, err
	}
	return decodeBool(key, raw)
}

func (s *SQLiteStore) GetString(ctx context.Context, key string, def string) (string, error) {
	raw, found, err := s.repo.Lookup(ctx, key)
	if err != nil || !found {
		return def, err
	}
	return string(raw), nil
}

func (s *SQLiteStore) SetBool(ctx context.Context, key string, value bool) error {
	return s.repo.Put(ctx, key, encodeBool(value))
}

func (s *SQLiteStore) SetString(ctx context.Context, key string, value string) error {
	return s.repo.Put(ctx, key, []byte(value))
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	return s.repo.Remove(ctx, key)
}

func (s *SQLiteStore) Batch(ctx context.Context, fn func(w Writer) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(&repoWriter{repo: metadata.NewTable(tx)})
	})
}

// repoWriter writes through a transaction-bound repository.
type repoWriter struct {
	repo kvTable
}

func (w *repoWriter) SetBool(ctx context.Context, key string, value bool) error {
	return w.repo.Put(ctx, key, encodeBool(value))
}

func (w *repoWriter) SetString(ctx context.Context, key string, value string) error {
	return w.repo.Put(ctx, key, []byte(value))
}

func (w *repoWriter) Delete(ctx context.Context, key string) error {
	return w.repo.Remove(ctx, key)
}
