// Package metadata is the raw key/value table behind the client's local
// preferences.
package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/secureguard/internal/dbx"
)

const (
	selectValue = `SELECT value FROM preferences WHERE key = ?`
	upsertValue = `INSERT INTO preferences (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	deleteValue = `DELETE FROM preferences WHERE key = ?`
)

// Table reads and writes the preferences table through a *sql.DB or a
// transaction.
type Table struct {
	db dbx.DBTX
}

func NewTable(db dbx.DBTX) *Table {
	return &Table{db: db}
}

// Lookup returns the stored bytes and whether the key exists. A stored empty
// value is reported as found.
func (t *Table) Lookup(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	switch err := t.db.QueryRowContext(ctx, selectValue, key).Scan(&value); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("lookup %q: %w", key, err)
	}
	return value, true, nil
}

func (t *Table) Put(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	if _, err := t.db.ExecContext(ctx, upsertValue, key, value); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (t *Table) Remove(ctx context.Context, key string) error {
	if _, err := t.db.ExecContext(ctx, deleteValue, key); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}
