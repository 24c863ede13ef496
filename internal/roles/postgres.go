package roles

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/secureguard/internal/dbx"
	"github.com/dmitrijs2005/secureguard/internal/roles/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// OpenPostgres opens a pgx-backed *sql.DB and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

// MigratePostgres applies the embedded role_members schema.
func MigratePostgres(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// PostgresDirectory stores members in role_members(partition, email).
type PostgresDirectory struct {
	db dbx.DBTX
}

func NewPostgresDirectory(db dbx.DBTX) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

func (d *PostgresDirectory) FindByEmailInPartition(ctx context.Context, partition, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM role_members WHERE partition = $1 AND email = $2)`

	var exists bool
	if err := d.db.QueryRowContext(ctx, query, partition, email).Scan(&exists); err != nil {
		return false, wrapCtxErr("postgres lookup", err)
	}
	return exists, nil
}

// Add inserts a member, ignoring duplicates.
func (d *PostgresDirectory) Add(ctx context.Context, partition, email string) error {
	query := `INSERT INTO role_members (partition, email) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	if _, err := d.db.ExecContext(ctx, query, partition, email); err != nil {
		return fmt.Errorf("postgres add member: %w", err)
	}
	return nil
}
