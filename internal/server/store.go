package server

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/secureguard/internal/dbx"
	"github.com/dmitrijs2005/secureguard/internal/roles"
	"github.com/dmitrijs2005/secureguard/internal/server/config"
)

// store is an opened role directory and the means to release it.
type store struct {
	directory roles.Directory
	seed      func(ctx context.Context, partition string, emails []string) error
	close     func(ctx context.Context) error
}

func openStore(ctx context.Context, c *config.Config) (*store, error) {
	switch c.Backend {
	case config.BackendPostgres:
		db, err := roles.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := roles.MigratePostgres(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db migration error: %w", err)
		}
		return &store{
			directory: roles.NewPostgresDirectory(db),
			seed: func(ctx context.Context, partition string, emails []string) error {
				return seedPostgres(ctx, db, partition, emails)
			},
			close: func(context.Context) error { return db.Close() },
		}, nil

	case config.BackendMongo:
		client, db, err := roles.ConnectMongo(ctx, roles.MongoConfig{URI: c.MongoURI, Database: c.MongoDatabase})
		if err != nil {
			return nil, err
		}
		dir := roles.NewMongoDirectory(db)
		return &store{
			directory: dir,
			seed: func(ctx context.Context, partition string, emails []string) error {
				for _, e := range emails {
					if err := dir.Add(ctx, partition, normalizeEmail(e)); err != nil {
						return err
					}
				}
				return nil
			},
			close: client.Disconnect,
		}, nil

	default:
		return nil, fmt.Errorf("unknown backend %q", c.Backend)
	}
}

// seedPostgres adds every email to partition in one transaction.
func seedPostgres(ctx context.Context, db *sql.DB, partition string, emails []string) error {
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		dir := roles.NewPostgresDirectory(tx)
		for _, e := range emails {
			if err := dir.Add(ctx, partition, normalizeEmail(e)); err != nil {
				return err
			}
		}
		return nil
	})
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
