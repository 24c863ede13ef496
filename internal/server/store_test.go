package server

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/secureguard/internal/roles"
	"github.com/dmitrijs2005/secureguard/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var insertMember = regexp.QuoteMeta(`INSERT INTO role_members (partition, email) VALUES ($1, $2) ON CONFLICT DO NOTHING`)

func TestSeedPostgres_CommitsAllEmails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(insertMember).WithArgs(roles.PartitionParents, "mom@example.com").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertMember).WithArgs(roles.PartitionParents, "dad@example.com").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err = seedPostgres(context.Background(), db, roles.PartitionParents, []string{" Mom@Example.com", "dad@example.com"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedPostgres_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(insertMember).WithArgs(roles.PartitionParents, "mom@example.com").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err = seedPostgres(context.Background(), db, roles.PartitionParents, []string{"mom@example.com", "dad@example.com"})
	require.ErrorContains(t, err, "boom")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	_, err := openStore(context.Background(), &config.Config{Backend: "redis"})
	require.ErrorContains(t, err, `unknown backend "redis"`)
}

func TestNewApp_FailsWithoutStore(t *testing.T) {
	_, err := NewApp(context.Background(), &config.Config{Backend: "redis", LogLevel: "error"})
	require.Error(t, err)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.c", normalizeEmail("  A@B.c "))
}
