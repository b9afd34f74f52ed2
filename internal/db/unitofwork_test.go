package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/moneyplan/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUoW(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func putLocation(ctx context.Context, tx db.DBTX, route string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO locations (route, url, updated_at) VALUES (?, ?, '2026-10-01T00:00:00Z')`,
		route, route+"?page=2")
	return err
}

func locationCount(t *testing.T, database *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM locations`).Scan(&n))
	return n
}

func TestWithinTx_Commits(t *testing.T) {
	database, uow := newUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return putLocation(ctx, tx, "/accounts")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, locationCount(t, database))
}

func TestWithinTx_ErrorRollsBackEveryStatement(t *testing.T) {
	database, uow := newUoW(t)
	boom := errors.New("disk full")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := putLocation(ctx, tx, "/accounts"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, locationCount(t, database))
}

func TestWithinTx_PanicRollsBack(t *testing.T) {
	database, uow := newUoW(t)

	assert.PanicsWithValue(t, "boom", func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = putLocation(ctx, tx, "/accounts")
			panic("boom")
		})
	})
	assert.Zero(t, locationCount(t, database))
}
