package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memStore(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := OpenDB(InMemory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func tableNames(t *testing.T, conn *sql.DB) []string {
	t.Helper()
	rows, err := conn.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'schema_%' ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestMigrate_RerunIsNoop(t *testing.T) {
	conn := memStore(t)
	before := tableNames(t, conn)

	require.NoError(t, Migrate(conn))

	v, dirty, err := SchemaVersion(conn)
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)
	assert.False(t, dirty)
	assert.Equal(t, before, tableNames(t, conn))
}

func TestMigrate_Schema(t *testing.T) {
	assert.Equal(t, []string{"locations", "sessions"}, tableNames(t, memStore(t)))
}

func TestSessions_HoldOneCredential(t *testing.T) {
	conn := memStore(t)
	insert := `INSERT INTO sessions (id, token, created_at) VALUES (?, ?, '2026-01-01T00:00:00Z')`

	_, err := conn.Exec(insert, 1, "first")
	require.NoError(t, err)
	_, err = conn.Exec(insert, 2, "second")
	assert.Error(t, err)
}

func TestOpenDB_ReopensFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "moneyplan.db")

	first, err := OpenDB(path)
	require.NoError(t, err)
	_, err = first.Exec(`INSERT INTO locations (route, url, updated_at) VALUES ('/accounts', '/accounts?page=3', '2026-10-01T00:00:00Z')`)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := OpenDB(path)
	require.NoError(t, err)
	defer second.Close()

	var url string
	require.NoError(t, second.QueryRow(`SELECT url FROM locations WHERE route = '/accounts'`).Scan(&url))
	assert.Equal(t, "/accounts?page=3", url)
}
