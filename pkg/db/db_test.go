package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fontdue.db")

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, path, d.Path())
	assert.FileExists(t, path)

	t.Run("MigrateIsIdempotent", func(t *testing.T) {
		require.NoError(t, d.Migrate())
	})

	t.Run("Tables", func(t *testing.T) {
		for _, table := range []string{"documents", "catalogs", "refresh_jobs", "refresh_events"} {
			var name string
			err := d.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
			require.NoError(t, err, table)
		}
	})

	t.Run("SqlConn", func(t *testing.T) {
		conn := d.SqlConn()
		_, err := conn.ExecCtx(context.Background(),
			"INSERT INTO documents (key, body) VALUES (?, ?)", "k", "{}")
		require.NoError(t, err)

		var body string
		require.NoError(t, conn.QueryRowCtx(context.Background(), &body,
			"SELECT body FROM documents WHERE key = ?", "k"))
		assert.Equal(t, "{}", body)
	})
}

func TestSqliteAcceptable(t *testing.T) {
	assert.True(t, sqliteAcceptable(nil))
	assert.True(t, sqliteAcceptable(errors.New("database is locked (5) (SQLITE_BUSY)")))
	assert.False(t, sqliteAcceptable(assert.AnError))
}
