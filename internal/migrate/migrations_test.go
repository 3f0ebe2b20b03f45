package migrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamemaster/internal/db"
)

func TestMigrateIsIdempotent(t *testing.T) {
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	require.NoError(t, err)
	defer conn.Close()

	before, err := Status(context.Background(), conn)
	require.NoError(t, err)
	assert.Empty(t, before)

	require.NoError(t, Migrate(conn))
	require.NoError(t, Migrate(conn))

	applied, err := Status(context.Background(), conn)
	require.NoError(t, err)
	latest, err := Latest()
	require.NoError(t, err)
	require.NotEmpty(t, applied)
	assert.Equal(t, latest, applied[len(applied)-1].Version)
	assert.Equal(t, "001_init.sql", applied[0].Name)

	for _, table := range []string{"sessions", "events", "api_keys"} {
		var n int
		require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&n))
		assert.Equal(t, 1, n, table)
	}
}
