package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesStateDir(t *testing.T) {
	ws := t.TempDir()
	conn, err := Open(Config{Workspace: ws})
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.Ping())

	info, err := os.Stat(filepath.Join(ws, ".gamemaster"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	var fk int
	require.NoError(t, conn.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
	_, err = os.Stat(Path(ws))
	assert.NoError(t, err)
}

func TestPathDefaultsToCurrentDir(t *testing.T) {
	assert.Equal(t, filepath.Join(".", ".gamemaster", "gamemaster.db"), Path(""))
}
