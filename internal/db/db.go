package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	stateDir      = ".gamemaster"
	defaultDBName = "gamemaster.db"

	defaultBusyTimeoutMS = 5000
)

type Config struct {
	Workspace string
	// BusyTimeoutMS bounds how long a writer waits on a locked database.
	// Zero uses the default.
	BusyTimeoutMS int
}

// EnsureWorkspace creates the .gamemaster state directory and returns it.
func EnsureWorkspace(workspace string) (string, error) {
	dir := filepath.Join(orDot(workspace), stateDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create state dir: %w", err)
	}
	return dir, nil
}

// Open opens the session database. Foreign keys are enforced and the
// journal runs in WAL mode so readers do not block the session writer.
// Transactions begin IMMEDIATE: concurrent writers queue on the busy timeout
// and each one reads the state committed by the one before it.
func Open(cfg Config) (*sql.DB, error) {
	if _, err := EnsureWorkspace(cfg.Workspace); err != nil {
		return nil, err
	}
	busy := cfg.BusyTimeoutMS
	if busy <= 0 {
		busy = defaultBusyTimeoutMS
	}
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busy))
	q.Add("_pragma", "journal_mode(WAL)")
	q.Set("_txlock", "immediate")
	dsn := "file:" + Path(cfg.Workspace) + "?" + q.Encode()
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Path returns the database file of a workspace.
func Path(workspace string) string {
	return filepath.Join(orDot(workspace), stateDir, defaultDBName)
}

func orDot(workspace string) string {
	if workspace == "" {
		return "."
	}
	return workspace
}
