package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamemaster/internal/db"
	"gamemaster/internal/domain"
	"gamemaster/internal/migrate"
)

func TestAppendCommitsWithTransaction(t *testing.T) {
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, migrate.Migrate(conn))

	ctx := context.Background()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	w := Writer{Now: func() time.Time { return fixed }}

	tx, err := conn.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, w.Append(ctx, tx, EventSkipped, "s1", "session", "s1", "host", EventPayload{"event_id": "dalgona"}))
	require.NoError(t, tx.Rollback())

	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n))
	assert.Equal(t, 0, n, "rolled back entry must not persist")

	tx, err = conn.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, w.Append(ctx, tx, APIKeyCreated, "", "api_key", "k1", "host", nil))
	require.NoError(t, tx.Commit())

	var (
		ts, typ, payload string
		sessionID        *string
	)
	require.NoError(t, conn.QueryRow(`SELECT ts, type, session_id, payload_json FROM events`).Scan(&ts, &typ, &sessionID, &payload))
	assert.Equal(t, "2024-05-01T12:00:00Z", ts)
	assert.Equal(t, APIKeyCreated, typ)
	assert.Nil(t, sessionID)
	assert.Equal(t, "{}", payload)
}

func TestAppendRequiresTransaction(t *testing.T) {
	err := Writer{}.Append(context.Background(), nil, SessionCreated, "s1", "session", "s1", "host", nil)
	assert.Error(t, err)
}

func TestPayload(t *testing.T) {
	assert.Equal(t, EventPayload{"winner": "007"}, Payload(domain.Event{Payload: `{"winner":"007"}`}))
	assert.Empty(t, Payload(domain.Event{Payload: "not json"}))
	assert.Empty(t, Payload(domain.Event{}))
}
