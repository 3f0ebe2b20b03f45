package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"gamemaster/internal/domain"
)

// Log entry types.
const (
	SessionCreated    = "session.created"
	SessionDeleted    = "session.deleted"
	SessionCompleted  = "session.completed"
	EventResolved     = "event.resolved"
	EventSkipped      = "event.skipped"
	EarningsCollected = "earnings.collected"
	APIKeyCreated     = "apikey.created"
	APIKeyRevoked     = "apikey.revoked"
)

// Types lists every entry type the engine writes.
var Types = []string{
	SessionCreated, SessionDeleted, SessionCompleted,
	EventResolved, EventSkipped, EarningsCollected,
	APIKeyCreated, APIKeyRevoked,
}

// Writer appends entries to the events table. Entries are written on the
// caller's transaction so they commit or roll back with the session change.
type Writer struct {
	Now func() time.Time
}

type EventPayload map[string]any

func (w Writer) Append(ctx context.Context, tx *sql.Tx, evtType, sessionID, entityKind, entityID, actorID string, payload EventPayload) error {
	if tx == nil {
		return fmt.Errorf("append %s: transaction required", evtType)
	}
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	if payload == nil {
		payload = EventPayload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", evtType, err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO events(ts, type, session_id, entity_kind, entity_id, actor_id, payload_json) VALUES (?,?,?,?,?,?,?)`,
		now().UTC().Format(time.RFC3339), evtType, nullString(sessionID), entityKind, nullString(entityID), actorID, string(data))
	if err != nil {
		return fmt.Errorf("append %s: %w", evtType, err)
	}
	return nil
}

// Payload decodes an entry's stored payload. Malformed or empty payloads
// decode to an empty map.
func Payload(evt domain.Event) EventPayload {
	out := EventPayload{}
	if evt.Payload == "" {
		return out
	}
	if err := json.Unmarshal([]byte(evt.Payload), &out); err != nil {
		return EventPayload{}
	}
	return out
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
