package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"gamemaster/internal/domain"
)

const sessionColumns = `id,state_json,version,created_at,updated_at`

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func scanSession(row interface{ Scan(...any) error }) (domain.GameSession, error) {
	var (
		s       domain.GameSession
		id      string
		state   string
		version int
		created string
		updated string
	)
	if err := row.Scan(&id, &state, &version, &created, &updated); err != nil {
		if err == sql.ErrNoRows {
			return s, ErrNotFound
		}
		return s, err
	}
	if err := json.Unmarshal([]byte(state), &s); err != nil {
		return s, fmt.Errorf("decode session %s: %w", id, err)
	}
	// Columns are authoritative for the bookkeeping fields.
	s.ID = id
	s.Version = version
	s.CreatedAt = created
	s.UpdatedAt = updated
	if s.EventResults == nil {
		s.EventResults = []domain.EventResult{}
	}
	return s, nil
}

// InsertSession stores a new session at version 1.
func (r Repo) InsertSession(ctx context.Context, tx *sql.Tx, s domain.GameSession, actorID string) error {
	s.Version = 1
	state, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = r.q(tx).ExecContext(ctx, `INSERT INTO sessions(id,seed,state_json,completed,earnings,can_collect,version,created_by,created_at,updated_at) VALUES (?,?,?,?,?,?,?,?,?,?)`,
		s.ID, s.Seed, string(state), boolInt(s.Completed), s.Earnings, boolInt(s.CanCollect), s.Version, actorID, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r Repo) GetSession(ctx context.Context, id string) (domain.GameSession, error) {
	return r.GetSessionTx(ctx, nil, id)
}

func (r Repo) GetSessionTx(ctx context.Context, tx *sql.Tx, id string) (domain.GameSession, error) {
	return scanSession(r.q(tx).QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id=?`, id))
}

// UpdateSession writes s if the stored version still equals s.Version and
// bumps the version. A stale version yields ErrConflict.
func (r Repo) UpdateSession(ctx context.Context, tx *sql.Tx, s domain.GameSession) (domain.GameSession, error) {
	return r.updateSession(ctx, tx, s, "")
}

// CollectEarnings clears can_collect on a completed session exactly once.
func (r Repo) CollectEarnings(ctx context.Context, tx *sql.Tx, s domain.GameSession) (domain.GameSession, error) {
	s.CanCollect = false
	return r.updateSession(ctx, tx, s, " AND completed=1 AND can_collect=1")
}

func (r Repo) updateSession(ctx context.Context, tx *sql.Tx, s domain.GameSession, guard string) (domain.GameSession, error) {
	expected := s.Version
	s.Version = expected + 1
	state, err := json.Marshal(s)
	if err != nil {
		return s, err
	}
	res, err := r.q(tx).ExecContext(ctx, `UPDATE sessions SET state_json=?, completed=?, earnings=?, can_collect=?, version=?, updated_at=? WHERE id=? AND version=?`+guard,
		string(state), boolInt(s.Completed), s.Earnings, boolInt(s.CanCollect), s.Version, s.UpdatedAt, s.ID, expected)
	if err != nil {
		return s, err
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return s, nil
	}
	var (
		version    int
		canCollect int
	)
	err = r.q(tx).QueryRowContext(ctx, `SELECT version, can_collect FROM sessions WHERE id=?`, s.ID).Scan(&version, &canCollect)
	if err == sql.ErrNoRows {
		return s, ErrNotFound
	}
	if err != nil {
		return s, err
	}
	if guard != "" && canCollect == 0 {
		return s, ErrAlreadyCollected
	}
	return s, ErrConflict
}

func (r Repo) DeleteSession(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := r.q(tx).ExecContext(ctx, `DELETE FROM sessions WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListSessions returns summaries, newest first.
func (r Repo) ListSessions(ctx context.Context, limit int) ([]domain.SessionSummary, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions ORDER BY created_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.SessionSummary{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, Summarize(s))
	}
	return res, rows.Err()
}

// Summarize builds the list view of a session.
func Summarize(s domain.GameSession) domain.SessionSummary {
	return domain.SessionSummary{
		ID:                s.ID,
		Players:           len(s.Players),
		Alive:             len(s.AlivePlayers()),
		Events:            len(s.Events),
		CurrentEventIndex: s.CurrentEventIndex,
		Completed:         s.Completed,
		Earnings:          s.Earnings,
		CreatedAt:         s.CreatedAt,
	}
}
