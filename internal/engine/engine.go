package engine

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gamemaster/internal/catalog"
	"gamemaster/internal/config"
	"gamemaster/internal/domain"
	"gamemaster/internal/engine/progression"
	"gamemaster/internal/engine/ranking"
	"gamemaster/internal/engine/roster"
	"gamemaster/internal/events"
	"gamemaster/internal/logger"
	"gamemaster/internal/metrics"
	"gamemaster/internal/random"
	"gamemaster/internal/repo"
)

// ErrNotCompleted is returned when earnings are collected before the session ends.
var ErrNotCompleted = errors.New("session not completed")

type Engine struct {
	DB      *sql.DB
	Repo    repo.Repo
	Events  events.Writer
	Config  *config.Config
	Catalog *catalog.Catalog
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
	NewSeed func() (int64, error)
}

func New(db *sql.DB, cfg *config.Config, cat *catalog.Catalog, log *zap.Logger, m *metrics.Metrics) Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if cat == nil {
		cat = catalog.Default()
	}
	return Engine{
		DB:      db,
		Repo:    repo.Repo{DB: db},
		Events:  events.Writer{},
		Config:  cfg,
		Catalog: cat,
		Logger:  logger.OrNop(log),
		Metrics: m,
		Now:     time.Now,
		NewSeed: random.NewSeed,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) log() *zap.Logger {
	return logger.OrNop(e.Logger)
}

func (e Engine) controller() progression.Controller {
	p := progression.DefaultPayout
	if e.Config != nil && (e.Config.Game.BasePayout > 0 || e.Config.Game.PayoutPerElimination > 0) {
		p = progression.Payout{Base: e.Config.Game.BasePayout, PerElimination: e.Config.Game.PayoutPerElimination}
	}
	return progression.New(p)
}

func (e Engine) catalog() *catalog.Catalog {
	if e.Catalog != nil {
		return e.Catalog
	}
	return catalog.Default()
}

// CreateSessionOptions are parameters for creating a session.
type CreateSessionOptions struct {
	// Count is the number of generated competitors; zero uses the configured roster size.
	Count       int
	Entrants    []domain.Competitor
	Celebrities []roster.Celebrity
	// Events takes precedence over EventIDs; with neither, the configured defaults apply.
	EventIDs []string
	Events   []domain.EventDefinition
	Seed     *int64
	ActorID  string
}

// CreateResult reports the stored session and whether the requested count was clamped.
type CreateResult struct {
	Session domain.GameSession `json:"session"`
	Clamped bool               `json:"clamped"`
}

func (e Engine) CreateSession(ctx context.Context, opts CreateSessionOptions) (CreateResult, error) {
	if opts.ActorID == "" {
		return CreateResult{}, errors.New("actor_id required")
	}
	count := opts.Count
	if count == 0 && e.Config != nil {
		count = e.Config.Game.RosterSize
	}
	count, clamped := roster.ClampCount(count)

	evs, err := e.selectEvents(opts)
	if err != nil {
		return CreateResult{}, err
	}
	if err := progression.ValidateEvents(evs); err != nil {
		return CreateResult{}, err
	}

	var seed int64
	if opts.Seed != nil {
		seed = *opts.Seed
	} else {
		newSeed := e.NewSeed
		if newSeed == nil {
			newSeed = random.NewSeed
		}
		if seed, err = newSeed(); err != nil {
			return CreateResult{}, err
		}
	}

	manual := append([]domain.Competitor(nil), opts.Entrants...)
	for _, c := range opts.Celebrities {
		manual = append(manual, roster.FromCelebrity(c))
	}
	players := roster.New(random.ForStep(seed, 0)).Generate(count, manual)

	now := e.now().UTC().Format(time.RFC3339)
	s := progression.NewSession(uuid.NewString(), seed, players, evs)
	s.CreatedAt = now
	s.UpdatedAt = now

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return CreateResult{}, err
	}
	defer tx.Rollback()

	if err := e.Repo.InsertSession(ctx, tx, s, opts.ActorID); err != nil {
		return CreateResult{}, fmt.Errorf("insert session: %w", err)
	}
	if err := e.Events.Append(ctx, tx, events.SessionCreated, s.ID, "session", s.ID, opts.ActorID, events.EventPayload{
		"seed":    seed,
		"players": len(players),
		"events":  eventIDs(evs),
		"clamped": clamped,
	}); err != nil {
		return CreateResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return CreateResult{}, err
	}
	s.Version = 1

	e.Metrics.SessionCreated()
	e.log().Info("session created",
		zap.String("session_id", s.ID),
		zap.Int64("seed", seed),
		zap.Int("players", len(players)),
		zap.Int("events", len(evs)),
		zap.Bool("clamped", clamped),
	)
	return CreateResult{Session: s, Clamped: clamped}, nil
}

func (e Engine) selectEvents(opts CreateSessionOptions) ([]domain.EventDefinition, error) {
	if len(opts.Events) > 0 {
		return append([]domain.EventDefinition(nil), opts.Events...), nil
	}
	ids := opts.EventIDs
	if len(ids) == 0 && e.Config != nil {
		ids = e.Config.Game.DefaultEvents
	}
	cat := e.catalog()
	if len(ids) == 0 {
		return append([]domain.EventDefinition(nil), cat.Events...), nil
	}
	evs, err := cat.Select(ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEvent, err)
	}
	return evs, nil
}

func eventIDs(evs []domain.EventDefinition) []string {
	ids := make([]string, 0, len(evs))
	for _, ev := range evs {
		ids = append(ids, ev.ID)
	}
	return ids
}

// StepResult is the outcome of one resolved event.
type StepResult struct {
	Session domain.GameSession `json:"session"`
	Result  domain.EventResult `json:"result"`
}

// StartEvent resolves the session's current event. Each resolution draws
// from a source derived from the session seed and the resolution count, so
// replaying a session reproduces it exactly.
func (e Engine) StartEvent(ctx context.Context, sessionID, actorID string) (StepResult, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return StepResult{}, err
	}
	defer tx.Rollback()

	s, err := e.Repo.GetSessionTx(ctx, tx, sessionID)
	if err != nil {
		return StepResult{}, err
	}
	index := s.CurrentEventIndex
	step := len(s.EventResults) + 1
	next, res, err := e.controller().Start(s, random.ForStep(s.Seed, step))
	if err != nil {
		return StepResult{}, err
	}
	next.UpdatedAt = e.now().UTC().Format(time.RFC3339)
	next, err = e.Repo.UpdateSession(ctx, tx, next)
	if err != nil {
		return StepResult{}, err
	}
	ev := s.Events[index]
	if err := e.Events.Append(ctx, tx, events.EventResolved, s.ID, "event", ev.ID, actorID, events.EventPayload{
		"index":      index,
		"event_name": ev.Name,
		"type":       ev.Type,
		"survivors":  len(res.Survivors),
		"eliminated": len(res.Eliminated),
	}); err != nil {
		return StepResult{}, err
	}
	if next.Completed {
		payload := events.EventPayload{"earnings": next.Earnings, "eliminated": next.EliminatedCount()}
		if next.Winner != nil {
			payload["winner_id"] = next.Winner.ID
			payload["winner_number"] = next.Winner.Number
		}
		if err := e.Events.Append(ctx, tx, events.SessionCompleted, s.ID, "session", s.ID, actorID, payload); err != nil {
			return StepResult{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return StepResult{}, err
	}

	e.Metrics.EventResolved(string(ev.Type), len(res.Eliminated))
	e.log().Debug("event resolved",
		zap.String("session_id", s.ID),
		zap.String("event_id", ev.ID),
		zap.Int("survivors", len(res.Survivors)),
		zap.Int("eliminated", len(res.Eliminated)),
	)
	if next.Completed {
		e.Metrics.SessionCompleted(next.Winner != nil)
		fields := []zap.Field{zap.String("session_id", s.ID), zap.Int("earnings", next.Earnings)}
		if next.Winner != nil {
			fields = append(fields, zap.String("winner", next.Winner.DisplayNumber()))
		}
		e.log().Info("session completed", fields...)
	}
	return StepResult{Session: next, Result: res}, nil
}

// SkipEvent advances past the current event without resolving it.
func (e Engine) SkipEvent(ctx context.Context, sessionID, actorID string) (domain.GameSession, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.GameSession{}, err
	}
	defer tx.Rollback()

	s, err := e.Repo.GetSessionTx(ctx, tx, sessionID)
	if err != nil {
		return domain.GameSession{}, err
	}
	next, err := e.controller().Skip(s)
	if err != nil {
		return domain.GameSession{}, err
	}
	next.UpdatedAt = e.now().UTC().Format(time.RFC3339)
	next, err = e.Repo.UpdateSession(ctx, tx, next)
	if err != nil {
		return domain.GameSession{}, err
	}
	skipped := s.Events[s.CurrentEventIndex]
	if err := e.Events.Append(ctx, tx, events.EventSkipped, s.ID, "event", skipped.ID, actorID, events.EventPayload{
		"from": s.CurrentEventIndex,
		"to":   next.CurrentEventIndex,
	}); err != nil {
		return domain.GameSession{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.GameSession{}, err
	}
	e.Metrics.EventSkipped()
	e.log().Debug("event skipped", zap.String("session_id", s.ID), zap.String("event_id", skipped.ID))
	return next, nil
}

// RunToEnd resolves events until the session completes.
func (e Engine) RunToEnd(ctx context.Context, sessionID, actorID string) (domain.GameSession, []domain.EventResult, error) {
	var results []domain.EventResult
	for {
		if err := ctx.Err(); err != nil {
			return domain.GameSession{}, results, err
		}
		step, err := e.StartEvent(ctx, sessionID, actorID)
		if err != nil {
			return domain.GameSession{}, results, err
		}
		results = append(results, step.Result)
		if step.Session.Completed {
			return step.Session, results, nil
		}
	}
}

// Ranking orders the session's competitors: alive first, then by score.
func (e Engine) Ranking(ctx context.Context, sessionID string) ([]domain.RankedEntry, error) {
	s, err := e.Repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return ranking.Rank(s.Players), nil
}

// CollectEarnings credits a completed session's earnings exactly once.
func (e Engine) CollectEarnings(ctx context.Context, sessionID, actorID string) (domain.GameSession, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.GameSession{}, err
	}
	defer tx.Rollback()

	s, err := e.Repo.GetSessionTx(ctx, tx, sessionID)
	if err != nil {
		return domain.GameSession{}, err
	}
	if !s.Completed {
		return domain.GameSession{}, progression.PreconditionError{Op: "collect", Err: ErrNotCompleted}
	}
	if !s.CanCollect {
		return domain.GameSession{}, repo.ErrAlreadyCollected
	}
	s.UpdatedAt = e.now().UTC().Format(time.RFC3339)
	s, err = e.Repo.CollectEarnings(ctx, tx, s)
	if err != nil {
		return domain.GameSession{}, err
	}
	if err := e.Events.Append(ctx, tx, events.EarningsCollected, s.ID, "session", s.ID, actorID, events.EventPayload{
		"earnings": s.Earnings,
	}); err != nil {
		return domain.GameSession{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.GameSession{}, err
	}
	e.Metrics.EarningsCollected(s.Earnings)
	e.log().Info("earnings collected", zap.String("session_id", s.ID), zap.Int("earnings", s.Earnings))
	return s, nil
}

func (e Engine) GetSession(ctx context.Context, sessionID string) (domain.GameSession, error) {
	return e.Repo.GetSession(ctx, sessionID)
}

func (e Engine) ListSessions(ctx context.Context, limit int) ([]domain.SessionSummary, error) {
	return e.Repo.ListSessions(ctx, limit)
}

func (e Engine) DeleteSession(ctx context.Context, sessionID, actorID string) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.Repo.DeleteSession(ctx, tx, sessionID); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, events.SessionDeleted, sessionID, "session", sessionID, actorID, nil); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	e.log().Info("session deleted", zap.String("session_id", sessionID))
	return nil
}

// CreateAPIKey stores a new key for actorID and returns the plaintext once.
func (e Engine) CreateAPIKey(ctx context.Context, actorID, name string) (domain.APIKey, string, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return domain.APIKey{}, "", errors.New("actor_id required")
	}
	var raw [24]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return domain.APIKey{}, "", fmt.Errorf("generate api key: %w", err)
	}
	secret := "gm_" + hex.EncodeToString(raw[:])
	key := domain.APIKey{
		ID:        uuid.NewString(),
		ActorID:   actorID,
		Name:      name,
		KeyHash:   repo.HashAPIKey(secret),
		CreatedAt: e.now().UTC().Format(time.RFC3339),
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.APIKey{}, "", err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertAPIKey(ctx, tx, key); err != nil {
		return domain.APIKey{}, "", err
	}
	if err := e.Events.Append(ctx, tx, events.APIKeyCreated, "", "api_key", key.ID, actorID, events.EventPayload{"name": name}); err != nil {
		return domain.APIKey{}, "", err
	}
	if err := tx.Commit(); err != nil {
		return domain.APIKey{}, "", err
	}
	return key, secret, nil
}

// RevokeAPIKey deletes a stored key so it no longer authenticates.
func (e Engine) RevokeAPIKey(ctx context.Context, keyID, actorID string) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.Repo.DeleteAPIKey(ctx, tx, keyID); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, events.APIKeyRevoked, "", "api_key", keyID, actorID, nil); err != nil {
		return err
	}
	return tx.Commit()
}
