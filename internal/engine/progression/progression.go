// Package progression is the state machine that walks a session through
// its events.
//
// Every transition takes a session value and returns a new one. A rejected
// transition returns the error and leaves the caller's session untouched.
package progression

import (
	"errors"
	"fmt"

	"gamemaster/internal/domain"
	"gamemaster/internal/engine/ranking"
	"gamemaster/internal/engine/resolve"
	"gamemaster/internal/random"
)

var (
	// ErrNoEvents is a configuration error: a session cannot start without events.
	ErrNoEvents    = errors.New("session has no events configured")
	ErrCompleted   = errors.New("session already completed")
	ErrNotIdle     = errors.New("an event is already resolving")
	ErrNoNextEvent = errors.New("no next event to skip to")
)

// PreconditionError reports a transition attempted from the wrong state.
type PreconditionError struct {
	Op  string
	Err error
}

func (e PreconditionError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e PreconditionError) Unwrap() error { return e.Err }

type Payout struct {
	Base           int
	PerElimination int
}

var DefaultPayout = Payout{Base: 10000, PerElimination: 100}

// Earnings is the payout for a finished roster.
func (p Payout) Earnings(eliminated int) int {
	return p.Base + eliminated*p.PerElimination
}

type Controller struct {
	Payout Payout
}

func New(p Payout) Controller {
	return Controller{Payout: p}
}

// NewSession builds an idle session at event 0. Roster and events are fixed from here on.
func NewSession(id string, seed int64, players []domain.Competitor, events []domain.EventDefinition) domain.GameSession {
	return domain.GameSession{
		ID:           id,
		Seed:         seed,
		Players:      append([]domain.Competitor(nil), players...),
		Events:       append([]domain.EventDefinition(nil), events...),
		Phase:        domain.PhaseIdle,
		EventResults: []domain.EventResult{},
	}
}

// ValidateEvents rejects empty or malformed event lists.
func ValidateEvents(events []domain.EventDefinition) error {
	if len(events) == 0 {
		return ErrNoEvents
	}
	for i, ev := range events {
		if err := ev.Validate(); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	return nil
}

func checkIdle(op string, s domain.GameSession) error {
	if s.Completed || s.Phase == domain.PhaseCompleted {
		return PreconditionError{Op: op, Err: ErrCompleted}
	}
	if s.Phase != domain.PhaseIdle && s.Phase != "" {
		return PreconditionError{Op: op, Err: ErrNotIdle}
	}
	return nil
}

// Start resolves the current event against the alive competitors and
// returns the advanced session together with the appended result.
func (c Controller) Start(s domain.GameSession, src random.Source) (domain.GameSession, domain.EventResult, error) {
	if err := checkIdle("start", s); err != nil {
		return s, domain.EventResult{}, err
	}
	if err := ValidateEvents(s.Events); err != nil {
		return s, domain.EventResult{}, err
	}
	if s.CurrentEventIndex < 0 || s.CurrentEventIndex >= len(s.Events) {
		return s, domain.EventResult{}, PreconditionError{Op: "start", Err: ErrNoNextEvent}
	}

	next := s.Clone()
	next.Phase = domain.PhaseResolving
	res := resolve.Resolve(next.Players, next.Events[next.CurrentEventIndex], src)
	next.Players = res.Players
	next.EventResults = append(next.EventResults, res.Result)

	if next.CurrentEventIndex+1 < len(next.Events) && anyAlive(next.Players) {
		next.CurrentEventIndex++
		next.Phase = domain.PhaseIdle
		return next, res.Result, nil
	}
	c.complete(&next)
	return next, res.Result, nil
}

// Skip moves to the next event without resolving the current one.
func (c Controller) Skip(s domain.GameSession) (domain.GameSession, error) {
	if err := checkIdle("skip", s); err != nil {
		return s, err
	}
	if s.CurrentEventIndex >= len(s.Events)-1 {
		return s, PreconditionError{Op: "skip", Err: ErrNoNextEvent}
	}
	next := s.Clone()
	next.CurrentEventIndex++
	next.Phase = domain.PhaseIdle
	return next, nil
}

func (c Controller) complete(s *domain.GameSession) {
	payout := c.Payout
	if payout == (Payout{}) {
		payout = DefaultPayout
	}
	s.Completed = true
	s.Phase = domain.PhaseCompleted
	s.Earnings = payout.Earnings(s.EliminatedCount())
	s.CanCollect = true
	s.Winner = nil
	if w := ranking.Winner(ranking.Rank(s.Players)); w != nil {
		for _, p := range s.Players {
			if p.ID == w.ID {
				winner := p
				s.Winner = &winner
				break
			}
		}
	}
}

func anyAlive(players []domain.Competitor) bool {
	for _, p := range players {
		if p.Alive {
			return true
		}
	}
	return false
}
