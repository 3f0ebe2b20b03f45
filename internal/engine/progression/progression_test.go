package progression

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamemaster/internal/domain"
	"gamemaster/internal/engine/roster"
	"gamemaster/internal/random"
)

func forceEvents(n int) []domain.EventDefinition {
	var events []domain.EventDefinition
	for i := 0; i < n; i++ {
		events = append(events, domain.EventDefinition{
			ID:         fmt.Sprintf("ev-%d", i),
			Name:       fmt.Sprintf("Event %d", i),
			Type:       domain.EventForce,
			Difficulty: 5,
		})
	}
	return events
}

func brutes(n int) []domain.Competitor {
	var players []domain.Competitor
	for i := 1; i <= n; i++ {
		players = append(players, domain.Competitor{
			ID: fmt.Sprintf("b%d", i), Number: i, Role: domain.RoleBrute,
			Stats: domain.Stats{Force: 10}, Alive: true,
		})
	}
	return players
}

// doomed competitors have a survive chance clamped to zero.
func doomed(n int) []domain.Competitor {
	var players []domain.Competitor
	for i := 1; i <= n; i++ {
		players = append(players, domain.Competitor{
			ID: fmt.Sprintf("d%d", i), Number: i, Role: domain.RolePeureux,
			Stats: domain.Stats{Intelligence: -10, Force: -10, Agilite: -10}, Alive: true,
		})
	}
	return players
}

func TestThreeEventSessionCompletesAtLastIndex(t *testing.T) {
	c := New(DefaultPayout)
	s := NewSession("s1", 9, brutes(100), forceEvents(3))

	for step := 0; step < 3; step++ {
		require.False(t, s.Completed)
		require.Equal(t, step, s.CurrentEventIndex)
		var res domain.EventResult
		var err error
		s, res, err = c.Start(s, random.ForStep(s.Seed, step+1))
		require.NoError(t, err)
		require.NotEmpty(t, res.Survivors, "step %d", step)
		require.Len(t, s.EventResults, step+1)
	}
	assert.True(t, s.Completed)
	assert.Equal(t, domain.PhaseCompleted, s.Phase)
	assert.Equal(t, 2, s.CurrentEventIndex)
	require.NotNil(t, s.Winner)
	assert.True(t, s.Winner.Alive)
	assert.Equal(t, 10000+s.EliminatedCount()*100, s.Earnings)
	assert.True(t, s.CanCollect)

	_, _, err := c.Start(s, random.New(1))
	assert.ErrorIs(t, err, ErrCompleted)
	_, err = c.Skip(s)
	assert.ErrorIs(t, err, ErrCompleted)
}

func TestTotalWipeCompletesWithoutWinner(t *testing.T) {
	c := New(DefaultPayout)
	s := NewSession("wipe", 1, doomed(30), forceEvents(4))
	s, res, err := c.Start(s, random.New(1))
	require.NoError(t, err)

	assert.Len(t, res.Eliminated, 30)
	assert.Empty(t, res.Survivors)
	assert.True(t, s.Completed)
	assert.Nil(t, s.Winner)
	assert.Equal(t, 0, s.CurrentEventIndex)
	assert.Equal(t, 10000+30*100, s.Earnings)
}

func TestSkipAdvancesWithoutSideEffects(t *testing.T) {
	c := Controller{}
	players := roster.New(random.New(3)).Generate(40, nil)
	s := NewSession("skip", 3, players, forceEvents(3))

	next, err := c.Skip(s)
	require.NoError(t, err)
	assert.Equal(t, 1, next.CurrentEventIndex)
	assert.Empty(t, next.EventResults)
	assert.Equal(t, players, next.Players)
	assert.Equal(t, 0, s.CurrentEventIndex, "input session must not change")

	next, err = c.Skip(next)
	require.NoError(t, err)
	assert.Equal(t, 2, next.CurrentEventIndex)

	_, err = c.Skip(next)
	var pe PreconditionError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "skip", pe.Op)
	assert.ErrorIs(t, err, ErrNoNextEvent)
}

func TestStartRejectsBadConfiguration(t *testing.T) {
	c := Controller{}
	_, _, err := c.Start(NewSession("empty", 1, brutes(20), nil), random.New(1))
	assert.ErrorIs(t, err, ErrNoEvents)

	bad := forceEvents(2)
	bad[1].Difficulty = 0
	s := NewSession("bad", 1, brutes(20), bad)
	after, _, err := c.Start(s, random.New(1))
	assert.ErrorIs(t, err, domain.ErrInvalidEvent)
	assert.Equal(t, s, after)
	assert.Empty(t, s.EventResults)

	_, err = c.Skip(NewSession("empty", 1, brutes(20), nil))
	assert.ErrorIs(t, err, ErrNoNextEvent)
}

func TestStartRefusedWhileResolving(t *testing.T) {
	s := NewSession("busy", 1, brutes(20), forceEvents(2))
	s.Phase = domain.PhaseResolving
	_, _, err := Controller{}.Start(s, random.New(1))
	assert.ErrorIs(t, err, ErrNotIdle)
	_, err = Controller{}.Skip(s)
	assert.ErrorIs(t, err, ErrNotIdle)
}

func TestStartDoesNotAliasPreviousSnapshot(t *testing.T) {
	players := roster.New(random.New(8)).Generate(60, nil)
	s := NewSession("alias", 8, players, forceEvents(2))
	before := s.Clone()
	next, _, err := Controller{}.Start(s, random.New(8))
	require.NoError(t, err)
	assert.Equal(t, before.Players, s.Players)
	assert.Empty(t, s.EventResults)
	assert.NotEqual(t, s.Players, next.Players)
}

func TestEventIndexIsMonotonic(t *testing.T) {
	c := New(DefaultPayout)
	players := roster.New(random.New(55)).Generate(500, nil)
	s := NewSession("mono", 55, players, forceEvents(8))
	src := random.New(56)
	last := s.CurrentEventIndex
	for !s.Completed {
		var err error
		if src.Intn(4) == 0 {
			s, err = c.Skip(s)
			if errors.Is(err, ErrNoNextEvent) {
				s, _, err = c.Start(s, src)
			}
		} else {
			s, _, err = c.Start(s, src)
		}
		require.NoError(t, err)
		require.GreaterOrEqual(t, s.CurrentEventIndex, last)
		require.LessOrEqual(t, s.CurrentEventIndex, len(s.Events)-1)
		last = s.CurrentEventIndex
	}
	for _, r := range s.EventResults {
		assert.Equal(t, r.TotalParticipants, len(r.Survivors)+len(r.Eliminated))
	}
}

func TestCustomPayout(t *testing.T) {
	c := New(Payout{Base: 500, PerElimination: 7})
	s, _, err := c.Start(NewSession("pay", 2, doomed(20), forceEvents(1)), random.New(2))
	require.NoError(t, err)
	assert.Equal(t, 500+20*7, s.Earnings)
}
