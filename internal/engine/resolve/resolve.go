// Package resolve computes the outcome of one event for the competitors
// still alive at its start.
package resolve

import (
	"sort"

	"gamemaster/internal/domain"
	"gamemaster/internal/random"
)

const (
	baseChance      = 0.3
	statWeight      = 0.06
	maxChance       = 0.9
	eventSeconds    = 120
	maxEventKills   = 2
	killPoints      = 10
	betrayalChance  = 0.10
	betrayalPenalty = 5
)

// statFor maps an event type to the stat it tests. Types missing from the
// table use the mean of all three stats.
var statFor = map[domain.EventType]func(domain.Stats) float64{
	domain.EventIntelligence: func(s domain.Stats) float64 { return float64(s.Intelligence) },
	domain.EventForce:        func(s domain.Stats) float64 { return float64(s.Force) },
	domain.EventAgilite:      func(s domain.Stats) float64 { return float64(s.Agilite) },
}

type affinity struct {
	Favored   domain.EventType
	OnFavored float64
	Otherwise float64
}

// roleAffinity is the role × event type bonus table.
var roleAffinity = map[domain.Role]affinity{
	domain.RoleNormal:      {},
	domain.RoleIntelligent: {Favored: domain.EventIntelligence, OnFavored: 0.20, Otherwise: 0.10},
	domain.RoleBrute:       {Favored: domain.EventForce, OnFavored: 0.20, Otherwise: 0.10},
	domain.RoleSportif:     {Favored: domain.EventAgilite, OnFavored: 0.20, Otherwise: 0.10},
	domain.RoleZero:        {Otherwise: 0.15},
	domain.RolePeureux:     {Otherwise: -0.10},
}

// DefaultCauses is used when an event has no death animations of its own.
var DefaultCauses = []string{
	"Éliminé par balle",
	"Chute mortelle",
	"Abattu en tentant de fuir",
	"Éliminé par un garde",
	"Épuisement",
}

// StatBonus returns the stat tested by eventType for s.
func StatBonus(s domain.Stats, eventType domain.EventType) float64 {
	if f, ok := statFor[eventType]; ok {
		return f(s)
	}
	return s.Mean()
}

// RoleBonus returns the affinity bonus of role for eventType.
func RoleBonus(role domain.Role, eventType domain.EventType) float64 {
	a := roleAffinity[role]
	if a.Favored != "" && a.Favored == eventType {
		return a.OnFavored
	}
	return a.Otherwise
}

// SurviveChance is the probability of passing an event, always within [0, 0.9].
func SurviveChance(c domain.Competitor, eventType domain.EventType) float64 {
	p := baseChance + StatBonus(c.Stats, eventType)*statWeight + RoleBonus(c.Role, eventType)
	if p > maxChance {
		return maxChance
	}
	if p < 0 {
		return 0
	}
	return p
}

// Resolution is the outcome of one event: the immutable result record and
// the roster snapshot after the event.
type Resolution struct {
	Result  domain.EventResult
	Players []domain.Competitor
}

// Resolve evaluates every alive competitor independently, in roster order.
// Eliminated competitors are copied through untouched. players is not modified.
func Resolve(players []domain.Competitor, ev domain.EventDefinition, src random.Source) Resolution {
	next := append([]domain.Competitor(nil), players...)
	causes := ev.DeathAnimations
	if len(causes) == 0 {
		causes = DefaultCauses
	}
	result := domain.EventResult{
		EventID:    ev.ID,
		EventName:  ev.Name,
		Survivors:  []domain.SurvivorRecord{},
		Eliminated: []domain.EliminationRecord{},
	}
	for i := range next {
		c := &next[i]
		if !c.Alive {
			continue
		}
		result.TotalParticipants++
		if src.Float64() < SurviveChance(*c, ev.Type) {
			rec := domain.SurvivorRecord{
				CompetitorID:  c.ID,
				Number:        c.Number,
				Name:          c.Name,
				TimeRemaining: src.Intn(eventSeconds),
				EventKills:    src.Intn(maxEventKills + 1),
				Betrayed:      random.Bernoulli(src, betrayalChance),
			}
			rec.Score = rec.TimeRemaining + rec.EventKills*killPoints
			if rec.Betrayed {
				rec.Score -= betrayalPenalty
				c.Betrayals++
			}
			c.SurvivedEvents++
			c.Kills += rec.EventKills
			c.TotalScore += rec.Score
			result.Survivors = append(result.Survivors, rec)
			continue
		}
		c.Alive = false
		result.Eliminated = append(result.Eliminated, domain.EliminationRecord{
			CompetitorID:    c.ID,
			Number:          c.Number,
			Name:            c.Name,
			EliminationTime: src.Intn(eventSeconds),
			Cause:           random.Pick(src, causes),
		})
	}
	sort.SliceStable(result.Survivors, func(i, j int) bool {
		a, b := result.Survivors[i], result.Survivors[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Number < b.Number
	})
	return Resolution{Result: result, Players: next}
}
