package domain

import (
	"errors"
	"fmt"
	"strings"
)

type Role string

const (
	RoleNormal      Role = "normal"
	RoleSportif     Role = "sportif"
	RolePeureux     Role = "peureux"
	RoleBrute       Role = "brute"
	RoleIntelligent Role = "intelligent"
	RoleZero        Role = "zero"
)

// Roles lists every archetype in table order.
var Roles = []Role{RoleNormal, RoleSportif, RolePeureux, RoleBrute, RoleIntelligent, RoleZero}

// Valid reports whether r is a known archetype.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

type EventType string

const (
	EventIntelligence EventType = "intelligence"
	EventForce        EventType = "force"
	EventAgilite      EventType = "agilité"
)

const (
	StatMin = 0
	StatMax = 10
)

type Stats struct {
	Intelligence int `json:"intelligence" yaml:"intelligence"`
	Force        int `json:"force" yaml:"force"`
	Agilite      int `json:"agilité" yaml:"agilité"`
}

// Clamp returns s with every stat forced into [StatMin, StatMax].
func (s Stats) Clamp() Stats {
	return Stats{
		Intelligence: clampStat(s.Intelligence),
		Force:        clampStat(s.Force),
		Agilite:      clampStat(s.Agilite),
	}
}

// Mean is the average of the three stats.
func (s Stats) Mean() float64 {
	return float64(s.Intelligence+s.Force+s.Agilite) / 3
}

func clampStat(v int) int {
	if v < StatMin {
		return StatMin
	}
	if v > StatMax {
		return StatMax
	}
	return v
}

type Competitor struct {
	ID             string `json:"id"`
	Number         int    `json:"number"`
	Name           string `json:"name"`
	Nationality    string `json:"nationality"`
	Gender         string `json:"gender" enum:"M,F"`
	Role           Role   `json:"role" enum:"normal,sportif,peureux,brute,intelligent,zero"`
	Stats          Stats  `json:"stats"`
	Portrait       string `json:"portrait,omitempty"`
	Uniform        string `json:"uniform,omitempty"`
	Alive          bool   `json:"alive"`
	Kills          int    `json:"kills"`
	Betrayals      int    `json:"betrayals"`
	SurvivedEvents int    `json:"survived_events"`
	TotalScore     int    `json:"total_score"`
	IsCustom       bool   `json:"is_custom,omitempty"`
	IsCelebrity    bool   `json:"is_celebrity,omitempty"`
}

// DisplayNumber is the zero-padded number shown on the competitor's uniform.
func (c Competitor) DisplayNumber() string {
	return fmt.Sprintf("%03d", c.Number)
}

type EventDefinition struct {
	ID                 string    `json:"id" yaml:"id"`
	Name               string    `json:"name" yaml:"name"`
	Type               EventType `json:"type" yaml:"type"`
	Difficulty         int       `json:"difficulty" yaml:"difficulty" minimum:"1" maximum:"10"`
	Description        string    `json:"description,omitempty" yaml:"description"`
	Decor              string    `json:"decor,omitempty" yaml:"decor"`
	DeathAnimations    []string  `json:"death_animations,omitempty" yaml:"death_animations"`
	SpecialMechanics   []string  `json:"special_mechanics,omitempty" yaml:"special_mechanics"`
	MinEliminationRate float64   `json:"min_elimination_rate,omitempty" yaml:"min_elimination_rate"`
	MaxEliminationRate float64   `json:"max_elimination_rate,omitempty" yaml:"max_elimination_rate"`
	MinDuration        int       `json:"min_duration,omitempty" yaml:"min_duration"`
	MaxDuration        int       `json:"max_duration,omitempty" yaml:"max_duration"`
	Category           string    `json:"category,omitempty" yaml:"category"`
}

// ErrInvalidEvent marks a malformed event definition.
var ErrInvalidEvent = errors.New("invalid event definition")

// Validate checks the fields the engine relies on. Unknown types are allowed.
func (e EventDefinition) Validate() error {
	switch {
	case strings.TrimSpace(e.ID) == "":
		return fmt.Errorf("%w: id is required", ErrInvalidEvent)
	case strings.TrimSpace(e.Name) == "":
		return fmt.Errorf("%w: event %s has no name", ErrInvalidEvent, e.ID)
	case e.Difficulty < 1 || e.Difficulty > 10:
		return fmt.Errorf("%w: event %s difficulty %d outside 1..10", ErrInvalidEvent, e.ID, e.Difficulty)
	}
	return nil
}

type SurvivorRecord struct {
	CompetitorID  string `json:"competitor_id"`
	Number        int    `json:"number"`
	Name          string `json:"name"`
	TimeRemaining int    `json:"time_remaining"`
	EventKills    int    `json:"event_kills"`
	Betrayed      bool   `json:"betrayed"`
	Score         int    `json:"score"`
}

type EliminationRecord struct {
	CompetitorID    string `json:"competitor_id"`
	Number          int    `json:"number"`
	Name            string `json:"name"`
	EliminationTime int    `json:"elimination_time"`
	Cause           string `json:"cause"`
}

type EventResult struct {
	EventID           string              `json:"event_id"`
	EventName         string              `json:"event_name"`
	Survivors         []SurvivorRecord    `json:"survivors"`
	Eliminated        []EliminationRecord `json:"eliminated"`
	TotalParticipants int                 `json:"total_participants"`
}

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseResolving Phase = "resolving"
	PhaseCompleted Phase = "completed"
)

type GameSession struct {
	ID                string            `json:"id"`
	Seed              int64             `json:"seed"`
	Players           []Competitor      `json:"players"`
	Events            []EventDefinition `json:"events"`
	CurrentEventIndex int               `json:"current_event_index"`
	Phase             Phase             `json:"phase" enum:"idle,resolving,completed"`
	Completed         bool              `json:"completed"`
	Earnings          int               `json:"earnings"`
	Winner            *Competitor       `json:"winner,omitempty"`
	EventResults      []EventResult     `json:"event_results"`
	CanCollect        bool              `json:"can_collect"`
	Version           int               `json:"version"`
	CreatedAt         string            `json:"created_at" format:"date-time"`
	UpdatedAt         string            `json:"updated_at" format:"date-time"`
}

// AlivePlayers returns the competitors still in the game.
func (s GameSession) AlivePlayers() []Competitor {
	var res []Competitor
	for _, p := range s.Players {
		if p.Alive {
			res = append(res, p)
		}
	}
	return res
}

// EliminatedCount counts competitors no longer alive.
func (s GameSession) EliminatedCount() int {
	n := 0
	for _, p := range s.Players {
		if !p.Alive {
			n++
		}
	}
	return n
}

// Clone returns a deep copy so that engine steps never alias a previous snapshot.
func (s GameSession) Clone() GameSession {
	out := s
	out.Players = append([]Competitor(nil), s.Players...)
	out.Events = append([]EventDefinition(nil), s.Events...)
	out.EventResults = append(make([]EventResult, 0, len(s.EventResults)+1), s.EventResults...)
	if s.Winner != nil {
		w := *s.Winner
		out.Winner = &w
	}
	return out
}

type GameStats struct {
	TotalScore     int `json:"total_score"`
	SurvivedEvents int `json:"survived_events"`
	Kills          int `json:"kills"`
	Betrayals      int `json:"betrayals"`
}

type RankedEntry struct {
	Position    int       `json:"position"`
	ID          string    `json:"id"`
	Number      int       `json:"number"`
	Name        string    `json:"name"`
	Nationality string    `json:"nationality"`
	Role        Role      `json:"role"`
	Alive       bool      `json:"alive"`
	IsCustom    bool      `json:"is_custom,omitempty"`
	IsCelebrity bool      `json:"is_celebrity,omitempty"`
	GameStats   GameStats `json:"game_stats"`
}

// SessionSummary is the list view of a stored session.
type SessionSummary struct {
	ID                string `json:"id"`
	Players           int    `json:"players"`
	Alive             int    `json:"alive"`
	Events            int    `json:"events"`
	CurrentEventIndex int    `json:"current_event_index"`
	Completed         bool   `json:"completed"`
	Earnings          int    `json:"earnings"`
	CreatedAt         string `json:"created_at" format:"date-time"`
}

type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	SessionID  string `json:"session_id,omitempty"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	ActorID    string `json:"actor_id"`
	Payload    string `json:"payload_json"`
}

type APIKey struct {
	ID        string `json:"id"`
	ActorID   string `json:"actor_id"`
	Name      string `json:"name,omitempty"`
	KeyHash   string `json:"key_hash"`
	CreatedAt string `json:"created_at" format:"date-time"`
}
