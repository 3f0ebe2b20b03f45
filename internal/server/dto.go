package server

import (
	"gamemaster/internal/domain"
	"gamemaster/internal/engine/ranking"
	"gamemaster/internal/engine/roster"
	"gamemaster/internal/events"
)

// Request payloads

type EntrantRequest struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name,omitempty"`
	Nationality string       `json:"nationality,omitempty"`
	Gender      string       `json:"gender,omitempty" enum:"M,F"`
	Role        string       `json:"role,omitempty"`
	Stats       domain.Stats `json:"stats"`
	Portrait    string       `json:"portrait,omitempty"`
}

type CreateSessionRequest struct {
	Count       *int                     `json:"count,omitempty" doc:"Generated competitors, clamped to 20..1000"`
	Seed        *int64                   `json:"seed,omitempty" doc:"Fixed seed for a reproducible session"`
	EventIDs    []string                 `json:"event_ids,omitempty" doc:"Catalog event ids in play order"`
	Events      []domain.EventDefinition `json:"events,omitempty" doc:"Inline events; take precedence over event_ids"`
	Entrants    []EntrantRequest         `json:"entrants,omitempty"`
	Celebrities []roster.Celebrity       `json:"celebrities,omitempty"`
}

func (r CreateSessionRequest) entrants() []domain.Competitor {
	if len(r.Entrants) == 0 {
		return nil
	}
	out := make([]domain.Competitor, 0, len(r.Entrants))
	for _, e := range r.Entrants {
		out = append(out, domain.Competitor{
			ID:          e.ID,
			Name:        e.Name,
			Nationality: e.Nationality,
			Gender:      e.Gender,
			Role:        domain.Role(e.Role),
			Stats:       e.Stats,
			Portrait:    e.Portrait,
		})
	}
	return out
}

// Response payloads

type CreateSessionResponse struct {
	Session domain.GameSession `json:"session"`
	Clamped bool               `json:"clamped"`
}

type StepResponse struct {
	Session domain.GameSession `json:"session"`
	Result  domain.EventResult `json:"result"`
}

type RunResponse struct {
	Session domain.GameSession   `json:"session"`
	Results []domain.EventResult `json:"results"`
}

type RankingResponse struct {
	SessionID string               `json:"session_id"`
	Completed bool                 `json:"completed"`
	Winner    *domain.RankedEntry  `json:"winner,omitempty"`
	Entries   []domain.RankedEntry `json:"entries"`
}

type CollectResponse struct {
	SessionID string `json:"session_id"`
	Earnings  int    `json:"earnings"`
	Collected bool   `json:"collected"`
}

type EventResponse struct {
	ID         int64          `json:"id"`
	TS         string         `json:"ts" format:"date-time"`
	Type       string         `json:"type"`
	SessionID  string         `json:"session_id,omitempty"`
	EntityKind string         `json:"entity_kind"`
	EntityID   string         `json:"entity_id,omitempty"`
	ActorID    string         `json:"actor_id"`
	Payload    map[string]any `json:"payload"`
}

type paginatedEvents struct {
	Items      []EventResponse `json:"items"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

type WhoAmIResponse struct {
	ActorID string `json:"actor_id"`
	Source  string `json:"source"`
}

func rankingResponse(s domain.GameSession) RankingResponse {
	entries := ranking.Rank(s.Players)
	return RankingResponse{
		SessionID: s.ID,
		Completed: s.Completed,
		Winner:    ranking.Winner(entries),
		Entries:   nonNilSlice(entries),
	}
}

func eventResponse(evt domain.Event) EventResponse {
	return EventResponse{
		ID:         evt.ID,
		TS:         evt.TS,
		Type:       evt.Type,
		SessionID:  evt.SessionID,
		EntityKind: evt.EntityKind,
		EntityID:   evt.EntityID,
		ActorID:    evt.ActorID,
		Payload:    events.Payload(evt),
	}
}

func nonNilSlice[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
