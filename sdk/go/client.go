package gamemastersdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is a minimal game master HTTP API client.
type Client struct {
	BaseURL     string
	APIKey      string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

type Stats struct {
	Intelligence int `json:"intelligence"`
	Force        int `json:"force"`
	Agilite      int `json:"agilité"`
}

// Competitor represents the API competitor model (partial).
type Competitor struct {
	ID             string `json:"id"`
	Number         int    `json:"number"`
	Name           string `json:"name"`
	Nationality    string `json:"nationality"`
	Role           string `json:"role"`
	Stats          Stats  `json:"stats"`
	Alive          bool   `json:"alive"`
	Kills          int    `json:"kills"`
	SurvivedEvents int    `json:"survived_events"`
	TotalScore     int    `json:"total_score"`
}

type Event struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Difficulty int    `json:"difficulty"`
}

type EventResult struct {
	EventID    string `json:"event_id"`
	EventName  string `json:"event_name"`
	Survivors  []struct {
		CompetitorID string `json:"competitor_id"`
		Number       int    `json:"number"`
		Score        int    `json:"score"`
	} `json:"survivors"`
	Eliminated []struct {
		CompetitorID string `json:"competitor_id"`
		Number       int    `json:"number"`
		Cause        string `json:"cause"`
	} `json:"eliminated"`
	TotalParticipants int `json:"total_participants"`
}

// Session represents the API session model (partial).
type Session struct {
	ID                string        `json:"id"`
	Seed              int64         `json:"seed"`
	Players           []Competitor  `json:"players"`
	Events            []Event       `json:"events"`
	CurrentEventIndex int           `json:"current_event_index"`
	Phase             string        `json:"phase"`
	Completed         bool          `json:"completed"`
	Earnings          int           `json:"earnings"`
	Winner            *Competitor   `json:"winner,omitempty"`
	EventResults      []EventResult `json:"event_results"`
	CanCollect        bool          `json:"can_collect"`
}

type RankedEntry struct {
	Position  int    `json:"position"`
	ID        string `json:"id"`
	Number    int    `json:"number"`
	Name      string `json:"name"`
	Alive     bool   `json:"alive"`
	GameStats struct {
		TotalScore     int `json:"total_score"`
		SurvivedEvents int `json:"survived_events"`
		Kills          int `json:"kills"`
		Betrayals      int `json:"betrayals"`
	} `json:"game_stats"`
}

type Ranking struct {
	SessionID string        `json:"session_id"`
	Completed bool          `json:"completed"`
	Winner    *RankedEntry  `json:"winner,omitempty"`
	Entries   []RankedEntry `json:"entries"`
}

// CreateSessionRequest mirrors the create-session body. Zero values are omitted.
type CreateSessionRequest struct {
	Count    *int     `json:"count,omitempty"`
	Seed     *int64   `json:"seed,omitempty"`
	EventIDs []string `json:"event_ids,omitempty"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Code       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d code=%s body=%s", e.StatusCode, e.Code, e.Body)
}

// CreateSession creates a session and reports whether the count was clamped.
func (c *Client) CreateSession(ctx context.Context, req CreateSessionRequest) (Session, bool, error) {
	var resp struct {
		Session Session `json:"session"`
		Clamped bool    `json:"clamped"`
	}
	err := c.do(ctx, http.MethodPost, "v0/sessions", req, &resp)
	return resp.Session, resp.Clamped, err
}

func (c *Client) GetSession(ctx context.Context, id string) (Session, error) {
	var resp Session
	err := c.do(ctx, http.MethodGet, c.sessionPath(id, ""), nil, &resp)
	return resp, err
}

// SessionSummary is the list view of a session.
type SessionSummary struct {
	ID                string `json:"id"`
	Players           int    `json:"players"`
	Alive             int    `json:"alive"`
	Events            int    `json:"events"`
	CurrentEventIndex int    `json:"current_event_index"`
	Completed         bool   `json:"completed"`
	Earnings          int    `json:"earnings"`
}

func (c *Client) ListSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	endpoint := "v0/sessions"
	if limit > 0 {
		endpoint += "?limit=" + strconv.Itoa(limit)
	}
	var resp []SessionSummary
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.sessionPath(id, ""), nil, nil)
}

// Run resolves every remaining event and returns the per-event results.
func (c *Client) Run(ctx context.Context, id string) (Session, []EventResult, error) {
	var resp struct {
		Session Session       `json:"session"`
		Results []EventResult `json:"results"`
	}
	err := c.do(ctx, http.MethodPost, c.sessionPath(id, "run"), nil, &resp)
	return resp.Session, resp.Results, err
}

// Start resolves the session's current event.
func (c *Client) Start(ctx context.Context, id string) (Session, EventResult, error) {
	var resp struct {
		Session Session     `json:"session"`
		Result  EventResult `json:"result"`
	}
	err := c.do(ctx, http.MethodPost, c.sessionPath(id, "start"), nil, &resp)
	return resp.Session, resp.Result, err
}

func (c *Client) Skip(ctx context.Context, id string) (Session, error) {
	var resp Session
	err := c.do(ctx, http.MethodPost, c.sessionPath(id, "skip"), nil, &resp)
	return resp, err
}

func (c *Client) Ranking(ctx context.Context, id string) (Ranking, error) {
	var resp Ranking
	err := c.do(ctx, http.MethodGet, c.sessionPath(id, "ranking"), nil, &resp)
	return resp, err
}

// Collect credits the earnings of a completed session.
func (c *Client) Collect(ctx context.Context, id string) (int, error) {
	var resp struct {
		Earnings int `json:"earnings"`
	}
	err := c.do(ctx, http.MethodPost, c.sessionPath(id, "collect"), nil, &resp)
	return resp.Earnings, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	target := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, target, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	switch {
	case c.BearerToken != "":
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	case c.APIKey != "":
		req.Header.Set("X-Api-Key", c.APIKey)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(b)}
		var env struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if json.Unmarshal(b, &env) == nil {
			apiErr.Code = env.Error.Code
		}
		return apiErr
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) sessionPath(id, action string) string {
	p := "v0/sessions/" + url.PathEscape(id)
	if action != "" {
		p += "/" + action
	}
	return p
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
