package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"gamemaster/internal/domain"
	"gamemaster/internal/engine"
	"gamemaster/internal/engine/progression"
	"gamemaster/internal/logger"
	"gamemaster/internal/repo"
)

// Config for the HTTP API handler.
type Config struct {
	Engine   engine.Engine
	BasePath string
	Auth     AuthConfig
	Logger   *zap.Logger
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"session_completed"`
	Message string         `json:"message" example:"start: session already completed"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError models the error envelope.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the game master API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v0"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	log := logger.OrNop(cfg.Logger)
	huma.DefaultArrayNullable = false
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		var details map[string]any
		if len(errs) > 0 {
			details = map[string]any{"errors": errs}
		}
		if status == http.StatusUnprocessableEntity {
			// Schema/request validation errors are 400 bad_request.
			status = http.StatusBadRequest
		}
		return newAPIError(status, "", msg, details)
	}

	router := chi.NewRouter()
	router.Use(newAuthMiddleware(basePath, cfg.Auth, cfg.Engine.Repo, log))
	hcfg := huma.DefaultConfig("Game Master API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = ""
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	if cfg.Engine.Metrics != nil {
		router.Handle("/metrics", cfg.Engine.Metrics.Handler())
	}
	registerHealth(group)
	registerMe(group)
	registerCatalog(group, cfg.Engine)
	registerSessions(group, cfg.Engine, log)
	registerPlay(group, cfg.Engine, log)
	registerLog(group, cfg.Engine, log)
	registerOpenAPI(router, api, basePath)

	return router, nil
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func handleError(log *zap.Logger, err error) huma.StatusError {
	if err == nil {
		return nil
	}
	var se huma.StatusError
	if errors.As(err, &se) {
		return se
	}
	msg := err.Error()
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return newAPIError(http.StatusNotFound, "not_found", msg, nil)
	case errors.Is(err, repo.ErrConflict):
		return newAPIError(http.StatusConflict, "conflict", msg, nil)
	case errors.Is(err, repo.ErrAlreadyCollected):
		return newAPIError(http.StatusConflict, "already_collected", msg, nil)
	case errors.Is(err, progression.ErrCompleted):
		return newAPIError(http.StatusConflict, "session_completed", msg, nil)
	case errors.Is(err, progression.ErrNotIdle):
		return newAPIError(http.StatusConflict, "event_in_progress", msg, nil)
	case errors.Is(err, progression.ErrNoNextEvent):
		return newAPIError(http.StatusConflict, "no_next_event", msg, nil)
	case errors.Is(err, engine.ErrNotCompleted):
		return newAPIError(http.StatusConflict, "not_completed", msg, nil)
	case errors.Is(err, progression.ErrNoEvents), errors.Is(err, domain.ErrInvalidEvent):
		return newAPIError(http.StatusBadRequest, "invalid_configuration", msg, nil)
	case strings.Contains(strings.ToLower(msg), "required"):
		return newAPIError(http.StatusBadRequest, "bad_request", msg, nil)
	default:
		log.Error("request failed", zap.Error(err))
		return newAPIError(http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func registerOpenAPI(r chi.Router, api huma.API, basePath string) {
	var spec []byte
	specPath := path.Join(basePath, "openapi.json")
	r.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		if spec == nil {
			oas := api.OpenAPI()
			applyAuthSecurity(oas, basePath)
			spec, _ = json.Marshal(oas)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(spec)
	})
}

func applyAuthSecurity(oas *huma.OpenAPI, basePath string) {
	if oas == nil {
		return
	}
	if oas.Components == nil {
		oas.Components = &huma.Components{}
	}
	if oas.Components.SecuritySchemes == nil {
		oas.Components.SecuritySchemes = map[string]*huma.SecurityScheme{}
	}
	oas.Components.SecuritySchemes["bearerAuth"] = &huma.SecurityScheme{
		Type:         "http",
		Scheme:       "bearer",
		BearerFormat: "JWT",
	}
	oas.Components.SecuritySchemes["apiKeyAuth"] = &huma.SecurityScheme{
		Type: "apiKey",
		In:   "header",
		Name: "X-Api-Key",
	}
	security := []map[string][]string{
		{"bearerAuth": {}},
		{"apiKeyAuth": {}},
	}
	oas.Security = security
	healthPath := path.Join(basePath, "health")
	for route, item := range oas.Paths {
		for _, op := range []*huma.Operation{item.Get, item.Put, item.Post, item.Delete, item.Patch} {
			if op == nil {
				continue
			}
			if route == healthPath {
				op.Security = []map[string][]string{}
				continue
			}
			op.Security = security
		}
	}
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerMe(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "me",
		Method:      http.MethodGet,
		Path:        "/me",
		Summary:     "Current principal",
		Errors:      []int{http.StatusUnauthorized},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body WhoAmIResponse `json:"body"`
	}, error) {
		p, ok := principalFromContext(ctx)
		if !ok {
			return nil, newAPIError(http.StatusUnauthorized, "unauthorized", "authentication required", nil)
		}
		return &struct {
			Body WhoAmIResponse `json:"body"`
		}{Body: WhoAmIResponse{ActorID: p.ActorID, Source: p.Source}}, nil
	})
}

func registerCatalog(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-catalog",
		Method:      http.MethodGet,
		Path:        "/catalog",
		Summary:     "List known events",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.EventDefinition `json:"body"`
	}, error) {
		var items []domain.EventDefinition
		if e.Catalog != nil {
			items = e.Catalog.Events
		}
		return &struct {
			Body []domain.EventDefinition `json:"body"`
		}{Body: nonNilSlice(items)}, nil
	})
}

type sessionPath struct {
	SessionID string `path:"session_id"`
}

func registerSessions(api huma.API, e engine.Engine, log *zap.Logger) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-session",
		Method:        http.MethodPost,
		Path:          "/sessions",
		Summary:       "Create session",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusUnauthorized},
	}, func(ctx context.Context, input *struct {
		Body CreateSessionRequest `json:"body"`
	}) (*struct {
		Body CreateSessionResponse `json:"body"`
	}, error) {
		actorID, authErr := actorIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		opts := engine.CreateSessionOptions{
			EventIDs:    input.Body.EventIDs,
			Events:      input.Body.Events,
			Entrants:    input.Body.entrants(),
			Celebrities: input.Body.Celebrities,
			Seed:        input.Body.Seed,
			ActorID:     actorID,
		}
		if input.Body.Count != nil {
			opts.Count = *input.Body.Count
			if opts.Count == 0 {
				// An explicit zero is clamped like any other out-of-range count.
				opts.Count = -1
			}
		}
		res, err := e.CreateSession(ctx, opts)
		if err != nil {
			return nil, handleError(log, err)
		}
		return &struct {
			Body CreateSessionResponse `json:"body"`
		}{Body: CreateSessionResponse{Session: res.Session, Clamped: res.Clamped}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-sessions",
		Method:      http.MethodGet,
		Path:        "/sessions",
		Summary:     "List sessions",
	}, func(ctx context.Context, input *struct {
		Limit int `query:"limit" default:"50"`
	}) (*struct {
		Body []domain.SessionSummary `json:"body"`
	}, error) {
		items, err := e.ListSessions(ctx, normalizeLimit(input.Limit))
		if err != nil {
			return nil, handleError(log, err)
		}
		return &struct {
			Body []domain.SessionSummary `json:"body"`
		}{Body: nonNilSlice(items)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/sessions/{session_id}",
		Summary:     "Get session",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *sessionPath) (*struct {
		Body domain.GameSession `json:"body"`
	}, error) {
		s, err := e.GetSession(ctx, input.SessionID)
		if err != nil {
			return nil, handleError(log, err)
		}
		return &struct {
			Body domain.GameSession `json:"body"`
		}{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-session",
		Method:        http.MethodDelete,
		Path:          "/sessions/{session_id}",
		Summary:       "Delete session",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, func(ctx context.Context, input *sessionPath) (*struct{}, error) {
		actorID, authErr := actorIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if err := e.DeleteSession(ctx, input.SessionID, actorID); err != nil {
			return nil, handleError(log, err)
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-ranking",
		Method:      http.MethodGet,
		Path:        "/sessions/{session_id}/ranking",
		Summary:     "Session ranking",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *sessionPath) (*struct {
		Body RankingResponse `json:"body"`
	}, error) {
		s, err := e.GetSession(ctx, input.SessionID)
		if err != nil {
			return nil, handleError(log, err)
		}
		return &struct {
			Body RankingResponse `json:"body"`
		}{Body: rankingResponse(s)}, nil
	})
}

func registerPlay(api huma.API, e engine.Engine, log *zap.Logger) {
	playErrors := []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict}

	huma.Register(api, huma.Operation{
		OperationID: "start-event",
		Method:      http.MethodPost,
		Path:        "/sessions/{session_id}/start",
		Summary:     "Resolve the current event",
		Errors:      playErrors,
	}, func(ctx context.Context, input *sessionPath) (*struct {
		Body StepResponse `json:"body"`
	}, error) {
		actorID, authErr := actorIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		step, err := e.StartEvent(ctx, input.SessionID, actorID)
		if err != nil {
			return nil, handleError(log, err)
		}
		return &struct {
			Body StepResponse `json:"body"`
		}{Body: StepResponse{Session: step.Session, Result: step.Result}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "skip-event",
		Method:      http.MethodPost,
		Path:        "/sessions/{session_id}/skip",
		Summary:     "Skip the current event",
		Errors:      playErrors,
	}, func(ctx context.Context, input *sessionPath) (*struct {
		Body domain.GameSession `json:"body"`
	}, error) {
		actorID, authErr := actorIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		s, err := e.SkipEvent(ctx, input.SessionID, actorID)
		if err != nil {
			return nil, handleError(log, err)
		}
		return &struct {
			Body domain.GameSession `json:"body"`
		}{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "run-session",
		Method:      http.MethodPost,
		Path:        "/sessions/{session_id}/run",
		Summary:     "Resolve every remaining event",
		Errors:      playErrors,
	}, func(ctx context.Context, input *sessionPath) (*struct {
		Body RunResponse `json:"body"`
	}, error) {
		actorID, authErr := actorIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		s, results, err := e.RunToEnd(ctx, input.SessionID, actorID)
		if err != nil {
			return nil, handleError(log, err)
		}
		return &struct {
			Body RunResponse `json:"body"`
		}{Body: RunResponse{Session: s, Results: nonNilSlice(results)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "collect-earnings",
		Method:      http.MethodPost,
		Path:        "/sessions/{session_id}/collect",
		Summary:     "Collect the earnings of a completed session",
		Errors:      playErrors,
	}, func(ctx context.Context, input *sessionPath) (*struct {
		Body CollectResponse `json:"body"`
	}, error) {
		actorID, authErr := actorIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		s, err := e.CollectEarnings(ctx, input.SessionID, actorID)
		if err != nil {
			return nil, handleError(log, err)
		}
		return &struct {
			Body CollectResponse `json:"body"`
		}{Body: CollectResponse{SessionID: s.ID, Earnings: s.Earnings, Collected: true}}, nil
	})
}

func registerLog(api huma.API, e engine.Engine, log *zap.Logger) {
	huma.Register(api, huma.Operation{
		OperationID: "session-log",
		Method:      http.MethodGet,
		Path:        "/sessions/{session_id}/log",
		Summary:     "List recent log entries for a session",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		SessionID string `path:"session_id"`
		Type      string `query:"type"`
		Limit     int    `query:"limit" default:"50"`
		Cursor    string `query:"cursor"`
	}) (*struct {
		Body paginatedEvents `json:"body"`
	}, error) {
		limit := normalizeLimit(input.Limit)
		var cursorID int64
		if input.Cursor != "" {
			parsed, err := strconv.ParseInt(input.Cursor, 10, 64)
			if err != nil {
				return nil, newAPIError(http.StatusBadRequest, "bad_request", "invalid cursor", map[string]any{"cursor": input.Cursor})
			}
			cursorID = parsed
		}
		items, err := e.Repo.LatestEvents(ctx, limit+1, cursorID, repo.EventFilters{SessionID: input.SessionID, Type: input.Type})
		if err != nil {
			return nil, handleError(log, err)
		}
		resp := paginatedEvents{Items: []EventResponse{}}
		if len(items) > limit {
			resp.NextCursor = fmt.Sprintf("%d", items[limit-1].ID)
			items = items[:limit]
		}
		for _, evt := range items {
			resp.Items = append(resp.Items, eventResponse(evt))
		}
		return &struct {
			Body paginatedEvents `json:"body"`
		}{Body: resp}, nil
	})
}

func normalizeLimit(in int) int {
	if in <= 0 {
		return 50
	}
	if in > 200 {
		return 200
	}
	return in
}
