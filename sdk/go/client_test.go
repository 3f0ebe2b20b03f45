package gamemastersdk_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"gamemaster/internal/catalog"
	"gamemaster/internal/config"
	"gamemaster/internal/db"
	"gamemaster/internal/engine"
	"gamemaster/internal/migrate"
	"gamemaster/internal/server"
	gamemastersdk "gamemaster/sdk/go"
)

func newClient(t *testing.T) *gamemastersdk.Client {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	e := engine.New(conn, config.Default(), catalog.Default(), nil, nil)
	handler, err := server.New(server.Config{Engine: e, Auth: server.AuthConfig{JWTSecret: "sdk-secret"}})
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	token, err := server.SignToken("sdk-secret", "sdk", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	c := gamemastersdk.New(srv.URL)
	c.BearerToken = token
	return c
}

func TestClientPlaysASession(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()
	count, seed := 30, int64(11)

	s, clamped, err := c.CreateSession(ctx, gamemastersdk.CreateSessionRequest{Count: &count, Seed: &seed, EventIDs: []string{"dalgona", "marbles", "tug-of-war"}})
	if err != nil {
		t.Fatal(err)
	}
	if clamped || len(s.Players) != 30 || s.Seed != 11 {
		t.Fatalf("unexpected session: players=%d seed=%d", len(s.Players), s.Seed)
	}

	s, err = c.Skip(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if s.CurrentEventIndex != 1 {
		t.Fatalf("skip did not advance: %d", s.CurrentEventIndex)
	}
	for !s.Completed {
		var res gamemastersdk.EventResult
		s, res, err = c.Start(ctx, s.ID)
		if err != nil {
			t.Fatal(err)
		}
		if res.TotalParticipants != len(res.Survivors)+len(res.Eliminated) {
			t.Fatalf("population not conserved in %s", res.EventID)
		}
	}

	r, err := c.Ranking(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Entries) != 30 || !r.Completed {
		t.Fatalf("unexpected ranking: %+v", r.Completed)
	}
	if s.Winner != nil && (r.Winner == nil || r.Winner.ID != s.Winner.ID) {
		t.Fatalf("ranking winner mismatch")
	}

	earnings, err := c.Collect(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if earnings != s.Earnings {
		t.Fatalf("collected %d, session says %d", earnings, s.Earnings)
	}
	_, err = c.Collect(ctx, s.ID)
	var apiErr *gamemastersdk.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 409 || apiErr.Code != "already_collected" {
		t.Fatalf("expected already_collected, got %v", err)
	}

	fetched, err := c.GetSession(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if fetched.CanCollect {
		t.Fatalf("can_collect should be cleared")
	}
}

func TestClientReportsNotFound(t *testing.T) {
	c := newClient(t)
	_, err := c.GetSession(context.Background(), "missing")
	var apiErr *gamemastersdk.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 404 || apiErr.Code != "not_found" {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestClientRunListDelete(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()
	seed := int64(5)

	s, _, err := c.CreateSession(ctx, gamemastersdk.CreateSessionRequest{Seed: &seed})
	if err != nil {
		t.Fatal(err)
	}
	s, results, err := c.Run(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Completed || len(results) == 0 {
		t.Fatalf("run did not complete the session")
	}
	list, err := c.ListSessions(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != s.ID {
		t.Fatalf("unexpected list: %+v", list)
	}
	if err := c.DeleteSession(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	list, err = c.ListSessions(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Fatalf("session not deleted")
	}
}
