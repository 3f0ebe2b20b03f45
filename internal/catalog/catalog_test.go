package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gamemaster/internal/domain"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	c := Default()
	if len(c.Events) < 6 {
		t.Fatalf("expected built-in events, got %d", len(c.Events))
	}
	ev, ok := c.Get("tug-of-war")
	if !ok {
		t.Fatalf("tug-of-war missing")
	}
	if ev.Type != domain.EventForce {
		t.Fatalf("tug-of-war type = %q", ev.Type)
	}
	if len(ev.DeathAnimations) == 0 {
		t.Fatalf("expected death animations on tug-of-war")
	}
	bridge, _ := c.Get("glass-bridge")
	if bridge.Type != domain.EventAgilite {
		t.Fatalf("glass-bridge type = %q", bridge.Type)
	}
}

func TestSelectKeepsRequestedOrder(t *testing.T) {
	c := Default()
	events, err := c.Select([]string{"squid-game", "dalgona", "dalgona"})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 || events[0].ID != "squid-game" || events[1].ID != "dalgona" || events[2].ID != "dalgona" {
		t.Fatalf("unexpected selection: %+v", c.IDs())
	}
	if _, err := c.Select([]string{"nope"}); err == nil {
		t.Fatalf("expected unknown event error")
	}
}

func TestValidateRejectsMalformedCatalogs(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "empty", yaml: "events: []"},
		{name: "missing id", yaml: "events:\n  - name: x\n    type: force\n    difficulty: 3\n"},
		{name: "difficulty", yaml: "events:\n  - id: a\n    name: x\n    type: force\n    difficulty: 11\n"},
		{name: "duplicate", yaml: "events:\n  - id: a\n    name: x\n    difficulty: 3\n  - id: a\n    name: y\n    difficulty: 3\n"},
		{name: "rates", yaml: "events:\n  - id: a\n    name: x\n    difficulty: 3\n    min_elimination_rate: 0.8\n    max_elimination_rate: 0.2\n"},
		{name: "durations", yaml: "events:\n  - id: a\n    name: x\n    difficulty: 3\n    min_duration: 50\n    max_duration: 10\n"},
		{name: "not yaml", yaml: "events: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromYAML([]byte(tt.yaml)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
	_, err := FromYAML([]byte("events:\n  - id: a\n    name: x\n    difficulty: 0\n"))
	if !errors.Is(err, domain.ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}
}

func TestUnknownTypeIsAccepted(t *testing.T) {
	c, err := FromYAML([]byte("events:\n  - id: mystery\n    name: Mystère\n    type: chance\n    difficulty: 2\n"))
	if err != nil {
		t.Fatalf("unknown types must be tolerated: %v", err)
	}
	if c.Events[0].Type != "chance" {
		t.Fatalf("type = %q", c.Events[0].Type)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.yml")
	if err := os.WriteFile(path, []byte("events:\n  - id: solo\n    name: Solo\n    type: force\n    difficulty: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Events) != 1 || c.Events[0].ID != "solo" {
		t.Fatalf("unexpected catalog: %+v", c.Events)
	}
	if _, err := Load(filepath.Join(dir, "missing.yml")); err == nil {
		t.Fatalf("expected missing file error")
	}
	def, err := Load("")
	if err != nil || len(def.Events) != len(Default().Events) {
		t.Fatalf("empty path should load the built-in catalog: %v", err)
	}
}
