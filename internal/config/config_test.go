package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.Game.RosterSize != 456 {
		t.Fatalf("roster_size = %d", cfg.Game.RosterSize)
	}
	if cfg.Game.BasePayout != 10000 || cfg.Game.PayoutPerElimination != 100 {
		t.Fatalf("unexpected payouts: %+v", cfg.Game)
	}
	if len(cfg.Game.DefaultEvents) == 0 {
		t.Fatalf("expected default events")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "negative roster", yaml: "game:\n  roster_size: -1\n"},
		{name: "negative payout", yaml: "game:\n  base_payout: -5\n"},
		{name: "empty default event", yaml: "game:\n  default_events: [\"\"]\n"},
		{name: "webhook without url", yaml: "webhooks:\n  - secret: x\n"},
		{name: "webhook scheme", yaml: "webhooks:\n  - url: ftp://example.com\n"},
		{name: "webhook timeout", yaml: "webhooks:\n  - url: http://example.com\n    timeout_seconds: -2\n"},
		{name: "bad yaml", yaml: "game: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromYAML([]byte(tt.yaml)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadOptionalFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadOptional(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Game.RosterSize != Default().Game.RosterSize {
		t.Fatalf("expected defaults, got %+v", cfg.Game)
	}
	if _, err := Load(dir); err == nil {
		t.Fatalf("Load must fail without a config file")
	}
}

func TestLoadWorkspaceConfig(t *testing.T) {
	dir := t.TempDir()
	data := "game:\n  roster_size: 50\n  default_events: [dalgona]\nwebhooks:\n  - url: http://localhost:9/hook\n    enabled: false\n"
	if err := os.WriteFile(filepath.Join(dir, "gamemaster.yml"), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Game.RosterSize != 50 || len(cfg.Game.DefaultEvents) != 1 {
		t.Fatalf("unexpected config: %+v", cfg.Game)
	}
	if cfg.Webhooks[0].IsEnabled() {
		t.Fatalf("webhook should be disabled")
	}
	if !(Webhook{URL: "http://x"}).IsEnabled() {
		t.Fatalf("webhook without enabled flag should default to enabled")
	}
}
