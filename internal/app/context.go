package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"gamemaster/internal/catalog"
	"gamemaster/internal/config"
)

// ResolveConfigAndCatalog loads gamemaster.yml from the workspace (falling back
// to defaults when absent) and the event catalog it points at. A relative
// catalog path is resolved against the workspace. The configured default events
// must all exist in the catalog.
func ResolveConfigAndCatalog(workspace string) (*config.Config, *catalog.Catalog, error) {
	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		return nil, nil, err
	}
	file := strings.TrimSpace(cfg.Catalog.File)
	if file != "" && !filepath.IsAbs(file) {
		if workspace == "" {
			workspace = "."
		}
		file = filepath.Join(workspace, file)
	}
	cat, err := catalog.Load(file)
	if err != nil {
		return nil, nil, err
	}
	if len(cfg.Game.DefaultEvents) > 0 {
		if _, err := cat.Select(cfg.Game.DefaultEvents); err != nil {
			return nil, nil, fmt.Errorf("config.game.default_events: %w", err)
		}
	}
	return cfg, cat, nil
}
