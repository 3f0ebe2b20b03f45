package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"gamemaster/internal/domain"
)

//go:embed default.yml
var defaultCatalog []byte

// Catalog is the ordered, read-only list of known event definitions.
type Catalog struct {
	Events []domain.EventDefinition `yaml:"events" json:"events"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := FromYAML(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog: %v", err))
	}
	return c
}

// FromYAML parses and validates a catalog from raw YAML bytes.
func FromYAML(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("invalid catalog yaml: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads a catalog file; an empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("catalog %s not found", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate checks every event and the hints that come with it.
func (c *Catalog) Validate() error {
	if len(c.Events) == 0 {
		return fmt.Errorf("catalog.events is required")
	}
	seen := make(map[string]struct{}, len(c.Events))
	for _, ev := range c.Events {
		if err := ev.Validate(); err != nil {
			return err
		}
		if _, dup := seen[ev.ID]; dup {
			return fmt.Errorf("duplicate event id %s", ev.ID)
		}
		seen[ev.ID] = struct{}{}
		if ev.MinEliminationRate < 0 || ev.MaxEliminationRate > 1 {
			return fmt.Errorf("event %s elimination rates must be within 0..1", ev.ID)
		}
		if ev.MaxEliminationRate > 0 && ev.MinEliminationRate > ev.MaxEliminationRate {
			return fmt.Errorf("event %s min_elimination_rate exceeds max_elimination_rate", ev.ID)
		}
		if ev.MinDuration < 0 || (ev.MaxDuration > 0 && ev.MinDuration > ev.MaxDuration) {
			return fmt.Errorf("event %s has invalid duration bounds", ev.ID)
		}
	}
	return nil
}

// Get returns the event with id.
func (c *Catalog) Get(id string) (domain.EventDefinition, bool) {
	for _, ev := range c.Events {
		if ev.ID == id {
			return ev, true
		}
	}
	return domain.EventDefinition{}, false
}

// Select returns the events named by ids, in the requested order.
// Repeating an id schedules the event again.
func (c *Catalog) Select(ids []string) ([]domain.EventDefinition, error) {
	out := make([]domain.EventDefinition, 0, len(ids))
	for _, id := range ids {
		ev, ok := c.Get(strings.TrimSpace(id))
		if !ok {
			return nil, fmt.Errorf("unknown event %s", id)
		}
		out = append(out, ev)
	}
	return out, nil
}

// IDs lists the catalog's event ids in order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.Events))
	for _, ev := range c.Events {
		ids = append(ids, ev.ID)
	}
	return ids
}
