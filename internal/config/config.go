package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config models gamemaster.yml.
type Config struct {
	Game struct {
		RosterSize           int      `yaml:"roster_size"`
		BasePayout           int      `yaml:"base_payout"`
		PayoutPerElimination int      `yaml:"payout_per_elimination"`
		DefaultEvents        []string `yaml:"default_events"`
	} `yaml:"game"`
	Catalog struct {
		File string `yaml:"file"`
	} `yaml:"catalog"`
	Webhooks []Webhook `yaml:"webhooks"`
}

type Webhook struct {
	URL            string   `yaml:"url"`
	Secret         string   `yaml:"secret"`
	Events         []string `yaml:"events"`
	Enabled        *bool    `yaml:"enabled"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

// IsEnabled treats a missing enabled flag as true.
func (w Webhook) IsEnabled() bool {
	return w.Enabled == nil || *w.Enabled
}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; create one with gm config init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns the default config if the file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Game.RosterSize < 0 {
		return fmt.Errorf("config.game.roster_size must not be negative")
	}
	if c.Game.BasePayout < 0 || c.Game.PayoutPerElimination < 0 {
		return fmt.Errorf("config.game payouts must not be negative")
	}
	for i, id := range c.Game.DefaultEvents {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("config.game.default_events[%d] is empty", i)
		}
	}
	for i, wh := range c.Webhooks {
		if wh.URL == "" {
			return fmt.Errorf("config.webhooks[%d].url is required", i)
		}
		u, err := url.Parse(wh.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("config.webhooks[%d].url must be an http(s) url", i)
		}
		if wh.TimeoutSeconds < 0 {
			return fmt.Errorf("config.webhooks[%d].timeout_seconds must not be negative", i)
		}
		for _, ev := range wh.Events {
			if ev == "" {
				return fmt.Errorf("config.webhooks[%d] has empty event type", i)
			}
		}
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "gamemaster.yml")
}

// GenerateDefault returns default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// Default returns the default Config struct.
func Default() *Config {
	cfg, err := FromYAML([]byte(defaultTemplate))
	if err != nil {
		panic(fmt.Sprintf("default config: %v", err))
	}
	return cfg
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

const defaultTemplate = `game:
  roster_size: 456
  base_payout: 10000
  payout_per_elimination: 100
  default_events:
    - red-light-green-light
    - dalgona
    - tug-of-war
    - marbles
    - glass-bridge
    - squid-game

catalog:
  # path to an events YAML file; empty uses the built-in catalog
  file: ""

webhooks: []
`
