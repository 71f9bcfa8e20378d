package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (GRUPPENTOOL_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: GRUPPENTOOL_BASE_URL -> base_url, etc.
	if err := k.Load(env.Provider("GRUPPENTOOL_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "GRUPPENTOOL_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validVisibilities is the set of group visibilities ChurchTools accepts.
var validVisibilities = map[Visibility]bool{
	VisibilityHidden:     true,
	VisibilityIntern:     true,
	VisibilityPublic:     true,
	VisibilityRestricted: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url %q is not a valid URL", c.BaseURL)
	}

	if c.Token == "" && (c.Username == "" || c.Password == "") {
		return fmt.Errorf("either token or username and password are required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	if c.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("http_timeout_seconds must be positive")
	}

	if c.MaxPages <= 0 {
		return fmt.Errorf("max_pages must be positive")
	}

	if c.Group.Visibility != "" && !validVisibilities[c.Group.Visibility] {
		return fmt.Errorf("invalid group visibility %q: must be one of hidden, intern, public, restricted", c.Group.Visibility)
	}

	return nil
}

// APIBase returns the REST API root derived from the base URL.
func (c *Config) APIBase() string {
	return strings.TrimRight(c.BaseURL, "/") + "/api"
}
