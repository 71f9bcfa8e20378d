package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Port != 8730 {
		t.Errorf("default port = %d, want 8730", cfg.Port)
	}
	if cfg.TagName != "Gruppentool" {
		t.Errorf("default tag = %q, want Gruppentool", cfg.TagName)
	}
	if cfg.MaxPages != 100 {
		t.Errorf("default max_pages = %d, want 100", cfg.MaxPages)
	}
	if cfg.Group.Visibility != VisibilityHidden {
		t.Errorf("default visibility = %q, want hidden", cfg.Group.Visibility)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8730 {
		t.Errorf("port = %d, want the default", cfg.Port)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gruppentool.yml")

	cfg := DefaultConfig()
	cfg.BaseURL = "https://example.church.tools"
	cfg.Token = "secret"
	cfg.Port = 9000
	cfg.Group.ParentID = 42
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %o, want 0600 (contains credentials)", perm)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.BaseURL != cfg.BaseURL || loaded.Token != cfg.Token {
		t.Errorf("credentials not round-tripped: %+v", loaded)
	}
	if loaded.Port != 9000 || loaded.Group.ParentID != 42 {
		t.Errorf("values not round-tripped: %+v", loaded)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gruppentool.yml")
	cfg := DefaultConfig()
	cfg.BaseURL = "https://file.church.tools"
	cfg.Token = "from-file"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	t.Setenv("GRUPPENTOOL_TOKEN", "from-env")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Token != "from-env" {
		t.Errorf("token = %q, want the env override", loaded.Token)
	}
	if loaded.BaseURL != "https://file.church.tools" {
		t.Errorf("base_url = %q, want the file value", loaded.BaseURL)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.BaseURL = "https://example.church.tools"
		cfg.Token = "secret"
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base url", func(c *Config) { c.BaseURL = "" }},
		{"relative base url", func(c *Config) { c.BaseURL = "example.church.tools" }},
		{"no credentials", func(c *Config) { c.Token = "" }},
		{"password without username", func(c *Config) { c.Token = ""; c.Password = "pw" }},
		{"port zero", func(c *Config) { c.Port = 0 }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"zero timeout", func(c *Config) { c.HTTPTimeoutSeconds = 0 }},
		{"zero max pages", func(c *Config) { c.MaxPages = 0 }},
		{"bad visibility", func(c *Config) { c.Group.Visibility = "secret" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("invalid config accepted")
			}
		})
	}
}

func TestValidateAcceptsUsernamePassword(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "https://example.church.tools"
	cfg.Username = "admin"
	cfg.Password = "pw"
	if err := cfg.Validate(); err != nil {
		t.Errorf("username/password config rejected: %v", err)
	}
}

func TestAPIBase(t *testing.T) {
	cfg := &Config{BaseURL: "https://example.church.tools/"}
	if got := cfg.APIBase(); got != "https://example.church.tools/api" {
		t.Errorf("APIBase() = %q", got)
	}
}
