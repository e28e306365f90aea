package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvFeed, "")
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvTheme, "")
	t.Setenv(EnvTimezone, "")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.General.TopCategories != 9 {
		t.Errorf("TopCategories = %d, want 9", cfg.General.TopCategories)
	}
	if cfg.Appearance.Theme != "flexoki-dark" {
		t.Errorf("Theme = %q, want flexoki-dark", cfg.Appearance.Theme)
	}
	loc, err := cfg.Location()
	if err != nil || loc != time.UTC {
		t.Errorf("Location = %v, %v; want UTC", loc, err)
	}
}

func TestSaveToLoadFrom(t *testing.T) {
	t.Setenv(EnvFeed, "")
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvTheme, "")
	t.Setenv(EnvTimezone, "")

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.General.FeedPath = "/data/payments.json"
	cfg.General.TopCategories = 5
	cfg.Appearance.Theme = "tokyo-night"

	if err := SaveTo(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.General.FeedPath != "/data/payments.json" || got.General.TopCategories != 5 {
		t.Errorf("general = %+v", got.General)
	}
	if got.Appearance.Theme != "tokyo-night" {
		t.Errorf("Theme = %q", got.Appearance.Theme)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[general]\nfeed_path = \"file.json\"\ntop_categories = 9\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvFeed, "env.json")
	t.Setenv(EnvAddr, ":9999")
	t.Setenv(EnvTheme, "")
	t.Setenv(EnvTimezone, "Europe/Moscow")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.General.FeedPath != "env.json" {
		t.Errorf("FeedPath = %q, want env.json", cfg.General.FeedPath)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Addr = %q, want :9999", cfg.Server.Addr)
	}
	if loc, err := cfg.Location(); err != nil || loc.String() != "Europe/Moscow" {
		t.Errorf("Location = %v, %v", loc, err)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	t.Setenv(EnvTimezone, "")
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := os.WriteFile(path, []byte("[general]\ntop_categories = 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil || !strings.Contains(err.Error(), "top_categories") {
		t.Errorf("err = %v, want top_categories validation error", err)
	}

	if err := os.WriteFile(path, []byte("not = [toml"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestReloadInterval(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ReloadInterval() != time.Minute {
		t.Errorf("ReloadInterval = %v, want 1m", cfg.ReloadInterval())
	}
	cfg.Server.ReloadIntervalSec = 0
	if cfg.ReloadInterval() != 0 {
		t.Errorf("ReloadInterval = %v, want 0", cfg.ReloadInterval())
	}
}
