// Package config loads and saves spendchart configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment overrides, applied after the config file.
const (
	EnvFeed     = "SPENDCHART_FEED"
	EnvAddr     = "SPENDCHART_ADDR"
	EnvTheme    = "SPENDCHART_THEME"
	EnvTimezone = "SPENDCHART_TZ"
)

// Config holds all spendchart configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Pie        PieConfig        `toml:"pie"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds data-source preferences.
type GeneralConfig struct {
	FeedPath      string `toml:"feed_path,omitempty"`
	TopCategories int    `toml:"top_categories"`
	Timezone      string `toml:"timezone,omitempty"`
	StatePath     string `toml:"state_path,omitempty"`
}

// PieConfig sizes the donut, in renderer units.
type PieConfig struct {
	RingWidth float64 `toml:"ring_width"`
	MinRadius float64 `toml:"min_radius"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr              string `toml:"addr"`
	ReloadIntervalSec int    `toml:"reload_interval_sec"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			TopCategories: 9,
		},
		Pie: PieConfig{
			RingWidth: 50,
			MinRadius: 50,
		},
		Server: ServerConfig{
			Addr:              "127.0.0.1:8788",
			ReloadIntervalSec: 60,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "spendchart")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "spendchart")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// A .env file in the working directory is loaded first so its values
// can override file settings through the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return LoadFrom(Path())
}

// LoadFrom reads config from path and applies environment overrides.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvFeed); v != "" {
		cfg.General.FeedPath = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvTheme); v != "" {
		cfg.Appearance.Theme = v
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		cfg.General.Timezone = v
	}
}

// Validate checks values that would make the charts meaningless.
func (c Config) Validate() error {
	if c.General.TopCategories < 1 {
		return fmt.Errorf("general.top_categories must be at least 1, got %d", c.General.TopCategories)
	}
	if c.Pie.RingWidth <= 0 {
		return fmt.Errorf("pie.ring_width must be positive, got %v", c.Pie.RingWidth)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the timezone used for day labels (UTC by default).
func (c Config) Location() (*time.Location, error) {
	if c.General.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.General.Timezone)
	if err != nil {
		return nil, fmt.Errorf("general.timezone: %w", err)
	}
	return loc, nil
}

// ReloadInterval returns the server's feed reload period; zero disables reloading.
func (c Config) ReloadInterval() time.Duration {
	if c.Server.ReloadIntervalSec <= 0 {
		return 0
	}
	return time.Duration(c.Server.ReloadIntervalSec) * time.Second
}

// StatePath returns where captured view state is stored.
func (c Config) StatePath() string {
	if c.General.StatePath != "" {
		return c.General.StatePath
	}
	return filepath.Join(Dir(), "state.db")
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path, creating its directory.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
