// Package config loads and saves hbt configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/theirongolddev/hbt/internal/model"
)

// Config holds all hbt configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
	Quotes     []model.Quote    `toml:"quotes,omitempty"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DBPath      string `toml:"db_path,omitempty"`
	DefaultGoal int    `toml:"default_goal"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig holds settings for `hbt serve`.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	EventsBuffer int    `toml:"events_buffer"`
	ReminderCron string `toml:"reminder_cron"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultGoal: model.DefaultGoal,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:5000",
			EventsBuffer: 200,
			ReminderCron: "0 21 * * *",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hbt")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "hbt")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory holding the database.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "hbt")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "hbt")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Variables from a .env file in the working directory and the process
// environment override file values.
func Load() (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return cfg, err
	}

	// A missing .env is normal.
	_ = godotenv.Load()
	applyEnv(&cfg)

	return cfg, nil
}

// LoadFile reads the config file alone, without environment overrides.
// Callers that Save should start from this so overrides are not persisted.
func LoadFile() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.General.DBPath = getenv("HBT_DB", cfg.General.DBPath)
	cfg.General.DefaultGoal = getenvInt("HBT_DEFAULT_GOAL", cfg.General.DefaultGoal)
	cfg.Appearance.Theme = getenv("HBT_THEME", cfg.Appearance.Theme)
	cfg.Server.Addr = getenv("HBT_ADDR", cfg.Server.Addr)
	cfg.Server.ReminderCron = getenv("HBT_REMINDER_CRON", cfg.Server.ReminderCron)
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
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

// DBPath returns the database path: the configured one, or habits.db in DataDir.
func DBPath(cfg Config) string {
	if cfg.General.DBPath != "" {
		return cfg.General.DBPath
	}
	return filepath.Join(DataDir(), "habits.db")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
