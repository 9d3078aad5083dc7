// Package config loads and saves the keyscope settings file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

type Config struct {
	// PayloadPath is where the externally-fetched usage payload is
	// dropped for the CLI to pick up.
	PayloadPath string `json:"payload_path"`
	// RateWindowMinutes is the trailing window for rpm/tpm.
	RateWindowMinutes int `json:"rate_window_minutes"`
	// RefreshDebounceMillis coalesces payload-file change bursts.
	RefreshDebounceMillis int `json:"refresh_debounce_millis"`
	// PriceDBPath overrides the default price store location.
	PriceDBPath string `json:"price_db_path,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		RateWindowMinutes:     30,
		RefreshDebounceMillis: 500,
	}
}

func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "keyscope")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "keyscope")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.RateWindowMinutes <= 0 {
		cfg.RateWindowMinutes = DefaultConfig().RateWindowMinutes
	}
	if cfg.RefreshDebounceMillis <= 0 {
		cfg.RefreshDebounceMillis = DefaultConfig().RefreshDebounceMillis
	}

	return cfg, nil
}

func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

func SaveTo(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
