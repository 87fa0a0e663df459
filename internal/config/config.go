package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Defaults applied when a field is absent from config.json.
const (
	DefaultCheckIntervalMinutes = 60
)

// DefaultSummaryTimes are the wall-clock times the daily summary fires.
var DefaultSummaryTimes = []string{"09:00", "18:00"}

// Config represents the flat escalator configuration.
type Config struct {
	Version              string   `json:"version"`
	CurrentUserID        string   `json:"current_user_id,omitempty"` // USER-XXX, set by `escalator user onboard`
	DatabasePath         string   `json:"database_path,omitempty"`   // empty uses the default location
	CheckIntervalMinutes int      `json:"check_interval_minutes,omitempty"`
	SummaryTimes         []string `json:"summary_times,omitempty"` // "HH:MM" local times
}

// Dir returns the configuration directory (~/.escalator).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".escalator"), nil
}

// Load reads config.json from the given directory. A missing file yields the
// defaults rather than an error; a malformed file is an error.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.CheckIntervalMinutes <= 0 {
		cfg.CheckIntervalMinutes = DefaultCheckIntervalMinutes
	}
	if len(cfg.SummaryTimes) == 0 {
		cfg.SummaryTimes = append([]string{}, DefaultSummaryTimes...)
	}
	return &cfg, nil
}

// Save writes config.json to the given directory, creating it if needed.
func Save(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func defaults() *Config {
	return &Config{
		Version:              "1",
		CheckIntervalMinutes: DefaultCheckIntervalMinutes,
		SummaryTimes:         append([]string{}, DefaultSummaryTimes...),
	}
}
