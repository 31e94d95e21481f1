// Package config provides YAML-based configuration loading for timeloop.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config contains all configuration for timeloop.
type Config struct {
	Levels  LevelsConfig  `yaml:"levels"`
	Rules   RulesConfig   `yaml:"rules"`
	Pacing  PacingConfig  `yaml:"pacing"`
	Journal JournalConfig `yaml:"journal"`
	Storage StorageConfig `yaml:"storage"`
}

// LevelsConfig selects the campaign.
type LevelsConfig struct {
	Dir     string `yaml:"dir"`      // Directory with levels.yaml, empty for built-in
	StartAt string `yaml:"start_at"` // Manifest entry to start from
}

// RulesConfig holds simulation defaults.
type RulesConfig struct {
	DefaultGhostLimit int `yaml:"default_ghost_limit"`
}

// PacingConfig controls presentation timing.
type PacingConfig struct {
	IntroTicks int `yaml:"intro_ticks"` // Ticks the level title is held on screen
}

// JournalConfig controls run journals.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// StorageConfig locates the results database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// DefaultConfig returns the hard-coded configuration.
// It matches the embedded defaults/timeloop.yaml.
func DefaultConfig() Config {
	return Config{
		Rules: RulesConfig{
			DefaultGhostLimit: 1,
		},
		Pacing: PacingConfig{
			IntroTicks: 45,
		},
		Journal: JournalConfig{
			Enabled: true,
			Dir:     "~/.timeloop/journals",
		},
		Storage: StorageConfig{
			DBPath: "~/.timeloop/results.db",
		},
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Rules.DefaultGhostLimit < 0 {
		return fmt.Errorf("config: rules.default_ghost_limit must be >= 0, got %d", c.Rules.DefaultGhostLimit)
	}
	if c.Pacing.IntroTicks < 0 {
		return fmt.Errorf("config: pacing.intro_ticks must be >= 0, got %d", c.Pacing.IntroTicks)
	}
	if c.Journal.Enabled && strings.TrimSpace(c.Journal.Dir) == "" {
		return errors.New("config: journal.dir is required when the journal is enabled")
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
