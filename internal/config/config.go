// Package config loads reader settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/metcalfc/skim/internal/playback"
)

const journalFileName = "journal.db"

// Config holds settings shared by the terminal and GUI readers.
type Config struct {
	WPM         int     `env:"SKIM_WPM" envDefault:"300"`
	SeekPolicy  string  `env:"SKIM_SEEK_POLICY" envDefault:"pause"`
	ScrubPixels float64 `env:"SKIM_SCRUB_PIXELS" envDefault:"50"`
	ScrubCells  int     `env:"SKIM_SCRUB_CELLS" envDefault:"2"`
	LogFile     string  `env:"SKIM_LOG_FILE"`
	LogLevel    string  `env:"SKIM_LOG_LEVEL" envDefault:"info"`
	Journal     string  `env:"SKIM_JOURNAL"`
	NoJournal   bool    `env:"SKIM_NO_JOURNAL"`

	// Policy is SeekPolicy parsed.
	Policy playback.SeekPolicy
}

// Load parses the environment and fills in derived values.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	policy, err := playback.ParseSeekPolicy(cfg.SeekPolicy)
	if err != nil {
		return Config{}, fmt.Errorf("SKIM_SEEK_POLICY: %w", err)
	}
	cfg.Policy = policy
	cfg.WPM = playback.ClampWPM(cfg.WPM)

	if cfg.ScrubPixels <= 0 {
		return Config{}, fmt.Errorf("SKIM_SCRUB_PIXELS must be positive, got %v", cfg.ScrubPixels)
	}
	if cfg.ScrubCells <= 0 {
		return Config{}, fmt.Errorf("SKIM_SCRUB_CELLS must be positive, got %d", cfg.ScrubCells)
	}
	if cfg.Journal == "" && !cfg.NoJournal {
		cfg.Journal = filepath.Join(StateDir(), journalFileName)
	}
	return cfg, nil
}

// StateDir returns XDG_STATE_HOME/skim or ~/.local/state/skim
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "skim")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "skim")
}
