package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
)

// App holds runtime configuration shared across commands.
type App struct {
	Name    string `env:"APP_NAME" envDefault:"hexquiz"`
	Env     string `env:"APP_ENV" envDefault:"development"`
	DataDir string `env:"HEXQUIZ_DATA_DIR"`

	Quiz Quiz
}

// Quiz groups practice-session defaults.
type Quiz struct {
	// Reinforcement biases new sessions toward previously missed hexagrams.
	Reinforcement bool `env:"HEXQUIZ_REINFORCEMENT" envDefault:"true"`
	// Seed fixes session randomness when nonzero; useful for reproducing runs.
	Seed int64 `env:"HEXQUIZ_SEED" envDefault:"0"`
	// SessionLength is how many questions an interactive run asks before
	// showing the round summary. Zero means a full 64-question block.
	SessionLength int `env:"HEXQUIZ_SESSION_LENGTH" envDefault:"0"`
}

// Load reads configuration from the environment, deriving the default data
// directory from the user's home when unset.
func Load(_ context.Context) (*App, error) {
	cfg := &App{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".hexquiz")
	}
	return cfg, nil
}
