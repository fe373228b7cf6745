package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds process configuration loaded from environment variables.
type Config struct {
	Margin     time.Duration `env:"GGP_MARGIN" envDefault:"5s"`
	PlayClock  time.Duration `env:"GGP_PLAY_CLOCK" envDefault:"10s"`
	StartClock time.Duration `env:"GGP_START_CLOCK" envDefault:"10s"`
	Episodes   int           `env:"GGP_EPISODES" envDefault:"0"` // 0 = deadline only
	Seed       uint64        `env:"GGP_SEED" envDefault:"0"`     // 0 = random
	MaxTurns   int           `env:"GGP_MAX_TURNS" envDefault:"300"`
	MaxDepth   int           `env:"GGP_MAX_DEPTH" envDefault:"10000"`
	CacheSize  int           `env:"GGP_CACHE_SIZE" envDefault:"65536"`
	Games      int           `env:"GGP_GAMES" envDefault:"1"`
	OutDir     string        `env:"GGP_OUT_DIR" envDefault:"matches"`
	DBPath     string        `env:"GGP_DB_PATH"`
	LogLevel   string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Margin < 0 {
		return fmt.Errorf("margin must not be negative, got %s", c.Margin)
	}
	if c.PlayClock <= c.Margin {
		return fmt.Errorf("play clock %s must exceed margin %s", c.PlayClock, c.Margin)
	}
	if c.Games <= 0 {
		return fmt.Errorf("games must be positive, got %d", c.Games)
	}
	return nil
}
