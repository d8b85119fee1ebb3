package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for the game and spectator binaries.
type Config struct {
	PlayerName   string `env:"TETRIS_PLAYER_NAME"   envDefault:"Player"`
	TickRate     int    `env:"TETRIS_TICK_RATE"     envDefault:"30"`
	Seed         int64  `env:"TETRIS_SEED"`
	Audio        bool   `env:"TETRIS_AUDIO"         envDefault:"true"`
	SpectateAddr string `env:"TETRIS_SPECTATE_ADDR"`
	WatchServer  string `env:"TETRIS_WATCH_SERVER"  envDefault:"ws://localhost:8080/ws"`
	LogFile      string `env:"TETRIS_LOG_FILE"`
	LogLevel     string `env:"TETRIS_LOG_LEVEL"     envDefault:"info"`
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %d", c.TickRate)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// TickInterval is the duration of one frame.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// SeedOrNow returns Seed, or the current time when Seed is unset.
func (c Config) SeedOrNow() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
