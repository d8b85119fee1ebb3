package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Player", cfg.PlayerName)
	assert.Equal(t, 30, cfg.TickRate)
	assert.True(t, cfg.Audio)
	assert.Empty(t, cfg.SpectateAddr)
	assert.Equal(t, "ws://localhost:8080/ws", cfg.WatchServer)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, time.Second/30, cfg.TickInterval())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TETRIS_PLAYER_NAME", "ana")
	t.Setenv("TETRIS_TICK_RATE", "60")
	t.Setenv("TETRIS_SEED", "1234")
	t.Setenv("TETRIS_AUDIO", "false")
	t.Setenv("TETRIS_SPECTATE_ADDR", ":9090")
	t.Setenv("TETRIS_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ana", cfg.PlayerName)
	assert.Equal(t, 60, cfg.TickRate)
	assert.Equal(t, int64(1234), cfg.Seed)
	assert.Equal(t, int64(1234), cfg.SeedOrNow())
	assert.False(t, cfg.Audio)
	assert.Equal(t, ":9090", cfg.SpectateAddr)
	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("TETRIS_TICK_RATE", "fast")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{TickRate: 30, LogLevel: "info"}
	assert.NoError(t, base.Validate())

	bad := base
	bad.TickRate = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.LogLevel = "chatty"
	assert.Error(t, bad.Validate())
}

func TestSeedOrNowFallsBackToClock(t *testing.T) {
	assert.NotZero(t, Config{}.SeedOrNow())
}
