package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hersh/tetris/internal/audio"
	"github.com/hersh/tetris/internal/config"
	"github.com/hersh/tetris/internal/engine"
	"github.com/hersh/tetris/internal/game"
	"github.com/hersh/tetris/internal/logging"
	"github.com/hersh/tetris/internal/spectate"
	"github.com/hersh/tetris/internal/tui"
)

// Single-player entry point. To stream the game to spectators:
//   go run . --spectate :8080
//   go run ./cmd/watch --server ws://localhost:8080/ws

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	noAudio := false
	flag.StringVar(&cfg.PlayerName, "name", cfg.PlayerName, "Player name")
	flag.IntVar(&cfg.TickRate, "tick-rate", cfg.TickRate, "Frames per second")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Piece sequence seed (0 = time based)")
	flag.StringVar(&cfg.SpectateAddr, "spectate", cfg.SpectateAddr, "Serve a spectator stream on this address")
	flag.BoolVar(&noAudio, "no-audio", false, "Disable sound")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Write logs to this file")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.Parse()
	if noAudio {
		cfg.Audio = false
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	level, _ := cfg.Level()
	logger, closeLog, err := logging.Setup(cfg.LogFile, level)
	if err != nil {
		return err
	}
	defer closeLog()

	mixer := audio.NewMixer(logger)
	if cfg.Audio {
		if err := mixer.Init(); err != nil {
			logger.Warn("audio unavailable", "err", err)
		}
	}
	defer mixer.Close()

	seed := cfg.SeedOrNow()
	machine := engine.NewMachine(game.NewSeededPieceFactory(seed), logger)
	logger.Info("starting", "player", cfg.PlayerName, "seed", seed, "tick_rate", cfg.TickRate)

	opts := tui.Options{
		PlayerName: cfg.PlayerName,
		Interval:   cfg.TickInterval(),
		Sink:       mixer,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.SpectateAddr != "" {
		opts.Publisher = startSpectating(ctx, cfg.SpectateAddr, logger)
	}

	p := tea.NewProgram(
		tui.NewPlayModel(machine, opts),
		tea.WithAltScreen(),
	)
	_, err = p.Run()
	return err
}

func startSpectating(ctx context.Context, addr string, logger *slog.Logger) *spectate.Hub {
	hub := spectate.NewHub(logger)
	go hub.Run(ctx)
	go func() {
		if err := spectate.ListenAndServe(ctx, addr, hub); err != nil {
			logger.Error("spectator server stopped", "addr", addr, "err", err)
		}
	}()
	return hub
}
