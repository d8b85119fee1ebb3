package main

import (
	"flag"
	"fmt"
	"os"
	"os/user"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hersh/tetris/internal/config"
	"github.com/hersh/tetris/internal/logging"
	"github.com/hersh/tetris/internal/netclient"
	"github.com/hersh/tetris/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	serverAddr := flag.String("server", cfg.WatchServer, "Spectator stream address")
	viewerName := flag.String("name", "", "Viewer name (defaults to OS username)")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Write logs to this file")
	flag.Parse()

	name := *viewerName
	if name == "" {
		if u, err := user.Current(); err == nil && u.Username != "" {
			name = u.Username
		} else {
			name = "Viewer"
		}
	}

	level, err := cfg.Level()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger, closeLog, err := logging.Setup(cfg.LogFile, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	client, err := netclient.New(*serverAddr, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to %s: %v\n", *serverAddr, err)
		fmt.Fprintf(os.Stderr, "Start a game with --spectate first (go run . --spectate :8080)\n")
		os.Exit(1)
	}
	defer client.Close()

	p := tea.NewProgram(
		tui.NewWatchModel(name, client),
		tea.WithAltScreen(),
	)

	// readPump delivers snapshots through the program
	client.SetProgram(p)
	client.Start(name)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
