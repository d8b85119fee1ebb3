package logging

import (
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// Setup installs the default slog logger. The terminal belongs to the UI, so
// records go to path when set and are discarded otherwise. The returned
// function closes the log file.
func Setup(path string, level slog.Level) (*slog.Logger, func() error, error) {
	var out io.Writer = io.Discard
	closeFn := func() error { return nil }

	if path != "" {
		f, err := tea.LogToFile(path, "")
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, closeFn, nil
}
