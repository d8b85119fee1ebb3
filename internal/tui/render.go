package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hersh/tetris/internal/engine"
)

var (
	colors = []string{
		"0",
		"196",
		"46",
		"226",
		"21",
		"201",
		"51",
		"248",
	}

	ghostColor = "244"

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("15"))

	infoStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("15"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("51"))

	pausedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226"))

	gameOverStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

func colorFor(id int) string {
	if id < len(colors) {
		return colors[id]
	}
	return colors[len(colors)-1]
}

func cellString(v int) string {
	switch {
	case v > 0:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorFor(v))).Render("██")
	case v < 0:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ghostColor)).Render("[]")
	}
	return "  "
}

// RenderBoard draws a row-major grid. Ghost cells render as outlines.
func RenderBoard(grid [][]int) string {
	var sb strings.Builder
	for y, row := range grid {
		for _, v := range row {
			sb.WriteString(cellString(v))
		}
		if y < len(grid)-1 {
			sb.WriteString("\n")
		}
	}
	return boardStyle.Render(sb.String())
}

// RenderPiece draws the occupied part of a preview matrix.
func RenderPiece(p *engine.PiecePreview) string {
	if p == nil {
		return "Empty"
	}

	var sb strings.Builder
	for y := 0; y < p.Size.Height; y++ {
		row := p.Shape[p.Origin.Y+y]
		for x := 0; x < p.Size.Width; x++ {
			v := row[p.Origin.X+x]
			if v > 0 {
				sb.WriteString(cellString(v))
			} else {
				sb.WriteString("  ")
			}
		}
		if y < p.Size.Height-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func RenderInfo(title string, s engine.Snapshot) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("TETRIS") + "\n\n")
	if title != "" {
		sb.WriteString(infoStyle.Render(title) + "\n")
	}
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Score: %d", s.Score)) + "\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Level: %d", s.Level)) + "\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Lines: %d", s.Lines)) + "\n\n")

	sb.WriteString(titleStyle.Render("NEXT") + "\n")
	sb.WriteString(RenderPiece(s.Next) + "\n")

	switch s.State {
	case engine.StatePaused:
		sb.WriteString("\n" + pausedStyle.Render("PAUSED") + "\n")
		sb.WriteString(infoStyle.Render("P to resume") + "\n")
	case engine.StateGameOver:
		sb.WriteString("\n" + RenderGameOver(s.Score, s.Countdown) + "\n")
	}

	return sb.String()
}

// RenderGameOver shows the final score and a bar that drains until the
// machine returns to the menu.
func RenderGameOver(score, countdown int) string {
	const barWidth = 12
	filled := barWidth * countdown / engine.GameOverDelay
	filled = max(0, min(filled, barWidth))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	return gameOverStyle.Render("GAME OVER") + "\n" +
		infoStyle.Render(fmt.Sprintf("Score: %d", score)) + "\n" +
		infoStyle.Render(bar)
}

func RenderWelcome(name string, best int) string {
	banner := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("51")).
		Align(lipgloss.Center).
		Render(`
╔══════════════════════════════╗
║          T E T R I S         ║
╚══════════════════════════════╝
`)

	var sb strings.Builder
	sb.WriteString(banner + "\n")
	if name != "" {
		sb.WriteString(infoStyle.Render("Player: "+name) + "\n")
	}
	if best > 0 {
		sb.WriteString(infoStyle.Render(fmt.Sprintf("Best this session: %d", best)) + "\n")
	}
	sb.WriteString("\n" + infoStyle.Render("Press ENTER to start") + "\n")
	sb.WriteString(infoStyle.Render("Press Q to quit"))
	return sb.String()
}

func RenderWaiting(msg string) string {
	return titleStyle.Render("SPECTATOR") + "\n\n" + infoStyle.Render(msg)
}

func RenderControls() string {
	return infoStyle.Render(`
Controls:
  ← → / h l  Move left/right
  ↓ / j      Soft drop
  Space      Hard drop
  ↑ / x      Rotate clockwise
  z          Rotate counter-clockwise
  p / Esc    Pause
  q          Quit (outside play)
`)
}
