package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hersh/tetris/internal/engine"
	"github.com/hersh/tetris/internal/game"
	"github.com/hersh/tetris/internal/netclient"
)

// FrameMsg advances the machine by one tick.
type FrameMsg time.Time

// Sink receives the events of every frame.
type Sink interface {
	Dispatch(events []game.Event)
}

// Publisher receives every snapshot, e.g. a spectator hub.
type Publisher interface {
	Publish(s engine.Snapshot)
}

type Mode int

const (
	ModePlay Mode = iota
	ModeWatch
)

var keyActions = map[string]game.Action{
	"left":  game.ActionMoveLeft,
	"h":     game.ActionMoveLeft,
	"right": game.ActionMoveRight,
	"l":     game.ActionMoveRight,
	"down":  game.ActionSoftDrop,
	"j":     game.ActionSoftDrop,
	" ":     game.ActionHardDrop,
	"up":    game.ActionRotateCW,
	"x":     game.ActionRotateCW,
	"z":     game.ActionRotateCCW,
	"enter": game.ActionConfirm,
	"p":     game.ActionTogglePause,
	"esc":   game.ActionTogglePause,
}

// Options configures a play model. Zero values are usable.
type Options struct {
	PlayerName string
	Interval   time.Duration
	Sink       Sink
	Publisher  Publisher
}

type Model struct {
	mode       Mode
	playerName string
	width      int
	height     int

	// Play
	machine   *engine.Machine
	pending   game.ActionSet
	interval  time.Duration
	sink      Sink
	publisher Publisher
	best      int

	// Watch
	client       *netclient.Client
	viewerID     string
	disconnected bool
	err          error

	snap engine.Snapshot
}

// NewPlayModel creates a model that drives m from the keyboard.
func NewPlayModel(m *engine.Machine, opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = time.Second / 30
	}
	return Model{
		mode:       ModePlay,
		playerName: opts.PlayerName,
		machine:    m,
		interval:   opts.Interval,
		sink:       opts.Sink,
		publisher:  opts.Publisher,
		snap:       engine.Snapshot{State: m.State()},
	}
}

// NewWatchModel creates a read-only model fed by a spectator client.
func NewWatchModel(name string, client *netclient.Client) Model {
	return Model{
		mode:       ModeWatch,
		playerName: name,
		client:     client,
	}
}

func (m Model) Init() tea.Cmd {
	if m.mode == ModePlay {
		return frameCmd(m.interval)
	}
	return nil
}

func frameCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// Snapshot returns the last snapshot the model rendered.
func (m Model) Snapshot() engine.Snapshot {
	return m.snap
}

// --- Update ---

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case FrameMsg:
		return m.handleFrame()

	case netclient.ConnectedMsg:
		m.viewerID = msg.ViewerID
		return m, nil
	case netclient.SnapshotMsg:
		m.snap = msg.Snapshot
		return m, nil
	case netclient.DisconnectedMsg:
		m.disconnected = true
		m.err = msg.Err
		return m, nil
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c":
		return m.quit()
	case "q":
		if m.mode == ModePlay && m.snap.State == engine.StateRunning {
			break
		}
		return m.quit()
	}

	if m.mode != ModePlay {
		return m, nil
	}
	if a, ok := keyActions[key]; ok {
		m.pending = m.pending.With(a)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.client != nil {
		m.client.Close()
	}
	return m, tea.Quit
}

// handleFrame feeds the keys pressed since the last frame to the machine.
func (m Model) handleFrame() (tea.Model, tea.Cmd) {
	if m.mode != ModePlay {
		return m, nil
	}

	m.snap = m.machine.Tick(m.pending)
	m.pending = game.NewActionSet()
	m.best = max(m.best, m.snap.Score)

	if m.sink != nil && len(m.snap.Events) > 0 {
		m.sink.Dispatch(m.snap.Events)
	}
	if m.publisher != nil {
		m.publisher.Publish(m.snap)
	}
	return m, frameCmd(m.interval)
}

// --- View ---

func (m Model) View() string {
	if m.mode == ModeWatch {
		return m.renderCentered(m.watchContent())
	}
	if m.snap.State == engine.StateMenu {
		return m.renderCentered(RenderWelcome(m.playerName, m.best))
	}
	return m.renderCentered(m.playingContent("Player: " + m.playerName))
}

func (m Model) watchContent() string {
	switch {
	case m.disconnected && m.err != nil:
		return RenderWaiting("Disconnected: " + m.err.Error() + "\nPress Q to exit.")
	case m.disconnected:
		return RenderWaiting("Disconnected.\nPress Q to exit.")
	case m.viewerID == "":
		return RenderWaiting("Connecting...")
	case !m.snap.HasGame():
		return RenderWaiting("Waiting for a game to start...")
	}
	return m.playingContent("Watching")
}

func (m Model) playingContent(title string) string {
	if !m.snap.HasGame() {
		return "Loading..."
	}

	leftPanel := lipgloss.NewStyle().
		Width(24).
		Render(RenderInfo(title, m.snap))

	centerPanel := lipgloss.NewStyle().
		Padding(1, 2).
		Render(RenderBoard(m.snap.Grid))

	panels := []string{leftPanel, centerPanel}
	if m.mode == ModePlay {
		panels = append(panels, RenderControls())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}

func (m Model) renderCentered(content string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
