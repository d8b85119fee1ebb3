package engine

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/hersh/tetris/internal/game"
)

type State int

const (
	StateMenu State = iota
	StateRunning
	StatePaused
	StateGameOver
)

var stateNames = [...]string{
	StateMenu:     "menu",
	StateRunning:  "running",
	StatePaused:   "paused",
	StateGameOver: "game_over",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// ParseState maps a name produced by State.String back to the state.
func ParseState(name string) (State, bool) {
	for i, n := range stateNames {
		if n == name {
			return State(i), true
		}
	}
	return StateMenu, false
}

// GameOverDelay is how many ticks the final board stays up before the
// machine returns to the menu.
const GameOverDelay = 200

// Machine drives a game session through the menu, running, paused and game
// over states. It is not safe for concurrent use; collaborators read the
// Snapshot returned by Tick.
type Machine struct {
	state     State
	factory   *game.PieceFactory
	session   *game.Session
	gameID    string
	countdown int
	tick      uint64
	events    []game.Event
	logger    *slog.Logger
}

// NewMachine creates a machine in the menu state. Every game it starts
// draws pieces from factory. A nil logger uses slog.Default.
func NewMachine(factory *game.PieceFactory, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		state:   StateMenu,
		factory: factory,
		logger:  logger,
	}
}

func (m *Machine) State() State { return m.state }

// Tick advances the machine by one frame using the actions sampled for it,
// and returns the resulting snapshot.
func (m *Machine) Tick(actions game.ActionSet) Snapshot {
	m.tick++

	switch m.state {
	case StateMenu:
		if actions.Has(game.ActionConfirm) {
			m.start()
		}
	case StateRunning:
		if actions.Has(game.ActionTogglePause) {
			m.setState(StatePaused)
			m.emit(game.EventStopMusic)
			break
		}
		m.session.Step(actions)
		events := m.session.DrainEvents()
		for _, e := range events {
			if e == game.EventLevelUp {
				m.logger.Info("level up", "game_id", m.gameID, "level", m.session.Stats().Level)
			}
		}
		m.events = append(m.events, events...)
		if !m.session.Running() {
			m.finish()
		}
	case StatePaused:
		if actions.Has(game.ActionTogglePause) {
			m.setState(StateRunning)
			m.emit(game.EventStartMusic)
		}
	case StateGameOver:
		m.countdown--
		if m.countdown <= 0 {
			m.session = nil
			m.gameID = ""
			m.setState(StateMenu)
		}
	}

	snap := m.snapshot()
	m.events = nil
	return snap
}

func (m *Machine) start() {
	m.session = game.NewSession(m.factory)
	m.gameID = uuid.NewString()
	m.emit(game.EventSelect)
	m.session.NewGame()
	m.events = append(m.events, m.session.DrainEvents()...)
	m.setState(StateRunning)
	m.logger.Info("game started", "game_id", m.gameID)
}

func (m *Machine) finish() {
	m.countdown = GameOverDelay
	m.setState(StateGameOver)
	stats := m.session.Stats()
	m.logger.Info("game over",
		"game_id", m.gameID,
		"score", stats.Score,
		"level", stats.Level,
		"lines", stats.Lines,
	)
}

func (m *Machine) setState(s State) {
	m.logger.Debug("state transition", "from", m.state, "to", s, "tick", m.tick)
	m.state = s
}

func (m *Machine) emit(e game.Event) {
	m.events = append(m.events, e)
}
