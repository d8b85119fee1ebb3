package engine

import "github.com/hersh/tetris/internal/game"

// PiecePreview describes the next piece for a renderer.
type PiecePreview struct {
	Type   game.PieceType
	Shape  [][]int
	Size   game.Size
	Origin game.Point
}

// Snapshot is the read-only view of the machine after a tick. It shares no
// memory with the machine.
type Snapshot struct {
	Tick      uint64
	State     State
	GameID    string
	Grid      [][]int
	Next      *PiecePreview
	Score     int
	Level     int
	Lines     int
	Countdown int
	Events    []game.Event
}

// HasGame reports whether the snapshot carries a board.
func (s Snapshot) HasGame() bool {
	return s.Grid != nil
}

func (m *Machine) snapshot() Snapshot {
	snap := Snapshot{
		Tick:  m.tick,
		State: m.state,
	}
	if len(m.events) > 0 {
		snap.Events = append([]game.Event(nil), m.events...)
	}
	if m.session == nil {
		return snap
	}

	stats := m.session.Stats()
	next := m.session.NextPiece()
	snap.GameID = m.gameID
	snap.Grid = m.session.Grid()
	snap.Next = &PiecePreview{
		Type:   next.Type,
		Shape:  next.Shape,
		Size:   next.Size,
		Origin: next.Origin,
	}
	snap.Score = stats.Score
	snap.Level = stats.Level
	snap.Lines = stats.Lines
	if m.state == StateGameOver {
		snap.Countdown = m.countdown
	}
	return snap
}
