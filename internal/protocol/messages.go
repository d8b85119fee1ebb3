package protocol

import (
	"fmt"

	"github.com/hersh/tetris/internal/engine"
	"github.com/hersh/tetris/internal/game"
)

// MessageType identifies the kind of message sent over the wire.
type MessageType string

const (
	// Server -> Viewer messages
	MsgWelcome  MessageType = "welcome"
	MsgSnapshot MessageType = "snapshot"

	// Viewer -> Server messages
	MsgWatch MessageType = "watch"
)

// Envelope is the top-level wire format for all messages.
type Envelope struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// --- Server -> Viewer payloads ---

// WelcomePayload is sent when a viewer first connects.
type WelcomePayload struct {
	ViewerID string `json:"viewer_id"`
}

// PiecePayload describes the next piece.
type PiecePayload struct {
	Type    string  `json:"type"`
	Shape   [][]int `json:"shape"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	OriginX int     `json:"origin_x"`
	OriginY int     `json:"origin_y"`
}

// SnapshotPayload is one frame of the observed game.
type SnapshotPayload struct {
	Tick   uint64 `json:"tick"`
	State  string `json:"state"`
	GameID string `json:"game_id,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	// Board is a flat array: Height * Width cells, row-major.
	// Positive values are locked color ids, negative values ghost markers.
	Board     []int         `json:"board,omitempty"`
	Next      *PiecePayload `json:"next,omitempty"`
	Score     int           `json:"score"`
	Level     int           `json:"level"`
	Lines     int           `json:"lines"`
	Countdown int           `json:"countdown,omitempty"`
	Events    []string      `json:"events,omitempty"`
}

// --- Viewer -> Server payloads ---

// WatchPayload announces a viewer's display name.
type WatchPayload struct {
	ViewerName string `json:"viewer_name"`
}

// FromSnapshot converts an engine snapshot to its wire form.
func FromSnapshot(s engine.Snapshot) SnapshotPayload {
	p := SnapshotPayload{
		Tick:      s.Tick,
		State:     s.State.String(),
		GameID:    s.GameID,
		Score:     s.Score,
		Level:     s.Level,
		Lines:     s.Lines,
		Countdown: s.Countdown,
	}
	if s.HasGame() {
		p.Height = len(s.Grid)
		p.Width = len(s.Grid[0])
		p.Board = FlattenGrid(s.Grid)
	}
	if s.Next != nil {
		p.Next = &PiecePayload{
			Type:    s.Next.Type.String(),
			Shape:   s.Next.Shape,
			Width:   s.Next.Size.Width,
			Height:  s.Next.Size.Height,
			OriginX: s.Next.Origin.X,
			OriginY: s.Next.Origin.Y,
		}
	}
	for _, e := range s.Events {
		p.Events = append(p.Events, e.String())
	}
	return p
}

// Snapshot converts the payload back into an engine snapshot. Unknown event
// names are skipped so older viewers tolerate newer servers.
func (p SnapshotPayload) Snapshot() (engine.Snapshot, error) {
	state, ok := engine.ParseState(p.State)
	if !ok {
		return engine.Snapshot{}, fmt.Errorf("unknown state %q", p.State)
	}
	s := engine.Snapshot{
		Tick:      p.Tick,
		State:     state,
		GameID:    p.GameID,
		Score:     p.Score,
		Level:     p.Level,
		Lines:     p.Lines,
		Countdown: p.Countdown,
	}
	if len(p.Board) > 0 {
		if p.Width <= 0 || p.Height <= 0 {
			return engine.Snapshot{}, fmt.Errorf("board dimensions %dx%d", p.Width, p.Height)
		}
		if len(p.Board) != p.Width*p.Height {
			return engine.Snapshot{}, fmt.Errorf("board has %d cells, want %dx%d", len(p.Board), p.Width, p.Height)
		}
		s.Grid = UnflattenGrid(p.Board, p.Width, p.Height)
	}
	if p.Next != nil {
		t, ok := game.ParsePieceType(p.Next.Type)
		if !ok {
			return engine.Snapshot{}, fmt.Errorf("unknown piece type %q", p.Next.Type)
		}
		if err := p.Next.validate(); err != nil {
			return engine.Snapshot{}, err
		}
		s.Next = &engine.PiecePreview{
			Type:   t,
			Shape:  p.Next.Shape,
			Size:   game.Size{Width: p.Next.Width, Height: p.Next.Height},
			Origin: game.Point{X: p.Next.OriginX, Y: p.Next.OriginY},
		}
	}
	for _, name := range p.Events {
		if e, ok := game.ParseEvent(name); ok {
			s.Events = append(s.Events, e)
		}
	}
	return s, nil
}

// validate checks that the occupied window lies inside the shape matrix.
func (p *PiecePayload) validate() error {
	if p.Width <= 0 || p.Height <= 0 || p.OriginX < 0 || p.OriginY < 0 {
		return fmt.Errorf("piece window %dx%d at (%d,%d)", p.Width, p.Height, p.OriginX, p.OriginY)
	}
	if p.OriginY+p.Height > len(p.Shape) {
		return fmt.Errorf("piece window rows %d..%d outside %d-row shape", p.OriginY, p.OriginY+p.Height, len(p.Shape))
	}
	for y := p.OriginY; y < p.OriginY+p.Height; y++ {
		if p.OriginX+p.Width > len(p.Shape[y]) {
			return fmt.Errorf("piece window columns %d..%d outside row %d", p.OriginX, p.OriginX+p.Width, y)
		}
	}
	return nil
}

// FlattenGrid returns the grid as a flat row-major array.
func FlattenGrid(grid [][]int) []int {
	if len(grid) == 0 {
		return nil
	}
	width := len(grid[0])
	flat := make([]int, len(grid)*width)
	for y, row := range grid {
		copy(flat[y*width:], row)
	}
	return flat
}

// UnflattenGrid rebuilds a grid from a flat row-major array.
func UnflattenGrid(flat []int, width, height int) [][]int {
	grid := make([][]int, height)
	for y := 0; y < height; y++ {
		grid[y] = make([]int, width)
		copy(grid[y], flat[y*width:])
	}
	return grid
}
