package engine

import (
	"io"
	"log/slog"
	"testing"

	"github.com/hersh/tetris/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource int

func (s fixedSource) Intn(int) int { return int(s) }

func newTestMachine(t game.PieceType) *Machine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewMachine(game.NewPieceFactory(fixedSource(t)), logger)
}

func actions(a ...game.Action) game.ActionSet {
	return game.NewActionSet(a...)
}

func TestMenuConfirmStartsGame(t *testing.T) {
	m := newTestMachine(game.PieceI)

	snap := m.Tick(actions(game.ActionMoveLeft, game.ActionHardDrop))
	assert.Equal(t, StateMenu, snap.State)
	assert.False(t, snap.HasGame())
	assert.Empty(t, snap.Events)

	snap = m.Tick(actions(game.ActionConfirm))
	require.Equal(t, StateRunning, snap.State)
	require.True(t, snap.HasGame())
	assert.NotEmpty(t, snap.GameID)
	assert.Len(t, snap.Grid, game.BoardHeight)
	assert.Len(t, snap.Grid[0], game.BoardWidth)
	assert.Equal(t, []game.Event{game.EventSelect, game.EventStart, game.EventStartMusic}, snap.Events)
	assert.Zero(t, snap.Score)
	assert.Zero(t, snap.Level)
	assert.Zero(t, snap.Lines)
	require.NotNil(t, snap.Next)
	assert.Equal(t, game.PieceI, snap.Next.Type)
	assert.Equal(t, game.Size{Width: 4, Height: 1}, snap.Next.Size)
	assert.Equal(t, game.Point{X: 0, Y: 2}, snap.Next.Origin)
}

func TestRunningDispatchesActions(t *testing.T) {
	m := newTestMachine(game.PieceI)
	m.Tick(actions(game.ActionConfirm))

	snap := m.Tick(actions(game.ActionHardDrop))

	assert.Equal(t, StateRunning, snap.State)
	assert.Equal(t, []int{0, 0, 0, 1, 1, 1, 1, 0, 0, 0}, snap.Grid[19])
	assert.Equal(t, 10, snap.Score)
	assert.Equal(t, []game.Event{game.EventDrop}, snap.Events)

	snap = m.Tick(actions(game.ActionConfirm))
	assert.Empty(t, snap.Events, "confirm does nothing while running")
}

func TestPauseFreezesTheBoard(t *testing.T) {
	m := newTestMachine(game.PieceT)
	m.Tick(actions(game.ActionConfirm))

	snap := m.Tick(actions(game.ActionTogglePause, game.ActionMoveLeft))
	require.Equal(t, StatePaused, snap.State)
	assert.Equal(t, []game.Event{game.EventStopMusic}, snap.Events)
	frozen := snap.Grid

	for i := 0; i < 3*game.InitialFallSpeed; i++ {
		snap = m.Tick(actions(game.ActionMoveLeft, game.ActionHardDrop))
		require.Equal(t, StatePaused, snap.State)
		assert.Empty(t, snap.Events)
	}
	assert.Equal(t, frozen, snap.Grid)

	snap = m.Tick(actions(game.ActionTogglePause))
	assert.Equal(t, StateRunning, snap.State)
	assert.Equal(t, []game.Event{game.EventStartMusic}, snap.Events)
}

func TestGameOverCountdownReturnsToMenu(t *testing.T) {
	m := newTestMachine(game.PieceSquare)
	m.Tick(actions(game.ActionConfirm))

	var snap Snapshot
	for i := 0; i < 100 && m.State() == StateRunning; i++ {
		snap = m.Tick(actions(game.ActionHardDrop))
	}
	require.Equal(t, StateGameOver, snap.State)
	assert.Contains(t, snap.Events, game.EventGameOver)
	assert.Contains(t, snap.Events, game.EventStopMusic)
	assert.Equal(t, GameOverDelay, snap.Countdown)
	assert.Equal(t, 90, snap.Score)
	gameID := snap.GameID
	board := snap.Grid

	for i := 1; i < GameOverDelay; i++ {
		snap = m.Tick(actions(game.ActionConfirm, game.ActionTogglePause))
		require.Equal(t, StateGameOver, snap.State, "tick %d", i)
	}
	assert.Equal(t, 1, snap.Countdown)
	assert.Equal(t, gameID, snap.GameID)
	assert.Equal(t, board, snap.Grid)

	snap = m.Tick(0)
	assert.Equal(t, StateMenu, snap.State)
	assert.False(t, snap.HasGame())
	assert.Empty(t, snap.GameID)

	snap = m.Tick(actions(game.ActionConfirm))
	assert.Equal(t, StateRunning, snap.State)
	assert.NotEqual(t, gameID, snap.GameID)
	assert.Zero(t, snap.Score)
}

func TestSnapshotSharesNoState(t *testing.T) {
	m := newTestMachine(game.PieceI)
	snap := m.Tick(actions(game.ActionConfirm))

	snap.Grid[0][3] = 99
	snap.Next.Shape[2][0] = 99

	next := m.Tick(0)
	assert.Equal(t, 1, next.Grid[0][3])
	assert.Equal(t, 1, next.Next.Shape[2][0])
}

func TestTickCounter(t *testing.T) {
	m := newTestMachine(game.PieceI)
	assert.Equal(t, uint64(1), m.Tick(0).Tick)
	assert.Equal(t, uint64(2), m.Tick(0).Tick)
}

func TestStateNames(t *testing.T) {
	for s := StateMenu; s <= StateGameOver; s++ {
		got, ok := ParseState(s.String())
		assert.True(t, ok)
		assert.Equal(t, s, got)
	}
	_, ok := ParseState("bogus")
	assert.False(t, ok)
}
