package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(MinSize, 1, 1<<10, 4)
	assert.NoError(t, err)
	return e
}

func TestNewGameRejectsMismatchedBoardSize(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.NewGame(Config{BoardSize: MaxSize})
	assert.Error(t, err)
}

func TestMakeMoveRejectsOccupiedOrOutOfBounds(t *testing.T) {
	e := newTestEngine(t)
	state, err := e.NewGame(Config{BoardSize: MinSize})
	assert.NoError(t, err)

	assert.NoError(t, e.MakeMove(state, 7, 7, Crosses, 0, 0, 0, 0))
	assert.Error(t, e.MakeMove(state, 7, 7, Naughts, 0, 0, 0, 0), "cell already occupied")
	assert.Error(t, e.MakeMove(state, -1, 0, Naughts, 0, 0, 0, 0), "out of bounds")
}

// TestBoardConservation is the make_move/undo_pair round-trip testable
// property (spec.md §8): after committing two moves and undoing them,
// every piece of GameState must match what it was before.
func TestBoardConservation(t *testing.T) {
	e := newTestEngine(t)
	state, err := e.NewGame(Config{BoardSize: MinSize})
	assert.NoError(t, err)

	before := state.Board.Clone()
	beforeHash := state.Hash
	beforeStones := state.StonesOnBoard
	beforePlayer := state.CurrentPlayer

	assert.NoError(t, e.MakeMove(state, 7, 7, Crosses, 1.5, 10, 100, 0))
	assert.NoError(t, e.MakeMove(state, 7, 8, Naughts, 2.0, 12, 0, 100))

	e.UndoPair(state)

	assert.Equal(t, before.cells, state.Board.cells)
	assert.Equal(t, beforeHash, state.Hash)
	assert.Equal(t, beforeStones, state.StonesOnBoard)
	assert.Equal(t, beforePlayer, state.CurrentPlayer)
	assert.Equal(t, Running, state.Status)
	assert.Equal(t, 0.0, state.TotalTimeX)
	assert.Equal(t, 0.0, state.TotalTimeO)
	assert.Len(t, state.History, 0)
}

func TestMakeMoveDetectsWinAndStopsAdvancingTurn(t *testing.T) {
	e := newTestEngine(t)
	state, err := e.NewGame(Config{BoardSize: MinSize})
	assert.NoError(t, err)

	cols := []int{3, 4, 5, 6}
	for i, col := range cols {
		assert.NoError(t, e.MakeMove(state, 10, col, Crosses, 0, 0, 0, 0))
		assert.NoError(t, e.MakeMove(state, 11+i, 0, Naughts, 0, 0, 0, 0))
	}
	assert.Equal(t, Running, state.Status)

	assert.NoError(t, e.MakeMove(state, 10, 7, Crosses, 0, 0, 0, 0))
	assert.Equal(t, XWon, state.Status)
	assert.Equal(t, Crosses, state.CurrentPlayer, "turn must not advance once the game has ended")
}

func TestUndoPairNoopUnderTwoMoves(t *testing.T) {
	e := newTestEngine(t)
	state, err := e.NewGame(Config{BoardSize: MinSize})
	assert.NoError(t, err)
	assert.NoError(t, e.MakeMove(state, 7, 7, Crosses, 0, 0, 0, 0))

	e.UndoPair(state)
	assert.Len(t, state.History, 1, "undo_pair is a no-op with fewer than two moves recorded")
}

func TestPlayerConfigFor(t *testing.T) {
	cfg := Config{
		X: PlayerConfig{Kind: Human, Depth: 3},
		O: PlayerConfig{Kind: AI, Depth: 5},
	}
	assert.Equal(t, cfg.X, cfg.PlayerConfigFor(Crosses))
	assert.Equal(t, cfg.O, cfg.PlayerConfigFor(Naughts))
}
