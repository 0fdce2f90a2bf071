package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZobristKeysDistinctPerCellAndPlayer(t *testing.T) {
	z := newZobristTable(MinSize, newRNG(1))
	assert.NotEqual(t, z.KeyFor(0, 0, Crosses), z.KeyFor(0, 0, Naughts))
	assert.NotEqual(t, z.KeyFor(0, 0, Crosses), z.KeyFor(0, 1, Crosses))
}

// TestZobristIncrementality is the incrementality testable property
// (spec.md §8): XOR-ing in a move's key and then XOR-ing it out again
// must return to the original hash, and the from-scratch HashBoard must
// agree with incremental XOR accumulation.
func TestZobristIncrementality(t *testing.T) {
	z := newZobristTable(MinSize, newRNG(7))
	b, err := NewBoard(MinSize)
	assert.NoError(t, err)

	var hash uint64
	moves := []struct {
		row, col int
		player   Cell
	}{
		{7, 7, Crosses},
		{7, 8, Naughts},
		{8, 8, Crosses},
		{6, 6, Naughts},
	}

	for _, m := range moves {
		b.Set(m.row, m.col, m.player)
		hash ^= z.KeyFor(m.row, m.col, m.player)
	}
	assert.Equal(t, z.HashBoard(b), hash, "incremental XOR accumulation must match a from-scratch hash")

	// Undo the last move and confirm the hash returns to the three-move value.
	last := moves[len(moves)-1]
	b.Set(last.row, last.col, Empty)
	hash ^= z.KeyFor(last.row, last.col, last.player)
	assert.Equal(t, z.HashBoard(b), hash)
}

func TestZobristEmptyBoardHashIsZero(t *testing.T) {
	z := newZobristTable(MinSize, newRNG(3))
	b, err := NewBoard(MinSize)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), z.HashBoard(b))
}
