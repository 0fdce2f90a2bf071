package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateThreatOpenFour(t *testing.T) {
	b, err := NewBoard(MinSize)
	assert.NoError(t, err)
	// Three contiguous crosses on row 7, columns 4..6; a stone at either
	// end makes four contiguous with both ends open.
	for _, col := range []int{4, 5, 6} {
		b.Set(7, col, Crosses)
	}
	assert.Equal(t, ThreatOpenFour, EvaluateThreat(b, 7, 3, Crosses))
	assert.Equal(t, ThreatOpenFour, EvaluateThreat(b, 7, 7, Crosses))
}

func TestEvaluateThreatClosedFour(t *testing.T) {
	b, err := NewBoard(MinSize)
	assert.NoError(t, err)
	for _, col := range []int{4, 5, 6} {
		b.Set(7, col, Crosses)
	}
	b.Set(7, 3, Naughts) // pin one end
	assert.Equal(t, ThreatClosedFour, EvaluateThreat(b, 7, 7, Crosses))
}

func TestEvaluateThreatOpenThree(t *testing.T) {
	b, err := NewBoard(MinSize)
	assert.NoError(t, err)
	for _, col := range []int{5, 6} {
		b.Set(7, col, Crosses)
	}
	assert.Equal(t, ThreatOpenThree, EvaluateThreat(b, 7, 4, Crosses))
	assert.Equal(t, ThreatOpenThree, EvaluateThreat(b, 7, 7, Crosses))
}

func TestEvaluateThreatGappedFour(t *testing.T) {
	b, err := NewBoard(MinSize)
	assert.NoError(t, err)
	// X X _ X around the hypothetical placement at column 6: X(4) X(5) _(6) X(7)
	b.Set(7, 4, Crosses)
	b.Set(7, 5, Crosses)
	b.Set(7, 7, Crosses)
	assert.GreaterOrEqual(t, EvaluateThreat(b, 7, 6, Crosses), ThreatGappedFour)
}

func TestEvaluateThreatCompoundTwoOpenThrees(t *testing.T) {
	b, err := NewBoard(MinSize)
	assert.NoError(t, err)
	// Horizontal open three through (7,6)-(7,8) and vertical open three
	// through (6,7)-(8,7), crossing at (7,7).
	b.Set(7, 6, Crosses)
	b.Set(7, 8, Crosses)
	b.Set(6, 7, Crosses)
	b.Set(8, 7, Crosses)
	assert.GreaterOrEqual(t, EvaluateThreat(b, 7, 7, Crosses), CompoundTwoOpenThrees)
}

func TestEvaluateThreatPureAndReentrant(t *testing.T) {
	b, err := NewBoard(MinSize)
	assert.NoError(t, err)
	b.Set(7, 6, Crosses)
	b.Set(7, 8, Crosses)

	before := b.Clone()
	first := EvaluateThreat(b, 7, 7, Crosses)
	second := EvaluateThreat(b, 7, 7, Crosses)

	assert.Equal(t, first, second, "EvaluateThreat must be deterministic/reentrant")
	assert.Equal(t, before.cells, b.cells, "EvaluateThreat must never mutate the board")
}

func TestEvaluateThreatEmptyBoard(t *testing.T) {
	b, err := NewBoard(MinSize)
	assert.NoError(t, err)
	assert.Equal(t, 0, EvaluateThreat(b, 7, 7, Crosses))
}
