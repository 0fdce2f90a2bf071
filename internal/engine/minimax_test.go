package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestStaticEvalSignSymmetry is the leaf sign-symmetry testable property
// (spec.md §8): evaluating a position for one side must be the exact
// negation of evaluating it for the other.
func TestStaticEvalSignSymmetry(t *testing.T) {
	e := newTestEngine(t)
	b, err := NewBoard(MinSize)
	assert.NoError(t, err)
	b.Set(7, 7, Crosses)
	b.Set(7, 8, Naughts)
	b.Set(8, 7, Crosses)
	b.Set(6, 6, Naughts)

	assert.Equal(t, e.staticEval(b, Crosses), -e.staticEval(b, Naughts))
}

func TestStaticEvalEmptyBoardIsZero(t *testing.T) {
	e := newTestEngine(t)
	b, err := NewBoard(MinSize)
	assert.NoError(t, err)
	assert.Equal(t, 0, e.staticEval(b, Crosses))
}

func TestSearchNodeDetectsImmediateLoss(t *testing.T) {
	e := newTestEngine(t)
	b, err := NewBoard(MinSize)
	assert.NoError(t, err)
	for _, col := range []int{3, 4, 5, 6} {
		b.Set(10, col, Naughts)
	}
	b.Set(10, 7, Naughts) // Naughts just completed a five

	hash := e.zobrist.HashBoard(b)
	stats := &searchStats{}
	var timedOut bool
	val := e.searchNode(b, 2, -infinity, infinity, Crosses, Crosses, Point{Row: 10, Col: 7}, true, hash, DefaultRadius, time.Time{}, false, stats, &timedOut)

	assert.Less(t, val, -Win/2, "a terminal win for the side to move's opponent must score deeply negative for aiPlayer")
}

func TestSearchNodeRespectsDeadline(t *testing.T) {
	e := newTestEngine(t)
	b, err := NewBoard(MinSize)
	assert.NoError(t, err)
	b.Set(7, 7, Crosses)

	hash := e.zobrist.HashBoard(b)
	stats := &searchStats{}
	var timedOut bool
	past := time.Now().Add(-time.Second)
	e.searchNode(b, 3, -infinity, infinity, Naughts, Crosses, Point{}, false, hash, DefaultRadius, past, true, stats, &timedOut)

	assert.True(t, timedOut, "a deadline already in the past must abort the search immediately")
}
