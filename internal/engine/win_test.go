package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasWinAtRequiresFiveContiguous(t *testing.T) {
	b, err := NewBoard(MinSize)
	assert.NoError(t, err)
	for _, col := range []int{4, 5, 6, 7} {
		b.Set(7, col, Crosses)
	}
	assert.False(t, HasWinAt(b, 7, 4, Crosses), "only four stones placed so far")

	b.Set(7, 8, Crosses)
	assert.True(t, HasWinAt(b, 7, 4, Crosses))
	assert.True(t, HasWinAt(b, 7, 8, Crosses))
}

func TestHasWinAtWrongOccupant(t *testing.T) {
	b, err := NewBoard(MinSize)
	assert.NoError(t, err)
	b.Set(7, 7, Naughts)
	assert.False(t, HasWinAt(b, 7, 7, Crosses), "cell is occupied by the other player")
}

// TestThreatWinAgreesWithHasWinAt is the win-agreement testable property
// (spec.md §8): EvaluateThreat's ThreatWin value and HasWinAt after
// placement must never disagree.
func TestThreatWinAgreesWithHasWinAt(t *testing.T) {
	cases := []struct {
		name  string
		setup func(b *Board)
		row   int
		col   int
	}{
		{
			name: "exactly five in a row",
			setup: func(b *Board) {
				for _, col := range []int{3, 4, 5, 6} {
					b.Set(10, col, Crosses)
				}
			},
			row: 10, col: 7,
		},
		{
			name: "overline six in a row",
			setup: func(b *Board) {
				for _, col := range []int{3, 4, 5, 6, 8} {
					b.Set(10, col, Crosses)
				}
			},
			row: 10, col: 7,
		},
		{
			name: "four only, not a win",
			setup: func(b *Board) {
				for _, col := range []int{4, 5, 6} {
					b.Set(10, col, Crosses)
				}
			},
			row: 10, col: 7,
		},
		{
			name: "diagonal five",
			setup: func(b *Board) {
				for i := 0; i < 4; i++ {
					b.Set(3+i, 3+i, Crosses)
				}
			},
			row: 7, col: 7,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := NewBoard(MinSize)
			assert.NoError(t, err)
			tc.setup(b)

			threatBefore := EvaluateThreat(b, tc.row, tc.col, Crosses)
			b.Set(tc.row, tc.col, Crosses)
			won := HasWinAt(b, tc.row, tc.col, Crosses)

			assert.Equal(t, threatBefore >= ThreatWin, won,
				"EvaluateThreat>=ThreatWin must agree with HasWinAt after placement")
		})
	}
}

func TestHasWinnerScansWholeBoard(t *testing.T) {
	b, err := NewBoard(MinSize)
	assert.NoError(t, err)
	assert.False(t, HasWinner(b, Crosses))

	for _, col := range []int{0, 1, 2, 3, 4} {
		b.Set(14, col, Crosses)
	}
	assert.True(t, HasWinner(b, Crosses))
	assert.False(t, HasWinner(b, Naughts))
}
