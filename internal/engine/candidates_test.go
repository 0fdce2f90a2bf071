package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCandidatesEmptyBoardIsCentre(t *testing.T) {
	b, err := NewBoard(MinSize)
	assert.NoError(t, err)
	cand := GenerateCandidates(b, DefaultRadius)
	assert.Equal(t, 1, cand.Len())
	centre := MinSize / 2
	assert.Equal(t, Point{Row: centre, Col: centre}, cand.At(0))
}

func TestGenerateCandidatesWithinRadiusAndDeduped(t *testing.T) {
	b, err := NewBoard(MinSize)
	assert.NoError(t, err)
	b.Set(7, 7, Crosses)
	b.Set(7, 8, Naughts)

	cand := GenerateCandidates(b, 1)
	seen := map[Point]int{}
	for _, p := range cand.Slice() {
		seen[p]++
		assert.True(t, b.IsEmpty(p.Row, p.Col))
	}
	for p, count := range seen {
		assert.Equal(t, 1, count, "candidate %v must not be duplicated even though it neighbours two stones", p)
	}
	// (7,7) and (7,8) are adjacent, so every cell within radius 1 of
	// either one should appear exactly once.
	assert.Contains(t, seen, Point{Row: 6, Col: 6})
	assert.Contains(t, seen, Point{Row: 8, Col: 9})
	assert.NotContains(t, seen, Point{Row: 7, Col: 7}, "occupied cells are never candidates")
}

func TestGenerateCandidatesFullBoardIsEmpty(t *testing.T) {
	b, err := NewBoard(MinSize)
	assert.NoError(t, err)
	for row := 0; row < b.Size(); row++ {
		for col := 0; col < b.Size(); col++ {
			b.Set(row, col, Crosses)
		}
	}
	cand := GenerateCandidates(b, DefaultRadius)
	assert.Equal(t, 0, cand.Len())
}

func TestClampRadius(t *testing.T) {
	assert.Equal(t, 1, ClampRadius(0))
	assert.Equal(t, 1, ClampRadius(1))
	assert.Equal(t, 5, ClampRadius(5))
	assert.Equal(t, 5, ClampRadius(9))
}
