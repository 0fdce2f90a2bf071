package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranspositionTableProbeMiss(t *testing.T) {
	tt := NewTranspositionTable(1 << 8)
	_, ok := tt.Probe(1234, 3)
	assert.False(t, ok, "empty table must miss")
}

func TestTranspositionTableStoreThenProbe(t *testing.T) {
	tt := NewTranspositionTable(1 << 8)
	move := Point{Row: 2, Col: 3}
	tt.Store(42, 5, Exact, 777, move, true)

	entry, ok := tt.Probe(42, 5)
	assert.True(t, ok)
	assert.Equal(t, 777, entry.Value)
	assert.Equal(t, move, entry.BestMove)

	_, ok = tt.Probe(42, 6)
	assert.False(t, ok, "a deeper probe than the stored depth must miss")
}

func TestTranspositionTableDoesNotRegressOnShallowerWrite(t *testing.T) {
	tt := NewTranspositionTable(1 << 8)
	tt.Store(42, 5, Exact, 777, Point{}, false)
	tt.Store(42, 2, Exact, 111, Point{}, false)

	entry, ok := tt.Probe(42, 5)
	assert.True(t, ok)
	assert.Equal(t, 777, entry.Value, "a shallower write must not overwrite a deeper entry")
}

func TestTranspositionTableResetClears(t *testing.T) {
	tt := NewTranspositionTable(1 << 8)
	tt.Store(42, 5, Exact, 777, Point{}, false)
	tt.Reset()
	_, ok := tt.Probe(42, 0)
	assert.False(t, ok)
}

func TestKillerSlotsRecordAndQuery(t *testing.T) {
	k := NewKillerSlots(4)
	m1 := Point{Row: 1, Col: 1}
	m2 := Point{Row: 2, Col: 2}
	m3 := Point{Row: 3, Col: 3}

	assert.False(t, k.IsKiller(2, m1))

	k.Record(2, m1)
	assert.True(t, k.IsKiller(2, m1))

	k.Record(2, m1) // duplicate must not shift the pair
	k.Record(2, m2)
	assert.True(t, k.IsKiller(2, m1))
	assert.True(t, k.IsKiller(2, m2))

	k.Record(2, m3) // evicts the oldest slot (m1)
	assert.False(t, k.IsKiller(2, m1))
	assert.True(t, k.IsKiller(2, m2))
	assert.True(t, k.IsKiller(2, m3))
}
