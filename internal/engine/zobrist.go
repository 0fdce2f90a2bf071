package engine

import "math/rand"

// ZobristTable holds the 2*size*size random 64-bit keys used to hash a
// position (spec.md §4.5), one per (player, cell). Generated once at
// engine construction and never mutated afterward.
type ZobristTable struct {
	size int
	keys [2][]uint64 // keys[0] = Crosses, keys[1] = Naughts, each size*size long
}

func newZobristTable(size int, rng *rand.Rand) *ZobristTable {
	z := &ZobristTable{size: size}
	z.keys[0] = make([]uint64, size*size)
	z.keys[1] = make([]uint64, size*size)
	for i := range z.keys[0] {
		z.keys[0][i] = rng.Uint64()
		z.keys[1][i] = rng.Uint64()
	}
	return z
}

func (z *ZobristTable) playerSlot(player Cell) int {
	if player == Crosses {
		return 0
	}
	return 1
}

// KeyFor returns the XOR key for placing player at (row, col).
func (z *ZobristTable) KeyFor(row, col int, player Cell) uint64 {
	return z.keys[z.playerSlot(player)][row*z.size+col]
}

// HashBoard computes the hash of a position from scratch, the XOR of the
// key for every occupied cell. Used to (re)initialise GameState.Hash and
// by the incrementality property test (spec.md §8).
func (z *ZobristTable) HashBoard(b *Board) uint64 {
	var h uint64
	size := b.Size()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			cell := b.At(row, col)
			if cell == Empty {
				continue
			}
			h ^= z.KeyFor(row, col, cell)
		}
	}
	return h
}
