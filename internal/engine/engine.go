package engine

import (
	"math/rand"
	"time"
)

// Engine bundles the mutable state the spec requires to persist across a
// single game: the Zobrist key table (fixed to one board size at
// construction, spec.md §4.5), the transposition table and killer slots
// (per-engine-instance, not cleared between root moves, spec.md §5), and
// a PRNG the engine owns itself rather than the process (spec.md §9).
//
// One Engine is meant to live for the lifetime of one game. Running
// several games concurrently means constructing several Engines; none of
// their mutable state is shared (spec.md §5: "If multiple engine
// instances run concurrently ... each owns its own TT; no sharing is
// specified").
type Engine struct {
	boardSize int
	maxDepth  int
	zobrist   *ZobristTable
	tt        *TranspositionTable
	killers   *KillerSlots
	rng       *rand.Rand

	busy bool // is_busy (spec.md §6); true only while DecideMove runs
}

// NewEngine constructs an engine bound to boardSize (15 or 19), seeded
// deterministically from seed, with a transposition table of ttSize
// slots (0 selects DefaultTTSize) and killer slots for depths 0..maxDepth.
func NewEngine(boardSize int, seed int64, ttSize, maxDepth int) (*Engine, error) {
	if boardSize != MinSize && boardSize != MaxSize {
		return nil, &ValidationError{Msg: "board size not in {15,19}"}
	}
	if maxDepth < 1 {
		maxDepth = 1
	}
	rng := newRNG(seed)
	return &Engine{
		boardSize: boardSize,
		maxDepth:  maxDepth,
		zobrist:   newZobristTable(boardSize, rng),
		tt:        NewTranspositionTable(ttSize),
		killers:   NewKillerSlots(maxDepth),
		rng:       rng,
	}, nil
}

// BoardSize returns the size this engine was constructed for.
func (e *Engine) BoardSize() int { return e.boardSize }

// HashBoard computes b's Zobrist hash from scratch using this engine's key
// table. Exposed for callers (the wire codec) that reconstruct a GameState
// from a serialized board rather than by replaying MakeMove.
func (e *Engine) HashBoard(b *Board) uint64 { return e.zobrist.HashBoard(b) }

// IsBusy reports whether a decide-move call is currently in flight
// (spec.md §6, consumed by the HAProxy/Envoy agent-check protocol).
func (e *Engine) IsBusy() bool { return e.busy }

func (e *Engine) enter() { e.busy = true }
func (e *Engine) leave() { e.busy = false }

// deadline computes the absolute time a search must stop by. A zero
// timeoutSeconds means "no timeout" (spec.md §5).
func deadline(start time.Time, timeoutSeconds float64) (t time.Time, has bool) {
	if timeoutSeconds <= 0 {
		return time.Time{}, false
	}
	return start.Add(time.Duration(timeoutSeconds * float64(time.Second))), true
}

func pastDeadline(dl time.Time, has bool) bool {
	return has && time.Now().After(dl)
}
