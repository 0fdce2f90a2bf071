package engine

import "time"

// Win is the fixed large constant added to terminal scores so faster
// wins are preferred over slower ones (spec.md §4.6).
const Win = 1_000_000

// infinity bounds alpha/beta at the root; comfortably above any score
// the static evaluator or Win+depth can produce.
const infinity = Win * 10

// searchStats accumulates counters across one top-level search call.
type searchStats struct {
	positions int
}

// searchNode runs depth-limited alpha-beta with a transposition table,
// killer-move ordering, and a cooperative wall-clock deadline (spec.md
// §4.6). board is mutated and restored along every path (place is always
// paired with an unplace before the frame returns, spec.md §5).
//
// toMove is who is about to place a stone at this node; aiPlayer is the
// side the whole search is being run for. lastMove/hasLastMove describe
// the move that led to this node, used for the terminal check. radius is
// the game's configured candidate-generation radius (spec.md §3/§6),
// already clamped by the caller.
func (e *Engine) searchNode(
	board *Board,
	depth int,
	alpha, beta int,
	toMove, aiPlayer Cell,
	lastMove Point,
	hasLastMove bool,
	hash uint64,
	radius int,
	dl time.Time,
	hasDL bool,
	stats *searchStats,
	timedOut *bool,
) int {
	if pastDeadline(dl, hasDL) {
		*timedOut = true
		return e.staticEval(board, aiPlayer)
	}

	enteringAlpha, enteringBeta := alpha, beta

	if entry, ok := e.tt.Probe(hash, depth); ok {
		switch entry.Flag {
		case Exact:
			return entry.Value
		case LowerBound:
			if entry.Value > alpha {
				alpha = entry.Value
			}
		case UpperBound:
			if entry.Value < beta {
				beta = entry.Value
			}
		}
		if alpha >= beta {
			return entry.Value
		}
	}

	if hasLastMove {
		lastPlayer := toMove.Other()
		if HasWinAt(board, lastMove.Row, lastMove.Col, lastPlayer) {
			if lastPlayer == aiPlayer {
				return Win + depth
			}
			return -(Win + depth)
		}
	}

	if depth == 0 {
		stats.positions++
		val := e.staticEval(board, aiPlayer)
		e.tt.Store(hash, depth, Exact, val, Point{}, false)
		return val
	}

	if board.Full() {
		return 0
	}

	cand := GenerateCandidates(board, radius)
	pts := cand.Slice()
	OrderByPriority(board, pts, toMove, e.killers, depth)

	maximising := toMove == aiPlayer
	best := -infinity
	if !maximising {
		best = infinity
	}
	var bestMove Point
	hasBestMove := false

	for _, p := range pts {
		board.Set(p.Row, p.Col, toMove)
		childHash := hash ^ e.zobrist.KeyFor(p.Row, p.Col, toMove)

		childVal := e.searchNode(board, depth-1, alpha, beta, toMove.Other(), aiPlayer, p, true, childHash, radius, dl, hasDL, stats, timedOut)

		board.Set(p.Row, p.Col, Empty)

		if maximising {
			if childVal > best {
				best = childVal
				bestMove = p
				hasBestMove = true
			}
			if best > alpha {
				alpha = best
			}
		} else {
			if childVal < best {
				best = childVal
				bestMove = p
				hasBestMove = true
			}
			if best < beta {
				beta = best
			}
		}

		if beta <= alpha {
			e.killers.Record(depth, p)
			break
		}
		if *timedOut {
			break
		}
	}

	flag := Exact
	if best <= enteringAlpha {
		flag = UpperBound
	} else if best >= enteringBeta {
		flag = LowerBound
	}
	e.tt.Store(hash, depth, flag, best, bestMove, hasBestMove)

	return best
}

// staticEval is the full-board-scan leaf evaluator (spec.md §4.6's
// documented alternative to the last-move-local incremental variant —
// see DESIGN.md for why this implementation uses the full-board form).
func (e *Engine) staticEval(board *Board, aiPlayer Cell) int {
	opp := aiPlayer.Other()
	sum := 0
	size := board.Size()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			switch board.At(row, col) {
			case aiPlayer:
				sum += EvaluateThreat(board, row, col, aiPlayer)
			case opp:
				sum -= EvaluateThreat(board, row, col, opp)
			}
		}
	}
	return sum
}
