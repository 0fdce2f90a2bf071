package engine

import (
	"fmt"
	"time"
)

// DecideMove runs the top-level decision cascade (spec.md §4.8): a
// sequence of short-circuiting stages, each recording a ScoringEntry,
// culminating in iterative-deepening minimax. report may be nil to opt
// out of auditing (spec.md §9). The cascade always returns a move when
// the board has an empty cell; it only errors when the board is full.
func (e *Engine) DecideMove(state *GameState, report *ScoringReport) (Point, error) {
	e.enter()
	defer e.leave()

	player := state.CurrentPlayer
	radius := ClampRadius(state.Config.Radius)
	candidates := GenerateCandidates(state.Board, radius).Slice()
	if len(candidates) == 0 {
		return Point{}, &ValidationError{Msg: "no empty cells: board is full"}
	}

	start := time.Now()
	dl, hasDL := deadline(start, state.Config.TimeoutSeconds)

	if move, ok := e.stageHaveWin(state, candidates, player, report); ok {
		return move, nil
	}
	if move, ok := e.stageBlockThreat(state, candidates, player, report); ok {
		return move, nil
	}
	if move, ok := e.stageOpening(state, player, report); ok {
		return move, nil
	}
	if move, ok := e.stageOffensiveVCT(state, player, report); ok {
		return move, nil
	}
	if move, ok := e.stageDefensiveVCT(state, player, report); ok {
		return move, nil
	}
	if move, ok := e.stageBlockOpenThree(state, candidates, player, report); ok {
		return move, nil
	}
	if move, ok := e.stageForcingFour(state, candidates, player, report); ok {
		return move, nil
	}

	move, _, err := e.stageMinimax(state, candidates, player, report, dl, hasDL)
	if err == nil {
		return move, nil
	}

	// No stage produced a move (should only happen if every stage's
	// internal bookkeeping somehow failed); fall back to the first
	// candidate in generator order (spec.md §7, §4.8).
	return candidates[0], nil
}

func (e *Engine) stageHaveWin(state *GameState, candidates []Point, player Cell, report *ScoringReport) (Point, bool) {
	stageStart := time.Now()
	var winning []Point
	for _, c := range candidates {
		if EvaluateThreat(state.Board, c.Row, c.Col, player) >= ThreatWin {
			winning = append(winning, c)
		}
	}
	report.record(ScoringEntry{
		Stage:          "have_win",
		Perspective:    Self,
		MovesEvaluated: len(candidates),
		Score:          ThreatWin,
		WallMs:         msSince(stageStart),
	})
	if len(winning) == 0 {
		return Point{}, false
	}
	report.markDecisive(ThreatWin, Self)
	return pickUniform(e.rng, winning), true
}

func (e *Engine) stageBlockThreat(state *GameState, candidates []Point, player Cell, report *ScoringReport) (Point, bool) {
	stageStart := time.Now()
	opponent := player.Other()
	best := 0
	var bestMoves []Point
	for _, c := range candidates {
		opp := EvaluateThreat(state.Board, c.Row, c.Col, opponent)
		if opp < CompoundTwoOpenThrees {
			continue
		}
		switch {
		case opp > best:
			best = opp
			bestMoves = []Point{c}
		case opp == best:
			bestMoves = append(bestMoves, c)
		}
	}
	report.record(ScoringEntry{
		Stage:          "block_threat",
		Perspective:    Opponent,
		MovesEvaluated: len(candidates),
		Score:          best,
		WallMs:         msSince(stageStart),
	})
	if len(bestMoves) == 0 {
		return Point{}, false
	}
	report.markDecisive(best, Opponent)
	return pickUniform(e.rng, bestMoves), true
}

// stageOpening implements the distinguished opening rule (spec.md §4.8):
// with exactly one stone on the board, place uniformly among empty
// cells at Chebyshev distance 1 or 2 from it.
func (e *Engine) stageOpening(state *GameState, player Cell, report *ScoringReport) (Point, bool) {
	if state.StonesOnBoard != 1 {
		return Point{}, false
	}
	stageStart := time.Now()

	var human Point
	found := false
	size := state.Board.Size()
	for row := 0; row < size && !found; row++ {
		for col := 0; col < size; col++ {
			if !state.Board.IsEmpty(row, col) {
				human = Point{Row: row, Col: col}
				found = true
				break
			}
		}
	}
	if !found {
		return Point{}, false
	}

	var choices []Point
	for dr := -2; dr <= 2; dr++ {
		for dc := -2; dc <= 2; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			dist := chebyshev(dr, dc)
			if dist != 1 && dist != 2 {
				continue
			}
			r, c := human.Row+dr, human.Col+dc
			if state.Board.InBounds(r, c) && state.Board.IsEmpty(r, c) {
				choices = append(choices, Point{Row: r, Col: c})
			}
		}
	}
	report.record(ScoringEntry{
		Stage:          "opening",
		Perspective:    Self,
		MovesEvaluated: len(choices),
		WallMs:         msSince(stageStart),
	})
	if len(choices) == 0 {
		return Point{}, false
	}
	report.markDecisive(0, Self)
	return pickUniform(e.rng, choices), true
}

func chebyshev(dr, dc int) int {
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	if dr > dc {
		return dr
	}
	return dc
}

func (e *Engine) stageOffensiveVCT(state *GameState, player Cell, report *ScoringReport) (Point, bool) {
	stageStart := time.Now()
	ok, seq := e.FindForcedWin(state.Board, player, ClampRadius(state.Config.Radius))
	entry := ScoringEntry{
		Stage:       "have_vct",
		Perspective: Self,
		WallMs:      msSince(stageStart),
		Extras:      seq,
	}
	if ok {
		entry.Score = CompoundTwoFours
	}
	report.record(entry)
	if !ok || len(seq) == 0 {
		return Point{}, false
	}
	report.markDecisive(entry.Score, Self)
	return seq[0], true
}

func (e *Engine) stageDefensiveVCT(state *GameState, player Cell, report *ScoringReport) (Point, bool) {
	stageStart := time.Now()
	ok, move := e.FindForcedWinBlock(state.Board, player, ClampRadius(state.Config.Radius))
	report.record(ScoringEntry{
		Stage:       "block_vct",
		Perspective: Opponent,
		WallMs:      msSince(stageStart),
	})
	if !ok {
		return Point{}, false
	}
	report.markDecisive(CompoundTwoFours, Opponent)
	return move, true
}

// stageBlockOpenThree blocks an opponent's open three (or near-compound
// three-band threat) unless we judge ourselves to have the initiative
// (spec.md §4.8 stage 5).
func (e *Engine) stageBlockOpenThree(state *GameState, candidates []Point, player Cell, report *ScoringReport) (Point, bool) {
	stageStart := time.Now()
	opponent := player.Other()

	type scoredMove struct {
		p        Point
		own, opp int
	}
	var band []scoredMove
	ourMax := 0
	fours, openThrees := 0, 0
	maxOppInBand := 0

	for _, c := range candidates {
		own := EvaluateThreat(state.Board, c.Row, c.Col, player)
		opp := EvaluateThreat(state.Board, c.Row, c.Col, opponent)
		if own > ourMax {
			ourMax = own
		}
		if own >= ThreatGappedFour && own < ThreatWin {
			fours++
		}
		if own == ThreatOpenThree {
			openThrees++
		}
		if opp == ThreatOpenThree || (opp >= CompoundOpenThreePlus && opp < CompoundTwoOpenThrees) {
			band = append(band, scoredMove{p: c, own: own, opp: opp})
			if opp > maxOppInBand {
				maxOppInBand = opp
			}
		}
	}

	report.record(ScoringEntry{
		Stage:          "block_open_three",
		Perspective:    Opponent,
		MovesEvaluated: len(candidates),
		Score:          maxOppInBand,
		WallMs:         msSince(stageStart),
	})
	if len(band) == 0 {
		return Point{}, false
	}

	initiative := ourMax >= CompoundTwoOpenThrees ||
		fours >= 2 ||
		(fours >= 1 && openThrees >= 1) ||
		(ourMax >= ThreatOpenThree && ourMax > maxOppInBand)
	if initiative {
		return Point{}, false
	}

	// Restrict to the highest-threat blockers in the band, then pick the
	// one that also maximises our own threat (spec.md §4.8).
	bestOpp := 0
	for _, m := range band {
		if m.opp > bestOpp {
			bestOpp = m.opp
		}
	}
	bestOwn := -1
	var bestMoves []Point
	for _, m := range band {
		if m.opp != bestOpp {
			continue
		}
		switch {
		case m.own > bestOwn:
			bestOwn = m.own
			bestMoves = []Point{m.p}
		case m.own == bestOwn:
			bestMoves = append(bestMoves, m.p)
		}
	}
	report.markDecisive(bestOpp, Opponent)
	return pickUniform(e.rng, bestMoves), true
}

func (e *Engine) stageForcingFour(state *GameState, candidates []Point, player Cell, report *ScoringReport) (Point, bool) {
	stageStart := time.Now()
	best := 0
	var bestMoves []Point
	for _, c := range candidates {
		own := EvaluateThreat(state.Board, c.Row, c.Col, player)
		if own < ThreatClosedFour {
			continue
		}
		switch {
		case own > best:
			best = own
			bestMoves = []Point{c}
		case own == best:
			bestMoves = append(bestMoves, c)
		}
	}
	report.record(ScoringEntry{
		Stage:          "forcing_four",
		Perspective:    Self,
		MovesEvaluated: len(candidates),
		Score:          best,
		WallMs:         msSince(stageStart),
	})
	if len(bestMoves) == 0 {
		return Point{}, false
	}
	report.markDecisive(best, Self)
	return pickUniform(e.rng, bestMoves), true
}

// stageMinimax runs iterative deepening from depth 1 up to the moving
// player's configured depth (spec.md §4.8 stage 7). It keeps the best
// move of the last fully completed iteration; a partially searched
// iteration (timeout fired mid-iteration) is discarded.
func (e *Engine) stageMinimax(state *GameState, candidates []Point, player Cell, report *ScoringReport, dl time.Time, hasDL bool) (Point, int, error) {
	stageStart := time.Now()
	opponent := player.Other()
	radius := ClampRadius(state.Config.Radius)
	maxDepth := ClampDepth(state.Config.PlayerConfigFor(player).Depth)
	if maxDepth > e.maxDepth {
		maxDepth = e.maxDepth
	}

	stats := &searchStats{}
	var timedOut bool
	var overallBest Point
	hasOverallBest := false
	bestScore := 0

	for depth := 1; depth <= maxDepth; depth++ {
		ordered := append([]Point(nil), candidates...)
		OrderByPriority(state.Board, ordered, player, e.killers, depth)

		type scored struct {
			p   Point
			val int
		}
		var results []scored
		bestValThisDepth := -infinity
		incomplete := false

		for _, c := range ordered {
			if pastDeadline(dl, hasDL) {
				timedOut = true
				incomplete = true
				break
			}
			state.Board.Set(c.Row, c.Col, player)
			childHash := state.Hash ^ e.zobrist.KeyFor(c.Row, c.Col, player)
			val := e.searchNode(state.Board, depth-1, -infinity, infinity, opponent, player, c, true, childHash, radius, dl, hasDL, stats, &timedOut)
			state.Board.Set(c.Row, c.Col, Empty)

			results = append(results, scored{p: c, val: val})
			if val > bestValThisDepth {
				bestValThisDepth = val
			}
			if timedOut {
				incomplete = true
				break
			}
			if val >= Win-1000 {
				break
			}
		}

		if incomplete {
			break
		}

		var tied []Point
		for _, r := range results {
			if r.val == bestValThisDepth {
				tied = append(tied, r.p)
			}
		}
		if len(tied) > 0 {
			overallBest = pickUniform(e.rng, tied)
			hasOverallBest = true
			bestScore = bestValThisDepth
		}
		if bestValThisDepth >= Win-1000 {
			break
		}
	}

	report.record(ScoringEntry{
		Stage:          "minimax",
		Perspective:    Self,
		MovesEvaluated: stats.positions,
		Score:          bestScore,
		WallMs:         msSince(stageStart),
	})
	report.markDecisive(bestScore, Self)

	if !hasOverallBest {
		return Point{}, stats.positions, fmt.Errorf("minimax produced no move")
	}
	return overallBest, stats.positions, nil
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t)) / float64(time.Millisecond)
}
