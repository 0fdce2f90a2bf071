package engine

// vctMaxDepth caps the offensive VCT recursion at 10 of our moves, i.e.
// about 20 ply once the opponent's forced replies are counted (spec.md
// §4.7).
const vctMaxDepth = 10

// FindForcedWin looks for a forcing sequence of fours, each forcing the
// opponent's reply to the single cell that blocks five-in-a-row, ending
// in a compound threat the opponent cannot stop (spec.md §4.7). It
// returns the move sequence on success; every stone placed during the
// search is unplaced on every return path. radius is the game's
// configured candidate-generation radius (spec.md §3/§6), already
// clamped by the caller.
func (e *Engine) FindForcedWin(board *Board, player Cell, radius int) (bool, []Point) {
	return e.offensiveVCT(board, player, radius, vctMaxDepth)
}

func (e *Engine) offensiveVCT(board *Board, player Cell, radius, depthRemaining int) (bool, []Point) {
	candidates := GenerateCandidates(board, radius).Slice()

	// Already-unstoppable without going any deeper.
	if p, ok := firstCompound(board, candidates, player); ok {
		return true, []Point{p}
	}

	if depthRemaining <= 0 {
		return false, nil
	}

	opponent := player.Other()
	for _, p := range candidates {
		if EvaluateThreat(board, p.Row, p.Col, player) < ThreatGappedFour {
			continue
		}

		invariantCheck(board.At(p.Row, p.Col) == Empty, "VCT candidate (%d,%d) is not empty", p.Row, p.Col)
		board.Set(p.Row, p.Col, player)

		if _, ok := firstCompound(board, GenerateCandidates(board, radius).Slice(), player); ok {
			board.Set(p.Row, p.Col, Empty)
			return true, []Point{p}
		}

		blocks := e.forcedBlockCells(board, p.Row, p.Col, player)
		switch {
		case len(blocks) == 0:
			// Not actually a four once scanned; this candidate was a
			// false positive of the coarse threat check.
			board.Set(p.Row, p.Col, Empty)
			continue
		case len(blocks) >= 2:
			// Open four: two winning completions, unstoppable.
			board.Set(p.Row, p.Col, Empty)
			return true, []Point{p}
		}

		block := blocks[0]
		if EvaluateThreat(board, block.Row, block.Col, opponent) >= ThreatGappedFour {
			// The forced block doubles as a counter-threat; this line
			// does not force a clean continuation.
			board.Set(p.Row, p.Col, Empty)
			continue
		}

		board.Set(block.Row, block.Col, opponent)
		ok, seq := e.offensiveVCT(board, player, radius, depthRemaining-1)
		board.Set(block.Row, block.Col, Empty)
		board.Set(p.Row, p.Col, Empty)

		if ok {
			return true, append([]Point{p}, seq...)
		}
	}

	return false, nil
}

// firstCompound reports the first candidate (if any) whose placement
// already yields a compound threat (spec.md §4.7 step 1 and step 3a).
func firstCompound(board *Board, candidates []Point, player Cell) (Point, bool) {
	for _, p := range candidates {
		if EvaluateThreat(board, p.Row, p.Col, player) >= CompoundTwoOpenThrees {
			return p, true
		}
	}
	return Point{}, false
}

// forcedBlockCells scans outward from a just-placed four at (row, col)
// in the four directions, up to five cells each way, collecting every
// empty cell at which player would complete a five (spec.md §4.7 step
// 3b). Zero results means the candidate was not really a four; one
// means a single forced block; two or more means the four is already
// open (unstoppable).
func (e *Engine) forcedBlockCells(board *Board, row, col int, player Cell) []Point {
	var out []Point
	for _, d := range directions {
		for _, sign := range [2]int{1, -1} {
			dr, dc := d[0]*sign, d[1]*sign
			for step := 1; step <= 5; step++ {
				r, c := row+dr*step, col+dc*step
				if !board.InBounds(r, c) {
					break
				}
				cell := board.At(r, c)
				if cell == Empty {
					if e.wouldCompleteFive(board, r, c, player) {
						out = append(out, Point{Row: r, Col: c})
					}
					continue
				}
				if cell != player {
					break
				}
				// own stone further along the line: keep scanning
			}
		}
	}
	return out
}

func (e *Engine) wouldCompleteFive(board *Board, row, col int, player Cell) bool {
	board.Set(row, col, player)
	win := HasWinAt(board, row, col, player)
	board.Set(row, col, Empty)
	return win
}

// FindForcedWinBlock implements the defensive VCT variant (spec.md
// §4.7): if the opponent has no forced win, there is nothing to do. If
// they do, try every candidate as a disruptor — a move after which the
// opponent's offensive VCT fails — preferring the disruptor with the
// highest own threat. Failing that, fall back to blocking the first move
// of the opponent's sequence.
func (e *Engine) FindForcedWinBlock(board *Board, player Cell, radius int) (bool, Point) {
	opponent := player.Other()
	ok, seq := e.offensiveVCT(board, opponent, radius, vctMaxDepth)
	if !ok {
		return false, Point{}
	}

	candidates := GenerateCandidates(board, radius).Slice()
	bestFound := false
	var best Point
	bestOwn := -1

	for _, p := range candidates {
		board.Set(p.Row, p.Col, player)
		stillWinning, _ := e.offensiveVCT(board, opponent, radius, vctMaxDepth)
		own := EvaluateThreat(board, p.Row, p.Col, player)
		board.Set(p.Row, p.Col, Empty)

		if stillWinning {
			continue
		}
		if !bestFound || own > bestOwn {
			best, bestOwn, bestFound = p, own, true
		}
	}

	if bestFound {
		return true, best
	}
	if len(seq) > 0 {
		return true, seq[0]
	}
	return false, Point{}
}
