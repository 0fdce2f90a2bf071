package engine

import "sort"

// Priority tiers (spec.md §4.4), highest first. Used only to order
// candidates before the minimax search visits them — never for pruning.
const (
	PriorityImmediateWin   = 2_000_000_000
	PriorityBlockWin       = 1_500_000_000
	PriorityOwnCompound    = 1_200_000_000
	PriorityOpponentCompound = 1_100_000_000
	PriorityKillerBonus    = 1_000_000
)

// MovePriority scores a candidate for ordering purposes only (spec.md
// §4.4). depth selects which killer pair to consult; pass -1 (or any
// out-of-range depth) to skip the killer bonus, e.g. when ordering at the
// cascade level rather than inside minimax.
func MovePriority(b *Board, move Point, player Cell, killers *KillerSlots, depth int) int64 {
	opponent := player.Other()
	own := EvaluateThreat(b, move.Row, move.Col, player)
	opp := EvaluateThreat(b, move.Row, move.Col, opponent)

	var priority int64
	switch {
	case own >= ThreatWin:
		priority = PriorityImmediateWin
	case opp >= ThreatWin:
		priority = PriorityBlockWin
	case own >= CompoundTwoOpenThrees:
		priority = PriorityOwnCompound + int64(own)
	case opp >= CompoundTwoOpenThrees:
		priority = PriorityOpponentCompound + int64(opp)
	}

	if killers != nil && killers.IsKiller(depth, move) {
		priority += PriorityKillerBonus
	}

	if opp >= ThreatOpenThree {
		priority += 10*int64(own) + 12*int64(opp)
	} else {
		priority += 15*int64(own) + 5*int64(opp)
	}

	size := b.Size()
	centre := size / 2
	dr := move.Row - centre
	if dr < 0 {
		dr = -dr
	}
	dc := move.Col - centre
	if dc < 0 {
		dc = -dc
	}
	bias := size - dr - dc
	if bias > 0 {
		priority += int64(bias)
	}

	return priority
}

// OrderByPriority sorts pts in place, highest priority first.
func OrderByPriority(b *Board, pts []Point, player Cell, killers *KillerSlots, depth int) {
	type scored struct {
		pt    Point
		score int64
	}
	buf := make([]scored, len(pts))
	for i, p := range pts {
		buf[i] = scored{pt: p, score: MovePriority(b, p, player, killers, depth)}
	}
	sort.Slice(buf, func(i, j int) bool {
		return buf[i].score > buf[j].score
	})
	for i, s := range buf {
		pts[i] = s.pt
	}
}
