package engine

import "fmt"

// invariantCheck panics if cond is false. It exists for conditions that
// UndoPair and the VCT search treat as programmer errors rather than
// caller input — a corrupted board, a candidate generator that produced
// an occupied cell — the one place this package diverges from "log and
// continue" (spec.md §7).
func invariantCheck(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf("engine: invariant violated: "+format, args...))
	}
}
