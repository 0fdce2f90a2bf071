package engine

import "fmt"

// GameStatus is the lifecycle state of a GameState (spec.md §3).
type GameStatus int

const (
	Running GameStatus = iota
	XWon
	OWon
	Draw
	Quit
)

func (s GameStatus) String() string {
	switch s {
	case XWon:
		return "XWon"
	case OWon:
		return "OWon"
	case Draw:
		return "Draw"
	case Quit:
		return "Quit"
	default:
		return "Running"
	}
}

// PlayerKind distinguishes a human-controlled side from an AI-controlled
// one (spec.md §3).
type PlayerKind int

const (
	Human PlayerKind = iota
	AI
)

// PlayerConfig is one side's configuration (spec.md §3: "per-player kind
// ... per-player search depth").
type PlayerConfig struct {
	Kind  PlayerKind
	Depth int // clamped to [1,6] by callers, spec.md §6
}

// Config is a GameState's fixed configuration (spec.md §3).
type Config struct {
	BoardSize      int
	Radius         int     // clamped to [1,4] by wire callers, [1,5] engine-wide
	TimeoutSeconds float64 // 0 = no timeout, spec.md §5
	X              PlayerConfig
	O              PlayerConfig
}

// PlayerConfigFor returns the configuration belonging to player.
func (c Config) PlayerConfigFor(player Cell) PlayerConfig {
	if player == Crosses {
		return c.X
	}
	return c.O
}

// MoveRecord is one committed, immutable move (spec.md §3).
type MoveRecord struct {
	Row                int
	Col                int
	Player             Cell
	WallTimeSeconds    float64
	PositionsEvaluated int
	OwnThreatScore     int
	OpponentThreatScore int
	IsTerminalWinner   bool
}

// GameState is a board plus the mutable context the cascade and the
// surrounding application need: history, whose turn it is, the game's
// status, timing totals, and caches (stone count, Zobrist hash, last
// move) (spec.md §3).
type GameState struct {
	Board         *Board
	History       []MoveRecord
	CurrentPlayer Cell
	Status        GameStatus
	Config        Config

	StonesOnBoard int
	Hash          uint64
	LastMove      Point
	HasLastMove   bool

	TotalTimeX float64
	TotalTimeO float64
}

// NewGame constructs a fresh GameState on e's board size. cfg.BoardSize
// must match e's board size.
func (e *Engine) NewGame(cfg Config) (*GameState, error) {
	if cfg.BoardSize != e.boardSize {
		return nil, &ValidationError{Msg: fmt.Sprintf("config board size %d does not match engine size %d", cfg.BoardSize, e.boardSize)}
	}
	board, err := NewBoard(cfg.BoardSize)
	if err != nil {
		return nil, err
	}
	return &GameState{
		Board:         board,
		CurrentPlayer: Crosses,
		Status:        Running,
		Config:        cfg,
	}, nil
}

// MakeMove commits player's stone at (row, col) (spec.md §4.9). It fails
// iff the cell is occupied or out of bounds, leaving state unchanged; on
// success it mutates the board, updates the Zobrist hash incrementally,
// appends a history record, accumulates per-player time, and — via the
// win detector — may promote Status. CurrentPlayer flips unless the game
// just ended.
func (e *Engine) MakeMove(state *GameState, row, col int, player Cell, wallTimeSeconds float64, positionsEvaluated int, ownScore, oppScore int) error {
	if !state.Board.InBounds(row, col) {
		return &ValidationError{Msg: fmt.Sprintf("move (%d,%d) out of bounds", row, col)}
	}
	if !state.Board.IsEmpty(row, col) {
		return &ValidationError{Msg: fmt.Sprintf("cell (%d,%d) already occupied", row, col)}
	}

	state.Board.Set(row, col, player)
	state.Hash ^= e.zobrist.KeyFor(row, col, player)
	state.StonesOnBoard++

	won := HasWinAt(state.Board, row, col, player)
	record := MoveRecord{
		Row:                 row,
		Col:                 col,
		Player:              player,
		WallTimeSeconds:     wallTimeSeconds,
		PositionsEvaluated:  positionsEvaluated,
		OwnThreatScore:      ownScore,
		OpponentThreatScore: oppScore,
		IsTerminalWinner:    won,
	}
	if len(state.History) < state.Board.Size()*state.Board.Size() {
		state.History = append(state.History, record)
	}

	if player == Crosses {
		state.TotalTimeX += wallTimeSeconds
	} else {
		state.TotalTimeO += wallTimeSeconds
	}

	state.LastMove = Point{Row: row, Col: col}
	state.HasLastMove = true

	switch {
	case won && player == Crosses:
		state.Status = XWon
	case won && player == Naughts:
		state.Status = OWon
	case state.Board.Full():
		state.Status = Draw
	}

	if state.Status == Running {
		state.CurrentPlayer = player.Other()
	}
	return nil
}

// UndoPair removes the last two history entries, restoring the board,
// hash, stone count and per-player time they accounted for, resetting
// Status to Running and CurrentPlayer to Crosses (spec.md §4.9). A no-op
// when fewer than two moves exist.
func (e *Engine) UndoPair(state *GameState) {
	if len(state.History) < 2 {
		return
	}
	for i := 0; i < 2; i++ {
		last := state.History[len(state.History)-1]
		state.History = state.History[:len(state.History)-1]

		invariantCheck(state.Board.At(last.Row, last.Col) == last.Player,
			"undo expected %v at (%d,%d), found %v", last.Player, last.Row, last.Col, state.Board.At(last.Row, last.Col))
		state.Board.Set(last.Row, last.Col, Empty)
		state.Hash ^= e.zobrist.KeyFor(last.Row, last.Col, last.Player)
		state.StonesOnBoard--

		if last.Player == Crosses {
			state.TotalTimeX -= last.WallTimeSeconds
		} else {
			state.TotalTimeO -= last.WallTimeSeconds
		}
	}

	state.Status = Running
	state.CurrentPlayer = Crosses
	if len(state.History) > 0 {
		prev := state.History[len(state.History)-1]
		state.LastMove = Point{Row: prev.Row, Col: prev.Col}
		state.HasLastMove = true
	} else {
		state.HasLastMove = false
	}
}
