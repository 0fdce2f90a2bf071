// Package wire implements the JSON contract a stateless HTTP front end
// and the replay store use to exchange game state with the engine.
package wire

import (
	"encoding/json"
	"fmt"
	"strings"

	"gomoku/internal/engine"
)

// ValidationError reports a malformed payload: bad JSON, an unrecognised
// move key, a board_size outside {15,19}, or a board_state that does not
// parse into exactly board_size rows of board_size cells.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// PlayerConfig mirrors one side's "player"/"depth"/"time_ms" triple.
type PlayerConfig struct {
	Player string  `json:"player"` // "human" or "AI"
	Depth  int     `json:"depth"`
	TimeMs float64 `json:"time_ms"`
}

// Timeout models the "none"|int_seconds union in the wire contract.
type Timeout struct {
	None    bool
	Seconds int
}

func (t Timeout) MarshalJSON() ([]byte, error) {
	if t.None {
		return json.Marshal("none")
	}
	return json.Marshal(t.Seconds)
}

func (t *Timeout) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "none" {
			return &ValidationError{Msg: fmt.Sprintf("invalid timeout string %q", s)}
		}
		t.None, t.Seconds = true, 0
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return &ValidationError{Msg: "timeout must be \"none\" or an integer number of seconds"}
	}
	t.None, t.Seconds = false, n
	return nil
}

// MoveEntry is one entry of the "moves" array. The player and move kind
// are folded into a single dynamic JSON key ("X (human)", "O (AI)", ...)
// rather than a field, per the wire contract; MovesEvaluated, Score,
// Opponent and Winner are optional and round-trip as omitted when nil.
type MoveEntry struct {
	Player         engine.Cell
	Kind           engine.PlayerKind
	Row, Col       int
	TimeMs         float64
	MovesEvaluated *int
	Score          *int
	Opponent       *int
	Winner         *bool
}

func moveKey(player engine.Cell, kind engine.PlayerKind) string {
	side := "X"
	if player == engine.Naughts {
		side = "O"
	}
	kindLabel := "human"
	if kind == engine.AI {
		kindLabel = "AI"
	}
	return fmt.Sprintf("%s (%s)", side, kindLabel)
}

func parseMoveKey(key string) (engine.Cell, engine.PlayerKind, error) {
	open := strings.IndexByte(key, '(')
	if open < 1 || !strings.HasSuffix(key, ")") {
		return 0, 0, &ValidationError{Msg: fmt.Sprintf("invalid move key %q", key)}
	}
	side := strings.TrimSpace(key[:open])
	kindLabel := key[open+1 : len(key)-1]

	var player engine.Cell
	switch side {
	case "X":
		player = engine.Crosses
	case "O":
		player = engine.Naughts
	default:
		return 0, 0, &ValidationError{Msg: fmt.Sprintf("invalid move key side %q", side)}
	}

	var kind engine.PlayerKind
	switch kindLabel {
	case "human":
		kind = engine.Human
	case "AI":
		kind = engine.AI
	default:
		return 0, 0, &ValidationError{Msg: fmt.Sprintf("invalid move key kind %q", kindLabel)}
	}
	return player, kind, nil
}

func (m MoveEntry) MarshalJSON() ([]byte, error) {
	obj := map[string]interface{}{
		moveKey(m.Player, m.Kind): [2]int{m.Row, m.Col},
		"time_ms":                 m.TimeMs,
	}
	if m.MovesEvaluated != nil {
		obj["moves_evaluated"] = *m.MovesEvaluated
	}
	if m.Score != nil {
		obj["score"] = *m.Score
	}
	if m.Opponent != nil {
		obj["opponent"] = *m.Opponent
	}
	if m.Winner != nil && *m.Winner {
		obj["winner"] = true
	}
	return json.Marshal(obj)
}

func (m *MoveEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ValidationError{Msg: "move entry is not a JSON object"}
	}

	foundKey := false
	for k, v := range raw {
		switch k {
		case "time_ms":
			if err := json.Unmarshal(v, &m.TimeMs); err != nil {
				return &ValidationError{Msg: "move time_ms must be numeric"}
			}
		case "moves_evaluated":
			var n int
			if err := json.Unmarshal(v, &n); err != nil {
				return &ValidationError{Msg: "move moves_evaluated must be an integer"}
			}
			m.MovesEvaluated = &n
		case "score":
			var n int
			if err := json.Unmarshal(v, &n); err != nil {
				return &ValidationError{Msg: "move score must be an integer"}
			}
			m.Score = &n
		case "opponent":
			var n int
			if err := json.Unmarshal(v, &n); err != nil {
				return &ValidationError{Msg: "move opponent must be an integer"}
			}
			m.Opponent = &n
		case "winner":
			var b bool
			if err := json.Unmarshal(v, &b); err != nil {
				return &ValidationError{Msg: "move winner must be a boolean"}
			}
			m.Winner = &b
		default:
			player, kind, err := parseMoveKey(k)
			if err != nil {
				return err
			}
			var coords [2]int
			if err := json.Unmarshal(v, &coords); err != nil {
				return &ValidationError{Msg: fmt.Sprintf("move %q must be a [row, col] pair", k)}
			}
			m.Player, m.Kind = player, kind
			m.Row, m.Col = coords[0], coords[1]
			foundKey = true
		}
	}
	if !foundKey {
		return &ValidationError{Msg: "move entry has no player/coordinate key"}
	}
	return nil
}

// Document is the full wire payload (spec.md §6): a stateless HTTP
// front end's request and response share this shape, as does the replay
// file format.
type Document struct {
	X           PlayerConfig `json:"X"`
	O           PlayerConfig `json:"O"`
	BoardSize   int          `json:"board_size"`
	Radius      int          `json:"radius"`
	Timeout     Timeout      `json:"timeout"`
	Winner      string       `json:"winner"` // "none"|"X"|"O"|"draw"
	BoardState  []string     `json:"board_state"`
	Moves       []MoveEntry  `json:"moves"`
}

// Decode parses and validates a wire payload. Decode only rejects
// malformed payloads (bad JSON, unsupported board_size, a board_state
// whose row count is not board_size, an unknown winner value); depth and
// radius are clamped rather than rejected. The cells of board_state are
// parsed later, by ToGameState.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		if ve, ok := err.(*ValidationError); ok {
			return nil, ve
		}
		return nil, &ValidationError{Msg: "malformed JSON payload: " + err.Error()}
	}
	if doc.BoardSize != engine.MinSize && doc.BoardSize != engine.MaxSize {
		return nil, &ValidationError{Msg: fmt.Sprintf("board_size must be 15 or 19, got %d", doc.BoardSize)}
	}
	if len(doc.BoardState) != doc.BoardSize {
		return nil, &ValidationError{Msg: fmt.Sprintf("board_state must have %d rows, got %d", doc.BoardSize, len(doc.BoardState))}
	}
	switch doc.Winner {
	case "none", "X", "O", "draw":
	default:
		return nil, &ValidationError{Msg: fmt.Sprintf("winner must be one of none|X|O|draw, got %q", doc.Winner)}
	}

	doc.Radius = clampWireRadius(doc.Radius)
	doc.X.Depth = engine.ClampDepth(doc.X.Depth)
	doc.O.Depth = engine.ClampDepth(doc.O.Depth)
	return &doc, nil
}

// clampWireRadius bounds the wire contract's radius to [1,4] (spec.md
// §6); distinct from engine.ClampRadius, which bounds the engine's
// internal search radius to [1,5].
func clampWireRadius(r int) int {
	if r < 1 {
		return 1
	}
	if r > 4 {
		return 4
	}
	return r
}

func parsePlayerKind(s string) (engine.PlayerKind, error) {
	switch s {
	case "human":
		return engine.Human, nil
	case "AI":
		return engine.AI, nil
	default:
		return 0, &ValidationError{Msg: fmt.Sprintf("player kind must be human or AI, got %q", s)}
	}
}

// ParseBoardState parses the "X . O ..." row strings into a Board.
// Exported for callers (the hub, the worker fleet) that need to hand a
// board across a process boundary without the rest of the Document.
func ParseBoardState(rows []string, size int) (*engine.Board, error) {
	b, err := engine.NewBoard(size)
	if err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}
	for row, line := range rows {
		tokens := strings.Fields(line)
		if len(tokens) != size {
			return nil, &ValidationError{Msg: fmt.Sprintf("board_state row %d has %d cells, want %d", row, len(tokens), size)}
		}
		for col, tok := range tokens {
			var c engine.Cell
			switch tok {
			case "X":
				c = engine.Crosses
			case "O":
				c = engine.Naughts
			case ".":
				c = engine.Empty
			default:
				return nil, &ValidationError{Msg: fmt.Sprintf("board_state cell %q at (%d,%d) is not X, O, or .", tok, row, col)}
			}
			b.Set(row, col, c)
		}
	}
	return b, nil
}

// FormatBoardState renders a Board as the wire contract's row strings.
func FormatBoardState(b *engine.Board) []string {
	size := b.Size()
	rows := make([]string, size)
	for row := 0; row < size; row++ {
		cells := make([]string, size)
		for col := 0; col < size; col++ {
			cells[col] = b.At(row, col).String()
		}
		rows[row] = strings.Join(cells, " ")
	}
	return rows
}

func statusFromWinner(winner string) engine.GameStatus {
	switch winner {
	case "X":
		return engine.XWon
	case "O":
		return engine.OWon
	case "draw":
		return engine.Draw
	default:
		return engine.Running
	}
}

func winnerFromStatus(status engine.GameStatus) string {
	switch status {
	case engine.XWon:
		return "X"
	case engine.OWon:
		return "O"
	case engine.Draw:
		return "draw"
	default:
		return "none"
	}
}

// ToGameState reconstructs a GameState from a decoded Document, bound to
// eng's board size. If the payload already carries a winner, the engine
// returns it unchanged (spec.md §6) — callers should check
// state.Status != engine.Running before calling DecideMove.
func (doc *Document) ToGameState(eng *engine.Engine) (*engine.GameState, error) {
	if doc.BoardSize != eng.BoardSize() {
		return nil, &ValidationError{Msg: fmt.Sprintf("document board_size %d does not match engine size %d", doc.BoardSize, eng.BoardSize())}
	}

	board, err := ParseBoardState(doc.BoardState, doc.BoardSize)
	if err != nil {
		return nil, err
	}

	xKind, err := parsePlayerKind(doc.X.Player)
	if err != nil {
		return nil, err
	}
	oKind, err := parsePlayerKind(doc.O.Player)
	if err != nil {
		return nil, err
	}

	cfg := engine.Config{
		BoardSize: doc.BoardSize,
		Radius:    doc.Radius,
		X:         engine.PlayerConfig{Kind: xKind, Depth: doc.X.Depth},
		O:         engine.PlayerConfig{Kind: oKind, Depth: doc.O.Depth},
	}
	if !doc.Timeout.None {
		cfg.TimeoutSeconds = float64(doc.Timeout.Seconds)
	}

	state, err := eng.NewGame(cfg)
	if err != nil {
		return nil, err
	}
	state.Board = board
	state.Hash = eng.HashBoard(board)

	stones := 0
	for row := 0; row < doc.BoardSize; row++ {
		for col := 0; col < doc.BoardSize; col++ {
			if !board.IsEmpty(row, col) {
				stones++
			}
		}
	}
	state.StonesOnBoard = stones

	history := make([]engine.MoveRecord, 0, len(doc.Moves))
	for _, m := range doc.Moves {
		rec := engine.MoveRecord{
			Row:             m.Row,
			Col:             m.Col,
			Player:          m.Player,
			WallTimeSeconds: m.TimeMs / 1000,
		}
		if m.MovesEvaluated != nil {
			rec.PositionsEvaluated = *m.MovesEvaluated
		}
		if m.Score != nil {
			rec.OwnThreatScore = *m.Score
		}
		if m.Opponent != nil {
			rec.OpponentThreatScore = *m.Opponent
		}
		if m.Winner != nil {
			rec.IsTerminalWinner = *m.Winner
		}
		history = append(history, rec)

		if rec.Player == engine.Crosses {
			state.TotalTimeX += rec.WallTimeSeconds
		} else {
			state.TotalTimeO += rec.WallTimeSeconds
		}
	}
	state.History = history

	state.Status = statusFromWinner(doc.Winner)
	switch {
	case len(doc.Moves) == 0:
		// No moves yet: the engine's role is O (spec.md §6: "the engine
		// chooses its own role as the opposite of the last move's player
		// ... or O if there are no moves").
		state.CurrentPlayer = engine.Naughts
	default:
		last := doc.Moves[len(doc.Moves)-1]
		state.CurrentPlayer = last.Player.Other()
		state.LastMove = engine.Point{Row: last.Row, Col: last.Col}
		state.HasLastMove = true
	}

	return state, nil
}

// FromGameState re-serializes state into a Document. Each side's kind is
// read from state.Config (used to render the dynamic "X (human)"/"X (AI)"
// move keys).
func FromGameState(state *engine.GameState) *Document {
	doc := &Document{
		X: PlayerConfig{
			Player: playerKindLabel(state.Config.X.Kind),
			Depth:  state.Config.X.Depth,
		},
		O: PlayerConfig{
			Player: playerKindLabel(state.Config.O.Kind),
			Depth:  state.Config.O.Depth,
		},
		BoardSize:  state.Board.Size(),
		Radius:     state.Config.Radius,
		Winner:     winnerFromStatus(state.Status),
		BoardState: FormatBoardState(state.Board),
	}
	if state.Config.TimeoutSeconds <= 0 {
		doc.Timeout = Timeout{None: true}
	} else {
		doc.Timeout = Timeout{Seconds: int(state.Config.TimeoutSeconds)}
	}

	doc.Moves = make([]MoveEntry, 0, len(state.History))
	for _, rec := range state.History {
		kind := state.Config.X.Kind
		if rec.Player == engine.Naughts {
			kind = state.Config.O.Kind
		}
		entry := MoveEntry{
			Player: rec.Player,
			Kind:   kind,
			Row:    rec.Row,
			Col:    rec.Col,
			TimeMs: rec.WallTimeSeconds * 1000,
		}
		if rec.PositionsEvaluated > 0 {
			n := rec.PositionsEvaluated
			entry.MovesEvaluated = &n
		}
		if rec.OwnThreatScore != 0 {
			n := rec.OwnThreatScore
			entry.Score = &n
		}
		if rec.OpponentThreatScore != 0 {
			n := rec.OpponentThreatScore
			entry.Opponent = &n
		}
		if rec.IsTerminalWinner {
			w := true
			entry.Winner = &w
		}
		doc.Moves = append(doc.Moves, entry)
	}
	return doc
}

func playerKindLabel(k engine.PlayerKind) string {
	if k == engine.AI {
		return "AI"
	}
	return "human"
}

// AttachScoringReport mirrors a completed decide_move's audit trail onto
// the document's last move, per the optional scoring-report attachment
// described in spec.md §6. The last move's score becomes the score of the
// report's last decisive entry, and its moves_evaluated the sum of
// MovesEvaluated over all entries.
func AttachScoringReport(doc *Document, report *engine.ScoringReport) {
	if doc == nil || report == nil || len(doc.Moves) == 0 {
		return
	}
	last := &doc.Moves[len(doc.Moves)-1]
	for i := len(report.Entries) - 1; i >= 0; i-- {
		if report.Entries[i].Decisive {
			score := report.Entries[i].Score
			last.Score = &score
			break
		}
	}
	n := 0
	for _, e := range report.Entries {
		n += e.MovesEvaluated
	}
	last.MovesEvaluated = &n
}
