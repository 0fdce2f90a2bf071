package wire

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"gomoku/internal/engine"
)

func sampleBoardState(size int) []string {
	rows := make([]string, size)
	row := make([]string, size)
	for i := range row {
		row[i] = "."
	}
	row[7] = "X"
	row[8] = "O"
	for i := range rows {
		rows[i] = strings.Join(row, " ")
	}
	return rows
}

func samplePayload() []byte {
	return []byte(`{
		"X": {"player": "human", "depth": 3, "time_ms": 0},
		"O": {"player": "AI", "depth": 4, "time_ms": 120.5},
		"board_size": 15,
		"radius": 2,
		"timeout": "none",
		"winner": "none",
		"board_state": [
			". . . . . . . . . . . . . . .",
			". . . . . . . . . . . . . . .",
			". . . . . . . . . . . . . . .",
			". . . . . . . . . . . . . . .",
			". . . . . . . . . . . . . . .",
			". . . . . . . . . . . . . . .",
			". . . . . . . . . . . . . . .",
			". . . . . . . X O . . . . . .",
			". . . . . . . . . . . . . . .",
			". . . . . . . . . . . . . . .",
			". . . . . . . . . . . . . . .",
			". . . . . . . . . . . . . . .",
			". . . . . . . . . . . . . . .",
			". . . . . . . . . . . . . . .",
			". . . . . . . . . . . . . . ."
		],
		"moves": [
			{"X (human)": [7, 7], "time_ms": 1200.0},
			{"O (AI)": [7, 8], "time_ms": 300.0, "moves_evaluated": 512, "score": 100, "opponent": 50}
		]
	}`)
}

func TestDecodeRejectsBadBoardSize(t *testing.T) {
	payload := []byte(`{"board_size": 13, "winner": "none", "board_state": []}`)
	_, err := Decode(payload)
	assert.Error(t, err)
}

func TestDecodeRejectsBadWinner(t *testing.T) {
	raw := samplePayload()
	payload := strings.Replace(string(raw), `"winner": "none"`, `"winner": "Z"`, 1)
	_, err := Decode([]byte(payload))
	assert.Error(t, err)
}

func TestDecodeClampsDepthAndRadius(t *testing.T) {
	raw := string(samplePayload())
	raw = strings.Replace(raw, `"depth": 3`, `"depth": 99`, 1)
	raw = strings.Replace(raw, `"radius": 2`, `"radius": 10`, 1)

	doc, err := Decode([]byte(raw))
	assert.NoError(t, err)
	assert.Equal(t, 6, doc.X.Depth)
	assert.Equal(t, 4, doc.Radius)
}

func TestMoveEntryRoundTrip(t *testing.T) {
	winner := true
	evaluated := 42
	score := 500
	opp := 10
	entry := MoveEntry{
		Player:         engine.Naughts,
		Kind:           engine.AI,
		Row:            7,
		Col:            8,
		TimeMs:         120.5,
		MovesEvaluated: &evaluated,
		Score:          &score,
		Opponent:       &opp,
		Winner:         &winner,
	}
	data, err := entry.MarshalJSON()
	assert.NoError(t, err)

	var decoded MoveEntry
	assert.NoError(t, decoded.UnmarshalJSON(data))
	assert.Equal(t, entry.Player, decoded.Player)
	assert.Equal(t, entry.Kind, decoded.Kind)
	assert.Equal(t, entry.Row, decoded.Row)
	assert.Equal(t, entry.Col, decoded.Col)
	assert.Equal(t, *entry.MovesEvaluated, *decoded.MovesEvaluated)
	assert.Equal(t, *entry.Score, *decoded.Score)
	assert.Equal(t, *entry.Opponent, *decoded.Opponent)
	assert.Equal(t, *entry.Winner, *decoded.Winner)
}

func TestMoveEntryOmitsAbsentOptionalFields(t *testing.T) {
	entry := MoveEntry{Player: engine.Crosses, Kind: engine.Human, Row: 1, Col: 2, TimeMs: 50}
	data, err := entry.MarshalJSON()
	assert.NoError(t, err)
	assert.NotContains(t, string(data), "moves_evaluated")
	assert.NotContains(t, string(data), "score")
	assert.NotContains(t, string(data), "opponent")
	assert.NotContains(t, string(data), "winner")
}

func TestParseMoveKeyRejectsGarbage(t *testing.T) {
	_, _, err := parseMoveKey("not a move key")
	assert.Error(t, err)
}

func TestDocumentToGameStateAndBack(t *testing.T) {
	eng, err := engine.NewEngine(engine.MinSize, 5, 1<<10, 3)
	assert.NoError(t, err)

	doc, err := Decode(samplePayload())
	assert.NoError(t, err)

	state, err := doc.ToGameState(eng)
	assert.NoError(t, err)
	assert.Equal(t, engine.Crosses, state.Board.At(7, 7))
	assert.Equal(t, engine.Naughts, state.Board.At(7, 8))
	assert.Equal(t, engine.Naughts, state.CurrentPlayer, "engine's role is opposite of the last move's player")
	assert.Equal(t, 2, state.StonesOnBoard)
	assert.Len(t, state.History, 2)
	assert.Equal(t, 512, state.History[1].PositionsEvaluated)

	back := FromGameState(state)
	assert.Equal(t, doc.BoardSize, back.BoardSize)
	assert.Equal(t, "none", back.Winner)
	assert.Len(t, back.Moves, 2)
	assert.Equal(t, engine.Crosses, back.Moves[0].Player)
	assert.Equal(t, engine.Naughts, back.Moves[1].Player)
}

func TestDocumentToGameStateNoMovesEngineRoleIsO(t *testing.T) {
	eng, err := engine.NewEngine(engine.MinSize, 1, 1<<10, 2)
	assert.NoError(t, err)

	payload := []byte(`{
		"X": {"player": "human", "depth": 1, "time_ms": 0},
		"O": {"player": "AI", "depth": 1, "time_ms": 0},
		"board_size": 15,
		"radius": 2,
		"timeout": "none",
		"winner": "none",
		"board_state": ` + toJSONRows(sampleBoardState(15)) + `,
		"moves": []
	}`)
	doc, err := Decode(payload)
	assert.NoError(t, err)
	state, err := doc.ToGameState(eng)
	assert.NoError(t, err)
	assert.Equal(t, engine.Naughts, state.CurrentPlayer)
}

func toJSONRows(rows []string) string {
	quoted := make([]string, len(rows))
	for i, r := range rows {
		quoted[i] = `"` + r + `"`
	}
	return "[" + strings.Join(quoted, ",") + "]"
}

func TestTimeoutRoundTrip(t *testing.T) {
	var t1 Timeout
	assert.NoError(t, t1.UnmarshalJSON([]byte(`"none"`)))
	assert.True(t, t1.None)

	var t2 Timeout
	assert.NoError(t, t2.UnmarshalJSON([]byte(`30`)))
	assert.False(t, t2.None)
	assert.Equal(t, 30, t2.Seconds)

	data, err := t2.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, "30", string(data))
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	assert.Error(t, err)
}
