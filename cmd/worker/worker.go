package main

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"gomoku/internal/engine"
	"gomoku/internal/wire"
)

// message mirrors the hub's wire envelope fields this worker actually
// reads or writes; it deliberately omits every human-lobby field.
type message struct {
	Type           string   `json:"type"`
	GameID         string   `json:"gameId,omitempty"`
	BoardSize      int      `json:"boardSize,omitempty"`
	BoardState     []string `json:"boardState,omitempty"`
	Depth          int      `json:"depth,omitempty"`
	Row            *int     `json:"row,omitempty"`
	Col            *int     `json:"col,omitempty"`
	MovesEvaluated int      `json:"movesEvaluated,omitempty"`
	Score          int      `json:"score,omitempty"`
	Opponent       int      `json:"opponent,omitempty"`
}

// gameEngine pairs one engine instance with the board radius/config it was
// built for, kept warm across a game's successive AI turns.
type gameEngine struct {
	eng    *engine.Engine
	radius int
}

// Worker owns one WebSocket connection to the hub's /ws/worker endpoint
// and one *engine.Engine per game it has been assigned, so each game's
// transposition table and killer slots stay warm between its AI turns.
type Worker struct {
	id     int
	hubURL string
	depth  int
	ttSize int

	conn *websocket.Conn
	send chan []byte

	mu      sync.Mutex
	engines map[string]*gameEngine

	busy int32 // atomic; read by the agent-check responder
}

func NewWorker(id int, hubURL string, depth, ttSize int) *Worker {
	return &Worker{
		id:      id,
		hubURL:  hubURL,
		depth:   depth,
		ttSize:  ttSize,
		send:    make(chan []byte, 16),
		engines: make(map[string]*gameEngine),
	}
}

func (w *Worker) IsBusy() bool {
	return atomic.LoadInt32(&w.busy) != 0
}

func (w *Worker) Connect() error {
	conn, _, err := websocket.DefaultDialer.Dial(w.hubURL, nil)
	if err != nil {
		return err
	}
	w.conn = conn
	return nil
}

func (w *Worker) Disconnect() {
	if w.conn != nil {
		w.conn.Close()
	}
}

// Run drives the read loop until the connection closes, answering each
// decide_move_request with one decide_move_result. A request whose board
// does not parse, or for which DecideMove fails, gets no reply.
func (w *Worker) Run() {
	go w.writePump()

	for {
		_, data, err := w.conn.ReadMessage()
		if err != nil {
			log.Printf("worker %d: connection closed: %v", w.id, err)
			close(w.send)
			return
		}
		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("worker %d: dropping malformed message: %v", w.id, err)
			continue
		}
		if msg.Type != "decide_move_request" {
			continue
		}
		w.handleDecideRequest(&msg)
	}
}

func (w *Worker) writePump() {
	for data := range w.send {
		if err := w.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("worker %d: write failed: %v", w.id, err)
			return
		}
	}
}

func (w *Worker) handleDecideRequest(req *message) {
	atomic.StoreInt32(&w.busy, 1)
	defer atomic.StoreInt32(&w.busy, 0)

	ge := w.engineFor(req.GameID, req.BoardSize)

	board, err := wire.ParseBoardState(req.BoardState, req.BoardSize)
	if err != nil {
		log.Printf("worker %d: bad board for game %s: %v", w.id, req.GameID, err)
		return
	}

	depth := req.Depth
	if depth <= 0 {
		depth = w.depth
	}
	state := &engine.GameState{
		Board:         board,
		CurrentPlayer: engine.Naughts,
		Hash:          ge.eng.HashBoard(board),
		StonesOnBoard: countStones(board),
		Config: engine.Config{
			BoardSize: req.BoardSize,
			Radius:    ge.radius,
			X:         engine.PlayerConfig{Kind: engine.Human, Depth: depth},
			O:         engine.PlayerConfig{Kind: engine.AI, Depth: depth},
		},
		Status: engine.Running,
	}

	report := engine.NewScoringReport()
	move, err := ge.eng.DecideMove(state, report)
	if err != nil {
		log.Printf("worker %d: decide move failed for game %s: %v", w.id, req.GameID, err)
		return
	}

	evaluated := 0
	for _, e := range report.Entries {
		evaluated += e.MovesEvaluated
	}

	row, col := move.Row, move.Col
	resp := message{
		Type:           "decide_move_result",
		GameID:         req.GameID,
		Row:            &row,
		Col:            &col,
		MovesEvaluated: evaluated,
		Score:          report.OffensiveMaxScore,
		Opponent:       report.DefensiveMaxScore,
	}
	data, err := json.Marshal(resp)
	if err != nil {
		log.Printf("worker %d: failed to marshal result: %v", w.id, err)
		return
	}
	w.send <- data
}

func countStones(b *engine.Board) int {
	n := 0
	size := b.Size()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if b.At(r, c) != engine.Empty {
				n++
			}
		}
	}
	return n
}

func (w *Worker) engineFor(gameID string, boardSize int) *gameEngine {
	w.mu.Lock()
	defer w.mu.Unlock()

	if ge, ok := w.engines[gameID]; ok {
		return ge
	}
	eng, err := engine.NewEngine(boardSize, time.Now().UnixNano(), w.ttSize, w.depth)
	if err != nil {
		eng, _ = engine.NewEngine(engine.MinSize, time.Now().UnixNano(), w.ttSize, w.depth)
	}
	ge := &gameEngine{eng: eng, radius: 2}
	w.engines[gameID] = ge
	return ge
}
