package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"gomoku/internal/engine"
	"gomoku/internal/wire"
)

// decideHandler serves the stateless HTTP move-selection endpoint: decode
// a wire.Document, run one cascade decision, apply it, and re-encode — or,
// if the payload already has a winner, re-encode it unchanged (spec.md
// §6). No engine or game state survives past the single request.
func decideHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body := http.MaxBytesReader(w, r.Body, 1<<20)
	var raw json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		writeWireError(w, http.StatusBadRequest, err)
		return
	}

	doc, err := wire.Decode(raw)
	if err != nil {
		writeWireError(w, http.StatusBadRequest, err)
		return
	}

	maxDepth := doc.X.Depth
	if doc.O.Depth > maxDepth {
		maxDepth = doc.O.Depth
	}
	eng, err := engine.NewEngine(doc.BoardSize, time.Now().UnixNano(), engine.DefaultTTSize, maxDepth)
	if err != nil {
		writeWireError(w, http.StatusBadRequest, err)
		return
	}

	state, err := doc.ToGameState(eng)
	if err != nil {
		writeWireError(w, http.StatusBadRequest, err)
		return
	}

	// If the payload already carries a winner, the engine returns it
	// unchanged (spec.md §6) rather than running a move on a decided game.
	if state.Status != engine.Running {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(doc); err != nil {
			log.Printf("failed to encode decide response: %v", err)
		}
		return
	}

	report := engine.NewScoringReport()
	start := time.Now()
	player := state.CurrentPlayer
	move, err := eng.DecideMove(state, report)
	if err != nil {
		writeWireError(w, http.StatusBadRequest, err)
		return
	}

	elapsedMs := float64(time.Since(start).Microseconds()) / 1000
	totalEvaluated := 0
	for _, entry := range report.Entries {
		totalEvaluated += entry.MovesEvaluated
	}
	if err := eng.MakeMove(state, move.Row, move.Col, player, elapsedMs/1000, totalEvaluated, report.OffensiveMaxScore, report.DefensiveMaxScore); err != nil {
		writeWireError(w, http.StatusInternalServerError, err)
		return
	}

	out := wire.FromGameState(state)
	wire.AttachScoringReport(out, report)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Printf("failed to encode decide response: %v", err)
	}
}

func writeWireError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
