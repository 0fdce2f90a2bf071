// Package storage persists finished games to SQLite so cmd/replay can
// list and re-render them later.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"gomoku/internal/wire"
)

// Store persists finished games to SQLite for later replay.
type Store struct {
	db *sql.DB
}

// New opens (creating if necessary) the SQLite database at dbPath and
// ensures the games table exists.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	const createTableSQL = `
	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		started_at DATETIME,
		ended_at DATETIME,
		board_size INTEGER,
		player_x_kind TEXT,
		player_o_kind TEXT,
		winner TEXT,
		move_count INTEGER,
		replay_json TEXT
	);
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create games table: %w", err)
	}

	log.Println("replay store initialized at", dbPath)
	return &Store{db: db}, nil
}

// SaveGame persists a finished game's wire document asynchronously; the
// caller (the hub's run loop) must not block on disk I/O.
func (s *Store) SaveGame(gameID string, doc *wire.Document) error {
	if s == nil || s.db == nil {
		return nil
	}

	replayJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal replay document: %w", err)
	}

	endedAt := time.Now()
	startedAt := endedAt.Add(-totalGameDuration(doc))

	xKind, oKind := string(doc.X.Player), string(doc.O.Player)
	winner := doc.Winner
	moveCount := len(doc.Moves)

	go func() {
		const insertSQL = `
		INSERT INTO games (id, started_at, ended_at, board_size, player_x_kind, player_o_kind, winner, move_count, replay_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		if _, err := s.db.Exec(insertSQL, gameID, startedAt, endedAt, doc.BoardSize, xKind, oKind, winner, moveCount, string(replayJSON)); err != nil {
			log.Printf("error saving game %s to database: %v", gameID, err)
			return
		}
		log.Printf("game %s saved to replay store", gameID)
	}()

	return nil
}

func totalGameDuration(doc *wire.Document) time.Duration {
	var totalMs float64
	for _, m := range doc.Moves {
		totalMs += m.TimeMs
	}
	return time.Duration(totalMs) * time.Millisecond
}

// Game is one row of the games table, as read back by cmd/replay.
type Game struct {
	ID          string
	StartedAt   time.Time
	EndedAt     time.Time
	BoardSize   int
	PlayerXKind string
	PlayerOKind string
	Winner      string
	MoveCount   int
	Replay      *wire.Document
}

// ListGames returns every stored game, most recently ended first.
func (s *Store) ListGames() ([]Game, error) {
	rows, err := s.db.Query(`SELECT id, started_at, ended_at, board_size, player_x_kind, player_o_kind, winner, move_count, replay_json FROM games ORDER BY ended_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		var g Game
		var replayJSON string
		if err := rows.Scan(&g.ID, &g.StartedAt, &g.EndedAt, &g.BoardSize, &g.PlayerXKind, &g.PlayerOKind, &g.Winner, &g.MoveCount, &replayJSON); err != nil {
			return nil, fmt.Errorf("scan game row: %w", err)
		}
		var doc wire.Document
		if err := json.Unmarshal([]byte(replayJSON), &doc); err != nil {
			return nil, fmt.Errorf("unmarshal replay for game %s: %w", g.ID, err)
		}
		g.Replay = &doc
		games = append(games, g)
	}
	return games, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
