package main

import (
	"time"

	"gomoku/internal/engine"
)

// Message is the single envelope type exchanged over the WebSocket
// connection, mirroring the teacher's flat-struct wire message with
// every optional field tagged omitempty.
type Message struct {
	Type string `json:"type"`

	UserID   string `json:"userId,omitempty"`
	Username string `json:"username,omitempty"`

	TargetUserID      string `json:"targetUserId,omitempty"`
	ChallengeID       string `json:"challengeId,omitempty"`
	FromUserID        string `json:"fromUserId,omitempty"`
	FromUsername      string `json:"fromUsername,omitempty"`
	OpponentID        string `json:"opponentId,omitempty"`
	OpponentUsername  string `json:"opponentUsername,omitempty"`

	GameID      string `json:"gameId,omitempty"`
	BoardSize   int    `json:"boardSize,omitempty"`
	YourPlayer  string `json:"yourPlayer,omitempty"` // "X"|"O"
	Row         *int   `json:"row,omitempty"`
	Col         *int   `json:"col,omitempty"`
	Player      string `json:"player,omitempty"`
	Winner      string `json:"winner,omitempty"` // "none"|"X"|"O"|"draw"
	BoardState  []string `json:"boardState,omitempty"`

	MovesEvaluated int `json:"movesEvaluated,omitempty"`
	Score          int `json:"score,omitempty"`
	Opponent       int `json:"opponent,omitempty"`
	Depth          int `json:"depth,omitempty"`

	Users []UserInfo `json:"users,omitempty"`

	Message string `json:"message,omitempty"`
}

// UserInfo is the lightweight user listing broadcast to every client.
type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	InGame   bool   `json:"inGame"`
}

// User is one connected player.
type User struct {
	ID       string
	Username string
	Client   *Client
	InGame   bool
	GameID   string
}

// Challenge is a pending 1v1 invitation.
type Challenge struct {
	ID        string
	FromUser  *User
	ToUser    *User
	CreatedAt time.Time
}

// Game binds one engine instance and its GameState to the two connected
// users playing it (or one user and an AI side).
type Game struct {
	ID        string
	Engine    *engine.Engine
	State     *engine.GameState
	PlayerX   *User // nil if AI-controlled
	PlayerO   *User // nil if AI-controlled
	CreatedAt time.Time
	LastMoveAt time.Time
	GameOver  bool
}

func (g *Game) userFor(player engine.Cell) *User {
	if player == engine.Crosses {
		return g.PlayerX
	}
	return g.PlayerO
}

func (g *Game) playerFor(user *User) (engine.Cell, bool) {
	if g.PlayerX != nil && g.PlayerX.ID == user.ID {
		return engine.Crosses, true
	}
	if g.PlayerO != nil && g.PlayerO.ID == user.ID {
		return engine.Naughts, true
	}
	return engine.Empty, false
}
