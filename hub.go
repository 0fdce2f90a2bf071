package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"gomoku/internal/engine"
	"gomoku/internal/storage"
	"gomoku/internal/wire"
)

const defaultBoardSize = 15
const defaultRadius = 2
const defaultAIDepth = 3
const staleGameAfter = 30 * time.Minute

// MessageWrapper pairs an inbound message with the client it arrived on.
type MessageWrapper struct {
	client  *Client
	message *Message
}

// Hub owns every connected client, pending challenge, and in-progress
// game; all mutation happens on its single run() goroutine.
type Hub struct {
	clients       map[*Client]bool
	users         map[string]*User
	challenges    map[string]*Challenge
	games         map[string]*Game
	register      chan *Client
	unregister    chan *Client
	handleMessage chan *MessageWrapper

	// workers is the connected worker fleet (cmd/worker); idleWorkers is
	// the subset not currently assigned to a game. gameWorker pins a
	// game's AI turns to one worker for the game's lifetime so that
	// worker's Engine keeps a warm transposition table for the position.
	workers     map[*Client]bool
	idleWorkers []*Client
	gameWorker  map[string]*Client

	store *storage.Store
}

func newHub(store *storage.Store) *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		users:         make(map[string]*User),
		challenges:    make(map[string]*Challenge),
		games:         make(map[string]*Game),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		handleMessage: make(chan *MessageWrapper, 256),
		workers:       make(map[*Client]bool),
		gameWorker:    make(map[string]*Client),
		store:         store,
	}
}

func (h *Hub) run() {
	cleanupTicker := time.NewTicker(5 * time.Minute)
	defer cleanupTicker.Stop()

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			if client.isWorker {
				h.registerWorker(client)
			} else {
				h.handleConnect(client)
			}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				if client.isWorker {
					h.unregisterWorker(client)
				} else {
					h.handleDisconnect(client)
				}
				delete(h.clients, client)
				close(client.send)
			}
		case wrapper := <-h.handleMessage:
			if wrapper.client.isWorker {
				h.handleWorkerMessage(wrapper.client, wrapper.message)
			} else {
				h.handleClientMessage(wrapper.client, wrapper.message)
			}
		case <-cleanupTicker.C:
			h.cleanupStaleGames()
		}
	}
}

func (h *Hub) registerWorker(client *Client) {
	h.workers[client] = true
	h.idleWorkers = append(h.idleWorkers, client)
	log.Printf("worker connected (%d idle)", len(h.idleWorkers))
}

func (h *Hub) unregisterWorker(client *Client) {
	delete(h.workers, client)
	for i, w := range h.idleWorkers {
		if w == client {
			h.idleWorkers = append(h.idleWorkers[:i], h.idleWorkers[i+1:]...)
			break
		}
	}
	for gameID, w := range h.gameWorker {
		if w != client {
			continue
		}
		delete(h.gameWorker, gameID)
		if game, ok := h.games[gameID]; ok && !game.GameOver {
			human := game.userFor(game.State.CurrentPlayer.Other())
			h.sendError(human, "AI worker disconnected, game abandoned")
			h.finishGame(game, oppositeWinner(game.State.CurrentPlayer))
		}
	}
}

// nextIdleWorker pops an idle worker off the queue, or reports none free.
func (h *Hub) nextIdleWorker() (*Client, bool) {
	if len(h.idleWorkers) == 0 {
		return nil, false
	}
	w := h.idleWorkers[0]
	h.idleWorkers = h.idleWorkers[1:]
	return w, true
}

func (h *Hub) handleConnect(client *Client) {
	username := GenerateRandomName()
	userID := uuid.New().String()

	user := &User{ID: userID, Username: username, Client: client}
	client.user = user
	h.users[userID] = user

	h.sendToClient(client, &Message{Type: "welcome", UserID: userID, Username: username})
	h.broadcastUserList()
	log.Printf("user connected: %s (%s)", username, userID)
}

func (h *Hub) handleDisconnect(client *Client) {
	if client.user == nil {
		return
	}
	user := client.user
	log.Printf("user disconnected: %s (%s)", user.Username, user.ID)

	for gameID, game := range h.games {
		if _, ok := game.playerFor(user); !ok {
			continue
		}
		if !game.GameOver {
			opponent := h.opponentOf(game, user)
			if opponent != nil {
				opponent.InGame = false
				h.sendToUser(opponent, &Message{Type: "opponent_disconnected", GameID: gameID})
			}
			h.finishGame(game, oppositeWinner(mustPlayer(game, user)))
		}
		delete(h.games, gameID)
	}

	for id, ch := range h.challenges {
		if ch.FromUser.ID == user.ID || ch.ToUser.ID == user.ID {
			delete(h.challenges, id)
		}
	}

	delete(h.users, user.ID)
	h.broadcastUserList()
}

func (h *Hub) opponentOf(game *Game, user *User) *User {
	if game.PlayerX != nil && game.PlayerX.ID == user.ID {
		return game.PlayerO
	}
	return game.PlayerX
}

func mustPlayer(game *Game, user *User) engine.Cell {
	p, _ := game.playerFor(user)
	return p
}

func oppositeWinner(p engine.Cell) string {
	if p == engine.Crosses {
		return "O"
	}
	return "X"
}

func (h *Hub) handleClientMessage(client *Client, msg *Message) {
	user := client.user
	if user == nil {
		return
	}
	switch msg.Type {
	case "challenge":
		h.handleChallenge(user, msg)
	case "accept_challenge":
		h.handleAcceptChallenge(user, msg)
	case "decline_challenge":
		h.handleDeclineChallenge(user, msg)
	case "request_ai_game":
		h.handleRequestAIGame(user, msg)
	case "move":
		h.handleMove(user, msg)
	case "resign":
		h.handleResign(user, msg)
	case "leave_game":
		h.handleLeaveGame(user, msg)
	default:
		log.Printf("unrecognised message type %q from %s", msg.Type, user.Username)
	}
}

// handleWorkerMessage dispatches messages originating from a worker-fleet
// connection rather than a human player.
func (h *Hub) handleWorkerMessage(client *Client, msg *Message) {
	switch msg.Type {
	case "decide_move_result":
		h.handleWorkerResult(client, msg)
	default:
		log.Printf("unrecognised worker message type %q", msg.Type)
	}
}

// handleRequestAIGame seats the requesting user against the next idle
// worker, with the user always moving first as X.
func (h *Hub) handleRequestAIGame(user *User, msg *Message) {
	if user.InGame {
		h.sendError(user, "already in a game")
		return
	}
	worker, ok := h.nextIdleWorker()
	if !ok {
		h.sendError(user, "no AI worker available right now")
		return
	}

	eng, err := engine.NewEngine(defaultBoardSize, time.Now().UnixNano(), engine.DefaultTTSize, defaultAIDepth)
	if err != nil {
		log.Printf("failed to start AI game: %v", err)
		h.idleWorkers = append(h.idleWorkers, worker)
		return
	}
	state, err := eng.NewGame(engine.Config{
		BoardSize: defaultBoardSize,
		Radius:    defaultRadius,
		X:         engine.PlayerConfig{Kind: engine.Human, Depth: defaultAIDepth},
		O:         engine.PlayerConfig{Kind: engine.AI, Depth: defaultAIDepth},
	})
	if err != nil {
		log.Printf("failed to start AI game: %v", err)
		h.idleWorkers = append(h.idleWorkers, worker)
		return
	}

	game := &Game{
		ID:         uuid.New().String(),
		Engine:     eng,
		State:      state,
		PlayerX:    user,
		PlayerO:    nil,
		CreatedAt:  time.Now(),
		LastMoveAt: time.Now(),
	}
	h.games[game.ID] = game
	h.gameWorker[game.ID] = worker

	user.InGame, user.GameID = true, game.ID

	h.sendToUser(user, &Message{Type: "game_start", GameID: game.ID, BoardSize: defaultBoardSize, YourPlayer: "X", OpponentUsername: "AI worker"})
	h.broadcastUserList()
}

func (h *Hub) handleChallenge(from *User, msg *Message) {
	target, ok := h.users[msg.TargetUserID]
	if !ok {
		h.sendError(from, "user not found")
		return
	}
	if from.InGame || target.InGame {
		h.sendError(from, "a player is already in a game")
		return
	}

	challenge := &Challenge{ID: uuid.New().String(), FromUser: from, ToUser: target, CreatedAt: time.Now()}
	h.challenges[challenge.ID] = challenge

	h.sendToUser(target, &Message{
		Type:         "challenge_received",
		ChallengeID:  challenge.ID,
		FromUserID:   from.ID,
		FromUsername: from.Username,
	})
}

func (h *Hub) handleAcceptChallenge(user *User, msg *Message) {
	challenge, ok := h.challenges[msg.ChallengeID]
	if !ok || challenge.ToUser.ID != user.ID {
		h.sendError(user, "challenge not found")
		return
	}
	delete(h.challenges, challenge.ID)
	h.startGame(challenge.FromUser, challenge.ToUser)
}

func (h *Hub) handleDeclineChallenge(user *User, msg *Message) {
	challenge, ok := h.challenges[msg.ChallengeID]
	if !ok || challenge.ToUser.ID != user.ID {
		return
	}
	delete(h.challenges, challenge.ID)
	h.sendToUser(challenge.FromUser, &Message{Type: "challenge_declined", ChallengeID: challenge.ID})
}

// startGame seeds a fresh Engine/GameState, seating the challenger as X
// (first move) and the accepting user as O, and notifies both.
func (h *Hub) startGame(x, o *User) {
	eng, err := engine.NewEngine(defaultBoardSize, time.Now().UnixNano(), engine.DefaultTTSize, defaultAIDepth)
	if err != nil {
		log.Printf("failed to start game: %v", err)
		return
	}
	state, err := eng.NewGame(engine.Config{
		BoardSize: defaultBoardSize,
		Radius:    defaultRadius,
		X:         engine.PlayerConfig{Kind: engine.Human, Depth: defaultAIDepth},
		O:         engine.PlayerConfig{Kind: engine.Human, Depth: defaultAIDepth},
	})
	if err != nil {
		log.Printf("failed to start game: %v", err)
		return
	}

	game := &Game{
		ID:         uuid.New().String(),
		Engine:     eng,
		State:      state,
		PlayerX:    x,
		PlayerO:    o,
		CreatedAt:  time.Now(),
		LastMoveAt: time.Now(),
	}
	h.games[game.ID] = game

	x.InGame, o.InGame = true, true
	x.GameID, o.GameID = game.ID, game.ID

	h.sendToUser(x, &Message{Type: "game_start", GameID: game.ID, BoardSize: defaultBoardSize, YourPlayer: "X", OpponentUsername: o.Username})
	h.sendToUser(o, &Message{Type: "game_start", GameID: game.ID, BoardSize: defaultBoardSize, YourPlayer: "O", OpponentUsername: x.Username})
	h.broadcastUserList()
}

func (h *Hub) handleMove(user *User, msg *Message) {
	game, ok := h.games[msg.GameID]
	if !ok {
		h.sendError(user, "game not found")
		return
	}
	player, ok := game.playerFor(user)
	if !ok {
		h.sendError(user, "you are not a player in this game")
		return
	}
	if game.State.CurrentPlayer != player {
		h.sendError(user, "not your turn")
		return
	}
	if msg.Row == nil || msg.Col == nil {
		h.sendError(user, "move requires row and col")
		return
	}

	if err := game.Engine.MakeMove(game.State, *msg.Row, *msg.Col, player, time.Since(game.LastMoveAt).Seconds(), 0, 0, 0); err != nil {
		h.sendError(user, err.Error())
		return
	}
	game.LastMoveAt = time.Now()

	h.broadcastMove(game, *msg.Row, *msg.Col, player)

	if game.State.Status != engine.Running {
		h.finishGame(game, winnerString(game.State.Status))
		return
	}
	h.dispatchAIMoveIfNeeded(game)
}

// dispatchAIMoveIfNeeded sends the current position to the game's assigned
// worker when it is the AI side's turn. No-op for human-vs-human games.
func (h *Hub) dispatchAIMoveIfNeeded(game *Game) {
	if game.State.Status != engine.Running {
		return
	}
	if game.userFor(game.State.CurrentPlayer) != nil {
		return
	}
	worker, ok := h.gameWorker[game.ID]
	if !ok {
		log.Printf("game %s has no assigned worker", game.ID)
		return
	}
	h.sendToClient(worker, &Message{
		Type:       "decide_move_request",
		GameID:     game.ID,
		BoardSize:  game.State.Config.BoardSize,
		BoardState: wire.FormatBoardState(game.State.Board),
		Depth:      game.State.Config.PlayerConfigFor(game.State.CurrentPlayer).Depth,
	})
}

// handleWorkerResult applies a worker's chosen move to the hub's own
// engine instance for the game (a separate instance from the worker's;
// Zobrist hashes are instance-local and never cross the wire), broadcasts
// it, and either closes out the game (which returns the worker to the
// pool) or dispatches the next AI move if one is due.
func (h *Hub) handleWorkerResult(client *Client, msg *Message) {
	game, ok := h.games[msg.GameID]
	if !ok || game.GameOver {
		return
	}
	if h.gameWorker[game.ID] != client {
		log.Printf("ignoring decide_move_result from unassigned worker for game %s", game.ID)
		return
	}
	if msg.Row == nil || msg.Col == nil {
		log.Printf("decide_move_result for game %s missing row/col", game.ID)
		return
	}
	player := game.State.CurrentPlayer

	if err := game.Engine.MakeMove(game.State, *msg.Row, *msg.Col, player, time.Since(game.LastMoveAt).Seconds(), msg.MovesEvaluated, msg.Score, msg.Opponent); err != nil {
		log.Printf("worker proposed illegal move for game %s: %v", game.ID, err)
		return
	}
	game.LastMoveAt = time.Now()

	h.broadcastMove(game, *msg.Row, *msg.Col, player)

	if game.State.Status != engine.Running {
		h.finishGame(game, winnerString(game.State.Status))
		return
	}
	h.dispatchAIMoveIfNeeded(game)
}

func winnerString(status engine.GameStatus) string {
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

func (h *Hub) broadcastMove(game *Game, row, col int, player engine.Cell) {
	playerLabel := "X"
	if player == engine.Naughts {
		playerLabel = "O"
	}
	msg := &Message{
		Type:    "move_made",
		GameID:  game.ID,
		Row:     &row,
		Col:     &col,
		Player:  playerLabel,
		Winner:  winnerString(game.State.Status),
	}
	h.broadcastToGame(game, msg)
}

func (h *Hub) handleResign(user *User, msg *Message) {
	game, ok := h.games[msg.GameID]
	if !ok {
		return
	}
	player, ok := game.playerFor(user)
	if !ok {
		return
	}
	h.finishGame(game, oppositeWinner(player))
}

func (h *Hub) handleLeaveGame(user *User, msg *Message) {
	if game, ok := h.games[msg.GameID]; ok && !game.GameOver {
		h.handleResign(user, msg)
	}
	user.InGame = false
	user.GameID = ""
}

func (h *Hub) finishGame(game *Game, winner string) {
	if game.GameOver {
		return
	}
	game.GameOver = true

	if game.PlayerX != nil {
		game.PlayerX.InGame, game.PlayerX.GameID = false, ""
	}
	if game.PlayerO != nil {
		game.PlayerO.InGame, game.PlayerO.GameID = false, ""
	}

	h.broadcastToGame(game, &Message{Type: "game_over", GameID: game.ID, Winner: winner})

	if worker, ok := h.gameWorker[game.ID]; ok {
		delete(h.gameWorker, game.ID)
		if h.workers[worker] {
			h.idleWorkers = append(h.idleWorkers, worker)
		}
	}

	if h.store != nil {
		doc := wire.FromGameState(game.State)
		if err := h.store.SaveGame(game.ID, doc); err != nil {
			log.Printf("failed to persist game %s: %v", game.ID, err)
		}
	}

	delete(h.games, game.ID)
	h.broadcastUserList()
}

func (h *Hub) cleanupStaleGames() {
	cutoff := time.Now().Add(-staleGameAfter)
	for id, game := range h.games {
		if game.GameOver || game.LastMoveAt.After(cutoff) {
			continue
		}
		log.Printf("cleaning up stale game %s", id)
		h.finishGame(game, "draw")
		delete(h.games, id)
	}
}

func (h *Hub) broadcastUserList() {
	users := make([]UserInfo, 0, len(h.users))
	for _, u := range h.users {
		users = append(users, UserInfo{ID: u.ID, Username: u.Username, InGame: u.InGame})
	}
	msg := &Message{Type: "user_list", Users: users}
	for client := range h.clients {
		h.sendToClient(client, msg)
	}
}

func (h *Hub) broadcastToGame(game *Game, msg *Message) {
	if game.PlayerX != nil {
		h.sendToUser(game.PlayerX, msg)
	}
	if game.PlayerO != nil {
		h.sendToUser(game.PlayerO, msg)
	}
}

func (h *Hub) sendToUser(user *User, msg *Message) {
	if user == nil || user.Client == nil {
		return
	}
	h.sendToClient(user.Client, msg)
}

func (h *Hub) sendToClient(client *Client, msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("failed to marshal outgoing message: %v", err)
		return
	}
	select {
	case client.send <- data:
	default:
		log.Printf("client send buffer full, dropping message type %q", msg.Type)
	}
}

func (h *Hub) sendError(user *User, message string) {
	h.sendToUser(user, &Message{Type: "error", Message: message})
}
