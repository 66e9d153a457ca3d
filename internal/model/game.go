package model

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/benbeisheim/gridchess-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

// Observer is the part of a websocket connection the game writes to.
type Observer interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// GameConnections holds the observers of a single game.
type GameConnections struct {
	connections map[string]Observer // playerID -> connection
	mu          sync.RWMutex
	// writeMu serializes writes; a websocket allows one writer at a time.
	// It also guards delivered.
	writeMu   sync.Mutex
	delivered map[Observer]uint64 // sequence of the last state written
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Observer),
		delivered:   make(map[Observer]uint64),
	}
}

// Game serializes every move against one board. There is no turn order:
// any occupant may be moved by any caller.
type Game struct {
	ID          string
	mu          sync.Mutex
	state       GameState
	connections *GameConnections
	// seq numbers broadcast snapshots; observers never receive an older
	// state after a newer one.
	seq uint64
}

type GameState struct {
	ID          string      `json:"id"`
	Board       *BoardState `json:"boardState"`
	Rendered    string      `json:"rendered"`
	MoveHistory []Ply       `json:"moveHistory"`
	LastMove    *Move       `json:"lastMove"`
	Players     Players     `json:"players"`
}

func NewGame(id string) *Game {
	return NewGameFromBoard(id, NewBoard())
}

// NewGameFromBoard starts a game on an arbitrary arrangement.
func NewGameFromBoard(id string, board *BoardState) *Game {
	return &Game{
		ID: id,
		state: GameState{
			ID:          id,
			Board:       board,
			MoveHistory: make([]Ply, 0),
		},
		connections: NewGameConnections(),
	}
}

// AddPlayer seats the player, White first. A seated player asking again
// gets the same seat back.
func (g *Game) AddPlayer(playerID string) (Owner, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	players := &g.state.Players
	switch playerID {
	case players.White.ID:
		if players.White.Seated() {
			return White, nil
		}
	case players.Black.ID:
		if players.Black.Seated() {
			return Black, nil
		}
	}

	if !players.White.Seated() {
		players.White = ClientPlayer{ID: playerID, Owner: White}
		return White, nil
	}
	if !players.Black.Seated() {
		players.Black = ClientPlayer{ID: playerID, Owner: Black}
		return Black, nil
	}
	return 0, ErrGameFull
}

// GetState returns a snapshot that shares nothing with the live game.
func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

func (g *Game) snapshot() GameState {
	state := g.state
	state.Board = g.state.Board.Clone()
	state.Rendered = Render(state.Board)
	state.MoveHistory = append(make([]Ply, 0, len(g.state.MoveHistory)), g.state.MoveHistory...)
	if g.state.LastMove != nil {
		last := *g.state.LastMove
		state.LastMove = &last
	}
	return state
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isPlayerInGame(playerID)
}

func (g *Game) isPlayerInGame(playerID string) bool {
	players := g.state.Players
	return (players.White.Seated() && players.White.ID == playerID) ||
		(players.Black.Seated() && players.Black.ID == playerID)
}

func (g *Game) canSpectate() bool {
	return !g.state.Players.White.Seated() || !g.state.Players.Black.Seated()
}

// AttemptMove judges and performs move atomically. A rejected move leaves
// the board untouched and returns a *RejectedMoveError.
func (g *Game) AttemptMove(move Move) (Ply, error) {
	g.mu.Lock()

	reason := Judge(g.state.Board, move)
	if reason != Legal {
		g.mu.Unlock()
		return Ply{}, &RejectedMoveError{Move: move, Reason: reason}
	}

	piece := *g.state.Board.At(move.From)
	captured := g.state.Board.At(move.To)
	g.state.Board.Apply(move)

	ply := Ply{
		Piece:         piece,
		From:          move.From,
		To:            move.To,
		CapturedPiece: captured,
		Notation:      notation(piece, captured, move),
	}
	g.state.MoveHistory = append(g.state.MoveHistory, ply)
	g.state.LastMove = &move
	snapshot := g.snapshot()
	g.seq++
	seq := g.seq
	g.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"game": g.ID,
		"move": ply.Notation,
	}).Debug("move applied")

	go g.broadcastState(snapshot, seq)

	return ply, nil
}

// RegisterConnection adds conn as the player's observer and sends it the
// current state. The connection is added under the game lock, so every
// later move reaches it.
func (g *Game) RegisterConnection(playerID string, conn Observer) error {
	g.mu.Lock()
	if !g.isPlayerInGame(playerID) && !g.canSpectate() {
		g.mu.Unlock()
		return ErrNotAuthorized
	}

	g.connections.mu.Lock()
	_, exists := g.connections.connections[playerID]
	if !exists {
		g.connections.connections[playerID] = conn
	}
	g.connections.mu.Unlock()

	if exists {
		g.mu.Unlock()
		// Keep the existing connection and turn the new one away.
		_ = conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		_ = conn.Close()
		return nil
	}

	snapshot := g.snapshot()
	g.seq++
	seq := g.seq
	g.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"game":   g.ID,
		"player": playerID,
		"conn":   fmt.Sprintf("%p", conn),
	}).Debug("registered connection")

	go g.broadcastState(snapshot, seq)
	return nil
}

// UnregisterConnection removes conn if it is still the player's current
// connection. A stale connection closing must not evict its replacement.
func (g *Game) UnregisterConnection(playerID string, conn Observer) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		delete(g.connections.connections, playerID)
		g.connections.writeMu.Lock()
		delete(g.connections.delivered, conn)
		g.connections.writeMu.Unlock()
	}
}

func (g *Game) ConnectionCount() int {
	g.connections.mu.RLock()
	defer g.connections.mu.RUnlock()
	return len(g.connections.connections)
}

// Notify writes msg to a single observer of this game.
func (g *Game) Notify(conn Observer, msg ws.Message) error {
	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()
	return conn.WriteJSON(msg)
}

// deliverState writes msg unless conn already holds a state at least as
// new as seq.
func (g *Game) deliverState(conn Observer, seq uint64, msg ws.Message) error {
	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()

	if seq <= g.connections.delivered[conn] {
		return nil
	}
	if err := conn.WriteJSON(msg); err != nil {
		return err
	}
	g.connections.delivered[conn] = seq
	return nil
}

func (g *Game) broadcastState(state GameState, seq uint64) {
	payload, err := json.Marshal(state)
	if err != nil {
		logrus.WithError(err).Error("failed to marshal game state")
		return
	}

	g.connections.mu.RLock()
	active := make(map[string]Observer, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		active[playerID] = conn
	}
	g.connections.mu.RUnlock()

	for playerID, conn := range active {
		err := g.deliverState(conn, seq, ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"game":   g.ID,
				"player": playerID,
			}).WithError(err).Warn("failed to send state, dropping connection")
			g.UnregisterConnection(playerID, conn)
		}
	}
}
