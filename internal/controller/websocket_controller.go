package controller

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benbeisheim/gridchess-backend/internal/model"
	"github.com/benbeisheim/gridchess-backend/internal/service"
	"github.com/benbeisheim/gridchess-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection serves one observer of a game until it disconnects.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)
	log := logrus.WithFields(logrus.Fields{"game": gameID, "player": playerID})

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.WithError(err).Warn("failed to register connection")
		_ = c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.WithError(err).Debug("read ended")
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.WithError(err).Debug("unparseable message")
			wsc.send(gameID, c, ws.MessageTypeError, ws.Error{Error: "malformed message"})
			continue
		}
		wsc.handleMessage(gameID, playerID, c, msg)
	}
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, c model.Observer, msg ws.Message) {
	switch msg.Type {
	case ws.MessageTypeMove:
		var req model.MoveRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			wsc.send(gameID, c, ws.MessageTypeError, ws.Error{Error: "malformed move payload"})
			return
		}
		_, err := wsc.gameService.HandleMove(gameID, playerID, req)
		var rejected *model.RejectedMoveError
		switch {
		case err == nil:
			// The game broadcasts the new state to every observer.
		case errors.As(err, &rejected):
			wsc.send(gameID, c, ws.MessageTypeRejected, ws.Rejection{
				Move:   rejected.Move.String(),
				Reason: rejected.Reason.String(),
			})
		default:
			wsc.send(gameID, c, ws.MessageTypeError, ws.Error{Error: err.Error()})
		}
	default:
		wsc.send(gameID, c, ws.MessageTypeError, ws.Error{
			Error: fmt.Sprintf("unknown message type: %s", msg.Type),
		})
	}
}

// HandleMatchmaking queues the player and waits for a match on the socket.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID := c.Locals("playerID").(string)
	log := logrus.WithField("player", playerID)

	ch := make(chan string, 1)
	if err := wsc.gameService.RegisterMatchmakingChannel(playerID, ch); err != nil {
		log.WithError(err).Warn("failed to register matchmaking channel")
		_ = c.Close()
		return
	}
	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil && !errors.Is(err, model.ErrAlreadyQueued) {
		wsc.gameService.UnregisterMatchmakingChannel(playerID)
		writeError(c, err)
		_ = c.Close()
		return
	}

	// A closed socket ends the wait.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-ch:
		if !ok {
			// Replaced by a newer registration.
			return
		}
		if err := c.WriteMessage(websocket.TextMessage, []byte(event)); err != nil {
			log.WithError(err).Warn("failed to deliver match")
		}
	case <-closed:
		wsc.gameService.CancelMatchmaking(playerID)
	}
}

func (wsc *WebSocketController) send(gameID string, c model.Observer, t ws.MessageType, payload interface{}) {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		logrus.WithError(err).Error("failed to build message")
		return
	}
	if err := wsc.gameService.Notify(gameID, c, msg); err != nil {
		logrus.WithError(err).Debug("failed to send message")
	}
}

// writeError reports err on a connection that is not attached to a game.
func writeError(c model.Observer, err error) {
	msg, buildErr := ws.NewMessage(ws.MessageTypeError, ws.Error{Error: err.Error()})
	if buildErr != nil {
		logrus.WithError(buildErr).Error("failed to build message")
		return
	}
	if writeErr := c.WriteJSON(msg); writeErr != nil {
		logrus.WithError(writeErr).Debug("failed to send error")
	}
}
