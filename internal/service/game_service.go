package service

import (
	"fmt"

	"github.com/benbeisheim/gridchess-backend/internal/model"
	"github.com/benbeisheim/gridchess-backend/internal/ws"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Owner, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	logrus.WithField("game", gameID).Info("game created")
	return gameID, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

// CancelMatchmaking is LeaveMatchmaking for a player waiting on a
// matchmaking channel.
func (gs *GameService) CancelMatchmaking(playerID string) bool {
	return gs.gameManager.CancelMatchmaking(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

// HandleMove resolves the request to squares and attempts it. Rejections
// come back as *model.RejectedMoveError.
func (gs *GameService) HandleMove(gameID string, playerID string, req model.MoveRequest) (model.Ply, error) {
	move, err := req.Resolve()
	if err != nil {
		return model.Ply{}, err
	}

	log := logrus.WithFields(logrus.Fields{
		"game":   gameID,
		"player": playerID,
		"move":   move.String(),
	})

	ply, err := gs.gameManager.MakeMove(gameID, move)
	if err != nil {
		log.WithError(err).Debug("move refused")
		return model.Ply{}, err
	}
	log.WithField("notation", ply.Notation).Info("move played")
	return ply, nil
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Observer) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Observer) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

// Notify writes msg to conn through the game's writer.
func (gs *GameService) Notify(gameID string, conn model.Observer, msg ws.Message) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Notify(conn, msg)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	return gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID)
}
