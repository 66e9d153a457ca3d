package service

import (
	"errors"
	"testing"

	"github.com/benbeisheim/gridchess-backend/internal/model"
	"github.com/benbeisheim/gridchess-backend/internal/testutil"
)

func TestGameServiceFlow(t *testing.T) {
	gs := NewGameService(NewGameManager())

	gameID, err := gs.CreateGame()
	testutil.AssertNoError(t, err)
	if gameID == "" {
		t.Fatal("empty game id")
	}

	owner, err := gs.JoinGame(gameID, "alice")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, owner, model.White)

	ply, err := gs.HandleMove(gameID, "alice", model.MoveRequest{Notation: "g1 f3"})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ply.Notation, "Ng1-f3")

	from, to := model.Square{Row: 0, Col: 3}, model.Square{Row: 0, Col: 3}
	_, err = gs.HandleMove(gameID, "alice", model.MoveRequest{From: &from, To: &to})
	var rejected *model.RejectedMoveError
	if !errors.As(err, &rejected) || rejected.Reason != model.NullMove {
		t.Errorf("same-square move error = %v; want null_move", err)
	}

	_, err = gs.HandleMove(gameID, "alice", model.MoveRequest{Notation: "g1"})
	testutil.AssertErrorIs(t, err, model.ErrMalformedMove)

	state, err := gs.GetGameState(gameID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(state.MoveHistory), 1)
}

func TestGameServiceMatchmaking(t *testing.T) {
	gs := NewGameService(NewGameManager())

	testutil.AssertNoError(t, gs.JoinMatchmaking("alice"))
	if !gs.LeaveMatchmaking("alice") {
		t.Error("LeaveMatchmaking = false for queued player")
	}
	if gs.LeaveMatchmaking("alice") {
		t.Error("LeaveMatchmaking = true for player not queued")
	}
}
