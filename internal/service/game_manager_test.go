package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/benbeisheim/gridchess-backend/internal/model"
	"github.com/benbeisheim/gridchess-backend/internal/testutil"
)

func TestCreateAndGetGame(t *testing.T) {
	gm := NewGameManager()

	testutil.AssertNoError(t, gm.CreateGame("g1"))
	testutil.AssertErrorIs(t, gm.CreateGame("g1"), model.ErrGameExists)

	game, err := gm.GetGame("g1")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, game.ID, "g1")

	_, err = gm.GetGame("missing")
	testutil.AssertErrorIs(t, err, model.ErrGameNotFound)

	_, err = gm.GetGameState("missing")
	testutil.AssertErrorIs(t, err, model.ErrGameNotFound)
}

func TestMakeMove(t *testing.T) {
	gm := NewGameManager()
	testutil.AssertNoError(t, gm.CreateGame("g1"))

	move := model.Move{From: model.Square{Row: 6, Col: 3}, To: model.Square{Row: 4, Col: 3}}
	ply, err := gm.MakeMove("g1", move)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ply.Notation, "Pd7-d5")

	_, err = gm.MakeMove("g1", move)
	var rejected *model.RejectedMoveError
	if !errors.As(err, &rejected) || rejected.Reason != model.NoPieceAtSource {
		t.Errorf("replayed move error = %v; want no_piece_at_source", err)
	}

	_, err = gm.MakeMove("nope", move)
	testutil.AssertErrorIs(t, err, model.ErrGameNotFound)
}

func TestMatchmakingPairsPlayers(t *testing.T) {
	gm := NewGameManager()

	channels := map[string]chan string{}
	for _, id := range []string{"alice", "bob"} {
		ch := make(chan string, 1)
		channels[id] = ch
		testutil.AssertNoError(t, gm.RegisterMatchmakingChannel(id, ch))
		testutil.AssertNoError(t, gm.JoinMatchmaking(id))
	}
	testutil.AssertErrorIs(t, gm.JoinMatchmaking("alice"), model.ErrAlreadyQueued)

	if !gm.matchNextPair() {
		t.Fatal("matchNextPair = false with two queued players")
	}
	if gm.matchNextPair() {
		t.Error("matchNextPair = true with an empty queue")
	}

	events := map[string]model.MatchFoundEvent{}
	for id, ch := range channels {
		raw, ok := <-ch
		if !ok {
			t.Fatalf("channel for %s closed without an event", id)
		}
		var event model.MatchFoundEvent
		testutil.AssertNoError(t, json.Unmarshal([]byte(raw), &event))
		events[id] = event
	}

	testutil.AssertEqual(t, events["alice"].GameID, events["bob"].GameID)
	testutil.AssertEqual(t, events["alice"].Owner, model.White)
	testutil.AssertEqual(t, events["bob"].Owner, model.Black)

	game, err := gm.GetGame(events["alice"].GameID)
	testutil.AssertNoError(t, err)
	if !game.IsPlayerInGame("alice") || !game.IsPlayerInGame("bob") {
		t.Error("matched players not seated")
	}
}

func TestRegisterMatchmakingChannelReplacesOld(t *testing.T) {
	gm := NewGameManager()
	old := make(chan string, 1)
	testutil.AssertNoError(t, gm.RegisterMatchmakingChannel("alice", old))
	testutil.AssertNoError(t, gm.RegisterMatchmakingChannel("alice", make(chan string, 1)))

	if _, ok := <-old; ok {
		t.Error("replaced channel still open")
	}
}

func TestCancelMatchmaking(t *testing.T) {
	gm := NewGameManager()
	for _, id := range []string{"alice", "bob"} {
		testutil.AssertNoError(t, gm.RegisterMatchmakingChannel(id, make(chan string, 1)))
		testutil.AssertNoError(t, gm.JoinMatchmaking(id))
	}

	if !gm.CancelMatchmaking("alice") {
		t.Fatal("CancelMatchmaking(alice) = false; want true")
	}
	if _, ok := gm.matchingChannels["alice"]; ok {
		t.Error("alice's channel still registered")
	}
	testutil.AssertEqual(t, gm.QueueSize(), 1)

	if gm.matchNextPair() {
		t.Error("a cancelled player was paired")
	}
	if gm.CancelMatchmaking("alice") {
		t.Error("second CancelMatchmaking(alice) = true; want false")
	}
}

func TestRunMatchmakingStopsOnCancel(t *testing.T) {
	gm := NewGameManager()
	ch := make(chan string, 1)
	testutil.AssertNoError(t, gm.RegisterMatchmakingChannel("alice", ch))
	testutil.AssertNoError(t, gm.JoinMatchmaking("alice"))
	testutil.AssertNoError(t, gm.JoinMatchmaking("bob"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		gm.RunMatchmaking(ctx, 10*time.Millisecond)
		close(done)
	}()

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("no match within deadline")
	}
	testutil.AssertEqual(t, gm.QueueSize(), 0)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunMatchmaking did not return after cancel")
	}
}
