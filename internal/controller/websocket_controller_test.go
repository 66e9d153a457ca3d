package controller

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/benbeisheim/gridchess-backend/internal/model"
	"github.com/benbeisheim/gridchess-backend/internal/service"
	"github.com/benbeisheim/gridchess-backend/internal/testutil"
	"github.com/benbeisheim/gridchess-backend/internal/ws"
)

type recordingConn struct {
	messages chan ws.Message
}

func newRecordingConn() *recordingConn {
	return &recordingConn{messages: make(chan ws.Message, 16)}
}

func (r *recordingConn) WriteJSON(v interface{}) error {
	msg, ok := v.(ws.Message)
	if !ok {
		return errors.New("unexpected payload")
	}
	r.messages <- msg
	return nil
}

func (r *recordingConn) WriteMessage(int, []byte) error { return nil }

func (r *recordingConn) Close() error { return nil }

func (r *recordingConn) next(t *testing.T) ws.Message {
	t.Helper()
	select {
	case msg := <-r.messages:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a message")
	}
	return ws.Message{}
}

func newTestController(t *testing.T) (*WebSocketController, *service.GameService, string) {
	t.Helper()
	gs := service.NewGameService(service.NewGameManager())
	gameID, err := gs.CreateGame()
	testutil.AssertNoError(t, err)
	return NewWebSocketController(gs), gs, gameID
}

func moveMessage(t *testing.T, req model.MoveRequest) ws.Message {
	t.Helper()
	msg, err := ws.NewMessage(ws.MessageTypeMove, req)
	testutil.AssertNoError(t, err)
	return msg
}

func TestHandleMessageReplies(t *testing.T) {
	tests := []struct {
		name     string
		msg      ws.Message
		wantType ws.MessageType
		want     interface{}
	}{
		{
			name:     "illegal move",
			msg:      ws.Message{Type: ws.MessageTypeMove, Payload: json.RawMessage(`{"notation":"e2 e5"}`)},
			wantType: ws.MessageTypeRejected,
			want:     ws.Rejection{Move: "e2 e5", Reason: "illegal_geometry"},
		},
		{
			name:     "empty source",
			msg:      ws.Message{Type: ws.MessageTypeMove, Payload: json.RawMessage(`{"notation":"e4 e5"}`)},
			wantType: ws.MessageTypeRejected,
			want:     ws.Rejection{Move: "e4 e5", Reason: "no_piece_at_source"},
		},
		{
			name:     "blocked bishop",
			msg:      ws.Message{Type: ws.MessageTypeMove, Payload: json.RawMessage(`{"from":{"row":0,"col":2},"to":{"row":2,"col":4}}`)},
			wantType: ws.MessageTypeRejected,
			want:     ws.Rejection{Move: "c1 e3", Reason: "path_blocked"},
		},
		{
			name:     "payload is not an object",
			msg:      ws.Message{Type: ws.MessageTypeMove, Payload: json.RawMessage(`"e2 e4"`)},
			wantType: ws.MessageTypeError,
			want:     ws.Error{Error: "malformed move payload"},
		},
		{
			name:     "unknown message type",
			msg:      ws.Message{Type: "resign", Payload: json.RawMessage(`{}`)},
			wantType: ws.MessageTypeError,
			want:     ws.Error{Error: "unknown message type: resign"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wsc, _, gameID := newTestController(t)
			conn := newRecordingConn()

			wsc.handleMessage(gameID, "alice", conn, tt.msg)

			got := conn.next(t)
			testutil.AssertEqual(t, got.Type, tt.wantType)
			switch want := tt.want.(type) {
			case ws.Rejection:
				var rejection ws.Rejection
				testutil.AssertNoError(t, json.Unmarshal(got.Payload, &rejection))
				testutil.AssertEqual(t, rejection, want)
			case ws.Error:
				var payload ws.Error
				testutil.AssertNoError(t, json.Unmarshal(got.Payload, &payload))
				testutil.AssertEqual(t, payload, want)
			}
		})
	}
}

func TestHandleMessageMalformedNotation(t *testing.T) {
	wsc, gs, gameID := newTestController(t)
	conn := newRecordingConn()

	wsc.handleMessage(gameID, "alice", conn, moveMessage(t, model.MoveRequest{Notation: "e2"}))

	got := conn.next(t)
	testutil.AssertEqual(t, got.Type, ws.MessageTypeError)
	var payload ws.Error
	testutil.AssertNoError(t, json.Unmarshal(got.Payload, &payload))
	if payload.Error == "" {
		t.Error("error payload is empty")
	}

	state, err := gs.GetGameState(gameID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(state.MoveHistory), 0)
}

func TestHandleMessageMoveBroadcastsState(t *testing.T) {
	wsc, gs, gameID := newTestController(t)
	conn := newRecordingConn()
	testutil.AssertNoError(t, gs.RegisterConnection(gameID, "alice", conn))

	initial := conn.next(t)
	testutil.AssertEqual(t, initial.Type, ws.MessageTypeGameState)

	wsc.handleMessage(gameID, "alice", conn, moveMessage(t, model.MoveRequest{Notation: "e2 e4"}))

	got := conn.next(t)
	testutil.AssertEqual(t, got.Type, ws.MessageTypeGameState)
	var state model.GameState
	testutil.AssertNoError(t, json.Unmarshal(got.Payload, &state))
	testutil.AssertEqual(t, state.LastMove, &model.Move{
		From: model.Square{Row: 1, Col: 4},
		To:   model.Square{Row: 3, Col: 4},
	})
	testutil.AssertEqual(t, len(state.MoveHistory), 1)
	testutil.AssertEqual(t, state.MoveHistory[0].Notation, "Pe2-e4")
}

func TestWriteError(t *testing.T) {
	conn := newRecordingConn()

	writeError(conn, model.ErrAlreadyQueued)

	got := conn.next(t)
	testutil.AssertEqual(t, got.Type, ws.MessageTypeError)
	var payload ws.Error
	testutil.AssertNoError(t, json.Unmarshal(got.Payload, &payload))
	testutil.AssertEqual(t, payload, ws.Error{Error: model.ErrAlreadyQueued.Error()})
}
