package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/roshambo/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	srv := NewServer(testLogger(), append([]Option{WithSeed(42)}, opts...)...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
		ts.Close()
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func readState(t *testing.T, conn *websocket.Conn) StateData {
	t.Helper()
	msg := readMessage(t, conn)
	require.Equal(t, MessageTypeState, msg.Type)
	var data StateData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	return data
}

func sendAction(t *testing.T, conn *websocket.Conn, mt MessageType, data any) {
	t.Helper()
	msg, err := NewMessage(mt, data, time.Now())
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
}

func TestServerHealth(t *testing.T) {
	srv := NewServer(testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestServerIndex(t *testing.T) {
	srv := NewServer(testLogger())

	t.Run("serves the page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "/ws")
	})

	t.Run("unknown path", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nope", nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestWebSocketGameFlow(t *testing.T) {
	opponent := game.NewScriptedOpponent("Scissors", "Scissors", "Scissors")
	srv, ts := startTestServer(t, WithGameOptions(game.WithOpponent(opponent)))
	conn := dial(t, ts)

	initial := readState(t, conn)
	assert.Equal(t, game.PreGame, initial.Status)
	assert.Equal(t, []string{"Rock", "Paper", "Scissors"}, initial.Moves)
	assert.Equal(t, "classic", initial.Catalog)
	assert.Equal(t, game.MaxRounds, initial.MaxRound)
	assert.Equal(t, "3", initial.RoundCountDisplay)

	sendAction(t, conn, MessageTypeSubmitMove, SubmitMoveData{Move: "Rock"})
	ignored := readState(t, conn)
	assert.False(t, ignored.Accepted, "moves are ignored before the game starts")
	assert.Zero(t, ignored.CurrentRound)

	sendAction(t, conn, MessageTypeStartGame, nil)
	started := readState(t, conn)
	assert.True(t, started.Accepted)
	assert.Equal(t, MessageTypeStartGame, started.Action)
	assert.Equal(t, game.ViewInGame, started.View)

	for _, move := range []string{"Rock", "Paper", "Scissors"} {
		sendAction(t, conn, MessageTypeSubmitMove, SubmitMoveData{Move: move})
		state := readState(t, conn)
		require.True(t, state.Accepted)
		require.NotNil(t, state.LastResult)
		assert.Equal(t, move, state.LastResult.Player)
	}

	sendAction(t, conn, MessageTypeSubmitMove, SubmitMoveData{Move: "Lizard"})
	assert.False(t, readState(t, conn).Accepted)

	sendAction(t, conn, MessageTypeViewResults, nil)
	final := readState(t, conn)
	require.True(t, final.Accepted)
	require.NotNil(t, final.Final)
	assert.Equal(t, game.Tally{Wins: 1, Losses: 1, Ties: 1}, *final.Final)

	snapshot := srv.Stats().Snapshot()
	assert.Equal(t, 1, snapshot.Games)
	assert.Equal(t, 3, snapshot.Rounds)
	assert.Equal(t, 3, snapshot.OpponentMoves["Scissors"])

	sendAction(t, conn, MessageTypePlayAgain, nil)
	again := readState(t, conn)
	assert.True(t, again.Accepted)
	assert.Equal(t, game.ViewPreGame, again.View)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), "Active sessions: 1")
	assert.Contains(t, w.Body.String(), "Games: 1")
}

func TestWebSocketRoundCount(t *testing.T) {
	_, ts := startTestServer(t)
	conn := dial(t, ts)
	readState(t, conn)

	sendAction(t, conn, MessageTypeSetRoundDisplay, SetRoundDisplayData{Text: "ten"})
	assert.Equal(t, "ten", readState(t, conn).RoundCountDisplay)

	sendAction(t, conn, MessageTypeIncrementRounds, nil)
	state := readState(t, conn)
	assert.True(t, state.Accepted)
	assert.Equal(t, 1, state.RoundCount)
}

func TestWebSocketErrors(t *testing.T) {
	_, ts := startTestServer(t)
	conn := dial(t, ts)
	readState(t, conn)

	t.Run("malformed frame", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
		msg := readMessage(t, conn)
		require.Equal(t, MessageTypeError, msg.Type)

		var data ErrorData
		require.NoError(t, json.Unmarshal(msg.Data, &data))
		assert.Equal(t, "invalid_message", data.Code)
	})

	t.Run("unknown type", func(t *testing.T) {
		sendAction(t, conn, MessageType("dance"), nil)
		msg := readMessage(t, conn)
		require.Equal(t, MessageTypeError, msg.Type)

		var data ErrorData
		require.NoError(t, json.Unmarshal(msg.Data, &data))
		assert.Equal(t, "unknown_message_type", data.Code)
	})

	t.Run("connection survives errors", func(t *testing.T) {
		sendAction(t, conn, MessageTypeGetState, nil)
		state := readState(t, conn)
		assert.True(t, state.Accepted)
	})
}

func TestIdleTimeoutClosesSession(t *testing.T) {
	mockClock := quartz.NewMock(t)
	srv, ts := startTestServer(t, WithClock(mockClock), WithIdleTimeout(30*time.Second))
	conn := dial(t, ts)
	readState(t, conn)

	require.Eventually(t, func() bool { return srv.Sessions() == 1 }, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mockClock.Advance(30 * time.Second).MustWait(ctx)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)

	require.Eventually(t, func() bool { return srv.Sessions() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestShutdownClosesSessions(t *testing.T) {
	srv, ts := startTestServer(t)
	conn := dial(t, ts)
	readState(t, conn)

	require.NoError(t, srv.Shutdown(context.Background()))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
