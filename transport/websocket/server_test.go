package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/internal/repository"
	"github.com/rocketscienceinc/tictactoe-core/internal/service"
	"github.com/rocketscienceinc/tictactoe-core/internal/usecase"
)

type gameBody struct {
	ID            string    `json:"id"`
	Board         []*string `json:"board"`
	CurrentPlayer string    `json:"currentPlayer"`
	Status        string    `json:"status"`
	Winner        *string   `json:"winner"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := usecase.NewGameManager(
		logger,
		repository.NewMemoryGameRepository(),
		service.NewBotService(),
		service.NewRecorderService(repository.NewMemoryRecordRepository(), entity.PlayerX),
	)

	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(New(logger, manager).Handler(ctx))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	return conn
}

func request(t *testing.T, conn *websocket.Conn, raw string) Message {
	t.Helper()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(raw)))

	return receive(t, conn)
}

func receive(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))

	return msg
}

func payloadOf[T any](t *testing.T, msg Message) T {
	t.Helper()

	require.Empty(t, msg.Error)

	var out T
	require.NoError(t, json.Unmarshal(msg.Payload, &out))

	return out
}

func TestServer_GameFlow(t *testing.T) {
	conn := dial(t, newTestServer(t))

	// Given: a new game
	reply := request(t, conn, `{"action":"game:new"}`)
	assert.Equal(t, actionGameNew, reply.Action)
	game := payloadOf[gameBody](t, reply)
	require.NotEmpty(t, game.ID)
	assert.Equal(t, "X", game.CurrentPlayer)

	// When: X plays the center
	reply = request(t, conn, `{"action":"game:move","payload":{"id":"`+game.ID+`","position":4}}`)

	// Then: the updated board is returned
	moved := payloadOf[gameBody](t, reply)
	require.NotNil(t, moved.Board[4])
	assert.Equal(t, "X", *moved.Board[4])
	assert.Equal(t, "O", moved.CurrentPlayer)

	// And: the computer answers for O
	reply = request(t, conn, `{"action":"game:opponent","payload":{"id":"`+game.ID+`"}}`)
	answered := payloadOf[gameBody](t, reply)
	require.NotNil(t, answered.Board[0])
	assert.Equal(t, "O", *answered.Board[0])

	// And: the game is listed and fetchable
	games := payloadOf[[]gameBody](t, request(t, conn, `{"action":"game:list"}`))
	require.Len(t, games, 1)

	fetched := payloadOf[gameBody](t, request(t, conn, `{"action":"game:get","payload":{"id":"`+game.ID+`"}}`))
	assert.Equal(t, answered, fetched)
}

func TestServer_Errors(t *testing.T) {
	conn := dial(t, newTestServer(t))
	game := payloadOf[gameBody](t, request(t, conn, `{"action":"game:new"}`))

	cases := []struct {
		name   string
		raw    string
		reason string
	}{
		{"Malformed JSON", `{nope`, "invalid message"},
		{"Unknown action", `{"action":"game:fly"}`, "unknown action"},
		{"Missing id", `{"action":"game:get","payload":{}}`, "game id is required"},
		{"Unknown game", `{"action":"game:get","payload":{"id":"missing"}}`, "game not found"},
		{"Missing position", `{"action":"game:move","payload":{"id":"` + game.ID + `"}}`, "position is required"},
		{"Out of range", `{"action":"game:move","payload":{"id":"` + game.ID + `","position":12}}`, "position must be an integer between 0 and 8"},
		{"Fractional position", `{"action":"game:move","payload":{"id":"` + game.ID + `","position":1.5}}`, "position must be an integer between 0 and 8"},
		{"Huge position", `{"action":"game:move","payload":{"id":"` + game.ID + `","position":1e20}}`, "position must be an integer between 0 and 8"},
		{"Non-numeric position", `{"action":"game:move","payload":{"id":"` + game.ID + `","position":"abc"}}`, "position must be an integer between 0 and 8"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reply := request(t, conn, tc.raw)
			assert.Equal(t, tc.reason, reply.Error)
			assert.Empty(t, reply.Payload)
		})
	}
}

func TestServer_NumericStringPosition(t *testing.T) {
	conn := dial(t, newTestServer(t))
	game := payloadOf[gameBody](t, request(t, conn, `{"action":"game:new"}`))

	// When: the position arrives as a string
	reply := request(t, conn, `{"action":"game:move","payload":{"id":"`+game.ID+`","position":"2"}}`)

	// Then: it is played like the REST endpoint plays it
	moved := payloadOf[gameBody](t, reply)
	require.NotNil(t, moved.Board[2])
	assert.Equal(t, "X", *moved.Board[2])
}

func TestServer_BroadcastsToWatchers(t *testing.T) {
	srv := newTestServer(t)
	player := dial(t, srv)
	watcher := dial(t, srv)

	// Given: a second connection watching the game
	game := payloadOf[gameBody](t, request(t, player, `{"action":"game:new"}`))
	payloadOf[gameBody](t, request(t, watcher, `{"action":"game:get","payload":{"id":"`+game.ID+`"}}`))

	// When: the first connection moves
	payloadOf[gameBody](t, request(t, player, `{"action":"game:move","payload":{"id":"`+game.ID+`","position":8}}`))

	// Then: the watcher receives the update
	update := receive(t, watcher)
	assert.Equal(t, actionGameUpdate, update.Action)
	pushed := payloadOf[gameBody](t, update)
	require.NotNil(t, pushed.Board[8])
	assert.Equal(t, "X", *pushed.Board[8])
}

func TestServer_Stats(t *testing.T) {
	conn := dial(t, newTestServer(t))
	game := payloadOf[gameBody](t, request(t, conn, `{"action":"game:new"}`))

	for _, position := range []string{"0", "3", "1", "4", "2"} {
		payloadOf[gameBody](t, request(t, conn, `{"action":"game:move","payload":{"id":"`+game.ID+`","position":`+position+`}}`))
	}

	stats := payloadOf[entity.Stats](t, request(t, conn, `{"action":"stats:get"}`))
	assert.Equal(t, entity.Stats{TotalGames: 1, Wins: 1, WinRate: 100}, stats)
}
