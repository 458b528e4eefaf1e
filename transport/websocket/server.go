package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/internal/server"
	"github.com/rocketscienceinc/tictactoe-core/internal/usecase"
)

const (
	maxMessageSize = 4096
	writeWait      = 10 * time.Second
)

type gameUseCase interface {
	CreateGame(ctx context.Context) (*usecase.GameView, error)
	ListGames(ctx context.Context) ([]*usecase.GameView, error)
	GetGame(ctx context.Context, id string) (*usecase.GameView, error)
	MakeTurn(ctx context.Context, id string, position int) (*usecase.GameView, error)
	MakeOpponentTurn(ctx context.Context, id string) (*usecase.GameView, error)
	Stats(ctx context.Context) (*entity.Stats, error)
}

type handlerFunc func(ctx context.Context, conn *client, msg *Message) (any, error)

// client wraps a connection; gorilla allows only one concurrent writer.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (that *client) send(msg Message) error {
	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err := that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return that.conn.WriteJSON(msg)
}

type Server struct {
	logger   *slog.Logger
	games    gameUseCase
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc

	// watchers maps a game id to the connections that want its updates.
	watchersMu sync.Mutex
	watchers   map[string]map[*client]struct{}
}

func New(logger *slog.Logger, games gameUseCase) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		games:  games,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},

		handlers: make(map[string]handlerFunc),
		watchers: make(map[string]map[*client]struct{}),
	}

	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionGameGet] = server.handleGetGame
	server.handlers[actionGameList] = server.handleListGames
	server.handlers[actionGameMove] = server.handleMove
	server.handlers[actionGameOpponent] = server.handleOpponentMove
	server.handlers[actionStatsGet] = server.handleStats

	return server
}

// Handler returns the /ws endpoint. Connections are closed when ctx is canceled.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	return server.Start(ctx, port, that.Handler(ctx))
}

func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConnection")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := &client{conn: conn}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})

	defer func() {
		stop()
		that.forget(c)
		_ = conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)

	log.Info("WebSocket connection established", "remote", r.RemoteAddr)

	that.handleMessages(ctx, c)
}

// handleMessages - processes messages from the client until the connection drops.
func (that *Server) handleMessages(ctx context.Context, c *client) {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			that.reply(c, Message{Action: actionError, Error: "invalid message"})
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			that.reply(c, Message{Action: message.Action, Error: "unknown action"})
			continue
		}

		result, err := handler(ctx, c, &message)
		if err != nil {
			that.reply(c, Message{Action: message.Action, Error: errorReason(err)})
			if !isClientError(err) {
				log.Error("error processing message", "action", message.Action, "error", err)
			}
			continue
		}

		that.reply(c, newMessage(message.Action, result))
	}
}

func (that *Server) reply(c *client, msg Message) {
	if err := c.send(msg); err != nil {
		that.logger.Error("failed to send message", "action", msg.Action, "error", err)
	}
}

func (that *Server) watch(c *client, gameID string) {
	that.watchersMu.Lock()
	defer that.watchersMu.Unlock()

	set, ok := that.watchers[gameID]
	if !ok {
		set = make(map[*client]struct{})
		that.watchers[gameID] = set
	}
	set[c] = struct{}{}
}

func (that *Server) forget(c *client) {
	that.watchersMu.Lock()
	defer that.watchersMu.Unlock()

	for gameID, set := range that.watchers {
		delete(set, c)
		if len(set) == 0 {
			delete(that.watchers, gameID)
		}
	}
}

// broadcast pushes a game update to every watcher of the game except the sender.
func (that *Server) broadcast(sender *client, game *usecase.GameView) {
	that.watchersMu.Lock()
	targets := make([]*client, 0, len(that.watchers[game.ID]))
	for c := range that.watchers[game.ID] {
		if c != sender {
			targets = append(targets, c)
		}
	}
	that.watchersMu.Unlock()

	msg := newMessage(actionGameUpdate, game)
	for _, c := range targets {
		that.reply(c, msg)
	}
}
