package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/roshambo/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// ErrConnectionClosed is returned when sending on a closed session
var ErrConnectionClosed = errors.New("connection closed")

// Connection is one browser session. It owns a game controller and is the
// only goroutine that touches it: messages are handled in read order.
type Connection struct {
	id         uint64
	conn       *websocket.Conn
	send       chan *Message
	controller *game.Controller
	logger     *log.Logger
	clock      quartz.Clock
	stats      *Stats

	idleTimeout time.Duration
	idleTimer   *quartz.Timer

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection wraps a websocket with a fresh game session
func NewConnection(id uint64, conn *websocket.Conn, controller *game.Controller, logger *log.Logger, clock quartz.Clock, idleTimeout time.Duration, stats *Stats) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		id:          id,
		conn:        conn,
		send:        make(chan *Message, 64),
		controller:  controller,
		logger:      logger.WithPrefix("conn").With("session", id),
		clock:       clock,
		stats:       stats,
		idleTimeout: idleTimeout,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start arms the idle timer, queues the initial state and begins pumping.
func (c *Connection) Start() {
	if c.idleTimeout > 0 {
		c.idleTimer = c.clock.AfterFunc(c.idleTimeout, func() {
			c.logger.Info("Closing idle session", "idle", c.idleTimeout)
			_ = c.Close()
		}, "idle")
	}

	c.sendState(MessageTypeGetState, c.controller.State(), true)

	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection shuts down
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.idleTimer != nil {
			c.idleTimer.Stop()
		}
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				c.sendError("invalid_message", "Failed to parse message")
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("WebSocket read ended", "error", err)
			}
			return
		}

		if c.idleTimer != nil {
			c.idleTimer.Reset(c.idleTimeout, "idle")
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

// handleMessage runs one client action against the controller and answers
// with the resulting state. Actions that do not apply are answered with the
// unchanged state and accepted=false, never with an error.
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type)

	var (
		state game.ViewState
		ok    bool
	)

	switch msg.Type {
	case MessageTypeIncrementRounds:
		state, ok = c.controller.IncrementRoundCount()

	case MessageTypeSetRoundDisplay:
		var data SetRoundDisplayData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse round display data")
			return
		}
		state, ok = c.controller.SetRoundCountDisplay(data.Text)

	case MessageTypeStartGame:
		state, ok = c.controller.StartGame()

	case MessageTypeSubmitMove:
		var data SubmitMoveData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse move data")
			return
		}
		state, ok = c.controller.SubmitMove(data.Move)
		if ok {
			c.stats.RecordRound(state)
		}

	case MessageTypeViewResults:
		state, ok = c.controller.StopGame()

	case MessageTypePlayAgain:
		state, ok = c.controller.PlayAgain()

	case MessageTypeGetState:
		state, ok = c.controller.State(), true

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
		return
	}

	if ok && state.Final != nil && (msg.Type == MessageTypeViewResults || msg.Type == MessageTypeSubmitMove) {
		c.stats.RecordGame(*state.Final)
		c.logger.Info("Game finished",
			"wins", state.Final.Wins,
			"losses", state.Final.Losses,
			"ties", state.Final.Ties)
	}

	c.sendState(msg.Type, state, ok)
}

func (c *Connection) sendState(action MessageType, state game.ViewState, accepted bool) {
	catalog := c.controller.Catalog()
	msg, err := NewMessage(MessageTypeState, StateData{
		ViewState: state,
		Action:    action,
		Accepted:  accepted,
		Catalog:   catalog.Name(),
		Moves:     catalog.Moves(),
		MaxRound:  game.MaxRounds,
	}, c.clock.Now())
	if err != nil {
		c.logger.Error("Failed to create state message", "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	msg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	}, c.clock.Now())
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}
	_ = c.SendMessage(msg)
}
