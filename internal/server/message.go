package server

import (
	"encoding/json"
	"time"

	"github.com/lox/roshambo/internal/game"
)

// MessageType represents a WebSocket message type with type safety
type MessageType string

const (
	// Client to server messages
	MessageTypeIncrementRounds MessageType = "increment_rounds"
	MessageTypeSetRoundDisplay MessageType = "set_round_display"
	MessageTypeStartGame       MessageType = "start_game"
	MessageTypeSubmitMove      MessageType = "submit_move"
	MessageTypeViewResults     MessageType = "view_results"
	MessageTypePlayAgain       MessageType = "play_again"
	MessageTypeGetState        MessageType = "get_state"

	// Server to client messages
	MessageTypeState MessageType = "state"
	MessageTypeError MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message stamped with now
func NewMessage(messageType MessageType, data any, now time.Time) (*Message, error) {
	var dataBytes json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		dataBytes = b
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: now,
	}, nil
}

// Client → Server payloads

type SubmitMoveData struct {
	Move string `json:"move"`
}

type SetRoundDisplayData struct {
	Text string `json:"text"`
}

// Server → Client payloads

// StateData is sent after every client action. Accepted is false when the
// action was ignored because it did not apply in the current state.
type StateData struct {
	game.ViewState
	Action   MessageType `json:"action,omitempty"`
	Accepted bool        `json:"accepted"`
	Catalog  string      `json:"catalog"`
	Moves    []string    `json:"moves"`
	MaxRound int         `json:"maxRounds"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
