package server

import (
	"encoding/json"
	"time"

	"github.com/lox/minicasino/internal/round"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type SwitchData struct {
	Game string `json:"game"`
}

type BetData struct {
	Amount int `json:"amount"`
}

type SelectData struct {
	Option string `json:"option"`
}

type ActionData struct {
	Action string `json:"action"`
	Index  int    `json:"index,omitempty"`
	Color  string `json:"color,omitempty"`
}

type AutoplayData struct {
	Enabled bool `json:"enabled"`
}

// Server → Client Messages

// StateData carries the navigation state and, when a game is open or has
// just changed, that game's snapshot.
type StateData struct {
	Current  string          `json:"current"`
	Balance  int             `json:"balance"`
	Autoplay []round.Kind    `json:"autoplay,omitempty"`
	Snapshot *round.Snapshot `json:"snapshot,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
