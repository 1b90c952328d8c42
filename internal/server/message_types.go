package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
const (
	// Client to server messages
	MessageTypeSwitch   MessageType = "switch"
	MessageTypeWorld    MessageType = "world"
	MessageTypeBet      MessageType = "bet"
	MessageTypeSelect   MessageType = "select"
	MessageTypeStart    MessageType = "start"
	MessageTypeAction   MessageType = "action"
	MessageTypeReset    MessageType = "reset"
	MessageTypeAutoplay MessageType = "autoplay"

	// Server to client messages
	MessageTypeState MessageType = "state"
	MessageTypeError MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
