package feed

import (
	"encoding/json"
	"time"
)

// MessageType identifies a bridge message
type MessageType string

const (
	// Client to server messages
	MessageTypeGesture    MessageType = "gesture"
	MessageTypeStartRound MessageType = "start_round"
	MessageTypeReset      MessageType = "reset"

	// Server to client messages
	MessageTypeSnapshot MessageType = "snapshot"
	MessageTypeError    MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Error codes sent in ErrorData
const (
	CodeInvalidMessage     = "invalid_message"
	CodeUnknownMessageType = "unknown_message_type"
	CodeRoundInProgress    = "round_in_progress"
	CodeGameOver           = "game_over"
	CodeGestureUnavailable = "gesture_unavailable"
	CodeStartFailed        = "start_failed"
)

// Message is the envelope for every frame on the bridge
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	msg := &Message{
		Type:      messageType,
		Timestamp: time.Now(),
	}
	if data == nil {
		return msg, nil
	}

	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	msg.Data = dataBytes
	return msg, nil
}

// ErrorData is the payload of an error message
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
