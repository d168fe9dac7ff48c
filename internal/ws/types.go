package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages exchanged with the board view
type MessageType string

const (
	// client -> server
	MessageTypeSelect  MessageType = "select"
	MessageTypeMoveTo  MessageType = "moveTo"
	MessageTypeClick   MessageType = "click"
	MessageTypePromote MessageType = "promote"
	MessageTypeReset   MessageType = "reset"

	// server -> client
	MessageTypeGameState        MessageType = "gameState"
	MessageTypeHighlight        MessageType = "highlight"
	MessageTypeMoveCommitted    MessageType = "moveCommitted"
	MessageTypePromotionPending MessageType = "promotionPending"
	MessageTypeGameOver         MessageType = "gameOver"
	MessageTypeError            MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// SquarePayload carries an algebraic coordinate such as "e4".
type SquarePayload struct {
	Square string `json:"square"`
}

type PromotePayload struct {
	Piece string `json:"piece"`
}

type HighlightPayload struct {
	Squares []string `json:"squares"`
}

type PromotionPendingPayload struct {
	Square string `json:"square"`
	Color  string `json:"color"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// NewMessage marshals payload into a Message of the given type.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: raw}, nil
}
