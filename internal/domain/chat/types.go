package chat

import (
	"time"

	"codearena-gateway/internal/domain/identity"
)

// Message is one group-chat message. IDs are ULIDs, so sorting by ID is
// sorting by time.
type Message struct {
	ID        string            `json:"id"`
	GroupID   string            `json:"group_id"`
	Sender    identity.Identity `json:"sender"`
	Text      string            `json:"text"`
	Timestamp time.Time         `json:"timestamp"`
}

// SendRequest is the inbound websocket/REST payload for posting a message.
type SendRequest struct {
	Text string `json:"text" binding:"required"`
}
