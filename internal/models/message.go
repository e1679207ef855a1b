package models

import (
	"time"

	"github.com/google/uuid"
)

// Sender roles for chat messages. The enum is closed: a message is either
// written by the customer or produced by the assistant.
const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// Brand tones recognized by the prompt builder.
const (
	ToneFriendly = "friendly"
	ToneFormal   = "formal"
	ToneCasual   = "casual"
)

// ChatMessage is one persisted message of a support conversation.
// Messages are append-only; Escalated and ResponseTime are only
// meaningful on messages with Sender == SenderAI.
type ChatMessage struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	SessionID    string    `json:"session_id" gorm:"index;size:128;not null"`
	Message      string    `json:"message" gorm:"not null"`
	Sender       string    `json:"sender" gorm:"size:8;not null"`
	Timestamp    time.Time `json:"timestamp" gorm:"index"`
	Escalated    bool      `json:"escalated"`
	ResponseTime *float64  `json:"response_time,omitempty"`
}

// NewChatMessage builds a message with a fresh id and a UTC timestamp.
func NewChatMessage(sessionID, text, sender string) *ChatMessage {
	return &ChatMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Message:   text,
		Sender:    sender,
		Timestamp: time.Now().UTC(),
	}
}

// ChatRequest is the decoded body of a chat turn. It is transient and
// never persisted as its own entity.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	BrandTone string `json:"brand_tone"`
}

// ChatResponse is what a completed turn returns to the caller.
// ResponseTime is the wall-clock duration of the whole turn in seconds.
type ChatResponse struct {
	Message      string  `json:"message"`
	Escalated    bool    `json:"escalated"`
	SessionID    string  `json:"session_id"`
	ResponseTime float64 `json:"response_time"`
}
