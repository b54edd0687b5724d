package model

import "time"

// Sender identifies who wrote a conversation message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Message is one entry in a session's append-only conversation log.
type Message struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Sender    Sender    `json:"sender"`
	Body      string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
