package storage

import (
	"time"
)

// Conversation is one logged exchange: what the user asked and what the
// bot answered. Records are never mutated after insert; they only leave
// the store through retention purges.
type Conversation struct {
	ID          int64     `json:"id"`
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
	SessionID   string    `json:"session_id"`
	CreatedAt   time.Time `json:"timestamp"`
}
