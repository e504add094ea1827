package entity

import "time"

// MaxMessageLength is the maximum length of message content in characters.
const MaxMessageLength = 1000

// Message is one entry of a match thread. Content is immutable; only IsRead changes.
type Message struct {
	ID         string
	MatchID    string
	SenderID   string
	ReceiverID string
	Content    string
	IsRead     bool
	CreatedAt  time.Time
}
