package domain

import "time"

// Conversation is a direct-message channel between two users. Messages
// may only flow once the recipient has accepted it.
type Conversation struct {
	ID             int64
	Participant1ID int64
	Participant2ID int64
	Accepted       bool
	CreatedAt      time.Time
}

// Message is a single direct message within a conversation.
type Message struct {
	ID             int64
	ConversationID int64
	SenderID       int64
	Content        string
	CreatedAt      time.Time
}
