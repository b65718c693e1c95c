package domain

import "time"

const MaxChatMessageLength = 2000

type Conversation struct {
	Id            ConversationId
	Participants  []UserId // always two, sorted ascending
	LastMessage   string
	LastMessageAt time.Time
	CreatedAt     time.Time
}

func (c Conversation) HasParticipant(userId UserId) bool {
	for _, p := range c.Participants {
		if p == userId {
			return true
		}
	}
	return false
}

// Other returns the participant that is not userId.
func (c Conversation) Other(userId UserId) UserId {
	for _, p := range c.Participants {
		if p != userId {
			return p
		}
	}
	return userId
}

type ChatMessage struct {
	Id             ChatMessageId
	ConversationId ConversationId
	SenderId       UserId
	Text           string
	IsRead         bool
	CreatedAt      time.Time
}
