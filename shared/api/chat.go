package api

import (
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
)

type StartConversationRequest struct {
	ParticipantId int64 `json:"participant_id" validate:"required,min=1"`
}

type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

type ConversationResponse struct {
	Id            string    `json:"id"`
	Participants  []int64   `json:"participants"`
	LastMessage   string    `json:"last_message,omitempty"`
	LastMessageAt time.Time `json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewConversationResponse(c domain.Conversation) ConversationResponse {
	return ConversationResponse{
		Id:            c.Id,
		Participants:  c.Participants,
		LastMessage:   c.LastMessage,
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
	}
}

func NewConversationResponses(cs []domain.Conversation) []ConversationResponse {
	out := make([]ConversationResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, NewConversationResponse(c))
	}
	return out
}

type ChatMessageResponse struct {
	Id             string    `json:"id"`
	ConversationId string    `json:"conversation_id"`
	SenderId       int64     `json:"sender_id"`
	Text           string    `json:"text"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewChatMessageResponse(m domain.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		Id:             m.Id,
		ConversationId: m.ConversationId,
		SenderId:       m.SenderId,
		Text:           m.Text,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
	}
}

func NewChatMessageResponses(ms []domain.ChatMessage) []ChatMessageResponse {
	out := make([]ChatMessageResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, NewChatMessageResponse(m))
	}
	return out
}
