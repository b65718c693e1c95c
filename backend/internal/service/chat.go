package service

import (
	"fmt"

	"github.com/bloodlink-dev/bloodlink/backend/internal/service/utils"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
)

// previewLength caps the message excerpt placed in a notification.
const previewLength = 80

type ChatService interface {
	Start(caller domain.User, participantId domain.UserId) (domain.Conversation, error)
	Conversations(caller domain.User) ([]domain.Conversation, error)
	Messages(caller domain.User, id domain.ConversationId, page domain.Page) ([]domain.ChatMessage, int, error)
	Send(caller domain.User, id domain.ConversationId, text string) (domain.ChatMessage, error)
	MarkRead(caller domain.User, id domain.ConversationId) (int64, error)
}

type ChatStorage interface {
	FindOrCreateConversation(a, b domain.UserId) (domain.Conversation, error)
	Conversation(id domain.ConversationId) (domain.Conversation, error)
	ListConversations(userId domain.UserId) ([]domain.Conversation, error)
	SaveMessage(msg domain.ChatMessage) (domain.ChatMessage, error)
	ListMessages(id domain.ConversationId, page domain.Page) ([]domain.ChatMessage, int, error)
	MarkRead(id domain.ConversationId, readerId domain.UserId) (int64, error)
}

type UserLookup interface {
	User(id domain.UserId) (domain.User, error)
}

type Chat struct {
	storage  ChatStorage
	users    UserLookup
	notifier *Notifier
}

func NewChat(storage ChatStorage, users UserLookup, notifier *Notifier) *Chat {
	return &Chat{storage: storage, users: users, notifier: notifier}
}

// Start returns the 1:1 conversation between the caller and participantId,
// creating it on first contact.
func (s *Chat) Start(caller domain.User, participantId domain.UserId) (domain.Conversation, error) {
	if participantId == caller.Id {
		return domain.Conversation{}, errors.BadRequest("You cannot start a conversation with yourself")
	}
	if _, err := s.users.User(participantId); err != nil {
		return domain.Conversation{}, err
	}
	return s.storage.FindOrCreateConversation(caller.Id, participantId)
}

func (s *Chat) Conversations(caller domain.User) ([]domain.Conversation, error) {
	return s.storage.ListConversations(caller.Id)
}

func (s *Chat) Messages(caller domain.User, id domain.ConversationId, page domain.Page) ([]domain.ChatMessage, int, error) {
	if _, err := s.conversation(caller, id); err != nil {
		return nil, 0, err
	}
	return s.storage.ListMessages(id, page)
}

func (s *Chat) Send(caller domain.User, id domain.ConversationId, text string) (domain.ChatMessage, error) {
	conv, err := s.conversation(caller, id)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	text = utils.SanitizeText(text)
	length := utils.TextLength(text)
	if length == 0 {
		return domain.ChatMessage{}, errors.BadRequest("Message cannot be empty")
	}
	if length > domain.MaxChatMessageLength {
		return domain.ChatMessage{}, errors.BadRequest("Message is longer than %d characters", domain.MaxChatMessageLength)
	}

	msg, err := s.storage.SaveMessage(domain.ChatMessage{
		ConversationId: id,
		SenderId:       caller.Id,
		Text:           text,
	})
	if err != nil {
		return domain.ChatMessage{}, err
	}

	s.notifier.Notify(conv.Other(caller.Id), domain.NotificationChat, "New message",
		preview(text), fmt.Sprintf("/chat/%s", id))
	return msg, nil
}

// MarkRead marks the other participant's messages as read by the caller.
func (s *Chat) MarkRead(caller domain.User, id domain.ConversationId) (int64, error) {
	if _, err := s.conversation(caller, id); err != nil {
		return 0, err
	}
	return s.storage.MarkRead(id, caller.Id)
}

func (s *Chat) conversation(caller domain.User, id domain.ConversationId) (domain.Conversation, error) {
	conv, err := s.storage.Conversation(id)
	if err != nil {
		return domain.Conversation{}, err
	}
	if !conv.HasParticipant(caller.Id) {
		return domain.Conversation{}, errors.Forbidden("You are not a participant of this conversation")
	}
	return conv, nil
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}
