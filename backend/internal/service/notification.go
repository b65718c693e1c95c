package service

import (
	"github.com/bloodlink-dev/bloodlink/backend/internal/utils/email"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	"github.com/bloodlink-dev/bloodlink/shared/middleware/metrics"
)

type NotificationService interface {
	List(userId domain.UserId, unreadOnly bool, page domain.Page) ([]domain.Notification, int, error)
	UnreadCount(userId domain.UserId) (int, error)
	MarkRead(id domain.NotificationId, userId domain.UserId) error
	MarkAllRead(userId domain.UserId) (int64, error)
	Delete(id domain.NotificationId, userId domain.UserId) error
}

type NotificationStorage interface {
	SaveNotification(n domain.Notification) (domain.NotificationId, error)
	ListNotifications(userId domain.UserId, unreadOnly bool, page domain.Page) ([]domain.Notification, int, error)
	UnreadCount(userId domain.UserId) (int, error)
	MarkNotificationRead(id domain.NotificationId, userId domain.UserId) error
	MarkAllNotificationsRead(userId domain.UserId) (int64, error)
	DeleteNotification(id domain.NotificationId, userId domain.UserId) error
}

type Email interface {
	Send(recipientEmail, subject, body string) error
	IsCorrect(email domain.Email) error
}

// Notifier delivers in-app notifications and transactional email on behalf
// of the other services. Delivery failures are logged and never fail the
// operation that triggered them.
type Notifier struct {
	storage NotificationStorage
	email   Email
}

func NewNotifier(storage NotificationStorage, email Email) *Notifier {
	return &Notifier{storage: storage, email: email}
}

func (n *Notifier) Notify(userId domain.UserId, typ domain.NotificationType, title, message, link string) {
	if n == nil || userId == 0 {
		return
	}
	_, err := n.storage.SaveNotification(domain.Notification{
		UserId:  userId,
		Type:    typ,
		Title:   title,
		Message: message,
		Link:    link,
	})
	if err != nil {
		logger.Log.Error("failed to save notification",
			"component", "notifier",
			"user_id", userId,
			"type", typ,
			"error", err)
	}
}

func (n *Notifier) Mail(recipient domain.Email, msg email.Message) {
	if n == nil || n.email == nil || recipient == "" {
		return
	}
	if err := n.email.Send(recipient, msg.Subject, msg.Body); err != nil {
		metrics.EmailsSent.WithLabelValues("error").Inc()
		logger.Log.Error("failed to send email",
			"component", "notifier",
			"subject", msg.Subject,
			"error", err)
		return
	}
	metrics.EmailsSent.WithLabelValues("ok").Inc()
}

type Notifications struct {
	storage NotificationStorage
}

func NewNotifications(storage NotificationStorage) *Notifications {
	return &Notifications{storage: storage}
}

func (s *Notifications) List(userId domain.UserId, unreadOnly bool, page domain.Page) ([]domain.Notification, int, error) {
	return s.storage.ListNotifications(userId, unreadOnly, page)
}

func (s *Notifications) UnreadCount(userId domain.UserId) (int, error) {
	return s.storage.UnreadCount(userId)
}

// MarkRead and Delete are scoped to the owner in storage, so a foreign id
// looks the same as a missing one.
func (s *Notifications) MarkRead(id domain.NotificationId, userId domain.UserId) error {
	if id <= 0 {
		return errors.BadRequest("Invalid notification id")
	}
	return s.storage.MarkNotificationRead(id, userId)
}

func (s *Notifications) MarkAllRead(userId domain.UserId) (int64, error) {
	return s.storage.MarkAllNotificationsRead(userId)
}

func (s *Notifications) Delete(id domain.NotificationId, userId domain.UserId) error {
	if id <= 0 {
		return errors.BadRequest("Invalid notification id")
	}
	return s.storage.DeleteNotification(id, userId)
}
