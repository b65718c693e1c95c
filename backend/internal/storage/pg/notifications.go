package pg

import (
	"database/sql"
	"fmt"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	sharedpg "github.com/bloodlink-dev/bloodlink/shared/storage/pg"
)

const notificationColumns = "id, user_id, type, title, message, link, is_read, created_at"

func (s *Storage) SaveNotification(n domain.Notification) (domain.NotificationId, error) {
	var id domain.NotificationId
	err := s.db.QueryRow(`
		INSERT INTO notifications (user_id, type, title, message, link)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		n.UserId, string(n.Type), n.Title, n.Message, n.Link,
	).Scan(&id)
	if err != nil {
		return 0, sharedpg.MapError(err, "Notification")
	}
	return id, nil
}

func (s *Storage) Notification(id domain.NotificationId) (domain.Notification, error) {
	n, err := scanNotification(s.db.QueryRow("SELECT "+notificationColumns+" FROM notifications WHERE id = $1", id))
	if err != nil {
		return domain.Notification{}, sharedpg.MapError(err, "Notification")
	}
	return n, nil
}

// ListNotifications returns the user's notifications, newest first.
func (s *Storage) ListNotifications(userId domain.UserId, unreadOnly bool, page domain.Page) ([]domain.Notification, int, error) {
	f := &filter{}
	f.add("user_id = $%d", userId)
	if unreadOnly {
		f.clauses = append(f.clauses, "NOT is_read")
	}
	total, err := s.count(s.db, "notifications", f)
	if err != nil {
		return nil, 0, err
	}

	limit, args := f.page(page.Limit, page.Offset())
	rows, err := s.db.Query("SELECT "+notificationColumns+" FROM notifications"+f.where()+
		" ORDER BY created_at DESC, id DESC"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []domain.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating notifications: %w", err)
	}
	return notifications, total, nil
}

func (s *Storage) UnreadCount(userId domain.UserId) (int, error) {
	f := &filter{}
	f.add("user_id = $%d", userId)
	f.clauses = append(f.clauses, "NOT is_read")
	return s.count(s.db, "notifications", f)
}

// MarkNotificationRead only touches the row if it belongs to userId.
func (s *Storage) MarkNotificationRead(id domain.NotificationId, userId domain.UserId) error {
	res, err := s.db.Exec("UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2", id, userId)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return checkAffected(res, errors.NotFound("Notification not found"))
}

// MarkAllNotificationsRead returns how many notifications changed.
func (s *Storage) MarkAllNotificationsRead(userId domain.UserId) (int64, error) {
	res, err := s.db.Exec("UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read", userId)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return res.RowsAffected()
}

func (s *Storage) DeleteNotification(id domain.NotificationId, userId domain.UserId) error {
	return s.inTx(func(tx *sql.Tx) error {
		res, err := tx.Exec("DELETE FROM notifications WHERE id = $1 AND user_id = $2", id, userId)
		if err != nil {
			return fmt.Errorf("failed to delete notification: %w", err)
		}
		return checkAffected(res, errors.NotFound("Notification not found"))
	})
}

func scanNotification(row scanner) (domain.Notification, error) {
	var n domain.Notification
	var typ string
	if err := row.Scan(&n.Id, &n.UserId, &typ, &n.Title, &n.Message, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
		return domain.Notification{}, err
	}
	n.Type = domain.NotificationType(typ)
	return n, nil
}
