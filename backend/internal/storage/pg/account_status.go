package pg

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
)

// =========================================================================
// Public Methods (satisfy accountstatus.Storage and service.UserStorage)
// =========================================================================

// RestrictedUsers returns every blocked or suspended user. Used to fill the
// account status cache.
func (s *Storage) RestrictedUsers() (map[domain.UserId]domain.AccountStatus, error) {
	return s.restrictedUsers(s.db)
}

func (s *Storage) BlockUser(id domain.UserId, message string) error {
	return s.inTx(func(tx *sql.Tx) error {
		return s.setUserBlock(tx, id, true, message)
	})
}

func (s *Storage) UnblockUser(id domain.UserId) error {
	return s.inTx(func(tx *sql.Tx) error {
		return s.setUserBlock(tx, id, false, "")
	})
}

// SuspendUser suspends until the given time, or indefinitely when until is nil.
func (s *Storage) SuspendUser(id domain.UserId, until *time.Time, message string) error {
	return s.inTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			UPDATE users
			SET is_suspended = TRUE, suspended_until = $2, suspend_message = $3, updated_at = now()
			WHERE id = $1`,
			id, nullTime(until), message)
		if err != nil {
			return fmt.Errorf("failed to suspend user: %w", err)
		}
		return checkAffected(res, errors.NotFound("User not found"))
	})
}

// LiftSuspension clears the suspension flags. Also used when an expired
// suspension is noticed on login or by the auth middleware.
func (s *Storage) LiftSuspension(id domain.UserId) error {
	return s.inTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			UPDATE users
			SET is_suspended = FALSE, suspended_until = NULL, suspend_message = '', updated_at = now()
			WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to lift suspension: %w", err)
		}
		return checkAffected(res, errors.NotFound("User not found"))
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) restrictedUsers(q Querier) (map[domain.UserId]domain.AccountStatus, error) {
	rows, err := q.Query(`
		SELECT id, is_blocked, block_message, is_suspended, suspended_until, suspend_message
		FROM users
		WHERE is_blocked OR is_suspended`)
	if err != nil {
		return nil, fmt.Errorf("failed to query restricted users: %w", err)
	}
	defer rows.Close()

	statuses := make(map[domain.UserId]domain.AccountStatus)
	for rows.Next() {
		var id domain.UserId
		var st domain.AccountStatus
		var until sql.NullTime
		if err := rows.Scan(&id, &st.IsBlocked, &st.BlockMessage, &st.IsSuspended, &until, &st.SuspendMessage); err != nil {
			return nil, fmt.Errorf("failed to scan restricted user: %w", err)
		}
		st.SuspendedUntil = timePtr(until)
		statuses[id] = st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating restricted users: %w", err)
	}
	return statuses, nil
}

func (s *Storage) setUserBlock(q Querier, id domain.UserId, blocked bool, message string) error {
	res, err := q.Exec(`
		UPDATE users SET is_blocked = $2, block_message = $3, updated_at = now()
		WHERE id = $1`,
		id, blocked, message)
	if err != nil {
		return fmt.Errorf("failed to update block status: %w", err)
	}
	return checkAffected(res, errors.NotFound("User not found"))
}
