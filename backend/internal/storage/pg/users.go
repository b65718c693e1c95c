package pg

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	sharedpg "github.com/bloodlink-dev/bloodlink/shared/storage/pg"
)

const userColumns = `id, name, email, password_hash, phone, emergency_contact, role, profile_image,
	is_blocked, block_message, is_suspended, suspended_until, suspend_message, created_at, updated_at`

// =========================================================================
// Public Methods (satisfy the service.AuthStorage and service.UserStorage interfaces)
// =========================================================================

// SaveUser inserts a new user. A taken email yields 409.
func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := s.inTx(func(tx *sql.Tx) error {
		var err error
		id, err = s.saveUser(tx, user)
		return err
	})
	return id, err
}

func (s *Storage) UserByEmail(email domain.Email) (domain.User, error) {
	return s.userBy(s.db, "email", strings.ToLower(email))
}

func (s *Storage) User(id domain.UserId) (domain.User, error) {
	return s.userBy(s.db, "id", id)
}

func (s *Storage) UpdatePassword(id domain.UserId, passHash string) error {
	return s.inTx(func(tx *sql.Tx) error {
		res, err := tx.Exec("UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2", passHash, id)
		if err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		return checkAffected(res, errors.NotFound("User not found"))
	})
}

// UpdateProfile applies the non-nil fields and returns the updated user.
func (s *Storage) UpdateProfile(id domain.UserId, upd domain.UserProfileUpdate) (domain.User, error) {
	var user domain.User
	err := s.inTx(func(tx *sql.Tx) error {
		var err error
		user, err = s.updateProfile(tx, id, upd)
		return err
	})
	return user, err
}

func (s *Storage) SetProfileImage(id domain.UserId, path string) error {
	return s.inTx(func(tx *sql.Tx) error {
		res, err := tx.Exec("UPDATE users SET profile_image = $1, updated_at = now() WHERE id = $2", path, id)
		if err != nil {
			return fmt.Errorf("failed to set profile image: %w", err)
		}
		return checkAffected(res, errors.NotFound("User not found"))
	})
}

func (s *Storage) ListUsers(f domain.UserFilter, page domain.Page) ([]domain.User, int, error) {
	return s.listUsers(s.db, f, page)
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

func scanUser(row scanner) (domain.User, error) {
	var u domain.User
	var role string
	var suspendedUntil sql.NullTime
	err := row.Scan(&u.Id, &u.Name, &u.Email, &u.PassHash, &u.Phone, &u.EmergencyContact, &role, &u.ProfileImage,
		&u.IsBlocked, &u.BlockMessage, &u.IsSuspended, &suspendedUntil, &u.SuspendMessage, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	u.SuspendedUntil = timePtr(suspendedUntil)
	return u, nil
}

func (s *Storage) saveUser(q Querier, user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := q.QueryRow(`
		INSERT INTO users (name, email, password_hash, phone, emergency_contact, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		user.Name, strings.ToLower(user.Email), user.PassHash, user.Phone, user.EmergencyContact, string(user.Role),
	).Scan(&id)
	if err != nil {
		if sharedpg.IsUniqueViolation(err) {
			return 0, errors.Conflict("User with this email already exists")
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

// userBy fetches a single user by a trusted column name.
func (s *Storage) userBy(q Querier, column string, value any) (domain.User, error) {
	user, err := scanUser(q.QueryRow("SELECT "+userColumns+" FROM users WHERE "+column+" = $1", value))
	if err != nil {
		return domain.User{}, sharedpg.MapError(err, "User")
	}
	return user, nil
}

func (s *Storage) updateProfile(q Querier, id domain.UserId, upd domain.UserProfileUpdate) (domain.User, error) {
	user, err := scanUser(q.QueryRow(`
		UPDATE users SET
			name = COALESCE($2, name),
			phone = COALESCE($3, phone),
			emergency_contact = COALESCE($4, emergency_contact),
			updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		id, upd.Name, upd.Phone, upd.EmergencyContact,
	))
	if err != nil {
		return domain.User{}, sharedpg.MapError(err, "User")
	}
	return user, nil
}

func (s *Storage) listUsers(q Querier, uf domain.UserFilter, page domain.Page) ([]domain.User, int, error) {
	f := &filter{}
	if uf.Role != "" {
		f.add("role = $%d", string(uf.Role))
	}
	total, err := s.count(q, "users", f)
	if err != nil {
		return nil, 0, err
	}

	limit, args := f.page(page.Limit, page.Offset())
	rows, err := q.Query("SELECT "+userColumns+" FROM users"+f.where()+" ORDER BY id"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating users: %w", err)
	}
	return users, total, nil
}
