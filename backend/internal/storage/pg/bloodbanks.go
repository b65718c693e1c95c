package pg

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	sharedpg "github.com/bloodlink-dev/bloodlink/shared/storage/pg"
)

const bloodBankColumns = `id, user_id, name, registration_number, email, phone, address, status,
	is_blocked, block_message, is_suspended, suspended_until, suspend_message, created_at, updated_at`

// =========================================================================
// Public Methods (satisfy the service.BloodBankStorage interface)
// =========================================================================

// SaveBloodBank inserts a blood bank in pending status. A second profile for
// the same user or a reused registration number yields 409.
func (s *Storage) SaveBloodBank(b domain.BloodBank) (domain.BloodBankId, error) {
	var id domain.BloodBankId
	err := s.inTx(func(tx *sql.Tx) error {
		var err error
		id, err = s.saveBloodBank(tx, b)
		return err
	})
	return id, err
}

func (s *Storage) BloodBank(id domain.BloodBankId) (domain.BloodBank, error) {
	return s.bloodBankBy(s.db, "id", id)
}

func (s *Storage) BloodBankByUserId(userId domain.UserId) (domain.BloodBank, error) {
	return s.bloodBankBy(s.db, "user_id", userId)
}

func (s *Storage) ListBloodBanks(bf domain.BloodBankFilter, page domain.Page) ([]domain.BloodBank, int, error) {
	return s.listBloodBanks(s.db, bf, page)
}

func (s *Storage) UpdateBloodBank(b domain.BloodBank) (domain.BloodBank, error) {
	var updated domain.BloodBank
	err := s.inTx(func(tx *sql.Tx) error {
		var err error
		updated, err = s.updateBloodBank(tx, b)
		return err
	})
	return updated, err
}

func (s *Storage) SetBloodBankStatus(id domain.BloodBankId, status domain.BloodBankStatus) error {
	return s.execBloodBank("UPDATE blood_banks SET status = $2, updated_at = now() WHERE id = $1", id, string(status))
}

func (s *Storage) SetBloodBankBlock(id domain.BloodBankId, blocked bool, message string) error {
	if !blocked {
		message = ""
	}
	return s.execBloodBank(`
		UPDATE blood_banks SET is_blocked = $2, block_message = $3, updated_at = now()
		WHERE id = $1`, id, blocked, message)
}

// SetBloodBankSuspension suspends (until may be nil for an open-ended
// suspension) or lifts the suspension when suspended is false.
func (s *Storage) SetBloodBankSuspension(id domain.BloodBankId, suspended bool, until *time.Time, message string) error {
	if !suspended {
		until, message = nil, ""
	}
	return s.execBloodBank(`
		UPDATE blood_banks SET is_suspended = $2, suspended_until = $3, suspend_message = $4, updated_at = now()
		WHERE id = $1`, id, suspended, nullTime(until), message)
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) execBloodBank(query string, args ...any) error {
	return s.inTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(query, args...)
		if err != nil {
			return sharedpg.MapError(err, "Blood bank")
		}
		return checkAffected(res, errors.NotFound("Blood bank not found"))
	})
}

func scanBloodBank(row scanner) (domain.BloodBank, error) {
	var b domain.BloodBank
	var status string
	var until sql.NullTime
	err := row.Scan(&b.Id, &b.UserId, &b.Name, &b.RegistrationNumber, &b.Email, &b.Phone, &b.Address, &status,
		&b.IsBlocked, &b.BlockMessage, &b.IsSuspended, &until, &b.SuspendMessage, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return domain.BloodBank{}, err
	}
	b.Status = domain.BloodBankStatus(status)
	b.SuspendedUntil = timePtr(until)
	return b, nil
}

func (s *Storage) saveBloodBank(q Querier, b domain.BloodBank) (domain.BloodBankId, error) {
	var id domain.BloodBankId
	err := q.QueryRow(`
		INSERT INTO blood_banks (user_id, name, registration_number, email, phone, address, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		b.UserId, b.Name, b.RegistrationNumber, strings.ToLower(b.Email), b.Phone, b.Address, string(domain.BloodBankPending),
	).Scan(&id)
	if err != nil {
		if sharedpg.IsUniqueViolation(err, "blood_banks_user_id_key") {
			return 0, errors.Conflict("Blood bank profile already exists for this user")
		}
		if sharedpg.IsUniqueViolation(err, "blood_banks_registration_number_key") {
			return 0, errors.Conflict("Registration number is already in use")
		}
		return 0, sharedpg.MapError(err, "Blood bank")
	}
	return id, nil
}

func (s *Storage) bloodBankBy(q Querier, column string, value any) (domain.BloodBank, error) {
	b, err := scanBloodBank(q.QueryRow("SELECT "+bloodBankColumns+" FROM blood_banks WHERE "+column+" = $1", value))
	if err != nil {
		return domain.BloodBank{}, sharedpg.MapError(err, "Blood bank")
	}
	return b, nil
}

func (s *Storage) listBloodBanks(q Querier, bf domain.BloodBankFilter, page domain.Page) ([]domain.BloodBank, int, error) {
	f := &filter{}
	if bf.Status != "" {
		f.add("status = $%d", string(bf.Status))
	}
	if bf.City != "" {
		f.add("lower(address ->> 'city') = lower($%d)", bf.City)
	}
	total, err := s.count(q, "blood_banks", f)
	if err != nil {
		return nil, 0, err
	}

	limit, args := f.page(page.Limit, page.Offset())
	rows, err := q.Query("SELECT "+bloodBankColumns+" FROM blood_banks"+f.where()+" ORDER BY name, id"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list blood banks: %w", err)
	}
	defer rows.Close()

	banks := []domain.BloodBank{}
	for rows.Next() {
		b, err := scanBloodBank(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan blood bank: %w", err)
		}
		banks = append(banks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating blood banks: %w", err)
	}
	return banks, total, nil
}

func (s *Storage) updateBloodBank(q Querier, b domain.BloodBank) (domain.BloodBank, error) {
	updated, err := scanBloodBank(q.QueryRow(`
		UPDATE blood_banks SET
			name = $2, registration_number = $3, email = $4, phone = $5, address = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+bloodBankColumns,
		b.Id, b.Name, b.RegistrationNumber, strings.ToLower(b.Email), b.Phone, b.Address,
	))
	if err != nil {
		if sharedpg.IsUniqueViolation(err, "blood_banks_registration_number_key") {
			return domain.BloodBank{}, errors.Conflict("Registration number is already in use")
		}
		return domain.BloodBank{}, sharedpg.MapError(err, "Blood bank")
	}
	return updated, nil
}
