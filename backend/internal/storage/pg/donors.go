package pg

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	sharedpg "github.com/bloodlink-dev/bloodlink/shared/storage/pg"
)

const donorColumns = `id, user_id, name, blood_group, phone, email, address, date_of_birth, is_available,
	donation_history, priority_points, last_donation_date, created_at, updated_at`

// =========================================================================
// Public Methods (satisfy the service.DonorStorage interface)
// =========================================================================

// SaveDonor inserts a donor profile. A second profile for the same user yields 409.
func (s *Storage) SaveDonor(d domain.Donor) (domain.DonorId, error) {
	var id domain.DonorId
	err := s.inTx(func(tx *sql.Tx) error {
		var err error
		id, err = s.saveDonor(tx, d)
		return err
	})
	return id, err
}

func (s *Storage) Donor(id domain.DonorId) (domain.Donor, error) {
	return s.donorBy(s.db, "id", id, false)
}

func (s *Storage) DonorByUserId(userId domain.UserId) (domain.Donor, error) {
	return s.donorBy(s.db, "user_id", userId, false)
}

// ListDonors returns donors ordered by priority points, highest first.
func (s *Storage) ListDonors(df domain.DonorFilter, page domain.Page) ([]domain.Donor, int, error) {
	return s.listDonors(s.db, df, page)
}

// UpdateDonor overwrites the editable profile fields.
func (s *Storage) UpdateDonor(d domain.Donor) (domain.Donor, error) {
	var updated domain.Donor
	err := s.inTx(func(tx *sql.Tx) error {
		var err error
		updated, err = s.updateDonor(tx, d)
		return err
	})
	return updated, err
}

func (s *Storage) SetDonorAvailability(id domain.DonorId, available bool) error {
	return s.inTx(func(tx *sql.Tx) error {
		res, err := tx.Exec("UPDATE donors SET is_available = $2, updated_at = now() WHERE id = $1", id, available)
		if err != nil {
			return fmt.Errorf("failed to set donor availability: %w", err)
		}
		return checkAffected(res, errors.NotFound("Donor not found"))
	})
}

// RecordDonation appends rec to the donor's history under a row lock.
func (s *Storage) RecordDonation(id domain.DonorId, rec domain.DonationRecord) (domain.Donor, error) {
	var donor domain.Donor
	err := s.inTx(func(tx *sql.Tx) error {
		var err error
		donor, err = s.recordDonation(tx, id, rec)
		return err
	})
	return donor, err
}

func (s *Storage) DeleteDonor(id domain.DonorId) error {
	return s.inTx(func(tx *sql.Tx) error {
		res, err := tx.Exec("DELETE FROM donors WHERE id = $1", id)
		if err != nil {
			return sharedpg.MapError(err, "Donor")
		}
		return checkAffected(res, errors.NotFound("Donor not found"))
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func scanDonor(row scanner) (domain.Donor, error) {
	var d domain.Donor
	var group string
	var dob, last sql.NullTime
	err := row.Scan(&d.Id, &d.UserId, &d.Name, &group, &d.Phone, &d.Email, &d.Address, &dob, &d.IsAvailable,
		&d.DonationHistory, &d.PriorityPoints, &last, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return domain.Donor{}, err
	}
	d.BloodGroup = domain.BloodGroup(group)
	d.DateOfBirth = timePtr(dob)
	d.LastDonationDate = timePtr(last)
	return d, nil
}

func (s *Storage) saveDonor(q Querier, d domain.Donor) (domain.DonorId, error) {
	var id domain.DonorId
	err := q.QueryRow(`
		INSERT INTO donors (user_id, name, blood_group, phone, email, address, date_of_birth, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		d.UserId, d.Name, string(d.BloodGroup), d.Phone, strings.ToLower(d.Email), d.Address,
		nullTime(d.DateOfBirth), d.IsAvailable,
	).Scan(&id)
	if err != nil {
		if sharedpg.IsUniqueViolation(err) {
			return 0, errors.Conflict("Donor profile already exists for this user")
		}
		return 0, sharedpg.MapError(err, "Donor")
	}
	return id, nil
}

func (s *Storage) donorBy(q Querier, column string, value any, forUpdate bool) (domain.Donor, error) {
	query := "SELECT " + donorColumns + " FROM donors WHERE " + column + " = $1"
	if forUpdate {
		query += " FOR UPDATE"
	}
	d, err := scanDonor(q.QueryRow(query, value))
	if err != nil {
		return domain.Donor{}, sharedpg.MapError(err, "Donor")
	}
	return d, nil
}

func (s *Storage) listDonors(q Querier, df domain.DonorFilter, page domain.Page) ([]domain.Donor, int, error) {
	f := &filter{}
	if df.BloodGroup != "" {
		f.add("blood_group = $%d", string(df.BloodGroup))
	}
	if df.City != "" {
		f.add("lower(address ->> 'city') = lower($%d)", df.City)
	}
	if df.Available != nil {
		f.add("is_available = $%d", *df.Available)
	}
	total, err := s.count(q, "donors", f)
	if err != nil {
		return nil, 0, err
	}

	limit, args := f.page(page.Limit, page.Offset())
	rows, err := q.Query("SELECT "+donorColumns+" FROM donors"+f.where()+" ORDER BY priority_points DESC, id"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list donors: %w", err)
	}
	defer rows.Close()

	donors := []domain.Donor{}
	for rows.Next() {
		d, err := scanDonor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan donor: %w", err)
		}
		donors = append(donors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating donors: %w", err)
	}
	return donors, total, nil
}

func (s *Storage) updateDonor(q Querier, d domain.Donor) (domain.Donor, error) {
	updated, err := scanDonor(q.QueryRow(`
		UPDATE donors SET
			name = $2, blood_group = $3, phone = $4, email = $5, address = $6, date_of_birth = $7,
			updated_at = now()
		WHERE id = $1
		RETURNING `+donorColumns,
		d.Id, d.Name, string(d.BloodGroup), d.Phone, strings.ToLower(d.Email), d.Address, nullTime(d.DateOfBirth),
	))
	if err != nil {
		return domain.Donor{}, sharedpg.MapError(err, "Donor")
	}
	return updated, nil
}

func (s *Storage) recordDonation(q Querier, id domain.DonorId, rec domain.DonationRecord) (domain.Donor, error) {
	donor, err := s.donorBy(q, "id", id, true)
	if err != nil {
		return domain.Donor{}, err
	}
	donor.RecordDonation(rec)

	_, err = q.Exec(`
		UPDATE donors SET
			donation_history = $2, last_donation_date = $3, priority_points = $4, is_available = $5,
			updated_at = now()
		WHERE id = $1`,
		id, donor.DonationHistory, nullTime(donor.LastDonationDate), donor.PriorityPoints, donor.IsAvailable)
	if err != nil {
		return domain.Donor{}, fmt.Errorf("failed to record donation: %w", err)
	}
	return donor, nil
}
