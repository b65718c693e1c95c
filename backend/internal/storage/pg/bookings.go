package pg

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	sharedpg "github.com/bloodlink-dev/bloodlink/shared/storage/pg"
)

const bookingSelect = `
	SELECT b.id, b.donor_id, d.user_id, b.blood_bank_id, bb.user_id, b.donation_request_id, b.booking_date,
		b.booking_time, b.token_number, b.status, b.donor_name, b.blood_bank_name, b.notes, b.created_at, b.updated_at
	FROM bookings b
	JOIN donors d ON d.id = b.donor_id
	JOIN blood_banks bb ON bb.id = b.blood_bank_id`

const activeBookingStatuses = "('pending', 'confirmed', 'completed')"

// =========================================================================
// Public Methods (satisfy the service.BookingStorage interface)
// =========================================================================

// TakenTokens returns the tokens held by active bookings of a bank on a day, ascending.
func (s *Storage) TakenTokens(bankId domain.BloodBankId, date time.Time) ([]int, error) {
	rows, err := s.db.Query(`
		SELECT token_number FROM bookings
		WHERE blood_bank_id = $1 AND booking_date = $2 AND status IN `+activeBookingStatuses+`
		ORDER BY token_number`,
		bankId, domain.Today(date))
	if err != nil {
		return nil, fmt.Errorf("failed to query taken tokens: %w", err)
	}
	defer rows.Close()

	tokens := []int{}
	for rows.Next() {
		var t int
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tokens: %w", err)
	}
	return tokens, nil
}

// CreateBooking inserts the booking. When requestId is set, the donation
// request is moved from accepted to booked in the same transaction.
// domain.ErrTokenTaken is returned if another active booking holds the token.
func (s *Storage) CreateBooking(b domain.Booking, requestId *domain.DonationRequestId) (domain.BookingId, error) {
	var id domain.BookingId
	err := s.inTx(func(tx *sql.Tx) error {
		var err error
		id, err = s.createBooking(tx, b, requestId)
		if err != nil {
			return err
		}
		if requestId != nil {
			return s.updateDonationRequestStatus(tx, *requestId, domain.RequestAccepted, domain.RequestBooked)
		}
		return nil
	})
	return id, err
}

func (s *Storage) Booking(id domain.BookingId) (domain.Booking, error) {
	b, err := scanBooking(s.db.QueryRow(bookingSelect+" WHERE b.id = $1", id))
	if err != nil {
		return domain.Booking{}, sharedpg.MapError(err, "Booking")
	}
	return b, nil
}

// ListBookings returns bookings ordered by date and token.
func (s *Storage) ListBookings(bf domain.BookingFilter, page domain.Page) ([]domain.Booking, int, error) {
	f := &filter{}
	if bf.DonorId != 0 {
		f.add("b.donor_id = $%d", bf.DonorId)
	}
	if bf.BloodBankId != 0 {
		f.add("b.blood_bank_id = $%d", bf.BloodBankId)
	}
	if bf.Status != "" {
		f.add("b.status = $%d", string(bf.Status))
	}
	if bf.Date != nil {
		f.add("b.booking_date = $%d", domain.Today(*bf.Date))
	}

	total, err := s.count(s.db, "bookings b", f)
	if err != nil {
		return nil, 0, err
	}
	limit, args := f.page(page.Limit, page.Offset())
	rows, err := s.db.Query(bookingSelect+f.where()+" ORDER BY b.booking_date DESC, b.token_number"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating bookings: %w", err)
	}
	return bookings, total, nil
}

// UpdateBookingStatus moves a booking from one status to another; 409 if it
// was changed concurrently.
func (s *Storage) UpdateBookingStatus(id domain.BookingId, from, to domain.BookingStatus) error {
	return s.inTx(func(tx *sql.Tx) error {
		return s.updateBookingStatus(tx, id, from, to)
	})
}

// CompleteBooking marks a confirmed booking completed and records the
// donation on the donor atomically. The updated donor is returned.
func (s *Storage) CompleteBooking(b domain.Booking, rec domain.DonationRecord) (domain.Donor, error) {
	var donor domain.Donor
	err := s.inTx(func(tx *sql.Tx) error {
		if err := s.updateBookingStatus(tx, b.Id, domain.BookingConfirmed, domain.BookingCompleted); err != nil {
			return err
		}
		var err error
		donor, err = s.recordDonation(tx, b.DonorId, rec)
		return err
	})
	return donor, err
}

// =========================================================================
// Internal Methods
// =========================================================================

func (s *Storage) createBooking(q Querier, b domain.Booking, requestId *domain.DonationRequestId) (domain.BookingId, error) {
	var id domain.BookingId
	err := q.QueryRow(`
		INSERT INTO bookings (donor_id, blood_bank_id, donation_request_id, booking_date, booking_time,
			token_number, status, donor_name, blood_bank_name, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		b.DonorId, b.BloodBankId, nullInt64(requestId), domain.Today(b.Date), b.Time,
		b.TokenNumber, string(domain.BookingPending), b.DonorName, b.BloodBankName, b.Notes,
	).Scan(&id)
	if err != nil {
		if sharedpg.IsUniqueViolation(err, "bookings_active_token_idx") {
			return 0, domain.ErrTokenTaken
		}
		return 0, sharedpg.MapError(err, "Booking")
	}
	return id, nil
}

func (s *Storage) updateBookingStatus(q Querier, id domain.BookingId, from, to domain.BookingStatus) error {
	res, err := q.Exec(`
		UPDATE bookings SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`,
		id, string(from), string(to))
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	return checkAffected(res, errors.Conflict("Booking status has changed, reload and try again"))
}

func scanBooking(row scanner) (domain.Booking, error) {
	var b domain.Booking
	var status string
	var requestId sql.NullInt64
	err := row.Scan(&b.Id, &b.DonorId, &b.DonorUserId, &b.BloodBankId, &b.BloodBankUserId, &requestId, &b.Date,
		&b.Time, &b.TokenNumber, &status, &b.DonorName, &b.BloodBankName, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return domain.Booking{}, err
	}
	b.Status = domain.BookingStatus(status)
	b.DonationRequestId = int64Ptr(requestId)
	return b, nil
}
