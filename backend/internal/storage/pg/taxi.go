package pg

import (
	"database/sql"
	"fmt"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	sharedpg "github.com/bloodlink-dev/bloodlink/shared/storage/pg"
)

const taxiColumns = `id, user_id, booking_id, pickup_address, drop_address, pickup_time, distance_km, fare, currency,
	status, payment_status, payment_order_id, payment_id, created_at, updated_at`

func (s *Storage) SaveTaxiBooking(t domain.TaxiBooking) (domain.TaxiBookingId, error) {
	var id domain.TaxiBookingId
	err := s.db.QueryRow(`
		INSERT INTO taxi_bookings (user_id, booking_id, pickup_address, drop_address, pickup_time, distance_km,
			fare, currency, status, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		t.UserId, t.BookingId, t.PickupAddress, t.DropAddress, t.PickupTime, t.DistanceKm,
		t.Fare, t.Currency, string(domain.TaxiRequested), string(domain.PaymentUnpaid),
	).Scan(&id)
	if err != nil {
		return 0, sharedpg.MapError(err, "Taxi booking")
	}
	return id, nil
}

func (s *Storage) TaxiBooking(id domain.TaxiBookingId) (domain.TaxiBooking, error) {
	t, err := scanTaxi(s.db.QueryRow("SELECT "+taxiColumns+" FROM taxi_bookings WHERE id = $1", id))
	if err != nil {
		return domain.TaxiBooking{}, sharedpg.MapError(err, "Taxi booking")
	}
	return t, nil
}

// ListTaxiBookings returns taxi bookings newest first. userId 0 lists everyone's.
func (s *Storage) ListTaxiBookings(userId domain.UserId, page domain.Page) ([]domain.TaxiBooking, int, error) {
	f := &filter{}
	if userId != 0 {
		f.add("user_id = $%d", userId)
	}
	total, err := s.count(s.db, "taxi_bookings", f)
	if err != nil {
		return nil, 0, err
	}

	limit, args := f.page(page.Limit, page.Offset())
	rows, err := s.db.Query("SELECT "+taxiColumns+" FROM taxi_bookings"+f.where()+" ORDER BY created_at DESC, id DESC"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list taxi bookings: %w", err)
	}
	defer rows.Close()

	taxis := []domain.TaxiBooking{}
	for rows.Next() {
		t, err := scanTaxi(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan taxi booking: %w", err)
		}
		taxis = append(taxis, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating taxi bookings: %w", err)
	}
	return taxis, total, nil
}

// UpdateTaxiStatus moves the ride from one status to another; 409 on a concurrent change.
func (s *Storage) UpdateTaxiStatus(id domain.TaxiBookingId, from, to domain.TaxiStatus) error {
	res, err := s.db.Exec(`
		UPDATE taxi_bookings SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`, id, string(from), string(to))
	if err != nil {
		return fmt.Errorf("failed to update taxi status: %w", err)
	}
	return checkAffected(res, errors.Conflict("Taxi booking status has changed, reload and try again"))
}

func (s *Storage) SetPaymentOrder(id domain.TaxiBookingId, orderId string) error {
	res, err := s.db.Exec(`
		UPDATE taxi_bookings SET payment_order_id = $2, payment_status = $3, updated_at = now()
		WHERE id = $1`, id, orderId, string(domain.PaymentCreated))
	if err != nil {
		return fmt.Errorf("failed to set payment order: %w", err)
	}
	return checkAffected(res, errors.NotFound("Taxi booking not found"))
}

// SetPaymentResult stores the verification outcome. A paid ride that was
// still requested is confirmed in the same transaction.
func (s *Storage) SetPaymentResult(id domain.TaxiBookingId, status domain.PaymentStatus, paymentId string) error {
	return s.inTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			UPDATE taxi_bookings SET payment_status = $2, payment_id = $3, updated_at = now()
			WHERE id = $1`, id, string(status), paymentId)
		if err != nil {
			return fmt.Errorf("failed to set payment result: %w", err)
		}
		if err := checkAffected(res, errors.NotFound("Taxi booking not found")); err != nil {
			return err
		}
		if status != domain.PaymentPaid {
			return nil
		}
		_, err = tx.Exec(`
			UPDATE taxi_bookings SET status = $2, updated_at = now()
			WHERE id = $1 AND status = $3`, id, string(domain.TaxiConfirmed), string(domain.TaxiRequested))
		if err != nil {
			return fmt.Errorf("failed to confirm paid taxi: %w", err)
		}
		return nil
	})
}

func scanTaxi(row scanner) (domain.TaxiBooking, error) {
	var t domain.TaxiBooking
	var status, payment string
	err := row.Scan(&t.Id, &t.UserId, &t.BookingId, &t.PickupAddress, &t.DropAddress, &t.PickupTime, &t.DistanceKm,
		&t.Fare, &t.Currency, &status, &payment, &t.PaymentOrderId, &t.PaymentId, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.TaxiBooking{}, err
	}
	t.Status = domain.TaxiStatus(status)
	t.PaymentStatus = domain.PaymentStatus(payment)
	return t, nil
}
