package service

import (
	"fmt"
	"math"
	"time"

	"github.com/bloodlink-dev/bloodlink/backend/internal/service/utils"
	"github.com/bloodlink-dev/bloodlink/shared/config"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	"github.com/bloodlink-dev/bloodlink/shared/middleware/metrics"
	"github.com/google/uuid"
)

type TaxiService interface {
	Create(caller domain.User, taxi domain.TaxiBooking) (domain.TaxiBooking, error)
	Get(caller domain.User, id domain.TaxiBookingId) (domain.TaxiBooking, error)
	List(caller domain.User, page domain.Page) ([]domain.TaxiBooking, int, error)
	UpdateStatus(caller domain.User, id domain.TaxiBookingId, status domain.TaxiStatus) (domain.TaxiBooking, error)
	CreatePaymentOrder(caller domain.User, id domain.TaxiBookingId) (domain.PaymentOrder, string, error)
	VerifyPayment(caller domain.User, id domain.TaxiBookingId, orderId, paymentId, signature string) (domain.TaxiBooking, error)
}

type TaxiStorage interface {
	SaveTaxiBooking(t domain.TaxiBooking) (domain.TaxiBookingId, error)
	TaxiBooking(id domain.TaxiBookingId) (domain.TaxiBooking, error)
	ListTaxiBookings(userId domain.UserId, page domain.Page) ([]domain.TaxiBooking, int, error)
	UpdateTaxiStatus(id domain.TaxiBookingId, from, to domain.TaxiStatus) error
	SetPaymentOrder(id domain.TaxiBookingId, orderId string) error
	SetPaymentResult(id domain.TaxiBookingId, status domain.PaymentStatus, paymentId string) error
}

type PaymentGateway interface {
	CreateOrder(amount int64, currency, receipt string) (domain.PaymentOrder, error)
	VerifySignature(orderId, paymentId, signature string) bool
	KeyId() string
}

type BookingLookup interface {
	Booking(id domain.BookingId) (domain.Booking, error)
}

type Taxis struct {
	storage  TaxiStorage
	bookings BookingLookup
	payments PaymentGateway
	cfg      config.Taxi
	notifier *Notifier
	now      func() time.Time
}

func NewTaxis(storage TaxiStorage, bookings BookingLookup, payments PaymentGateway, cfg config.Taxi, notifier *Notifier) *Taxis {
	return &Taxis{
		storage:  storage,
		bookings: bookings,
		payments: payments,
		cfg:      cfg,
		notifier: notifier,
		now:      time.Now,
	}
}

// Fare is base + perKm * distance, rounded to two decimals.
func Fare(base, perKm, distanceKm float64) float64 {
	return math.Round((base+perKm*distanceKm)*100) / 100
}

// Create requests a ride to a donation appointment. The booking must belong
// to the caller and still be pending or confirmed.
func (s *Taxis) Create(caller domain.User, taxi domain.TaxiBooking) (domain.TaxiBooking, error) {
	booking, err := s.bookings.Booking(taxi.BookingId)
	if err != nil {
		return domain.TaxiBooking{}, err
	}
	if booking.DonorUserId != caller.Id && !caller.Role.IsAdmin() {
		return domain.TaxiBooking{}, errors.Forbidden("You can only request a taxi for your own booking")
	}
	if booking.Status != domain.BookingPending && booking.Status != domain.BookingConfirmed {
		return domain.TaxiBooking{}, errors.BadRequest("Booking is %s, a taxi can no longer be requested", booking.Status)
	}
	if taxi.DistanceKm <= 0 {
		return domain.TaxiBooking{}, errors.BadRequest("Distance must be positive")
	}
	if !taxi.PickupTime.After(s.now()) {
		return domain.TaxiBooking{}, errors.BadRequest("Pickup time must be in the future")
	}

	taxi.UserId = booking.DonorUserId
	taxi.PickupAddress = utils.SanitizeText(taxi.PickupAddress)
	taxi.DropAddress = utils.SanitizeText(taxi.DropAddress)
	if taxi.DropAddress == "" {
		taxi.DropAddress = booking.BloodBankName
	}
	taxi.Fare = Fare(s.cfg.BaseFare, s.cfg.PerKm, taxi.DistanceKm)
	taxi.Currency = s.cfg.Currency

	id, err := s.storage.SaveTaxiBooking(taxi)
	if err != nil {
		return domain.TaxiBooking{}, err
	}
	logger.Log.Info("taxi requested", "taxi_id", id, "booking_id", booking.Id, "fare", taxi.Fare)
	return s.storage.TaxiBooking(id)
}

func (s *Taxis) Get(caller domain.User, id domain.TaxiBookingId) (domain.TaxiBooking, error) {
	taxi, err := s.storage.TaxiBooking(id)
	if err != nil {
		return domain.TaxiBooking{}, err
	}
	if taxi.UserId != caller.Id && !caller.Role.IsAdmin() {
		return domain.TaxiBooking{}, errors.Forbidden("You can only view your own taxi bookings")
	}
	return taxi, nil
}

func (s *Taxis) List(caller domain.User, page domain.Page) ([]domain.TaxiBooking, int, error) {
	userId := caller.Id
	if caller.Role.IsAdmin() {
		userId = 0
	}
	return s.storage.ListTaxiBookings(userId, page)
}

// UpdateStatus lets the rider cancel, and admins dispatch, complete or cancel.
func (s *Taxis) UpdateStatus(caller domain.User, id domain.TaxiBookingId, status domain.TaxiStatus) (domain.TaxiBooking, error) {
	if !status.Valid() {
		return domain.TaxiBooking{}, errors.BadRequest("Invalid status %q", status)
	}
	taxi, err := s.Get(caller, id)
	if err != nil {
		return domain.TaxiBooking{}, err
	}

	var allowed bool
	switch {
	case caller.Role.IsAdmin():
		allowed = status == domain.TaxiConfirmed && taxi.Status == domain.TaxiRequested ||
			status == domain.TaxiCompleted && taxi.Status == domain.TaxiConfirmed ||
			status == domain.TaxiCancelled && taxiOpen(taxi.Status)
	default:
		allowed = status == domain.TaxiCancelled && taxiOpen(taxi.Status)
	}
	if !allowed {
		return domain.TaxiBooking{}, errors.BadRequest("Cannot change taxi from %s to %s", taxi.Status, status)
	}

	if err := s.storage.UpdateTaxiStatus(id, taxi.Status, status); err != nil {
		return domain.TaxiBooking{}, err
	}
	taxi.Status = status
	if caller.Id != taxi.UserId {
		s.notifier.Notify(taxi.UserId, domain.NotificationTaxi, "Taxi "+string(status),
			fmt.Sprintf("Your taxi for %s is now %s.", taxi.PickupTime.UTC().Format("2006-01-02 15:04"), status), taxiLink(id))
	}
	return taxi, nil
}

// CreatePaymentOrder opens a gateway order for the fare in minor units and
// returns it with the public key id the client needs for checkout.
func (s *Taxis) CreatePaymentOrder(caller domain.User, id domain.TaxiBookingId) (domain.PaymentOrder, string, error) {
	taxi, err := s.Get(caller, id)
	if err != nil {
		return domain.PaymentOrder{}, "", err
	}
	if !taxiOpen(taxi.Status) {
		return domain.PaymentOrder{}, "", errors.BadRequest("Taxi is %s", taxi.Status)
	}
	if taxi.PaymentStatus == domain.PaymentPaid {
		return domain.PaymentOrder{}, "", errors.Conflict("Taxi fare is already paid")
	}

	amount := int64(math.Round(taxi.Fare * 100))
	order, err := s.payments.CreateOrder(amount, taxi.Currency, uuid.NewString())
	if err != nil {
		logger.Log.Error("payment order failed", "taxi_id", id, "error", err)
		return domain.PaymentOrder{}, "", err
	}
	if err := s.storage.SetPaymentOrder(id, order.OrderId); err != nil {
		return domain.PaymentOrder{}, "", err
	}
	logger.Log.Info("payment order created", "taxi_id", id, "order_id", order.OrderId, "amount", amount)
	return order, s.payments.KeyId(), nil
}

// VerifyPayment checks the gateway signature over order_id|payment_id. A
// valid signature marks the fare paid and confirms the taxi; an invalid one
// marks the payment failed.
func (s *Taxis) VerifyPayment(caller domain.User, id domain.TaxiBookingId, orderId, paymentId, signature string) (domain.TaxiBooking, error) {
	taxi, err := s.Get(caller, id)
	if err != nil {
		return domain.TaxiBooking{}, err
	}
	if taxi.PaymentStatus == domain.PaymentPaid {
		return domain.TaxiBooking{}, errors.Conflict("Taxi fare is already paid")
	}
	if taxi.PaymentOrderId == "" || taxi.PaymentOrderId != orderId {
		return domain.TaxiBooking{}, errors.BadRequest("Order does not belong to this taxi booking")
	}

	if !s.payments.VerifySignature(orderId, paymentId, signature) {
		metrics.PaymentVerifications.WithLabelValues("invalid").Inc()
		logger.Log.Warn("payment signature mismatch", "taxi_id", id, "order_id", orderId)
		if err := s.storage.SetPaymentResult(id, domain.PaymentFailed, paymentId); err != nil {
			return domain.TaxiBooking{}, err
		}
		return domain.TaxiBooking{}, errors.BadRequest("Payment verification failed")
	}

	metrics.PaymentVerifications.WithLabelValues("valid").Inc()
	if err := s.storage.SetPaymentResult(id, domain.PaymentPaid, paymentId); err != nil {
		return domain.TaxiBooking{}, err
	}
	logger.Log.Info("taxi fare paid", "taxi_id", id, "payment_id", paymentId)
	return s.storage.TaxiBooking(id)
}

func taxiOpen(status domain.TaxiStatus) bool {
	return status == domain.TaxiRequested || status == domain.TaxiConfirmed
}

func taxiLink(id domain.TaxiBookingId) string {
	return fmt.Sprintf("/taxi/%d", id)
}
