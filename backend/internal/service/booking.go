package service

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/bloodlink-dev/bloodlink/backend/internal/service/utils"
	"github.com/bloodlink-dev/bloodlink/backend/internal/utils/email"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	"github.com/bloodlink-dev/bloodlink/shared/middleware/metrics"
)

// maxTokenAttempts bounds retries when a concurrent booking takes the token first.
const maxTokenAttempts = 5

const (
	BookingSourceDirect  = "direct"
	BookingSourceRequest = "donation_request"
)

type BookingService interface {
	Create(userId domain.UserId, booking domain.Booking) (domain.Booking, error)
	Book(booking domain.Booking, requestId *domain.DonationRequestId, source string) (domain.Booking, error)
	Get(caller domain.User, id domain.BookingId) (domain.Booking, error)
	List(caller domain.User, filter domain.BookingFilter, page domain.Page) ([]domain.Booking, int, error)
	UpdateStatus(caller domain.User, id domain.BookingId, status domain.BookingStatus) (domain.Booking, error)
	Slots(bankId domain.BloodBankId, date time.Time) ([]int, error)
}

type BookingStorage interface {
	TakenTokens(bankId domain.BloodBankId, date time.Time) ([]int, error)
	CreateBooking(b domain.Booking, requestId *domain.DonationRequestId) (domain.BookingId, error)
	Booking(id domain.BookingId) (domain.Booking, error)
	ListBookings(f domain.BookingFilter, page domain.Page) ([]domain.Booking, int, error)
	UpdateBookingStatus(id domain.BookingId, from, to domain.BookingStatus) error
	CompleteBooking(b domain.Booking, rec domain.DonationRecord) (domain.Donor, error)
}

// DonorLookup is the slice of donor storage other services read from.
type DonorLookup interface {
	Donor(id domain.DonorId) (domain.Donor, error)
	DonorByUserId(userId domain.UserId) (domain.Donor, error)
}

// BankLookup combines plain reads with the active-bank gate.
type BankLookup interface {
	BankGate
	Get(id domain.BloodBankId) (domain.BloodBank, error)
}

type Bookings struct {
	storage  BookingStorage
	donors   DonorLookup
	banks    BankLookup
	notifier *Notifier
	now      func() time.Time
}

func NewBookings(storage BookingStorage, donors DonorLookup, banks BankLookup, notifier *Notifier) *Bookings {
	return &Bookings{
		storage:  storage,
		donors:   donors,
		banks:    banks,
		notifier: notifier,
		now:      time.Now,
	}
}

// Create books a slot for the calling donor at an approved blood bank.
func (s *Bookings) Create(userId domain.UserId, booking domain.Booking) (domain.Booking, error) {
	donor, err := s.donors.DonorByUserId(userId)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.Booking{}, errors.Forbidden("Register your donor profile first")
		}
		return domain.Booking{}, err
	}
	bank, err := s.banks.Get(booking.BloodBankId)
	if err != nil {
		return domain.Booking{}, err
	}
	if bank.Status != domain.BloodBankApproved || bank.Restricted(s.now()) {
		return domain.Booking{}, errors.BadRequest("Blood bank is not accepting bookings")
	}

	booking.DonorId = donor.Id
	booking.DonorName = donor.Name
	booking.BloodBankName = bank.Name
	booking.DonationRequestId = nil

	created, err := s.Book(booking, nil, BookingSourceDirect)
	if err != nil {
		return domain.Booking{}, err
	}
	s.notifier.Notify(bank.UserId, domain.NotificationBooking, "New booking",
		fmt.Sprintf("%s booked %s at %s (token %d).", donor.Name, created.Date.Format("2006-01-02"), created.Time, created.TokenNumber),
		bookingLink(created.Id))
	return created, nil
}

// Book assigns a token and inserts the booking. The token derived from the
// requested time is taken if free, otherwise the next free one. A unique
// index on active tokens settles races; the loser retries with a fresh view.
func (s *Bookings) Book(booking domain.Booking, requestId *domain.DonationRequestId, source string) (domain.Booking, error) {
	want, clock, err := TokenForTime(booking.Time)
	if err != nil {
		return domain.Booking{}, err
	}
	booking.Time = clock
	booking.Date = domain.Today(booking.Date)
	if booking.Date.Before(domain.Today(s.now())) {
		return domain.Booking{}, errors.BadRequest("Booking date cannot be in the past")
	}
	booking.Status = domain.BookingPending
	booking.Notes = utils.SanitizeText(booking.Notes)

	for attempt := 1; attempt <= maxTokenAttempts; attempt++ {
		taken, err := s.storage.TakenTokens(booking.BloodBankId, booking.Date)
		if err != nil {
			return domain.Booking{}, err
		}
		token, ok := nextFreeToken(want, taken)
		if !ok {
			return domain.Booking{}, errors.Conflict("No tokens left for this day")
		}
		booking.TokenNumber = token

		id, err := s.storage.CreateBooking(booking, requestId)
		if stderrors.Is(err, domain.ErrTokenTaken) {
			metrics.TokenCollisions.Inc()
			logger.Log.Debug("token collision, retrying",
				"blood_bank_id", booking.BloodBankId,
				"token", token,
				"attempt", attempt)
			continue
		}
		if err != nil {
			return domain.Booking{}, err
		}

		metrics.BookingsCreated.WithLabelValues(source).Inc()
		logger.Log.Info("booking created",
			"booking_id", id,
			"blood_bank_id", booking.BloodBankId,
			"donor_id", booking.DonorId,
			"token", token,
			"source", source)
		return s.storage.Booking(id)
	}
	return domain.Booking{}, errors.Conflict("Could not assign a token, please try again")
}

func (s *Bookings) Get(caller domain.User, id domain.BookingId) (domain.Booking, error) {
	booking, err := s.storage.Booking(id)
	if err != nil {
		return domain.Booking{}, err
	}
	if !bookingVisible(caller, booking) {
		return domain.Booking{}, errors.Forbidden("You are not a participant of this booking")
	}
	return booking, nil
}

// List scopes the listing by caller: donors see their own, banks see theirs,
// admin and staff see everything.
func (s *Bookings) List(caller domain.User, filter domain.BookingFilter, page domain.Page) ([]domain.Booking, int, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, errors.BadRequest("Invalid status %q", filter.Status)
	}
	switch caller.Role {
	case domain.RoleAdmin, domain.RoleStaff:
	case domain.RoleDonor:
		donor, err := s.donors.DonorByUserId(caller.Id)
		if err != nil {
			if errors.IsNotFound(err) {
				return []domain.Booking{}, 0, nil
			}
			return nil, 0, err
		}
		filter.DonorId = donor.Id
	case domain.RoleBloodBank:
		bank, err := s.banks.ActiveBank(caller.Id)
		if err != nil {
			return nil, 0, err
		}
		filter.BloodBankId = bank.Id
	default:
		return nil, 0, errors.Forbidden("Access denied for role %s", caller.Role)
	}
	return s.storage.ListBookings(filter, page)
}

// UpdateStatus applies a lifecycle move allowed for the caller's side of the
// booking. Completing a booking records the donation on the donor.
func (s *Bookings) UpdateStatus(caller domain.User, id domain.BookingId, status domain.BookingStatus) (domain.Booking, error) {
	if !status.Valid() {
		return domain.Booking{}, errors.BadRequest("Invalid status %q", status)
	}
	booking, err := s.storage.Booking(id)
	if err != nil {
		return domain.Booking{}, err
	}

	isBank := caller.Id == booking.BloodBankUserId
	isDonor := caller.Id == booking.DonorUserId
	isAdmin := caller.Role.IsAdmin()
	if !isBank && !isDonor && !isAdmin {
		return domain.Booking{}, errors.Forbidden("You are not a participant of this booking")
	}
	if isBank {
		if _, err := s.banks.ActiveBank(caller.Id); err != nil {
			return domain.Booking{}, err
		}
	}

	allowed := (isBank || isAdmin) && bankBookingMove(booking.Status, status) ||
		(isDonor || isAdmin) && donorBookingMove(booking.Status, status)
	if !allowed {
		return domain.Booking{}, errors.BadRequest("Cannot change booking from %s to %s", booking.Status, status)
	}

	if status == domain.BookingCompleted {
		rec := domain.DonationRecord{
			Date:        booking.Date,
			BloodBankId: booking.BloodBankId,
			BookingId:   booking.Id,
			Units:       1,
		}
		if _, err := s.storage.CompleteBooking(booking, rec); err != nil {
			return domain.Booking{}, err
		}
	} else if err := s.storage.UpdateBookingStatus(id, booking.Status, status); err != nil {
		return domain.Booking{}, err
	}
	logger.Log.Info("booking status changed", "booking_id", id, "from", booking.Status, "to", status, "by", caller.Id)

	booking.Status = status
	s.announce(caller, booking)
	return booking, nil
}

// Slots lists the tokens already held for a bank on a day.
func (s *Bookings) Slots(bankId domain.BloodBankId, date time.Time) ([]int, error) {
	if _, err := s.banks.Get(bankId); err != nil {
		return nil, err
	}
	return s.storage.TakenTokens(bankId, date)
}

func (s *Bookings) announce(caller domain.User, b domain.Booking) {
	text := fmt.Sprintf("Booking on %s at %s (token %d) is now %s.", b.Date.Format("2006-01-02"), b.Time, b.TokenNumber, b.Status)
	if caller.Id != b.DonorUserId {
		s.notifier.Notify(b.DonorUserId, domain.NotificationBooking, "Booking "+string(b.Status), text, bookingLink(b.Id))
	}
	if caller.Id != b.BloodBankUserId {
		s.notifier.Notify(b.BloodBankUserId, domain.NotificationBooking, "Booking "+string(b.Status), text, bookingLink(b.Id))
	}

	if b.Status == domain.BookingConfirmed {
		donor, err := s.donors.Donor(b.DonorId)
		if err != nil {
			logger.Log.Error("failed to load donor for confirmation email", "booking_id", b.Id, "error", err)
			return
		}
		s.notifier.Mail(donor.Email, email.BookingConfirmedMessage(b.DonorName, b.BloodBankName, b.Date.Format("2006-01-02"), b.Time, b.TokenNumber))
	}
}

func bankBookingMove(from, to domain.BookingStatus) bool {
	switch from {
	case domain.BookingPending:
		return to == domain.BookingConfirmed || to == domain.BookingRejected
	case domain.BookingConfirmed:
		return to == domain.BookingCompleted
	}
	return false
}

func donorBookingMove(from, to domain.BookingStatus) bool {
	return to == domain.BookingCancelled && (from == domain.BookingPending || from == domain.BookingConfirmed)
}

func bookingVisible(caller domain.User, b domain.Booking) bool {
	return caller.Id == b.DonorUserId || caller.Id == b.BloodBankUserId ||
		caller.Role == domain.RoleAdmin || caller.Role == domain.RoleStaff
}

func bookingLink(id domain.BookingId) string {
	return fmt.Sprintf("/bookings/%d", id)
}
