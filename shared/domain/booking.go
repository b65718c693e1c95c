package domain

import (
	"errors"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingRejected, BookingCancelled:
		return true
	}
	return false
}

// Active bookings hold their token number.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed || s == BookingCompleted
}

// Token numbers are handed out for slots between 09:00 and 16:00.
const (
	TokenMin         = 15
	TokenMax         = 70
	SlotOpenMinutes  = 9 * 60
	SlotCloseMinutes = 16 * 60
)

// ErrTokenTaken is returned by storage when another booking claimed the token first.
var ErrTokenTaken = errors.New("token already taken")

type Booking struct {
	Id                BookingId
	DonorId           DonorId
	DonorUserId       UserId
	BloodBankId       BloodBankId
	BloodBankUserId   UserId
	DonationRequestId *DonationRequestId
	Date              time.Time // date only, UTC midnight
	Time              string    // HH:MM
	TokenNumber       int
	Status            BookingStatus
	DonorName         string
	BloodBankName     string
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// BookingFilter scopes a listing. Zero values mean "any".
type BookingFilter struct {
	DonorId     DonorId
	BloodBankId BloodBankId
	Status      BookingStatus
	Date        *time.Time
}
