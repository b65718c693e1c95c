package domain

import "time"

type TaxiStatus string

const (
	TaxiRequested TaxiStatus = "requested"
	TaxiConfirmed TaxiStatus = "confirmed"
	TaxiCompleted TaxiStatus = "completed"
	TaxiCancelled TaxiStatus = "cancelled"
)

func (s TaxiStatus) Valid() bool {
	switch s {
	case TaxiRequested, TaxiConfirmed, TaxiCompleted, TaxiCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentCreated PaymentStatus = "created"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type TaxiBooking struct {
	Id             TaxiBookingId
	UserId         UserId
	BookingId      BookingId
	PickupAddress  string
	DropAddress    string
	PickupTime     time.Time
	DistanceKm     float64
	Fare           float64
	Currency       string
	Status         TaxiStatus
	PaymentStatus  PaymentStatus
	PaymentOrderId string
	PaymentId      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PaymentOrder is the gateway's view of a created order.
type PaymentOrder struct {
	OrderId  string
	Amount   int64 // minor units
	Currency string
	Receipt  string
}
