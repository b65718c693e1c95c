package api

import (
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
)

type CreateTaxiRequest struct {
	BookingId     int64     `json:"booking_id" validate:"required,min=1"`
	PickupAddress string    `json:"pickup_address" validate:"required,max=300"`
	DropAddress   string    `json:"drop_address" validate:"max=300"`
	DistanceKm    float64   `json:"distance_km" validate:"required,gt=0,lte=500"`
	PickupTime    time.Time `json:"pickup_time" validate:"required"`
}

type VerifyPaymentRequest struct {
	OrderId   string `json:"order_id" validate:"required"`
	PaymentId string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required,hexadecimal"`
}

type TaxiResponse struct {
	Id             int64     `json:"id"`
	UserId         int64     `json:"user_id"`
	BookingId      int64     `json:"booking_id"`
	PickupAddress  string    `json:"pickup_address"`
	DropAddress    string    `json:"drop_address,omitempty"`
	PickupTime     time.Time `json:"pickup_time"`
	DistanceKm     float64   `json:"distance_km"`
	Fare           float64   `json:"fare"`
	Currency       string    `json:"currency"`
	Status         string    `json:"status"`
	PaymentStatus  string    `json:"payment_status"`
	PaymentOrderId string    `json:"payment_order_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewTaxiResponse(t domain.TaxiBooking) TaxiResponse {
	return TaxiResponse{
		Id:             t.Id,
		UserId:         t.UserId,
		BookingId:      t.BookingId,
		PickupAddress:  t.PickupAddress,
		DropAddress:    t.DropAddress,
		PickupTime:     t.PickupTime,
		DistanceKm:     t.DistanceKm,
		Fare:           t.Fare,
		Currency:       t.Currency,
		Status:         string(t.Status),
		PaymentStatus:  string(t.PaymentStatus),
		PaymentOrderId: t.PaymentOrderId,
		CreatedAt:      t.CreatedAt,
	}
}

func NewTaxiResponses(ts []domain.TaxiBooking) []TaxiResponse {
	out := make([]TaxiResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, NewTaxiResponse(t))
	}
	return out
}

type PaymentOrderResponse struct {
	OrderId  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyId    string `json:"key_id"`
}
