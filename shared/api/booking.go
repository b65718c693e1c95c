package api

import (
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
)

type CreateBookingRequest struct {
	BloodBankId int64  `json:"blood_bank_id" validate:"required,min=1"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"required"`
	Notes       string `json:"notes" validate:"max=500"`
}

type BookingResponse struct {
	Id                int64     `json:"id"`
	DonorId           int64     `json:"donor_id"`
	BloodBankId       int64     `json:"blood_bank_id"`
	DonationRequestId *int64    `json:"donation_request_id,omitempty"`
	Date              string    `json:"date"`
	Time              string    `json:"time"`
	TokenNumber       int       `json:"token_number"`
	Status            string    `json:"status"`
	DonorName         string    `json:"donor_name"`
	BloodBankName     string    `json:"blood_bank_name"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

func NewBookingResponse(b domain.Booking) BookingResponse {
	return BookingResponse{
		Id:                b.Id,
		DonorId:           b.DonorId,
		BloodBankId:       b.BloodBankId,
		DonationRequestId: b.DonationRequestId,
		Date:              b.Date.Format(DateLayout),
		Time:              b.Time,
		TokenNumber:       b.TokenNumber,
		Status:            string(b.Status),
		DonorName:         b.DonorName,
		BloodBankName:     b.BloodBankName,
		Notes:             b.Notes,
		CreatedAt:         b.CreatedAt,
	}
}

func NewBookingResponses(bookings []domain.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, NewBookingResponse(b))
	}
	return out
}

type SlotsResponse struct {
	BloodBankId int64  `json:"blood_bank_id"`
	Date        string `json:"date"`
	TakenTokens []int  `json:"taken_tokens"`
	FreeCount   int    `json:"free_count"`
}
