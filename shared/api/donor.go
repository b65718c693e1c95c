package api

import (
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
)

type AddressDTO struct {
	Street  string `json:"street" validate:"max=200"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state" validate:"max=100"`
	Pincode string `json:"pincode" validate:"max=20"`
	Country string `json:"country" validate:"max=100"`
}

func (a AddressDTO) Domain() domain.Address {
	return domain.Address{Street: a.Street, City: a.City, State: a.State, Pincode: a.Pincode, Country: a.Country}
}

func NewAddressDTO(a domain.Address) AddressDTO {
	return AddressDTO{Street: a.Street, City: a.City, State: a.State, Pincode: a.Pincode, Country: a.Country}
}

type DonorRequest struct {
	Name        string     `json:"name" validate:"required,max=100"`
	BloodGroup  string     `json:"blood_group" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Phone       string     `json:"phone" validate:"required,min=7,max=20"`
	Email       string     `json:"email" validate:"omitempty,email"`
	Address     AddressDTO `json:"address" validate:"required"`
	DateOfBirth string     `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	IsAvailable *bool      `json:"is_available"`
}

type AvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

type RecordDonationRequest struct {
	Date  string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Units int    `json:"units" validate:"omitempty,min=1,max=10"`
	Notes string `json:"notes" validate:"max=500"`
}

type DonationRecordDTO struct {
	Date        string `json:"date"`
	BloodBankId int64  `json:"blood_bank_id,omitempty"`
	BookingId   int64  `json:"booking_id,omitempty"`
	Units       int    `json:"units"`
	Notes       string `json:"notes,omitempty"`
}

type DonorResponse struct {
	Id               int64               `json:"id"`
	UserId           int64               `json:"user_id"`
	Name             string              `json:"name"`
	BloodGroup       string              `json:"blood_group"`
	Phone            string              `json:"phone"`
	Email            string              `json:"email,omitempty"`
	Address          AddressDTO          `json:"address"`
	DateOfBirth      string              `json:"date_of_birth,omitempty"`
	IsAvailable      bool                `json:"is_available"`
	DonationHistory  []DonationRecordDTO `json:"donation_history"`
	PriorityPoints   int                 `json:"priority_points"`
	LastDonationDate string              `json:"last_donation_date,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

func NewDonorResponse(d domain.Donor) DonorResponse {
	history := make([]DonationRecordDTO, 0, len(d.DonationHistory))
	for _, rec := range d.DonationHistory {
		history = append(history, DonationRecordDTO{
			Date:        rec.Date.Format(DateLayout),
			BloodBankId: rec.BloodBankId,
			BookingId:   rec.BookingId,
			Units:       rec.Units,
			Notes:       rec.Notes,
		})
	}
	return DonorResponse{
		Id:               d.Id,
		UserId:           d.UserId,
		Name:             d.Name,
		BloodGroup:       string(d.BloodGroup),
		Phone:            d.Phone,
		Email:            d.Email,
		Address:          NewAddressDTO(d.Address),
		DateOfBirth:      formatDate(d.DateOfBirth),
		IsAvailable:      d.IsAvailable,
		DonationHistory:  history,
		PriorityPoints:   d.PriorityPoints,
		LastDonationDate: formatDate(d.LastDonationDate),
		CreatedAt:        d.CreatedAt,
	}
}

func NewDonorResponses(donors []domain.Donor) []DonorResponse {
	out := make([]DonorResponse, 0, len(donors))
	for _, d := range donors {
		out = append(out, NewDonorResponse(d))
	}
	return out
}
