package api

import (
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
)

type CreateDonationRequestRequest struct {
	DonorId     int64  `json:"donor_id" validate:"required,min=1"`
	PatientId   *int64 `json:"patient_id" validate:"omitempty,min=1"`
	BloodBankId *int64 `json:"blood_bank_id" validate:"omitempty,min=1"`
	Message     string `json:"message" validate:"max=1000"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type BookSlotRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Time string `json:"time" validate:"required"`
}

type DonationRequestResponse struct {
	Id            int64     `json:"id"`
	SenderId      int64     `json:"sender_id"`
	SenderRole    string    `json:"sender_role"`
	DonorId       int64     `json:"donor_id"`
	PatientId     *int64    `json:"patient_id,omitempty"`
	BloodBankId   *int64    `json:"blood_bank_id,omitempty"`
	Message       string    `json:"message,omitempty"`
	Status        string    `json:"status"`
	DonorName     string    `json:"donor_name"`
	PatientName   string    `json:"patient_name,omitempty"`
	BloodBankName string    `json:"blood_bank_name,omitempty"`
	BloodGroup    string    `json:"blood_group,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewDonationRequestResponse(r domain.DonationRequest) DonationRequestResponse {
	return DonationRequestResponse{
		Id:            r.Id,
		SenderId:      r.SenderId,
		SenderRole:    string(r.SenderRole),
		DonorId:       r.DonorId,
		PatientId:     r.PatientId,
		BloodBankId:   r.BloodBankId,
		Message:       r.Message,
		Status:        string(r.Status),
		DonorName:     r.DonorName,
		PatientName:   r.PatientName,
		BloodBankName: r.BloodBankName,
		BloodGroup:    string(r.BloodGroup),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func NewDonationRequestResponses(reqs []domain.DonationRequest) []DonationRequestResponse {
	out := make([]DonationRequestResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, NewDonationRequestResponse(r))
	}
	return out
}
