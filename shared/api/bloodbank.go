package api

import (
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
)

type BloodBankRequest struct {
	Name               string     `json:"name" validate:"required,max=150"`
	RegistrationNumber string     `json:"registration_number" validate:"required,max=50"`
	Email              string     `json:"email" validate:"omitempty,email"`
	Phone              string     `json:"phone" validate:"required,min=7,max=20"`
	Address            AddressDTO `json:"address" validate:"required"`
}

type BloodBankStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

type BlockRequest struct {
	Blocked *bool  `json:"blocked" validate:"required"`
	Message string `json:"message" validate:"max=500"`
}

type SuspendRequest struct {
	Suspended *bool      `json:"suspended" validate:"required"`
	Until     *time.Time `json:"until"`
	Message   string     `json:"message" validate:"max=500"`
}

type BloodBankResponse struct {
	Id                 int64      `json:"id"`
	UserId             int64      `json:"user_id"`
	Name               string     `json:"name"`
	RegistrationNumber string     `json:"registration_number"`
	Email              string     `json:"email,omitempty"`
	Phone              string     `json:"phone"`
	Address            AddressDTO `json:"address"`
	Status             string     `json:"status"`
	IsBlocked          bool       `json:"is_blocked"`
	BlockMessage       string     `json:"block_message,omitempty"`
	IsSuspended        bool       `json:"is_suspended"`
	SuspendedUntil     *time.Time `json:"suspended_until,omitempty"`
	SuspendMessage     string     `json:"suspend_message,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func NewBloodBankResponse(b domain.BloodBank) BloodBankResponse {
	return BloodBankResponse{
		Id:                 b.Id,
		UserId:             b.UserId,
		Name:               b.Name,
		RegistrationNumber: b.RegistrationNumber,
		Email:              b.Email,
		Phone:              b.Phone,
		Address:            NewAddressDTO(b.Address),
		Status:             string(b.Status),
		IsBlocked:          b.IsBlocked,
		BlockMessage:       b.BlockMessage,
		IsSuspended:        b.IsSuspended,
		SuspendedUntil:     b.SuspendedUntil,
		SuspendMessage:     b.SuspendMessage,
		CreatedAt:          b.CreatedAt,
	}
}

func NewBloodBankResponses(banks []domain.BloodBank) []BloodBankResponse {
	out := make([]BloodBankResponse, 0, len(banks))
	for _, b := range banks {
		out = append(out, NewBloodBankResponse(b))
	}
	return out
}
