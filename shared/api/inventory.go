package api

import (
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
)

type InventoryRequest struct {
	BloodGroup        string `json:"blood_group" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	FirstSerialNumber *int64 `json:"first_serial_number" validate:"required,min=0"`
	LastSerialNumber  *int64 `json:"last_serial_number" validate:"required,min=0"`
	ExpiryDate        string `json:"expiry_date" validate:"required,datetime=2006-01-02"`
	Status            string `json:"status" validate:"omitempty,oneof=available reserved used expired"`
}

type InventoryResponse struct {
	Id                int64     `json:"id"`
	BloodBankId       int64     `json:"blood_bank_id"`
	BloodGroup        string    `json:"blood_group"`
	FirstSerialNumber int64     `json:"first_serial_number"`
	LastSerialNumber  int64     `json:"last_serial_number"`
	UnitsCount        int64     `json:"units_count"`
	Status            string    `json:"status"`
	ExpiryDate        string    `json:"expiry_date"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func NewInventoryResponse(i domain.Inventory) InventoryResponse {
	return InventoryResponse{
		Id:                i.Id,
		BloodBankId:       i.BloodBankId,
		BloodGroup:        string(i.BloodGroup),
		FirstSerialNumber: i.FirstSerialNumber,
		LastSerialNumber:  i.LastSerialNumber,
		UnitsCount:        i.UnitsCount,
		Status:            string(i.Status),
		ExpiryDate:        i.ExpiryDate.Format(DateLayout),
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}

func NewInventoryResponses(items []domain.Inventory) []InventoryResponse {
	out := make([]InventoryResponse, 0, len(items))
	for _, i := range items {
		out = append(out, NewInventoryResponse(i))
	}
	return out
}
