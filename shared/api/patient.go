package api

import (
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
)

type PatientRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	Address       string `json:"address" validate:"required,max=300"`
	MRID          string `json:"mrid" validate:"required,max=50"`
	Phone         string `json:"phone" validate:"required,min=7,max=20"`
	BloodGroup    string `json:"blood_group" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	UnitsRequired int    `json:"units_required" validate:"required,min=1,max=100"`
	DateNeeded    string `json:"date_needed" validate:"required,datetime=2006-01-02"`
}

type PatientResponse struct {
	Id            int64     `json:"id"`
	BloodBankId   int64     `json:"blood_bank_id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	MRID          string    `json:"mrid"`
	Phone         string    `json:"phone"`
	BloodGroup    string    `json:"blood_group"`
	UnitsRequired int       `json:"units_required"`
	DateNeeded    string    `json:"date_needed"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewPatientResponse(p domain.Patient) PatientResponse {
	return PatientResponse{
		Id:            p.Id,
		BloodBankId:   p.BloodBankId,
		Name:          p.Name,
		Address:       p.Address,
		MRID:          p.MRID,
		Phone:         p.Phone,
		BloodGroup:    string(p.BloodGroup),
		UnitsRequired: p.UnitsRequired,
		DateNeeded:    p.DateNeeded.Format(DateLayout),
		CreatedAt:     p.CreatedAt,
	}
}

func NewPatientResponses(patients []domain.Patient) []PatientResponse {
	out := make([]PatientResponse, 0, len(patients))
	for _, p := range patients {
		out = append(out, NewPatientResponse(p))
	}
	return out
}
