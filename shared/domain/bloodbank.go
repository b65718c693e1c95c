package domain

import "time"

type BloodBankStatus string

const (
	BloodBankPending  BloodBankStatus = "pending"
	BloodBankApproved BloodBankStatus = "approved"
	BloodBankRejected BloodBankStatus = "rejected"
)

func (s BloodBankStatus) Valid() bool {
	return s == BloodBankPending || s == BloodBankApproved || s == BloodBankRejected
}

type BloodBank struct {
	Id                 BloodBankId
	UserId             UserId
	Name               string
	RegistrationNumber string
	Email              Email
	Phone              string
	Address            Address
	Status             BloodBankStatus
	AccountStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type BloodBankFilter struct {
	City   string
	Status BloodBankStatus
}
