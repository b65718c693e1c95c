package domain

import "time"

// Patient holds decrypted values. Name, Address, MRID and Phone are encrypted
// by the storage layer before they reach the database.
type Patient struct {
	Id            PatientId
	BloodBankId   BloodBankId
	Name          string
	Address       string
	MRID          string
	Phone         string
	BloodGroup    BloodGroup
	UnitsRequired int
	DateNeeded    time.Time
	IsDeleted     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
