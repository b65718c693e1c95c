package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Address and DonationHistory are stored as JSONB columns.

type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
	Country string `json:"country,omitempty"`
}

func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *Address) Scan(src any) error {
	return scanJSON(src, a)
}

type DonationRecord struct {
	Date        time.Time   `json:"date"`
	BloodBankId BloodBankId `json:"blood_bank_id,omitempty"`
	BookingId   BookingId   `json:"booking_id,omitempty"`
	Units       int         `json:"units"`
	Notes       string      `json:"notes,omitempty"`
}

type DonationHistory []DonationRecord

func (h DonationHistory) Value() (driver.Value, error) {
	if h == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(h)
}

func (h *DonationHistory) Scan(src any) error {
	return scanJSON(src, h)
}

func scanJSON(src any, dst any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}
