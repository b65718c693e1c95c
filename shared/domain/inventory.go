package domain

import (
	"math"
	"time"
)

type InventoryStatus string

const (
	InventoryAvailable InventoryStatus = "available"
	InventoryReserved  InventoryStatus = "reserved"
	InventoryUsed      InventoryStatus = "used"
	InventoryExpired   InventoryStatus = "expired"
)

func (s InventoryStatus) Valid() bool {
	switch s {
	case InventoryAvailable, InventoryReserved, InventoryUsed, InventoryExpired:
		return true
	}
	return false
}

// MaxSerialNumber keeps LastSerialNumber-FirstSerialNumber+1 within int64.
const MaxSerialNumber int64 = math.MaxInt64 - 1

type Inventory struct {
	Id                InventoryId
	BloodBankId       BloodBankId
	BloodGroup        BloodGroup
	FirstSerialNumber int64
	LastSerialNumber  int64
	UnitsCount        int64
	Status            InventoryStatus
	ExpiryDate        time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Normalize derives UnitsCount from the serial range and flips unused
// records past their expiry date to expired.
func (i *Inventory) Normalize(now time.Time) {
	i.UnitsCount = i.LastSerialNumber - i.FirstSerialNumber + 1
	if i.IsExpired(now) {
		i.Status = InventoryExpired
	}
}

// IsExpired is true once the expiry date is strictly before today (UTC) and
// the units were not used.
func (i Inventory) IsExpired(now time.Time) bool {
	return i.Status != InventoryUsed && i.ExpiryDate.Before(Today(now))
}

// Overlaps reports whether two inclusive serial ranges intersect.
func (i Inventory) Overlaps(first, last int64) bool {
	return i.FirstSerialNumber <= last && first <= i.LastSerialNumber
}

type InventoryFilter struct {
	Status     InventoryStatus
	BloodGroup BloodGroup
}

// InventorySummary maps blood group -> status -> units.
type InventorySummary map[BloodGroup]map[InventoryStatus]int64
