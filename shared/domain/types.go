package domain

import "time"

type (
	Email    = string
	Password = string

	UserId            = int64
	DonorId           = int64
	BloodBankId       = int64
	PatientId         = int64
	DonationRequestId = int64
	BookingId         = int64
	InventoryId       = int64
	NotificationId    = int64
	ReviewId          = int64
	TaxiBookingId     = int64

	// Chat documents live in MongoDB and use hex ObjectIDs.
	ConversationId = string
	ChatMessageId  = string
)

type BloodGroup string

const (
	APositive  BloodGroup = "A+"
	ANegative  BloodGroup = "A-"
	BPositive  BloodGroup = "B+"
	BNegative  BloodGroup = "B-"
	ABPositive BloodGroup = "AB+"
	ABNegative BloodGroup = "AB-"
	OPositive  BloodGroup = "O+"
	ONegative  BloodGroup = "O-"
)

var BloodGroups = []BloodGroup{APositive, ANegative, BPositive, BNegative, ABPositive, ABNegative, OPositive, ONegative}

func (g BloodGroup) Valid() bool {
	for _, bg := range BloodGroups {
		if bg == g {
			return true
		}
	}
	return false
}

// Page is a 1-based pagination window.
type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Today truncates t to midnight UTC. Dates without a time of day are stored this way.
func Today(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
