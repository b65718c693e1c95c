package domain

import "time"

// PointsPerDonation is added to a donor's priority points on every recorded donation.
const PointsPerDonation = 10

type Donor struct {
	Id               DonorId
	UserId           UserId
	Name             string
	BloodGroup       BloodGroup
	Phone            string
	Email            Email
	Address          Address
	DateOfBirth      *time.Time
	IsAvailable      bool
	DonationHistory  DonationHistory
	PriorityPoints   int
	LastDonationDate *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RecordDonation appends a donation to the history and updates derived fields.
func (d *Donor) RecordDonation(rec DonationRecord) {
	d.DonationHistory = append(d.DonationHistory, rec)
	date := rec.Date
	if d.LastDonationDate == nil || date.After(*d.LastDonationDate) {
		d.LastDonationDate = &date
	}
	d.PriorityPoints += PointsPerDonation
	d.IsAvailable = false
}

type DonorFilter struct {
	BloodGroup BloodGroup
	City       string
	Available  *bool
}
