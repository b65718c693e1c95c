package service

import (
	"time"

	"github.com/bloodlink-dev/bloodlink/backend/internal/service/utils"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
)

type DonorService interface {
	Register(userId domain.UserId, donor domain.Donor) (domain.Donor, error)
	Get(id domain.DonorId) (domain.Donor, error)
	Mine(userId domain.UserId) (domain.Donor, error)
	List(filter domain.DonorFilter, page domain.Page) ([]domain.Donor, int, error)
	Update(caller domain.User, donor domain.Donor) (domain.Donor, error)
	SetAvailability(userId domain.UserId, available bool) (domain.Donor, error)
	RecordDonation(caller domain.User, id domain.DonorId, rec domain.DonationRecord) (domain.Donor, error)
	Delete(id domain.DonorId) error
}

type DonorStorage interface {
	SaveDonor(d domain.Donor) (domain.DonorId, error)
	Donor(id domain.DonorId) (domain.Donor, error)
	DonorByUserId(userId domain.UserId) (domain.Donor, error)
	ListDonors(f domain.DonorFilter, page domain.Page) ([]domain.Donor, int, error)
	UpdateDonor(d domain.Donor) (domain.Donor, error)
	SetDonorAvailability(id domain.DonorId, available bool) error
	RecordDonation(id domain.DonorId, rec domain.DonationRecord) (domain.Donor, error)
	DeleteDonor(id domain.DonorId) error
}

type Donors struct {
	storage DonorStorage
	banks   BankGate
	now     func() time.Time
}

func NewDonors(storage DonorStorage, banks BankGate) *Donors {
	return &Donors{storage: storage, banks: banks, now: time.Now}
}

// Register creates the donor profile of userId. A second profile for the
// same user is a conflict.
func (s *Donors) Register(userId domain.UserId, donor domain.Donor) (domain.Donor, error) {
	if err := s.validate(&donor); err != nil {
		return domain.Donor{}, err
	}
	donor.UserId = userId
	donor.PriorityPoints = 0
	donor.DonationHistory = domain.DonationHistory{}
	donor.LastDonationDate = nil

	id, err := s.storage.SaveDonor(donor)
	if err != nil {
		return domain.Donor{}, err
	}
	logger.Log.Info("donor registered", "donor_id", id, "user_id", userId, "blood_group", donor.BloodGroup)
	return s.storage.Donor(id)
}

func (s *Donors) Get(id domain.DonorId) (domain.Donor, error) {
	return s.storage.Donor(id)
}

func (s *Donors) Mine(userId domain.UserId) (domain.Donor, error) {
	return s.storage.DonorByUserId(userId)
}

func (s *Donors) List(filter domain.DonorFilter, page domain.Page) ([]domain.Donor, int, error) {
	if filter.BloodGroup != "" && !filter.BloodGroup.Valid() {
		return nil, 0, errors.BadRequest("Invalid blood group %q", filter.BloodGroup)
	}
	return s.storage.ListDonors(filter, page)
}

// Update is allowed for the donor owning the profile and for admins.
func (s *Donors) Update(caller domain.User, donor domain.Donor) (domain.Donor, error) {
	existing, err := s.storage.Donor(donor.Id)
	if err != nil {
		return domain.Donor{}, err
	}
	if existing.UserId != caller.Id && !caller.Role.IsAdmin() {
		return domain.Donor{}, errors.Forbidden("You can only edit your own donor profile")
	}
	if err := s.validate(&donor); err != nil {
		return domain.Donor{}, err
	}
	return s.storage.UpdateDonor(donor)
}

func (s *Donors) SetAvailability(userId domain.UserId, available bool) (domain.Donor, error) {
	donor, err := s.storage.DonorByUserId(userId)
	if err != nil {
		return domain.Donor{}, err
	}
	if err := s.storage.SetDonorAvailability(donor.Id, available); err != nil {
		return domain.Donor{}, err
	}
	donor.IsAvailable = available
	return donor, nil
}

// RecordDonation appends a donation to the donor's history. A blood bank
// caller must be active and is recorded as the place of donation.
func (s *Donors) RecordDonation(caller domain.User, id domain.DonorId, rec domain.DonationRecord) (domain.Donor, error) {
	if caller.Role == domain.RoleBloodBank {
		bank, err := s.banks.ActiveBank(caller.Id)
		if err != nil {
			return domain.Donor{}, err
		}
		rec.BloodBankId = bank.Id
	}

	today := domain.Today(s.now())
	if rec.Date.IsZero() {
		rec.Date = today
	}
	rec.Date = domain.Today(rec.Date)
	if rec.Date.After(today) {
		return domain.Donor{}, errors.BadRequest("Donation date cannot be in the future")
	}
	if rec.Units <= 0 {
		rec.Units = 1
	}
	rec.Notes = utils.SanitizeText(rec.Notes)

	donor, err := s.storage.RecordDonation(id, rec)
	if err != nil {
		return domain.Donor{}, err
	}
	logger.Log.Info("donation recorded",
		"donor_id", id,
		"blood_bank_id", rec.BloodBankId,
		"priority_points", donor.PriorityPoints)
	return donor, nil
}

func (s *Donors) Delete(id domain.DonorId) error {
	return s.storage.DeleteDonor(id)
}

func (s *Donors) validate(donor *domain.Donor) error {
	donor.Name = utils.SanitizeText(donor.Name)
	if donor.Name == "" {
		return errors.BadRequest("Name cannot be empty")
	}
	if !donor.BloodGroup.Valid() {
		return errors.BadRequest("Invalid blood group %q", donor.BloodGroup)
	}
	if donor.DateOfBirth != nil && donor.DateOfBirth.After(s.now()) {
		return errors.BadRequest("Date of birth cannot be in the future")
	}
	return nil
}
