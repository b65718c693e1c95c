package service

import (
	"strings"
	"time"

	"github.com/bloodlink-dev/bloodlink/backend/internal/service/utils"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
)

type BloodBankService interface {
	Register(userId domain.UserId, bank domain.BloodBank) (domain.BloodBank, error)
	Get(id domain.BloodBankId) (domain.BloodBank, error)
	Mine(userId domain.UserId) (domain.BloodBank, error)
	List(caller domain.User, filter domain.BloodBankFilter, page domain.Page) ([]domain.BloodBank, int, error)
	Update(caller domain.User, bank domain.BloodBank) (domain.BloodBank, error)
	SetStatus(id domain.BloodBankId, status domain.BloodBankStatus) error
	SetBlock(id domain.BloodBankId, blocked bool, message string) error
	SetSuspension(id domain.BloodBankId, suspended bool, until *time.Time, message string) error
	ActiveBank(userId domain.UserId) (domain.BloodBank, error)
}

type BloodBankStorage interface {
	SaveBloodBank(b domain.BloodBank) (domain.BloodBankId, error)
	BloodBank(id domain.BloodBankId) (domain.BloodBank, error)
	BloodBankByUserId(userId domain.UserId) (domain.BloodBank, error)
	ListBloodBanks(f domain.BloodBankFilter, page domain.Page) ([]domain.BloodBank, int, error)
	UpdateBloodBank(b domain.BloodBank) (domain.BloodBank, error)
	SetBloodBankStatus(id domain.BloodBankId, status domain.BloodBankStatus) error
	SetBloodBankBlock(id domain.BloodBankId, blocked bool, message string) error
	SetBloodBankSuspension(id domain.BloodBankId, suspended bool, until *time.Time, message string) error
}

// BankGate resolves the blood bank acting in a request and refuses banks
// that may not operate. Patients, inventory, requests and bookings go
// through it.
type BankGate interface {
	ActiveBank(userId domain.UserId) (domain.BloodBank, error)
}

type BloodBanks struct {
	storage  BloodBankStorage
	notifier *Notifier
	now      func() time.Time
}

func NewBloodBanks(storage BloodBankStorage, notifier *Notifier) *BloodBanks {
	return &BloodBanks{storage: storage, notifier: notifier, now: time.Now}
}

func (s *BloodBanks) Register(userId domain.UserId, bank domain.BloodBank) (domain.BloodBank, error) {
	bank.UserId = userId
	bank.Status = domain.BloodBankPending
	bank.Name = utils.SanitizeText(bank.Name)
	bank.RegistrationNumber = strings.ToUpper(strings.TrimSpace(bank.RegistrationNumber))
	if bank.Name == "" {
		return domain.BloodBank{}, errors.BadRequest("Name cannot be empty")
	}

	id, err := s.storage.SaveBloodBank(bank)
	if err != nil {
		return domain.BloodBank{}, err
	}
	logger.Log.Info("blood bank registered", "blood_bank_id", id, "user_id", userId)
	return s.storage.BloodBank(id)
}

func (s *BloodBanks) Get(id domain.BloodBankId) (domain.BloodBank, error) {
	return s.storage.BloodBank(id)
}

func (s *BloodBanks) Mine(userId domain.UserId) (domain.BloodBank, error) {
	return s.storage.BloodBankByUserId(userId)
}

// List shows approved banks only, unless the caller is admin or staff.
func (s *BloodBanks) List(caller domain.User, filter domain.BloodBankFilter, page domain.Page) ([]domain.BloodBank, int, error) {
	if caller.Role != domain.RoleAdmin && caller.Role != domain.RoleStaff {
		filter.Status = domain.BloodBankApproved
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, errors.BadRequest("Invalid status %q", filter.Status)
	}
	return s.storage.ListBloodBanks(filter, page)
}

func (s *BloodBanks) Update(caller domain.User, bank domain.BloodBank) (domain.BloodBank, error) {
	existing, err := s.storage.BloodBank(bank.Id)
	if err != nil {
		return domain.BloodBank{}, err
	}
	if existing.UserId != caller.Id && !caller.Role.IsAdmin() {
		return domain.BloodBank{}, errors.Forbidden("You can only edit your own blood bank")
	}
	bank.Name = utils.SanitizeText(bank.Name)
	bank.RegistrationNumber = strings.ToUpper(strings.TrimSpace(bank.RegistrationNumber))
	return s.storage.UpdateBloodBank(bank)
}

func (s *BloodBanks) SetStatus(id domain.BloodBankId, status domain.BloodBankStatus) error {
	if status != domain.BloodBankApproved && status != domain.BloodBankRejected {
		return errors.BadRequest("Status must be approved or rejected")
	}
	bank, err := s.storage.BloodBank(id)
	if err != nil {
		return err
	}
	if err := s.storage.SetBloodBankStatus(id, status); err != nil {
		return err
	}
	logger.Log.Info("blood bank status changed", "blood_bank_id", id, "status", status)
	s.notifier.Notify(bank.UserId, domain.NotificationAccount, "Blood bank "+string(status),
		"Your blood bank registration was "+string(status)+".", "/bloodbanks/me")
	return nil
}

func (s *BloodBanks) SetBlock(id domain.BloodBankId, blocked bool, message string) error {
	return s.storage.SetBloodBankBlock(id, blocked, utils.SanitizeText(message))
}

func (s *BloodBanks) SetSuspension(id domain.BloodBankId, suspended bool, until *time.Time, message string) error {
	if suspended && until != nil && !until.After(s.now()) {
		return errors.BadRequest("Suspension end must be in the future")
	}
	return s.storage.SetBloodBankSuspension(id, suspended, until, utils.SanitizeText(message))
}

// ActiveBank returns the caller's blood bank if it is approved, not blocked
// and not suspended. An expired suspension is lifted on the way.
func (s *BloodBanks) ActiveBank(userId domain.UserId) (domain.BloodBank, error) {
	bank, err := s.storage.BloodBankByUserId(userId)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.BloodBank{}, errors.Forbidden("Register your blood bank profile first")
		}
		return domain.BloodBank{}, err
	}
	if bank.IsBlocked {
		return domain.BloodBank{}, errors.Forbidden("Blood bank is blocked")
	}
	if bank.IsSuspended {
		if !bank.SuspensionExpired(s.now()) {
			return domain.BloodBank{}, errors.Forbidden("Blood bank is suspended")
		}
		if err := s.storage.SetBloodBankSuspension(bank.Id, false, nil, ""); err != nil {
			return domain.BloodBank{}, err
		}
		bank.IsSuspended, bank.SuspendedUntil, bank.SuspendMessage = false, nil, ""
		logger.Log.Info("expired blood bank suspension lifted", "blood_bank_id", bank.Id)
	}
	if bank.Status != domain.BloodBankApproved {
		return domain.BloodBank{}, errors.Forbidden("Blood bank is %s, not approved", bank.Status)
	}
	return bank, nil
}
