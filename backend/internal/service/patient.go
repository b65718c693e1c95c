package service

import (
	"strings"
	"time"

	"github.com/bloodlink-dev/bloodlink/backend/internal/service/utils"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
)

type PatientService interface {
	Create(userId domain.UserId, patient domain.Patient) (domain.Patient, error)
	Get(userId domain.UserId, id domain.PatientId) (domain.Patient, error)
	List(userId domain.UserId, page domain.Page) ([]domain.Patient, int, error)
	Update(userId domain.UserId, patient domain.Patient) (domain.Patient, error)
	Delete(userId domain.UserId, id domain.PatientId) error
}

type PatientStorage interface {
	SavePatient(p domain.Patient) (domain.PatientId, error)
	Patient(id domain.PatientId) (domain.Patient, error)
	ListPatients(bankId domain.BloodBankId, page domain.Page) ([]domain.Patient, int, error)
	UpdatePatient(p domain.Patient) error
	DeletePatient(id domain.PatientId) error
}

// Patients are visible only to the blood bank that registered them.
type Patients struct {
	storage PatientStorage
	banks   BankGate
	now     func() time.Time
}

func NewPatients(storage PatientStorage, banks BankGate) *Patients {
	return &Patients{storage: storage, banks: banks, now: time.Now}
}

func (s *Patients) Create(userId domain.UserId, patient domain.Patient) (domain.Patient, error) {
	bank, err := s.banks.ActiveBank(userId)
	if err != nil {
		return domain.Patient{}, err
	}
	if err := s.validate(&patient); err != nil {
		return domain.Patient{}, err
	}
	patient.BloodBankId = bank.Id

	id, err := s.storage.SavePatient(patient)
	if err != nil {
		return domain.Patient{}, err
	}
	logger.Log.Info("patient registered", "patient_id", id, "blood_bank_id", bank.Id)
	return s.storage.Patient(id)
}

func (s *Patients) Get(userId domain.UserId, id domain.PatientId) (domain.Patient, error) {
	bank, err := s.banks.ActiveBank(userId)
	if err != nil {
		return domain.Patient{}, err
	}
	return s.owned(bank.Id, id)
}

func (s *Patients) List(userId domain.UserId, page domain.Page) ([]domain.Patient, int, error) {
	bank, err := s.banks.ActiveBank(userId)
	if err != nil {
		return nil, 0, err
	}
	return s.storage.ListPatients(bank.Id, page)
}

func (s *Patients) Update(userId domain.UserId, patient domain.Patient) (domain.Patient, error) {
	bank, err := s.banks.ActiveBank(userId)
	if err != nil {
		return domain.Patient{}, err
	}
	if _, err := s.owned(bank.Id, patient.Id); err != nil {
		return domain.Patient{}, err
	}
	if err := s.validate(&patient); err != nil {
		return domain.Patient{}, err
	}
	patient.BloodBankId = bank.Id
	if err := s.storage.UpdatePatient(patient); err != nil {
		return domain.Patient{}, err
	}
	return s.storage.Patient(patient.Id)
}

// Delete is a soft delete; the MRID becomes free for a new record.
func (s *Patients) Delete(userId domain.UserId, id domain.PatientId) error {
	bank, err := s.banks.ActiveBank(userId)
	if err != nil {
		return err
	}
	if _, err := s.owned(bank.Id, id); err != nil {
		return err
	}
	return s.storage.DeletePatient(id)
}

// owned hides patients of other banks behind a 404.
func (s *Patients) owned(bankId domain.BloodBankId, id domain.PatientId) (domain.Patient, error) {
	patient, err := s.storage.Patient(id)
	if err != nil {
		return domain.Patient{}, err
	}
	if patient.BloodBankId != bankId {
		return domain.Patient{}, errors.NotFound("Patient not found")
	}
	return patient, nil
}

func (s *Patients) validate(p *domain.Patient) error {
	p.Name = utils.SanitizeText(p.Name)
	p.Address = utils.SanitizeText(p.Address)
	p.Phone = strings.TrimSpace(p.Phone)
	p.MRID = strings.ToUpper(strings.TrimSpace(p.MRID))

	if p.Name == "" || p.MRID == "" {
		return errors.BadRequest("Name and MRID are required")
	}
	if !p.BloodGroup.Valid() {
		return errors.BadRequest("Invalid blood group %q", p.BloodGroup)
	}
	if p.UnitsRequired < 1 {
		return errors.BadRequest("At least one unit must be required")
	}
	p.DateNeeded = domain.Today(p.DateNeeded)
	if p.DateNeeded.Before(domain.Today(s.now())) {
		return errors.BadRequest("Date needed cannot be in the past")
	}
	return nil
}
