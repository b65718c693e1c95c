package service

import (
	"fmt"
	"time"

	"github.com/bloodlink-dev/bloodlink/backend/internal/service/utils"
	"github.com/bloodlink-dev/bloodlink/backend/internal/utils/email"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
)

type DonationRequestService interface {
	Create(caller domain.User, req domain.DonationRequest) (domain.DonationRequest, error)
	Get(caller domain.User, id domain.DonationRequestId) (domain.DonationRequest, error)
	List(caller domain.User, status domain.DonationRequestStatus, page domain.Page) ([]domain.DonationRequest, int, error)
	UpdateStatus(caller domain.User, id domain.DonationRequestId, status domain.DonationRequestStatus) (domain.DonationRequest, error)
	Book(caller domain.User, id domain.DonationRequestId, date time.Time, clock string) (domain.Booking, error)
}

type DonationRequestStorage interface {
	SaveDonationRequest(r domain.DonationRequest) (domain.DonationRequestId, error)
	DonationRequest(id domain.DonationRequestId) (domain.DonationRequest, error)
	ListDonationRequests(f domain.DonationRequestFilter, page domain.Page) ([]domain.DonationRequest, int, error)
	UpdateDonationRequestStatus(id domain.DonationRequestId, from, to domain.DonationRequestStatus) error
}

type PatientLookup interface {
	Patient(id domain.PatientId) (domain.Patient, error)
}

// Booker creates bookings with token assignment.
type Booker interface {
	Book(booking domain.Booking, requestId *domain.DonationRequestId, source string) (domain.Booking, error)
}

type DonationRequests struct {
	storage  DonationRequestStorage
	donors   DonorLookup
	banks    BankLookup
	patients PatientLookup
	bookings Booker
	notifier *Notifier
	now      func() time.Time
}

func NewDonationRequests(
	storage DonationRequestStorage,
	donors DonorLookup,
	banks BankLookup,
	patients PatientLookup,
	bookings Booker,
	notifier *Notifier,
) *DonationRequests {
	return &DonationRequests{
		storage:  storage,
		donors:   donors,
		banks:    banks,
		patients: patients,
		bookings: bookings,
		notifier: notifier,
		now:      time.Now,
	}
}

// Create sends a donation request to a donor. A blood bank always sends on
// its own behalf; an admin may name a bank or send without one.
func (s *DonationRequests) Create(caller domain.User, req domain.DonationRequest) (domain.DonationRequest, error) {
	var bank *domain.BloodBank
	switch caller.Role {
	case domain.RoleBloodBank:
		b, err := s.banks.ActiveBank(caller.Id)
		if err != nil {
			return domain.DonationRequest{}, err
		}
		bank = &b
	case domain.RoleAdmin:
		if req.BloodBankId != nil {
			b, err := s.banks.Get(*req.BloodBankId)
			if err != nil {
				return domain.DonationRequest{}, err
			}
			bank = &b
		}
	default:
		return domain.DonationRequest{}, errors.Forbidden("Only blood banks and admins can send donation requests")
	}

	donor, err := s.donors.Donor(req.DonorId)
	if err != nil {
		return domain.DonationRequest{}, err
	}
	if donor.UserId == caller.Id {
		return domain.DonationRequest{}, errors.BadRequest("You cannot send a request to yourself")
	}

	req.SenderId = caller.Id
	req.SenderRole = caller.Role
	req.DonorName = donor.Name
	req.BloodGroup = donor.BloodGroup
	req.Message = utils.SanitizeText(req.Message)
	req.BloodBankId = nil
	if bank != nil {
		req.BloodBankId = &bank.Id
		req.BloodBankName = bank.Name
	}

	if req.PatientId != nil {
		if bank == nil {
			return domain.DonationRequest{}, errors.BadRequest("A patient can only be referenced together with a blood bank")
		}
		patient, err := s.patients.Patient(*req.PatientId)
		if err != nil {
			return domain.DonationRequest{}, err
		}
		if patient.BloodBankId != bank.Id {
			return domain.DonationRequest{}, errors.BadRequest("Patient does not belong to the blood bank")
		}
		req.PatientName = patient.Name
		req.BloodGroup = patient.BloodGroup
	}

	id, err := s.storage.SaveDonationRequest(req)
	if err != nil {
		return domain.DonationRequest{}, err
	}
	created, err := s.storage.DonationRequest(id)
	if err != nil {
		return domain.DonationRequest{}, err
	}
	logger.Log.Info("donation request created", "request_id", id, "sender_id", caller.Id, "donor_id", donor.Id)

	sender := "A BloodLink administrator"
	if bank != nil {
		sender = bank.Name
	}
	s.notifier.Notify(donor.UserId, domain.NotificationDonationRequest, "New donation request",
		fmt.Sprintf("%s has asked you to donate blood.", sender), requestLink(id))
	s.notifier.Mail(donor.Email, email.DonationRequestMessage(donor.Name, sender, req.Message))
	return created, nil
}

func (s *DonationRequests) Get(caller domain.User, id domain.DonationRequestId) (domain.DonationRequest, error) {
	r, err := s.storage.DonationRequest(id)
	if err != nil {
		return domain.DonationRequest{}, err
	}
	if caller.Id != r.SenderId && caller.Id != r.DonorUserId &&
		caller.Role != domain.RoleAdmin && caller.Role != domain.RoleStaff {
		return domain.DonationRequest{}, errors.Forbidden("You are not a participant of this request")
	}
	return r, nil
}

// List shows donors the requests they received and banks the ones they sent.
func (s *DonationRequests) List(caller domain.User, status domain.DonationRequestStatus, page domain.Page) ([]domain.DonationRequest, int, error) {
	if status != "" && !status.Valid() {
		return nil, 0, errors.BadRequest("Invalid status %q", status)
	}
	filter := domain.DonationRequestFilter{Status: status}
	switch caller.Role {
	case domain.RoleAdmin, domain.RoleStaff:
	case domain.RoleDonor:
		filter.DonorUserId = caller.Id
	case domain.RoleBloodBank:
		if _, err := s.banks.ActiveBank(caller.Id); err != nil {
			return nil, 0, err
		}
		filter.SenderId = caller.Id
	default:
		return nil, 0, errors.Forbidden("Access denied for role %s", caller.Role)
	}
	return s.storage.ListDonationRequests(filter, page)
}

// UpdateStatus moves a request along its lifecycle. The receiving donor
// accepts or rejects; the sender (or an admin) cancels. Booking happens
// through Book only.
func (s *DonationRequests) UpdateStatus(caller domain.User, id domain.DonationRequestId, status domain.DonationRequestStatus) (domain.DonationRequest, error) {
	if !status.Valid() {
		return domain.DonationRequest{}, errors.BadRequest("Invalid status %q", status)
	}
	r, err := s.storage.DonationRequest(id)
	if err != nil {
		return domain.DonationRequest{}, err
	}
	if !r.Status.CanTransitionTo(status) {
		return domain.DonationRequest{}, errors.BadRequest("Cannot change request from %s to %s", r.Status, status)
	}

	switch status {
	case domain.RequestAccepted, domain.RequestRejected:
		if caller.Id != r.DonorUserId {
			return domain.DonationRequest{}, errors.Forbidden("Only the receiving donor can %s this request", verb(status))
		}
	case domain.RequestCancelled:
		if caller.Id != r.SenderId && !caller.Role.IsAdmin() {
			return domain.DonationRequest{}, errors.Forbidden("Only the sender can cancel this request")
		}
	case domain.RequestBooked:
		return domain.DonationRequest{}, errors.BadRequest("Book a slot to move the request to booked")
	}

	if err := s.storage.UpdateDonationRequestStatus(id, r.Status, status); err != nil {
		return domain.DonationRequest{}, err
	}
	logger.Log.Info("donation request status changed", "request_id", id, "from", r.Status, "to", status, "by", caller.Id)
	r.Status = status

	text := fmt.Sprintf("Donation request #%d is now %s.", id, status)
	if caller.Id != r.SenderId {
		s.notifier.Notify(r.SenderId, domain.NotificationRequestStatus, "Request "+string(status), text, requestLink(id))
	}
	if caller.Id != r.DonorUserId {
		s.notifier.Notify(r.DonorUserId, domain.NotificationRequestStatus, "Request "+string(status), text, requestLink(id))
	}
	return r, nil
}

// Book turns an accepted request into a booking at the request's blood bank
// and marks the request booked in the same transaction.
func (s *DonationRequests) Book(caller domain.User, id domain.DonationRequestId, date time.Time, clock string) (domain.Booking, error) {
	r, err := s.storage.DonationRequest(id)
	if err != nil {
		return domain.Booking{}, err
	}
	if caller.Id != r.DonorUserId {
		return domain.Booking{}, errors.Forbidden("Only the receiving donor can book this request")
	}
	if r.Status != domain.RequestAccepted {
		return domain.Booking{}, errors.BadRequest("Only accepted requests can be booked, this one is %s", r.Status)
	}
	if r.BloodBankId == nil {
		return domain.Booking{}, errors.BadRequest("Request is not tied to a blood bank")
	}
	bank, err := s.banks.Get(*r.BloodBankId)
	if err != nil {
		return domain.Booking{}, err
	}
	if bank.Status != domain.BloodBankApproved || bank.Restricted(s.now()) {
		return domain.Booking{}, errors.BadRequest("Blood bank is not accepting bookings")
	}

	requestId := id
	booking, err := s.bookings.Book(domain.Booking{
		DonorId:           r.DonorId,
		BloodBankId:       bank.Id,
		DonationRequestId: &requestId,
		Date:              date,
		Time:              clock,
		DonorName:         r.DonorName,
		BloodBankName:     bank.Name,
	}, &requestId, BookingSourceRequest)
	if err != nil {
		return domain.Booking{}, err
	}

	s.notifier.Notify(r.SenderId, domain.NotificationRequestStatus, "Request booked",
		fmt.Sprintf("%s booked %s at %s (token %d).", r.DonorName, booking.Date.Format("2006-01-02"), booking.Time, booking.TokenNumber),
		bookingLink(booking.Id))
	return booking, nil
}

func verb(status domain.DonationRequestStatus) string {
	if status == domain.RequestAccepted {
		return "accept"
	}
	return "reject"
}

func requestLink(id domain.DonationRequestId) string {
	return fmt.Sprintf("/donation-requests/%d", id)
}
