package service

import (
	"net/http"
	"testing"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	internal_errors "github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequestService(storage *MockDonationRequestStorage, patients *MockPatientStorage, booker *MockBooker, notifier *Notifier) *DonationRequests {
	return NewDonationRequests(storage, &MockDonorStorage{}, &MockBankGate{}, patients, booker, notifier)
}

func TestDonationRequestCreate(t *testing.T) {
	bankCaller := domain.User{Id: 110, Role: domain.RoleBloodBank}

	t.Run("Bank sends on its own behalf", func(t *testing.T) {
		storage := &MockDonationRequestStorage{}
		notifier, notifications, email := newTestNotifier()
		var mailed string
		email.SendFunc = func(recipientEmail, subject, body string) error {
			mailed = recipientEmail
			return nil
		}
		service := newRequestService(storage, &MockPatientStorage{}, &MockBooker{}, notifier)

		other := domain.BloodBankId(99)
		r, err := service.Create(bankCaller, domain.DonationRequest{DonorId: 5, BloodBankId: &other, Message: "<i>Urgent</i>"})
		require.NoError(t, err)
		require.NotNil(t, r.BloodBankId)
		assert.Equal(t, domain.BloodBankId(10), *r.BloodBankId)
		assert.Equal(t, "City Blood Bank", r.BloodBankName)
		assert.Equal(t, "Urgent", r.Message)
		assert.Equal(t, domain.RoleBloodBank, r.SenderRole)
		assert.Equal(t, domain.RequestPending, r.Status)
		assert.Len(t, notifications.For(205), 1)
		assert.Equal(t, "ravi@example.com", mailed)
	})

	t.Run("Patient of the same bank", func(t *testing.T) {
		service := newRequestService(&MockDonationRequestStorage{}, &MockPatientStorage{}, &MockBooker{}, nil)
		patientId := domain.PatientId(3)
		r, err := service.Create(bankCaller, domain.DonationRequest{DonorId: 5, PatientId: &patientId})
		require.NoError(t, err)
		assert.Equal(t, "Meena", r.PatientName)
		assert.Equal(t, domain.BNegative, r.BloodGroup)
	})

	t.Run("Patient of another bank", func(t *testing.T) {
		patients := &MockPatientStorage{PatientFunc: func(id domain.PatientId) (domain.Patient, error) {
			return domain.Patient{Id: id, BloodBankId: 99}, nil
		}}
		service := newRequestService(&MockDonationRequestStorage{}, patients, &MockBooker{}, nil)
		patientId := domain.PatientId(3)
		_, err := service.Create(bankCaller, domain.DonationRequest{DonorId: 5, PatientId: &patientId})
		assert.Equal(t, http.StatusBadRequest, internal_errors.StatusCode(err))
	})

	t.Run("Admin without bank cannot reference a patient", func(t *testing.T) {
		service := newRequestService(&MockDonationRequestStorage{}, &MockPatientStorage{}, &MockBooker{}, nil)
		patientId := domain.PatientId(3)
		_, err := service.Create(domain.User{Id: 1, Role: domain.RoleAdmin}, domain.DonationRequest{DonorId: 5, PatientId: &patientId})
		assert.Equal(t, http.StatusBadRequest, internal_errors.StatusCode(err))
	})

	t.Run("Donor cannot send", func(t *testing.T) {
		service := newRequestService(&MockDonationRequestStorage{}, &MockPatientStorage{}, &MockBooker{}, nil)
		_, err := service.Create(domain.User{Id: 300, Role: domain.RoleDonor}, domain.DonationRequest{DonorId: 5})
		assert.Equal(t, http.StatusForbidden, internal_errors.StatusCode(err))
	})

	t.Run("Request to yourself", func(t *testing.T) {
		service := newRequestService(&MockDonationRequestStorage{}, &MockPatientStorage{}, &MockBooker{}, nil)
		_, err := service.Create(domain.User{Id: 205, Role: domain.RoleAdmin}, domain.DonationRequest{DonorId: 5})
		assert.Equal(t, http.StatusBadRequest, internal_errors.StatusCode(err))
	})
}

func requestInStatus(status domain.DonationRequestStatus) *MockDonationRequestStorage {
	bankId := domain.BloodBankId(10)
	return &MockDonationRequestStorage{DonationRequestFunc: func(id domain.DonationRequestId) (domain.DonationRequest, error) {
		return domain.DonationRequest{
			Id: id, SenderId: 110, SenderRole: domain.RoleBloodBank,
			DonorId: 5, DonorUserId: 300, DonorName: "Ravi",
			BloodBankId: &bankId, Status: status,
		}, nil
	}}
}

func TestDonationRequestUpdateStatus(t *testing.T) {
	donor := domain.User{Id: 300, Role: domain.RoleDonor}
	sender := domain.User{Id: 110, Role: domain.RoleBloodBank}

	t.Run("Donor accepts and sender is notified", func(t *testing.T) {
		notifier, notifications, _ := newTestNotifier()
		service := newRequestService(requestInStatus(domain.RequestPending), &MockPatientStorage{}, &MockBooker{}, notifier)
		r, err := service.UpdateStatus(donor, 1, domain.RequestAccepted)
		require.NoError(t, err)
		assert.Equal(t, domain.RequestAccepted, r.Status)
		assert.Len(t, notifications.For(110), 1)
		assert.Empty(t, notifications.For(300))
	})

	t.Run("Sender cannot accept", func(t *testing.T) {
		service := newRequestService(requestInStatus(domain.RequestPending), &MockPatientStorage{}, &MockBooker{}, nil)
		_, err := service.UpdateStatus(sender, 1, domain.RequestAccepted)
		assert.Equal(t, http.StatusForbidden, internal_errors.StatusCode(err))
	})

	t.Run("Donor cannot cancel", func(t *testing.T) {
		service := newRequestService(requestInStatus(domain.RequestPending), &MockPatientStorage{}, &MockBooker{}, nil)
		_, err := service.UpdateStatus(donor, 1, domain.RequestCancelled)
		assert.Equal(t, http.StatusForbidden, internal_errors.StatusCode(err))
	})

	t.Run("Sender cancels a booked request", func(t *testing.T) {
		service := newRequestService(requestInStatus(domain.RequestBooked), &MockPatientStorage{}, &MockBooker{}, nil)
		_, err := service.UpdateStatus(sender, 1, domain.RequestCancelled)
		assert.NoError(t, err)
	})

	t.Run("Rejected is final", func(t *testing.T) {
		service := newRequestService(requestInStatus(domain.RequestRejected), &MockPatientStorage{}, &MockBooker{}, nil)
		_, err := service.UpdateStatus(donor, 1, domain.RequestAccepted)
		assert.Equal(t, http.StatusBadRequest, internal_errors.StatusCode(err))
	})

	t.Run("Booked only through booking", func(t *testing.T) {
		service := newRequestService(requestInStatus(domain.RequestAccepted), &MockPatientStorage{}, &MockBooker{}, nil)
		_, err := service.UpdateStatus(donor, 1, domain.RequestBooked)
		assert.Equal(t, http.StatusBadRequest, internal_errors.StatusCode(err))
	})
}

func TestDonationRequestBook(t *testing.T) {
	donor := domain.User{Id: 300, Role: domain.RoleDonor}

	t.Run("Accepted request becomes a booking", func(t *testing.T) {
		var gotRequest *domain.DonationRequestId
		var gotSource string
		booker := &MockBooker{BookFunc: func(b domain.Booking, requestId *domain.DonationRequestId, source string) (domain.Booking, error) {
			gotRequest, gotSource = requestId, source
			b.Id = 4
			b.TokenNumber = 30
			return b, nil
		}}
		notifier, notifications, _ := newTestNotifier()
		service := newRequestService(requestInStatus(domain.RequestAccepted), &MockPatientStorage{}, booker, notifier)

		b, err := service.Book(donor, 7, tomorrow(), "11:00")
		require.NoError(t, err)
		require.NotNil(t, gotRequest)
		assert.Equal(t, domain.DonationRequestId(7), *gotRequest)
		assert.Equal(t, BookingSourceRequest, gotSource)
		assert.Equal(t, domain.BloodBankId(10), b.BloodBankId)
		assert.Equal(t, domain.DonorId(5), b.DonorId)
		assert.Len(t, notifications.For(110), 1)
	})

	t.Run("Pending request cannot be booked", func(t *testing.T) {
		service := newRequestService(requestInStatus(domain.RequestPending), &MockPatientStorage{}, &MockBooker{}, nil)
		_, err := service.Book(donor, 7, tomorrow(), "11:00")
		assert.Equal(t, http.StatusBadRequest, internal_errors.StatusCode(err))
	})

	t.Run("Only the receiving donor books", func(t *testing.T) {
		service := newRequestService(requestInStatus(domain.RequestAccepted), &MockPatientStorage{}, &MockBooker{}, nil)
		_, err := service.Book(domain.User{Id: 110, Role: domain.RoleBloodBank}, 7, tomorrow(), "11:00")
		assert.Equal(t, http.StatusForbidden, internal_errors.StatusCode(err))
	})

	t.Run("Request without bank", func(t *testing.T) {
		storage := &MockDonationRequestStorage{DonationRequestFunc: func(id domain.DonationRequestId) (domain.DonationRequest, error) {
			return domain.DonationRequest{Id: id, SenderId: 1, DonorUserId: 300, Status: domain.RequestAccepted}, nil
		}}
		service := newRequestService(storage, &MockPatientStorage{}, &MockBooker{}, nil)
		_, err := service.Book(donor, 7, tomorrow(), "11:00")
		assert.Equal(t, http.StatusBadRequest, internal_errors.StatusCode(err))
	})
}

func TestDonationRequestGet_Participants(t *testing.T) {
	service := newRequestService(requestInStatus(domain.RequestPending), &MockPatientStorage{}, &MockBooker{}, nil)

	_, err := service.Get(domain.User{Id: 300, Role: domain.RoleDonor}, 1)
	assert.NoError(t, err)
	_, err = service.Get(domain.User{Id: 2, Role: domain.RoleStaff}, 1)
	assert.NoError(t, err)
	_, err = service.Get(domain.User{Id: 301, Role: domain.RoleDonor}, 1)
	assert.Equal(t, http.StatusForbidden, internal_errors.StatusCode(err))
}
