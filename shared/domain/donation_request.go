package domain

import "time"

type DonationRequestStatus string

const (
	RequestPending   DonationRequestStatus = "pending"
	RequestAccepted  DonationRequestStatus = "accepted"
	RequestRejected  DonationRequestStatus = "rejected"
	RequestBooked    DonationRequestStatus = "booked"
	RequestCancelled DonationRequestStatus = "cancelled"
)

func (s DonationRequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestAccepted, RequestRejected, RequestBooked, RequestCancelled:
		return true
	}
	return false
}

var requestTransitions = map[DonationRequestStatus][]DonationRequestStatus{
	RequestPending:  {RequestAccepted, RequestRejected, RequestCancelled},
	RequestAccepted: {RequestBooked, RequestCancelled},
	RequestBooked:   {RequestCancelled},
}

// CanTransitionTo reports whether the request lifecycle allows moving from s to next.
func (s DonationRequestStatus) CanTransitionTo(next DonationRequestStatus) bool {
	for _, allowed := range requestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type DonationRequest struct {
	Id            DonationRequestId
	SenderId      UserId
	SenderRole    Role
	DonorId       DonorId
	DonorUserId   UserId
	PatientId     *PatientId
	BloodBankId   *BloodBankId
	Message       string
	Status        DonationRequestStatus
	DonorName     string
	PatientName   string
	BloodBankName string
	BloodGroup    BloodGroup
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DonationRequestFilter scopes a listing. Zero ids mean "any".
type DonationRequestFilter struct {
	SenderId    UserId
	DonorUserId UserId
	Status      DonationRequestStatus
}
