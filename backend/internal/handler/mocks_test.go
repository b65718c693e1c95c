package handler

import (
	"io"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
)

// --- Auth ---

type MockAuthService struct {
	RegisterFunc       func(user domain.User, password domain.Password) (domain.User, error)
	LoginFunc          func(creds domain.Credentials) (string, domain.User, error)
	MeFunc             func(userId domain.UserId) (domain.User, error)
	ChangePasswordFunc func(userId domain.UserId, oldPassword, newPassword domain.Password) error
}

func (m *MockAuthService) Register(user domain.User, password domain.Password) (domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(user, password)
	}
	user.Id = 1
	return user, nil
}

func (m *MockAuthService) Login(creds domain.Credentials) (string, domain.User, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(creds)
	}
	return "token", domain.User{Id: 1, Email: creds.Email, Role: domain.RoleUser}, nil
}

func (m *MockAuthService) Me(userId domain.UserId) (domain.User, error) {
	if m.MeFunc != nil {
		return m.MeFunc(userId)
	}
	return domain.User{Id: userId}, nil
}

func (m *MockAuthService) ChangePassword(userId domain.UserId, oldPassword, newPassword domain.Password) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(userId, oldPassword, newPassword)
	}
	return nil
}

// --- Users ---

type MockUserService struct {
	UpdateProfileFunc func(userId domain.UserId, upd domain.UserProfileUpdate) (domain.User, error)
	SetAvatarFunc     func(userId domain.UserId, pending *domain.PendingImage) (domain.User, error)
	AvatarFunc        func(userId domain.UserId) (io.ReadSeekCloser, string, error)
	GetFunc           func(userId domain.UserId) (domain.User, error)
	ListFunc          func(filter domain.UserFilter, page domain.Page) ([]domain.User, int, error)
	BlockFunc         func(adminId, userId domain.UserId, message string) error
	UnblockFunc       func(adminId, userId domain.UserId) error
	SuspendFunc       func(adminId, userId domain.UserId, until *time.Time, message string) error
	UnsuspendFunc     func(adminId, userId domain.UserId) error
}

func (m *MockUserService) UpdateProfile(userId domain.UserId, upd domain.UserProfileUpdate) (domain.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(userId, upd)
	}
	return domain.User{Id: userId}, nil
}

func (m *MockUserService) SetAvatar(userId domain.UserId, pending *domain.PendingImage) (domain.User, error) {
	if m.SetAvatarFunc != nil {
		return m.SetAvatarFunc(userId, pending)
	}
	return domain.User{Id: userId, ProfileImage: "avatars/1/a" + pending.Extension}, nil
}

func (m *MockUserService) Avatar(userId domain.UserId) (io.ReadSeekCloser, string, error) {
	if m.AvatarFunc != nil {
		return m.AvatarFunc(userId)
	}
	return nil, "", nil
}

func (m *MockUserService) Get(userId domain.UserId) (domain.User, error) {
	if m.GetFunc != nil {
		return m.GetFunc(userId)
	}
	return domain.User{Id: userId}, nil
}

func (m *MockUserService) List(filter domain.UserFilter, page domain.Page) ([]domain.User, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(filter, page)
	}
	return nil, 0, nil
}

func (m *MockUserService) Block(adminId, userId domain.UserId, message string) error {
	if m.BlockFunc != nil {
		return m.BlockFunc(adminId, userId, message)
	}
	return nil
}

func (m *MockUserService) Unblock(adminId, userId domain.UserId) error {
	if m.UnblockFunc != nil {
		return m.UnblockFunc(adminId, userId)
	}
	return nil
}

func (m *MockUserService) Suspend(adminId, userId domain.UserId, until *time.Time, message string) error {
	if m.SuspendFunc != nil {
		return m.SuspendFunc(adminId, userId, until, message)
	}
	return nil
}

func (m *MockUserService) Unsuspend(adminId, userId domain.UserId) error {
	if m.UnsuspendFunc != nil {
		return m.UnsuspendFunc(adminId, userId)
	}
	return nil
}

// --- Donors ---

type MockDonorService struct {
	RegisterFunc        func(userId domain.UserId, donor domain.Donor) (domain.Donor, error)
	GetFunc             func(id domain.DonorId) (domain.Donor, error)
	MineFunc            func(userId domain.UserId) (domain.Donor, error)
	ListFunc            func(filter domain.DonorFilter, page domain.Page) ([]domain.Donor, int, error)
	UpdateFunc          func(caller domain.User, donor domain.Donor) (domain.Donor, error)
	SetAvailabilityFunc func(userId domain.UserId, available bool) (domain.Donor, error)
	RecordDonationFunc  func(caller domain.User, id domain.DonorId, rec domain.DonationRecord) (domain.Donor, error)
	DeleteFunc          func(id domain.DonorId) error
}

func (m *MockDonorService) Register(userId domain.UserId, donor domain.Donor) (domain.Donor, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(userId, donor)
	}
	donor.Id, donor.UserId = 5, userId
	return donor, nil
}

func (m *MockDonorService) Get(id domain.DonorId) (domain.Donor, error) {
	if m.GetFunc != nil {
		return m.GetFunc(id)
	}
	return domain.Donor{Id: id}, nil
}

func (m *MockDonorService) Mine(userId domain.UserId) (domain.Donor, error) {
	if m.MineFunc != nil {
		return m.MineFunc(userId)
	}
	return domain.Donor{Id: 5, UserId: userId}, nil
}

func (m *MockDonorService) List(filter domain.DonorFilter, page domain.Page) ([]domain.Donor, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(filter, page)
	}
	return nil, 0, nil
}

func (m *MockDonorService) Update(caller domain.User, donor domain.Donor) (domain.Donor, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(caller, donor)
	}
	return donor, nil
}

func (m *MockDonorService) SetAvailability(userId domain.UserId, available bool) (domain.Donor, error) {
	if m.SetAvailabilityFunc != nil {
		return m.SetAvailabilityFunc(userId, available)
	}
	return domain.Donor{Id: 5, UserId: userId, IsAvailable: available}, nil
}

func (m *MockDonorService) RecordDonation(caller domain.User, id domain.DonorId, rec domain.DonationRecord) (domain.Donor, error) {
	if m.RecordDonationFunc != nil {
		return m.RecordDonationFunc(caller, id, rec)
	}
	d := domain.Donor{Id: id}
	d.RecordDonation(rec)
	return d, nil
}

func (m *MockDonorService) Delete(id domain.DonorId) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(id)
	}
	return nil
}

// --- Blood banks ---

type MockBloodBankService struct {
	RegisterFunc      func(userId domain.UserId, bank domain.BloodBank) (domain.BloodBank, error)
	GetFunc           func(id domain.BloodBankId) (domain.BloodBank, error)
	MineFunc          func(userId domain.UserId) (domain.BloodBank, error)
	ListFunc          func(caller domain.User, filter domain.BloodBankFilter, page domain.Page) ([]domain.BloodBank, int, error)
	UpdateFunc        func(caller domain.User, bank domain.BloodBank) (domain.BloodBank, error)
	SetStatusFunc     func(id domain.BloodBankId, status domain.BloodBankStatus) error
	SetBlockFunc      func(id domain.BloodBankId, blocked bool, message string) error
	SetSuspensionFunc func(id domain.BloodBankId, suspended bool, until *time.Time, message string) error
	ActiveBankFunc    func(userId domain.UserId) (domain.BloodBank, error)
}

func (m *MockBloodBankService) Register(userId domain.UserId, bank domain.BloodBank) (domain.BloodBank, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(userId, bank)
	}
	bank.Id, bank.UserId, bank.Status = 10, userId, domain.BloodBankPending
	return bank, nil
}

func (m *MockBloodBankService) Get(id domain.BloodBankId) (domain.BloodBank, error) {
	if m.GetFunc != nil {
		return m.GetFunc(id)
	}
	return domain.BloodBank{Id: id}, nil
}

func (m *MockBloodBankService) Mine(userId domain.UserId) (domain.BloodBank, error) {
	if m.MineFunc != nil {
		return m.MineFunc(userId)
	}
	return domain.BloodBank{Id: 10, UserId: userId}, nil
}

func (m *MockBloodBankService) List(caller domain.User, filter domain.BloodBankFilter, page domain.Page) ([]domain.BloodBank, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(caller, filter, page)
	}
	return nil, 0, nil
}

func (m *MockBloodBankService) Update(caller domain.User, bank domain.BloodBank) (domain.BloodBank, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(caller, bank)
	}
	return bank, nil
}

func (m *MockBloodBankService) SetStatus(id domain.BloodBankId, status domain.BloodBankStatus) error {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(id, status)
	}
	return nil
}

func (m *MockBloodBankService) SetBlock(id domain.BloodBankId, blocked bool, message string) error {
	if m.SetBlockFunc != nil {
		return m.SetBlockFunc(id, blocked, message)
	}
	return nil
}

func (m *MockBloodBankService) SetSuspension(id domain.BloodBankId, suspended bool, until *time.Time, message string) error {
	if m.SetSuspensionFunc != nil {
		return m.SetSuspensionFunc(id, suspended, until, message)
	}
	return nil
}

func (m *MockBloodBankService) ActiveBank(userId domain.UserId) (domain.BloodBank, error) {
	if m.ActiveBankFunc != nil {
		return m.ActiveBankFunc(userId)
	}
	return domain.BloodBank{Id: 10, UserId: userId, Status: domain.BloodBankApproved}, nil
}

// --- Patients ---

type MockPatientService struct {
	CreateFunc func(userId domain.UserId, patient domain.Patient) (domain.Patient, error)
	GetFunc    func(userId domain.UserId, id domain.PatientId) (domain.Patient, error)
	ListFunc   func(userId domain.UserId, page domain.Page) ([]domain.Patient, int, error)
	UpdateFunc func(userId domain.UserId, patient domain.Patient) (domain.Patient, error)
	DeleteFunc func(userId domain.UserId, id domain.PatientId) error
}

func (m *MockPatientService) Create(userId domain.UserId, patient domain.Patient) (domain.Patient, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(userId, patient)
	}
	patient.Id, patient.BloodBankId = 1, 10
	return patient, nil
}

func (m *MockPatientService) Get(userId domain.UserId, id domain.PatientId) (domain.Patient, error) {
	if m.GetFunc != nil {
		return m.GetFunc(userId, id)
	}
	return domain.Patient{Id: id, BloodBankId: 10}, nil
}

func (m *MockPatientService) List(userId domain.UserId, page domain.Page) ([]domain.Patient, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(userId, page)
	}
	return nil, 0, nil
}

func (m *MockPatientService) Update(userId domain.UserId, patient domain.Patient) (domain.Patient, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(userId, patient)
	}
	return patient, nil
}

func (m *MockPatientService) Delete(userId domain.UserId, id domain.PatientId) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(userId, id)
	}
	return nil
}

// --- Donation requests ---

type MockDonationRequestService struct {
	CreateFunc       func(caller domain.User, req domain.DonationRequest) (domain.DonationRequest, error)
	GetFunc          func(caller domain.User, id domain.DonationRequestId) (domain.DonationRequest, error)
	ListFunc         func(caller domain.User, status domain.DonationRequestStatus, page domain.Page) ([]domain.DonationRequest, int, error)
	UpdateStatusFunc func(caller domain.User, id domain.DonationRequestId, status domain.DonationRequestStatus) (domain.DonationRequest, error)
	BookFunc         func(caller domain.User, id domain.DonationRequestId, date time.Time, clock string) (domain.Booking, error)
}

func (m *MockDonationRequestService) Create(caller domain.User, req domain.DonationRequest) (domain.DonationRequest, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(caller, req)
	}
	req.Id, req.SenderId, req.Status = 1, caller.Id, domain.RequestPending
	return req, nil
}

func (m *MockDonationRequestService) Get(caller domain.User, id domain.DonationRequestId) (domain.DonationRequest, error) {
	if m.GetFunc != nil {
		return m.GetFunc(caller, id)
	}
	return domain.DonationRequest{Id: id}, nil
}

func (m *MockDonationRequestService) List(caller domain.User, status domain.DonationRequestStatus, page domain.Page) ([]domain.DonationRequest, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(caller, status, page)
	}
	return nil, 0, nil
}

func (m *MockDonationRequestService) UpdateStatus(caller domain.User, id domain.DonationRequestId, status domain.DonationRequestStatus) (domain.DonationRequest, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(caller, id, status)
	}
	return domain.DonationRequest{Id: id, Status: status}, nil
}

func (m *MockDonationRequestService) Book(caller domain.User, id domain.DonationRequestId, date time.Time, clock string) (domain.Booking, error) {
	if m.BookFunc != nil {
		return m.BookFunc(caller, id, date, clock)
	}
	return domain.Booking{Id: 1, DonationRequestId: &id, Date: date, Time: clock, TokenNumber: domain.TokenMin}, nil
}

// --- Bookings ---

type MockBookingService struct {
	CreateFunc       func(userId domain.UserId, booking domain.Booking) (domain.Booking, error)
	BookFunc         func(booking domain.Booking, requestId *domain.DonationRequestId, source string) (domain.Booking, error)
	GetFunc          func(caller domain.User, id domain.BookingId) (domain.Booking, error)
	ListFunc         func(caller domain.User, filter domain.BookingFilter, page domain.Page) ([]domain.Booking, int, error)
	UpdateStatusFunc func(caller domain.User, id domain.BookingId, status domain.BookingStatus) (domain.Booking, error)
	SlotsFunc        func(bankId domain.BloodBankId, date time.Time) ([]int, error)
}

func (m *MockBookingService) Create(userId domain.UserId, booking domain.Booking) (domain.Booking, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(userId, booking)
	}
	booking.Id, booking.TokenNumber, booking.Status = 1, domain.TokenMin, domain.BookingPending
	return booking, nil
}

func (m *MockBookingService) Book(booking domain.Booking, requestId *domain.DonationRequestId, source string) (domain.Booking, error) {
	if m.BookFunc != nil {
		return m.BookFunc(booking, requestId, source)
	}
	return booking, nil
}

func (m *MockBookingService) Get(caller domain.User, id domain.BookingId) (domain.Booking, error) {
	if m.GetFunc != nil {
		return m.GetFunc(caller, id)
	}
	return domain.Booking{Id: id}, nil
}

func (m *MockBookingService) List(caller domain.User, filter domain.BookingFilter, page domain.Page) ([]domain.Booking, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(caller, filter, page)
	}
	return nil, 0, nil
}

func (m *MockBookingService) UpdateStatus(caller domain.User, id domain.BookingId, status domain.BookingStatus) (domain.Booking, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(caller, id, status)
	}
	return domain.Booking{Id: id, Status: status}, nil
}

func (m *MockBookingService) Slots(bankId domain.BloodBankId, date time.Time) ([]int, error) {
	if m.SlotsFunc != nil {
		return m.SlotsFunc(bankId, date)
	}
	return nil, nil
}

// --- Inventory ---

type MockInventoryService struct {
	CreateFunc    func(userId domain.UserId, inv domain.Inventory) (domain.Inventory, error)
	GetFunc       func(userId domain.UserId, id domain.InventoryId) (domain.Inventory, error)
	ListFunc      func(userId domain.UserId, filter domain.InventoryFilter, page domain.Page) ([]domain.Inventory, int, error)
	UpdateFunc    func(userId domain.UserId, inv domain.Inventory) (domain.Inventory, error)
	SetStatusFunc func(userId domain.UserId, id domain.InventoryId, status domain.InventoryStatus) (domain.Inventory, error)
	DeleteFunc    func(userId domain.UserId, id domain.InventoryId) error
	SummaryFunc   func(userId domain.UserId) (domain.InventorySummary, error)
	ExpiringFunc  func(userId domain.UserId, days int) ([]domain.Inventory, error)
	ExportFunc    func(userId domain.UserId) ([]byte, string, error)
}

func (m *MockInventoryService) Create(userId domain.UserId, inv domain.Inventory) (domain.Inventory, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(userId, inv)
	}
	inv.Id, inv.BloodBankId = 1, 10
	inv.Normalize(time.Now())
	return inv, nil
}

func (m *MockInventoryService) Get(userId domain.UserId, id domain.InventoryId) (domain.Inventory, error) {
	if m.GetFunc != nil {
		return m.GetFunc(userId, id)
	}
	return domain.Inventory{Id: id, BloodBankId: 10}, nil
}

func (m *MockInventoryService) List(userId domain.UserId, filter domain.InventoryFilter, page domain.Page) ([]domain.Inventory, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(userId, filter, page)
	}
	return nil, 0, nil
}

func (m *MockInventoryService) Update(userId domain.UserId, inv domain.Inventory) (domain.Inventory, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(userId, inv)
	}
	return inv, nil
}

func (m *MockInventoryService) SetStatus(userId domain.UserId, id domain.InventoryId, status domain.InventoryStatus) (domain.Inventory, error) {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(userId, id, status)
	}
	return domain.Inventory{Id: id, Status: status}, nil
}

func (m *MockInventoryService) Delete(userId domain.UserId, id domain.InventoryId) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(userId, id)
	}
	return nil
}

func (m *MockInventoryService) Summary(userId domain.UserId) (domain.InventorySummary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(userId)
	}
	return domain.InventorySummary{}, nil
}

func (m *MockInventoryService) Expiring(userId domain.UserId, days int) ([]domain.Inventory, error) {
	if m.ExpiringFunc != nil {
		return m.ExpiringFunc(userId, days)
	}
	return nil, nil
}

func (m *MockInventoryService) Export(userId domain.UserId) ([]byte, string, error) {
	if m.ExportFunc != nil {
		return m.ExportFunc(userId)
	}
	return []byte("xlsx"), "inventory.xlsx", nil
}

// --- Notifications ---

type MockNotificationService struct {
	ListFunc        func(userId domain.UserId, unreadOnly bool, page domain.Page) ([]domain.Notification, int, error)
	UnreadCountFunc func(userId domain.UserId) (int, error)
	MarkReadFunc    func(id domain.NotificationId, userId domain.UserId) error
	MarkAllReadFunc func(userId domain.UserId) (int64, error)
	DeleteFunc      func(id domain.NotificationId, userId domain.UserId) error
}

func (m *MockNotificationService) List(userId domain.UserId, unreadOnly bool, page domain.Page) ([]domain.Notification, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(userId, unreadOnly, page)
	}
	return nil, 0, nil
}

func (m *MockNotificationService) UnreadCount(userId domain.UserId) (int, error) {
	if m.UnreadCountFunc != nil {
		return m.UnreadCountFunc(userId)
	}
	return 0, nil
}

func (m *MockNotificationService) MarkRead(id domain.NotificationId, userId domain.UserId) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(id, userId)
	}
	return nil
}

func (m *MockNotificationService) MarkAllRead(userId domain.UserId) (int64, error) {
	if m.MarkAllReadFunc != nil {
		return m.MarkAllReadFunc(userId)
	}
	return 0, nil
}

func (m *MockNotificationService) Delete(id domain.NotificationId, userId domain.UserId) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(id, userId)
	}
	return nil
}

// --- Reviews ---

type MockReviewService struct {
	CreateFunc  func(caller domain.User, review domain.Review) (domain.Review, error)
	ListFunc    func(target domain.ReviewTarget, targetId int64, page domain.Page) ([]domain.Review, int, error)
	SummaryFunc func(target domain.ReviewTarget, targetId int64) (domain.ReviewSummary, error)
	DeleteFunc  func(caller domain.User, id domain.ReviewId) error
}

func (m *MockReviewService) Create(caller domain.User, review domain.Review) (domain.Review, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(caller, review)
	}
	review.Id, review.ReviewerId = 1, caller.Id
	return review, nil
}

func (m *MockReviewService) List(target domain.ReviewTarget, targetId int64, page domain.Page) ([]domain.Review, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(target, targetId, page)
	}
	return nil, 0, nil
}

func (m *MockReviewService) Summary(target domain.ReviewTarget, targetId int64) (domain.ReviewSummary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(target, targetId)
	}
	return domain.ReviewSummary{TargetType: target, TargetId: targetId}, nil
}

func (m *MockReviewService) Delete(caller domain.User, id domain.ReviewId) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(caller, id)
	}
	return nil
}

// --- Chat ---

type MockChatService struct {
	StartFunc         func(caller domain.User, participantId domain.UserId) (domain.Conversation, error)
	ConversationsFunc func(caller domain.User) ([]domain.Conversation, error)
	MessagesFunc      func(caller domain.User, id domain.ConversationId, page domain.Page) ([]domain.ChatMessage, int, error)
	SendFunc          func(caller domain.User, id domain.ConversationId, text string) (domain.ChatMessage, error)
	MarkReadFunc      func(caller domain.User, id domain.ConversationId) (int64, error)
}

func (m *MockChatService) Start(caller domain.User, participantId domain.UserId) (domain.Conversation, error) {
	if m.StartFunc != nil {
		return m.StartFunc(caller, participantId)
	}
	return domain.Conversation{Id: "c1", Participants: []domain.UserId{caller.Id, participantId}}, nil
}

func (m *MockChatService) Conversations(caller domain.User) ([]domain.Conversation, error) {
	if m.ConversationsFunc != nil {
		return m.ConversationsFunc(caller)
	}
	return nil, nil
}

func (m *MockChatService) Messages(caller domain.User, id domain.ConversationId, page domain.Page) ([]domain.ChatMessage, int, error) {
	if m.MessagesFunc != nil {
		return m.MessagesFunc(caller, id, page)
	}
	return nil, 0, nil
}

func (m *MockChatService) Send(caller domain.User, id domain.ConversationId, text string) (domain.ChatMessage, error) {
	if m.SendFunc != nil {
		return m.SendFunc(caller, id, text)
	}
	return domain.ChatMessage{Id: "m1", ConversationId: id, SenderId: caller.Id, Text: text}, nil
}

func (m *MockChatService) MarkRead(caller domain.User, id domain.ConversationId) (int64, error) {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(caller, id)
	}
	return 0, nil
}

// --- Taxi ---

type MockTaxiService struct {
	CreateFunc             func(caller domain.User, taxi domain.TaxiBooking) (domain.TaxiBooking, error)
	GetFunc                func(caller domain.User, id domain.TaxiBookingId) (domain.TaxiBooking, error)
	ListFunc               func(caller domain.User, page domain.Page) ([]domain.TaxiBooking, int, error)
	UpdateStatusFunc       func(caller domain.User, id domain.TaxiBookingId, status domain.TaxiStatus) (domain.TaxiBooking, error)
	CreatePaymentOrderFunc func(caller domain.User, id domain.TaxiBookingId) (domain.PaymentOrder, string, error)
	VerifyPaymentFunc      func(caller domain.User, id domain.TaxiBookingId, orderId, paymentId, signature string) (domain.TaxiBooking, error)
}

func (m *MockTaxiService) Create(caller domain.User, taxi domain.TaxiBooking) (domain.TaxiBooking, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(caller, taxi)
	}
	taxi.Id, taxi.UserId, taxi.Status = 1, caller.Id, domain.TaxiRequested
	return taxi, nil
}

func (m *MockTaxiService) Get(caller domain.User, id domain.TaxiBookingId) (domain.TaxiBooking, error) {
	if m.GetFunc != nil {
		return m.GetFunc(caller, id)
	}
	return domain.TaxiBooking{Id: id, UserId: caller.Id}, nil
}

func (m *MockTaxiService) List(caller domain.User, page domain.Page) ([]domain.TaxiBooking, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(caller, page)
	}
	return nil, 0, nil
}

func (m *MockTaxiService) UpdateStatus(caller domain.User, id domain.TaxiBookingId, status domain.TaxiStatus) (domain.TaxiBooking, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(caller, id, status)
	}
	return domain.TaxiBooking{Id: id, Status: status}, nil
}

func (m *MockTaxiService) CreatePaymentOrder(caller domain.User, id domain.TaxiBookingId) (domain.PaymentOrder, string, error) {
	if m.CreatePaymentOrderFunc != nil {
		return m.CreatePaymentOrderFunc(caller, id)
	}
	return domain.PaymentOrder{OrderId: "order_1", Amount: 10000, Currency: "INR"}, "rzp_test_key", nil
}

func (m *MockTaxiService) VerifyPayment(caller domain.User, id domain.TaxiBookingId, orderId, paymentId, signature string) (domain.TaxiBooking, error) {
	if m.VerifyPaymentFunc != nil {
		return m.VerifyPaymentFunc(caller, id, orderId, paymentId, signature)
	}
	return domain.TaxiBooking{Id: id, PaymentStatus: domain.PaymentPaid, PaymentOrderId: orderId, PaymentId: paymentId}, nil
}
