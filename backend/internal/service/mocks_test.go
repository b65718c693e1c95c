package service

import (
	"io"
	"sync"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	internal_errors "github.com/bloodlink-dev/bloodlink/shared/errors"
)

// --- Notifications ---

type MockNotificationStorage struct {
	mu    sync.Mutex
	Saved []domain.Notification

	SaveNotificationFunc func(n domain.Notification) (domain.NotificationId, error)
}

func (m *MockNotificationStorage) SaveNotification(n domain.Notification) (domain.NotificationId, error) {
	m.mu.Lock()
	m.Saved = append(m.Saved, n)
	m.mu.Unlock()
	if m.SaveNotificationFunc != nil {
		return m.SaveNotificationFunc(n)
	}
	return domain.NotificationId(len(m.Saved)), nil
}

func (m *MockNotificationStorage) ListNotifications(userId domain.UserId, unreadOnly bool, page domain.Page) ([]domain.Notification, int, error) {
	return m.Saved, len(m.Saved), nil
}

func (m *MockNotificationStorage) UnreadCount(userId domain.UserId) (int, error) {
	return len(m.Saved), nil
}

func (m *MockNotificationStorage) MarkNotificationRead(id domain.NotificationId, userId domain.UserId) error {
	return nil
}

func (m *MockNotificationStorage) MarkAllNotificationsRead(userId domain.UserId) (int64, error) {
	return int64(len(m.Saved)), nil
}

func (m *MockNotificationStorage) DeleteNotification(id domain.NotificationId, userId domain.UserId) error {
	return nil
}

func (m *MockNotificationStorage) For(userId domain.UserId) []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Notification
	for _, n := range m.Saved {
		if n.UserId == userId {
			out = append(out, n)
		}
	}
	return out
}

func newTestNotifier() (*Notifier, *MockNotificationStorage, *MockEmail) {
	storage := &MockNotificationStorage{}
	email := &MockEmail{}
	return NewNotifier(storage, email), storage, email
}

// --- Blood banks ---

type MockBankGate struct {
	ActiveBankFunc func(userId domain.UserId) (domain.BloodBank, error)
	GetFunc        func(id domain.BloodBankId) (domain.BloodBank, error)
}

func (m *MockBankGate) ActiveBank(userId domain.UserId) (domain.BloodBank, error) {
	if m.ActiveBankFunc != nil {
		return m.ActiveBankFunc(userId)
	}
	return domain.BloodBank{Id: 10, UserId: userId, Name: "City Blood Bank", Status: domain.BloodBankApproved}, nil
}

func (m *MockBankGate) Get(id domain.BloodBankId) (domain.BloodBank, error) {
	if m.GetFunc != nil {
		return m.GetFunc(id)
	}
	return domain.BloodBank{Id: id, UserId: 100 + id, Name: "City Blood Bank", Status: domain.BloodBankApproved}, nil
}

type MockBloodBankStorage struct {
	SaveBloodBankFunc          func(b domain.BloodBank) (domain.BloodBankId, error)
	BloodBankFunc              func(id domain.BloodBankId) (domain.BloodBank, error)
	BloodBankByUserIdFunc      func(userId domain.UserId) (domain.BloodBank, error)
	ListBloodBanksFunc         func(f domain.BloodBankFilter, page domain.Page) ([]domain.BloodBank, int, error)
	UpdateBloodBankFunc        func(b domain.BloodBank) (domain.BloodBank, error)
	SetBloodBankStatusFunc     func(id domain.BloodBankId, status domain.BloodBankStatus) error
	SetBloodBankBlockFunc      func(id domain.BloodBankId, blocked bool, message string) error
	SetBloodBankSuspensionFunc func(id domain.BloodBankId, suspended bool, until *time.Time, message string) error
}

func (m *MockBloodBankStorage) SaveBloodBank(b domain.BloodBank) (domain.BloodBankId, error) {
	if m.SaveBloodBankFunc != nil {
		return m.SaveBloodBankFunc(b)
	}
	return 1, nil
}

func (m *MockBloodBankStorage) BloodBank(id domain.BloodBankId) (domain.BloodBank, error) {
	if m.BloodBankFunc != nil {
		return m.BloodBankFunc(id)
	}
	return domain.BloodBank{Id: id, Status: domain.BloodBankPending}, nil
}

func (m *MockBloodBankStorage) BloodBankByUserId(userId domain.UserId) (domain.BloodBank, error) {
	if m.BloodBankByUserIdFunc != nil {
		return m.BloodBankByUserIdFunc(userId)
	}
	return domain.BloodBank{}, internal_errors.NotFound("Blood bank not found")
}

func (m *MockBloodBankStorage) ListBloodBanks(f domain.BloodBankFilter, page domain.Page) ([]domain.BloodBank, int, error) {
	if m.ListBloodBanksFunc != nil {
		return m.ListBloodBanksFunc(f, page)
	}
	return nil, 0, nil
}

func (m *MockBloodBankStorage) UpdateBloodBank(b domain.BloodBank) (domain.BloodBank, error) {
	if m.UpdateBloodBankFunc != nil {
		return m.UpdateBloodBankFunc(b)
	}
	return b, nil
}

func (m *MockBloodBankStorage) SetBloodBankStatus(id domain.BloodBankId, status domain.BloodBankStatus) error {
	if m.SetBloodBankStatusFunc != nil {
		return m.SetBloodBankStatusFunc(id, status)
	}
	return nil
}

func (m *MockBloodBankStorage) SetBloodBankBlock(id domain.BloodBankId, blocked bool, message string) error {
	if m.SetBloodBankBlockFunc != nil {
		return m.SetBloodBankBlockFunc(id, blocked, message)
	}
	return nil
}

func (m *MockBloodBankStorage) SetBloodBankSuspension(id domain.BloodBankId, suspended bool, until *time.Time, message string) error {
	if m.SetBloodBankSuspensionFunc != nil {
		return m.SetBloodBankSuspensionFunc(id, suspended, until, message)
	}
	return nil
}

// --- Donors ---

type MockDonorStorage struct {
	SaveDonorFunc            func(d domain.Donor) (domain.DonorId, error)
	DonorFunc                func(id domain.DonorId) (domain.Donor, error)
	DonorByUserIdFunc        func(userId domain.UserId) (domain.Donor, error)
	ListDonorsFunc           func(f domain.DonorFilter, page domain.Page) ([]domain.Donor, int, error)
	UpdateDonorFunc          func(d domain.Donor) (domain.Donor, error)
	SetDonorAvailabilityFunc func(id domain.DonorId, available bool) error
	RecordDonationFunc       func(id domain.DonorId, rec domain.DonationRecord) (domain.Donor, error)
	DeleteDonorFunc          func(id domain.DonorId) error
}

func (m *MockDonorStorage) SaveDonor(d domain.Donor) (domain.DonorId, error) {
	if m.SaveDonorFunc != nil {
		return m.SaveDonorFunc(d)
	}
	return 1, nil
}

func (m *MockDonorStorage) Donor(id domain.DonorId) (domain.Donor, error) {
	if m.DonorFunc != nil {
		return m.DonorFunc(id)
	}
	return domain.Donor{Id: id, UserId: 200 + id, Name: "Ravi", Email: "ravi@example.com", BloodGroup: domain.OPositive}, nil
}

func (m *MockDonorStorage) DonorByUserId(userId domain.UserId) (domain.Donor, error) {
	if m.DonorByUserIdFunc != nil {
		return m.DonorByUserIdFunc(userId)
	}
	return domain.Donor{Id: 5, UserId: userId, Name: "Ravi", BloodGroup: domain.OPositive}, nil
}

func (m *MockDonorStorage) ListDonors(f domain.DonorFilter, page domain.Page) ([]domain.Donor, int, error) {
	if m.ListDonorsFunc != nil {
		return m.ListDonorsFunc(f, page)
	}
	return nil, 0, nil
}

func (m *MockDonorStorage) UpdateDonor(d domain.Donor) (domain.Donor, error) {
	if m.UpdateDonorFunc != nil {
		return m.UpdateDonorFunc(d)
	}
	return d, nil
}

func (m *MockDonorStorage) SetDonorAvailability(id domain.DonorId, available bool) error {
	if m.SetDonorAvailabilityFunc != nil {
		return m.SetDonorAvailabilityFunc(id, available)
	}
	return nil
}

func (m *MockDonorStorage) RecordDonation(id domain.DonorId, rec domain.DonationRecord) (domain.Donor, error) {
	if m.RecordDonationFunc != nil {
		return m.RecordDonationFunc(id, rec)
	}
	d := domain.Donor{Id: id}
	d.RecordDonation(rec)
	return d, nil
}

func (m *MockDonorStorage) DeleteDonor(id domain.DonorId) error {
	if m.DeleteDonorFunc != nil {
		return m.DeleteDonorFunc(id)
	}
	return nil
}

// --- Bookings ---

type MockBookingStorage struct {
	TakenTokensFunc         func(bankId domain.BloodBankId, date time.Time) ([]int, error)
	CreateBookingFunc       func(b domain.Booking, requestId *domain.DonationRequestId) (domain.BookingId, error)
	BookingFunc             func(id domain.BookingId) (domain.Booking, error)
	ListBookingsFunc        func(f domain.BookingFilter, page domain.Page) ([]domain.Booking, int, error)
	UpdateBookingStatusFunc func(id domain.BookingId, from, to domain.BookingStatus) error
	CompleteBookingFunc     func(b domain.Booking, rec domain.DonationRecord) (domain.Donor, error)

	created []domain.Booking
}

func (m *MockBookingStorage) TakenTokens(bankId domain.BloodBankId, date time.Time) ([]int, error) {
	if m.TakenTokensFunc != nil {
		return m.TakenTokensFunc(bankId, date)
	}
	return []int{}, nil
}

func (m *MockBookingStorage) CreateBooking(b domain.Booking, requestId *domain.DonationRequestId) (domain.BookingId, error) {
	if m.CreateBookingFunc != nil {
		id, err := m.CreateBookingFunc(b, requestId)
		if err == nil {
			b.Id = id
			m.created = append(m.created, b)
		}
		return id, err
	}
	b.Id = domain.BookingId(len(m.created) + 1)
	m.created = append(m.created, b)
	return b.Id, nil
}

// Booking returns what CreateBooking stored unless overridden.
func (m *MockBookingStorage) Booking(id domain.BookingId) (domain.Booking, error) {
	if m.BookingFunc != nil {
		return m.BookingFunc(id)
	}
	for _, b := range m.created {
		if b.Id == id {
			return b, nil
		}
	}
	return domain.Booking{}, internal_errors.NotFound("Booking not found")
}

func (m *MockBookingStorage) ListBookings(f domain.BookingFilter, page domain.Page) ([]domain.Booking, int, error) {
	if m.ListBookingsFunc != nil {
		return m.ListBookingsFunc(f, page)
	}
	return nil, 0, nil
}

func (m *MockBookingStorage) UpdateBookingStatus(id domain.BookingId, from, to domain.BookingStatus) error {
	if m.UpdateBookingStatusFunc != nil {
		return m.UpdateBookingStatusFunc(id, from, to)
	}
	return nil
}

func (m *MockBookingStorage) CompleteBooking(b domain.Booking, rec domain.DonationRecord) (domain.Donor, error) {
	if m.CompleteBookingFunc != nil {
		return m.CompleteBookingFunc(b, rec)
	}
	return domain.Donor{Id: b.DonorId}, nil
}

// --- Media ---

type MockMediaStorage struct {
	SaveAvatarFunc func(data io.Reader, userId int64, extension string) (string, error)
	ReadFunc       func(filePath string) (io.ReadSeekCloser, error)
	DeleteFileFunc func(filePath string) error

	Deleted []string
}

func (m *MockMediaStorage) SaveAvatar(data io.Reader, userId int64, extension string) (string, error) {
	if m.SaveAvatarFunc != nil {
		return m.SaveAvatarFunc(data, userId, extension)
	}
	return "avatars/1/new" + extension, nil
}

func (m *MockMediaStorage) Read(filePath string) (io.ReadSeekCloser, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(filePath)
	}
	return nil, internal_errors.NotFound("File not found")
}

func (m *MockMediaStorage) DeleteFile(filePath string) error {
	m.Deleted = append(m.Deleted, filePath)
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(filePath)
	}
	return nil
}

// --- Patients ---

type MockPatientStorage struct {
	SavePatientFunc   func(p domain.Patient) (domain.PatientId, error)
	PatientFunc       func(id domain.PatientId) (domain.Patient, error)
	ListPatientsFunc  func(bankId domain.BloodBankId, page domain.Page) ([]domain.Patient, int, error)
	UpdatePatientFunc func(p domain.Patient) error
	DeletePatientFunc func(id domain.PatientId) error
}

func (m *MockPatientStorage) SavePatient(p domain.Patient) (domain.PatientId, error) {
	if m.SavePatientFunc != nil {
		return m.SavePatientFunc(p)
	}
	return 1, nil
}

func (m *MockPatientStorage) Patient(id domain.PatientId) (domain.Patient, error) {
	if m.PatientFunc != nil {
		return m.PatientFunc(id)
	}
	return domain.Patient{Id: id, BloodBankId: 10, Name: "Meena", BloodGroup: domain.BNegative}, nil
}

func (m *MockPatientStorage) ListPatients(bankId domain.BloodBankId, page domain.Page) ([]domain.Patient, int, error) {
	if m.ListPatientsFunc != nil {
		return m.ListPatientsFunc(bankId, page)
	}
	return nil, 0, nil
}

func (m *MockPatientStorage) UpdatePatient(p domain.Patient) error {
	if m.UpdatePatientFunc != nil {
		return m.UpdatePatientFunc(p)
	}
	return nil
}

func (m *MockPatientStorage) DeletePatient(id domain.PatientId) error {
	if m.DeletePatientFunc != nil {
		return m.DeletePatientFunc(id)
	}
	return nil
}

// --- Donation requests ---

type MockDonationRequestStorage struct {
	SaveDonationRequestFunc         func(r domain.DonationRequest) (domain.DonationRequestId, error)
	DonationRequestFunc             func(id domain.DonationRequestId) (domain.DonationRequest, error)
	ListDonationRequestsFunc        func(f domain.DonationRequestFilter, page domain.Page) ([]domain.DonationRequest, int, error)
	UpdateDonationRequestStatusFunc func(id domain.DonationRequestId, from, to domain.DonationRequestStatus) error

	saved []domain.DonationRequest
}

func (m *MockDonationRequestStorage) SaveDonationRequest(r domain.DonationRequest) (domain.DonationRequestId, error) {
	if m.SaveDonationRequestFunc != nil {
		return m.SaveDonationRequestFunc(r)
	}
	r.Id = domain.DonationRequestId(len(m.saved) + 1)
	r.Status = domain.RequestPending
	m.saved = append(m.saved, r)
	return r.Id, nil
}

func (m *MockDonationRequestStorage) DonationRequest(id domain.DonationRequestId) (domain.DonationRequest, error) {
	if m.DonationRequestFunc != nil {
		return m.DonationRequestFunc(id)
	}
	for _, r := range m.saved {
		if r.Id == id {
			return r, nil
		}
	}
	return domain.DonationRequest{}, internal_errors.NotFound("Donation request not found")
}

func (m *MockDonationRequestStorage) ListDonationRequests(f domain.DonationRequestFilter, page domain.Page) ([]domain.DonationRequest, int, error) {
	if m.ListDonationRequestsFunc != nil {
		return m.ListDonationRequestsFunc(f, page)
	}
	return nil, 0, nil
}

func (m *MockDonationRequestStorage) UpdateDonationRequestStatus(id domain.DonationRequestId, from, to domain.DonationRequestStatus) error {
	if m.UpdateDonationRequestStatusFunc != nil {
		return m.UpdateDonationRequestStatusFunc(id, from, to)
	}
	return nil
}

type MockBooker struct {
	BookFunc func(b domain.Booking, requestId *domain.DonationRequestId, source string) (domain.Booking, error)
}

func (m *MockBooker) Book(b domain.Booking, requestId *domain.DonationRequestId, source string) (domain.Booking, error) {
	if m.BookFunc != nil {
		return m.BookFunc(b, requestId, source)
	}
	b.Id = 1
	b.TokenNumber = 15
	return b, nil
}

// --- Inventory ---

type MockInventoryStorage struct {
	SaveInventoryFunc      func(inv domain.Inventory) (domain.InventoryId, error)
	InventoryFunc          func(id domain.InventoryId) (domain.Inventory, error)
	ListInventoryFunc      func(bankId domain.BloodBankId, f domain.InventoryFilter, page domain.Page) ([]domain.Inventory, int, error)
	AllInventoryFunc       func(bankId domain.BloodBankId) ([]domain.Inventory, error)
	ExpiringInventoryFunc  func(bankId domain.BloodBankId, days int) ([]domain.Inventory, error)
	UpdateInventoryFunc    func(inv domain.Inventory) (domain.Inventory, error)
	SetInventoryStatusFunc func(id domain.InventoryId, status domain.InventoryStatus) error
	DeleteInventoryFunc    func(id domain.InventoryId) error
	InventorySummaryFunc   func(bankId domain.BloodBankId) (domain.InventorySummary, error)
	ExpireInventoryFunc    func(now time.Time) ([]domain.BloodBankId, int, error)

	SummaryCalls int
}

func (m *MockInventoryStorage) SaveInventory(inv domain.Inventory) (domain.InventoryId, error) {
	if m.SaveInventoryFunc != nil {
		return m.SaveInventoryFunc(inv)
	}
	return 1, nil
}

func (m *MockInventoryStorage) Inventory(id domain.InventoryId) (domain.Inventory, error) {
	if m.InventoryFunc != nil {
		return m.InventoryFunc(id)
	}
	return domain.Inventory{
		Id: id, BloodBankId: 10, BloodGroup: domain.APositive,
		FirstSerialNumber: 1, LastSerialNumber: 5, UnitsCount: 5,
		Status: domain.InventoryAvailable, ExpiryDate: time.Now().AddDate(0, 1, 0),
	}, nil
}

func (m *MockInventoryStorage) ListInventory(bankId domain.BloodBankId, f domain.InventoryFilter, page domain.Page) ([]domain.Inventory, int, error) {
	if m.ListInventoryFunc != nil {
		return m.ListInventoryFunc(bankId, f, page)
	}
	return nil, 0, nil
}

func (m *MockInventoryStorage) AllInventory(bankId domain.BloodBankId) ([]domain.Inventory, error) {
	if m.AllInventoryFunc != nil {
		return m.AllInventoryFunc(bankId)
	}
	return nil, nil
}

func (m *MockInventoryStorage) ExpiringInventory(bankId domain.BloodBankId, days int) ([]domain.Inventory, error) {
	if m.ExpiringInventoryFunc != nil {
		return m.ExpiringInventoryFunc(bankId, days)
	}
	return nil, nil
}

func (m *MockInventoryStorage) UpdateInventory(inv domain.Inventory) (domain.Inventory, error) {
	if m.UpdateInventoryFunc != nil {
		return m.UpdateInventoryFunc(inv)
	}
	return inv, nil
}

func (m *MockInventoryStorage) SetInventoryStatus(id domain.InventoryId, status domain.InventoryStatus) error {
	if m.SetInventoryStatusFunc != nil {
		return m.SetInventoryStatusFunc(id, status)
	}
	return nil
}

func (m *MockInventoryStorage) DeleteInventory(id domain.InventoryId) error {
	if m.DeleteInventoryFunc != nil {
		return m.DeleteInventoryFunc(id)
	}
	return nil
}

func (m *MockInventoryStorage) InventorySummary(bankId domain.BloodBankId) (domain.InventorySummary, error) {
	m.SummaryCalls++
	if m.InventorySummaryFunc != nil {
		return m.InventorySummaryFunc(bankId)
	}
	return domain.InventorySummary{
		domain.APositive: {domain.InventoryAvailable: 5},
	}, nil
}

func (m *MockInventoryStorage) ExpireInventory(now time.Time) ([]domain.BloodBankId, int, error) {
	if m.ExpireInventoryFunc != nil {
		return m.ExpireInventoryFunc(now)
	}
	return nil, 0, nil
}

// --- Reviews ---

type MockReviewStorage struct {
	SaveReviewFunc    func(r domain.Review) (domain.ReviewId, error)
	ReviewFunc        func(id domain.ReviewId) (domain.Review, error)
	ListReviewsFunc   func(target domain.ReviewTarget, targetId int64, page domain.Page) ([]domain.Review, int, error)
	ReviewSummaryFunc func(target domain.ReviewTarget, targetId int64) (domain.ReviewSummary, error)
	DeleteReviewFunc  func(id domain.ReviewId) error
}

func (m *MockReviewStorage) SaveReview(r domain.Review) (domain.ReviewId, error) {
	if m.SaveReviewFunc != nil {
		return m.SaveReviewFunc(r)
	}
	return 1, nil
}

func (m *MockReviewStorage) Review(id domain.ReviewId) (domain.Review, error) {
	if m.ReviewFunc != nil {
		return m.ReviewFunc(id)
	}
	return domain.Review{Id: id, ReviewerId: 300, TargetType: domain.ReviewTargetBloodBank, TargetId: 10, Rating: 5}, nil
}

func (m *MockReviewStorage) ListReviews(target domain.ReviewTarget, targetId int64, page domain.Page) ([]domain.Review, int, error) {
	if m.ListReviewsFunc != nil {
		return m.ListReviewsFunc(target, targetId, page)
	}
	return nil, 0, nil
}

func (m *MockReviewStorage) ReviewSummary(target domain.ReviewTarget, targetId int64) (domain.ReviewSummary, error) {
	if m.ReviewSummaryFunc != nil {
		return m.ReviewSummaryFunc(target, targetId)
	}
	return domain.ReviewSummary{TargetType: target, TargetId: targetId}, nil
}

func (m *MockReviewStorage) DeleteReview(id domain.ReviewId) error {
	if m.DeleteReviewFunc != nil {
		return m.DeleteReviewFunc(id)
	}
	return nil
}

// --- Chat ---

type MockChatStorage struct {
	FindOrCreateConversationFunc func(a, b domain.UserId) (domain.Conversation, error)
	ConversationFunc             func(id domain.ConversationId) (domain.Conversation, error)
	SaveMessageFunc              func(msg domain.ChatMessage) (domain.ChatMessage, error)
	MarkReadFunc                 func(id domain.ConversationId, readerId domain.UserId) (int64, error)
}

func (m *MockChatStorage) FindOrCreateConversation(a, b domain.UserId) (domain.Conversation, error) {
	if m.FindOrCreateConversationFunc != nil {
		return m.FindOrCreateConversationFunc(a, b)
	}
	if a > b {
		a, b = b, a
	}
	return domain.Conversation{Id: "c1", Participants: []domain.UserId{a, b}}, nil
}

func (m *MockChatStorage) Conversation(id domain.ConversationId) (domain.Conversation, error) {
	if m.ConversationFunc != nil {
		return m.ConversationFunc(id)
	}
	return domain.Conversation{Id: id, Participants: []domain.UserId{1, 2}}, nil
}

func (m *MockChatStorage) ListConversations(userId domain.UserId) ([]domain.Conversation, error) {
	return []domain.Conversation{}, nil
}

func (m *MockChatStorage) SaveMessage(msg domain.ChatMessage) (domain.ChatMessage, error) {
	if m.SaveMessageFunc != nil {
		return m.SaveMessageFunc(msg)
	}
	msg.Id = "m1"
	msg.CreatedAt = time.Now()
	return msg, nil
}

func (m *MockChatStorage) ListMessages(id domain.ConversationId, page domain.Page) ([]domain.ChatMessage, int, error) {
	return []domain.ChatMessage{}, 0, nil
}

func (m *MockChatStorage) MarkRead(id domain.ConversationId, readerId domain.UserId) (int64, error) {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(id, readerId)
	}
	return 0, nil
}

type MockUserLookup struct {
	UserFunc func(id domain.UserId) (domain.User, error)
}

func (m *MockUserLookup) User(id domain.UserId) (domain.User, error) {
	if m.UserFunc != nil {
		return m.UserFunc(id)
	}
	return domain.User{Id: id, Name: "Someone", Role: domain.RoleDonor}, nil
}

// --- Taxi ---

type MockTaxiStorage struct {
	SaveTaxiBookingFunc  func(t domain.TaxiBooking) (domain.TaxiBookingId, error)
	TaxiBookingFunc      func(id domain.TaxiBookingId) (domain.TaxiBooking, error)
	UpdateTaxiStatusFunc func(id domain.TaxiBookingId, from, to domain.TaxiStatus) error
	SetPaymentOrderFunc  func(id domain.TaxiBookingId, orderId string) error
	SetPaymentResultFunc func(id domain.TaxiBookingId, status domain.PaymentStatus, paymentId string) error

	saved *domain.TaxiBooking
}

func (m *MockTaxiStorage) SaveTaxiBooking(t domain.TaxiBooking) (domain.TaxiBookingId, error) {
	if m.SaveTaxiBookingFunc != nil {
		return m.SaveTaxiBookingFunc(t)
	}
	t.Id = 1
	t.Status = domain.TaxiRequested
	t.PaymentStatus = domain.PaymentUnpaid
	m.saved = &t
	return t.Id, nil
}

func (m *MockTaxiStorage) TaxiBooking(id domain.TaxiBookingId) (domain.TaxiBooking, error) {
	if m.TaxiBookingFunc != nil {
		return m.TaxiBookingFunc(id)
	}
	if m.saved != nil && m.saved.Id == id {
		return *m.saved, nil
	}
	return domain.TaxiBooking{}, internal_errors.NotFound("Taxi booking not found")
}

func (m *MockTaxiStorage) ListTaxiBookings(userId domain.UserId, page domain.Page) ([]domain.TaxiBooking, int, error) {
	return nil, 0, nil
}

func (m *MockTaxiStorage) UpdateTaxiStatus(id domain.TaxiBookingId, from, to domain.TaxiStatus) error {
	if m.UpdateTaxiStatusFunc != nil {
		return m.UpdateTaxiStatusFunc(id, from, to)
	}
	return nil
}

func (m *MockTaxiStorage) SetPaymentOrder(id domain.TaxiBookingId, orderId string) error {
	if m.SetPaymentOrderFunc != nil {
		return m.SetPaymentOrderFunc(id, orderId)
	}
	return nil
}

func (m *MockTaxiStorage) SetPaymentResult(id domain.TaxiBookingId, status domain.PaymentStatus, paymentId string) error {
	if m.SetPaymentResultFunc != nil {
		return m.SetPaymentResultFunc(id, status, paymentId)
	}
	return nil
}

type MockPaymentGateway struct {
	CreateOrderFunc     func(amount int64, currency, receipt string) (domain.PaymentOrder, error)
	VerifySignatureFunc func(orderId, paymentId, signature string) bool
}

func (m *MockPaymentGateway) CreateOrder(amount int64, currency, receipt string) (domain.PaymentOrder, error) {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(amount, currency, receipt)
	}
	return domain.PaymentOrder{OrderId: "order_1", Amount: amount, Currency: currency, Receipt: receipt}, nil
}

func (m *MockPaymentGateway) VerifySignature(orderId, paymentId, signature string) bool {
	if m.VerifySignatureFunc != nil {
		return m.VerifySignatureFunc(orderId, paymentId, signature)
	}
	return signature == "good"
}

func (m *MockPaymentGateway) KeyId() string { return "rzp_test_key" }
