//go:build integration

package pg

import (
	"testing"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveDonor_DuplicateUser(t *testing.T) {
	d := createTestDonor(t)
	_, err := storage.SaveDonor(domain.Donor{UserId: d.UserId, Name: "Again", BloodGroup: domain.APositive, Phone: "1"})
	assert.True(t, errors.IsConflict(err))
}

func TestRecordDonation(t *testing.T) {
	d := createTestDonor(t)
	date := domain.Today(time.Now())
	donor, err := storage.RecordDonation(d.Id, domain.DonationRecord{Date: date, Units: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.PointsPerDonation, donor.PriorityPoints)
	assert.False(t, donor.IsAvailable)

	stored, err := storage.Donor(d.Id)
	require.NoError(t, err)
	require.Len(t, stored.DonationHistory, 1)
	require.NotNil(t, stored.LastDonationDate)
	assert.True(t, date.Equal(*stored.LastDonationDate))
}

func TestPatient_EncryptedRoundTrip(t *testing.T) {
	bank := createTestBank(t)
	p := domain.Patient{BloodBankId: bank.Id, Name: "Jane Roe", Address: "12 Lake Rd", MRID: "mr-001",
		Phone: "5550111", BloodGroup: domain.ABNegative, UnitsRequired: 2, DateNeeded: domain.Today(time.Now())}
	id, err := storage.SavePatient(p)
	require.NoError(t, err)

	got, err := storage.Patient(id)
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", got.Name)
	assert.Equal(t, "12 Lake Rd", got.Address)
	assert.Equal(t, "MR-001", got.MRID)
	assert.Equal(t, "5550111", got.Phone)

	var raw []byte
	require.NoError(t, storage.db.QueryRow("SELECT name_enc FROM patients WHERE id = $1", id).Scan(&raw))
	assert.NotContains(t, string(raw), "Jane")

	_, err = storage.SavePatient(domain.Patient{BloodBankId: bank.Id, Name: "Other", Address: "x", MRID: " MR-001 ",
		Phone: "1", BloodGroup: domain.APositive, UnitsRequired: 1, DateNeeded: p.DateNeeded})
	assert.True(t, errors.IsConflict(err), "same MRID in the same bank should conflict")

	require.NoError(t, storage.DeletePatient(id))
	_, err = storage.Patient(id)
	assert.True(t, errors.IsNotFound(err))

	// A soft-deleted MRID can be registered again.
	_, err = storage.SavePatient(p)
	assert.NoError(t, err)
}

func TestCreateBooking_TokenTaken(t *testing.T) {
	d := createTestDonor(t)
	other := createTestDonor(t)
	bank := createTestBank(t)
	day := domain.Today(time.Now().AddDate(0, 0, 1))

	b := domain.Booking{DonorId: d.Id, BloodBankId: bank.Id, Date: day, Time: "09:00", TokenNumber: 15}
	id, err := storage.CreateBooking(b, nil)
	require.NoError(t, err)

	b.DonorId = other.Id
	_, err = storage.CreateBooking(b, nil)
	assert.ErrorIs(t, err, domain.ErrTokenTaken)

	tokens, err := storage.TakenTokens(bank.Id, day)
	require.NoError(t, err)
	assert.Equal(t, []int{15}, tokens)

	// Cancelling frees the token.
	require.NoError(t, storage.UpdateBookingStatus(id, domain.BookingPending, domain.BookingCancelled))
	_, err = storage.CreateBooking(b, nil)
	assert.NoError(t, err)

	err = storage.UpdateBookingStatus(id, domain.BookingPending, domain.BookingConfirmed)
	assert.True(t, errors.IsConflict(err))
}

func TestCreateBooking_FromRequest(t *testing.T) {
	d := createTestDonor(t)
	bank := createTestBank(t)
	reqId, err := storage.SaveDonationRequest(domain.DonationRequest{SenderId: bank.UserId, SenderRole: domain.RoleBloodBank,
		DonorId: d.Id, BloodBankId: &bank.Id})
	require.NoError(t, err)

	b := domain.Booking{DonorId: d.Id, BloodBankId: bank.Id, Date: domain.Today(time.Now()), Time: "10:00", TokenNumber: 23}
	_, err = storage.CreateBooking(b, &reqId)
	assert.True(t, errors.IsConflict(err), "pending request cannot be booked")

	require.NoError(t, storage.UpdateDonationRequestStatus(reqId, domain.RequestPending, domain.RequestAccepted))
	bookingId, err := storage.CreateBooking(b, &reqId)
	require.NoError(t, err)

	req, err := storage.DonationRequest(reqId)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestBooked, req.Status)
	assert.Equal(t, d.UserId, req.DonorUserId)

	booking, err := storage.Booking(bookingId)
	require.NoError(t, err)
	require.NotNil(t, booking.DonationRequestId)
	assert.Equal(t, reqId, *booking.DonationRequestId)
	assert.Equal(t, bank.UserId, booking.BloodBankUserId)
}

func TestInventory_OverlapAndExpiry(t *testing.T) {
	bank := createTestBank(t)
	future := domain.Today(time.Now()).AddDate(0, 1, 0)

	id, err := storage.SaveInventory(domain.Inventory{BloodBankId: bank.Id, BloodGroup: domain.APositive,
		FirstSerialNumber: 100, LastSerialNumber: 109, Status: domain.InventoryAvailable, ExpiryDate: future})
	require.NoError(t, err)

	inv, err := storage.Inventory(id)
	require.NoError(t, err)
	assert.Equal(t, int64(10), inv.UnitsCount)

	// Overlap is checked regardless of blood group.
	_, err = storage.SaveInventory(domain.Inventory{BloodBankId: bank.Id, BloodGroup: domain.BNegative,
		FirstSerialNumber: 109, LastSerialNumber: 120, Status: domain.InventoryAvailable, ExpiryDate: future})
	assert.True(t, errors.IsConflict(err))

	// Updating a record against its own range is fine.
	inv.LastSerialNumber = 104
	updated, err := storage.UpdateInventory(inv)
	require.NoError(t, err)
	assert.Equal(t, int64(5), updated.UnitsCount)

	// A record that aged past its expiry while still stored as available.
	past := domain.Today(time.Now()).AddDate(0, 0, -2)
	var oldId domain.InventoryId
	require.NoError(t, storage.db.QueryRow(`
		INSERT INTO blood_inventory (blood_bank_id, blood_group, first_serial_number, last_serial_number, units_count, status, expiry_date)
		VALUES ($1, 'O+', 1, 3, 3, 'available', $2) RETURNING id`, bank.Id, past).Scan(&oldId))

	old, err := storage.Inventory(oldId)
	require.NoError(t, err)
	assert.Equal(t, domain.InventoryExpired, old.Status)

	banks, expired, err := storage.ExpireInventory(time.Now())
	require.NoError(t, err)
	assert.Contains(t, banks, bank.Id)
	assert.GreaterOrEqual(t, expired, 1)

	summary, err := storage.InventorySummary(bank.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary[domain.OPositive][domain.InventoryExpired])
	assert.Equal(t, int64(5), summary[domain.APositive][domain.InventoryAvailable])
}

func TestReviews(t *testing.T) {
	reviewer := createTestUser(t, domain.RoleUser)
	d := createTestDonor(t)
	_, err := storage.SaveReview(domain.Review{ReviewerId: reviewer, TargetType: domain.ReviewTargetDonor, TargetId: d.Id, Rating: 4})
	require.NoError(t, err)
	_, err = storage.SaveReview(domain.Review{ReviewerId: reviewer, TargetType: domain.ReviewTargetDonor, TargetId: d.Id, Rating: 2})
	assert.True(t, errors.IsConflict(err))

	summary, err := storage.ReviewSummary(domain.ReviewTargetDonor, d.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count)
	assert.InDelta(t, 4.0, summary.AverageRating, 0.001)
}
