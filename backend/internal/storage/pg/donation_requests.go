package pg

import (
	"database/sql"
	"fmt"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	sharedpg "github.com/bloodlink-dev/bloodlink/shared/storage/pg"
)

const donationRequestSelect = `
	SELECT r.id, r.sender_id, r.sender_role, r.donor_id, d.user_id, r.patient_id, r.blood_bank_id, r.message,
		r.status, r.donor_name, r.patient_name, r.blood_bank_name, r.blood_group, r.created_at, r.updated_at
	FROM donation_requests r
	JOIN donors d ON d.id = r.donor_id`

// =========================================================================
// Public Methods (satisfy the service.DonationRequestStorage interface)
// =========================================================================

func (s *Storage) SaveDonationRequest(r domain.DonationRequest) (domain.DonationRequestId, error) {
	var id domain.DonationRequestId
	err := s.inTx(func(tx *sql.Tx) error {
		err := tx.QueryRow(`
			INSERT INTO donation_requests (sender_id, sender_role, donor_id, patient_id, blood_bank_id, message,
				status, donor_name, patient_name, blood_bank_name, blood_group)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id`,
			r.SenderId, string(r.SenderRole), r.DonorId, nullInt64(r.PatientId), nullInt64(r.BloodBankId), r.Message,
			string(domain.RequestPending), r.DonorName, r.PatientName, r.BloodBankName, string(r.BloodGroup),
		).Scan(&id)
		if err != nil {
			return sharedpg.MapError(err, "Donation request")
		}
		return nil
	})
	return id, err
}

func (s *Storage) DonationRequest(id domain.DonationRequestId) (domain.DonationRequest, error) {
	r, err := scanDonationRequest(s.db.QueryRow(donationRequestSelect+" WHERE r.id = $1", id))
	if err != nil {
		return domain.DonationRequest{}, sharedpg.MapError(err, "Donation request")
	}
	return r, nil
}

// ListDonationRequests returns requests matching rf, newest first.
func (s *Storage) ListDonationRequests(rf domain.DonationRequestFilter, page domain.Page) ([]domain.DonationRequest, int, error) {
	f := &filter{}
	if rf.SenderId != 0 {
		f.add("r.sender_id = $%d", rf.SenderId)
	}
	if rf.DonorUserId != 0 {
		f.add("d.user_id = $%d", rf.DonorUserId)
	}
	if rf.Status != "" {
		f.add("r.status = $%d", string(rf.Status))
	}

	total, err := s.count(s.db, "donation_requests r JOIN donors d ON d.id = r.donor_id", f)
	if err != nil {
		return nil, 0, err
	}
	limit, args := f.page(page.Limit, page.Offset())
	rows, err := s.db.Query(donationRequestSelect+f.where()+" ORDER BY r.created_at DESC, r.id DESC"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list donation requests: %w", err)
	}
	defer rows.Close()

	requests := []domain.DonationRequest{}
	for rows.Next() {
		r, err := scanDonationRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan donation request: %w", err)
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating donation requests: %w", err)
	}
	return requests, total, nil
}

// UpdateDonationRequestStatus moves the request from one status to another.
// If the row no longer has status from, a concurrent change won and 409 is returned.
func (s *Storage) UpdateDonationRequestStatus(id domain.DonationRequestId, from, to domain.DonationRequestStatus) error {
	return s.inTx(func(tx *sql.Tx) error {
		return s.updateDonationRequestStatus(tx, id, from, to)
	})
}

// =========================================================================
// Internal Methods
// =========================================================================

func (s *Storage) updateDonationRequestStatus(q Querier, id domain.DonationRequestId, from, to domain.DonationRequestStatus) error {
	res, err := q.Exec(`
		UPDATE donation_requests SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`,
		id, string(from), string(to))
	if err != nil {
		return fmt.Errorf("failed to update donation request status: %w", err)
	}
	return checkAffected(res, errors.Conflict("Donation request status has changed, reload and try again"))
}

func scanDonationRequest(row scanner) (domain.DonationRequest, error) {
	var r domain.DonationRequest
	var role, status, group string
	var patientId, bankId sql.NullInt64
	err := row.Scan(&r.Id, &r.SenderId, &role, &r.DonorId, &r.DonorUserId, &patientId, &bankId, &r.Message,
		&status, &r.DonorName, &r.PatientName, &r.BloodBankName, &group, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return domain.DonationRequest{}, err
	}
	r.SenderRole = domain.Role(role)
	r.Status = domain.DonationRequestStatus(status)
	r.BloodGroup = domain.BloodGroup(group)
	r.PatientId = int64Ptr(patientId)
	r.BloodBankId = int64Ptr(bankId)
	return r, nil
}
