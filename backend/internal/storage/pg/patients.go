package pg

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	sharedpg "github.com/bloodlink-dev/bloodlink/shared/storage/pg"
)

const patientColumns = `id, blood_bank_id, name_enc, address_enc, mrid_enc, phone_enc, blood_group,
	units_required, date_needed, is_deleted, created_at, updated_at`

// encryptedPatient holds the ciphertext form of the PII columns.
type encryptedPatient struct {
	name, address, mrid, phone []byte
	mridHash                   []byte
}

// =========================================================================
// Public Methods (satisfy the service.PatientStorage interface)
// =========================================================================

// SavePatient encrypts the PII fields and inserts the patient. A live patient
// with the same MRID in the same bank yields 409.
func (s *Storage) SavePatient(p domain.Patient) (domain.PatientId, error) {
	enc, err := s.encryptPatient(p)
	if err != nil {
		return 0, err
	}
	var id domain.PatientId
	err = s.inTx(func(tx *sql.Tx) error {
		err := tx.QueryRow(`
			INSERT INTO patients (blood_bank_id, name_enc, address_enc, mrid_enc, mrid_hash, phone_enc,
				blood_group, units_required, date_needed)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id`,
			p.BloodBankId, enc.name, enc.address, enc.mrid, enc.mridHash, enc.phone,
			string(p.BloodGroup), p.UnitsRequired, p.DateNeeded,
		).Scan(&id)
		return mapPatientError(err)
	})
	return id, err
}

// Patient returns a non-deleted patient with decrypted fields.
func (s *Storage) Patient(id domain.PatientId) (domain.Patient, error) {
	p, err := s.scanPatient(s.db.QueryRow("SELECT "+patientColumns+" FROM patients WHERE id = $1 AND NOT is_deleted", id))
	if err != nil {
		return domain.Patient{}, sharedpg.MapError(err, "Patient")
	}
	return p, nil
}

// ListPatients returns the bank's non-deleted patients, newest first.
func (s *Storage) ListPatients(bankId domain.BloodBankId, page domain.Page) ([]domain.Patient, int, error) {
	f := &filter{}
	f.add("blood_bank_id = $%d", bankId)
	f.clauses = append(f.clauses, "NOT is_deleted")

	total, err := s.count(s.db, "patients", f)
	if err != nil {
		return nil, 0, err
	}
	limit, args := f.page(page.Limit, page.Offset())
	rows, err := s.db.Query("SELECT "+patientColumns+" FROM patients"+f.where()+" ORDER BY created_at DESC, id DESC"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	patients := []domain.Patient{}
	for rows.Next() {
		p, err := s.scanPatient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating patients: %w", err)
	}
	return patients, total, nil
}

// UpdatePatient re-encrypts every PII field and overwrites the row.
func (s *Storage) UpdatePatient(p domain.Patient) error {
	enc, err := s.encryptPatient(p)
	if err != nil {
		return err
	}
	return s.inTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			UPDATE patients SET
				name_enc = $2, address_enc = $3, mrid_enc = $4, mrid_hash = $5, phone_enc = $6,
				blood_group = $7, units_required = $8, date_needed = $9, updated_at = now()
			WHERE id = $1 AND NOT is_deleted`,
			p.Id, enc.name, enc.address, enc.mrid, enc.mridHash, enc.phone,
			string(p.BloodGroup), p.UnitsRequired, p.DateNeeded)
		if err != nil {
			return mapPatientError(err)
		}
		return checkAffected(res, errors.NotFound("Patient not found"))
	})
}

// DeletePatient marks the patient deleted. The row is kept.
func (s *Storage) DeletePatient(id domain.PatientId) error {
	return s.inTx(func(tx *sql.Tx) error {
		res, err := tx.Exec("UPDATE patients SET is_deleted = TRUE, updated_at = now() WHERE id = $1 AND NOT is_deleted", id)
		if err != nil {
			return fmt.Errorf("failed to delete patient: %w", err)
		}
		return checkAffected(res, errors.NotFound("Patient not found"))
	})
}

// =========================================================================
// Internal Methods
// =========================================================================

func mapPatientError(err error) error {
	if err == nil {
		return nil
	}
	if sharedpg.IsUniqueViolation(err, "patients_mrid_idx") {
		return errors.Conflict("Patient with this MRID already exists")
	}
	return sharedpg.MapError(err, "Patient")
}

func (s *Storage) encryptPatient(p domain.Patient) (encryptedPatient, error) {
	var enc encryptedPatient
	fields := []struct {
		dst   *[]byte
		value string
	}{
		{&enc.name, p.Name},
		{&enc.address, p.Address},
		{&enc.mrid, strings.ToUpper(strings.TrimSpace(p.MRID))},
		{&enc.phone, p.Phone},
	}
	for _, f := range fields {
		ct, err := s.cipher.Encrypt(f.value)
		if err != nil {
			return encryptedPatient{}, fmt.Errorf("failed to encrypt patient field: %w", err)
		}
		*f.dst = ct
	}
	enc.mridHash = s.cipher.Hash(p.MRID)
	return enc, nil
}

func (s *Storage) scanPatient(row scanner) (domain.Patient, error) {
	var p domain.Patient
	var group string
	var name, address, mrid, phone []byte
	err := row.Scan(&p.Id, &p.BloodBankId, &name, &address, &mrid, &phone, &group,
		&p.UnitsRequired, &p.DateNeeded, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Patient{}, err
	}
	p.BloodGroup = domain.BloodGroup(group)

	fields := []struct {
		dst *string
		ct  []byte
	}{
		{&p.Name, name},
		{&p.Address, address},
		{&p.MRID, mrid},
		{&p.Phone, phone},
	}
	for _, f := range fields {
		v, err := s.cipher.Decrypt(f.ct)
		if err != nil {
			return domain.Patient{}, fmt.Errorf("failed to decrypt patient %d: %w", p.Id, err)
		}
		*f.dst = v
	}
	return p, nil
}
