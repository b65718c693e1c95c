package pg

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	sharedpg "github.com/bloodlink-dev/bloodlink/shared/storage/pg"
)

// effectiveStatus is the status as readers should see it: unused records past
// their expiry date count as expired even before the sweep persists that.
const effectiveStatus = `CASE WHEN status <> 'used' AND expiry_date < (now() AT TIME ZONE 'UTC')::date
	THEN 'expired' ELSE status END`

const inventoryColumns = `id, blood_bank_id, blood_group, first_serial_number, last_serial_number, units_count,
	` + effectiveStatus + `, expiry_date, created_at, updated_at`

// =========================================================================
// Public Methods (satisfy the service.InventoryStorage interface)
// =========================================================================

// SaveInventory inserts a stock record. The serial range must not overlap any
// other record of the same bank, otherwise 409.
func (s *Storage) SaveInventory(inv domain.Inventory) (domain.InventoryId, error) {
	inv.Normalize(time.Now())
	var id domain.InventoryId
	err := s.inTx(func(tx *sql.Tx) error {
		if err := s.checkSerialRange(tx, inv); err != nil {
			return err
		}
		err := tx.QueryRow(`
			INSERT INTO blood_inventory (blood_bank_id, blood_group, first_serial_number, last_serial_number,
				units_count, status, expiry_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			inv.BloodBankId, string(inv.BloodGroup), inv.FirstSerialNumber, inv.LastSerialNumber,
			inv.UnitsCount, string(inv.Status), domain.Today(inv.ExpiryDate),
		).Scan(&id)
		if err != nil {
			return sharedpg.MapError(err, "Inventory")
		}
		return nil
	})
	return id, err
}

func (s *Storage) Inventory(id domain.InventoryId) (domain.Inventory, error) {
	inv, err := scanInventory(s.db.QueryRow("SELECT "+inventoryColumns+" FROM blood_inventory WHERE id = $1", id))
	if err != nil {
		return domain.Inventory{}, sharedpg.MapError(err, "Inventory")
	}
	return inv, nil
}

// ListInventory returns the bank's records ordered by first serial number.
// The status filter matches the effective status.
func (s *Storage) ListInventory(bankId domain.BloodBankId, inf domain.InventoryFilter, page domain.Page) ([]domain.Inventory, int, error) {
	f := &filter{}
	f.add("blood_bank_id = $%d", bankId)
	if inf.BloodGroup != "" {
		f.add("blood_group = $%d", string(inf.BloodGroup))
	}
	if inf.Status != "" {
		f.add("("+effectiveStatus+") = $%d", string(inf.Status))
	}
	total, err := s.count(s.db, "blood_inventory", f)
	if err != nil {
		return nil, 0, err
	}
	limit, args := f.page(page.Limit, page.Offset())
	return s.queryInventory(s.db, "SELECT "+inventoryColumns+" FROM blood_inventory"+f.where()+
		" ORDER BY first_serial_number"+limit, total, args...)
}

// AllInventory returns every record of the bank, used for export.
func (s *Storage) AllInventory(bankId domain.BloodBankId) ([]domain.Inventory, error) {
	inv, _, err := s.queryInventory(s.db, "SELECT "+inventoryColumns+` FROM blood_inventory
		WHERE blood_bank_id = $1 ORDER BY blood_group, first_serial_number`, 0, bankId)
	return inv, err
}

// ExpiringInventory returns available records whose expiry date falls within
// the next days days, soonest first.
func (s *Storage) ExpiringInventory(bankId domain.BloodBankId, days int) ([]domain.Inventory, error) {
	today := domain.Today(time.Now())
	inv, _, err := s.queryInventory(s.db, "SELECT "+inventoryColumns+` FROM blood_inventory
		WHERE blood_bank_id = $1 AND status = 'available' AND expiry_date >= $2 AND expiry_date <= $3
		ORDER BY expiry_date, first_serial_number`,
		0, bankId, today, today.AddDate(0, 0, days))
	return inv, err
}

// UpdateInventory overwrites a record after re-running the overlap check
// against every other record of the bank.
func (s *Storage) UpdateInventory(inv domain.Inventory) (domain.Inventory, error) {
	inv.Normalize(time.Now())
	var updated domain.Inventory
	err := s.inTx(func(tx *sql.Tx) error {
		if err := s.checkSerialRange(tx, inv); err != nil {
			return err
		}
		var err error
		updated, err = scanInventory(tx.QueryRow(`
			UPDATE blood_inventory SET
				blood_group = $3, first_serial_number = $4, last_serial_number = $5, units_count = $6,
				status = $7, expiry_date = $8, updated_at = now()
			WHERE id = $1 AND blood_bank_id = $2
			RETURNING `+inventoryColumns,
			inv.Id, inv.BloodBankId, string(inv.BloodGroup), inv.FirstSerialNumber, inv.LastSerialNumber,
			inv.UnitsCount, string(inv.Status), domain.Today(inv.ExpiryDate),
		))
		if err != nil {
			return sharedpg.MapError(err, "Inventory")
		}
		return nil
	})
	return updated, err
}

func (s *Storage) SetInventoryStatus(id domain.InventoryId, status domain.InventoryStatus) error {
	return s.inTx(func(tx *sql.Tx) error {
		res, err := tx.Exec("UPDATE blood_inventory SET status = $2, updated_at = now() WHERE id = $1", id, string(status))
		if err != nil {
			return sharedpg.MapError(err, "Inventory")
		}
		return checkAffected(res, errors.NotFound("Inventory not found"))
	})
}

func (s *Storage) DeleteInventory(id domain.InventoryId) error {
	return s.inTx(func(tx *sql.Tx) error {
		res, err := tx.Exec("DELETE FROM blood_inventory WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to delete inventory: %w", err)
		}
		return checkAffected(res, errors.NotFound("Inventory not found"))
	})
}

// InventorySummary sums units by blood group and effective status.
func (s *Storage) InventorySummary(bankId domain.BloodBankId) (domain.InventorySummary, error) {
	rows, err := s.db.Query(`
		SELECT blood_group, `+effectiveStatus+` AS eff_status, SUM(units_count)
		FROM blood_inventory
		WHERE blood_bank_id = $1
		GROUP BY blood_group, eff_status`, bankId)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize inventory: %w", err)
	}
	defer rows.Close()

	summary := domain.InventorySummary{}
	for rows.Next() {
		var group, status string
		var units int64
		if err := rows.Scan(&group, &status, &units); err != nil {
			return nil, fmt.Errorf("failed to scan inventory summary: %w", err)
		}
		bg := domain.BloodGroup(group)
		if summary[bg] == nil {
			summary[bg] = map[domain.InventoryStatus]int64{}
		}
		summary[bg][domain.InventoryStatus(status)] += units
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory summary: %w", err)
	}
	return summary, nil
}

// ExpireInventory persists the expired status for every unused record whose
// expiry date is before today. It returns the affected banks, deduplicated,
// and the number of records flipped.
func (s *Storage) ExpireInventory(now time.Time) ([]domain.BloodBankId, int, error) {
	var banks []domain.BloodBankId
	var expired int
	err := s.inTx(func(tx *sql.Tx) error {
		rows, err := tx.Query(`
			UPDATE blood_inventory SET status = 'expired', updated_at = now()
			WHERE expiry_date < $1 AND status IN ('available', 'reserved')
			RETURNING blood_bank_id`, domain.Today(now))
		if err != nil {
			return fmt.Errorf("failed to expire inventory: %w", err)
		}
		defer rows.Close()

		seen := map[domain.BloodBankId]bool{}
		for rows.Next() {
			var id domain.BloodBankId
			if err := rows.Scan(&id); err != nil {
				return fmt.Errorf("failed to scan expired bank: %w", err)
			}
			expired++
			if !seen[id] {
				seen[id] = true
				banks = append(banks, id)
			}
		}
		return rows.Err()
	})
	return banks, expired, err
}

// =========================================================================
// Internal Methods
// =========================================================================

// checkSerialRange locks the bank row so concurrent writers for the same bank
// are serialized, then looks for any intersecting range.
func (s *Storage) checkSerialRange(q Querier, inv domain.Inventory) error {
	var locked domain.BloodBankId
	if err := q.QueryRow("SELECT id FROM blood_banks WHERE id = $1 FOR UPDATE", inv.BloodBankId).Scan(&locked); err != nil {
		return sharedpg.MapError(err, "Blood bank")
	}

	var conflict domain.InventoryId
	err := q.QueryRow(`
		SELECT id FROM blood_inventory
		WHERE blood_bank_id = $1 AND first_serial_number <= $3 AND $2 <= last_serial_number AND id <> $4
		LIMIT 1`,
		inv.BloodBankId, inv.FirstSerialNumber, inv.LastSerialNumber, inv.Id,
	).Scan(&conflict)
	switch {
	case err == sql.ErrNoRows:
		return nil
	case err != nil:
		return fmt.Errorf("failed to check serial range: %w", err)
	}
	return errors.Conflict("Serial range %d-%d overlaps existing inventory record %d",
		inv.FirstSerialNumber, inv.LastSerialNumber, conflict)
}

func (s *Storage) queryInventory(q Querier, query string, total int, args ...any) ([]domain.Inventory, int, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	records := []domain.Inventory{}
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan inventory: %w", err)
		}
		records = append(records, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating inventory: %w", err)
	}
	return records, total, nil
}

func scanInventory(row scanner) (domain.Inventory, error) {
	var inv domain.Inventory
	var group, status string
	err := row.Scan(&inv.Id, &inv.BloodBankId, &group, &inv.FirstSerialNumber, &inv.LastSerialNumber,
		&inv.UnitsCount, &status, &inv.ExpiryDate, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return domain.Inventory{}, err
	}
	inv.BloodGroup = domain.BloodGroup(group)
	inv.Status = domain.InventoryStatus(status)
	inv.Normalize(time.Now())
	return inv, nil
}
