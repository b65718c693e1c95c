package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bloodlink-dev/bloodlink/backend/internal/utils/export"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
)

const (
	defaultExpiringDays    = 7
	maxExpiringDays        = 365
	defaultSummaryCacheTTL = time.Minute
	cacheTimeout           = 2 * time.Second
)

type InventoryService interface {
	Create(userId domain.UserId, inv domain.Inventory) (domain.Inventory, error)
	Get(userId domain.UserId, id domain.InventoryId) (domain.Inventory, error)
	List(userId domain.UserId, filter domain.InventoryFilter, page domain.Page) ([]domain.Inventory, int, error)
	Update(userId domain.UserId, inv domain.Inventory) (domain.Inventory, error)
	SetStatus(userId domain.UserId, id domain.InventoryId, status domain.InventoryStatus) (domain.Inventory, error)
	Delete(userId domain.UserId, id domain.InventoryId) error
	Summary(userId domain.UserId) (domain.InventorySummary, error)
	Expiring(userId domain.UserId, days int) ([]domain.Inventory, error)
	Export(userId domain.UserId) ([]byte, string, error)
}

type InventoryStorage interface {
	SaveInventory(inv domain.Inventory) (domain.InventoryId, error)
	Inventory(id domain.InventoryId) (domain.Inventory, error)
	ListInventory(bankId domain.BloodBankId, f domain.InventoryFilter, page domain.Page) ([]domain.Inventory, int, error)
	AllInventory(bankId domain.BloodBankId) ([]domain.Inventory, error)
	ExpiringInventory(bankId domain.BloodBankId, days int) ([]domain.Inventory, error)
	UpdateInventory(inv domain.Inventory) (domain.Inventory, error)
	SetInventoryStatus(id domain.InventoryId, status domain.InventoryStatus) error
	DeleteInventory(id domain.InventoryId) error
	InventorySummary(bankId domain.BloodBankId) (domain.InventorySummary, error)
}

// Cache is a string KV with expiry. Any Get error is treated as a miss.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Inventories struct {
	storage  InventoryStorage
	banks    BankGate
	cache    Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewInventories(storage InventoryStorage, banks BankGate, cache Cache, cacheTTL time.Duration) *Inventories {
	if cacheTTL <= 0 {
		cacheTTL = defaultSummaryCacheTTL
	}
	return &Inventories{
		storage:  storage,
		banks:    banks,
		cache:    cache,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

func (s *Inventories) Create(userId domain.UserId, inv domain.Inventory) (domain.Inventory, error) {
	bank, err := s.banks.ActiveBank(userId)
	if err != nil {
		return domain.Inventory{}, err
	}
	if inv.Status == "" {
		inv.Status = domain.InventoryAvailable
	}
	if err := validateInventory(inv); err != nil {
		return domain.Inventory{}, err
	}
	inv.BloodBankId = bank.Id

	id, err := s.storage.SaveInventory(inv)
	if err != nil {
		return domain.Inventory{}, err
	}
	s.invalidate(bank.Id)
	logger.Log.Info("inventory added",
		"inventory_id", id,
		"blood_bank_id", bank.Id,
		"blood_group", inv.BloodGroup,
		"first_serial", inv.FirstSerialNumber,
		"last_serial", inv.LastSerialNumber)
	return s.storage.Inventory(id)
}

func (s *Inventories) Get(userId domain.UserId, id domain.InventoryId) (domain.Inventory, error) {
	bank, err := s.banks.ActiveBank(userId)
	if err != nil {
		return domain.Inventory{}, err
	}
	return s.owned(bank.Id, id)
}

func (s *Inventories) List(userId domain.UserId, filter domain.InventoryFilter, page domain.Page) ([]domain.Inventory, int, error) {
	bank, err := s.banks.ActiveBank(userId)
	if err != nil {
		return nil, 0, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, errors.BadRequest("Invalid status %q", filter.Status)
	}
	if filter.BloodGroup != "" && !filter.BloodGroup.Valid() {
		return nil, 0, errors.BadRequest("Invalid blood group %q", filter.BloodGroup)
	}
	return s.storage.ListInventory(bank.Id, filter, page)
}

func (s *Inventories) Update(userId domain.UserId, inv domain.Inventory) (domain.Inventory, error) {
	bank, err := s.banks.ActiveBank(userId)
	if err != nil {
		return domain.Inventory{}, err
	}
	existing, err := s.owned(bank.Id, inv.Id)
	if err != nil {
		return domain.Inventory{}, err
	}
	if inv.Status == "" {
		inv.Status = existing.Status
	}
	if err := validateInventory(inv); err != nil {
		return domain.Inventory{}, err
	}
	inv.BloodBankId = bank.Id

	updated, err := s.storage.UpdateInventory(inv)
	if err != nil {
		return domain.Inventory{}, err
	}
	s.invalidate(bank.Id)
	return updated, nil
}

// SetStatus changes only the status. Expired units cannot be put back into
// circulation.
func (s *Inventories) SetStatus(userId domain.UserId, id domain.InventoryId, status domain.InventoryStatus) (domain.Inventory, error) {
	if !status.Valid() {
		return domain.Inventory{}, errors.BadRequest("Invalid status %q", status)
	}
	bank, err := s.banks.ActiveBank(userId)
	if err != nil {
		return domain.Inventory{}, err
	}
	inv, err := s.owned(bank.Id, id)
	if err != nil {
		return domain.Inventory{}, err
	}
	if inv.IsExpired(s.now()) && (status == domain.InventoryAvailable || status == domain.InventoryReserved) {
		return domain.Inventory{}, errors.BadRequest("Inventory expired on %s", inv.ExpiryDate.Format("2006-01-02"))
	}
	if err := s.storage.SetInventoryStatus(id, status); err != nil {
		return domain.Inventory{}, err
	}
	s.invalidate(bank.Id)
	inv.Status = status
	return inv, nil
}

func (s *Inventories) Delete(userId domain.UserId, id domain.InventoryId) error {
	bank, err := s.banks.ActiveBank(userId)
	if err != nil {
		return err
	}
	if _, err := s.owned(bank.Id, id); err != nil {
		return err
	}
	if err := s.storage.DeleteInventory(id); err != nil {
		return err
	}
	s.invalidate(bank.Id)
	return nil
}

// Summary returns units by blood group and status, served from the cache
// while it is fresh.
func (s *Inventories) Summary(userId domain.UserId) (domain.InventorySummary, error) {
	bank, err := s.banks.ActiveBank(userId)
	if err != nil {
		return nil, err
	}

	key := summaryCacheKey(bank.Id)
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var summary domain.InventorySummary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				return summary, nil
			}
			logger.Log.Warn("discarding malformed cached summary", "blood_bank_id", bank.Id)
		}
	}

	summary, err := s.storage.InventorySummary(bank.Id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		data, err := json.Marshal(summary)
		if err == nil {
			err = s.cache.Set(ctx, key, string(data), s.cacheTTL)
		}
		if err != nil {
			logger.Log.Warn("failed to cache inventory summary", "blood_bank_id", bank.Id, "error", err)
		}
	}
	return summary, nil
}

func (s *Inventories) Expiring(userId domain.UserId, days int) ([]domain.Inventory, error) {
	if days == 0 {
		days = defaultExpiringDays
	}
	if days < 1 || days > maxExpiringDays {
		return nil, errors.BadRequest("days must be between 1 and %d", maxExpiringDays)
	}
	bank, err := s.banks.ActiveBank(userId)
	if err != nil {
		return nil, err
	}
	return s.storage.ExpiringInventory(bank.Id, days)
}

// Export renders every record of the caller's bank as an XLSX workbook and
// suggests a file name for it.
func (s *Inventories) Export(userId domain.UserId) ([]byte, string, error) {
	bank, err := s.banks.ActiveBank(userId)
	if err != nil {
		return nil, "", err
	}
	records, err := s.storage.AllInventory(bank.Id)
	if err != nil {
		return nil, "", err
	}
	data, err := export.InventoryXLSX(bank.Name, records)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build inventory export: %w", err)
	}
	name := fmt.Sprintf("inventory-%d-%s.xlsx", bank.Id, s.now().UTC().Format("20060102"))
	return data, name, nil
}

// InvalidateSummaries drops cached summaries of the given banks.
func (s *Inventories) InvalidateSummaries(bankIds ...domain.BloodBankId) {
	for _, id := range bankIds {
		s.invalidate(id)
	}
}

func (s *Inventories) invalidate(bankId domain.BloodBankId) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()
	if err := s.cache.Delete(ctx, summaryCacheKey(bankId)); err != nil {
		logger.Log.Warn("failed to invalidate inventory summary", "blood_bank_id", bankId, "error", err)
	}
}

func (s *Inventories) owned(bankId domain.BloodBankId, id domain.InventoryId) (domain.Inventory, error) {
	inv, err := s.storage.Inventory(id)
	if err != nil {
		return domain.Inventory{}, err
	}
	if inv.BloodBankId != bankId {
		return domain.Inventory{}, errors.NotFound("Inventory not found")
	}
	return inv, nil
}

func validateInventory(inv domain.Inventory) error {
	var problems []string
	if !inv.BloodGroup.Valid() {
		problems = append(problems, fmt.Sprintf("invalid blood group %q", inv.BloodGroup))
	}
	if inv.FirstSerialNumber < 0 {
		problems = append(problems, "serial numbers must not be negative")
	}
	if inv.LastSerialNumber > domain.MaxSerialNumber {
		problems = append(problems, fmt.Sprintf("serial numbers must not exceed %d", domain.MaxSerialNumber))
	}
	if inv.FirstSerialNumber > inv.LastSerialNumber {
		problems = append(problems, "first serial number must not exceed the last")
	}
	if !inv.Status.Valid() {
		problems = append(problems, fmt.Sprintf("invalid status %q", inv.Status))
	}
	if inv.ExpiryDate.IsZero() {
		problems = append(problems, "expiry date is required")
	}
	if len(problems) > 0 {
		return errors.BadRequest("Invalid inventory: %s", strings.Join(problems, "; "))
	}
	return nil
}

func summaryCacheKey(bankId domain.BloodBankId) string {
	return fmt.Sprintf("inventory:summary:%d", bankId)
}
