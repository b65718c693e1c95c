package service

import (
	"context"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	"github.com/bloodlink-dev/bloodlink/shared/middleware/metrics"
)

// InventoryExpiry periodically persists the expired status of stock that
// passed its expiry date. Reads already report the effective status; the
// sweep keeps the stored value and cached summaries in line.
type InventoryExpiry struct {
	storage      ExpiryStorage
	invalidator  SummaryInvalidator
	now          func() time.Time
	lastSweepRun SweepStats
}

// SweepStats describes the last sweep.
type SweepStats struct {
	RunAt      time.Time
	Expired    int
	Banks      int
	DurationMs int64
}

type ExpiryStorage interface {
	ExpireInventory(now time.Time) ([]domain.BloodBankId, int, error)
}

type SummaryInvalidator interface {
	InvalidateSummaries(bankIds ...domain.BloodBankId)
}

func NewInventoryExpiry(storage ExpiryStorage, invalidator SummaryInvalidator) *InventoryExpiry {
	return &InventoryExpiry{
		storage:     storage,
		invalidator: invalidator,
		now:         time.Now,
	}
}

// StartBackgroundSweep runs RunSweep every interval until ctx is done.
func (e *InventoryExpiry) StartBackgroundSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Component("inventory_expiry").Info("started inventory expiry sweep",
		"interval", interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := e.RunSweep(); err != nil {
					logger.Component("inventory_expiry").Error("inventory expiry sweep failed",
						"error", err)
				}
			case <-ctx.Done():
				logger.Component("inventory_expiry").Info("inventory expiry sweep shutting down gracefully")
				return
			}
		}
	}()
}

// RunSweep executes a single sweep. Also called once at startup.
func (e *InventoryExpiry) RunSweep() error {
	start := e.now()
	banks, expired, err := e.storage.ExpireInventory(start)
	if err != nil {
		return err
	}
	if len(banks) > 0 && e.invalidator != nil {
		e.invalidator.InvalidateSummaries(banks...)
	}
	metrics.InventoryExpired.Add(float64(expired))

	e.lastSweepRun = SweepStats{
		RunAt:      start,
		Expired:    expired,
		Banks:      len(banks),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if expired > 0 {
		logger.Component("inventory_expiry").Info("inventory expired",
			"records", expired,
			"banks", len(banks))
	}
	return nil
}

func (e *InventoryExpiry) LastSweepStats() SweepStats {
	return e.lastSweepRun
}
