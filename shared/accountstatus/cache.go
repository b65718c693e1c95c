package accountstatus

import (
	"context"
	"sync"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
)

// Storage is the minimal set of queries the cache needs. Block and suspend
// administration lives in the backend storage.
type Storage interface {
	RestrictedUsers() (map[domain.UserId]domain.AccountStatus, error)
	LiftSuspension(userId domain.UserId) error
}

// Cache keeps the status of every blocked or suspended user in memory so the
// auth middleware can reject them without a database round-trip.
type Cache struct {
	storage        Storage
	cache          map[domain.UserId]domain.AccountStatus
	mu             sync.RWMutex
	lastUpdateTime time.Time
	now            func() time.Time
}

func NewCache(storage Storage) *Cache {
	return &Cache{
		storage: storage,
		cache:   make(map[domain.UserId]domain.AccountStatus),
		now:     time.Now,
	}
}

// Update reloads every restricted account from the database.
func (c *Cache) Update() error {
	statuses, err := c.storage.RestrictedUsers()
	if err != nil {
		return err
	}
	if statuses == nil {
		statuses = make(map[domain.UserId]domain.AccountStatus)
	}

	c.mu.Lock()
	c.cache = statuses
	c.lastUpdateTime = c.now()
	c.mu.Unlock()

	logger.Component("account_status_cache").Debug("account status cache updated",
		"entries", len(statuses))
	return nil
}

// Restriction returns the status of a restricted account, or nil when the
// user may proceed. An expired suspension is lifted in storage and dropped
// from the cache.
func (c *Cache) Restriction(userId domain.UserId) *domain.AccountStatus {
	c.mu.RLock()
	status, ok := c.cache[userId]
	c.mu.RUnlock()
	if !ok {
		return nil
	}

	now := c.now()
	if !status.IsBlocked && status.SuspensionExpired(now) {
		if err := c.storage.LiftSuspension(userId); err != nil {
			logger.Component("account_status_cache").Error("failed to lift expired suspension",
				"user_id", userId,
				"error", err)
			return nil
		}
		c.mu.Lock()
		delete(c.cache, userId)
		c.mu.Unlock()
		logger.Component("account_status_cache").Info("expired suspension lifted",
			"user_id", userId)
		return nil
	}

	if !status.Restricted(now) {
		return nil
	}
	return &status
}

// StartBackgroundUpdate periodically refreshes the cache until ctx is done.
func (c *Cache) StartBackgroundUpdate(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Component("account_status_cache").Info("started account status cache background updates",
		"interval", interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := c.Update(); err != nil {
					logger.Component("account_status_cache").Error("account status cache update failed",
						"error", err)
				}
			case <-ctx.Done():
				logger.Component("account_status_cache").Info("account status cache shutting down gracefully")
				return
			}
		}
	}()
}
