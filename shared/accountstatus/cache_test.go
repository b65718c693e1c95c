package accountstatus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStorage struct {
	mu       sync.Mutex
	statuses map[domain.UserId]domain.AccountStatus
	err      error
	lifted   []domain.UserId
	liftErr  error
}

func (m *mockStorage) RestrictedUsers() (map[domain.UserId]domain.AccountStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[domain.UserId]domain.AccountStatus, len(m.statuses))
	for k, v := range m.statuses {
		out[k] = v
	}
	return out, nil
}

func (m *mockStorage) LiftSuspension(userId domain.UserId) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.liftErr != nil {
		return m.liftErr
	}
	m.lifted = append(m.lifted, userId)
	delete(m.statuses, userId)
	return nil
}

func TestCache_Update(t *testing.T) {
	future := time.Now().Add(time.Hour)

	t.Run("successful update", func(t *testing.T) {
		storage := &mockStorage{statuses: map[domain.UserId]domain.AccountStatus{
			1: {IsBlocked: true, BlockMessage: "fraud"},
			2: {IsSuspended: true, SuspendedUntil: &future},
		}}
		cache := NewCache(storage)
		require.NoError(t, cache.Update())

		blocked := cache.Restriction(1)
		require.NotNil(t, blocked)
		assert.Equal(t, "fraud", blocked.BlockMessage)
		assert.NotNil(t, cache.Restriction(2))
		assert.Nil(t, cache.Restriction(3))
	})

	t.Run("update with error", func(t *testing.T) {
		cache := NewCache(&mockStorage{err: assert.AnError})
		assert.Error(t, cache.Update())
	})

	t.Run("update replaces cache", func(t *testing.T) {
		storage := &mockStorage{statuses: map[domain.UserId]domain.AccountStatus{1: {IsBlocked: true}}}
		cache := NewCache(storage)
		require.NoError(t, cache.Update())
		assert.NotNil(t, cache.Restriction(1))

		storage.statuses = map[domain.UserId]domain.AccountStatus{2: {IsBlocked: true}}
		require.NoError(t, cache.Update())
		assert.Nil(t, cache.Restriction(1))
		assert.NotNil(t, cache.Restriction(2))
	})
}

func TestCache_ExpiredSuspensionIsLifted(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	storage := &mockStorage{statuses: map[domain.UserId]domain.AccountStatus{
		5: {IsSuspended: true, SuspendedUntil: &past, SuspendMessage: "cool down"},
	}}
	cache := NewCache(storage)
	require.NoError(t, cache.Update())

	assert.Nil(t, cache.Restriction(5))
	assert.Equal(t, []domain.UserId{5}, storage.lifted)

	// second lookup is a plain cache miss
	assert.Nil(t, cache.Restriction(5))
	assert.Len(t, storage.lifted, 1)
}

func TestCache_BlockedAndExpiredSuspensionStaysRestricted(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	storage := &mockStorage{statuses: map[domain.UserId]domain.AccountStatus{
		6: {IsBlocked: true, IsSuspended: true, SuspendedUntil: &past},
	}}
	cache := NewCache(storage)
	require.NoError(t, cache.Update())

	assert.NotNil(t, cache.Restriction(6))
	assert.Empty(t, storage.lifted)
}

func TestCache_StartBackgroundUpdate(t *testing.T) {
	storage := &mockStorage{statuses: map[domain.UserId]domain.AccountStatus{}}
	cache := NewCache(storage)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cache.StartBackgroundUpdate(ctx, 10*time.Millisecond)

	storage.mu.Lock()
	storage.statuses[9] = domain.AccountStatus{IsBlocked: true}
	storage.mu.Unlock()

	assert.Eventually(t, func() bool { return cache.Restriction(9) != nil }, time.Second, 10*time.Millisecond)
}
