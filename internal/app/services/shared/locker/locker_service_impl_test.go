package locker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRedisRepository struct {
	mock.Mock
}

func (m *mockRedisRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockRedisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	return m.Called(ctx, key, value, exp).Error(0)
}

func (m *mockRedisRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockRedisRepository) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, exp)
	return args.Bool(0), args.Error(1)
}

func TestLockService(t *testing.T) {
	ctx := context.Background()

	t.Run("Acquire And Release", func(t *testing.T) {
		repo := new(mockRedisRepository)
		repo.On("TrySetNX", ctx, "form-save:1", mock.AnythingOfType("string"), time.Minute).Return(true, nil).Once()

		service := NewLockService(repo, zap.NewNop())
		acquired, lockValue, err := service.TryLock(ctx, "form-save:1", time.Minute)
		require.NoError(t, err)
		require.True(t, acquired)
		require.NotEmpty(t, lockValue)

		repo.On("Get", ctx, "form-save:1").Return(fmt.Sprintf("%q", lockValue), nil).Once()
		repo.On("Delete", ctx, "form-save:1").Return(nil).Once()
		assert.NoError(t, service.Unlock(ctx, "form-save:1", lockValue))
		repo.AssertExpectations(t)
	})

	t.Run("Held Elsewhere", func(t *testing.T) {
		repo := new(mockRedisRepository)
		repo.On("TrySetNX", ctx, "form-save:1", mock.Anything, time.Minute).Return(false, nil).Once()

		acquired, lockValue, err := NewLockService(repo, zap.NewNop()).TryLock(ctx, "form-save:1", time.Minute)
		require.NoError(t, err)
		assert.False(t, acquired)
		assert.Empty(t, lockValue)
	})

	t.Run("Redis Failure", func(t *testing.T) {
		repo := new(mockRedisRepository)
		repo.On("TrySetNX", ctx, "form-save:1", mock.Anything, time.Minute).Return(false, errors.New("connection refused")).Once()

		_, _, err := NewLockService(repo, zap.NewNop()).TryLock(ctx, "form-save:1", time.Minute)
		assert.Error(t, err)
	})

	t.Run("Foreign Owner Is Kept", func(t *testing.T) {
		repo := new(mockRedisRepository)
		repo.On("Get", ctx, "form-save:1").Return(`"someone-else"`, nil).Once()

		err := NewLockService(repo, zap.NewNop()).Unlock(ctx, "form-save:1", "mine")
		assert.Error(t, err)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Expired Lock", func(t *testing.T) {
		repo := new(mockRedisRepository)
		repo.On("Get", ctx, "form-save:1").Return("", nil).Once()

		assert.NoError(t, NewLockService(repo, zap.NewNop()).Unlock(ctx, "form-save:1", "mine"))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestLocalLockService(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	service := NewLocalLockService().(*localLockService)
	service.now = func() time.Time { return clock }

	acquired, first, err := service.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, _, err = service.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired)

	assert.Error(t, service.Unlock(ctx, "k", "other"))

	clock = clock.Add(2 * time.Minute)
	acquired, second, err := service.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
	assert.NotEqual(t, first, second)

	assert.NoError(t, service.Unlock(ctx, "k", second))
	acquired, _, err = service.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}
