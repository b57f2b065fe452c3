package subscription

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asanaflow/checkout-service/internal/models"
)

type repoMock struct {
	ReadFunc func(ctx context.Context, userUID string) (*models.SubscriptionRecord, error)
}

func (m *repoMock) Read(ctx context.Context, userUID string) (*models.SubscriptionRecord, error) {
	return m.ReadFunc(ctx, userUID)
}

type cacheMock struct {
	GetFunc        func(key string, result any) (bool, error)
	SetFunc        func(key string, value any, expiration time.Duration) error
	InvalidateFunc func(key string) error
}

func (m *cacheMock) Get(key string, result any) (bool, error) {
	return m.GetFunc(key, result)
}

func (m *cacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.SetFunc(key, value, expiration)
}

func (m *cacheMock) Invalidate(key string) error {
	return m.InvalidateFunc(key)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var exampleRecord = &models.SubscriptionRecord{
	UserUID:  "user-1",
	PlanName: "Monthly Subscription",
	Status:   models.SubscriptionStatusActive,
}

func TestRead_FromCache(t *testing.T) {
	repo := &repoMock{
		ReadFunc: func(context.Context, string) (*models.SubscriptionRecord, error) {
			t.Fatal("repository should not be called on cache hit")
			return nil, nil
		},
	}
	cache := &cacheMock{
		GetFunc: func(key string, result any) (bool, error) {
			require.Equal(t, "subscription:user-1", key)
			*result.(*models.SubscriptionRecord) = *exampleRecord
			return true, nil
		},
	}

	svc := New(repo, cache, newNoopLogger())
	record, err := svc.Read(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, exampleRecord, record)
}

func TestRead_FromRepository(t *testing.T) {
	repo := &repoMock{
		ReadFunc: func(_ context.Context, userUID string) (*models.SubscriptionRecord, error) {
			require.Equal(t, "user-1", userUID)
			return exampleRecord, nil
		},
	}
	cached := false
	cache := &cacheMock{
		GetFunc: func(string, any) (bool, error) { return false, nil },
		SetFunc: func(key string, _ any, expiration time.Duration) error {
			cached = true
			assert.Equal(t, "subscription:user-1", key)
			assert.Equal(t, time.Hour, expiration)
			return nil
		},
	}

	svc := New(repo, cache, newNoopLogger())
	record, err := svc.Read(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, exampleRecord, record)
	assert.True(t, cached)
}

func TestRead_CacheErrorFallsThrough(t *testing.T) {
	repo := &repoMock{
		ReadFunc: func(context.Context, string) (*models.SubscriptionRecord, error) {
			return exampleRecord, nil
		},
	}
	cache := &cacheMock{
		GetFunc: func(string, any) (bool, error) { return false, errors.New("cache down") },
		SetFunc: func(string, any, time.Duration) error { return errors.New("cache down") },
	}

	svc := New(repo, cache, newNoopLogger())
	record, err := svc.Read(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, exampleRecord, record)
}

func TestRead_RepositoryError(t *testing.T) {
	repoErr := errors.New("no documents")
	repo := &repoMock{
		ReadFunc: func(context.Context, string) (*models.SubscriptionRecord, error) {
			return nil, repoErr
		},
	}
	cache := &cacheMock{
		GetFunc: func(string, any) (bool, error) { return false, nil },
	}

	svc := New(repo, cache, newNoopLogger())
	_, err := svc.Read(context.Background(), "user-1")
	require.ErrorIs(t, err, repoErr)
}

func TestInvalidate(t *testing.T) {
	var invalidated string
	cache := &cacheMock{
		InvalidateFunc: func(key string) error {
			invalidated = key
			return nil
		},
	}

	svc := New(&repoMock{}, cache, newNoopLogger())
	svc.Invalidate("user-1")
	assert.Equal(t, "subscription:user-1", invalidated)
}
