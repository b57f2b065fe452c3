// Package subscription содержит бизнес-логику чтения записей о подписках
// с кешированием.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/asanaflow/checkout-service/internal/models"
)

// Repository определяет чтение подписки из хранилища.
type Repository interface {
	Read(ctx context.Context, userUID string) (*models.SubscriptionRecord, error)
}

// Cache описывает методы для кеширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует чтение подписки пользователя через кеш.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, log: log}
}

// Read возвращает подписку пользователя, используя кеш или репозиторий.
func (s *Service) Read(ctx context.Context, userUID string) (*models.SubscriptionRecord, error) {
	cacheKey := subscriptionKey(userUID)

	var cached models.SubscriptionRecord
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read subscription cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return &cached, nil
	}

	record, err := s.repo.Read(ctx, userUID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, record, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return record, nil
}

// Invalidate сбрасывает кеш подписки пользователя, например после оплаты.
func (s *Service) Invalidate(userUID string) {
	cacheKey := subscriptionKey(userUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate subscription cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
}

func subscriptionKey(userUID string) string {
	return fmt.Sprintf("subscription:%s", userUID)
}
