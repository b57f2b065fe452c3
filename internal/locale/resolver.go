// Package locale определяет платежный регион посетителя.
//
// Сначала синхронно вычисляется запасной признак по таймзоне и языку браузера,
// чтобы цены отрисовались сразу, без ожидания сети. Параллельно в фоне
// выполняется запрос к сервису геолокации; его результат кешируется и при
// следующих обращениях всегда перекрывает запасной признак. Любая ошибка
// геолокации проглатывается — посетителю она не показывается.
package locale

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/asanaflow/checkout-service/internal/config"
	"github.com/asanaflow/checkout-service/internal/lib/sl"
	"github.com/asanaflow/checkout-service/internal/models"
)

// GeoClient описывает клиент внешнего сервиса IP-геолокации.
type GeoClient interface {
	CountryCode(ctx context.Context, ip string) (string, error)
}

// Cache описывает методы для кеширования результата геолокации.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// Resolver вычисляет признак "внутренний регион" для посетителя.
type Resolver struct {
	geo   GeoClient
	cache Cache
	cfg   config.Locale
	log   *slog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// New создает новый Resolver.
func New(geo GeoClient, cache Cache, cfg config.Locale, log *slog.Logger) *Resolver {
	return &Resolver{
		geo:      geo,
		cache:    cache,
		cfg:      cfg,
		log:      log,
		inFlight: make(map[string]struct{}),
	}
}

// Fallback вычисляет запасной признак региона по таймзоне и языку браузера:
// регион внутренний, если таймзона совпадает с домашней или языковой тег
// начинается с одного из домашних кодов.
func (r *Resolver) Fallback(timezone, language string) bool {
	if timezone == r.cfg.HomeTimezone {
		return true
	}
	for _, code := range r.cfg.HomeLanguages {
		if strings.HasPrefix(strings.ToLower(language), strings.ToLower(code)) {
			return true
		}
	}
	return false
}

// Resolve возвращает регион посетителя. Если геолокация для посетителя уже
// завершилась, возвращается ее кешированный результат с Resolved=true —
// после этого посетителю показывается ручной переключатель валюты.
// Иначе возвращается запасной признак, а геолокация запускается в фоне
// и не блокирует ответ.
func (r *Resolver) Resolve(ctx context.Context, visitorID, ip, timezone, language string) models.RegionSelection {
	const op = "locale.Resolve"
	log := r.log.With(slog.String("op", op), slog.String("visitor_id", visitorID))

	cacheKey := regionKey(visitorID)
	var domestic bool
	found, err := r.cache.Get(cacheKey, &domestic)
	if err != nil {
		log.Warn("failed to read region cache", sl.Err(err))
	}
	if found {
		return models.RegionSelection{Domestic: domestic, Resolved: true}
	}

	fallback := r.Fallback(timezone, language)
	r.lookupAsync(visitorID, ip, fallback)
	return models.RegionSelection{Domestic: fallback, Resolved: false}
}

// lookupAsync запускает фоновый запрос геолокации, если для посетителя он
// еще не выполняется. Результат пишется в кеш; при ошибке кешируется
// запасной признак, чтобы разрешение считалось завершенным.
func (r *Resolver) lookupAsync(visitorID, ip string, fallback bool) {
	r.mu.Lock()
	if _, ok := r.inFlight[visitorID]; ok {
		r.mu.Unlock()
		return
	}
	r.inFlight[visitorID] = struct{}{}
	r.mu.Unlock()

	go func() {
		defer func() {
			r.mu.Lock()
			delete(r.inFlight, visitorID)
			r.mu.Unlock()
		}()

		const op = "locale.lookupAsync"
		log := r.log.With(slog.String("op", op), slog.String("visitor_id", visitorID))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		domestic := fallback
		code, err := r.geo.CountryCode(ctx, ip)
		if err != nil {
			log.Warn("geo lookup failed, keeping fallback", sl.Err(err))
		} else {
			domestic = strings.EqualFold(code, r.cfg.HomeCountry)
		}

		if err := r.cache.Set(regionKey(visitorID), domestic, r.cfg.RegionTTL); err != nil {
			log.Warn("failed to cache region", sl.Err(err))
		}
	}()
}

func regionKey(visitorID string) string {
	return fmt.Sprintf("region:%s", visitorID)
}
