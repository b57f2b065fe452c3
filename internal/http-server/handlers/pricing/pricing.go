// Package pricing обрабатывает запрос каталога тарифов.
package pricing

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/asanaflow/checkout-service/internal/http-server/mware"
	"github.com/asanaflow/checkout-service/internal/http-server/response"
	"github.com/asanaflow/checkout-service/internal/models"
	"github.com/asanaflow/checkout-service/internal/pricing"
)

// RegionResolver определяет платежный регион посетителя.
type RegionResolver interface {
	Resolve(ctx context.Context, visitorID, ip, timezone, language string) models.RegionSelection
}

// Handler обрабатывает запросы каталога тарифов.
type Handler struct {
	log      *slog.Logger
	resolver RegionResolver
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, resolver RegionResolver) *Handler {
	return &Handler{log: log, resolver: resolver}
}

// ServeHTTP godoc
// @Summary Каталог тарифов
// @Description Возвращает список тарифов для региона посетителя. Регион
// @Description определяется по геолокации с запасным признаком по таймзоне
// @Description и языку; параметр currency перекрывает регион вручную.
// @Tags Pricing
// @Produce json
// @Param tz query string false "Таймзона браузера"
// @Param lang query string false "Языковой тег браузера"
// @Param currency query string false "Ручной выбор валюты: inr или usd"
// @Success 200 {object} response.Response
// @Router /pricing [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.pricing"
	log := h.log.With(slog.String("op", op))

	visitorID := mware.GetVisitorID(r.Context())
	timezone := r.URL.Query().Get("tz")
	language := firstLanguage(r)

	region := h.resolver.Resolve(r.Context(), visitorID, mware.ClientIP(r), timezone, language)

	// Ручной переключатель валюты показывается посетителю только после
	// завершения геолокации; до этого параметр игнорируется. Выбранная
	// вручную валюта перекрывает регион и не запускает геолокацию повторно.
	if region.Resolved {
		switch strings.ToLower(r.URL.Query().Get("currency")) {
		case "inr":
			region.Domestic = true
		case "usd":
			region.Domestic = false
		}
	}

	log.Info("pricing served",
		slog.Bool("domestic", region.Domestic),
		slog.Bool("resolved", region.Resolved))

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"region": region,
		"tiers":  pricing.ForRegion(region.Domestic),
	}))
}

// firstLanguage возвращает первый языковой тег из Accept-Language.
func firstLanguage(r *http.Request) string {
	header := r.Header.Get("Accept-Language")
	if header == "" {
		return ""
	}
	first := strings.Split(header, ",")[0]
	return strings.TrimSpace(strings.Split(first, ";")[0])
}
