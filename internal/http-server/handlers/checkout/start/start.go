// Package start обрабатывает попытку покупки тарифа.
package start

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/asanaflow/checkout-service/internal/http-server/mware"
	"github.com/asanaflow/checkout-service/internal/http-server/response"
	"github.com/asanaflow/checkout-service/internal/lib/sl"
	"github.com/asanaflow/checkout-service/internal/models"
	"github.com/asanaflow/checkout-service/internal/pricing"
	"github.com/asanaflow/checkout-service/internal/services/checkout"
)

// Request тело запроса на покупку.
type Request struct {
	TierName string `json:"tier_name" validate:"required"`
	Currency string `json:"currency" validate:"omitempty,oneof=inr usd"` // Ручной выбор валюты
	Timezone string `json:"tz"`                                          // Таймзона браузера для запасного признака региона
}

// Orchestrator описывает оркестратор оформления покупки.
type Orchestrator interface {
	Attempt(ctx context.Context, sess checkout.Session, tier models.Tier) (*checkout.Outcome, error)
}

// RegionResolver определяет платежный регион посетителя.
type RegionResolver interface {
	Resolve(ctx context.Context, visitorID, ip, timezone, language string) models.RegionSelection
}

// Handler обрабатывает попытку покупки.
type Handler struct {
	log      *slog.Logger
	service  Orchestrator
	resolver RegionResolver
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Orchestrator, resolver RegionResolver) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		resolver: resolver,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Попытка покупки тарифа
// @Description Для анонимного посетителя покупка откладывается до входа,
// @Description для аутентифицированного создается платежный ордер.
// @Tags Checkout
// @Accept json
// @Produce json
// @Param request body Request true "Выбранный тариф"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response "Некорректный запрос или цена тарифа"
// @Failure 404 {object} response.Response "Тариф не найден"
// @Failure 409 {object} response.Response "Покупка уже оформляется"
// @Router /checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkout.start"
	log := h.log.With(slog.String("op", op))

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var validateErr validator.ValidationErrors
		if errors.As(err, &validateErr) {
			log.Error("validation failed", sl.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request"))
		return
	}

	sess := checkout.Session{
		VisitorID: mware.GetVisitorID(r.Context()),
		UserUID:   mware.GetUserUID(r.Context()),
		Email:     mware.GetEmail(r.Context()),
	}

	region := h.resolver.Resolve(r.Context(), sess.VisitorID, mware.ClientIP(r),
		req.Timezone, firstLanguage(r))
	// Переключатель валюты доступен только после завершения геолокации.
	if region.Resolved {
		switch req.Currency {
		case "inr":
			region.Domestic = true
		case "usd":
			region.Domestic = false
		}
	}

	tier, ok := pricing.Find(region.Domestic, req.TierName)
	if !ok {
		log.Error("tier not found", slog.String("tier", req.TierName))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("tier not found"))
		return
	}

	outcome, err := h.service.Attempt(r.Context(), sess, tier)
	if err != nil {
		WriteOutcomeError(w, r, log, err)
		return
	}
	WriteOutcome(w, r, outcome)
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

// WriteOutcome сериализует исход попытки покупки в ответ API.
func WriteOutcome(w http.ResponseWriter, r *http.Request, outcome *checkout.Outcome) {
	data := map[string]any{
		"status": outcome.Status,
	}
	if outcome.Message != "" {
		data["message"] = outcome.Message
	}
	if outcome.Order != nil {
		data["order"] = outcome.Order
	}
	render.JSON(w, r, response.StatusOKWithData(data))
}

// WriteOutcomeError переводит ошибки оркестратора в ответы API.
// Неразбираемая цена тарифа — ошибка конфигурации, посетителю показывается
// общее сообщение без подробностей.
func WriteOutcomeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, checkout.ErrInProgress):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("checkout is already in progress"))
	case errors.Is(err, checkout.ErrBadPrice):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("something went wrong, please contact support"))
	case errors.Is(err, checkout.ErrNoPending):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("no pending purchase to resume"))
	default:
		log.Error("failed to start payment", sl.Err(err))
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("payment could not be started, please try again or contact support"))
	}
}
