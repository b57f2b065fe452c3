// Package confirm обрабатывает успешный исход оплаты от платежного шлюза.
package confirm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/asanaflow/checkout-service/internal/http-server/mware"
	"github.com/asanaflow/checkout-service/internal/http-server/response"
	"github.com/asanaflow/checkout-service/internal/lib/sl"
	"github.com/asanaflow/checkout-service/internal/services/checkout"
)

// Request тело подтверждения оплаты от виджета шлюза.
type Request struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// Orchestrator описывает оркестратор оформления покупки.
type Orchestrator interface {
	Confirm(ctx context.Context, sess checkout.Session, orderID, paymentID, signature string) error
}

// CacheInvalidator сбрасывает кеш подписки пользователя после оплаты.
type CacheInvalidator interface {
	Invalidate(userUID string)
}

// Handler обрабатывает подтверждение оплаты.
type Handler struct {
	log      *slog.Logger
	service  Orchestrator
	subs     CacheInvalidator
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Orchestrator, subs CacheInvalidator) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		subs:     subs,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подтверждение оплаты
// @Description Проверяет подпись успешного платежа и активирует подписку.
// @Description Ответ об успехе не ждет записи в хранилище.
// @Tags Checkout
// @Accept json
// @Produce json
// @Param request body Request true "Идентификаторы и подпись платежа"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response "Некорректная подпись"
// @Failure 409 {object} response.Response "Платеж не в полете"
// @Router /checkout/confirm [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkout.confirm"
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

	err := h.service.Confirm(r.Context(), sess, req.OrderID, req.PaymentID, req.Signature)
	switch {
	case errors.Is(err, checkout.ErrBadSignature):
		log.Error("payment signature verification failed")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid payment signature"))
		return
	case errors.Is(err, checkout.ErrNoPayment):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("no payment in flight for this order"))
		return
	case err != nil:
		log.Error("failed to confirm payment", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to confirm payment"))
		return
	}

	h.subs.Invalidate(sess.UserUID)
	render.JSON(w, r, response.OK())
}
