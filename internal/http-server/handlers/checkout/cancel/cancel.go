// Package cancel обрабатывает неуспешный исход оплаты.
package cancel

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/asanaflow/checkout-service/internal/http-server/mware"
	"github.com/asanaflow/checkout-service/internal/http-server/response"
	"github.com/asanaflow/checkout-service/internal/lib/sl"
	"github.com/asanaflow/checkout-service/internal/services/checkout"
)

// Request тело запроса об отмене или ошибке оплаты.
type Request struct {
	Reason string `json:"reason"` // "dismissed", если посетитель сам закрыл виджет
}

// Orchestrator описывает оркестратор оформления покупки.
type Orchestrator interface {
	Cancel(sess checkout.Session, reason string) bool
}

// Handler обрабатывает отмену оплаты.
type Handler struct {
	log     *slog.Logger
	service Orchestrator
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Orchestrator) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP возвращает процесс покупки в исходное состояние. Если посетитель
// сам закрыл виджет оплаты, сообщение об ошибке не показывается; любой другой
// отказ получает общее предложение повторить или обратиться в поддержку.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkout.cancel"
	log := h.log.With(slog.String("op", op))

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	sess := checkout.Session{
		VisitorID: mware.GetVisitorID(r.Context()),
		UserUID:   mware.GetUserUID(r.Context()),
	}

	silent := h.service.Cancel(sess, req.Reason)
	if silent {
		render.JSON(w, r, response.OK())
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "payment failed, please try again or contact support",
	}))
}
