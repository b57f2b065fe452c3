// Package resume обрабатывает отложенную покупку после входа.
package resume

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/asanaflow/checkout-service/internal/http-server/handlers/checkout/start"
	"github.com/asanaflow/checkout-service/internal/http-server/mware"
	"github.com/asanaflow/checkout-service/internal/services/checkout"
)

// Orchestrator описывает оркестратор оформления покупки.
type Orchestrator interface {
	Resume(ctx context.Context, sess checkout.Session) (*checkout.Outcome, error)
}

// Handler обрабатывает возобновление покупки после аутентификации.
type Handler struct {
	log     *slog.Logger
	service Orchestrator
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Orchestrator) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP выполняет отложенную покупку для только что вошедшего
// посетителя. Вызывается фронтендом после закрытия окна входа.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkout.resume"
	log := h.log.With(slog.String("op", op))

	sess := checkout.Session{
		VisitorID: mware.GetVisitorID(r.Context()),
		UserUID:   mware.GetUserUID(r.Context()),
		Email:     mware.GetEmail(r.Context()),
	}

	outcome, err := h.service.Resume(r.Context(), sess)
	if err != nil {
		start.WriteOutcomeError(w, r, log, err)
		return
	}
	start.WriteOutcome(w, r, outcome)
}
