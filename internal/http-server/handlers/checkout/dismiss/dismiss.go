// Package dismiss обрабатывает закрытие окна входа без аутентификации.
package dismiss

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/asanaflow/checkout-service/internal/http-server/mware"
	"github.com/asanaflow/checkout-service/internal/http-server/response"
	"github.com/asanaflow/checkout-service/internal/services/checkout"
)

// Orchestrator описывает оркестратор оформления покупки.
type Orchestrator interface {
	Dismiss(sess checkout.Session)
}

// Handler снимает отложенную покупку, когда посетитель закрыл окно входа.
type Handler struct {
	log     *slog.Logger
	service Orchestrator
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Orchestrator) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkout.dismiss"

	sess := checkout.Session{
		VisitorID: mware.GetVisitorID(r.Context()),
		UserUID:   mware.GetUserUID(r.Context()),
	}
	h.service.Dismiss(sess)

	h.log.Info("login dismissed, pending purchase cleared",
		slog.String("op", op), slog.String("visitor_id", sess.VisitorID))
	render.JSON(w, r, response.OK())
}
