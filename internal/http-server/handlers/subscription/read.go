// Package subscription обрабатывает чтение подписки пользователя.
package subscription

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/asanaflow/checkout-service/internal/http-server/mware"
	"github.com/asanaflow/checkout-service/internal/http-server/response"
	"github.com/asanaflow/checkout-service/internal/lib/sl"
	"github.com/asanaflow/checkout-service/internal/models"
	"github.com/asanaflow/checkout-service/internal/storage/repository"
)

// Reader описывает чтение подписки пользователя.
type Reader interface {
	Read(ctx context.Context, userUID string) (*models.SubscriptionRecord, error)
}

// Handler обрабатывает запрос текущей подписки.
type Handler struct {
	log     *slog.Logger
	service Reader
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Reader) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.read"
	log := h.log.With(slog.String("op", op))

	userUID := mware.GetUserUID(r.Context())

	record, err := h.service.Read(r.Context(), userUID)
	if errors.Is(err, repository.ErrNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("subscription not found"))
		return
	}
	if err != nil {
		log.Error("failed to read subscription", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read subscription"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(record))
}
