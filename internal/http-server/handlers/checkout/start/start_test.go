package start_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asanaflow/checkout-service/internal/http-server/handlers/checkout/start"
	"github.com/asanaflow/checkout-service/internal/http-server/mware"
	"github.com/asanaflow/checkout-service/internal/http-server/response"
	"github.com/asanaflow/checkout-service/internal/models"
	"github.com/asanaflow/checkout-service/internal/paymentgateway"
	"github.com/asanaflow/checkout-service/internal/services/checkout"
)

type mockOrchestrator struct {
	AttemptFunc func(ctx context.Context, sess checkout.Session, tier models.Tier) (*checkout.Outcome, error)
}

func (m *mockOrchestrator) Attempt(ctx context.Context, sess checkout.Session, tier models.Tier) (*checkout.Outcome, error) {
	return m.AttemptFunc(ctx, sess, tier)
}

type mockResolver struct {
	ResolveFunc func(ctx context.Context, visitorID, ip, timezone, language string) models.RegionSelection
}

func (m *mockResolver) Resolve(ctx context.Context, visitorID, ip, timezone, language string) models.RegionSelection {
	return m.ResolveFunc(ctx, visitorID, ip, timezone, language)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func domesticResolver() *mockResolver {
	return &mockResolver{
		ResolveFunc: func(_ context.Context, _, _, _, _ string) models.RegionSelection {
			return models.RegionSelection{Domestic: true, Resolved: true}
		},
	}
}

func newPostRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
	ctx := context.WithValue(req.Context(), mware.VisitorKey, "v1")
	return req.WithContext(ctx)
}

func TestStartHandler(t *testing.T) {
	t.Run("deferred for anonymous visitor", func(t *testing.T) {
		service := &mockOrchestrator{
			AttemptFunc: func(_ context.Context, sess checkout.Session, tier models.Tier) (*checkout.Outcome, error) {
				require.Equal(t, "v1", sess.VisitorID)
				require.False(t, sess.Authenticated())
				require.Equal(t, "Monthly Subscription", tier.Name)
				return &checkout.Outcome{Status: checkout.OutcomeAuthRequired}, nil
			},
		}

		req := newPostRequest(`{"tier_name": "Monthly Subscription"}`)
		w := httptest.NewRecorder()

		start.New(makeLogger(), service, domesticResolver()).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp response.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, response.StatusOK, resp.Status)
		assert.Equal(t, "auth_required", resp.Data.(map[string]any)["status"])
	})

	t.Run("payment started for authenticated user", func(t *testing.T) {
		service := &mockOrchestrator{
			AttemptFunc: func(_ context.Context, sess checkout.Session, _ models.Tier) (*checkout.Outcome, error) {
				require.Equal(t, "user-1", sess.UserUID)
				return &checkout.Outcome{
					Status: checkout.OutcomePaymentStarted,
					Order: &paymentgateway.Order{
						ID:       "order_1",
						Amount:   99900,
						Currency: "INR",
						Status:   "created",
					},
				}, nil
			},
		}

		req := newPostRequest(`{"tier_name": "Monthly Subscription"}`)
		ctx := context.WithValue(req.Context(), mware.UserKey, "user-1")
		req = req.WithContext(ctx)
		w := httptest.NewRecorder()

		start.New(makeLogger(), service, domesticResolver()).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "payment_started")
		assert.Contains(t, w.Body.String(), "order_1")
	})

	t.Run("manual currency toggle overrides region", func(t *testing.T) {
		service := &mockOrchestrator{
			AttemptFunc: func(_ context.Context, _ checkout.Session, tier models.Tier) (*checkout.Outcome, error) {
				// usd переключает каталог на международный даже при домашнем регионе.
				require.Contains(t, tier.Price, "$")
				return &checkout.Outcome{
					Status:  checkout.OutcomeContactSupport,
					Message: "International payments are not supported yet, please contact support",
				}, nil
			},
		}

		req := newPostRequest(`{"tier_name": "Monthly Subscription", "currency": "usd"}`)
		w := httptest.NewRecorder()

		start.New(makeLogger(), service, domesticResolver()).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "contact_support")
		assert.Contains(t, w.Body.String(), "contact support")
	})

	t.Run("currency toggle ignored until region is resolved", func(t *testing.T) {
		service := &mockOrchestrator{
			AttemptFunc: func(_ context.Context, _ checkout.Session, tier models.Tier) (*checkout.Outcome, error) {
				// До завершения геолокации usd игнорируется, тариф берется
				// из внутреннего каталога.
				require.Contains(t, tier.Price, "₹")
				return &checkout.Outcome{Status: checkout.OutcomeAuthRequired}, nil
			},
		}
		resolver := &mockResolver{
			ResolveFunc: func(_ context.Context, _, _, _, _ string) models.RegionSelection {
				return models.RegionSelection{Domestic: true, Resolved: false}
			},
		}

		req := newPostRequest(`{"tier_name": "Monthly Subscription", "currency": "usd"}`)
		w := httptest.NewRecorder()

		start.New(makeLogger(), service, resolver).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "auth_required")
	})

	t.Run("missing tier name", func(t *testing.T) {
		service := &mockOrchestrator{
			AttemptFunc: func(_ context.Context, _ checkout.Session, _ models.Tier) (*checkout.Outcome, error) {
				t.Fatal("orchestrator should not be called on invalid request")
				return nil, nil
			},
		}

		req := newPostRequest(`{}`)
		w := httptest.NewRecorder()

		start.New(makeLogger(), service, domesticResolver()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		service := &mockOrchestrator{}

		req := newPostRequest(`{not json`)
		w := httptest.NewRecorder()

		start.New(makeLogger(), service, domesticResolver()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid request body")
	})

	t.Run("unknown tier", func(t *testing.T) {
		service := &mockOrchestrator{}

		req := newPostRequest(`{"tier_name": "No Such Tier"}`)
		w := httptest.NewRecorder()

		start.New(makeLogger(), service, domesticResolver()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "tier not found")
	})

	t.Run("checkout already in progress", func(t *testing.T) {
		service := &mockOrchestrator{
			AttemptFunc: func(_ context.Context, _ checkout.Session, _ models.Tier) (*checkout.Outcome, error) {
				return nil, checkout.ErrInProgress
			},
		}

		req := newPostRequest(`{"tier_name": "Monthly Subscription"}`)
		w := httptest.NewRecorder()

		start.New(makeLogger(), service, domesticResolver()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "already in progress")
	})

	t.Run("gateway failure", func(t *testing.T) {
		service := &mockOrchestrator{
			AttemptFunc: func(_ context.Context, _ checkout.Session, _ models.Tier) (*checkout.Outcome, error) {
				return nil, errors.New("gateway is down")
			},
		}

		req := newPostRequest(`{"tier_name": "Monthly Subscription"}`)
		w := httptest.NewRecorder()

		start.New(makeLogger(), service, domesticResolver()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "contact support")
	})
}
