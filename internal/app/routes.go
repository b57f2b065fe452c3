// Package app предоставляет маршруты основного приложения.
package app

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/asanaflow/checkout-service/docs"
	"github.com/asanaflow/checkout-service/internal/http-server/handlers/checkout/cancel"
	"github.com/asanaflow/checkout-service/internal/http-server/handlers/checkout/confirm"
	"github.com/asanaflow/checkout-service/internal/http-server/handlers/checkout/dismiss"
	"github.com/asanaflow/checkout-service/internal/http-server/handlers/checkout/resume"
	"github.com/asanaflow/checkout-service/internal/http-server/handlers/checkout/start"
	"github.com/asanaflow/checkout-service/internal/http-server/handlers/health"
	pricinghandler "github.com/asanaflow/checkout-service/internal/http-server/handlers/pricing"
	subscriptionhandler "github.com/asanaflow/checkout-service/internal/http-server/handlers/subscription"
	"github.com/asanaflow/checkout-service/internal/http-server/mware"
	"github.com/asanaflow/checkout-service/internal/locale"
	checkoutservice "github.com/asanaflow/checkout-service/internal/services/checkout"
	subscriptionservice "github.com/asanaflow/checkout-service/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker mware.TokenParser,
	resolver *locale.Resolver, checkoutSvc *checkoutservice.Service,
	subscriptionSvc *subscriptionservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mware.VisitorIDMiddleware())
		r.Use(mware.RateLimitMiddleware(logger))

		// Открытые конечные точки: каталог доступен без входа, попытка
		// покупки до входа откладывается оркестратором.
		r.Group(func(r chi.Router) {
			r.Use(mware.OptionalJWTMiddleware(jwtMaker, logger))
			r.Get("/pricing", pricinghandler.New(logger, resolver).ServeHTTP)
			r.Post("/checkout", start.New(logger, checkoutSvc, resolver).ServeHTTP)
			r.Post("/checkout/dismiss", dismiss.New(logger, checkoutSvc).ServeHTTP)
			r.Post("/checkout/cancel", cancel.New(logger, checkoutSvc).ServeHTTP)
		})

		// Группа с обязательной аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(mware.JWTMiddleware(jwtMaker, logger))
			r.Post("/checkout/resume", resume.New(logger, checkoutSvc).ServeHTTP)
			r.Post("/checkout/confirm", confirm.New(logger, checkoutSvc, subscriptionSvc).ServeHTTP)
			r.Get("/subscription", subscriptionhandler.New(logger, subscriptionSvc).ServeHTTP)
		})
	})

	r.Get("/health", health.New())
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
