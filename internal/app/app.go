// Package app собирает зависимости HTTP-сервиса оформления подписки
// и управляет его жизненным циклом.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/asanaflow/checkout-service/internal/cache"
	"github.com/asanaflow/checkout-service/internal/config"
	"github.com/asanaflow/checkout-service/internal/geo"
	appjwt "github.com/asanaflow/checkout-service/internal/lib/jwt"
	"github.com/asanaflow/checkout-service/internal/locale"
	"github.com/asanaflow/checkout-service/internal/paymentgateway"
	"github.com/asanaflow/checkout-service/internal/rabbitmq"
	checkoutservice "github.com/asanaflow/checkout-service/internal/services/checkout"
	subscriptionservice "github.com/asanaflow/checkout-service/internal/services/subscription"
	"github.com/asanaflow/checkout-service/internal/storage"
	"github.com/asanaflow/checkout-service/internal/storage/repository"
)

// App собранный HTTP-сервис.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *storage.Storage
	rabbitConn *amqp.Connection
}

// New создает App: подключается к MongoDB, Redis и RabbitMQ,
// собирает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(ctx, cfg.MongoConnectionString, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.RabbitConnectionString, 5, 3*time.Second)
	if err != nil {
		return nil, err
	}
	rabbitCh, err := rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetNotificationQueues())
	if err != nil {
		return nil, err
	}

	subsRepo := repository.NewSubscriptions(db)
	gatewayClient := paymentgateway.NewClient(
		cfg.Gateway.KeyID, cfg.Gateway.KeySecret, cfg.Gateway.APIURL, cfg.Gateway.FXRate)
	geoClient := geo.NewClient(cfg.Locale.GeoAPIURL)
	resolver := locale.New(geoClient, cacheRedis, cfg.Locale, logger)
	jwtMaker := appjwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	checkoutSvc := checkoutservice.New(
		gatewayClient, subsRepo, rabbitmq.NewPublisher(rabbitCh),
		cfg.Gateway.Currency, cfg.Checkout.ResumeDelay, cfg.Checkout.PendingTTL, logger)
	subscriptionSvc := subscriptionservice.New(subsRepo, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, resolver, checkoutSvc, subscriptionSvc)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		rabbitConn: rabbitConn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.Close(timeoutCtx); closeErr != nil {
			a.logger.Warn("failed to close mongo connection", slog.Any("err", closeErr))
		}
		if closeErr := a.rabbitConn.Close(); closeErr != nil {
			a.logger.Warn("failed to close rabbitmq connection", slog.Any("err", closeErr))
		}
		return err
	}
}
