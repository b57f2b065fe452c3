package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asanaflow/checkout-service/internal/config"
	"github.com/asanaflow/checkout-service/internal/lib/smtp"
	"github.com/asanaflow/checkout-service/internal/rabbitmq"
	"github.com/asanaflow/checkout-service/internal/services/notifier"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting notifier service", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := rabbitmq.Connect(cfg.RabbitConnectionString, 5, 3*time.Second)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", slog.Any("err", err))
		os.Exit(1)
	}
	defer conn.Close()

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		logger.Error("failed to setup rabbitmq channel", slog.Any("err", err))
		os.Exit(1)
	}
	defer ch.Close()

	transport := smtp.NewTransport(cfg.SMTP, logger)
	service := notifier.New(transport, logger)

	for _, q := range queues {
		if err := rabbitmq.ConsumerMessage(ctx, ch, q.QueueName, service.SendSubscriptionActivated); err != nil {
			logger.Error("failed to start consumer", slog.String("queue", q.QueueName), slog.Any("err", err))
			os.Exit(1)
		}
	}

	logger.Info("notifier is consuming")
	<-ctx.Done()
	logger.Info("notifier stopped gracefully")
}
