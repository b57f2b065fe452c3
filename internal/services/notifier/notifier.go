// Package notifier отправляет почтовые уведомления об активации подписки.
package notifier

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/asanaflow/checkout-service/internal/lib/sl"
	"github.com/asanaflow/checkout-service/internal/lib/smtp"
	"github.com/asanaflow/checkout-service/internal/models"
)

// Service воркер уведомлений, читает события из очереди и шлет письма.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создает новый Service.
func New(transport smtp.TransportInterface, log *slog.Logger) *Service {
	return &Service{transport: transport, log: log}
}

// SendSubscriptionActivated отправляет приветственное письмо после оплаты.
// body — сериализованное событие models.ActivatedEvent из очереди.
func (s *Service) SendSubscriptionActivated(body []byte) error {
	var event models.ActivatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if event.Email == "" {
		s.log.Warn("activation event without email, skipping",
			slog.String("user_uid", event.UserUID))
		return nil
	}

	subject := "Welcome to the course!"
	bodyText := fmt.Sprintf(
		"Namaste!\n\nYour plan %q is now active until %s.\nPayment reference: %s.\n\nSee you on the mat.",
		event.PlanName, event.PeriodEnd.Format("02 Jan 2006"), event.PaymentID)

	return s.sendEmail([]string{event.Email}, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		if err := client.Quit(); err != nil {
			s.log.Warn("failed to quit SMTP session", sl.Err(err))
		}
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		if closeErr := w.Close(); closeErr != nil {
			s.log.Warn("failed to close data writer", sl.Err(closeErr))
		}
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	s.log.Info("activation email sent", slog.String("to", strings.Join(to, ";")))
	return nil
}
