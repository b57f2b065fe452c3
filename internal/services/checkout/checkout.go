// Package checkout содержит бизнес-логику оформления покупки тарифа.
//
// Покупка смоделирована явным двухшаговым процессом: оплата никогда не
// начинается для неаутентифицированного посетителя, но выбранный тариф
// переживает прерывание на вход. Состояния посетителя:
//
//	Idle → AwaitingAuth → PaymentInFlight → Idle
//
// Из AwaitingAuth возможен прямой выход в Idle, если посетитель закрыл
// окно входа, не аутентифицировавшись.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/asanaflow/checkout-service/internal/lib/period"
	"github.com/asanaflow/checkout-service/internal/lib/priceparse"
	"github.com/asanaflow/checkout-service/internal/lib/sl"
	"github.com/asanaflow/checkout-service/internal/models"
	"github.com/asanaflow/checkout-service/internal/paymentgateway"
)

// State состояние процесса покупки для одного посетителя.
type State int

const (
	// StateIdle покупка не идет.
	StateIdle State = iota
	// StateAwaitingAuth покупка отложена до входа, окно входа открыто.
	StateAwaitingAuth
	// StatePaymentInFlight ордер создан, ожидается исход оплаты.
	StatePaymentInFlight
)

func (s State) String() string {
	switch s {
	case StateAwaitingAuth:
		return "awaiting_auth"
	case StatePaymentInFlight:
		return "payment_in_flight"
	default:
		return "idle"
	}
}

// Session явный объект сессии посетителя. UserUID пустой, пока посетитель
// не аутентифицирован; сервис только читает это состояние, логикой сессий
// владеет внешний сервис аутентификации.
type Session struct {
	VisitorID string
	UserUID   string
	Email     string
}

// Authenticated сообщает, аутентифицирован ли посетитель.
func (s Session) Authenticated() bool {
	return s.UserUID != ""
}

// Gateway описывает клиент платежного шлюза.
type Gateway interface {
	MinorUnits(amount int) int64
	CreateOrder(req paymentgateway.CreateOrderRequest) (*paymentgateway.Order, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
}

// SubscriptionRepository описывает запись подписки в хранилище.
type SubscriptionRepository interface {
	Upsert(ctx context.Context, record models.SubscriptionRecord) error
}

// EventPublisher публикует событие об активации подписки.
type EventPublisher interface {
	PublishActivated(event models.ActivatedEvent) error
}

// OutcomeStatus исход попытки покупки, видимый посетителю.
type OutcomeStatus string

const (
	// OutcomeAuthRequired нужно войти, тариф сохранен как отложенная покупка.
	OutcomeAuthRequired OutcomeStatus = "auth_required"
	// OutcomePaymentStarted ордер создан, посетителю открывается виджет шлюза.
	OutcomePaymentStarted OutcomeStatus = "payment_started"
	// OutcomeContactSupport тариф в валюте, которую шлюз не обслуживает.
	OutcomeContactSupport OutcomeStatus = "contact_support"
)

// Outcome результат попытки покупки.
type Outcome struct {
	Status  OutcomeStatus
	Order   *paymentgateway.Order
	Message string
}

// ReasonDismissed причина отказа "посетитель сам закрыл окно оплаты";
// в этом случае ошибка посетителю не показывается.
const ReasonDismissed = "dismissed"

var (
	// ErrInProgress возвращается при второй попытке покупки, пока первая
	// не завершилась. Повторная попытка отклоняется, а не перезаписывает
	// отложенный тариф.
	ErrInProgress = errors.New("checkout already in progress")
	// ErrBadPrice цена тарифа не содержит цифр, оплата не начинается.
	ErrBadPrice = errors.New("tier price has no parseable amount")
	// ErrNoPending отложенной покупки для посетителя нет.
	ErrNoPending = errors.New("no pending purchase")
	// ErrNoPayment подтверждение не соответствует платежу в полете.
	ErrNoPayment = errors.New("no payment in flight for this order")
	// ErrBadSignature подпись успешного платежа не прошла проверку.
	ErrBadSignature = errors.New("invalid payment signature")
)

type visitorState struct {
	state   State
	pending *models.PendingPurchase
	tier    models.Tier
	orderID string
}

// Service оркестратор оформления покупки.
type Service struct {
	gateway     Gateway
	repo        SubscriptionRepository
	publisher   EventPublisher
	currency    string
	resumeDelay time.Duration
	pendingTTL  time.Duration
	log         *slog.Logger

	mu       sync.Mutex
	visitors map[string]*visitorState
}

// New создает новый Service. resumeDelay — пауза перед отложенной покупкой
// после входа, чтобы окно входа успело закрыться. pendingTTL — время жизни
// отложенной покупки: посетитель, бросивший окно входа, не оставляет запись
// навсегда; ноль отключает истечение.
func New(gateway Gateway, repo SubscriptionRepository, publisher EventPublisher,
	currency string, resumeDelay, pendingTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		gateway:     gateway,
		repo:        repo,
		publisher:   publisher,
		currency:    currency,
		resumeDelay: resumeDelay,
		pendingTTL:  pendingTTL,
		log:         log,
		visitors:    make(map[string]*visitorState),
	}
}

// Attempt обрабатывает попытку покупки тарифа. Для неаутентифицированного
// посетителя тариф сохраняется как отложенная покупка и запрашивается вход;
// никаких платежных побочных эффектов при этом не происходит.
func (s *Service) Attempt(ctx context.Context, sess Session, tier models.Tier) (*Outcome, error) {
	const op = "checkout.Attempt"
	log := s.log.With(slog.String("op", op), slog.String("visitor_id", sess.VisitorID))

	s.mu.Lock()
	vs := s.visitor(sess.VisitorID)
	if vs.state != StateIdle {
		s.mu.Unlock()
		return nil, ErrInProgress
	}
	if !sess.Authenticated() {
		vs.state = StateAwaitingAuth
		vs.pending = &models.PendingPurchase{Tier: tier, CreatedAt: time.Now()}
		s.expireLater(sess.VisitorID, vs.pending)
		s.mu.Unlock()
		log.Info("purchase deferred until login", slog.String("tier", tier.Name))
		return &Outcome{Status: OutcomeAuthRequired}, nil
	}
	s.mu.Unlock()

	return s.startPayment(ctx, sess, tier, StateIdle)
}

// expireLater снимает отложенную покупку по истечении pendingTTL, если она
// все еще та же самая; вызывается под мьютексом.
func (s *Service) expireLater(visitorID string, pending *models.PendingPurchase) {
	if s.pendingTTL <= 0 {
		return
	}
	time.AfterFunc(s.pendingTTL, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if vs, ok := s.visitors[visitorID]; ok && vs.state == StateAwaitingAuth && vs.pending == pending {
			s.reset(visitorID)
		}
	})
}

// Resume выполняет отложенную покупку после входа. Отложенный тариф
// снимается до повторной попытки, поэтому выполняется не более одного
// раза, каким бы ни был исход. Слот посетителя остается в AwaitingAuth
// на время паузы: параллельная попытка покупки в этом окне отклоняется,
// а не перезаписывает платеж.
func (s *Service) Resume(ctx context.Context, sess Session) (*Outcome, error) {
	const op = "checkout.Resume"
	log := s.log.With(slog.String("op", op), slog.String("visitor_id", sess.VisitorID))

	s.mu.Lock()
	vs, ok := s.visitors[sess.VisitorID]
	if !ok || vs.state != StateAwaitingAuth || vs.pending == nil {
		s.mu.Unlock()
		return nil, ErrNoPending
	}
	tier := vs.pending.Tier
	vs.pending = nil
	s.mu.Unlock()

	// Пауза, чтобы окно входа успело закрыться.
	if s.resumeDelay > 0 {
		select {
		case <-time.After(s.resumeDelay):
		case <-ctx.Done():
			s.mu.Lock()
			s.reset(sess.VisitorID)
			s.mu.Unlock()
			return nil, ctx.Err()
		}
	}

	log.Info("resuming deferred purchase", slog.String("tier", tier.Name))
	return s.startPayment(ctx, sess, tier, StateAwaitingAuth)
}

// Dismiss обрабатывает закрытие окна входа без аутентификации:
// отложенная покупка снимается, оплата не начинается.
func (s *Service) Dismiss(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if vs, ok := s.visitors[sess.VisitorID]; ok && vs.state == StateAwaitingAuth {
		s.reset(sess.VisitorID)
	}
}

// Confirm обрабатывает успешный исход оплаты от шлюза: проверяет подпись,
// возвращает посетителя в Idle и записывает подписку. Запись выполняется
// в фоне и не задерживает ответ об успехе; ошибка записи только логируется,
// посетителю после подтверждения оплаты она не показывается.
func (s *Service) Confirm(_ context.Context, sess Session, orderID, paymentID, signature string) error {
	const op = "checkout.Confirm"
	log := s.log.With(slog.String("op", op), slog.String("visitor_id", sess.VisitorID))

	if !s.gateway.VerifyPaymentSignature(orderID, paymentID, signature) {
		return ErrBadSignature
	}

	s.mu.Lock()
	vs, ok := s.visitors[sess.VisitorID]
	if !ok || vs.state != StatePaymentInFlight || vs.orderID != orderID {
		s.mu.Unlock()
		return ErrNoPayment
	}
	tier := vs.tier
	s.reset(sess.VisitorID)
	s.mu.Unlock()

	record := models.SubscriptionRecord{
		UserUID:   sess.UserUID,
		PlanName:  tier.Name,
		Status:    models.SubscriptionStatusActive,
		PeriodEnd: period.End(time.Now().UTC(), tier.Frequency),
		PaymentID: paymentID,
		Frequency: tier.Frequency,
	}

	log.Info("payment confirmed", slog.String("plan", tier.Name), slog.String("payment_id", paymentID))
	go s.persist(record, sess.Email)
	return nil
}

// Cancel обрабатывает неуспешный исход оплаты. Возвращает true, если
// посетитель сам закрыл окно оплаты — тогда ошибка не показывается.
func (s *Service) Cancel(sess Session, reason string) bool {
	const op = "checkout.Cancel"

	s.mu.Lock()
	s.reset(sess.VisitorID)
	s.mu.Unlock()

	silent := reason == ReasonDismissed
	if !silent {
		s.log.Warn("payment failed", slog.String("op", op),
			slog.String("visitor_id", sess.VisitorID), slog.String("reason", reason))
	}
	return silent
}

// State возвращает текущее состояние процесса покупки посетителя.
func (s *Service) State(visitorID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if vs, ok := s.visitors[visitorID]; ok {
		return vs.state
	}
	return StateIdle
}

// Pending возвращает отложенную покупку посетителя, если она есть.
func (s *Service) Pending(visitorID string) *models.PendingPurchase {
	s.mu.Lock()
	defer s.mu.Unlock()
	if vs, ok := s.visitors[visitorID]; ok && vs.pending != nil {
		p := *vs.pending
		return &p
	}
	return nil
}

// startPayment разбирает цену тарифа, применяет валютный гейт и создает
// ордер у шлюза. Нулевая сумма означает ошибку конфигурации каталога —
// оплата не начинается. Тарифы международного каталога шлюз не обслуживает:
// посетителю предлагается связаться с поддержкой, это продуктовое
// ограничение, а не ошибка. Переход в PaymentInFlight выполняется только
// из состояния from: если слот посетителя тем временем заняла другая
// операция, вызов отклоняется.
func (s *Service) startPayment(_ context.Context, sess Session, tier models.Tier, from State) (*Outcome, error) {
	const op = "checkout.startPayment"
	log := s.log.With(slog.String("op", op), slog.String("visitor_id", sess.VisitorID))

	amount := priceparse.Amount(tier.Price)
	if amount == 0 {
		s.mu.Lock()
		s.reset(sess.VisitorID)
		s.mu.Unlock()
		log.Error("tier price is not parseable", slog.String("price", tier.Price))
		return nil, ErrBadPrice
	}

	if priceparse.IsInternational(tier.Price) {
		s.mu.Lock()
		s.reset(sess.VisitorID)
		s.mu.Unlock()
		log.Info("international tier requested, gateway is domestic only",
			slog.String("tier", tier.Name))
		return &Outcome{
			Status:  OutcomeContactSupport,
			Message: "International payments are not supported yet, please contact support",
		}, nil
	}

	s.mu.Lock()
	vs, ok := s.visitors[sess.VisitorID]
	if !ok && from == StateIdle {
		vs = s.visitor(sess.VisitorID)
		ok = true
	}
	if !ok || vs.state != from {
		s.mu.Unlock()
		return nil, ErrInProgress
	}
	vs.state = StatePaymentInFlight
	vs.tier = tier
	s.mu.Unlock()

	order, err := s.gateway.CreateOrder(paymentgateway.CreateOrderRequest{
		Amount:   s.gateway.MinorUnits(amount),
		Currency: s.currency,
		Receipt:  uuid.NewString(),
		Notes: map[string]string{
			"description": tier.Name + " - " + tier.Frequency,
		},
	})
	if err != nil {
		s.mu.Lock()
		s.reset(sess.VisitorID)
		s.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.visitor(sess.VisitorID).orderID = order.ID
	s.mu.Unlock()

	log.Info("payment started", slog.String("order_id", order.ID), slog.Int("amount", amount))
	return &Outcome{Status: OutcomePaymentStarted, Order: order}, nil
}

// persist записывает подписку и публикует событие об активации.
func (s *Service) persist(record models.SubscriptionRecord, email string) {
	const op = "checkout.persist"
	log := s.log.With(slog.String("op", op), slog.String("user_uid", record.UserUID))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.repo.Upsert(ctx, record); err != nil {
		log.Error("failed to persist subscription", sl.Err(err))
		return
	}

	if s.publisher == nil {
		return
	}
	event := models.ActivatedEvent{
		EventID:   uuid.NewString(),
		UserUID:   record.UserUID,
		Email:     email,
		PlanName:  record.PlanName,
		PeriodEnd: record.PeriodEnd,
		PaymentID: record.PaymentID,
	}
	if err := s.publisher.PublishActivated(event); err != nil {
		log.Warn("failed to publish activation event", sl.Err(err))
	}
}

// visitor возвращает слот состояния посетителя; вызывается под мьютексом.
func (s *Service) visitor(visitorID string) *visitorState {
	vs, ok := s.visitors[visitorID]
	if !ok {
		vs = &visitorState{state: StateIdle}
		s.visitors[visitorID] = vs
	}
	return vs
}

// reset возвращает посетителя в Idle и снимает отложенную покупку;
// вызывается под мьютексом.
func (s *Service) reset(visitorID string) {
	delete(s.visitors, visitorID)
}
