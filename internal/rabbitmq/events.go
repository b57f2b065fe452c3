package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/asanaflow/checkout-service/internal/models"
)

// Publisher типизированный издатель событий о подписках.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создает Publisher поверх открытого канала.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishActivated публикует событие об активации подписки.
func (p *Publisher) PublishActivated(event models.ActivatedEvent) error {
	return PublishMessage(p.ch, ExchangeName, RoutingKeyActivated, event)
}
