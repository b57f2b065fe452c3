package rabbitmq

// ExchangeName exchange событий о подписках.
const ExchangeName = "subscriptions"

// RoutingKeyActivated ключ маршрутизации события об активации подписки.
const RoutingKeyActivated = "subscription.activated"

// QueueConfig описывает очередь и ее ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди воркера уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "subscription.activated", RoutingKey: RoutingKeyActivated},
	}
}
