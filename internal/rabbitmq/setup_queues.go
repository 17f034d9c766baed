package rabbitmq

// ExchangeName — exchange для почтовых уведомлений.
const ExchangeName = "notifications"

// EmailRoutingKey — ключ маршрутизации писем пользователям.
const EmailRoutingKey = "email"

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "email_notifications_queue", RoutingKey: EmailRoutingKey},
		// при необходимости дополнительные очереди для других воркеров
	}
}
