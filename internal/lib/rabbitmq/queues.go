package rabbitmq

// NotificationsExchange direct-обменник уведомлений.
const NotificationsExchange = "notifications"

// Очередь и ключ напоминаний об истечении медицинской справки.
const (
	CertificateQueue      = "notification.certificate"
	CertificateRoutingKey = "certificate"
)

// QueueConfig очередь и ключ, которым она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди, которые объявляют планировщик и отправитель.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: CertificateQueue, RoutingKey: CertificateRoutingKey},
	}
}
