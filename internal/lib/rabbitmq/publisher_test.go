package rabbitmq

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

type reminder struct {
	Email string `json:"email"`
	Nome  string `json:"nome"`
}

func TestPublishMessage(t *testing.T) {
	tests := []struct {
		name       string
		message    any
		publishErr error
		wantErr    bool
		wantCall   bool
	}{
		{
			name:     "сообщение опубликовано",
			message:  reminder{Email: "mario@example.com", Nome: "Mario"},
			wantCall: true,
		},
		{
			name:       "ошибка брокера",
			message:    reminder{Email: "mario@example.com"},
			publishErr: errors.New("channel closed"),
			wantErr:    true,
			wantCall:   true,
		},
		{
			name:    "не сериализуется",
			message: struct{ Ch chan int }{Ch: make(chan int)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := new(mockPublisher)
			if tt.wantCall {
				pub.On("Publish", NotificationsExchange, CertificateRoutingKey, false, false,
					mock.MatchedBy(func(p amqp.Publishing) bool {
						var got reminder
						return p.ContentType == "application/json" &&
							p.DeliveryMode == amqp.Persistent &&
							json.Unmarshal(p.Body, &got) == nil
					})).Return(tt.publishErr)
			}

			err := PublishMessage(pub, NotificationsExchange, CertificateRoutingKey, tt.message)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "rabbitmq.PublishMessage")
			} else {
				require.NoError(t, err)
			}
			pub.AssertExpectations(t)
		})
	}
}

func TestGetNotificationQueues(t *testing.T) {
	queues := GetNotificationQueues()
	require.Len(t, queues, 1)
	assert.Equal(t, CertificateQueue, queues[0].QueueName)
	assert.Equal(t, CertificateRoutingKey, queues[0].RoutingKey)
}
