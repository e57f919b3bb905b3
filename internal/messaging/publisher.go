package messaging

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/lTzHorus/Carne/internal/events"
)

type Publisher struct {
	client *RabbitMQClient
}

func NewPublisher(client *RabbitMQClient) *Publisher {
	return &Publisher{client: client}
}

// PublishPaymentEvent routes the event on its type, e.g. payment.created.
func (p *Publisher) PublishPaymentEvent(event events.PaymentEvent) error {
	if !p.client.IsConnected() {
		return fmt.Errorf("no connection to RabbitMQ")
	}

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("event serialization error: %v", err)
	}

	routingKey := string(event.EventType)

	channel := p.client.Channel()
	err = channel.Publish(
		p.client.config.Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID.String(),
			Timestamp:    event.Timestamp,
			Headers: amqp.Table{
				"payment_id": event.PaymentID.String(),
				"event_type": string(event.EventType),
			},
		},
	)
	if err != nil {
		return fmt.Errorf("event publish error: %v", err)
	}

	log.Printf("Event published: %s (payment %s)", routingKey, event.PaymentID)
	return nil
}
