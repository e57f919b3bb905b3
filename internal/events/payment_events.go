package events

import (
	"time"

	"github.com/google/uuid"
)

type PaymentEventType string

const (
	PaymentCreatedEvent PaymentEventType = "payment.created"
	PaymentPaidEvent    PaymentEventType = "payment.paid"
	PaymentUpdatedEvent PaymentEventType = "payment.updated"
	PaymentDeletedEvent PaymentEventType = "payment.deleted"
)

// PaymentEvent is published to the topic exchange after a successful
// mutation. Consumers key off the event type as routing key.
type PaymentEvent struct {
	ID        uuid.UUID        `json:"id"`
	EventType PaymentEventType `json:"event_type"`
	PaymentID uuid.UUID        `json:"payment_id"`
	Payload   interface{}      `json:"payload,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}
