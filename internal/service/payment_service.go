package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/lTzHorus/Carne/internal/domain"
	"github.com/lTzHorus/Carne/internal/events"
	"github.com/lTzHorus/Carne/internal/repository"
	"github.com/lTzHorus/Carne/internal/validation"
)

// EventPublisher is the outbound event boundary. A nil publisher disables
// the event feed entirely.
type EventPublisher interface {
	PublishPaymentEvent(event events.PaymentEvent) error
}

type PaymentService struct {
	paymentRepo repository.PaymentRepository
	publisher   EventPublisher
}

func NewPaymentService(paymentRepo repository.PaymentRepository, publisher EventPublisher) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		publisher:   publisher,
	}
}

// CreatePayment validates the full payload and persists a new unpaid record.
func (s *PaymentService) CreatePayment(ctx context.Context, request domain.CreatePaymentRequest) (uuid.UUID, error) {
	if violations := validation.ValidateCreate(request); !violations.Empty() {
		return uuid.Nil, &ValidationError{Fields: violations}
	}

	dueDate, err := time.Parse(domain.DueDateLayout, *request.DueDate)
	if err != nil {
		return uuid.Nil, &ValidationError{Fields: validation.Violations{
			"dueDate": "invalid date format, use YYYY-MM-DD",
		}}
	}

	payment := domain.NewPayment(*request.Description, *request.Value, dueDate, *request.Payer)

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return uuid.Nil, fmt.Errorf("payment create error: %v", err)
	}

	log.Printf("Payment created: ID=%s, Payer=%s, Value=%.2f, Due=%s",
		payment.ID, payment.Payer, payment.Value, payment.DueDate.Format(domain.DueDateLayout))

	s.publishEvent(events.PaymentCreatedEvent, payment.ID, payment)

	return payment.ID, nil
}

// ListPayments returns records matching the status filter, ordered by due
// date ascending.
func (s *PaymentService) ListPayments(ctx context.Context, filter domain.StatusFilter) ([]*domain.Payment, error) {
	payments, err := s.paymentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("payments list error: %v", err)
	}
	return payments, nil
}

// MarkPaid transitions an unpaid payment to paid with the current server
// time. A missing record and an already-paid record both come back as
// domain.ErrNotFound; the store cannot tell them apart.
func (s *PaymentService) MarkPaid(ctx context.Context, id uuid.UUID) error {
	if err := s.paymentRepo.MarkPaid(ctx, id, time.Now()); err != nil {
		return err
	}

	log.Printf("Payment marked as paid: ID=%s", id)
	s.publishEvent(events.PaymentPaidEvent, id, nil)

	return nil
}

// UpdatePayment applies a partial patch. Only description, value, dueDate and
// payer are reachable through this path; paid and paymentDate stay under the
// control of CreatePayment and MarkPaid.
func (s *PaymentService) UpdatePayment(ctx context.Context, id uuid.UUID, request domain.UpdatePaymentRequest) error {
	if violations := validation.ValidateUpdate(request); !violations.Empty() {
		return &ValidationError{Fields: violations}
	}

	patch, err := request.ToPatch()
	if err != nil {
		return &ValidationError{Fields: validation.Violations{
			"dueDate": "invalid date format, use YYYY-MM-DD",
		}}
	}

	if err := s.paymentRepo.Update(ctx, id, patch); err != nil {
		return err
	}

	log.Printf("Payment updated: ID=%s", id)
	s.publishEvent(events.PaymentUpdatedEvent, id, nil)

	return nil
}

// DeletePayment removes the record by identifier.
func (s *PaymentService) DeletePayment(ctx context.Context, id uuid.UUID) error {
	if err := s.paymentRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("Payment deleted: ID=%s", id)
	s.publishEvent(events.PaymentDeletedEvent, id, nil)

	return nil
}

// HealthCheck pings the backing store.
func (s *PaymentService) HealthCheck(ctx context.Context) error {
	return s.paymentRepo.Ping(ctx)
}

// publishEvent is best-effort: the event feed is auxiliary to the CRUD
// surface, so a broker failure is logged and never fails the request.
func (s *PaymentService) publishEvent(eventType events.PaymentEventType, paymentID uuid.UUID, payload interface{}) {
	if s.publisher == nil {
		return
	}

	event := events.PaymentEvent{
		ID:        uuid.New(),
		EventType: eventType,
		PaymentID: paymentID,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	if err := s.publisher.PublishPaymentEvent(event); err != nil {
		log.Printf("Event publish error (%s): %v", eventType, err)
	}
}
