package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DueDateLayout is the wire format for due dates.
const DueDateLayout = "2006-01-02"

// ErrNotFound is returned when an identifier resolves to no payment, or when
// a mutation matched zero records.
var ErrNotFound = errors.New("payment not found")

type Payment struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Description string     `json:"description" db:"description"`
	Value       float64    `json:"value" db:"value"`
	DueDate     time.Time  `json:"dueDate" db:"due_date"`
	Payer       string     `json:"payer" db:"payer"`
	Paid        bool       `json:"paid" db:"paid"`
	PaymentDate *time.Time `json:"paymentDate" db:"payment_date"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// NewPayment builds an unpaid payment with a fresh identifier.
func NewPayment(description string, value float64, dueDate time.Time, payer string) *Payment {
	now := time.Now()

	return &Payment{
		ID:          uuid.New(),
		Description: description,
		Value:       value,
		DueDate:     dueDate,
		Payer:       payer,
		Paid:        false,
		PaymentDate: nil,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// MarkPaid transitions an unpaid payment to paid at the given time.
func (p *Payment) MarkPaid(at time.Time) {
	p.Paid = true
	p.PaymentDate = &at
	p.UpdatedAt = at
}

// IsOverdue reports whether the payment is unpaid and past its due date.
func (p *Payment) IsOverdue(now time.Time) bool {
	return !p.Paid && p.DueDate.Before(now)
}
