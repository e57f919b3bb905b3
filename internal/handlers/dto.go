package handlers

import (
	"time"

	"github.com/lTzHorus/Carne/internal/domain"
)

// PaymentResponse is the listing representation: dueDate as a plain calendar
// date, paymentDate null until the record is marked paid.
type PaymentResponse struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Value       float64    `json:"value"`
	DueDate     string     `json:"dueDate"`
	Payer       string     `json:"payer"`
	Paid        bool       `json:"paid"`
	PaymentDate *time.Time `json:"paymentDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func mapPayments(payments []*domain.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i, payment := range payments {
		responses[i] = PaymentResponse{
			ID:          payment.ID.String(),
			Description: payment.Description,
			Value:       payment.Value,
			DueDate:     payment.DueDate.Format(domain.DueDateLayout),
			Payer:       payment.Payer,
			Paid:        payment.Paid,
			PaymentDate: payment.PaymentDate,
			CreatedAt:   payment.CreatedAt,
			UpdatedAt:   payment.UpdatedAt,
		}
	}
	return responses
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
