package domain

import (
	"fmt"
	"time"
)

// CreatePaymentRequest is the wire payload for adding a payment. Fields are
// pointers so a missing field can be told apart from a zero value.
type CreatePaymentRequest struct {
	Description *string  `json:"description"`
	Value       *float64 `json:"value"`
	DueDate     *string  `json:"dueDate"`
	Payer       *string  `json:"payer"`
}

// UpdatePaymentRequest is the wire payload for a partial update. Only these
// four fields are mutable through the generic update path; id, paid and
// paymentDate have no representation here and are silently dropped from any
// incoming body.
type UpdatePaymentRequest struct {
	Description *string  `json:"description"`
	Value       *float64 `json:"value"`
	DueDate     *string  `json:"dueDate"`
	Payer       *string  `json:"payer"`
}

// Empty reports whether the request carries no mutable field at all.
func (r UpdatePaymentRequest) Empty() bool {
	return r.Description == nil && r.Value == nil && r.DueDate == nil && r.Payer == nil
}

// PaymentPatch is the typed form of an update request, ready to apply to a
// stored record.
type PaymentPatch struct {
	Description *string
	Value       *float64
	DueDate     *time.Time
	Payer       *string
}

// ToPatch converts the wire request into a typed patch. The request must have
// passed validation first; a malformed dueDate still returns an error instead
// of panicking.
func (r UpdatePaymentRequest) ToPatch() (PaymentPatch, error) {
	patch := PaymentPatch{
		Description: r.Description,
		Value:       r.Value,
		Payer:       r.Payer,
	}

	if r.DueDate != nil {
		dueDate, err := time.Parse(DueDateLayout, *r.DueDate)
		if err != nil {
			return PaymentPatch{}, fmt.Errorf("invalid due date %q: %v", *r.DueDate, err)
		}
		patch.DueDate = &dueDate
	}

	return patch, nil
}

// Apply copies the present fields onto the payment and refreshes updatedAt.
// updatedAt moves even when the patch is empty.
func (p PaymentPatch) Apply(payment *Payment, now time.Time) {
	if p.Description != nil {
		payment.Description = *p.Description
	}
	if p.Value != nil {
		payment.Value = *p.Value
	}
	if p.DueDate != nil {
		payment.DueDate = *p.DueDate
	}
	if p.Payer != nil {
		payment.Payer = *p.Payer
	}
	payment.UpdatedAt = now
}
