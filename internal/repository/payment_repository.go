package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/lTzHorus/Carne/internal/domain"
)

// PaymentRepository is the store boundary. Handlers and the service layer
// only ever see this interface, so tests can substitute the in-memory
// implementation.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	List(ctx context.Context, filter domain.StatusFilter) ([]*domain.Payment, error)
	MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) error
	Update(ctx context.Context, id uuid.UUID, patch domain.PaymentPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}

type PostgresPaymentRepository struct {
	db *sql.DB
}

func NewPostgresPaymentRepository(db *sql.DB) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{db: db}
}

func (r *PostgresPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (
			id, description, value, due_date, payer,
			paid, payment_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		payment.ID,
		payment.Description,
		payment.Value,
		payment.DueDate,
		payment.Payer,
		payment.Paid,
		payment.PaymentDate,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("payment create error: %v", err)
	}

	return nil
}

// List returns payments matching the status filter, nearest due date first.
// The dueDate ordering is part of the listing contract.
func (r *PostgresPaymentRepository) List(ctx context.Context, filter domain.StatusFilter) ([]*domain.Payment, error) {
	query := `
		SELECT id, description, value, due_date, payer,
			   paid, payment_date, created_at, updated_at
		FROM payments
	`

	var args []interface{}
	switch filter {
	case domain.StatusPaid:
		query += " WHERE paid = TRUE"
	case domain.StatusPending:
		query += " WHERE paid = FALSE AND due_date >= $1"
		args = append(args, time.Now())
	case domain.StatusOverdue:
		query += " WHERE paid = FALSE AND due_date < $1"
		args = append(args, time.Now())
	}
	query += " ORDER BY due_date ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("payments list error: %v", err)
	}
	defer rows.Close()

	var payments []*domain.Payment

	for rows.Next() {
		payment := &domain.Payment{}
		var paymentDate sql.NullTime

		err := rows.Scan(
			&payment.ID,
			&payment.Description,
			&payment.Value,
			&payment.DueDate,
			&payment.Payer,
			&payment.Paid,
			&paymentDate,
			&payment.CreatedAt,
			&payment.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("payment scan error: %v", err)
		}

		if paymentDate.Valid {
			payment.PaymentDate = &paymentDate.Time
		}

		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("payments list error: %v", err)
	}

	return payments, nil
}

// MarkPaid flips an unpaid payment to paid. The paid = FALSE guard makes a
// second call match zero rows, so a missing record and an already-paid record
// are reported identically as ErrNotFound.
func (r *PostgresPaymentRepository) MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE payments
		SET paid = TRUE, payment_date = $2, updated_at = $2
		WHERE id = $1 AND paid = FALSE
	`

	result, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("payment mark paid error: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Update applies the present patch fields. updated_at is always written, so
// zero rows affected means the identifier did not resolve.
func (r *PostgresPaymentRepository) Update(ctx context.Context, id uuid.UUID, patch domain.PaymentPatch) error {
	set := []string{}
	args := []interface{}{id}
	next := 2

	appendSet := func(column string, value interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", column, next))
		args = append(args, value)
		next++
	}

	if patch.Description != nil {
		appendSet("description", *patch.Description)
	}
	if patch.Value != nil {
		appendSet("value", *patch.Value)
	}
	if patch.DueDate != nil {
		appendSet("due_date", *patch.DueDate)
	}
	if patch.Payer != nil {
		appendSet("payer", *patch.Payer)
	}
	appendSet("updated_at", time.Now())

	query := "UPDATE payments SET " + strings.Join(set, ", ") + " WHERE id = $1"

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("payment update error: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *PostgresPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM payments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("payment delete error: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *PostgresPaymentRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
