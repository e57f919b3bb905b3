package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lTzHorus/Carne/internal/domain"
)

// MemoryPaymentRepository is a map-backed PaymentRepository with the same
// zero-rows semantics as the Postgres implementation. Used as the test
// substitute for the real store.
type MemoryPaymentRepository struct {
	mu       sync.RWMutex
	payments map[uuid.UUID]*domain.Payment
}

func NewMemoryPaymentRepository() *MemoryPaymentRepository {
	return &MemoryPaymentRepository{
		payments: make(map[uuid.UUID]*domain.Payment),
	}
}

func (r *MemoryPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *payment
	r.payments[payment.ID] = &stored
	return nil
}

func (r *MemoryPaymentRepository) List(ctx context.Context, filter domain.StatusFilter) ([]*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now()
	var payments []*domain.Payment
	for _, p := range r.payments {
		if filter.Matches(p, now) {
			copied := *p
			payments = append(payments, &copied)
		}
	}

	sort.Slice(payments, func(i, j int) bool {
		return payments[i].DueDate.Before(payments[j].DueDate)
	})

	return payments, nil
}

func (r *MemoryPaymentRepository) MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	payment, ok := r.payments[id]
	if !ok || payment.Paid {
		return domain.ErrNotFound
	}

	payment.MarkPaid(at)
	return nil
}

func (r *MemoryPaymentRepository) Update(ctx context.Context, id uuid.UUID, patch domain.PaymentPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	payment, ok := r.payments[id]
	if !ok {
		return domain.ErrNotFound
	}

	patch.Apply(payment, time.Now())
	return nil
}

func (r *MemoryPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.payments[id]; !ok {
		return domain.ErrNotFound
	}

	delete(r.payments, id)
	return nil
}

func (r *MemoryPaymentRepository) Ping(ctx context.Context) error {
	return nil
}

// Get returns a copy of the stored record. Test helper; the HTTP surface has
// no single-record read.
func (r *MemoryPaymentRepository) Get(id uuid.UUID) (*domain.Payment, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payment, ok := r.payments[id]
	if !ok {
		return nil, false
	}
	copied := *payment
	return &copied, true
}
