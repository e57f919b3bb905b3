package domain

import "time"

// StatusFilter is the derived classification a listing can be narrowed to.
// It is computed from paid and dueDate, never stored.
type StatusFilter string

const (
	StatusAll     StatusFilter = ""
	StatusPaid    StatusFilter = "paid"
	StatusPending StatusFilter = "pending"
	StatusOverdue StatusFilter = "overdue"
)

// ParseStatusFilter maps a raw query value to a filter. Unrecognized values
// select all records rather than failing the request.
func ParseStatusFilter(raw string) StatusFilter {
	switch StatusFilter(raw) {
	case StatusPaid, StatusPending, StatusOverdue:
		return StatusFilter(raw)
	default:
		return StatusAll
	}
}

// Matches reports whether the payment belongs to the filtered set at the
// given instant.
func (f StatusFilter) Matches(p *Payment, now time.Time) bool {
	switch f {
	case StatusPaid:
		return p.Paid
	case StatusPending:
		return !p.Paid && !p.DueDate.Before(now)
	case StatusOverdue:
		return !p.Paid && p.DueDate.Before(now)
	default:
		return true
	}
}
