// Package validation accumulates field-level violations for payment payloads
// instead of failing on the first bad field.
package validation

import (
	"strings"
	"time"

	"github.com/lTzHorus/Carne/internal/domain"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators

func Required(field string, value *string, v Violations) {
	if value == nil || strings.TrimSpace(*value) == "" {
		v[field] = "is required"
	}
}

func NotBlank(field string, value *string, v Violations) {
	if value != nil && strings.TrimSpace(*value) == "" {
		v[field] = "must not be empty"
	}
}

func Positive(field string, value *float64, v Violations) {
	if value != nil && *value <= 0 {
		v[field] = "must be greater than zero"
	}
}

func ISODate(field string, value *string, v Violations) {
	if value == nil {
		return
	}
	if _, err := time.Parse(domain.DueDateLayout, *value); err != nil {
		v[field] = "invalid date format, use YYYY-MM-DD"
	}
}

// ValidateCreate checks a full-create payload: every business field is
// required and must pass its individual rule.
func ValidateCreate(req domain.CreatePaymentRequest) Violations {
	v := Violations{}

	Required("description", req.Description, v)
	Required("payer", req.Payer, v)

	if req.Value == nil {
		v["value"] = "is required"
	} else {
		Positive("value", req.Value, v)
	}

	if req.DueDate == nil {
		v["dueDate"] = "is required"
	} else {
		ISODate("dueDate", req.DueDate, v)
	}

	return v
}

// ValidateUpdate checks a partial payload: nothing is required, but any field
// that is present must pass its rule.
func ValidateUpdate(req domain.UpdatePaymentRequest) Violations {
	v := Violations{}

	NotBlank("description", req.Description, v)
	NotBlank("payer", req.Payer, v)
	Positive("value", req.Value, v)
	ISODate("dueDate", req.DueDate, v)

	return v
}
