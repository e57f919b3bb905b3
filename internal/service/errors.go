package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lTzHorus/Carne/internal/validation"
)

// ValidationError carries the accumulated field violations of a rejected
// payload. Handlers surface Fields as the details object of a 400 response.
type ValidationError struct {
	Fields validation.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}
