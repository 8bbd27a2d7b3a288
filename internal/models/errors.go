package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/go-backoffice/validation"
)

// ValidationError rejects a write that breaks a field constraint.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, f := range e.Violations.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Violations[f]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Invalid wraps a single field violation.
func Invalid(field, code string) error {
	return &ValidationError{Violations: validation.Violations{field: code}}
}

// AsValidation unwraps err into its violations, if it is a ValidationError.
func AsValidation(err error) (validation.Violations, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Violations, true
	}
	return nil, false
}

func check(v validation.Violations) error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Violations: v}
}
