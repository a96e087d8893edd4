package formguard

import (
	"errors"
	"fmt"
	"strings"
)

// Rule codes. They double as catalog keys under "rules." and "fields.<field>.".
const (
	CodeRequired     = "required"
	CodeEmail        = "email"
	CodePhone        = "phone"
	CodeNationalID   = "national_id"
	CodePassport     = "passport"
	CodeBloodGroup   = "blood_group"
	CodePassword     = "password"
	CodeConfirm      = "confirm"
	CodeMinLength    = "min_length"
	CodeMaxLength    = "max_length"
	CodeMinAge       = "min_age"
	CodeMaxAge       = "max_age"
	CodeFutureDate   = "future_date"
	CodePastDate     = "past_date"
	CodeDateRange    = "date_range"
	CodeInvalidDate  = "invalid_date"
	CodeNumber       = "number"
	CodeMin          = "min"
	CodeMax          = "max"
	CodeMinDaysSince = "min_days_since"
	CodeOneOf        = "oneof"
	CodeInvalid      = "invalid"
)

var (
	// ErrNilRule is returned when a schema is built with a nil rule.
	ErrNilRule = errors.New("formguard: nil rule")

	// ErrDuplicateField is returned when a schema names the same field twice.
	ErrDuplicateField = errors.New("formguard: duplicate field")

	// ErrUnknownDirective is returned when a directive string names no known rule.
	ErrUnknownDirective = errors.New("formguard: unknown directive")

	// ErrUnknownPreset is returned by Preset for names that are not registered.
	ErrUnknownPreset = errors.New("formguard: unknown preset")
)

// ValidationError aggregates field-level validation failures.
type ValidationError struct {
	FieldErrors []FieldError
}

// Error formats validation errors as a multi-line message.
func (e *ValidationError) Error() string {
	if len(e.FieldErrors) == 0 {
		return "validation failed: no errors"
	}

	var b strings.Builder
	if len(e.FieldErrors) == 1 {
		b.WriteString("validation failed: 1 error\n")
	} else {
		fmt.Fprintf(&b, "validation failed: %d errors\n", len(e.FieldErrors))
	}

	for _, fe := range e.FieldErrors {
		fmt.Fprintf(&b, "  - %s: %s\n", fe.Field, fe.Message)
	}

	return strings.TrimRight(b.String(), "\n")
}

// FieldError represents a single field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
