package calendar

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Kinds
// =============================================================================

// ErrOutOfRange is returned when a date, ordinal, or field value falls
// outside the supported calendar span or outside the field's domain.
var ErrOutOfRange = errors.New("out of range")

// ErrFormatMismatch is returned when input text does not match a format
// layout, or when the layout never captures a required field.
var ErrFormatMismatch = errors.New("format mismatch")

// ErrUnparseable is returned when no auto-detected date shape both matched
// and validated.
var ErrUnparseable = errors.New("unparseable input")

// ErrAlreadyInitialized is returned by Install once the process-wide
// calendar has been set up.
var ErrAlreadyInitialized = errors.New("calendar already initialized")

// RangeError describes a rejected field value. It matches ErrOutOfRange
// with errors.Is.
type RangeError struct {
	Op    string // operation that rejected the value, e.g. "ToOrdinal"
	Field string // "year", "month", "day", "ordinal", ...
	Value int
	Min   int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %s %d out of range [%d, %d]", e.Op, e.Field, e.Value, e.Min, e.Max)
}

// Unwrap returns ErrOutOfRange.
func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

// IsOutOfRange reports whether err is an out-of-range error.
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}

func rangeErr(op, field string, value, min, max int) error {
	return &RangeError{Op: op, Field: field, Value: value, Min: min, Max: max}
}
