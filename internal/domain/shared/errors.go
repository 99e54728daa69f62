// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation    = errors.New("validation error")
	ErrInvalidID     = errors.New("invalid ID")
	ErrInvalidInput  = errors.New("invalid input")
	ErrEmptyValue    = errors.New("value cannot be empty")
	ErrInvalidFormat = errors.New("invalid format")

	// Filter errors. A malformed filter must be rejected before any store
	// access happens (empty weekday set, inverted date interval).
	ErrInvalidFilter = errors.New("invalid filter state")

	// Ledger errors. A write conflict means the transactional day replace
	// could not complete atomically; the caller must retry the whole commit.
	ErrWriteConflict = errors.New("ledger write conflict")

	// Reference errors
	ErrUnknownStudent = errors.New("unknown student reference")

	// External service errors. Store failures are propagated untouched:
	// the core never retries silently, since masking a partial ledger write
	// would break the one-record-per-day invariant.
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrTimeout          = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "attendance", "student", "report"
	Op      string // Operation that failed, e.g., "CommitDay", "BuildMonthly"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Student domain errors
var (
	ErrStudentNotFound      = NewDomainError("student", "Find", ErrNotFound, "student not found")
	ErrStudentAlreadyExists = NewDomainError("student", "Create", ErrAlreadyExists, "student already exists")
	ErrStudentNameRequired  = NewDomainError("student", "Validate", ErrEmptyValue, "student name is required")
	ErrInvalidStudentID     = NewDomainError("student", "Validate", ErrInvalidID, "invalid student ID format")
)

// Attendance domain errors
var (
	ErrInvalidStatus  = NewDomainError("attendance", "Validate", ErrInvalidInput, "invalid attendance status")
	ErrInvalidDay     = NewDomainError("attendance", "Validate", ErrInvalidFormat, "invalid calendar day")
	ErrDayReplaceRace = NewDomainError("attendance", "ReplaceDay", ErrWriteConflict, "day replace could not complete atomically")
	ErrEmptyRoster    = NewDomainError("attendance", "CommitDay", ErrInvalidInput, "roster is empty")
)

// Report domain errors
var (
	ErrEmptyWeekdaySet  = NewDomainError("report", "Validate", ErrInvalidFilter, "weekday set cannot be empty")
	ErrInvalidDateRange = NewDomainError("report", "Validate", ErrInvalidFilter, "date range start is after its end")
)

// IsRetryableForCaller reports whether the caller should be offered a retry
// affordance for this error (write conflicts and store outages), as opposed
// to a correction prompt (validation and filter errors).
func IsRetryableForCaller(err error) bool {
	return errors.Is(err, ErrWriteConflict) || errors.Is(err, ErrStoreUnavailable)
}
