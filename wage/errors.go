/*
errors.go - Centralized error types for the wage engine

PURPOSE:
  All error types in one place. Expected business conditions (week already
  paid, end-before-start windows, conflicting slots) are sentinel errors or
  per-item skip counts, never panics.

SEE ALSO:
  - store.go: stores translate constraint violations into these errors
  - ../payroll/sealer.go: wraps ErrAlreadyPaid with week context
*/
package wage

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrAlreadyPaid is returned when sealing a week that already has a
	// wage payment for the staff member. The existing record wins.
	ErrAlreadyPaid = errors.New("week already paid")

	// ErrShiftNotFound is returned when a referenced shift doesn't exist.
	ErrShiftNotFound = errors.New("shift not found")

	// ErrStaffNotFound is returned when a referenced staff member doesn't exist.
	ErrStaffNotFound = errors.New("staff not found")

	// ErrTemplateNotFound is returned when a referenced template doesn't exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidRange is returned when a date range ends before it starts.
	ErrInvalidRange = errors.New("invalid range: end before start")

	// ErrInvalidClock is returned for wall-clock strings not in HH:MM form.
	ErrInvalidClock = errors.New("invalid clock time")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// AlreadyPaidError reports which sealed week blocked a duplicate seal.
type AlreadyPaidError struct {
	StaffID   StaffID
	WeekStart Date
	WeekEnd   Date
	PaymentID PaymentID
}

func (e *AlreadyPaidError) Error() string {
	return fmt.Sprintf("wages already paid for %s week %s to %s (payment: %s)",
		e.StaffID, e.WeekStart, e.WeekEnd, e.PaymentID)
}

func (e *AlreadyPaidError) Unwrap() error {
	return ErrAlreadyPaid
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsConflict returns true if the error is an expected duplicate/conflict
// condition a client should surface rather than retry.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyPaid)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrShiftNotFound) ||
		errors.Is(err, ErrStaffNotFound) ||
		errors.Is(err, ErrTemplateNotFound)
}
