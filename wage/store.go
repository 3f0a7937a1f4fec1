/*
store.go - Persistence interfaces for the wage engine

PURPOSE:
  The engine consumes these interfaces and never touches a database
  directly. Two implementations exist: store/memory for tests and dev, and
  store/sqlite for real persistence.

INSERT-IF-ABSENT:
  InsertPayment is the one operation that must be transactional: at most
  one WagePayment per (staff, week start, week end). Implementations return
  an error wrapping ErrAlreadyPaid when the slot is taken; the loser of a
  race sees the same error as a plain retry.

SEE ALSO:
  - ../store/memory/memory.go: in-memory implementation
  - ../store/sqlite/sqlite.go: SQLite implementation
*/
package wage

import (
	"context"
	"time"
)

// StaffDirectory provides staff members and their pay configuration.
type StaffDirectory interface {
	ListStaff(ctx context.Context) ([]Staff, error)
	GetStaff(ctx context.Context, id StaffID) (*Staff, error)

	// RatesFor returns the full rate history for a staff member.
	RatesFor(ctx context.Context, id StaffID) ([]StaffRate, error)

	// InstructionsFor returns all payment instructions for a staff member,
	// active or not. The allocation engine filters on Active itself.
	InstructionsFor(ctx context.Context, id StaffID) ([]PaymentInstruction, error)
}

// HolidayStore provides public holidays by date range.
type HolidayStore interface {
	// HolidaysInRange returns holidays with dates in [from, to] inclusive,
	// including inactive ones.
	HolidaysInRange(ctx context.Context, from, to Date) ([]PublicHoliday, error)
}

// SectionStore provides the read-only roster sections.
type SectionStore interface {
	ListSections(ctx context.Context) ([]Section, error)
}

// ShiftStore persists shifts. Range queries filter on StartAt instants;
// callers derive the bounds from local dates via BusinessCalendar.
type ShiftStore interface {
	GetShift(ctx context.Context, id ShiftID) (*Shift, error)
	SaveShift(ctx context.Context, s Shift) error
	DeleteShift(ctx context.Context, id ShiftID) error

	// InsertShifts inserts a batch atomically: all or nothing.
	InsertShifts(ctx context.Context, shifts []Shift) error

	// ShiftsBetween returns shifts with start >= from and start < to,
	// ordered by start time.
	ShiftsBetween(ctx context.Context, from, to time.Time) ([]Shift, error)

	// ShiftsBySection is ShiftsBetween narrowed to one roster section.
	ShiftsBySection(ctx context.Context, section SectionID, from, to time.Time) ([]Shift, error)
}

// TemplateStore persists reusable week templates.
type TemplateStore interface {
	SaveTemplate(ctx context.Context, t ShiftTemplate) error
	GetTemplate(ctx context.Context, id TemplateID) (*ShiftTemplate, error)
	ListTemplates(ctx context.Context) ([]ShiftTemplate, error)
	DeleteTemplate(ctx context.Context, id TemplateID) error
}

// WagePaymentStore persists sealed wage payments. Payments are append-only;
// there is no update or delete.
type WagePaymentStore interface {
	// InsertPayment stores a payment unless one already exists for the same
	// (staff, week start, week end), in which case it returns an error
	// wrapping ErrAlreadyPaid and leaves the existing record untouched.
	InsertPayment(ctx context.Context, p WagePayment) error

	GetPayment(ctx context.Context, staffID StaffID, week Week) (*WagePayment, error)

	// PaymentsInRange returns payments whose week start falls in [from, to].
	PaymentsInRange(ctx context.Context, from, to Date) ([]WagePayment, error)
}

// Store is the full persistence surface the server wires up.
type Store interface {
	StaffDirectory
	HolidayStore
	SectionStore
	ShiftStore
	TemplateStore
	WagePaymentStore
}
