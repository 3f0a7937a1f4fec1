/*
Package wage provides the core roster and wage computation engine.

PURPOSE:
  This package contains the pure domain model and algorithms for turning
  rostered shifts into wage figures: per-date base rate resolution, capped
  payment-method allocation, and report aggregation. There is no I/O here;
  persistence lives behind the interfaces in store.go.

KEY CONCEPTS IN THIS FILE (types.go):
  - Staff / StaffRate: who works and what they earn per day type
  - PaymentInstruction: priority-ordered, optionally capped wage routing
  - PublicHoliday: date-keyed markup rules (percentage or flat amount)
  - Shift / Section: rostered work and the calendar columns it sits in
  - WagePayment: an immutable sealed record of a paid week
  - Date / Week: business-timezone calendar arithmetic

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for every hours/rate/amount value.
     Rounding to 2dp happens only when a report row is built.
  2. Immutability: sealed WagePayments are never updated or deleted.
  3. Determinism: the same inputs always produce the same report.

SEE ALSO:
  - rate.go: base rate resolution with holiday markup
  - allocate.go: capped allocation across payment instructions
  - aggregate.go: report construction over a date range
  - store.go: persistence interfaces
*/
package wage

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type StaffID string
type ShiftID string
type SectionID string
type InstructionID string
type TemplateID string
type PaymentID string

// =============================================================================
// STAFF AND RATES
// =============================================================================

type Staff struct {
	ID    StaffID `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`

	// AppliesPublicHolidayRules gates holiday markup per staff member.
	// Staff who opted out are paid the plain day rate on holidays.
	AppliesPublicHolidayRules bool `json:"appliesPublicHolidayRules"`
}

// RateType selects which day of the week a rate row applies to.
// RateDefault is the fallback when no day-specific row matches.
type RateType string

const (
	RateDefault   RateType = "default"
	RateMonday    RateType = "monday"
	RateTuesday   RateType = "tuesday"
	RateWednesday RateType = "wednesday"
	RateThursday  RateType = "thursday"
	RateFriday    RateType = "friday"
	RateSaturday  RateType = "saturday"
	RateSunday    RateType = "sunday"
)

// RateTypeFor maps a weekday to its day-specific rate type.
func RateTypeFor(wd time.Weekday) RateType {
	switch wd {
	case time.Monday:
		return RateMonday
	case time.Tuesday:
		return RateTuesday
	case time.Wednesday:
		return RateWednesday
	case time.Thursday:
		return RateThursday
	case time.Friday:
		return RateFriday
	case time.Saturday:
		return RateSaturday
	default:
		return RateSunday
	}
}

// StaffRate is one row of a staff member's rate history. A rate applies to a
// date when EffectiveDate <= date and (EndDate is zero or date <= EndDate).
type StaffRate struct {
	ID            string          `json:"id"`
	StaffID       StaffID         `json:"staffId"`
	RateType      RateType        `json:"rateType"`
	Rate          decimal.Decimal `json:"rate"`
	EffectiveDate Date            `json:"effectiveDate"`
	EndDate       Date            `json:"endDate,omitempty"`
	IsCurrent     bool            `json:"isCurrent"`
}

// AppliesOn reports whether this rate row covers the given date.
func (r StaffRate) AppliesOn(d Date) bool {
	if d.Before(r.EffectiveDate) {
		return false
	}
	if !r.EndDate.IsZero() && d.After(r.EndDate) {
		return false
	}
	return true
}

// =============================================================================
// PAYMENT INSTRUCTIONS
// =============================================================================

// PaymentMethodCash receives whatever hours remain after every capped
// instruction has been satisfied, at the plain base rate.
const PaymentMethodCash = "Cash"

// PaymentInstruction routes a capped number of weekly hours to a payment
// method at base rate plus an adjustment. Lower Priority wins hours first.
type PaymentInstruction struct {
	ID                InstructionID    `json:"id"`
	StaffID           StaffID          `json:"staffId"`
	Label             string           `json:"label"`
	AdjustmentPerHour decimal.Decimal  `json:"adjustmentPerHour"`
	WeeklyHoursCap    *decimal.Decimal `json:"weeklyHoursCap,omitempty"`
	PaymentMethod     string           `json:"paymentMethod"`
	Priority          int              `json:"priority"`
	Active            bool             `json:"active"`
}

// =============================================================================
// PUBLIC HOLIDAYS
// =============================================================================

// PublicHoliday marks up the base rate on a single calendar date.
// A positive MarkupPercentage replaces the rate (rate * pct / 100);
// otherwise a positive MarkupAmount is added on top. Percentage wins
// when both are set. Inactive holidays are ignored entirely.
type PublicHoliday struct {
	ID               string          `json:"id"`
	Date             Date            `json:"date"`
	Name             string          `json:"name"`
	MarkupPercentage decimal.Decimal `json:"markupPercentage"`
	MarkupAmount     decimal.Decimal `json:"markupAmount"`
	Active           bool            `json:"active"`
}

// =============================================================================
// SHIFTS AND SECTIONS
// =============================================================================

// Shift is one rostered block of work. StaffID may be empty for an open
// shift that has not been assigned yet. StartAt/EndAt are instants; the
// calendar date a shift belongs to is its StartAt in the business timezone.
type Shift struct {
	ID               ShiftID         `json:"id"`
	StaffID          StaffID         `json:"staffId,omitempty"`
	SectionID        SectionID       `json:"sectionId,omitempty"`
	StartAt          time.Time       `json:"startAt"`
	EndAt            time.Time       `json:"endAt"`
	NonBillableHours decimal.Decimal `json:"nonBillableHours"`
	Notes            string          `json:"notes,omitempty"`
}

// Assigned reports whether the shift has a staff member.
func (s Shift) Assigned() bool { return s.StaffID != "" }

// RawHours is the full span of the shift in hours, exact to the minute.
func (s Shift) RawHours() decimal.Decimal {
	minutes := int64(s.EndAt.Sub(s.StartAt) / time.Minute)
	return decimal.NewFromInt(minutes).Div(decimal.NewFromInt(60))
}

// BillableHours is the raw span minus non-billable time, clamped at zero.
func (s Shift) BillableHours() decimal.Decimal {
	h := s.RawHours().Sub(s.NonBillableHours)
	if h.IsNegative() {
		return decimal.Zero
	}
	return h
}

// Section is a read-only roster column (e.g. "Bar", "Floor", "Kitchen").
type Section struct {
	ID       SectionID `json:"id"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	Position int       `json:"position"`
}

// =============================================================================
// SHIFT TEMPLATES
// =============================================================================

// TemplateItem is one shift pattern inside a template: a weekday plus
// wall-clock times, detached from any concrete date.
type TemplateItem struct {
	DayOfWeek        time.Weekday    `json:"dayOfWeek"`
	SectionID        SectionID       `json:"sectionId,omitempty"`
	StaffID          StaffID         `json:"staffId,omitempty"`
	StartClock       string          `json:"startClock"`
	EndClock         string          `json:"endClock"`
	NonBillableHours decimal.Decimal `json:"nonBillableHours"`
	Notes            string          `json:"notes,omitempty"`
}

// ShiftTemplate is a reusable week pattern captured from a live roster.
type ShiftTemplate struct {
	ID        TemplateID     `json:"id"`
	Name      string         `json:"name"`
	Items     []TemplateItem `json:"items"`
	CreatedAt time.Time      `json:"createdAt"`
}

// =============================================================================
// WAGE PAYMENTS
// =============================================================================

// WagePayment is an immutable record that a staff member's week has been
// paid. At most one exists per (StaffID, WeekStart, WeekEnd); the snapshot
// carries everything needed to reproduce the figures even if rates,
// instructions or shifts change afterwards.
type WagePayment struct {
	ID         PaymentID       `json:"id"`
	StaffID    StaffID         `json:"staffId"`
	WeekStart  Date            `json:"weekStart"`
	WeekEnd    Date            `json:"weekEnd"`
	TotalHours decimal.Decimal `json:"totalHours"`
	TotalWages decimal.Decimal `json:"totalWages"`
	PaidAt     time.Time       `json:"paidAt"`
	Snapshot   PaymentSnapshot `json:"snapshot"`
}

// PaymentSnapshot freezes the inputs and outputs of a sealed week.
type PaymentSnapshot struct {
	Staff        Staff                `json:"staff"`
	Summary      ReportRow            `json:"summary"`
	Rates        []StaffRate          `json:"rates"`
	Instructions []PaymentInstruction `json:"instructions"`
	Holidays     []PublicHoliday      `json:"holidays"`
}
