/*
Package payroll seals computed weeks into immutable wage payments.

PURPOSE:
  "Mark as paid" for one staff member and one Monday-anchored week. The
  sealer recomputes the week through the same aggregator the report uses,
  freezes every input alongside the figures, and inserts the record with
  insert-if-absent semantics. A week can be sealed exactly once; there is
  no unseal.

RACE SAFETY:
  The pre-check on an existing payment gives a fast AlreadyPaidError, but
  the store's uniqueness guarantee is what actually decides a race: the
  loser's insert fails with the same error.
*/
package payroll

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/warp/roster-engine/wage"
)

// Sealer computes and persists wage payments.
type Sealer struct {
	staff    wage.StaffDirectory
	holidays wage.HolidayStore
	shifts   wage.ShiftStore
	payments wage.WagePaymentStore
	agg      *wage.Aggregator
	cal      *wage.BusinessCalendar

	now func() time.Time
}

func NewSealer(store wage.Store, cal *wage.BusinessCalendar) *Sealer {
	return &Sealer{
		staff:    store,
		holidays: store,
		shifts:   store,
		payments: store,
		agg:      wage.NewAggregator(cal),
		cal:      cal,
		now:      time.Now,
	}
}

func newPaymentID() wage.PaymentID {
	b := make([]byte, 8)
	rand.Read(b)
	return wage.PaymentID("pay-" + hex.EncodeToString(b))
}

// Seal computes the staff member's week and records it as paid. Returns
// AlreadyPaidError if the week is already sealed.
func (s *Sealer) Seal(ctx context.Context, staffID wage.StaffID, week wage.Week) (*wage.WagePayment, error) {
	staff, err := s.staff.GetStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, fmt.Errorf("seal %s: %w", staffID, wage.ErrStaffNotFound)
	}

	if existing, err := s.payments.GetPayment(ctx, staffID, week); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, &wage.AlreadyPaidError{
			StaffID:   staffID,
			WeekStart: week.Start,
			WeekEnd:   week.End(),
			PaymentID: existing.ID,
		}
	}

	row, inputs, err := s.computeWeek(ctx, *staff, week)
	if err != nil {
		return nil, err
	}

	payment := wage.WagePayment{
		ID:         newPaymentID(),
		StaffID:    staffID,
		WeekStart:  week.Start,
		WeekEnd:    week.End(),
		TotalHours: row.TotalHours,
		TotalWages: row.TotalWages,
		PaidAt:     s.now().UTC(),
		Snapshot: wage.PaymentSnapshot{
			Staff:        *staff,
			Summary:      row,
			Rates:        inputs.Rates[staffID],
			Instructions: inputs.Instructions[staffID],
			Holidays:     inputs.Holidays,
		},
	}

	if err := s.payments.InsertPayment(ctx, payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// Get returns the sealed payment for a staff member's week, or nil.
func (s *Sealer) Get(ctx context.Context, staffID wage.StaffID, week wage.Week) (*wage.WagePayment, error) {
	return s.payments.GetPayment(ctx, staffID, week)
}

// List returns sealed payments whose week starts in [from, to].
func (s *Sealer) List(ctx context.Context, from, to wage.Date) ([]wage.WagePayment, error) {
	if to.Before(from) {
		return nil, wage.ErrInvalidRange
	}
	return s.payments.PaymentsInRange(ctx, from, to)
}

// computeWeek runs the aggregator for a single staff member's week.
func (s *Sealer) computeWeek(ctx context.Context, staff wage.Staff, week wage.Week) (wage.ReportRow, wage.ReportInput, error) {
	rates, err := s.staff.RatesFor(ctx, staff.ID)
	if err != nil {
		return wage.ReportRow{}, wage.ReportInput{}, err
	}
	instructions, err := s.staff.InstructionsFor(ctx, staff.ID)
	if err != nil {
		return wage.ReportRow{}, wage.ReportInput{}, err
	}
	holidays, err := s.holidays.HolidaysInRange(ctx, week.Start, week.End())
	if err != nil {
		return wage.ReportRow{}, wage.ReportInput{}, err
	}
	from, to := s.cal.RangeBounds(week.Start, week.End())
	shifts, err := s.shifts.ShiftsBetween(ctx, from, to)
	if err != nil {
		return wage.ReportRow{}, wage.ReportInput{}, err
	}

	staffShifts := shifts[:0:0]
	for _, sh := range shifts {
		if sh.StaffID == staff.ID {
			staffShifts = append(staffShifts, sh)
		}
	}

	in := wage.ReportInput{
		Staff:        []wage.Staff{staff},
		Rates:        map[wage.StaffID][]wage.StaffRate{staff.ID: rates},
		Instructions: map[wage.StaffID][]wage.PaymentInstruction{staff.ID: instructions},
		Holidays:     holidays,
		Shifts:       staffShifts,
	}

	report, err := s.agg.AggregateRange(in, week.Start, week.End())
	if err != nil {
		return wage.ReportRow{}, wage.ReportInput{}, err
	}
	return report.Rows[0], in, nil
}
