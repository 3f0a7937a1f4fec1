/*
Package calendar provides roster manipulation on top of the wage engine's
shift model.

PURPOSE:
  Implements the drag-drop calendar operations: moving a shift to another
  day or section, cloning it into a new slot, capturing and replaying week
  templates, and auto-copying last week's roster forward. All date logic
  runs on the business calendar so a shift dragged to "Tuesday" lands on
  the venue's Tuesday, not UTC's.

CONFLICT POLICY:
  Duplicate and invalid slots are expected conditions. Replay and auto-copy
  skip them and report counts; nothing errors for a conflict.

SEE ALSO:
  - engine.go: move and clone
  - template.go: capture and replay week templates
  - autocopy.go: two-phase copy-forward of the previous week
*/
package calendar

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/warp/roster-engine/wage"
)

// Engine executes roster operations against a shift store.
type Engine struct {
	shifts wage.ShiftStore
	cal    *wage.BusinessCalendar
}

func NewEngine(shifts wage.ShiftStore, cal *wage.BusinessCalendar) *Engine {
	return &Engine{shifts: shifts, cal: cal}
}

// newShiftID returns a random shift identifier.
func newShiftID() wage.ShiftID {
	b := make([]byte, 8)
	rand.Read(b)
	return wage.ShiftID("shift-" + hex.EncodeToString(b))
}

// =============================================================================
// MOVE
// =============================================================================

// Move relocates a shift to a target section and local date. The shift
// keeps its local wall-clock start and its duration; dropping a 09:00-17:00
// shift on another day yields 09:00-17:00 on that day even across DST.
// Moving to the slot it already occupies is a no-op.
func (e *Engine) Move(ctx context.Context, id wage.ShiftID, targetSection wage.SectionID, targetDate wage.Date) (*wage.Shift, error) {
	shift, err := e.shifts.GetShift(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, fmt.Errorf("move %s: %w", id, wage.ErrShiftNotFound)
	}

	currentDate := e.cal.DateOf(shift.StartAt)
	if currentDate.Equal(targetDate) && shift.SectionID == targetSection {
		return shift, nil
	}

	duration := shift.EndAt.Sub(shift.StartAt)
	start, err := e.cal.At(targetDate, e.cal.ClockOf(shift.StartAt))
	if err != nil {
		return nil, err
	}

	moved := *shift
	moved.SectionID = targetSection
	moved.StartAt = start
	moved.EndAt = start.Add(duration)

	if err := e.shifts.SaveShift(ctx, moved); err != nil {
		return nil, err
	}
	return &moved, nil
}

// =============================================================================
// CLONE
// =============================================================================

// Clone copies a shift into a target section on a different local date,
// preserving clock times and duration. The source shift is untouched.
// Cloning onto the shift's own date is a no-op and returns nil: the caller
// asked for a copy that already exists.
func (e *Engine) Clone(ctx context.Context, id wage.ShiftID, targetSection wage.SectionID, targetDate wage.Date) (*wage.Shift, error) {
	shift, err := e.shifts.GetShift(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, fmt.Errorf("clone %s: %w", id, wage.ErrShiftNotFound)
	}

	if e.cal.DateOf(shift.StartAt).Equal(targetDate) {
		return nil, nil
	}

	duration := shift.EndAt.Sub(shift.StartAt)
	start, err := e.cal.At(targetDate, e.cal.ClockOf(shift.StartAt))
	if err != nil {
		return nil, err
	}

	clone := *shift
	clone.ID = newShiftID()
	clone.SectionID = targetSection
	clone.StartAt = start
	clone.EndAt = start.Add(duration)

	if err := e.shifts.SaveShift(ctx, clone); err != nil {
		return nil, err
	}
	return &clone, nil
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// weekShifts loads every shift in a local week.
func (e *Engine) weekShifts(ctx context.Context, week wage.Week) ([]wage.Shift, error) {
	from, to := e.cal.RangeBounds(week.Start, week.End())
	return e.shifts.ShiftsBetween(ctx, from, to)
}
