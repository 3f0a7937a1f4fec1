/*
autocopy.go - Copy-forward of the previous week's roster

PURPOSE:
  Builds next week's roster from the week before in two phases: Preview
  computes exactly what would be created (so a manager can eyeball the plan)
  and Commit inserts that plan as one batch. Only assigned shifts are
  copied; a day+section slot that already has a shift in the target week is
  left alone.
*/
package calendar

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/warp/roster-engine/wage"
)

// StaffHours is one staff member's share of a copy plan.
type StaffHours struct {
	StaffID wage.StaffID    `json:"staffId"`
	Shifts  int             `json:"shifts"`
	Hours   decimal.Decimal `json:"hours"`
}

// CopyPlan is the previewed outcome of copying a week forward.
type CopyPlan struct {
	TargetWeek      wage.Week    `json:"targetWeek"`
	Shifts          []wage.Shift `json:"shifts"`
	SkippedConflict int          `json:"skippedConflict"`
	SkippedInvalid  int          `json:"skippedInvalid"`
	Staff           []StaffHours `json:"staff"`
}

// AutoCopyPreview plans copying the week before targetWeek into targetWeek.
// Nothing is written; the returned plan feeds AutoCopyCommit.
func (e *Engine) AutoCopyPreview(ctx context.Context, targetWeek wage.Week) (*CopyPlan, error) {
	source, err := e.weekShifts(ctx, targetWeek.Prev())
	if err != nil {
		return nil, err
	}
	existing, err := e.weekShifts(ctx, targetWeek)
	if err != nil {
		return nil, err
	}

	occupied := make(map[string]bool, len(existing))
	for _, s := range existing {
		occupied[dayKey(e.cal.DateOf(s.StartAt), s.SectionID)] = true
	}

	plan := &CopyPlan{TargetWeek: targetWeek}

	staffOrder := []wage.StaffID{}
	staffShifts := make(map[wage.StaffID]int)
	staffHours := make(map[wage.StaffID]decimal.Decimal)

	for _, s := range source {
		if !s.Assigned() {
			continue
		}

		date := e.cal.DateOf(s.StartAt).AddDays(7)
		start, err := e.cal.At(date, e.cal.ClockOf(s.StartAt))
		if err != nil {
			plan.SkippedInvalid++
			continue
		}
		end := start.Add(s.EndAt.Sub(s.StartAt))
		if !end.After(start) {
			plan.SkippedInvalid++
			continue
		}

		key := dayKey(date, s.SectionID)
		if occupied[key] {
			plan.SkippedConflict++
			continue
		}
		occupied[key] = true

		next := s
		next.ID = newShiftID()
		next.StartAt = start
		next.EndAt = end
		plan.Shifts = append(plan.Shifts, next)

		if _, seen := staffShifts[next.StaffID]; !seen {
			staffOrder = append(staffOrder, next.StaffID)
		}
		staffShifts[next.StaffID]++
		staffHours[next.StaffID] = staffHours[next.StaffID].Add(next.BillableHours())
	}

	for _, id := range staffOrder {
		plan.Staff = append(plan.Staff, StaffHours{
			StaffID: id,
			Shifts:  staffShifts[id],
			Hours:   staffHours[id],
		})
	}
	return plan, nil
}

// AutoCopyCommit inserts a previewed plan as one atomic batch.
func (e *Engine) AutoCopyCommit(ctx context.Context, plan *CopyPlan) error {
	if plan == nil || len(plan.Shifts) == 0 {
		return nil
	}
	return e.shifts.InsertShifts(ctx, plan.Shifts)
}

func dayKey(date wage.Date, section wage.SectionID) string {
	return date.String() + "|" + string(section)
}
