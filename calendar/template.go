/*
template.go - Capture and replay week templates

PURPOSE:
  A template freezes the shape of a week (weekday + wall-clock times per
  shift) without concrete dates, so a good roster can be stamped onto any
  future week. Replay is additive and conflict-safe: slots already filled
  are skipped, not overwritten.
*/
package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/warp/roster-engine/wage"
)

// ReplayResult summarizes what a template application did.
type ReplayResult struct {
	Created          int `json:"created"`
	SkippedDuplicate int `json:"skippedDuplicate"`
	SkippedInvalid   int `json:"skippedInvalid"`
}

// CaptureTemplate records the given week's shifts as a named template.
func (e *Engine) CaptureTemplate(ctx context.Context, store wage.TemplateStore, name string, week wage.Week) (*wage.ShiftTemplate, error) {
	shifts, err := e.weekShifts(ctx, week)
	if err != nil {
		return nil, err
	}

	tpl := wage.ShiftTemplate{
		ID:        wage.TemplateID("tpl-" + string(newShiftID())[6:]),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	for _, s := range shifts {
		tpl.Items = append(tpl.Items, wage.TemplateItem{
			DayOfWeek:        e.cal.DateOf(s.StartAt).Weekday(),
			SectionID:        s.SectionID,
			StaffID:          s.StaffID,
			StartClock:       e.cal.ClockOf(s.StartAt),
			EndClock:         e.cal.ClockOf(s.EndAt),
			NonBillableHours: s.NonBillableHours,
			Notes:            s.Notes,
		})
	}

	if err := store.SaveTemplate(ctx, tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// ReplayTemplate stamps a template onto the week starting at targetMonday.
// Items landing on a slot that already has a shift with the same date,
// section and start clock are skipped as duplicates; items whose end does
// not fall after their start are skipped as invalid. Created shifts are
// inserted as one atomic batch.
func (e *Engine) ReplayTemplate(ctx context.Context, store wage.TemplateStore, id wage.TemplateID, targetMonday wage.Date) (ReplayResult, error) {
	var result ReplayResult

	tpl, err := store.GetTemplate(ctx, id)
	if err != nil {
		return result, err
	}
	if tpl == nil {
		return result, fmt.Errorf("replay %s: %w", id, wage.ErrTemplateNotFound)
	}

	week := wage.WeekOf(targetMonday)
	existing, err := e.weekShifts(ctx, week)
	if err != nil {
		return result, err
	}

	occupied := make(map[string]bool, len(existing))
	for _, s := range existing {
		occupied[slotKey(e.cal.DateOf(s.StartAt), s.SectionID, e.cal.ClockOf(s.StartAt))] = true
	}

	var created []wage.Shift
	for _, item := range tpl.Items {
		offset := (int(item.DayOfWeek) - int(time.Monday) + 7) % 7
		date := week.Start.AddDays(offset)

		start, err := e.cal.At(date, item.StartClock)
		if err != nil {
			result.SkippedInvalid++
			continue
		}
		end, err := e.cal.At(date, item.EndClock)
		if err != nil || !end.After(start) {
			result.SkippedInvalid++
			continue
		}

		key := slotKey(date, item.SectionID, item.StartClock)
		if occupied[key] {
			result.SkippedDuplicate++
			continue
		}
		occupied[key] = true

		created = append(created, wage.Shift{
			ID:               newShiftID(),
			StaffID:          item.StaffID,
			SectionID:        item.SectionID,
			StartAt:          start,
			EndAt:            end,
			NonBillableHours: item.NonBillableHours,
			Notes:            item.Notes,
		})
	}

	if len(created) > 0 {
		if err := e.shifts.InsertShifts(ctx, created); err != nil {
			return ReplayResult{}, err
		}
	}
	result.Created = len(created)
	return result, nil
}

func slotKey(date wage.Date, section wage.SectionID, startClock string) string {
	return date.String() + "|" + string(section) + "|" + startClock
}
