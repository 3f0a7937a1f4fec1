/*
aggregate.go - Wage report construction over a date range

PURPOSE:
  Walks every staff member's shifts in a local-date range and produces the
  figures the payment report, the wages grid and the sealing flow all share:
  per-shift allocation lines, per-method subtotals, per-day totals and grand
  totals.

PRECISION:
  Accumulation is full-precision decimal. Rounding to 2 decimal places
  happens once, when a row's presentation totals are built. Per-method rate
  is wages divided by hours (zero when no hours).

WEEK HANDLING:
  Weekly instruction caps are threaded per (staff, Monday-anchored week)
  across shifts sorted by start time, so a range spanning several weeks
  resets caps at each Monday.
*/
package wage

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// REPORT TYPES
// =============================================================================

// MethodSubtotal is one payment method's share of a staff member's row.
type MethodSubtotal struct {
	Method string          `json:"method"`
	Hours  decimal.Decimal `json:"hours"`
	Wages  decimal.Decimal `json:"wages"`
	Rate   decimal.Decimal `json:"rate"`
}

// ShiftLine is the per-shift detail behind a report row.
type ShiftLine struct {
	ShiftID       ShiftID          `json:"shiftId"`
	Date          Date             `json:"date"`
	StartClock    string           `json:"startClock"`
	EndClock      string           `json:"endClock"`
	BillableHours decimal.Decimal  `json:"billableHours"`
	BaseRate      decimal.Decimal  `json:"baseRate"`
	HolidayName   string           `json:"holidayName,omitempty"`
	Lines         []AllocationLine `json:"lines"`
}

// DayTotal is one cell of the per-day wages grid.
type DayTotal struct {
	Date  Date            `json:"date"`
	Hours decimal.Decimal `json:"hours"`
	Wages decimal.Decimal `json:"wages"`
}

// ReportRow is one staff member's aggregated figures for the range.
// Totals are rounded to 2dp; shift lines keep full precision.
type ReportRow struct {
	Staff      Staff            `json:"staff"`
	TotalHours decimal.Decimal  `json:"totalHours"`
	TotalWages decimal.Decimal  `json:"totalWages"`
	Methods    []MethodSubtotal `json:"methods"`
	Shifts     []ShiftLine      `json:"shifts"`
	Days       []DayTotal       `json:"days"`
}

// Report is the full wage report for a local-date range.
type Report struct {
	From       Date            `json:"from"`
	To         Date            `json:"to"`
	Rows       []ReportRow     `json:"rows"`
	TotalHours decimal.Decimal `json:"totalHours"`
	TotalWages decimal.Decimal `json:"totalWages"`
}

// ReportInput carries everything the aggregator reads. Shifts may include
// unassigned or out-of-range entries; the aggregator filters.
type ReportInput struct {
	Staff        []Staff
	Rates        map[StaffID][]StaffRate
	Instructions map[StaffID][]PaymentInstruction
	Holidays     []PublicHoliday
	Shifts       []Shift
}

// =============================================================================
// AGGREGATOR
// =============================================================================

// Aggregator builds wage reports on the business calendar.
type Aggregator struct {
	cal *BusinessCalendar
}

func NewAggregator(cal *BusinessCalendar) *Aggregator {
	return &Aggregator{cal: cal}
}

// AggregateRange builds the report for the inclusive local-date range
// [from, to]. Staff order follows the input; staff with no shifts in range
// still get a zero row so the report always lists everyone.
func (a *Aggregator) AggregateRange(in ReportInput, from, to Date) (Report, error) {
	if to.Before(from) {
		return Report{}, ErrInvalidRange
	}

	byStaff := make(map[StaffID][]Shift)
	for _, s := range in.Shifts {
		if !s.Assigned() {
			continue
		}
		byStaff[s.StaffID] = append(byStaff[s.StaffID], s)
	}

	report := Report{From: from, To: to}
	totalHours := decimal.Zero
	totalWages := decimal.Zero

	for _, staff := range in.Staff {
		row := a.buildRow(staff, byStaff[staff.ID], in, from, to)
		totalHours = totalHours.Add(row.TotalHours)
		totalWages = totalWages.Add(row.TotalWages)
		report.Rows = append(report.Rows, row)
	}

	report.TotalHours = totalHours.Round(2)
	report.TotalWages = totalWages.Round(2)
	return report, nil
}

func (a *Aggregator) buildRow(staff Staff, shifts []Shift, in ReportInput, from, to Date) ReportRow {
	sort.Slice(shifts, func(i, j int) bool {
		return shifts[i].StartAt.Before(shifts[j].StartAt)
	})

	rates := in.Rates[staff.ID]
	instructions := in.Instructions[staff.ID]

	// Weekly caps, keyed by each shift's Monday.
	caps := make(map[Date]RunningCaps)

	row := ReportRow{Staff: staff}
	hours := decimal.Zero
	wages := decimal.Zero

	methodOrder := []string{}
	methodHours := make(map[string]decimal.Decimal)
	methodWages := make(map[string]decimal.Decimal)

	dayOrder := []Date{}
	dayHours := make(map[Date]decimal.Decimal)
	dayWages := make(map[Date]decimal.Decimal)

	for _, shift := range shifts {
		date := a.cal.DateOf(shift.StartAt)
		if !date.Within(from, to) {
			continue
		}

		monday := WeekOf(date).Start
		weekCaps, ok := caps[monday]
		if !ok {
			weekCaps = NewRunningCaps(instructions)
			caps[monday] = weekCaps
		}

		billable := shift.BillableHours()
		baseRate := ResolveBaseRate(staff, rates, in.Holidays, date)
		lines := Allocate(billable, baseRate, instructions, weekCaps)

		shiftWages := decimal.Zero
		for _, line := range lines {
			shiftWages = shiftWages.Add(line.Amount)
			if _, seen := methodHours[line.Method]; !seen {
				methodOrder = append(methodOrder, line.Method)
			}
			methodHours[line.Method] = methodHours[line.Method].Add(line.Hours)
			methodWages[line.Method] = methodWages[line.Method].Add(line.Amount)
		}

		hours = hours.Add(billable)
		wages = wages.Add(shiftWages)

		if _, seen := dayHours[date]; !seen {
			dayOrder = append(dayOrder, date)
		}
		dayHours[date] = dayHours[date].Add(billable)
		dayWages[date] = dayWages[date].Add(shiftWages)

		row.Shifts = append(row.Shifts, ShiftLine{
			ShiftID:       shift.ID,
			Date:          date,
			StartClock:    a.cal.ClockOf(shift.StartAt),
			EndClock:      a.cal.ClockOf(shift.EndAt),
			BillableHours: billable,
			BaseRate:      baseRate,
			HolidayName:   holidayNameFor(staff, in.Holidays, date),
			Lines:         lines,
		})
	}

	row.TotalHours = hours.Round(2)
	row.TotalWages = wages.Round(2)

	for _, method := range methodOrder {
		mh := methodHours[method]
		mw := methodWages[method]
		rate := decimal.Zero
		if mh.IsPositive() {
			rate = mw.Div(mh).Round(2)
		}
		row.Methods = append(row.Methods, MethodSubtotal{
			Method: method,
			Hours:  mh.Round(2),
			Wages:  mw.Round(2),
			Rate:   rate,
		})
	}

	for _, date := range dayOrder {
		row.Days = append(row.Days, DayTotal{
			Date:  date,
			Hours: dayHours[date].Round(2),
			Wages: dayWages[date].Round(2),
		})
	}

	return row
}

func holidayNameFor(staff Staff, holidays []PublicHoliday, date Date) string {
	if !staff.AppliesPublicHolidayRules {
		return ""
	}
	return HolidayNameOn(holidays, date)
}
