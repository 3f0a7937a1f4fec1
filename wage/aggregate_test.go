package wage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roster-engine/wage"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var melbourne = wage.MustBusinessCalendar(wage.DefaultTimezone)

// shiftAt builds a shift from a local date and "HH:MM" clocks in Melbourne.
func shiftAt(t *testing.T, id string, staffID wage.StaffID, date wage.Date, startClock, endClock, nonBillable string) wage.Shift {
	t.Helper()
	start, err := melbourne.At(date, startClock)
	require.NoError(t, err)
	end, err := melbourne.At(date, endClock)
	require.NoError(t, err)
	return wage.Shift{
		ID:               wage.ShiftID(id),
		StaffID:          staffID,
		SectionID:        "bar",
		StartAt:          start,
		EndAt:            end,
		NonBillableHours: dec(nonBillable),
	}
}

// =============================================================================
// THE SATURDAY HOLIDAY CASE
// =============================================================================

func TestAggregateRange_SaturdayHolidayWithCappedInstruction(t *testing.T) {
	// GIVEN: Default $20, Saturday $25, a 150% holiday on a Saturday,
	//        an 8h shift with 0.5h non-billable, and one instruction
	//        capped at 4h with +$2 to Booking
	// WHEN: Aggregating that week
	// THEN: 7.5 billable hours split 4h @ $39.50 Booking + 3.5h @ $37.50 Cash
	//       for a total of $289.25

	agg := wage.NewAggregator(melbourne)

	in := wage.ReportInput{
		Staff: []wage.Staff{optedIn},
		Rates: map[wage.StaffID][]wage.StaffRate{
			optedIn.ID: {
				rateRow(wage.RateDefault, "20", jan1),
				rateRow(wage.RateSaturday, "25", jan1),
			},
		},
		Instructions: map[wage.StaffID][]wage.PaymentInstruction{
			optedIn.ID: {instruction("i1", "Booking", "Booking", "2", capHours("4"), 1)},
		},
		Holidays: []wage.PublicHoliday{holidayOn(saturday, "Test Day", "150", "0")},
		Shifts: []wage.Shift{
			shiftAt(t, "s1", optedIn.ID, saturday, "09:00", "17:00", "0.5"),
		},
	}

	week := wage.WeekOf(saturday)
	report, err := agg.AggregateRange(in, week.Start, week.End())
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	assert.True(t, dec("7.5").Equal(row.TotalHours), "hours %s", row.TotalHours)
	assert.True(t, dec("289.25").Equal(row.TotalWages), "wages %s", row.TotalWages)

	require.Len(t, row.Methods, 2)
	assert.Equal(t, "Booking", row.Methods[0].Method)
	assert.True(t, dec("158").Equal(row.Methods[0].Wages))
	assert.True(t, dec("39.5").Equal(row.Methods[0].Rate))
	assert.Equal(t, wage.PaymentMethodCash, row.Methods[1].Method)
	assert.True(t, dec("131.25").Equal(row.Methods[1].Wages))

	require.Len(t, row.Shifts, 1)
	assert.Equal(t, "Test Day", row.Shifts[0].HolidayName)
	assert.True(t, dec("37.5").Equal(row.Shifts[0].BaseRate))

	assert.True(t, dec("289.25").Equal(report.TotalWages))
}

// =============================================================================
// RANGE AND TIMEZONE FILTERING
// =============================================================================

func TestAggregateRange_FiltersOnLocalDateNotUTC(t *testing.T) {
	// GIVEN: An early-morning Melbourne shift whose UTC instant is the prior day
	// WHEN: Aggregating the local date of the shift
	// THEN: The shift counts, proving filtering uses the business timezone

	agg := wage.NewAggregator(melbourne)

	// 01:00-02:00 local on Monday is still Sunday in UTC (UTC+11 in March).
	shift := shiftAt(t, "s1", optedIn.ID, monday, "01:00", "02:00", "0")
	require.True(t, shift.StartAt.UTC().Day() != monday.Time.Day(),
		"test premise: UTC date must differ from local date")

	in := wage.ReportInput{
		Staff: []wage.Staff{optedIn},
		Rates: map[wage.StaffID][]wage.StaffRate{
			optedIn.ID: {rateRow(wage.RateDefault, "20", jan1)},
		},
		Shifts: []wage.Shift{shift},
	}

	report, err := agg.AggregateRange(in, monday, monday)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.True(t, dec("1").Equal(report.Rows[0].TotalHours))
}

func TestAggregateRange_ShiftOutsideRangeExcluded(t *testing.T) {
	// GIVEN: A shift the day after the range ends
	// WHEN: Aggregating
	// THEN: Zero hours

	agg := wage.NewAggregator(melbourne)

	in := wage.ReportInput{
		Staff: []wage.Staff{optedIn},
		Rates: map[wage.StaffID][]wage.StaffRate{
			optedIn.ID: {rateRow(wage.RateDefault, "20", jan1)},
		},
		Shifts: []wage.Shift{
			shiftAt(t, "s1", optedIn.ID, monday.AddDays(1), "09:00", "12:00", "0"),
		},
	}

	report, err := agg.AggregateRange(in, monday, monday)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.True(t, report.Rows[0].TotalHours.IsZero())
	assert.Empty(t, report.Rows[0].Shifts)
}

func TestAggregateRange_EndBeforeStartRejected(t *testing.T) {
	agg := wage.NewAggregator(melbourne)

	_, err := agg.AggregateRange(wage.ReportInput{}, monday, monday.AddDays(-1))
	assert.ErrorIs(t, err, wage.ErrInvalidRange)
}

func TestAggregateRange_UnassignedShiftsIgnored(t *testing.T) {
	// GIVEN: An open shift with no staff member
	// WHEN: Aggregating
	// THEN: It contributes to nobody

	agg := wage.NewAggregator(melbourne)

	open := shiftAt(t, "s1", "", monday, "09:00", "17:00", "0")
	in := wage.ReportInput{
		Staff:  []wage.Staff{optedIn},
		Shifts: []wage.Shift{open},
	}

	report, err := agg.AggregateRange(in, monday, monday)
	require.NoError(t, err)
	assert.True(t, report.TotalHours.IsZero())
}

// =============================================================================
// WEEKLY CAP THREADING
// =============================================================================

func TestAggregateRange_CapsSharedWithinWeekResetAcrossWeeks(t *testing.T) {
	// GIVEN: A 4h cap and 3h shifts on Monday, Tuesday and the next Monday
	// WHEN: Aggregating both weeks
	// THEN: Week one splits 3h + 1h/2h, week two gets a fresh 3h on the cap

	agg := wage.NewAggregator(melbourne)

	nextMonday := monday.AddDays(7)
	in := wage.ReportInput{
		Staff: []wage.Staff{optedIn},
		Rates: map[wage.StaffID][]wage.StaffRate{
			optedIn.ID: {rateRow(wage.RateDefault, "20", jan1)},
		},
		Instructions: map[wage.StaffID][]wage.PaymentInstruction{
			optedIn.ID: {instruction("i1", "Booking", "Booking", "0", capHours("4"), 1)},
		},
		Shifts: []wage.Shift{
			shiftAt(t, "mon", optedIn.ID, monday, "09:00", "12:00", "0"),
			shiftAt(t, "tue", optedIn.ID, monday.AddDays(1), "09:00", "12:00", "0"),
			shiftAt(t, "mon2", optedIn.ID, nextMonday, "09:00", "12:00", "0"),
		},
	}

	report, err := agg.AggregateRange(in, monday, nextMonday)
	require.NoError(t, err)
	row := report.Rows[0]
	require.Len(t, row.Shifts, 3)

	// Monday: full 3h on the instruction.
	require.Len(t, row.Shifts[0].Lines, 1)
	assert.True(t, dec("3").Equal(row.Shifts[0].Lines[0].Hours))

	// Tuesday: 1h left on the cap, 2h to Cash.
	require.Len(t, row.Shifts[1].Lines, 2)
	assert.True(t, dec("1").Equal(row.Shifts[1].Lines[0].Hours))
	assert.Equal(t, wage.PaymentMethodCash, row.Shifts[1].Lines[1].Method)

	// Next Monday: fresh caps, full 3h on the instruction again.
	require.Len(t, row.Shifts[2].Lines, 1)
	assert.Equal(t, "Booking", row.Shifts[2].Lines[0].Method)
	assert.True(t, dec("3").Equal(row.Shifts[2].Lines[0].Hours))
}

// =============================================================================
// PRESENTATION TOTALS
// =============================================================================

func TestAggregateRange_MethodRateIsWagesOverHours(t *testing.T) {
	// GIVEN: Two shifts at different base rates feeding the same method
	// WHEN: Aggregating
	// THEN: The method rate is blended wages / hours

	agg := wage.NewAggregator(melbourne)

	in := wage.ReportInput{
		Staff: []wage.Staff{optedIn},
		Rates: map[wage.StaffID][]wage.StaffRate{
			optedIn.ID: {
				rateRow(wage.RateDefault, "20", jan1),
				rateRow(wage.RateSaturday, "30", jan1),
			},
		},
		Shifts: []wage.Shift{
			shiftAt(t, "fri", optedIn.ID, saturday.AddDays(-1), "09:00", "11:00", "0"),
			shiftAt(t, "sat", optedIn.ID, saturday, "09:00", "11:00", "0"),
		},
	}

	week := wage.WeekOf(saturday)
	report, err := agg.AggregateRange(in, week.Start, week.End())
	require.NoError(t, err)

	row := report.Rows[0]
	require.Len(t, row.Methods, 1)
	// (2*20 + 2*30) / 4 = 25
	assert.True(t, dec("25").Equal(row.Methods[0].Rate), "got %s", row.Methods[0].Rate)
	assert.True(t, dec("100").Equal(row.TotalWages))

	require.Len(t, row.Days, 2)
	assert.True(t, dec("40").Equal(row.Days[0].Wages))
	assert.True(t, dec("60").Equal(row.Days[1].Wages))
}
