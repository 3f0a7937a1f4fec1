package payroll_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roster-engine/payroll"
	"github.com/warp/roster-engine/store/memory"
	"github.com/warp/roster-engine/wage"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var melbourne = wage.MustBusinessCalendar(wage.DefaultTimezone)

var (
	saturday = wage.NewDate(2025, time.March, 8)
	payWeek  = wage.WeekOf(saturday)
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestSealer(t *testing.T) (*payroll.Sealer, *memory.Store) {
	t.Helper()
	store := memory.New()

	bookingCap := dec("4")
	store.AddStaff(
		wage.Staff{ID: "staff-1", Name: "Avery", AppliesPublicHolidayRules: true},
		[]wage.StaffRate{
			{ID: "r1", StaffID: "staff-1", RateType: wage.RateDefault, Rate: dec("20"), EffectiveDate: wage.NewDate(2025, time.January, 1), IsCurrent: true},
			{ID: "r2", StaffID: "staff-1", RateType: wage.RateSaturday, Rate: dec("25"), EffectiveDate: wage.NewDate(2025, time.January, 1), IsCurrent: true},
		},
		[]wage.PaymentInstruction{
			{ID: "i1", StaffID: "staff-1", Label: "Booking", PaymentMethod: "Booking", AdjustmentPerHour: dec("2"), WeeklyHoursCap: &bookingCap, Priority: 1, Active: true},
		},
	)
	store.AddHoliday(wage.PublicHoliday{
		ID: "h1", Date: saturday, Name: "Test Day",
		MarkupPercentage: dec("150"), Active: true,
	})

	start, err := melbourne.At(saturday, "09:00")
	require.NoError(t, err)
	end, err := melbourne.At(saturday, "17:00")
	require.NoError(t, err)
	require.NoError(t, store.SaveShift(context.Background(), wage.Shift{
		ID: "s1", StaffID: "staff-1", SectionID: "bar",
		StartAt: start, EndAt: end,
		NonBillableHours: dec("0.5"),
	}))

	return payroll.NewSealer(store, melbourne), store
}

// =============================================================================
// SEALING
// =============================================================================

func TestSeal_RecordsSnapshotWithTotals(t *testing.T) {
	// GIVEN: A computed week worth $289.25 over 7.5 hours
	// WHEN: Sealing it
	// THEN: The payment freezes totals, shifts, rates, instructions, holidays

	sealer, _ := newTestSealer(t)
	ctx := context.Background()

	payment, err := sealer.Seal(ctx, "staff-1", payWeek)
	require.NoError(t, err)

	assert.True(t, dec("7.5").Equal(payment.TotalHours), "hours %s", payment.TotalHours)
	assert.True(t, dec("289.25").Equal(payment.TotalWages), "wages %s", payment.TotalWages)
	assert.True(t, payment.WeekStart.Equal(payWeek.Start))
	assert.True(t, payment.WeekEnd.Equal(payWeek.End()))
	assert.False(t, payment.PaidAt.IsZero())

	snap := payment.Snapshot
	assert.Equal(t, wage.StaffID("staff-1"), snap.Staff.ID)
	require.Len(t, snap.Summary.Shifts, 1)
	assert.Equal(t, "Test Day", snap.Summary.Shifts[0].HolidayName)
	assert.Len(t, snap.Rates, 2)
	assert.Len(t, snap.Instructions, 1)
	assert.Len(t, snap.Holidays, 1)
}

func TestSeal_SecondSealFailsWithAlreadyPaid(t *testing.T) {
	// GIVEN: A sealed week
	// WHEN: Sealing the same staff and week again
	// THEN: AlreadyPaidError naming the existing payment

	sealer, _ := newTestSealer(t)
	ctx := context.Background()

	first, err := sealer.Seal(ctx, "staff-1", payWeek)
	require.NoError(t, err)

	_, err = sealer.Seal(ctx, "staff-1", payWeek)
	require.Error(t, err)

	var paidErr *wage.AlreadyPaidError
	require.ErrorAs(t, err, &paidErr)
	assert.Equal(t, first.ID, paidErr.PaymentID)
	assert.ErrorIs(t, err, wage.ErrAlreadyPaid)
}

func TestSeal_SnapshotSurvivesLaterDataChanges(t *testing.T) {
	// GIVEN: A sealed week
	// WHEN: The live shift is deleted afterwards
	// THEN: The stored payment still carries the original figures

	sealer, store := newTestSealer(t)
	ctx := context.Background()

	payment, err := sealer.Seal(ctx, "staff-1", payWeek)
	require.NoError(t, err)
	require.NoError(t, store.DeleteShift(ctx, "s1"))

	stored, err := sealer.Get(ctx, "staff-1", payWeek)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, payment.TotalWages.Equal(stored.TotalWages))
	assert.Len(t, stored.Snapshot.Summary.Shifts, 1)
}

func TestSeal_OtherWeekAndOtherStaffUnaffected(t *testing.T) {
	// GIVEN: A sealed week for staff-1
	// WHEN: Sealing the next week, and another staff member's same week
	// THEN: Both succeed

	sealer, store := newTestSealer(t)
	ctx := context.Background()

	store.AddStaff(wage.Staff{ID: "staff-2", Name: "Blake"}, nil, nil)

	_, err := sealer.Seal(ctx, "staff-1", payWeek)
	require.NoError(t, err)

	_, err = sealer.Seal(ctx, "staff-1", payWeek.Next())
	assert.NoError(t, err, "next week is a different slot")

	_, err = sealer.Seal(ctx, "staff-2", payWeek)
	assert.NoError(t, err, "different staff is a different slot")
}

func TestSeal_EmptyWeekSealsAtZero(t *testing.T) {
	// GIVEN: A staff member with no shifts in the week
	// WHEN: Sealing
	// THEN: A zero-hour, zero-wage payment is recorded

	sealer, store := newTestSealer(t)
	ctx := context.Background()
	store.AddStaff(wage.Staff{ID: "staff-2", Name: "Blake"}, nil, nil)

	payment, err := sealer.Seal(ctx, "staff-2", payWeek)
	require.NoError(t, err)
	assert.True(t, payment.TotalHours.IsZero())
	assert.True(t, payment.TotalWages.IsZero())
}

func TestSeal_UnknownStaff(t *testing.T) {
	sealer, _ := newTestSealer(t)

	_, err := sealer.Seal(context.Background(), "nobody", payWeek)
	assert.ErrorIs(t, err, wage.ErrStaffNotFound)
}

// =============================================================================
// LISTING
// =============================================================================

func TestList_ReturnsPaymentsByWeekStart(t *testing.T) {
	sealer, _ := newTestSealer(t)
	ctx := context.Background()

	_, err := sealer.Seal(ctx, "staff-1", payWeek)
	require.NoError(t, err)
	_, err = sealer.Seal(ctx, "staff-1", payWeek.Next())
	require.NoError(t, err)

	payments, err := sealer.List(ctx, payWeek.Start, payWeek.Start)
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	payments, err = sealer.List(ctx, payWeek.Start, payWeek.Next().Start)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}

func TestList_InvalidRange(t *testing.T) {
	sealer, _ := newTestSealer(t)

	_, err := sealer.List(context.Background(), payWeek.Start, payWeek.Start.AddDays(-1))
	assert.ErrorIs(t, err, wage.ErrInvalidRange)
}
