package calendar_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roster-engine/calendar"
	"github.com/warp/roster-engine/store/memory"
	"github.com/warp/roster-engine/wage"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var melbourne = wage.MustBusinessCalendar(wage.DefaultTimezone)

var monday = wage.NewDate(2025, time.March, 10)

func newTestEngine(t *testing.T) (*calendar.Engine, *memory.Store) {
	t.Helper()
	store := memory.New()
	return calendar.NewEngine(store, melbourne), store
}

func seedShift(t *testing.T, store *memory.Store, id string, staffID wage.StaffID, section wage.SectionID, date wage.Date, startClock, endClock string) wage.Shift {
	t.Helper()
	start, err := melbourne.At(date, startClock)
	require.NoError(t, err)
	end, err := melbourne.At(date, endClock)
	require.NoError(t, err)

	shift := wage.Shift{
		ID:        wage.ShiftID(id),
		StaffID:   staffID,
		SectionID: section,
		StartAt:   start,
		EndAt:     end,
	}
	require.NoError(t, store.SaveShift(context.Background(), shift))
	return shift
}

// =============================================================================
// MOVE
// =============================================================================

func TestMove_PreservesClockAndDuration(t *testing.T) {
	// GIVEN: A 09:00-17:00 shift on Monday in the bar
	// WHEN: Moving it to Wednesday in the kitchen
	// THEN: It runs 09:00-17:00 on Wednesday, duration intact

	engine, store := newTestEngine(t)
	ctx := context.Background()
	seedShift(t, store, "s1", "staff-1", "bar", monday, "09:00", "17:00")

	wednesday := monday.AddDays(2)
	moved, err := engine.Move(ctx, "s1", "kitchen", wednesday)
	require.NoError(t, err)

	assert.Equal(t, wage.SectionID("kitchen"), moved.SectionID)
	assert.True(t, melbourne.DateOf(moved.StartAt).Equal(wednesday))
	assert.Equal(t, "09:00", melbourne.ClockOf(moved.StartAt))
	assert.Equal(t, 8*time.Hour, moved.EndAt.Sub(moved.StartAt))
}

func TestMove_SameSlotIsNoOp(t *testing.T) {
	// GIVEN: A shift already in the target slot
	// WHEN: Moving it onto itself
	// THEN: Nothing changes

	engine, store := newTestEngine(t)
	ctx := context.Background()
	original := seedShift(t, store, "s1", "staff-1", "bar", monday, "09:00", "17:00")

	moved, err := engine.Move(ctx, "s1", "bar", monday)
	require.NoError(t, err)
	assert.Equal(t, original.StartAt, moved.StartAt)
	assert.Equal(t, original.SectionID, moved.SectionID)
}

func TestMove_SectionOnlyKeepsTimes(t *testing.T) {
	// GIVEN: A shift in the bar
	// WHEN: Moving to another section on the same day
	// THEN: Section changes, times do not

	engine, store := newTestEngine(t)
	ctx := context.Background()
	original := seedShift(t, store, "s1", "staff-1", "bar", monday, "09:00", "17:00")

	moved, err := engine.Move(ctx, "s1", "floor", monday)
	require.NoError(t, err)
	assert.Equal(t, wage.SectionID("floor"), moved.SectionID)
	assert.True(t, moved.StartAt.Equal(original.StartAt))
}

func TestMove_MissingShift(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.Move(context.Background(), "nope", "bar", monday)
	assert.ErrorIs(t, err, wage.ErrShiftNotFound)
}

func TestMove_AcrossDSTBoundaryKeepsWallClock(t *testing.T) {
	// GIVEN: A shift before Melbourne leaves daylight saving (2025-04-06)
	// WHEN: Moving it past the transition
	// THEN: The wall-clock start is preserved on the new date

	engine, store := newTestEngine(t)
	ctx := context.Background()

	beforeDST := wage.NewDate(2025, time.April, 4)
	afterDST := wage.NewDate(2025, time.April, 7)
	seedShift(t, store, "s1", "staff-1", "bar", beforeDST, "09:00", "17:00")

	moved, err := engine.Move(ctx, "s1", "bar", afterDST)
	require.NoError(t, err)
	assert.Equal(t, "09:00", melbourne.ClockOf(moved.StartAt))
	assert.True(t, melbourne.DateOf(moved.StartAt).Equal(afterDST))
}

// =============================================================================
// CLONE
// =============================================================================

func TestClone_CreatesCopyOnNewDate(t *testing.T) {
	// GIVEN: A shift on Monday
	// WHEN: Cloning to Thursday
	// THEN: Two shifts exist; the source is untouched

	engine, store := newTestEngine(t)
	ctx := context.Background()
	source := seedShift(t, store, "s1", "staff-1", "bar", monday, "10:00", "15:00")

	thursday := monday.AddDays(3)
	clone, err := engine.Clone(ctx, "s1", "floor", thursday)
	require.NoError(t, err)
	require.NotNil(t, clone)

	assert.NotEqual(t, source.ID, clone.ID)
	assert.Equal(t, wage.SectionID("floor"), clone.SectionID)
	assert.Equal(t, "10:00", melbourne.ClockOf(clone.StartAt))
	assert.True(t, melbourne.DateOf(clone.StartAt).Equal(thursday))
	assert.Equal(t, source.StaffID, clone.StaffID)

	kept, err := store.GetShift(ctx, source.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.True(t, kept.StartAt.Equal(source.StartAt), "source must be untouched")
}

func TestClone_SameDateIsNoOp(t *testing.T) {
	// GIVEN: A shift on Monday
	// WHEN: Cloning onto Monday (any section)
	// THEN: No clone is produced and no error is raised

	engine, store := newTestEngine(t)
	ctx := context.Background()
	seedShift(t, store, "s1", "staff-1", "bar", monday, "10:00", "15:00")

	clone, err := engine.Clone(ctx, "s1", "floor", monday)
	require.NoError(t, err)
	assert.Nil(t, clone)

	from, to := melbourne.RangeBounds(monday, monday.AddDays(6))
	shifts, err := store.ShiftsBetween(ctx, from, to)
	require.NoError(t, err)
	assert.Len(t, shifts, 1)
}

func TestClone_CarriesNonBillableHours(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	shift := seedShift(t, store, "s1", "staff-1", "bar", monday, "10:00", "15:00")
	shift.NonBillableHours = decimal.RequireFromString("0.5")
	require.NoError(t, store.SaveShift(ctx, shift))

	clone, err := engine.Clone(ctx, "s1", "bar", monday.AddDays(1))
	require.NoError(t, err)
	require.NotNil(t, clone)
	assert.True(t, shift.NonBillableHours.Equal(clone.NonBillableHours))
}
