package wage_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roster-engine/wage"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func capHours(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func instruction(id, label, method string, adj string, cap *decimal.Decimal, priority int) wage.PaymentInstruction {
	return wage.PaymentInstruction{
		ID:                wage.InstructionID(id),
		StaffID:           "staff-1",
		Label:             label,
		PaymentMethod:     method,
		AdjustmentPerHour: dec(adj),
		WeeklyHoursCap:    cap,
		Priority:          priority,
		Active:            true,
	}
}

func sumHours(lines []wage.AllocationLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Hours)
	}
	return total
}

// =============================================================================
// SINGLE-SHIFT ALLOCATION
// =============================================================================

func TestAllocate_CappedInstructionThenCash(t *testing.T) {
	// GIVEN: 7.5 billable hours at $37.5 and one instruction capped at 4h, +$2
	// WHEN: Allocating
	// THEN: 4h go to the instruction at $39.5 and 3.5h fall through to Cash

	ins := []wage.PaymentInstruction{
		instruction("i1", "Booking", "Booking", "2", capHours("4"), 1),
	}
	caps := wage.NewRunningCaps(ins)

	lines := wage.Allocate(dec("7.5"), dec("37.5"), ins, caps)
	require.Len(t, lines, 2)

	assert.Equal(t, "Booking", lines[0].Method)
	assert.True(t, dec("4").Equal(lines[0].Hours))
	assert.True(t, dec("39.5").Equal(lines[0].Rate))
	assert.True(t, dec("158").Equal(lines[0].Amount), "got %s", lines[0].Amount)

	assert.Equal(t, wage.PaymentMethodCash, lines[1].Method)
	assert.True(t, dec("3.5").Equal(lines[1].Hours))
	assert.True(t, dec("131.25").Equal(lines[1].Amount), "got %s", lines[1].Amount)
}

func TestAllocate_UncappedInstructionTakesEverything(t *testing.T) {
	// GIVEN: One uncapped instruction
	// WHEN: Allocating 8 hours
	// THEN: No Cash leftover

	ins := []wage.PaymentInstruction{
		instruction("i1", "Bank", "Transfer", "0", nil, 1),
	}
	caps := wage.NewRunningCaps(ins)

	lines := wage.Allocate(dec("8"), dec("20"), ins, caps)
	require.Len(t, lines, 1)
	assert.Equal(t, "Transfer", lines[0].Method)
	assert.True(t, dec("8").Equal(lines[0].Hours))
}

func TestAllocate_PriorityOrderDrainsLowestFirst(t *testing.T) {
	// GIVEN: Two capped instructions with priorities 2 and 1
	// WHEN: Allocating 5 hours
	// THEN: Priority 1 fills first, then priority 2, then Cash

	ins := []wage.PaymentInstruction{
		instruction("i2", "Second", "B", "0", capHours("2"), 2),
		instruction("i1", "First", "A", "0", capHours("2"), 1),
	}
	caps := wage.NewRunningCaps(ins)

	lines := wage.Allocate(dec("5"), dec("10"), ins, caps)
	require.Len(t, lines, 3)
	assert.Equal(t, "A", lines[0].Method)
	assert.Equal(t, "B", lines[1].Method)
	assert.Equal(t, wage.PaymentMethodCash, lines[2].Method)
	assert.True(t, dec("1").Equal(lines[2].Hours))
}

func TestAllocate_InactiveInstructionSkipped(t *testing.T) {
	// GIVEN: An inactive instruction
	// WHEN: Allocating
	// THEN: Everything goes to Cash

	inactive := instruction("i1", "Old", "Card", "5", capHours("10"), 1)
	inactive.Active = false
	ins := []wage.PaymentInstruction{inactive}
	caps := wage.NewRunningCaps(ins)

	lines := wage.Allocate(dec("3"), dec("20"), ins, caps)
	require.Len(t, lines, 1)
	assert.Equal(t, wage.PaymentMethodCash, lines[0].Method)
}

func TestAllocate_ZeroHoursProducesNoLines(t *testing.T) {
	ins := []wage.PaymentInstruction{
		instruction("i1", "Booking", "Booking", "2", capHours("4"), 1),
	}
	caps := wage.NewRunningCaps(ins)

	lines := wage.Allocate(decimal.Zero, dec("20"), ins, caps)
	assert.Empty(t, lines)
}

func TestAllocate_HoursAlwaysConserved(t *testing.T) {
	// GIVEN: A mix of capped and uncapped instructions
	// WHEN: Allocating odd hour amounts
	// THEN: Output hours sum exactly to input hours

	ins := []wage.PaymentInstruction{
		instruction("i1", "A", "A", "1.5", capHours("2.25"), 1),
		instruction("i2", "B", "B", "-0.5", capHours("1"), 2),
	}

	for _, hours := range []string{"0.25", "3.25", "7.75", "12"} {
		caps := wage.NewRunningCaps(ins)
		lines := wage.Allocate(dec(hours), dec("21.3"), ins, caps)
		assert.True(t, dec(hours).Equal(sumHours(lines)), "hours=%s", hours)
	}
}

// =============================================================================
// CAPS THREADED ACROSS A WEEK
// =============================================================================

func TestAllocate_CapsDrainAcrossShifts(t *testing.T) {
	// GIVEN: A 4h weekly cap and two shifts in the same week
	// WHEN: Allocating 3h then 3h with the same RunningCaps
	// THEN: Second shift only gets the remaining 1h on the instruction

	ins := []wage.PaymentInstruction{
		instruction("i1", "Booking", "Booking", "0", capHours("4"), 1),
	}
	caps := wage.NewRunningCaps(ins)

	first := wage.Allocate(dec("3"), dec("20"), ins, caps)
	require.Len(t, first, 1)
	assert.True(t, dec("3").Equal(first[0].Hours))

	second := wage.Allocate(dec("3"), dec("20"), ins, caps)
	require.Len(t, second, 2)
	assert.True(t, dec("1").Equal(second[0].Hours), "remaining cap hour")
	assert.Equal(t, wage.PaymentMethodCash, second[1].Method)
	assert.True(t, dec("2").Equal(second[1].Hours))
}

func TestAllocate_ExhaustedCapSkipsToNext(t *testing.T) {
	// GIVEN: A cap fully drained by an earlier shift
	// WHEN: Allocating another shift
	// THEN: The exhausted instruction is skipped entirely

	ins := []wage.PaymentInstruction{
		instruction("i1", "Booking", "Booking", "0", capHours("2"), 1),
	}
	caps := wage.NewRunningCaps(ins)

	wage.Allocate(dec("2"), dec("20"), ins, caps)

	lines := wage.Allocate(dec("4"), dec("20"), ins, caps)
	require.Len(t, lines, 1)
	assert.Equal(t, wage.PaymentMethodCash, lines[0].Method)
	assert.True(t, dec("4").Equal(lines[0].Hours))
}

func TestAllocate_FreshCapsPerWeek(t *testing.T) {
	// GIVEN: A drained cap from one week
	// WHEN: A new RunningCaps is built for the next week
	// THEN: The cap is full again

	ins := []wage.PaymentInstruction{
		instruction("i1", "Booking", "Booking", "0", capHours("4"), 1),
	}

	week1 := wage.NewRunningCaps(ins)
	wage.Allocate(dec("4"), dec("20"), ins, week1)

	week2 := wage.NewRunningCaps(ins)
	lines := wage.Allocate(dec("4"), dec("20"), ins, week2)
	require.Len(t, lines, 1)
	assert.Equal(t, "Booking", lines[0].Method)
}
