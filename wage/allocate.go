/*
allocate.go - Capped allocation of shift hours across payment instructions

PURPOSE:
  Splits the billable hours of one shift across a staff member's payment
  instructions. Instructions are consumed in priority order; each takes up to
  its remaining weekly cap at base rate plus its adjustment. Whatever is left
  falls through to Cash at the plain base rate.

WEEKLY CAPS:
  Caps are weekly, not per shift. The caller builds one RunningCaps per
  staff member per week and threads it across that week's shifts in start
  order, so early shifts drain the caps first. RunningCaps is never shared
  across staff or across weeks.

GUARANTEE:
  The hours of the returned lines always sum exactly to the input hours.
*/
package wage

import (
	"sort"

	"github.com/shopspring/decimal"
)

// AllocationLine is one slice of a shift's pay: so many hours to a method
// at an effective rate.
type AllocationLine struct {
	Label  string          `json:"label"`
	Method string          `json:"method"`
	Hours  decimal.Decimal `json:"hours"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// RunningCaps tracks remaining weekly cap hours per instruction. A nil
// entry means the instruction is uncapped and absorbs everything offered.
type RunningCaps struct {
	remaining map[InstructionID]*decimal.Decimal
}

// NewRunningCaps initializes fresh caps from a staff member's instructions.
func NewRunningCaps(instructions []PaymentInstruction) RunningCaps {
	remaining := make(map[InstructionID]*decimal.Decimal, len(instructions))
	for _, in := range instructions {
		if in.WeeklyHoursCap != nil {
			left := *in.WeeklyHoursCap
			remaining[in.ID] = &left
		} else {
			remaining[in.ID] = nil
		}
	}
	return RunningCaps{remaining: remaining}
}

// Remaining returns the hours left under an instruction's cap and whether
// the instruction is uncapped.
func (rc RunningCaps) Remaining(id InstructionID) (decimal.Decimal, bool) {
	left, ok := rc.remaining[id]
	if !ok || left == nil {
		return decimal.Zero, true
	}
	return *left, false
}

func (rc RunningCaps) take(id InstructionID, hours decimal.Decimal) {
	if left, ok := rc.remaining[id]; ok && left != nil {
		*left = left.Sub(hours)
	}
}

// Allocate splits hours across the given instructions, draining caps as it
// goes. Inactive instructions are ignored; ties on Priority keep input
// order. The caller passes the same caps for every shift of the week.
func Allocate(hours, baseRate decimal.Decimal, instructions []PaymentInstruction, caps RunningCaps) []AllocationLine {
	var lines []AllocationLine
	if !hours.IsPositive() {
		return lines
	}

	active := make([]PaymentInstruction, 0, len(instructions))
	for _, in := range instructions {
		if in.Active {
			active = append(active, in)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority < active[j].Priority
	})

	remaining := hours
	for _, in := range active {
		if !remaining.IsPositive() {
			break
		}

		take := remaining
		if left, unbounded := caps.Remaining(in.ID); !unbounded {
			if !left.IsPositive() {
				continue
			}
			if left.LessThan(take) {
				take = left
			}
		}

		rate := baseRate.Add(in.AdjustmentPerHour)
		lines = append(lines, AllocationLine{
			Label:  in.Label,
			Method: in.PaymentMethod,
			Hours:  take,
			Rate:   rate,
			Amount: take.Mul(rate),
		})
		caps.take(in.ID, take)
		remaining = remaining.Sub(take)
	}

	if remaining.IsPositive() {
		lines = append(lines, AllocationLine{
			Label:  "Standard",
			Method: PaymentMethodCash,
			Hours:  remaining,
			Rate:   baseRate,
			Amount: remaining.Mul(baseRate),
		})
	}

	return lines
}
