/*
seed.go - demo data loader for development and demos

PURPOSE:

	Populates the store with a realistic small-venue roster: a few staff
	with day-type rates and payment instructions, sections, a public
	holiday, and one rostered week. Used by the server's -seed flag so a
	fresh database has something to show.

WHAT IT CREATES:

	Staff:    Alex (holiday rules on, capped Booking instruction),
	          Bianca (flat rate, everything in Cash),
	          Marco (weekend loading, holiday rules off)
	Sections: Bar, Floor, Kitchen
	Holiday:  Labour Day (second Monday of March in Victoria)
	Shifts:   A full week starting the Monday before the holiday

NOTE:

	Seeding is additive and idempotent per ID. Only use in development
	or demo environments.

SEE ALSO:
  - cmd/server/main.go: -seed flag
  - store/sqlite: the Seeder implementation
*/
package api

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/roster-engine/wage"
)

// Seeder is the write surface demo seeding needs. The SQLite store
// satisfies it; the read-only wage.Store interfaces deliberately do not
// expose these setup writes.
type Seeder interface {
	SaveStaff(ctx context.Context, st wage.Staff) error
	SaveRate(ctx context.Context, r wage.StaffRate) error
	SaveInstruction(ctx context.Context, in wage.PaymentInstruction) error
	SaveHoliday(ctx context.Context, h wage.PublicHoliday) error
	SaveSection(ctx context.Context, sec wage.Section) error
	SaveShift(ctx context.Context, sh wage.Shift) error
}

// SeedDemo loads the demo roster into the store.
func SeedDemo(ctx context.Context, s Seeder, cal *wage.BusinessCalendar) error {
	dec := decimal.RequireFromString
	bookingCap := dec("10")

	staff := []wage.Staff{
		{ID: "staff-alex", Name: "Alex Chen", Email: "alex@example.com", AppliesPublicHolidayRules: true},
		{ID: "staff-bianca", Name: "Bianca Russo", Email: "bianca@example.com", AppliesPublicHolidayRules: true},
		{ID: "staff-marco", Name: "Marco Nguyen", Email: "marco@example.com"},
	}
	rates := []wage.StaffRate{
		{ID: "rate-alex-default", StaffID: "staff-alex", RateType: wage.RateDefault, Rate: dec("28.50"), EffectiveDate: wage.NewDate(2025, 1, 1), IsCurrent: true},
		{ID: "rate-alex-sat", StaffID: "staff-alex", RateType: wage.RateSaturday, Rate: dec("34.20"), EffectiveDate: wage.NewDate(2025, 1, 1), IsCurrent: true},
		{ID: "rate-bianca-default", StaffID: "staff-bianca", RateType: wage.RateDefault, Rate: dec("26"), EffectiveDate: wage.NewDate(2025, 1, 1), IsCurrent: true},
		{ID: "rate-marco-default", StaffID: "staff-marco", RateType: wage.RateDefault, Rate: dec("30"), EffectiveDate: wage.NewDate(2025, 1, 1), IsCurrent: true},
		{ID: "rate-marco-sat", StaffID: "staff-marco", RateType: wage.RateSaturday, Rate: dec("37.50"), EffectiveDate: wage.NewDate(2025, 1, 1), IsCurrent: true},
		{ID: "rate-marco-sun", StaffID: "staff-marco", RateType: wage.RateSunday, Rate: dec("45"), EffectiveDate: wage.NewDate(2025, 1, 1), IsCurrent: true},
	}
	instructions := []wage.PaymentInstruction{
		{ID: "in-alex-booking", StaffID: "staff-alex", Label: "Booking", AdjustmentPerHour: dec("2"), WeeklyHoursCap: &bookingCap, PaymentMethod: "Booking", Priority: 1, Active: true},
	}
	sections := []wage.Section{
		{ID: "sec-bar", Name: "Bar", Color: "#7c3aed", Position: 1},
		{ID: "sec-floor", Name: "Floor", Color: "#0ea5e9", Position: 2},
		{ID: "sec-kitchen", Name: "Kitchen", Color: "#f59e0b", Position: 3},
	}
	holidays := []wage.PublicHoliday{
		{ID: "hol-labour-day", Date: wage.NewDate(2025, 3, 10), Name: "Labour Day", MarkupPercentage: dec("150"), MarkupAmount: decimal.Zero, Active: true},
	}

	for _, st := range staff {
		if err := s.SaveStaff(ctx, st); err != nil {
			return fmt.Errorf("seed staff %s: %w", st.ID, err)
		}
	}
	for _, r := range rates {
		if err := s.SaveRate(ctx, r); err != nil {
			return fmt.Errorf("seed rate %s: %w", r.ID, err)
		}
	}
	for _, in := range instructions {
		if err := s.SaveInstruction(ctx, in); err != nil {
			return fmt.Errorf("seed instruction %s: %w", in.ID, err)
		}
	}
	for _, sec := range sections {
		if err := s.SaveSection(ctx, sec); err != nil {
			return fmt.Errorf("seed section %s: %w", sec.ID, err)
		}
	}
	for _, h := range holidays {
		if err := s.SaveHoliday(ctx, h); err != nil {
			return fmt.Errorf("seed holiday %s: %w", h.ID, err)
		}
	}

	return seedWeek(ctx, s, cal)
}

// seedWeek rosters the week of Labour Day 2025.
func seedWeek(ctx context.Context, s Seeder, cal *wage.BusinessCalendar) error {
	type slot struct {
		id      string
		staff   wage.StaffID
		section wage.SectionID
		day     int // offset from Monday
		start   string
		end     string
		breakH  string
	}

	monday := wage.NewDate(2025, 3, 10)
	slots := []slot{
		{"shift-seed-1", "staff-alex", "sec-bar", 0, "11:00", "19:00", "0.5"},
		{"shift-seed-2", "staff-bianca", "sec-floor", 0, "17:00", "23:00", "0"},
		{"shift-seed-3", "staff-marco", "sec-kitchen", 1, "09:00", "17:00", "0.5"},
		{"shift-seed-4", "staff-alex", "sec-bar", 3, "11:00", "19:00", "0.5"},
		{"shift-seed-5", "staff-bianca", "sec-floor", 4, "17:00", "23:30", "0"},
		{"shift-seed-6", "staff-marco", "sec-kitchen", 5, "10:00", "18:00", "0.5"},
		{"shift-seed-7", "staff-alex", "sec-floor", 5, "12:00", "20:00", "0.5"},
		// Open shift still looking for a taker.
		{"shift-seed-8", "", "sec-bar", 6, "12:00", "18:00", "0"},
	}

	for _, sl := range slots {
		date := monday.AddDays(sl.day)
		start, err := cal.At(date, sl.start)
		if err != nil {
			return fmt.Errorf("seed shift %s: %w", sl.id, err)
		}
		end, err := cal.At(date, sl.end)
		if err != nil {
			return fmt.Errorf("seed shift %s: %w", sl.id, err)
		}
		err = s.SaveShift(ctx, wage.Shift{
			ID:               wage.ShiftID(sl.id),
			StaffID:          sl.staff,
			SectionID:        sl.section,
			StartAt:          start,
			EndAt:            end,
			NonBillableHours: decimal.RequireFromString(sl.breakH),
		})
		if err != nil {
			return fmt.Errorf("seed shift %s: %w", sl.id, err)
		}
	}
	return nil
}
