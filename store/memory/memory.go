/*
Package memory provides an in-memory implementation of the wage storage
interfaces.

PURPOSE:
  Backs tests and the dev server without a database. Behavior mirrors the
  SQLite store, including the insert-if-absent guarantee on wage payments.

CONCURRENCY:
  A single RWMutex guards all maps. Good enough for tests and a
  single-process dev server.

SEE ALSO:
  - wage/store.go: interface definitions
  - store/sqlite/sqlite.go: the persistent implementation
*/
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/roster-engine/wage"
)

// Store implements wage.Store entirely in memory.
type Store struct {
	mu sync.RWMutex

	staffOrder   []wage.StaffID
	staff        map[wage.StaffID]wage.Staff
	rates        map[wage.StaffID][]wage.StaffRate
	instructions map[wage.StaffID][]wage.PaymentInstruction

	holidays []wage.PublicHoliday
	sections []wage.Section

	shifts map[wage.ShiftID]wage.Shift

	templateOrder []wage.TemplateID
	templates     map[wage.TemplateID]wage.ShiftTemplate

	payments map[string]wage.WagePayment
}

func New() *Store {
	return &Store{
		staff:        make(map[wage.StaffID]wage.Staff),
		rates:        make(map[wage.StaffID][]wage.StaffRate),
		instructions: make(map[wage.StaffID][]wage.PaymentInstruction),
		shifts:       make(map[wage.ShiftID]wage.Shift),
		templates:    make(map[wage.TemplateID]wage.ShiftTemplate),
		payments:     make(map[string]wage.WagePayment),
	}
}

// =============================================================================
// SEEDING (tests and dev server)
// =============================================================================

// AddStaff registers a staff member with their rates and instructions.
func (s *Store) AddStaff(staff wage.Staff, rates []wage.StaffRate, instructions []wage.PaymentInstruction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.staff[staff.ID]; !exists {
		s.staffOrder = append(s.staffOrder, staff.ID)
	}
	s.staff[staff.ID] = staff
	s.rates[staff.ID] = rates
	s.instructions[staff.ID] = instructions
}

func (s *Store) AddHoliday(h wage.PublicHoliday) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holidays = append(s.holidays, h)
}

func (s *Store) AddSection(sec wage.Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections = append(s.sections, sec)
	sort.Slice(s.sections, func(i, j int) bool { return s.sections[i].Position < s.sections[j].Position })
}

// =============================================================================
// STAFF DIRECTORY
// =============================================================================

func (s *Store) ListStaff(ctx context.Context) ([]wage.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]wage.Staff, 0, len(s.staffOrder))
	for _, id := range s.staffOrder {
		out = append(out, s.staff[id])
	}
	return out, nil
}

func (s *Store) GetStaff(ctx context.Context, id wage.StaffID) (*wage.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.staff[id]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (s *Store) RatesFor(ctx context.Context, id wage.StaffID) ([]wage.StaffRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]wage.StaffRate(nil), s.rates[id]...), nil
}

func (s *Store) InstructionsFor(ctx context.Context, id wage.StaffID) ([]wage.PaymentInstruction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]wage.PaymentInstruction(nil), s.instructions[id]...), nil
}

// =============================================================================
// HOLIDAYS AND SECTIONS
// =============================================================================

func (s *Store) HolidaysInRange(ctx context.Context, from, to wage.Date) ([]wage.PublicHoliday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []wage.PublicHoliday
	for _, h := range s.holidays {
		if h.Date.Within(from, to) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *Store) ListSections(ctx context.Context) ([]wage.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]wage.Section(nil), s.sections...), nil
}

// =============================================================================
// SHIFTS
// =============================================================================

func (s *Store) GetShift(ctx context.Context, id wage.ShiftID) (*wage.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sh, ok := s.shifts[id]
	if !ok {
		return nil, nil
	}
	return &sh, nil
}

func (s *Store) SaveShift(ctx context.Context, sh wage.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shifts[sh.ID] = sh
	return nil
}

func (s *Store) DeleteShift(ctx context.Context, id wage.ShiftID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.shifts, id)
	return nil
}

func (s *Store) InsertShifts(ctx context.Context, shifts []wage.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sh := range shifts {
		s.shifts[sh.ID] = sh
	}
	return nil
}

func (s *Store) ShiftsBetween(ctx context.Context, from, to time.Time) ([]wage.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []wage.Shift
	for _, sh := range s.shifts {
		if !sh.StartAt.Before(from) && sh.StartAt.Before(to) {
			out = append(out, sh)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (s *Store) ShiftsBySection(ctx context.Context, section wage.SectionID, from, to time.Time) ([]wage.Shift, error) {
	all, err := s.ShiftsBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := all[:0:0]
	for _, sh := range all {
		if sh.SectionID == section {
			out = append(out, sh)
		}
	}
	return out, nil
}

// =============================================================================
// TEMPLATES
// =============================================================================

func (s *Store) SaveTemplate(ctx context.Context, t wage.ShiftTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.templates[t.ID]; !exists {
		s.templateOrder = append(s.templateOrder, t.ID)
	}
	s.templates[t.ID] = t
	return nil
}

func (s *Store) GetTemplate(ctx context.Context, id wage.TemplateID) (*wage.ShiftTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *Store) ListTemplates(ctx context.Context) ([]wage.ShiftTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]wage.ShiftTemplate, 0, len(s.templateOrder))
	for _, id := range s.templateOrder {
		out = append(out, s.templates[id])
	}
	return out, nil
}

func (s *Store) DeleteTemplate(ctx context.Context, id wage.TemplateID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.templates, id)
	for i, tid := range s.templateOrder {
		if tid == id {
			s.templateOrder = append(s.templateOrder[:i], s.templateOrder[i+1:]...)
			break
		}
	}
	return nil
}

// =============================================================================
// WAGE PAYMENTS
// =============================================================================

func paymentKey(staffID wage.StaffID, weekStart, weekEnd wage.Date) string {
	return string(staffID) + "|" + weekStart.String() + "|" + weekEnd.String()
}

func (s *Store) InsertPayment(ctx context.Context, p wage.WagePayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := paymentKey(p.StaffID, p.WeekStart, p.WeekEnd)
	if existing, ok := s.payments[key]; ok {
		return &wage.AlreadyPaidError{
			StaffID:   p.StaffID,
			WeekStart: p.WeekStart,
			WeekEnd:   p.WeekEnd,
			PaymentID: existing.ID,
		}
	}
	s.payments[key] = p
	return nil
}

func (s *Store) GetPayment(ctx context.Context, staffID wage.StaffID, week wage.Week) (*wage.WagePayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[paymentKey(staffID, week.Start, week.End())]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *Store) PaymentsInRange(ctx context.Context, from, to wage.Date) ([]wage.WagePayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []wage.WagePayment
	for _, p := range s.payments {
		if p.WeekStart.Within(from, to) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].WeekStart.Equal(out[j].WeekStart) {
			return out[i].WeekStart.Before(out[j].WeekStart)
		}
		return out[i].StaffID < out[j].StaffID
	})
	return out, nil
}

var _ wage.Store = (*Store)(nil)
