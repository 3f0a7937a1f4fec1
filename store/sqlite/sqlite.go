/*
Package sqlite provides a SQLite-backed implementation of the wage storage
interfaces.

PURPOSE:
  Implements wage.Store using SQLite. The same patterns apply to
  PostgreSQL with minor dialect differences.

KEY TABLES:
  staff:                Staff members and their holiday opt-in
  staff_rates:          Per-day-type rate history
  payment_instructions: Priority-ordered capped wage routing
  public_holidays:      Date-keyed markup rules
  sections:             Roster columns
  shifts:               Rostered work (instants stored as UTC RFC3339)
  shift_templates:      Week patterns, items as JSON
  wage_payments:        Immutable sealed weeks, snapshot as JSON

UNIQUENESS:
  ux_wage_payments_week enforces the one-payment-per-staff-week invariant
  at the database level. The race loser's INSERT fails on the index and is
  translated into wage.AlreadyPaidError, so application pre-checks are an
  optimization, not the guarantee.

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't block,
  one writer at a time, better crash recovery.

SEE ALSO:
  - wage/store.go: interface definitions
  - store/memory/memory.go: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/roster-engine/wage"
)

// Store implements wage.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS staff (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		applies_public_holiday_rules BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS staff_rates (
		id TEXT PRIMARY KEY,
		staff_id TEXT NOT NULL,
		rate_type TEXT NOT NULL,
		rate TEXT NOT NULL,
		effective_date TEXT NOT NULL,
		end_date TEXT,
		is_current BOOLEAN NOT NULL DEFAULT TRUE
	);

	CREATE INDEX IF NOT EXISTS idx_staff_rates_staff
		ON staff_rates(staff_id);

	CREATE TABLE IF NOT EXISTS payment_instructions (
		id TEXT PRIMARY KEY,
		staff_id TEXT NOT NULL,
		label TEXT NOT NULL,
		adjustment_per_hour TEXT NOT NULL,
		weekly_hours_cap TEXT,
		payment_method TEXT NOT NULL,
		priority INTEGER NOT NULL DEFAULT 1,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);

	CREATE INDEX IF NOT EXISTS idx_instructions_staff
		ON payment_instructions(staff_id, priority);

	CREATE TABLE IF NOT EXISTS public_holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		markup_percentage TEXT NOT NULL DEFAULT '0',
		markup_amount TEXT NOT NULL DEFAULT '0',
		active BOOLEAN NOT NULL DEFAULT TRUE
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_date
		ON public_holidays(date);

	CREATE TABLE IF NOT EXISTS sections (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		color TEXT,
		position INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		staff_id TEXT,
		section_id TEXT,
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		non_billable_hours TEXT NOT NULL DEFAULT '0',
		notes TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_start
		ON shifts(start_at);
	CREATE INDEX IF NOT EXISTS idx_shifts_staff_start
		ON shifts(staff_id, start_at);

	CREATE TABLE IF NOT EXISTS shift_templates (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		items_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Append-only: sealed weeks are never updated or deleted.
	CREATE TABLE IF NOT EXISTS wage_payments (
		id TEXT PRIMARY KEY,
		staff_id TEXT NOT NULL,
		week_start TEXT NOT NULL,
		week_end TEXT NOT NULL,
		total_hours TEXT NOT NULL,
		total_wages TEXT NOT NULL,
		paid_at TEXT NOT NULL,
		snapshot_json TEXT NOT NULL
	);

	-- CRITICAL: one payment per staff member per week.
	CREATE UNIQUE INDEX IF NOT EXISTS ux_wage_payments_week
		ON wage_payments(staff_id, week_start, week_end);

	CREATE INDEX IF NOT EXISTS idx_wage_payments_week_start
		ON wage_payments(week_start);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// STAFF DIRECTORY
// =============================================================================

// SaveStaff inserts or updates a staff member.
func (s *Store) SaveStaff(ctx context.Context, st wage.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO staff (id, name, email, applies_public_holiday_rules, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			applies_public_holiday_rules = excluded.applies_public_holiday_rules
	`
	_, err := s.db.ExecContext(ctx, query,
		st.ID, st.Name, st.Email, st.AppliesPublicHolidayRules,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *Store) ListStaff(ctx context.Context) ([]wage.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, applies_public_holiday_rules FROM staff ORDER BY name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []wage.Staff
	for rows.Next() {
		var st wage.Staff
		var email sql.NullString
		if err := rows.Scan(&st.ID, &st.Name, &email, &st.AppliesPublicHolidayRules); err != nil {
			return nil, err
		}
		st.Email = email.String
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) GetStaff(ctx context.Context, id wage.StaffID) (*wage.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st wage.Staff
	var email sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, applies_public_holiday_rules FROM staff WHERE id = ?", id,
	).Scan(&st.ID, &st.Name, &email, &st.AppliesPublicHolidayRules)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	st.Email = email.String
	return &st, nil
}

// SaveRate inserts or updates a rate row.
func (s *Store) SaveRate(ctx context.Context, r wage.StaffRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO staff_rates (id, staff_id, rate_type, rate, effective_date, end_date, is_current)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			rate = excluded.rate,
			effective_date = excluded.effective_date,
			end_date = excluded.end_date,
			is_current = excluded.is_current
	`
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.StaffID, r.RateType, r.Rate.String(),
		r.EffectiveDate.String(), nullDate(r.EndDate), r.IsCurrent,
	)
	return err
}

func (s *Store) RatesFor(ctx context.Context, id wage.StaffID) ([]wage.StaffRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// rowid order preserves insertion order, which resolves overlapping
	// rate windows deterministically.
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, staff_id, rate_type, rate, effective_date, end_date, is_current
		FROM staff_rates WHERE staff_id = ? ORDER BY rowid
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []wage.StaffRate
	for rows.Next() {
		var r wage.StaffRate
		var rate string
		var effective string
		var end sql.NullString
		if err := rows.Scan(&r.ID, &r.StaffID, &r.RateType, &rate, &effective, &end, &r.IsCurrent); err != nil {
			return nil, err
		}
		r.Rate = mustDecimal(rate)
		r.EffectiveDate, _ = wage.ParseDate(effective)
		if end.Valid {
			r.EndDate, _ = wage.ParseDate(end.String)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveInstruction inserts or updates a payment instruction.
func (s *Store) SaveInstruction(ctx context.Context, in wage.PaymentInstruction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var capStr *string
	if in.WeeklyHoursCap != nil {
		v := in.WeeklyHoursCap.String()
		capStr = &v
	}

	query := `
		INSERT INTO payment_instructions
		(id, staff_id, label, adjustment_per_hour, weekly_hours_cap, payment_method, priority, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			label = excluded.label,
			adjustment_per_hour = excluded.adjustment_per_hour,
			weekly_hours_cap = excluded.weekly_hours_cap,
			payment_method = excluded.payment_method,
			priority = excluded.priority,
			active = excluded.active
	`
	_, err := s.db.ExecContext(ctx, query,
		in.ID, in.StaffID, in.Label, in.AdjustmentPerHour.String(),
		capStr, in.PaymentMethod, in.Priority, in.Active,
	)
	return err
}

func (s *Store) InstructionsFor(ctx context.Context, id wage.StaffID) ([]wage.PaymentInstruction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, staff_id, label, adjustment_per_hour, weekly_hours_cap, payment_method, priority, active
		FROM payment_instructions WHERE staff_id = ? ORDER BY priority, rowid
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []wage.PaymentInstruction
	for rows.Next() {
		var in wage.PaymentInstruction
		var adj string
		var capStr sql.NullString
		if err := rows.Scan(&in.ID, &in.StaffID, &in.Label, &adj, &capStr, &in.PaymentMethod, &in.Priority, &in.Active); err != nil {
			return nil, err
		}
		in.AdjustmentPerHour = mustDecimal(adj)
		if capStr.Valid {
			c := mustDecimal(capStr.String)
			in.WeeklyHoursCap = &c
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// =============================================================================
// HOLIDAYS AND SECTIONS
// =============================================================================

// SaveHoliday inserts or updates a public holiday.
func (s *Store) SaveHoliday(ctx context.Context, h wage.PublicHoliday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO public_holidays (id, date, name, markup_percentage, markup_amount, active)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			name = excluded.name,
			markup_percentage = excluded.markup_percentage,
			markup_amount = excluded.markup_amount,
			active = excluded.active
	`
	_, err := s.db.ExecContext(ctx, query,
		h.ID, h.Date.String(), h.Name,
		h.MarkupPercentage.String(), h.MarkupAmount.String(), h.Active,
	)
	return err
}

func (s *Store) HolidaysInRange(ctx context.Context, from, to wage.Date) ([]wage.PublicHoliday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, name, markup_percentage, markup_amount, active
		FROM public_holidays WHERE date >= ? AND date <= ? ORDER BY date
	`, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []wage.PublicHoliday
	for rows.Next() {
		var h wage.PublicHoliday
		var date, pct, amount string
		if err := rows.Scan(&h.ID, &date, &h.Name, &pct, &amount, &h.Active); err != nil {
			return nil, err
		}
		h.Date, _ = wage.ParseDate(date)
		h.MarkupPercentage = mustDecimal(pct)
		h.MarkupAmount = mustDecimal(amount)
		out = append(out, h)
	}
	return out, rows.Err()
}

// SaveSection inserts or updates a roster section.
func (s *Store) SaveSection(ctx context.Context, sec wage.Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO sections (id, name, color, position)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			color = excluded.color,
			position = excluded.position
	`
	_, err := s.db.ExecContext(ctx, query, sec.ID, sec.Name, sec.Color, sec.Position)
	return err
}

func (s *Store) ListSections(ctx context.Context) ([]wage.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, color, position FROM sections ORDER BY position, name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []wage.Section
	for rows.Next() {
		var sec wage.Section
		var color sql.NullString
		if err := rows.Scan(&sec.ID, &sec.Name, &color, &sec.Position); err != nil {
			return nil, err
		}
		sec.Color = color.String
		out = append(out, sec)
	}
	return out, rows.Err()
}

// =============================================================================
// SHIFTS
// =============================================================================

const shiftColumns = "id, staff_id, section_id, start_at, end_at, non_billable_hours, notes"

func (s *Store) GetShift(ctx context.Context, id wage.ShiftID) (*wage.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT "+shiftColumns+" FROM shifts WHERE id = ?", id)

	sh, err := scanShift(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

func (s *Store) SaveShift(ctx context.Context, sh wage.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveShiftTx(ctx, s.db, sh)
}

func (s *Store) saveShiftTx(ctx context.Context, db interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, sh wage.Shift) error {
	query := `
		INSERT INTO shifts (id, staff_id, section_id, start_at, end_at, non_billable_hours, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			staff_id = excluded.staff_id,
			section_id = excluded.section_id,
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			non_billable_hours = excluded.non_billable_hours,
			notes = excluded.notes
	`
	_, err := db.ExecContext(ctx, query,
		sh.ID, nullString(string(sh.StaffID)), nullString(string(sh.SectionID)),
		sh.StartAt.UTC().Format(time.RFC3339), sh.EndAt.UTC().Format(time.RFC3339),
		sh.NonBillableHours.String(), nullString(sh.Notes),
	)
	return err
}

func (s *Store) DeleteShift(ctx context.Context, id wage.ShiftID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM shifts WHERE id = ?", id)
	return err
}

func (s *Store) InsertShifts(ctx context.Context, shifts []wage.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, sh := range shifts {
		if err := s.saveShiftTx(ctx, tx, sh); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) ShiftsBetween(ctx context.Context, from, to time.Time) ([]wage.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+shiftColumns+" FROM shifts WHERE start_at >= ? AND start_at < ? ORDER BY start_at",
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []wage.Shift
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (s *Store) ShiftsBySection(ctx context.Context, section wage.SectionID, from, to time.Time) ([]wage.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+shiftColumns+" FROM shifts WHERE section_id = ? AND start_at >= ? AND start_at < ? ORDER BY start_at",
		section, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []wage.Shift
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShift(row rowScanner) (wage.Shift, error) {
	var sh wage.Shift
	var staffID, sectionID, notes sql.NullString
	var startAt, endAt, nonBillable string

	err := row.Scan(&sh.ID, &staffID, &sectionID, &startAt, &endAt, &nonBillable, &notes)
	if err != nil {
		return sh, err
	}

	sh.StaffID = wage.StaffID(staffID.String)
	sh.SectionID = wage.SectionID(sectionID.String)
	sh.StartAt, _ = time.Parse(time.RFC3339, startAt)
	sh.EndAt, _ = time.Parse(time.RFC3339, endAt)
	sh.NonBillableHours = mustDecimal(nonBillable)
	sh.Notes = notes.String
	return sh, nil
}

// =============================================================================
// TEMPLATES
// =============================================================================

func (s *Store) SaveTemplate(ctx context.Context, t wage.ShiftTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := json.Marshal(t.Items)
	if err != nil {
		return fmt.Errorf("failed to encode template items: %w", err)
	}

	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO shift_templates (id, name, items_json, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			items_json = excluded.items_json
	`
	_, err = s.db.ExecContext(ctx, query, t.ID, t.Name, string(items), createdAt.Format(time.RFC3339))
	return err
}

func (s *Store) GetTemplate(ctx context.Context, id wage.TemplateID) (*wage.ShiftTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var t wage.ShiftTemplate
	var items, createdAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, items_json, created_at FROM shift_templates WHERE id = ?", id,
	).Scan(&t.ID, &t.Name, &items, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(items), &t.Items); err != nil {
		return nil, fmt.Errorf("failed to decode template items: %w", err)
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &t, nil
}

func (s *Store) ListTemplates(ctx context.Context) ([]wage.ShiftTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, items_json, created_at FROM shift_templates ORDER BY created_at, name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []wage.ShiftTemplate
	for rows.Next() {
		var t wage.ShiftTemplate
		var items, createdAt string
		if err := rows.Scan(&t.ID, &t.Name, &items, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(items), &t.Items); err != nil {
			return nil, fmt.Errorf("failed to decode template items: %w", err)
		}
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) DeleteTemplate(ctx context.Context, id wage.TemplateID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM shift_templates WHERE id = ?", id)
	return err
}

// =============================================================================
// WAGE PAYMENTS
// =============================================================================

func (s *Store) InsertPayment(ctx context.Context, p wage.WagePayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := json.Marshal(p.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode payment snapshot: %w", err)
	}

	query := `
		INSERT INTO wage_payments
		(id, staff_id, week_start, week_end, total_hours, total_wages, paid_at, snapshot_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		p.ID, p.StaffID, p.WeekStart.String(), p.WeekEnd.String(),
		p.TotalHours.String(), p.TotalWages.String(),
		p.PaidAt.UTC().Format(time.RFC3339), string(snapshot),
	)

	if err != nil {
		if isUniqueConstraintError(err) {
			existing := wage.PaymentID("")
			s.db.QueryRowContext(ctx,
				"SELECT id FROM wage_payments WHERE staff_id = ? AND week_start = ? AND week_end = ?",
				p.StaffID, p.WeekStart.String(), p.WeekEnd.String(),
			).Scan(&existing)
			return &wage.AlreadyPaidError{
				StaffID:   p.StaffID,
				WeekStart: p.WeekStart,
				WeekEnd:   p.WeekEnd,
				PaymentID: existing,
			}
		}
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func (s *Store) GetPayment(ctx context.Context, staffID wage.StaffID, week wage.Week) (*wage.WagePayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, staff_id, week_start, week_end, total_hours, total_wages, paid_at, snapshot_json
		FROM wage_payments WHERE staff_id = ? AND week_start = ? AND week_end = ?
	`, staffID, week.Start.String(), week.End().String())

	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) PaymentsInRange(ctx context.Context, from, to wage.Date) ([]wage.WagePayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, staff_id, week_start, week_end, total_hours, total_wages, paid_at, snapshot_json
		FROM wage_payments WHERE week_start >= ? AND week_start <= ?
		ORDER BY week_start, staff_id
	`, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []wage.WagePayment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPayment(row rowScanner) (wage.WagePayment, error) {
	var p wage.WagePayment
	var weekStart, weekEnd, hours, wages, paidAt, snapshot string

	err := row.Scan(&p.ID, &p.StaffID, &weekStart, &weekEnd, &hours, &wages, &paidAt, &snapshot)
	if err != nil {
		return p, err
	}

	p.WeekStart, _ = wage.ParseDate(weekStart)
	p.WeekEnd, _ = wage.ParseDate(weekEnd)
	p.TotalHours = mustDecimal(hours)
	p.TotalWages = mustDecimal(wages)
	p.PaidAt, _ = time.Parse(time.RFC3339, paidAt)
	if err := json.Unmarshal([]byte(snapshot), &p.Snapshot); err != nil {
		return p, fmt.Errorf("failed to decode payment snapshot: %w", err)
	}
	return p, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullDate(d wage.Date) *string {
	if d.IsZero() {
		return nil
	}
	v := d.String()
	return &v
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var _ wage.Store = (*Store)(nil)
