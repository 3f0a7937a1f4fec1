/*
handlers.go - HTTP API handlers for the roster and wage engine

PURPOSE:
  Exposes the roster engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Staff:
    GET    /api/staff                    List all staff
    GET    /api/staff/{id}               Staff detail with rates and instructions
    GET    /api/sections                 List roster sections
    GET    /api/holidays                 Public holidays in a date range

  Shifts:
    GET    /api/shifts                   Shifts for a week or date range
    POST   /api/shifts                   Create a shift
    PUT    /api/shifts/{id}              Update a shift
    DELETE /api/shifts/{id}              Delete a shift
    POST   /api/shifts/{id}/move         Move to another day/section
    POST   /api/shifts/{id}/clone        Duplicate onto another date

  Reports:
    GET    /api/reports/payment          Wage report for a date range
    GET    /api/reports/wages            Wage report for one week

  Payments:
    POST   /api/payments/{staffId}/seal  Seal a staff member's week
    GET    /api/payments                 Sealed payments in a range

  Templates:
    GET    /api/templates                List templates
    POST   /api/templates                Capture a week as a template
    POST   /api/templates/{id}/apply     Replay a template onto a week
    DELETE /api/templates/{id}           Delete a template

  Auto-copy:
    POST   /api/autocopy/preview         Plan copying last week forward
    POST   /api/autocopy/commit          Write a previewed plan

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid dates or clock times
  - 404: Staff, shift or template not found
  - 409: Week already sealed
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - seed.go: Demo data loader
*/
package api

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/warp/roster-engine/calendar"
	"github.com/warp/roster-engine/payroll"
	"github.com/warp/roster-engine/wage"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      wage.Store
	Aggregator *wage.Aggregator
	Sealer     *payroll.Sealer
	Engine     *calendar.Engine
	Cal        *wage.BusinessCalendar
	Log        zerolog.Logger
}

// NewHandler wires the domain components around the given store.
func NewHandler(store wage.Store, cal *wage.BusinessCalendar, log zerolog.Logger) *Handler {
	return &Handler{
		Store:      store,
		Aggregator: wage.NewAggregator(cal),
		Sealer:     payroll.NewSealer(store, cal),
		Engine:     calendar.NewEngine(store, cal),
		Cal:        cal,
		Log:        log,
	}
}

// =============================================================================
// STAFF HANDLERS
// =============================================================================

// ListStaff returns all staff members.
func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.Store.ListStaff(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list staff", err)
		return
	}
	if staff == nil {
		staff = []wage.Staff{}
	}
	writeJSON(w, http.StatusOK, staff)
}

// GetStaff returns one staff member with their rates and instructions.
func (h *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := wage.StaffID(chi.URLParam(r, "id"))

	staff, err := h.Store.GetStaff(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get staff", err)
		return
	}
	if staff == nil {
		writeError(w, http.StatusNotFound, "Staff not found", nil)
		return
	}

	rates, err := h.Store.RatesFor(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load rates", err)
		return
	}
	instructions, err := h.Store.InstructionsFor(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load instructions", err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Staff        wage.Staff                `json:"staff"`
		Rates        []wage.StaffRate          `json:"rates"`
		Instructions []wage.PaymentInstruction `json:"instructions"`
	}{*staff, rates, instructions})
}

// ListSections returns the roster sections in display order.
func (h *Handler) ListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.Store.ListSections(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sections", err)
		return
	}
	if sections == nil {
		sections = []wage.Section{}
	}
	writeJSON(w, http.StatusOK, sections)
}

// ListHolidays returns public holidays in the start/end range.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	holidays, err := h.Store.HolidaysInRange(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}
	if holidays == nil {
		holidays = []wage.PublicHoliday{}
	}
	writeJSON(w, http.StatusOK, holidays)
}

// =============================================================================
// SHIFT HANDLERS
// =============================================================================

// ListShifts returns shifts for ?week=DATE or an explicit ?start&end range,
// optionally narrowed to one roster column with ?section=ID. The range is
// inclusive local dates.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	var from, to wage.Date
	if weekParam := r.URL.Query().Get("week"); weekParam != "" {
		anchor, err := wage.ParseDate(weekParam)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid week date", err)
			return
		}
		week := wage.WeekOf(anchor)
		from, to = week.Start, week.End()
	} else {
		var ok bool
		from, to, ok = h.parseRange(w, r)
		if !ok {
			return
		}
	}

	lo, hi := h.Cal.RangeBounds(from, to)
	var shifts []wage.Shift
	var err error
	if section := r.URL.Query().Get("section"); section != "" {
		shifts, err = h.Store.ShiftsBySection(r.Context(), wage.SectionID(section), lo, hi)
	} else {
		shifts, err = h.Store.ShiftsBetween(r.Context(), lo, hi)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list shifts", err)
		return
	}
	if shifts == nil {
		shifts = []wage.Shift{}
	}
	writeJSON(w, http.StatusOK, shifts)
}

// CreateShift creates a shift from a date plus wall-clock times.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req ShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	shift, ok := h.shiftFromRequest(w, req, wage.ShiftID(newID("shift")))
	if !ok {
		return
	}

	if err := h.Store.SaveShift(r.Context(), *shift); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save shift", err)
		return
	}
	writeJSON(w, http.StatusCreated, shift)
}

// UpdateShift replaces an existing shift's fields.
func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := wage.ShiftID(chi.URLParam(r, "id"))

	existing, err := h.Store.GetShift(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get shift", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Shift not found", nil)
		return
	}

	var req ShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	shift, ok := h.shiftFromRequest(w, req, id)
	if !ok {
		return
	}

	if err := h.Store.SaveShift(ctx, *shift); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save shift", err)
		return
	}
	writeJSON(w, http.StatusOK, shift)
}

// DeleteShift removes a shift from the roster.
func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	id := wage.ShiftID(chi.URLParam(r, "id"))
	if err := h.Store.DeleteShift(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete shift", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveShift relocates a shift to another day or section, preserving its
// wall-clock start and duration.
func (h *Handler) MoveShift(w http.ResponseWriter, r *http.Request) {
	id := wage.ShiftID(chi.URLParam(r, "id"))

	var req MoveShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := wage.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	moved, err := h.Engine.Move(r.Context(), id, wage.SectionID(req.SectionID), date)
	if err != nil {
		h.writeDomainError(w, "Failed to move shift", err)
		return
	}
	writeJSON(w, http.StatusOK, moved)
}

// CloneShift duplicates a shift onto another date. Cloning onto the same
// date is a no-op and returns 200 with no body content.
func (h *Handler) CloneShift(w http.ResponseWriter, r *http.Request) {
	id := wage.ShiftID(chi.URLParam(r, "id"))

	var req CloneShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := wage.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	clone, err := h.Engine.Clone(r.Context(), id, wage.SectionID(req.SectionID), date)
	if err != nil {
		h.writeDomainError(w, "Failed to clone shift", err)
		return
	}
	if clone == nil {
		writeJSON(w, http.StatusOK, struct {
			Created bool `json:"created"`
		}{false})
		return
	}
	writeJSON(w, http.StatusCreated, clone)
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// PaymentReport returns the wage report for an inclusive local-date range.
func (h *Handler) PaymentReport(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.parseRange(w, r)
	if !ok {
		return
	}
	h.writeReport(w, r, from, to)
}

// WeeklyWageReport returns the wage report for the week containing ?week.
func (h *Handler) WeeklyWageReport(w http.ResponseWriter, r *http.Request) {
	anchor, err := wage.ParseDate(r.URL.Query().Get("week"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week date", err)
		return
	}
	week := wage.WeekOf(anchor)
	h.writeReport(w, r, week.Start, week.End())
}

func (h *Handler) writeReport(w http.ResponseWriter, r *http.Request, from, to wage.Date) {
	input, err := h.loadReportInput(r, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load report data", err)
		return
	}

	report, err := h.Aggregator.AggregateRange(input, from, to)
	if err != nil {
		h.writeDomainError(w, "Failed to build report", err)
		return
	}

	h.Log.Info().
		Str("from", from.String()).
		Str("to", to.String()).
		Int("rows", len(report.Rows)).
		Msg("wage report built")
	writeJSON(w, http.StatusOK, report)
}

// loadReportInput gathers everything the aggregator reads for a range.
func (h *Handler) loadReportInput(r *http.Request, from, to wage.Date) (wage.ReportInput, error) {
	ctx := r.Context()
	input := wage.ReportInput{
		Rates:        make(map[wage.StaffID][]wage.StaffRate),
		Instructions: make(map[wage.StaffID][]wage.PaymentInstruction),
	}

	staff, err := h.Store.ListStaff(ctx)
	if err != nil {
		return input, err
	}
	input.Staff = staff

	for _, st := range staff {
		rates, err := h.Store.RatesFor(ctx, st.ID)
		if err != nil {
			return input, err
		}
		instructions, err := h.Store.InstructionsFor(ctx, st.ID)
		if err != nil {
			return input, err
		}
		input.Rates[st.ID] = rates
		input.Instructions[st.ID] = instructions
	}

	input.Holidays, err = h.Store.HolidaysInRange(ctx, from, to)
	if err != nil {
		return input, err
	}

	lo, hi := h.Cal.RangeBounds(from, to)
	input.Shifts, err = h.Store.ShiftsBetween(ctx, lo, hi)
	return input, err
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// SealWeek seals one staff member's week with a full snapshot. Sealing a
// week twice returns 409 with the existing payment's ID.
func (h *Handler) SealWeek(w http.ResponseWriter, r *http.Request) {
	staffID := wage.StaffID(chi.URLParam(r, "staffId"))

	var req SealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	anchor, err := wage.ParseDate(req.Week)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week date", err)
		return
	}
	week := wage.WeekOf(anchor)

	payment, err := h.Sealer.Seal(r.Context(), staffID, week)
	if err != nil {
		h.writeDomainError(w, "Failed to seal week", err)
		return
	}

	h.Log.Info().
		Str("staff", string(staffID)).
		Str("week", week.Start.String()).
		Str("wages", payment.TotalWages.String()).
		Msg("week sealed")
	writeJSON(w, http.StatusCreated, payment)
}

// ListPayments returns sealed payments, optionally limited to weeks
// starting in the ?start&end range.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	from := wage.NewDate(1970, 1, 1)
	to := wage.NewDate(9999, 12, 31)
	if r.URL.Query().Get("start") != "" || r.URL.Query().Get("end") != "" {
		var ok bool
		from, to, ok = h.parseRange(w, r)
		if !ok {
			return
		}
	}

	payments, err := h.Sealer.List(r.Context(), from, to)
	if err != nil {
		h.writeDomainError(w, "Failed to list payments", err)
		return
	}
	if payments == nil {
		payments = []wage.WagePayment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

// =============================================================================
// TEMPLATE HANDLERS
// =============================================================================

// ListTemplates returns all saved week templates.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.Store.ListTemplates(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list templates", err)
		return
	}
	if templates == nil {
		templates = []wage.ShiftTemplate{}
	}
	writeJSON(w, http.StatusOK, templates)
}

// CaptureTemplate records a week's shifts as a named template.
func (h *Handler) CaptureTemplate(w http.ResponseWriter, r *http.Request) {
	var req CaptureTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Template name is required", nil)
		return
	}
	anchor, err := wage.ParseDate(req.Week)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week date", err)
		return
	}

	tpl, err := h.Engine.CaptureTemplate(r.Context(), h.Store, req.Name, wage.WeekOf(anchor))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to capture template", err)
		return
	}
	writeJSON(w, http.StatusCreated, tpl)
}

// ApplyTemplate replays a template onto the week containing the request
// date, skipping slots that are already occupied.
func (h *Handler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	id := wage.TemplateID(chi.URLParam(r, "id"))

	var req ApplyTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	anchor, err := wage.ParseDate(req.Week)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week date", err)
		return
	}

	result, err := h.Engine.ReplayTemplate(r.Context(), h.Store, id, anchor)
	if err != nil {
		h.writeDomainError(w, "Failed to apply template", err)
		return
	}

	h.Log.Info().
		Str("template", string(id)).
		Int("created", result.Created).
		Int("skippedDuplicate", result.SkippedDuplicate).
		Int("skippedInvalid", result.SkippedInvalid).
		Msg("template applied")
	writeJSON(w, http.StatusOK, result)
}

// DeleteTemplate removes a saved template.
func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := wage.TemplateID(chi.URLParam(r, "id"))
	if err := h.Store.DeleteTemplate(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete template", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// AUTO-COPY HANDLERS
// =============================================================================

// AutoCopyPreview plans copying the previous week's roster into the
// requested week without writing anything.
func (h *Handler) AutoCopyPreview(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.autoCopyPlan(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// AutoCopyCommit re-plans and writes the copy. Re-planning on commit keeps
// the two requests stateless; slots filled between preview and commit are
// skipped as conflicts.
func (h *Handler) AutoCopyCommit(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.autoCopyPlan(w, r)
	if !ok {
		return
	}
	if err := h.Engine.AutoCopyCommit(r.Context(), plan); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to commit copy", err)
		return
	}

	h.Log.Info().
		Str("week", plan.TargetWeek.Start.String()).
		Int("created", len(plan.Shifts)).
		Int("skippedConflict", plan.SkippedConflict).
		Msg("roster copied forward")
	writeJSON(w, http.StatusCreated, plan)
}

func (h *Handler) autoCopyPlan(w http.ResponseWriter, r *http.Request) (*calendar.CopyPlan, bool) {
	var req AutoCopyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return nil, false
	}
	anchor, err := wage.ParseDate(req.Week)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week date", err)
		return nil, false
	}

	plan, err := h.Engine.AutoCopyPreview(r.Context(), wage.WeekOf(anchor))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to plan copy", err)
		return nil, false
	}
	return plan, true
}

// =============================================================================
// HELPERS
// =============================================================================

// shiftFromRequest validates a ShiftRequest and builds the domain shift.
// Writes the error response itself and returns ok=false on bad input.
func (h *Handler) shiftFromRequest(w http.ResponseWriter, req ShiftRequest, id wage.ShiftID) (*wage.Shift, bool) {
	date, err := wage.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return nil, false
	}
	start, err := h.Cal.At(date, req.StartClock)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start time", err)
		return nil, false
	}
	end, err := h.Cal.At(date, req.EndClock)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end time", err)
		return nil, false
	}
	if !end.After(start) {
		writeError(w, http.StatusBadRequest, "Shift must end after it starts", nil)
		return nil, false
	}

	nonBillable := decimal.Zero
	if req.NonBillableHours != "" {
		nonBillable, err = decimal.NewFromString(req.NonBillableHours)
		if err != nil || nonBillable.IsNegative() {
			writeError(w, http.StatusBadRequest, "Invalid non-billable hours", err)
			return nil, false
		}
	}

	return &wage.Shift{
		ID:               id,
		StaffID:          wage.StaffID(req.StaffID),
		SectionID:        wage.SectionID(req.SectionID),
		StartAt:          start,
		EndAt:            end,
		NonBillableHours: nonBillable,
		Notes:            req.Notes,
	}, true
}

// parseRange reads inclusive ?start and ?end local dates. Writes the error
// response itself and returns ok=false on bad input.
func (h *Handler) parseRange(w http.ResponseWriter, r *http.Request) (wage.Date, wage.Date, bool) {
	from, err := wage.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date", err)
		return wage.Date{}, wage.Date{}, false
	}
	to, err := wage.ParseDate(r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end date", err)
		return wage.Date{}, wage.Date{}, false
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "End date before start date", nil)
		return wage.Date{}, wage.Date{}, false
	}
	return from, to, true
}

// writeDomainError maps domain sentinel errors onto HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case wage.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case wage.IsConflict(err):
		writeError(w, http.StatusConflict, message, err)
	case errors.Is(err, wage.ErrInvalidRange), errors.Is(err, wage.ErrInvalidClock):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Log.Error().Err(err).Msg(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func newID(prefix string) string {
	b := make([]byte, 8)
	rand.Read(b)
	return prefix + "-" + hex.EncodeToString(b)
}
