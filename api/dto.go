/*
dto.go - request and response shapes for the roster API

PURPOSE:
  Defines the JSON bodies handlers decode and the envelopes they return.
  Domain types (wage.Shift, wage.Report, ...) already carry JSON tags and
  are returned directly; the DTOs here exist for inbound requests, where
  dates and clock times arrive as strings and need validation before they
  become domain values.

CONVENTIONS:
  - Dates are "2006-01-02" strings interpreted in the business timezone.
  - Clock times are "15:04" wall-clock strings.
  - Weeks are identified by any date inside them; the server snaps to the
    containing Monday-anchored week.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: where these are decoded and validated
*/
package api

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ShiftRequest creates or updates a shift. StaffID may be empty for an
// open shift.
type ShiftRequest struct {
	StaffID          string `json:"staffId"`
	SectionID        string `json:"sectionId"`
	Date             string `json:"date"`
	StartClock       string `json:"startClock"`
	EndClock         string `json:"endClock"`
	NonBillableHours string `json:"nonBillableHours"`
	Notes            string `json:"notes"`
}

// MoveShiftRequest drags a shift to another day or section. The shift
// keeps its wall-clock start time and duration.
type MoveShiftRequest struct {
	Date      string `json:"date"`
	SectionID string `json:"sectionId"`
}

// CloneShiftRequest duplicates a shift onto another date.
type CloneShiftRequest struct {
	Date      string `json:"date"`
	SectionID string `json:"sectionId"`
}

// SealRequest seals one staff member's week. Week is any date inside the
// week to seal.
type SealRequest struct {
	Week string `json:"week"`
}

// CaptureTemplateRequest saves a week's shifts as a reusable template.
type CaptureTemplateRequest struct {
	Name string `json:"name"`
	Week string `json:"week"`
}

// ApplyTemplateRequest replays a template onto a target week.
type ApplyTemplateRequest struct {
	Week string `json:"week"`
}

// AutoCopyRequest previews or commits copying the previous week's roster
// into the given week.
type AutoCopyRequest struct {
	Week string `json:"week"`
}
