package timesheet

import (
	"fmt"
	"strings"
)

// EditField names the entry fields a reviewer can change in place.
type EditField string

const (
	FieldTotalHours     EditField = "TotalHours"
	FieldStatus         EditField = "Status"
	FieldManagerComment EditField = "ManagerComment"
)

// RowEdit is one row's unsaved pending edits. Nil fields are unset;
// the authoritative value stays whatever the upstream record holds.
type RowEdit struct {
	TotalHours     *float64 `json:"TotalHours,omitempty"`
	Status         *Status  `json:"Status,omitempty"`
	ManagerComment *string  `json:"ManagerComment,omitempty"`
}

// Overlay layers pending per-row edits over the authoritative entry
// records, keyed by entry id. It is view-local state: reset on
// navigation and after a successful bulk submission.
type Overlay map[int]*RowEdit

func NewOverlay() Overlay {
	return make(Overlay)
}

func (o Overlay) edit(entryID int) *RowEdit {
	e, ok := o[entryID]
	if !ok {
		e = &RowEdit{}
		o[entryID] = e
	}
	return e
}

// SetHours records a pending hours edit, clamped to the per-project
// cap before storing.
func (o Overlay) SetHours(entryID int, hours float64, projectID string) {
	clamped := ClampHours(hours, projectID)
	o.edit(entryID).TotalHours = &clamped
}

func (o Overlay) SetStatus(entryID int, status Status) {
	o.edit(entryID).Status = &status
}

func (o Overlay) SetManagerComment(entryID int, comment string) {
	o.edit(entryID).ManagerComment = &comment
}

// Set records a pending edit from its string form, as the table inputs
// deliver it. Hour values are parsed tolerantly (unparseable input
// stores zero) and clamped for the given project.
func (o Overlay) Set(entryID int, field EditField, value, projectID string) error {
	switch field {
	case FieldTotalHours:
		o.SetHours(entryID, Hours(value).Value(), projectID)
	case FieldStatus:
		s := Status(value)
		if !s.IsValid() {
			return fmt.Errorf("invalid status %q", value)
		}
		o.SetStatus(entryID, s)
	case FieldManagerComment:
		o.SetManagerComment(entryID, value)
	default:
		return fmt.Errorf("field %q is not editable", field)
	}
	return nil
}

// ResolvedHours returns the overlay value when one is pending, else
// the entry's authoritative hours. This resolution order backs every
// render and every payload build.
func (o Overlay) ResolvedHours(e Entry) float64 {
	if edit, ok := o[e.EntryID]; ok && edit.TotalHours != nil {
		return *edit.TotalHours
	}
	return e.TotalHours.Value()
}

func (o Overlay) ResolvedStatus(e Entry) Status {
	if edit, ok := o[e.EntryID]; ok && edit.Status != nil {
		return *edit.Status
	}
	return e.Status
}

func (o Overlay) ResolvedManagerComment(e Entry) string {
	if edit, ok := o[e.EntryID]; ok && edit.ManagerComment != nil {
		return *edit.ManagerComment
	}
	return e.ManagerComment
}

// Reset drops every pending edit. Callers do this after a successful
// bulk submission, together with clearing the row selection and
// re-fetching the collection.
func (o Overlay) Reset() {
	for id := range o {
		delete(o, id)
	}
}

// BulkEntry is one row of the bulk approval payload, in the upstream
// wire shape.
type BulkEntry struct {
	EntryID        int     `json:"EntryID"`
	EmployeeID     int     `json:"EmployeeID"`
	Status         Status  `json:"Status"`
	ManagerComment string  `json:"ManagerComment"`
	TotalHours     float64 `json:"TotalHours"`
}

// BuildBulkPayload assembles the bulk approval payload. Per row, the
// status is the overlay's pending status when one was explicitly set,
// otherwise the batch default (an empty default means Approved; a
// Rejected default cascades to every row without an override). Hours
// and manager comment resolve overlay-over-original the same way.
//
// The build fails before any network call when a resolved row is
// Rejected without a manager comment; no partial submission happens.
// The function itself is side-effect-free.
func BuildBulkPayload(entries []Entry, overlay Overlay, defaultStatus Status) ([]BulkEntry, error) {
	if defaultStatus == "" {
		defaultStatus = StatusApproved
	}
	payload := make([]BulkEntry, 0, len(entries))
	for _, e := range entries {
		status := defaultStatus
		if edit, ok := overlay[e.EntryID]; ok && edit.Status != nil {
			status = *edit.Status
		}
		row := BulkEntry{
			EntryID:        e.EntryID,
			EmployeeID:     e.EmployeeID,
			Status:         status,
			ManagerComment: overlay.ResolvedManagerComment(e),
			TotalHours:     overlay.ResolvedHours(e),
		}
		if row.Status == StatusRejected && strings.TrimSpace(row.ManagerComment) == "" {
			return nil, ErrManagerCommentRequired
		}
		payload = append(payload, row)
	}
	return payload, nil
}
