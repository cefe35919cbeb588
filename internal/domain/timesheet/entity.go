package timesheet

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status of a timesheet entry. Entries start as Draft, move to Pending on
// submission, and are then either Approved or Rejected by a reviewer.
// Rejected entries can be edited and resubmitted as Draft.
type Status string

const (
	StatusDraft    Status = "Draft"
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Category of work an entry is logged against.
type Category string

const (
	CategoryDev        Category = "Dev"
	CategoryBug        Category = "Bug"
	CategoryTest       Category = "Test"
	CategoryMeeting    Category = "Meeting"
	CategorySupport    Category = "Support"
	CategoryOther      Category = "Other"
	CategoryAssistance Category = "Assistance"
)

// Categories returns the fixed category list in display order.
func Categories() []Category {
	return []Category{
		CategoryDev, CategoryBug, CategoryTest, CategoryMeeting,
		CategorySupport, CategoryOther, CategoryAssistance,
	}
}

func (c Category) IsValid() bool {
	for _, v := range Categories() {
		if c == v {
			return true
		}
	}
	return false
}

// LeaveProjectID is the project id the upstream catalog uses for the
// "Leave" project. Leave days may be logged at up to 8 hours, every
// other project is capped at 3.
const LeaveProjectID = "4"

const (
	LeaveHourCap   = 8
	DefaultHourCap = 3
)

// HourCap returns the maximum hours a single entry may carry for the
// given project.
func HourCap(projectID string) float64 {
	if projectID == LeaveProjectID {
		return LeaveHourCap
	}
	return DefaultHourCap
}

// ClampHours limits hours to the per-project cap. Negative values are
// left alone; the upstream API rejects them anyway.
func ClampHours(hours float64, projectID string) float64 {
	if cap := HourCap(projectID); hours > cap {
		return cap
	}
	return hours
}

// Date is a calendar date. The upstream API is loose about the wire
// form (plain dates, full timestamps), so unmarshalling accepts both;
// comparisons always ignore the time of day.
type Date struct {
	time.Time
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{t}, nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q", s)
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = parsed.Time
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.Format("2006-01-02"))
}

// SameDay reports whether two moments fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// Hours is a decimal hour count as the upstream API sends it: sometimes
// a JSON number, sometimes a quoted string. Unparseable values count as
// zero when aggregated.
type Hours string

func (h *Hours) UnmarshalJSON(b []byte) error {
	*h = Hours(strings.Trim(string(b), `"`))
	return nil
}

func (h Hours) MarshalJSON() ([]byte, error) {
	if f, err := strconv.ParseFloat(string(h), 64); err == nil {
		return json.Marshal(f)
	}
	return json.Marshal(string(h))
}

// Value returns the parsed hour count, or 0 for unparseable input.
func (h Hours) Value() float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(h)), 64)
	if err != nil {
		return 0
	}
	return f
}

func HoursOf(f float64) Hours {
	return Hours(strconv.FormatFloat(f, 'f', -1, 64))
}

// Entry is a single timesheet record, owned by the upstream API. The
// json tags follow the upstream wire names, including its misspelled
// "Cateogary" field.
type Entry struct {
	EntryID        int      `json:"EntryID"`
	EmployeeID     int      `json:"EmployeeID"`
	ProjectID      string   `json:"ProjectID"`
	Category       Category `json:"Cateogary"`
	TaskID         string   `json:"TaskID"`
	Task           string   `json:"Task"`
	Date           Date     `json:"Date"`
	TotalHours     Hours    `json:"TotalHours"`
	Status         Status   `json:"Status"`
	Comment        string   `json:"Comment"`
	ManagerComment string   `json:"ManagerComment"`
}

// Editable reports whether the owning employee may still change or
// delete the entry. Submitted and approved entries are locked.
func (e Entry) Editable() bool {
	return e.Status == StatusDraft || e.Status == StatusRejected
}

// InWorklist reports whether the entry belongs on a reviewer's
// approval worklist. Drafts and already-rejected entries are excluded
// by a fixed condition, not by a user-selectable facet.
func (e Entry) InWorklist() bool {
	return e.Status == StatusPending || e.Status == StatusApproved
}
