package timesheet

import (
	"fmt"
	"time"

	"github.com/babralau/timesheet-web-go/internal/pkg/validator"
)

// ViewRequest drives the table-view endpoints: the client posts its
// full ViewState and receives the derived rows back.
type ViewRequest struct {
	State ViewState `json:"state"`
}

func validateWindow(w DateWindow, errs validator.ValidationErrors) validator.ValidationErrors {
	switch w.Kind {
	case WindowToday, "":
	case WindowWeek:
		if w.SelectedDay != nil && (*w.SelectedDay < 0 || *w.SelectedDay > 6) {
			errs = append(errs, validator.ValidationError{
				Field:   "window.selected_day",
				Message: "selected_day must be between 0 (Monday) and 6 (Sunday)",
			})
		}
	case WindowMonth:
		if w.Month < time.January || w.Month > time.December {
			errs = append(errs, validator.ValidationError{
				Field:   "window.month",
				Message: "month must be between 1 and 12",
			})
		}
		if w.SelectedWeek != nil && (*w.SelectedWeek < 0 || *w.SelectedWeek >= maxWeeksPerMonth) {
			errs = append(errs, validator.ValidationError{
				Field:   "window.selected_week",
				Message: "selected_week is out of range for a month",
			})
		}
	default:
		errs = append(errs, validator.ValidationError{
			Field:   "window.kind",
			Message: "kind must be one of today, week, month",
		})
	}
	return errs
}

func (r *ViewRequest) Validate() error {
	var errs validator.ValidationErrors
	errs = validateWindow(r.State.Window, errs)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CreateEntryRequest mirrors the add-row form. The json tags follow
// the upstream wire names.
type CreateEntryRequest struct {
	EmployeeID int      `json:"EmployeeID"`
	ProjectID  string   `json:"ProjectID"`
	Category   Category `json:"Cateogary"`
	TaskID     string   `json:"TaskID"`
	Task       string   `json:"Task"`
	Date       string   `json:"Date"`
	TotalHours float64  `json:"TotalHours"`
	Comment    string   `json:"Comment"`
}

func (r *CreateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "Date",
			Message: "Date is required in YYYY-MM-DD form",
		})
	}
	if !r.Category.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "Cateogary",
			Message: "Cateogary must be one of the fixed categories",
		})
	}
	if validator.IsEmpty(r.ProjectID) {
		errs = append(errs, validator.ValidationError{
			Field:   "ProjectID",
			Message: "ProjectID is required",
		})
	}
	if validator.IsEmpty(r.Task) {
		errs = append(errs, validator.ValidationError{
			Field:   "Task",
			Message: "Task is required",
		})
	}
	if r.TotalHours <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "TotalHours",
			Message: "TotalHours must be more than 0",
		})
	} else if cap := HourCap(r.ProjectID); r.TotalHours > cap {
		errs = append(errs, validator.ValidationError{
			Field:   "TotalHours",
			Message: fmt.Sprintf("Total Hours cannot be more than %g", cap),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateEntryRequest resubmits an edited entry; the upstream API
// resets it to Draft regardless of its previous status.
type UpdateEntryRequest struct {
	EntryID int `json:"EntryID"`
	CreateEntryRequest
}

func (r *UpdateEntryRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.EntryID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "EntryID",
			Message: "EntryID is required",
		})
	}
	if err := r.CreateEntryRequest.Validate(); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DeleteEntryRequest removes a draft or rejected entry owned by the
// acting employee.
type DeleteEntryRequest struct {
	EntryID    int    `json:"EntryID"`
	EmployeeID int    `json:"EmployeeID"`
	Status     Status `json:"Status"`
}

func (r *DeleteEntryRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.EntryID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "EntryID",
			Message: "EntryID is required",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SubmitRequest promotes the drafts visible under the posted state to
// Pending.
type SubmitRequest struct {
	State ViewState `json:"state"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors
	errs = validateWindow(r.State.Window, errs)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ApproveRequest performs the bulk approval action over the posted
// state: Action is the batch default status ("" means Approved), the
// overlay carries per-row overrides.
type ApproveRequest struct {
	State  ViewState `json:"state"`
	Action Status    `json:"action,omitempty"`
}

func (r *ApproveRequest) Validate() error {
	var errs validator.ValidationErrors
	errs = validateWindow(r.State.Window, errs)
	if r.Action != "" && !r.Action.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be a valid status",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
