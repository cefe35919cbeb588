package timesheet

import "errors"

var (
	// ErrManagerCommentRequired carries the exact message the approval
	// view surfaces when a rejection is missing its comment.
	ErrManagerCommentRequired = errors.New("Manager comment is required for all rejected entries.")

	// ErrOutsideThreshold blocks bulk submission when the window total
	// is outside the healthy band.
	ErrOutsideThreshold = errors.New("Please take manager's approval before submitting.")

	ErrNoDraftEntries    = errors.New("No draft entries to update.")
	ErrNoEntriesSelected = errors.New("No entries selected for approval.")
	ErrEntryNotFound     = errors.New("Timesheet entry not found")
	ErrEntryLocked       = errors.New("Only draft or rejected entries can be changed")
	ErrNotOwner          = errors.New("Entry belongs to another employee")
)
