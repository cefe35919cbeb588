package response

import (
	"errors"
	"net/http"

	"github.com/babralau/timesheet-web-go/internal/domain/auth"
	"github.com/babralau/timesheet-web-go/internal/domain/timesheet"
	"github.com/babralau/timesheet-web-go/internal/pkg/upstream"
	"github.com/babralau/timesheet-web-go/internal/pkg/validator"
)

// HandleError maps domain and upstream errors onto HTTP statuses. The
// exact sentinel messages are part of the contract with the frontend
// and pass through unchanged.
func HandleError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		Error(w, http.StatusBadRequest, "Validation failed", verrs.ToMap())
		return
	}

	var submission *upstream.SubmissionError
	if errors.As(err, &submission) {
		status := http.StatusBadGateway
		if submission.StatusCode >= 400 && submission.StatusCode < 500 {
			status = submission.StatusCode
		}
		message := submission.Message
		if message == "" {
			message = "Upstream request failed"
		}
		Error(w, status, message, nil)
		return
	}

	var fetch *upstream.FetchError
	if errors.As(err, &fetch) {
		Error(w, http.StatusBadGateway, "Upstream request failed", nil)
		return
	}

	switch {
	case errors.Is(err, timesheet.ErrManagerCommentRequired),
		errors.Is(err, timesheet.ErrOutsideThreshold),
		errors.Is(err, timesheet.ErrNoDraftEntries),
		errors.Is(err, timesheet.ErrNoEntriesSelected):
		Error(w, http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, timesheet.ErrEntryNotFound):
		Error(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, timesheet.ErrEntryLocked):
		Error(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, timesheet.ErrNotOwner):
		Error(w, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, auth.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, auth.ErrInvalidToken):
		Error(w, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, auth.ErrUnknownGoogleUser):
		Error(w, http.StatusForbidden, err.Error(), nil)
	default:
		Error(w, http.StatusInternalServerError, "Internal server error", nil)
	}
}
