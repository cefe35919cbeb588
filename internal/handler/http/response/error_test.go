package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/babralau/timesheet-web-go/internal/domain/auth"
	"github.com/babralau/timesheet-web-go/internal/domain/timesheet"
	"github.com/babralau/timesheet-web-go/internal/pkg/upstream"
	"github.com/babralau/timesheet-web-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handle(t *testing.T, err error) (int, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	HandleError(rec, err)
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestHandleErrorValidation(t *testing.T) {
	code, resp := handle(t, validator.ValidationErrors{{Field: "Date", Message: "Date is required"}})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, resp.Success)
	details, ok := resp.Error.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Date is required", details["Date"])
}

func TestHandleErrorSentinelsKeepTheirMessages(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{timesheet.ErrOutsideThreshold, http.StatusUnprocessableEntity},
		{timesheet.ErrNoDraftEntries, http.StatusUnprocessableEntity},
		{timesheet.ErrNoEntriesSelected, http.StatusUnprocessableEntity},
		{timesheet.ErrManagerCommentRequired, http.StatusUnprocessableEntity},
		{timesheet.ErrEntryNotFound, http.StatusNotFound},
		{timesheet.ErrEntryLocked, http.StatusConflict},
		{timesheet.ErrNotOwner, http.StatusForbidden},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
	}
	for _, c := range cases {
		code, resp := handle(t, c.err)
		assert.Equal(t, c.code, code, c.err.Error())
		assert.Equal(t, c.err.Error(), resp.Message, "sentinel messages are part of the contract")
	}
}

func TestHandleErrorUpstream(t *testing.T) {
	code, resp := handle(t, &upstream.SubmissionError{
		Op: "bulk approve", StatusCode: http.StatusBadRequest,
		Message: "entry 2 is not pending", Err: errors.New("status 400"),
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "entry 2 is not pending", resp.Message)

	code, _ = handle(t, &upstream.SubmissionError{
		Op: "bulk approve", StatusCode: http.StatusBadGateway, Err: errors.New("status 502"),
	})
	assert.Equal(t, http.StatusBadGateway, code)

	code, _ = handle(t, &upstream.FetchError{Op: "entries", Err: errors.New("timeout")})
	assert.Equal(t, http.StatusBadGateway, code)
}

func TestHandleErrorUnknown(t *testing.T) {
	code, resp := handle(t, errors.New("surprise"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal server error", resp.Message)
}
