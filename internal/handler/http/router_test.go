package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/babralau/timesheet-web-go/internal/config"
	"github.com/babralau/timesheet-web-go/internal/domain/auth"
	"github.com/babralau/timesheet-web-go/internal/domain/timesheet"
	"github.com/babralau/timesheet-web-go/internal/domain/user"
	"github.com/babralau/timesheet-web-go/internal/pkg/jwt"
	"github.com/babralau/timesheet-web-go/internal/pkg/upstream"
	exportsvc "github.com/babralau/timesheet-web-go/internal/service/export"
	timesheetsvc "github.com/babralau/timesheet-web-go/internal/service/timesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUpstream satisfies both the view service and the auth/export
// handler interfaces.
type fakeUpstream struct {
	entries    []timesheet.Entry
	optionsErr error
	users      map[string]user.User
}

func (f *fakeUpstream) Entries(context.Context, []int) ([]timesheet.Entry, error) {
	return f.entries, nil
}
func (f *fakeUpstream) EmployeeOptions(context.Context) ([]upstream.Option, error) {
	return nil, f.optionsErr
}
func (f *fakeUpstream) ProjectOptions(context.Context) ([]upstream.Option, error) {
	return nil, f.optionsErr
}
func (f *fakeUpstream) CreateEntry(context.Context, timesheet.CreateEntryRequest) error { return nil }
func (f *fakeUpstream) UpdateEntry(context.Context, timesheet.UpdateEntryRequest) error { return nil }
func (f *fakeUpstream) DeleteEntry(context.Context, timesheet.DeleteEntryRequest) error { return nil }
func (f *fakeUpstream) BulkUpdateStatus(context.Context, []int, timesheet.Status, string) error {
	return nil
}
func (f *fakeUpstream) BulkApprove(context.Context, []timesheet.BulkEntry) error { return nil }

func (f *fakeUpstream) Login(_ context.Context, username, password string) (user.User, error) {
	u, ok := f.users[username]
	if !ok || password != "secret" {
		return user.User{}, auth.ErrInvalidCredentials
	}
	return u, nil
}
func (f *fakeUpstream) ChangePassword(context.Context, auth.ChangePasswordRequest) error { return nil }
func (f *fakeUpstream) AddUser(context.Context, auth.AddUserRequest) error              { return nil }

func testRouter(t *testing.T, fake *fakeUpstream) (http.Handler, jwt.Service) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.App.FrontendURL = "http://localhost:3000"

	jwtService := jwt.NewJWTService("router-test-secret", "1h")
	timesheetSvc := timesheetsvc.NewService(fake, logger)
	exportSvc := exportsvc.NewService(logger)

	router := NewRouter(
		cfg,
		jwtService,
		NewAuthHandler(fake, jwtService, nil, logger),
		NewTimesheetHandler(timesheetSvc, logger),
		NewExportHandler(fake, exportSvc, logger),
	)
	return router, jwtService
}

func bearerFor(t *testing.T, jwtService jwt.Service, u user.User) string {
	t.Helper()
	token, _, err := jwtService.GenerateAccessToken(u)
	require.NoError(t, err)
	return "Bearer " + token
}

func postJSON(t *testing.T, router http.Handler, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	encoded, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLoginIssuesToken(t *testing.T) {
	fake := &fakeUpstream{users: map[string]user.User{
		"asha": {EmployeeID: 7, Username: "asha", IsManager: true},
	}}
	router, _ := testRouter(t, fake)

	rec := postJSON(t, router, "/api/v1/auth/login", "", auth.LoginRequest{Username: "asha", Password: "secret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.AccessToken)

	rec = postJSON(t, router, "/api/v1/auth/login", "", auth.LoginRequest{Username: "asha", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestViewRequiresAuth(t *testing.T) {
	router, _ := testRouter(t, &fakeUpstream{})
	rec := postJSON(t, router, "/api/v1/timesheet/view", "", timesheet.ViewRequest{State: timesheet.NewViewState()})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestViewReturnsDerivedRows(t *testing.T) {
	now := time.Now()
	fake := &fakeUpstream{entries: []timesheet.Entry{
		{EntryID: 1, EmployeeID: 5, ProjectID: "2", Category: timesheet.CategoryDev,
			Date: timesheet.NewDate(now.Year(), now.Month(), now.Day()), TotalHours: timesheet.Hours("3"), Status: timesheet.StatusDraft},
	}}
	router, jwtService := testRouter(t, fake)
	bearer := bearerFor(t, jwtService, user.User{EmployeeID: 5, Username: "dev"})

	state := timesheet.NewViewState()
	rec := postJSON(t, router, "/api/v1/timesheet/view", bearer, timesheet.ViewRequest{State: state})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data timesheetsvc.ViewResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Rows, 1)
	assert.Equal(t, 3.0, resp.Data.TotalHours)
}

func TestApprovalRequiresManager(t *testing.T) {
	router, jwtService := testRouter(t, &fakeUpstream{})

	employee := bearerFor(t, jwtService, user.User{EmployeeID: 5})
	rec := postJSON(t, router, "/api/v1/timesheet/approval/view", employee, timesheet.ViewRequest{State: timesheet.NewViewState()})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	manager := bearerFor(t, jwtService, user.User{EmployeeID: 1, IsManager: true})
	rec = postJSON(t, router, "/api/v1/timesheet/approval/view", manager, timesheet.ViewRequest{State: timesheet.NewViewState()})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestExportOpenToEmployees(t *testing.T) {
	now := time.Now()
	fake := &fakeUpstream{entries: []timesheet.Entry{
		{EntryID: 1, EmployeeID: 5, ProjectID: "2", Category: timesheet.CategoryDev,
			Date: timesheet.NewDate(now.Year(), now.Month(), now.Day()), TotalHours: timesheet.Hours("3"), Status: timesheet.StatusDraft},
	}}
	router, jwtService := testRouter(t, fake)
	bearer := bearerFor(t, jwtService, user.User{EmployeeID: 5, Username: "dev"})

	rec := postJSON(t, router, "/api/v1/timesheet/export", bearer, exportRequest{State: timesheet.NewViewState()})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
}

func TestImportOpenToEmployees(t *testing.T) {
	router, jwtService := testRouter(t, &fakeUpstream{})
	bearer := bearerFor(t, jwtService, user.User{EmployeeID: 5})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("week_offset", "0"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/timesheet/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", bearer)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// The route is open to any authenticated user; only the upload is
	// missing here.
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "A workbook file is required")
}

func TestExportSurvivesCatalogFailure(t *testing.T) {
	now := time.Now()
	fake := &fakeUpstream{
		entries: []timesheet.Entry{
			{EntryID: 1, EmployeeID: 5, ProjectID: "2", Category: timesheet.CategoryDev,
				Date: timesheet.NewDate(now.Year(), now.Month(), now.Day()), TotalHours: timesheet.Hours("3"), Status: timesheet.StatusDraft},
		},
		optionsErr: &upstream.FetchError{Op: "employee options", Err: errors.New("timeout")},
	}
	router, jwtService := testRouter(t, fake)
	bearer := bearerFor(t, jwtService, user.User{EmployeeID: 5})

	rec := postJSON(t, router, "/api/v1/timesheet/export", bearer, exportRequest{State: timesheet.NewViewState()})
	require.Equal(t, http.StatusOK, rec.Code, "missing catalogs degrade labels, not the export")
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestSubmitGateSurfacesContractMessage(t *testing.T) {
	now := time.Now()
	fake := &fakeUpstream{entries: []timesheet.Entry{
		{EntryID: 1, EmployeeID: 5, ProjectID: "2", Category: timesheet.CategoryDev,
			Date: timesheet.NewDate(now.Year(), now.Month(), now.Day()), TotalHours: timesheet.Hours("1"), Status: timesheet.StatusDraft},
	}}
	router, jwtService := testRouter(t, fake)
	bearer := bearerFor(t, jwtService, user.User{EmployeeID: 5})

	state := timesheet.NewViewState()
	rec := postJSON(t, router, "/api/v1/timesheet/submit", bearer, timesheet.SubmitRequest{State: state})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please take manager's approval before submitting.")
}
