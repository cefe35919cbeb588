// Package upstream is the HTTP client for the external timesheet API,
// the sole owner of persistence, validation and authorization. This
// application only presents and filters what the API returns.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/babralau/timesheet-web-go/internal/domain/auth"
	"github.com/babralau/timesheet-web-go/internal/domain/timesheet"
	"github.com/babralau/timesheet-web-go/internal/domain/user"
)

// Option is one row of the employee or project catalog, used for label
// resolution. The catalogs are opaque lookup tables fetched once per
// view.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// The upstream API sends option values as numbers for employees and
// strings for projects; normalize both to strings.
func (o *Option) UnmarshalJSON(b []byte) error {
	var raw struct {
		Value json.RawMessage `json:"value"`
		Label string          `json:"label"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	o.Label = raw.Label
	o.Value = strings.Trim(string(raw.Value), `"`)
	return nil
}

// Label returns the display name for a value, falling back to the
// value itself when the catalog has no row for it.
func Label(options []Option, value string) string {
	for _, o := range options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// upstreamMessage is the API's error envelope; it uses "error" on some
// endpoints and "message" on others.
type upstreamMessage struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (m upstreamMessage) text() string {
	if m.Error != "" {
		return m.Error
	}
	return m.Message
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, string, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, "", err
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var msg upstreamMessage
		_ = json.NewDecoder(resp.Body).Decode(&msg)
		return resp.StatusCode, msg.text(), fmt.Errorf("status %d", resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, "", err
		}
	}
	return resp.StatusCode, "", nil
}

func (c *Client) read(ctx context.Context, op, path string, body, out any) error {
	if _, _, err := c.do(ctx, http.MethodPost, path, body, out); err != nil {
		return &FetchError{Op: op, Err: err}
	}
	return nil
}

func (c *Client) readGet(ctx context.Context, op, path string, out any) error {
	if _, _, err := c.do(ctx, http.MethodGet, path, nil, out); err != nil {
		return &FetchError{Op: op, Err: err}
	}
	return nil
}

func (c *Client) write(ctx context.Context, op, path string, body, out any) error {
	status, msg, err := c.do(ctx, http.MethodPost, path, body, out)
	if err != nil {
		return &SubmissionError{Op: op, StatusCode: status, Message: msg, Err: err}
	}
	return nil
}

// Entries fetches the entry collection for the given employee ids. An
// empty id list asks for everything the caller is allowed to see.
func (c *Client) Entries(ctx context.Context, employeeIDs []int) ([]timesheet.Entry, error) {
	body := map[string]any{}
	if len(employeeIDs) > 0 {
		body["EmployeeIDs"] = employeeIDs
	}
	var entries []timesheet.Entry
	if err := c.read(ctx, "entries", "/entries", body, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) EmployeeOptions(ctx context.Context) ([]Option, error) {
	var options []Option
	if err := c.readGet(ctx, "employeeOptions", "/employeeOptions", &options); err != nil {
		return nil, err
	}
	return options, nil
}

func (c *Client) ProjectOptions(ctx context.Context) ([]Option, error) {
	var options []Option
	if err := c.readGet(ctx, "projectOptions", "/projectOptions", &options); err != nil {
		return nil, err
	}
	return options, nil
}

// entryPayload is the create/edit wire shape.
type entryPayload struct {
	EntryID    int                `json:"EntryID,omitempty"`
	EmployeeID int                `json:"EmployeeID"`
	ProjectID  string             `json:"ProjectID"`
	Category   timesheet.Category `json:"Cateogary"`
	TaskID     string             `json:"TaskID"`
	Task       string             `json:"Task"`
	Date       string             `json:"Date"`
	TotalHours float64            `json:"TotalHours"`
	Comment    string             `json:"Comment"`
	Status     timesheet.Status   `json:"Status"`
	CreatedBy  string             `json:"CreatedBy,omitempty"`
	ModifiedBy string             `json:"ModifiedBy,omitempty"`
}

// CreateEntry stores a new entry; it always lands as Draft.
func (c *Client) CreateEntry(ctx context.Context, req timesheet.CreateEntryRequest) error {
	return c.write(ctx, "create entry", "/entry", entryPayload{
		EmployeeID: req.EmployeeID,
		ProjectID:  req.ProjectID,
		Category:   req.Category,
		TaskID:     req.TaskID,
		Task:       req.Task,
		Date:       req.Date,
		TotalHours: req.TotalHours,
		Comment:    req.Comment,
		Status:     timesheet.StatusDraft,
		CreatedBy:  "system",
	}, nil)
}

// UpdateEntry saves an edit; the entry returns to Draft for
// resubmission.
func (c *Client) UpdateEntry(ctx context.Context, req timesheet.UpdateEntryRequest) error {
	return c.write(ctx, "update entry", "/edit", entryPayload{
		EntryID:    req.EntryID,
		EmployeeID: req.EmployeeID,
		ProjectID:  req.ProjectID,
		Category:   req.Category,
		TaskID:     req.TaskID,
		Task:       req.Task,
		Date:       req.Date,
		TotalHours: req.TotalHours,
		Comment:    req.Comment,
		Status:     timesheet.StatusDraft,
		ModifiedBy: "system",
	}, nil)
}

func (c *Client) DeleteEntry(ctx context.Context, req timesheet.DeleteEntryRequest) error {
	return c.write(ctx, "delete entry", "/delete", req, nil)
}

// BulkUpdateStatus moves a set of entries to a new status in one call,
// the submission path for drafts.
func (c *Client) BulkUpdateStatus(ctx context.Context, entryIDs []int, status timesheet.Status, modifiedBy string) error {
	return c.write(ctx, "bulk update", "/bulk-update", map[string]any{
		"entryIds":   entryIDs,
		"status":     status,
		"modifiedBy": modifiedBy,
	}, nil)
}

// BulkApprove submits the approval payload. The API processes rows
// individually but the client treats the batch as one logical unit.
func (c *Client) BulkApprove(ctx context.Context, entries []timesheet.BulkEntry) error {
	return c.write(ctx, "bulk approve", "/bulk", map[string]any{
		"entries": entries,
	}, nil)
}

// Login verifies credentials against the upstream API and returns the
// identity context: employee id, roles, manager flag and the managed
// employee list that shapes the visibility scope.
func (c *Client) Login(ctx context.Context, username, password string) (user.User, error) {
	var resp struct {
		User loginUser `json:"user"`
	}
	status, msg, err := c.do(ctx, http.MethodPost, "/login", auth.LoginRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		if status == http.StatusUnauthorized || status == http.StatusBadRequest {
			c.logger.Warn("upstream rejected login", "username", username, "status", status, "message", msg)
			return user.User{}, auth.ErrInvalidCredentials
		}
		return user.User{}, &SubmissionError{Op: "login", StatusCode: status, Message: msg, Err: err}
	}
	return resp.User.toUser(), nil
}

// loginUser tolerates the upstream login payload's shape: roles as
// objects and managed employees as records.
type loginUser struct {
	EmployeeID int    `json:"EmployeeID"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsManager  bool   `json:"IsManager"`
	Roles      []struct {
		RoleName string `json:"roleName"`
	} `json:"roles"`
	ManagedEmployees []struct {
		EmployeeID int `json:"EmployeeID"`
	} `json:"managedEmployees"`
}

func (l loginUser) toUser() user.User {
	u := user.User{
		EmployeeID: l.EmployeeID,
		Username:   l.Username,
		Name:       l.Name,
		Email:      l.Email,
		IsManager:  l.IsManager,
	}
	for _, r := range l.Roles {
		u.Roles = append(u.Roles, r.RoleName)
	}
	for _, m := range l.ManagedEmployees {
		u.ManagedEmployees = append(u.ManagedEmployees, m.EmployeeID)
	}
	return u
}

func (c *Client) ChangePassword(ctx context.Context, req auth.ChangePasswordRequest) error {
	return c.write(ctx, "change password", "/changePassword", req, nil)
}

func (c *Client) AddUser(ctx context.Context, req auth.AddUserRequest) error {
	return c.write(ctx, "add user", "/addUser", req, nil)
}
