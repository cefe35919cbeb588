package timesheet

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/babralau/timesheet-web-go/internal/domain/timesheet"
	"github.com/babralau/timesheet-web-go/internal/domain/user"
	"github.com/babralau/timesheet-web-go/internal/pkg/upstream"
	"github.com/babralau/timesheet-web-go/internal/pkg/validator"
	"github.com/google/uuid"
)

// Upstream is the slice of the external API client the view service
// consumes.
type Upstream interface {
	Entries(ctx context.Context, employeeIDs []int) ([]timesheet.Entry, error)
	EmployeeOptions(ctx context.Context) ([]upstream.Option, error)
	ProjectOptions(ctx context.Context) ([]upstream.Option, error)
	CreateEntry(ctx context.Context, req timesheet.CreateEntryRequest) error
	UpdateEntry(ctx context.Context, req timesheet.UpdateEntryRequest) error
	DeleteEntry(ctx context.Context, req timesheet.DeleteEntryRequest) error
	BulkUpdateStatus(ctx context.Context, entryIDs []int, status timesheet.Status, modifiedBy string) error
	BulkApprove(ctx context.Context, entries []timesheet.BulkEntry) error
}

// Service derives table views from upstream entry collections and
// forwards writes. All filtering and aggregation is pure computation
// over the posted ViewState; the only state held here is a small fetch
// cache keyed by the requested employee-id set.
type Service struct {
	upstream Upstream
	logger   *slog.Logger
	now      func() time.Time

	// Fetch bookkeeping: identical id sets are not re-issued, and a
	// generation counter keeps a superseded fetch from overwriting the
	// cache entry a newer one wrote.
	mu         sync.Mutex
	cachedIDs  []int
	cachedRows []timesheet.Entry
	cacheValid bool
	fetchGen   atomic.Uint64
}

func NewService(up Upstream, logger *slog.Logger) *Service {
	return &Service{
		upstream: up,
		logger:   logger,
		now:      time.Now,
	}
}

// Row is one rendered table line: the authoritative entry with overlay
// values resolved over it and catalog labels attached.
type Row struct {
	timesheet.Entry
	EmployeeName   string           `json:"employee_name"`
	ProjectName    string           `json:"project_name"`
	Hours          float64          `json:"hours"`
	RowStatus      timesheet.Status `json:"row_status"`
	ManagerComment string           `json:"manager_comment"`
	Editable       bool             `json:"editable"`
}

// ViewResult is everything a table view renders: rows, the footer
// total with its indicator, navigation bounds and the option catalogs.
// RequestID is set only when the entry fetch failed and the view was
// served empty; it matches the request_id on the fetch diagnostics so
// a degraded screen can be tied to its log lines.
type ViewResult struct {
	Rows            []Row               `json:"rows"`
	TotalHours      float64             `json:"total_hours"`
	Indicator       timesheet.Indicator `json:"indicator"`
	MinWeekOffset   int                 `json:"min_week_offset"`
	MaxWeekOffset   int                 `json:"max_week_offset"`
	EmployeeOptions []upstream.Option   `json:"employee_options"`
	ProjectOptions  []upstream.Option   `json:"project_options"`
	RequestID       string              `json:"request_id,omitempty"`
}

// fetchIDs decides which employee collections to request: the employee
// facet when active, otherwise the whole visibility scope. A nil
// result asks the upstream for everything (unrestricted managers).
func fetchIDs(state timesheet.ViewState, scope timesheet.Scope) []int {
	if state.Selection.Active(timesheet.FacetEmployee) {
		values := state.Selection.Values(timesheet.FacetEmployee)
		ids := make([]int, 0, len(values))
		for _, v := range values {
			if id, err := strconv.Atoi(v); err == nil {
				ids = append(ids, id)
			}
		}
		return ids
	}
	if scope == nil {
		return nil
	}
	return append([]int(nil), scope...)
}

func sameIDSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]int(nil), a...)
	bs := append([]int(nil), b...)
	sort.Ints(as)
	sort.Ints(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// entries returns the collection for the id set, from cache when the
// requested set matches the last fetch. Every network fetch carries a
// request id tying its log lines together; on failure the id is
// returned with degraded set so callers can surface it. Fetch failures
// degrade to an empty collection so the view stays usable.
func (s *Service) entries(ctx context.Context, ids []int) (rows []timesheet.Entry, requestID string, degraded bool) {
	s.mu.Lock()
	if s.cacheValid && sameIDSet(ids, s.cachedIDs) {
		rows = s.cachedRows
		s.mu.Unlock()
		return rows, "", false
	}
	s.mu.Unlock()

	gen := s.fetchGen.Add(1)
	requestID = uuid.NewString()

	rows, err := s.upstream.Entries(ctx, ids)
	if err != nil {
		s.logger.Error("fetching timesheet entries failed, serving empty collection",
			"request_id", requestID, "employee_ids", ids, "error", err)
		return nil, requestID, true
	}
	s.logger.Debug("fetched timesheet entries",
		"request_id", requestID, "employee_ids", ids, "count", len(rows))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetchGen.Load() != gen {
		// A newer fetch finished while this one was in flight; serve
		// the stale rows to this caller but leave the cache alone.
		return rows, requestID, false
	}
	s.cachedIDs = append([]int(nil), ids...)
	s.cachedRows = rows
	s.cacheValid = true
	return rows, requestID, false
}

// invalidate drops the fetch cache after a successful write so the
// next view reflects the upstream state.
func (s *Service) invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cacheValid = false
}

// catalogs fetches the label lookup tables; failures degrade to empty
// catalogs (dropdowns show no options, labels fall back to raw ids).
func (s *Service) catalogs(ctx context.Context) (employees, projects []upstream.Option) {
	var err error
	if employees, err = s.upstream.EmployeeOptions(ctx); err != nil {
		s.logger.Error("fetching employee options failed", "error", err)
		employees = nil
	}
	if projects, err = s.upstream.ProjectOptions(ctx); err != nil {
		s.logger.Error("fetching project options failed", "error", err)
		projects = nil
	}
	return employees, projects
}

// View derives a table view from the posted state. When worklist is
// true the rows carry the approval view's fixed Pending/Approved
// restriction on top of the user's facets.
func (s *Service) View(ctx context.Context, u user.User, state timesheet.ViewState, worklist bool) ViewResult {
	state.Init()
	today := s.now()
	scope := timesheet.ResolveScope(u)

	collection, requestID, degraded := s.entries(ctx, fetchIDs(state, scope))
	visible := timesheet.DeriveVisibleRows(collection, state, today, scope, worklist)
	employees, projects := s.catalogs(ctx)

	rows := make([]Row, 0, len(visible))
	for _, e := range visible {
		rows = append(rows, Row{
			Entry:          e,
			EmployeeName:   upstream.Label(employees, strconv.Itoa(e.EmployeeID)),
			ProjectName:    upstream.Label(projects, e.ProjectID),
			Hours:          state.Overlay.ResolvedHours(e),
			RowStatus:      state.Overlay.ResolvedStatus(e),
			ManagerComment: state.Overlay.ResolvedManagerComment(e),
			Editable:       e.Editable(),
		})
	}

	total := timesheet.TotalHours(visible)
	minOffset, maxOffset := timesheet.WeekOffsetBounds(today)
	result := ViewResult{
		Rows:            rows,
		TotalHours:      total,
		Indicator:       timesheet.Classify(total, state.Window),
		MinWeekOffset:   minOffset,
		MaxWeekOffset:   maxOffset,
		EmployeeOptions: employees,
		ProjectOptions:  projects,
	}
	if degraded {
		result.RequestID = requestID
	}
	return result
}

// Create validates and forwards a new entry. The entry date must fall
// inside the active window's allowed range.
func (s *Service) Create(ctx context.Context, u user.User, req timesheet.CreateEntryRequest, window timesheet.DateWindow) error {
	if req.EmployeeID == 0 {
		req.EmployeeID = u.EmployeeID
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if !timesheet.ResolveScope(u).Allows(req.EmployeeID) {
		return timesheet.ErrNotOwner
	}
	date, _ := validator.IsValidDate(req.Date)
	min, max := timesheet.EntryDateLimits(window, s.now())
	if date.Before(min) || date.After(max) {
		return validator.ValidationErrors{{
			Field:   "Date",
			Message: "Date is outside the allowed range for this view",
		}}
	}
	if err := s.upstream.CreateEntry(ctx, req); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Update forwards an edit; the upstream resets the entry to Draft.
func (s *Service) Update(ctx context.Context, u user.User, req timesheet.UpdateEntryRequest) error {
	if req.EmployeeID == 0 {
		req.EmployeeID = u.EmployeeID
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if !timesheet.ResolveScope(u).Allows(req.EmployeeID) {
		return timesheet.ErrNotOwner
	}
	if err := s.upstream.UpdateEntry(ctx, req); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Delete removes an entry, allowed only while it is Draft or Rejected
// and owned by the acting employee.
func (s *Service) Delete(ctx context.Context, u user.User, req timesheet.DeleteEntryRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if req.EmployeeID != 0 && req.EmployeeID != u.EmployeeID {
		return timesheet.ErrNotOwner
	}
	if req.Status != "" && req.Status != timesheet.StatusDraft && req.Status != timesheet.StatusRejected {
		return timesheet.ErrEntryLocked
	}
	req.EmployeeID = u.EmployeeID
	if err := s.upstream.DeleteEntry(ctx, req); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Submit promotes the drafts visible under the state to Pending. The
// window total must sit inside the healthy band first; outside it the
// employee needs a manager's sign-off.
func (s *Service) Submit(ctx context.Context, u user.User, state timesheet.ViewState) error {
	state.Init()
	today := s.now()
	scope := timesheet.ResolveScope(u)

	collection, _, _ := s.entries(ctx, fetchIDs(state, scope))
	rows := timesheet.DeriveVisibleRows(collection, state, today, scope, false)
	if timesheet.Classify(timesheet.TotalHours(rows), state.Window) != timesheet.IndicatorGreen {
		return timesheet.ErrOutsideThreshold
	}

	var draftIDs []int
	for _, e := range rows {
		if e.Status == timesheet.StatusDraft {
			draftIDs = append(draftIDs, e.EntryID)
		}
	}
	if len(draftIDs) == 0 {
		return timesheet.ErrNoDraftEntries
	}
	if err := s.upstream.BulkUpdateStatus(ctx, draftIDs, timesheet.StatusPending, "admin"); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Approve runs the bulk approval action: resolve the overlay over the
// selected worklist rows, validate, and submit as one unit. The caller
// clears its overlay and row selection and re-fetches on success.
func (s *Service) Approve(ctx context.Context, u user.User, state timesheet.ViewState, action timesheet.Status) error {
	state.Init()
	today := s.now()
	scope := timesheet.ResolveScope(u)

	collection, _, _ := s.entries(ctx, fetchIDs(state, scope))
	rows := timesheet.DeriveVisibleRows(collection, state, today, scope, true)
	target := state.SelectedEntries(rows)

	payload, err := timesheet.BuildBulkPayload(target, state.Overlay, action)
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		return timesheet.ErrNoEntriesSelected
	}
	if err := s.upstream.BulkApprove(ctx, payload); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// IsValidation reports whether an error is client-local validation
// rather than an upstream failure.
func IsValidation(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs) ||
		errors.Is(err, timesheet.ErrManagerCommentRequired) ||
		errors.Is(err, timesheet.ErrOutsideThreshold) ||
		errors.Is(err, timesheet.ErrNoDraftEntries) ||
		errors.Is(err, timesheet.ErrNoEntriesSelected)
}
