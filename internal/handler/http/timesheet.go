package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/babralau/timesheet-web-go/internal/domain/timesheet"
	"github.com/babralau/timesheet-web-go/internal/handler/http/middleware"
	"github.com/babralau/timesheet-web-go/internal/handler/http/response"
	timesheetsvc "github.com/babralau/timesheet-web-go/internal/service/timesheet"
)

type TimesheetHandler interface {
	EntryView(w http.ResponseWriter, r *http.Request)
	ApprovalView(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Categories(w http.ResponseWriter, r *http.Request)
}

type TimesheetHandlerImpl struct {
	service *timesheetsvc.Service
	logger  *slog.Logger
}

func NewTimesheetHandler(service *timesheetsvc.Service, logger *slog.Logger) TimesheetHandler {
	return &TimesheetHandlerImpl{service: service, logger: logger}
}

// EntryView derives the personal entry table from the posted state.
func (h *TimesheetHandlerImpl) EntryView(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFromContext(r.Context())

	var req timesheet.ViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	result := h.service.View(r.Context(), u, req.State, false)
	response.Success(w, http.StatusOK, "", result)
}

// ApprovalView derives the reviewer worklist. A request without a
// window lands on the previous week, where completed submissions
// usually are.
func (h *TimesheetHandlerImpl) ApprovalView(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFromContext(r.Context())

	var req timesheet.ViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if req.State.Window.Kind == "" {
		req.State.Window = timesheet.WeekWindow(-1)
	}
	req.State.Init()
	// First visit starts on the first managed employee rather than the
	// whole team.
	if scope := timesheet.ResolveScope(u); len(scope) > 0 && !req.State.Selection.Active(timesheet.FacetEmployee) {
		req.State.Selection.SetAll(timesheet.FacetEmployee, []string{strconv.Itoa(scope[0])})
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	result := h.service.View(r.Context(), u, req.State, true)
	response.Success(w, http.StatusOK, "", result)
}

// createRequest wraps the entry form with the window it was opened
// from, which bounds the allowed dates.
type createRequest struct {
	Entry  timesheet.CreateEntryRequest `json:"entry"`
	Window timesheet.DateWindow         `json:"window"`
}

func (h *TimesheetHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFromContext(r.Context())

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.service.Create(r.Context(), u, req.Entry, req.Window); err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "Entry created", nil)
}

func (h *TimesheetHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFromContext(r.Context())

	var req timesheet.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.service.Update(r.Context(), u, req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Entry updated", nil)
}

func (h *TimesheetHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFromContext(r.Context())

	var req timesheet.DeleteEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.service.Delete(r.Context(), u, req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Entry deleted", nil)
}

// Submit promotes the visible drafts to Pending.
func (h *TimesheetHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFromContext(r.Context())

	var req timesheet.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	if err := h.service.Submit(r.Context(), u, req.State); err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Entries submitted for approval", nil)
}

// Approve runs the bulk approval action over the posted state.
func (h *TimesheetHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFromContext(r.Context())

	var req timesheet.ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	if err := h.service.Approve(r.Context(), u, req.State, req.Action); err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Approval submitted", nil)
}

// Categories returns the fixed category list for the entry form.
func (h *TimesheetHandlerImpl) Categories(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "", timesheet.Categories())
}
