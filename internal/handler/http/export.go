package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/babralau/timesheet-web-go/internal/domain/timesheet"
	"github.com/babralau/timesheet-web-go/internal/handler/http/middleware"
	"github.com/babralau/timesheet-web-go/internal/handler/http/response"
	"github.com/babralau/timesheet-web-go/internal/pkg/upstream"
	exportsvc "github.com/babralau/timesheet-web-go/internal/service/export"
)

// Collection is the slice of the upstream client the export handler
// reads from.
type Collection interface {
	Entries(ctx context.Context, employeeIDs []int) ([]timesheet.Entry, error)
	EmployeeOptions(ctx context.Context) ([]upstream.Option, error)
	ProjectOptions(ctx context.Context) ([]upstream.Option, error)
}

type ExportHandler interface {
	Download(w http.ResponseWriter, r *http.Request)
	ImportWeek(w http.ResponseWriter, r *http.Request)
}

type ExportHandlerImpl struct {
	collection Collection
	exporter   *exportsvc.Service
	logger     *slog.Logger
}

func NewExportHandler(collection Collection, exporter *exportsvc.Service, logger *slog.Logger) ExportHandler {
	return &ExportHandlerImpl{
		collection: collection,
		exporter:   exporter,
		logger:     logger,
	}
}

// exportRequest carries the state whose visible rows get exported.
type exportRequest struct {
	State timesheet.ViewState `json:"state"`
}

// Download renders the rows visible under the posted state into a
// workbook, one worksheet per employee.
func (h *ExportHandlerImpl) Download(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFromContext(r.Context())

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	req.State.Init()

	scope := timesheet.ResolveScope(u)
	entries, err := h.collection.Entries(r.Context(), scope)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	rows := timesheet.DeriveVisibleRows(entries, req.State, time.Now(), scope, false)

	// Missing catalogs degrade the export to raw ids, not a failure.
	employees, err := h.collection.EmployeeOptions(r.Context())
	if err != nil {
		h.logger.Error("fetching employee options failed", "error", err)
		employees = nil
	}
	projects, err := h.collection.ProjectOptions(r.Context())
	if err != nil {
		h.logger.Error("fetching project options failed", "error", err)
		projects = nil
	}

	f, err := h.exporter.BuildWorkbook(rows, employees, projects)
	if err != nil {
		h.logger.Error("building export workbook failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	filename := fmt.Sprintf("timesheet-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := f.Write(w); err != nil {
		h.logger.Error("writing export workbook failed", "error", err)
	}
}

// ImportWeek validates an uploaded weekly sheet against the selected
// week and reports the parsed rows and any issues. The client creates
// entries from the accepted rows through the normal entry endpoint.
func (h *ExportHandlerImpl) ImportWeek(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart body", nil)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "A workbook file is required", nil)
		return
	}
	defer file.Close()

	weekOffset := 0
	if v := r.FormValue("week_offset"); v != "" {
		if weekOffset, err = strconv.Atoi(v); err != nil {
			response.Error(w, http.StatusBadRequest, "week_offset must be an integer", nil)
			return
		}
	}

	result, err := h.exporter.ParseWeek(file, time.Now(), weekOffset)
	if err != nil {
		h.logger.Warn("parsing import workbook failed", "error", err)
		response.Error(w, http.StatusBadRequest, "Could not read the workbook", nil)
		return
	}
	if !result.OK() {
		response.Error(w, http.StatusUnprocessableEntity, "Import validation failed", result)
		return
	}
	response.Success(w, http.StatusOK, "Import validated", result)
}
