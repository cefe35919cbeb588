// Package export builds and parses the Excel interchange format for
// timesheet entries: one workbook per export with a worksheet per
// employee, and a weekly import template going the other way.
package export

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/babralau/timesheet-web-go/internal/domain/timesheet"
	"github.com/babralau/timesheet-web-go/internal/pkg/upstream"
	"github.com/xuri/excelize/v2"
)

// Header is the fixed column layout shared by export and import.
var Header = []string{
	"S.No", "Date", "Employee Name", "Category", "Project",
	"TaskID", "Task", "Hours", "Status", "Comment", "ManagerComment",
}

const (
	headerFill = "FF0070C0"
	bandFill   = "FFEAF3FB"
	totalFill  = "FFFDE9D9"
)

type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

var sheetNameStrip = regexp.MustCompile(`[^a-zA-Z0-9 _-]`)

// sheetName sanitizes an employee name into a legal worksheet name:
// Excel forbids several punctuation characters and caps names at 31
// runes.
func sheetName(name string, employeeID int) string {
	clean := strings.TrimSpace(sheetNameStrip.ReplaceAllString(name, ""))
	if clean == "" {
		clean = fmt.Sprintf("Employee %d", employeeID)
	}
	if len(clean) > 31 {
		clean = clean[:31]
	}
	return clean
}

// BuildWorkbook renders the entry collection into a styled workbook,
// one worksheet per employee with a total row and an autofilter over
// the data range.
func (s *Service) BuildWorkbook(entries []timesheet.Entry, employees, projects []upstream.Option) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	bandStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{bandFill}},
	})
	if err != nil {
		return nil, err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{totalFill}},
	})
	if err != nil {
		return nil, err
	}

	// Group by employee, preserving first-seen order.
	var order []int
	grouped := map[int][]timesheet.Entry{}
	for _, e := range entries {
		if _, seen := grouped[e.EmployeeID]; !seen {
			order = append(order, e.EmployeeID)
		}
		grouped[e.EmployeeID] = append(grouped[e.EmployeeID], e)
	}

	for i, employeeID := range order {
		name := upstream.Label(employees, strconv.Itoa(employeeID))
		sheet := sheetName(name, employeeID)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}

		if err := f.SetSheetRow(sheet, "A1", &Header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, "A1", "K1", headerStyle); err != nil {
			return nil, err
		}

		var total float64
		for j, e := range grouped[employeeID] {
			rowNum := j + 2
			hours := e.TotalHours.Value()
			total += hours
			row := []any{
				j + 1,
				e.Date.Format("2006-01-02"),
				name,
				string(e.Category),
				upstream.Label(projects, e.ProjectID),
				e.TaskID,
				e.Task,
				hours,
				string(e.Status),
				e.Comment,
				e.ManagerComment,
			}
			cell := fmt.Sprintf("A%d", rowNum)
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return nil, err
			}
			if rowNum%2 == 0 {
				end := fmt.Sprintf("K%d", rowNum)
				if err := f.SetCellStyle(sheet, cell, end, bandStyle); err != nil {
					return nil, err
				}
			}
		}

		totalRow := len(grouped[employeeID]) + 2
		if err := f.SetCellValue(sheet, fmt.Sprintf("G%d", totalRow), "Total Hours ="); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("H%d", totalRow), total); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("K%d", totalRow), totalStyle); err != nil {
			return nil, err
		}

		filterRange := fmt.Sprintf("A1:K%d", totalRow-1)
		if err := f.AutoFilter(sheet, filterRange, nil); err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, "B", "B", 12); err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, "C", "G", 20); err != nil {
			return nil, err
		}
	}

	if len(order) == 0 {
		// Empty export still gets the header so the file doubles as an
		// import template.
		if err := f.SetSheetRow("Sheet1", "A1", &Header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle("Sheet1", "A1", "K1", headerStyle); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// ImportRow is one accepted line of an imported weekly sheet.
type ImportRow struct {
	Date     time.Time `json:"date"`
	Category string    `json:"category"`
	Project  string    `json:"project"`
	TaskID   string    `json:"task_id"`
	Task     string    `json:"task"`
	Hours    float64   `json:"hours"`
	Comment  string    `json:"comment"`
}

// RowIssue pins a validation failure to its worksheet line.
type RowIssue struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult carries the accepted rows and every issue found; the
// import is applied only when Issues is empty.
type ImportResult struct {
	Rows       []ImportRow `json:"rows"`
	Issues     []RowIssue  `json:"issues"`
	TotalHours float64     `json:"total_hours"`
}

func (r ImportResult) OK() bool { return len(r.Issues) == 0 }

// Weekly import totals must land inside the same healthy band the
// submission gate enforces.
const (
	weekMinHours = 35
	weekMaxHours = 45
)

// excelEpoch is day zero of Excel's serial date system. Excel counts
// from 1900-01-01 as serial 1 but also invents 1900-02-29, so
// 1899-12-30 makes every serial from 61 on land on the right day.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

var importDateLayouts = []string{"02/01/06", "02/01/2006", "2006-01-02"}

// parseCellDate accepts the date forms spreadsheets round-trip through:
// dd/mm/yy, dd/mm/yyyy, ISO, or a raw Excel serial number.
func parseCellDate(cell string) (time.Time, error) {
	cell = strings.TrimSpace(cell)
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, nil
		}
	}
	if serial, err := strconv.ParseFloat(cell, 64); err == nil && serial > 0 {
		days := int(serial)
		if days < 61 {
			// Before the phantom leap day the serial runs one short.
			days++
		}
		return excelEpoch.AddDate(0, 0, days), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", cell)
}

// hourCap mirrors the entry rules: anything labelled leave allows a
// full day, project work tops out at three hours.
func hourCap(category, project string) float64 {
	if strings.Contains(strings.ToLower(category), "leave") ||
		strings.Contains(strings.ToLower(project), "leave") {
		return timesheet.LeaveHourCap
	}
	return timesheet.DefaultHourCap
}

// ParseWeek reads a weekly import sheet and validates it against the
// week the view is showing: header layout, date forms and membership,
// per-row hour caps and the weekly total band.
func (s *Service) ParseWeek(r io.Reader, today time.Time, weekOffset int) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{}, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ImportResult{}, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	var result ImportResult
	if len(rows) == 0 {
		result.Issues = append(result.Issues, RowIssue{Row: 1, Message: "missing header row"})
		return result, nil
	}
	for i, want := range Header {
		if i >= len(rows[0]) || !strings.EqualFold(strings.TrimSpace(rows[0][i]), want) {
			result.Issues = append(result.Issues, RowIssue{
				Row:     1,
				Message: fmt.Sprintf("header column %d must be %q", i+1, want),
			})
			return result, nil
		}
	}

	week := timesheet.WeekDates(today, weekOffset)
	weekStart, weekEnd := week[0], week[6]

	for i, row := range rows[1:] {
		lineNum := i + 2
		if isBlank(row) {
			continue
		}
		get := func(col int) string {
			if col < len(row) {
				return strings.TrimSpace(row[col])
			}
			return ""
		}
		// Skip the total row the export writes.
		if strings.HasPrefix(strings.ToLower(get(6)), "total hours") {
			continue
		}

		date, err := parseCellDate(get(1))
		if err != nil {
			result.Issues = append(result.Issues, RowIssue{Row: lineNum, Message: err.Error()})
			continue
		}
		if date.Before(weekStart) || date.After(weekEnd) {
			result.Issues = append(result.Issues, RowIssue{
				Row:     lineNum,
				Message: fmt.Sprintf("date %s is outside the selected week", date.Format("2006-01-02")),
			})
			continue
		}

		category, project := get(3), get(4)
		if category == "" || project == "" {
			result.Issues = append(result.Issues, RowIssue{Row: lineNum, Message: "category and project are required"})
			continue
		}

		hours, err := strconv.ParseFloat(get(7), 64)
		if err != nil || hours <= 0 {
			result.Issues = append(result.Issues, RowIssue{Row: lineNum, Message: "hours must be a positive number"})
			continue
		}
		if limit := hourCap(category, project); hours > limit {
			result.Issues = append(result.Issues, RowIssue{
				Row:     lineNum,
				Message: fmt.Sprintf("hours cannot exceed %g for this row", limit),
			})
			continue
		}

		result.TotalHours += hours
		result.Rows = append(result.Rows, ImportRow{
			Date:     date,
			Category: category,
			Project:  project,
			TaskID:   get(5),
			Task:     get(6),
			Hours:    hours,
			Comment:  get(9),
		})
	}

	if len(result.Rows) > 0 && (result.TotalHours < weekMinHours || result.TotalHours > weekMaxHours) {
		result.Issues = append(result.Issues, RowIssue{
			Row: 0,
			Message: fmt.Sprintf("weekly total %.1f hours must be between %d and %d",
				result.TotalHours, weekMinHours, weekMaxHours),
		})
	}
	return result, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
