package timesheet

import (
	"testing"
	"time"
)

func testEntry(id, employeeID int, project string, category Category, status Status, date Date, hours string) Entry {
	return Entry{
		EntryID:    id,
		EmployeeID: employeeID,
		ProjectID:  project,
		Category:   category,
		Status:     status,
		Date:       date,
		TotalHours: Hours(hours),
	}
}

func TestMatchesFacetsAreConjunctive(t *testing.T) {
	today := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)
	e := testEntry(1, 7, "2", CategoryDev, StatusDraft, NewDate(2025, 6, 18), "3")

	sel := NewSelection()
	if !Matches(e, sel, TodayWindow(), today, nil) {
		t.Fatal("empty selection must match")
	}

	sel.Toggle(FacetProject, "2")
	sel.Toggle(FacetCategory, "Dev")
	if !Matches(e, sel, TodayWindow(), today, nil) {
		t.Fatal("entry matching every active facet must pass")
	}

	sel.Toggle(FacetStatus, "Approved")
	if Matches(e, sel, TodayWindow(), today, nil) {
		t.Fatal("one failing facet must reject the entry")
	}
}

func TestMatchesScopeBeatsEmployeeFacet(t *testing.T) {
	today := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)
	e := testEntry(1, 7, "2", CategoryDev, StatusDraft, NewDate(2025, 6, 18), "3")

	// Selecting employee 7 explicitly cannot widen a scope that
	// excludes them.
	sel := NewSelection()
	sel.Toggle(FacetEmployee, "7")
	if Matches(e, sel, TodayWindow(), today, Scope{5, 6}) {
		t.Fatal("scope must override the employee facet")
	}
	if !Matches(e, sel, TodayWindow(), today, Scope{7}) {
		t.Fatal("in-scope entry matching the facet must pass")
	}
}

func TestMatchesWindow(t *testing.T) {
	today := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)
	yesterday := testEntry(1, 7, "2", CategoryDev, StatusDraft, NewDate(2025, 6, 17), "3")

	if Matches(yesterday, NewSelection(), TodayWindow(), today, nil) {
		t.Fatal("today window must exclude yesterday")
	}
	if !Matches(yesterday, NewSelection(), WeekWindow(0), today, nil) {
		t.Fatal("week window must include yesterday")
	}
}

func TestVisibleRowsSortAndWorklist(t *testing.T) {
	today := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		testEntry(3, 7, "2", CategoryDev, StatusPending, NewDate(2025, 6, 18), "3"),
		testEntry(1, 7, "2", CategoryDev, StatusApproved, NewDate(2025, 6, 16), "3"),
		testEntry(2, 7, "2", CategoryDev, StatusDraft, NewDate(2025, 6, 17), "3"),
		testEntry(4, 7, "2", CategoryDev, StatusRejected, NewDate(2025, 6, 17), "3"),
	}

	rows := VisibleRows(entries, NewSelection(), WeekWindow(0), today, nil, false)
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Date.Time.Before(rows[i-1].Date.Time) {
			t.Fatal("rows must be sorted by date ascending")
		}
	}

	// The worklist keeps only Pending and Approved, regardless of the
	// status facet.
	worklist := VisibleRows(entries, NewSelection(), WeekWindow(0), today, nil, true)
	if len(worklist) != 2 {
		t.Fatalf("got %d worklist rows, want 2", len(worklist))
	}
	for _, e := range worklist {
		if !e.InWorklist() {
			t.Fatalf("status %s must not appear on the worklist", e.Status)
		}
	}

	sel := NewSelection()
	sel.Toggle(FacetStatus, string(StatusDraft))
	stillWorklist := VisibleRows(entries, sel, WeekWindow(0), today, nil, true)
	if len(stillWorklist) != 0 {
		t.Fatal("a Draft status facet cannot pull drafts onto the worklist")
	}
}

func TestDeriveVisibleRowsEndToEnd(t *testing.T) {
	today := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		testEntry(1, 5, "1", CategoryDev, StatusDraft, NewDate(2025, 6, 18), "3"),
		testEntry(2, 6, "1", CategoryDev, StatusDraft, NewDate(2025, 6, 18), "2"),
		testEntry(3, 5, "4", CategoryOther, StatusDraft, NewDate(2025, 6, 18), "8"),
		testEntry(4, 5, "1", CategoryDev, StatusDraft, NewDate(2025, 5, 1), "3"),
	}

	state := NewViewState()
	state.Selection.Toggle(FacetProject, "1")

	rows := DeriveVisibleRows(entries, state, today, Scope{5}, false)
	if len(rows) != 1 || rows[0].EntryID != 1 {
		t.Fatalf("got %v, want only entry 1", rows)
	}
}
