package timesheet

import (
	"sort"
	"strconv"
	"time"
)

// Matches decides whether one entry is visible under the current facet
// selection, date window and visibility scope. Facet tests combine
// conjunctively; each one applies the empty-means-all convention. The
// scope test runs first and is not relaxable by the user's own filter
// choices.
func Matches(e Entry, sel Selection, window DateWindow, today time.Time, scope Scope) bool {
	if !scope.Allows(e.EmployeeID) {
		return false
	}
	return sel.passes(FacetEmployee, strconv.Itoa(e.EmployeeID)) &&
		sel.passes(FacetProject, e.ProjectID) &&
		sel.passes(FacetCategory, string(e.Category)) &&
		sel.passes(FacetStatus, string(e.Status)) &&
		window.Contains(today, e.Date.Time)
}

// VisibleRows filters the entry collection through Matches and sorts
// the survivors by date ascending, the order every table renders in.
// When worklist is true the rows are additionally restricted to the
// approval worklist statuses (Pending/Approved) regardless of the
// status facet.
func VisibleRows(entries []Entry, sel Selection, window DateWindow, today time.Time, scope Scope, worklist bool) []Entry {
	rows := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if worklist && !e.InWorklist() {
			continue
		}
		if Matches(e, sel, window, today, scope) {
			rows = append(rows, e)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Time.Before(rows[j].Date.Time)
	})
	return rows
}
