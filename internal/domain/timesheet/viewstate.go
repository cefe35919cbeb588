package timesheet

import "time"

// ViewState is the complete, serializable state of one table view:
// facet selection, date window, pending row edits and the row
// selection set. Views are thin renderers over a ViewState plus
// DeriveVisibleRows; no other mutable state exists client-side.
type ViewState struct {
	Selection    Selection  `json:"selection,omitempty"`
	Window       DateWindow `json:"window"`
	Overlay      Overlay    `json:"overlay,omitempty"`
	SelectedRows []int      `json:"selected_rows,omitempty"`
}

// NewViewState returns the entry view's initial state: today's window,
// nothing filtered, nothing pending.
func NewViewState() ViewState {
	return ViewState{
		Selection: NewSelection(),
		Window:    TodayWindow(),
		Overlay:   NewOverlay(),
	}
}

// init fills in zero-valued containers after JSON decoding so the
// mutating helpers are always safe to call.
func (v *ViewState) Init() {
	if v.Selection == nil {
		v.Selection = NewSelection()
	}
	if v.Overlay == nil {
		v.Overlay = NewOverlay()
	}
	if v.Window.Kind == "" {
		v.Window = TodayWindow()
	}
}

// DeriveVisibleRows is the single filtering pipeline every view uses.
func DeriveVisibleRows(entries []Entry, v ViewState, today time.Time, scope Scope, worklist bool) []Entry {
	return VisibleRows(entries, v.Selection, v.Window, today, scope, worklist)
}

// SelectedEntries narrows rows to the view's row selection; an empty
// selection means the whole visible set (the "Submit All" path).
func (v ViewState) SelectedEntries(rows []Entry) []Entry {
	if len(v.SelectedRows) == 0 {
		return rows
	}
	selected := make(map[int]bool, len(v.SelectedRows))
	for _, id := range v.SelectedRows {
		selected[id] = true
	}
	out := make([]Entry, 0, len(rows))
	for _, e := range rows {
		if selected[e.EntryID] {
			out = append(out, e)
		}
	}
	return out
}
