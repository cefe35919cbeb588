package timesheet

import "time"

// WindowKind selects the active date-range mode of a view.
type WindowKind string

const (
	WindowToday WindowKind = "today"
	WindowWeek  WindowKind = "week"
	WindowMonth WindowKind = "month"
)

// DateWindow describes which dates a view shows. It is a tagged union:
// Kind decides which of the remaining fields matter.
//
//   - WindowToday: no parameters.
//   - WindowWeek: Offset counts weeks from the week containing today
//     (0 = this week, -1 = previous). SelectedDay, if set, narrows the
//     window to one weekday (0 = Monday .. 6 = Sunday).
//   - WindowMonth: Month is the calendar month of the current year.
//     SelectedWeek, if set, narrows to one of the Monday-anchored
//     weeks returned by WeeksInMonth.
type DateWindow struct {
	Kind         WindowKind `json:"kind"`
	Offset       int        `json:"offset,omitempty"`
	SelectedDay  *int       `json:"selected_day,omitempty"`
	Month        time.Month `json:"month,omitempty"`
	SelectedWeek *int       `json:"selected_week,omitempty"`
}

// TodayWindow is the default window for the entry view.
func TodayWindow() DateWindow { return DateWindow{Kind: WindowToday} }

// WeekWindow shows a whole Monday-anchored week.
func WeekWindow(offset int) DateWindow {
	return DateWindow{Kind: WindowWeek, Offset: offset}
}

// MonthWindow shows a calendar month of the current year.
func MonthWindow(month time.Month) DateWindow {
	return DateWindow{Kind: WindowMonth, Month: month}
}

// dateOnly normalizes a moment to midnight UTC so that day arithmetic
// is immune to time zones and DST.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MondayOf returns the Monday of the week containing t. Weeks start on
// Monday regardless of locale.
func MondayOf(t time.Time) time.Time {
	d := dateOnly(t)
	// time.Weekday puts Sunday at 0; shift so Monday is 0.
	back := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -back)
}

// WeekDates returns the 7 dates Monday..Sunday of the week that is
// offset weeks away from the week containing today.
func WeekDates(today time.Time, offset int) [7]time.Time {
	monday := MondayOf(today).AddDate(0, 0, offset*7)
	var days [7]time.Time
	for i := range days {
		days[i] = monday.AddDate(0, 0, i)
	}
	return days
}

// maxWeeksPerMonth bounds WeeksInMonth; no calendar month spans more
// Monday-anchored weeks than this.
const maxWeeksPerMonth = 6

// WeeksInMonth returns the ordered [start, end] pairs of every
// Monday-anchored week intersecting the given month. The first week
// may start in the prior month and the last may end in the next one.
func WeeksInMonth(year int, month time.Month) [][2]time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	weeks := make([][2]time.Time, 0, maxWeeksPerMonth)
	start := MondayOf(first)
	for i := 0; i < maxWeeksPerMonth; i++ {
		end := start.AddDate(0, 0, 6)
		weeks = append(weeks, [2]time.Time{start, end})
		if !end.Before(last) {
			break
		}
		start = start.AddDate(0, 0, 7)
	}
	return weeks
}

// weekDiff counts whole weeks between two Mondays.
func weekDiff(a, b time.Time) int {
	days := int(a.Sub(b) / (24 * time.Hour))
	return days / 7
}

// WeekOffsetBounds returns the smallest and largest week offsets that
// keep Previous/Next Week navigation inside the calendar year of
// today: the signed distances from the current week's Monday to the
// Mondays of the weeks containing Jan 1 and Dec 31.
func WeekOffsetBounds(today time.Time) (min, max int) {
	year := today.Year()
	current := MondayOf(today)
	first := MondayOf(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
	last := MondayOf(time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC))
	return weekDiff(first, current), weekDiff(last, current)
}

// Contains reports whether a calendar date falls inside the window,
// evaluated relative to today. Time of day never matters.
func (w DateWindow) Contains(today, date time.Time) bool {
	switch w.Kind {
	case WindowToday:
		return SameDay(date, today)
	case WindowWeek:
		days := WeekDates(today, w.Offset)
		if w.SelectedDay != nil {
			i := *w.SelectedDay
			if i < 0 || i >= len(days) {
				return false
			}
			return SameDay(date, days[i])
		}
		for _, d := range days {
			if SameDay(date, d) {
				return true
			}
		}
		return false
	case WindowMonth:
		if w.SelectedWeek != nil {
			weeks := WeeksInMonth(today.Year(), w.Month)
			i := *w.SelectedWeek
			if i < 0 || i >= len(weeks) {
				return false
			}
			d := dateOnly(date)
			// A week straddling a month boundary only counts for the
			// month being viewed.
			return !d.Before(weeks[i][0]) && !d.After(weeks[i][1]) && date.Month() == w.Month
		}
		return date.Month() == w.Month && date.Year() == today.Year()
	}
	return true
}

// entryDateSlack bounds how far from today a new entry may be dated.
const entryDateSlack = 15

// EntryDateLimits returns the allowed [min, max] date range for a new
// entry under the given window, clamped to 15 days either side of
// today.
func EntryDateLimits(w DateWindow, today time.Time) (min, max time.Time) {
	d := dateOnly(today)
	switch w.Kind {
	case WindowWeek:
		days := WeekDates(today, w.Offset)
		min, max = days[0], days[6]
	case WindowMonth:
		min = time.Date(today.Year(), w.Month, 1, 0, 0, 0, 0, time.UTC)
		max = min.AddDate(0, 1, -1)
	default:
		min, max = d, d
	}
	lo := d.AddDate(0, 0, -entryDateSlack)
	hi := d.AddDate(0, 0, entryDateSlack)
	if min.Before(lo) {
		min = lo
	}
	if max.After(hi) {
		max = hi
	}
	return min, max
}
