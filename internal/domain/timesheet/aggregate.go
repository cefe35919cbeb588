package timesheet

// Indicator is the footer status color of a table view.
type Indicator string

const (
	IndicatorGreen Indicator = "green"
	IndicatorRed   Indicator = "red"
)

// Healthy hour bands per window kind, inclusive on both ends.
const (
	todayMinHours = 6
	todayMaxHours = 10
	weekMinHours  = 35
	weekMaxHours  = 45
	monthMinHours = 140
	monthMaxHours = 160
)

// TotalHours sums the hours of a filtered entry collection.
// Unparseable values contribute zero rather than failing the sum.
func TotalHours(entries []Entry) float64 {
	var total float64
	for _, e := range entries {
		total += e.TotalHours.Value()
	}
	return total
}

// Classify maps a window total onto the footer indicator: green inside
// the window kind's healthy band, red outside. Window kinds without a
// defined band are always green.
func Classify(total float64, window DateWindow) Indicator {
	var min, max float64
	switch window.Kind {
	case WindowToday:
		min, max = todayMinHours, todayMaxHours
	case WindowWeek:
		min, max = weekMinHours, weekMaxHours
	case WindowMonth:
		min, max = monthMinHours, monthMaxHours
	default:
		return IndicatorGreen
	}
	if total >= min && total <= max {
		return IndicatorGreen
	}
	return IndicatorRed
}
