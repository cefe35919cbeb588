package timesheet

import (
	"testing"
	"time"
)

func TestTotalHours(t *testing.T) {
	entries := []Entry{
		{TotalHours: Hours("3")},
		{TotalHours: Hours("2.5")},
		{TotalHours: Hours("oops")},
		{TotalHours: Hours("")},
	}
	if got := TotalHours(entries); got != 5.5 {
		t.Fatalf("TotalHours = %v, want 5.5 (unparseable values count as zero)", got)
	}
}

func TestClassifyBands(t *testing.T) {
	cases := []struct {
		window DateWindow
		total  float64
		want   Indicator
	}{
		{TodayWindow(), 5.9, IndicatorRed},
		{TodayWindow(), 6, IndicatorGreen},
		{TodayWindow(), 10, IndicatorGreen},
		{TodayWindow(), 10.1, IndicatorRed},
		{WeekWindow(0), 34.9, IndicatorRed},
		{WeekWindow(0), 35, IndicatorGreen},
		{WeekWindow(0), 45, IndicatorGreen},
		{WeekWindow(0), 45.1, IndicatorRed},
		{MonthWindow(time.June), 139, IndicatorRed},
		{MonthWindow(time.June), 140, IndicatorGreen},
		{MonthWindow(time.June), 160, IndicatorGreen},
		{MonthWindow(time.June), 161, IndicatorRed},
	}
	for _, c := range cases {
		if got := Classify(c.total, c.window); got != c.want {
			t.Errorf("Classify(%v, %s) = %s, want %s", c.total, c.window.Kind, got, c.want)
		}
	}
}

func TestClassifyUnknownKindIsGreen(t *testing.T) {
	if got := Classify(0, DateWindow{Kind: "custom"}); got != IndicatorGreen {
		t.Fatalf("Classify without a band = %s, want green", got)
	}
}

func TestClassifyWeekOffsetDoesNotChangeBand(t *testing.T) {
	if Classify(40, WeekWindow(-3)) != IndicatorGreen {
		t.Fatal("the band depends on the kind, not the offset")
	}
}
