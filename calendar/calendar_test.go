package calendar_test

import (
	"testing"
	"time"

	"github.com/meenmo/actuslib/calendar"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNoHolidayAcceptsWeekends(t *testing.T) {
	if !calendar.IsBusinessDay(calendar.NoHoliday, date(2024, time.March, 16)) {
		t.Error("NC calendar should treat Saturday as a business day")
	}
}

func TestWeekdayCalendar(t *testing.T) {
	if calendar.IsBusinessDay(calendar.Weekday, date(2024, time.March, 16)) {
		t.Error("Saturday is not a business day on MF")
	}
	if !calendar.IsBusinessDay(calendar.Weekday, date(2024, time.March, 18)) {
		t.Error("Monday is a business day on MF")
	}
}

func TestTargetHolidays(t *testing.T) {
	holidays := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.March, 29), // Good Friday
		date(2024, time.April, 1),  // Easter Monday
		date(2024, time.May, 1),
		date(2024, time.December, 25),
		date(2024, time.December, 26),
	}
	for _, h := range holidays {
		if calendar.IsBusinessDay(calendar.Target, h) {
			t.Errorf("%v should be a TARGET holiday", h)
		}
	}
	if !calendar.IsBusinessDay(calendar.Target, date(2024, time.May, 2)) {
		t.Error("2024-05-02 is a TARGET business day")
	}
}

func TestNYSEJuneteenth(t *testing.T) {
	if calendar.IsBusinessDay(calendar.NYSE, date(2023, time.June, 19)) {
		t.Error("Juneteenth 2023 is an NYSE holiday")
	}
	// Not observed before 2022.
	if !calendar.IsBusinessDay(calendar.NYSE, date(2019, time.June, 19)) {
		t.Error("2019-06-19 was a regular NYSE session")
	}
}

func TestNYSEObservedIndependenceDay(t *testing.T) {
	// 2026-07-04 is a Saturday; observed Friday 2026-07-03.
	if calendar.IsBusinessDay(calendar.NYSE, date(2026, time.July, 3)) {
		t.Error("2026-07-03 observes Independence Day")
	}
}

func TestUKBoxingDayObservation(t *testing.T) {
	// 2021-12-25 Sat and 2021-12-26 Sun: observed Mon 27 and Tue 28.
	for _, d := range []time.Time{date(2021, time.December, 27), date(2021, time.December, 28)} {
		if calendar.IsBusinessDay(calendar.UKSettlement, d) {
			t.Errorf("%v should be a UK bank holiday", d)
		}
	}
}

func TestAddBusinessDays(t *testing.T) {
	// Friday plus two business days lands on Tuesday.
	got := calendar.AddBusinessDays(calendar.Weekday, date(2024, time.March, 15), 2)
	if want := date(2024, time.March, 19); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	// And back again.
	got = calendar.AddBusinessDays(calendar.Weekday, got, -2)
	if want := date(2024, time.March, 15); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCountBusinessDays(t *testing.T) {
	// (Fri, next Fri]: Mon through Fri.
	got := calendar.CountBusinessDays(calendar.Weekday, date(2024, time.January, 5), date(2024, time.January, 12))
	if got != 5 {
		t.Errorf("got %d, want 5", got)
	}
	if calendar.CountBusinessDays(calendar.Weekday, date(2024, time.January, 12), date(2024, time.January, 5)) != -5 {
		t.Error("reversed span should negate the count")
	}
}

func TestIsEndOfMonth(t *testing.T) {
	if !calendar.IsEndOfMonth(date(2024, time.February, 29)) {
		t.Error("leap-year February 29 is month end")
	}
	if calendar.IsEndOfMonth(date(2024, time.March, 30)) {
		t.Error("March 30 is not month end")
	}
}
