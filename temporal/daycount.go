package temporal

import (
	"time"

	"github.com/meenmo/actuslib/calendar"
)

// DayCountConvention selects the year-fraction basis.
type DayCountConvention string

const (
	A360       DayCountConvention = "A360"   // actual/360
	A365       DayCountConvention = "A365"   // actual/365 fixed
	AA         DayCountConvention = "AA"     // actual/actual
	ThirtyE360 DayCountConvention = "30E360" // 30E/360 eurobond
	Thirty360  DayCountConvention = "30360"  // 30/360 US bond basis
	B252       DayCountConvention = "B252"   // business/252
)

// Known reports whether the convention is one of the supported tokens.
func (d DayCountConvention) Known() bool {
	switch d {
	case A360, A365, AA, ThirtyE360, Thirty360, B252:
		return true
	}
	return false
}

func days(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24
}

func daysInYear(year int) float64 {
	if isLeap(year) {
		return 366
	}
	return 365
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// YearFraction computes the year fraction between two dates under the
// given day-count convention. B252 counts business days on cal; the other
// conventions ignore it. The result is zero iff start equals end.
func YearFraction(start, end time.Time, dcc DayCountConvention, cal calendar.ID) float64 {
	if end.Before(start) {
		return -YearFraction(end, start, dcc, cal)
	}
	switch dcc {
	case A360:
		return days(start, end) / 360.0
	case A365:
		return days(start, end) / 365.0
	case AA:
		return actualActual(start, end)
	case ThirtyE360:
		d1 := min30(start.Day())
		d2 := min30(end.Day())
		return thirty360(start, end, d1, d2)
	case Thirty360:
		d1 := start.Day()
		if d1 == 31 {
			d1 = 30
		}
		d2 := end.Day()
		if d2 == 31 && d1 >= 30 {
			d2 = 30
		}
		return thirty360(start, end, d1, d2)
	case B252:
		return float64(calendar.CountBusinessDays(cal, start, end)) / 252.0
	default:
		// Unknown tokens never reach here: attribute validation rejects them.
		return days(start, end) / 365.0
	}
}

func min30(d int) int {
	if d > 30 {
		return 30
	}
	return d
}

func thirty360(start, end time.Time, d1, d2 int) float64 {
	y1, m1 := start.Year(), int(start.Month())
	y2, m2 := end.Year(), int(end.Month())
	return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0
}

// actualActual sums per-year day fractions across each calendar year crossed.
func actualActual(start, end time.Time) float64 {
	if start.Year() == end.Year() {
		return days(start, end) / daysInYear(start.Year())
	}
	firstYearEnd := time.Date(start.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	f := days(start, firstYearEnd) / daysInYear(start.Year())
	f += float64(end.Year() - start.Year() - 1)
	lastYearStart := time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return f + days(lastYearStart, end)/daysInYear(end.Year())
}
