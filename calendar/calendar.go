package calendar

import "time"

// ID identifies a holiday calendar.
type ID string

const (
	// NoHoliday treats every day, weekends included, as a business day.
	NoHoliday ID = "NC"
	// Weekday has no holidays; only Saturday and Sunday are non-business.
	Weekday ID = "MF"
	// Target is the TARGET2 settlement calendar (eurozone).
	Target ID = "TARGET"
	// NYSE is the New York Stock Exchange trading calendar.
	NYSE ID = "NYSE"
	// UKSettlement is the UK bank-holiday settlement calendar.
	UKSettlement ID = "UK"
)

var targetHolidays = map[string]struct{}{}
var nyseHolidays = map[string]struct{}{}
var ukHolidays = map[string]struct{}{}

// Holiday sets are materialized once for the supported year range.
// Dates outside the range fall back to weekend-only.
const (
	firstHolidayYear = 1990
	lastHolidayYear  = 2100
)

func init() {
	for y := firstHolidayYear; y <= lastHolidayYear; y++ {
		for _, d := range targetHolidayRules(y) {
			targetHolidays[d.Format("2006-01-02")] = struct{}{}
		}
		for _, d := range nyseHolidayRules(y) {
			nyseHolidays[d.Format("2006-01-02")] = struct{}{}
		}
		for _, d := range ukHolidayRules(y) {
			ukHolidays[d.Format("2006-01-02")] = struct{}{}
		}
	}
}

func isHoliday(cal ID, t time.Time) bool {
	key := t.Format("2006-01-02")
	switch cal {
	case Target:
		_, ok := targetHolidays[key]
		return ok
	case NYSE:
		_, ok := nyseHolidays[key]
		return ok
	case UKSettlement:
		_, ok := ukHolidays[key]
		return ok
	default:
		return false
	}
}

// IsBusinessDay checks weekends and holiday sets.
func IsBusinessDay(cal ID, t time.Time) bool {
	if cal == NoHoliday {
		return true
	}
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !isHoliday(cal, t)
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(cal ID, t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if IsBusinessDay(cal, t) {
			n -= step
		}
	}
	return t
}

// CountBusinessDays counts business days in (start, end], used by the
// business/252 day-count basis. Returns a negative count if end < start.
func CountBusinessDays(cal ID, start, end time.Time) int {
	if end.Before(start) {
		return -CountBusinessDays(cal, end, start)
	}
	n := 0
	for t := start.AddDate(0, 0, 1); !t.After(end); t = t.AddDate(0, 0, 1) {
		if IsBusinessDay(cal, t) {
			n++
		}
	}
	return n
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsEndOfMonth reports whether t is the last calendar day of its month.
func IsEndOfMonth(t time.Time) bool {
	return t.Day() == daysInMonth(t.Year(), t.Month())
}
