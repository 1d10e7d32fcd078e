package calendar

import "time"

// easterSunday computes Gregorian Easter via the anonymous algorithm.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// nthWeekday returns the n-th given weekday of a month (n >= 1).
func nthWeekday(year int, month time.Month, wd time.Weekday, n int) time.Time {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(wd) - int(t.Weekday()) + 7) % 7
	return t.AddDate(0, 0, offset+(n-1)*7)
}

// lastWeekday returns the last given weekday of a month.
func lastWeekday(year int, month time.Month, wd time.Weekday) time.Time {
	t := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	offset := (int(t.Weekday()) - int(wd) + 7) % 7
	return t.AddDate(0, 0, -offset)
}

// observedWeekday shifts weekend holidays to the nearest weekday:
// Saturday to Friday, Sunday to Monday.
func observedWeekday(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, -1)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	default:
		return t
	}
}

// observedForward shifts weekend holidays forward to Monday (or Tuesday
// when Monday is itself taken, as for UK Boxing Day).
func observedForward(t time.Time, taken map[string]struct{}) time.Time {
	for t.Weekday() == time.Saturday || t.Weekday() == time.Sunday || contains(taken, t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

func contains(set map[string]struct{}, t time.Time) bool {
	_, ok := set[t.Format("2006-01-02")]
	return ok
}

func targetHolidayRules(year int) []time.Time {
	easter := easterSunday(year)
	return []time.Time{
		time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		easter.AddDate(0, 0, -2), // Good Friday
		easter.AddDate(0, 0, 1),  // Easter Monday
		time.Date(year, time.May, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 26, 0, 0, 0, 0, time.UTC),
	}
}

func nyseHolidayRules(year int) []time.Time {
	easter := easterSunday(year)
	days := []time.Time{
		observedWeekday(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)),
		nthWeekday(year, time.January, time.Monday, 3),  // Martin Luther King Jr.
		nthWeekday(year, time.February, time.Monday, 3), // Washington's Birthday
		easter.AddDate(0, 0, -2),                        // Good Friday
		lastWeekday(year, time.May, time.Monday),        // Memorial Day
		nthWeekday(year, time.September, time.Monday, 1), // Labor Day
		nthWeekday(year, time.November, time.Thursday, 4), // Thanksgiving
		observedWeekday(time.Date(year, time.July, 4, 0, 0, 0, 0, time.UTC)),
		observedWeekday(time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC)),
	}
	if year >= 2022 {
		days = append(days, observedWeekday(time.Date(year, time.June, 19, 0, 0, 0, 0, time.UTC)))
	}
	return days
}

func ukHolidayRules(year int) []time.Time {
	easter := easterSunday(year)
	taken := map[string]struct{}{}
	mark := func(t time.Time) time.Time {
		taken[t.Format("2006-01-02")] = struct{}{}
		return t
	}
	days := []time.Time{
		mark(observedForward(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), taken)),
		mark(easter.AddDate(0, 0, -2)),
		mark(easter.AddDate(0, 0, 1)),
		mark(nthWeekday(year, time.May, time.Monday, 1)), // Early May bank holiday
		mark(lastWeekday(year, time.May, time.Monday)),   // Spring bank holiday
		mark(lastWeekday(year, time.August, time.Monday)), // Summer bank holiday
	}
	christmas := mark(observedForward(time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC), taken))
	boxing := mark(observedForward(time.Date(year, time.December, 26, 0, 0, 0, 0, time.UTC), taken))
	return append(days, christmas, boxing)
}
