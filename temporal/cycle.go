package temporal

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/meenmo/actuslib/calendar"
)

// ErrInvalidCycle reports a cycle string outside the [0-9]+[DWMQHY][+-]? grammar.
var ErrInvalidCycle = errors.New("temporal: invalid cycle")

// CycleUnit is the period unit of a schedule cycle.
type CycleUnit byte

const (
	UnitDay      CycleUnit = 'D'
	UnitWeek     CycleUnit = 'W'
	UnitMonth    CycleUnit = 'M'
	UnitQuarter  CycleUnit = 'Q'
	UnitHalfYear CycleUnit = 'H'
	UnitYear     CycleUnit = 'Y'
)

// Stub marks where a partial period may sit when the cycle does not divide
// the anchor-to-end span evenly.
type Stub int

const (
	// StubEnd keeps all cycled dates and closes the schedule with a short
	// final period ending at the terminal date. This is the default and the
	// meaning of a trailing '+'.
	StubEnd Stub = iota
	// StubBegin generates the grid backward from the terminal date, leaving
	// the short period at the start. Written as a trailing '-'.
	StubBegin
)

// Cycle is a parsed schedule period such as 3M+ or 1Y.
type Cycle struct {
	Multiplier int
	Unit       CycleUnit
	Stub       Stub
	explicit   bool // stub sign present in the source string
}

var cyclePattern = regexp.MustCompile(`^([0-9]+)([DWMQHY])([+-]?)$`)

// ParseCycle parses a cycle string of the form nU with an optional stub sign.
func ParseCycle(s string) (Cycle, error) {
	m := cyclePattern.FindStringSubmatch(s)
	if m == nil {
		return Cycle{}, fmt.Errorf("%w: %q", ErrInvalidCycle, s)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n == 0 {
		return Cycle{}, fmt.Errorf("%w: %q", ErrInvalidCycle, s)
	}
	c := Cycle{Multiplier: n, Unit: CycleUnit(m[2][0])}
	switch m[3] {
	case "+":
		c.Stub = StubEnd
		c.explicit = true
	case "-":
		c.Stub = StubBegin
		c.explicit = true
	}
	return c, nil
}

// String formats the cycle back to its canonical form.
func (c Cycle) String() string {
	s := fmt.Sprintf("%d%c", c.Multiplier, c.Unit)
	if !c.explicit {
		return s
	}
	if c.Stub == StubBegin {
		return s + "-"
	}
	return s + "+"
}

// Months returns the period length in months for month-based units.
func (c Cycle) Months() (int, bool) {
	switch c.Unit {
	case UnitMonth:
		return c.Multiplier, true
	case UnitQuarter:
		return 3 * c.Multiplier, true
	case UnitHalfYear:
		return 6 * c.Multiplier, true
	case UnitYear:
		return 12 * c.Multiplier, true
	default:
		return 0, false
	}
}

// AddPeriods returns anchor + k cycle periods. Month arithmetic clamps to
// the last day of the target month when the anchor day overflows it, but the
// clamping is computed from the anchor each time, never from an already
// clamped date, so Jan 30 + 2 months is Mar 30.
func AddPeriods(anchor time.Time, c Cycle, k int) time.Time {
	switch c.Unit {
	case UnitDay:
		return anchor.AddDate(0, 0, k*c.Multiplier)
	case UnitWeek:
		return anchor.AddDate(0, 0, 7*k*c.Multiplier)
	default:
		months, _ := c.Months()
		return AddMonths(anchor, k*months)
	}
}

// AddMonths behaves like Excel's EDATE, avoiding Go's month normalization
// surprises: the day of month is preserved, clamped to the target month's
// last day when shorter.
func AddMonths(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	last := time.Date(firstOfTarget.Year(), firstOfTarget.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	day := t.Day()
	if day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// Expand generates the schedule grid from anchor to end inclusive.
//
// Dates are anchor + k periods for k = 0, 1, ... so day clamping never
// drifts. The end date is part of the grid exactly when it lands on a cycle
// multiple; otherwise it is appended (StubEnd) or the grid is rebuilt
// backward from end (StubBegin). When eom is set and the anchor is the last
// day of its month, month-based grids clamp every date to month end.
func Expand(anchor, end time.Time, c Cycle, eom bool) ([]time.Time, error) {
	if c.Multiplier <= 0 {
		return nil, ErrInvalidCycle
	}
	if end.Before(anchor) {
		return nil, fmt.Errorf("temporal: schedule end %s before anchor %s",
			end.Format("2006-01-02"), anchor.Format("2006-01-02"))
	}
	applyEOM := eom && calendar.IsEndOfMonth(anchor) && monthBased(c.Unit)

	if c.Stub == StubBegin {
		var out []time.Time
		for k := 0; ; k++ {
			d := AddPeriods(end, c, -k)
			if d.Before(anchor) {
				break
			}
			out = append(out, d)
		}
		reverse(out)
		if len(out) == 0 || !out[0].Equal(anchor) {
			out = append([]time.Time{anchor}, out...)
		}
		return roll(out, applyEOM), nil
	}

	var out []time.Time
	for k := 0; ; k++ {
		d := AddPeriods(anchor, c, k)
		if applyEOM {
			d = toMonthEnd(d)
		}
		if d.After(end) {
			break
		}
		out = append(out, d)
	}
	if len(out) == 0 || !out[len(out)-1].Equal(end) {
		out = append(out, end)
	}
	return out, nil
}

func monthBased(u CycleUnit) bool {
	return u == UnitMonth || u == UnitQuarter || u == UnitHalfYear || u == UnitYear
}

func toMonthEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

func roll(dates []time.Time, eom bool) []time.Time {
	if !eom {
		return dates
	}
	out := make([]time.Time, len(dates))
	for i, d := range dates {
		out[i] = toMonthEnd(d)
	}
	return out
}

func reverse(dates []time.Time) {
	for i, j := 0, len(dates)-1; i < j; i, j = i+1, j-1 {
		dates[i], dates[j] = dates[j], dates[i]
	}
}
