package temporal_test

import (
	"errors"
	"testing"
	"time"

	"github.com/meenmo/actuslib/temporal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseCycleRoundTrip(t *testing.T) {
	for _, s := range []string{"1D", "2W", "6M", "1Q", "2H", "1Y", "3M+", "3M-", "12M"} {
		c, err := temporal.ParseCycle(s)
		if err != nil {
			t.Fatalf("ParseCycle(%q): %v", s, err)
		}
		if got := c.String(); got != s {
			t.Errorf("ParseCycle(%q).String() = %q", s, got)
		}
	}
}

func TestParseCycleRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "M", "6", "6m", "0M", "-1M", "6M++", "P6M", "6X", "6M +"} {
		if _, err := temporal.ParseCycle(s); !errors.Is(err, temporal.ErrInvalidCycle) {
			t.Errorf("ParseCycle(%q): want ErrInvalidCycle, got %v", s, err)
		}
	}
}

func TestAddPeriodsNoDrift(t *testing.T) {
	c, _ := temporal.ParseCycle("1M")
	anchor := date(2024, time.January, 30)
	// Feb clamps to 29, but March must come back to the 30th: periods are
	// always counted from the anchor, never from the clamped date.
	if got := temporal.AddPeriods(anchor, c, 1); !got.Equal(date(2024, time.February, 29)) {
		t.Errorf("Jan 30 + 1M = %v", got)
	}
	if got := temporal.AddPeriods(anchor, c, 2); !got.Equal(date(2024, time.March, 30)) {
		t.Errorf("Jan 30 + 2M = %v", got)
	}
}

func TestExpandRegularGrid(t *testing.T) {
	c, _ := temporal.ParseCycle("6M")
	got, err := temporal.Expand(date(2024, time.January, 15), date(2025, time.January, 15), c, false)
	if err != nil {
		t.Fatal(err)
	}
	want := []time.Time{
		date(2024, time.January, 15),
		date(2024, time.July, 15),
		date(2025, time.January, 15),
	}
	assertDates(t, got, want)
}

func TestExpandShortFinalStub(t *testing.T) {
	c, _ := temporal.ParseCycle("1Q")
	got, err := temporal.Expand(date(2024, time.January, 1), date(2024, time.August, 15), c, false)
	if err != nil {
		t.Fatal(err)
	}
	want := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.April, 1),
		date(2024, time.July, 1),
		date(2024, time.August, 15), // short stub closing the schedule
	}
	assertDates(t, got, want)
}

func TestExpandStubBegin(t *testing.T) {
	c, _ := temporal.ParseCycle("1Q-")
	got, err := temporal.Expand(date(2024, time.January, 1), date(2024, time.August, 15), c, false)
	if err != nil {
		t.Fatal(err)
	}
	// Backward from the end; the partial period sits at the start.
	want := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.February, 15),
		date(2024, time.May, 15),
		date(2024, time.August, 15),
	}
	assertDates(t, got, want)
}

func TestExpandEndOfMonth(t *testing.T) {
	c, _ := temporal.ParseCycle("1M")
	got, err := temporal.Expand(date(2024, time.January, 31), date(2024, time.April, 30), c, true)
	if err != nil {
		t.Fatal(err)
	}
	want := []time.Time{
		date(2024, time.January, 31),
		date(2024, time.February, 29),
		date(2024, time.March, 31),
		date(2024, time.April, 30),
	}
	assertDates(t, got, want)
}

func TestExpandEOMIgnoredForDayUnits(t *testing.T) {
	c, _ := temporal.ParseCycle("7D")
	got, err := temporal.Expand(date(2024, time.January, 31), date(2024, time.February, 14), c, true)
	if err != nil {
		t.Fatal(err)
	}
	want := []time.Time{
		date(2024, time.January, 31),
		date(2024, time.February, 7),
		date(2024, time.February, 14),
	}
	assertDates(t, got, want)
}

func TestExpandDeterministic(t *testing.T) {
	c, _ := temporal.ParseCycle("3M")
	a, err := temporal.Expand(date(2020, time.February, 29), date(2030, time.January, 1), c, false)
	if err != nil {
		t.Fatal(err)
	}
	b, err := temporal.Expand(date(2020, time.February, 29), date(2030, time.January, 1), c, false)
	if err != nil {
		t.Fatal(err)
	}
	assertDates(t, a, b)
	for i := 1; i < len(a); i++ {
		if !a[i].After(a[i-1]) {
			t.Fatalf("grid not strictly increasing at %d: %v, %v", i, a[i-1], a[i])
		}
	}
}

func TestExpandEndBeforeAnchorFails(t *testing.T) {
	c, _ := temporal.ParseCycle("1M")
	if _, err := temporal.Expand(date(2024, time.June, 1), date(2024, time.January, 1), c, false); err == nil {
		t.Fatal("want error for end before anchor")
	}
}

func assertDates(t *testing.T, got, want []time.Time) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d dates %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range got {
		if !got[i].Equal(want[i]) {
			t.Errorf("date %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
