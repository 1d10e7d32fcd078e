package actusjson

import (
	"fmt"
	"math"

	"github.com/meenmo/actuslib/actus"
)

// The cross-validation suite tolerates an absolute error of 1.0 or a
// relative error of 1e-4, whichever is larger.
const (
	absTolerance = 1.0
	relTolerance = 1e-4
)

// Close reports whether two values agree within the suite tolerance.
func Close(a, b float64) bool {
	diff := math.Abs(a - b)
	limit := math.Max(absTolerance, relTolerance*math.Max(math.Abs(a), math.Abs(b)))
	return diff <= limit
}

// Diff is one disagreement between a simulated and a reference event.
type Diff struct {
	Index int
	Field string
	Got   string
	Want  string
}

func (d Diff) String() string {
	return fmt.Sprintf("event %d: %s: got %s, want %s", d.Index, d.Field, d.Got, d.Want)
}

// Compare checks a simulation result against the reference event list and
// returns every disagreement. Analysis events are skipped on both sides:
// reference files do not carry them consistently.
func Compare(result *actus.SimulationResult, want []ResultEvent) []Diff {
	got := make([]actus.Event, 0, len(result.Events))
	for _, e := range result.Events {
		if e.Kind == actus.EventAD {
			continue
		}
		got = append(got, e)
	}
	kept := want[:0:0]
	for _, w := range want {
		if w.Type == string(actus.EventAD) {
			continue
		}
		kept = append(kept, w)
	}
	want = kept

	var diffs []Diff
	n := len(got)
	if len(want) < n {
		n = len(want)
	}
	if len(got) != len(want) {
		diffs = append(diffs, Diff{
			Index: n,
			Field: "length",
			Got:   fmt.Sprint(len(got)),
			Want:  fmt.Sprint(len(want)),
		})
	}
	for i := 0; i < n; i++ {
		g, w := got[i], want[i]
		if FormatTime(g.Time) != w.Time {
			diffs = append(diffs, Diff{i, "time", FormatTime(g.Time), w.Time})
		}
		if string(g.Kind) != w.Type {
			diffs = append(diffs, Diff{i, "type", string(g.Kind), w.Type})
		}
		diffs = appendValueDiff(diffs, i, "payoff", g.Payoff, w.Payoff)
		diffs = appendValueDiff(diffs, i, "notionalPrincipal", g.StatePost.Notional, w.NotionalPrincipal)
		diffs = appendValueDiff(diffs, i, "nominalInterestRate", g.StatePost.NominalRate, w.NominalInterestRate)
		diffs = appendValueDiff(diffs, i, "accruedInterest", g.StatePost.AccruedInterest, w.AccruedInterest)
	}
	return diffs
}

func appendValueDiff(diffs []Diff, i int, field string, got, want float64) []Diff {
	if Close(got, want) {
		return diffs
	}
	return append(diffs, Diff{i, field, fmt.Sprintf("%g", got), fmt.Sprintf("%g", want)})
}
