// Package observers supplies market data and child-contract results to the
// simulation engine. Market observers are total: every (identifier, time)
// query yields some value, defaulting to zero.
package observers

import (
	"sort"
	"time"

	"github.com/meenmo/actuslib/actus"
)

// Market answers point queries for external data: reference rates, FX
// rates, prices and scaling indices, keyed by market object identifier.
type Market interface {
	Observe(identifier string, t time.Time) float64
}

// Constant returns the same value for every query.
type Constant float64

func (c Constant) Observe(string, time.Time) float64 { return float64(c) }

// Dict answers from a fixed identifier map; missing keys observe as zero.
type Dict map[string]float64

func (d Dict) Observe(identifier string, _ time.Time) float64 {
	return d[identifier]
}

// Sample is one time-series observation.
type Sample struct {
	Time  time.Time
	Value float64
}

// TimeSeries interpolates piecewise-constant per identifier: a query takes
// the value of the latest sample at or before it, and the first sample's
// value before the series begins.
type TimeSeries struct {
	series map[string][]Sample
}

// NewTimeSeries builds a time-series observer; samples are sorted per
// identifier on construction.
func NewTimeSeries(series map[string][]Sample) *TimeSeries {
	sorted := make(map[string][]Sample, len(series))
	for id, samples := range series {
		s := append([]Sample(nil), samples...)
		sort.Slice(s, func(i, j int) bool { return s[i].Time.Before(s[j].Time) })
		sorted[id] = s
	}
	return &TimeSeries{series: sorted}
}

// Append adds a sample, keeping the series sorted.
func (ts *TimeSeries) Append(identifier string, s Sample) {
	samples := append(ts.series[identifier], s)
	sort.Slice(samples, func(i, j int) bool { return samples[i].Time.Before(samples[j].Time) })
	if ts.series == nil {
		ts.series = map[string][]Sample{}
	}
	ts.series[identifier] = samples
}

func (ts *TimeSeries) Observe(identifier string, t time.Time) float64 {
	samples := ts.series[identifier]
	if len(samples) == 0 {
		return 0
	}
	// First index with sample time > t.
	i := sort.Search(len(samples), func(i int) bool {
		return samples[i].Time.After(t)
	})
	if i == 0 {
		return samples[0].Value
	}
	return samples[i-1].Value
}

// CurvePoint is one tenor/value pair of a term structure.
type CurvePoint struct {
	Tenor float64 // in years
	Value float64
}

// Curve interpolates linearly between bracketing tenors and extrapolates
// flat outside the quoted range. The query time is converted to a tenor
// against the curve's base date on an actual/365 basis.
type Curve struct {
	Base   time.Time
	Points []CurvePoint
}

// NewCurve builds a curve observer; points are sorted by tenor.
func NewCurve(base time.Time, points []CurvePoint) *Curve {
	p := append([]CurvePoint(nil), points...)
	sort.Slice(p, func(i, j int) bool { return p[i].Tenor < p[j].Tenor })
	return &Curve{Base: base, Points: p}
}

func (c *Curve) Observe(_ string, t time.Time) float64 {
	if len(c.Points) == 0 {
		return 0
	}
	tenor := t.Sub(c.Base).Hours() / 24 / 365
	return c.At(tenor)
}

// At evaluates the curve at a tenor in years.
func (c *Curve) At(tenor float64) float64 {
	pts := c.Points
	if len(pts) == 0 {
		return 0
	}
	if tenor <= pts[0].Tenor {
		return pts[0].Value
	}
	if tenor >= pts[len(pts)-1].Tenor {
		return pts[len(pts)-1].Value
	}
	i := sort.Search(len(pts), func(i int) bool { return pts[i].Tenor >= tenor })
	lo, hi := pts[i-1], pts[i]
	w := (tenor - lo.Tenor) / (hi.Tenor - lo.Tenor)
	return lo.Value + w*(hi.Value-lo.Value)
}

// Composite queries an ordered list of observers and returns the first
// non-zero answer, falling back to zero when every member defaults.
type Composite []Market

func (c Composite) Observe(identifier string, t time.Time) float64 {
	for _, m := range c {
		if v := m.Observe(identifier, t); v != 0 {
			return v
		}
	}
	return 0
}

// Callout is an event a behavioral observer injects into a contract's
// schedule before lifecycle evaluation: prepayments, deposits and
// withdrawals, call notices, observed credit events.
type Callout struct {
	Time   time.Time
	Kind   actus.EventKind
	Payoff float64 // observed amount hint, unsigned contract units
}

// Behavioral extends Market with schedule callouts, declared per contract
// at schedule-generation time.
type Behavioral interface {
	Market
	Callouts(contractID string) []Callout
}

// CalloutObserver is a map-backed Behavioral implementation.
type CalloutObserver struct {
	Market
	Events map[string][]Callout
}

// NewCalloutObserver wraps a market observer with per-contract callouts.
func NewCalloutObserver(market Market, events map[string][]Callout) *CalloutObserver {
	if market == nil {
		market = Constant(0)
	}
	return &CalloutObserver{Market: market, Events: events}
}

func (c *CalloutObserver) Callouts(contractID string) []Callout {
	out := append([]Callout(nil), c.Events[contractID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}
