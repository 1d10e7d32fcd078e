// Package actusjson loads and compares the ACTUS cross-validation format:
// per-contract records carrying camelCase terms, observed market data and
// a reference event list. It exists for validation harnesses; the engine
// itself has no file format.
package actusjson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/meenmo/actuslib/actus"
	"github.com/meenmo/actuslib/observers"
)

// TestCase is one cross-validation record.
type TestCase struct {
	Identifier   string           `json:"identifier,omitempty"`
	Terms        map[string]any   `json:"terms"`
	DataObserved []ObservedSeries `json:"dataObserved,omitempty"`
	Results      []ResultEvent    `json:"results,omitempty"`
}

// ObservedSeries is a market time series keyed by market object code.
type ObservedSeries struct {
	MarketObjectCode string          `json:"marketObjectCode"`
	Data             []ObservedPoint `json:"data"`
}

// ObservedPoint is one observation of a series.
type ObservedPoint struct {
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
}

// ResultEvent is one reference event of the expected lifecycle.
type ResultEvent struct {
	Time                string  `json:"time"`
	Type                string  `json:"type"`
	Payoff              float64 `json:"payoff"`
	Currency            string  `json:"currency,omitempty"`
	NotionalPrincipal   float64 `json:"notionalPrincipal"`
	NominalInterestRate float64 `json:"nominalInterestRate"`
	AccruedInterest     float64 `json:"accruedInterest"`
}

// Load reads a list of test cases from JSON.
func Load(r io.Reader) ([]TestCase, error) {
	var cases []TestCase
	dec := json.NewDecoder(r)
	if err := dec.Decode(&cases); err != nil {
		return nil, fmt.Errorf("actusjson: %w", err)
	}
	return cases, nil
}

// LoadFile reads a list of test cases from a JSON file.
func LoadFile(path string) ([]TestCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Observer builds a piecewise-constant time-series observer from the
// record's observed data.
func (tc *TestCase) Observer() (*observers.TimeSeries, error) {
	series := make(map[string][]observers.Sample, len(tc.DataObserved))
	for _, s := range tc.DataObserved {
		samples := make([]observers.Sample, 0, len(s.Data))
		for _, p := range s.Data {
			t, err := ParseTime(p.Timestamp)
			if err != nil {
				return nil, fmt.Errorf("actusjson: series %s: %w", s.MarketObjectCode, err)
			}
			samples = append(samples, observers.Sample{Time: t, Value: p.Value})
		}
		series[s.MarketObjectCode] = samples
	}
	return observers.NewTimeSeries(series), nil
}

// ParseTime accepts the timestamp shapes the validation files use: date
// only, or date plus wall-clock time.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// FormatTime renders a time the way the validation files write it.
func FormatTime(t time.Time) string {
	return t.Format("2006-01-02T15:04:05")
}

// ResultsOf converts a simulation result into the reference event shape,
// for writing new validation fixtures.
func ResultsOf(result *actus.SimulationResult) []ResultEvent {
	out := make([]ResultEvent, 0, len(result.Events))
	for _, e := range result.Events {
		out = append(out, ResultEvent{
			Time:                FormatTime(e.Time),
			Type:                string(e.Kind),
			Payoff:              e.Payoff,
			Currency:            e.Currency,
			NotionalPrincipal:   e.StatePost.Notional,
			NominalInterestRate: e.StatePost.NominalRate,
			AccruedInterest:     e.StatePost.AccruedInterest,
		})
	}
	return out
}
