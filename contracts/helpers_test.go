package contracts_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/actuslib/actus"
	"github.com/meenmo/actuslib/contracts"
	"github.com/meenmo/actuslib/observers"
	"github.com/meenmo/actuslib/temporal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// approx allows for float drift; all reference figures here are exact to
// well below a cent.
func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("%s: got %.6f, want %.6f", name, got, want)
	}
}

func run(t *testing.T, attrs *actus.Attributes, market observers.Market) *actus.SimulationResult {
	t.Helper()
	c, err := contracts.New(attrs, market, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := c.Simulate()
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	return result
}

func eventsOfKind(result *actus.SimulationResult, kind actus.EventKind) []actus.Event {
	var out []actus.Event
	for _, e := range result.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func singleEvent(t *testing.T, result *actus.SimulationResult, kind actus.EventKind) actus.Event {
	t.Helper()
	events := eventsOfKind(result, kind)
	if len(events) != 1 {
		t.Fatalf("want exactly one %s event, got %d", kind, len(events))
	}
	return events[0]
}

// pamFixture is the semi-annual bullet loan the lifecycle checks build on:
// 100 000 at 5% for one year.
func pamFixture() *actus.Attributes {
	return &actus.Attributes{
		ContractID:          "PAM-1",
		ContractType:        actus.PAM,
		ContractRole:        actus.RoleRPA,
		StatusDate:          date(2024, time.January, 1),
		Currency:            "USD",
		InitialExchangeDate: date(2024, time.January, 15),
		MaturityDate:        date(2025, time.January, 15),
		NotionalPrincipal:   100000,
		NominalRate:         0.05,
		InterestCycle:       "6M",
		DayCountConvention:  temporal.ThirtyE360,
	}
}
