package contracts

import (
	"fmt"
	"time"

	"github.com/meenmo/actuslib/actus"
)

// swaps is the generic swap: two pre-simulated legs whose cash flows the
// parent mirrors. Net settlement collapses interest payments falling on
// the same date into a single flow; gross delivery passes every leg event
// through unchanged. Leg payoffs are already signed by the leg roles, so
// mirroring is a sum.
type swaps struct {
	base
}

func newSWAPS(b base) (*swaps, error) {
	c := &swaps{b}
	a := b.terms
	if len(a.ContractStructure) < 2 {
		return nil, fmt.Errorf("%w: a swap needs two legs", actus.ErrInvalidAttributes)
	}
	if b.children == nil {
		return nil, fmt.Errorf("%w: swap needs simulated legs", actus.ErrMissingChild)
	}
	return c, nil
}

func (c *swaps) legIDs() []string {
	ids := make([]string, 0, 2)
	for _, key := range []string{"FirstLeg", "SecondLeg"} {
		if id, ok := c.terms.ContractStructure[key]; ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == len(c.terms.ContractStructure) {
		return ids
	}
	ids = ids[:0]
	for _, id := range c.terms.ContractStructure {
		ids = append(ids, id)
	}
	return ids
}

func (c *swaps) Schedule() ([]actus.Event, error) {
	a := c.terms
	var events []actus.Event
	for _, id := range c.legIDs() {
		legEvents, err := c.children.Events(id)
		if err != nil {
			return nil, err
		}
		for _, le := range legEvents {
			if le.Payoff == 0 {
				continue
			}
			ev := c.unadjusted(le.Kind, le.Time)
			ev.CalculationTime = le.CalculationTime
			ev.Currency = le.Currency
			ev.Payoff = le.Payoff // leg flow hint, already signed by the leg role
			events = append(events, ev)
		}
	}
	if a.DeliverySettlement == actus.SettlementNet {
		events = netCoincident(events, actus.EventIP)
	}
	events = c.addAnalysisEvents(events)

	kept := events[:0]
	for _, e := range events {
		if e.Time.Before(a.StatusDate) {
			continue
		}
		kept = append(kept, e)
	}
	actus.SortEvents(kept)
	actus.Resequence(kept)
	return kept, nil
}

// netCoincident folds events of the given kind sharing a timestamp and
// currency into one entry with the summed flow hint.
func netCoincident(events []actus.Event, kind actus.EventKind) []actus.Event {
	out := events[:0]
	for _, e := range events {
		if e.Kind == kind {
			merged := false
			for i := range out {
				if out[i].Kind == kind && out[i].Time.Equal(e.Time) && out[i].Currency == e.Currency {
					out[i].Payoff += e.Payoff
					merged = true
					break
				}
			}
			if merged {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

func (c *swaps) InitialState() (actus.State, error) {
	a := c.terms
	return actus.NewState(a.StatusDate, a.MaturityDate), nil
}

func (c *swaps) accrue(st actus.State, _ time.Time) actus.State { return st }

func (c *swaps) payoff(_, _ actus.State, ev actus.Event) (float64, error) {
	if ev.Kind == actus.EventAD {
		return 0, nil
	}
	return c.terms.RoleSign() * ev.Payoff, nil
}

func (c *swaps) transition(st actus.State, ev actus.Event) (actus.State, error) {
	st.StatusDate = ev.Time
	return st, nil
}

func (c *swaps) Simulate() (*actus.SimulationResult, error) { return simulate(c) }
