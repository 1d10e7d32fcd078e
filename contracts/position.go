package contracts

import (
	"fmt"
	"time"

	"github.com/meenmo/actuslib/actus"
)

// The non-principal instruments: cash, stock, commodity. They carry no
// interest mechanics; their lifecycle is purchase, monitoring, dividends
// (stock only) and sale.

// quantity treats the notional as a position size, defaulting to one unit.
func quantity(a *actus.Attributes) float64 {
	if a.NotionalPrincipal != 0 {
		return a.NotionalPrincipal
	}
	return 1
}

// positionState is the shared initial state of the position instruments.
func positionState(a *actus.Attributes) actus.State {
	st := actus.NewState(a.StatusDate, a.MaturityDate)
	st.Notional = a.RoleSign() * quantity(a)
	return st
}

// csh is a cash position: the balance is tracked, nothing flows.
type csh struct {
	base
}

func newCSH(b base) (*csh, error) { return &csh{b}, nil }

func (c *csh) Schedule() ([]actus.Event, error) {
	var events []actus.Event
	events = c.addAnalysisEvents(events)
	return c.finalize(events), nil
}

func (c *csh) InitialState() (actus.State, error) {
	return positionState(c.terms), nil
}

func (c *csh) accrue(st actus.State, _ time.Time) actus.State { return st }

func (c *csh) payoff(actus.State, actus.State, actus.Event) (float64, error) { return 0, nil }

func (c *csh) transition(st actus.State, ev actus.Event) (actus.State, error) {
	st.StatusDate = ev.Time
	return st, nil
}

func (c *csh) Simulate() (*actus.SimulationResult, error) { return simulate(c) }

// stk is a stock position: purchase, cyclical dividends observed from the
// market, and sale at termination.
type stk struct {
	base
}

func newSTK(b base) (*stk, error) { return &stk{b}, nil }

func (c *stk) Schedule() ([]actus.Event, error) {
	a := c.terms
	var events []actus.Event
	if !a.PurchaseDate.IsZero() {
		events = append(events, c.unadjusted(actus.EventPRD, a.PurchaseDate))
	}
	if a.DividendCycle != "" {
		anchor := a.DividendAnchor
		if anchor.IsZero() {
			anchor = a.PurchaseDate
		}
		end := c.terminal()
		if anchor.IsZero() || end.IsZero() {
			return nil, fmt.Errorf("%w: dividend schedule needs an anchor and a horizon", actus.ErrInvalidAttributes)
		}
		dv, err := c.cycled(actus.EventDV, anchor, a.DividendCycle, end)
		if err != nil {
			return nil, err
		}
		events = append(events, after(dv, anchor)...)
	}
	if !a.TerminationDate.IsZero() {
		events = append(events, c.unadjusted(actus.EventTD, a.TerminationDate))
	}
	events = c.addAnalysisEvents(events)

	// finalize would re-derive PRD/TD from the anchors; the schedule above
	// already placed them, so only order and filter here.
	kept := events[:0]
	for _, e := range events {
		if e.Time.Before(a.StatusDate) {
			continue
		}
		if !a.TerminationDate.IsZero() && e.Time.After(a.TerminationDate) {
			continue
		}
		kept = append(kept, e)
	}
	actus.SortEvents(kept)
	actus.Resequence(kept)
	return kept, nil
}

func (c *stk) InitialState() (actus.State, error) {
	return positionState(c.terms), nil
}

func (c *stk) accrue(st actus.State, _ time.Time) actus.State { return st }

func (c *stk) payoff(st, _ actus.State, ev actus.Event) (float64, error) {
	a := c.terms
	switch ev.Kind {
	case actus.EventPRD:
		return a.RoleSign() * -1 * a.PriceAtPurchase * quantity(a), nil
	case actus.EventDV:
		perShare := c.market.Observe(a.MarketObjectOfDividends, ev.CalculationTime)
		return a.RoleSign() * perShare * quantity(a), nil
	case actus.EventTD:
		return a.RoleSign() * a.PriceAtTermination * quantity(a), nil
	default:
		return 0, nil
	}
}

func (c *stk) transition(st actus.State, ev actus.Event) (actus.State, error) {
	st.StatusDate = ev.Time
	if ev.Kind == actus.EventTD {
		st.Notional = 0
	}
	return st, nil
}

func (c *stk) Simulate() (*actus.SimulationResult, error) { return simulate(c) }

// com is a commodity position: quantity only, bought and sold.
type com struct {
	base
}

func newCOM(b base) (*com, error) { return &com{b}, nil }

func (c *com) Schedule() ([]actus.Event, error) {
	a := c.terms
	var events []actus.Event
	if !a.PurchaseDate.IsZero() {
		events = append(events, c.unadjusted(actus.EventPRD, a.PurchaseDate))
	}
	if !a.TerminationDate.IsZero() {
		events = append(events, c.unadjusted(actus.EventTD, a.TerminationDate))
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

func (c *com) InitialState() (actus.State, error) {
	return positionState(c.terms), nil
}

func (c *com) accrue(st actus.State, _ time.Time) actus.State { return st }

func (c *com) payoff(st, _ actus.State, ev actus.Event) (float64, error) {
	a := c.terms
	switch ev.Kind {
	case actus.EventPRD:
		return a.RoleSign() * -1 * a.PriceAtPurchase * quantity(a), nil
	case actus.EventTD:
		return a.RoleSign() * a.PriceAtTermination * quantity(a), nil
	default:
		return 0, nil
	}
}

func (c *com) transition(st actus.State, ev actus.Event) (actus.State, error) {
	st.StatusDate = ev.Time
	if ev.Kind == actus.EventTD {
		st.Notional = 0
	}
	return st, nil
}

func (c *com) Simulate() (*actus.SimulationResult, error) { return simulate(c) }
