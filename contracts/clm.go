package contracts

import (
	"fmt"
	"time"

	"github.com/meenmo/actuslib/actus"
)

// clm is call money: an open-ended loan repayable on demand. A call (XD)
// observed from the behavioral record settles the balance after the notice
// period; until then interest capitalizes on its cycle.
type clm struct {
	pam
}

func newCLM(b base) (*clm, error) {
	c := &clm{pam{base: b}}
	a := b.terms
	if a.NotionalPrincipal == 0 {
		return nil, fmt.Errorf("%w: notional_principal is required", actus.ErrInvalidAttributes)
	}
	if a.InitialExchangeDate.IsZero() {
		return nil, fmt.Errorf("%w: initial_exchange_date is required", actus.ErrInvalidAttributes)
	}
	return c, nil
}

// callDate returns the observed call time, if any.
func (c *clm) callDate() (time.Time, bool) {
	for _, co := range c.callouts() {
		if co.Kind == actus.EventXD {
			return co.Time, true
		}
	}
	return time.Time{}, false
}

// settlementDate is the call date advanced by the notice period.
func (c *clm) settlementDate(call time.Time) (time.Time, error) {
	return settleAfter(call, c.terms.XDayNotice)
}

func (c *clm) Schedule() ([]actus.Event, error) {
	a := c.terms
	var events []actus.Event
	events = append(events, c.unadjusted(actus.EventIED, a.InitialExchangeDate))

	end := c.terminal()
	call, called := c.callDate()
	if called {
		settle, err := c.settlementDate(call)
		if err != nil {
			return nil, err
		}
		end = settle
		events = append(events, c.unadjusted(actus.EventXD, call))
		events = append(events, c.unadjusted(actus.EventMD, settle))
	}

	if a.InterestCycle != "" && !end.IsZero() {
		anchor := a.InterestAnchor
		if anchor.IsZero() {
			anchor = a.InitialExchangeDate
		}
		ipci, err := c.cycledOpen(actus.EventIPCI, anchor, a.InterestCycle, end)
		if err != nil {
			return nil, err
		}
		events = append(events, after(ipci, a.InitialExchangeDate)...)
	}

	events = c.addAnalysisEvents(events)
	return c.finalize(events), nil
}

func (c *clm) transition(st actus.State, ev actus.Event) (actus.State, error) {
	if ev.Kind == actus.EventXD {
		st.StatusDate = ev.Time
		st.ExerciseDate = ev.Time
		return st, nil
	}
	return c.pam.transition(st, ev)
}

func (c *clm) Simulate() (*actus.SimulationResult, error) {
	return simulate(c)
}
