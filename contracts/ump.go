package contracts

import (
	"fmt"

	"github.com/meenmo/actuslib/actus"
)

// ump is the undefined-maturity profile, a deposit account: the balance
// moves with behaviorally observed deposits and withdrawals while interest
// capitalizes on its cycle. A positive callout amount is a deposit, a
// negative one a withdrawal.
type ump struct {
	pam
}

func newUMP(b base) (*ump, error) {
	c := &ump{pam{base: b}}
	a := b.terms
	if a.InitialExchangeDate.IsZero() {
		return nil, fmt.Errorf("%w: initial_exchange_date is required", actus.ErrInvalidAttributes)
	}
	return c, nil
}

func (c *ump) Schedule() ([]actus.Event, error) {
	a := c.terms
	var events []actus.Event
	events = append(events, c.unadjusted(actus.EventIED, a.InitialExchangeDate))

	end := c.terminal()
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
	if !end.IsZero() {
		events = append(events, c.unadjusted(actus.EventMD, end))
	}
	events = c.addAnalysisEvents(events)
	events = c.addCallouts(events, actus.EventPP)
	return c.finalize(events), nil
}

func (c *ump) payoff(st, pre actus.State, ev actus.Event) (float64, error) {
	if ev.Kind == actus.EventPP {
		// Deposit: cash leaves the asset holder and the balance grows.
		return -c.terms.RoleSign() * ev.Payoff, nil
	}
	return c.pam.payoff(st, pre, ev)
}

func (c *ump) transition(st actus.State, ev actus.Event) (actus.State, error) {
	if ev.Kind == actus.EventPP {
		st.StatusDate = ev.Time
		st.Notional += c.terms.RoleSign() * ev.Payoff
		return st, nil
	}
	return c.pam.transition(st, ev)
}

func (c *ump) Simulate() (*actus.SimulationResult, error) {
	return simulate(c)
}
