package contracts

import (
	"fmt"

	"github.com/meenmo/actuslib/actus"
)

// lax is the exotic linear amortizer: redemption amounts come from an
// explicit (date, amount) array instead of a cycle, and entries may
// increase the notional as well as reduce it.
type lax struct {
	pam
}

func newLAX(b base) (*lax, error) {
	c := &lax{pam{base: b}}
	if err := c.check(); err != nil {
		return nil, err
	}
	a := b.terms
	if len(a.PrincipalArrayDates) == 0 {
		return nil, fmt.Errorf("%w: principal redemption array is required", actus.ErrInvalidAttributes)
	}
	if len(a.PrincipalArrayDates) != len(a.PrincipalArrayAmounts) {
		return nil, fmt.Errorf("%w: principal redemption array dates and amounts differ in length", actus.ErrInvalidAttributes)
	}
	if len(a.PrincipalArrayIncrease) != 0 && len(a.PrincipalArrayIncrease) != len(a.PrincipalArrayDates) {
		return nil, fmt.Errorf("%w: principal redemption array flags differ in length", actus.ErrInvalidAttributes)
	}
	return c, nil
}

func (c *lax) Schedule() ([]actus.Event, error) {
	events, err := c.pamFamilies()
	if err != nil {
		return nil, err
	}
	for i, d := range c.terms.PrincipalArrayDates {
		kind := actus.EventPR
		if len(c.terms.PrincipalArrayIncrease) > i && c.terms.PrincipalArrayIncrease[i] {
			kind = actus.EventPI
		}
		ev := c.event(kind, d)
		ev.Payoff = c.terms.PrincipalArrayAmounts[i] // amount hint
		events = append(events, ev)
	}
	return c.finalize(events), nil
}

// pamFamilies reuses the PAM schedule minus its maturity-only principal,
// keeping interest, resets, fees and maturity.
func (c *lax) pamFamilies() ([]actus.Event, error) {
	a := c.terms
	end := c.terminalOrMaturity()
	var events []actus.Event
	events = append(events, c.unadjusted(actus.EventIED, a.InitialExchangeDate))
	ip, err := c.interestEvents(end)
	if err != nil {
		return nil, err
	}
	events = append(events, ip...)
	rr, err := c.rateResetEvents(end)
	if err != nil {
		return nil, err
	}
	events = append(events, rr...)
	events = append(events, c.unadjusted(actus.EventMD, end))
	events = c.addAnalysisEvents(events)
	events = c.addCallouts(events, actus.EventPP, actus.EventPY)
	return events, nil
}

func (c *lax) payoff(st, pre actus.State, ev actus.Event) (float64, error) {
	switch ev.Kind {
	case actus.EventPR:
		amount := c.terms.RoleSign() * ev.Payoff
		return st.NotionalScaling * cappedRedemption(amount, st.Notional), nil
	case actus.EventPI:
		// Drawdown: cash moves opposite to a redemption.
		return -st.NotionalScaling * c.terms.RoleSign() * ev.Payoff, nil
	default:
		return c.pam.payoff(st, pre, ev)
	}
}

func (c *lax) transition(st actus.State, ev actus.Event) (actus.State, error) {
	switch ev.Kind {
	case actus.EventPR:
		st.StatusDate = ev.Time
		amount := c.terms.RoleSign() * ev.Payoff
		st.Notional -= cappedRedemption(amount, st.Notional)
		return st, nil
	case actus.EventPI:
		st.StatusDate = ev.Time
		st.Notional += c.terms.RoleSign() * ev.Payoff
		return st, nil
	default:
		return c.pam.transition(st, ev)
	}
}

func (c *lax) Simulate() (*actus.SimulationResult, error) {
	return simulate(c)
}
