package contracts

import (
	"fmt"
	"time"

	"github.com/meenmo/actuslib/actus"
)

// legFloat flags the floating leg of a gross-settled swap interest event,
// carried in the schedule entry's payoff hint.
const legFloat = 2

// swppv is the plain vanilla interest rate swap: a fixed leg at the
// nominal rate against a floating leg reset from the market, both accruing
// on the same notional. Net settlement pays the difference on each
// interest date; gross settlement pays the legs separately.
type swppv struct {
	base
}

func newSWPPV(b base) (*swppv, error) {
	c := &swppv{b}
	a := b.terms
	if a.NotionalPrincipal == 0 {
		return nil, fmt.Errorf("%w: notional_principal is required", actus.ErrInvalidAttributes)
	}
	if a.MaturityDate.IsZero() {
		return nil, fmt.Errorf("%w: maturity_date is required", actus.ErrInvalidAttributes)
	}
	if a.InterestCycle == "" {
		return nil, fmt.Errorf("%w: interest_payment_cycle is required", actus.ErrInvalidAttributes)
	}
	return c, nil
}

func (c *swppv) gross() bool {
	return c.terms.DeliverySettlement == actus.SettlementGross
}

// start is the date the legs begin accruing.
func (c *swppv) start() time.Time {
	if !c.terms.InitialExchangeDate.IsZero() {
		return c.terms.InitialExchangeDate
	}
	return c.terms.StatusDate
}

func (c *swppv) Schedule() ([]actus.Event, error) {
	a := c.terms
	end := a.MaturityDate
	start := c.start()

	var events []actus.Event
	if !a.InitialExchangeDate.IsZero() {
		events = append(events, c.unadjusted(actus.EventIED, a.InitialExchangeDate))
	}

	anchor := a.InterestAnchor
	if anchor.IsZero() {
		anchor = start
	}
	ip, err := c.cycledOpen(actus.EventIP, anchor, a.InterestCycle, end)
	if err != nil {
		return nil, err
	}
	ip = after(ip, start)
	events = append(events, ip...)
	if c.gross() {
		for _, e := range ip {
			leg := e
			leg.Payoff = legFloat
			events = append(events, leg)
		}
	}

	if a.RateResetCycle != "" {
		rrAnchor := a.RateResetAnchor
		if rrAnchor.IsZero() {
			rrAnchor = start
		}
		rr, err := c.cycledOpen(actus.EventRR, rrAnchor, a.RateResetCycle, end)
		if err != nil {
			return nil, err
		}
		rr = after(rr, start)
		if a.RateResetNext != nil && len(rr) > 0 {
			rr[0].Kind = actus.EventRRF
		}
		events = append(events, rr...)
	}

	md := c.unadjusted(actus.EventMD, end)
	events = append(events, md)
	if c.gross() {
		leg := md
		leg.Payoff = legFloat
		events = append(events, leg)
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

func (c *swppv) InitialState() (actus.State, error) {
	a := c.terms
	st := actus.NewState(a.StatusDate, a.MaturityDate)
	st.NominalRate = a.NominalRate2
	if a.InitialExchangeDate.IsZero() || a.InitialExchangeDate.Before(a.StatusDate) {
		st.Notional = a.RoleSign() * a.NotionalPrincipal
	}
	return st, nil
}

// accrue advances both legs: the fixed leg at the nominal rate attribute,
// the floating leg at the current state rate.
func (c *swppv) accrue(st actus.State, to time.Time) actus.State {
	if !to.After(st.StatusDate) {
		return st
	}
	y := c.yf(st.StatusDate, to)
	st.AccruedInterest1 += y * c.terms.NominalRate * st.Notional
	st.AccruedInterest2 += y * st.NominalRate * st.Notional
	st.AccruedInterest = st.AccruedInterest1 - st.AccruedInterest2
	st.StatusDate = to
	return st
}

func (c *swppv) payoff(st, _ actus.State, ev actus.Event) (float64, error) {
	switch ev.Kind {
	case actus.EventIP, actus.EventMD:
		if c.gross() {
			if ev.Payoff == legFloat {
				return -st.AccruedInterest2, nil
			}
			return st.AccruedInterest1, nil
		}
		return st.AccruedInterest1 - st.AccruedInterest2, nil
	default:
		return 0, nil
	}
}

func (c *swppv) transition(st actus.State, ev actus.Event) (actus.State, error) {
	a := c.terms
	st.StatusDate = ev.Time
	switch ev.Kind {
	case actus.EventIED:
		st.Notional = a.RoleSign() * a.NotionalPrincipal
		st.NominalRate = a.NominalRate2
		st.AccruedInterest, st.AccruedInterest1, st.AccruedInterest2 = 0, 0, 0
	case actus.EventIP:
		if c.gross() {
			if ev.Payoff == legFloat {
				st.AccruedInterest2 = 0
			} else {
				st.AccruedInterest1 = 0
			}
		} else {
			st.AccruedInterest1 = 0
			st.AccruedInterest2 = 0
		}
		st.AccruedInterest = st.AccruedInterest1 - st.AccruedInterest2
	case actus.EventRR:
		// The driver has already accrued both legs at the old rates.
		observed := c.market.Observe(a.MarketObjectOfRateReset, ev.CalculationTime)
		st.NominalRate = a.ClampRate(observed*a.Multiplier() + a.RateSpread)
	case actus.EventRRF:
		if a.RateResetNext != nil {
			st.NominalRate = *a.RateResetNext
		}
	case actus.EventMD:
		if c.gross() {
			if ev.Payoff == legFloat {
				st.AccruedInterest2 = 0
			} else {
				st.AccruedInterest1 = 0
			}
			st.AccruedInterest = st.AccruedInterest1 - st.AccruedInterest2
			if st.AccruedInterest1 == 0 && st.AccruedInterest2 == 0 {
				st.Notional = 0
			}
		} else {
			st.Notional = 0
			st.AccruedInterest, st.AccruedInterest1, st.AccruedInterest2 = 0, 0, 0
		}
	}
	return st, nil
}

func (c *swppv) Simulate() (*actus.SimulationResult, error) { return simulate(c) }
