package contracts

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/actuslib/actus"
)

// capfl is an interest rate cap, floor or collar on a floating rate: each
// interest date pays the accrued excess of the reference rate over the cap
// (or shortfall under the floor). The interest and reset grids come from a
// covered underlier when one is declared, otherwise from the contract's
// own terms. On coincident dates interest settles before the reset, so a
// period is always paid at the rate fixed at its start.
type capfl struct {
	base
	under *actus.Attributes
}

func newCAPFL(b base) (*capfl, error) {
	c := &capfl{base: b, under: b.terms}
	a := b.terms
	if id, ok := a.ContractStructure["Underlier"]; ok {
		if b.children == nil {
			return nil, fmt.Errorf("%w: %q (no child registry)", actus.ErrMissingChild, id)
		}
		under, err := b.children.Attributes(id)
		if err != nil {
			return nil, err
		}
		c.under = under
		// Conventions fall back to the underlier's when the cap's own terms
		// leave them unset, like the notional and the grids.
		eff := *a
		if eff.DayCountConvention == "" {
			eff.DayCountConvention = under.DayCountConvention
		}
		if eff.BusinessDayConvention == "" {
			eff.BusinessDayConvention = under.BusinessDayConvention
		}
		if eff.Calendar == "" {
			eff.Calendar = under.Calendar
		}
		c.base.terms = &eff
	}
	if a.RateCap == nil && a.RateFloor == nil {
		return nil, fmt.Errorf("%w: a rate cap or floor is required", actus.ErrInvalidAttributes)
	}
	if c.under.InterestCycle == "" {
		return nil, fmt.Errorf("%w: interest_payment_cycle is required", actus.ErrInvalidAttributes)
	}
	if c.end().IsZero() {
		return nil, fmt.Errorf("%w: maturity_date is required", actus.ErrInvalidAttributes)
	}
	return c, nil
}

func (c *capfl) end() time.Time {
	if !c.terms.MaturityDate.IsZero() {
		return c.terms.MaturityDate
	}
	return c.under.MaturityDate
}

func (c *capfl) start() time.Time {
	if !c.under.InitialExchangeDate.IsZero() {
		return c.under.InitialExchangeDate
	}
	return c.terms.StatusDate
}

func (c *capfl) notional() float64 {
	if c.terms.NotionalPrincipal != 0 {
		return c.terms.NotionalPrincipal
	}
	return c.under.NotionalPrincipal
}

func (c *capfl) Schedule() ([]actus.Event, error) {
	a := c.terms
	end := c.end()
	start := c.start()

	var events []actus.Event
	anchor := c.under.InterestAnchor
	if anchor.IsZero() {
		anchor = start
	}
	ip, err := c.cycledOpen(actus.EventIP, anchor, c.under.InterestCycle, end)
	if err != nil {
		return nil, err
	}
	events = append(events, after(ip, start)...)

	if c.under.RateResetCycle != "" {
		rrAnchor := c.under.RateResetAnchor
		if rrAnchor.IsZero() {
			rrAnchor = start
		}
		rr, err := c.cycledOpen(actus.EventRR, rrAnchor, c.under.RateResetCycle, end)
		if err != nil {
			return nil, err
		}
		events = append(events, after(rr, start)...)
	}

	events = append(events, c.unadjusted(actus.EventMD, end))
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

func (c *capfl) InitialState() (actus.State, error) {
	a := c.terms
	st := actus.NewState(a.StatusDate, c.end())
	st.Notional = a.RoleSign() * c.notional()
	st.NominalRate = c.under.NominalRate
	return st, nil
}

// excess is the per-annum rate the contract pays at the given reference
// rate: the part above the cap plus the part below the floor.
func (c *capfl) excess(rate float64) float64 {
	a := c.terms
	var out float64
	if a.RateCap != nil {
		out += math.Max(0, rate-*a.RateCap)
	}
	if a.RateFloor != nil {
		out += math.Max(0, *a.RateFloor-rate)
	}
	return out
}

// accrue advances the payable accrual at the rate fixed at the start of
// the period.
func (c *capfl) accrue(st actus.State, to time.Time) actus.State {
	if !to.After(st.StatusDate) {
		return st
	}
	y := c.yf(st.StatusDate, to)
	st.AccruedInterest += y * c.excess(st.NominalRate) * st.Notional
	st.StatusDate = to
	return st
}

func (c *capfl) payoff(st, _ actus.State, ev actus.Event) (float64, error) {
	switch ev.Kind {
	case actus.EventIP, actus.EventMD:
		return st.AccruedInterest, nil
	default:
		return 0, nil
	}
}

func (c *capfl) transition(st actus.State, ev actus.Event) (actus.State, error) {
	a := c.terms
	st.StatusDate = ev.Time
	switch ev.Kind {
	case actus.EventIP:
		st.AccruedInterest = 0
	case actus.EventRR:
		// Accrual to this point already ran at the previous rate; the cap
		// and floor apply to the payoff, not the reference rate itself.
		mo := a.MarketObjectOfRateReset
		if mo == "" {
			mo = c.under.MarketObjectOfRateReset
		}
		observed := c.market.Observe(mo, ev.CalculationTime)
		st.NominalRate = observed*a.Multiplier() + a.RateSpread
	case actus.EventMD:
		st.Notional = 0
		st.AccruedInterest = 0
	}
	return st, nil
}

func (c *capfl) Simulate() (*actus.SimulationResult, error) { return simulate(c) }
