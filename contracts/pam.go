package contracts

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/actuslib/actus"
)

// pam is the principal-at-maturity loan: interest on a fixed notional, the
// full principal returned at maturity. It is the reference lifecycle for
// the amortizer family, which embeds it.
type pam struct {
	base
}

func newPAM(b base) (*pam, error) {
	c := &pam{base: b}
	if err := c.check(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *pam) check() error {
	a := c.terms
	if a.NotionalPrincipal == 0 {
		return fmt.Errorf("%w: notional_principal is required", actus.ErrInvalidAttributes)
	}
	if a.InitialExchangeDate.IsZero() {
		return fmt.Errorf("%w: initial_exchange_date is required", actus.ErrInvalidAttributes)
	}
	if c.terminal().IsZero() {
		return fmt.Errorf("%w: maturity_date is required", actus.ErrInvalidAttributes)
	}
	return nil
}

func (c *pam) Schedule() ([]actus.Event, error) {
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

	if a.FeeRate != 0 && a.FeeCycle != "" {
		anchor := a.FeeAnchor
		if anchor.IsZero() {
			anchor = a.InitialExchangeDate
		}
		fp, err := c.cycledOpen(actus.EventFP, anchor, a.FeeCycle, end)
		if err != nil {
			return nil, err
		}
		events = append(events, after(fp, a.InitialExchangeDate)...)
	}

	if a.ScalingEffect != "" && a.ScalingCycle != "" {
		anchor := a.ScalingAnchor
		if anchor.IsZero() {
			anchor = a.InitialExchangeDate
		}
		sc, err := c.cycledOpen(actus.EventSC, anchor, a.ScalingCycle, end)
		if err != nil {
			return nil, err
		}
		events = append(events, after(sc, a.InitialExchangeDate)...)
	}

	events = append(events, c.unadjusted(actus.EventMD, end))
	events = c.addAnalysisEvents(events)
	events = c.addCallouts(events, actus.EventPP, actus.EventPY)
	return c.finalize(events), nil
}

// terminalOrMaturity is the interest-bearing end date, ignoring an early
// termination (finalize truncates for TD separately).
func (c *pam) terminalOrMaturity() time.Time {
	if !c.terms.MaturityDate.IsZero() {
		return c.terms.MaturityDate
	}
	return c.terminal()
}

// interestEvents expands the interest payment grid. Dates up to the
// capitalization end become IPCI; the maturity date itself is excluded,
// its interest is part of the maturity payoff.
func (c *pam) interestEvents(end time.Time) ([]actus.Event, error) {
	a := c.terms
	if a.InterestCycle == "" {
		return nil, nil
	}
	anchor := a.InterestAnchor
	if anchor.IsZero() {
		anchor = a.InitialExchangeDate
	}
	events, err := c.cycledOpen(actus.EventIP, anchor, a.InterestCycle, end)
	if err != nil {
		return nil, err
	}
	events = after(events, a.InitialExchangeDate)
	if !a.CapitalizationEndDate.IsZero() {
		for i := range events {
			if !events[i].Time.After(a.CapitalizationEndDate) {
				events[i].Kind = actus.EventIPCI
			}
		}
	}
	return events, nil
}

// rateResetEvents expands the rate reset grid. With a scheduled next rate
// (RRNXT) the first reset is a fixing event (RRF) instead of an
// observation (RR).
func (c *pam) rateResetEvents(end time.Time) ([]actus.Event, error) {
	a := c.terms
	if a.RateResetCycle == "" {
		return nil, nil
	}
	anchor := a.RateResetAnchor
	if anchor.IsZero() {
		anchor = a.InitialExchangeDate
	}
	events, err := c.cycledOpen(actus.EventRR, anchor, a.RateResetCycle, end)
	if err != nil {
		return nil, err
	}
	events = after(events, a.InitialExchangeDate)
	if a.RateResetNext != nil && len(events) > 0 {
		events[0].Kind = actus.EventRRF
	}
	return events, nil
}

func (c *pam) InitialState() (actus.State, error) {
	a := c.terms
	st := actus.NewState(a.StatusDate, c.terminalOrMaturity())
	preExisting := a.InitialExchangeDate.Before(a.StatusDate)
	if !preExisting && a.PurchaseDate.IsZero() {
		return st, nil
	}
	// The IED event is absent from the schedule (status date past it, or a
	// purchase replacing it) but the state initializes as if it had
	// occurred, accrued up to the status date.
	st.Notional = a.RoleSign() * a.NotionalPrincipal
	st.NominalRate = a.NominalRate
	if !preExisting {
		// Purchase of a contract whose exchange is still ahead: accrual
		// starts at the initial exchange, not the status date.
		st.StatusDate = a.InitialExchangeDate
		return st, nil
	}
	if a.AccruedInterest != nil {
		st.AccruedInterest = a.RoleSign() * *a.AccruedInterest
	} else {
		from := a.InitialExchangeDate
		if !a.InterestAnchor.IsZero() && a.InterestAnchor.After(from) {
			from = a.InterestAnchor
		}
		st.AccruedInterest = c.yf(from, a.StatusDate) * st.NominalRate * st.Notional
	}
	st.AccruedFees = a.RoleSign() * a.FeeAccrued
	return st, nil
}

// accrue brings interest and notional-based fees forward to the given
// calculation time.
func (c *pam) accrue(st actus.State, to time.Time) actus.State {
	if !to.After(st.StatusDate) {
		return st
	}
	y := c.yf(st.StatusDate, to)
	st.AccruedInterest += y * st.NominalRate * st.Notional
	if c.terms.FeeRate != 0 && c.terms.FeeBasis == actus.FeeNotional {
		st.AccruedFees += y * c.terms.FeeRate * st.Notional
	}
	st.StatusDate = to
	return st
}

func (c *pam) payoff(st, pre actus.State, ev actus.Event) (float64, error) {
	a := c.terms
	sign := a.RoleSign()
	switch ev.Kind {
	case actus.EventIED:
		return sign * -1 * st.NotionalScaling * (a.NotionalPrincipal + a.PremiumDiscountAtIED), nil
	case actus.EventIP:
		return st.InterestScaling*st.AccruedInterest + st.AccruedFees, nil
	case actus.EventMD:
		return st.NotionalScaling*st.Notional + st.InterestScaling*st.AccruedInterest + st.AccruedFees, nil
	case actus.EventFP:
		if a.FeeBasis == actus.FeeAbsolute {
			return sign * a.FeeRate, nil
		}
		return st.AccruedFees, nil
	case actus.EventPY:
		return c.penalty(st, pre, ev.CalculationTime)
	case actus.EventPP:
		return sign * ev.Payoff, nil
	case actus.EventPRD:
		return sign * -1 * (a.PriceAtPurchase + st.AccruedInterest), nil
	case actus.EventTD:
		return sign * (a.PriceAtTermination + st.AccruedInterest), nil
	default:
		// AD, IPCI, RR, RRF, SC carry no cash flow.
		return 0, nil
	}
}

func (c *pam) penalty(st, pre actus.State, t time.Time) (float64, error) {
	a := c.terms
	sign := a.RoleSign()
	y := c.yf(pre.StatusDate, t)
	switch a.PenaltyType {
	case actus.PenaltyAbsolute:
		return sign * a.PenaltyRate, nil
	case actus.PenaltyRateDiff:
		if a.MarketObjectOfRateReset == "" {
			return sign * y * a.PenaltyRate * math.Abs(st.Notional), nil
		}
		diff := math.Max(0, st.NominalRate-c.market.Observe(a.MarketObjectOfRateReset, t))
		return sign * y * diff * math.Abs(st.Notional), nil
	default:
		return sign * y * a.PenaltyRate * math.Abs(st.Notional), nil
	}
}

func (c *pam) transition(st actus.State, ev actus.Event) (actus.State, error) {
	a := c.terms
	st.StatusDate = ev.Time
	switch ev.Kind {
	case actus.EventIED:
		st.Notional = a.RoleSign() * a.NotionalPrincipal
		st.NominalRate = a.NominalRate
		st.NotionalScaling, st.InterestScaling = 1, 1
		st.AccruedFees = 0
		switch {
		case a.AccruedInterest != nil:
			st.AccruedInterest = a.RoleSign() * *a.AccruedInterest
		case !a.InterestAnchor.IsZero() && a.InterestAnchor.Before(ev.Time):
			st.AccruedInterest = c.yf(a.InterestAnchor, ev.Time) * st.NominalRate * st.Notional
		default:
			st.AccruedInterest = 0
		}
	case actus.EventIP:
		st.AccruedInterest = 0
		st.AccruedFees = 0
	case actus.EventIPCI:
		st.Notional += st.AccruedInterest
		st.AccruedInterest = 0
	case actus.EventRR:
		observed := c.market.Observe(a.MarketObjectOfRateReset, ev.CalculationTime)
		st.NominalRate = a.ClampRate(observed*a.Multiplier() + a.RateSpread)
	case actus.EventRRF:
		if a.RateResetNext != nil {
			st.NominalRate = *a.RateResetNext
		}
	case actus.EventSC:
		ratio := c.scalingRatio(ev.CalculationTime)
		for _, flag := range a.ScalingEffect {
			switch flag {
			case 'N':
				st.NotionalScaling = ratio
			case 'I':
				st.InterestScaling = ratio
			}
		}
	case actus.EventFP:
		st.AccruedFees = 0
	case actus.EventPP:
		st.Notional -= a.RoleSign() * ev.Payoff
	case actus.EventMD, actus.EventTD:
		st.Notional = 0
		st.AccruedInterest = 0
		st.AccruedFees = 0
	}
	return st, nil
}

func (c *pam) scalingRatio(t time.Time) float64 {
	base := c.terms.ScalingIndexAtSD
	if base == 0 {
		base = 1
	}
	idx := c.market.Observe(c.terms.MarketObjectOfScaling, t)
	if idx == 0 {
		return 1
	}
	return idx / base
}

func (c *pam) Simulate() (*actus.SimulationResult, error) {
	return simulate(c)
}
