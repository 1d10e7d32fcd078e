package contracts

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/actuslib/actus"
)

// lam is the linear amortizer: principal repaid in equal installments on a
// redemption cycle, interest accruing on the interest calculation base.
type lam struct {
	pam
}

func newLAM(b base) (*lam, error) {
	c := &lam{pam{base: b}}
	if err := c.check(); err != nil {
		return nil, err
	}
	if b.terms.PrincipalCycle == "" {
		return nil, fmt.Errorf("%w: principal_redemption_cycle is required", actus.ErrInvalidAttributes)
	}
	return c, nil
}

// installment is the signed per-period redemption: the PRNXT attribute when
// given, otherwise the notional spread evenly over the redemption periods
// (the grid dates plus the final payment at maturity).
func (c *lam) installment() (float64, error) {
	a := c.terms
	if a.NextPrincipalPayment != nil {
		return a.RoleSign() * *a.NextPrincipalPayment, nil
	}
	dates, err := c.prDates()
	if err != nil {
		return 0, err
	}
	return a.RoleSign() * a.NotionalPrincipal / float64(len(dates)+1), nil
}

// prDates expands the principal redemption grid, excluding maturity (the
// final redemption is the maturity payoff).
func (c *lam) prDates() ([]time.Time, error) {
	a := c.terms
	anchor := a.PrincipalAnchor
	if anchor.IsZero() {
		anchor = a.InitialExchangeDate
	}
	events, err := c.cycledOpen(actus.EventPR, anchor, a.PrincipalCycle, c.terminalOrMaturity())
	if err != nil {
		return nil, err
	}
	var out []time.Time
	for _, e := range events {
		if e.Time.After(a.InitialExchangeDate) {
			out = append(out, e.Time)
		}
	}
	return out, nil
}

func (c *lam) Schedule() ([]actus.Event, error) {
	events, err := c.amortizerEvents()
	if err != nil {
		return nil, err
	}
	return c.finalize(events), nil
}

// amortizerEvents is the un-finalized union of the PAM families with the
// principal redemption and calculation-base grids; NAM and ANN reuse it.
func (c *lam) amortizerEvents() ([]actus.Event, error) {
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

	pr, err := c.cycledOpen(actus.EventPR, c.principalAnchor(), a.PrincipalCycle, end)
	if err != nil {
		return nil, err
	}
	events = append(events, after(pr, a.InitialExchangeDate)...)

	if a.CalcBase == actus.CalcBaseNTL && a.CalcBaseCycle != "" {
		anchor := a.CalcBaseAnchor
		if anchor.IsZero() {
			anchor = a.InitialExchangeDate
		}
		ipcb, err := c.cycledOpen(actus.EventIPCB, anchor, a.CalcBaseCycle, end)
		if err != nil {
			return nil, err
		}
		events = append(events, after(ipcb, a.InitialExchangeDate)...)
	}

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

	events = append(events, c.unadjusted(actus.EventMD, end))
	events = c.addAnalysisEvents(events)
	events = c.addCallouts(events, actus.EventPP, actus.EventPY)
	return events, nil
}

func (c *lam) principalAnchor() time.Time {
	if !c.terms.PrincipalAnchor.IsZero() {
		return c.terms.PrincipalAnchor
	}
	return c.terms.InitialExchangeDate
}

func (c *lam) InitialState() (actus.State, error) {
	st, err := c.pam.InitialState()
	if err != nil {
		return st, err
	}
	if st.Notional != 0 {
		// Pre-existing contract: calculation base and installment as at IED.
		st.InterestCalcBase = c.initialCalcBase(st.Notional)
		st.NextPrincipal, err = c.installment()
		if err != nil {
			return st, err
		}
	}
	return st, nil
}

func (c *lam) initialCalcBase(notional float64) float64 {
	switch c.terms.CalcBase {
	case actus.CalcBaseNTL:
		if c.terms.CalcBaseAmount != 0 {
			return c.terms.RoleSign() * c.terms.CalcBaseAmount
		}
		return notional
	default:
		return notional
	}
}

// accrue uses the interest calculation base rather than the notional.
func (c *lam) accrue(st actus.State, to time.Time) actus.State {
	if !to.After(st.StatusDate) {
		return st
	}
	y := c.yf(st.StatusDate, to)
	st.AccruedInterest += y * st.NominalRate * st.CalcBase()
	if c.terms.FeeRate != 0 && c.terms.FeeBasis == actus.FeeNotional {
		st.AccruedFees += y * c.terms.FeeRate * st.Notional
	}
	st.StatusDate = to
	return st
}

// cappedRedemption limits a principal payment so the notional cannot cross
// zero.
func cappedRedemption(payment, notional float64) float64 {
	if math.Abs(payment) > math.Abs(notional) {
		return notional
	}
	return payment
}

func (c *lam) payoff(st, pre actus.State, ev actus.Event) (float64, error) {
	if ev.Kind == actus.EventPR {
		return st.NotionalScaling * cappedRedemption(st.NextPrincipal, st.Notional), nil
	}
	return c.pam.payoff(st, pre, ev)
}

func (c *lam) transition(st actus.State, ev actus.Event) (actus.State, error) {
	a := c.terms
	switch ev.Kind {
	case actus.EventIED:
		st, err := c.pam.transition(st, ev)
		if err != nil {
			return st, err
		}
		st.InterestCalcBase = c.initialCalcBase(st.Notional)
		st.NextPrincipal, err = c.installment()
		return st, err
	case actus.EventPR:
		st.StatusDate = ev.Time
		st.Notional -= cappedRedemption(st.NextPrincipal, st.Notional)
		if a.CalcBase == "" || a.CalcBase == actus.CalcBaseNT {
			st.InterestCalcBase = st.Notional
		}
		return st, nil
	case actus.EventIPCB:
		st.StatusDate = ev.Time
		st.InterestCalcBase = st.Notional
		return st, nil
	case actus.EventIPCI:
		st.StatusDate = ev.Time
		st.Notional += st.AccruedInterest
		st.AccruedInterest = 0
		if a.CalcBase == "" || a.CalcBase == actus.CalcBaseNT {
			st.InterestCalcBase = st.Notional
		}
		return st, nil
	case actus.EventMD, actus.EventTD:
		st, err := c.pam.transition(st, ev)
		st.InterestCalcBase = 0
		return st, err
	default:
		return c.pam.transition(st, ev)
	}
}

func (c *lam) Simulate() (*actus.SimulationResult, error) {
	return simulate(c)
}
