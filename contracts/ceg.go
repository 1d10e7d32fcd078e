package contracts

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/actuslib/actus"
)

// ceg is a credit enhancement guarantee over one or more covered
// contracts. An observed credit event marks exercise; settlement after
// the settlement period pays the covered exposure times the coverage
// ratio. The guarantee extent selects how much of the exposure counts:
// outstanding notional, notional plus accrued interest, or additionally
// the observed market value of the covered contract.
type ceg struct {
	base
}

func newCEG(b base) (*ceg, error) {
	c := &ceg{b}
	a := b.terms
	if len(a.ContractStructure) == 0 {
		return nil, fmt.Errorf("%w: a covered contract is required", actus.ErrInvalidAttributes)
	}
	if a.Coverage == 0 {
		return nil, fmt.Errorf("%w: coverage is required", actus.ErrInvalidAttributes)
	}
	if b.children == nil {
		return nil, fmt.Errorf("%w: guarantee needs simulated covered contracts", actus.ErrMissingChild)
	}
	return c, nil
}

// exposure is the unsigned covered exposure across all covered contracts
// as of t, per the guarantee extent.
func (c *ceg) exposure(t time.Time) (float64, error) {
	a := c.terms
	var total float64
	for _, id := range a.ContractStructure {
		st, err := c.childState(id, t)
		if err != nil {
			return 0, err
		}
		amount := math.Abs(st.Notional)
		switch a.GuaranteeExtent {
		case actus.ExtentNominalIntr:
			amount += math.Abs(st.AccruedInterest)
		case actus.ExtentMarketValue:
			amount += math.Abs(st.AccruedInterest) + math.Abs(c.market.Observe(id, t))
		}
		total += amount
	}
	return total, nil
}

func (c *ceg) Schedule() ([]actus.Event, error) {
	a := c.terms
	var events []actus.Event
	if !a.PurchaseDate.IsZero() {
		events = append(events, c.unadjusted(actus.EventPRD, a.PurchaseDate))
	}
	for _, co := range c.callouts() {
		if co.Kind != actus.EventCE && co.Kind != actus.EventXD {
			continue
		}
		events = append(events, c.unadjusted(actus.EventXD, co.Time))
		settle, err := settleAfter(co.Time, a.SettlementPeriod)
		if err != nil {
			return nil, err
		}
		// Children are simulated before the parent, so the covered
		// exposure at the credit event is known at schedule time; the
		// settlement entry carries it as a hint.
		amount, err := c.exposure(co.Time)
		if err != nil {
			return nil, err
		}
		std := c.unadjusted(actus.EventSTD, settle)
		std.Payoff = a.Coverage * amount
		events = append(events, std)
		break // the guarantee settles once
	}
	if !a.MaturityDate.IsZero() {
		events = append(events, c.unadjusted(actus.EventMD, a.MaturityDate))
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

func (c *ceg) InitialState() (actus.State, error) {
	a := c.terms
	st := actus.NewState(a.StatusDate, a.MaturityDate)
	amount, err := c.exposure(a.StatusDate)
	if err != nil {
		return st, err
	}
	st.Notional = a.RoleSign() * a.Coverage * amount
	return st, nil
}

func (c *ceg) accrue(st actus.State, _ time.Time) actus.State { return st }

func (c *ceg) payoff(st, _ actus.State, ev actus.Event) (float64, error) {
	a := c.terms
	sign := a.RoleSign()
	switch ev.Kind {
	case actus.EventPRD:
		return sign * -1 * a.PriceAtPurchase, nil
	case actus.EventSTD:
		return sign * ev.Payoff, nil
	default:
		return 0, nil
	}
}

func (c *ceg) transition(st actus.State, ev actus.Event) (actus.State, error) {
	st.StatusDate = ev.Time
	switch ev.Kind {
	case actus.EventXD:
		st.ExerciseDate = ev.Time
		st.Performance = actus.PerformanceDF
	case actus.EventSTD, actus.EventMD:
		st.Notional = 0
		st.ExerciseAmount = 0
	}
	return st, nil
}

func (c *ceg) Simulate() (*actus.SimulationResult, error) { return simulate(c) }
