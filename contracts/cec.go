package contracts

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/actuslib/actus"
)

// cec is a credit enhancement collateral: at each monitoring date the
// covered contract's exposure, scaled by the coverage ratio, is compared
// against the value of the covering collateral position. A shortfall
// raises a margin-call settlement for the missing amount.
type cec struct {
	base
	coveredIDs  []string
	coveringIDs []string
}

func newCEC(b base) (*cec, error) {
	c := &cec{base: b}
	a := b.terms
	for key, id := range a.ContractStructure {
		switch key {
		case "Covering", "Collateral":
			c.coveringIDs = append(c.coveringIDs, id)
		default:
			c.coveredIDs = append(c.coveredIDs, id)
		}
	}
	if len(c.coveredIDs) == 0 || len(c.coveringIDs) == 0 {
		return nil, fmt.Errorf("%w: collateral needs a covered and a covering contract", actus.ErrInvalidAttributes)
	}
	if a.Coverage == 0 {
		return nil, fmt.Errorf("%w: coverage is required", actus.ErrInvalidAttributes)
	}
	if b.children == nil {
		return nil, fmt.Errorf("%w: collateral needs simulated child contracts", actus.ErrMissingChild)
	}
	return c, nil
}

// shortfall is the unsigned margin call amount at t: required cover minus
// available collateral, floored at zero.
func (c *cec) shortfall(t time.Time) (float64, error) {
	var required, available float64
	for _, id := range c.coveredIDs {
		st, err := c.childState(id, t)
		if err != nil {
			return 0, err
		}
		required += math.Abs(st.Notional) + math.Abs(st.AccruedInterest)
	}
	required *= c.terms.Coverage
	for _, id := range c.coveringIDs {
		st, err := c.childState(id, t)
		if err != nil {
			return 0, err
		}
		value := math.Abs(st.Notional)
		if price := c.market.Observe(id, t); price != 0 {
			value *= price
		}
		available += value
	}
	return math.Max(0, required-available), nil
}

func (c *cec) Schedule() ([]actus.Event, error) {
	a := c.terms
	var events []actus.Event
	for _, t := range a.AnalysisDates {
		events = append(events, c.unadjusted(actus.EventAD, t))
		// The margin check runs against pre-simulated children, so the
		// call amount is known at schedule time.
		amount, err := c.shortfall(t)
		if err != nil {
			return nil, err
		}
		if amount > 0 {
			std := c.unadjusted(actus.EventSTD, t)
			std.Payoff = amount
			events = append(events, std)
		}
	}
	if !a.MaturityDate.IsZero() {
		events = append(events, c.unadjusted(actus.EventMD, a.MaturityDate))
	}

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

func (c *cec) InitialState() (actus.State, error) {
	a := c.terms
	return actus.NewState(a.StatusDate, a.MaturityDate), nil
}

func (c *cec) accrue(st actus.State, _ time.Time) actus.State { return st }

func (c *cec) payoff(st, _ actus.State, ev actus.Event) (float64, error) {
	if ev.Kind == actus.EventSTD {
		return c.terms.RoleSign() * ev.Payoff, nil
	}
	return 0, nil
}

func (c *cec) transition(st actus.State, ev actus.Event) (actus.State, error) {
	st.StatusDate = ev.Time
	switch ev.Kind {
	case actus.EventSTD:
		st.ExerciseDate = ev.Time
		st.ExerciseAmount = ev.Payoff
	case actus.EventMD:
		st.Notional = 0
	}
	return st, nil
}

func (c *cec) Simulate() (*actus.SimulationResult, error) { return simulate(c) }
