package contracts

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/actuslib/actus"
)

// optns is an option on an observed underlying. Exercise opportunities
// depend on the style: European exercises at maturity only, American on a
// monthly grid up to maturity, Bermudan at the end of the exercise window.
// The first exercise with positive intrinsic value fixes the exercise
// amount; settlement pays it out after the settlement period.
type optns struct {
	base
}

func newOPTNS(b base) (*optns, error) {
	c := &optns{b}
	a := b.terms
	if a.MaturityDate.IsZero() {
		return nil, fmt.Errorf("%w: maturity_date is required", actus.ErrInvalidAttributes)
	}
	if a.OptionType == "" {
		return nil, fmt.Errorf("%w: option_type is required", actus.ErrInvalidAttributes)
	}
	if a.ExerciseType == actus.ExerciseBermudan && a.ExerciseEndDate.IsZero() {
		return nil, fmt.Errorf("%w: exercise_end_date is required for Bermudan style", actus.ErrInvalidAttributes)
	}
	return c, nil
}

// exerciseDates is the XD grid for the contract's exercise style.
func (c *optns) exerciseDates() ([]time.Time, error) {
	a := c.terms
	switch a.ExerciseType {
	case actus.ExerciseAmerican:
		cycle, err := c.cycled(actus.EventXD, a.StatusDate, "1M", a.MaturityDate)
		if err != nil {
			return nil, err
		}
		out := make([]time.Time, 0, len(cycle))
		for _, e := range cycle {
			out = append(out, e.Time)
		}
		return out, nil
	case actus.ExerciseBermudan:
		return []time.Time{a.ExerciseEndDate}, nil
	default: // European
		return []time.Time{a.MaturityDate}, nil
	}
}

func (c *optns) Schedule() ([]actus.Event, error) {
	a := c.terms
	var events []actus.Event
	if !a.PurchaseDate.IsZero() {
		events = append(events, c.unadjusted(actus.EventPRD, a.PurchaseDate))
	}
	dates, err := c.exerciseDates()
	if err != nil {
		return nil, err
	}
	for _, d := range dates {
		events = append(events, c.unadjusted(actus.EventXD, d))
		if a.SettlementPeriod != "" {
			settle, err := settleAfter(d, a.SettlementPeriod)
			if err != nil {
				return nil, err
			}
			events = append(events, c.unadjusted(actus.EventSTD, settle))
		}
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

func (c *optns) InitialState() (actus.State, error) {
	a := c.terms
	return actus.NewState(a.StatusDate, a.MaturityDate), nil
}

func (c *optns) accrue(st actus.State, _ time.Time) actus.State { return st }

// intrinsic is the unsigned exercise value at t: call against the first
// strike, put against the first strike, collar as a bought call on the
// first strike against a written put on the second.
func (c *optns) intrinsic(t time.Time) float64 {
	a := c.terms
	spot := c.market.Observe(a.MarketObjectOfUnderlier, t)
	switch a.OptionType {
	case actus.OptionPut:
		return math.Max(0, a.OptionStrike1-spot)
	case actus.OptionCollar:
		return math.Max(0, spot-a.OptionStrike1) - math.Max(0, a.OptionStrike2-spot)
	default: // call
		return math.Max(0, spot-a.OptionStrike1)
	}
}

func (c *optns) payoff(st, _ actus.State, ev actus.Event) (float64, error) {
	a := c.terms
	sign := a.RoleSign()
	switch ev.Kind {
	case actus.EventPRD:
		return sign * -1 * a.PriceAtPurchase, nil
	case actus.EventXD:
		if a.SettlementPeriod != "" {
			// Exercise only fixes the amount; settlement pays.
			return 0, nil
		}
		if !st.ExerciseDate.IsZero() {
			return 0, nil
		}
		return sign * math.Max(0, c.intrinsic(ev.CalculationTime)), nil
	case actus.EventSTD:
		return sign * st.ExerciseAmount, nil
	default:
		return 0, nil
	}
}

func (c *optns) transition(st actus.State, ev actus.Event) (actus.State, error) {
	st.StatusDate = ev.Time
	switch ev.Kind {
	case actus.EventXD:
		if !st.ExerciseDate.IsZero() {
			return st, nil
		}
		if value := c.intrinsic(ev.CalculationTime); value > 0 {
			st.ExerciseDate = ev.Time
			st.ExerciseAmount = value
		}
	case actus.EventSTD:
		st.ExerciseAmount = 0
	}
	return st, nil
}

func (c *optns) Simulate() (*actus.SimulationResult, error) { return simulate(c) }
