package contracts

import (
	"fmt"
	"time"

	"github.com/meenmo/actuslib/actus"
)

// futur is a future: the underlying's observed price against the agreed
// futures price, fixed at maturity and settled after the settlement
// period. Analysis dates mark the position to market without cash flow.
type futur struct {
	base
}

func newFUTUR(b base) (*futur, error) {
	c := &futur{b}
	a := b.terms
	if a.MaturityDate.IsZero() {
		return nil, fmt.Errorf("%w: maturity_date is required", actus.ErrInvalidAttributes)
	}
	return c, nil
}

func (c *futur) Schedule() ([]actus.Event, error) {
	a := c.terms
	var events []actus.Event
	if !a.PurchaseDate.IsZero() {
		events = append(events, c.unadjusted(actus.EventPRD, a.PurchaseDate))
	}
	events = append(events, c.unadjusted(actus.EventXD, a.MaturityDate))
	if a.SettlementPeriod != "" {
		settle, err := settleAfter(a.MaturityDate, a.SettlementPeriod)
		if err != nil {
			return nil, err
		}
		events = append(events, c.unadjusted(actus.EventSTD, settle))
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

func (c *futur) InitialState() (actus.State, error) {
	a := c.terms
	return actus.NewState(a.StatusDate, a.MaturityDate), nil
}

func (c *futur) accrue(st actus.State, _ time.Time) actus.State { return st }

// settlementValue is the unsigned mark against the futures price.
func (c *futur) settlementValue(t time.Time) float64 {
	a := c.terms
	return c.market.Observe(a.MarketObjectOfUnderlier, t) - a.FuturesPrice
}

func (c *futur) payoff(st, _ actus.State, ev actus.Event) (float64, error) {
	a := c.terms
	sign := a.RoleSign()
	switch ev.Kind {
	case actus.EventPRD:
		return sign * -1 * a.PriceAtPurchase, nil
	case actus.EventXD:
		if a.SettlementPeriod != "" {
			return 0, nil
		}
		return sign * c.settlementValue(ev.CalculationTime), nil
	case actus.EventSTD:
		return sign * st.ExerciseAmount, nil
	default:
		return 0, nil
	}
}

func (c *futur) transition(st actus.State, ev actus.Event) (actus.State, error) {
	st.StatusDate = ev.Time
	switch ev.Kind {
	case actus.EventXD:
		st.ExerciseDate = ev.Time
		st.ExerciseAmount = c.settlementValue(ev.CalculationTime)
	case actus.EventSTD:
		st.ExerciseAmount = 0
	}
	return st, nil
}

func (c *futur) Simulate() (*actus.SimulationResult, error) { return simulate(c) }
