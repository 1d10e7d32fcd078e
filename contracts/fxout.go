package contracts

import (
	"fmt"
	"time"

	"github.com/meenmo/actuslib/actus"
)

// fxout is the foreign exchange outright: two notionals in two currencies
// exchanged on the settlement date. Gross delivery settles both legs in
// their own currency; net delivery settles the difference in the first
// currency at the observed exchange rate.
type fxout struct {
	base
}

func newFXOUT(b base) (*fxout, error) {
	c := &fxout{b}
	a := b.terms
	if a.NotionalPrincipal == 0 || a.NotionalPrincipal2 == 0 {
		return nil, fmt.Errorf("%w: both leg notionals are required", actus.ErrInvalidAttributes)
	}
	if a.Currency2 == "" {
		return nil, fmt.Errorf("%w: currency_2 is required", actus.ErrInvalidAttributes)
	}
	if a.MaturityDate.IsZero() {
		return nil, fmt.Errorf("%w: maturity_date is required", actus.ErrInvalidAttributes)
	}
	return c, nil
}

// fxRate is the observed value of one unit of the second currency in the
// first, preferring an explicit market object over the currency pair.
func (c *fxout) fxRate(t time.Time) float64 {
	a := c.terms
	id := a.MarketObjectOfUnderlier
	if id == "" {
		id = a.Currency2 + "/" + a.Currency
	}
	return c.market.Observe(id, t)
}

func (c *fxout) settlement() (time.Time, error) {
	return settleAfter(c.terms.MaturityDate, c.terms.SettlementPeriod)
}

func (c *fxout) Schedule() ([]actus.Event, error) {
	a := c.terms
	settle, err := c.settlement()
	if err != nil {
		return nil, err
	}
	var events []actus.Event
	if !a.PurchaseDate.IsZero() {
		events = append(events, c.unadjusted(actus.EventPRD, a.PurchaseDate))
	}
	if a.DeliverySettlement == actus.SettlementGross {
		first := c.unadjusted(actus.EventSTD, settle)
		second := c.unadjusted(actus.EventSTD, settle)
		second.Currency = a.Currency2
		events = append(events, first, second)
	} else {
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

func (c *fxout) InitialState() (actus.State, error) {
	a := c.terms
	st := actus.NewState(a.StatusDate, a.MaturityDate)
	st.Notional = a.RoleSign() * a.NotionalPrincipal
	return st, nil
}

func (c *fxout) accrue(st actus.State, _ time.Time) actus.State { return st }

func (c *fxout) payoff(st, _ actus.State, ev actus.Event) (float64, error) {
	a := c.terms
	sign := a.RoleSign()
	switch ev.Kind {
	case actus.EventPRD:
		return sign * -1 * a.PriceAtPurchase, nil
	case actus.EventSTD:
		if a.DeliverySettlement == actus.SettlementGross {
			// The leg delivered in the second currency flows the other way.
			if ev.Currency == a.Currency2 {
				return sign * -1 * a.NotionalPrincipal2, nil
			}
			return sign * a.NotionalPrincipal, nil
		}
		rate := c.fxRate(ev.CalculationTime)
		return sign * (a.NotionalPrincipal - a.NotionalPrincipal2*rate), nil
	default:
		return 0, nil
	}
}

func (c *fxout) transition(st actus.State, ev actus.Event) (actus.State, error) {
	st.StatusDate = ev.Time
	if ev.Kind == actus.EventSTD {
		st.Notional = 0
		st.ExerciseDate = ev.Time
	}
	return st, nil
}

func (c *fxout) Simulate() (*actus.SimulationResult, error) { return simulate(c) }
