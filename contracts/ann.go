package contracts

import (
	"fmt"
	"time"

	"github.com/meenmo/actuslib/actus"
)

// ann is the annuity: negative-amortizer mechanics with the installment
// recomputed at every rate change so the remaining notional amortizes to
// zero by maturity in level payments.
type ann struct {
	nam
}

func newANN(b base) (*ann, error) {
	inner, err := newNAM(b)
	if err != nil {
		return nil, err
	}
	return &ann{nam: *inner}, nil
}

func (c *ann) transition(st actus.State, ev actus.Event) (actus.State, error) {
	st, err := c.nam.transition(st, ev)
	if err != nil {
		return st, err
	}
	switch ev.Kind {
	case actus.EventRR, actus.EventRRF, actus.EventIED:
		prnxt, err := c.annuityPayment(st, ev.Time)
		if err != nil {
			return st, err
		}
		st.NextPrincipal = prnxt
	}
	return st, nil
}

// annuityPayment solves the level installment A for the balance recursion
// B_i = B_{i-1}(1 + r y_i) - A over the redemption dates remaining after t,
// closing with the maturity date, such that the final balance is zero.
func (c *ann) annuityPayment(st actus.State, t time.Time) (float64, error) {
	dates, err := c.prDates()
	if err != nil {
		return 0, err
	}
	var remaining []time.Time
	for _, d := range dates {
		if d.After(t) {
			remaining = append(remaining, d)
		}
	}
	remaining = append(remaining, st.MaturityDate)

	// product = prod(1 + r y_i); weight = sum over i of prod_{j>i}(1 + r y_j),
	// accumulated right to left.
	prev := t
	factors := make([]float64, len(remaining))
	for i, d := range remaining {
		factors[i] = 1 + st.NominalRate*c.yf(prev, d)
		prev = d
	}
	product := 1.0
	weight := 0.0
	for i := len(factors) - 1; i >= 0; i-- {
		weight += product
		product *= factors[i]
	}
	if weight == 0 {
		return 0, fmt.Errorf("%w: annuity over empty schedule", actus.ErrNumericDomain)
	}
	return (st.Notional + st.AccruedInterest) * product / weight, nil
}

func (c *ann) Simulate() (*actus.SimulationResult, error) {
	return simulate(c)
}
