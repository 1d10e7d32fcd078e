package contracts

import (
	"github.com/meenmo/actuslib/actus"
)

// nam is the negative amortizer: a fixed installment covers interest first,
// the remainder amortizes principal. When the installment is smaller than
// the accrued interest the notional grows.
type nam struct {
	lam
}

func newNAM(b base) (*nam, error) {
	inner, err := newLAM(b)
	if err != nil {
		return nil, err
	}
	return &nam{lam: *inner}, nil
}

// netRedemption is the principal part of the installment: the payment net
// of all interest accrued to the event, capped at the outstanding notional.
// Both Prnxt and Ipac are stored role-signed, so the difference must not be
// multiplied by the role sign again.
func netRedemption(st actus.State) float64 {
	return cappedRedemption(st.NextPrincipal-st.AccruedInterest, st.Notional)
}

func (c *nam) payoff(st, pre actus.State, ev actus.Event) (float64, error) {
	if ev.Kind == actus.EventPR {
		return st.NotionalScaling * netRedemption(st), nil
	}
	return c.lam.payoff(st, pre, ev)
}

func (c *nam) transition(st actus.State, ev actus.Event) (actus.State, error) {
	if ev.Kind == actus.EventPR {
		st.StatusDate = ev.Time
		st.Notional -= netRedemption(st)
		// Accrued interest stays on the books; the interest payment event
		// settles it separately.
		if c.terms.CalcBase == "" || c.terms.CalcBase == actus.CalcBaseNT {
			st.InterestCalcBase = st.Notional
		}
		return st, nil
	}
	return c.lam.transition(st, ev)
}

func (c *nam) Simulate() (*actus.SimulationResult, error) {
	return simulate(c)
}
