package actus

import "time"

// State holds the time-varying cells of a contract. Values are stored
// already signed by the contract role; transitions return a new value
// rather than mutating.
type State struct {
	StatusDate   time.Time
	MaturityDate time.Time

	Notional         float64 // Nt
	NominalRate      float64 // Ipnr
	AccruedInterest  float64 // Ipac (net accrual for SWPPV)
	AccruedInterest1 float64 // Ipac1, fixed leg of SWPPV
	AccruedInterest2 float64 // Ipac2, floating leg of SWPPV
	AccruedFees      float64 // Feac
	NotionalScaling  float64 // Nsc
	InterestScaling  float64 // Isc
	NextPrincipal    float64 // Prnxt
	InterestCalcBase float64 // Ipcb

	Performance    Performance
	ExerciseDate   time.Time
	ExerciseAmount float64 // Xa
}

// NewState returns a state with scaling multipliers at one and performant
// status, the rest zeroed.
func NewState(statusDate, maturity time.Time) State {
	return State{
		StatusDate:      statusDate,
		MaturityDate:    maturity,
		NotionalScaling: 1,
		InterestScaling: 1,
		Performance:     PerformancePF,
	}
}

// CalcBase returns the interest calculation base, falling back to the
// notional when no base has been fixed.
func (s State) CalcBase() float64 {
	if s.InterestCalcBase != 0 {
		return s.InterestCalcBase
	}
	return s.Notional
}
