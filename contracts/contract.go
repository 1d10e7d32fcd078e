// Package contracts implements the ACTUS contract variants: schedule
// generation, payoff and state-transition logic, and the lifecycle driver
// that materializes events.
package contracts

import (
	"fmt"
	"time"

	"github.com/meenmo/actuslib/actus"
	"github.com/meenmo/actuslib/calendar"
	"github.com/meenmo/actuslib/observers"
	"github.com/meenmo/actuslib/temporal"
)

// Contract is a fully constructed contract instance. The schedule and the
// initial state are derived from attributes alone; Simulate drives the
// lifecycle to completion and returns the materialized events.
type Contract interface {
	Attributes() *actus.Attributes
	Schedule() ([]actus.Event, error)
	InitialState() (actus.State, error)
	Simulate() (*actus.SimulationResult, error)
}

// New builds a contract of the variant named by the attributes. Attribute
// problems surface here, before any event is emitted. market must not be
// nil; children is required only for composite variants (SWAPS, CAPFL with
// an underlier, CEG, CEC).
func New(attrs *actus.Attributes, market observers.Market, children *observers.ChildContracts) (Contract, error) {
	if err := attrs.Validate(); err != nil {
		return nil, err
	}
	if market == nil {
		market = observers.Constant(0)
	}
	b := base{terms: attrs, market: market, children: children}
	switch attrs.ContractType {
	case actus.PAM:
		return newPAM(b)
	case actus.LAM:
		return newLAM(b)
	case actus.LAX:
		return newLAX(b)
	case actus.NAM:
		return newNAM(b)
	case actus.ANN:
		return newANN(b)
	case actus.CLM:
		return newCLM(b)
	case actus.UMP:
		return newUMP(b)
	case actus.CSH:
		return newCSH(b)
	case actus.STK:
		return newSTK(b)
	case actus.COM:
		return newCOM(b)
	case actus.FXOUT:
		return newFXOUT(b)
	case actus.OPTNS:
		return newOPTNS(b)
	case actus.FUTUR:
		return newFUTUR(b)
	case actus.SWPPV:
		return newSWPPV(b)
	case actus.SWAPS:
		return newSWAPS(b)
	case actus.CAPFL:
		return newCAPFL(b)
	case actus.CEG:
		return newCEG(b)
	case actus.CEC:
		return newCEC(b)
	default:
		return nil, fmt.Errorf("%w: unknown contract type %q", actus.ErrInvalidAttributes, attrs.ContractType)
	}
}

// base carries what every variant needs: the terms, the market observer and
// the (possibly nil) child-contract registry.
type base struct {
	terms    *actus.Attributes
	market   observers.Market
	children *observers.ChildContracts
}

func (b *base) Attributes() *actus.Attributes { return b.terms }

func (b *base) dcc() temporal.DayCountConvention {
	if b.terms.DayCountConvention != "" {
		return b.terms.DayCountConvention
	}
	return temporal.A360
}

func (b *base) cal() calendar.ID {
	if b.terms.Calendar != "" {
		return b.terms.Calendar
	}
	return calendar.NoHoliday
}

// yf is the year fraction under the contract's day-count convention.
func (b *base) yf(start, end time.Time) float64 {
	return temporal.YearFraction(start, end, b.dcc(), b.cal())
}

// settlementFX converts a payoff into the settlement currency at t using
// the observed CUR/CURS rate. Identity when no distinct settlement
// currency is set; a zero observation means the rate is missing.
func (b *base) settlementFX(t time.Time) (float64, error) {
	curs := b.terms.SettlementCurrency
	if curs == "" || curs == b.terms.Currency {
		return 1, nil
	}
	pair := b.terms.Currency + "/" + curs
	rate := b.market.Observe(pair, t)
	if rate == 0 {
		return 0, fmt.Errorf("%w: no %s rate at %s",
			actus.ErrObserverFailure, pair, t.Format("2006-01-02"))
	}
	return rate, nil
}

// callouts returns the behavioral observer's injected events for this
// contract, empty when the market observer is not behavioral.
func (b *base) callouts() []observers.Callout {
	if beh, ok := b.market.(observers.Behavioral); ok {
		return beh.Callouts(b.terms.ContractID)
	}
	return nil
}

// childState reads a child contract's state as of t.
func (b *base) childState(id string, t time.Time) (actus.State, error) {
	if b.children == nil {
		return actus.State{}, fmt.Errorf("%w: %q (no child registry)", actus.ErrMissingChild, id)
	}
	return b.children.StateAt(id, t)
}
