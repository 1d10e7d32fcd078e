package contracts

import (
	"fmt"
	"time"

	"github.com/meenmo/actuslib/actus"
)

// lifecycle is what the driver needs from a variant. payoff receives the
// accrued state (interest and fees brought forward to the calculation
// time) plus the pre-accrual state for formulas that span the elapsed
// period, such as penalties. Scheduled events may carry an observed amount
// hint in ev.Payoff (behavioral callouts); the driver replaces it with the
// payoff function's result.
type lifecycle interface {
	Attributes() *actus.Attributes
	Schedule() ([]actus.Event, error)
	InitialState() (actus.State, error)
	accrue(st actus.State, to time.Time) actus.State
	payoff(st, pre actus.State, ev actus.Event) (float64, error)
	transition(st actus.State, ev actus.Event) (actus.State, error)
	settlementFX(t time.Time) (float64, error)
}

// simulate drives a contract's event list in priority order: accrue to the
// calculation time, evaluate the payoff on the accrued state, transition,
// emit. A mid-lifecycle failure returns the events materialized so far
// together with the error.
func simulate(ops lifecycle) (*actus.SimulationResult, error) {
	attrs := ops.Attributes()
	events, err := ops.Schedule()
	if err != nil {
		return nil, err
	}
	state, err := ops.InitialState()
	if err != nil {
		return nil, err
	}
	result := &actus.SimulationResult{
		ContractID: attrs.ContractID,
		Events:     make([]actus.Event, 0, len(events)),
	}
	for _, ev := range events {
		pre := state
		accrued := ops.accrue(state, ev.CalculationTime)

		payoff, err := ops.payoff(accrued, pre, ev)
		if err != nil {
			return result, eventErr(attrs.ContractID, ev, err)
		}
		post, err := ops.transition(accrued, ev)
		if err != nil {
			return result, eventErr(attrs.ContractID, ev, err)
		}

		fx, err := ops.settlementFX(ev.CalculationTime)
		if err != nil {
			return result, eventErr(attrs.ContractID, ev, err)
		}

		ev.Payoff = payoff * fx
		ev.StatePre = pre
		ev.StatePost = post
		result.Events = append(result.Events, ev)
		state = post
	}
	return result, nil
}

func eventErr(contractID string, ev actus.Event, err error) error {
	return fmt.Errorf("contract %s: event %s at %s: %w",
		contractID, ev.Kind, ev.Time.Format("2006-01-02"), err)
}
