package actus

import "errors"

// Factory-stage errors abort before any event is emitted. Simulation-stage
// errors abort the contract but leave already materialized events in the
// partial result for diagnostics.
var (
	ErrInvalidAttributes = errors.New("actus: invalid attributes")
	ErrInvalidSchedule   = errors.New("actus: invalid schedule")
	ErrCyclicStructure   = errors.New("actus: cyclic contract structure")
	ErrMissingChild      = errors.New("actus: missing child contract")
	ErrNumericDomain     = errors.New("actus: numeric domain error")
	ErrObserverFailure   = errors.New("actus: observer failure")
)
