package observers

import (
	"fmt"
	"time"

	"github.com/meenmo/actuslib/actus"
)

// ChildContracts exposes simulated child results to composite parents.
// Results are registered by the composite resolver and frozen before the
// parent runs; nothing here mutates after registration.
type ChildContracts struct {
	results map[string]*actus.SimulationResult
	attrs   map[string]*actus.Attributes
	frozen  bool
}

// NewChildContracts returns an empty child registry.
func NewChildContracts() *ChildContracts {
	return &ChildContracts{
		results: map[string]*actus.SimulationResult{},
		attrs:   map[string]*actus.Attributes{},
	}
}

// Register installs a simulated child. Registering after Freeze panics:
// composite parents must observe a fixed world.
func (c *ChildContracts) Register(attrs *actus.Attributes, result *actus.SimulationResult) {
	if c.frozen {
		panic("observers: register on frozen child registry")
	}
	c.results[attrs.ContractID] = result
	c.attrs[attrs.ContractID] = attrs
}

// Freeze closes the registry for writes.
func (c *ChildContracts) Freeze() { c.frozen = true }

// Has reports whether a child id is registered.
func (c *ChildContracts) Has(id string) bool {
	_, ok := c.results[id]
	return ok
}

// Events returns a child's materialized event list.
func (c *ChildContracts) Events(id string) ([]actus.Event, error) {
	r, ok := c.results[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", actus.ErrMissingChild, id)
	}
	return r.Events, nil
}

// Attributes returns a child's contract attributes.
func (c *ChildContracts) Attributes(id string) (*actus.Attributes, error) {
	a, ok := c.attrs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", actus.ErrMissingChild, id)
	}
	return a, nil
}

// StateAt returns the child's state as of t: the post-state of the last
// event at or before t, or the first event's pre-state when t precedes the
// whole lifecycle.
func (c *ChildContracts) StateAt(id string, t time.Time) (actus.State, error) {
	r, ok := c.results[id]
	if !ok {
		return actus.State{}, fmt.Errorf("%w: %q", actus.ErrMissingChild, id)
	}
	if len(r.Events) == 0 {
		return actus.State{}, fmt.Errorf("%w: %q has no events", actus.ErrMissingChild, id)
	}
	state := r.Events[0].StatePre
	for _, e := range r.Events {
		if e.Time.After(t) {
			break
		}
		state = e.StatePost
	}
	return state, nil
}
