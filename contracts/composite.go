package contracts

import (
	"fmt"

	"github.com/meenmo/actuslib/actus"
	"github.com/meenmo/actuslib/observers"
)

// ResolveChildren simulates the children a composite contract declares in
// its structure, depth-first so that grandchildren run before the
// contracts depending on them, and returns the frozen registry the parent
// observes. pool maps contract ids to their attributes; a structure
// reaching outside the pool fails with ErrMissingChild, a circular
// structure with ErrCyclicStructure.
func ResolveChildren(parent *actus.Attributes, pool map[string]*actus.Attributes, market observers.Market) (*observers.ChildContracts, error) {
	children := observers.NewChildContracts()
	visiting := map[string]bool{parent.ContractID: true}
	for _, id := range parent.ContractStructure {
		if err := resolve(id, pool, market, children, visiting); err != nil {
			return nil, err
		}
	}
	children.Freeze()
	return children, nil
}

func resolve(id string, pool map[string]*actus.Attributes, market observers.Market, children *observers.ChildContracts, visiting map[string]bool) error {
	if children.Has(id) {
		return nil
	}
	if visiting[id] {
		return fmt.Errorf("%w: %q", actus.ErrCyclicStructure, id)
	}
	attrs, ok := pool[id]
	if !ok {
		return fmt.Errorf("%w: %q", actus.ErrMissingChild, id)
	}
	visiting[id] = true
	for _, childID := range attrs.ContractStructure {
		if err := resolve(childID, pool, market, children, visiting); err != nil {
			return err
		}
	}
	delete(visiting, id)

	// A child that is itself composite observes its own children through
	// the shared registry; freezing happens once the whole tree is done.
	contract, err := New(attrs, market, children)
	if err != nil {
		return err
	}
	result, err := contract.Simulate()
	if err != nil {
		return fmt.Errorf("child %s: %w", id, err)
	}
	children.Register(attrs, result)
	return nil
}

// Simulate builds and runs a single contract, resolving its children
// first when it declares any. This is the entry point for callers holding
// a flat pool of contract attributes.
func Simulate(attrs *actus.Attributes, pool map[string]*actus.Attributes, market observers.Market) (*actus.SimulationResult, error) {
	var children *observers.ChildContracts
	if len(attrs.ContractStructure) > 0 {
		resolved, err := ResolveChildren(attrs, pool, market)
		if err != nil {
			return nil, err
		}
		children = resolved
	}
	contract, err := New(attrs, market, children)
	if err != nil {
		return nil, err
	}
	return contract.Simulate()
}
