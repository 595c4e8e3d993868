package engine

import (
	"errors"
	"fmt"

	"github.com/gherrick0918/SoloDnDApp/engine/state"
)

// ErrBrokenGraph is returned when the campaign references a node that does
// not exist. The session stays usable; the offending move is not applied.
var ErrBrokenGraph = errors.New("broken content graph")

// BrokenGraphError names the missing node and where it was referenced from.
// From is empty when the current node itself is missing.
type BrokenGraphError struct {
	NodeID string
	From   string
}

func (e *BrokenGraphError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("%v: current node %q does not exist", ErrBrokenGraph, e.NodeID)
	}
	return fmt.Sprintf("%v: node %q references missing node %q", ErrBrokenGraph, e.From, e.NodeID)
}

// Unwrap matches both ErrBrokenGraph and state.ErrNodeNotFound.
func (e *BrokenGraphError) Unwrap() []error {
	return []error{ErrBrokenGraph, state.ErrNodeNotFound}
}
