// Package state indexes the immutable campaign graph and builds the
// mutable session state that the engine advances.
package state

import (
	"errors"
	"fmt"

	"github.com/gherrick0918/SoloDnDApp/types"
)

// ErrNodeNotFound is returned when a node ID is absent from the campaign.
var ErrNodeNotFound = errors.New("node not found")

// NodeNotFoundError names the missing node.
type NodeNotFoundError struct {
	NodeID string
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("node %q not found", e.NodeID)
}

// Unwrap lets errors.Is match ErrNodeNotFound.
func (e *NodeNotFoundError) Unwrap() error {
	return ErrNodeNotFound
}

// Graph holds the immutable campaign with a node index.
type Graph struct {
	campaign types.Campaign
	index    map[string]int
}

// NewGraph indexes the campaign's nodes by ID. On duplicate IDs the first
// node in list order wins.
func NewGraph(c types.Campaign) *Graph {
	g := &Graph{
		campaign: c,
		index:    make(map[string]int, len(c.Nodes)),
	}
	for i, n := range c.Nodes {
		if _, dup := g.index[n.ID]; !dup {
			g.index[n.ID] = i
		}
	}
	return g
}

// Node looks up a node by ID.
func (g *Graph) Node(id string) (*types.Node, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, &NodeNotFoundError{NodeID: id}
	}
	return &g.campaign.Nodes[i], nil
}

// Has reports whether a node ID exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Start returns the start node ID.
func (g *Graph) Start() string {
	return g.campaign.StartNodeID
}

// Title returns the campaign title.
func (g *Graph) Title() string {
	return g.campaign.Title
}

// Campaign returns the underlying campaign.
func (g *Graph) Campaign() types.Campaign {
	return g.campaign
}

// NewState creates a fresh session state positioned at the start node.
func NewState(g *Graph, c types.Character) *types.GameState {
	return &types.GameState{
		Character:     c,
		CurrentNodeID: g.Start(),
		Encounters:    map[string]*types.Encounter{},
	}
}

// ActiveEncounter returns the cached encounter of the current node, if any.
func ActiveEncounter(s *types.GameState) *types.Encounter {
	return s.Encounters[s.CurrentNodeID]
}
