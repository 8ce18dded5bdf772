// Package components defines ECS components for the navigation session.
package components

// Position represents an anchor's world position in grid units.
type Position struct {
	X, Y float32
}

// Anchor ties an entity to an anchor id of the active topology.
type Anchor struct {
	ID int32
}
