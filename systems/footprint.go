package systems

import "github.com/pthm-cable/shapenav/components"

// FootprintValidator checks whether a candidate center position leaves every
// anchor of a topology in-bounds and clear of margin-inflated obstacles.
// It is built fresh per planning call; inflation is never updated
// incrementally, so obstacle edits and topology switches cannot leave stale
// margins behind.
type FootprintValidator struct {
	bounds   Bounds
	offsets  []components.Position
	inflated map[Cell]struct{}
}

// NewFootprintValidator builds the inflated obstacle set for the topology's
// kind: every obstacle cell whose class blocks the kind expands to the
// (2*margin+1)^2 Chebyshev box around it, clipped to the grid.
func NewFootprintValidator(topo *Topology, field *ObstacleField, policy *CompatPolicy, margin int, bounds Bounds) *FootprintValidator {
	v := &FootprintValidator{
		bounds:   bounds,
		offsets:  topo.Offsets(),
		inflated: make(map[Cell]struct{}),
	}

	kind := topo.Kind()
	field.Each(func(c Cell, class Class) {
		if !policy.Blocks(class, kind) {
			return
		}
		for dy := -margin; dy <= margin; dy++ {
			for dx := -margin; dx <= margin; dx++ {
				n := Cell{X: c.X + dx, Y: c.Y + dy}
				if bounds.Contains(n) {
					v.inflated[n] = struct{}{}
				}
			}
		}
	})
	return v
}

// IsValidCenter reports whether every anchor cell derived from the candidate
// center is in-bounds and outside the inflated set. One failing anchor
// invalidates the whole position.
func (v *FootprintValidator) IsValidCenter(x, y float32) bool {
	for _, off := range v.offsets {
		cell := CellAt(x+off.X, y+off.Y)
		if !v.bounds.Contains(cell) {
			return false
		}
		if _, blocked := v.inflated[cell]; blocked {
			return false
		}
	}
	return true
}

// IsInflated reports whether the cell is in the inflated set.
func (v *FootprintValidator) IsInflated(c Cell) bool {
	_, ok := v.inflated[c]
	return ok
}

// InflatedCells returns the inflated set, for visualizing the safety margin.
func (v *FootprintValidator) InflatedCells() []Cell {
	cells := make([]Cell, 0, len(v.inflated))
	for c := range v.inflated {
		cells = append(cells, c)
	}
	return cells
}
