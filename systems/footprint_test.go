package systems

import (
	"testing"

	"github.com/pthm-cable/shapenav/components"
)

// pointTopology returns a degenerate single-anchor shape whose only anchor is
// the center.
func pointTopology(kind string) *Topology {
	return MustTopology(kind, false, 1, map[int]components.Position{1: {X: 0, Y: 0}}, nil)
}

// blockAllPolicy returns a policy where every class blocks every kind listed.
func blockAllPolicy(numClasses int, kinds ...string) *CompatPolicy {
	p := NewCompatPolicy(numClasses)
	for c := 0; c < numClasses; c++ {
		for _, k := range kinds {
			p.SetBlocks(Class(c), k)
		}
	}
	return p
}

// TestInflationBlocksBox verifies margin-1 inflation rejects the whole 3x3
// box around an obstacle as a center position for a degenerate shape, and
// accepts cells strictly outside it.
func TestInflationBlocksBox(t *testing.T) {
	bounds := Bounds{Width: 10, Height: 10}
	field := NewObstacleField()
	field.Set(Cell{X: 5, Y: 5}, 0)

	topo := pointTopology("point")
	v := NewFootprintValidator(topo, field, blockAllPolicy(1, "point"), 1, bounds)

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if v.IsValidCenter(float32(5+dx), float32(5+dy)) {
				t.Errorf("center (%d, %d) inside the inflated box should be invalid", 5+dx, 5+dy)
			}
		}
	}

	for _, c := range []Cell{{3, 5}, {5, 3}, {7, 7}, {0, 0}, {9, 9}} {
		if !v.IsValidCenter(float32(c.X), float32(c.Y)) {
			t.Errorf("center %v outside the inflated box should be valid", c)
		}
	}
}

// TestValidityIsTopologyDependent verifies that a center valid under one
// topology becomes invalid under another whose anchor lands on the obstacle.
func TestValidityIsTopologyDependent(t *testing.T) {
	bounds := Bounds{Width: 10, Height: 10}
	field := NewObstacleField()
	field.Set(Cell{X: 5, Y: 5}, 0)

	kindA := pointTopology("a")
	kindB := MustTopology("b", false, 1, map[int]components.Position{
		1: {X: 0, Y: 0},
		2: {X: 1, Y: 0},
	}, [][2]int{{1, 2}})

	policy := blockAllPolicy(1, "a", "b")

	vA := NewFootprintValidator(kindA, field, policy, 0, bounds)
	if !vA.IsValidCenter(4, 5) {
		t.Error("center (4,5) should be valid for the single-anchor topology")
	}

	// Switching to B must discard validity computed under A: B's second
	// anchor lands on the obstacle.
	vB := NewFootprintValidator(kindB, field, policy, 0, bounds)
	if vB.IsValidCenter(4, 5) {
		t.Error("center (4,5) should be invalid once anchor (1,0) lands on the obstacle")
	}
}

// TestFragileKindBlockedByAnyClass verifies fragile kinds are blocked by
// classes with empty blocks lists.
func TestFragileKindBlockedByAnyClass(t *testing.T) {
	p := NewCompatPolicy(2)
	p.SetFragile("line")
	p.SetBlocks(1, "dog")

	if !p.Blocks(0, "line") || !p.Blocks(1, "line") {
		t.Error("fragile kind must be blocked by every class")
	}
	if p.Blocks(0, "dog") {
		t.Error("class 0 should not block dog")
	}
	if !p.Blocks(1, "dog") {
		t.Error("class 1 should block dog")
	}
}

// TestNonBlockingClassIgnoredByInflation verifies classes outside the
// blocking table do not inflate.
func TestNonBlockingClassIgnoredByInflation(t *testing.T) {
	bounds := Bounds{Width: 10, Height: 10}
	field := NewObstacleField()
	field.Set(Cell{X: 5, Y: 5}, 0)

	topo := pointTopology("point")
	v := NewFootprintValidator(topo, field, NewCompatPolicy(1), 1, bounds)

	if !v.IsValidCenter(5, 5) {
		t.Error("non-blocking obstacle should not invalidate its own cell")
	}
	if len(v.InflatedCells()) != 0 {
		t.Errorf("inflated %d cells, want 0", len(v.InflatedCells()))
	}
}

// TestInflationClippedToBounds verifies inflation near the border stays
// inside the grid.
func TestInflationClippedToBounds(t *testing.T) {
	bounds := Bounds{Width: 10, Height: 10}
	field := NewObstacleField()
	field.Set(Cell{X: 0, Y: 0}, 0)

	topo := pointTopology("point")
	v := NewFootprintValidator(topo, field, blockAllPolicy(1, "point"), 1, bounds)

	cells := v.InflatedCells()
	if len(cells) != 4 {
		t.Errorf("inflated %d cells, want 4 (corner box clipped)", len(cells))
	}
	for _, c := range cells {
		if !bounds.Contains(c) {
			t.Errorf("inflated cell %v out of bounds", c)
		}
	}
}

// TestInflationNotShared verifies each validator recomputes inflation from
// the field's current contents.
func TestInflationNotShared(t *testing.T) {
	bounds := Bounds{Width: 10, Height: 10}
	field := NewObstacleField()
	topo := pointTopology("point")
	policy := blockAllPolicy(1, "point")

	before := NewFootprintValidator(topo, field, policy, 1, bounds)
	field.Set(Cell{X: 5, Y: 5}, 0)
	after := NewFootprintValidator(topo, field, policy, 1, bounds)

	if !before.IsValidCenter(5, 5) {
		t.Error("validator built before the edit must not see the new obstacle")
	}
	if after.IsValidCenter(5, 5) {
		t.Error("validator built after the edit must see the new obstacle")
	}
}

// TestOutOfBoundsAnchorInvalid verifies a footprint poking outside the grid
// invalidates the center.
func TestOutOfBoundsAnchorInvalid(t *testing.T) {
	bounds := Bounds{Width: 10, Height: 10}
	topo := MustTopology("wide", false, 1, map[int]components.Position{
		1: {X: 0, Y: 0},
		2: {X: 3, Y: 0},
	}, nil)
	v := NewFootprintValidator(topo, NewObstacleField(), NewCompatPolicy(0), 1, bounds)

	if v.IsValidCenter(8, 5) {
		t.Error("center (8,5) pushes anchor to x=11, outside the grid")
	}
	if !v.IsValidCenter(6, 5) {
		t.Error("center (6,5) keeps all anchors inside the grid")
	}
}
