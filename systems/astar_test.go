package systems

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/shapenav/components"
)

func mustPlan(t *testing.T, p *PathPlanner, start, goal Cell, field *ObstacleField, topo *Topology) PlanResult {
	t.Helper()
	res, err := p.Plan(start, goal, field, topo)
	if err != nil {
		t.Fatalf("Plan(%v, %v) failed: %v", start, goal, err)
	}
	return res
}

// assertConnected verifies every step is a unit or diagonal move and the path
// ends at the goal.
func assertConnected(t *testing.T, start Cell, path []Cell, goal Cell) {
	t.Helper()
	prev := start
	for i, c := range path {
		dx, dy := c.X-prev.X, c.Y-prev.Y
		if dx < -1 || dx > 1 || dy < -1 || dy > 1 || (dx == 0 && dy == 0) {
			t.Fatalf("step %d: %v -> %v is not a unit or diagonal move", i, prev, c)
		}
		prev = c
	}
	if len(path) > 0 && path[len(path)-1] != goal {
		t.Fatalf("path ends at %v, want %v", path[len(path)-1], goal)
	}
}

// TestPlanEmptyGrid verifies the planner returns the Euclidean-shortest
// 8-connected path on an obstacle-free grid.
func TestPlanEmptyGrid(t *testing.T) {
	bounds := Bounds{Width: 20, Height: 20}
	planner := NewPathPlanner(bounds, NewCompatPolicy(1), 1)
	field := NewObstacleField()
	topo := pointTopology("point")

	res := mustPlan(t, planner, Cell{0, 0}, Cell{3, 3}, field, topo)
	if !res.Reached {
		t.Fatal("goal should be reachable on an empty grid")
	}
	if len(res.Path) != 3 {
		t.Errorf("path length = %d, want 3 (pure diagonal)", len(res.Path))
	}
	want := 3 * math.Sqrt2
	if math.Abs(float64(res.Cost)-want) > 1e-4 {
		t.Errorf("cost = %f, want %f", res.Cost, want)
	}
	assertConnected(t, Cell{0, 0}, res.Path, Cell{3, 3})
}

// TestPlanMixedDistance verifies costs on a non-diagonal displacement.
func TestPlanMixedDistance(t *testing.T) {
	bounds := Bounds{Width: 20, Height: 20}
	planner := NewPathPlanner(bounds, NewCompatPolicy(1), 1)
	res := mustPlan(t, planner, Cell{0, 0}, Cell{5, 2}, NewObstacleField(), pointTopology("point"))

	// 2 diagonal + 3 axis moves
	want := 2*math.Sqrt2 + 3
	if math.Abs(float64(res.Cost)-want) > 1e-4 {
		t.Errorf("cost = %f, want %f", res.Cost, want)
	}
	if len(res.Path) != 5 {
		t.Errorf("path length = %d, want 5", len(res.Path))
	}
}

// TestPlanStartEqualsGoal verifies zero moves counts as success.
func TestPlanStartEqualsGoal(t *testing.T) {
	bounds := Bounds{Width: 10, Height: 10}
	planner := NewPathPlanner(bounds, NewCompatPolicy(1), 1)

	res := mustPlan(t, planner, Cell{4, 4}, Cell{4, 4}, NewObstacleField(), pointTopology("point"))
	if !res.Reached {
		t.Error("start == goal must be reached")
	}
	if len(res.Path) != 0 {
		t.Errorf("path length = %d, want 0", len(res.Path))
	}
}

// TestPlanOutOfBounds verifies invalid requests are rejected before search.
func TestPlanOutOfBounds(t *testing.T) {
	bounds := Bounds{Width: 10, Height: 10}
	planner := NewPathPlanner(bounds, NewCompatPolicy(1), 1)
	field := NewObstacleField()
	topo := pointTopology("point")

	if _, err := planner.Plan(Cell{0, 0}, Cell{50, 50}, field, topo); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("goal out of bounds: err = %v, want ErrOutOfBounds", err)
	}
	if _, err := planner.Plan(Cell{-1, 0}, Cell{5, 5}, field, topo); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("start out of bounds: err = %v, want ErrOutOfBounds", err)
	}
}

// TestPlanUnreachable verifies frontier exhaustion reports an unreachable
// goal without error.
func TestPlanUnreachable(t *testing.T) {
	bounds := Bounds{Width: 10, Height: 10}
	planner := NewPathPlanner(bounds, blockAllPolicy(1, "point"), 0)
	topo := pointTopology("point")

	// Full-height wall between start and goal.
	field := NewObstacleField()
	for y := 0; y < bounds.Height; y++ {
		field.Set(Cell{X: 5, Y: y}, 0)
	}

	res := mustPlan(t, planner, Cell{1, 5}, Cell{8, 5}, field, topo)
	if res.Reached {
		t.Error("goal behind a full wall should be unreachable")
	}
	if len(res.Path) != 0 {
		t.Errorf("unreachable result carries a %d-cell path", len(res.Path))
	}
}

// TestPlanAvoidsObstacle is the end-to-end detour check: 5x5 grid, one
// impassable cell at (2,2), margin 0, degenerate shape.
func TestPlanAvoidsObstacle(t *testing.T) {
	bounds := Bounds{Width: 5, Height: 5}
	planner := NewPathPlanner(bounds, blockAllPolicy(1, "point"), 0)
	topo := pointTopology("point")

	field := NewObstacleField()
	field.Set(Cell{X: 2, Y: 2}, 0)

	res := mustPlan(t, planner, Cell{0, 0}, Cell{4, 4}, field, topo)
	if !res.Reached || len(res.Path) == 0 {
		t.Fatal("goal should be reachable around a single blocked cell")
	}
	for _, c := range res.Path {
		if (c == Cell{X: 2, Y: 2}) {
			t.Fatal("path passes through the obstacle")
		}
	}
	assertConnected(t, Cell{0, 0}, res.Path, Cell{4, 4})

	// A four-diagonal path would cross (2,2); the best detour is 3 diagonal
	// + 2 axis moves.
	want := 3*math.Sqrt2 + 2
	if math.Abs(float64(res.Cost)-want) > 1e-4 {
		t.Errorf("cost = %f, want %f", res.Cost, want)
	}
}

// TestPlanStartInsideObstacle verifies the start footprint is never
// re-validated, so a body overlapping a fresh obstacle can plan its way out.
func TestPlanStartInsideObstacle(t *testing.T) {
	bounds := Bounds{Width: 10, Height: 10}
	planner := NewPathPlanner(bounds, blockAllPolicy(1, "point"), 0)
	topo := pointTopology("point")

	field := NewObstacleField()
	field.Set(Cell{X: 0, Y: 0}, 0)

	res := mustPlan(t, planner, Cell{0, 0}, Cell{3, 0}, field, topo)
	if !res.Reached {
		t.Fatal("planner must escape a start cell that became blocked")
	}
	assertConnected(t, Cell{0, 0}, res.Path, Cell{3, 0})
}

// TestPlanRespectsFootprint verifies a wider topology cannot slip through a
// gap a point shape fits.
func TestPlanRespectsFootprint(t *testing.T) {
	bounds := Bounds{Width: 9, Height: 9}
	policy := blockAllPolicy(1, "point", "wide")
	planner := NewPathPlanner(bounds, policy, 0)

	// Wall with a single-cell gap at (4,4).
	field := NewObstacleField()
	for y := 0; y < bounds.Height; y++ {
		if y != 4 {
			field.Set(Cell{X: 4, Y: y}, 0)
		}
	}

	point := pointTopology("point")
	res := mustPlan(t, planner, Cell{1, 4}, Cell{7, 4}, field, point)
	if !res.Reached {
		t.Error("point shape should fit through the gap")
	}

	// Vertical 3-cell shape: passing the gap would put an anchor on the wall.
	wide := MustTopology("wide", false, 1, map[int]components.Position{
		1: {X: 0, Y: 0},
		2: {X: 0, Y: 1},
		3: {X: 0, Y: -1},
	}, nil)
	res = mustPlan(t, planner, Cell{1, 4}, Cell{7, 4}, field, wide)
	if res.Reached {
		t.Error("three-cell vertical shape should not fit through a one-cell gap")
	}
}
