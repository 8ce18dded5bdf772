package systems

import (
	"container/heap"
	"errors"
	"fmt"
	"math"
)

// ErrOutOfBounds is returned by Plan when the start or goal cell lies outside
// the grid. Distinct from an unreachable goal, which is a normal result.
var ErrOutOfBounds = errors.New("cell outside grid bounds")

// PlanResult is the outcome of a planning request. Reached distinguishes
// "already at goal" (empty path, reached) from "no path exists" (empty path,
// not reached); callers never infer reachability from path emptiness.
type PlanResult struct {
	Path    []Cell  // ordered start (exclusive) to goal (inclusive); nil when empty
	Cost    float32 // Euclidean path cost; 0 when the path is empty
	Reached bool
}

// astarNode is a node in the A* open set.
type astarNode struct {
	gx, gy int
	f      float32
	index  int // heap index
}

// nodeHeap implements heap.Interface for the A* frontier.
type nodeHeap []*astarNode

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[0 : n-1]
	return node
}

// moves is the 8-connected neighborhood with Euclidean step costs.
var moves = [8]struct {
	dx, dy int
	cost   float32
}{
	{-1, 0, 1}, {1, 0, 1}, {0, -1, 1}, {0, 1, 1},
	{-1, -1, math.Sqrt2}, {-1, 1, math.Sqrt2}, {1, -1, math.Sqrt2}, {1, 1, math.Sqrt2},
}

// PathPlanner runs footprint-aware A* searches over the grid. The search
// structures are reused between calls; a planner serves one caller at a time.
type PathPlanner struct {
	bounds Bounds
	policy *CompatPolicy
	margin int

	openHeap  *nodeHeap
	closedSet map[int]struct{}
	cameFrom  map[int]int
	gScore    map[int]float32
}

// NewPathPlanner creates a planner for the given grid, blocking policy, and
// safety margin.
func NewPathPlanner(bounds Bounds, policy *CompatPolicy, margin int) *PathPlanner {
	return &PathPlanner{
		bounds:    bounds,
		policy:    policy,
		margin:    margin,
		openHeap:  &nodeHeap{},
		closedSet: make(map[int]struct{}, 256),
		cameFrom:  make(map[int]int, 256),
		gScore:    make(map[int]float32, 256),
	}
}

// Plan searches for a path from start to goal for the given topology. Step
// cost is the Euclidean move length (1 for axis moves, sqrt 2 for diagonals)
// and the heuristic is straight-line distance, so returned paths are shortest
// in that metric. A neighbor joins the frontier only if the topology's whole
// footprint is valid there; the start cell itself is never re-validated, so a
// body already overlapping a freshly painted obstacle can still plan its way
// out. The footprint validator (and its margin inflation) is rebuilt on every
// call.
func (p *PathPlanner) Plan(start, goal Cell, field *ObstacleField, topo *Topology) (PlanResult, error) {
	if !p.bounds.Contains(start) {
		return PlanResult{}, fmt.Errorf("plan: start %v: %w", start, ErrOutOfBounds)
	}
	if !p.bounds.Contains(goal) {
		return PlanResult{}, fmt.Errorf("plan: goal %v: %w", goal, ErrOutOfBounds)
	}

	// Zero moves needed; counts as success.
	if start == goal {
		return PlanResult{Reached: true}, nil
	}

	valid := NewFootprintValidator(topo, field, p.policy, p.margin, p.bounds)

	*p.openHeap = (*p.openHeap)[:0]
	clear(p.closedSet)
	clear(p.cameFrom)
	clear(p.gScore)

	startID := start.Y*p.bounds.Width + start.X
	goalID := goal.Y*p.bounds.Width + goal.X

	p.gScore[startID] = 0
	heap.Push(p.openHeap, &astarNode{gx: start.X, gy: start.Y, f: p.heuristic(start.X, start.Y, goal)})

	// Improved nodes are re-pushed rather than re-keyed; stale heap entries
	// are skipped via the closed set, so the cap leaves room for duplicates.
	maxIterations := p.bounds.Area() * len(moves)

	for iterations := 0; p.openHeap.Len() > 0 && iterations < maxIterations; iterations++ {
		current := heap.Pop(p.openHeap).(*astarNode)
		currentID := current.gy*p.bounds.Width + current.gx

		if currentID == goalID {
			path := p.reconstructPath(startID, goalID)
			return PlanResult{Path: path, Cost: p.gScore[goalID], Reached: true}, nil
		}
		if _, done := p.closedSet[currentID]; done {
			continue
		}
		p.closedSet[currentID] = struct{}{}

		for _, m := range moves {
			ngx, ngy := current.gx+m.dx, current.gy+m.dy
			neighbor := Cell{X: ngx, Y: ngy}
			if !p.bounds.Contains(neighbor) {
				continue
			}
			if !valid.IsValidCenter(float32(ngx), float32(ngy)) {
				continue
			}

			neighborID := ngy*p.bounds.Width + ngx
			if _, done := p.closedSet[neighborID]; done {
				continue
			}

			tentativeG := p.gScore[currentID] + m.cost
			if existing, seen := p.gScore[neighborID]; seen && tentativeG >= existing {
				continue
			}

			p.cameFrom[neighborID] = currentID
			p.gScore[neighborID] = tentativeG
			heap.Push(p.openHeap, &astarNode{
				gx: ngx,
				gy: ngy,
				f:  tentativeG + p.heuristic(ngx, ngy, goal),
			})
		}
	}

	// Frontier exhausted: goal unreachable under the current topology.
	return PlanResult{}, nil
}

// heuristic is the Euclidean distance to the goal. Admissible and consistent
// for the sqrt-2 diagonal metric.
func (p *PathPlanner) heuristic(gx, gy int, goal Cell) float32 {
	dx := float64(goal.X - gx)
	dy := float64(goal.Y - gy)
	return float32(math.Hypot(dx, dy))
}

// reconstructPath walks predecessor links from goal back to start, then
// reverses. The start cell is excluded, the goal cell included.
func (p *PathPlanner) reconstructPath(startID, goalID int) []Cell {
	var ids []int
	for current := goalID; current != startID; {
		ids = append(ids, current)
		prev, ok := p.cameFrom[current]
		if !ok {
			break
		}
		current = prev
	}

	path := make([]Cell, len(ids))
	for i := range ids {
		id := ids[len(ids)-1-i]
		path[i] = Cell{X: id % p.bounds.Width, Y: id / p.bounds.Width}
	}
	return path
}
