package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shapenav/components"
)

// StepResult reports what a single Step call did.
type StepResult struct {
	Moved    bool   // the cursor advanced and anchors were translated
	Done     bool   // the cursor is at the end of a non-empty path
	Switched bool   // a forced topology switch occurred; the path was discarded
	FromKind string // kind before the switch (when Switched)
	Kind     string // active kind after the step
}

// MotionController consumes a planned path one step per tick, translating all
// anchor entities rigidly, and reacts to nearby obstacles with forced topology
// switches. Anchors live in an ark world so the host can render and inspect
// them through queries.
//
// States of the switch machine are the topology kinds; a transition fires when
// the body moves within the safety margin of an obstacle class whose switch
// policy names a different kind. There is no terminal state.
type MotionController struct {
	world  *ecs.World
	mapper ecs.Map2[components.Position, components.Anchor]
	filter ecs.Filter2[components.Position, components.Anchor]

	field    *ObstacleField
	topos    TopologySet
	switches *SwitchPolicy
	margin   int

	topo    *Topology
	center  components.Position
	path    []Cell
	stepIdx int

	// OnSwitch is invoked after any topology switch (forced or requested),
	// so the host can discard stale plans and redraw connectivity.
	OnSwitch func(from, to string)
}

// NewMotionController spawns the starting topology's anchors at the given
// center and returns the controller driving them.
func NewMotionController(
	w *ecs.World,
	field *ObstacleField,
	topos TopologySet,
	switches *SwitchPolicy,
	margin int,
	start *Topology,
	startCenter components.Position,
) *MotionController {
	c := &MotionController{
		world:    w,
		mapper:   *ecs.NewMap2[components.Position, components.Anchor](w),
		filter:   *ecs.NewFilter2[components.Position, components.Anchor](w),
		field:    field,
		topos:    topos,
		switches: switches,
		margin:   margin,
	}
	c.spawnAnchors(start, startCenter)
	return c
}

// Topology returns the active topology.
func (c *MotionController) Topology() *Topology { return c.topo }

// Center returns the current center anchor position.
func (c *MotionController) Center() components.Position { return c.center }

// CenterCell returns the grid cell the center currently occupies.
func (c *MotionController) CenterCell() Cell {
	return CellAt(c.center.X, c.center.Y)
}

// SetPath hands the controller a freshly planned path and resets the cursor.
func (c *MotionController) SetPath(path []Cell) {
	c.path = path
	c.stepIdx = 0
}

// Remaining returns the path cells not yet consumed.
func (c *MotionController) Remaining() []Cell {
	if c.stepIdx >= len(c.path) {
		return nil
	}
	return c.path[c.stepIdx:]
}

// AnchorPositions returns the current world position of every anchor, keyed
// by anchor id.
func (c *MotionController) AnchorPositions() map[int]components.Position {
	out := make(map[int]components.Position, len(c.topo.AnchorIDs()))
	query := c.filter.Query()
	for query.Next() {
		pos, anchor := query.Get()
		out[int(anchor.ID)] = *pos
	}
	return out
}

// Step advances one path cell, if any remain, then scans the safety-margin
// box around the new center for obstacle classes that force a topology
// switch. On the first match the switch happens atomically, the rest of the
// scan and the remaining path are abandoned, and the caller must replan.
func (c *MotionController) Step() StepResult {
	res := StepResult{Kind: c.topo.Kind()}
	if c.stepIdx >= len(c.path) {
		res.Done = len(c.path) > 0
		return res
	}

	next := c.path[c.stepIdx]
	c.stepIdx++
	c.translateTo(components.Position{X: float32(next.X), Y: float32(next.Y)})
	res.Moved = true
	res.Done = c.stepIdx >= len(c.path)

	for dy := -c.margin; dy <= c.margin; dy++ {
		for dx := -c.margin; dx <= c.margin; dx++ {
			class, occupied := c.field.Get(Cell{X: next.X + dx, Y: next.Y + dy})
			if !occupied {
				continue
			}
			kind, forced := c.switches.RequiredKind(class)
			if !forced || kind == c.topo.Kind() {
				continue
			}
			target, known := c.topos[kind]
			if !known {
				continue
			}
			res.FromKind = c.topo.Kind()
			c.SwitchTopology(target)
			res.Switched = true
			res.Kind = kind
			res.Done = false
			return res
		}
	}
	return res
}

// SwitchTopology atomically replaces the active topology: all anchors are
// recomputed from the new topology anchored at the current center position.
// Any in-flight path is invalidated and discarded.
func (c *MotionController) SwitchTopology(t *Topology) {
	if t == nil || t == c.topo {
		return
	}
	from := c.topo.Kind()
	center := c.center
	c.despawnAnchors()
	c.spawnAnchors(t, center)
	c.path = nil
	c.stepIdx = 0
	if c.OnSwitch != nil {
		c.OnSwitch(from, t.Kind())
	}
}

// translateTo moves the center and every anchor rigidly; no rotation.
func (c *MotionController) translateTo(center components.Position) {
	c.center = center
	query := c.filter.Query()
	for query.Next() {
		pos, anchor := query.Get()
		off := c.topo.Offset(int(anchor.ID))
		pos.X = center.X + off.X
		pos.Y = center.Y + off.Y
	}
}

func (c *MotionController) spawnAnchors(t *Topology, center components.Position) {
	c.topo = t
	c.center = center
	for _, id := range t.AnchorIDs() {
		off := t.Offset(id)
		pos := components.Position{X: center.X + off.X, Y: center.Y + off.Y}
		anchor := components.Anchor{ID: int32(id)}
		c.mapper.NewEntity(&pos, &anchor)
	}
}

func (c *MotionController) despawnAnchors() {
	// Consume the whole query before removing; removal during iteration
	// would invalidate it.
	var doomed []ecs.Entity
	query := c.filter.Query()
	for query.Next() {
		doomed = append(doomed, query.Entity())
	}
	for _, e := range doomed {
		c.world.RemoveEntity(e)
	}
}
