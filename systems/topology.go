package systems

import (
	"fmt"
	"math"
	"sort"

	"github.com/pthm-cable/shapenav/components"
)

// Topology is an immutable shape variant: named anchor points with fixed
// offsets around a designated center anchor, plus the edges connecting them.
// All planner-facing geometry is expressed relative to the center, so a
// topology can be anchored at any grid position.
type Topology struct {
	kind     string
	fragile  bool
	centerID int
	anchors  map[int]components.Position // rest positions in the topology's own frame
	ids      []int                       // anchor ids, sorted
	edges    [][2]int
	offsets  []components.Position // anchor offset - center offset, ordered like ids
}

// NewTopology validates and constructs a topology. The center id must name an
// existing anchor and every edge must reference known anchors; violations are
// configuration errors and reported at construction, never at use time.
func NewTopology(kind string, fragile bool, centerID int, anchors map[int]components.Position, edges [][2]int) (*Topology, error) {
	if kind == "" {
		return nil, fmt.Errorf("topology: empty kind")
	}
	if len(anchors) == 0 {
		return nil, fmt.Errorf("topology %q: no anchors", kind)
	}
	center, ok := anchors[centerID]
	if !ok {
		return nil, fmt.Errorf("topology %q: center anchor %d not defined", kind, centerID)
	}
	for _, e := range edges {
		for _, id := range e {
			if _, ok := anchors[id]; !ok {
				return nil, fmt.Errorf("topology %q: edge %v references unknown anchor %d", kind, e, id)
			}
		}
	}

	t := &Topology{
		kind:     kind,
		fragile:  fragile,
		centerID: centerID,
		anchors:  make(map[int]components.Position, len(anchors)),
		ids:      make([]int, 0, len(anchors)),
		edges:    make([][2]int, len(edges)),
	}
	for id, pos := range anchors {
		t.anchors[id] = pos
		t.ids = append(t.ids, id)
	}
	sort.Ints(t.ids)
	copy(t.edges, edges)

	t.offsets = make([]components.Position, len(t.ids))
	for i, id := range t.ids {
		a := t.anchors[id]
		t.offsets[i] = components.Position{X: a.X - center.X, Y: a.Y - center.Y}
	}
	return t, nil
}

// MustTopology is like NewTopology but panics on error. Used for the built-in
// shapes, where a failure is a programming mistake.
func MustTopology(kind string, fragile bool, centerID int, anchors map[int]components.Position, edges [][2]int) *Topology {
	t, err := NewTopology(kind, fragile, centerID, anchors, edges)
	if err != nil {
		panic(err)
	}
	return t
}

// Kind returns the compatibility tag used by the obstacle policy tables.
func (t *Topology) Kind() string { return t.kind }

// Fragile reports whether the topology is blocked by every obstacle class.
func (t *Topology) Fragile() bool { return t.fragile }

// CenterID returns the id of the anchor treated as the rigid body's reference point.
func (t *Topology) CenterID() int { return t.centerID }

// AnchorIDs returns all anchor ids in ascending order.
func (t *Topology) AnchorIDs() []int { return t.ids }

// Edges returns the anchor-id pairs used for visualization. The planner
// ignores connectivity.
func (t *Topology) Edges() [][2]int { return t.edges }

// RestPosition returns the anchor's rest position in the topology's own frame.
// Panics on an unknown id.
func (t *Topology) RestPosition(id int) components.Position {
	pos, ok := t.anchors[id]
	if !ok {
		panic(fmt.Sprintf("topology %q: unknown anchor %d", t.kind, id))
	}
	return pos
}

// Offset returns the anchor's offset relative to the center anchor.
// Panics on an unknown id.
func (t *Topology) Offset(id int) components.Position {
	rest := t.RestPosition(id)
	center := t.anchors[t.centerID]
	return components.Position{X: rest.X - center.X, Y: rest.Y - center.Y}
}

// Offsets returns all center-relative offsets, ordered like AnchorIDs.
func (t *Topology) Offsets() []components.Position { return t.offsets }

// TopologySet maps topology kind to its definition, for switch-policy lookups.
type TopologySet map[string]*Topology

// DogTopology returns the built-in four-legged shape.
func DogTopology() *Topology {
	return MustTopology("dog", false, 4,
		map[int]components.Position{
			1: {X: 0, Y: 2}, 2: {X: 0, Y: 1}, 3: {X: 0, Y: 0},
			4: {X: 1, Y: 1},
			5: {X: 2, Y: 2}, 6: {X: 2, Y: 1}, 7: {X: 2, Y: 0},
			8: {X: -0.5, Y: 2}, 9: {X: -0.5, Y: 0},
			10: {X: 2.5, Y: 2}, 11: {X: 2.5, Y: 0},
		},
		[][2]int{{1, 2}, {2, 3}, {2, 4}, {4, 6}, {5, 6}, {6, 7}, {1, 8}, {3, 9}, {5, 10}, {7, 11}},
	)
}

// SnakeTopology returns the built-in sinusoidal chain shape.
func SnakeTopology() *Topology {
	anchors := make(map[int]components.Position, 12)
	edges := make([][2]int, 0, 11)
	for i := 0; i < 12; i++ {
		anchors[i+1] = components.Position{
			X: float32(i),
			Y: 5 + float32(math.Sin(float64(i)*0.5)),
		}
		if i > 0 {
			edges = append(edges, [2]int{i, i + 1})
		}
	}
	return MustTopology("snake", false, 12, anchors, edges)
}

// LineTopology returns the built-in straight chain shape. It is fragile:
// every obstacle class blocks it.
func LineTopology() *Topology {
	anchors := make(map[int]components.Position, 12)
	edges := make([][2]int, 0, 11)
	for i := 0; i < 12; i++ {
		anchors[i+1] = components.Position{X: float32(i), Y: 5}
		if i > 0 {
			edges = append(edges, [2]int{i, i + 1})
		}
	}
	return MustTopology("line", true, 12, anchors, edges)
}

// BuiltinTopologies returns the default shape set keyed by kind.
func BuiltinTopologies() TopologySet {
	set := TopologySet{}
	for _, t := range []*Topology{DogTopology(), SnakeTopology(), LineTopology()} {
		set[t.Kind()] = t
	}
	return set
}
