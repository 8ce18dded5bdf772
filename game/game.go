// Package game wires the navigation core to the raylib host: input, render,
// pacing, and telemetry.
package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shapenav/components"
	"github.com/pthm-cable/shapenav/config"
	"github.com/pthm-cable/shapenav/scenario"
	"github.com/pthm-cable/shapenav/systems"
	"github.com/pthm-cable/shapenav/telemetry"
	"github.com/pthm-cable/shapenav/ui"
)

// Options configures a game session.
type Options struct {
	Headless     bool
	ScenarioPath string
	OutputDir    string
}

// Game holds the complete session state. A single Game owns the obstacle
// field, the planner, and the motion controller; all operations are driven
// from one goroutine (the host loop).
type Game struct {
	world *ecs.World

	bounds     systems.Bounds
	field      *systems.ObstacleField
	planner    *systems.PathPlanner
	controller *systems.MotionController

	topologies systems.TopologySet
	kinds      []string // configured shape kinds, in config order
	compat     *systems.CompatPolicy
	switches   *systems.SwitchPolicy

	classes     []config.ObstacleClassConfig
	activeClass systems.Class

	goal       systems.Cell
	hasGoal    bool
	needReplan bool

	// Inflated cell set for the active topology, for margin visualization.
	inflation     []systems.Cell
	showInflation bool

	stats  *telemetry.Session
	output *telemetry.OutputManager

	scene    *scenario.Scenario
	sceneIdx int

	panel      *ui.Panel
	cellPixels int32
	tick       int32
	paused     bool
	stepAccum  float32
}

// NewGame builds a session from the loaded config and options.
func NewGame(opts Options) (*Game, error) {
	cfg := config.Cfg()

	topos, kinds, err := buildTopologies(cfg)
	if err != nil {
		return nil, err
	}
	compat, switches := buildPolicies(cfg, topos)

	bounds := systems.Bounds{Width: cfg.Grid.Width, Height: cfg.Grid.Height}
	world := ecs.NewWorld()

	g := &Game{
		world:      world,
		bounds:     bounds,
		field:      systems.NewObstacleField(),
		topologies: topos,
		kinds:      kinds,
		compat:     compat,
		switches:   switches,
		classes:    cfg.Obstacles,
		stats:      telemetry.NewSession(),
		cellPixels: int32(cfg.Grid.CellPixels),
		panel:      ui.NewPanel(int32(cfg.Grid.Width*cfg.Grid.CellPixels)+10, 10, 220),
	}
	g.planner = systems.NewPathPlanner(bounds, compat, cfg.Planner.SafetyMargin)

	startKind := kinds[0]
	if opts.ScenarioPath != "" {
		sc, err := scenario.Load(opts.ScenarioPath)
		if err != nil {
			return nil, err
		}
		g.scene = sc
		if sc.Shape != "" {
			startKind = sc.Shape
		}
		for _, o := range sc.Obstacles {
			class, ok := cfg.Derived.ClassIndex[o.Class]
			if !ok {
				return nil, fmt.Errorf("scenario: unknown obstacle class %q", o.Class)
			}
			g.field.Set(systems.Cell{X: o.Cell[0], Y: o.Cell[1]}, systems.Class(class))
		}
	}

	start, ok := topos[startKind]
	if !ok {
		return nil, fmt.Errorf("unknown start shape %q", startKind)
	}
	startCenter := start.RestPosition(start.CenterID())
	g.controller = systems.NewMotionController(
		world, g.field, topos, switches, cfg.Planner.SafetyMargin, start, startCenter,
	)
	g.controller.OnSwitch = g.onSwitch

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, err
		}
		g.output = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Warn("failed to write config snapshot", "error", err)
		}
	}

	g.refreshInflation()
	return g, nil
}

// buildTopologies constructs every configured shape. Validation errors are
// fatal configuration errors.
func buildTopologies(cfg *config.Config) (systems.TopologySet, []string, error) {
	topos := systems.TopologySet{}
	kinds := make([]string, 0, len(cfg.Shapes))
	for _, s := range cfg.Shapes {
		anchors := make(map[int]components.Position, len(s.Anchors))
		for _, a := range s.Anchors {
			anchors[a.ID] = components.Position{X: float32(a.At[0]), Y: float32(a.At[1])}
		}
		t, err := systems.NewTopology(s.Kind, s.Fragile, s.Center, anchors, s.Edges)
		if err != nil {
			return nil, nil, err
		}
		topos[s.Kind] = t
		kinds = append(kinds, s.Kind)
	}
	return topos, kinds, nil
}

// buildPolicies derives the blocking and switch tables from the class config.
func buildPolicies(cfg *config.Config, topos systems.TopologySet) (*systems.CompatPolicy, *systems.SwitchPolicy) {
	compat := systems.NewCompatPolicy(len(cfg.Obstacles))
	switches := systems.NewSwitchPolicy()

	for _, t := range topos {
		if t.Fragile() {
			compat.SetFragile(t.Kind())
		}
	}
	for i, o := range cfg.Obstacles {
		class := systems.Class(i)
		for _, kind := range o.Blocks {
			compat.SetBlocks(class, kind)
		}
		if o.SwitchTo != "" {
			switches.Set(class, o.SwitchTo)
		}
	}
	return compat, switches
}

// PlanTo plans a path from the body's current center cell to the goal and
// hands it to the motion controller. Returns whether the goal is reachable.
func (g *Game) PlanTo(goal systems.Cell) bool {
	start := g.controller.CenterCell()
	topo := g.controller.Topology()

	began := time.Now()
	res, err := g.planner.Plan(start, goal, g.field, topo)
	elapsed := time.Since(began)

	if err != nil {
		g.stats.RecordRejected()
		slog.Warn("plan rejected", "start", start, "goal", goal, "error", err)
		return false
	}

	rec := telemetry.PlanRecord{
		Tick:       g.tick,
		StartX:     start.X,
		StartY:     start.Y,
		GoalX:      goal.X,
		GoalY:      goal.Y,
		Topology:   topo.Kind(),
		Reached:    res.Reached,
		PathLen:    len(res.Path),
		Cost:       float64(res.Cost),
		DurationUS: elapsed.Microseconds(),
	}
	g.stats.RecordPlan(rec)
	if err := g.output.WritePlan(rec); err != nil {
		slog.Error("failed to write plan record", "error", err)
	}
	if window := config.Cfg().Telemetry.StatsWindow; window > 0 && g.stats.Plans%window == 0 {
		g.stats.LogStats()
	}

	if !res.Reached {
		slog.Info("no valid path", "start", start, "goal", goal, "topology", topo.Kind())
		g.controller.SetPath(nil)
		g.hasGoal = false
		return false
	}

	g.controller.SetPath(res.Path)
	g.goal = goal
	g.hasGoal = true
	slog.Info("path planned",
		"start", start, "goal", goal,
		"topology", topo.Kind(),
		"steps", len(res.Path),
		"cost", res.Cost,
	)
	return true
}

// ToggleObstacle inserts or removes an obstacle of the given class.
func (g *Game) ToggleObstacle(cell systems.Cell, class systems.Class) {
	occupied := g.field.Toggle(cell, class)
	g.stats.RecordObstacleEdit()
	g.refreshInflation()
	slog.Debug("obstacle toggled", "cell", cell, "class", g.className(class), "occupied", occupied)
}

// StepOnce advances the body one path cell. If the step triggered a forced
// topology switch, the stale path was discarded and the session replans
// toward the current goal under the new topology.
func (g *Game) StepOnce() {
	res := g.controller.Step()
	if res.Moved {
		g.stats.RecordStep()
	}
	if res.Switched && g.needReplan {
		g.needReplan = false
		g.PlanTo(g.goal)
		return
	}
	if res.Moved && res.Done {
		slog.Info("goal reached", "cell", g.controller.CenterCell(), "topology", res.Kind)
	}
}

// SwitchShape performs a host-requested topology switch. The active path is
// discarded; if a goal is set, the session replans under the new topology.
func (g *Game) SwitchShape(kind string) {
	target, ok := g.topologies[kind]
	if !ok {
		slog.Warn("unknown shape kind", "kind", kind)
		return
	}
	g.controller.SwitchTopology(target)
	if g.needReplan {
		g.needReplan = false
		if g.hasGoal {
			g.PlanTo(g.goal)
		}
	}
}

// onSwitch runs after every topology switch, forced or requested. The old
// path is already discarded by the controller; footprint validity is
// topology-dependent, so the cached inflation preview is rebuilt and a replan
// is flagged for the active goal.
func (g *Game) onSwitch(from, to string) {
	g.stats.RecordSwitch()
	g.needReplan = g.hasGoal
	g.refreshInflation()
	slog.Info("topology switch", "from", from, "to", to)
}

// refreshInflation rebuilds the inflated-cell preview for the active topology.
func (g *Game) refreshInflation() {
	cfg := config.Cfg()
	v := systems.NewFootprintValidator(
		g.controller.Topology(), g.field, g.compat, cfg.Planner.SafetyMargin, g.bounds,
	)
	g.inflation = v.InflatedCells()
}

func (g *Game) className(class systems.Class) string {
	if int(class) < len(g.classes) {
		return g.classes[class].Name
	}
	return "?"
}

// cfgStepInterval returns the configured seconds between path steps.
func cfgStepInterval() float64 {
	return config.Cfg().Motion.StepInterval
}

// Tick returns the simulation tick counter.
func (g *Game) Tick() int32 {
	return g.tick
}

// UpdateHeadless advances the scenario-driven session by one tick.
func (g *Game) UpdateHeadless() {
	g.tick++
	if len(g.controller.Remaining()) == 0 && g.scene != nil && g.sceneIdx < len(g.scene.Goals) {
		goal := g.scene.Goals[g.sceneIdx]
		g.sceneIdx++
		g.PlanTo(systems.Cell{X: goal[0], Y: goal[1]})
	}
	g.StepOnce()
}

// ScenarioDone reports whether all scenario goals have been consumed and the
// body has stopped moving.
func (g *Game) ScenarioDone() bool {
	if g.scene == nil {
		return false
	}
	return g.sceneIdx >= len(g.scene.Goals) && len(g.controller.Remaining()) == 0 && !g.needReplan
}

// Unload logs the session summary and closes telemetry outputs.
func (g *Game) Unload() {
	g.stats.LogStats()
	if err := g.output.WriteSummary(g.stats.Summary()); err != nil {
		slog.Error("failed to write summary", "error", err)
	}
	g.output.Close()
}
