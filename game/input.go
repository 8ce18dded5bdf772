package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shapenav/systems"
)

// handleInput processes mouse and keyboard input. Right click selects a goal,
// shift+left click (or middle click) toggles an obstacle of the active class,
// number keys switch shapes manually.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyM) {
		g.showInflation = !g.showInflation
	}

	for i, kind := range g.kinds {
		if i >= 9 {
			break
		}
		if rl.IsKeyPressed(int32(rl.KeyOne) + int32(i)) {
			g.SwitchShape(kind)
		}
	}

	cell, onGrid := g.mouseCell()
	if !onGrid {
		return
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		g.PlanTo(cell)
	}

	shiftHeld := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	if rl.IsMouseButtonPressed(rl.MouseButtonMiddle) ||
		(rl.IsMouseButtonPressed(rl.MouseButtonLeft) && shiftHeld) {
		g.ToggleObstacle(cell, g.activeClass)
	}
}

// mouseCell maps the cursor to a grid cell, if it is over the grid area.
func (g *Game) mouseCell() (systems.Cell, bool) {
	pos := rl.GetMousePosition()
	x := int32(pos.X) / g.cellPixels
	y := int32(pos.Y) / g.cellPixels
	cell := systems.Cell{X: int(x), Y: int(y)}
	if pos.X < 0 || pos.Y < 0 || !g.bounds.Contains(cell) {
		return systems.Cell{}, false
	}
	return cell, true
}

// Update runs one frame of input handling and fixed-interval path stepping.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}

	interval := float32(cfgStepInterval())
	g.stepAccum += rl.GetFrameTime()
	for g.stepAccum >= interval {
		g.stepAccum -= interval
		g.tick++
		g.StepOnce()
	}
}
