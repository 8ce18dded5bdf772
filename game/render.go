package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shapenav/systems"
	"github.com/pthm-cable/shapenav/ui"
)

// Draw renders the grid, obstacles, safety margin, path, shape, and panel.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.RayWhite)

	g.drawGrid()
	g.drawObstacles()
	if g.showInflation {
		g.drawInflation()
	}
	g.drawPath()
	if g.hasGoal {
		g.drawGoal()
	}
	g.drawShape()
	g.drawPanel()

	rl.EndDrawing()
}

// cellRect returns the pixel rectangle of a grid cell.
func (g *Game) cellRect(c systems.Cell) (x, y, w, h int32) {
	return int32(c.X) * g.cellPixels, int32(c.Y) * g.cellPixels, g.cellPixels, g.cellPixels
}

// worldToPixel maps a world position (grid units) to the screen, placing
// integer positions at cell centers.
func (g *Game) worldToPixel(wx, wy float32) (float32, float32) {
	cp := float32(g.cellPixels)
	return (wx + 0.5) * cp, (wy + 0.5) * cp
}

func (g *Game) drawGrid() {
	w := int32(g.bounds.Width) * g.cellPixels
	h := int32(g.bounds.Height) * g.cellPixels
	for x := int32(0); x <= w; x += g.cellPixels {
		rl.DrawLine(x, 0, x, h, rl.LightGray)
	}
	for y := int32(0); y <= h; y += g.cellPixels {
		rl.DrawLine(0, y, w, y, rl.LightGray)
	}
}

func (g *Game) drawObstacles() {
	g.field.Each(func(c systems.Cell, class systems.Class) {
		x, y, w, h := g.cellRect(c)
		rl.DrawRectangle(x, y, w, h, g.classColor(class))
	})
}

// drawInflation shades the margin-inflated cells around blocking obstacles.
func (g *Game) drawInflation() {
	for _, c := range g.inflation {
		if _, occupied := g.field.Get(c); occupied {
			continue
		}
		x, y, w, h := g.cellRect(c)
		rl.DrawRectangle(x, y, w, h, rl.Fade(rl.Gray, 0.4))
	}
}

func (g *Game) drawPath() {
	cp := float32(g.cellPixels)
	for _, c := range g.controller.Remaining() {
		px, py := g.worldToPixel(float32(c.X), float32(c.Y))
		rl.DrawCircleV(rl.Vector2{X: px, Y: py}, cp*0.15, rl.Fade(rl.Green, 0.7))
	}
}

func (g *Game) drawGoal() {
	px, py := g.worldToPixel(float32(g.goal.X), float32(g.goal.Y))
	r := float32(g.cellPixels) * 0.4
	rl.DrawLineEx(rl.Vector2{X: px - r, Y: py - r}, rl.Vector2{X: px + r, Y: py + r}, 2, rl.DarkGreen)
	rl.DrawLineEx(rl.Vector2{X: px - r, Y: py + r}, rl.Vector2{X: px + r, Y: py - r}, 2, rl.DarkGreen)
}

func (g *Game) drawShape() {
	positions := g.controller.AnchorPositions()

	for _, e := range g.controller.Topology().Edges() {
		a, okA := positions[e[0]]
		b, okB := positions[e[1]]
		if !okA || !okB {
			continue
		}
		ax, ay := g.worldToPixel(a.X, a.Y)
		bx, by := g.worldToPixel(b.X, b.Y)
		rl.DrawLineEx(rl.Vector2{X: ax, Y: ay}, rl.Vector2{X: bx, Y: by}, 2, rl.Black)
	}

	for _, pos := range positions {
		px, py := g.worldToPixel(pos.X, pos.Y)
		rl.DrawCircleV(rl.Vector2{X: px, Y: py}, float32(g.cellPixels)*0.28, rl.Blue)
	}
}

// drawPanel renders the raygui side panel and applies its actions. raygui is
// immediate mode, so widget input is handled during drawing.
func (g *Game) drawPanel() {
	classes := make([]ui.ClassEntry, len(g.classes))
	for i, c := range g.classes {
		classes[i] = ui.ClassEntry{Name: c.Name, Color: c.Color}
	}

	action := g.panel.Draw(ui.State{
		Kinds:         g.kinds,
		ActiveKind:    g.controller.Topology().Kind(),
		Classes:       classes,
		ActiveClass:   int(g.activeClass),
		InflatedCells: len(g.inflation),
		ShowInflation: g.showInflation,
		Paused:        g.paused,
		Plans:         g.stats.Plans,
		Steps:         g.stats.Steps,
		Switches:      g.stats.Switches,
	})

	if action.SwitchKind != "" {
		g.SwitchShape(action.SwitchKind)
	}
	if action.SelectClass >= 0 {
		g.activeClass = systems.Class(action.SelectClass)
	}
	if action.ToggleInflation {
		g.showInflation = !g.showInflation
	}
	if action.TogglePause {
		g.paused = !g.paused
	}
}

func (g *Game) classColor(class systems.Class) rl.Color {
	if int(class) < len(g.classes) {
		c := g.classes[class].Color
		return rl.NewColor(c[0], c[1], c[2], 255)
	}
	return rl.Magenta
}
