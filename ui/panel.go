// Package ui renders the raygui side panel for the navigation sandbox.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ClassEntry is one obstacle class shown in the selector.
type ClassEntry struct {
	Name  string
	Color [3]uint8
}

// State is the session state the panel reflects.
type State struct {
	Kinds      []string
	ActiveKind string

	Classes     []ClassEntry
	ActiveClass int

	InflatedCells int
	ShowInflation bool
	Paused        bool

	Plans    int
	Steps    int
	Switches int
}

// Action carries the user's panel interactions back to the session.
type Action struct {
	SwitchKind      string // "" = none
	SelectClass     int    // -1 = none
	ToggleInflation bool
	TogglePause     bool
}

// Panel is the right-side control panel.
type Panel struct {
	X, Y  int32
	Width int32
}

// NewPanel creates a panel anchored at the given screen position.
func NewPanel(x, y, width int32) *Panel {
	return &Panel{X: x, Y: y, Width: width}
}

const (
	rowHeight  = 28
	rowSpacing = 6
	padding    = 10
)

// Draw renders the panel and returns any triggered actions. raygui widgets
// are immediate mode: drawing and input handling happen together.
func (p *Panel) Draw(s State) Action {
	action := Action{SelectClass: -1}

	x := float32(p.X + padding)
	w := float32(p.Width - 2*padding)
	y := float32(p.Y + padding)

	rl.DrawText("Shape", p.X+padding, int32(y), 16, rl.DarkGray)
	y += rowHeight

	for _, kind := range s.Kinds {
		label := kind
		if kind == s.ActiveKind {
			label = "> " + kind
		}
		if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: rowHeight}, label) && kind != s.ActiveKind {
			action.SwitchKind = kind
		}
		y += rowHeight + rowSpacing
	}

	y += rowSpacing
	rl.DrawText("Obstacle class", p.X+padding, int32(y), 16, rl.DarkGray)
	y += rowHeight

	for i, class := range s.Classes {
		swatch := rl.NewColor(class.Color[0], class.Color[1], class.Color[2], 255)
		rl.DrawRectangle(int32(x), int32(y)+6, 16, 16, swatch)

		bounds := rl.Rectangle{X: x + 22, Y: y, Width: w - 22, Height: rowHeight}
		if gui.Toggle(bounds, class.Name, i == s.ActiveClass) && i != s.ActiveClass {
			action.SelectClass = i
		}
		y += rowHeight + rowSpacing
	}

	y += rowSpacing
	show := gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 18, Height: 18}, "show safety margin", s.ShowInflation)
	if show != s.ShowInflation {
		action.ToggleInflation = true
	}
	y += rowHeight

	paused := gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 18, Height: 18}, "paused", s.Paused)
	if paused != s.Paused {
		action.TogglePause = true
	}
	y += rowHeight + rowSpacing

	rl.DrawText("Session", p.X+padding, int32(y), 16, rl.DarkGray)
	y += rowHeight
	rl.DrawText(fmt.Sprintf("plans: %d", s.Plans), p.X+padding, int32(y), 14, rl.DarkGray)
	y += rowHeight - 8
	rl.DrawText(fmt.Sprintf("steps: %d", s.Steps), p.X+padding, int32(y), 14, rl.DarkGray)
	y += rowHeight - 8
	rl.DrawText(fmt.Sprintf("switches: %d", s.Switches), p.X+padding, int32(y), 14, rl.DarkGray)
	y += rowHeight - 8
	rl.DrawText(fmt.Sprintf("inflated cells: %d", s.InflatedCells), p.X+padding, int32(y), 14, rl.DarkGray)

	return action
}
