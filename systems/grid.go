package systems

import "math"

// Cell is an integer grid cell.
type Cell struct {
	X, Y int
}

// Bounds describes the grid extent. Valid cells satisfy
// 0 <= X < Width and 0 <= Y < Height.
type Bounds struct {
	Width, Height int
}

// Contains reports whether the cell lies inside the grid.
func (b Bounds) Contains(c Cell) bool {
	return c.X >= 0 && c.X < b.Width && c.Y >= 0 && c.Y < b.Height
}

// Area returns the number of cells in the grid.
func (b Bounds) Area() int {
	return b.Width * b.Height
}

// CellAt rounds a world position to its nearest grid cell.
func CellAt(x, y float32) Cell {
	return Cell{
		X: int(math.Round(float64(x))),
		Y: int(math.Round(float64(y))),
	}
}
