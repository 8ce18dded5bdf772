package systems

// Class identifies an obstacle class. It indexes the session's configured
// class table; the tag itself carries no behavior, the policy tables do.
type Class uint8

// ObstacleField is a sparse mapping from grid cell to obstacle class.
// Cells absent from the map are free. All operations are total.
type ObstacleField struct {
	cells map[Cell]Class
}

// NewObstacleField creates an empty field.
func NewObstacleField() *ObstacleField {
	return &ObstacleField{cells: make(map[Cell]Class)}
}

// Set inserts or overwrites the class at the cell.
func (f *ObstacleField) Set(c Cell, class Class) {
	f.cells[c] = class
}

// Remove clears the cell. No-op if the cell is free.
func (f *ObstacleField) Remove(c Cell) {
	delete(f.cells, c)
}

// Get returns the class at the cell, if any.
func (f *ObstacleField) Get(c Cell) (Class, bool) {
	class, ok := f.cells[c]
	return class, ok
}

// Toggle removes the cell if occupied, otherwise sets it to the given class.
// Returns true if the cell is occupied after the call.
func (f *ObstacleField) Toggle(c Cell, class Class) bool {
	if _, ok := f.cells[c]; ok {
		delete(f.cells, c)
		return false
	}
	f.cells[c] = class
	return true
}

// Len returns the number of occupied cells.
func (f *ObstacleField) Len() int {
	return len(f.cells)
}

// Each calls fn for every occupied cell. Iteration order is unspecified.
func (f *ObstacleField) Each(fn func(Cell, Class)) {
	for c, class := range f.cells {
		fn(c, class)
	}
}
