package element

import "fmt"

// OccupancyGrid is the authoritative record of which cell holds which
// occupant. At most one vehicle ever occupies a cell; the movement resolver
// is the only mutator, so violations are programming defects and fail loudly.
type OccupancyGrid struct {
	width  int
	height int

	vehicles  map[Cell]*Vehicle
	obstacles map[Cell]struct{}
}

// NewOccupancyGrid creates an empty grid of the given extent.
func NewOccupancyGrid(width, height int) *OccupancyGrid {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("occupancy grid: invalid extent %dx%d", width, height))
	}
	return &OccupancyGrid{
		width:     width,
		height:    height,
		vehicles:  make(map[Cell]*Vehicle),
		obstacles: make(map[Cell]struct{}),
	}
}

// Width returns the grid width.
func (g *OccupancyGrid) Width() int { return g.width }

// Height returns the grid height.
func (g *OccupancyGrid) Height() int { return g.height }

// InBounds reports whether the cell lies within the grid.
func (g *OccupancyGrid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

// PlaceObstacle marks a cell as permanently occupied by a static obstacle.
// Used during initialization only.
func (g *OccupancyGrid) PlaceObstacle(c Cell) {
	if !g.InBounds(c) {
		panic(fmt.Sprintf("obstacle at (%d,%d) out of bounds", c.X, c.Y))
	}
	g.obstacles[c] = struct{}{}
}

// IsObstacle reports whether the cell holds a static obstacle.
func (g *OccupancyGrid) IsObstacle(c Cell) bool {
	_, ok := g.obstacles[c]
	return ok
}

// VehicleAt returns the vehicle occupying the cell, if any.
func (g *OccupancyGrid) VehicleAt(c Cell) (*Vehicle, bool) {
	v, ok := g.vehicles[c]
	return v, ok
}

// IsFree reports whether a vehicle may enter the cell: in bounds, no
// obstacle, no vehicle. Signals and destinations are markers, not
// occupants, and never make a cell un-free.
func (g *OccupancyGrid) IsFree(c Cell) bool {
	if !g.InBounds(c) || g.IsObstacle(c) {
		return false
	}
	_, occupied := g.vehicles[c]
	return !occupied
}

// Place puts a vehicle on its current cell. The cell must be free.
func (g *OccupancyGrid) Place(v *Vehicle) error {
	c := v.Pos()
	if !g.InBounds(c) {
		return fmt.Errorf("place vehicle %d: (%d,%d) out of bounds", v.ID(), c.X, c.Y)
	}
	if g.IsObstacle(c) {
		return fmt.Errorf("place vehicle %d: (%d,%d) holds an obstacle", v.ID(), c.X, c.Y)
	}
	if other, ok := g.vehicles[c]; ok {
		return fmt.Errorf("place vehicle %d: (%d,%d) already holds vehicle %d", v.ID(), c.X, c.Y, other.ID())
	}
	g.vehicles[c] = v
	return nil
}

// Remove clears the vehicle from its current cell.
func (g *OccupancyGrid) Remove(v *Vehicle) error {
	c := v.Pos()
	occupant, ok := g.vehicles[c]
	if !ok || occupant != v {
		return fmt.Errorf("remove vehicle %d: not at (%d,%d)", v.ID(), c.X, c.Y)
	}
	delete(g.vehicles, c)
	return nil
}

// Move relocates a vehicle from its current cell to target. The target must
// be free; the caller updates the vehicle's own position afterwards.
func (g *OccupancyGrid) Move(v *Vehicle, target Cell) error {
	if !g.IsFree(target) {
		return fmt.Errorf("move vehicle %d: (%d,%d) is not free", v.ID(), target.X, target.Y)
	}
	if err := g.Remove(v); err != nil {
		return err
	}
	g.vehicles[target] = v
	return nil
}

// VehicleCount returns the number of vehicles on the grid.
func (g *OccupancyGrid) VehicleCount() int {
	return len(g.vehicles)
}

// EachVehicle calls fn for every occupied cell. Iteration order is
// unspecified; callers needing determinism sort the result themselves.
func (g *OccupancyGrid) EachVehicle(fn func(c Cell, v *Vehicle)) {
	for c, v := range g.vehicles {
		fn(c, v)
	}
}
