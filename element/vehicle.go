package element

import (
	"fmt"

	"github.com/tiendc/go-deepcopy"
)

// VehicleClass distinguishes driver behavior: TypeA stops on a caution
// phase, TypeB drives through it. Classes also carry different patience.
type VehicleClass int

const (
	ClassTypeA VehicleClass = iota
	ClassTypeB
)

func (c VehicleClass) String() string {
	switch c {
	case ClassTypeA:
		return "A"
	case ClassTypeB:
		return "B"
	default:
		return "?"
	}
}

// StopsOnCaution reports whether the class requires a full stop on a
// caution phase.
func (c VehicleClass) StopsOnCaution() bool {
	return c == ClassTypeA
}

// Vehicle is one route-following agent. It owns its route copy and cursor;
// occupancy bookkeeping belongs to the movement resolver, never to the
// vehicle itself.
type Vehicle struct {
	id          int64
	class       VehicleClass
	origin      Cell
	pos         Cell
	destination Cell

	route  []Cell
	cursor int

	patience     int
	blockedTicks int
	spawnTick    int
	tripTicks    int
}

// NewVehicle creates a vehicle at pos heading for destination.
func NewVehicle(id int64, class VehicleClass, pos, destination Cell, patience, spawnTick int) *Vehicle {
	if patience <= 0 {
		panic(fmt.Sprintf("vehicle %d: patience must be positive", id))
	}
	return &Vehicle{
		id:          id,
		class:       class,
		origin:      pos,
		pos:         pos,
		destination: destination,
		patience:    patience,
		spawnTick:   spawnTick,
	}
}

// ID returns the vehicle's unique id.
func (v *Vehicle) ID() int64 { return v.id }

// Class returns the vehicle's class tag.
func (v *Vehicle) Class() VehicleClass { return v.class }

// Pos returns the vehicle's current cell.
func (v *Vehicle) Pos() Cell { return v.pos }

// Origin returns the cell the vehicle spawned at.
func (v *Vehicle) Origin() Cell { return v.origin }

// Destination returns the vehicle's destination cell.
func (v *Vehicle) Destination() Cell { return v.destination }

// Patience returns the number of consecutive blocked ticks the vehicle
// tolerates before attempting a lane change.
func (v *Vehicle) Patience() int { return v.patience }

// BlockedTicks returns the consecutive-blocked-tick counter.
func (v *Vehicle) BlockedTicks() int { return v.blockedTicks }

// SpawnTick returns the tick the vehicle entered the simulation.
func (v *Vehicle) SpawnTick() int { return v.spawnTick }

// TripTicks returns the ticks spent en route so far.
func (v *Vehicle) TripTicks() int { return v.tripTicks }

// TickTrip advances the trip-time counter by one tick.
func (v *Vehicle) TickTrip() { v.tripTicks++ }

// AssignRoute installs a deep copy of route and resets the cursor. Copying
// keeps cache-held routes immutable no matter what happens to the vehicle.
func (v *Vehicle) AssignRoute(route []Cell) {
	var own []Cell
	if err := deepcopy.Copy(&own, &route); err != nil {
		panic(fmt.Sprintf("vehicle %d: route copy failed: %v", v.id, err))
	}
	v.route = own
	v.cursor = 0
}

// HasRoute reports whether an unconsumed route step remains.
func (v *Vehicle) HasRoute() bool {
	return v.cursor < len(v.route)
}

// Route returns a copy of the remaining route.
func (v *Vehicle) Route() []Cell {
	remaining := make([]Cell, len(v.route)-v.cursor)
	copy(remaining, v.route[v.cursor:])
	return remaining
}

// NextCell returns the next cell on the route.
func (v *Vehicle) NextCell() Cell {
	if !v.HasRoute() {
		panic(fmt.Sprintf("vehicle %d: route exhausted", v.id))
	}
	return v.route[v.cursor]
}

// Heading returns the direction toward the next route cell, or DirNone when
// no route is assigned.
func (v *Vehicle) Heading() Direction {
	if !v.HasRoute() {
		return DirNone
	}
	return DirectionBetween(v.pos, v.route[v.cursor])
}

// AdvanceTo commits a move to the next route cell and clears the blocked
// counter.
func (v *Vehicle) AdvanceTo(next Cell) {
	if next != v.NextCell() {
		panic(fmt.Sprintf("vehicle %d: advance to (%d,%d) is off route", v.id, next.X, next.Y))
	}
	v.pos = next
	v.cursor++
	v.blockedTicks = 0
}

// MarkBlocked increments and returns the consecutive-blocked-tick counter.
func (v *Vehicle) MarkBlocked() int {
	v.blockedTicks++
	return v.blockedTicks
}

// LaneChangeTo moves the vehicle laterally to cell, drops the now-stale
// route and clears the blocked counter. The caller must recompute a route
// from the new position.
func (v *Vehicle) LaneChangeTo(cell Cell) {
	v.pos = cell
	v.route = nil
	v.cursor = 0
	v.blockedTicks = 0
}
