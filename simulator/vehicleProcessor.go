package simulator

import (
	"fmt"

	"citytraffic/element"
)

// laneChangeOffsets returns the candidate lateral cells for a vehicle
// traveling in dir, in fixed priority order: diagonal left, diagonal right,
// orthogonal left, orthogonal right.
func laneChangeOffsets(dir element.Direction) [4][2]int {
	dx, dy := dir.Vector()
	// Left and right perpendiculars of the travel vector.
	lx, ly := -dy, dx
	rx, ry := dy, -dx
	return [4][2]int{
		{dx + lx, dy + ly},
		{dx + rx, dy + ry},
		{lx, ly},
		{rx, ry},
	}
}

// stepVehicle evaluates one vehicle for the current tick and reports
// whether it left the simulation. The occupancy grid already reflects the
// committed moves of every vehicle evaluated earlier this tick, which is
// what makes double occupancy structurally impossible.
func (s *SimulationState) stepVehicle(v *element.Vehicle) (removed bool) {
	// Arrival is checked before anything else: a vehicle standing on its
	// destination leaves the grid and files its trip length.
	if v.Pos() == v.Destination() {
		s.finishVehicle(v, false)
		return true
	}

	if !v.HasRoute() {
		route, err := FindRoute(s.net, s.cache, v.Pos(), v.Destination())
		if err != nil {
			// Unreachable destination: drop the vehicle rather than retry
			// the same failing search every tick.
			s.finishVehicle(v, true)
			return true
		}
		v.AssignRoute(route)
	}

	next := v.NextCell()
	if !s.blockedAt(v, next) {
		s.commitMove(v, next)
		v.TickTrip()
		return false
	}

	if v.MarkBlocked() > v.Patience() {
		if s.tryLaneChange(v) && !v.HasRoute() {
			// Lane change succeeded but no route exists from the new cell.
			s.finishVehicle(v, true)
			return true
		}
	}
	v.TickTrip()
	return false
}

// blockedAt reports whether the vehicle may not enter next this tick:
// another vehicle holds it, or a signal forbids entry for this vehicle
// class. Transient blocking is steady-state behavior, not an error.
func (s *SimulationState) blockedAt(v *element.Vehicle, next element.Cell) bool {
	if !s.grid.IsFree(next) {
		return true
	}
	if sig, ok := s.net.Signals[next]; ok {
		switch sig.Phase() {
		case element.PhaseStop:
			return true
		case element.PhaseCaution:
			return v.Class().StopsOnCaution()
		}
	}
	return false
}

// commitMove moves the vehicle one route step. Grid errors here mean the
// resolver's ordering guarantee was broken, which is a defect.
func (s *SimulationState) commitMove(v *element.Vehicle, next element.Cell) {
	if err := s.grid.Move(v, next); err != nil {
		panic(fmt.Sprintf("movement resolver: %v", err))
	}
	v.AdvanceTo(next)
}

// tryLaneChange inspects the lateral candidates in priority order and moves
// the vehicle to the first free lane cell, recomputing its route from
// there. Returns false when every candidate is unavailable.
func (s *SimulationState) tryLaneChange(v *element.Vehicle) bool {
	dir := v.Heading()
	if dir == element.DirNone {
		return false
	}

	pos := v.Pos()
	for _, off := range laneChangeOffsets(dir) {
		cand := element.Cell{X: pos.X + off[0], Y: pos.Y + off[1]}
		if !s.grid.IsFree(cand) {
			continue
		}
		if _, isLane := s.net.Lanes[cand]; !isLane {
			continue
		}

		if err := s.grid.Move(v, cand); err != nil {
			panic(fmt.Sprintf("lane change: %v", err))
		}
		v.LaneChangeTo(cand)

		route, err := FindRoute(s.net, s.cache, cand, v.Destination())
		if err == nil {
			v.AssignRoute(route)
		}
		// On error the route stays empty; stepVehicle drops the vehicle.
		return true
	}
	return false
}

// finishVehicle removes a vehicle from the grid and the active set,
// recording the trip as completed or dropped.
func (s *SimulationState) finishVehicle(v *element.Vehicle, droppedTrip bool) {
	if err := s.grid.Remove(v); err != nil {
		panic(fmt.Sprintf("finish vehicle: %v", err))
	}

	if droppedTrip {
		s.dropped++
	} else {
		s.completed++
		s.recordTripLength(v.TripTicks())
	}

	s.pendingTrips = append(s.pendingTrips, TripRecord{
		VehicleID:   v.ID(),
		Class:       v.Class(),
		Origin:      v.Origin(),
		Destination: v.Destination(),
		SpawnTick:   v.SpawnTick(),
		EndTick:     s.tick,
		TripTicks:   v.TripTicks(),
		Dropped:     droppedTrip,
	})
}
