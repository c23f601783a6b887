package simulator

import (
	"fmt"

	"citytraffic/element"
)

// chooseClass draws a vehicle class with the configured weight split.
func (s *SimulationState) chooseClass() element.VehicleClass {
	if s.rng.Float64() < s.params.TypeAWeight {
		return element.ClassTypeA
	}
	return element.ClassTypeB
}

func (s *SimulationState) patienceFor(class element.VehicleClass) int {
	if class == element.ClassTypeA {
		return s.params.TypeAPatience
	}
	return s.params.TypeBPatience
}

// spawnVehicles attempts one spawn at every spawn point not currently
// occupied. Without registered destinations nothing spawns; an empty
// destination list is a boundary condition, not a failure.
func (s *SimulationState) spawnVehicles() {
	for _, sp := range s.net.SpawnPoints {
		if !s.grid.IsFree(sp) {
			continue
		}
		dest, ok := s.randomDestination()
		if !ok {
			return
		}

		class := s.chooseClass()
		s.nextVehicleID++
		v := element.NewVehicle(s.nextVehicleID, class, sp, dest, s.patienceFor(class), s.tick)

		if err := s.grid.Place(v); err != nil {
			panic(fmt.Sprintf("spawn: %v", err))
		}
		s.vehicles = append(s.vehicles, v)
		s.spawned++
	}
}

// SpawnAt places a vehicle explicitly, bypassing the spawn points. Intended
// for scenario setup; the regular spawner covers normal operation.
func (s *SimulationState) SpawnAt(pos, dest element.Cell, class element.VehicleClass) (*element.Vehicle, error) {
	if !s.grid.IsFree(pos) {
		return nil, fmt.Errorf("spawn at (%d,%d): cell is not free", pos.X, pos.Y)
	}
	s.nextVehicleID++
	v := element.NewVehicle(s.nextVehicleID, class, pos, dest, s.patienceFor(class), s.tick)
	if err := s.grid.Place(v); err != nil {
		return nil, err
	}
	s.vehicles = append(s.vehicles, v)
	s.spawned++
	return v, nil
}
