package simulator

import "citytraffic/element"

// Step advances the simulation exactly one tick: signals first, then every
// active vehicle exactly once in the configured order, then spawning. Each
// vehicle's occupancy check reads the grid after all earlier vehicles in
// the same tick committed their moves, so no two vehicles can resolve to
// the same cell.
func (s *SimulationState) Step() {
	for _, sig := range s.signals {
		sig.Advance()
	}

	order := s.evaluationOrder()
	removed := make(map[int64]bool)
	for _, v := range order {
		if s.stepVehicle(v) {
			removed[v.ID()] = true
		}
	}
	if len(removed) > 0 {
		kept := s.vehicles[:0]
		for _, v := range s.vehicles {
			if !removed[v.ID()] {
				kept = append(kept, v)
			}
		}
		s.vehicles = kept
	}

	if s.params.SpawnEvery > 0 && s.tick%s.params.SpawnEvery == 0 {
		s.spawnVehicles()
	}

	s.tick++
}

// evaluationOrder returns the vehicles in the order they are evaluated this
// tick. Insertion order is the default; the shuffled policy reorders a copy
// once per tick using the state's own rng, keeping runs reproducible.
func (s *SimulationState) evaluationOrder() []*element.Vehicle {
	order := make([]*element.Vehicle, len(s.vehicles))
	copy(order, s.vehicles)
	if s.params.EvaluationOrder == OrderShuffled {
		s.rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}
	return order
}
