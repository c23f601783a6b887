package simulator

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"citytraffic/config"
	"citytraffic/element"
	"citytraffic/log"
)

// EvaluationOrder selects the fairness policy for per-tick vehicle
// evaluation. Safety (single occupancy) holds under either policy because
// commits are observed in evaluation order.
type EvaluationOrder int

const (
	OrderInsertion EvaluationOrder = iota
	OrderShuffled
)

// Params holds the engine parameters, decoupled from the config file so
// tests construct states directly.
type Params struct {
	Signal SignalTiming

	TypeAWeight   float64
	TypeAPatience int
	TypeBPatience int

	SpawnEvery      int
	EvaluationOrder EvaluationOrder
	StepsDistMax    int
	Seed            uint64
}

// DefaultParams returns the engine defaults (original model timings).
func DefaultParams() Params {
	return Params{
		Signal:          SignalTiming{StopTicks: 7, GoTicks: 6, CautionTicks: 2},
		TypeAWeight:     0.7,
		TypeAPatience:   3,
		TypeBPatience:   2,
		SpawnEvery:      1,
		EvaluationOrder: OrderInsertion,
		StepsDistMax:    100,
		Seed:            1,
	}
}

// ParamsFromConfig maps the loaded configuration onto engine parameters.
func ParamsFromConfig(cfg *config.Config) Params {
	order := OrderInsertion
	if cfg.Simulation.EvaluationOrder == "shuffled" {
		order = OrderShuffled
	}
	return Params{
		Signal: SignalTiming{
			StopTicks:    cfg.TrafficLight.StopTicks,
			GoTicks:      cfg.TrafficLight.GoTicks,
			CautionTicks: cfg.TrafficLight.CautionTicks,
		},
		TypeAWeight:     cfg.Vehicle.TypeAWeight,
		TypeAPatience:   cfg.Vehicle.TypeAPatience,
		TypeBPatience:   cfg.Vehicle.TypeBPatience,
		SpawnEvery:      cfg.Simulation.SpawnEvery,
		EvaluationOrder: order,
		StepsDistMax:    cfg.Simulation.StepsDistMax,
		Seed:            cfg.Simulation.Seed,
	}
}

// Counters is the running statistics surface the engine exposes.
type Counters struct {
	Tick           int
	ActiveVehicles int
	Spawned        int64
	Completed      int64
	Dropped        int64
	MemoHits       int64
	MemoMisses     int64

	// TripTicks is the completed-trip tick-count histogram, keyed by trip
	// length and capped at StepsDistMax.
	TripTicks map[int]int
}

// TripRecord describes one finished (or dropped) trip, drained by the
// recorder between ticks.
type TripRecord struct {
	VehicleID   int64
	Class       element.VehicleClass
	Origin      element.Cell
	Destination element.Cell
	SpawnTick   int
	EndTick     int
	TripTicks   int
	Dropped     bool
}

// SimulationState owns everything one run mutates. It is passed explicitly;
// there is no package-level model.
type SimulationState struct {
	params Params

	net   *RoadNetwork
	cache *RouteCache
	grid  *element.OccupancyGrid

	// signals in deterministic (y,x) order for advancement and snapshots.
	signals []*element.TrafficSignal

	// vehicles in insertion order; the per-tick evaluation order derives
	// from this slice.
	vehicles []*element.Vehicle

	tick          int
	nextVehicleID int64
	rng           *rand.Rand

	spawned   int64
	completed int64
	dropped   int64
	tripTicks map[int]int

	pendingTrips []TripRecord
}

// Initialize builds a simulation from raw map lines. A malformed map
// returns a ParseError and no state.
func Initialize(lines []string, params Params) (*SimulationState, error) {
	net, err := BuildRoadNetwork(lines, params.Signal)
	if err != nil {
		return nil, err
	}

	grid := element.NewOccupancyGrid(net.Width, net.Height)
	for _, c := range net.Obstacles {
		grid.PlaceObstacle(c)
	}

	signals := make([]*element.TrafficSignal, 0, len(net.Signals))
	for _, s := range net.Signals {
		signals = append(signals, s)
	}
	sort.Slice(signals, func(i, j int) bool {
		a, b := signals[i].Pos(), signals[j].Pos()
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	state := &SimulationState{
		params:    params,
		net:       net,
		cache:     NewRouteCache(),
		grid:      grid,
		signals:   signals,
		rng:       rand.New(rand.NewPCG(params.Seed, params.Seed^0x9e3779b97f4a7c15)),
		tripTicks: make(map[int]int),
	}

	log.WriteLog(fmt.Sprintf("initialized %dx%d map: %d lanes, %d signals, %d destinations, %d obstacles, %d spawn points",
		net.Width, net.Height, len(net.Lanes), len(signals), len(net.Destinations), len(net.Obstacles), len(net.SpawnPoints)))

	return state, nil
}

// Tick returns the current tick number.
func (s *SimulationState) Tick() int { return s.tick }

// Network returns the static road network.
func (s *SimulationState) Network() *RoadNetwork { return s.net }

// Grid returns the occupancy grid. Read-only for callers; only the movement
// resolver mutates it.
func (s *SimulationState) Grid() *element.OccupancyGrid { return s.grid }

// Counters returns a copy of the running counters.
func (s *SimulationState) Counters() Counters {
	hits, misses := s.cache.Stats()
	hist := make(map[int]int, len(s.tripTicks))
	for k, v := range s.tripTicks {
		hist[k] = v
	}
	return Counters{
		Tick:           s.tick,
		ActiveVehicles: len(s.vehicles),
		Spawned:        s.spawned,
		Completed:      s.completed,
		Dropped:        s.dropped,
		MemoHits:       hits,
		MemoMisses:     misses,
		TripTicks:      hist,
	}
}

// DrainTrips returns the trips finished since the last drain and clears the
// pending list.
func (s *SimulationState) DrainTrips() []TripRecord {
	trips := s.pendingTrips
	s.pendingTrips = nil
	return trips
}

// recordTripLength files a completed trip into the capped histogram.
func (s *SimulationState) recordTripLength(ticks int) {
	if ticks < 1 {
		ticks = 1
	}
	if s.params.StepsDistMax > 0 && ticks > s.params.StepsDistMax {
		ticks = s.params.StepsDistMax
	}
	s.tripTicks[ticks]++
}

// randomDestination picks a uniformly random registered destination. ok is
// false when the map registers none.
func (s *SimulationState) randomDestination() (element.Cell, bool) {
	if len(s.net.Destinations) == 0 {
		return element.Cell{}, false
	}
	return s.net.Destinations[s.rng.IntN(len(s.net.Destinations))], true
}

// VehicleInfo is the snapshot row for one vehicle.
type VehicleInfo struct {
	ID      int64
	Pos     element.Cell
	Class   element.VehicleClass
	Heading element.Direction
}

// Vehicles returns a snapshot of the active vehicles, ordered by id.
func (s *SimulationState) Vehicles() []VehicleInfo {
	infos := make([]VehicleInfo, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		heading := v.Heading()
		if heading == element.DirNone {
			heading = s.net.Lanes[v.Pos()]
		}
		infos = append(infos, VehicleInfo{
			ID:      v.ID(),
			Pos:     v.Pos(),
			Class:   v.Class(),
			Heading: heading,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// SignalInfo is the snapshot row for one traffic signal.
type SignalInfo struct {
	Pos   element.Cell
	Phase element.SignalPhase
	Lane  element.Direction
}

// SignalStates returns the signals with their current phase, in (y,x) order.
func (s *SimulationState) SignalStates() []SignalInfo {
	infos := make([]SignalInfo, 0, len(s.signals))
	for _, sig := range s.signals {
		infos = append(infos, SignalInfo{Pos: sig.Pos(), Phase: sig.Phase(), Lane: sig.Lane()})
	}
	return infos
}

// RoadInfo is the snapshot row for one lane cell.
type RoadInfo struct {
	Pos       element.Cell
	Direction element.Direction
}

// RoadCells returns every traversable lane cell with its direction, ordered
// by (y,x).
func (s *SimulationState) RoadCells() []RoadInfo {
	infos := make([]RoadInfo, 0, len(s.net.Lanes))
	for c, d := range s.net.Lanes {
		infos = append(infos, RoadInfo{Pos: c, Direction: d})
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Pos.Y != infos[j].Pos.Y {
			return infos[i].Pos.Y < infos[j].Pos.Y
		}
		return infos[i].Pos.X < infos[j].Pos.X
	})
	return infos
}

// Destinations returns a copy of the registered destination cells.
func (s *SimulationState) Destinations() []element.Cell {
	dests := make([]element.Cell, len(s.net.Destinations))
	copy(dests, s.net.Destinations)
	return dests
}

// Obstacles returns a copy of the static obstacle cells.
func (s *SimulationState) Obstacles() []element.Cell {
	obs := make([]element.Cell, len(s.net.Obstacles))
	copy(obs, s.net.Obstacles)
	return obs
}

// OccupantInfo enumerates one occupied cell with its kind and orientation.
type OccupantInfo struct {
	Pos       element.Cell
	Kind      element.EntityKind
	VehicleID int64
	Class     element.VehicleClass
	Heading   element.Direction
}

// OccupiedCells enumerates every occupied cell (vehicles and obstacles),
// ordered by (y,x).
func (s *SimulationState) OccupiedCells() []OccupantInfo {
	infos := make([]OccupantInfo, 0, len(s.vehicles)+len(s.net.Obstacles))
	for _, v := range s.Vehicles() {
		infos = append(infos, OccupantInfo{
			Pos:       v.Pos,
			Kind:      element.KindVehicle,
			VehicleID: v.ID,
			Class:     v.Class,
			Heading:   v.Heading,
		})
	}
	for _, c := range s.net.Obstacles {
		infos = append(infos, OccupantInfo{Pos: c, Kind: element.KindObstacle})
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Pos.Y != infos[j].Pos.Y {
			return infos[i].Pos.Y < infos[j].Pos.Y
		}
		return infos[i].Pos.X < infos[j].Pos.X
	})
	return infos
}
