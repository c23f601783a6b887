package element

// Cell is a grid coordinate. Cells are values; two cells with the same
// coordinates are the same cell.
type Cell struct {
	X int
	Y int
}

// ManhattanDistance returns the L1 distance between two cells.
func (c Cell) ManhattanDistance(other Cell) int {
	dx := c.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := c.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Direction is the travel direction of a lane cell. Y grows upward: DirUp
// moves toward larger Y, matching the map-file convention where the first
// line is the top row.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Vector returns the unit movement vector of the direction.
func (d Direction) Vector() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, 1
	case DirDown:
		return 0, -1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// DirectionBetween returns the direction that moves from one cell to an
// orthogonally adjacent cell, or DirNone for any other pair.
func DirectionBetween(from, to Cell) Direction {
	dx, dy := to.X-from.X, to.Y-from.Y
	switch {
	case dx == 0 && dy == 1:
		return DirUp
	case dx == 0 && dy == -1:
		return DirDown
	case dx == -1 && dy == 0:
		return DirLeft
	case dx == 1 && dy == 0:
		return DirRight
	default:
		return DirNone
	}
}

// EntityKind tags what occupies or marks a cell. Movement logic switches on
// the kind instead of probing concrete types.
type EntityKind int

const (
	KindRoad EntityKind = iota
	KindSignal
	KindObstacle
	KindDestination
	KindVehicle
)

func (k EntityKind) String() string {
	switch k {
	case KindRoad:
		return "Road"
	case KindSignal:
		return "TrafficLight"
	case KindObstacle:
		return "Obstacle"
	case KindDestination:
		return "Destination"
	case KindVehicle:
		return "Car"
	default:
		return "Unknown"
	}
}

// Map symbol vocabulary. Preserved verbatim for map-file compatibility:
// directional lanes, signals (s starts offset by the green duration),
// obstacles and destinations; any other character is non-traversable.
const (
	SymbolUp          = '^'
	SymbolDown        = 'v'
	SymbolLeft        = '<'
	SymbolRight       = '>'
	SymbolSignal      = 'S'
	SymbolSignalShift = 's'
	SymbolObstacle    = '#'
	SymbolDestination = 'D'
)

// DirectionForSymbol maps a lane symbol to its travel direction.
func DirectionForSymbol(ch byte) (Direction, bool) {
	switch ch {
	case SymbolUp:
		return DirUp, true
	case SymbolDown:
		return DirDown, true
	case SymbolLeft:
		return DirLeft, true
	case SymbolRight:
		return DirRight, true
	default:
		return DirNone, false
	}
}

// IsSignalSymbol reports whether ch marks a signalized lane cell.
func IsSignalSymbol(ch byte) bool {
	return ch == SymbolSignal || ch == SymbolSignalShift
}

// MergeRule describes one legal lateral lane merge: from a lane with a given
// travel direction, a vehicle may also enter the neighbor at Offset when that
// neighbor's symbol appears in Allowed. The tables never permit a merge
// against traffic.
type MergeRule struct {
	DX, DY  int
	Allowed string
}

// MergeRules holds the per-direction lane compatibility table.
var MergeRules = map[Direction][]MergeRule{
	DirUp: {
		{DX: -1, DY: 0, Allowed: "<^D"},
		{DX: 1, DY: 0, Allowed: ">^D"},
	},
	DirDown: {
		{DX: -1, DY: 0, Allowed: "<vD"},
		{DX: 1, DY: 0, Allowed: ">vD"},
	},
	DirLeft: {
		{DX: 0, DY: -1, Allowed: "<vD"},
		{DX: 0, DY: 1, Allowed: "<^D"},
	},
	DirRight: {
		{DX: 0, DY: -1, Allowed: ">vD"},
		{DX: 0, DY: 1, Allowed: ">^D"},
	},
}

// InboundRule resolves the underlying direction of a signal cell: when the
// orthogonal neighbor at Offset carries Expected, that lane flows into the
// signal, so the signal inherits its direction.
type InboundRule struct {
	DX, DY   int
	Expected byte
}

// InboundRules is checked in order; the first match wins.
var InboundRules = []InboundRule{
	{DX: 1, DY: 0, Expected: SymbolLeft},
	{DX: -1, DY: 0, Expected: SymbolRight},
	{DX: 0, DY: -1, Expected: SymbolUp},
	{DX: 0, DY: 1, Expected: SymbolDown},
}

// GridNode is a road-graph node. The ID encodes the coordinate as
// y*width + x, so identical cells always map to the same node.
type GridNode struct {
	id  int64
	pos Cell
}

// NewGridNode creates a graph node for the given cell.
func NewGridNode(id int64, pos Cell) GridNode {
	return GridNode{id: id, pos: pos}
}

// ID implements gonum's graph.Node.
func (n GridNode) ID() int64 { return n.id }

// Pos returns the cell the node stands for.
func (n GridNode) Pos() Cell { return n.pos }
