package simulator

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/graph/simple"

	"citytraffic/element"
	"citytraffic/log"
)

// ParseError reports a malformed map. Initialization fails; the simulation
// never starts on a bad map.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return "map parse error: " + e.Msg
}

// SignalTiming carries the shared cycle durations used for every signal on
// the map. An `S` cell starts at offset 0, an `s` cell at offset GoTicks so
// cross-traffic staggers.
type SignalTiming struct {
	StopTicks    int
	GoTicks      int
	CautionTicks int
}

// RoadNetwork is the static navigable world derived from the map: the
// directed lane graph plus the marker inventory the simulation needs.
// Immutable after construction.
type RoadNetwork struct {
	Width  int
	Height int

	Graph *simple.DirectedGraph
	Nodes map[element.Cell]element.GridNode

	// Lanes maps every traversable cell to its travel direction, signal
	// cells included (with their decoded direction).
	Lanes map[element.Cell]element.Direction

	Signals      map[element.Cell]*element.TrafficSignal
	Destinations []element.Cell
	Obstacles    []element.Cell
	SpawnPoints  []element.Cell
}

// BuildRoadNetwork parses the rectangular character map into a directed
// adjacency graph over traversable cells. Rows run top to bottom in the
// input; y grows upward, so the cell for row r, column c is
// (c, height-r-1). Single pass, O(width*height).
func BuildRoadNetwork(lines []string, timing SignalTiming) (*RoadNetwork, error) {
	if len(lines) == 0 {
		return nil, &ParseError{Msg: "empty map"}
	}

	height := len(lines)
	width := 0
	for _, line := range lines {
		if len(line) > width {
			width = len(line)
		}
	}
	if width == 0 {
		return nil, &ParseError{Msg: "map has no columns"}
	}

	net := &RoadNetwork{
		Width:   width,
		Height:  height,
		Graph:   simple.NewDirectedGraph(),
		Nodes:   make(map[element.Cell]element.GridNode),
		Lanes:   make(map[element.Cell]element.Direction),
		Signals: make(map[element.Cell]*element.TrafficSignal),
	}

	symbolAt := func(c element.Cell) byte {
		row := lines[height-c.Y-1]
		if c.X < len(row) {
			return row[c.X]
		}
		return ' '
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cell := element.Cell{X: x, Y: y}
			sym := symbolAt(cell)

			switch {
			case sym == element.SymbolObstacle:
				net.Obstacles = append(net.Obstacles, cell)
				continue
			case sym == element.SymbolDestination:
				net.Destinations = append(net.Destinations, cell)
				continue
			}

			dir, isLane := element.DirectionForSymbol(sym)
			if element.IsSignalSymbol(sym) {
				dir = decodeSignalDirection(cell, net, symbolAt)
				offset := 0
				if sym == element.SymbolSignalShift {
					offset = timing.GoTicks
				}
				net.Signals[cell] = element.NewTrafficSignal(cell, dir,
					timing.StopTicks, timing.GoTicks, timing.CautionTicks, offset)
				if dir == element.DirNone {
					// No inbound lane: the signal exists for the renderer but
					// the cell stays out of the graph.
					log.WriteLog(fmt.Sprintf("signal at (%d,%d) has no derivable direction, excluded from road graph", x, y))
					continue
				}
				isLane = true
			}
			if !isLane {
				continue
			}

			net.Lanes[cell] = dir
			addLaneEdges(net, cell, dir, symbolAt)
		}
	}

	for _, corner := range []element.Cell{
		{X: 0, Y: 0},
		{X: width - 1, Y: 0},
		{X: 0, Y: height - 1},
		{X: width - 1, Y: height - 1},
	} {
		if _, ok := net.Lanes[corner]; ok {
			net.SpawnPoints = append(net.SpawnPoints, corner)
		} else {
			log.WriteLog(fmt.Sprintf("corner (%d,%d) is not a road, no spawn point there", corner.X, corner.Y))
		}
	}

	return net, nil
}

// addLaneEdges inserts the forward edge along the lane direction plus any
// lateral merge edges the compatibility table permits. simple.DirectedGraph
// keys edges by the ordered node pair, so insertion is idempotent.
func addLaneEdges(net *RoadNetwork, cell element.Cell, dir element.Direction, symbolAt func(element.Cell) byte) {
	dx, dy := dir.Vector()
	forward := element.Cell{X: cell.X + dx, Y: cell.Y + dy}
	if inBounds(net, forward) && isNavigableSymbol(symbolAt(forward)) {
		setEdge(net, cell, forward)
	}

	for _, rule := range element.MergeRules[dir] {
		side := element.Cell{X: cell.X + rule.DX, Y: cell.Y + rule.DY}
		if !inBounds(net, side) {
			continue
		}
		if strings.IndexByte(rule.Allowed, symbolAt(side)) >= 0 {
			setEdge(net, cell, side)
		}
	}
}

// decodeSignalDirection resolves the lane direction under a signal by
// finding the orthogonal neighbor whose travel vector points into the
// signal cell.
func decodeSignalDirection(cell element.Cell, net *RoadNetwork, symbolAt func(element.Cell) byte) element.Direction {
	for _, rule := range element.InboundRules {
		neighbor := element.Cell{X: cell.X + rule.DX, Y: cell.Y + rule.DY}
		if !inBounds(net, neighbor) {
			continue
		}
		if symbolAt(neighbor) == rule.Expected {
			dir, _ := element.DirectionForSymbol(rule.Expected)
			return dir
		}
	}
	return element.DirNone
}

// isNavigableSymbol reports whether a cell with this symbol may be entered:
// lanes, signals and destinations. Obstacles and blank ground never take an
// incoming edge.
func isNavigableSymbol(sym byte) bool {
	if _, ok := element.DirectionForSymbol(sym); ok {
		return true
	}
	return element.IsSignalSymbol(sym) || sym == element.SymbolDestination
}

func inBounds(net *RoadNetwork, c element.Cell) bool {
	return c.X >= 0 && c.X < net.Width && c.Y >= 0 && c.Y < net.Height
}

func (net *RoadNetwork) nodeID(c element.Cell) int64 {
	return int64(c.Y*net.Width + c.X)
}

func (net *RoadNetwork) ensureNode(c element.Cell) element.GridNode {
	if n, ok := net.Nodes[c]; ok {
		return n
	}
	n := element.NewGridNode(net.nodeID(c), c)
	net.Graph.AddNode(n)
	net.Nodes[c] = n
	return n
}

func setEdge(net *RoadNetwork, from, to element.Cell) {
	if from == to {
		return
	}
	f := net.ensureNode(from)
	t := net.ensureNode(to)
	net.Graph.SetEdge(simple.Edge{F: f, T: t})
}

// Node returns the graph node for a cell, if the cell is part of the road
// graph.
func (net *RoadNetwork) Node(c element.Cell) (element.GridNode, bool) {
	n, ok := net.Nodes[c]
	return n, ok
}

// IsTraversable reports whether a cell belongs to the road graph.
func (net *RoadNetwork) IsTraversable(c element.Cell) bool {
	_, ok := net.Nodes[c]
	return ok
}
