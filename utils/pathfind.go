package utils

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"

	"citytraffic/element"
)

// ErrNoPath reports that no path connects two nodes of the road graph.
var ErrNoPath = errors.New("no path between nodes")

// ManhattanHeuristic estimates remaining cost as the L1 distance between two
// grid nodes. Every edge costs 1 and moves one cell along an axis, so the
// estimate never exceeds the true cost and A* stays optimal.
func ManhattanHeuristic(x, y graph.Node) float64 {
	xn, xok := x.(element.GridNode)
	yn, yok := y.(element.GridNode)
	if !xok || !yok {
		return 0
	}
	return float64(xn.Pos().ManhattanDistance(yn.Pos()))
}

// FindPath runs an A* search from origin to destination over the road graph
// and returns the node sequence including both endpoints.
func FindPath(g graph.Directed, origin, destination graph.Node) ([]graph.Node, error) {
	if g.Node(origin.ID()) == nil || g.Node(destination.ID()) == nil {
		return nil, ErrNoPath
	}

	shortest, _ := path.AStar(origin, destination, g, ManhattanHeuristic)
	nodes, weight := shortest.To(destination.ID())
	if math.IsInf(weight, 1) || len(nodes) == 0 {
		return nil, ErrNoPath
	}
	return nodes, nil
}
