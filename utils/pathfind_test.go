package utils

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/graph/simple"

	"citytraffic/element"
)

// lineGraph builds a directed chain of nodes along y=0, x=0..n-1, with an
// extra disconnected node at (0,1).
func lineGraph(n int) (*simple.DirectedGraph, []element.GridNode, element.GridNode) {
	g := simple.NewDirectedGraph()
	nodes := make([]element.GridNode, n)
	for i := 0; i < n; i++ {
		nodes[i] = element.NewGridNode(int64(i), element.Cell{X: i, Y: 0})
		g.AddNode(nodes[i])
	}
	for i := 0; i+1 < n; i++ {
		g.SetEdge(simple.Edge{F: nodes[i], T: nodes[i+1]})
	}
	isolated := element.NewGridNode(int64(n), element.Cell{X: 0, Y: 1})
	g.AddNode(isolated)
	return g, nodes, isolated
}

func TestFindPathStraightLine(t *testing.T) {
	g, nodes, _ := lineGraph(5)

	path, err := FindPath(g, nodes[0], nodes[4])
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	if len(path) != 5 {
		t.Fatalf("expected 5 nodes, got %d", len(path))
	}
	if path[0].ID() != nodes[0].ID() || path[len(path)-1].ID() != nodes[4].ID() {
		t.Error("path endpoints do not match origin and destination")
	}
}

func TestFindPathDistanceMonotone(t *testing.T) {
	g, nodes, _ := lineGraph(6)
	dest := nodes[5].Pos()

	path, err := FindPath(g, nodes[0], nodes[5])
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	prev := path[0].(element.GridNode).Pos().ManhattanDistance(dest)
	for _, n := range path[1:] {
		d := n.(element.GridNode).Pos().ManhattanDistance(dest)
		if d >= prev {
			t.Errorf("distance to destination did not decrease: %d -> %d", prev, d)
		}
		prev = d
	}
}

func TestFindPathNoRoute(t *testing.T) {
	g, nodes, isolated := lineGraph(4)

	if _, err := FindPath(g, nodes[0], isolated); !errors.Is(err, ErrNoPath) {
		t.Errorf("expected ErrNoPath, got %v", err)
	}
	// Edges are directed; walking the chain backwards must fail too.
	if _, err := FindPath(g, nodes[3], nodes[0]); !errors.Is(err, ErrNoPath) {
		t.Errorf("expected ErrNoPath against the edge direction, got %v", err)
	}
}

func TestManhattanHeuristic(t *testing.T) {
	a := element.NewGridNode(0, element.Cell{X: 1, Y: 2})
	b := element.NewGridNode(1, element.Cell{X: 4, Y: 0})
	if got := ManhattanHeuristic(a, b); got != 5 {
		t.Errorf("expected heuristic 5, got %v", got)
	}
}
