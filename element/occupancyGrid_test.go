package element

import "testing"

func TestOccupancyPlaceMoveRemove(t *testing.T) {
	g := NewOccupancyGrid(4, 4)
	v := NewVehicle(1, ClassTypeA, Cell{X: 1, Y: 1}, Cell{X: 3, Y: 3}, 3, 0)

	if err := g.Place(v); err != nil {
		t.Fatalf("place: %v", err)
	}
	if g.IsFree(Cell{X: 1, Y: 1}) {
		t.Error("occupied cell reported free")
	}
	if got, ok := g.VehicleAt(Cell{X: 1, Y: 1}); !ok || got != v {
		t.Error("VehicleAt did not return the occupant")
	}

	if err := g.Move(v, Cell{X: 2, Y: 1}); err != nil {
		t.Fatalf("move: %v", err)
	}
	v.LaneChangeTo(Cell{X: 2, Y: 1})
	if !g.IsFree(Cell{X: 1, Y: 1}) {
		t.Error("vacated cell still occupied")
	}
	if g.IsFree(Cell{X: 2, Y: 1}) {
		t.Error("target cell reported free after move")
	}

	if err := g.Remove(v); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if g.VehicleCount() != 0 {
		t.Errorf("expected empty grid, got %d vehicles", g.VehicleCount())
	}
}

func TestOccupancyRejectsDoublePlacement(t *testing.T) {
	g := NewOccupancyGrid(3, 3)
	a := NewVehicle(1, ClassTypeA, Cell{X: 1, Y: 1}, Cell{X: 2, Y: 2}, 3, 0)
	b := NewVehicle(2, ClassTypeB, Cell{X: 1, Y: 1}, Cell{X: 2, Y: 2}, 2, 0)

	if err := g.Place(a); err != nil {
		t.Fatalf("place a: %v", err)
	}
	if err := g.Place(b); err == nil {
		t.Error("expected error placing second vehicle on occupied cell")
	}
}

func TestOccupancyObstacleBlocks(t *testing.T) {
	g := NewOccupancyGrid(3, 3)
	g.PlaceObstacle(Cell{X: 1, Y: 1})

	if g.IsFree(Cell{X: 1, Y: 1}) {
		t.Error("obstacle cell reported free")
	}
	v := NewVehicle(1, ClassTypeA, Cell{X: 1, Y: 1}, Cell{X: 2, Y: 2}, 3, 0)
	if err := g.Place(v); err == nil {
		t.Error("expected error placing vehicle on obstacle")
	}
}

func TestOccupancyOutOfBounds(t *testing.T) {
	g := NewOccupancyGrid(3, 3)
	if g.IsFree(Cell{X: -1, Y: 0}) || g.IsFree(Cell{X: 3, Y: 0}) || g.IsFree(Cell{X: 0, Y: 3}) {
		t.Error("out-of-bounds cells must never be free")
	}
}

func TestOccupancyMoveToOccupiedFails(t *testing.T) {
	g := NewOccupancyGrid(3, 3)
	a := NewVehicle(1, ClassTypeA, Cell{X: 0, Y: 0}, Cell{X: 2, Y: 2}, 3, 0)
	b := NewVehicle(2, ClassTypeB, Cell{X: 1, Y: 0}, Cell{X: 2, Y: 2}, 2, 0)
	if err := g.Place(a); err != nil {
		t.Fatalf("place a: %v", err)
	}
	if err := g.Place(b); err != nil {
		t.Fatalf("place b: %v", err)
	}

	if err := g.Move(a, Cell{X: 1, Y: 0}); err == nil {
		t.Error("expected error moving onto an occupied cell")
	}
	// The failed move must not disturb either occupant.
	if got, ok := g.VehicleAt(Cell{X: 0, Y: 0}); !ok || got != a {
		t.Error("failed move displaced vehicle a")
	}
	if got, ok := g.VehicleAt(Cell{X: 1, Y: 0}); !ok || got != b {
		t.Error("failed move displaced vehicle b")
	}
}
