package element

import "testing"

func TestSignalPhaseSequence(t *testing.T) {
	sig := NewTrafficSignal(Cell{X: 0, Y: 0}, DirRight, 2, 2, 1, 0)

	want := []SignalPhase{PhaseStop, PhaseStop, PhaseGo, PhaseGo, PhaseCaution}
	for i, phase := range want {
		if got := sig.Phase(); got != phase {
			t.Errorf("tick %d: expected phase %v, got %v", i, phase, got)
		}
		sig.Advance()
	}

	// One full cycle returns to the start.
	if got := sig.Phase(); got != PhaseStop {
		t.Errorf("after full cycle: expected %v, got %v", PhaseStop, got)
	}
	if sig.Counter() != 0 {
		t.Errorf("after full cycle: expected counter 0, got %d", sig.Counter())
	}
}

func TestSignalStartOffset(t *testing.T) {
	sig := NewTrafficSignal(Cell{X: 1, Y: 1}, DirUp, 2, 2, 1, 2)
	if got := sig.Phase(); got != PhaseGo {
		t.Errorf("offset 2 with stop=2: expected %v, got %v", PhaseGo, got)
	}

	// Offsets wrap around the cycle.
	sig = NewTrafficSignal(Cell{X: 1, Y: 1}, DirUp, 2, 2, 1, 7)
	if sig.Counter() != 2 {
		t.Errorf("offset 7 mod cycle 5: expected counter 2, got %d", sig.Counter())
	}
}

func TestSignalCycleStableOverManyTicks(t *testing.T) {
	sig := NewTrafficSignal(Cell{X: 0, Y: 0}, DirLeft, 7, 6, 2, 0)
	cycle := sig.Cycle()
	if cycle != 15 {
		t.Fatalf("expected cycle 15, got %d", cycle)
	}

	counts := map[SignalPhase]int{}
	for i := 0; i < cycle*3; i++ {
		counts[sig.Phase()]++
		sig.Advance()
	}
	if counts[PhaseStop] != 21 || counts[PhaseGo] != 18 || counts[PhaseCaution] != 6 {
		t.Errorf("phase durations drifted: stop=%d go=%d caution=%d",
			counts[PhaseStop], counts[PhaseGo], counts[PhaseCaution])
	}
}

func TestSignalRejectsNonPositiveCycle(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero-length cycle")
		}
	}()
	NewTrafficSignal(Cell{X: 0, Y: 0}, DirRight, 0, 0, 0, 0)
}

func TestSignalRejectsNegativeDuration(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for negative duration")
		}
	}()
	NewTrafficSignal(Cell{X: 0, Y: 0}, DirRight, -1, 5, 1, 0)
}
