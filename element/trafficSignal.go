package element

import "fmt"

// SignalPhase is the externally visible state of a traffic signal.
type SignalPhase int

const (
	PhaseStop SignalPhase = iota
	PhaseGo
	PhaseCaution
)

func (p SignalPhase) String() string {
	switch p {
	case PhaseStop:
		return "red"
	case PhaseGo:
		return "green"
	case PhaseCaution:
		return "yellow"
	default:
		return "unknown"
	}
}

// TrafficSignal cycles Stop -> Go -> Caution with fixed durations. The phase
// is a pure function of the cycle counter and the three durations; Advance
// only moves the counter.
type TrafficSignal struct {
	pos          Cell
	lane         Direction
	stopTicks    int
	goTicks      int
	cautionTicks int
	cur          int
}

// NewTrafficSignal creates a signal at pos whose counter starts at
// startOffset (taken modulo the total cycle). The lane direction is the
// decoded direction of the street under the signal; DirNone means no inbound
// lane could be resolved.
func NewTrafficSignal(pos Cell, lane Direction, stopTicks, goTicks, cautionTicks, startOffset int) *TrafficSignal {
	if stopTicks < 0 || goTicks < 0 || cautionTicks < 0 {
		panic(fmt.Sprintf("signal at (%d,%d): negative phase duration", pos.X, pos.Y))
	}
	total := stopTicks + goTicks + cautionTicks
	if total <= 0 {
		panic(fmt.Sprintf("signal at (%d,%d): non-positive cycle length", pos.X, pos.Y))
	}
	if startOffset < 0 {
		panic(fmt.Sprintf("signal at (%d,%d): negative start offset", pos.X, pos.Y))
	}

	return &TrafficSignal{
		pos:          pos,
		lane:         lane,
		stopTicks:    stopTicks,
		goTicks:      goTicks,
		cautionTicks: cautionTicks,
		cur:          startOffset % total,
	}
}

// Advance moves the cycle counter one tick forward.
func (s *TrafficSignal) Advance() {
	s.cur = (s.cur + 1) % s.Cycle()
}

// Phase derives the current phase from the counter and the duration
// thresholds.
func (s *TrafficSignal) Phase() SignalPhase {
	switch {
	case s.cur < s.stopTicks:
		return PhaseStop
	case s.cur < s.stopTicks+s.goTicks:
		return PhaseGo
	default:
		return PhaseCaution
	}
}

// Cycle returns the total cycle length in ticks.
func (s *TrafficSignal) Cycle() int {
	return s.stopTicks + s.goTicks + s.cautionTicks
}

// Counter returns the current position within the cycle.
func (s *TrafficSignal) Counter() int { return s.cur }

// Pos returns the signal's cell.
func (s *TrafficSignal) Pos() Cell { return s.pos }

// Lane returns the travel direction of the street under the signal.
func (s *TrafficSignal) Lane() Direction { return s.lane }
