package telemetry

import (
	"math"
	"testing"
)

// TestSessionCounters verifies each record call bumps the right counter.
func TestSessionCounters(t *testing.T) {
	s := NewSession()

	s.RecordPlan(PlanRecord{Reached: true, DurationUS: 100})
	s.RecordPlan(PlanRecord{Reached: false, DurationUS: 200})
	s.RecordRejected()
	s.RecordStep()
	s.RecordStep()
	s.RecordStep()
	s.RecordSwitch()
	s.RecordObstacleEdit()
	s.RecordObstacleEdit()

	if s.Plans != 2 || s.Unreachable != 1 || s.Rejected != 1 {
		t.Errorf("plans=%d unreachable=%d rejected=%d, want 2 1 1", s.Plans, s.Unreachable, s.Rejected)
	}
	if s.Steps != 3 || s.Switches != 1 || s.ObstacleEdits != 2 {
		t.Errorf("steps=%d switches=%d edits=%d, want 3 1 2", s.Steps, s.Switches, s.ObstacleEdits)
	}
}

// TestLatencyStats verifies the aggregate statistics over a known sample.
func TestLatencyStats(t *testing.T) {
	s := NewSession()
	// Record out of order; stats must sort internally.
	for _, us := range []int64{7, 2, 9, 4, 1, 10, 3, 6, 8, 5} {
		s.RecordPlan(PlanRecord{Reached: true, DurationUS: us})
	}

	ls := s.LatencyStats()
	if ls.Count != 10 {
		t.Fatalf("count = %d, want 10", ls.Count)
	}
	if math.Abs(ls.Mean-5.5) > 1e-9 {
		t.Errorf("mean = %f, want 5.5", ls.Mean)
	}
	if ls.P50 < 5 || ls.P50 > 6 {
		t.Errorf("p50 = %f, want in [5, 6]", ls.P50)
	}
	if ls.P90 < 9 || ls.P90 > 10 {
		t.Errorf("p90 = %f, want in [9, 10]", ls.P90)
	}
	if ls.StdDev <= 0 {
		t.Errorf("stddev = %f, want positive", ls.StdDev)
	}
}

// TestLatencyStatsEmpty verifies no plans yields the zero value, not NaNs.
func TestLatencyStatsEmpty(t *testing.T) {
	ls := NewSession().LatencyStats()
	if ls != (LatencyStats{}) {
		t.Errorf("stats for empty session = %+v, want zero value", ls)
	}
}

// TestSummary verifies the shutdown row mirrors the counters and stats.
func TestSummary(t *testing.T) {
	s := NewSession()
	s.RecordPlan(PlanRecord{Reached: true, DurationUS: 40})
	s.RecordPlan(PlanRecord{Reached: true, DurationUS: 60})
	s.RecordSwitch()

	sum := s.Summary()
	if sum.Plans != 2 || sum.Switches != 1 {
		t.Errorf("summary plans=%d switches=%d, want 2 1", sum.Plans, sum.Switches)
	}
	if math.Abs(sum.PlanMeanUS-50) > 1e-9 {
		t.Errorf("summary mean = %f, want 50", sum.PlanMeanUS)
	}
}
