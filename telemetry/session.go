// Package telemetry collects session statistics for planning and motion.
package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// PlanRecord is one row of plans.csv: a single planning request and outcome.
type PlanRecord struct {
	Tick       int32   `csv:"tick"`
	StartX     int     `csv:"start_x"`
	StartY     int     `csv:"start_y"`
	GoalX      int     `csv:"goal_x"`
	GoalY      int     `csv:"goal_y"`
	Topology   string  `csv:"topology"`
	Reached    bool    `csv:"reached"`
	PathLen    int     `csv:"path_len"`
	Cost       float64 `csv:"cost"`
	DurationUS int64   `csv:"duration_us"`
}

// SummaryRecord is the single-row session summary written on shutdown.
type SummaryRecord struct {
	Plans          int     `csv:"plans"`
	Unreachable    int     `csv:"unreachable"`
	Rejected       int     `csv:"rejected"`
	Steps          int     `csv:"steps"`
	Switches       int     `csv:"switches"`
	ObstacleEdits  int     `csv:"obstacle_edits"`
	PlanMeanUS     float64 `csv:"plan_mean_us"`
	PlanStdDevUS   float64 `csv:"plan_stddev_us"`
	PlanP50US      float64 `csv:"plan_p50_us"`
	PlanP90US      float64 `csv:"plan_p90_us"`
}

// LatencyStats summarizes plan durations in microseconds.
type LatencyStats struct {
	Count  int
	Mean   float64
	StdDev float64
	P50    float64
	P90    float64
}

// Session accumulates counters and plan latencies for one run.
type Session struct {
	Plans         int
	Unreachable   int
	Rejected      int // out-of-bounds requests
	Steps         int
	Switches      int
	ObstacleEdits int

	durations []float64 // microseconds
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{}
}

// RecordPlan counts a completed planning request.
func (s *Session) RecordPlan(rec PlanRecord) {
	s.Plans++
	if !rec.Reached {
		s.Unreachable++
	}
	s.durations = append(s.durations, float64(rec.DurationUS))
}

// RecordRejected counts an out-of-bounds planning request.
func (s *Session) RecordRejected() {
	s.Rejected++
}

// RecordStep counts one executed path step.
func (s *Session) RecordStep() {
	s.Steps++
}

// RecordSwitch counts one topology switch.
func (s *Session) RecordSwitch() {
	s.Switches++
}

// RecordObstacleEdit counts one obstacle toggle.
func (s *Session) RecordObstacleEdit() {
	s.ObstacleEdits++
}

// LatencyStats computes aggregate plan-latency statistics.
func (s *Session) LatencyStats() LatencyStats {
	n := len(s.durations)
	if n == 0 {
		return LatencyStats{}
	}
	sorted := slices.Clone(s.durations)
	slices.Sort(sorted)

	return LatencyStats{
		Count:  n,
		Mean:   stat.Mean(sorted, nil),
		StdDev: stat.StdDev(sorted, nil),
		P50:    stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:    stat.Quantile(0.9, stat.Empirical, sorted, nil),
	}
}

// Summary builds the shutdown summary row.
func (s *Session) Summary() SummaryRecord {
	ls := s.LatencyStats()
	return SummaryRecord{
		Plans:         s.Plans,
		Unreachable:   s.Unreachable,
		Rejected:      s.Rejected,
		Steps:         s.Steps,
		Switches:      s.Switches,
		ObstacleEdits: s.ObstacleEdits,
		PlanMeanUS:    ls.Mean,
		PlanStdDevUS:  ls.StdDev,
		PlanP50US:     ls.P50,
		PlanP90US:     ls.P90,
	}
}

// LogStats emits the latency stats and counters via slog.
func (s *Session) LogStats() {
	ls := s.LatencyStats()
	slog.Info("session stats",
		"plans", s.Plans,
		"unreachable", s.Unreachable,
		"rejected", s.Rejected,
		"steps", s.Steps,
		"switches", s.Switches,
		"obstacle_edits", s.ObstacleEdits,
		"plan_mean_us", ls.Mean,
		"plan_p50_us", ls.P50,
		"plan_p90_us", ls.P90,
	)
}
