// Package model defines shared data structures.
package model

import "time"

// Config defines play settings.
type Config struct {
	Mode      string
	LifeMode  bool
	Game      string
	Sens      float64
	DPI       int
	Mouse     string
	Seed      int64
	MinTravel int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Mode        string
	LifeOnly    bool
	Since       *time.Time
	Last        int
	CurveWindow int
}

// RunRecord captures a finished training run.
type RunRecord struct {
	StartedAt       time.Time
	EndedAt         time.Time
	Mode            string
	LifeMode        bool
	Game            string
	Sens            float64
	DPI             int
	Hits            int
	Misses          int
	FinalIntervalMs int64
	DurationMs      int64
	Score           int
	Grade           string
	Accuracy        float64
	AvgDistance     float64
	Deviation       float64
	EndReason       string
}

// RunAggregate summarizes a run for reporting.
type RunAggregate struct {
	RunID           int64
	EndedAt         time.Time
	Mode            string
	LifeMode        bool
	Hits            int
	Misses          int
	FinalIntervalMs int64
	DurationMs      int64
	Score           int
	Grade           string
	Accuracy        float64
	AvgDistance     float64
	Deviation       float64
}

// LeaderboardEntry is a ranked life-mode result.
type LeaderboardEntry struct {
	ID        string
	Name      string
	Country   string
	Score     int
	Hits      int
	Misses    int
	Accuracy  float64
	Grade     string
	Mode      string
	CreatedAt time.Time
}
