package engine

import (
	"fmt"
	"time"
)

// Event is a notification emitted by the engine. Events are delivered in the
// order they were produced.
type Event interface {
	Name() string
}

// SessionStarted is emitted once per Start.
type SessionStarted struct {
	LifeMode bool
}

// TargetSpawned carries the index of the newly active cell.
type TargetSpawned struct {
	Index int
}

// TargetExpired carries the index of the cell that stopped being active.
type TargetExpired struct {
	Index int
}

// Hit is emitted for every credited hit.
type Hit struct {
	Hits     int
	Interval time.Duration
}

// Miss is emitted for every judged miss. Timeout marks misses synthesized
// by the flash countdown.
type Miss struct {
	Misses   int
	Interval time.Duration
	Timeout  bool
}

// LivesRemaining is emitted in life mode at start and after every miss.
type LivesRemaining struct {
	Lives int
}

// Tick is a display heartbeat with the elapsed session time.
type Tick struct {
	Elapsed time.Duration
}

// SessionEnded carries the final tallies of a session.
type SessionEnded struct {
	Hits          int
	Misses        int
	FinalInterval time.Duration
	Elapsed       time.Duration
	Reason        EndReason
}

func (SessionStarted) Name() string { return "session_started" }
func (TargetSpawned) Name() string  { return "target_spawned" }
func (TargetExpired) Name() string  { return "target_expired" }
func (Hit) Name() string            { return "hit" }
func (Miss) Name() string           { return "miss" }
func (LivesRemaining) Name() string { return "lives_remaining" }
func (Tick) Name() string           { return "tick" }
func (SessionEnded) Name() string   { return "session_ended" }

// Clock returns the elapsed time as mm:ss.
func (t Tick) Clock() string {
	return FormatElapsed(t.Elapsed)
}

// Clock returns the session length as mm:ss.
func (e SessionEnded) Clock() string {
	return FormatElapsed(e.Elapsed)
}

// FormatElapsed renders whole elapsed seconds as mm:ss.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
