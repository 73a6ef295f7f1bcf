package engine

// State represents the session lifecycle.
type State int

const (
	StateIdle    State = iota // No session started yet
	StateRunning              // Targets are flashing
	StateEnded                // Session finished; Start begins a new one
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// EndReason explains why a session ended.
type EndReason int

const (
	EndStopped        EndReason = iota // Stop was called
	EndLivesExhausted                  // Life mode ran out of misses
	EndIdle                            // Too many consecutive misses
)

// String returns the string representation of the reason.
func (r EndReason) String() string {
	switch r {
	case EndStopped:
		return "stopped"
	case EndLivesExhausted:
		return "lives_exhausted"
	case EndIdle:
		return "idle"
	default:
		return "unknown"
	}
}
