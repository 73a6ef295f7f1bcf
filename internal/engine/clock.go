package engine

import "time"

// Timer is a pending one-shot callback.
type Timer interface {
	Stop() bool
}

// Clock supplies the current time and one-shot timers.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) Now() time.Time {
	return time.Now()
}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// WallClock returns a Clock backed by the runtime timers.
func WallClock() Clock {
	return wallClock{}
}
