// Package engine runs the target flash state machine of a training session.
package engine

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// NoTarget marks the absence of an active or previous target.
const NoTarget = -1

// Board reports how many addressable cells the presentation layer has.
type Board interface {
	CellCount() int
}

// BoardFunc adapts a function to Board.
type BoardFunc func() int

// CellCount implements Board.
func (f BoardFunc) CellCount() int { return f() }

// Picker chooses the next target cell. It must return an index in
// [0, cellCount) different from exclude.
type Picker interface {
	Pick(cellCount, exclude int) int
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(cellCount, exclude int) int

// Pick implements Picker.
func (f PickerFunc) Pick(cellCount, exclude int) int { return f(cellCount, exclude) }

// StartOptions configures a single session.
type StartOptions struct {
	LifeMode bool
}

// Snapshot is a copy of the session counters.
type Snapshot struct {
	State             State
	LifeMode          bool
	Hits              int
	Misses            int
	ConsecutiveMisses int
	Interval          time.Duration
	Active            int
	Previous          int
	Lives             int // -1 outside life mode
	Elapsed           time.Duration
}

// Verdict is the outcome of a click routed through HandleClick.
type Verdict int

const (
	VerdictIgnored Verdict = iota
	VerdictHit
	VerdictMiss
)

// Judgment describes how a click was judged and which targets were involved.
type Judgment struct {
	Verdict  Verdict
	Target   int
	Previous int
}

// Option customizes an Engine.
type Option func(*Engine)

// WithConfig overrides the tuning values.
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

type subscriber struct {
	id int
	fn func(Event)
}

// Engine owns one session state and its timers. All mutation happens under
// mu; events are queued under mu and delivered after it is released.
type Engine struct {
	mu sync.Mutex

	cfg    Config
	clock  Clock
	board  Board
	picker Picker
	log    zerolog.Logger

	state             State
	lifeMode          bool
	hits              int
	misses            int
	consecutiveMisses int
	interval          time.Duration
	active            int
	previous          int
	startedAt         time.Time
	endedAt           time.Time
	processed         bool
	lastJudgedAt      time.Time

	// flash and session identify the owner of a pending timer so a late
	// callback from a cancelled timer is discarded.
	flash   uint64
	session uint64
	expiry  Timer
	ticker  Timer

	subs       []subscriber
	nextSubID  int
	pending    []Event
	delivering bool
}

// New creates an idle engine bound to a board and a target picker.
func New(board Board, picker Picker, opts ...Option) (*Engine, error) {
	if board == nil {
		return nil, errors.New("board is required")
	}
	if picker == nil {
		return nil, errors.New("picker is required")
	}
	e := &Engine{
		board:    board,
		picker:   picker,
		clock:    WallClock(),
		log:      zerolog.Nop(),
		active:   NoTarget,
		previous: NoTarget,
	}
	for _, opt := range opts {
		opt(e)
	}
	cfg, err := e.cfg.Normalize()
	if err != nil {
		return nil, err
	}
	e.cfg = cfg
	e.interval = cfg.InitialInterval
	return e, nil
}

// Config returns the effective tuning values.
func (e *Engine) Config() Config {
	return e.cfg
}

// Subscribe registers fn for every event and returns a function that removes it.
// fn may call back into the engine.
func (e *Engine) Subscribe(fn func(Event)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextSubID++
	id := e.nextSubID
	e.subs = append(e.subs, subscriber{id: id, fn: fn})
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, s := range e.subs {
			if s.id == id {
				e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

// Start begins a fresh session, discarding any running one.
func (e *Engine) Start(opts StartOptions) {
	e.mu.Lock()
	e.stopTimersLocked()
	e.session++
	e.state = StateRunning
	e.lifeMode = opts.LifeMode
	e.hits = 0
	e.misses = 0
	e.consecutiveMisses = 0
	e.interval = e.cfg.InitialInterval
	e.active = NoTarget
	e.previous = NoTarget
	e.processed = false
	e.lastJudgedAt = time.Time{}
	e.startedAt = e.clock.Now()
	e.endedAt = time.Time{}

	e.log.Info().Bool("life_mode", opts.LifeMode).Msg("session started")
	e.emitLocked(SessionStarted{LifeMode: opts.LifeMode})
	if e.lifeMode {
		e.emitLocked(LivesRemaining{Lives: e.cfg.MaxMisses})
	}
	e.spawnLocked()
	e.scheduleTickLocked()
	e.mu.Unlock()
	e.flush()
}

// Stop ends a running session. Calling it on a stopped engine does nothing.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.endLocked(EndStopped)
	e.mu.Unlock()
	e.flush()
}

// HandleHit credits a hit on the active target. It reports whether the hit
// counted; duplicate, late, and too-rapid hits are ignored.
func (e *Engine) HandleHit(ts time.Time) bool {
	e.mu.Lock()
	ok := e.hitLocked(ts)
	e.mu.Unlock()
	e.flush()
	return ok
}

// HandleMiss records a miss for the current flash. It reports whether the
// miss counted.
func (e *Engine) HandleMiss() bool {
	e.mu.Lock()
	ok := e.missLocked(false)
	e.mu.Unlock()
	e.flush()
	return ok
}

// HandleClick judges a click on cell index atomically: a click on the active
// target is a hit, anything else (including NoTarget for the background) is
// a miss.
func (e *Engine) HandleClick(index int, ts time.Time) Judgment {
	e.mu.Lock()
	j := Judgment{Verdict: VerdictIgnored, Target: e.active, Previous: e.previous}
	if index != NoTarget && index == e.active {
		if e.hitLocked(ts) {
			j.Verdict = VerdictHit
		}
	} else if e.missLocked(false) {
		j.Verdict = VerdictMiss
	}
	e.mu.Unlock()
	e.flush()
	return j
}

// Snapshot returns a copy of the current counters.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	lives := -1
	if e.lifeMode {
		lives = max(0, e.cfg.MaxMisses-e.misses)
	}
	return Snapshot{
		State:             e.state,
		LifeMode:          e.lifeMode,
		Hits:              e.hits,
		Misses:            e.misses,
		ConsecutiveMisses: e.consecutiveMisses,
		Interval:          e.interval,
		Active:            e.active,
		Previous:          e.previous,
		Lives:             lives,
		Elapsed:           e.elapsedLocked(),
	}
}

// Elapsed returns the time since Start, frozen once the session ends.
func (e *Engine) Elapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elapsedLocked()
}

func (e *Engine) elapsedLocked() time.Duration {
	switch e.state {
	case StateRunning:
		return e.clock.Now().Sub(e.startedAt)
	case StateEnded:
		return e.endedAt.Sub(e.startedAt)
	default:
		return 0
	}
}

func (e *Engine) hitLocked(ts time.Time) bool {
	if e.state != StateRunning || e.processed {
		return false
	}
	if !e.lastJudgedAt.IsZero() && ts.Sub(e.lastJudgedAt) < e.cfg.HitCooldown {
		return false
	}
	e.processed = true
	e.lastJudgedAt = ts
	e.hits++
	e.consecutiveMisses = 0
	e.cancelExpiryLocked()
	e.interval = max(e.cfg.MinInterval, e.interval-e.cfg.IntervalStep)

	e.log.Debug().Int("hits", e.hits).Dur("interval", e.interval).Int("target", e.active).Msg("hit")
	e.emitLocked(Hit{Hits: e.hits, Interval: e.interval})
	e.spawnLocked()
	return true
}

func (e *Engine) missLocked(timeout bool) bool {
	if e.state != StateRunning || e.processed {
		return false
	}
	e.processed = true
	e.misses++
	e.consecutiveMisses++
	e.interval = min(e.cfg.InitialInterval, e.interval+e.cfg.MissPenalty)

	e.log.Debug().Int("misses", e.misses).Bool("timeout", timeout).Dur("interval", e.interval).Msg("miss")
	e.emitLocked(Miss{Misses: e.misses, Interval: e.interval, Timeout: timeout})
	if e.lifeMode {
		e.emitLocked(LivesRemaining{Lives: max(0, e.cfg.MaxMisses-e.misses)})
	}

	switch {
	case e.lifeMode && e.misses >= e.cfg.MaxMisses:
		e.endLocked(EndLivesExhausted)
	case e.consecutiveMisses >= e.cfg.MaxNoClicks:
		e.endLocked(EndIdle)
	}
	return true
}

func (e *Engine) spawnLocked() {
	if e.state != StateRunning {
		return
	}
	e.previous = e.active
	if e.previous != NoTarget {
		e.emitLocked(TargetExpired{Index: e.previous})
	}

	count := e.board.CellCount()
	if count < 2 {
		panic(errors.AssertionFailedf("board must have at least 2 cells, got %d", count))
	}
	idx := e.picker.Pick(count, e.previous)
	if idx < 0 || idx >= count || idx == e.previous {
		panic(errors.AssertionFailedf("picker returned %d for %d cells (exclude %d)", idx, count, e.previous))
	}

	e.active = idx
	e.processed = false
	e.flash++
	e.emitLocked(TargetSpawned{Index: idx})
	e.armExpiryLocked()
}

func (e *Engine) armExpiryLocked() {
	e.cancelExpiryLocked()
	flash := e.flash
	e.expiry = e.clock.AfterFunc(e.interval, func() {
		e.onExpiry(flash)
	})
}

func (e *Engine) onExpiry(flash uint64) {
	e.mu.Lock()
	if e.state != StateRunning || flash != e.flash {
		e.mu.Unlock()
		return
	}
	e.expiry = nil
	if !e.processed {
		e.missLocked(true)
	}
	e.spawnLocked()
	e.mu.Unlock()
	e.flush()
}

func (e *Engine) scheduleTickLocked() {
	session := e.session
	e.ticker = e.clock.AfterFunc(e.cfg.TickInterval, func() {
		e.onTick(session)
	})
}

func (e *Engine) onTick(session uint64) {
	e.mu.Lock()
	if e.state != StateRunning || session != e.session {
		e.mu.Unlock()
		return
	}
	e.emitLocked(Tick{Elapsed: e.elapsedLocked()})
	e.scheduleTickLocked()
	e.mu.Unlock()
	e.flush()
}

func (e *Engine) cancelExpiryLocked() {
	if e.expiry != nil {
		e.expiry.Stop()
		e.expiry = nil
	}
}

func (e *Engine) stopTimersLocked() {
	e.cancelExpiryLocked()
	if e.ticker != nil {
		e.ticker.Stop()
		e.ticker = nil
	}
}

func (e *Engine) endLocked(reason EndReason) {
	if e.state != StateRunning {
		return
	}
	e.stopTimersLocked()
	e.state = StateEnded
	e.endedAt = e.clock.Now()
	ended := SessionEnded{
		Hits:          e.hits,
		Misses:        e.misses,
		FinalInterval: e.interval,
		Elapsed:       e.endedAt.Sub(e.startedAt),
		Reason:        reason,
	}
	e.log.Info().
		Int("hits", ended.Hits).
		Int("misses", ended.Misses).
		Dur("final_interval", ended.FinalInterval).
		Str("reason", reason.String()).
		Msg("session ended")
	e.emitLocked(ended)
}

func (e *Engine) emitLocked(ev Event) {
	e.pending = append(e.pending, ev)
}

// flush delivers queued events in order. Only one goroutine delivers at a
// time; a reentrant or concurrent caller leaves its events to that goroutine.
// A panicking subscriber releases delivery so later events still go out.
func (e *Engine) flush() {
	e.mu.Lock()
	if e.delivering {
		e.mu.Unlock()
		return
	}
	e.delivering = true
	done := false
	defer func() {
		if !done {
			e.mu.Lock()
			e.delivering = false
			e.mu.Unlock()
		}
	}()
	for len(e.pending) > 0 {
		ev := e.pending[0]
		e.pending = e.pending[1:]
		subs := append([]subscriber(nil), e.subs...)
		e.mu.Unlock()
		for _, s := range subs {
			s.fn(ev)
		}
		e.mu.Lock()
	}
	e.pending = nil
	e.delivering = false
	done = true
	e.mu.Unlock()
}
