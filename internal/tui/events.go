package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/findsens/internal/engine"
)

type eventsMsg []engine.Event

// eventQueue hands engine events to the Bubble Tea loop. push never blocks,
// so the engine may deliver from a timer goroutine or from inside Update.
type eventQueue struct {
	mu     sync.Mutex
	events []engine.Event
	notify chan struct{}
}

func newEventQueue() *eventQueue {
	return &eventQueue{notify: make(chan struct{}, 1)}
}

func (q *eventQueue) push(ev engine.Event) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *eventQueue) drain() []engine.Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	evs := q.events
	q.events = nil
	return evs
}

// wait returns a command that resolves with the next batch of events.
func (q *eventQueue) wait() tea.Cmd {
	return func() tea.Msg {
		for range q.notify {
			if evs := q.drain(); len(evs) > 0 {
				return eventsMsg(evs)
			}
		}
		return nil
	}
}
