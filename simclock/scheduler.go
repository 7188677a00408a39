// Package simclock is a single threaded discrete-event scheduler. Simulated
// time is a time.Duration offset from the start of the run and only moves
// when Run pops the next event.
package simclock

import (
	"context"
	"sort"
	"sync"
	"time"
)

// EventID identifies a scheduled callback.
type EventID uint64

type scheduledEvent struct {
	id        EventID
	when      time.Duration
	f         func()
	cancelled bool
}

// Scheduler orders callbacks by simulated time; callbacks scheduled for the
// same instant run in the order they were scheduled.
type Scheduler struct {
	mu      sync.Mutex
	now     time.Duration
	counter uint64
	events  []*scheduledEvent // ordered by 'when' (earliest first)
	index   map[EventID]*scheduledEvent

	stopAt    time.Duration
	hasStop   bool
	stopped   bool
	destroyed bool
	running   bool
}

func New() *Scheduler {
	return &Scheduler{index: make(map[EventID]*scheduledEvent)}
}

// Now returns the current simulated time.
func (s *Scheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// ScheduleAfter registers f to run d after the current simulated time.
// Negative delays are treated as zero. After Destroy it returns 0 and f never runs.
func (s *Scheduler) ScheduleAfter(d time.Duration, f func()) EventID {
	if d < 0 {
		d = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return 0
	}

	s.counter++
	ev := &scheduledEvent{id: EventID(s.counter), when: s.now + d, f: f}
	s.addEventLocked(ev)
	s.index[ev.id] = ev
	return ev.id
}

// addEventLocked inserts after every event scheduled at or before ev.when.
// Caller must hold s.mu.
func (s *Scheduler) addEventLocked(ev *scheduledEvent) {
	idx := sort.Search(len(s.events), func(i int) bool {
		return s.events[i].when > ev.when
	})
	s.events = append(s.events, nil)
	copy(s.events[idx+1:], s.events[idx:])
	s.events[idx] = ev
}

// Cancel is a no-op if the ID is unknown or the event already ran.
func (s *Scheduler) Cancel(id EventID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.index[id]
	if !ok {
		return
	}
	ev.cancelled = true
	delete(s.index, id)
}

// StopAt makes Run return before executing any event later than t.
func (s *Scheduler) StopAt(t time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopAt = t
	s.hasStop = true
}

// Stop makes Run return once the current callback completes.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
}

// Pending reports the number of events still queued.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.index)
}

// Run executes events in time order until the queue drains, the stop time
// is reached, Stop is called or ctx is done. Events past the stop time stay
// queued. It returns ctx.Err() when cancelled and nil otherwise.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errRunning
	}
	s.running = true
	s.stopped = false
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.mu.Lock()
		ev := s.popNextLocked()
		if ev == nil {
			s.mu.Unlock()
			return nil
		}
		s.now = ev.when
		delete(s.index, ev.id)
		s.mu.Unlock()

		// Execute callback OUTSIDE the lock so it can schedule follow-ups.
		if ev.f != nil {
			ev.f()
		}
	}
}

// popNextLocked removes and returns the next runnable event, or nil when the
// run must end. Caller must hold s.mu.
func (s *Scheduler) popNextLocked() *scheduledEvent {
	if s.stopped || s.destroyed {
		return nil
	}
	for len(s.events) > 0 {
		ev := s.events[0]
		if ev.cancelled {
			s.events = s.events[1:]
			continue
		}
		if s.hasStop && ev.when > s.stopAt {
			if s.now < s.stopAt {
				s.now = s.stopAt
			}
			return nil
		}
		s.events = s.events[1:]
		return ev
	}
	return nil
}

// Destroy drops every pending event. The scheduler accepts no new events afterwards.
func (s *Scheduler) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed = true
	s.events = nil
	s.index = make(map[EventID]*scheduledEvent)
}
