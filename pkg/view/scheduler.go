package view

import (
	"slices"
	"time"
)

// Timer is a pending scheduled call.
type Timer interface {
	// Stop cancels the call. It reports whether the call was still pending.
	Stop() bool
}

// Scheduler runs fn after d on the scene's own execution context. Sessions
// provide one that hops back onto the player dispatcher; fn must never run
// concurrently with other scene calls.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// InlineScheduler runs fn immediately, ignoring the delay. It is the default
// for headless scenes, where there is nobody to watch an animation.
type InlineScheduler struct{}

func (InlineScheduler) AfterFunc(_ time.Duration, fn func()) Timer {
	fn()
	return doneTimer{}
}

type doneTimer struct{}

func (doneTimer) Stop() bool { return false }

// ManualScheduler queues calls until Advance moves its clock past their
// deadline. Tests use it to step through animations deterministically.
type ManualScheduler struct {
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	sch     *ManualScheduler
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	t.sch.pending = slices.DeleteFunc(t.sch.pending, func(p *manualTimer) bool { return p == t })
	return true
}

func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.seq++
	t := &manualTimer{sch: s, at: s.now + d, seq: s.seq, fn: fn}
	s.pending = append(s.pending, t)
	return t
}

// Pending returns the number of queued calls.
func (s *ManualScheduler) Pending() int { return len(s.pending) }

// Advance moves the clock forward by d and runs every call that came due,
// in deadline order.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.now += d
	for {
		var next *manualTimer
		for _, t := range s.pending {
			if t.at > s.now {
				continue
			}
			if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
				next = t
			}
		}
		if next == nil {
			return
		}
		next.Stop()
		next.fn()
	}
}
