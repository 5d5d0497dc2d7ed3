// Package schedule runs timed callbacks and per-frame callbacks on the game's
// update thread.
//
// Nothing here starts goroutines: the owner calls Advance once per tick and
// every callback runs inside that call, in deadline order. This gives the show
// the same cooperative model as a browser event loop while keeping time fully
// under the caller's control, which is what the tests rely on.
package schedule

import "time"

// Handle identifies a pending timer or frame callback. The zero Handle is
// never issued, so it can be used as "none".
type Handle uint64

type timer struct {
	seq      uint64
	deadline time.Duration
	interval time.Duration // zero for one-shot timers
	fn       func()
}

type frame struct {
	h  Handle
	fn func(dt time.Duration) bool
}

// Scheduler is a virtual clock with timers and frame callbacks.
type Scheduler struct {
	now    time.Duration
	seq    uint64
	timers map[Handle]*timer
	frames []frame
}

func New() *Scheduler {
	return &Scheduler{timers: make(map[Handle]*timer)}
}

// Now returns the virtual time elapsed since the scheduler was created.
func (s *Scheduler) Now() time.Duration { return s.now }

func (s *Scheduler) nextHandle() Handle {
	s.seq++
	return Handle(s.seq)
}

// After runs fn once, d from now.
func (s *Scheduler) After(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	h := s.nextHandle()
	s.timers[h] = &timer{seq: s.seq, deadline: s.now + d, fn: fn}
	return h
}

// Every runs fn every d until cancelled. Intervals under a millisecond are
// raised to one millisecond.
func (s *Scheduler) Every(d time.Duration, fn func()) Handle {
	if d < time.Millisecond {
		d = time.Millisecond
	}
	h := s.nextHandle()
	s.timers[h] = &timer{seq: s.seq, deadline: s.now + d, interval: d, fn: fn}
	return h
}

// OnFrame registers fn to run once per Advance, after due timers. fn receives
// the frame delta and stays registered while it returns true. Callbacks
// registered during an Advance first run on the next one.
func (s *Scheduler) OnFrame(fn func(dt time.Duration) bool) Handle {
	h := s.nextHandle()
	s.frames = append(s.frames, frame{h: h, fn: fn})
	return h
}

// Cancel removes a timer or frame callback. It reports whether h was pending.
func (s *Scheduler) Cancel(h Handle) bool {
	if h == 0 {
		return false
	}
	if _, ok := s.timers[h]; ok {
		delete(s.timers, h)
		return true
	}
	for i, f := range s.frames {
		if f.h == h {
			s.frames = append(s.frames[:i], s.frames[i+1:]...)
			return true
		}
	}
	return false
}

// Active reports whether h is still pending.
func (s *Scheduler) Active(h Handle) bool {
	if h == 0 {
		return false
	}
	if _, ok := s.timers[h]; ok {
		return true
	}
	for _, f := range s.frames {
		if f.h == h {
			return true
		}
	}
	return false
}

// Pending returns the number of timers waiting to fire.
func (s *Scheduler) Pending() int { return len(s.timers) }

// Advance moves the clock forward by dt, firing every timer that falls due
// (the clock is set to each timer's deadline while it runs), then runs the
// frame callbacks once.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	target := s.now + dt
	for {
		h, t := s.earliest(target)
		if t == nil {
			break
		}
		s.now = t.deadline
		if t.interval > 0 {
			t.deadline += t.interval
		} else {
			delete(s.timers, h)
		}
		t.fn()
	}
	s.now = target

	frames := make([]frame, len(s.frames))
	copy(frames, s.frames)
	for _, f := range frames {
		if !s.Active(f.h) {
			continue
		}
		if !f.fn(dt) {
			s.Cancel(f.h)
		}
	}
}

func (s *Scheduler) earliest(limit time.Duration) (Handle, *timer) {
	var (
		bestH Handle
		best  *timer
	)
	for h, t := range s.timers {
		if t.deadline > limit {
			continue
		}
		if best == nil || t.deadline < best.deadline ||
			(t.deadline == best.deadline && t.seq < best.seq) {
			bestH, best = h, t
		}
	}
	return bestH, best
}
