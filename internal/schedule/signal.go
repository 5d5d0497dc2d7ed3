package schedule

// Signal is a one-shot completion flag with continuations, used to chain the
// steps of a transition: each step resolves a Signal and the next step is
// registered with Then.
type Signal struct {
	done    bool
	waiters []func()
}

func NewSignal() *Signal {
	return &Signal{}
}

// Resolved returns a Signal that is already complete.
func Resolved() *Signal {
	return &Signal{done: true}
}

// Resolve completes the signal and runs its continuations in registration
// order. Later calls do nothing.
func (s *Signal) Resolve() {
	if s.done {
		return
	}
	s.done = true
	waiters := s.waiters
	s.waiters = nil
	for _, fn := range waiters {
		fn()
	}
}

func (s *Signal) Done() bool { return s.done }

// Then runs fn when the signal resolves, or right away if it already has.
func (s *Signal) Then(fn func()) {
	if s.done {
		fn()
		return
	}
	s.waiters = append(s.waiters, fn)
}
