package schedule

import (
	"reflect"
	"testing"
	"time"
)

func TestAfterFiresInDeadlineOrder(t *testing.T) {
	s := New()
	var got []string
	s.After(300*time.Millisecond, func() { got = append(got, "c") })
	s.After(100*time.Millisecond, func() { got = append(got, "a") })
	s.After(200*time.Millisecond, func() { got = append(got, "b") })
	s.After(100*time.Millisecond, func() { got = append(got, "a2") })

	s.Advance(250 * time.Millisecond)
	if want := []string{"a", "a2", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after 250ms got %v, want %v", got, want)
	}
	s.Advance(50 * time.Millisecond)
	if want := []string{"a", "a2", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after 300ms got %v, want %v", got, want)
	}
	if s.Pending() != 0 {
		t.Errorf("pending = %d, want 0", s.Pending())
	}
}

func TestClockSetToDeadlineDuringCallback(t *testing.T) {
	s := New()
	var at time.Duration
	s.After(70*time.Millisecond, func() { at = s.Now() })
	s.Advance(time.Second)
	if at != 70*time.Millisecond {
		t.Errorf("Now() inside callback = %v, want 70ms", at)
	}
	if s.Now() != time.Second {
		t.Errorf("Now() after advance = %v, want 1s", s.Now())
	}
}

func TestNestedTimersFireWithinSameAdvance(t *testing.T) {
	s := New()
	var fired time.Duration
	s.After(100*time.Millisecond, func() {
		s.After(50*time.Millisecond, func() { fired = s.Now() })
	})
	s.Advance(time.Second)
	if fired != 150*time.Millisecond {
		t.Errorf("nested timer fired at %v, want 150ms", fired)
	}
}

func TestEveryFiresOncePerPeriod(t *testing.T) {
	s := New()
	n := 0
	h := s.Every(100*time.Millisecond, func() { n++ })
	s.Advance(450 * time.Millisecond)
	if n != 4 {
		t.Fatalf("ticks = %d, want 4", n)
	}
	if !s.Cancel(h) {
		t.Fatal("Cancel reported interval not pending")
	}
	s.Advance(time.Second)
	if n != 4 {
		t.Errorf("ticks after cancel = %d, want 4", n)
	}
	if s.Cancel(h) {
		t.Error("second Cancel reported pending")
	}
}

func TestEveryCancelledFromItsOwnCallback(t *testing.T) {
	s := New()
	n := 0
	var h Handle
	h = s.Every(10*time.Millisecond, func() {
		n++
		if n == 3 {
			s.Cancel(h)
		}
	})
	s.Advance(time.Second)
	if n != 3 {
		t.Errorf("ticks = %d, want 3", n)
	}
}

func TestOnFrameRunsUntilFalse(t *testing.T) {
	s := New()
	var total time.Duration
	calls := 0
	h := s.OnFrame(func(dt time.Duration) bool {
		calls++
		total += dt
		return calls < 3
	})
	for i := 0; i < 5; i++ {
		s.Advance(16 * time.Millisecond)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if total != 48*time.Millisecond {
		t.Errorf("total dt = %v, want 48ms", total)
	}
	if s.Active(h) {
		t.Error("frame callback still active")
	}
}

func TestOnFrameRegisteredDuringAdvanceWaitsOneFrame(t *testing.T) {
	s := New()
	inner := 0
	s.OnFrame(func(time.Duration) bool {
		s.OnFrame(func(time.Duration) bool { inner++; return false })
		return false
	})
	s.Advance(time.Millisecond)
	if inner != 0 {
		t.Fatalf("inner ran in registering frame")
	}
	s.Advance(time.Millisecond)
	if inner != 1 {
		t.Errorf("inner = %d, want 1", inner)
	}
}

func TestZeroHandleIsNeverActive(t *testing.T) {
	s := New()
	if s.Active(0) || s.Cancel(0) {
		t.Error("zero handle treated as pending")
	}
}

func TestSignalThen(t *testing.T) {
	sig := NewSignal()
	var order []int
	sig.Then(func() { order = append(order, 1) })
	sig.Then(func() { order = append(order, 2) })
	if sig.Done() {
		t.Fatal("Done before Resolve")
	}
	sig.Resolve()
	sig.Resolve()
	sig.Then(func() { order = append(order, 3) })
	if want := []int{1, 2, 3}; !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
	if !Resolved().Done() {
		t.Error("Resolved() not done")
	}
}
