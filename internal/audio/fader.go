package audio

import (
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/iburimskiy/celebration/internal/schedule"
)

// DefaultFade is the ramp length used when callers have no better value.
const DefaultFade = 900 * time.Millisecond

// negligible is the volume delta below which a fade completes at once.
const negligible = 0.01

type fade struct {
	h    schedule.Handle
	done *schedule.Signal
}

// Fader ramps channel volumes linearly, one sample per frame.
//
// Only one ramp runs per channel. Starting a fade on a channel that is already
// fading stops the old ramp where it is and resolves its signal, so whoever
// waits on it carries on and the two ramps never fight over the volume.
type Fader struct {
	sched  *schedule.Scheduler
	active map[Channel]*fade
}

func NewFader(s *schedule.Scheduler) *Fader {
	return &Fader{sched: s, active: make(map[Channel]*fade)}
}

// Fade moves ch from its current volume to target over d. The returned signal
// resolves when the ramp ends. A nil channel resolves immediately.
func (f *Fader) Fade(ch Channel, target float64, d time.Duration) *schedule.Signal {
	if ch == nil {
		return schedule.Resolved()
	}
	f.supersede(ch)

	target = clamp01(target)
	start := clamp01(ch.Volume())
	if math.Abs(target-start) < negligible || d <= 0 {
		ch.SetVolume(target)
		return schedule.Resolved()
	}

	tw := gween.New(float32(start), float32(target), float32(d.Seconds()), ease.Linear)
	fd := &fade{done: schedule.NewSignal()}
	fd.h = f.sched.OnFrame(func(dt time.Duration) bool {
		v, finished := tw.Update(float32(dt.Seconds()))
		if !finished {
			ch.SetVolume(clamp01(float64(v)))
			return true
		}
		ch.SetVolume(target)
		delete(f.active, ch)
		fd.done.Resolve()
		return false
	})
	f.active[ch] = fd
	return fd.done
}

// Fading reports whether ch has a ramp in flight.
func (f *Fader) Fading(ch Channel) bool {
	_, ok := f.active[ch]
	return ok
}

func (f *Fader) supersede(ch Channel) {
	old, ok := f.active[ch]
	if !ok {
		return
	}
	delete(f.active, ch)
	f.sched.Cancel(old.h)
	old.done.Resolve()
}
