package game

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ramp eases a single value after an optional delay. Call update once per
// frame with the elapsed seconds.
type ramp struct {
	tw    *gween.Tween
	wait  float32
	value float64
	done  bool
}

func newRamp(from, to float64, delay, d time.Duration, fn ease.TweenFunc) *ramp {
	return &ramp{
		tw:    gween.New(float32(from), float32(to), float32(d.Seconds()), fn),
		wait:  float32(delay.Seconds()),
		value: from,
	}
}

// still is a ramp that has already arrived at v.
func still(v float64) *ramp {
	return &ramp{value: v, done: true}
}

func (r *ramp) update(dt float32) float64 {
	if r.done {
		return r.value
	}
	if r.wait > 0 {
		r.wait -= dt
		if r.wait > 0 {
			return r.value
		}
		dt = -r.wait
		r.wait = 0
	}
	v, finished := r.tw.Update(dt)
	r.value = float64(v)
	r.done = finished
	return r.value
}
