// Package audio plays the show's two music tracks, ramps their volume and
// turns the playing signal into a pulse for the glow element.
package audio

// Channel is one playable track with a linear volume in [0,1].
type Channel interface {
	Volume() float64
	SetVolume(v float64)
	Play() error
	Pause()
	Rewind() error
	Playing() bool
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
