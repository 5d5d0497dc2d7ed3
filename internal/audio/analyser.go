package audio

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// Byte-style frequency data: magnitudes are smoothed over time, converted to
// decibels and mapped from [minDecibels, maxDecibels] onto [0,1].
const (
	minDecibels = -100.0
	maxDecibels = -30.0
	smoothing   = 0.8
)

type analyser struct {
	size     int
	fft      *fourier.FFT
	win      []float64
	seq      []float64
	coeff    []complex128
	smoothed []float64
}

func newAnalyser(size int) *analyser {
	win := make([]float64, size)
	for i := range win {
		win[i] = 1
	}
	return &analyser{
		size:     size,
		fft:      fourier.NewFFT(size),
		win:      window.Blackman(win),
		seq:      make([]float64, size),
		coeff:    make([]complex128, size/2+1),
		smoothed: make([]float64, size/2),
	}
}

// lowEnergy returns the mean normalized level of the lowest bins of the most
// recent window of samples. Short input is zero-padded at the front.
func (a *analyser) lowEnergy(samples [][2]float64, bins int) float64 {
	if bins > len(a.smoothed) {
		bins = len(a.smoothed)
	}
	if bins <= 0 {
		return 0
	}

	offset := a.size - len(samples)
	for i := range a.seq {
		j := i - offset
		if j < 0 || j >= len(samples) {
			a.seq[i] = 0
			continue
		}
		mono := (samples[j][0] + samples[j][1]) * 0.5
		a.seq[i] = mono * a.win[i]
	}
	a.coeff = a.fft.Coefficients(a.coeff, a.seq)

	var sum float64
	for k := range a.smoothed {
		mag := cmplxAbs(a.coeff[k]) / float64(a.size)
		a.smoothed[k] = smoothing*a.smoothed[k] + (1-smoothing)*mag
		if k < bins {
			sum += level(a.smoothed[k])
		}
	}
	return sum / float64(bins)
}

func level(mag float64) float64 {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	return clamp01((db - minDecibels) / (maxDecibels - minDecibels))
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
