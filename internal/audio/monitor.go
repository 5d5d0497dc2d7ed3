package audio

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/iburimskiy/celebration/internal/schedule"
)

// Source provides the most recent output samples of a playing track.
type Source interface {
	Snapshot(n int) [][2]float64
}

// Glow receives the pulse opacity.
type Glow interface {
	SetOpacity(v float64)
}

// Pulser receives the pulse scale.
type Pulser interface {
	SetScale(v float64)
}

type MonitorConfig struct {
	Interval  time.Duration
	Bins      int
	FFTSize   int
	GlowBase  float64
	GlowGain  float64
	ScaleGain float64
}

// DefaultMonitorConfig samples every 120ms over the lowest 8 of 128 bins.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Interval:  120 * time.Millisecond,
		Bins:      8,
		FFTSize:   256,
		GlowBase:  0.04,
		GlowGain:  0.45,
		ScaleGain: 0.06,
	}
}

// Monitor samples low-frequency energy of a track and drives a glow and an
// optional pulse from it. A Monitor owns at most one session.
type Monitor struct {
	sched  *schedule.Scheduler
	cfg    MonitorConfig
	logger *slog.Logger

	h      schedule.Handle
	an     *analyser
	energy float64
}

func NewMonitor(s *schedule.Scheduler, cfg MonitorConfig, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{sched: s, cfg: cfg, logger: logger}
}

// Start replaces any running session with one analysing src. Without a
// source or a glow target no session is created and ErrAnalysisUnavailable
// is returned; the caller is expected to carry on without the pulse.
func (m *Monitor) Start(src Source, glow Glow, pulse Pulser) error {
	m.Stop()
	if src == nil {
		return fmt.Errorf("%w: no source", ErrAnalysisUnavailable)
	}
	if glow == nil {
		return fmt.Errorf("%w: no glow target", ErrAnalysisUnavailable)
	}
	if m.cfg.FFTSize < 2 || m.cfg.Bins <= 0 {
		return fmt.Errorf("%w: fft size %d, bins %d", ErrAnalysisUnavailable, m.cfg.FFTSize, m.cfg.Bins)
	}

	an := newAnalyser(m.cfg.FFTSize)
	m.an = an
	m.h = m.sched.Every(m.cfg.Interval, func() {
		e := an.lowEnergy(src.Snapshot(m.cfg.FFTSize), m.cfg.Bins)
		m.energy = e
		glow.SetOpacity(m.cfg.GlowBase + e*m.cfg.GlowGain)
		if pulse != nil {
			pulse.SetScale(1 + e*m.cfg.ScaleGain)
		}
	})
	m.logger.Debug("amplitude monitor started", "interval", m.cfg.Interval)
	return nil
}

// Stop ends the session. It is safe to call at any time.
func (m *Monitor) Stop() {
	if m.h == 0 {
		return
	}
	m.sched.Cancel(m.h)
	m.h = 0
	m.an = nil
	m.energy = 0
	m.logger.Debug("amplitude monitor stopped")
}

func (m *Monitor) Active() bool { return m.h != 0 && m.sched.Active(m.h) }

// Energy returns the last sampled energy in [0,1].
func (m *Monitor) Energy() float64 { return m.energy }
