package slides

import (
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/iburimskiy/celebration/internal/audio"
	"github.com/iburimskiy/celebration/internal/confetti"
	"github.com/iburimskiy/celebration/internal/schedule"
)

// Phase is the sequencer state.
//
//	Idle -> FadingOut -> FadingIn -> Running -> Finale -> Idle
//
// FadingOut and FadingIn together are the cross-fade into the slideshow
// track. Stop returns to Idle from any other phase.
type Phase int

const (
	Idle Phase = iota
	FadingOut
	FadingIn
	Running
	Finale
)

func (p Phase) String() string {
	switch p {
	case FadingOut:
		return "fading-out"
	case FadingIn:
		return "fading-in"
	case Running:
		return "running"
	case Finale:
		return "finale"
	default:
		return "idle"
	}
}

// Stage is the visible part of the slideshow.
type Stage interface {
	ShowOverlay(visible bool)
	HideImage()
	ShowImage(ref string, pan PanStyle)
	SetCaption(text string)
	ShowFinalText(visible bool)
	Size() (w, h float64)
}

// Effects fires the finale bursts.
type Effects interface {
	Fireworks(x, y float64, count int)
	Confetti(b confetti.Burst) error
}

type Timing struct {
	SlideDuration time.Duration
	SwapDelay     time.Duration
	FinaleDelay   time.Duration
	FinaleStop    time.Duration
	ConfettiDelay time.Duration
	BurstStagger  time.Duration
	FinaleBursts  int
	BurstSize     int
	FinaleVolume  float64

	FadeOut  time.Duration // primary track, before the show
	FadeIn   time.Duration // slideshow track
	FadeStop time.Duration // slideshow track, on stop and at the finale

	Caption TyperConfig
}

func DefaultTiming() Timing {
	return Timing{
		SlideDuration: 2 * time.Second,
		SwapDelay:     80 * time.Millisecond,
		FinaleDelay:   700 * time.Millisecond,
		FinaleStop:    7 * time.Second,
		ConfettiDelay: 1300 * time.Millisecond,
		BurstStagger:  300 * time.Millisecond,
		FinaleBursts:  6,
		BurstSize:     60,
		FinaleVolume:  0.4,
		FadeOut:       900 * time.Millisecond,
		FadeIn:        1200 * time.Millisecond,
		FadeStop:      900 * time.Millisecond,
		Caption:       DefaultTyperConfig(),
	}
}

// Deps are the collaborators of a Sequencer. Primary, Secondary, Monitor,
// Glow, Pulse and Effects may be nil; the matching step is skipped.
type Deps struct {
	Sched     *schedule.Scheduler
	Fader     *audio.Fader
	Primary   audio.Channel
	Secondary audio.Channel
	Monitor   *audio.Monitor
	Glow      audio.Glow
	Pulse     audio.Pulser
	Stage     Stage
	Effects   Effects
	Rand      *rand.Rand
	Logger    *slog.Logger

	// OnStop runs each time the sequencer returns to Idle.
	OnStop func()
}

// Sequencer owns the slideshow state: the slide index, the advance timer and
// every pending step of the finale. All methods must be called from the
// scheduler's thread.
type Sequencer struct {
	slides []Slide
	d      Deps
	timing Timing
	typer  *Typer

	phase   Phase
	index   int
	session uint64 // bumped on start and stop; stale continuations compare against it
	timer   schedule.Handle
	swap    schedule.Handle
	choreo  []schedule.Handle
}

func NewSequencer(slides []Slide, timing Timing, d Deps) *Sequencer {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if d.Fader == nil {
		d.Fader = audio.NewFader(d.Sched)
	}
	s := &Sequencer{slides: slides, d: d, timing: timing}
	s.typer = NewTyper(d.Sched, timing.Caption, d.Rand, func(text string) {
		if d.Stage != nil {
			d.Stage.SetCaption(text)
		}
	})
	return s
}

func (s *Sequencer) Phase() Phase { return s.phase }

// Running reports whether a show is in progress, including the cross-fade
// and the finale.
func (s *Sequencer) Running() bool { return s.phase != Idle }

func (s *Sequencer) Index() int { return s.index }

func (s *Sequencer) Len() int { return len(s.slides) }

// Slides returns the slide list in order.
func (s *Sequencer) Slides() []Slide { return s.slides }

// Caption returns the caption text as currently typed.
func (s *Sequencer) Caption() string { return s.typer.Text() }

// TimerActive reports whether the advance timer is pending.
func (s *Sequencer) TimerActive() bool { return s.d.Sched.Active(s.timer) }

// SetSlides replaces the slide list. It is refused while a show runs.
func (s *Sequencer) SetSlides(slides []Slide) bool {
	if s.phase != Idle || len(slides) == 0 {
		return false
	}
	s.slides = slides
	s.index = 0
	return true
}

// SetChannels swaps the audio tracks. It is refused while a show runs.
func (s *Sequencer) SetChannels(primary, secondary audio.Channel) bool {
	if s.phase != Idle {
		return false
	}
	s.d.Primary, s.d.Secondary = primary, secondary
	return true
}

// Start begins a show: fade the primary track out and pause it, start the
// slideshow track from the top, start the pulse, fade the track in, then show
// slide 0 and start advancing. It returns false if a show is already running.
func (s *Sequencer) Start() bool {
	if s.phase != Idle {
		return false
	}
	if len(s.slides) == 0 {
		s.d.Logger.Warn("slideshow not started", "error", ErrEmptyManifest)
		return false
	}

	s.session++
	sess := s.session
	s.index = 0
	s.phase = FadingOut
	s.d.Logger.Info("slideshow starting", "slides", len(s.slides))

	s.d.Fader.Fade(s.d.Primary, 0, s.timing.FadeOut).Then(func() {
		if s.session != sess {
			return
		}
		if s.d.Primary != nil {
			s.d.Primary.Pause()
		}
		s.phase = FadingIn
		s.startSecondary()
		s.d.Fader.Fade(s.d.Secondary, 1, s.timing.FadeIn).Then(func() {
			if s.session != sess {
				return
			}
			s.run()
		})
	})
	return true
}

func (s *Sequencer) startSecondary() {
	sec := s.d.Secondary
	if sec != nil {
		sec.SetVolume(0)
		if err := sec.Rewind(); err != nil {
			s.d.Logger.Warn("slideshow track rewind failed", "error", err)
		}
		if err := sec.Play(); err != nil {
			s.d.Logger.Warn("slideshow track did not play", "error", err)
		}
	}
	if s.d.Monitor == nil {
		return
	}
	var src audio.Source
	if v, ok := sec.(audio.Source); ok {
		src = v
	}
	if err := s.d.Monitor.Start(src, s.d.Glow, s.d.Pulse); err != nil {
		s.d.Logger.Warn("glow pulse disabled", "error", err)
	}
}

func (s *Sequencer) run() {
	s.phase = Running
	if s.d.Stage != nil {
		s.d.Stage.ShowOverlay(true)
	}
	s.render(s.index)
	s.clearTimer()
	s.timer = s.d.Sched.Every(s.timing.SlideDuration, s.tick)
}

func (s *Sequencer) tick() {
	if s.phase != Running {
		return
	}
	s.index++
	if s.index >= len(s.slides)-1 {
		s.finale()
		return
	}
	s.render(s.index)
}

// Next shows the following slide without touching the advance timer. It only
// works while slides are running and stops at the last slide.
func (s *Sequencer) Next() bool {
	if s.phase != Running {
		return false
	}
	s.index = min(len(s.slides)-1, s.index+1)
	s.render(s.index)
	return true
}

// Prev shows the previous slide, stopping at the first.
func (s *Sequencer) Prev() bool {
	if s.phase != Running {
		return false
	}
	s.index = max(0, s.index-1)
	s.render(s.index)
	return true
}

// render hides the image, then after the swap delay shows slide i with its
// pan and starts typing its caption. A newer render replaces a pending one.
func (s *Sequencer) render(i int) {
	sl := s.slides[i]
	s.d.Sched.Cancel(s.swap)
	s.typer.Cancel()
	if s.d.Stage != nil {
		s.d.Stage.HideImage()
	}
	s.swap = s.d.Sched.After(s.timing.SwapDelay, func() {
		s.swap = 0
		if s.d.Stage != nil {
			s.d.Stage.SetCaption("")
			s.d.Stage.ShowImage(sl.Image, sl.Pan)
		}
		s.typer.Start(sl.Caption)
	})
}

func (s *Sequencer) finale() {
	s.clearTimer()
	s.phase = Finale
	s.index = len(s.slides) - 1
	s.render(s.index)
	s.d.Logger.Info("slideshow finale")

	s.later(s.timing.FinaleDelay, func() {
		var w float64
		if s.d.Stage != nil {
			w, _ = s.d.Stage.Size()
		}
		for i := 0; i < s.timing.FinaleBursts; i++ {
			s.later(time.Duration(i)*s.timing.BurstStagger, func() {
				if s.d.Effects == nil {
					return
				}
				x := w * (0.2 + s.d.Rand.Float64()*0.6)
				y := 130 + s.d.Rand.Float64()*200
				s.d.Effects.Fireworks(x, y, s.timing.BurstSize)
			})
		}
		if s.d.Stage != nil {
			s.d.Stage.ShowFinalText(true)
		}
		s.d.Fader.Fade(s.d.Secondary, s.timing.FinaleVolume, s.timing.FadeStop)
		s.later(s.timing.ConfettiDelay, func() {
			if s.d.Effects == nil {
				return
			}
			burst := confetti.Burst{ParticleCount: 200, Spread: 160, Origin: &confetti.Origin{X: 0.5, Y: 0.6}}
			if err := s.d.Effects.Confetti(burst); err != nil && !errors.Is(err, confetti.ErrUnavailable) {
				s.d.Logger.Warn("finale confetti failed", "error", err)
			}
		})
		s.later(s.timing.FinaleStop, func() { s.Stop() })
	})
}

// later schedules a finale step that is dropped if the show stops first.
func (s *Sequencer) later(d time.Duration, fn func()) {
	sess := s.session
	s.choreo = append(s.choreo, s.d.Sched.After(d, func() {
		if s.session == sess {
			fn()
		}
	}))
}

// Stop ends the show from any phase: the advance timer and all pending
// steps are cancelled, the overlay is hidden, the slideshow track fades out
// and pauses, and the pulse stops. It returns false when already idle.
func (s *Sequencer) Stop() bool {
	if s.phase == Idle {
		return false
	}
	s.session++
	sess := s.session
	s.phase = Idle

	s.clearTimer()
	s.d.Sched.Cancel(s.swap)
	s.swap = 0
	for _, h := range s.choreo {
		s.d.Sched.Cancel(h)
	}
	s.choreo = s.choreo[:0]
	s.typer.Cancel()

	if s.d.Stage != nil {
		s.d.Stage.ShowOverlay(false)
	}
	sec := s.d.Secondary
	s.d.Fader.Fade(sec, 0, s.timing.FadeStop).Then(func() {
		// a new show may have taken the track over in the meantime
		if s.session == sess && sec != nil {
			sec.Pause()
		}
	})
	if s.d.Monitor != nil {
		s.d.Monitor.Stop()
	}
	if s.d.Stage != nil {
		s.d.Stage.ShowFinalText(false)
	}
	s.d.Logger.Info("slideshow stopped", "index", s.index)
	if s.d.OnStop != nil {
		s.d.OnStop()
	}
	return true
}

func (s *Sequencer) clearTimer() {
	s.d.Sched.Cancel(s.timer)
	s.timer = 0
}
