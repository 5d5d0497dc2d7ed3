// Package game is the birthday show window: greeting, decorations, buttons,
// the slideshow overlay and the effect layers, driven by one scheduler that
// advances on every Ebitengine tick.
package game

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/celebration/internal/audio"
	"github.com/iburimskiy/celebration/internal/config"
	"github.com/iburimskiy/celebration/internal/confetti"
	"github.com/iburimskiy/celebration/internal/particle"
	"github.com/iburimskiy/celebration/internal/schedule"
	"github.com/iburimskiy/celebration/internal/slides"
)

// Options are the command-line choices that are not part of the config file.
type Options struct {
	Logger *slog.Logger
	Seed   int64 // zero seeds from the clock
	Mute   bool  // do not open the audio device
}

type Game struct {
	cfg    *config.Config
	logger *slog.Logger
	rng    *rand.Rand

	sched   *schedule.Scheduler
	fader   *audio.Fader
	monitor *audio.Monitor
	seq     *slides.Sequencer

	// audio
	out       *audio.Output
	primary   *audio.Track
	secondary *audio.Track

	// layers
	media     *media
	faces     *faces
	stage     *stage
	glow      *glow
	ambiance  *ambiance
	intro     *intro
	fireworks *particle.Renderer
	confetti  *confetti.Cannon
	fx        *effects
	controls  *Controls

	// buttons
	buttons  []*button
	musicBtn *button

	w, h    int
	elapsed time.Duration
	lastErr error
}

// New builds the show. Missing media, a missing audio device or a disabled
// effect only switch the matching feature off; the error return is kept for
// what the window cannot do without.
func New(cfg *config.Config, opts Options) (*Game, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	f, err := loadFaces()
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:     cfg,
		logger:  logger,
		rng:     rand.New(rand.NewSource(seed)),
		sched:   schedule.New(),
		faces:   f,
		w:       cfg.Window.Width,
		h:       cfg.Window.Height,
	}
	g.fader = audio.NewFader(g.sched)
	g.monitor = audio.NewMonitor(g.sched, monitorConfig(cfg.Pulse), logger)
	g.media = newMedia(cfg.Assets.Dir, logger)

	if !opts.Mute {
		out, err := audio.NewOutput(cfg.Audio.SampleRate)
		if err != nil {
			logger.Warn("audio disabled", "error", err)
		} else {
			g.out = out
		}
	}
	g.openTracks()

	list, err := g.media.manifest(cfg.Assets.Manifest)
	if err != nil {
		logger.Warn("no slides", "error", err)
	}

	g.fireworks, err = particle.New(g.w, g.h, g.rng)
	if err != nil {
		logger.Warn("fireworks disabled", "error", err)
	}
	if cfg.Effects.Confetti {
		g.confetti = confetti.New(g.w, g.h, g.rng)
	}
	g.fx = &effects{fireworks: g.fireworks, confetti: g.confetti}
	g.controls = &Controls{g: g}

	g.glow = newGlow()
	g.stage = newStage(g.media, f, cfg.Slides.FinalText, g.w, g.h)
	g.seq = slides.NewSequencer(list, timing(cfg), slides.Deps{
		Sched:     g.sched,
		Fader:     g.fader,
		Primary:   channel(g.primary),
		Secondary: channel(g.secondary),
		Monitor:   g.monitor,
		Glow:      g.glow,
		Pulse:     g.stage,
		Stage:     g.stage,
		Effects:   g.fx,
		Rand:      g.rng,
		Logger:    logger,
		OnStop:    g.glow.reset,
	})

	g.ambiance = newAmbiance(g.sched, g.rng)
	g.intro = newIntro(g.sched, cfg.Intro, g.rng)
	g.intro.start()
	if cfg.Effects.Confetti {
		g.sched.After(cfg.Effects.InitialBurst.D(), func() {
			if err := g.confetti.Fire(confetti.Burst{
				ParticleCount: cfg.Effects.InitialCount,
				Spread:        cfg.Effects.InitialSpread,
			}); err != nil {
				logger.Warn("initial confetti failed", "error", err)
			}
		})
	}
	g.initButtons()

	logger.Info("show ready", "slides", len(list), "audio", g.out != nil, "seed", seed)
	return g, nil
}

func timing(cfg *config.Config) slides.Timing {
	return slides.Timing{
		SlideDuration: cfg.Slides.Duration.D(),
		SwapDelay:     cfg.Slides.SwapDelay.D(),
		FinaleDelay:   cfg.Slides.FinaleDelay.D(),
		FinaleStop:    cfg.Slides.FinaleStop.D(),
		ConfettiDelay: cfg.Slides.ConfettiDelay.D(),
		BurstStagger:  cfg.Slides.BurstStagger.D(),
		FinaleBursts:  cfg.Slides.FinaleBursts,
		BurstSize:     cfg.Slides.BurstSize,
		FinaleVolume:  cfg.Slides.FinaleVolume,
		FadeOut:       cfg.Audio.FadeOut.D(),
		FadeIn:        cfg.Audio.FadeIn.D(),
		FadeStop:      cfg.Audio.FadeStop.D(),
		Caption: slides.TyperConfig{
			MinDelay:   cfg.Caption.MinDelay.D(),
			MaxDelay:   cfg.Caption.MaxDelay.D(),
			TypoChance: cfg.Caption.TypoChance,
			TypoFix:    cfg.Caption.TypoFix.D(),
		},
	}
}

func monitorConfig(p config.PulseConfig) audio.MonitorConfig {
	return audio.MonitorConfig{
		Interval:  p.Interval.D(),
		Bins:      p.Bins,
		FFTSize:   p.FFTSize,
		GlowBase:  p.GlowBase,
		GlowGain:  p.GlowGain,
		ScaleGain: p.ScaleGain,
	}
}

// Controls returns the effect triggers.
func (g *Game) Controls() *Controls { return g.controls }

func (g *Game) openTracks() {
	if g.out == nil {
		return
	}
	g.primary = g.media.track(g.out, g.cfg.Assets.Primary, g.cfg.Assets.LoopPrimary)
	g.secondary = g.media.track(g.out, g.cfg.Assets.Secondary, false)
}

func (g *Game) closeTracks() {
	for _, t := range []*audio.Track{g.primary, g.secondary} {
		if t == nil {
			continue
		}
		if err := t.Close(); err != nil {
			g.logger.Debug("close track", "track", t.Name(), "error", err)
		}
	}
	g.primary, g.secondary = nil, nil
}

func (g *Game) Update() error {
	if err := g.handleInput(); err != nil {
		return err
	}
	g.tick()
	return nil
}

// tick advances the show by one frame.
func (g *Game) tick() {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = 60
	}
	dt := time.Second / time.Duration(tps)
	g.elapsed += dt
	g.sched.Advance(dt)

	sec := float32(dt.Seconds())
	g.ambiance.update(sec)
	g.stage.update(sec)
	g.fireworks.Update()
	g.confetti.Update()
}

func (g *Game) handleInput() error {
	justPressed := inpututil.IsKeyJustPressed

	mouseX, mouseY := ebiten.CursorPosition()
	for _, b := range g.buttons {
		b.update(mouseX, mouseY)
	}

	switch {
	case justPressed(ebiten.KeyQ):
		return ebiten.Termination
	case justPressed(ebiten.KeyEscape):
		if !g.seq.Stop() {
			return ebiten.Termination
		}
	case justPressed(ebiten.KeyEnter):
		g.startSlides()
	case justPressed(ebiten.KeyArrowLeft):
		g.seq.Prev()
	case justPressed(ebiten.KeyArrowRight):
		g.seq.Next()
	case justPressed(ebiten.KeySpace):
		g.toggleMusic()
	case justPressed(ebiten.KeyW):
		g.wish()
	case justPressed(ebiten.KeyO):
		g.openMedia()
	case justPressed(ebiten.KeyC):
		if err := g.controls.Confetti(confetti.Burst{}); err != nil {
			g.lastErr = err
		}
	case justPressed(ebiten.KeyF):
		g.controls.Fireworks(nil)
	case justPressed(ebiten.KeyS):
		g.controls.StartSlides()
	}
	return nil
}

func (g *Game) startSlides() {
	if g.seq.Len() == 0 {
		g.lastErr = slides.ErrEmptyManifest
		return
	}
	g.seq.Start()
}

// toggleMusic plays or pauses the background track. A track left silent by
// an earlier slideshow is faded back up.
func (g *Game) toggleMusic() {
	if g.primary == nil {
		g.lastErr = fmt.Errorf("background music: %w", audio.ErrNoChannel)
		return
	}
	if g.primary.Playing() {
		g.primary.Pause()
	} else {
		if err := g.primary.Play(); err != nil {
			g.lastErr = err
			return
		}
		if g.primary.Volume() < 1 && !g.fader.Fading(g.primary) {
			g.fader.Fade(g.primary, 1, g.cfg.Audio.FadeIn.D())
		}
	}
	g.syncMusicLabel()
}

func (g *Game) syncMusicLabel() {
	if g.primary != nil && g.primary.Playing() {
		g.musicBtn.label = "Pause Music"
	} else {
		g.musicBtn.label = "Play Music"
	}
}

// openMedia asks for a media folder and reloads slides and tracks from it.
// The slideshow must not be running.
func (g *Game) openMedia() {
	if g.seq.Running() {
		g.lastErr = errors.New("end the slideshow before opening media")
		return
	}
	dir, err := chooseFolder(g.media.dir)
	if err != nil {
		g.lastErr = err
		return
	}
	if dir == "" {
		return
	}
	g.loadMedia(dir)
}

func (g *Game) loadMedia(dir string) {
	g.media.setDir(dir)
	list, err := g.media.manifest("")
	if err != nil {
		g.lastErr = err
		g.logger.Warn("media folder has no usable slides", "dir", dir, "error", err)
	} else {
		g.seq.SetSlides(list)
	}

	g.closeTracks()
	g.openTracks()
	g.seq.SetChannels(channel(g.primary), channel(g.secondary))
	g.syncMusicLabel()
	g.lastErr = nil
	g.logger.Info("media folder loaded", "dir", dir, "slides", g.seq.Len())
}

func (g *Game) Draw(screen *ebiten.Image) {
	w, h := float64(g.w), float64(g.h)
	g.drawBackground(screen)
	g.ambiance.draw(screen, w, h)

	if !g.seq.Running() {
		drawCentered(screen, g.intro.text, g.faces.intro, w/2, h*0.3, 1, color.RGBA{R: 255, G: 240, B: 250, A: 255})
	}

	if g.stage.overlay {
		g.stage.drawBackdrop(screen)
		fx, fy, fw, fh := g.stage.frameRect()
		g.glow.draw(screen, fx+fw/2, fy+fh/2, math.Max(fw, fh)*0.6)
		g.stage.draw(screen)
	}

	for _, b := range g.buttons {
		b.draw(screen, g.faces)
	}

	g.fireworks.Draw(screen)
	g.confetti.Draw(screen)

	ebitenutil.DebugPrintAt(screen, g.status(), 12, g.h-20)
}

func (g *Game) status() string {
	var s string
	switch g.seq.Phase() {
	case slides.Idle:
		s = "Enter: slideshow, Space: music, W: wish, O: open media, Q: quit"
	case slides.Running:
		s = fmt.Sprintf("Slide %d/%d - Left/Right: browse, Esc: end", g.seq.Index()+1, g.seq.Len())
	default:
		s = "Slideshow: " + g.seq.Phase().String() + " - Esc: end"
	}
	if g.primary != nil && g.primary.Playing() {
		s += fmt.Sprintf(" | Music %s/%s", formatDuration(g.primary.Position()), formatDuration(g.primary.Length()))
	}
	if g.lastErr != nil {
		s += " | Error: " + g.lastErr.Error()
	}
	return s
}

func (g *Game) drawBackground(screen *ebiten.Image) {
	t := g.elapsed.Seconds()
	const band = 4
	for y := 0; y < g.h; y += band {
		ratio := float64(y) / float64(g.h)
		r, gr, b := hsvToRgb(300+30*math.Sin(t*0.2+ratio*math.Pi), 0.55, 0.12+0.08*ratio)
		vector.DrawFilledRect(screen, 0, float32(y), float32(g.w), band, color.RGBA{R: r, G: gr, B: b, A: 255}, false)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 && (outsideWidth != g.w || outsideHeight != g.h) {
		g.resize(outsideWidth, outsideHeight)
	}
	return g.w, g.h
}

func (g *Game) resize(w, h int) {
	g.w, g.h = w, h
	g.fireworks.Resize(w, h)
	g.confetti.Resize(w, h)
	g.stage.resize(w, h)
	g.layoutButtons()
}

// Close stops the show and releases the audio device.
func (g *Game) Close() {
	g.seq.Stop()
	g.monitor.Stop()
	g.intro.stop()
	g.ambiance.close()
	g.closeTracks()
	if g.out != nil {
		g.out.Close()
	}
}
