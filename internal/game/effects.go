package game

import (
	"errors"

	"github.com/iburimskiy/celebration/internal/confetti"
	"github.com/iburimskiy/celebration/internal/particle"
)

const (
	wishFireworksY     = 140
	wishFireworksCount = 60

	controlFireworksY     = 120
	controlFireworksCount = 120
)

// effects hands the sequencer's bursts to the particle layers.
type effects struct {
	fireworks *particle.Renderer
	confetti  *confetti.Cannon
}

func (e *effects) Fireworks(x, y float64, count int) {
	e.fireworks.Spawn(x, y, count, particle.RandomHue)
}

func (e *effects) Confetti(b confetti.Burst) error {
	return e.confetti.Fire(b)
}

// Point is a screen position in pixels.
type Point struct {
	X, Y float64
}

// Controls triggers the show's effects directly, the same way the buttons
// and keys do. It is what the debug keys drive.
type Controls struct {
	g *Game
}

// Confetti fires one burst. It fails with confetti.ErrUnavailable when
// confetti is turned off.
func (c *Controls) Confetti(b confetti.Burst) error {
	return c.g.fx.Confetti(b)
}

// Fireworks bursts 120 sparks at p, or near the top centre when p is nil.
func (c *Controls) Fireworks(p *Point) {
	at := Point{X: float64(c.g.w) / 2, Y: controlFireworksY}
	if p != nil {
		at = *p
	}
	c.g.fx.Fireworks(at.X, at.Y, controlFireworksCount)
}

// StartSlides begins the slideshow; false means it was already running or
// there is nothing to show.
func (c *Controls) StartSlides() bool {
	return c.g.seq.Start()
}

// wish is the "Make a Wish" action: confetti and a single-hue burst.
func (g *Game) wish() {
	if err := g.fx.Confetti(confetti.Burst{ParticleCount: 100, Spread: 90}); err != nil && !errors.Is(err, confetti.ErrUnavailable) {
		g.logger.Warn("wish confetti failed", "error", err)
	}
	g.fireworks.Spawn(float64(g.w)/2, wishFireworksY, wishFireworksCount, particle.Hue(g.rng.Float64()*360))
}
