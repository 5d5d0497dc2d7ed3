package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// glow is the soft halo behind the slide. The amplitude monitor sets its
// opacity while the slideshow track plays.
type glow struct {
	opacity float64
	color   color.RGBA
}

func newGlow() *glow {
	return &glow{color: color.RGBA{R: 255, G: 120, B: 190, A: 255}}
}

func (g *glow) SetOpacity(v float64) { g.opacity = clamp01(v) }

func (g *glow) reset() { g.opacity = 0 }

func (g *glow) draw(screen *ebiten.Image, cx, cy, radius float64) {
	if g.opacity <= 0 {
		return
	}
	const rings = 6
	for i := rings; i > 0; i-- {
		f := float64(i) / rings
		a := g.opacity * (1 - f) * 0.8
		vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(radius*(0.6+0.6*f)), withAlpha(g.color, a), true)
	}
}
