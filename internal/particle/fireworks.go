// Package particle renders firework bursts: short-lived coloured sparks that
// fly outward, fall under gravity and fade away.
package particle

import (
	"errors"
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ErrNoSurface is returned when the renderer is created without a drawable area.
var ErrNoSurface = errors.New("particle: no drawing surface")

const (
	// DefaultCount is the burst size used when a spawn asks for none.
	DefaultCount = 50

	gravity  = 0.06
	spreadX  = 6.0 // vx in [-3, 3)
	spreadY  = 6.0
	liftBias = 0.9 // vy in [-5.4, 0.6): mostly upward
	minDecay = 0.01
	maxDecay = 0.02
)

// Particle is a single spark. Units are pixels and frames.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Alpha  float64
	Size   float64
	Color  color.RGBA
}

// ColorPolicy picks the colour of each new spark.
type ColorPolicy func(r *rand.Rand) color.RGBA

// RandomHue gives every spark its own fully random hue at 80% saturation,
// 60% lightness.
func RandomHue(r *rand.Rand) color.RGBA {
	return hsl(r.Float64()*360, 0.8, 0.6)
}

// Hue keeps the burst on one hue.
func Hue(h float64) ColorPolicy {
	c := hsl(h, 0.8, 0.6)
	return func(*rand.Rand) color.RGBA { return c }
}

// Renderer owns the live sparks of a w×h surface. A nil *Renderer is valid
// and does nothing, which is what callers hold when no surface exists.
type Renderer struct {
	w, h  int
	parts []Particle
	rng   *rand.Rand
}

func New(w, h int, rng *rand.Rand) (*Renderer, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrNoSurface
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Renderer{w: w, h: h, rng: rng}, nil
}

// Spawn adds a burst of count sparks at (x, y).
func (r *Renderer) Spawn(x, y float64, count int, policy ColorPolicy) {
	if r == nil {
		return
	}
	if count <= 0 {
		count = DefaultCount
	}
	if policy == nil {
		policy = RandomHue
	}
	for i := 0; i < count; i++ {
		r.parts = append(r.parts, Particle{
			X:     x,
			Y:     y,
			VX:    (r.rng.Float64() - 0.5) * spreadX,
			VY:    (r.rng.Float64() - liftBias) * spreadY,
			Alpha: 1,
			Size:  1 + r.rng.Float64()*3,
			Color: policy(r.rng),
		})
	}
}

// Update advances every spark by one frame and drops the ones that faded out.
func (r *Renderer) Update() {
	if r == nil {
		return
	}
	live := r.parts[:0]
	for _, p := range r.parts {
		p.X += p.VX
		p.Y += p.VY
		p.VY += gravity
		p.Alpha -= minDecay + r.rng.Float64()*(maxDecay-minDecay)
		if p.Alpha <= 0 {
			continue
		}
		live = append(live, p)
	}
	// drop references held past the new length
	for i := len(live); i < len(r.parts); i++ {
		r.parts[i] = Particle{}
	}
	r.parts = live
}

func (r *Renderer) Draw(dst *ebiten.Image) {
	if r == nil {
		return
	}
	for _, p := range r.parts {
		c := p.Color
		c.A = uint8(math.Round(p.Alpha * 255))
		vector.DrawFilledCircle(dst, float32(p.X), float32(p.Y), float32(p.Size), color.NRGBA(c), true)
	}
}

// Resize resets the surface; sparks in flight are lost.
func (r *Renderer) Resize(w, h int) {
	if r == nil || w <= 0 || h <= 0 {
		return
	}
	if w == r.w && h == r.h {
		return
	}
	r.w, r.h = w, h
	r.parts = r.parts[:0]
}

// Size returns the surface dimensions.
func (r *Renderer) Size() (int, int) {
	if r == nil {
		return 0, 0
	}
	return r.w, r.h
}

// Len returns the number of live sparks.
func (r *Renderer) Len() int {
	if r == nil {
		return 0
	}
	return len(r.parts)
}

// Each calls fn for every live spark.
func (r *Renderer) Each(fn func(p Particle)) {
	if r == nil {
		return
	}
	for _, p := range r.parts {
		fn(p)
	}
}

// hsl converts hue (degrees), saturation and lightness in [0,1] to RGB.
func hsl(h, s, l float64) color.RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return color.RGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 255,
	}
}
