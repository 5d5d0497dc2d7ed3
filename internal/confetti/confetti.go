// Package confetti fires bursts of tumbling paper flakes from a point on the
// screen. It is an optional capability: a nil *Cannon rejects every burst
// with ErrUnavailable and draws nothing.
package confetti

import (
	"errors"
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var ErrUnavailable = errors.New("confetti: not available")

const (
	defaultCount  = 100
	defaultSpread = 90.0

	launchAngle   = 90.0 // degrees, straight up
	startVelocity = 45.0
	decay         = 0.9
	gravity       = 3.0
	ticks         = 200
)

var palette = []color.RGBA{
	{0x26, 0xcc, 0xff, 0xff},
	{0xa2, 0x5a, 0xfd, 0xff},
	{0xff, 0x5e, 0x7e, 0xff},
	{0x88, 0xff, 0x5a, 0xff},
	{0xfc, 0xff, 0x42, 0xff},
	{0xff, 0xa6, 0x2d, 0xff},
	{0xff, 0x36, 0xff, 0xff},
}

// Origin is a launch point in fractions of the screen size.
type Origin struct {
	X, Y float64
}

// Burst describes one shot. Zero fields take the defaults: 100 flakes,
// 90 degrees of spread, launched from the middle of the screen.
type Burst struct {
	ParticleCount int
	Spread        float64 // degrees
	Origin        *Origin
}

type flake struct {
	x, y        float64
	velocity    float64
	angle       float64
	wobble      float64
	wobbleSpeed float64
	tilt        float64
	tick        int
	color       color.RGBA
}

// Cannon owns the live flakes.
type Cannon struct {
	w, h   float64
	flakes []flake
	rng    *rand.Rand

	vs []ebiten.Vertex
	is []uint16
}

func New(w, h int, rng *rand.Rand) *Cannon {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Cannon{w: float64(w), h: float64(h), rng: rng}
}

// Fire launches a burst.
func (c *Cannon) Fire(b Burst) error {
	if c == nil {
		return ErrUnavailable
	}
	count := b.ParticleCount
	if count <= 0 {
		count = defaultCount
	}
	spread := b.Spread
	if spread <= 0 {
		spread = defaultSpread
	}
	origin := Origin{X: 0.5, Y: 0.5}
	if b.Origin != nil {
		origin = *b.Origin
	}

	radAngle := launchAngle * math.Pi / 180
	radSpread := spread * math.Pi / 180
	for i := 0; i < count; i++ {
		c.flakes = append(c.flakes, flake{
			x:           origin.X * c.w,
			y:           origin.Y * c.h,
			velocity:    startVelocity*0.5 + c.rng.Float64()*startVelocity,
			angle:       -radAngle + (0.5*radSpread - c.rng.Float64()*radSpread),
			wobble:      c.rng.Float64() * 10,
			wobbleSpeed: math.Min(0.11, c.rng.Float64()*0.1+0.05),
			tilt:        (c.rng.Float64()*0.5 + 0.25) * math.Pi,
			color:       palette[c.rng.Intn(len(palette))],
		})
	}
	return nil
}

// Update advances every flake one frame and drops the spent ones.
func (c *Cannon) Update() {
	if c == nil {
		return
	}
	live := c.flakes[:0]
	for _, f := range c.flakes {
		f.x += math.Cos(f.angle) * f.velocity
		f.y += math.Sin(f.angle)*f.velocity + gravity
		f.velocity *= decay
		f.wobble += f.wobbleSpeed
		f.tilt += 0.1
		f.tick++
		if f.tick >= ticks {
			continue
		}
		live = append(live, f)
	}
	c.flakes = live
}

var whiteSubImage *ebiten.Image

func white() *ebiten.Image {
	if whiteSubImage == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

// Draw renders each flake as a tilted quad that fades over its lifetime.
func (c *Cannon) Draw(dst *ebiten.Image) {
	if c == nil || len(c.flakes) == 0 {
		return
	}
	for _, f := range c.flakes {
		r := c.rng.Float64() + 2
		tiltSin, tiltCos := math.Sincos(f.tilt)
		wobbleX := f.x + 10*math.Cos(f.wobble)
		wobbleY := f.y + 10*math.Sin(f.wobble)
		alpha := 1 - float64(f.tick)/ticks

		var p vector.Path
		p.MoveTo(float32(f.x), float32(f.y))
		p.LineTo(float32(wobbleX), float32(f.y+r*tiltSin))
		p.LineTo(float32(wobbleX+r*tiltCos), float32(wobbleY+r*tiltSin))
		p.LineTo(float32(f.x+r*tiltCos), float32(wobbleY))
		p.Close()

		c.vs, c.is = p.AppendVerticesAndIndicesForFilling(c.vs[:0], c.is[:0])
		cr := float32(f.color.R) / 255 * float32(alpha)
		cg := float32(f.color.G) / 255 * float32(alpha)
		cb := float32(f.color.B) / 255 * float32(alpha)
		for i := range c.vs {
			c.vs[i].SrcX, c.vs[i].SrcY = 1, 1
			c.vs[i].ColorR, c.vs[i].ColorG, c.vs[i].ColorB = cr, cg, cb
			c.vs[i].ColorA = float32(alpha)
		}
		dst.DrawTriangles(c.vs, c.is, white(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
	}
}

// Resize keeps launch points relative to the new screen.
func (c *Cannon) Resize(w, h int) {
	if c == nil {
		return
	}
	c.w, c.h = float64(w), float64(h)
}

func (c *Cannon) Len() int {
	if c == nil {
		return 0
	}
	return len(c.flakes)
}
