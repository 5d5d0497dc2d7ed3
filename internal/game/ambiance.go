package game

import (
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween/ease"

	"github.com/iburimskiy/celebration/internal/config"
	"github.com/iburimskiy/celebration/internal/schedule"
)

const (
	bulbFade    = 700 * time.Millisecond
	bulbBob     = 600 * time.Millisecond
	balloonRise = 14 * time.Second
	cakeLift    = 800 * time.Millisecond
)

var balloonColors = []color.RGBA{
	{0xff, 0x6b, 0xcb, 0xff},
	{0x6b, 0xe0, 0xff, 0xff},
	{0xff, 0xd3, 0x6b, 0xff},
	{0xa7, 0x8b, 0xfa, 0xff},
}

type bulb struct {
	alpha *ramp
	bob   *ramp
}

type balloon struct {
	x, size float64 // x is a fraction of the width
	below   float64 // start offset under the bottom edge, pixels
	color   color.RGBA
	rise    *ramp // fraction of the screen height travelled
	turn    *ramp // degrees
}

// ambiance is the party decoration drawn behind everything: a string of
// bulbs, a handful of balloons drifting up and a cake that hops once.
type ambiance struct {
	sched    *schedule.Scheduler
	bulbs    []*bulb
	balloons []*balloon
	cakeY    *ramp
	cakeK    *ramp
	bobber   schedule.Handle
}

func newAmbiance(s *schedule.Scheduler, rng *rand.Rand) *ambiance {
	a := &ambiance{
		sched: s,
		cakeY: still(0),
		cakeK: still(1),
	}
	for i := 0; i < config.BulbCount; i++ {
		delay := 350*time.Millisecond + time.Duration(i)*120*time.Millisecond
		a.bulbs = append(a.bulbs, &bulb{
			alpha: newRamp(0.15, 0.95, delay, bulbFade, ease.InOutQuad),
			bob:   still(0),
		})
	}
	for i := 0; i < config.BalloonCount; i++ {
		delay := time.Duration(i)*400*time.Millisecond + time.Duration(rng.Float64()*800)*time.Millisecond
		a.balloons = append(a.balloons, &balloon{
			x:     rng.Float64(),
			size:  30 + rng.Float64()*80,
			below: 50 + rng.Float64()*180,
			color: balloonColors[rng.Intn(len(balloonColors))],
			rise:  newRamp(0, 1.4, delay, balloonRise, ease.Linear),
			turn:  newRamp(0, rng.Float64()*360, delay, balloonRise, ease.Linear),
		})
	}

	a.bobber = s.Every(bulbBob, func() {
		t := s.Now().Seconds()
		for i, b := range a.bulbs {
			b.bob = newRamp(b.bob.value, math.Sin(t+float64(i))*4, 0, bulbFade, ease.InOutQuad)
		}
	})
	s.After(900*time.Millisecond, func() {
		a.cakeY = newRamp(a.cakeY.value, -8, 0, cakeLift, ease.OutCubic)
		a.cakeK = newRamp(a.cakeK.value, 1.02, 0, cakeLift, ease.OutCubic)
	})
	s.After(1800*time.Millisecond, func() {
		a.cakeY = newRamp(a.cakeY.value, 0, 0, cakeLift, ease.OutCubic)
		a.cakeK = newRamp(a.cakeK.value, 1, 0, cakeLift, ease.OutCubic)
	})
	return a
}

func (a *ambiance) update(dt float32) {
	for _, b := range a.bulbs {
		b.alpha.update(dt)
		b.bob.update(dt)
	}
	for _, b := range a.balloons {
		b.rise.update(dt)
		b.turn.update(dt)
	}
	a.cakeY.update(dt)
	a.cakeK.update(dt)
}

func (a *ambiance) close() {
	a.sched.Cancel(a.bobber)
}

func (a *ambiance) draw(screen *ebiten.Image, w, h float64) {
	a.drawBalloons(screen, w, h)
	a.drawBulbs(screen, w)
	a.drawCake(screen, w, h)
}

func (a *ambiance) drawBulbs(screen *ebiten.Image, w float64) {
	n := len(a.bulbs)
	if n == 0 {
		return
	}
	step := w / float64(n+1)
	wire := color.RGBA{R: 90, G: 80, B: 100, A: 255}
	vector.StrokeLine(screen, 0, 14, float32(w), 14, 2, wire, true)
	for i, b := range a.bulbs {
		x := step * float64(i+1)
		y := 26 + b.bob.value
		r, g, bl := hsvToRgb(float64(i)*45, 0.6, 1)
		c := color.RGBA{R: r, G: g, B: bl, A: 255}
		vector.DrawFilledCircle(screen, float32(x), float32(y), 14, withAlpha(c, b.alpha.value*0.25), true)
		vector.DrawFilledCircle(screen, float32(x), float32(y), 7, withAlpha(c, b.alpha.value), true)
	}
}

func (a *ambiance) drawBalloons(screen *ebiten.Image, w, h float64) {
	str := color.RGBA{R: 200, G: 200, B: 210, A: 160}
	for _, b := range a.balloons {
		cx := b.x * w
		cy := h + b.below + b.size*0.6 - b.rise.value*h
		if cy+b.size*2 < 0 {
			continue
		}
		rad := b.turn.value * math.Pi / 180
		// tilt the string with the balloon
		sx := cx - math.Sin(rad)*b.size*0.6
		sy := cy + math.Cos(rad)*b.size*0.6
		vector.StrokeLine(screen, float32(sx), float32(sy), float32(sx-math.Sin(rad)*b.size), float32(sy+math.Cos(rad)*b.size), 1, str, true)
		drawEllipse(screen, cx, cy, b.size/2, b.size*0.6, rad, withAlpha(b.color, 0.95))
	}
}

func (a *ambiance) drawCake(screen *ebiten.Image, w, h float64) {
	k := a.cakeK.value
	cw, ch := 120*k, 70*k
	x := w - cw - 40
	y := h - ch - 30 + a.cakeY.value
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(cw), float32(ch), color.RGBA{R: 245, G: 190, B: 210, A: 255}, true)
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(cw), float32(14*k), color.RGBA{R: 255, G: 245, B: 250, A: 255}, true)
	for i := 0; i < 3; i++ {
		cx := x + cw*float64(i+1)/4
		vector.DrawFilledRect(screen, float32(cx-3), float32(y-22*k), 6, float32(22*k), color.RGBA{R: 130, G: 200, B: 255, A: 255}, true)
		vector.DrawFilledCircle(screen, float32(cx), float32(y-27*k), 5, color.RGBA{R: 255, G: 200, B: 60, A: 255}, true)
	}
}

// drawEllipse fills an ellipse with radii rx, ry rotated by rot radians.
func drawEllipse(screen *ebiten.Image, cx, cy, rx, ry, rot float64, clr color.Color) {
	const segments = 32
	var p vector.Path
	for i := 0; i <= segments; i++ {
		t := 2 * math.Pi * float64(i) / segments
		x, y := rx*math.Cos(t), ry*math.Sin(t)
		px := cx + x*math.Cos(rot) - y*math.Sin(rot)
		py := cy + x*math.Sin(rot) + y*math.Cos(rot)
		if i == 0 {
			p.MoveTo(float32(px), float32(py))
		} else {
			p.LineTo(float32(px), float32(py))
		}
	}
	p.Close()

	vs, is := p.AppendVerticesAndIndicesForFilling(nil, nil)
	r, g, b, a := clr.RGBA()
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR = float32(r) / 0xffff
		vs[i].ColorG = float32(g) / 0xffff
		vs[i].ColorB = float32(b) / 0xffff
		vs[i].ColorA = float32(a) / 0xffff
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true, ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha}
	screen.DrawTriangles(vs, is, whitePixel(), op)
}
