package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/celebration/internal/config"
)

// button is a clickable rectangle. Only visible buttons react to the mouse.
type button struct {
	label   string
	x, y    int
	w, h    int
	visible func() bool
	onClick func()

	hovered bool
	pressed bool
}

func (b *button) shown() bool { return b.visible == nil || b.visible() }

func (b *button) contains(x, y int) bool {
	return x >= b.x && x <= b.x+b.w && y >= b.y && y <= b.y+b.h
}

// update tracks hover and press; a click is a release over the button that
// was also pressed over it.
func (b *button) update(mouseX, mouseY int) {
	if !b.shown() {
		b.hovered, b.pressed = false, false
		return
	}
	b.hovered = b.contains(mouseX, mouseY)
	if b.hovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		b.pressed = true
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if b.pressed && b.hovered && b.onClick != nil {
			b.onClick()
		}
		b.pressed = false
	}
}

func (b *button) draw(screen *ebiten.Image, f *faces) {
	if !b.shown() {
		return
	}
	var bg color.Color
	if b.pressed {
		bg = color.RGBA{R: 150, G: 60, B: 110, A: 255} // Pressed
	} else if b.hovered {
		bg = color.RGBA{R: 190, G: 80, B: 140, A: 255} // Hovered
	} else {
		bg = color.RGBA{R: 220, G: 100, B: 160, A: 230} // Normal
	}
	vector.DrawFilledRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), bg, false)

	border := color.RGBA{R: 255, G: 200, B: 230, A: 255}
	vector.StrokeRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), 2, border, false)

	drawCentered(screen, b.label, f.button, float64(b.x)+float64(b.w)/2, float64(b.y)+float64(b.h)/2-10, 1, color.White)
}

func (g *Game) initButtons() {
	idle := func() bool { return !g.stage.overlay }
	showing := func() bool { return g.seq.Running() }

	g.musicBtn = &button{label: "Play Music", visible: idle, onClick: g.toggleMusic}
	g.buttons = []*button{
		{label: "Make a Wish", visible: idle, onClick: g.wish},
		g.musicBtn,
		{label: "Slideshow", visible: idle, onClick: g.startSlides},
		{label: "Open Media", visible: func() bool { return !g.seq.Running() }, onClick: g.openMedia},
		{label: "< Prev", visible: showing, onClick: func() { g.seq.Prev() }},
		{label: "Next >", visible: showing, onClick: func() { g.seq.Next() }},
		{label: "End", visible: showing, onClick: func() { g.seq.Stop() }},
	}
	g.layoutButtons()
}

// layoutButtons stacks the main buttons down the left edge and lines the
// slideshow buttons up along the bottom.
func (g *Game) layoutButtons() {
	main, nav := g.buttons[:4], g.buttons[4:]
	for i, b := range main {
		b.x = config.ButtonX
		b.y = config.ButtonY + i*(config.ButtonHeight+config.ButtonGap)
		b.w, b.h = config.ButtonWidth, config.ButtonHeight
	}

	navWidth := 110
	total := len(nav)*navWidth + (len(nav)-1)*config.ButtonGap
	x := (g.w - total) / 2
	for _, b := range nav {
		b.x, b.y = x, g.h-config.ButtonHeight-36
		b.w, b.h = navWidth, config.ButtonHeight
		x += navWidth + config.ButtonGap
	}
}
